package response

import "github.com/haasonsaas/agrisense/internal/queryerr"

// bilingualMessage is a fixed English/Persian pair for one error kind.
type bilingualMessage struct {
	En string
	Fa string
}

var catalog = map[queryerr.Kind]bilingualMessage{
	queryerr.KindBadRequest: {
		En: "Please provide a query.",
		Fa: "لطفاً یک پرسش وارد کنید.",
	},
	queryerr.KindValidationError: {
		En: "The request could not be translated into a valid, safe query.",
		Fa: "درخواست به یک پرسش معتبر و ایمن تبدیل نشد.",
	},
	queryerr.KindMappingError: {
		En: "The requested sensor could not be identified.",
		Fa: "حسگر درخواست‌شده شناسایی نشد.",
	},
	queryerr.KindExecutionError: {
		En: "The data store could not complete the query.",
		Fa: "فروشگاه داده نتوانست پرسش را انجام دهد.",
	},
	queryerr.KindEmptyResult: {
		En: "No data is available for the requested sensor or time window.",
		Fa: "داده‌ای برای حسگر یا بازه زمانی درخواست‌شده موجود نیست.",
	},
	queryerr.KindLLMUnavailable: {
		En: "The language assistant is temporarily unavailable; a rule-based answer was used instead.",
		Fa: "دستیار زبانی موقتاً در دسترس نیست؛ به‌جای آن پاسخ مبتنی بر قانون استفاده شد.",
	},
	queryerr.KindTimeout: {
		En: "The request timed out.",
		Fa: "زمان پاسخ‌گویی به درخواست به پایان رسید.",
	},
	queryerr.KindCancelled: {
		En: "The request was cancelled.",
		Fa: "درخواست لغو شد.",
	},
	queryerr.KindInternal: {
		En: "An internal error occurred while processing the request.",
		Fa: "در پردازش درخواست خطای داخلی رخ داد.",
	},
}

// errorMessage returns the catalog entry for kind in lang, falling back to
// the internal-error message for an unrecognized kind.
func errorMessage(kind queryerr.Kind, lang string) string {
	msg, ok := catalog[kind]
	if !ok {
		msg = catalog[queryerr.KindInternal]
	}
	if lang == "fa" {
		return msg.Fa
	}
	return msg.En
}

// queryValid reports whether kind implies the IR/SQL itself was invalid, as
// opposed to a downstream execution or infrastructure failure.
func queryValid(kind queryerr.Kind) bool {
	switch kind {
	case queryerr.KindBadRequest, queryerr.KindValidationError, queryerr.KindMappingError:
		return false
	default:
		return true
	}
}
