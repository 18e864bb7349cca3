package semantic

import (
	"context"
	"strings"

	"github.com/haasonsaas/agrisense/internal/llm"
)

// fewShotExamples is fixed at startup per spec §4.5: a small set of
// Persian/English query -> canonical-English-shape pairs that anchor the
// LLM translation prompt. Recovered from unified_semantic_service.py's
// prompt templates.
const fewShotExamples = `
q: دمای فعلی گلخانه چقدر است؟ -> current temperature
q: رطوبت خاک در ۲۴ ساعت گذشته -> soil moisture in the last 24 hours
q: مقایسه دمای امروز با دیروز -> compare temperature today vs yesterday
q: میانگین فشار هوا در هفته گذشته -> average pressure last week
`

const translateSystemPrompt = "Translate the Persian agricultural sensor query to canonical English. " +
	"Preserve every time expression and comparison cue exactly. Reply with only the translation." +
	fewShotExamples

// wordSubstitutions is the deterministic fallback translation table, used
// when the LLM endpoint is unavailable. It is not a full translator: it
// maps the domain vocabulary this service understands, leaving anything
// else untouched so ontology/time parsing downstream can still try.
var wordSubstitutions = map[string]string{
	"دما":          "temperature",
	"رطوبت":        "humidity",
	"رطوبت خاک":    "soil moisture",
	"فشار":         "pressure",
	"فشار هوا":     "pressure",
	"نور":          "light",
	"باران":        "rainfall",
	"باد":          "wind speed",
	"آفت":          "pest count",
	"خاک و آب":     "soil moisture and water usage",
	"آبیاری":       "irrigation",
	"میانگین":      "average",
	"حداقل":        "minimum",
	"حداکثر":       "maximum",
	"مقایسه":       "compare",
	"در مقابل":     "vs",
	"امروز":        "today",
	"دیروز":        "yesterday",
	"اخیر":         "recent",
	"گذشته":        "last",
	"ساعت":         "hours",
	"روز":          "days",
	"هفته":         "week",
	"ماه":          "month",
	"هشدار":        "alert",
	"اعلان":        "notification",
	"پیامک":        "sms",
}

// deterministicTranslate applies the substitution table longest-phrase
// first so multi-word domain terms ("رطوبت خاک") win over single words
// ("رطوبت") that happen to be substrings of them.
func deterministicTranslate(q string) string {
	out := q
	phrases := make([]string, 0, len(wordSubstitutions))
	for phrase := range wordSubstitutions {
		phrases = append(phrases, phrase)
	}
	// Longest first so multi-word phrases match before their constituent words.
	for i := 0; i < len(phrases); i++ {
		for j := i + 1; j < len(phrases); j++ {
			if len(phrases[j]) > len(phrases[i]) {
				phrases[i], phrases[j] = phrases[j], phrases[i]
			}
		}
	}
	for _, phrase := range phrases {
		out = strings.ReplaceAll(out, phrase, wordSubstitutions[phrase])
	}
	return out
}

// Translate renders q as canonical English. If lang is already English, q
// is returned unchanged. For Persian, the LLM is tried first (few-shot
// prompt fixed at startup); on failure the deterministic substitution
// table is used instead. Returns the canonical English text and whether
// the LLM path was used.
func Translate(ctx context.Context, q string, lang Lang, client llm.Client) (canonical string, viaLLM bool) {
	if lang == LangEnglish {
		return q, false
	}
	if client != nil {
		text, err := client.Complete(ctx, llm.Request{
			System:      translateSystemPrompt,
			Prompt:      q,
			Temperature: 0.2,
			MaxTokens:   256,
		})
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), true
		}
	}
	return deterministicTranslate(q), false
}
