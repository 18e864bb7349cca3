package alerts

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/haasonsaas/agrisense/pkg/models"
)

var operatorPatterns = []struct {
	re *regexp.Regexp
	op models.Operator
}{
	{regexp.MustCompile(`>=|above or equal to|at least`), models.OpGreaterOrEqual},
	{regexp.MustCompile(`<=|below or equal to|at most`), models.OpLessOrEqual},
	{regexp.MustCompile(`>|above|over|exceeds?|greater than|بالاتر از|بیشتر از`), models.OpGreaterThan},
	{regexp.MustCompile(`<|below|under|less than|کمتر از|پایین تر از`), models.OpLessThan},
	{regexp.MustCompile(`=|equals?|is exactly|برابر با`), models.OpEqual},
}

var numberRe = regexp.MustCompile(`-?\d+(\.\d+)?`)

var severityKeywords = []struct {
	keyword  string
	severity models.Severity
}{
	{"critical", models.SeverityCritical},
	{"urgent", models.SeverityCritical},
	{"بحرانی", models.SeverityCritical},
	{"warning", models.SeverityWarning},
	{"هشدار", models.SeverityWarning},
	{"info", models.SeverityInfo},
	{"اطلاع", models.SeverityInfo},
}

var actionKeywords = []struct {
	keyword string
	action  models.Action
}{
	{"email", models.ActionEmail},
	{"ایمیل", models.ActionEmail},
	{"sms", models.ActionSMS},
	{"text message", models.ActionSMS},
	{"پیامک", models.ActionSMS},
	{"notify", models.ActionNotification},
	{"notification", models.ActionNotification},
	{"اعلان", models.ActionNotification},
	{"automatically", models.ActionAuto},
	{"auto", models.ActionAuto},
	{"log", models.ActionLog},
}

var timeWindowRe = regexp.MustCompile(`(?i)(?:over\s+the\s+)?(?:last|past)\s+(\d+)\s*(minute|hour|day|week)s?`)

// ParseResult is the outcome of parsing natural language into an AlertSpec.
// SensorType is left for the caller to resolve via the Ontology Registry;
// EntityPhrase is the raw text fragment a caller can feed to lookup_synonym.
type ParseResult struct {
	Spec         models.AlertSpec
	EntityPhrase string
}

// Parse extracts an AlertSpec from a natural-language alert request. It does
// not resolve EntityPhrase against the Ontology Registry -- callers compose
// Parse with an ontology lookup to fill in Spec.SensorType.
func Parse(nl, sessionID string) ParseResult {
	lower := strings.ToLower(nl)

	spec := models.AlertSpec{
		SessionID: sessionID,
		Severity:  models.SeverityWarning,
		Active:    true,
	}

	withoutWindow := timeWindowRe.ReplaceAllString(lower, " ")

	spec.Operator = detectOperator(lower)
	spec.Threshold = detectThreshold(withoutWindow)
	spec.Severity = detectSeverity(lower)
	spec.Action = detectAction(lower)
	spec.TimeWindowMinutes = detectTimeWindowMinutes(lower)

	return ParseResult{Spec: spec, EntityPhrase: entityPhrase(lower)}
}

func detectOperator(lower string) models.Operator {
	for _, p := range operatorPatterns {
		if p.re.MatchString(lower) {
			return p.op
		}
	}
	return models.OpGreaterThan
}

func detectThreshold(lower string) float64 {
	m := numberRe.FindString(lower)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func detectSeverity(lower string) models.Severity {
	for _, k := range severityKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.severity
		}
	}
	return models.SeverityWarning
}

func detectAction(lower string) models.Action {
	for _, k := range actionKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.action
		}
	}
	return ""
}

func detectTimeWindowMinutes(lower string) int {
	m := timeWindowRe.FindStringSubmatch(lower)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	switch m[2] {
	case "minute":
		return n
	case "hour":
		return n * 60
	case "day":
		return n * 60 * 24
	case "week":
		return n * 60 * 24 * 7
	default:
		return 0
	}
}

// noiseWordRe matches entityPhrase's noise vocabulary on word boundaries
// only, so short entries like "a" or "me" strip the standalone word and
// never a substring of a longer sensor name (e.g. "temperature").
var noiseWordRe = regexp.MustCompile(`(?i)\b(?:alert me when|notify me when|alert me if|let me know if|warn me if|send me a|when|if|me|a|an)\b`)

// entityPhrase strips the recognized condition/severity/action/time-window
// vocabulary from the request, leaving the sensor-naming fragment behind
// for ontology lookup. It is intentionally crude: a best-effort phrase, not
// a full parse.
func entityPhrase(lower string) string {
	phrase := numberRe.ReplaceAllString(lower, " ")
	for _, p := range operatorPatterns {
		phrase = p.re.ReplaceAllString(phrase, " ")
	}
	phrase = timeWindowRe.ReplaceAllString(phrase, " ")
	for _, k := range severityKeywords {
		phrase = strings.ReplaceAll(phrase, k.keyword, " ")
	}
	for _, k := range actionKeywords {
		phrase = strings.ReplaceAll(phrase, k.keyword, " ")
	}
	phrase = noiseWordRe.ReplaceAllString(phrase, " ")
	return strings.TrimSpace(strings.Join(strings.Fields(phrase), " "))
}
