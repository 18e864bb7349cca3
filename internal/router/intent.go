package router

import (
	"regexp"
	"strings"
)

// Intent is the route C8 picks for one incoming query, per spec §4.6.
type Intent string

const (
	DataQuery       Intent = "data_query"
	AlertManagement Intent = "alert_management"
	Mixed           Intent = "mixed"
)

var alertCueRe = regexp.MustCompile(`(?i)\b(?:alerts?|notify|warn|thresholds?|triggers?)\b|هشدار|اطلاع|آلارم`)

var numericThresholdRe = regexp.MustCompile(`(?i)(>=|<=|>|<|=|above|below|over|under|exceeds?|greater than|less than|بالاتر از|کمتر از)\s*-?\d|-?\d+(\.\d+)?\s*(>=|<=|>|<|=)`)

var reasoningCueRe = regexp.MustCompile(`(?i)\b(?:why|explain|analyz?e|recommend|should i)\b|چرا|تحلیل|توصیه`)

var sensorTermRe = regexp.MustCompile(`(?i)temperature|humidity|moisture|sensor|pressure|دما|رطوبت`)

// alertManagementPhraseRe recognizes an explicit alert-management verb
// phrase (create/list/delete an alert) so it routes to AlertManagement even
// without a numeric threshold in the sentence (e.g. "list my alerts").
var alertManagementPhraseRe = regexp.MustCompile(`(?i)\b(?:create|set up|delete|remove|list|cancel)\b.*\balerts?\b`)

// Classify applies the rule order from spec §4.6: an explicit alert-management
// verb phrase wins outright; otherwise an alert cue combined with a
// numeric threshold routes to alert management; a sensor term combined with
// a reasoning cue routes to mixed; everything else is a plain data query.
func Classify(query string) Intent {
	lower := strings.ToLower(query)

	if alertManagementPhraseRe.MatchString(lower) {
		return AlertManagement
	}
	if alertCueRe.MatchString(lower) && numericThresholdRe.MatchString(lower) {
		return AlertManagement
	}
	if sensorTermRe.MatchString(lower) && reasoningCueRe.MatchString(lower) {
		return Mixed
	}
	return DataQuery
}
