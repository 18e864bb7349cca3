package ontology

// contextGroups maps a context keyword (English or Persian) to the set of
// canonical sensor types it implies, used by lookup_synonym step 4 when no
// direct or partial synonym match is found. Recovered from the source
// service's irrigation/soil phrase tables.
var contextGroups = map[string][]string{
	"soil":              {"soil_moisture"},
	"soil and water":    {"soil_moisture", "water_usage"},
	"irrigation":        {"soil_moisture", "water_usage", "humidity", "temperature"},
	"watering":          {"soil_moisture", "water_usage", "humidity"},
	"should i water":    {"soil_moisture", "water_usage", "humidity", "temperature"},
	"water today":       {"soil_moisture", "water_usage", "humidity", "temperature"},
	"irrigate today":    {"soil_moisture", "water_usage", "humidity", "temperature"},
	"automatic irrigation": {"soil_moisture", "water_usage", "humidity"},
	"irrigation system":   {"soil_moisture", "water_usage", "humidity"},
	"drip irrigation":     {"soil_moisture", "water_usage", "humidity"},
	"sprinkler irrigation": {"soil_moisture", "water_usage", "humidity"},
	"smart irrigation":    {"soil_moisture", "water_usage", "humidity", "temperature"},

	"خاک و آب":     {"soil_moisture", "water_usage"},
	"ابیاری":       {"soil_moisture", "water_usage", "humidity", "temperature"},
	"آبیاری":       {"soil_moisture", "water_usage", "humidity", "temperature"},
	"آب دادن":      {"soil_moisture", "water_usage", "humidity"},
	"آبیاری کنم":   {"soil_moisture", "water_usage", "humidity", "temperature"},
	"آبیاری کنم یا نه": {"soil_moisture", "water_usage", "humidity", "temperature"},
	"آبیاری امروز":  {"soil_moisture", "water_usage", "humidity", "temperature"},
	"آبیاری لازم":   {"soil_moisture", "water_usage", "humidity"},
	"آب خاک":       {"soil_moisture", "water_usage"},
	"رطوبت خاک":    {"soil_moisture", "water_usage"},
	"آبیاری خودکار": {"soil_moisture", "water_usage", "humidity"},
	"سیستم آبیاری": {"soil_moisture", "water_usage", "humidity"},
	"آبیاری قطره‌ای": {"soil_moisture", "water_usage", "humidity"},
	"آبیاری بارانی": {"soil_moisture", "water_usage", "humidity"},
	"آبیاری هوشمند": {"soil_moisture", "water_usage", "humidity", "temperature"},
}

// contextKeywordTypes returns the sensor types implied by a context keyword
// found as a substring of phrase, and the keyword itself, ordered by keyword
// length descending so the most specific phrase wins. Returns (nil, "") if
// no context keyword matches.
func contextKeywordTypes(phrase string) ([]string, string) {
	bestKeyword := ""
	var bestTypes []string
	for kw, types := range contextGroups {
		if !containsFold(phrase, kw) {
			continue
		}
		if len(kw) > len(bestKeyword) {
			bestKeyword = kw
			bestTypes = types
		}
	}
	return bestTypes, bestKeyword
}
