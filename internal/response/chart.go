package response

import "strings"

// chartClass maps a matched keyword phrase to the chart type it implies.
// Classes are checked in order; the first match wins.
var chartClasses = []struct {
	chartType string
	keywords  []string
}{
	{"line", []string{"trend", "روند"}},
	{"bar", []string{"compare", "comparison", "مقایسه"}},
	{"histogram", []string{"distribution", "توزیع"}},
	{"pie", []string{"pie", "share", "سهم"}},
	{"line", []string{"chart", "graph", "نمودار"}},
}

// DetectChart reports whether query asks for a chart and, if so, which
// chart type the matched keyword class implies.
func DetectChart(query string) (requested bool, chartType string) {
	lower := strings.ToLower(query)
	for _, class := range chartClasses {
		for _, kw := range class.keywords {
			if strings.Contains(lower, kw) {
				return true, class.chartType
			}
		}
	}
	return false, ""
}
