package exporter

import (
	"strconv"
)

// formatFloat keeps full precision so exported tables match the JSON report
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatOptional(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}
