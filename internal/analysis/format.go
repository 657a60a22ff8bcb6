package analysis

import "strings"

// Format labels attached to a column once a qualifying value is seen.
const (
	FormatEmail = "Email"
	FormatURL   = "URL"
)

// DetectFormats inspects one text value and returns the format labels it
// newly qualifies for, in rule order, skipping labels already detected for
// the column. Both rules may fire on the same value. The rules are
// heuristics, not validators; false positives are fine.
func DetectFormats(value string, detected []string) []string {
	var labels []string
	if strings.Contains(value, "@") && strings.Contains(value, ".") &&
		!hasLabel(detected, FormatEmail) {
		labels = append(labels, FormatEmail)
	}
	if (strings.HasPrefix(value, "http") || strings.HasPrefix(value, "www")) &&
		!hasLabel(detected, FormatURL) {
		labels = append(labels, FormatURL)
	}
	return labels
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
