package analysis

import "unicode"

// TypeDistribution counts scalar units by character class: one increment
// per character for text values, one per value for numeric and binary ones.
type TypeDistribution struct {
	Numeric    uint64 `json:"numeric"`
	Alphabetic uint64 `json:"alphabetic"`
	Special    uint64 `json:"special"`
	Unknown    uint64 `json:"unknown"`
}

// Result is the accumulated output of one analysis run. It has a single
// writer (the scan loop) and becomes read-only once the run finishes.
type Result struct {
	// TotalChars counts characters for text values plus bytes for blobs.
	TotalChars       uint64              `json:"total_chars"`
	TypeDistribution TypeDistribution    `json:"type_distribution"`
	CharFrequency    map[rune]uint64     `json:"char_frequency"`
	ColumnFormats    map[string][]string `json:"column_formats"`
}

// NewResult returns a zeroed Result ready to accumulate. Each run starts
// from scratch; there is no cross-run merge.
func NewResult() *Result {
	return &Result{
		CharFrequency: make(map[rune]uint64),
		ColumnFormats: make(map[string][]string),
	}
}

// ObserveText folds one text cell into the result: per-character histogram
// and class counts, plus format detection for the owning column.
func (r *Result) ObserveText(table, column, value string) {
	for _, c := range value {
		r.TotalChars++
		r.CharFrequency[c]++
		switch {
		case unicode.IsDigit(c):
			r.TypeDistribution.Numeric++
		case unicode.IsLetter(c):
			r.TypeDistribution.Alphabetic++
		default:
			r.TypeDistribution.Special++
		}
	}

	key := table + "." + column
	formats, ok := r.ColumnFormats[key]
	if !ok {
		formats = []string{}
	}
	r.ColumnFormats[key] = append(formats, DetectFormats(value, formats)...)
}

// ObserveNumeric records one integer or real cell.
func (r *Result) ObserveNumeric() {
	r.TypeDistribution.Numeric++
}

// ObserveBinary records one blob cell of the given byte length.
func (r *Result) ObserveBinary(byteLen int) {
	r.TotalChars += uint64(byteLen)
	r.TypeDistribution.Unknown++
}

// ObserveNull records a NULL cell. Nulls contribute nothing.
func (r *Result) ObserveNull() {}
