package domain

// RawRecord is a single CSV row keyed by column name, values exactly as they
// appeared in the file. A missing cell is an absent key.
type RawRecord map[string]string

// Record is a cleaned row. Every value is one of: nil, int64, float64, bool,
// or string (timestamps are RFC 3339 strings).
type Record map[string]any

// Dataset is a parsed CSV payload. Columns carries the header order, which
// the row maps cannot preserve.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []RawRecord
}

// CleanResult is the outcome of a data-quality pass over a Dataset.
// Data-content problems are reported through Errors/Warnings, never raised.
type CleanResult struct {
	Data          []Record
	Columns       []string
	Errors        []string
	Warnings      []string
	OriginalCount int
	CleanedCount  int
}

// OK reports whether the input was usable at all. Warnings do not affect it.
func (r CleanResult) OK() bool {
	return len(r.Errors) == 0
}
