package domain

// Column type names reported by the structure inspector. A column with
// more than one value type in its sample is ColumnTypeMixed; a column with
// no non-null samples is ColumnTypeUnknown.
const (
	ColumnTypeString  = "string"
	ColumnTypeNumber  = "number"
	ColumnTypeBoolean = "boolean"
	ColumnTypeMixed   = "mixed"
	ColumnTypeUnknown = "unknown"
)

// Data quality grades derived from average column completeness.
const (
	QualityExcellent = "Excellent"
	QualityGood      = "Good"
	QualityFair      = "Fair"
	QualityPoor      = "Poor"
)

// ColumnProfile holds per-column completeness and cardinality over the full
// cleaned row set.
type ColumnProfile struct {
	Name             string
	Type             string
	NullCount        int
	NullPercentage   string
	UniqueCount      int
	UniquePercentage string
}

// DataStructure is the read-only summary of a cleaned dataset: column order,
// inferred types, and which semantic column categories are present.
type DataStructure struct {
	TotalRows   int
	Columns     []string
	ColumnTypes map[string]string

	DateColumns   []string
	StatusColumns []string
	UserColumns   []string
	IDColumns     []string

	HasDateColumns   bool
	HasStatusColumns bool
	HasUserColumns   bool
	HasIDColumns     bool

	Profiles        []ColumnProfile
	QualityScore    string
	Recommendations []string
}
