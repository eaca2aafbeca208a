package api

import "time"

// ColumnProfile mirrors the per-column completeness summary.
type ColumnProfile struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	NullCount        int    `json:"null_count"`
	NullPercentage   string `json:"null_percentage"`
	UniqueCount      int    `json:"unique_count"`
	UniquePercentage string `json:"unique_percentage"`
}

// Structure is the API shape of the inferred dataset structure.
type Structure struct {
	TotalRows       int               `json:"total_rows"`
	Columns         []string          `json:"columns"`
	ColumnTypes     map[string]string `json:"column_types"`
	DateColumns     []string          `json:"date_columns"`
	StatusColumns   []string          `json:"status_columns"`
	UserColumns     []string          `json:"user_columns"`
	IDColumns       []string          `json:"id_columns"`
	HasDateColumns  bool              `json:"has_date_columns"`
	HasStatusCols   bool              `json:"has_status_columns"`
	HasUserColumns  bool              `json:"has_user_columns"`
	HasIDColumns    bool              `json:"has_id_columns"`
	Profiles        []ColumnProfile   `json:"profiles"`
	QualityScore    string            `json:"quality_score"`
	Recommendations []string          `json:"recommendations"`
}

// UploadPreview is the response to a CSV upload: inferred structure plus the
// clean-pass bookkeeping and a handful of sample rows.
type UploadPreview struct {
	UploadID      string           `json:"upload_id"`
	Filename      string           `json:"filename"`
	OriginalCount int              `json:"original_count"`
	CleanedCount  int              `json:"cleaned_count"`
	Errors        []string         `json:"errors,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
	Structure     *Structure       `json:"structure,omitempty"`
	SampleRows    []map[string]any `json:"sample_rows,omitempty"`
}

// GenerateReportRequest selects the narrative style for a stored upload.
type GenerateReportRequest struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename,omitempty"`
}

// Report is the API shape of generated report metadata.
type Report struct {
	ID        string    `json:"id"`
	UploadID  string    `json:"upload_id"`
	Filename  string    `json:"filename"`
	Kind      string    `json:"kind"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Error is the uniform error envelope.
type Error struct {
	Error string `json:"error"`
}
