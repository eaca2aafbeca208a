package store

import "time"

// Report is the persisted row shape of generated report metadata.
type Report struct {
	ID        string
	UploadID  string
	Filename  string
	Kind      string
	Path      string
	RowCount  int
	CreatedAt time.Time
}
