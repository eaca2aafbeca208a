package domain

import (
	"fmt"
	"time"
)

// ReportKind selects the narrative style of a generated report.
type ReportKind string

const (
	ReportExecutiveSummary ReportKind = "executive_summary"
	ReportDetailed         ReportKind = "detailed"
	ReportPresentation     ReportKind = "presentation"
)

// ParseReportKind validates a user-supplied report type.
func ParseReportKind(s string) (ReportKind, error) {
	switch ReportKind(s) {
	case ReportExecutiveSummary, ReportDetailed, ReportPresentation:
		return ReportKind(s), nil
	}
	return "", fmt.Errorf("unknown report kind %q", s)
}

// Upload describes one stored CSV file.
type Upload struct {
	ID        string
	Filename  string
	Path      string
	Size      int64
	CreatedAt time.Time
}

// Report is the metadata of one generated HTML report document.
type Report struct {
	ID        string
	UploadID  string
	Filename  string
	Kind      ReportKind
	Path      string
	RowCount  int
	CreatedAt time.Time
}
