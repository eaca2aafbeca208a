package dataset

import (
	"fmt"
	"strings"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

// Rows surviving the clean pass must stay above this share of the input,
// otherwise a data-quality warning is attached.
const minRetainedShare = 0.8

// Clean normalizes every cell of the dataset and drops rows that carry no
// usable value at all. The column set is the dataset header; later rows are
// visited only on those columns, so extra keys are ignored and missing keys
// read as null. Problems are reported through the result's Errors/Warnings,
// never returned as a Go error.
func Clean(ds domain.Dataset) domain.CleanResult {
	res := domain.CleanResult{OriginalCount: len(ds.Rows)}

	if len(ds.Rows) == 0 {
		res.Errors = append(res.Errors, "No data provided")
		return res
	}
	if len(ds.Columns) == 0 {
		res.Errors = append(res.Errors, "No columns detected in data")
		return res
	}
	res.Columns = ds.Columns

	for i, row := range ds.Rows {
		cleaned := make(domain.Record, len(ds.Columns))
		hasValue := false
		for _, col := range ds.Columns {
			raw, ok := row[col]
			if !ok || strings.TrimSpace(raw) == "" {
				cleaned[col] = nil
				continue
			}
			v := Normalize(raw)
			cleaned[col] = v
			if v != nil {
				hasValue = true
			}
		}
		if !hasValue {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Row %d contains no valid data", i+1))
			continue
		}
		res.Data = append(res.Data, cleaned)
	}

	res.CleanedCount = len(res.Data)
	if float64(res.CleanedCount) < minRetainedShare*float64(res.OriginalCount) {
		res.Warnings = append(res.Warnings,
			"More than 20% of rows were filtered out due to data quality issues")
	}
	return res
}
