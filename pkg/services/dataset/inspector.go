package dataset

import (
	"fmt"
	"strings"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

// Semantic column categories are detected by case-insensitive substring
// matching of the column name against these keyword sets.
var (
	dateKeywords   = []string{"date", "time", "created", "updated", "resolved"}
	statusKeywords = []string{"status", "state", "priority", "sla"}
	userKeywords   = []string{"user", "agent", "assignee", "name", "resolved by"}
	idKeywords     = []string{"id", "number", "#"}
)

// typeSampleRows caps how many rows feed per-column type inference. Null and
// unique counts always run over the full row set.
const typeSampleRows = 100

// smallDatasetRows is the row count under which statistical insights get a
// reliability caveat.
const smallDatasetRows = 50

// Inspect derives the structure summary of a cleaned dataset: per-column
// types, semantic capability flags, completeness profiles, and an overall
// quality grade. Returns nil when there is nothing to inspect.
func Inspect(columns []string, rows []domain.Record) *domain.DataStructure {
	if len(rows) == 0 || len(columns) == 0 {
		return nil
	}

	ds := &domain.DataStructure{
		TotalRows:   len(rows),
		Columns:     columns,
		ColumnTypes: make(map[string]string, len(columns)),
	}

	sample := rows
	if len(sample) > typeSampleRows {
		sample = sample[:typeSampleRows]
	}

	var completenessSum float64
	for _, col := range columns {
		ds.ColumnTypes[col] = inferColumnType(col, sample)

		nulls := 0
		unique := make(map[string]struct{})
		for _, row := range rows {
			v := row[col]
			if v == nil {
				nulls++
				continue
			}
			unique[fmt.Sprint(v)] = struct{}{}
		}

		total := len(rows)
		ds.Profiles = append(ds.Profiles, domain.ColumnProfile{
			Name:             col,
			Type:             ds.ColumnTypes[col],
			NullCount:        nulls,
			NullPercentage:   domain.FormatPercent(float64(nulls), float64(total)),
			UniqueCount:      len(unique),
			UniquePercentage: domain.FormatPercent(float64(len(unique)), float64(total)),
		})
		completenessSum += float64(total-nulls) / float64(total) * 100

		lower := strings.ToLower(col)
		if matchesAny(lower, dateKeywords) {
			ds.DateColumns = append(ds.DateColumns, col)
		}
		if matchesAny(lower, statusKeywords) {
			ds.StatusColumns = append(ds.StatusColumns, col)
		}
		if matchesAny(lower, userKeywords) {
			ds.UserColumns = append(ds.UserColumns, col)
		}
		if matchesAny(lower, idKeywords) {
			ds.IDColumns = append(ds.IDColumns, col)
		}
	}

	ds.HasDateColumns = len(ds.DateColumns) > 0
	ds.HasStatusColumns = len(ds.StatusColumns) > 0
	ds.HasUserColumns = len(ds.UserColumns) > 0
	ds.HasIDColumns = len(ds.IDColumns) > 0

	avgCompleteness := completenessSum / float64(len(columns))
	switch {
	case avgCompleteness >= 95:
		ds.QualityScore = domain.QualityExcellent
	case avgCompleteness >= 85:
		ds.QualityScore = domain.QualityGood
	case avgCompleteness >= 70:
		ds.QualityScore = domain.QualityFair
	default:
		ds.QualityScore = domain.QualityPoor
	}

	ds.Recommendations = recommendations(ds)
	return ds
}

func inferColumnType(col string, sample []domain.Record) string {
	seen := make(map[string]struct{}, 3)
	for _, row := range sample {
		switch row[col].(type) {
		case nil:
		case string:
			seen[domain.ColumnTypeString] = struct{}{}
		case int64, float64:
			seen[domain.ColumnTypeNumber] = struct{}{}
		case bool:
			seen[domain.ColumnTypeBoolean] = struct{}{}
		default:
			seen[domain.ColumnTypeMixed] = struct{}{}
		}
	}
	switch len(seen) {
	case 0:
		return domain.ColumnTypeUnknown
	case 1:
		for t := range seen {
			return t
		}
	}
	return domain.ColumnTypeMixed
}

func matchesAny(lowerName string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerName, kw) {
			return true
		}
	}
	return false
}

func recommendations(ds *domain.DataStructure) []string {
	var recs []string
	for _, p := range ds.Profiles {
		if p.NullCount*2 > ds.TotalRows {
			recs = append(recs, fmt.Sprintf(
				"Column %q has more than 50%% missing values; metrics derived from it may be unreliable", p.Name))
		}
	}
	if !ds.HasDateColumns {
		recs = append(recs, "No date columns detected; trend analysis will be limited")
	}
	if ds.TotalRows < smallDatasetRows {
		recs = append(recs, fmt.Sprintf(
			"Dataset has fewer than %d rows; statistical insights may be unreliable", smallDatasetRows))
	}
	return recs
}
