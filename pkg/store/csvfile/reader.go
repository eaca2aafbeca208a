package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

// Options controls CSV parsing.
type Options struct {
	// Delimiter for the file. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// MaxRows caps how many data rows are read; 0 means unlimited.
	MaxRows int
}

// Read parses CSV content into a Dataset. The first line is the header and
// defines the column set; short rows leave the missing cells absent, cells
// beyond the header width are dropped.
func Read(r io.Reader, name string, opts Options) (domain.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read csv payload: %w", err)
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Dataset{Name: name}, nil
		}
		return domain.Dataset{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]string, 0, len(header))
	empty := true
	for _, h := range header {
		h = strings.TrimSpace(h)
		columns = append(columns, h)
		if h != "" {
			empty = false
		}
	}
	if empty {
		return domain.Dataset{Name: name}, nil
	}

	ds := domain.Dataset{Name: name, Columns: columns}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return domain.Dataset{}, fmt.Errorf("read csv row %d: %w", len(ds.Rows)+1, err)
		}
		if opts.MaxRows > 0 && len(ds.Rows) >= opts.MaxRows {
			break
		}
		row := make(domain.RawRecord, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(rec) {
				continue
			}
			row[col] = rec[i]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// sniffDelimiter counts candidate separators in the first line and picks the
// most frequent one, defaulting to comma.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best := ','
	bestCount := bytes.Count(line, []byte{','})
	for _, cand := range []byte{';', '\t'} {
		if n := bytes.Count(line, []byte{cand}); n > bestCount {
			best = rune(cand)
			bestCount = n
		}
	}
	return best
}
