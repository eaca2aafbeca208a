package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clearops/ticketlens/pkg/models/domain"
	storemodels "github.com/clearops/ticketlens/pkg/models/store"
	"github.com/clearops/ticketlens/pkg/services/ai"
	"github.com/clearops/ticketlens/pkg/services/dataset"
	"github.com/clearops/ticketlens/pkg/services/sla"
	"github.com/clearops/ticketlens/pkg/store/csvfile"
	"github.com/clearops/ticketlens/pkg/store/files"
	reportstore "github.com/clearops/ticketlens/pkg/store/sqlite/report"
)

// Preview is what the upload endpoint shows before any report is requested.
type Preview struct {
	Structure *domain.DataStructure
	Clean     domain.CleanResult
	Sample    []domain.Record
}

const previewSampleRows = 5

// Controller sequences the report pipeline: parse, clean, inspect, analyze,
// generate narrative, render, persist.
type Controller struct {
	files     *files.Store
	reports   reportstore.Store
	generator ai.Generator
	analyzer  *sla.Analyzer
	maxRows   int
}

func NewController(fileStore *files.Store, reports reportstore.Store, generator ai.Generator, maxRows int) *Controller {
	return &Controller{
		files:     fileStore,
		reports:   reports,
		generator: generator,
		analyzer:  sla.NewAnalyzer(),
		maxRows:   maxRows,
	}
}

// Preview parses and cleans an uploaded CSV and returns the inferred
// structure plus a few sample rows. A rejected dataset (clean errors) is not
// a Go error; the caller inspects Clean.Errors.
func (c *Controller) Preview(r io.Reader, name string) (*Preview, error) {
	ds, err := csvfile.Read(r, name, csvfile.Options{MaxRows: c.maxRows})
	if err != nil {
		return nil, err
	}
	res := dataset.Clean(ds)
	p := &Preview{Clean: res}
	if !res.OK() {
		return p, nil
	}
	p.Structure = dataset.Inspect(res.Columns, res.Data)
	sample := res.Data
	if len(sample) > previewSampleRows {
		sample = sample[:previewSampleRows]
	}
	p.Sample = sample
	return p, nil
}

// Generate runs the full pipeline over a stored upload and returns the
// persisted report metadata.
func (c *Controller) Generate(ctx context.Context, uploadID, filename string, kind domain.ReportKind) (*domain.Report, error) {
	logger := zerolog.Ctx(ctx)
	if filename == "" {
		filename = uploadID + ".csv"
	}

	rc, err := c.files.OpenUpload(uploadID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ds, err := csvfile.Read(rc, filename, csvfile.Options{MaxRows: c.maxRows})
	if err != nil {
		return nil, err
	}

	res := dataset.Clean(ds)
	if !res.OK() {
		return nil, fmt.Errorf("dataset rejected: %s", strings.Join(res.Errors, "; "))
	}
	structure := dataset.Inspect(res.Columns, res.Data)
	if structure == nil {
		return nil, fmt.Errorf("dataset has no usable rows")
	}
	analysis := c.analyzer.Analyze(res.Data)

	logger.Info().
		Str("upload_id", uploadID).
		Int("rows", res.CleanedCount).
		Str("kind", string(kind)).
		Msg("dataset analyzed")

	narrative, err := c.generator.Generate(ctx, ai.Request{
		Kind:      kind,
		Filename:  filename,
		RowCount:  res.CleanedCount,
		Structure: structure,
		Analysis:  analysis,
	})
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	html, err := Render(kind, filename, res.CleanedCount, structure, analysis, narrative)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	path, err := c.files.SaveReport(id, html)
	if err != nil {
		return nil, err
	}

	rep := &domain.Report{
		ID:        id,
		UploadID:  uploadID,
		Filename:  filename,
		Kind:      kind,
		Path:      path,
		RowCount:  res.CleanedCount,
		CreatedAt: time.Now(),
	}
	err = c.reports.Add(ctx, storemodels.Report{
		ID:        rep.ID,
		UploadID:  rep.UploadID,
		Filename:  rep.Filename,
		Kind:      string(rep.Kind),
		Path:      rep.Path,
		RowCount:  rep.RowCount,
		CreatedAt: rep.CreatedAt,
	})
	if err != nil {
		// Keep storage consistent if the metadata insert fails.
		if derr := c.files.DeleteReport(id); derr != nil {
			logger.Error().Err(derr).Str("report_id", id).Msg("failed to remove orphaned report file")
		}
		return nil, err
	}

	logger.Info().Str("report_id", id).Str("kind", string(kind)).Msg("report generated")
	return rep, nil
}
