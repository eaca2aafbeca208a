package retention

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearops/ticketlens/pkg/store/files"
	reportstore "github.com/clearops/ticketlens/pkg/store/sqlite/report"
)

// Sweeper removes uploads and reports past the retention window. Metadata
// rows go first so a crash mid-sweep can only leave orphaned files, which the
// file sweep picks up on the next run.
type Sweeper struct {
	files   *files.Store
	reports reportstore.Store
	window  time.Duration
}

func NewSweeper(fileStore *files.Store, reports reportstore.Store, window time.Duration) *Sweeper {
	return &Sweeper{files: fileStore, reports: reports, window: window}
}

func (s *Sweeper) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	cutoff := time.Now().Add(-s.window)

	ids, err := s.reports.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("retention sweep: metadata cleanup failed")
	}
	for _, id := range ids {
		if err := s.files.DeleteReport(id); err != nil {
			logger.Warn().Err(err).Str("report_id", id).Msg("retention sweep: report file not removed")
		}
	}

	removed, err := s.files.Sweep(s.window)
	if err != nil {
		logger.Error().Err(err).Msg("retention sweep: file cleanup failed")
	}
	if len(ids) > 0 || removed > 0 {
		logger.Info().Int("metadata_rows", len(ids)).Int("files", removed).Msg("retention sweep completed")
	}
}
