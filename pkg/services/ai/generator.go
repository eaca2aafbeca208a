package ai

import (
	"context"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

// Request carries the analysis results the narrative generator turns into
// report prose. Structure and Analysis are serialized verbatim into the
// prompt, so they must stay JSON-encodable plain data.
type Request struct {
	Kind      domain.ReportKind
	Filename  string
	RowCount  int
	Structure *domain.DataStructure
	Analysis  *domain.SLAAnalysis
}

// Generator produces the narrative text of a report. Implementations are
// expected to be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
