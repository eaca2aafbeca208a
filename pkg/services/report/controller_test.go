package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearops/ticketlens/pkg/models/domain"
	"github.com/clearops/ticketlens/pkg/services/ai"
	"github.com/clearops/ticketlens/pkg/store/files"
	"github.com/clearops/ticketlens/pkg/store/sqlite"
	reportstore "github.com/clearops/ticketlens/pkg/store/sqlite/report"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type fixture struct {
	files     *files.Store
	reports   reportstore.Store
	generator *mockGenerator
	ctrl      *Controller
}

func setupFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	fileStore, err := files.NewStore(dir+"/uploads", dir+"/reports")
	require.NoError(t, err)

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reports, err := reportstore.NewStore(db)
	require.NoError(t, err)

	gen := new(mockGenerator)
	return &fixture{
		files:     fileStore,
		reports:   reports,
		generator: gen,
		ctrl:      NewController(fileStore, reports, gen, 1000),
	}
}

const ticketsCSV = `Agent,Category,Created,First Response Status,Resolution Status
Ann,Billing,2024-01-01,Met,Met
Bob,Login,2024-01-02,Violated,Met
Ann,Billing,2024-01-03,Met,Violated
`

func TestController_Preview(t *testing.T) {
	f := setupFixture(t)

	p, err := f.ctrl.Preview(strings.NewReader(ticketsCSV), "tickets.csv")
	require.NoError(t, err)
	require.True(t, p.Clean.OK())
	require.NotNil(t, p.Structure)

	assert.Equal(t, 3, p.Clean.CleanedCount)
	assert.True(t, p.Structure.HasUserColumns)
	assert.True(t, p.Structure.HasDateColumns)
	assert.True(t, p.Structure.HasStatusColumns)
	assert.Len(t, p.Sample, 3)
}

func TestController_PreviewRejectedDataset(t *testing.T) {
	f := setupFixture(t)

	p, err := f.ctrl.Preview(strings.NewReader(""), "empty.csv")
	require.NoError(t, err)
	assert.False(t, p.Clean.OK())
	assert.Contains(t, p.Clean.Errors, "No data provided")
	assert.Nil(t, p.Structure)
}

func TestController_Generate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	up, err := f.files.SaveUpload("tickets.csv", strings.NewReader(ticketsCSV))
	require.NoError(t, err)

	f.generator.On("Generate", mock.Anything, mock.MatchedBy(func(req ai.Request) bool {
		return req.Kind == domain.ReportExecutiveSummary &&
			req.RowCount == 3 &&
			req.Analysis != nil && req.Analysis.FirstResponseSLA.Total == 3
	})).Return("Narrative text.", nil)

	rep, err := f.ctrl.Generate(ctx, up.ID, up.Filename, domain.ReportExecutiveSummary)
	require.NoError(t, err)
	assert.Equal(t, up.ID, rep.UploadID)
	assert.Equal(t, 3, rep.RowCount)

	// The HTML document landed on disk.
	rc, err := f.files.OpenReport(rep.ID)
	require.NoError(t, err)
	defer rc.Close()

	// And the metadata row is queryable.
	rec, err := f.reports.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, "executive_summary", rec.Kind)

	f.generator.AssertExpectations(t)
}

func TestController_GenerateMissingUpload(t *testing.T) {
	f := setupFixture(t)

	_, err := f.ctrl.Generate(context.Background(),
		"2f9d7a64-51f2-4f9e-90cd-5ba4c6a0bb6e", "t.csv", domain.ReportDetailed)
	assert.Error(t, err)
}

func TestController_GenerateRejectedDataset(t *testing.T) {
	f := setupFixture(t)

	up, err := f.files.SaveUpload("empty.csv", strings.NewReader(""))
	require.NoError(t, err)

	_, err = f.ctrl.Generate(context.Background(), up.ID, up.Filename, domain.ReportDetailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data provided")
}

func TestController_GenerateNarrativeFailure(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	up, err := f.files.SaveUpload("tickets.csv", strings.NewReader(ticketsCSV))
	require.NoError(t, err)

	f.generator.On("Generate", mock.Anything, mock.Anything).
		Return("", assert.AnError)

	_, err = f.ctrl.Generate(ctx, up.ID, up.Filename, domain.ReportDetailed)
	require.Error(t, err)

	// No metadata row may survive a failed generation.
	reports, err := f.reports.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
