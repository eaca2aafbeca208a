package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearops/ticketlens/pkg/models/api"
	"github.com/clearops/ticketlens/pkg/services/ai"
	"github.com/clearops/ticketlens/pkg/services/report"
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
	server    *httptest.Server
	generator *mockGenerator
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
	ctrl := report.NewController(fileStore, reports, gen, 1000)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	router := ConfigureRouter(Config{
		Dependencies: Dependencies{
			Controller: ctrl,
			Files:      fileStore,
			Reports:    reports,
			MaxUpload:  1 << 20,
			Logger:     logger,
		},
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &fixture{server: ts, generator: gen}
}

const ticketsCSV = `Agent,Category,Created,First Response Status
Ann,Billing,2024-01-01,Met
Bob,Login,2024-01-02,Violated
`

func uploadCSV(t *testing.T, f *fixture, content string) api.UploadPreview {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "tickets.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(f.server.URL+"/api/v1/datasets", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview api.UploadPreview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&preview))
	return preview
}

func TestUploadDataset(t *testing.T) {
	f := setupFixture(t)

	preview := uploadCSV(t, f, ticketsCSV)
	assert.NotEmpty(t, preview.UploadID)
	assert.Equal(t, "tickets.csv", preview.Filename)
	assert.Equal(t, 2, preview.CleanedCount)
	require.NotNil(t, preview.Structure)
	assert.True(t, preview.Structure.HasUserColumns)
	assert.Len(t, preview.SampleRows, 2)
}

func TestUploadDataset_EmptyFileReportsErrors(t *testing.T) {
	f := setupFixture(t)

	preview := uploadCSV(t, f, "")
	assert.Contains(t, preview.Errors, "No data provided")
	assert.Nil(t, preview.Structure)
}

func TestUploadDataset_MissingFileField(t *testing.T) {
	f := setupFixture(t)

	resp, err := http.Post(f.server.URL+"/api/v1/datasets", "multipart/form-data; boundary=x", strings.NewReader("--x--"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStructure(t *testing.T) {
	f := setupFixture(t)
	preview := uploadCSV(t, f, ticketsCSV)

	resp, err := http.Get(f.server.URL + "/api/v1/datasets/" + preview.UploadID + "/structure")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.UploadPreview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Structure)
	assert.Equal(t, 2, out.Structure.TotalRows)
}

func TestGetStructure_MissingUpload(t *testing.T) {
	f := setupFixture(t)

	resp, err := http.Get(f.server.URL + "/api/v1/datasets/2f9d7a64-51f2-4f9e-90cd-5ba4c6a0bb6e/structure")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func generateReport(t *testing.T, f *fixture, uploadID, kind string) api.Report {
	body, _ := json.Marshal(api.GenerateReportRequest{Kind: kind, Filename: "tickets.csv"})
	resp, err := http.Post(
		f.server.URL+"/api/v1/datasets/"+uploadID+"/reports",
		"application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rep api.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	return rep
}

func TestGenerateAndDownloadReport(t *testing.T) {
	f := setupFixture(t)
	preview := uploadCSV(t, f, ticketsCSV)

	f.generator.On("Generate", mock.Anything, mock.Anything).
		Return("Generated narrative.", nil)

	rep := generateReport(t, f, preview.UploadID, "executive_summary")
	assert.Equal(t, preview.UploadID, rep.UploadID)
	assert.Equal(t, "executive_summary", rep.Kind)
	assert.Equal(t, 2, rep.RowCount)

	resp, err := http.Get(f.server.URL + "/api/v1/reports/" + rep.ID + "/download")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Generated narrative.")
	assert.Contains(t, string(html), "Executive Summary")
}

func TestGenerateReport_InvalidKind(t *testing.T) {
	f := setupFixture(t)
	preview := uploadCSV(t, f, ticketsCSV)

	body, _ := json.Marshal(api.GenerateReportRequest{Kind: "bogus"})
	resp, err := http.Post(
		f.server.URL+"/api/v1/datasets/"+preview.UploadID+"/reports",
		"application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListReports(t *testing.T) {
	f := setupFixture(t)
	preview := uploadCSV(t, f, ticketsCSV)

	f.generator.On("Generate", mock.Anything, mock.Anything).
		Return("n", nil)
	rep := generateReport(t, f, preview.UploadID, "detailed")

	resp, err := http.Get(f.server.URL + "/api/v1/reports")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reports []api.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
	require.Len(t, reports, 1)
	assert.Equal(t, rep.ID, reports[0].ID)
}

func TestDeleteReport(t *testing.T) {
	f := setupFixture(t)
	preview := uploadCSV(t, f, ticketsCSV)

	f.generator.On("Generate", mock.Anything, mock.Anything).
		Return("n", nil)
	rep := generateReport(t, f, preview.UploadID, "presentation")

	req, err := http.NewRequest(http.MethodDelete, f.server.URL+"/api/v1/reports/"+rep.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(f.server.URL + "/api/v1/reports/" + rep.ID + "/download")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
