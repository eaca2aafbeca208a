package dataset

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/clearops/ticketlens/pkg/models/api"
	"github.com/clearops/ticketlens/pkg/models/domain"
	"github.com/clearops/ticketlens/pkg/services/report"
	"github.com/clearops/ticketlens/pkg/store/files"
	reportstore "github.com/clearops/ticketlens/pkg/store/sqlite/report"
)

type Handler struct {
	ctrl           *report.Controller
	files          *files.Store
	reports        reportstore.Store
	maxUploadBytes int64
}

func NewHandler(ctrl *report.Controller, fileStore *files.Store, reports reportstore.Store, maxUploadBytes int64) *Handler {
	return &Handler{
		ctrl:           ctrl,
		files:          fileStore,
		reports:        reports,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadDataset stores the posted CSV and responds with the structure
// preview. Clean-pass errors come back in the response body, not as an HTTP
// failure, so clients can show partial results for messy files.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	up, err := h.files.SaveUpload(header.Filename, file)
	if err != nil {
		logger.Error().Err(err).Msg("failed to store upload")
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	rc, err := h.files.OpenUpload(up.ID)
	if err != nil {
		logger.Error().Err(err).Str("upload_id", up.ID).Msg("failed to reopen upload")
		respondError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer rc.Close()

	preview, err := h.ctrl.Preview(rc, up.Filename)
	if err != nil {
		logger.Error().Err(err).Str("upload_id", up.ID).Msg("failed to parse upload")
		respondError(w, http.StatusBadRequest, "could not parse CSV: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, toUploadPreview(up, preview))
}

// GetStructure re-derives the structure preview for a stored upload.
func (h *Handler) GetStructure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	uploadID := chi.URLParam(r, "upload")

	rc, err := h.files.OpenUpload(uploadID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondError(w, http.StatusNotFound, "upload not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer rc.Close()

	preview, err := h.ctrl.Preview(rc, uploadID+".csv")
	if err != nil {
		logger.Error().Err(err).Str("upload_id", uploadID).Msg("failed to parse upload")
		respondError(w, http.StatusBadRequest, "could not parse CSV: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, toUploadPreview(domain.Upload{ID: uploadID}, preview))
}

// GenerateReport runs the full pipeline for a stored upload.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	uploadID := chi.URLParam(r, "upload")

	var req api.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := domain.ParseReportKind(req.Kind)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := h.ctrl.Generate(ctx, uploadID, req.Filename, kind)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondError(w, http.StatusNotFound, "upload not found")
			return
		}
		logger.Error().Err(err).Str("upload_id", uploadID).Msg("report generation failed")
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, toAPIReport(*rep))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	reports, err := h.reports.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list reports")
		respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	out := make([]api.Report, 0, len(reports))
	for _, rec := range reports {
		out = append(out, api.Report{
			ID:        rec.ID,
			UploadID:  rec.UploadID,
			Filename:  rec.Filename,
			Kind:      rec.Kind,
			RowCount:  rec.RowCount,
			CreatedAt: rec.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// DownloadReport streams the stored HTML document.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "report")

	rec, err := h.reports.Get(ctx, id)
	if err != nil {
		if errors.Is(err, reportstore.ErrNotFound) {
			respondError(w, http.StatusNotFound, "report not found")
			return
		}
		logger.Error().Err(err).Str("report_id", id).Msg("failed to load report metadata")
		respondError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	rc, err := h.files.OpenReport(rec.ID)
	if err != nil {
		logger.Error().Err(err).Str("report_id", id).Msg("report file missing")
		respondError(w, http.StatusNotFound, "report file not found")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.ID+`.html"`)
	if _, err := io.Copy(w, rc); err != nil {
		logger.Error().Err(err).Str("report_id", id).Msg("failed to stream report")
	}
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "report")

	if err := h.reports.Delete(ctx, id); err != nil {
		if errors.Is(err, reportstore.ErrNotFound) {
			respondError(w, http.StatusNotFound, "report not found")
			return
		}
		logger.Error().Err(err).Str("report_id", id).Msg("failed to delete report")
		respondError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}
	if err := h.files.DeleteReport(id); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Str("report_id", id).Msg("report file not removed")
	}
	w.WriteHeader(http.StatusNoContent)
}

func toUploadPreview(up domain.Upload, p *report.Preview) api.UploadPreview {
	out := api.UploadPreview{
		UploadID:      up.ID,
		Filename:      up.Filename,
		OriginalCount: p.Clean.OriginalCount,
		CleanedCount:  p.Clean.CleanedCount,
		Errors:        p.Clean.Errors,
		Warnings:      p.Clean.Warnings,
	}
	if p.Structure != nil {
		out.Structure = toAPIStructure(p.Structure)
	}
	for _, row := range p.Sample {
		out.SampleRows = append(out.SampleRows, map[string]any(row))
	}
	return out
}

func toAPIStructure(s *domain.DataStructure) *api.Structure {
	out := &api.Structure{
		TotalRows:       s.TotalRows,
		Columns:         s.Columns,
		ColumnTypes:     s.ColumnTypes,
		DateColumns:     s.DateColumns,
		StatusColumns:   s.StatusColumns,
		UserColumns:     s.UserColumns,
		IDColumns:       s.IDColumns,
		HasDateColumns:  s.HasDateColumns,
		HasStatusCols:   s.HasStatusColumns,
		HasUserColumns:  s.HasUserColumns,
		HasIDColumns:    s.HasIDColumns,
		QualityScore:    s.QualityScore,
		Recommendations: s.Recommendations,
	}
	for _, p := range s.Profiles {
		out.Profiles = append(out.Profiles, api.ColumnProfile{
			Name:             p.Name,
			Type:             p.Type,
			NullCount:        p.NullCount,
			NullPercentage:   p.NullPercentage,
			UniqueCount:      p.UniqueCount,
			UniquePercentage: p.UniquePercentage,
		})
	}
	return out
}

func toAPIReport(r domain.Report) api.Report {
	return api.Report{
		ID:        r.ID,
		UploadID:  r.UploadID,
		Filename:  r.Filename,
		Kind:      string(r.Kind),
		RowCount:  r.RowCount,
		CreatedAt: r.CreatedAt,
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, api.Error{Error: msg})
}
