package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/savia/posaudit/internal/domain"
	"github.com/savia/posaudit/internal/engine"
	"github.com/savia/posaudit/internal/report"
	"github.com/savia/posaudit/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	runRepo *repository.RunRepo
	baseURL string
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// --- ValidateBatch ---

// ValidateBatch accepts a multipart upload of export files, runs the full
// validation batch, persists the run, and relays the engine's result.
func (h *Handlers) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required in the files field")
		return
	}

	var input domain.BatchInput
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "open upload "+fh.Filename+": "+err.Error())
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "read upload "+fh.Filename+": "+err.Error())
			return
		}
		input.Files = append(input.Files, domain.BatchFile{
			Name:    fh.Filename,
			Content: string(data),
		})
	}

	result, err := engine.RunBatch(input)
	if err != nil {
		// Fatal input errors (no summary, no tickets, unparseable header)
		// are hard failures, not findings.
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	encoded, err := report.Encode(report.Build(result, result.Tickets))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	run := &domain.AuditRun{
		ID:         "RUN-" + uuid.NewString(),
		ClosureID:  result.ClosureID,
		Certified:  result.Certified,
		TotalFiles: result.TotalFiles,
		Errors:     result.Errors,
		Warnings:   result.Warnings,
		CreatedAt:  result.Timestamp,
	}
	if err := h.runRepo.InsertRun(run, result.Findings, encoded); err != nil {
		writeError(w, http.StatusInternalServerError, "persist run: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":     run.ID,
		"certified":  result.Certified,
		"timestamp":  result.Timestamp,
		"closure_id": result.ClosureID,
		"summary": map[string]int{
			"total_files": result.TotalFiles,
			"errors":      result.Errors,
			"warnings":    result.Warnings,
		},
		"findings":   result.Findings,
		"totals":     result.Totals,
		"report_url": report.URL(h.baseURL, encoded),
	})
}

// --- ListRuns ---

func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.RunFilter{
		ClosureID: q.Get("closure_id"),
		Page:      parseIntDefault(q.Get("page"), 1),
		Limit:     parseIntDefault(q.Get("limit"), 50),
	}
	if v := q.Get("certified"); v != "" {
		certified := v == "true"
		filter.Certified = &certified
	}

	runs, total, err := h.runRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// --- GetRun ---

func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.runRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	findings, err := h.runRepo.GetFindings(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":      run,
		"findings": findings,
	})
}

// --- GetRunReport ---

func (h *Handlers) GetRunReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	encoded, err := h.runRepo.GetReport(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload, err := report.Decode(encoded)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report_url": report.URL(h.baseURL, encoded),
		"payload":    payload,
	})
}

// --- GetDashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.runRepo.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
