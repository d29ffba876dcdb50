package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/draft"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/payload"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/submission"
)

var errDraftNotFound = domainError(http.StatusNotFound, "NOT_FOUND", "Draft not found", nil)

// Dependencies are the engine components the screens drive.
type Dependencies struct {
	Reports  *report.Store
	Drafts   *draft.Store
	Workflow *submission.Workflow
}

type HTTPServer struct {
	deps       Dependencies
	logger     zerolog.Logger
	corsOrigin string
}

func NewHTTPServer(logger zerolog.Logger, deps Dependencies, corsOrigin string) *HTTPServer {
	return &HTTPServer{deps: deps, logger: logger, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(s.withMiddleware)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		r.Route("/report", func(r chi.Router) {
			r.Post("/", s.handleInitializeReport)
			r.Get("/", s.handleGetReport)
			r.Delete("/", s.handleClearReport)
			r.Put("/sections/{section}", s.handleUpdateSection)
			r.Patch("/sections", s.handleUpdateSections)
			r.Patch("/metadata", s.handleUpdateMetadata)
			r.Post("/draft", s.handleSaveDraft)
			r.Get("/payload", s.handlePayloadPreview)
			r.Post("/submission", s.handleSubmit)
			r.Patch("/submission", s.handleUpdateSubmission)
			r.Delete("/submission", s.handleDeleteSubmission)
			r.Post("/docx", s.handleOpenDocx)
			r.Get("/pdf/general-info", s.handleGeneralInfoPDF)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", s.handleListDrafts)
			r.Delete("/", s.handleDeleteAllDrafts)
			r.Get("/{key}", s.handleGetDraft)
			r.Post("/{key}/open", s.handleOpenDraft)
			r.Delete("/{key}", s.handleDeleteDraft)
		})

		r.Get("/submissions", s.handleListSubmissions)
		r.Post("/submissions/{id}/open", s.handleOpenSubmission)
	})

	return router
}

func (s *HTTPServer) handleInitializeReport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FileName string `json:"fileName"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if strings.TrimSpace(body.FileName) == "" {
		s.writeMappedError(w, r, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "fileName is required", nil))
		return
	}
	s.deps.Reports.InitializeNewReport(body.FileName)
	s.writeReport(w, http.StatusCreated)
}

func (s *HTTPServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	s.writeReport(w, http.StatusOK)
}

func (s *HTTPServer) handleClearReport(w http.ResponseWriter, r *http.Request) {
	s.deps.Reports.ClearReport()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	name := report.SectionName(chi.URLParam(r, "section"))
	if !report.IsKnownSection(name) {
		writeError(w, http.StatusNotFound, "UNKNOWN_SECTION", fmt.Sprintf("unknown section %q", name), nil)
		return
	}
	raw, err := readRaw(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.deps.Reports.UpdateSection(name, raw); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	s.writeReport(w, http.StatusOK)
}

func (s *HTTPServer) handleUpdateSections(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	values := make(map[report.SectionName]any, len(body))
	for key, value := range body {
		values[report.SectionName(key)] = value
	}
	if err := s.deps.Reports.UpdateMultipleSections(values); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	s.writeReport(w, http.StatusOK)
}

func (s *HTTPServer) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var patch report.MetadataPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.deps.Reports.UpdateMetadata(patch); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	s.writeReport(w, http.StatusOK)
}

func (s *HTTPServer) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Reports.SaveDraft(r.Context()); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	snapshot, _ := s.deps.Reports.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":  true,
		"key": s.deps.Drafts.Key(snapshot.FileName),
	})
}

func (s *HTTPServer) handlePayloadPreview(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.deps.Reports.Snapshot()
	if !ok {
		s.writeMappedError(w, r, report.ErrNoReport)
		return
	}
	built, err := payload.Build(&snapshot, payload.Extra{UserID: userID(r), FileName: snapshot.FileName})
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"payload":     built.Payload,
		"diagnostics": nonNilDiagnostics(built),
		"gate":        payload.Gate(snapshot.Sections),
	})
}

func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.deps.Workflow.Submit(r.Context(), userID(r))
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, outcome)
}

func (s *HTTPServer) handleUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.deps.Workflow.Update(r.Context(), userID(r))
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *HTTPServer) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Workflow.Delete(r.Context()); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleOpenDocx(w http.ResponseWriter, r *http.Request) {
	link, err := s.deps.Workflow.OpenDocx(r.Context())
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": link})
}

func (s *HTTPServer) handleGeneralInfoPDF(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Workflow.GeneralInfoPDF(r.Context())
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if doc.ArchivedAt != "" {
		w.Header().Set("X-Archived-At", doc.ArchivedAt)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

func (s *HTTPServer) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"drafts": s.deps.Drafts.ListDraftSummaries(r.Context())})
}

func (s *HTTPServer) handleDeleteAllDrafts(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Drafts.DeleteAllDrafts(r.Context()) {
		writeError(w, http.StatusInternalServerError, "DRAFT_STORE_ERROR", "Failed to delete drafts.", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	record, ok := s.deps.Drafts.GetDraft(r.Context(), pathParam(r, "key"))
	if !ok {
		s.writeMappedError(w, r, errDraftNotFound)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *HTTPServer) handleOpenDraft(w http.ResponseWriter, r *http.Request) {
	record, ok := s.deps.Drafts.GetDraft(r.Context(), pathParam(r, "key"))
	if !ok {
		s.writeMappedError(w, r, errDraftNotFound)
		return
	}
	s.deps.Reports.LoadReport(record.Snapshot)
	s.writeReport(w, http.StatusOK)
}

func (s *HTTPServer) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Drafts.DeleteDraft(r.Context(), pathParam(r, "key")) {
		writeError(w, http.StatusInternalServerError, "DRAFT_STORE_ERROR", "Failed to delete draft.", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Workflow.ListSubmissions(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": records})
}

func (s *HTTPServer) handleOpenSubmission(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Workflow.LoadSubmission(r.Context(), pathParam(r, "id")); err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	s.writeReport(w, http.StatusOK)
}

// writeReport answers with the open report, or initialized=false.
func (s *HTTPServer) writeReport(w http.ResponseWriter, status int) {
	snapshot, ok := s.deps.Reports.Snapshot()
	if !ok {
		writeJSON(w, status, map[string]any{"initialized": false})
		return
	}
	state, _, _ := s.deps.Workflow.State()
	writeJSON(w, status, map[string]any{
		"initialized": true,
		"dirty":       snapshot.Dirty,
		"state":       state,
		"report":      snapshot,
		"present":     snapshot.Present(),
	})
}

func (s *HTTPServer) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := mapError(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("code", code).Msg("request failed")
	}
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		logger := s.logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		started := time.Now()
		writer := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		if r.Method == http.MethodOptions {
			writer.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(writer, r)

		logger.Info().
			Int("status", writer.Status()).
			Int64("duration_ms", time.Since(started).Milliseconds()).
			Msg("request")
	})
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, X-User-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

// readRaw returns the body as JSON, treating an empty body as null.
func readRaw(r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return json.RawMessage("null"), nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON body")
	}
	return data, nil
}

// userID identifies the submitting user; the header wins over the query.
func userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("userId"))
}

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func nonNilDiagnostics(built payload.Result) any {
	if built.Diagnostics == nil {
		return []any{}
	}
	return built.Diagnostics
}
