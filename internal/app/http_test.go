package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/draft"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/export"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/remote"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/submission"
)

// cmvrService is an in-memory stand-in for the remote CMVR API.
type cmvrService struct {
	mu       sync.Mutex
	created  []map[string]any
	updated  []map[string]any
	deleted  []string
	failWith int
}

func (c *cmvrService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failWith != 0 {
		w.WriteHeader(c.failWith)
		_, _ = w.Write([]byte(`{"message":["companyName must not be empty"]}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/cmvr":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		c.created = append(c.created, body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"rec-1","fileName":"Q1 Report","projectId":"p-1","projectName":"North Pit"}`))
	case r.Method == http.MethodPatch && r.URL.Path == "/cmvr/rec-1":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		c.updated = append(c.updated, body)
		_, _ = w.Write([]byte(`{"id":"rec-1"}`))
	case r.Method == http.MethodDelete && r.URL.Path == "/cmvr/rec-1":
		c.deleted = append(c.deleted, "rec-1")
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && r.URL.Path == "/cmvr/rec-1/pdf/general-info":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="general info.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7 test"))
	case r.Method == http.MethodGet && r.URL.Path == "/cmvr/rec-7":
		_, _ = w.Write([]byte(`{"id":7,"fileName":"Archived Q4","companyName":"Acme Mining","quarter":"4th",` +
			`"year":2024,"location":"Region IV-A, Batangas","ecc":[{"permitHolder":"Acme","eccNumber":"ECC-1"}],` +
			`"isagMpp":[],"epep":[],"proponent":{},"mmt":{},` +
			`"complianceMonitoringReport":{"airQualityImpactAssessment":{"samplingDate":"2025-01-05","parameters":[]}}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/cmvr":
		_, _ = w.Write([]byte(`[{"id":"rec-1","fileName":"Q1 Report"},{"id":"rec-2","fileName":"Q2 Report"}]`))
	case r.Method == http.MethodGet && r.URL.Path == "/cmvr/user/u-1":
		_, _ = w.Write([]byte(`{"data":[{"id":"rec-1","fileName":"Q1 Report"}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}
}

type recordingOpener struct {
	mu     sync.Mutex
	opened []string
}

func (o *recordingOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, url)
	return nil
}

type testEnv struct {
	handler http.Handler
	remote  *cmvrService
	opener  *recordingOpener
	drafts  *draft.Store
	reports *report.Store
	archive string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend, err := draft.NewSQLiteBackend(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	service := &cmvrService{}
	upstream := httptest.NewServer(service)
	t.Cleanup(upstream.Close)

	env := &testEnv{
		remote:  service,
		opener:  &recordingOpener{},
		drafts:  draft.NewStore(backend, draft.DefaultPrefix),
		archive: t.TempDir(),
	}
	env.reports = report.NewStore(env.drafts)
	client := remote.NewClient(upstream.URL, "test-token", 5*time.Second)
	workflow := submission.NewWorkflow(env.reports, env.drafts, client, env.opener, export.DirArchive{Root: env.archive})

	server := NewHTTPServer(zerolog.Nop(), Dependencies{
		Reports:  env.reports,
		Drafts:   env.drafts,
		Workflow: workflow,
	}, "*")
	env.handler = server.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		data, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", "u-1")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	var decoded map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") && rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded), rr.Body.String())
	}
	return rr, decoded
}

func (e *testEnv) startReport(t *testing.T) {
	t.Helper()
	rr, _ := e.do(t, http.MethodPost, "/api/report", map[string]any{"fileName": "Q1 Report"})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr, _ = e.do(t, http.MethodPut, "/api/report/sections/generalInfo", map[string]any{
		"companyName": "Acme Mining",
		"quarter":     "1st",
		"year":        "2025",
	})
	require.Equal(t, http.StatusOK, rr.Code)
}

func (e *testEnv) fillMandatory(t *testing.T) {
	t.Helper()
	rr, _ := e.do(t, http.MethodPatch, "/api/report/sections", map[string]any{
		string(report.SectionProjectLocation):  map[string]any{},
		string(report.SectionImpactManagement): map[string]any{},
		string(report.SectionAirQuality):       map[string]any{},
		string(report.SectionWaterQuality):     map[string]any{},
	})
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr, body := env.do(t, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
}

func TestPreflight(t *testing.T) {
	env := newTestEnv(t)
	rr, _ := env.do(t, http.MethodOptions, "/api/report", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestReportLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rr, body := env.do(t, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, body["initialized"])

	rr, body = env.do(t, http.MethodPost, "/api/report", map[string]any{"fileName": "  Q1 Report "})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, true, body["initialized"])
	assert.Equal(t, "unsubmitted", body["state"])
	assert.Equal(t, "Q1 Report", body["report"].(map[string]any)["fileName"])

	rr, body = env.do(t, http.MethodPut, "/api/report/sections/generalInfo", map[string]any{"companyName": "Acme"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["dirty"])
	assert.Contains(t, body["present"], "generalInfo")

	rr, body = env.do(t, http.MethodPut, "/api/report/sections/generalInfo", "null")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, body["present"], "generalInfo")

	rr, _ = env.do(t, http.MethodDelete, "/api/report", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, env.reports.Initialized())
}

func TestReportValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing file name", func(t *testing.T) {
		rr, body := env.do(t, http.MethodPost, "/api/report", map[string]any{})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})
	t.Run("section before report", func(t *testing.T) {
		rr, body := env.do(t, http.MethodPut, "/api/report/sections/generalInfo", map[string]any{})
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "NO_REPORT", body["code"])
	})
	t.Run("unknown section", func(t *testing.T) {
		env.startReport(t)
		rr, body := env.do(t, http.MethodPut, "/api/report/sections/bogus", map[string]any{})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "UNKNOWN_SECTION", body["code"])
	})
	t.Run("malformed body", func(t *testing.T) {
		rr, body := env.do(t, http.MethodPut, "/api/report/sections/generalInfo", "{not json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "INVALID_BODY", body["code"])
	})
	t.Run("wrong shape", func(t *testing.T) {
		rr, body := env.do(t, http.MethodPut, "/api/report/sections/generalInfo", "[1,2]")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "INVALID_SECTION", body["code"])
	})
	t.Run("batch with unknown section writes nothing", func(t *testing.T) {
		rr, _ := env.do(t, http.MethodPatch, "/api/report/sections", map[string]any{
			"mmtInfo": map[string]any{"contactPerson": "R. Cruz"},
			"bogus":   map[string]any{},
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		snapshot, ok := env.reports.Snapshot()
		require.True(t, ok)
		assert.False(t, snapshot.Has(report.SectionMMT))
	})
}

func TestUpdateMetadata(t *testing.T) {
	env := newTestEnv(t)
	env.startReport(t)

	rr, body := env.do(t, http.MethodPatch, "/api/report/metadata", map[string]any{"projectName": "North Pit"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "North Pit", body["report"].(map[string]any)["projectName"])
}

func TestSaveDraftAndReopen(t *testing.T) {
	env := newTestEnv(t)
	env.startReport(t)

	rr, body := env.do(t, http.MethodPost, "/api/report/draft", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	key := body["key"].(string)
	assert.Equal(t, "cmvr_draft_Q1 Report", key)

	snapshot, _ := env.reports.Snapshot()
	assert.False(t, snapshot.Dirty)

	rr, body = env.do(t, http.MethodGet, "/api/drafts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	drafts := body["drafts"].([]any)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Q1 Report", drafts[0].(map[string]any)["name"])

	rr, body = env.do(t, http.MethodGet, "/api/drafts/cmvr_draft_Q1%20Report", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Acme Mining", body["generalInfo"].(map[string]any)["companyName"])

	env.do(t, http.MethodDelete, "/api/report", nil)
	rr, body = env.do(t, http.MethodPost, "/api/drafts/cmvr_draft_Q1%20Report/open", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["initialized"])
	assert.Equal(t, false, body["dirty"])

	rr, _ = env.do(t, http.MethodDelete, "/api/drafts/cmvr_draft_Q1%20Report", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr, _ = env.do(t, http.MethodGet, "/api/drafts/cmvr_draft_Q1%20Report", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteAllDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.True(t, env.drafts.SaveDraft(ctx, "a", report.Snapshot{}))
	require.True(t, env.drafts.SaveDraft(ctx, "b", report.Snapshot{}))

	rr, _ := env.do(t, http.MethodDelete, "/api/drafts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, env.drafts.ListDraftKeys(ctx))
}

func TestPayloadPreview(t *testing.T) {
	env := newTestEnv(t)

	rr, body := env.do(t, http.MethodGet, "/api/report/payload", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NO_REPORT", body["code"])

	env.startReport(t)
	rr, body = env.do(t, http.MethodGet, "/api/report/payload", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	built := body["payload"].(map[string]any)
	assert.Equal(t, "Acme Mining", built["companyName"])
	assert.Equal(t, "u-1", built["createdById"])
	assert.Equal(t, float64(2025), built["year"])
	assert.NotContains(t, built, "complianceMonitoringReport")

	gate := body["gate"].(map[string]any)
	assert.Equal(t, false, gate["ready"])
	assert.Len(t, gate["blockers"], 4)

	env.fillMandatory(t)
	_, body = env.do(t, http.MethodGet, "/api/report/payload", nil)
	assert.Equal(t, true, body["gate"].(map[string]any)["ready"])
	assert.Contains(t, body["payload"], "complianceMonitoringReport")
}

func TestSubmissionFlow(t *testing.T) {
	env := newTestEnv(t)
	env.startReport(t)
	env.do(t, http.MethodPost, "/api/report/draft", nil)

	rr, body := env.do(t, http.MethodPost, "/api/report/submission", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "rec-1", body["record"].(map[string]any)["id"])
	assert.Equal(t, true, body["draftDeleted"])
	require.Len(t, env.remote.created, 1)
	assert.Equal(t, "Acme Mining", env.remote.created[0]["companyName"])

	rr, body = env.do(t, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "submitted", body["state"])

	t.Run("second submit is rejected", func(t *testing.T) {
		rr, body := env.do(t, http.MethodPost, "/api/report/submission", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "SEQUENCING", body["code"])
		assert.Len(t, env.remote.created, 1)
	})

	t.Run("update", func(t *testing.T) {
		rr, _ := env.do(t, http.MethodPatch, "/api/report/submission", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, env.remote.updated, 1)
	})

	t.Run("docx", func(t *testing.T) {
		rr, body := env.do(t, http.MethodPost, "/api/report/docx", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.HasSuffix(body["url"].(string), "/cmvr/rec-1/docx"))
		assert.Len(t, env.opener.opened, 1)
	})

	t.Run("general info pdf", func(t *testing.T) {
		rr, _ := env.do(t, http.MethodGet, "/api/report/pdf/general-info", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "general-info.pdf")
		assert.Equal(t, "%PDF-1.7 test", rr.Body.String())
		assert.True(t, strings.HasPrefix(rr.Header().Get("X-Archived-At"), env.archive))
	})

	t.Run("delete", func(t *testing.T) {
		rr, _ := env.do(t, http.MethodDelete, "/api/report/submission", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"rec-1"}, env.remote.deleted)

		_, body := env.do(t, http.MethodGet, "/api/report", nil)
		assert.Equal(t, "unsubmitted", body["state"])
	})
}

func TestDocumentsNeedSubmission(t *testing.T) {
	env := newTestEnv(t)
	env.startReport(t)

	rr, body := env.do(t, http.MethodGet, "/api/report/pdf/general-info", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "SEQUENCING", body["code"])
	assert.Empty(t, env.opener.opened)
}

func TestSubmitRemoteFailure(t *testing.T) {
	env := newTestEnv(t)
	env.startReport(t)
	env.remote.failWith = http.StatusBadRequest

	rr, body := env.do(t, http.MethodPost, "/api/report/submission", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "REMOTE_ERROR", body["code"])
	assert.Equal(t, "companyName must not be empty", body["error"])

	_, body = env.do(t, http.MethodGet, "/api/report", nil)
	assert.Equal(t, "unsubmitted", body["state"])
}

func TestSubmissions(t *testing.T) {
	env := newTestEnv(t)

	rr, body := env.do(t, http.MethodGet, "/api/submissions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["submissions"], 2)

	rr, body = env.do(t, http.MethodGet, "/api/submissions?userId=u-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["submissions"], 1)

	rr, body = env.do(t, http.MethodPost, "/api/submissions/rec-7/open", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "submitted", body["state"])
	loaded := body["report"].(map[string]any)
	assert.Equal(t, "rec-7", loaded["submissionId"])
	assert.Equal(t, "Archived Q4", loaded["fileName"])
	assert.Contains(t, body["present"], string(report.SectionAirQuality))
	assert.Contains(t, body["present"], string(report.SectionECC))

	info := loaded["generalInfo"].(map[string]any)
	assert.Equal(t, "Acme Mining", info["companyName"])
	assert.Equal(t, "4th", info["quarter"])
	assert.Equal(t, "2024", info["year"])
	ecc := loaded["eccInfo"].(map[string]any)
	assert.Equal(t, "ECC-1", ecc["eccNumber"])
}
