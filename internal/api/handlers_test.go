// handlers_test.go - End-to-end handler tests exercising the real analysis pipeline
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"

	"github.com/cad-profiler/backend/internal/analysis"
	"github.com/cad-profiler/backend/internal/knowledge"
	"github.com/cad-profiler/backend/internal/models"
	"github.com/cad-profiler/backend/internal/report"
	"github.com/cad-profiler/backend/internal/storage"
	"github.com/cad-profiler/backend/internal/testutil"
)

type testEnv struct {
	echo    *echo.Echo
	store   *testutil.MockStorage
	reports *report.Store
	analyze AnalyzeHandler
	formats FormatHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kb, err := knowledge.Load()
	if err != nil {
		t.Fatalf("failed to load knowledge base: %v", err)
	}

	store := testutil.NewMockStorage()
	reports := report.NewStore()
	svc := analysis.NewService(kb)

	return &testEnv{
		echo:    echo.New(),
		store:   store,
		reports: reports,
		analyze: NewAnalyzeHandler(store, svc, reports, nil),
		formats: NewFormatHandler(kb),
	}
}

func (env *testEnv) postAnalyze(t *testing.T, fileID, material, workflow string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	body, _ := json.Marshal(analyzeRequest{FileID: fileID, Material: material, Workflow: workflow})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	return rec, env.analyze.HandleAnalyze(c)
}

func TestAnalyzeFlow(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddFile("stl-1", "bracket.stl", testutil.BinarySTL(testutil.TetrahedronTris()))

	rec, err := env.postAnalyze(t, "stl-1", "Aluminum - 6061-T6", "")
	if assert.NoError(t, err) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var r models.AnalysisReport
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, models.ClassMesh, r.GeometryClass)
		assert.Equal(t, 75, r.Risk.Score)
		assert.Equal(t, "High", r.Risk.Band)
		assert.Equal(t, 25, r.Confidence.Score)
		assert.Equal(t, "cnc-machining", r.Workflow)
		assert.NotEmpty(t, r.TriageSummary)

		// File status flips to analyzed after a successful run
		info, _ := env.store.Get("stl-1")
		assert.Equal(t, "analyzed", info.Status)

		// Report is retrievable by ID afterwards
		req := httptest.NewRequest(http.MethodGet, "/api/analyses/"+r.ID, nil)
		rec2 := httptest.NewRecorder()
		c := env.echo.NewContext(req, rec2)
		c.SetParamNames("id")
		c.SetParamValues(r.ID)
		if assert.NoError(t, env.analyze.HandleGetReport(c)) {
			assert.Equal(t, http.StatusOK, rec2.Code)
			assert.Contains(t, rec2.Body.String(), `"geometryClass":"Mesh"`)
		}
	}
}

func TestAnalyzeUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddFile("scan-1", "scan.xyz", []byte("0 0 0\n1 1 1\n"))

	_, err := env.postAnalyze(t, "scan-1", "", "")
	apiErr, ok := err.(*APIError)
	if assert.True(t, ok, "expected APIError, got %T", err) {
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		assert.Equal(t, "UNKNOWN_FORMAT", apiErr.Code)
	}

	info, _ := env.store.Get("scan-1")
	assert.Equal(t, "error", info.Status)
}

func TestAnalyzeMissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.postAnalyze(t, "no-such-id", "", "")
	apiErr, ok := err.(*APIError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	}

	_, err = env.postAnalyze(t, "", "", "")
	apiErr, ok = err.(*APIError)
	if assert.True(t, ok) {
		assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	}
}

func TestGetReportMsgpack(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddFile("stl-2", "housing.stl", testutil.BinarySTL(testutil.TetrahedronTris()))

	rec, err := env.postAnalyze(t, "stl-2", "", "3d-printing")
	assert.NoError(t, err)

	var r models.AnalysisReport
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/"+r.ID+"/msgpack", nil)
	rec2 := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec2)
	c.SetParamNames("id")
	c.SetParamValues(r.ID)

	if assert.NoError(t, env.analyze.HandleGetReportMsgpack(c)) {
		assert.Equal(t, http.StatusOK, rec2.Code)
		assert.Equal(t, "application/msgpack", rec2.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec2.Body.Bytes())
	}
}

func TestRecentAnalyses(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddFile("a", "a.stl", testutil.BinarySTL(testutil.TetrahedronTris()))
	env.store.AddFile("b", "b.stl", testutil.BinarySTL(testutil.TetrahedronTris()))

	_, err := env.postAnalyze(t, "a", "", "")
	assert.NoError(t, err)
	_, err = env.postAnalyze(t, "b", "", "")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/recent?limit=10", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	if assert.NoError(t, env.analyze.HandleRecentAnalyses(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var reports []*models.AnalysisReport
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
		assert.Len(t, reports, 2)
	}
}

// statusFailStore fails every status transition while delegating the rest.
type statusFailStore struct {
	storage.Store
}

func (s *statusFailStore) SetStatus(id string, status string) error {
	return errors.New("metadata write failed")
}

func TestAnalyzeLogsStatusUpdateFailure(t *testing.T) {
	kb, err := knowledge.Load()
	if err != nil {
		t.Fatalf("failed to load knowledge base: %v", err)
	}

	store := testutil.NewMockStorage()
	store.AddFile("stl-3", "part.stl", testutil.BinarySTL(testutil.TetrahedronTris()))
	h := NewAnalyzeHandler(&statusFailStore{Store: store}, analysis.NewService(kb), report.NewStore(), nil)

	e := echo.New()
	var logBuf bytes.Buffer
	e.Logger.SetOutput(&logBuf)
	e.Logger.SetLevel(log.WARN)

	body, _ := json.Marshal(analyzeRequest{FileID: "stl-3"})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// A failed status update does not fail the analysis itself
	if assert.NoError(t, h.HandleAnalyze(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, logBuf.String(), "failed to set status analyzed on file stl-3")
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/history", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	err := env.analyze.HandleAnalysisHistory(c)
	apiErr, ok := err.(*APIError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	}

	err = env.analyze.HandleAnalysisStats(c)
	apiErr, ok = err.(*APIError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	}
}

func TestFormatEndpoints(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	if assert.NoError(t, env.formats.HandleListFormats(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `".step"`)
		assert.Contains(t, rec.Body.String(), `".stp"`)
	}

	rec = httptest.NewRecorder()
	c = env.echo.NewContext(httptest.NewRequest(http.MethodGet, "/api/formats/compare", nil), rec)
	if assert.NoError(t, env.formats.HandleCompareFormats(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "B-Rep")
	}

	rec = httptest.NewRecorder()
	c = env.echo.NewContext(httptest.NewRequest(http.MethodGet, "/api/formats/stl", nil), rec)
	c.SetParamNames("ext")
	c.SetParamValues("stl")
	if assert.NoError(t, env.formats.HandleGetFormat(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "scoringReference")
	}

	c = env.echo.NewContext(httptest.NewRequest(http.MethodGet, "/api/formats/3mf", nil), httptest.NewRecorder())
	c.SetParamNames("ext")
	c.SetParamValues("3mf")
	err := env.formats.HandleGetFormat(c)
	apiErr, ok := err.(*APIError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := echo.New()
	h := NewHealthHandler("1.2.3")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if assert.NoError(t, h.HandleHealth(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "1.2.3")
	}
}
