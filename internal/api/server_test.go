package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/space4ai/placement-optimizer/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewServer(store.NewRepository(db), "0", nil)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", rec.Code)
	}
}

func TestCreateJobAndGetJob(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(createJobRequest{SystemPath: "sys.json", AlgorithmPath: "alg.json"})
	rec := doRequest(s, http.MethodPost, "/api/v1/jobs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /jobs = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created store.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created job: %v", err)
	}
	if created.ID == "" || created.Status != store.JobPending {
		t.Fatalf("created job = %+v, want non-empty ID and status=pending", created)
	}

	rec = doRequest(s, http.MethodGet, "/api/v1/jobs/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /jobs/%s = %d, want 200", created.ID, rec.Code)
	}
}

func TestCreateJobRejectsMissingFields(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodPost, "/api/v1/jobs", []byte(`{}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST /jobs with no fields = %d, want 400", rec.Code)
	}
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/v1/jobs/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /jobs/does-not-exist = %d, want 404", rec.Code)
	}
}

func TestListJobsEmpty(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/v1/jobs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /jobs = %d, want 200", rec.Code)
	}
	var jobs []store.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("failed to decode jobs: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("GET /jobs on an empty store = %d jobs, want 0", len(jobs))
	}
}

func TestGetWorkloadMaximizationNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/v1/jobs/unknown-job/workload", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /jobs/unknown-job/workload = %d, want 404", rec.Code)
	}
}
