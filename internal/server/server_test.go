package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwg2202/facial-recognition/internal/store"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	baseDir := t.TempDir()
	writeFixtureDirs(t, baseDir)

	st, err := store.New(baseDir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return NewServer(":0", st), baseDir
}

func TestServer_CreateJob(t *testing.T) {
	s, baseDir := newTestServer(t)

	config := TrainingConfig{
		BaseDir:        baseDir,
		Mode:           "layout",
		Stages:         1,
		RoundsPerStage: 1,
		NPos:           4,
		NNeg:           4,
		Seed:           42,
	}

	body, _ := json.Marshal(config)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}
	if job.State != StatePending && job.State != StateRunning {
		t.Errorf("Expected pending or running state, got %s", job.State)
	}
}

func TestServer_CreateJob_RejectsMissingBaseDir(t *testing.T) {
	s, _ := newTestServer(t)

	body, _ := json.Marshal(TrainingConfig{Mode: "layout"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestServer_ListJobs(t *testing.T) {
	s, baseDir := newTestServer(t)

	s.jobManager.CreateJob(TrainingConfig{BaseDir: baseDir})
	s.jobManager.CreateJob(TrainingConfig{BaseDir: baseDir})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()

	s.handleListJobs(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var jobs []*Job
	if err := json.NewDecoder(w.Body).Decode(&jobs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("Expected 2 jobs, got %d", len(jobs))
	}
}

func TestServer_GetJobStatus(t *testing.T) {
	s, baseDir := newTestServer(t)

	job := s.jobManager.CreateJob(TrainingConfig{BaseDir: baseDir, Stages: 2})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/status", job.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetJobStatus(w, req, job.ID)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["id"] != job.ID {
		t.Error("Response should contain job ID")
	}
	if response["state"] != string(StatePending) {
		t.Errorf("Expected pending state, got %v", response["state"])
	}
}

func TestServer_GetJobStatus_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nonexistent/status", nil)
	w := httptest.NewRecorder()

	s.handleGetJobStatus(w, req, "nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_JobStream_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nonexistent/stream", nil)
	w := httptest.NewRecorder()

	s.handleJobStream(w, req, "nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s, baseDir := newTestServer(t)
	srv := httptest.NewServer(s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/jobs" && r.Method == http.MethodPost:
			s.handleCreateJob(w, r)
		case r.URL.Path == "/api/v1/jobs" && r.Method == http.MethodGet:
			s.handleListJobs(w, r)
		default:
			s.handleJobsWithID(w, r)
		}
	})))
	defer srv.Close()

	config := TrainingConfig{
		BaseDir:        baseDir,
		Mode:           "layout",
		Stages:         1,
		RoundsPerStage: 1,
		NPos:           4,
		NNeg:           4,
		Seed:           42,
	}

	body, _ := json.Marshal(config)
	resp, err := http.Post(srv.URL+"/api/v1/jobs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	defer resp.Body.Close()

	var job Job
	json.NewDecoder(resp.Body).Decode(&job)

	maxAttempts := 50
	for i := 0; i < maxAttempts; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/jobs/" + job.ID + "/status")
		if err != nil {
			t.Fatalf("Failed to get status: %v", err)
		}

		var status map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()

		if status["state"] == string(StateCompleted) {
			return
		}
		if status["state"] == string(StateFailed) {
			t.Fatalf("Job failed: %v", status["error"])
		}
		if i == maxAttempts-1 {
			t.Fatal("Job did not complete in time")
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestServer_JobStream_SSE(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping SSE test in short mode")
	}

	s, baseDir := newTestServer(t)

	job := s.jobManager.CreateJob(TrainingConfig{
		BaseDir:        baseDir,
		Mode:           "layout",
		Stages:         2,
		RoundsPerStage: 1,
		NPos:           4,
		NNeg:           4,
		Seed:           42,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go runJob(ctx, s.jobManager, s.store, job.ID)

	time.Sleep(100 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/stream", job.ID), nil)
	w := httptest.NewRecorder()

	done := make(chan bool)
	go func() {
		s.handleJobStream(w, req, job.ID)
		done <- true
	}()

	timeout := time.After(3 * time.Second)
	select {
	case <-done:
	case <-timeout:
	}

	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Error("Expected text/event-stream content type")
	}

	body := w.Body.String()
	if !bytes.Contains([]byte(body), []byte("data:")) {
		t.Error("Expected SSE data in response")
	}
}

func TestEventBroadcaster(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("job1")
	defer eb.Unsubscribe("job1", ch)

	event := ProgressEvent{
		JobID:         "job1",
		State:         StateRunning,
		Stage:         1,
		Round:         3,
		DetectionRate: 0.97,
		Timestamp:     time.Now(),
	}
	eb.Broadcast(event)

	select {
	case received := <-ch:
		if received.JobID != "job1" {
			t.Errorf("Expected jobID job1, got %s", received.JobID)
		}
		if received.Round != 3 {
			t.Errorf("Expected round 3, got %d", received.Round)
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout waiting for event")
	}

	eb.CleanupJob("job1")
}
