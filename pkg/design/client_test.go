package design

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStartJob(t *testing.T) {
	var captured Handoff
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/design/start" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode handoff: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	jobID, err := client.StartJob(context.Background(), Handoff{
		SessionID:       "sess-1",
		PRDContent:      "# PRD",
		UserFlowContent: "# Flow",
		ProjectID:       "proj-1",
		UserID:          "user-1",
	})
	if err != nil {
		t.Fatalf("StartJob: %v", err)
	}
	if jobID != "job-123" {
		t.Errorf("jobID = %q, want job-123", jobID)
	}
	if captured.SessionID != "sess-1" || captured.PRDContent != "# PRD" {
		t.Errorf("handoff not forwarded: %+v", captured)
	}
}

func TestStartJobServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue is full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).StartJob(context.Background(), Handoff{SessionID: "s"})
	if err == nil {
		t.Fatal("expected error on 503")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "queue is full") {
		t.Errorf("error should carry status and body, got: %v", err)
	}
}

func TestStartJobEmptyJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).StartJob(context.Background(), Handoff{SessionID: "s"})
	if err == nil {
		t.Fatal("expected error when response has no job_id")
	}
}

func TestJobStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/design/status/job-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"job_id": "job-123",
			"status": "processing",
			"current_phase": 3,
			"phase_name": "create_ascii_ui",
			"progress_percent": 35,
			"screen_count": 8,
			"completed_screens": 2,
			"last_updated": "2026-08-31T12:00:00Z"
		}`))
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).JobStatus(context.Background(), "job-123")
	if err != nil {
		t.Fatalf("JobStatus: %v", err)
	}
	if status.Status != StatusProcessing {
		t.Errorf("status = %q", status.Status)
	}
	if status.CurrentPhase != 3 || status.PhaseName != "create_ascii_ui" {
		t.Errorf("phase = %d %q", status.CurrentPhase, status.PhaseName)
	}
	if status.ProgressPercent != 35 || status.ScreenCount != 8 || status.CompletedScreens != 2 {
		t.Errorf("progress fields wrong: %+v", status)
	}
}

func TestJobStatusFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"job_id": "job-9",
			"status": "failed",
			"error_message": "screen extraction timed out",
			"last_updated": "2026-08-31T12:05:00Z"
		}`))
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).JobStatus(context.Background(), "job-9")
	if err != nil {
		t.Fatalf("JobStatus: %v", err)
	}
	if status.Status != StatusFailed {
		t.Errorf("status = %q", status.Status)
	}
	if status.ErrorMessage != "screen extraction timed out" {
		t.Errorf("error message = %q", status.ErrorMessage)
	}
}

func TestDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/design/documents/job-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Documents{
			DesignSystem:     "# Design System",
			UXFlow:           "# UX Flow",
			ScreenSpecs:      "# Screens",
			AIPrompts:        "# Prompts",
			DesignGuidelines: "# Guidelines",
			OpenSourceRecs:   "# Libraries",
		})
	}))
	defer srv.Close()

	docs, err := NewClient(srv.URL).Documents(context.Background(), "job-123")
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if docs.DesignSystem != "# Design System" || docs.OpenSourceRecs != "# Libraries" {
		t.Errorf("documents not decoded: %+v", docs)
	}
}

func TestCancelAndFeedback(t *testing.T) {
	var paths []string
	var feedbackBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if strings.Contains(r.URL.Path, "feedback") {
			json.NewDecoder(r.Body).Decode(&feedbackBody)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	if err := client.CancelJob(ctx, "job-1"); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if err := client.SubmitFeedback(ctx, "job-1", "로그인 화면", "버튼을 더 크게"); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if err := client.ApproveScreen(ctx, "job-1", "메인 화면"); err != nil {
		t.Fatalf("ApproveScreen: %v", err)
	}

	want := []string{
		"POST /api/design/cancel/job-1",
		"POST /api/design/feedback/job-1",
		"POST /api/design/approve/job-1",
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("request %d = %q, want %q", i, paths[i], p)
		}
	}
	if feedbackBody["screen_name"] != "로그인 화면" || feedbackBody["feedback"] != "버튼을 더 크게" {
		t.Errorf("feedback body = %v", feedbackBody)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	if !NewClient(srv.URL).Health(context.Background()) {
		t.Error("Health should be true for a 200 response")
	}

	srv.Close()
	if NewClient(srv.URL).Health(context.Background()) {
		t.Error("Health should be false when the service is down")
	}
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	client := NewClient("")
	if client.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", client.BaseURL, DefaultBaseURL)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient should be initialized")
	}
}
