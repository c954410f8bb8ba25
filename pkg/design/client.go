// Package design is the REST client for the external design agent
// service that turns a finished PRD and user flow into screen designs.
package design

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is used when no design agent URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// Job lifecycle statuses reported by the design agent.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Handoff is the payload that starts a design job.
type Handoff struct {
	SessionID       string `json:"session_id"`
	PRDContent      string `json:"prd_content"`
	UserFlowContent string `json:"user_flow_content"`
	ProjectID       string `json:"project_id"`
	UserID          string `json:"user_id"`
}

// JobStatus is a point-in-time view of a running design job.
type JobStatus struct {
	JobID            string    `json:"job_id"`
	Status           string    `json:"status"`
	CurrentPhase     int       `json:"current_phase"`
	PhaseName        string    `json:"phase_name"`
	ProgressPercent  int       `json:"progress_percent"`
	ScreenCount      int       `json:"screen_count,omitempty"`
	CompletedScreens int       `json:"completed_screens,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
	ErrorMessage     string    `json:"error_message,omitempty"`
}

// Documents are the six deliverables of a completed design job.
type Documents struct {
	DesignSystem     string `json:"design_system"`
	UXFlow           string `json:"ux_flow"`
	ScreenSpecs      string `json:"screen_specs"`
	AIPrompts        string `json:"ai_prompts"`
	DesignGuidelines string `json:"design_guidelines"`
	OpenSourceRecs   string `json:"open_source_recs"`
}

// Client talks to the design agent's REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client for the given base URL, falling back to
// DefaultBaseURL when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("design client: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("design client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("design client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("design client: %s %s: status %d - %s",
			method, path, resp.StatusCode, string(detail))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("design client: decode response: %w", err)
	}
	return nil
}

// StartJob submits a handoff and returns the new job's ID.
func (c *Client) StartJob(ctx context.Context, handoff Handoff) (string, error) {
	var out struct {
		JobID string `json:"job_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/design/start", handoff, &out); err != nil {
		return "", err
	}
	if out.JobID == "" {
		return "", fmt.Errorf("design client: start job returned no job id")
	}
	return out.JobID, nil
}

// JobStatus fetches the current status of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	var status JobStatus
	err := c.do(ctx, http.MethodGet, "/api/design/status/"+jobID, nil, &status)
	return status, err
}

// Documents fetches the deliverables of a completed job.
func (c *Client) Documents(ctx context.Context, jobID string) (Documents, error) {
	var docs Documents
	err := c.do(ctx, http.MethodGet, "/api/design/documents/"+jobID, nil, &docs)
	return docs, err
}

// CancelJob aborts a running job.
func (c *Client) CancelJob(ctx context.Context, jobID string) error {
	return c.do(ctx, http.MethodPost, "/api/design/cancel/"+jobID, nil, nil)
}

// SubmitFeedback sends user feedback on a screen during refinement.
func (c *Client) SubmitFeedback(ctx context.Context, jobID, screenName, feedback string) error {
	body := map[string]string{
		"screen_name": screenName,
		"feedback":    feedback,
	}
	return c.do(ctx, http.MethodPost, "/api/design/feedback/"+jobID, body, nil)
}

// ApproveScreen marks a screen design as accepted.
func (c *Client) ApproveScreen(ctx context.Context, jobID, screenName string) error {
	body := map[string]string{"screen_name": screenName}
	return c.do(ctx, http.MethodPost, "/api/design/approve/"+jobID, body, nil)
}

// Health reports whether the design agent is reachable.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
