// Package store holds the in-memory shape of an active planning
// session: the hot copy of workflow state that sits between HTTP
// requests so a turn does not round-trip through the database.
package store

import "ai-planner-be/pkg/workflow"

// Conversation phases a session moves through.
const (
	PhasePlanning = "planning"
	PhaseUserflow = "userflow"
	PhaseDesign   = "design"
	PhaseDone     = "done"
)

// Session is the active session state kept in memory. The database
// snapshot is authoritative; this copy exists to serve consecutive
// turns without decoding state every time.
type Session struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`

	// Phase selects which graph the next user message is routed to.
	Phase string `json:"phase"`

	// State is the live workflow state for the current phase's graph.
	State workflow.State `json:"-"`

	// PRDContent carries the finished PRD across the planning →
	// userflow transition.
	PRDContent string `json:"prd_content"`
}
