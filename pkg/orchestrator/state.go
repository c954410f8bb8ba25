// Package orchestrator coordinates the multi-agent pipeline: planning
// conversation, handoff to the external design service, and the design
// job monitoring loop.
package orchestrator

import (
	"time"

	"ai-planner-be/pkg/design"
	"ai-planner-be/pkg/workflow"
)

// Agents that can own a session at a point in time.
const (
	AgentIdle        = "idle"
	AgentPlanning    = "planning"
	AgentDesign      = "design"
	AgentDevelopment = "development"
)

// Session statuses across the whole pipeline.
const (
	StatusPlanningOnboarding  = "planning_onboarding"
	StatusPlanningActive      = "planning_active"
	StatusPlanningComplete    = "planning_complete"
	StatusDesignPending       = "design_pending"
	StatusDesignActive        = "design_active"
	StatusDesignPaused        = "design_paused"
	StatusDesignComplete      = "design_complete"
	StatusDevelopmentPending  = "development_pending"
	StatusDevelopmentActive   = "development_active"
	StatusDevelopmentComplete = "development_complete"
	StatusCompleted           = "completed"
	StatusFailed              = "failed"
)

// State field keys.
const (
	KeyMessages        = "messages"
	KeySessionID       = "sessionId"
	KeyUserID          = "userId"
	KeyProjectID       = "projectId"
	KeyCurrentAgent    = "currentAgent"
	KeyStatus          = "status"
	KeyDesignJobID     = "designJobId"
	KeyPlanningHandoff = "planningHandoff"
	KeyDesignHandoff   = "designHandoff"
	KeyProgress        = "currentProgress"
	KeyDesignJobStatus = "designJobStatus"
	KeyErrorMessage    = "errorMessage"
	KeyIsComplete      = "isComplete"
	KeyCreatedAt       = "createdAt"
	KeyUpdatedAt       = "updatedAt"
)

// PlanningHandoff carries the planning agent's deliverables into the
// design phase.
type PlanningHandoff struct {
	PRDContent          string                 `json:"prdContent"`
	UserFlowContent     string                 `json:"userFlowContent"`
	CompletenessScore   float64                `json:"completenessScore"`
	ConversationContext map[string]interface{} `json:"conversationContext"`
	ProjectID           string                 `json:"projectId"`
	UserID              string                 `json:"userId"`
}

// DesignHandoff carries the design service's deliverables toward the
// development phase.
type DesignHandoff struct {
	Documents design.Documents `json:"documents"`
	ProjectID string           `json:"projectId"`
	UserID    string           `json:"userId"`
}

// Progress is the user-facing view of where the pipeline currently is.
type Progress struct {
	Agent                string    `json:"agent"`
	CurrentPhase         string    `json:"currentPhase"`
	PhaseDescription     string    `json:"phaseDescription"`
	ProgressPercent      int       `json:"progressPercent"`
	EstimatedSecondsLeft int       `json:"estimatedSecondsLeft,omitempty"`
	LastUpdated          time.Time `json:"lastUpdated"`
}

// StateSchema declares merge policies for the orchestrator state.
// Identity fields keep their first value; everything else is
// last-write-wins.
var StateSchema = workflow.Schema{
	KeyMessages:  {Default: func() interface{} { return []workflow.Message(nil) }, Merge: workflow.Append},
	KeySessionID: {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
	KeyUserID:    {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
	KeyProjectID: {Default: func() interface{} { return "" }, Merge: workflow.KeepExisting},
	KeyCurrentAgent: {
		Default: func() interface{} { return AgentIdle },
		Merge:   workflow.Replace,
	},
	KeyStatus: {
		Default: func() interface{} { return StatusPlanningOnboarding },
		Merge:   workflow.Replace,
	},
	KeyDesignJobID:     {Merge: workflow.Replace},
	KeyPlanningHandoff: {Merge: workflow.Replace},
	KeyDesignHandoff:   {Merge: workflow.Replace},
	KeyProgress:        {Merge: workflow.Replace},
	KeyDesignJobStatus: {Merge: workflow.Replace},
	KeyErrorMessage:    {Merge: workflow.Replace},
	KeyIsComplete: {
		Default: func() interface{} { return false },
		Merge:   workflow.Replace,
	},
	KeyCreatedAt: {Merge: workflow.KeepExisting},
	KeyUpdatedAt: {Merge: workflow.Replace},
}

// HandoffFromState returns the stored planning handoff, if any.
func HandoffFromState(state workflow.State) (PlanningHandoff, bool) {
	h, ok := state[KeyPlanningHandoff].(PlanningHandoff)
	return h, ok
}

// ProgressFromState returns the stored pipeline progress, if any.
func ProgressFromState(state workflow.State) (Progress, bool) {
	p, ok := state[KeyProgress].(Progress)
	return p, ok
}

// DesignHandoffFromState returns the stored design deliverables, if any.
func DesignHandoffFromState(state workflow.State) (DesignHandoff, bool) {
	h, ok := state[KeyDesignHandoff].(DesignHandoff)
	return h, ok
}

// JobStatusFromState returns the last observed design job status.
func JobStatusFromState(state workflow.State) (design.JobStatus, bool) {
	s, ok := state[KeyDesignJobStatus].(design.JobStatus)
	return s, ok
}
