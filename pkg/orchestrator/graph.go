package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-planner-be/pkg/design"
	"ai-planner-be/pkg/workflow"
)

// Node names in the pipeline graph.
const (
	NodeInitializeSession = "initialize_session"
	NodeCompletePlanning  = "complete_planning"
	NodeTriggerDesign     = "trigger_design"
	NodeMonitorDesign     = "monitor_design"
	NodeHandleError       = "handle_error"
)

// DesignAgent is the slice of the design service the pipeline needs.
// *design.Client satisfies it.
type DesignAgent interface {
	Health(ctx context.Context) bool
	StartJob(ctx context.Context, handoff design.Handoff) (string, error)
	JobStatus(ctx context.Context, jobID string) (design.JobStatus, error)
	Documents(ctx context.Context, jobID string) (design.Documents, error)
}

var _ DesignAgent = (*design.Client)(nil)

// Config wires the pipeline graph's collaborators.
type Config struct {
	Design DesignAgent
	Store  Store
	Now    func() time.Time
	NewID  func() string
}

// Graph runs the orchestration pipeline for one session at a time.
type Graph struct {
	design DesignAgent
	store  Store
	now    func() time.Time
	newID  func() string
	wf     *workflow.Graph
}

// NewGraph compiles the pipeline graph.
func NewGraph(cfg Config) (*Graph, error) {
	if cfg.Design == nil {
		return nil, fmt.Errorf("orchestrator: design agent is required")
	}
	g := &Graph{
		design: cfg.Design,
		store:  cfg.Store,
		now:    cfg.Now,
		newID:  cfg.NewID,
	}
	if g.store == nil {
		g.store = NoopStore{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}

	wf, err := workflow.NewBuilder(StateSchema).
		AddNode(NodeInitializeSession, g.initializeSession).
		AddNode(NodeCompletePlanning, g.completePlanning).
		AddNode(NodeTriggerDesign, g.triggerDesign).
		AddNode(NodeMonitorDesign, g.monitorDesign).
		AddNode(NodeHandleError, g.handleError).
		AddConditionalEdges(NodeInitializeSession, map[string]string{
			"handle_error": NodeHandleError,
		}).
		AddEdge(NodeCompletePlanning, NodeTriggerDesign).
		AddConditionalEdges(NodeCompletePlanning, map[string]string{
			"handle_error": NodeHandleError,
		}).
		AddEdge(NodeTriggerDesign, NodeMonitorDesign).
		AddConditionalEdges(NodeTriggerDesign, map[string]string{
			"handle_error": NodeHandleError,
		}).
		AddConditionalEdges(NodeMonitorDesign, map[string]string{
			"monitor_design":  NodeMonitorDesign,
			"complete_design": workflow.End,
			"handle_error":    NodeHandleError,
		}).
		SetEntry(NodeInitializeSession).
		Compile()
	if err != nil {
		return nil, err
	}
	g.wf = wf
	return g, nil
}

// StartSession creates a new pipeline session and returns its initial
// state. The planning conversation itself runs in its own graph; this
// only establishes the session record and identity.
func (g *Graph) StartSession(ctx context.Context, userID, projectID string) (workflow.State, error) {
	state := workflow.NewState(StateSchema)
	state.Apply(StateSchema, workflow.Update{
		KeyUserID:    userID,
		KeyProjectID: projectID,
	})
	return g.wf.Invoke(ctx, state)
}

// TriggerParams seeds the design phase from a finished planning
// conversation.
type TriggerParams struct {
	SessionID         string
	PRDContent        string
	UserFlowContent   string
	CompletenessScore float64
	ProjectID         string
	UserID            string
}

// TriggerDesignPhase resumes a session at the planning-complete
// boundary: it persists the handoff, submits the design job, and runs
// the monitoring loop until the job finishes or fails.
func (g *Graph) TriggerDesignPhase(ctx context.Context, params TriggerParams, opts ...workflow.InvokeOption) (workflow.State, error) {
	state := workflow.NewState(StateSchema)
	state.Apply(StateSchema, workflow.Update{
		KeySessionID:    params.SessionID,
		KeyUserID:       params.UserID,
		KeyProjectID:    params.ProjectID,
		KeyStatus:       StatusPlanningComplete,
		KeyCurrentAgent: AgentPlanning,
		KeyPlanningHandoff: PlanningHandoff{
			PRDContent:          params.PRDContent,
			UserFlowContent:     params.UserFlowContent,
			CompletenessScore:   params.CompletenessScore,
			ConversationContext: map[string]interface{}{},
			ProjectID:           params.ProjectID,
			UserID:              params.UserID,
		},
	})
	run, err := g.wf.StartAt(NodeCompletePlanning, state)
	if err != nil {
		return state, err
	}
	return run.Drain(ctx, opts...)
}

// Resume continues a previously suspended run at the named node, used
// when the monitor loop is persisted between polls.
func (g *Graph) Resume(ctx context.Context, node string, state workflow.State, opts ...workflow.InvokeOption) (workflow.State, error) {
	run, err := g.wf.StartAt(node, state)
	if err != nil {
		return state, err
	}
	return run.Drain(ctx, opts...)
}

// PollDelay spaces out design status polls: it sleeps after each
// monitor step that left the job still running.
func PollDelay(interval time.Duration) workflow.InvokeOption {
	return workflow.WithStepHook(func(node string, state workflow.State) {
		if node == NodeMonitorDesign && state.String(KeyStatus) == StatusDesignActive && !state.Bool(KeyIsComplete) {
			time.Sleep(interval)
		}
	})
}

func (g *Graph) initializeSession(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	userID := state.String(KeyUserID)
	if userID == "" {
		userID = "default-user"
	}
	projectID := state.String(KeyProjectID)
	if projectID == "" {
		projectID = "project-" + g.newID()
	}

	sessionID, err := g.store.CreateSession(ctx, userID, projectID)
	if err != nil {
		return workflow.Update{
			KeyStatus:       StatusFailed,
			KeyErrorMessage: fmt.Sprintf("failed to initialize session: %v", err),
		}, workflow.RouteTo("handle_error"), nil
	}
	if sessionID == "" {
		sessionID = g.newID()
	}

	now := g.now()
	return workflow.Update{
		KeySessionID:    sessionID,
		KeyUserID:       userID,
		KeyProjectID:    projectID,
		KeyCurrentAgent: AgentPlanning,
		KeyStatus:       StatusPlanningOnboarding,
		KeyProgress: Progress{
			Agent:            AgentPlanning,
			CurrentPhase:     "onboarding",
			PhaseDescription: "Starting planning agent...",
			ProgressPercent:  0,
			LastUpdated:      now,
		},
		KeyCreatedAt: now,
		KeyUpdatedAt: now,
	}, workflow.Stay, nil
}

func (g *Graph) completePlanning(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	handoff, ok := HandoffFromState(state)
	if !ok {
		handoff = PlanningHandoff{
			ConversationContext: map[string]interface{}{},
			ProjectID:           state.String(KeyProjectID),
			UserID:              state.String(KeyUserID),
		}
	}

	if err := g.store.UpdateStatus(ctx, state.String(KeySessionID), StatusPlanningComplete, AgentPlanning); err != nil {
		return workflow.Update{
			KeyErrorMessage: fmt.Sprintf("failed to complete planning: %v", err),
		}, workflow.RouteTo("handle_error"), nil
	}

	now := g.now()
	return workflow.Update{
		KeyStatus:          StatusDesignPending,
		KeyPlanningHandoff: handoff,
		KeyProgress: Progress{
			Agent:            AgentPlanning,
			CurrentPhase:     "complete",
			PhaseDescription: "Planning complete! Starting design...",
			ProgressPercent:  100,
			LastUpdated:      now,
		},
		KeyUpdatedAt: now,
	}, workflow.Stay, nil
}

func (g *Graph) triggerDesign(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	handoff, ok := HandoffFromState(state)
	if !ok {
		return workflow.Update{
			KeyStatus:       StatusFailed,
			KeyErrorMessage: "cannot trigger design: no planning data available",
		}, workflow.RouteTo("handle_error"), nil
	}

	sessionID := state.String(KeySessionID)
	jobID, err := g.submitDesignJob(ctx, sessionID, handoff)
	if err != nil {
		return workflow.Update{
			KeyStatus:       StatusFailed,
			KeyErrorMessage: fmt.Sprintf("failed to trigger design: %v", err),
		}, workflow.RouteTo("handle_error"), nil
	}

	now := g.now()
	return workflow.Update{
		KeyDesignJobID:  jobID,
		KeyCurrentAgent: AgentDesign,
		KeyStatus:       StatusDesignActive,
		KeyProgress: Progress{
			Agent:            AgentDesign,
			CurrentPhase:     "extract_screens",
			PhaseDescription: "Analyzing PRD and extracting screens...",
			ProgressPercent:  5,
			LastUpdated:      now,
		},
		KeyUpdatedAt: now,
	}, workflow.Stay, nil
}

func (g *Graph) submitDesignJob(ctx context.Context, sessionID string, handoff PlanningHandoff) (string, error) {
	if !g.design.Health(ctx) {
		return "", fmt.Errorf("design service is not available")
	}
	if err := g.store.StoreHandoff(ctx, sessionID, handoff); err != nil {
		return "", err
	}
	jobID, err := g.design.StartJob(ctx, design.Handoff{
		SessionID:       sessionID,
		PRDContent:      handoff.PRDContent,
		UserFlowContent: handoff.UserFlowContent,
		ProjectID:       handoff.ProjectID,
		UserID:          handoff.UserID,
	})
	if err != nil {
		return "", err
	}
	if err := g.store.UpdateStatus(ctx, sessionID, StatusDesignActive, AgentDesign); err != nil {
		return "", err
	}
	if err := g.store.SetDesignJobID(ctx, sessionID, jobID); err != nil {
		return "", err
	}
	return jobID, nil
}

func (g *Graph) monitorDesign(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	jobID := state.String(KeyDesignJobID)
	if jobID == "" {
		return workflow.Update{
			KeyErrorMessage: "no design job ID available for monitoring",
		}, workflow.RouteTo("handle_error"), nil
	}

	status, err := g.design.JobStatus(ctx, jobID)
	if err != nil {
		return workflow.Update{
			KeyErrorMessage: fmt.Sprintf("failed to monitor design job: %v", err),
		}, workflow.RouteTo("handle_error"), nil
	}

	now := g.now()
	switch status.Status {
	case design.StatusCompleted:
		documents, err := g.design.Documents(ctx, jobID)
		if err != nil {
			return workflow.Update{
				KeyErrorMessage: fmt.Sprintf("failed to fetch design documents: %v", err),
			}, workflow.RouteTo("handle_error"), nil
		}
		if err := g.store.UpdateStatus(ctx, state.String(KeySessionID), StatusDesignComplete, AgentDesign); err != nil {
			return workflow.Update{
				KeyErrorMessage: fmt.Sprintf("failed to record design completion: %v", err),
			}, workflow.RouteTo("handle_error"), nil
		}
		return workflow.Update{
			KeyStatus:          StatusDesignComplete,
			KeyDesignJobStatus: status,
			KeyDesignHandoff: DesignHandoff{
				Documents: documents,
				ProjectID: state.String(KeyProjectID),
				UserID:    state.String(KeyUserID),
			},
			KeyProgress: Progress{
				Agent:            AgentDesign,
				CurrentPhase:     "complete",
				PhaseDescription: "Design complete! Documents generated.",
				ProgressPercent:  100,
				LastUpdated:      now,
			},
			KeyUpdatedAt: now,
		}, workflow.RouteTo("complete_design"), nil

	case design.StatusFailed:
		msg := status.ErrorMessage
		if msg == "" {
			msg = "design job failed"
		}
		return workflow.Update{
			KeyStatus:       StatusFailed,
			KeyErrorMessage: msg,
		}, workflow.RouteTo("handle_error"), nil
	}

	return workflow.Update{
		KeyDesignJobStatus: status,
		KeyProgress: Progress{
			Agent:                AgentDesign,
			CurrentPhase:         status.PhaseName,
			PhaseDescription:     PhaseDescription(status.PhaseName),
			ProgressPercent:      status.ProgressPercent,
			EstimatedSecondsLeft: EstimateSecondsLeft(status.ProgressPercent),
			LastUpdated:          now,
		},
		KeyUpdatedAt: now,
	}, workflow.RouteTo("monitor_design"), nil
}

// handleError is terminal. A store failure here must not keep the run
// alive: the session is marked failed in state either way.
func (g *Graph) handleError(ctx context.Context, state workflow.State) (workflow.Update, workflow.Decision, error) {
	_ = g.store.UpdateStatus(ctx, state.String(KeySessionID), StatusFailed, state.String(KeyCurrentAgent))
	return workflow.Update{
		KeyStatus:     StatusFailed,
		KeyIsComplete: true,
		KeyUpdatedAt:  g.now(),
	}, workflow.Stay, nil
}
