package orchestrator

import "context"

// Store persists session lifecycle and handoff data. Errors here are
// part of the pipeline's failure handling: a store failure routes the
// run to the error node.
type Store interface {
	// CreateSession records a new session and returns its ID. An empty
	// ID tells the graph to mint one itself.
	CreateSession(ctx context.Context, userID, projectID string) (string, error)

	// UpdateStatus records the session's status and owning agent.
	UpdateStatus(ctx context.Context, sessionID, status, agent string) error

	// StoreHandoff persists the planning deliverables handed to the
	// design phase.
	StoreHandoff(ctx context.Context, sessionID string, handoff PlanningHandoff) error

	// SetDesignJobID links the session to its design job.
	SetDesignJobID(ctx context.Context, sessionID, jobID string) error
}

// NoopStore persists nothing. Useful for tests and ephemeral runs.
type NoopStore struct{}

func (NoopStore) CreateSession(context.Context, string, string) (string, error) { return "", nil }
func (NoopStore) UpdateStatus(context.Context, string, string, string) error    { return nil }
func (NoopStore) StoreHandoff(context.Context, string, PlanningHandoff) error   { return nil }
func (NoopStore) SetDesignJobID(context.Context, string, string) error          { return nil }
