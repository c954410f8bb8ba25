package events

import "time"

// Event types emitted over the session lifecycle.
const (
	TypeSessionCreated    = "SESSION_CREATED"
	TypeQuestionAnswered  = "QUESTION_ANSWERED"
	TypePRDCompleted      = "PRD_COMPLETED"
	TypeUserFlowCompleted = "USERFLOW_COMPLETED"
	TypeDesignTriggered   = "DESIGN_TRIGGERED"
	TypeDesignCompleted   = "DESIGN_COMPLETED"
	TypeSessionFailed     = "SESSION_FAILED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PRD_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used by the session
// event constructors below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewSessionEvent builds a lifecycle event carrying the session's
// identity plus any extra properties.
func NewSessionEvent(eventType, sessionID, userID, projectID string, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"sessionId": sessionID,
		"userId":    userID,
		"projectId": projectID,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
