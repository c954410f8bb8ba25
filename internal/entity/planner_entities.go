package entity

import (
	"time"

	"github.com/google/uuid"
)

// PlanningSession is one end-to-end product-planning conversation,
// from onboarding through PRD, user flow, and the design handoff.
type PlanningSession struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	ProjectId     string
	Status        string
	CurrentAgent  string
	Phase         string
	TemplateLevel string
	MaxQuestions  int
	QuestionCount int
	Score         int
	DesignJobId   string
	StateSnapshot []byte
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

// ConversationMessage is one chat bubble in a session's transcript.
type ConversationMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	Meta      map[string]interface{}
	CreatedAt time.Time
}

// ConversationTurn is one answered question, kept separately from the
// raw transcript for analytics and document rebuilding.
type ConversationTurn struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	QuestionNumber int
	Question       string
	Answer         string
	Section        string
	CreatedAt      time.Time
}

// AgentHandoff records the payload passed from one agent to the next.
type AgentHandoff struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	FromAgent   string
	ToAgent     string
	Data        map[string]interface{}
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// AnalyticsEvent is a fire-and-forget product event.
type AnalyticsEvent struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	UserId     uuid.UUID
	EventType  string
	Properties map[string]interface{}
	CreatedAt  time.Time
}

// PlanningDocument is a generated artifact (PRD or user flow) with its
// completion progress at save time.
type PlanningDocument struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	ProjectId string
	Kind      string
	Content   string
	Progress  int
	CreatedAt time.Time
	UpdatedAt *time.Time
}
