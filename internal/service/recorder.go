package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-planner-be/internal/constant"
	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// analyticsPayload is the wire shape of one analytics event on the
// internal watermill topic.
type analyticsPayload struct {
	SessionId  string                 `json:"sessionId"`
	UserId     string                 `json:"userId"`
	EventType  string                 `json:"eventType"`
	Properties map[string]interface{} `json:"properties"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// SessionRecorder receives side-channel callbacks from the
// conversation graphs and persists them. Every method is
// fire-and-forget: a failed write is logged and swallowed so a
// bookkeeping hiccup never breaks the conversation itself.
//
// The graphs identify a conversation by its project field; this
// service seeds that field with the session UUID, so the projectID
// arguments below are session IDs.
type SessionRecorder struct {
	uowFactory   unitofwork.RepositoryFactory
	publisher    message.Publisher
	logger       logger.ILogger
	documentKind string
}

func NewSessionRecorder(
	uowFactory unitofwork.RepositoryFactory,
	publisher message.Publisher,
	log logger.ILogger,
	documentKind string,
) *SessionRecorder {
	return &SessionRecorder{
		uowFactory:   uowFactory,
		publisher:    publisher,
		logger:       log,
		documentKind: documentKind,
	}
}

// RecordTurn stores one question/answer pair of the interview.
func (r *SessionRecorder) RecordTurn(ctx context.Context, sessionID string, questionNumber int, question, answer, section string) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		r.logger.Warn(constant.ModuleRecorder, "skipping turn with invalid session id", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	turn := &entity.ConversationTurn{
		SessionId:      sid,
		QuestionNumber: questionNumber,
		Question:       question,
		Answer:         answer,
		Section:        section,
	}
	if err := uow.ConversationTurnRepository().Create(ctx, turn); err != nil {
		r.logger.Warn(constant.ModuleRecorder, "failed to record conversation turn", map[string]interface{}{
			"sessionId":      sessionID,
			"questionNumber": questionNumber,
			"error":          err.Error(),
		})
	}
}

// RecordEvent forwards an analytics event to the watermill topic; the
// analytics consumer persists it out of band.
func (r *SessionRecorder) RecordEvent(ctx context.Context, userID, sessionID, event string, payload map[string]interface{}) {
	body, err := json.Marshal(analyticsPayload{
		SessionId:  sessionID,
		UserId:     userID,
		EventType:  event,
		Properties: payload,
		OccurredAt: time.Now(),
	})
	if err != nil {
		r.logger.Warn(constant.ModuleRecorder, "failed to encode analytics event", map[string]interface{}{
			"event": event,
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := r.publisher.Publish(constant.TopicAnalyticsEvents, msg); err != nil {
		r.logger.Warn(constant.ModuleRecorder, "failed to publish analytics event", map[string]interface{}{
			"event": event,
			"error": err.Error(),
		})
	}
}

// SaveDocument upserts the generated document for the session, so the
// draft visible over the API is always the latest one.
func (r *SessionRecorder) SaveDocument(ctx context.Context, sessionID, content string, progress int) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		r.logger.Warn(constant.ModuleRecorder, "skipping document with invalid session id", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	doc := &entity.PlanningDocument{
		SessionId: sid,
		Kind:      r.documentKind,
		Content:   content,
		Progress:  progress,
	}
	if err := uow.PlanningDocumentRepository().Upsert(ctx, doc); err != nil {
		r.logger.Warn(constant.ModuleRecorder, "failed to save document", map[string]interface{}{
			"sessionId": sessionID,
			"kind":      r.documentKind,
			"progress":  progress,
			"error":     err.Error(),
		})
	}
}
