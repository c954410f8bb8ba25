package mapper

import (
	"encoding/json"
	"time"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlannerMapper struct{}

func NewPlannerMapper() *PlannerMapper {
	return &PlannerMapper{}
}

func toJSON(m map[string]interface{}) datatypes.JSON {
	if m == nil {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func fromJSON(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// Session Mappers

func (m *PlannerMapper) SessionToEntity(s *model.PlanningSession) *entity.PlanningSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.PlanningSession{
		Id:            s.Id,
		UserId:        s.UserId,
		ProjectId:     s.ProjectId,
		Status:        s.Status,
		CurrentAgent:  s.CurrentAgent,
		Phase:         s.Phase,
		TemplateLevel: s.TemplateLevel,
		MaxQuestions:  s.MaxQuestions,
		QuestionCount: s.QuestionCount,
		Score:         s.Score,
		DesignJobId:   s.DesignJobId,
		StateSnapshot: []byte(s.StateSnapshot),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     s.DeletedAt.Valid,
	}
}

func (m *PlannerMapper) SessionToModel(s *entity.PlanningSession) *model.PlanningSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.PlanningSession{
		Id:            s.Id,
		UserId:        s.UserId,
		ProjectId:     s.ProjectId,
		Status:        s.Status,
		CurrentAgent:  s.CurrentAgent,
		Phase:         s.Phase,
		TemplateLevel: s.TemplateLevel,
		MaxQuestions:  s.MaxQuestions,
		QuestionCount: s.QuestionCount,
		Score:         s.Score,
		DesignJobId:   s.DesignJobId,
		StateSnapshot: datatypes.JSON(s.StateSnapshot),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

// Message Mappers

func (m *PlannerMapper) MessageToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &entity.ConversationMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Meta:      fromJSON(msg.Meta),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *PlannerMapper) MessageToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &model.ConversationMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Meta:      toJSON(msg.Meta),
		CreatedAt: msg.CreatedAt,
	}
}

// Turn Mappers

func (m *PlannerMapper) TurnToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}
	return &entity.ConversationTurn{
		Id:             t.Id,
		SessionId:      t.SessionId,
		QuestionNumber: t.QuestionNumber,
		Question:       t.Question,
		Answer:         t.Answer,
		Section:        t.Section,
		CreatedAt:      t.CreatedAt,
	}
}

func (m *PlannerMapper) TurnToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}
	return &model.ConversationTurn{
		Id:             t.Id,
		SessionId:      t.SessionId,
		QuestionNumber: t.QuestionNumber,
		Question:       t.Question,
		Answer:         t.Answer,
		Section:        t.Section,
		CreatedAt:      t.CreatedAt,
	}
}

// Handoff Mappers

func (m *PlannerMapper) HandoffToEntity(h *model.AgentHandoff) *entity.AgentHandoff {
	if h == nil {
		return nil
	}
	return &entity.AgentHandoff{
		Id:          h.Id,
		SessionId:   h.SessionId,
		FromAgent:   h.FromAgent,
		ToAgent:     h.ToAgent,
		Data:        fromJSON(h.Data),
		Status:      h.Status,
		CreatedAt:   h.CreatedAt,
		CompletedAt: h.CompletedAt,
	}
}

func (m *PlannerMapper) HandoffToModel(h *entity.AgentHandoff) *model.AgentHandoff {
	if h == nil {
		return nil
	}
	return &model.AgentHandoff{
		Id:          h.Id,
		SessionId:   h.SessionId,
		FromAgent:   h.FromAgent,
		ToAgent:     h.ToAgent,
		Data:        toJSON(h.Data),
		Status:      h.Status,
		CreatedAt:   h.CreatedAt,
		CompletedAt: h.CompletedAt,
	}
}

// Analytics Mappers

func (m *PlannerMapper) EventToEntity(e *model.AnalyticsEvent) *entity.AnalyticsEvent {
	if e == nil {
		return nil
	}
	return &entity.AnalyticsEvent{
		Id:         e.Id,
		SessionId:  e.SessionId,
		UserId:     e.UserId,
		EventType:  e.EventType,
		Properties: fromJSON(e.Properties),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *PlannerMapper) EventToModel(e *entity.AnalyticsEvent) *model.AnalyticsEvent {
	if e == nil {
		return nil
	}
	return &model.AnalyticsEvent{
		Id:         e.Id,
		SessionId:  e.SessionId,
		UserId:     e.UserId,
		EventType:  e.EventType,
		Properties: toJSON(e.Properties),
		CreatedAt:  e.CreatedAt,
	}
}

// Document Mappers

func (m *PlannerMapper) DocumentToEntity(d *model.PlanningDocument) *entity.PlanningDocument {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.PlanningDocument{
		Id:        d.Id,
		SessionId: d.SessionId,
		ProjectId: d.ProjectId,
		Kind:      d.Kind,
		Content:   d.Content,
		Progress:  d.Progress,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *PlannerMapper) DocumentToModel(d *entity.PlanningDocument) *model.PlanningDocument {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.PlanningDocument{
		Id:        d.Id,
		SessionId: d.SessionId,
		ProjectId: d.ProjectId,
		Kind:      d.Kind,
		Content:   d.Content,
		Progress:  d.Progress,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
