package service

import (
	"context"
	"fmt"
	"time"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/repository/specification"
	"ai-planner-be/internal/repository/unitofwork"
	"ai-planner-be/pkg/orchestrator"

	"github.com/google/uuid"
)

// gormOrchestratorStore backs the orchestrator graph's persistence
// hooks with the planning session tables.
type gormOrchestratorStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewOrchestratorStore(uowFactory unitofwork.RepositoryFactory) orchestrator.Store {
	return &gormOrchestratorStore{uowFactory: uowFactory}
}

func (s *gormOrchestratorStore) CreateSession(ctx context.Context, userID, projectID string) (string, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		// Anonymous pipeline runs get a session row without a user
		// reference.
		uid = uuid.Nil
	}

	sessionEntity := &entity.PlanningSession{
		Id:           uuid.New(),
		UserId:       uid,
		ProjectId:    projectID,
		Status:       orchestrator.StatusPlanningOnboarding,
		CurrentAgent: orchestrator.AgentIdle,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PlanningSessionRepository().Create(ctx, sessionEntity); err != nil {
		return "", err
	}
	return sessionEntity.Id.String(), nil
}

func (s *gormOrchestratorStore) UpdateStatus(ctx context.Context, sessionID, status, agent string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := s.findSession(ctx, uow, sessionID)
	if err != nil {
		return err
	}
	sessionEntity.Status = status
	sessionEntity.CurrentAgent = agent
	return uow.PlanningSessionRepository().Update(ctx, sessionEntity)
}

func (s *gormOrchestratorStore) StoreHandoff(ctx context.Context, sessionID string, handoff orchestrator.PlanningHandoff) error {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record := &entity.AgentHandoff{
		SessionId: sid,
		FromAgent: orchestrator.AgentPlanning,
		ToAgent:   orchestrator.AgentDesign,
		Status:    "pending",
		Data: map[string]interface{}{
			"prdContent":          handoff.PRDContent,
			"userFlowContent":     handoff.UserFlowContent,
			"completenessScore":   handoff.CompletenessScore,
			"conversationContext": handoff.ConversationContext,
			"projectId":           handoff.ProjectID,
			"userId":              handoff.UserID,
		},
	}
	return uow.AgentHandoffRepository().Create(ctx, record)
}

func (s *gormOrchestratorStore) SetDesignJobID(ctx context.Context, sessionID, jobID string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := s.findSession(ctx, uow, sessionID)
	if err != nil {
		return err
	}
	sessionEntity.DesignJobId = jobID

	if err := uow.PlanningSessionRepository().Update(ctx, sessionEntity); err != nil {
		return err
	}

	// The planning → design handoff is consumed once the job exists.
	handoff, err := uow.AgentHandoffRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionEntity.Id},
		specification.ByAgents{FromAgent: orchestrator.AgentPlanning, ToAgent: orchestrator.AgentDesign},
	)
	if err != nil || handoff == nil {
		return err
	}
	now := time.Now()
	handoff.Status = "completed"
	handoff.CompletedAt = &now
	return uow.AgentHandoffRepository().Update(ctx, handoff)
}

func (s *gormOrchestratorStore) findSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionID string) (*entity.PlanningSession, error) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}
	sessionEntity, err := uow.PlanningSessionRepository().FindOne(ctx, specification.ByID{ID: sid})
	if err != nil {
		return nil, err
	}
	if sessionEntity == nil {
		return nil, ErrSessionNotFound
	}
	return sessionEntity, nil
}
