package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-planner-be/internal/constant"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/repository/specification"
	"ai-planner-be/internal/repository/unitofwork"
	"ai-planner-be/pkg/design"
	"ai-planner-be/pkg/events"
	"ai-planner-be/pkg/nats"
	"ai-planner-be/pkg/orchestrator"
	"ai-planner-be/pkg/progress"
	"ai-planner-be/pkg/workflow"

	"github.com/google/uuid"
)

var (
	// ErrDesignNotReady is returned when the design phase is
	// requested before both interviews are finished.
	ErrDesignNotReady = errors.New("planning is not complete yet")
	ErrNoDesignJob    = errors.New("no design job for this session")
)

// designRunTimeout bounds one background design pipeline run. The
// design service estimates jobs at around forty minutes.
const designRunTimeout = 2 * time.Hour

// IOrchestratorService drives the handoff to the external design
// service: it triggers the job, monitors it in the background, and
// serves progress to polling clients.
type IOrchestratorService interface {
	TriggerDesign(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DesignProgressResponse, error)
	GetDesignProgress(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DesignProgressResponse, error)
	CancelDesign(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type orchestratorService struct {
	uowFactory    unitofwork.RepositoryFactory
	graph         *orchestrator.Graph
	designClient  *design.Client
	progressCache *progress.Cache // nil when redis is not configured
	natsPub       *nats.Publisher // nil when NATS is not configured
	logger        logger.ILogger
	pollInterval  time.Duration
}

func NewOrchestratorService(
	uowFactory unitofwork.RepositoryFactory,
	graph *orchestrator.Graph,
	designClient *design.Client,
	progressCache *progress.Cache,
	natsPub *nats.Publisher,
	log logger.ILogger,
	pollInterval time.Duration,
) IOrchestratorService {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &orchestratorService{
		uowFactory:    uowFactory,
		graph:         graph,
		designClient:  designClient,
		progressCache: progressCache,
		natsPub:       natsPub,
		logger:        log,
		pollInterval:  pollInterval,
	}
}

// TriggerDesign hands the finished planning deliverables to the
// design service and starts a background monitor for the job.
func (s *orchestratorService) TriggerDesign(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DesignProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if sessionEntity.Status != orchestrator.StatusPlanningComplete {
		return nil, ErrDesignNotReady
	}

	prd, err := uow.PlanningDocumentRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByKind{Kind: constant.DocumentKindPRD},
	)
	if err != nil {
		return nil, err
	}
	if prd == nil {
		return nil, fmt.Errorf("session has no PRD document")
	}
	flow, err := uow.PlanningDocumentRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByKind{Kind: constant.DocumentKindUserflow},
	)
	if err != nil {
		return nil, err
	}

	params := orchestrator.TriggerParams{
		SessionID:         sessionId.String(),
		PRDContent:        prd.Content,
		CompletenessScore: float64(sessionEntity.Score),
		ProjectID:         sessionEntity.ProjectId,
		UserID:            userId.String(),
	}
	if flow != nil {
		params.UserFlowContent = flow.Content
	}

	s.publishEvent(context.Background(), events.NewSessionEvent(events.TypeDesignTriggered, sessionId.String(), userId.String(), sessionEntity.ProjectId, nil))
	s.logger.Info(constant.ModuleOrchestrator, "design phase triggered", map[string]interface{}{
		"sessionId": sessionId.String(),
	})

	go s.runDesignPipeline(params)

	return &dto.DesignProgressResponse{
		SessionId:        sessionId.String(),
		Status:           orchestrator.StatusDesignPending,
		CurrentPhase:     "extract_screens",
		PhaseDescription: orchestrator.PhaseDescription("extract_screens"),
		LastUpdated:      time.Now(),
	}, nil
}

// runDesignPipeline drains the orchestrator graph to completion,
// publishing each progress snapshot to the cache along the way.
// Session rows are updated by the graph's store hooks.
func (s *orchestratorService) runDesignPipeline(params orchestrator.TriggerParams) {
	ctx, cancel := context.WithTimeout(context.Background(), designRunTimeout)
	defer cancel()

	finalState, err := s.graph.TriggerDesignPhase(ctx, params,
		orchestrator.PollDelay(s.pollInterval),
		workflow.WithStepLimit(100000),
		workflow.WithStepHook(func(node string, state workflow.State) {
			if s.progressCache == nil {
				return
			}
			if p, ok := orchestrator.ProgressFromState(state); ok {
				if err := s.progressCache.Set(ctx, params.SessionID, p); err != nil {
					s.logger.Warn(constant.ModuleOrchestrator, "failed to cache design progress", map[string]interface{}{
						"sessionId": params.SessionID,
						"error":     err.Error(),
					})
				}
			}
		}),
	)
	if err != nil {
		s.logger.Error(constant.ModuleOrchestrator, "design pipeline run failed", map[string]interface{}{
			"sessionId": params.SessionID,
			"error":     err.Error(),
		})
		s.publishEvent(context.Background(), events.NewSessionEvent(events.TypeSessionFailed, params.SessionID, params.UserID, params.ProjectID, map[string]interface{}{
			"error": err.Error(),
		}))
		return
	}

	status := finalState.String(orchestrator.KeyStatus)
	switch status {
	case orchestrator.StatusDesignComplete:
		s.finishSession(params.SessionID)
		s.publishEvent(context.Background(), events.NewSessionEvent(events.TypeDesignCompleted, params.SessionID, params.UserID, params.ProjectID, nil))
		s.logger.Info(constant.ModuleOrchestrator, "design pipeline complete", map[string]interface{}{
			"sessionId": params.SessionID,
		})
	case orchestrator.StatusFailed:
		s.publishEvent(context.Background(), events.NewSessionEvent(events.TypeSessionFailed, params.SessionID, params.UserID, params.ProjectID, map[string]interface{}{
			"error": finalState.String(orchestrator.KeyErrorMessage),
		}))
		s.logger.Error(constant.ModuleOrchestrator, "design pipeline failed", map[string]interface{}{
			"sessionId": params.SessionID,
			"error":     finalState.String(orchestrator.KeyErrorMessage),
		})
	}
}

// GetDesignProgress serves the cached progress snapshot, falling back
// to a live status query when the cache has expired.
func (s *orchestratorService) GetDesignProgress(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DesignProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if s.progressCache != nil {
		if p, err := s.progressCache.Get(ctx, sessionId.String()); err == nil {
			return &dto.DesignProgressResponse{
				SessionId:            sessionId.String(),
				Status:               sessionEntity.Status,
				CurrentPhase:         p.CurrentPhase,
				PhaseDescription:     p.PhaseDescription,
				ProgressPercent:      p.ProgressPercent,
				EstimatedSecondsLeft: p.EstimatedSecondsLeft,
				LastUpdated:          p.LastUpdated,
			}, nil
		} else if !errors.Is(err, progress.ErrNotFound) {
			s.logger.Warn(constant.ModuleOrchestrator, "progress cache read failed", map[string]interface{}{
				"sessionId": sessionId.String(),
				"error":     err.Error(),
			})
		}
	}

	if sessionEntity.DesignJobId == "" {
		return &dto.DesignProgressResponse{
			SessionId:   sessionId.String(),
			Status:      sessionEntity.Status,
			LastUpdated: time.Now(),
		}, nil
	}

	job, err := s.designClient.JobStatus(ctx, sessionEntity.DesignJobId)
	if err != nil {
		return nil, fmt.Errorf("failed to query design job: %w", err)
	}
	return &dto.DesignProgressResponse{
		SessionId:            sessionId.String(),
		Status:               sessionEntity.Status,
		CurrentPhase:         job.PhaseName,
		PhaseDescription:     orchestrator.PhaseDescription(job.PhaseName),
		ProgressPercent:      job.ProgressPercent,
		EstimatedSecondsLeft: orchestrator.EstimateSecondsLeft(job.ProgressPercent),
		LastUpdated:          job.LastUpdated,
	}, nil
}

// CancelDesign aborts the running design job.
func (s *orchestratorService) CancelDesign(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}
	if sessionEntity.DesignJobId == "" {
		return ErrNoDesignJob
	}

	if err := s.designClient.CancelJob(ctx, sessionEntity.DesignJobId); err != nil {
		return fmt.Errorf("failed to cancel design job: %w", err)
	}

	sessionEntity.Status = orchestrator.StatusDesignPaused
	if err := uow.PlanningSessionRepository().Update(ctx, sessionEntity); err != nil {
		return err
	}
	if s.progressCache != nil {
		if err := s.progressCache.Delete(ctx, sessionId.String()); err != nil {
			s.logger.Warn(constant.ModuleOrchestrator, "failed to drop cached progress", map[string]interface{}{
				"sessionId": sessionId.String(),
				"error":     err.Error(),
			})
		}
	}
	s.logger.Info(constant.ModuleOrchestrator, "design job cancelled", map[string]interface{}{
		"sessionId": sessionId.String(),
		"jobId":     sessionEntity.DesignJobId,
	})
	return nil
}

func (s *orchestratorService) finishSession(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := uow.PlanningSessionRepository().FindOne(ctx, specification.ByID{ID: sid})
	if err != nil || sessionEntity == nil {
		return
	}
	sessionEntity.Phase = constant.PhaseDone
	if err := uow.PlanningSessionRepository().Update(ctx, sessionEntity); err != nil {
		s.logger.Warn(constant.ModuleOrchestrator, "failed to mark session done", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
}

func (s *orchestratorService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.PlanningSession, error) {
	sessionEntity, err := uow.PlanningSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
		specification.NotDeleted{},
	)
	if err != nil {
		return nil, err
	}
	if sessionEntity == nil {
		return nil, ErrSessionNotFound
	}
	return sessionEntity, nil
}

func (s *orchestratorService) publishEvent(ctx context.Context, event events.BaseEvent) {
	if s.natsPub == nil {
		return
	}
	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn(constant.ModuleOrchestrator, "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
