package service

import (
	"context"
	"errors"
	"fmt"

	"ai-planner-be/internal/constant"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/repository/memory"
	"ai-planner-be/internal/repository/specification"
	"ai-planner-be/internal/repository/unitofwork"
	"ai-planner-be/pkg/events"
	"ai-planner-be/pkg/nats"
	"ai-planner-be/pkg/orchestrator"
	"ai-planner-be/pkg/planning"
	"ai-planner-be/pkg/store"
	"ai-planner-be/pkg/userflow"
	"ai-planner-be/pkg/workflow"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrInterviewFinished is returned when a message arrives after
	// both interviews are done and the session waits on the design
	// service.
	ErrInterviewFinished = errors.New("interview already finished")
)

// IPlannerService runs the conversational planning workflow: session
// lifecycle, message routing into the planning and user-flow graphs,
// and progress reporting.
type IPlannerService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.HistoryResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetProgress(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ProgressResponse, error)
}

type plannerService struct {
	uowFactory  unitofwork.RepositoryFactory
	planGraph   *planning.Graph
	flowGraph   *userflow.Graph
	sessionRepo *memory.SessionRepository
	natsPub     *nats.Publisher // nil when NATS is not configured
	logger      logger.ILogger
}

func NewPlannerService(
	uowFactory unitofwork.RepositoryFactory,
	planGraph *planning.Graph,
	flowGraph *userflow.Graph,
	sessionRepo *memory.SessionRepository,
	natsPub *nats.Publisher,
	log logger.ILogger,
) IPlannerService {
	return &plannerService{
		uowFactory:  uowFactory,
		planGraph:   planGraph,
		flowGraph:   flowGraph,
		sessionRepo: sessionRepo,
		natsPub:     natsPub,
		logger:      log,
	}
}

// CreateSession starts a fresh planning conversation and returns the
// onboarding greeting.
func (s *plannerService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	sessionId := uuid.New()

	state := s.planGraph.NewSession(userId.String(), sessionId.String())
	state, err := s.planGraph.Workflow().Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to start planning conversation: %w", err)
	}

	sessionEntity := &entity.PlanningSession{
		Id:           sessionId,
		UserId:       userId,
		ProjectId:    request.ProjectId,
		Status:       orchestrator.StatusPlanningOnboarding,
		CurrentAgent: orchestrator.AgentPlanning,
		Phase:        constant.PhasePlanning,
	}
	if snap, err := planning.Capture(state).Encode(); err == nil {
		sessionEntity.StateSnapshot = snap
	}

	greeting := state.Messages(planning.KeyMessages)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.PlanningSessionRepository().Create(ctx, sessionEntity); err != nil {
		uow.Rollback()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := uow.ConversationMessageRepository().CreateBatch(ctx, assistantMessages(sessionId, greeting)); err != nil {
		uow.Rollback()
		return nil, fmt.Errorf("failed to store greeting: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.sessionRepo.Save(&store.Session{
		ID:        sessionId.String(),
		UserID:    userId.String(),
		ProjectID: request.ProjectId,
		Phase:     store.PhasePlanning,
		State:     state,
	})

	s.publishEvent(ctx, events.NewSessionEvent(events.TypeSessionCreated, sessionId.String(), userId.String(), request.ProjectId, nil))

	s.logger.Info(constant.ModulePlanner, "planning session created", map[string]interface{}{
		"sessionId": sessionId.String(),
		"userId":    userId.String(),
	})

	return &dto.CreateSessionResponse{
		Session:  *sessionToDTO(sessionEntity),
		Messages: messagesToDTO(greeting),
	}, nil
}

// GetAllSessions lists the user's sessions, newest first.
func (s *plannerService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.PlanningSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionToDTO(sess))
	}
	return result, nil
}

// GetHistory returns the full transcript of one session.
func (s *plannerService) GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.HistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	history := &dto.HistoryResponse{
		SessionId: sessionId.String(),
		Messages:  make([]dto.MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		history.Messages = append(history.Messages, dto.MessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return history, nil
}

// SendMessage routes one user message into the session's current
// graph and returns everything the agent said back. When the planning
// interview finishes, the user-flow interview starts in the same
// reply.
func (s *plannerService) SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	session, err := s.loadSession(sessionEntity)
	if err != nil {
		return nil, err
	}
	if session.Phase == store.PhaseDesign || session.Phase == store.PhaseDone {
		return nil, ErrInterviewFinished
	}

	var reply []workflow.Message
	switch session.Phase {
	case store.PhasePlanning:
		reply, err = s.advancePlanning(ctx, session, sessionEntity, request.Message)
	case store.PhaseUserflow:
		reply, err = s.advanceUserflow(ctx, session, sessionEntity, request.Message)
	default:
		err = fmt.Errorf("unknown session phase %q", session.Phase)
	}
	if err != nil {
		return nil, err
	}

	if err := s.persistTurn(ctx, session, sessionEntity, request.Message, reply); err != nil {
		return nil, err
	}
	s.sessionRepo.Save(session)

	return &dto.SendMessageResponse{
		Messages:   messagesToDTO(reply),
		Phase:      session.Phase,
		IsComplete: session.Phase == store.PhaseDesign || session.Phase == store.PhaseDone,
		Score:      sessionEntity.Score,
		Progress:   planning.ProgressPercent(sessionEntity.QuestionCount, sessionEntity.MaxQuestions),
	}, nil
}

// GetProgress reports interview completeness for the session's
// current phase.
func (s *plannerService) GetProgress(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionEntity, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	progress := &dto.ProgressResponse{
		SessionId:     sessionId.String(),
		Phase:         sessionEntity.Phase,
		Score:         sessionEntity.Score,
		QuestionCount: sessionEntity.QuestionCount,
		MaxQuestions:  sessionEntity.MaxQuestions,
	}

	if sessionEntity.Phase != constant.PhasePlanning {
		return progress, nil
	}

	// For the planning phase the gap report comes from the live
	// state, not the stored counters.
	session, err := s.loadSession(sessionEntity)
	if err != nil {
		return progress, nil
	}
	data := session.State.Map(planning.KeyPRDData)
	tpl := planning.TemplateByLevel(session.State.String(planning.KeyTemplateLevel))
	report := planning.CheckCompleteness(data, tpl)
	progress.Score = report.OverallScore
	progress.CriticalGaps = report.CriticalGaps
	phase := planning.CurrentPhase(sessionEntity.QuestionCount, sessionEntity.MaxQuestions)
	progress.PhaseStrategy = planning.PhaseStrategy(phase)
	return progress, nil
}

// advancePlanning runs the planning graph one turn. When the PRD
// finishes it seeds the user-flow interview and appends its greeting
// to the same reply.
func (s *plannerService) advancePlanning(ctx context.Context, session *store.Session, sessionEntity *entity.PlanningSession, message string) ([]workflow.Message, error) {
	before := len(session.State.Messages(planning.KeyMessages))
	state, err := s.planGraph.Resume(ctx, session.State, message)
	if err != nil {
		return nil, fmt.Errorf("planning turn failed: %w", err)
	}
	session.State = state
	reply := assistantSince(state.Messages(planning.KeyMessages), before)

	sessionEntity.Status = orchestrator.StatusPlanningActive
	sessionEntity.TemplateLevel = state.String(planning.KeyTemplateLevel)
	sessionEntity.MaxQuestions = state.Int(planning.KeyMaxQuestions)
	sessionEntity.QuestionCount = state.Int(planning.KeyQuestionCount)
	sessionEntity.Score = state.Int(planning.KeyScore)

	if !state.Bool(planning.KeyIsComplete) {
		if snap, err := planning.Capture(state).Encode(); err == nil {
			sessionEntity.StateSnapshot = snap
		}
		return reply, nil
	}

	// PRD done: hand the document to the user-flow interview and let
	// it open in the same response.
	prd := state.String(planning.KeyPRDContent)
	s.publishEvent(ctx, events.NewSessionEvent(events.TypePRDCompleted, session.ID, session.UserID, session.ProjectID, map[string]interface{}{
		"score": state.Int(planning.KeyScore),
	}))
	s.logger.Info(constant.ModulePlanner, "planning interview complete", map[string]interface{}{
		"sessionId": session.ID,
		"score":     state.Int(planning.KeyScore),
	})

	flowState := s.flowGraph.NewSession(prd, session.UserID, session.ID)
	flowState, err = s.flowGraph.Workflow().Invoke(ctx, flowState)
	if err != nil {
		return nil, fmt.Errorf("failed to start user flow interview: %w", err)
	}
	reply = append(reply, flowState.Messages(userflow.KeyMessages)...)

	session.Phase = store.PhaseUserflow
	session.PRDContent = prd
	session.State = flowState
	sessionEntity.Phase = constant.PhaseUserflow
	sessionEntity.MaxQuestions = flowState.Int(userflow.KeyMaxQuestions)
	sessionEntity.QuestionCount = flowState.Int(userflow.KeyQuestionCount)
	if snap, err := userflow.Capture(flowState).Encode(); err == nil {
		sessionEntity.StateSnapshot = snap
	}
	return reply, nil
}

// advanceUserflow runs the user-flow graph one turn. Completion moves
// the session to the design phase, where the orchestrator takes over.
func (s *plannerService) advanceUserflow(ctx context.Context, session *store.Session, sessionEntity *entity.PlanningSession, message string) ([]workflow.Message, error) {
	before := len(session.State.Messages(userflow.KeyMessages))
	state, err := s.flowGraph.Resume(ctx, session.State, message)
	if err != nil {
		return nil, fmt.Errorf("user flow turn failed: %w", err)
	}
	session.State = state
	reply := assistantSince(state.Messages(userflow.KeyMessages), before)

	sessionEntity.QuestionCount = state.Int(userflow.KeyQuestionCount)
	sessionEntity.Score = state.Int(userflow.KeyScore)
	if snap, err := userflow.Capture(state).Encode(); err == nil {
		sessionEntity.StateSnapshot = snap
	}

	if state.Bool(userflow.KeyIsComplete) {
		session.Phase = store.PhaseDesign
		sessionEntity.Phase = constant.PhaseDesign
		sessionEntity.Status = orchestrator.StatusPlanningComplete
		s.publishEvent(ctx, events.NewSessionEvent(events.TypeUserFlowCompleted, session.ID, session.UserID, session.ProjectID, map[string]interface{}{
			"score": state.Int(userflow.KeyScore),
		}))
		s.logger.Info(constant.ModulePlanner, "user flow interview complete", map[string]interface{}{
			"sessionId": session.ID,
		})
	}
	return reply, nil
}

// persistTurn writes the user message, the agent reply, and the
// updated session row in one transaction.
func (s *plannerService) persistTurn(ctx context.Context, session *store.Session, sessionEntity *entity.PlanningSession, userMessage string, reply []workflow.Message) error {
	sessionId := sessionEntity.Id

	records := make([]*entity.ConversationMessage, 0, len(reply)+1)
	records = append(records, &entity.ConversationMessage{
		SessionId: sessionId,
		Role:      constant.MessageRoleUser,
		Content:   userMessage,
	})
	records = append(records, assistantMessages(sessionId, reply)...)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ConversationMessageRepository().CreateBatch(ctx, records); err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to store transcript: %w", err)
	}
	if err := uow.PlanningSessionRepository().Update(ctx, sessionEntity); err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to update session: %w", err)
	}
	return uow.Commit()
}

// loadSession returns the hot in-memory session, rebuilding it from
// the stored state snapshot when the cache entry expired.
func (s *plannerService) loadSession(sessionEntity *entity.PlanningSession) (*store.Session, error) {
	if session, found := s.sessionRepo.Get(sessionEntity.Id.String()); found {
		return session, nil
	}

	session := &store.Session{
		ID:        sessionEntity.Id.String(),
		UserID:    sessionEntity.UserId.String(),
		ProjectID: sessionEntity.ProjectId,
		Phase:     sessionEntity.Phase,
	}

	switch sessionEntity.Phase {
	case constant.PhasePlanning:
		if len(sessionEntity.StateSnapshot) == 0 {
			session.State = s.planGraph.NewSession(session.UserID, session.ID)
			return session, nil
		}
		snap, err := planning.DecodeSnapshot(sessionEntity.StateSnapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to restore planning state: %w", err)
		}
		session.State = snap.Restore()
	case constant.PhaseUserflow:
		snap, err := userflow.DecodeSnapshot(sessionEntity.StateSnapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to restore user flow state: %w", err)
		}
		session.State = snap.Restore()
		session.PRDContent = session.State.String(userflow.KeyPRDContent)
	default:
		// Design and done phases carry no conversational state.
	}

	s.sessionRepo.Save(session)
	return session, nil
}

func (s *plannerService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.PlanningSession, error) {
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

func (s *plannerService) publishEvent(ctx context.Context, event events.BaseEvent) {
	if s.natsPub == nil {
		return
	}
	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn(constant.ModulePlanner, "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func sessionToDTO(sessionEntity *entity.PlanningSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		SessionId: sessionEntity.Id.String(),
		ProjectId: sessionEntity.ProjectId,
		Status:    sessionEntity.Status,
		Phase:     sessionEntity.Phase,
		Score:     sessionEntity.Score,
		CreatedAt: sessionEntity.CreatedAt,
	}
}

func messagesToDTO(messages []workflow.Message) []dto.MessageResponse {
	result := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		role := constant.MessageRoleAssistant
		if m.Role == workflow.RoleHuman {
			role = constant.MessageRoleUser
		}
		result = append(result, dto.MessageResponse{Role: role, Content: m.Content})
	}
	return result
}

func assistantMessages(sessionId uuid.UUID, messages []workflow.Message) []*entity.ConversationMessage {
	records := make([]*entity.ConversationMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role != workflow.RoleAI {
			continue
		}
		records = append(records, &entity.ConversationMessage{
			SessionId: sessionId,
			Role:      constant.MessageRoleAssistant,
			Content:   m.Content,
			Meta:      m.Meta,
		})
	}
	return records
}

// assistantSince returns the AI messages appended after index from.
func assistantSince(messages []workflow.Message, from int) []workflow.Message {
	var out []workflow.Message
	for _, m := range messages[min(from, len(messages)):] {
		if m.Role == workflow.RoleAI {
			out = append(out, m)
		}
	}
	return out
}
