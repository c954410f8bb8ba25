package unitofwork

import (
	"context"

	"ai-planner-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PlanningSessionRepository() contract.PlanningSessionRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	ConversationTurnRepository() contract.ConversationTurnRepository
	AgentHandoffRepository() contract.AgentHandoffRepository
	AnalyticsEventRepository() contract.AnalyticsEventRepository
	PlanningDocumentRepository() contract.PlanningDocumentRepository
}
