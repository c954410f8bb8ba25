package unitofwork

import (
	"context"
	"fmt"

	"ai-planner-be/internal/repository/contract"
	"ai-planner-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) PlanningSessionRepository() contract.PlanningSessionRepository {
	return implementation.NewPlanningSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ConversationMessageRepository() contract.ConversationMessageRepository {
	return implementation.NewConversationMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ConversationTurnRepository() contract.ConversationTurnRepository {
	return implementation.NewConversationTurnRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgentHandoffRepository() contract.AgentHandoffRepository {
	return implementation.NewAgentHandoffRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AnalyticsEventRepository() contract.AnalyticsEventRepository {
	return implementation.NewAnalyticsEventRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PlanningDocumentRepository() contract.PlanningDocumentRepository {
	return implementation.NewPlanningDocumentRepository(u.getDB())
}
