package implementation

import (
	"context"
	"errors"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/mapper"
	"ai-planner-be/internal/model"
	"ai-planner-be/internal/repository/contract"
	"ai-planner-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AgentHandoffRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlannerMapper
}

func NewAgentHandoffRepository(db *gorm.DB) contract.AgentHandoffRepository {
	return &AgentHandoffRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlannerMapper(),
	}
}

func (r *AgentHandoffRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AgentHandoffRepositoryImpl) Create(ctx context.Context, handoff *entity.AgentHandoff) error {
	m := r.mapper.HandoffToModel(handoff)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*handoff = *r.mapper.HandoffToEntity(m)
	return nil
}

func (r *AgentHandoffRepositoryImpl) Update(ctx context.Context, handoff *entity.AgentHandoff) error {
	m := r.mapper.HandoffToModel(handoff)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*handoff = *r.mapper.HandoffToEntity(m)
	return nil
}

func (r *AgentHandoffRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AgentHandoff, error) {
	var m model.AgentHandoff
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.HandoffToEntity(&m), nil
}

func (r *AgentHandoffRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentHandoff, error) {
	var models []*model.AgentHandoff
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AgentHandoff, len(models))
	for i, m := range models {
		entities[i] = r.mapper.HandoffToEntity(m)
	}
	return entities, nil
}
