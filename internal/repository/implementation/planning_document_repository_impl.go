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
	"gorm.io/gorm/clause"
)

type PlanningDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlannerMapper
}

func NewPlanningDocumentRepository(db *gorm.DB) contract.PlanningDocumentRepository {
	return &PlanningDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlannerMapper(),
	}
}

func (r *PlanningDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PlanningDocumentRepositoryImpl) Upsert(ctx context.Context, doc *entity.PlanningDocument) error {
	m := r.mapper.DocumentToModel(doc)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "progress", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*doc = *r.mapper.DocumentToEntity(m)
	return nil
}

func (r *PlanningDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlanningDocument, error) {
	var m model.PlanningDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DocumentToEntity(&m), nil
}

func (r *PlanningDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlanningDocument, error) {
	var models []*model.PlanningDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PlanningDocument, len(models))
	for i, m := range models {
		entities[i] = r.mapper.DocumentToEntity(m)
	}
	return entities, nil
}
