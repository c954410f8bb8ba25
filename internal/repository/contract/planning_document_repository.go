package contract

import (
	"context"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/repository/specification"
)

type PlanningDocumentRepository interface {
	// Upsert creates the document or replaces its content for the same
	// session and kind.
	Upsert(ctx context.Context, doc *entity.PlanningDocument) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlanningDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlanningDocument, error)
}
