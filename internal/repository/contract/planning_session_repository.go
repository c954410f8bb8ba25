package contract

import (
	"context"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PlanningSessionRepository interface {
	Create(ctx context.Context, session *entity.PlanningSession) error
	Update(ctx context.Context, session *entity.PlanningSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlanningSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlanningSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
