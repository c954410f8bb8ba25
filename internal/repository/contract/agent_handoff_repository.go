package contract

import (
	"context"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/repository/specification"
)

type AgentHandoffRepository interface {
	Create(ctx context.Context, handoff *entity.AgentHandoff) error
	Update(ctx context.Context, handoff *entity.AgentHandoff) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AgentHandoff, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentHandoff, error)
}
