package contract

import (
	"context"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/repository/specification"
)

type AnalyticsEventRepository interface {
	Create(ctx context.Context, event *entity.AnalyticsEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AnalyticsEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
