package model

import (
	"time"

	"github.com/google/uuid"
)

type PlanningDocument struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_planning_documents_session_kind"`
	ProjectId string    `gorm:"type:varchar(255);not null;index"`
	Kind      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_planning_documents_session_kind"` // prd | userflow
	Content   string    `gorm:"type:text;not null"`
	Progress  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PlanningDocument) TableName() string {
	return "planning_documents"
}
