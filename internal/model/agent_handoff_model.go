package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AgentHandoff struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	FromAgent   string         `gorm:"type:varchar(50);not null"`
	ToAgent     string         `gorm:"type:varchar(50);not null"`
	Data        datatypes.JSON `gorm:"type:jsonb;not null"`
	Status      string         `gorm:"type:varchar(50);not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	CompletedAt *time.Time
}

func (AgentHandoff) TableName() string {
	return "agent_handoffs"
}
