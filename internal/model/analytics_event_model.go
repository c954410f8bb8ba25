package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalyticsEvent struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID      `gorm:"type:uuid;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;index"`
	EventType  string         `gorm:"type:varchar(100);not null;index"`
	Properties datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
