package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanningSession struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	ProjectId     string         `gorm:"type:varchar(255);not null;index"`
	Status        string         `gorm:"type:varchar(50);not null"`
	CurrentAgent  string         `gorm:"type:varchar(50);not null"`
	Phase         string         `gorm:"type:varchar(50);not null"`
	TemplateLevel string         `gorm:"type:varchar(50)"`
	MaxQuestions  int            `gorm:"not null;default:0"`
	QuestionCount int            `gorm:"not null;default:0"`
	Score         int            `gorm:"not null;default:0"`
	DesignJobId   string         `gorm:"type:varchar(255)"`
	StateSnapshot datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (PlanningSession) TableName() string {
	return "planning_sessions"
}
