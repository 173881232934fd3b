package models

import (
	"time"

	"gorm.io/datatypes"
)

// Module type values stored in practice_sessions.module_type.
const (
	ModuleStandup         = "standup"
	ModuleInterview       = "interview"
	ModuleCodeReview      = "code-review"
	ModuleWriting         = "writing"
	ModulePairProgramming = "pair-programming"
)

// PracticeSession is one completed practice attempt. Rows are written once
// when a user finishes an evaluation and are never updated or deleted.
type PracticeSession struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"not null;index" json:"user_id"`
	ModuleType string            `gorm:"size:32;not null" json:"module_type"`
	TaskName   *string           `gorm:"size:255" json:"task_name"`
	Scores     datatypes.JSONMap `json:"scores"`
	UserInput  datatypes.JSONMap `gorm:"not null" json:"user_input"`
	AIFeedback string            `gorm:"type:text;not null" json:"ai_feedback"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TableName keeps the table name used by the original schema.
func (PracticeSession) TableName() string {
	return "practice_sessions"
}
