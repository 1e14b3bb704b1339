package model

import (
	"time"

	"github.com/google/uuid"
)

// TestResult is the assessment outcome for one participant. Results are
// written by the fulfillment pipeline; this service only reads them.
type TestResult struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantID uuid.UUID `gorm:"type:uuid;not null;index" json:"participant_id"`
	CharacterType string    `gorm:"size:50;index" json:"character_type"`
	Summary       string    `gorm:"type:text" json:"summary,omitempty"`
	CompletedAt   time.Time `gorm:"index" json:"completed_at"`
	CreatedAt     time.Time `json:"created_at"`

	Participant *Participant `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
}

func (TestResult) TableName() string {
	return "test_results"
}
