package model

import "time"

// LearnerSnapshot is the persistence-hook row: one JSON-encoded profile
// per learner. The live store stays in-process; snapshots are written
// and restored only at the host's request.
type LearnerSnapshot struct {
	LearnerID string    `gorm:"primaryKey;type:varchar(64)" json:"learnerId"`
	Profile   string    `gorm:"type:json" json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (LearnerSnapshot) TableName() string {
	return "learner_snapshots"
}
