package model

import "time"

// ErrorFrequency accumulates occurrences of one error category for one
// learner. Count never decreases while the process runs.
//
// Trend is initialized to stable and is NOT recomputed by TrackError;
// the computed trend lives on the profile (see ProgressTrend and
// GetImprovementTrend). Kept as a field because the product surface
// already exposes it.
type ErrorFrequency struct {
	Type         ErrorType      `json:"type"`
	Count        int            `json:"count"`
	LastSeen     time.Time      `json:"lastSeen"`
	LastSeverity Severity       `json:"lastSeverity"`
	Trend        TrendDirection `json:"trend"`
}

// EvaluationSummary is the compact history entry kept per recitation.
type EvaluationSummary struct {
	QWER               float64     `json:"qwer"`
	Level              Level       `json:"level"`
	DominantErrorTypes []ErrorType `json:"dominantErrorTypes"`
	Timestamp          time.Time   `json:"timestamp"`
}

// ProgressTrend is the profile-level trend record, zeroed at creation
// and recomputed on demand from the score history.
type ProgressTrend struct {
	Direction TrendDirection `json:"direction"`
	Delta     float64        `json:"delta"`
	Window    int            `json:"window"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// HistoryCap bounds the per-learner evaluation history; the oldest
// entry is evicted first.
const HistoryCap = 50

// LearnerProfile is the per-learner aggregate owned by the learner
// store. CurrentLevel is derived from the trailing history window,
// never set directly.
type LearnerProfile struct {
	ID               string                        `json:"id"`
	Name             string                        `json:"name"`
	CurrentLevel     Level                         `json:"currentLevel"`
	RegisteredAt     time.Time                     `json:"registeredAt"`
	TotalSessions    int                           `json:"totalSessions"`
	TotalRecitations int                           `json:"totalRecitations"`
	History          []EvaluationSummary           `json:"history"`
	ErrorFrequencies map[ErrorType]*ErrorFrequency `json:"errorFrequencies"`
	Progress         ProgressTrend                 `json:"progress"`
}
