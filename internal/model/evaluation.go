package model

import "time"

// ErrorInstance is one detected mismatch between the actual and the
// expected recitation. Immutable after creation.
type ErrorInstance struct {
	Type            ErrorType `json:"type"`
	Position        int       `json:"position"`
	Severity        Severity  `json:"severity"`
	MeaningChanging bool      `json:"meaning_changing"`
	Weight          float64   `json:"weight"`
	Description     string    `json:"description"`
}

// EvaluationResult is the evaluator's snapshot for one recitation.
// JSON keys follow the analysis payload the frontend already consumes
// (snake_case, breakdown keyed by category name).
type EvaluationResult struct {
	QWER               float64               `json:"qwer"`
	Level              Level                 `json:"level"`
	ErrorBreakdown     map[ErrorType]float64 `json:"error_breakdown"`
	TotalErrors        int                   `json:"total_errors"`
	TotalPhonemes      int                   `json:"total_phonemes"`
	DominantErrorTypes []ErrorType           `json:"dominant_error_types"`
	DetailedErrors     []ErrorInstance       `json:"detailed_errors"`
	EvaluatedAt        time.Time             `json:"evaluated_at"`
}
