package model

// AlignmentInput is the batch-analysis payload handed over by the
// external alignment service: either an aligned actual/expected phoneme
// pair, or a pre-classified error list with the phoneme count.
type AlignmentInput struct {
	LearnerID   string `json:"learnerId" validate:"required"`
	LearnerName string `json:"learnerName"`

	Expected []Phoneme `json:"expected"`
	Actual   []Phoneme `json:"actual"`

	// Classified mode. TotalPhonemes is required when Errors is set.
	Errors        []ErrorInstance `json:"errors,omitempty"`
	TotalPhonemes int             `json:"totalPhonemes,omitempty" validate:"required_with=Errors,gte=0"`
}

// AnalysisOutput is what the host emits per processed recitation.
type AnalysisOutput struct {
	LearnerID string            `json:"learnerId"`
	Analysis  *EvaluationResult `json:"analysis"`
	Lesson    *LessonPlan       `json:"lesson"`
}
