package model

// Exercise types map one-to-one onto the error category the drill is
// meant to correct.
const (
	ExerciseArticulationDrill = "articulation_drill"
	ExerciseRuleFocus         = "rule_focus"
	ExerciseTimingPractice    = "timing_practice"
	ExerciseProgressive       = "progressive_recitation"
)

// Strategy names identify which policy rule produced a lesson plan.
const (
	StrategyFocusedDrill          = "focused_drill"
	StrategyAdvancement           = "advancement"
	StrategyArticulationIsolation = "articulation_isolation"
	StrategyProgressive           = "progressive"
)

type Exercise struct {
	Type                string      `json:"type"`
	TargetContent       string      `json:"targetContent"`
	TargetErrorTypes    []ErrorType `json:"targetErrorTypes"`
	Repetitions         int         `json:"repetitions"`
	ExpectedMasteryGain float64     `json:"expectedMasteryGain"`
}

// LessonPlan is the policy engine's recommendation for the next
// practice activity. Ephemeral; recomputed on every invocation.
type LessonPlan struct {
	ID                   string     `json:"id"`
	Topic                string     `json:"topic"`
	Strategy             string     `json:"strategy"`
	FocusAreas           []string   `json:"focusAreas"`
	Difficulty           Level      `json:"difficulty"`
	DurationMinutes      int        `json:"durationMinutes"`
	Objectives           []string   `json:"objectives"`
	Exercises            []Exercise `json:"exercises"`
	Confidence           float64    `json:"confidence"`
	Justification        string     `json:"justification"`
	EstimatedImprovement float64    `json:"estimatedImprovement"`
}
