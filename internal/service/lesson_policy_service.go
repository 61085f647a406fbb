package service

import (
	"fmt"
	"math"

	"github.com/thisisniagahub/quran-agent/internal/model"
	"github.com/thisisniagahub/quran-agent/internal/repository"
	"github.com/thisisniagahub/quran-agent/internal/util"

	"github.com/google/uuid"
)

// advancementDelta is the Q-WER drop over the last three recitations
// that qualifies a learner for a harder lesson.
const advancementDelta = 15.0

// Per-rule confidence values. The rule order below is the whole policy
// state machine; the first match wins.
const (
	confidenceFocusedDrill = 0.90
	confidenceAdvancement  = 0.85
	confidenceIsolation    = 0.88
	confidenceProgressive  = 0.80
)

// LessonPolicyService converts a learner's accumulated error history
// into the next practice activity. Stateless itself; everything it
// needs lives in the learner repository.
type LessonPolicyService struct {
	Repo    *repository.LearnerRepository
	Catalog *ContentCatalog
}

func NewLessonPolicyService(repo *repository.LearnerRepository, catalog *ContentCatalog) *LessonPolicyService {
	return &LessonPolicyService{
		Repo:    repo,
		Catalog: catalog,
	}
}

// Recommend produces exactly one lesson plan for any known learner.
// The only failure is util.ErrLearnerNotFound.
//
// Rule order:
//  1. persistent errors (count >= 3) -> focused drill on the worst one
//  2. >= 15 point Q-WER drop over the last 3 recitations -> advancement
//  3. any recorded makhraj error -> articulation isolation drill
//  4. progressive lesson at the current level
func (s *LessonPolicyService) Recommend(learnerID string) (*model.LessonPlan, error) {
	profile, ok := s.Repo.GetProfile(learnerID)
	if !ok {
		return nil, util.ErrLearnerNotFound
	}

	if persistent := s.Repo.GetPersistentErrors(learnerID, repository.DefaultPersistentThreshold); len(persistent) > 0 {
		return s.buildFocusedDrill(profile, persistent[0]), nil
	}

	if improved, delta := recentImprovement(profile.History); improved {
		return s.buildAdvancementLesson(profile, delta), nil
	}

	if freq, ok := s.Repo.GetErrorFrequency(learnerID, model.ErrorTypeMakhraj); ok && freq.Count > 0 {
		return s.buildIsolationDrill(profile, freq), nil
	}

	return s.buildProgressiveLesson(profile), nil
}

// recentImprovement reports whether the oldest-to-newest Q-WER delta
// over the last three recitations reaches the advancement threshold.
func recentImprovement(history []model.EvaluationSummary) (bool, float64) {
	if len(history) < 3 {
		return false, 0
	}
	recent := history[len(history)-3:]
	delta := recent[0].QWER - recent[2].QWER
	return delta >= advancementDelta, delta
}

func exerciseTypeFor(errType model.ErrorType) string {
	switch errType {
	case model.ErrorTypeMakhraj:
		return model.ExerciseArticulationDrill
	case model.ErrorTypeTajwid:
		return model.ExerciseRuleFocus
	default:
		return model.ExerciseTimingPractice
	}
}

func (s *LessonPolicyService) buildFocusedDrill(profile *model.LearnerProfile, worst model.ErrorFrequency) *model.LessonPlan {
	content := s.Catalog.TargetContent(worst.Type, profile.CurrentLevel)

	return &model.LessonPlan{
		ID:              uuid.New().String(),
		Topic:           fmt.Sprintf("Focused %s correction", worst.Type),
		Strategy:        model.StrategyFocusedDrill,
		FocusAreas:      []string{string(worst.Type)},
		Difficulty:      profile.CurrentLevel,
		DurationMinutes: 20,
		Objectives: []string{
			fmt.Sprintf("Eliminate recurring %s errors (%d occurrences so far)", worst.Type, worst.Count),
			"Build muscle memory through high-repetition drilling",
		},
		Exercises: []model.Exercise{
			{
				Type:                exerciseTypeFor(worst.Type),
				TargetContent:       content,
				TargetErrorTypes:    []model.ErrorType{worst.Type},
				Repetitions:         10,
				ExpectedMasteryGain: 0.25,
			},
		},
		Confidence: confidenceFocusedDrill,
		Justification: fmt.Sprintf(
			"%s errors recurred %d times (last severity: %s); a focused drill addresses the dominant weakness before anything else.",
			worst.Type, worst.Count, worst.LastSeverity,
		),
		EstimatedImprovement: math.Min(20, float64(worst.Count)*2.5),
	}
}

func (s *LessonPolicyService) buildAdvancementLesson(profile *model.LearnerProfile, delta float64) *model.LessonPlan {
	difficulty := model.NextLevel(profile.CurrentLevel)
	content := s.Catalog.TargetContent(model.ErrorTypeTajwid, difficulty)

	return &model.LessonPlan{
		ID:              uuid.New().String(),
		Topic:           "Advancement to harder passages",
		Strategy:        model.StrategyAdvancement,
		FocusAreas:      []string{"fluency", "endurance"},
		Difficulty:      difficulty,
		DurationMinutes: 30,
		Objectives: []string{
			fmt.Sprintf("Sustain the recent gains at %s difficulty", difficulty),
			"Extend recitation length without accuracy loss",
		},
		Exercises: []model.Exercise{
			{
				Type:                model.ExerciseProgressive,
				TargetContent:       content,
				TargetErrorTypes:    model.AllErrorTypes(),
				Repetitions:         3,
				ExpectedMasteryGain: 0.15,
			},
		},
		Confidence: confidenceAdvancement,
		Justification: fmt.Sprintf(
			"Q-WER dropped %.1f points over the last three recitations; the learner is ready for the next tier.",
			delta,
		),
		EstimatedImprovement: 5,
	}
}

func (s *LessonPolicyService) buildIsolationDrill(profile *model.LearnerProfile, freq *model.ErrorFrequency) *model.LessonPlan {
	content := s.Catalog.TargetContent(model.ErrorTypeMakhraj, profile.CurrentLevel)

	return &model.LessonPlan{
		ID:              uuid.New().String(),
		Topic:           "Makhraj isolation drill",
		Strategy:        model.StrategyArticulationIsolation,
		FocusAreas:      []string{string(model.ErrorTypeMakhraj)},
		Difficulty:      profile.CurrentLevel,
		DurationMinutes: 15,
		Objectives: []string{
			"Isolate and correct articulation points before they become habitual",
		},
		Exercises: []model.Exercise{
			{
				Type:                model.ExerciseArticulationDrill,
				TargetContent:       content,
				TargetErrorTypes:    []model.ErrorType{model.ErrorTypeMakhraj},
				Repetitions:         7,
				ExpectedMasteryGain: 0.2,
			},
		},
		Confidence: confidenceIsolation,
		Justification: fmt.Sprintf(
			"Articulation errors appeared %d time(s); catching makhraj drift early is cheaper than unlearning it later.",
			freq.Count,
		),
		EstimatedImprovement: 8,
	}
}

func (s *LessonPolicyService) buildProgressiveLesson(profile *model.LearnerProfile) *model.LessonPlan {
	focusAreas := topFocusAreas(profile)

	var targets []model.ErrorType
	for _, area := range focusAreas {
		if area != "comprehensive" {
			targets = append(targets, model.ErrorType(area))
		}
	}
	if len(targets) == 0 {
		targets = model.AllErrorTypes()
	}

	content := s.Catalog.TargetContent(targets[0], profile.CurrentLevel)

	return &model.LessonPlan{
		ID:              uuid.New().String(),
		Topic:           fmt.Sprintf("Progressive practice at %s level", profile.CurrentLevel),
		Strategy:        model.StrategyProgressive,
		FocusAreas:      focusAreas,
		Difficulty:      profile.CurrentLevel,
		DurationMinutes: 25,
		Objectives: []string{
			"Consolidate accuracy across all error categories",
			"Maintain a steady practice rhythm",
		},
		Exercises: []model.Exercise{
			{
				Type:                model.ExerciseProgressive,
				TargetContent:       content,
				TargetErrorTypes:    targets,
				Repetitions:         5,
				ExpectedMasteryGain: 0.1,
			},
		},
		Confidence:           confidenceProgressive,
		Justification:        "No persistent weakness stands out; steady progressive practice at the current level keeps momentum.",
		EstimatedImprovement: 4,
	}
}

// topFocusAreas returns the two most frequent error categories, or
// "comprehensive" when nothing has been recorded yet.
func topFocusAreas(profile *model.LearnerProfile) []string {
	best := profile.ErrorFrequencies
	if len(best) == 0 {
		return []string{"comprehensive"}
	}

	var areas []string
	for _, errType := range rankedByFrequency(best) {
		areas = append(areas, string(errType))
		if len(areas) == 2 {
			break
		}
	}
	return areas
}

func rankedByFrequency(freqs map[model.ErrorType]*model.ErrorFrequency) []model.ErrorType {
	ranked := make([]model.ErrorType, 0, len(freqs))
	for _, errType := range model.AllErrorTypes() {
		if freq, ok := freqs[errType]; ok && freq.Count > 0 {
			ranked = append(ranked, errType)
		}
	}
	// frequency descending, declaration order on ties
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && freqs[ranked[j]].Count > freqs[ranked[j-1]].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}
