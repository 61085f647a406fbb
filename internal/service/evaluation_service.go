package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/thisisniagahub/quran-agent/internal/model"
)

// Severity multipliers: a meaning-changing error doubles the category
// base weight, a cosmetic one halves it.
const (
	meaningChangingMultiplier = 2.0
	cosmeticMultiplier        = 0.5
)

var baseWeights = map[model.ErrorType]float64{
	model.ErrorTypeMakhraj: 3.0,
	model.ErrorTypeTajwid:  2.5,
	model.ErrorTypeHarakat: 2.0,
	model.ErrorTypeRhythm:  1.0,
}

// EvaluationService turns an actual-vs-expected phoneme alignment into
// a weighted error rate (Q-WER), a proficiency level and an error
// taxonomy. Pure computation; no shared state.
type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

// Evaluate walks both sequences position by position and scores every
// mismatch. Total over any two finite sequences, including empty ones.
func (s *EvaluationService) Evaluate(actual, expected []model.Phoneme) *model.EvaluationResult {
	detected := []model.ErrorInstance{}

	n := len(actual)
	if len(expected) > n {
		n = len(expected)
	}

	for i := 0; i < n; i++ {
		switch {
		case i >= len(expected):
			// unwanted insertion
			detected = append(detected, newError(
				model.ErrorTypeMakhraj, i, model.SeverityMajor, true, baseWeights,
				fmt.Sprintf("unexpected phoneme %q inserted at position %d", actual[i].Text, i),
			))
		case i >= len(actual):
			// deletion
			detected = append(detected, newError(
				model.ErrorTypeMakhraj, i, model.SeverityMajor, true, baseWeights,
				fmt.Sprintf("expected phoneme %q missing at position %d", expected[i].Text, i),
			))
		default:
			detected = append(detected, comparePhonemes(actual[i], expected[i], i)...)
		}
	}

	return buildResult(detected, len(expected))
}

// EvaluateClassified scores a pre-classified error list supplied by an
// external detector. The learner's level shifts the base weights:
// beginners are penalized harder on articulation and barely on rhythm,
// advanced reciters the other way around. This is the only path that
// populates the rhythm category.
func (s *EvaluationService) EvaluateClassified(detected []model.ErrorInstance, totalPhonemes int, level model.Level) *model.EvaluationResult {
	weights := adjustedWeights(level)

	scored := make([]model.ErrorInstance, len(detected))
	for i, e := range detected {
		e.Weight = weights[e.Type] * multiplier(e.MeaningChanging)
		scored[i] = e
	}

	return buildResult(scored, totalPhonemes)
}

func adjustedWeights(level model.Level) map[model.ErrorType]float64 {
	weights := make(map[model.ErrorType]float64, len(baseWeights))
	for t, w := range baseWeights {
		weights[t] = w
	}
	switch level {
	case model.LevelBeginner:
		weights[model.ErrorTypeMakhraj] = 4.0
		weights[model.ErrorTypeRhythm] = 0.5
	case model.LevelAdvanced:
		weights[model.ErrorTypeRhythm] = 2.0
	}
	return weights
}

func multiplier(meaningChanging bool) float64 {
	if meaningChanging {
		return meaningChangingMultiplier
	}
	return cosmeticMultiplier
}

func newError(t model.ErrorType, position int, severity model.Severity, meaningChanging bool, weights map[model.ErrorType]float64, description string) model.ErrorInstance {
	return model.ErrorInstance{
		Type:            t,
		Position:        position,
		Severity:        severity,
		MeaningChanging: meaningChanging,
		Weight:          weights[t] * multiplier(meaningChanging),
		Description:     description,
	}
}

// comparePhonemes checks the three articulated fields in fixed order:
// makhraj, then harakat, then the applied tajwid rule. One position can
// raise up to three independent errors.
func comparePhonemes(actual, expected model.Phoneme, position int) []model.ErrorInstance {
	var found []model.ErrorInstance

	if actual.Makhraj != expected.Makhraj {
		// wrong articulation point always alters meaning
		found = append(found, newError(
			model.ErrorTypeMakhraj, position, model.SeverityMajor, true, baseWeights,
			fmt.Sprintf("articulation of %q: expected makhraj %s, got %s", expected.Text, expected.Makhraj, actual.Makhraj),
		))
	}

	if actual.Harakat != expected.Harakat {
		meaningChanging := model.IsMeaningAlteringVowelPair(expected.Harakat, actual.Harakat)
		severity := model.SeverityMinor
		if meaningChanging {
			severity = model.SeverityMajor
		}
		found = append(found, newError(
			model.ErrorTypeHarakat, position, severity, meaningChanging, baseWeights,
			fmt.Sprintf("vowel of %q: expected %s, got %s", expected.Text, expected.Harakat, actual.Harakat),
		))
	}

	if actual.TajwidRule != expected.TajwidRule {
		// rule violations never change literal meaning by construction
		found = append(found, newError(
			model.ErrorTypeTajwid, position, model.SeverityModerate, false, baseWeights,
			fmt.Sprintf("tajwid rule on %q: expected %q, got %q", expected.Text, expected.TajwidRule, actual.TajwidRule),
		))
	}

	return found
}

func buildResult(detected []model.ErrorInstance, totalPhonemes int) *model.EvaluationResult {
	breakdown := make(map[model.ErrorType]float64, len(baseWeights))
	for _, t := range model.AllErrorTypes() {
		breakdown[t] = 0
	}

	var totalWeight float64
	for _, e := range detected {
		breakdown[e.Type] += e.Weight
		totalWeight += e.Weight
	}

	// zero expected phonemes yields a zero score by convention
	var qwer float64
	if totalPhonemes > 0 {
		qwer = totalWeight / float64(totalPhonemes) * 100
	}

	return &model.EvaluationResult{
		QWER:               qwer,
		Level:              model.LevelForQWER(qwer),
		ErrorBreakdown:     breakdown,
		TotalErrors:        len(detected),
		TotalPhonemes:      totalPhonemes,
		DominantErrorTypes: dominantTypes(breakdown),
		DetailedErrors:     detected,
		EvaluatedAt:        time.Now(),
	}
}

// dominantTypes picks the top two categories by weighted mass, skipping
// empty ones. Ties keep category declaration order.
func dominantTypes(breakdown map[model.ErrorType]float64) []model.ErrorType {
	types := model.AllErrorTypes()
	sort.SliceStable(types, func(i, j int) bool {
		return breakdown[types[i]] > breakdown[types[j]]
	})

	var dominant []model.ErrorType
	for _, t := range types {
		if breakdown[t] <= 0 {
			continue
		}
		dominant = append(dominant, t)
		if len(dominant) == 2 {
			break
		}
	}
	return dominant
}
