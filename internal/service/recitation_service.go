package service

import (
	"context"
	"time"

	"github.com/thisisniagahub/quran-agent/internal/model"
	"github.com/thisisniagahub/quran-agent/internal/repository"
	"github.com/thisisniagahub/quran-agent/internal/util"
	"github.com/thisisniagahub/quran-agent/pkg/logger"
	"github.com/thisisniagahub/quran-agent/pkg/monitoring"
	"github.com/thisisniagahub/quran-agent/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RecitationService orchestrates one evaluation cycle:
// evaluator -> learner memory -> policy engine. It is the single
// writer for a learner id; the host must not run two cycles for the
// same id concurrently.
type RecitationService struct {
	Evaluator *EvaluationService
	Policy    *LessonPolicyService
	Repo      *repository.LearnerRepository
}

func NewRecitationService(
	evaluator *EvaluationService,
	policy *LessonPolicyService,
	repo *repository.LearnerRepository,
) *RecitationService {
	return &RecitationService{
		Evaluator: evaluator,
		Policy:    policy,
		Repo:      repo,
	}
}

// RegisterLearner creates the profile for id. Registering a known id
// resets its entire history; that is the documented contract, so it is
// allowed but logged loudly.
func (s *RecitationService) RegisterLearner(id, name string) *model.LearnerProfile {
	if existing, ok := s.Repo.GetProfile(id); ok {
		logger.Log.Warn("Re-registering learner resets all history",
			zap.String("learnerId", id),
			zap.Int("discardedRecitations", existing.TotalRecitations),
		)
	}
	profile := s.Repo.CreateProfile(id, name)
	logger.Log.Info("Learner registered",
		zap.String("learnerId", id),
		zap.String("name", name),
	)
	return profile
}

// StartSession marks the beginning of a practice session.
func (s *RecitationService) StartSession(learnerID string) error {
	if _, ok := s.Repo.GetProfile(learnerID); !ok {
		return util.ErrLearnerNotFound
	}
	s.Repo.IncrementSession(learnerID)
	return nil
}

// ProcessRecitation runs a full cycle over an aligned phoneme pair.
func (s *RecitationService) ProcessRecitation(ctx context.Context, learnerID string, actual, expected []model.Phoneme) (*model.EvaluationResult, *model.LessonPlan, error) {
	ctx, span := tracing.Tracer.Start(ctx, "recitation.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("learner.id", learnerID),
		attribute.Int("phonemes.expected", len(expected)),
	)

	if _, ok := s.Repo.GetProfile(learnerID); !ok {
		return nil, nil, util.ErrLearnerNotFound
	}

	start := time.Now()
	result := s.Evaluator.Evaluate(actual, expected)
	monitoring.EvaluationDuration.WithLabelValues("aligned").Observe(time.Since(start).Seconds())

	return s.finishCycle(ctx, learnerID, result)
}

// ProcessClassified runs a cycle over a pre-classified error list,
// weighting it by the learner's current level.
func (s *RecitationService) ProcessClassified(ctx context.Context, learnerID string, detected []model.ErrorInstance, totalPhonemes int) (*model.EvaluationResult, *model.LessonPlan, error) {
	ctx, span := tracing.Tracer.Start(ctx, "recitation.process_classified")
	defer span.End()
	span.SetAttributes(
		attribute.String("learner.id", learnerID),
		attribute.Int("errors.classified", len(detected)),
	)

	profile, ok := s.Repo.GetProfile(learnerID)
	if !ok {
		return nil, nil, util.ErrLearnerNotFound
	}

	start := time.Now()
	result := s.Evaluator.EvaluateClassified(detected, totalPhonemes, profile.CurrentLevel)
	monitoring.EvaluationDuration.WithLabelValues("classified").Observe(time.Since(start).Seconds())

	return s.finishCycle(ctx, learnerID, result)
}

// finishCycle feeds the evaluation into the learner memory and asks
// the policy engine for the next lesson.
func (s *RecitationService) finishCycle(ctx context.Context, learnerID string, result *model.EvaluationResult) (*model.EvaluationResult, *model.LessonPlan, error) {
	_, span := tracing.Tracer.Start(ctx, "recitation.update_and_recommend")
	defer span.End()

	s.Repo.RecordEvaluation(learnerID, result)
	for _, e := range result.DetailedErrors {
		s.Repo.TrackError(learnerID, e.Type, e.Severity)
		monitoring.ErrorCounter.WithLabelValues(string(e.Type), string(e.Severity)).Inc()
	}
	s.Repo.IncrementRecitation(learnerID)
	s.Repo.UpdateProgressTrend(learnerID)

	monitoring.EvaluationCounter.WithLabelValues(string(result.Level)).Inc()

	plan, err := s.Policy.Recommend(learnerID)
	if err != nil {
		return nil, nil, err
	}
	monitoring.RecommendationCounter.WithLabelValues(plan.Strategy).Inc()

	logger.Log.Info("Recitation processed",
		zap.String("learnerId", learnerID),
		zap.Float64("qwer", result.QWER),
		zap.String("level", string(result.Level)),
		zap.Int("errors", result.TotalErrors),
		zap.String("strategy", plan.Strategy),
		zap.Float64("confidence", plan.Confidence),
	)

	return result, plan, nil
}
