package service

import (
	"testing"
	"time"

	"github.com/thisisniagahub/quran-agent/internal/model"
	"github.com/thisisniagahub/quran-agent/internal/repository"
	"github.com/thisisniagahub/quran-agent/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicyFixture() (*LessonPolicyService, *repository.LearnerRepository) {
	repo := repository.NewLearnerRepository()
	return NewLessonPolicyService(repo, NewContentCatalog()), repo
}

func recordScores(repo *repository.LearnerRepository, id string, scores ...float64) {
	for _, qwer := range scores {
		repo.RecordEvaluation(id, &model.EvaluationResult{
			QWER:        qwer,
			Level:       model.LevelForQWER(qwer),
			EvaluatedAt: time.Now(),
		})
	}
}

func TestRecommendUnknownLearner(t *testing.T) {
	policy, _ := newPolicyFixture()

	plan, err := policy.Recommend("ghost")

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, util.ErrLearnerNotFound)
}

func TestPersistentErrorRuleWinsOverAdvancement(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")

	// both rule 1 and rule 2 conditions hold; rule 1 must win
	for i := 0; i < 3; i++ {
		repo.TrackError("s1", model.ErrorTypeTajwid, model.SeverityModerate)
	}
	recordScores(repo, "s1", 60, 40, 20)

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.Equal(t, model.StrategyFocusedDrill, plan.Strategy)
	assert.Equal(t, 0.90, plan.Confidence)
	assert.Equal(t, []string{string(model.ErrorTypeTajwid)}, plan.FocusAreas)
	require.Len(t, plan.Exercises, 1)
	assert.Equal(t, model.ExerciseRuleFocus, plan.Exercises[0].Type)
	assert.Equal(t, []model.ErrorType{model.ErrorTypeTajwid}, plan.Exercises[0].TargetErrorTypes)
	assert.NotEmpty(t, plan.Exercises[0].TargetContent)
	assert.NotEmpty(t, plan.Justification)
}

func TestFocusedDrillTargetsMostFrequentCategory(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")

	for i := 0; i < 3; i++ {
		repo.TrackError("s1", model.ErrorTypeMakhraj, model.SeverityMajor)
	}
	for i := 0; i < 5; i++ {
		repo.TrackError("s1", model.ErrorTypeHarakat, model.SeverityMinor)
	}

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.Equal(t, model.StrategyFocusedDrill, plan.Strategy)
	assert.Equal(t, []string{string(model.ErrorTypeHarakat)}, plan.FocusAreas)
	assert.Equal(t, model.ExerciseTimingPractice, plan.Exercises[0].Type)
}

func TestAdvancementRule(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")
	recordScores(repo, "s1", 60, 50, 40)

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.Equal(t, model.StrategyAdvancement, plan.Strategy)
	assert.Equal(t, 0.85, plan.Confidence)

	profile, _ := repo.GetProfile("s1")
	assert.Equal(t, model.NextLevel(profile.CurrentLevel), plan.Difficulty)
}

func TestAdvancementCapsAtAdvanced(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")
	// average of the trailing window is far below 25, so the current
	// level is already Advanced
	recordScores(repo, "s1", 20, 10, 2)

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.Equal(t, model.StrategyAdvancement, plan.Strategy)
	assert.Equal(t, model.LevelAdvanced, plan.Difficulty)
}

func TestAdvancementNeedsThreeEntries(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")
	recordScores(repo, "s1", 60, 20)

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.NotEqual(t, model.StrategyAdvancement, plan.Strategy)
}

func TestArticulationIsolationRule(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")

	// one makhraj error: below the persistent threshold, no improvement
	repo.TrackError("s1", model.ErrorTypeMakhraj, model.SeverityMajor)
	recordScores(repo, "s1", 30, 30, 30)

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.Equal(t, model.StrategyArticulationIsolation, plan.Strategy)
	assert.Equal(t, 0.88, plan.Confidence)
	assert.Equal(t, model.ExerciseArticulationDrill, plan.Exercises[0].Type)
}

func TestProgressiveRuleComprehensive(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")
	recordScores(repo, "s1", 30, 29, 28)

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.Equal(t, model.StrategyProgressive, plan.Strategy)
	assert.Equal(t, 0.80, plan.Confidence)
	assert.Equal(t, []string{"comprehensive"}, plan.FocusAreas)

	profile, _ := repo.GetProfile("s1")
	assert.Equal(t, profile.CurrentLevel, plan.Difficulty)
}

func TestProgressiveRuleFocusAreas(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("s1", "Ahmad")

	repo.TrackError("s1", model.ErrorTypeHarakat, model.SeverityMinor)
	repo.TrackError("s1", model.ErrorTypeHarakat, model.SeverityMinor)
	repo.TrackError("s1", model.ErrorTypeTajwid, model.SeverityModerate)
	recordScores(repo, "s1", 30, 30, 30)

	plan, err := policy.Recommend("s1")
	require.NoError(t, err)

	assert.Equal(t, model.StrategyProgressive, plan.Strategy)
	assert.Equal(t, []string{string(model.ErrorTypeHarakat), string(model.ErrorTypeTajwid)}, plan.FocusAreas)
}

func TestRecommendAlwaysProducesOnePlan(t *testing.T) {
	policy, repo := newPolicyFixture()
	repo.CreateProfile("fresh", "New Student")

	plan, err := policy.Recommend("fresh")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.NotEmpty(t, plan.ID)
	assert.NotEmpty(t, plan.Topic)
	assert.NotZero(t, plan.DurationMinutes)
}
