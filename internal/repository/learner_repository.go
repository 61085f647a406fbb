package repository

import (
	"context"
	"sort"
	"time"

	"github.com/thisisniagahub/quran-agent/internal/model"
	"github.com/thisisniagahub/quran-agent/internal/util"
)

// DefaultPersistentThreshold is the cumulative error count at which a
// category is considered persistent and triggers focused drills.
const DefaultPersistentThreshold = 3

// levelWindow is how many trailing history entries feed the derived
// current level; trendWindow feeds the improvement trend.
const (
	levelWindow = 5
	trendWindow = 10
)

// trendStableBand: Q-WER movements inside this band count as stable.
const trendStableBand = 2.0

// Snapshotter is the optional persistence hook of the learner store.
// The host owns when (and whether) it runs; the store itself stays
// in-process and never performs I/O on its own operations.
type Snapshotter interface {
	SaveProfile(ctx context.Context, profile *model.LearnerProfile) error
	LoadAll(ctx context.Context) ([]model.LearnerProfile, error)
}

// LearnerRepository holds all learner profiles in process memory,
// keyed by the caller-chosen opaque learner id.
//
// Concurrency: no internal locking. State is partitioned by learner
// id; the host must serialize operations touching the same id.
type LearnerRepository struct {
	profiles map[string]*model.LearnerProfile
	snap     Snapshotter
}

func NewLearnerRepository() *LearnerRepository {
	return &LearnerRepository{
		profiles: make(map[string]*model.LearnerProfile),
	}
}

// CreateProfile establishes a fresh profile for id. Calling it again
// for a known id silently resets all history; RegisterLearner at the
// service layer logs a warning so deliberate resets stay visible.
func (r *LearnerRepository) CreateProfile(id, name string) *model.LearnerProfile {
	profile := &model.LearnerProfile{
		ID:               id,
		Name:             name,
		CurrentLevel:     model.LevelBeginner,
		RegisteredAt:     time.Now(),
		History:          []model.EvaluationSummary{},
		ErrorFrequencies: make(map[model.ErrorType]*model.ErrorFrequency),
		Progress: model.ProgressTrend{
			Direction: model.TrendStable,
		},
	}
	r.profiles[id] = profile
	return profile
}

func (r *LearnerRepository) GetProfile(id string) (*model.LearnerProfile, bool) {
	profile, ok := r.profiles[id]
	return profile, ok
}

// RecordEvaluation appends a compact summary of result to the
// learner's history, evicting the oldest entry beyond the cap, then
// re-derives the current level from the trailing window. No-op for an
// unknown learner.
func (r *LearnerRepository) RecordEvaluation(id string, result *model.EvaluationResult) {
	profile, ok := r.profiles[id]
	if !ok {
		return
	}

	profile.History = append(profile.History, model.EvaluationSummary{
		QWER:               result.QWER,
		Level:              result.Level,
		DominantErrorTypes: result.DominantErrorTypes,
		Timestamp:          result.EvaluatedAt,
	})
	if len(profile.History) > model.HistoryCap {
		profile.History = profile.History[len(profile.History)-model.HistoryCap:]
	}

	profile.CurrentLevel = model.LevelForQWER(trailingAverage(profile.History, levelWindow))
}

// TrackError bumps the frequency entry for one error category. The
// per-frequency Trend field is intentionally left at its initialized
// value; see GetImprovementTrend for the computed trend.
func (r *LearnerRepository) TrackError(id string, errType model.ErrorType, severity model.Severity) {
	profile, ok := r.profiles[id]
	if !ok {
		return
	}

	freq, ok := profile.ErrorFrequencies[errType]
	if !ok {
		freq = &model.ErrorFrequency{
			Type:  errType,
			Trend: model.TrendStable,
		}
		profile.ErrorFrequencies[errType] = freq
	}

	freq.Count++
	freq.LastSeen = time.Now()
	freq.LastSeverity = severity
}

func (r *LearnerRepository) GetErrorFrequency(id string, errType model.ErrorType) (*model.ErrorFrequency, bool) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, false
	}
	freq, ok := profile.ErrorFrequencies[errType]
	return freq, ok
}

// GetPersistentErrors returns the categories whose cumulative count
// reached threshold, most frequent first. Ties keep category
// declaration order.
func (r *LearnerRepository) GetPersistentErrors(id string, threshold int) []model.ErrorFrequency {
	profile, ok := r.profiles[id]
	if !ok {
		return nil
	}

	var persistent []model.ErrorFrequency
	for _, errType := range model.AllErrorTypes() {
		if freq, ok := profile.ErrorFrequencies[errType]; ok && freq.Count >= threshold {
			persistent = append(persistent, *freq)
		}
	}

	sort.SliceStable(persistent, func(i, j int) bool {
		return persistent[i].Count > persistent[j].Count
	})
	return persistent
}

func (r *LearnerRepository) GetProgressTrend(id string) (model.ProgressTrend, bool) {
	profile, ok := r.profiles[id]
	if !ok {
		return model.ProgressTrend{}, false
	}
	return profile.Progress, true
}

// UpdateProgressTrend recomputes the profile-level trend record from
// the trailing history window.
func (r *LearnerRepository) UpdateProgressTrend(id string) {
	profile, ok := r.profiles[id]
	if !ok {
		return
	}

	direction, delta, window := trailingTrend(profile.History, trendWindow)
	profile.Progress = model.ProgressTrend{
		Direction: direction,
		Delta:     delta,
		Window:    window,
		UpdatedAt: time.Now(),
	}
}

func (r *LearnerRepository) IncrementSession(id string) {
	if profile, ok := r.profiles[id]; ok {
		profile.TotalSessions++
	}
}

func (r *LearnerRepository) IncrementRecitation(id string) {
	if profile, ok := r.profiles[id]; ok {
		profile.TotalRecitations++
	}
}

// GetImprovementTrend compares the first and last Q-WER in the
// trailing window. Fewer than two history entries is stable by
// default; lower Q-WER is better, so a drop means improving.
func (r *LearnerRepository) GetImprovementTrend(id string) model.TrendDirection {
	profile, ok := r.profiles[id]
	if !ok {
		return model.TrendStable
	}
	direction, _, _ := trailingTrend(profile.History, trendWindow)
	return direction
}

// SetSnapshotter installs the persistence hook. Passing nil disables it.
func (r *LearnerRepository) SetSnapshotter(s Snapshotter) {
	r.snap = s
}

// Snapshot writes every profile through the persistence hook.
func (r *LearnerRepository) Snapshot(ctx context.Context) error {
	if r.snap == nil {
		return util.ErrSnapshotDisabled
	}
	for _, profile := range r.profiles {
		if err := r.snap.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}

// Restore loads snapshotted profiles. Live profiles win: an id already
// present in memory is never overwritten by its stored copy.
func (r *LearnerRepository) Restore(ctx context.Context) error {
	if r.snap == nil {
		return util.ErrSnapshotDisabled
	}
	profiles, err := r.snap.LoadAll(ctx)
	if err != nil {
		return err
	}
	for i := range profiles {
		profile := profiles[i]
		if _, exists := r.profiles[profile.ID]; exists {
			continue
		}
		if profile.ErrorFrequencies == nil {
			profile.ErrorFrequencies = make(map[model.ErrorType]*model.ErrorFrequency)
		}
		r.profiles[profile.ID] = &profile
	}
	return nil
}

func trailingAverage(history []model.EvaluationSummary, window int) float64 {
	if len(history) == 0 {
		return 0
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}
	var sum float64
	for _, entry := range history {
		sum += entry.QWER
	}
	return sum / float64(len(history))
}

func trailingTrend(history []model.EvaluationSummary, window int) (model.TrendDirection, float64, int) {
	if len(history) < 2 {
		return model.TrendStable, 0, len(history)
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	// delta > 0 means the Q-WER dropped, i.e. the learner improved
	delta := history[0].QWER - history[len(history)-1].QWER
	switch {
	case delta > trendStableBand:
		return model.TrendImproving, delta, len(history)
	case delta < -trendStableBand:
		return model.TrendDeclining, delta, len(history)
	default:
		return model.TrendStable, delta, len(history)
	}
}
