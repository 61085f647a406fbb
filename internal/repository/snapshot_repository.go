package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thisisniagahub/quran-agent/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository implements Snapshotter on MySQL: one JSON blob row
// per learner, upserted on save.
type SnapshotRepository struct {
	DB *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: db}
}

func (r *SnapshotRepository) SaveProfile(ctx context.Context, profile *model.LearnerProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.ID, err)
	}

	record := model.LearnerSnapshot{
		LearnerID: profile.ID,
		Profile:   string(payload),
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "learner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile", "updated_at"}),
		}).
		Create(&record).Error
}

func (r *SnapshotRepository) LoadAll(ctx context.Context) ([]model.LearnerProfile, error) {
	var records []model.LearnerSnapshot
	if err := r.DB.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}

	profiles := make([]model.LearnerProfile, 0, len(records))
	for _, record := range records {
		var profile model.LearnerProfile
		if err := json.Unmarshal([]byte(record.Profile), &profile); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", record.LearnerID, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
