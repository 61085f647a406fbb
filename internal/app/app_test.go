package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/thisisniagahub/quran-agent/internal/config"
	"github.com/thisisniagahub/quran-agent/internal/model"
	"github.com/thisisniagahub/quran-agent/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	application, err := NewApp(&config.Config{})
	require.NoError(t, err)
	return application
}

func writeAlignment(t *testing.T, input model.AlignmentInput) string {
	t.Helper()
	raw, err := json.Marshal(input)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "alignment.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestProcessFileAlignedMode(t *testing.T) {
	application := newTestApp(t)

	expected := []model.Phoneme{
		{ID: "p0", Text: "ب", Makhraj: "shafatan", Harakat: model.HarakatKasra, Position: 0},
		{ID: "p1", Text: "س", Makhraj: "lisan", Harakat: model.HarakatSukun, Position: 1},
	}
	actual := []model.Phoneme{
		{ID: "a0", Text: "ب", Makhraj: "shafatan", Harakat: model.HarakatFatha, Position: 0},
		{ID: "a1", Text: "س", Makhraj: "lisan", Harakat: model.HarakatSukun, Position: 1},
	}

	path := writeAlignment(t, model.AlignmentInput{
		LearnerID:   "s1",
		LearnerName: "Ahmad",
		Expected:    expected,
		Actual:      actual,
	})

	output, err := application.processFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "s1", output.LearnerID)
	assert.Equal(t, 1, output.Analysis.TotalErrors)
	assert.NotNil(t, output.Lesson)

	profile, ok := application.Store.GetProfile("s1")
	require.True(t, ok)
	assert.Equal(t, 1, profile.TotalSessions)
	assert.Equal(t, 1, profile.TotalRecitations)
}

func TestProcessFileClassifiedMode(t *testing.T) {
	application := newTestApp(t)

	path := writeAlignment(t, model.AlignmentInput{
		LearnerID: "s2",
		Errors: []model.ErrorInstance{
			{Type: model.ErrorTypeRhythm, Position: 4, Severity: model.SeverityMinor},
		},
		TotalPhonemes: 40,
	})

	output, err := application.processFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, output.Analysis.TotalErrors)
	assert.Equal(t, 40, output.Analysis.TotalPhonemes)
}

func TestProcessFileRejectsMissingLearnerID(t *testing.T) {
	application := newTestApp(t)

	path := writeAlignment(t, model.AlignmentInput{
		Expected: []model.Phoneme{{ID: "p0", Text: "ب", Makhraj: "shafatan"}},
	})

	_, err := application.processFile(context.Background(), path)
	assert.Error(t, err)
}

func TestProcessFileRejectsEmptyAlignment(t *testing.T) {
	application := newTestApp(t)

	path := writeAlignment(t, model.AlignmentInput{LearnerID: "s3"})

	_, err := application.processFile(context.Background(), path)
	assert.ErrorIs(t, err, util.ErrEmptyAlignment)
}

func TestProcessFileSampleAlignment(t *testing.T) {
	application := newTestApp(t)

	output, err := application.processFile(context.Background(), filepath.Join("..", "..", "testdata", "alignment_sample.json"))
	require.NoError(t, err)

	assert.Equal(t, "student-001", output.LearnerID)
	// kasra->fatha swap plus a dropped ghunnah rule
	assert.Equal(t, 2, output.Analysis.TotalErrors)
	assert.Equal(t, 5, output.Analysis.TotalPhonemes)
}

func TestProcessFileReusesProfileAcrossRuns(t *testing.T) {
	application := newTestApp(t)

	input := model.AlignmentInput{
		LearnerID: "s4",
		Expected:  []model.Phoneme{{ID: "p0", Text: "ل", Makhraj: "lisan", Harakat: model.HarakatFatha}},
		Actual:    []model.Phoneme{{ID: "a0", Text: "ل", Makhraj: "lisan", Harakat: model.HarakatFatha}},
	}

	for i := 0; i < 2; i++ {
		_, err := application.processFile(context.Background(), writeAlignment(t, input))
		require.NoError(t, err)
	}

	profile, _ := application.Store.GetProfile("s4")
	assert.Len(t, profile.History, 2)
	assert.Equal(t, 2, profile.TotalSessions)
}
