package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func imageFixture(t *testing.T) (*fakeAsq3Ref, string) {
	ref := &fakeAsq3Ref{
		intervals: []domain.Asq3AgeInterval{{ID: 3, AgeMonths: 12, MinAgeDays: 351, MaxAgeDays: 381}},
		questions: map[int64]*domain.Asq3Question{
			301: {ID: 301, AgeIntervalID: 3, DomainCode: "gross_motor", QuestionNumber: 3},
			302: {ID: 302, AgeIntervalID: 3, DomainCode: "communication", QuestionNumber: 1, ImageURL: ptr("/storage/asq3-images/old.png")},
		},
	}
	dir := t.TempDir()
	for _, name := range []string{
		"12-bulan_motorik-kasar_3.png",
		"12-bulan_komunikasi_1.png",
		"12-bulan_motorik-halus_2.png",
		"12-bulan_bahasa_1.png",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return ref, dir
}

func TestImageSyncService_Sync(t *testing.T) {
	catalog, err := reference.Load()
	require.NoError(t, err)
	ref, dir := imageFixture(t)
	svc := NewImageSyncService(ref, catalog, "/storage/asq3-images/", zap.NewNop())

	report, err := svc.Sync(context.Background(), dir, false)
	require.NoError(t, err)

	assert.Len(t, report.Results, 4)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 1, report.AlreadyHadImage)
	assert.Equal(t, 1, report.NotFound)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, map[int64]string{301: "/storage/asq3-images/12-bulan_motorik-kasar_3.png"}, ref.imagesSet)
}

func TestImageSyncService_DryRun(t *testing.T) {
	catalog, err := reference.Load()
	require.NoError(t, err)
	ref, dir := imageFixture(t)
	svc := NewImageSyncService(ref, catalog, "/storage/asq3-images", zap.NewNop())

	report, err := svc.Sync(context.Background(), dir, true)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Synced)
	assert.Empty(t, ref.imagesSet)
}

func TestImageSyncService_MissingDir(t *testing.T) {
	catalog, err := reference.Load()
	require.NoError(t, err)
	svc := NewImageSyncService(&fakeAsq3Ref{}, catalog, "/x", zap.NewNop())

	_, err = svc.Sync(context.Background(), filepath.Join(t.TempDir(), "absent"), false)
	assert.Error(t, err)
}

func TestReferenceSeeder_Seed(t *testing.T) {
	catalog, err := reference.Load()
	require.NoError(t, err)
	ref := &fakeAsq3Ref{}
	seeder := NewReferenceSeeder(ref, catalog, zap.NewNop())

	report, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	intervals := len(catalog.AgeIntervals)
	assert.Equal(t, len(catalog.Domains), report.Domains)
	assert.Equal(t, intervals, report.AgeIntervals)
	assert.Equal(t, intervals*len(catalog.Domains), report.Cutoffs)
	assert.Equal(t, intervals*catalog.TotalQuestions(), report.QuestionsCreated)
	assert.Equal(t, catalog.MaxScore, ref.upsertedCutoff[0].MaxScore)
	assert.Equal(t, catalog.MonitoringScore(ref.upsertedCutoff[0].CutoffScore), ref.upsertedCutoff[0].MonitoringScore)
}
