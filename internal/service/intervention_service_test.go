package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInterventionFixture() (InterventionService, *fakeScreenings) {
	screenings := newFakeScreenings()
	screenings.screenings[40] = &domain.Asq3Screening{ID: 40, ChildID: 7, Status: domain.ScreeningCompleted}
	return NewInterventionService(screenings, testClock(), zap.NewNop()), screenings
}

func TestInterventionService_CreateAndComplete(t *testing.T) {
	svc, _ := newInterventionFixture()
	ctx := context.Background()

	in, err := svc.Create(ctx, nakesUser, 40, InterventionRequest{
		Type:         ptr(domain.InterventionStimulation),
		Action:       ptr("  Stimulasi motorik kasar setiap hari  "),
		FollowUpDate: ptr("2025-03-24"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InterventionPlanned, in.Status)
	assert.Equal(t, "Stimulasi motorik kasar setiap hari", in.Action)
	assert.Equal(t, nakesUser.ID, *in.CreatedBy)
	assert.Equal(t, day(2025, 3, 24), *in.FollowUpDate)
	assert.Nil(t, in.CompletedAt)

	done, err := svc.Complete(ctx, 40, in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InterventionCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(testNow))

	reopened, err := svc.Update(ctx, 40, in.ID, InterventionRequest{Status: ptr(domain.InterventionInProgress)})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestInterventionService_Validation(t *testing.T) {
	svc, _ := newInterventionFixture()

	_, err := svc.Create(context.Background(), nakesUser, 40, InterventionRequest{
		Type:         ptr("massage"),
		Notes:        ptr(strings.Repeat("x", 5001)),
		FollowUpDate: ptr("2025-03-09"),
	})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "type")
	assert.Contains(t, ve.Fields, "action")
	assert.Contains(t, ve.Fields, "notes")
	assert.Contains(t, ve.Fields, "follow_up_date")
}

func TestInterventionService_TextLimitCountsCharacters(t *testing.T) {
	svc, _ := newInterventionFixture()

	in, err := svc.Create(context.Background(), nakesUser, 40, InterventionRequest{
		Type:   ptr(domain.InterventionStimulation),
		Action: ptr(strings.Repeat("ü", 5000)),
		Notes:  ptr(strings.Repeat("ü", 5000)),
	})
	require.NoError(t, err)
	assert.Equal(t, 5000, len([]rune(in.Action)))

	_, err = svc.Update(context.Background(), 40, in.ID, InterventionRequest{Action: ptr(strings.Repeat("ü", 5001))})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "action")
}

func TestInterventionService_NotFound(t *testing.T) {
	svc, _ := newInterventionFixture()
	ctx := context.Background()

	_, err := svc.List(ctx, 41)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Complete(ctx, 40, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 40, 999), ErrNotFound)
}

func TestInterventionService_Delete(t *testing.T) {
	svc, screenings := newInterventionFixture()
	ctx := context.Background()
	in, err := svc.Create(ctx, nakesUser, 40, InterventionRequest{
		Type: ptr(domain.InterventionReferral), Action: ptr("Rujuk ke puskesmas"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 40, in.ID))
	assert.Empty(t, screenings.interventions)
}
