package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testIntervalID = 10

var domainCodes = []string{"communication", "gross_motor", "fine_motor", "problem_solving", "personal_social"}

func newAsq3Fixture() *fakeAsq3Ref {
	ref := &fakeAsq3Ref{
		intervals: []domain.Asq3AgeInterval{
			{ID: testIntervalID, AgeMonths: 12, AgeLabel: "12 Bulan", MinAgeDays: 330, MaxAgeDays: 420},
			{ID: 11, AgeMonths: 14, AgeLabel: "14 Bulan", MinAgeDays: 421, MaxAgeDays: 480},
		},
		questions: map[int64]*domain.Asq3Question{},
		cutoffs:   map[int64]map[int64]domain.Asq3CutoffScore{testIntervalID: {}},
	}
	for i, code := range domainCodes {
		id := int64(i + 1)
		ref.domains = append(ref.domains, domain.Asq3Domain{ID: id, Code: code, Name: code, DisplayOrder: i + 1})
		ref.cutoffs[testIntervalID][id] = domain.Asq3CutoffScore{DomainID: id, CutoffScore: 20, MonitoringScore: 35}
		for n := 1; n <= 6; n++ {
			qid := id*100 + int64(n)
			ref.questions[qid] = &domain.Asq3Question{
				ID: qid, AgeIntervalID: testIntervalID, DomainID: id, DomainCode: code,
				QuestionNumber: n, ScoreYes: 10, ScoreSometimes: 5, ScoreNo: 0,
			}
		}
	}
	// One question of the next interval, to check cross-interval answers.
	ref.questions[9001] = &domain.Asq3Question{ID: 9001, AgeIntervalID: 11, DomainID: 1, QuestionNumber: 1, ScoreYes: 10}
	return ref
}

type screeningHarness struct {
	svc        ScreeningService
	ref        *fakeAsq3Ref
	screenings *fakeScreenings
	notifier   *fakeNotifier
}

func newScreeningHarness(children ...*domain.Child) *screeningHarness {
	if len(children) == 0 {
		children = []*domain.Child{{ID: 7, UserID: parentUser.ID, Name: "Budi", Birthday: day(2024, 3, 1)}}
	}
	h := &screeningHarness{
		ref:        newAsq3Fixture(),
		screenings: newFakeScreenings(),
		notifier:   &fakeNotifier{},
	}
	h.svc = NewScreeningService(newFakeChildren(children...), h.ref, h.screenings, h.notifier, 6, testClock(), zap.NewNop())
	return h
}

func answersFor(domainID int64, answers ...string) []AnswerInput {
	out := make([]AnswerInput, 0, len(answers))
	for i, a := range answers {
		out = append(out, AnswerInput{QuestionID: domainID*100 + int64(i+1), Answer: a})
	}
	return out
}

func allYes(domainID int64) []AnswerInput {
	return answersFor(domainID, "yes", "yes", "yes", "yes", "yes", "yes")
}

func TestScreeningService_StartPicksIntervalByAgeDays(t *testing.T) {
	h := newScreeningHarness()

	s, err := h.svc.Start(context.Background(), parentUser, 7, StartScreeningRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(testIntervalID), s.AgeIntervalID)
	assert.Equal(t, 374, s.AgeAtScreeningDays)
	assert.Equal(t, 12, s.AgeAtScreeningMonths)
	assert.Equal(t, domain.ScreeningInProgress, s.Status)
	assert.Equal(t, day(2025, 3, 10), s.ScreeningDate)
}

func TestScreeningService_StartWithoutQuestionnaire(t *testing.T) {
	h := newScreeningHarness(&domain.Child{ID: 7, UserID: parentUser.ID, Birthday: day(2025, 3, 1)})

	_, err := h.svc.Start(context.Background(), parentUser, 7, StartScreeningRequest{})

	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusUnprocessableEntity, be.Status)
	assert.Equal(t, MsgNoQuestionnaire, be.Message)
	assert.Empty(t, h.screenings.screenings)
}

func TestScreeningService_StartForeignChild(t *testing.T) {
	h := newScreeningHarness()

	_, err := h.svc.Start(context.Background(), otherUser, 7, StartScreeningRequest{})

	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusForbidden, be.Status)
	assert.Equal(t, MsgChildForbidden, be.Message)
}

func TestScreeningService_SubmitAnswersAutoCompletes(t *testing.T) {
	h := newScreeningHarness()
	ctx := context.Background()
	s, err := h.svc.Start(ctx, parentUser, 7, StartScreeningRequest{})
	require.NoError(t, err)

	var answers []AnswerInput
	for id := int64(1); id <= 4; id++ {
		answers = append(answers, allYes(id)...)
	}
	// 2 × 10 = 20: at the cutoff, below monitoring.
	answers = append(answers, answersFor(5, "yes", "yes", "no", "no", "no", "no")...)

	out, err := h.svc.SubmitAnswers(ctx, parentUser, 7, s.ID, AnswersRequest{Answers: answers})
	require.NoError(t, err)

	assert.True(t, out.Completed)
	require.Len(t, out.Results, 5)
	assert.Equal(t, domain.ResultSesuai, out.Results[0].Status)
	assert.Equal(t, float64(60), out.Results[0].TotalScore)
	assert.Equal(t, domain.ResultPantau, out.Results[4].Status)
	assert.Equal(t, float64(20), out.Results[4].TotalScore)

	stored := h.screenings.screenings[s.ID]
	assert.Equal(t, domain.ScreeningCompleted, stored.Status)
	require.NotNil(t, stored.OverallStatus)
	assert.Equal(t, domain.ResultPantau, *stored.OverallStatus)

	assert.Equal(t, 30, out.Progress.AnsweredQuestions)
	assert.Equal(t, 100, out.Progress.ProgressPercent)

	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, parentUser.ID, h.notifier.sent[0].UserID)
	assert.Equal(t, NotifyScreeningCompleted, h.notifier.sent[0].Type)
}

func TestScreeningService_SubmitPartialAnswers(t *testing.T) {
	h := newScreeningHarness()
	ctx := context.Background()
	s, err := h.svc.Start(ctx, parentUser, 7, StartScreeningRequest{})
	require.NoError(t, err)

	out, err := h.svc.SubmitAnswers(ctx, parentUser, 7, s.ID, AnswersRequest{
		Answers: answersFor(2, "yes", "sometimes", "no", "yes", "yes", "yes"),
	})
	require.NoError(t, err)

	assert.False(t, out.Completed)
	assert.Equal(t, 6, out.Progress.AnsweredQuestions)
	assert.Equal(t, 20, out.Progress.ProgressPercent)
	assert.Equal(t, 100, out.Progress.Domains[1].ProgressPercent)
	assert.Equal(t, 0, out.Progress.Domains[0].ProgressPercent)
	assert.Empty(t, h.notifier.sent)

	// Scores come from the question row.
	saved := h.screenings.answers[s.ID]
	assert.Equal(t, 5, saved[202].Score)
	assert.Equal(t, 0, saved[203].Score)
}

func TestScreeningService_SubmitAnswersValidation(t *testing.T) {
	h := newScreeningHarness()
	ctx := context.Background()
	s, err := h.svc.Start(ctx, parentUser, 7, StartScreeningRequest{})
	require.NoError(t, err)

	_, err = h.svc.SubmitAnswers(ctx, parentUser, 7, s.ID, AnswersRequest{Answers: []AnswerInput{
		{QuestionID: 101, Answer: "maybe"},
		{QuestionID: 9001, Answer: "yes"},
	}})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "answers.0.answer")
	assert.Contains(t, ve.Fields, "answers.1.question_id")
	assert.Empty(t, h.screenings.answers[s.ID])
}

func TestScreeningService_CompletedScreeningIsLocked(t *testing.T) {
	h := newScreeningHarness()
	h.screenings.screenings[50] = &domain.Asq3Screening{ID: 50, ChildID: 7, AgeIntervalID: testIntervalID, Status: domain.ScreeningCompleted}
	ctx := context.Background()

	_, err := h.svc.SubmitAnswers(ctx, parentUser, 7, 50, AnswersRequest{Answers: allYes(1)})
	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, MsgScreeningCompleted, be.Message)

	_, err = h.svc.Update(ctx, parentUser, 7, 50, UpdateScreeningRequest{Status: ptr(domain.ScreeningCancelled)})
	require.True(t, errors.As(err, &be))
	assert.Equal(t, MsgScreeningCompleted, be.Message)
}

func TestScreeningService_ScreeningOfAnotherChild(t *testing.T) {
	h := newScreeningHarness(
		&domain.Child{ID: 7, UserID: parentUser.ID, Birthday: day(2024, 3, 1)},
		&domain.Child{ID: 8, UserID: parentUser.ID, Birthday: day(2024, 3, 1)},
	)
	h.screenings.screenings[50] = &domain.Asq3Screening{ID: 50, ChildID: 8, Status: domain.ScreeningInProgress}

	_, err := h.svc.Progress(context.Background(), parentUser, 7, 50)

	require.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, MsgScreeningNotFound, err.Error())
}

func TestScreeningService_ResultsRecommendOnlyDomainsNeedingAttention(t *testing.T) {
	h := newScreeningHarness()
	overall := domain.ResultPerluRujukan
	h.screenings.screenings[50] = &domain.Asq3Screening{
		ID: 50, ChildID: 7, AgeIntervalID: testIntervalID,
		Status: domain.ScreeningCompleted, OverallStatus: &overall,
	}
	h.screenings.results[50] = []domain.Asq3Result{
		{DomainID: 1, Status: domain.ResultSesuai},
		{DomainID: 3, Status: domain.ResultPerluRujukan},
	}
	h.ref.recs = []domain.Asq3Recommendation{
		{ID: 1, DomainID: 1, RecommendationText: "a", Priority: 1},
		{ID: 2, DomainID: 3, RecommendationText: "b", Priority: 1},
	}

	res, err := h.svc.Results(context.Background(), parentUser, 7, 50)
	require.NoError(t, err)

	assert.Equal(t, domain.ResultPerluRujukan, res.OverallStatus)
	assert.Equal(t, "Perlu Rujukan", res.OverallLabel)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, int64(3), res.Recommendations[0].DomainID)
	require.Len(t, h.ref.recFilters, 1)
	assert.Equal(t, int64(testIntervalID), *h.ref.recFilters[0].AgeIntervalID)
	assert.Nil(t, res.Interventions)
}

func TestScreeningService_QuestionsGroupedByDomain(t *testing.T) {
	h := newScreeningHarness()

	set, err := h.svc.Questions(context.Background(), testIntervalID)
	require.NoError(t, err)

	require.Len(t, set.Domains, 5)
	for _, g := range set.Domains {
		assert.Len(t, g.Questions, 6)
	}

	_, err = h.svc.Questions(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}
