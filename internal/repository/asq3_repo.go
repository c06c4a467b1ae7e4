package repository

import (
	"context"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// Asq3ReferenceRepository reads and seeds the questionnaire reference tables.
type Asq3ReferenceRepository interface {
	ListDomains(ctx context.Context) ([]domain.Asq3Domain, error)
	ListAgeIntervals(ctx context.Context) ([]domain.Asq3AgeInterval, error)
	GetAgeInterval(ctx context.Context, id int64) (*domain.Asq3AgeInterval, error)
	// IntervalForAgeDays returns the interval whose day range contains ageDays.
	IntervalForAgeDays(ctx context.Context, ageDays int) (*domain.Asq3AgeInterval, error)
	// Cutoffs returns the interval's thresholds keyed by domain id.
	Cutoffs(ctx context.Context, intervalID int64) (map[int64]domain.Asq3CutoffScore, error)
	ListQuestions(ctx context.Context, intervalID int64) ([]domain.Asq3Question, error)
	// QuestionsByIDs returns the questions keyed by id.
	QuestionsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Asq3Question, error)
	CountQuestions(ctx context.Context, intervalID int64) (int, error)
	ListRecommendations(ctx context.Context, filters RecommendationFilters) ([]domain.Asq3Recommendation, error)

	UpsertDomain(ctx context.Context, d *domain.Asq3Domain) (int64, error)
	UpsertAgeInterval(ctx context.Context, a *domain.Asq3AgeInterval) (int64, error)
	UpsertCutoff(ctx context.Context, c *domain.Asq3CutoffScore) error
	// EnsureQuestion inserts q unless the (interval, domain, number) slot is taken.
	EnsureQuestion(ctx context.Context, q *domain.Asq3Question) (bool, error)
	FindQuestion(ctx context.Context, ageMonths int, domainCode string, number int) (*domain.Asq3Question, error)
	SetQuestionImage(ctx context.Context, id int64, url string) error
}

// RecommendationFilters narrows ListRecommendations. An interval filter also
// matches recommendations that apply to every interval.
type RecommendationFilters struct {
	DomainIDs     []int64
	AgeIntervalID *int64
}

// ScreeningsRepository stores screenings, answers, results and interventions.
type ScreeningsRepository interface {
	CreateScreening(ctx context.Context, s *domain.Asq3Screening) (int64, error)
	GetScreening(ctx context.Context, id int64) (*domain.Asq3Screening, error)
	ListScreenings(ctx context.Context, filters ScreeningFilters, page Page) ([]*domain.Asq3Screening, int, error)
	UpdateScreening(ctx context.Context, s *domain.Asq3Screening) error
	DeleteScreening(ctx context.Context, id int64) error
	LatestCompletedScreening(ctx context.Context, childID int64) (*domain.Asq3Screening, error)
	HasScreeningForInterval(ctx context.Context, childID, intervalID int64) (bool, error)

	// ListAnswers returns the answers with the domain of their question.
	ListAnswers(ctx context.Context, screeningID int64) ([]domain.Asq3Answer, error)
	// SaveAnswers upserts answers on (screening_id, question_id) and touches the screening.
	SaveAnswers(ctx context.Context, screeningID int64, answers []domain.Asq3Answer) error
	// CompleteScreening stores the results and marks the screening completed.
	CompleteScreening(ctx context.Context, s *domain.Asq3Screening, results []domain.Asq3Result) error
	ListResults(ctx context.Context, screeningID int64) ([]domain.Asq3Result, error)

	ListInterventions(ctx context.Context, screeningID int64) ([]*domain.Intervention, error)
	GetIntervention(ctx context.Context, screeningID, id int64) (*domain.Intervention, error)
	CreateIntervention(ctx context.Context, in *domain.Intervention) (int64, error)
	UpdateIntervention(ctx context.Context, in *domain.Intervention) error
	DeleteIntervention(ctx context.Context, id int64) error
}

// ScreeningFilters narrows ListScreenings.
type ScreeningFilters struct {
	ChildID *int64
	Status  string
	Search  string // child or parent name
}
