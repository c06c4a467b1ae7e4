package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jagoanbunda/jagoanbunda-data/internal/asq3"
	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

const (
	msgAgeIntervalNotFound  = "Interval usia tidak ditemukan"
	msgScreeningCancelled   = "Screening sudah dibatalkan"
	msgScreeningNotComplete = "Screening belum selesai"
)

// ScreeningService runs ASQ-3 screenings: reference lookups, starting a
// screening, saving answers with auto-completion, and results.
type ScreeningService interface {
	Domains(ctx context.Context) ([]domain.Asq3Domain, error)
	AgeIntervals(ctx context.Context) ([]domain.Asq3AgeInterval, error)
	Questions(ctx context.Context, intervalID int64) (*QuestionSet, error)
	Recommendations(ctx context.Context, domainID, intervalID *int64) ([]domain.Asq3Recommendation, error)

	List(ctx context.Context, filters repository.ScreeningFilters, page repository.Page) ([]*domain.Asq3Screening, int, error)
	// ListForChild is the parent listing of one child's screenings.
	ListForChild(ctx context.Context, user *domain.User, childID int64, status string, page repository.Page) ([]*domain.Asq3Screening, int, error)
	Start(ctx context.Context, user *domain.User, childID int64, req StartScreeningRequest) (*domain.Asq3Screening, error)
	Get(ctx context.Context, user *domain.User, childID, id int64) (*domain.Asq3Screening, error)
	Update(ctx context.Context, user *domain.User, childID, id int64, req UpdateScreeningRequest) (*domain.Asq3Screening, error)
	Delete(ctx context.Context, id int64) error
	// Find and ResultsByID serve the nakes dashboard, which addresses
	// screenings without their child.
	Find(ctx context.Context, id int64) (*domain.Asq3Screening, error)
	ResultsByID(ctx context.Context, id int64) (*ScreeningResults, error)
	Progress(ctx context.Context, user *domain.User, childID, id int64) (*asq3.Progress, error)
	SubmitAnswers(ctx context.Context, user *domain.User, childID, id int64, req AnswersRequest) (*AnswersResult, error)
	Results(ctx context.Context, user *domain.User, childID, id int64) (*ScreeningResults, error)
}

// QuestionSet is an interval's questions grouped by domain.
type QuestionSet struct {
	AgeInterval *domain.Asq3AgeInterval `json:"age_interval"`
	Domains     []QuestionGroup         `json:"domains"`
}

type QuestionGroup struct {
	Domain    domain.Asq3Domain     `json:"domain"`
	Questions []domain.Asq3Question `json:"questions"`
}

type StartScreeningRequest struct {
	ScreeningDate *string `json:"screening_date"`
	Notes         *string `json:"notes"`
}

type UpdateScreeningRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type AnswersRequest struct {
	Answers []AnswerInput `json:"answers"`
}

type AnswerInput struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
}

// AnswersResult is the state after saving answers.
type AnswersResult struct {
	Progress  *asq3.Progress        `json:"progress"`
	Completed bool                  `json:"completed"`
	Screening *domain.Asq3Screening `json:"screening"`
	Results   []domain.Asq3Result   `json:"results,omitempty"`
}

// ScreeningResults is a completed screening with advice for the domains that
// need attention.
type ScreeningResults struct {
	Screening       *domain.Asq3Screening       `json:"screening"`
	OverallStatus   string                      `json:"overall_status"`
	OverallLabel    string                      `json:"overall_label"`
	Results         []DomainResult              `json:"results"`
	Recommendations []domain.Asq3Recommendation `json:"recommendations"`
	Interventions   []*domain.Intervention      `json:"interventions,omitempty"`
}

type DomainResult struct {
	domain.Asq3Result
	StatusLabel string `json:"status_label"`
}

type screeningService struct {
	children   repository.ChildrenRepository
	reference  repository.Asq3ReferenceRepository
	screenings repository.ScreeningsRepository
	notifier   NotificationService
	perDomain  int
	clock      Clock
	logger     *zap.Logger
}

func NewScreeningService(
	children repository.ChildrenRepository,
	reference repository.Asq3ReferenceRepository,
	screenings repository.ScreeningsRepository,
	notifier NotificationService,
	questionsPerDomain int,
	clock Clock,
	logger *zap.Logger,
) ScreeningService {
	return &screeningService{
		children:   children,
		reference:  reference,
		screenings: screenings,
		notifier:   notifier,
		perDomain:  questionsPerDomain,
		clock:      clock,
		logger:     logger,
	}
}

func (s *screeningService) Domains(ctx context.Context) ([]domain.Asq3Domain, error) {
	return s.reference.ListDomains(ctx)
}

func (s *screeningService) AgeIntervals(ctx context.Context) ([]domain.Asq3AgeInterval, error) {
	return s.reference.ListAgeIntervals(ctx)
}

func (s *screeningService) Questions(ctx context.Context, intervalID int64) (*QuestionSet, error) {
	iv, err := s.reference.GetAgeInterval(ctx, intervalID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, NotFound(msgAgeIntervalNotFound)
	}
	domains, err := s.reference.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.reference.ListQuestions(ctx, intervalID)
	if err != nil {
		return nil, err
	}

	byDomain := make(map[int64][]domain.Asq3Question, len(domains))
	for _, q := range questions {
		byDomain[q.DomainID] = append(byDomain[q.DomainID], q)
	}
	set := &QuestionSet{AgeInterval: iv, Domains: make([]QuestionGroup, 0, len(domains))}
	for _, d := range domains {
		qs := byDomain[d.ID]
		if qs == nil {
			qs = []domain.Asq3Question{}
		}
		set.Domains = append(set.Domains, QuestionGroup{Domain: d, Questions: qs})
	}
	return set, nil
}

func (s *screeningService) Recommendations(ctx context.Context, domainID, intervalID *int64) ([]domain.Asq3Recommendation, error) {
	f := repository.RecommendationFilters{AgeIntervalID: intervalID}
	if domainID != nil {
		f.DomainIDs = []int64{*domainID}
	}
	return s.reference.ListRecommendations(ctx, f)
}

func (s *screeningService) List(ctx context.Context, filters repository.ScreeningFilters, page repository.Page) ([]*domain.Asq3Screening, int, error) {
	return s.screenings.ListScreenings(ctx, filters, page)
}

func (s *screeningService) ListForChild(ctx context.Context, user *domain.User, childID int64, status string, page repository.Page) ([]*domain.Asq3Screening, int, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, 0, err
	}
	return s.screenings.ListScreenings(ctx, repository.ScreeningFilters{ChildID: &childID, Status: status}, page)
}

func (s *screeningService) Start(ctx context.Context, user *domain.User, childID int64, req StartScreeningRequest) (*domain.Asq3Screening, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, err
	}
	date := s.clock.Today()
	if req.ScreeningDate != nil && *req.ScreeningDate != "" {
		d, ok := parseDate(*req.ScreeningDate)
		switch {
		case !ok:
			return nil, Invalid("screening_date", "Format tanggal tidak valid.")
		case d.After(s.clock.Today()):
			return nil, Invalid("screening_date", "Tanggal screening tidak boleh di masa depan.")
		case d.Before(dateOnly(c.Birthday)):
			return nil, Invalid("screening_date", "Tanggal screening tidak boleh sebelum tanggal lahir.")
		}
		date = d
	}

	ageDays := c.AgeInDays(date)
	iv, err := s.reference.IntervalForAgeDays(ctx, ageDays)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, Unprocessable(MsgNoQuestionnaire)
	}

	sc := &domain.Asq3Screening{
		ChildID:              c.ID,
		AgeIntervalID:        iv.ID,
		ScreeningDate:        date,
		AgeAtScreeningMonths: c.AgeInMonths(date),
		AgeAtScreeningDays:   ageDays,
		Status:               domain.ScreeningInProgress,
		Notes:                req.Notes,
		ChildName:            c.Name,
		AgeLabel:             iv.AgeLabel,
	}
	if _, err := s.screenings.CreateScreening(ctx, sc); err != nil {
		return nil, err
	}
	s.logger.Info("Screening started",
		zap.Int64("screening_id", sc.ID),
		zap.Int64("child_id", c.ID),
		zap.Int("age_months", iv.AgeMonths),
	)
	return sc, nil
}

// screening loads a screening of childID the user may access. A screening of
// another child is reported as missing.
func (s *screeningService) screening(ctx context.Context, user *domain.User, childID, id int64) (*domain.Child, *domain.Asq3Screening, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, nil, err
	}
	sc, err := s.screenings.GetScreening(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sc == nil || sc.ChildID != c.ID {
		return nil, nil, NotFound(MsgScreeningNotFound)
	}
	return c, sc, nil
}

func (s *screeningService) Get(ctx context.Context, user *domain.User, childID, id int64) (*domain.Asq3Screening, error) {
	_, sc, err := s.screening(ctx, user, childID, id)
	return sc, err
}

func (s *screeningService) Update(ctx context.Context, user *domain.User, childID, id int64, req UpdateScreeningRequest) (*domain.Asq3Screening, error) {
	_, sc, err := s.screening(ctx, user, childID, id)
	if err != nil {
		return nil, err
	}
	if sc.IsCompleted() {
		return nil, Unprocessable(MsgScreeningCompleted)
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.ScreeningInProgress, domain.ScreeningCancelled:
			sc.Status = *req.Status
		default:
			return nil, Invalid("status", "Status tidak valid.")
		}
	}
	if req.Notes != nil {
		if chars(*req.Notes) > 1000 {
			return nil, Invalid("notes", "Catatan maksimal 1000 karakter.")
		}
		sc.Notes = req.Notes
	}
	if err := s.screenings.UpdateScreening(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *screeningService) Find(ctx context.Context, id int64) (*domain.Asq3Screening, error) {
	sc, err := s.screenings.GetScreening(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, NotFound(MsgScreeningNotFound)
	}
	return sc, nil
}

func (s *screeningService) ResultsByID(ctx context.Context, id int64) (*ScreeningResults, error) {
	sc, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.results(ctx, sc, true)
}

func (s *screeningService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Screening deleted", zap.Int64("screening_id", id))
	return s.screenings.DeleteScreening(ctx, id)
}

func (s *screeningService) Progress(ctx context.Context, user *domain.User, childID, id int64) (*asq3.Progress, error) {
	_, sc, err := s.screening(ctx, user, childID, id)
	if err != nil {
		return nil, err
	}
	return s.progress(ctx, sc)
}

func (s *screeningService) progress(ctx context.Context, sc *domain.Asq3Screening) (*asq3.Progress, error) {
	domains, err := s.reference.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	answers, err := s.screenings.ListAnswers(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	return asq3.ComputeProgress(sc, domains, answers, s.perDomain), nil
}

func (s *screeningService) SubmitAnswers(ctx context.Context, user *domain.User, childID, id int64, req AnswersRequest) (*AnswersResult, error) {
	c, sc, err := s.screening(ctx, user, childID, id)
	if err != nil {
		return nil, err
	}
	switch sc.Status {
	case domain.ScreeningCompleted:
		return nil, Unprocessable(MsgScreeningCompleted)
	case domain.ScreeningCancelled:
		return nil, Unprocessable(msgScreeningCancelled)
	}
	if len(req.Answers) == 0 {
		return nil, Invalid("answers", "Jawaban wajib diisi.")
	}

	ids := make([]int64, 0, len(req.Answers))
	for _, a := range req.Answers {
		ids = append(ids, a.QuestionID)
	}
	questions, err := s.reference.QuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	answers := make([]domain.Asq3Answer, 0, len(req.Answers))
	for i, a := range req.Answers {
		prefix := "answers." + strconv.Itoa(i) + "."
		q, ok := questions[a.QuestionID]
		if !ok || q.AgeIntervalID != sc.AgeIntervalID {
			v.Add(prefix+"question_id", "Pertanyaan tidak ditemukan untuk kuesioner ini.")
			continue
		}
		if !asq3.ValidAnswer(a.Answer) {
			v.Add(prefix+"answer", "Jawaban harus yes, sometimes, atau no.")
			continue
		}
		answers = append(answers, domain.Asq3Answer{
			ScreeningID: sc.ID,
			QuestionID:  q.ID,
			DomainID:    q.DomainID,
			Answer:      a.Answer,
			Score:       asq3.ScoreAnswer(q, a.Answer),
		})
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.screenings.SaveAnswers(ctx, sc.ID, answers); err != nil {
		return nil, err
	}

	// Reload for the fresh updated_at.
	if sc, err = s.screenings.GetScreening(ctx, sc.ID); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, NotFound(MsgScreeningNotFound)
	}
	out := &AnswersResult{Screening: sc}

	required, err := s.reference.CountQuestions(ctx, sc.AgeIntervalID)
	if err != nil {
		return nil, err
	}
	all, err := s.screenings.ListAnswers(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	if required > 0 && len(all) >= required {
		results, err := s.complete(ctx, c, sc, all)
		if err != nil {
			return nil, err
		}
		out.Completed = true
		out.Results = results
	}

	if out.Progress, err = s.progress(ctx, sc); err != nil {
		return nil, err
	}
	return out, nil
}

// complete scores the answers, stores the results and notifies the parent.
func (s *screeningService) complete(ctx context.Context, c *domain.Child, sc *domain.Asq3Screening, answers []domain.Asq3Answer) ([]domain.Asq3Result, error) {
	domains, err := s.reference.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	cutoffs, err := s.reference.Cutoffs(ctx, sc.AgeIntervalID)
	if err != nil {
		return nil, err
	}
	scores, overall := asq3.ScoreDomains(domains, answers, cutoffs)

	results := make([]domain.Asq3Result, 0, len(scores))
	for _, d := range scores {
		results = append(results, domain.Asq3Result{
			ScreeningID:     sc.ID,
			DomainID:        d.DomainID,
			DomainCode:      d.DomainCode,
			DomainName:      d.DomainName,
			TotalScore:      d.Total,
			CutoffScore:     d.Thresholds.Cutoff,
			MonitoringScore: d.Thresholds.Monitoring,
			Status:          d.Status,
		})
	}
	sc.OverallStatus = &overall
	if err := s.screenings.CompleteScreening(ctx, sc, results); err != nil {
		return nil, err
	}
	s.logger.Info("Screening completed",
		zap.Int64("screening_id", sc.ID),
		zap.Int64("child_id", c.ID),
		zap.String("overall_status", overall),
	)

	notifyQuietly(ctx, s.notifier, s.logger, &domain.Notification{
		UserID: c.UserID,
		Type:   NotifyScreeningCompleted,
		Title:  "Hasil Skrining ASQ-3",
		Body:   fmt.Sprintf("Skrining perkembangan %s telah selesai: %s", c.Name, asq3.StatusLabel(overall)),
		Data: map[string]any{
			"child_id":       c.ID,
			"screening_id":   sc.ID,
			"overall_status": overall,
		},
	})
	return results, nil
}

func (s *screeningService) Results(ctx context.Context, user *domain.User, childID, id int64) (*ScreeningResults, error) {
	_, sc, err := s.screening(ctx, user, childID, id)
	if err != nil {
		return nil, err
	}
	return s.results(ctx, sc, user.IsNakes())
}

func (s *screeningService) results(ctx context.Context, sc *domain.Asq3Screening, withInterventions bool) (*ScreeningResults, error) {
	if !sc.IsCompleted() {
		return nil, Unprocessable(msgScreeningNotComplete)
	}
	rows, err := s.screenings.ListResults(ctx, sc.ID)
	if err != nil {
		return nil, err
	}

	out := &ScreeningResults{
		Screening:       sc,
		Results:         make([]DomainResult, 0, len(rows)),
		Recommendations: []domain.Asq3Recommendation{},
	}
	statuses := make([]string, 0, len(rows))
	var attention []int64
	for _, r := range rows {
		out.Results = append(out.Results, DomainResult{Asq3Result: r, StatusLabel: asq3.StatusLabel(r.Status)})
		statuses = append(statuses, r.Status)
		if r.Status != domain.ResultSesuai {
			attention = append(attention, r.DomainID)
		}
	}
	out.OverallStatus = asq3.Overall(statuses)
	if sc.OverallStatus != nil {
		out.OverallStatus = *sc.OverallStatus
	}
	out.OverallLabel = asq3.StatusLabel(out.OverallStatus)

	if len(attention) > 0 {
		interval := sc.AgeIntervalID
		recs, err := s.reference.ListRecommendations(ctx, repository.RecommendationFilters{
			DomainIDs:     attention,
			AgeIntervalID: &interval,
		})
		if err != nil {
			return nil, err
		}
		out.Recommendations = recs
	}

	if withInterventions {
		if out.Interventions, err = s.screenings.ListInterventions(ctx, sc.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
