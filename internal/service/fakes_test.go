package service

import (
	"context"
	"sort"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
)

// The fakes embed the repository interfaces so that only the methods a test
// touches need a body; anything else panics on the nil embedded value.

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func testClock() Clock {
	return Clock{Loc: time.UTC, Now: func() time.Time { return testNow }}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

var (
	parentUser = &domain.User{ID: 1, Name: "Ibu Sari", UserType: domain.UserTypeParent}
	otherUser  = &domain.User{ID: 2, Name: "Ibu Lain", UserType: domain.UserTypeParent}
	nakesUser  = &domain.User{ID: 9, Name: "Bidan Ani", UserType: domain.UserTypeNakes}
)

type fakeChildren struct {
	repository.ChildrenRepository
	children map[int64]*domain.Child
}

func newFakeChildren(children ...*domain.Child) *fakeChildren {
	f := &fakeChildren{children: map[int64]*domain.Child{}}
	for _, c := range children {
		f.children[c.ID] = c
	}
	return f
}

func (f *fakeChildren) GetChild(_ context.Context, id int64) (*domain.Child, error) {
	c, ok := f.children[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type fakeAsq3Ref struct {
	repository.Asq3ReferenceRepository
	domains        []domain.Asq3Domain
	intervals      []domain.Asq3AgeInterval
	questions      map[int64]*domain.Asq3Question
	cutoffs        map[int64]map[int64]domain.Asq3CutoffScore
	recs           []domain.Asq3Recommendation
	recFilters     []repository.RecommendationFilters
	imagesSet      map[int64]string
	upsertedCutoff []domain.Asq3CutoffScore
	nextID         int64
}

func (f *fakeAsq3Ref) ListDomains(context.Context) ([]domain.Asq3Domain, error) {
	return f.domains, nil
}

func (f *fakeAsq3Ref) ListAgeIntervals(context.Context) ([]domain.Asq3AgeInterval, error) {
	return f.intervals, nil
}

func (f *fakeAsq3Ref) GetAgeInterval(_ context.Context, id int64) (*domain.Asq3AgeInterval, error) {
	for _, iv := range f.intervals {
		if iv.ID == id {
			cp := iv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAsq3Ref) IntervalForAgeDays(_ context.Context, ageDays int) (*domain.Asq3AgeInterval, error) {
	for _, iv := range f.intervals {
		if iv.Contains(ageDays) {
			cp := iv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAsq3Ref) Cutoffs(_ context.Context, intervalID int64) (map[int64]domain.Asq3CutoffScore, error) {
	return f.cutoffs[intervalID], nil
}

func (f *fakeAsq3Ref) ListQuestions(_ context.Context, intervalID int64) ([]domain.Asq3Question, error) {
	var out []domain.Asq3Question
	for _, q := range f.questions {
		if q.AgeIntervalID == intervalID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAsq3Ref) QuestionsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Asq3Question, error) {
	out := map[int64]*domain.Asq3Question{}
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

func (f *fakeAsq3Ref) CountQuestions(_ context.Context, intervalID int64) (int, error) {
	n := 0
	for _, q := range f.questions {
		if q.AgeIntervalID == intervalID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAsq3Ref) ListRecommendations(_ context.Context, filters repository.RecommendationFilters) ([]domain.Asq3Recommendation, error) {
	f.recFilters = append(f.recFilters, filters)
	want := map[int64]bool{}
	for _, id := range filters.DomainIDs {
		want[id] = true
	}
	var out []domain.Asq3Recommendation
	for _, r := range f.recs {
		if len(want) > 0 && !want[r.DomainID] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAsq3Ref) FindQuestion(_ context.Context, ageMonths int, domainCode string, number int) (*domain.Asq3Question, error) {
	for _, iv := range f.intervals {
		if iv.AgeMonths != ageMonths {
			continue
		}
		for _, q := range f.questions {
			if q.AgeIntervalID == iv.ID && q.DomainCode == domainCode && q.QuestionNumber == number {
				return q, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeAsq3Ref) SetQuestionImage(_ context.Context, id int64, url string) error {
	if f.imagesSet == nil {
		f.imagesSet = map[int64]string{}
	}
	f.imagesSet[id] = url
	return nil
}

func (f *fakeAsq3Ref) UpsertDomain(_ context.Context, d *domain.Asq3Domain) (int64, error) {
	f.nextID++
	f.domains = append(f.domains, *d)
	return f.nextID, nil
}

func (f *fakeAsq3Ref) UpsertAgeInterval(_ context.Context, a *domain.Asq3AgeInterval) (int64, error) {
	f.nextID++
	a.ID = f.nextID
	f.intervals = append(f.intervals, *a)
	return f.nextID, nil
}

func (f *fakeAsq3Ref) UpsertCutoff(_ context.Context, c *domain.Asq3CutoffScore) error {
	f.upsertedCutoff = append(f.upsertedCutoff, *c)
	return nil
}

func (f *fakeAsq3Ref) EnsureQuestion(_ context.Context, q *domain.Asq3Question) (bool, error) {
	if f.questions == nil {
		f.questions = map[int64]*domain.Asq3Question{}
	}
	for _, existing := range f.questions {
		if existing.AgeIntervalID == q.AgeIntervalID && existing.DomainID == q.DomainID && existing.QuestionNumber == q.QuestionNumber {
			return false, nil
		}
	}
	f.nextID++
	cp := *q
	cp.ID = f.nextID
	f.questions[cp.ID] = &cp
	return true, nil
}

type fakeScreenings struct {
	repository.ScreeningsRepository
	screenings    map[int64]*domain.Asq3Screening
	answers       map[int64]map[int64]domain.Asq3Answer
	results       map[int64][]domain.Asq3Result
	interventions map[int64]*domain.Intervention
	nextID        int64
}

func newFakeScreenings() *fakeScreenings {
	return &fakeScreenings{
		screenings:    map[int64]*domain.Asq3Screening{},
		answers:       map[int64]map[int64]domain.Asq3Answer{},
		results:       map[int64][]domain.Asq3Result{},
		interventions: map[int64]*domain.Intervention{},
		nextID:        100,
	}
}

func (f *fakeScreenings) CreateScreening(_ context.Context, s *domain.Asq3Screening) (int64, error) {
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt, s.UpdatedAt = testNow, testNow
	cp := *s
	f.screenings[s.ID] = &cp
	return s.ID, nil
}

func (f *fakeScreenings) GetScreening(_ context.Context, id int64) (*domain.Asq3Screening, error) {
	s, ok := f.screenings[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeScreenings) UpdateScreening(_ context.Context, s *domain.Asq3Screening) error {
	cp := *s
	f.screenings[s.ID] = &cp
	return nil
}

func (f *fakeScreenings) DeleteScreening(_ context.Context, id int64) error {
	delete(f.screenings, id)
	return nil
}

func (f *fakeScreenings) HasScreeningForInterval(_ context.Context, childID, intervalID int64) (bool, error) {
	for _, s := range f.screenings {
		if s.ChildID == childID && s.AgeIntervalID == intervalID && s.Status != domain.ScreeningCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScreenings) ListAnswers(_ context.Context, screeningID int64) ([]domain.Asq3Answer, error) {
	out := make([]domain.Asq3Answer, 0, len(f.answers[screeningID]))
	for _, a := range f.answers[screeningID] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (f *fakeScreenings) SaveAnswers(_ context.Context, screeningID int64, answers []domain.Asq3Answer) error {
	if f.answers[screeningID] == nil {
		f.answers[screeningID] = map[int64]domain.Asq3Answer{}
	}
	for _, a := range answers {
		a.CreatedAt = testNow
		f.answers[screeningID][a.QuestionID] = a
	}
	f.screenings[screeningID].UpdatedAt = testNow.Add(time.Minute)
	return nil
}

func (f *fakeScreenings) CompleteScreening(_ context.Context, s *domain.Asq3Screening, results []domain.Asq3Result) error {
	now := testNow
	s.Status = domain.ScreeningCompleted
	s.CompletedAt = &now
	f.results[s.ID] = results
	cp := *s
	f.screenings[s.ID] = &cp
	return nil
}

func (f *fakeScreenings) ListResults(_ context.Context, screeningID int64) ([]domain.Asq3Result, error) {
	return f.results[screeningID], nil
}

func (f *fakeScreenings) ListInterventions(_ context.Context, screeningID int64) ([]*domain.Intervention, error) {
	out := []*domain.Intervention{}
	for _, in := range f.interventions {
		if in.ScreeningID == screeningID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeScreenings) GetIntervention(_ context.Context, screeningID, id int64) (*domain.Intervention, error) {
	in, ok := f.interventions[id]
	if !ok || in.ScreeningID != screeningID {
		return nil, nil
	}
	cp := *in
	return &cp, nil
}

func (f *fakeScreenings) CreateIntervention(_ context.Context, in *domain.Intervention) (int64, error) {
	f.nextID++
	in.ID = f.nextID
	cp := *in
	f.interventions[in.ID] = &cp
	return in.ID, nil
}

func (f *fakeScreenings) UpdateIntervention(_ context.Context, in *domain.Intervention) error {
	cp := *in
	f.interventions[in.ID] = &cp
	return nil
}

func (f *fakeScreenings) DeleteIntervention(_ context.Context, id int64) error {
	delete(f.interventions, id)
	return nil
}

type fakeNotifier struct {
	NotificationService
	sent []*domain.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n *domain.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

type fakeFoods struct {
	repository.FoodsRepository
	foods map[int64]*domain.Food
}

func (f *fakeFoods) GetFood(_ context.Context, id int64) (*domain.Food, error) {
	food, ok := f.foods[id]
	if !ok {
		return nil, nil
	}
	cp := *food
	return &cp, nil
}

func (f *fakeFoods) GetFoodsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Food, error) {
	out := map[int64]*domain.Food{}
	for _, id := range ids {
		if food, ok := f.foods[id]; ok {
			out[id] = food
		}
	}
	return out, nil
}

type fakePmt struct {
	repository.PmtRepository
	menus      map[int64]*domain.PmtMenu
	schedules  map[int64]*domain.PmtSchedule
	logs       map[int64]*domain.PmtLog
	programs   map[int64]*domain.PmtProgram
	created    []time.Time
	statsCalls []repository.StatsFilters
	scheduled  int
	breakdown  pmt.Breakdown
	nextID     int64
}

func newFakePmt() *fakePmt {
	return &fakePmt{
		menus:     map[int64]*domain.PmtMenu{},
		schedules: map[int64]*domain.PmtSchedule{},
		logs:      map[int64]*domain.PmtLog{},
		programs:  map[int64]*domain.PmtProgram{},
		nextID:    500,
	}
}

func (f *fakePmt) GetMenu(_ context.Context, id int64) (*domain.PmtMenu, error) {
	return f.menus[id], nil
}

func (f *fakePmt) FirstActiveMenu(context.Context) (*domain.PmtMenu, error) {
	var first *domain.PmtMenu
	for _, m := range f.menus {
		if m.IsActive && (first == nil || m.Name < first.Name) {
			first = m
		}
	}
	return first, nil
}

func (f *fakePmt) GetSchedule(_ context.Context, id int64) (*domain.PmtSchedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakePmt) CreateSchedule(_ context.Context, s *domain.PmtSchedule) (int64, error) {
	for _, existing := range f.schedules {
		if existing.ChildID == s.ChildID && existing.ScheduledDate.Equal(s.ScheduledDate) {
			return 0, repository.ErrDuplicate
		}
	}
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.schedules[s.ID] = &cp
	return s.ID, nil
}

func (f *fakePmt) GetLogBySchedule(_ context.Context, scheduleID int64) (*domain.PmtLog, error) {
	l, ok := f.logs[scheduleID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakePmt) CreateLog(_ context.Context, l *domain.PmtLog) (int64, error) {
	if _, ok := f.logs[l.ScheduleID]; ok {
		return 0, repository.ErrDuplicate
	}
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.logs[l.ScheduleID] = &cp
	return l.ID, nil
}

func (f *fakePmt) UpdateLog(_ context.Context, l *domain.PmtLog) error {
	cp := *l
	f.logs[l.ScheduleID] = &cp
	return nil
}

func (f *fakePmt) ScheduleStats(_ context.Context, filters repository.StatsFilters) (int, pmt.Breakdown, error) {
	f.statsCalls = append(f.statsCalls, filters)
	return f.scheduled, f.breakdown, nil
}

func (f *fakePmt) ActiveProgramForChild(_ context.Context, childID int64) (*domain.PmtProgram, error) {
	for _, p := range f.programs {
		if p.ChildID == childID && p.Status == domain.ProgramActive {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePmt) CreateProgram(_ context.Context, p *domain.PmtProgram, dates []time.Time, _ int64) error {
	f.nextID++
	p.ID = f.nextID
	p.TotalDays = len(dates)
	f.created = dates
	cp := *p
	f.programs[p.ID] = &cp
	return nil
}

func (f *fakePmt) GetProgram(_ context.Context, id int64) (*domain.PmtProgram, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePmt) SetProgramStatus(_ context.Context, id int64, status string) error {
	f.programs[id].Status = status
	return nil
}
