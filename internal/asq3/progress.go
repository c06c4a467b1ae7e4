package asq3

import (
	"math"
	"sort"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// DomainProgress is the completion of one domain.
type DomainProgress struct {
	DomainCode        string `json:"domain_code"`
	DomainName        string `json:"domain_name"`
	AnsweredQuestions int    `json:"answered_questions"`
	TotalQuestions    int    `json:"total_questions"`
	ProgressPercent   int    `json:"progress_percent"`
}

// AnswerSnapshot lets a client restore its form without refetching questions.
type AnswerSnapshot struct {
	QuestionID int64     `json:"question_id"`
	Answer     string    `json:"answer"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// Progress is the resumable snapshot of a screening.
type Progress struct {
	ScreeningID         int64            `json:"screening_id"`
	Status              string           `json:"status"`
	TotalQuestions      int              `json:"total_questions"`
	AnsweredQuestions   int              `json:"answered_questions"`
	ProgressPercent     int              `json:"progress_percent"`
	LastSavedAt         time.Time        `json:"last_saved_at"`
	Domains             []DomainProgress `json:"domains"`
	AnsweredQuestionIDs []int64          `json:"answered_question_ids"`
	Answers             []AnswerSnapshot `json:"answers"`
}

// Percent is round(answered/total*100), 0 when total is 0.
func Percent(answered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}

// ComputeProgress aggregates answers into per-domain and overall completion.
// domains are reported in display order; per-domain and overall counts are
// capped at their quotas.
func ComputeProgress(s *domain.Asq3Screening, domains []domain.Asq3Domain, answers []domain.Asq3Answer, perDomain int) *Progress {
	ordered := make([]domain.Asq3Domain, len(domains))
	copy(ordered, domains)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DisplayOrder < ordered[j].DisplayOrder })

	perDomainCount := make(map[int64]int, len(ordered))
	seen := make(map[int64]bool, len(answers))
	p := &Progress{
		ScreeningID:         s.ID,
		Status:              s.Status,
		TotalQuestions:      perDomain * len(ordered),
		LastSavedAt:         s.UpdatedAt,
		Domains:             make([]DomainProgress, 0, len(ordered)),
		AnsweredQuestionIDs: make([]int64, 0, len(answers)),
		Answers:             make([]AnswerSnapshot, 0, len(answers)),
	}

	for _, a := range answers {
		if seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true
		perDomainCount[a.DomainID]++
		p.AnsweredQuestionIDs = append(p.AnsweredQuestionIDs, a.QuestionID)
		p.Answers = append(p.Answers, AnswerSnapshot{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			Score:      a.Score,
			CreatedAt:  a.CreatedAt,
		})
	}

	for _, d := range ordered {
		answered := min(perDomainCount[d.ID], perDomain)
		p.AnsweredQuestions += answered
		p.Domains = append(p.Domains, DomainProgress{
			DomainCode:        d.Code,
			DomainName:        d.Name,
			AnsweredQuestions: answered,
			TotalQuestions:    perDomain,
			ProgressPercent:   Percent(answered, perDomain),
		})
	}
	p.ProgressPercent = Percent(p.AnsweredQuestions, p.TotalQuestions)
	return p
}
