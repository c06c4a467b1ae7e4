// Package asq3 holds the questionnaire arithmetic: answer scores, per-domain
// classification against cutoffs, and the resumable progress snapshot.
package asq3

import (
	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// Thresholds are the cutoff and monitoring scores of one interval × domain.
type Thresholds struct {
	Cutoff     float64
	Monitoring float64
}

// DomainScore is the summed score of a domain and its classification.
type DomainScore struct {
	DomainID   int64
	DomainCode string
	DomainName string
	Total      float64
	Thresholds Thresholds
	Status     string
}

var statusLabels = map[string]string{
	domain.ResultSesuai:       "Perkembangan Sesuai",
	domain.ResultPantau:       "Perlu Pemantauan",
	domain.ResultPerluRujukan: "Perlu Rujukan",
}

// StatusLabel is the display label of a classification.
func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

// ValidAnswer reports whether a is yes, sometimes or no.
func ValidAnswer(a string) bool {
	switch a {
	case domain.AnswerYes, domain.AnswerSometimes, domain.AnswerNo:
		return true
	}
	return false
}

// ScoreAnswer scores an answer with the question's own score columns.
// Unknown answers score zero.
func ScoreAnswer(q *domain.Asq3Question, answer string) int {
	switch answer {
	case domain.AnswerYes:
		return q.ScoreYes
	case domain.AnswerSometimes:
		return q.ScoreSometimes
	case domain.AnswerNo:
		return q.ScoreNo
	}
	return 0
}

// Classify: score >= monitoring is on track, score >= cutoff is monitor,
// anything lower needs referral. Both bounds are inclusive.
func Classify(score float64, t Thresholds) string {
	switch {
	case score >= t.Monitoring:
		return domain.ResultSesuai
	case score >= t.Cutoff:
		return domain.ResultPantau
	default:
		return domain.ResultPerluRujukan
	}
}

// Overall is the worst classification: any referral wins, then any monitor.
func Overall(statuses []string) string {
	overall := domain.ResultSesuai
	for _, s := range statuses {
		if s == domain.ResultPerluRujukan {
			return domain.ResultPerluRujukan
		}
		if s == domain.ResultPantau {
			overall = domain.ResultPantau
		}
	}
	return overall
}

// ScoreDomains sums answers per domain and classifies each one. Domains
// without a cutoff row are scored against zero thresholds.
func ScoreDomains(domains []domain.Asq3Domain, answers []domain.Asq3Answer, cutoffs map[int64]domain.Asq3CutoffScore) ([]DomainScore, string) {
	totals := make(map[int64]float64, len(domains))
	for _, a := range answers {
		totals[a.DomainID] += float64(a.Score)
	}

	scores := make([]DomainScore, 0, len(domains))
	statuses := make([]string, 0, len(domains))
	for _, d := range domains {
		var th Thresholds
		if c, ok := cutoffs[d.ID]; ok {
			th = Thresholds{Cutoff: c.CutoffScore, Monitoring: c.MonitoringScore}
		}
		status := Classify(totals[d.ID], th)
		scores = append(scores, DomainScore{
			DomainID:   d.ID,
			DomainCode: d.Code,
			DomainName: d.Name,
			Total:      totals[d.ID],
			Thresholds: th,
			Status:     status,
		})
		statuses = append(statuses, status)
	}
	return scores, Overall(statuses)
}
