package service

import (
	"context"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

// Default answer scores of seeded questions.
const (
	seedScoreYes       = 10
	seedScoreSometimes = 5
	seedScoreNo        = 0
)

// SeedReport counts what a seed run wrote.
type SeedReport struct {
	Domains          int
	AgeIntervals     int
	Cutoffs          int
	QuestionsCreated int
}

// ReferenceSeeder writes the embedded catalog into the ASQ-3 tables. It is
// idempotent: rows are upserted and existing questions are left alone.
type ReferenceSeeder interface {
	Seed(ctx context.Context) (*SeedReport, error)
}

type referenceSeeder struct {
	repo    repository.Asq3ReferenceRepository
	catalog *reference.Catalog
	logger  *zap.Logger
}

func NewReferenceSeeder(repo repository.Asq3ReferenceRepository, catalog *reference.Catalog, logger *zap.Logger) ReferenceSeeder {
	return &referenceSeeder{repo: repo, catalog: catalog, logger: logger}
}

func (s *referenceSeeder) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}

	domainIDs := make([]int64, len(s.catalog.Domains))
	for i, d := range s.catalog.Domains {
		icon, color := d.Icon, d.Color
		id, err := s.repo.UpsertDomain(ctx, &domain.Asq3Domain{
			Code:         d.Code,
			Name:         d.Name,
			Icon:         &icon,
			Color:        &color,
			DisplayOrder: d.DisplayOrder,
		})
		if err != nil {
			return report, fmt.Errorf("failed to seed domain %s: %w", d.Code, err)
		}
		domainIDs[i] = id
		report.Domains++
	}

	for _, iv := range s.catalog.AgeIntervals {
		ivID, err := s.repo.UpsertAgeInterval(ctx, &domain.Asq3AgeInterval{
			AgeMonths:  iv.AgeMonths,
			AgeLabel:   iv.Label(),
			MinAgeDays: iv.MinAgeDays,
			MaxAgeDays: iv.MaxAgeDays,
		})
		if err != nil {
			return report, fmt.Errorf("failed to seed age interval %d: %w", iv.AgeMonths, err)
		}
		report.AgeIntervals++

		for i, d := range s.catalog.Domains {
			cutoff := iv.Cutoffs[i]
			if err := s.repo.UpsertCutoff(ctx, &domain.Asq3CutoffScore{
				AgeIntervalID:   ivID,
				DomainID:        domainIDs[i],
				CutoffScore:     cutoff,
				MonitoringScore: s.catalog.MonitoringScore(cutoff),
				MaxScore:        s.catalog.MaxScore,
			}); err != nil {
				return report, fmt.Errorf("failed to seed cutoff %d/%s: %w", iv.AgeMonths, d.Code, err)
			}
			report.Cutoffs++

			for n := 1; n <= s.catalog.QuestionsPerDomain; n++ {
				created, err := s.repo.EnsureQuestion(ctx, &domain.Asq3Question{
					AgeIntervalID:  ivID,
					DomainID:       domainIDs[i],
					QuestionNumber: n,
					QuestionText:   fmt.Sprintf("Pertanyaan %s nomor %d untuk usia %s", d.Name, n, iv.Label()),
					ScoreYes:       seedScoreYes,
					ScoreSometimes: seedScoreSometimes,
					ScoreNo:        seedScoreNo,
					DisplayOrder:   n,
				})
				if err != nil {
					return report, fmt.Errorf("failed to seed question %d/%s/%d: %w", iv.AgeMonths, d.Code, n, err)
				}
				if created {
					report.QuestionsCreated++
				}
			}
		}
	}

	s.logger.Info("Reference data seeded",
		zap.Int("domains", report.Domains),
		zap.Int("age_intervals", report.AgeIntervals),
		zap.Int("cutoffs", report.Cutoffs),
		zap.Int("questions_created", report.QuestionsCreated),
	)
	return report, nil
}
