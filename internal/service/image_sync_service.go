package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/asq3"
	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

// Per-file sync outcomes.
const (
	SyncSynced          = "synced"
	SyncAlreadyHadImage = "already_had_image"
	SyncNotFound        = "not_found"
	SyncError           = "error"
)

// SyncResult is the outcome for one file.
type SyncResult struct {
	File    string
	Outcome string
	Detail  string
}

// SyncReport summarises a sync run.
type SyncReport struct {
	Results         []SyncResult
	Synced          int
	AlreadyHadImage int
	NotFound        int
	Errors          int
}

func (r *SyncReport) add(res SyncResult) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case SyncSynced:
		r.Synced++
	case SyncAlreadyHadImage:
		r.AlreadyHadImage++
	case SyncNotFound:
		r.NotFound++
	default:
		r.Errors++
	}
}

// ImageSyncService links question images found on disk to their questions.
type ImageSyncService interface {
	Sync(ctx context.Context, dir string, dryRun bool) (*SyncReport, error)
}

type imageSyncService struct {
	reference repository.Asq3ReferenceRepository
	catalog   *reference.Catalog
	urlPrefix string
	logger    *zap.Logger
}

func NewImageSyncService(ref repository.Asq3ReferenceRepository, catalog *reference.Catalog, urlPrefix string, logger *zap.Logger) ImageSyncService {
	return &imageSyncService{
		reference: ref,
		catalog:   catalog,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		logger:    logger,
	}
}

// Sync scans dir for *.png files. With dryRun nothing is written and files
// that would be linked are still reported as synced.
func (s *imageSyncService) Sync(ctx context.Context, dir string, dryRun bool) (*SyncReport, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to open image directory: %w", err)
	}
	sort.Strings(files)

	report := &SyncReport{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := s.syncFile(ctx, f, dryRun)
		if err != nil {
			return report, err
		}
		report.add(res)
	}
	s.logger.Info("Question image sync finished",
		zap.String("dir", dir),
		zap.Bool("dry_run", dryRun),
		zap.Int("synced", report.Synced),
		zap.Int("already_had_image", report.AlreadyHadImage),
		zap.Int("not_found", report.NotFound),
		zap.Int("errors", report.Errors),
	)
	return report, nil
}

// syncFile returns an error only for repository failures; bad filenames are
// reported in the result.
func (s *imageSyncService) syncFile(ctx context.Context, path string, dryRun bool) (SyncResult, error) {
	name, err := asq3.ParseImageName(path, s.catalog)
	if err != nil {
		return SyncResult{File: filepath.Base(path), Outcome: SyncError, Detail: err.Error()}, nil
	}
	q, err := s.reference.FindQuestion(ctx, name.AgeMonths, name.DomainCode, name.QuestionNumber)
	if err != nil {
		return SyncResult{}, err
	}
	if q == nil {
		return SyncResult{
			File:    name.File,
			Outcome: SyncNotFound,
			Detail:  fmt.Sprintf("no question %d for %s at %d months", name.QuestionNumber, name.DomainCode, name.AgeMonths),
		}, nil
	}
	if q.ImageURL != nil && *q.ImageURL != "" {
		return SyncResult{File: name.File, Outcome: SyncAlreadyHadImage, Detail: *q.ImageURL}, nil
	}

	url := s.urlPrefix + "/" + name.File
	if !dryRun {
		if err := s.reference.SetQuestionImage(ctx, q.ID, url); err != nil {
			return SyncResult{}, err
		}
	}
	return SyncResult{File: name.File, Outcome: SyncSynced, Detail: url}, nil
}
