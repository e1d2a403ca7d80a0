package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rao305/boilerai-transcript/internal/data/repos"
	"github.com/rao305/boilerai-transcript/internal/domain"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

// TransferResult reports what a transfer run did.
type TransferResult struct {
	Transferred int                     `json:"transferred"`
	Skipped     int                     `json:"skipped"`
	Courses     []*domain.PlannerCourse `json:"courses"`
}

// TransferService copies verified transcript entries into the planner
// collection, deduplicated against existing plan slots. It never overwrites a
// planner entry the user already has.
type TransferService interface {
	TransferSelected(ctx context.Context, recordID uuid.UUID) (*TransferResult, error)
	TransferAllVerified(ctx context.Context, recordID uuid.UUID) (*TransferResult, error)
	ListPlanner(ctx context.Context, studentID string) ([]*domain.PlannerCourse, error)
}

type transferService struct {
	db  *gorm.DB
	log *logger.Logger

	transcriptRepo repos.TranscriptRepo
	plannerRepo    repos.PlannerRepo
}

func NewTransferService(
	db *gorm.DB,
	baseLog *logger.Logger,
	transcriptRepo repos.TranscriptRepo,
	plannerRepo repos.PlannerRepo,
) TransferService {
	return &transferService{
		db:             db,
		log:            baseLog.With("service", "TransferService"),
		transcriptRepo: transcriptRepo,
		plannerRepo:    plannerRepo,
	}
}

func (s *transferService) TransferSelected(ctx context.Context, recordID uuid.UUID) (*TransferResult, error) {
	return s.transfer(ctx, recordID, func(e *domain.CourseEntry) bool { return e.Selected })
}

func (s *transferService) TransferAllVerified(ctx context.Context, recordID uuid.UUID) (*TransferResult, error) {
	return s.transfer(ctx, recordID, func(e *domain.CourseEntry) bool { return e.Verified })
}

func (s *transferService) ListPlanner(ctx context.Context, studentID string) ([]*domain.PlannerCourse, error) {
	return s.plannerRepo.GetByStudentID(ctx, nil, studentID)
}

func (s *transferService) transfer(ctx context.Context, recordID uuid.UUID, eligible func(*domain.CourseEntry) bool) (*TransferResult, error) {
	record, err := s.transcriptRepo.GetByID(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}

	var picked []*domain.CourseEntry
	for _, e := range record.Entries {
		if eligible(e) {
			picked = append(picked, e)
		}
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("%w: record %s", apperrors.ErrNoEligibleCourses, recordID)
	}

	result := &TransferResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range picked {
			exists, err := s.plannerRepo.Has(ctx, tx, record.StudentID, e.Subject, e.Number, e.Semester, e.Year)
			if err != nil {
				return fmt.Errorf("planner lookup for entry %s: %w", e.ID, err)
			}
			if exists {
				// Do not overwrite edits already in the planner.
				result.Skipped++
				continue
			}
			course := &domain.PlannerCourse{
				ID:            uuid.New(),
				StudentID:     record.StudentID,
				Subject:       e.Subject,
				Number:        e.Number,
				Semester:      e.Semester,
				Year:          e.Year,
				Title:         e.Title,
				Credits:       e.Credits,
				SourceEntryID: e.ID,
			}
			if err := s.plannerRepo.Create(ctx, tx, course); err != nil {
				return fmt.Errorf("insert planner course for entry %s: %w", e.ID, err)
			}
			result.Transferred++
			result.Courses = append(result.Courses, course)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("transfer complete",
		"record_id", recordID,
		"transferred", result.Transferred,
		"skipped", result.Skipped,
	)
	return result, nil
}
