package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rao305/boilerai-transcript/internal/domain"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

type TranscriptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *domain.TranscriptRecord) (*domain.TranscriptRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*domain.TranscriptRecord, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID string) (*domain.TranscriptRecord, error)
	UpdateSummary(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, summary domain.GpaSummary) error
	DeleteByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error
	DeleteByStudentID(ctx context.Context, tx *gorm.DB, studentID string) error
}

type transcriptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranscriptRepo(db *gorm.DB, baseLog *logger.Logger) TranscriptRepo {
	return &transcriptRepo{db: db, log: baseLog.With("repo", "TranscriptRepo")}
}

func (r *transcriptRepo) Create(ctx context.Context, tx *gorm.DB, record *domain.TranscriptRecord) (*domain.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *transcriptRepo) GetByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*domain.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record domain.TranscriptRecord
	err := transaction.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("year ASC, row_index ASC")
		}).
		First(&record, "id = ?", recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *transcriptRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID string) (*domain.TranscriptRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var record domain.TranscriptRecord
	err := transaction.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("year ASC, row_index ASC")
		}).
		First(&record, "student_id = ?", studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *transcriptRepo) UpdateSummary(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, summary domain.GpaSummary) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.TranscriptRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"cumulative_gpa":          summary.CumulativeGPA,
			"major_gpa":               summary.MajorGPA,
			"total_credits_attempted": summary.TotalCreditsAttempted,
			"total_credits_earned":    summary.TotalCreditsEarned,
			"total_quality_points":    summary.TotalQualityPoints,
			"total_credits_for_gpa":   summary.TotalCreditsForGPA,
		}).Error
}

func (r *transcriptRepo) DeleteByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("transcript_record_id = ?", recordID).
		Delete(&domain.CourseEntry{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id = ?", recordID).
		Delete(&domain.TranscriptRecord{}).Error
}

func (r *transcriptRepo) DeleteByStudentID(ctx context.Context, tx *gorm.DB, studentID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&domain.TranscriptRecord{}).
		Where("student_id = ?", studentID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Where("transcript_record_id IN ?", ids).
		Delete(&domain.CourseEntry{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.TranscriptRecord{}).Error
}
