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

type CourseEntryRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, entries []*domain.CourseEntry) ([]*domain.CourseEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (*domain.CourseEntry, error)
	GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*domain.CourseEntry, error)
	Save(ctx context.Context, tx *gorm.DB, entry *domain.CourseEntry) error
	SetSelectionAll(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, selected bool) error
}

type courseEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseEntryRepo(db *gorm.DB, baseLog *logger.Logger) CourseEntryRepo {
	return &courseEntryRepo{db: db, log: baseLog.With("repo", "CourseEntryRepo")}
}

func (r *courseEntryRepo) CreateBatch(ctx context.Context, tx *gorm.DB, entries []*domain.CourseEntry) ([]*domain.CourseEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(entries) == 0 {
		return []*domain.CourseEntry{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *courseEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (*domain.CourseEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var entry domain.CourseEntry
	err := transaction.WithContext(ctx).First(&entry, "id = ?", entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *courseEntryRepo) GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*domain.CourseEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.CourseEntry
	if err := transaction.WithContext(ctx).
		Where("transcript_record_id = ?", recordID).
		Order("year ASC, row_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseEntryRepo) Save(ctx context.Context, tx *gorm.DB, entry *domain.CourseEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(entry).Error
}

func (r *courseEntryRepo) SetSelectionAll(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, selected bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.CourseEntry{}).
		Where("transcript_record_id = ?", recordID).
		Update("selected", selected).Error
}
