package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

type PlannerRepo interface {
	Has(ctx context.Context, tx *gorm.DB, studentID, subject, number, semester string, year int) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, course *domain.PlannerCourse) error
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID string) ([]*domain.PlannerCourse, error)
}

type plannerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlannerRepo(db *gorm.DB, baseLog *logger.Logger) PlannerRepo {
	return &plannerRepo{db: db, log: baseLog.With("repo", "PlannerRepo")}
}

func (r *plannerRepo) Has(ctx context.Context, tx *gorm.DB, studentID, subject, number, semester string, year int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	err := transaction.WithContext(ctx).
		Model(&domain.PlannerCourse{}).
		Where("student_id = ? AND subject = ? AND number = ? AND semester = ? AND year = ?",
			studentID, subject, number, semester, year).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *plannerRepo) Create(ctx context.Context, tx *gorm.DB, course *domain.PlannerCourse) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(course).Error
}

func (r *plannerRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID string) ([]*domain.PlannerCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.PlannerCourse
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("year ASC, semester ASC, subject ASC, number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
