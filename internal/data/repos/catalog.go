package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

type CatalogRepo interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.CatalogCourse, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, courses []*domain.CatalogCourse) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.CatalogCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.CatalogCourse
	if err := transaction.WithContext(ctx).
		Order("subject ASC, number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) CreateBatch(ctx context.Context, tx *gorm.DB, courses []*domain.CatalogCourse) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courses) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&courses).Error
}

func (r *catalogRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&domain.CatalogCourse{}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
