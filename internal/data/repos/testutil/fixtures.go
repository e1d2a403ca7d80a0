package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rao305/boilerai-transcript/internal/domain"
)

func SeedTranscript(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID string) *domain.TranscriptRecord {
	tb.Helper()
	rec := &domain.TranscriptRecord{
		ID:          uuid.New(),
		StudentID:   studentID,
		StudentName: "Test Student",
		Program:     "Computer Science",
		UploadHash:  "hash",
		RawPayload:  datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed transcript: %v", err)
	}
	return rec
}

func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, recordID uuid.UUID, subject, number string, rowIndex int) *domain.CourseEntry {
	tb.Helper()
	e := &domain.CourseEntry{
		ID:                 uuid.New(),
		TranscriptRecordID: recordID,
		RowIndex:           rowIndex,
		Subject:            subject,
		Number:             number,
		Title:              subject + " " + number,
		Credits:            3,
		Grade:              "A",
		GradePoints:        4.0,
		QualityPoints:      12.0,
		Semester:           "Fall",
		Year:               2023,
		Status:             domain.StatusCompleted,
		MatchStatus:        domain.MatchVerified,
		MatchConfidence:    1.0,
		CatalogMatch:       subject + " " + number,
		Classification:     domain.ClassFoundation,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	return e
}

func SeedCatalogCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, subject, number, title string, credits float64) *domain.CatalogCourse {
	tb.Helper()
	c := &domain.CatalogCourse{
		ID:      uuid.New(),
		Subject: subject,
		Number:  number,
		Title:   title,
		Credits: credits,
		Aliases: datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed catalog course: %v", err)
	}
	return c
}
