package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rao305/boilerai-transcript/internal/data/repos/testutil"
	"github.com/rao305/boilerai-transcript/internal/domain"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
)

func TestNormalize_DropsNonCourseRows(t *testing.T) {
	n := NewNormalizer(testutil.Logger(t))

	rows := []domain.RawRow{
		{CourseCode: "Fall 2023", CourseTitle: "", Grade: "", Credits: ""},
		{CourseCode: "CS 18000", CourseTitle: "Problem Solving And Object-Oriented Programming", Grade: "A", Credits: "4", Semester: "fall", Year: "2023"},
		{CourseCode: "Courses in Progress:", CourseTitle: ""},
		{CourseCode: "", CourseTitle: "Fall 2025"},
		{CourseCode: "???", CourseTitle: "Garbage row", Grade: "A", Credits: "3"},
		{CourseCode: "MA 16500", CourseTitle: "Analytic Geometry And Calculus I", Grade: "B", Credits: "x"},
	}

	drafts, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	e := drafts[0]
	if e.Subject != "CS" || e.Number != "18000" {
		t.Fatalf("unexpected code: %s %s", e.Subject, e.Number)
	}
	if e.Credits != 4 || e.Grade != "A" || e.Status != domain.StatusCompleted {
		t.Fatalf("unexpected draft: %+v", e)
	}
	if e.Semester != "Fall" || e.Year != 2023 {
		t.Fatalf("unexpected term: %s %d", e.Semester, e.Year)
	}
	if e.RowIndex != 1 {
		t.Fatalf("expected source row index 1, got %d", e.RowIndex)
	}
}

func TestNormalize_CanonicalizesCodeVariants(t *testing.T) {
	n := NewNormalizer(testutil.Logger(t))

	rows := []domain.RawRow{
		{CourseCode: "cs-18000", CourseTitle: "Prob Solving", Grade: "B", Credits: "4"},
		{CourseCode: "MA16500", CourseTitle: "Calc I", Grade: "A", Credits: "4"},
	}
	drafts, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if drafts[0].Subject != "CS" || drafts[0].Number != "18000" {
		t.Fatalf("cs-18000 not canonicalized: %s %s", drafts[0].Subject, drafts[0].Number)
	}
	if drafts[1].Subject != "MA" || drafts[1].Number != "16500" {
		t.Fatalf("MA16500 not canonicalized: %s %s", drafts[1].Subject, drafts[1].Number)
	}
}

func TestNormalize_InProgressRows(t *testing.T) {
	n := NewNormalizer(testutil.Logger(t))

	tests := []struct {
		name string
		row  domain.RawRow
	}{
		{"empty grade", domain.RawRow{CourseCode: "CS 25100", CourseTitle: "Data Structures", Grade: "", Credits: "3"}},
		{"IP grade", domain.RawRow{CourseCode: "CS 25100", CourseTitle: "Data Structures", Grade: "IP", Credits: "3"}},
		{"status column", domain.RawRow{CourseCode: "CS 25100", CourseTitle: "Data Structures", Grade: "A", Credits: "3", Status: "In Progress"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := n.Normalize([]domain.RawRow{tt.row})
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if drafts[0].Grade != domain.GradeInProgress || drafts[0].Status != domain.StatusInProgress {
				t.Fatalf("expected in-progress entry, got grade=%q status=%q", drafts[0].Grade, drafts[0].Status)
			}
		})
	}
}

func TestNormalize_RepeatIndicators(t *testing.T) {
	n := NewNormalizer(testutil.Logger(t))

	rows := []domain.RawRow{
		{CourseCode: "CS 18000", CourseTitle: "Prob Solving IE", Grade: "F", Credits: "4"},
		{CourseCode: "MA 16500", CourseTitle: "Calc I", Grade: "D", Credits: "4"},
		{CourseCode: "MA 16500", CourseTitle: "Calc I", Grade: "B", Credits: "4"},
	}
	drafts, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if drafts[0].RepeatIndicator != "IE" {
		t.Fatalf("expected explicit IE indicator, got %q", drafts[0].RepeatIndicator)
	}
	if drafts[1].RepeatIndicator != "R" || drafts[2].RepeatIndicator != "R" {
		t.Fatalf("expected both MA 16500 occurrences marked R, got %q and %q",
			drafts[1].RepeatIndicator, drafts[2].RepeatIndicator)
	}
}

func TestNormalize_EmptyTranscript(t *testing.T) {
	n := NewNormalizer(testutil.Logger(t))

	_, err := n.Normalize([]domain.RawRow{
		{CourseCode: "Spring 2024"},
		{CourseTitle: "not a course"},
	})
	if !errors.Is(err, apperrors.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer(testutil.Logger(t))

	rows := []domain.RawRow{
		{CourseCode: "CS 18000", CourseTitle: "Prob Solving", Grade: "A", Credits: "4", Semester: "Fall", Year: "2023"},
		{CourseCode: "MA 16500", CourseTitle: "Calc I", Grade: "", Credits: "4", Semester: "Spring", Year: "2024"},
	}
	first, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("first Normalize: %v", err)
	}
	second, err := n.Normalize(rows)
	if err != nil {
		t.Fatalf("second Normalize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
