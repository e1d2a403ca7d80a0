package services

import (
	"testing"

	"github.com/rao305/boilerai-transcript/internal/data/repos/testutil"
	"github.com/rao305/boilerai-transcript/internal/domain"
)

func testGPAEngine(t *testing.T) *GPAEngine {
	t.Helper()
	return NewGPAEngine(GPAEngineConfig{}, testutil.Logger(t))
}

func completed(subject, number string, credits float64, grade, classification string) *domain.CourseEntry {
	return &domain.CourseEntry{
		Subject:        subject,
		Number:         number,
		Credits:        credits,
		Grade:          grade,
		Status:         domain.StatusCompleted,
		Classification: classification,
	}
}

func TestStamp_DerivesQualityPoints(t *testing.T) {
	g := testGPAEngine(t)

	entries := []*domain.CourseEntry{
		completed("CS", "18000", 4, "A", domain.ClassFoundation),
		completed("ENGL", "10600", 4, "W", domain.ClassGeneralEducation),
		{Subject: "CS", Number: "25100", Credits: 3, Grade: "A", Status: domain.StatusInProgress},
		completed("CS", "99999", 3, "Z", domain.ClassElective), // unknown grade
	}
	g.Stamp(entries)

	if entries[0].GradePoints != 4.0 || entries[0].QualityPoints != 16.0 {
		t.Fatalf("A entry: got points=%v quality=%v", entries[0].GradePoints, entries[0].QualityPoints)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].GradePoints != 0 || entries[i].QualityPoints != 0 {
			t.Fatalf("entry %d should carry zero points, got points=%v quality=%v",
				i, entries[i].GradePoints, entries[i].QualityPoints)
		}
	}
}

func TestCompute_Summary(t *testing.T) {
	g := testGPAEngine(t)

	entries := []*domain.CourseEntry{
		completed("CS", "18000", 4, "A", domain.ClassFoundation),          // 16 qp
		completed("MA", "16500", 4, "B", domain.ClassMathRequirement),     // 12 qp
		completed("ENGL", "10600", 4, "C", domain.ClassGeneralEducation),  // 8 qp
		completed("COM", "11400", 3, "P", domain.ClassGeneralEducation),   // earns, no GPA
		{Subject: "CS", Number: "25100", Credits: 3, Grade: domain.GradeInProgress, Status: domain.StatusInProgress},
	}
	s := g.Compute(entries)

	if s.TotalCreditsAttempted != 18 {
		t.Fatalf("attempted = %v, want 18", s.TotalCreditsAttempted)
	}
	if s.TotalCreditsEarned != 15 {
		t.Fatalf("earned = %v, want 15", s.TotalCreditsEarned)
	}
	if s.TotalQualityPoints != 36 || s.TotalCreditsForGPA != 12 {
		t.Fatalf("quality=%v forGPA=%v, want 36/12", s.TotalQualityPoints, s.TotalCreditsForGPA)
	}
	if s.CumulativeGPA != 3.0 {
		t.Fatalf("cumulative GPA = %v, want 3.0", s.CumulativeGPA)
	}
	// Major GPA covers only foundation and math_requirement: 28 qp over 8 cr.
	if s.MajorGPA != 3.5 {
		t.Fatalf("major GPA = %v, want 3.5", s.MajorGPA)
	}
}

func TestCompute_RoundsToTwoDecimals(t *testing.T) {
	g := testGPAEngine(t)

	entries := []*domain.CourseEntry{
		completed("CS", "18000", 4, "A", domain.ClassFoundation),  // 16
		completed("CS", "18200", 3, "B-", domain.ClassFoundation), // 8.1
	}
	s := g.Compute(entries)

	// 24.1 / 7 = 3.4428...
	if s.CumulativeGPA != 3.44 {
		t.Fatalf("cumulative GPA = %v, want 3.44", s.CumulativeGPA)
	}
}

func TestCompute_ZeroDenominator(t *testing.T) {
	g := testGPAEngine(t)

	entries := []*domain.CourseEntry{
		completed("ENGL", "10600", 4, "W", domain.ClassGeneralEducation),
		{Subject: "CS", Number: "25100", Credits: 3, Grade: domain.GradeInProgress, Status: domain.StatusInProgress},
	}
	s := g.Compute(entries)

	if s.CumulativeGPA != 0 || s.MajorGPA != 0 {
		t.Fatalf("expected 0.00 GPAs for empty denominator, got %v / %v", s.CumulativeGPA, s.MajorGPA)
	}
	if s.TotalCreditsAttempted != 7 {
		t.Fatalf("attempted = %v, want 7", s.TotalCreditsAttempted)
	}
	if s.TotalCreditsEarned != 0 {
		t.Fatalf("earned = %v, want 0", s.TotalCreditsEarned)
	}
}

func TestCompute_FailingGradeCountsInDenominator(t *testing.T) {
	g := testGPAEngine(t)

	entries := []*domain.CourseEntry{
		completed("CS", "18000", 4, "A", domain.ClassFoundation), // 16
		completed("CS", "18200", 4, "F", domain.ClassFoundation), // 0 over 4 cr
	}
	s := g.Compute(entries)

	if s.TotalCreditsForGPA != 8 {
		t.Fatalf("forGPA = %v, want 8 (F stays in the denominator)", s.TotalCreditsForGPA)
	}
	if s.CumulativeGPA != 2.0 {
		t.Fatalf("cumulative GPA = %v, want 2.0", s.CumulativeGPA)
	}
	if s.TotalCreditsEarned != 4 {
		t.Fatalf("earned = %v, want 4 (F earns nothing)", s.TotalCreditsEarned)
	}
}
