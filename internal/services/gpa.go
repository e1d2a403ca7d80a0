package services

import (
	"math"

	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

// GPAEngineConfig holds the configurable GPA boundaries.
type GPAEngineConfig struct {
	// MajorClassifications is the set of requirement categories that count
	// toward the major GPA.
	MajorClassifications []string
}

// GPAEngine aggregates course entries into a GpaSummary. It always recomputes
// from scratch so the summary stays consistent after any edit.
type GPAEngine struct {
	log   *logger.Logger
	major map[string]bool
}

func NewGPAEngine(cfg GPAEngineConfig, baseLog *logger.Logger) *GPAEngine {
	major := make(map[string]bool)
	if len(cfg.MajorClassifications) == 0 {
		cfg.MajorClassifications = []string{domain.ClassFoundation, domain.ClassMathRequirement}
	}
	for _, c := range cfg.MajorClassifications {
		major[c] = true
	}
	return &GPAEngine{
		log:   baseLog.With("service", "GPAEngine"),
		major: major,
	}
}

// Stamp recomputes grade points and quality points on each entry from its
// (credits, grade) pair. Quality points are never independently mutated.
func (g *GPAEngine) Stamp(entries []*domain.CourseEntry) {
	for _, e := range entries {
		value, known := LookupGrade(e.Grade)
		if !known || !value.Eligible || e.Status != domain.StatusCompleted {
			e.GradePoints = 0
			e.QualityPoints = 0
			continue
		}
		e.GradePoints = value.Points
		e.QualityPoints = e.Credits * value.Points
	}
}

// Compute builds a fresh summary over all entries of a record. Non-eligible
// grades (W, I, P, S, U, in-progress) count toward attempted credits but are
// excluded from the GPA denominator; P and S still earn credit.
func (g *GPAEngine) Compute(entries []*domain.CourseEntry) domain.GpaSummary {
	var s domain.GpaSummary
	var majorQuality, majorCredits float64

	for _, e := range entries {
		s.TotalCreditsAttempted += e.Credits

		if e.Status != domain.StatusCompleted {
			continue
		}
		value, known := LookupGrade(e.Grade)
		if !known {
			continue
		}
		if value.Earns {
			s.TotalCreditsEarned += e.Credits
		}
		if !value.Eligible {
			continue
		}

		quality := e.Credits * value.Points
		s.TotalQualityPoints += quality
		s.TotalCreditsForGPA += e.Credits

		if g.major[e.Classification] {
			majorQuality += quality
			majorCredits += e.Credits
		}
	}

	s.CumulativeGPA = safeGPA(s.TotalQualityPoints, s.TotalCreditsForGPA)
	s.MajorGPA = safeGPA(majorQuality, majorCredits)
	return s
}

// safeGPA reports 0.00 for a zero denominator rather than a division error.
func safeGPA(quality, credits float64) float64 {
	if credits == 0 {
		return 0
	}
	return math.Round(quality/credits*100) / 100
}
