package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Entry lifecycle status.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
)

// Machine-assigned match status.
const (
	MatchVerified     = "verified"
	MatchProbable     = "probable"
	MatchUnrecognized = "unrecognized"
)

// Requirement classifications.
const (
	ClassFoundation       = "foundation"
	ClassMathRequirement  = "math_requirement"
	ClassGeneralEducation = "general_education"
	ClassElective         = "elective"
	ClassUnclassified     = "unclassified"
)

// GradeInProgress is the sentinel grade for ungraded / in-progress entries.
const GradeInProgress = "IP"

// RawRow is the untyped bag of strings produced by the upstream extractor.
// Every field is validated at the normalizer boundary.
type RawRow struct {
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
	Grade       string `json:"grade"`
	Credits     string `json:"credits"`
	Semester    string `json:"semester"`
	Year        string `json:"year"`
	Status      string `json:"status"`
}

// CourseEntry is one academic record within a transcript.
type CourseEntry struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TranscriptRecordID uuid.UUID `gorm:"type:uuid;index" json:"transcript_record_id"`
	RowIndex           int       `json:"row_index"`

	Subject string  `json:"subject"`
	Number  string  `json:"number"`
	Title   string  `json:"title"`
	Credits float64 `json:"credits"`
	Grade   string  `json:"grade"`

	GradePoints   float64 `json:"grade_points"`
	QualityPoints float64 `json:"quality_points"`

	Semester string `json:"semester"`
	Year     int    `json:"year"`
	Status   string `json:"status"`

	MatchStatus     string  `json:"match_status"`
	MatchConfidence float64 `json:"match_confidence"`
	CatalogMatch    string  `json:"catalog_match"`

	Verified        bool   `json:"verified"`
	Classification  string `json:"classification"`
	RepeatIndicator string `json:"repeat_indicator"`
	Selected        bool   `json:"selected"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Code returns the canonical "SUBJ NUMBER" identifier.
func (e *CourseEntry) Code() string {
	return e.Subject + " " + e.Number
}

// GpaSummary is derived from a record's entries and never independently stored.
type GpaSummary struct {
	CumulativeGPA         float64 `json:"cumulative_gpa"`
	MajorGPA              float64 `json:"major_gpa"`
	TotalCreditsAttempted float64 `json:"total_credits_attempted"`
	TotalCreditsEarned    float64 `json:"total_credits_earned"`
	TotalQualityPoints    float64 `json:"total_quality_points"`
	TotalCreditsForGPA    float64 `json:"total_credits_for_gpa"`
}

// TranscriptRecord owns an ordered collection of course entries for one
// student. It is replaced wholesale on re-upload.
type TranscriptRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   string         `gorm:"index" json:"student_id"`
	StudentName string         `json:"student_name"`
	Program     string         `json:"program"`
	UploadHash  string         `json:"upload_hash"`
	RawPayload  datatypes.JSON `json:"-"`

	Entries []*CourseEntry `gorm:"foreignKey:TranscriptRecordID" json:"entries"`

	Summary GpaSummary `gorm:"embedded" json:"summary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompletedEntries returns entries with completed status, preserving order.
func (r *TranscriptRecord) CompletedEntries() []*CourseEntry {
	out := make([]*CourseEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Status == StatusCompleted {
			out = append(out, e)
		}
	}
	return out
}

// InProgressEntries returns entries scheduled or currently being taken.
func (r *TranscriptRecord) InProgressEntries() []*CourseEntry {
	out := make([]*CourseEntry, 0)
	for _, e := range r.Entries {
		if e.Status == StatusInProgress {
			out = append(out, e)
		}
	}
	return out
}

// CatalogCourse is a canonical catalog row. Read-only to this subsystem.
type CatalogCourse struct {
	ID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Subject string         `gorm:"uniqueIndex:idx_catalog_code" json:"subject"`
	Number  string         `gorm:"uniqueIndex:idx_catalog_code" json:"number"`
	Title   string         `json:"title"`
	Credits float64        `json:"credits"`
	Aliases datatypes.JSON `json:"aliases"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Code returns the canonical "SUBJ NUMBER" identifier.
func (c *CatalogCourse) Code() string {
	return c.Subject + " " + c.Number
}

// PlannerCourse is a course slotted into the external planning collection.
type PlannerCourse struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID     string    `gorm:"uniqueIndex:idx_planner_slot" json:"student_id"`
	Subject       string    `gorm:"uniqueIndex:idx_planner_slot" json:"subject"`
	Number        string    `gorm:"uniqueIndex:idx_planner_slot" json:"number"`
	Semester      string    `gorm:"uniqueIndex:idx_planner_slot" json:"semester"`
	Year          int       `gorm:"uniqueIndex:idx_planner_slot" json:"year"`
	Title         string    `json:"title"`
	Credits       float64   `json:"credits"`
	SourceEntryID uuid.UUID `gorm:"type:uuid" json:"source_entry_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
