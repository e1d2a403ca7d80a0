package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rao305/boilerai-transcript/internal/domain"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

var (
	seasonHeaderPattern = regexp.MustCompile(`(?i)^(spring|summer|fall|winter)\s+\d{4}$`)
	progressLabel       = regexp.MustCompile(`(?i)^(courses?\s+)?(in\s+progress|progression):?$`)
	repeatSuffix        = regexp.MustCompile(`\s(I[BWER])$`)
)

// Normalizer converts raw extractor rows into course-entry drafts. It is a
// pure function of its input: entry IDs are left unset so repeated runs over
// the same rows yield identical drafts.
type Normalizer struct {
	log *logger.Logger
}

func NewNormalizer(baseLog *logger.Logger) *Normalizer {
	return &Normalizer{log: baseLog.With("service", "Normalizer")}
}

// Normalize validates and canonicalizes every raw row, dropping rows that are
// not real courses: missing course codes, semester headers ("Fall 2025"), and
// standalone in-progress labels. Zero surviving rows is ErrEmptyTranscript.
func (n *Normalizer) Normalize(rows []domain.RawRow) ([]*domain.CourseEntry, error) {
	drafts := make([]*domain.CourseEntry, 0, len(rows))
	seen := make(map[string]int)

	for i, row := range rows {
		code := strings.TrimSpace(row.CourseCode)
		title := strings.TrimSpace(row.CourseTitle)

		if seasonHeaderPattern.MatchString(code) || seasonHeaderPattern.MatchString(title) {
			continue
		}
		if progressLabel.MatchString(code) || progressLabel.MatchString(title) {
			continue
		}

		subject, number, ok := splitCode(code)
		if !ok {
			continue
		}

		credits, err := parseCredits(row.Credits)
		if err != nil {
			continue
		}

		entry := &domain.CourseEntry{
			RowIndex: i,
			Subject:  subject,
			Number:   number,
			Title:    title,
			Credits:  credits,
			Semester: canonicalSemester(row.Semester),
			Year:     parseYear(row.Year),
		}

		entry.Grade, entry.Status = normalizeGrade(row.Grade, row.Status)
		if m := repeatSuffix.FindStringSubmatch(title); m != nil {
			entry.RepeatIndicator = m[1]
		}

		key := entry.Code()
		if prior, dup := seen[key]; dup {
			if entry.RepeatIndicator == "" {
				entry.RepeatIndicator = "R"
			}
			if drafts[prior].RepeatIndicator == "" {
				drafts[prior].RepeatIndicator = "R"
			}
		} else {
			seen[key] = len(drafts)
		}

		drafts = append(drafts, entry)
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: %d raw rows, none parseable as courses", apperrors.ErrEmptyTranscript, len(rows))
	}
	return drafts, nil
}

func parseCredits(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	credits, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("credits %q not numeric", raw)
	}
	if credits < 0 {
		return 0, fmt.Errorf("credits %q negative", raw)
	}
	return credits, nil
}

func parseYear(raw string) int {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || y < 1900 || y > 2200 {
		return 0
	}
	return y
}

func canonicalSemester(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "spring", "summer", "fall", "winter":
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return strings.TrimSpace(raw)
}

// normalizeGrade maps the extracted grade/status pair onto the entry
// lifecycle: anything ungraded or explicitly in progress gets the sentinel
// grade and in_progress status.
func normalizeGrade(rawGrade, rawStatus string) (grade, status string) {
	g := strings.ToUpper(strings.TrimSpace(rawGrade))
	st := strings.ToLower(strings.TrimSpace(rawStatus))

	if g == "" || g == domain.GradeInProgress || strings.Contains(st, "progress") {
		return domain.GradeInProgress, domain.StatusInProgress
	}
	return g, domain.StatusCompleted
}
