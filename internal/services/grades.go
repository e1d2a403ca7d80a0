package services

import "strings"

// GradeValue is one row of the institution's grading scale.
type GradeValue struct {
	Points   float64
	Eligible bool // counts toward the GPA denominator
	Earns    bool // earns credit hours when completed
}

// gradeTable maps letter grades to grade points and GPA eligibility.
// W, I, P, S, U and the in-progress sentinel carry no quality points and are
// excluded from the GPA denominator, but still count as attempted credits.
var gradeTable = map[string]GradeValue{
	"A+": {Points: 4.0, Eligible: true, Earns: true},
	"A":  {Points: 4.0, Eligible: true, Earns: true},
	"A-": {Points: 3.7, Eligible: true, Earns: true},
	"B+": {Points: 3.3, Eligible: true, Earns: true},
	"B":  {Points: 3.0, Eligible: true, Earns: true},
	"B-": {Points: 2.7, Eligible: true, Earns: true},
	"C+": {Points: 2.3, Eligible: true, Earns: true},
	"C":  {Points: 2.0, Eligible: true, Earns: true},
	"C-": {Points: 1.7, Eligible: true, Earns: true},
	"D+": {Points: 1.3, Eligible: true, Earns: true},
	"D":  {Points: 1.0, Eligible: true, Earns: true},
	"D-": {Points: 0.7, Eligible: true, Earns: true},
	"E":  {Points: 0.0, Eligible: true, Earns: false},
	"F":  {Points: 0.0, Eligible: true, Earns: false},

	"P":  {Points: 0.0, Eligible: false, Earns: true},
	"S":  {Points: 0.0, Eligible: false, Earns: true},
	"U":  {Points: 0.0, Eligible: false, Earns: false},
	"W":  {Points: 0.0, Eligible: false, Earns: false},
	"I":  {Points: 0.0, Eligible: false, Earns: false},
	"IP": {Points: 0.0, Eligible: false, Earns: false},
}

// LookupGrade resolves a letter grade against the grading scale.
func LookupGrade(grade string) (GradeValue, bool) {
	v, ok := gradeTable[strings.ToUpper(strings.TrimSpace(grade))]
	return v, ok
}

// KnownGrade reports whether the grade exists on the grading scale.
func KnownGrade(grade string) bool {
	_, ok := LookupGrade(grade)
	return ok
}
