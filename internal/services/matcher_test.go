package services

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/rao305/boilerai-transcript/internal/data/repos/testutil"
	"github.com/rao305/boilerai-transcript/internal/domain"
)

func testCatalog(t *testing.T) *CatalogIndex {
	t.Helper()
	rows := []*domain.CatalogCourse{
		{Subject: "CS", Number: "18000", Title: "Problem Solving And Object-Oriented Programming", Credits: 4, Aliases: datatypes.JSON([]byte(`["CS 180"]`))},
		{Subject: "CS", Number: "18200", Title: "Foundations Of Computer Science", Credits: 3},
		{Subject: "CS", Number: "25100", Title: "Data Structures And Algorithms", Credits: 3},
		{Subject: "MA", Number: "16500", Title: "Analytic Geometry And Calculus I", Credits: 4},
	}
	return BuildCatalogIndex(rows, testutil.Logger(t))
}

func testMatcher(t *testing.T) *Matcher {
	t.Helper()
	return NewMatcher(testCatalog(t), MatcherConfig{}, testutil.Logger(t))
}

func TestMatch_ExactCode(t *testing.T) {
	m := testMatcher(t)
	e := &domain.CourseEntry{Subject: "CS", Number: "18000", Title: "completely different title"}

	m.Match(e)

	if e.MatchStatus != domain.MatchVerified {
		t.Fatalf("expected verified, got %q", e.MatchStatus)
	}
	if e.MatchConfidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", e.MatchConfidence)
	}
	if e.CatalogMatch != "CS 18000" {
		t.Fatalf("unexpected catalog match %q", e.CatalogMatch)
	}
}

func TestMatch_AliasCode(t *testing.T) {
	m := testMatcher(t)
	e := &domain.CourseEntry{Subject: "CS", Number: "180", Title: "Prob Solving"}

	m.Match(e)

	if e.MatchStatus != domain.MatchVerified || e.CatalogMatch != "CS 18000" {
		t.Fatalf("expected alias to resolve to CS 18000, got status=%q match=%q", e.MatchStatus, e.CatalogMatch)
	}
}

func TestMatch_FuzzyProbable(t *testing.T) {
	m := testMatcher(t)
	e := &domain.CourseEntry{
		Subject: "CS",
		Number:  "18100", // not in catalog
		Title:   "Problem Solving And Object-Oriented Prog",
		Credits: 4,
	}

	m.Match(e)

	if e.MatchStatus != domain.MatchProbable {
		t.Fatalf("expected probable, got %q (confidence %v)", e.MatchStatus, e.MatchConfidence)
	}
	if e.CatalogMatch != "CS 18000" {
		t.Fatalf("expected CS 18000, got %q", e.CatalogMatch)
	}
	if e.MatchConfidence < 0.85 || e.MatchConfidence >= 1.0 {
		t.Fatalf("confidence %v outside probable range", e.MatchConfidence)
	}
}

func TestMatch_Unrecognized(t *testing.T) {
	m := testMatcher(t)
	e := &domain.CourseEntry{Subject: "BIOL", Number: "11000", Title: "Fundamentals Of Biology"}

	m.Match(e)

	if e.MatchStatus != domain.MatchUnrecognized {
		t.Fatalf("expected unrecognized, got %q", e.MatchStatus)
	}
	if e.CatalogMatch != "" {
		t.Fatalf("unrecognized entry must carry no catalog match, got %q", e.CatalogMatch)
	}
	if e.MatchConfidence >= 0.85 {
		t.Fatalf("confidence %v too high for unrecognized", e.MatchConfidence)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	m := testMatcher(t)
	for i := 0; i < 5; i++ {
		e := &domain.CourseEntry{Subject: "CS", Number: "18100", Title: "Problem Solving And Object-Oriented Prog", Credits: 4}
		m.Match(e)
		if e.CatalogMatch != "CS 18000" || e.MatchStatus != domain.MatchProbable {
			t.Fatalf("run %d diverged: match=%q status=%q", i, e.CatalogMatch, e.MatchStatus)
		}
	}
}

func TestBestFuzzy_TieBreaks(t *testing.T) {
	rows := []*domain.CatalogCourse{
		{Subject: "CS", Number: "99000", Title: "Alpha", Credits: 3},
		{Subject: "CS", Number: "99100", Title: "Beta", Credits: 4},
		{Subject: "CS", Number: "99200", Title: "Gamma", Credits: 4},
	}
	m := NewMatcher(BuildCatalogIndex(rows, testutil.Logger(t)), MatcherConfig{}, testutil.Logger(t))

	t.Run("credit hours win the tie", func(t *testing.T) {
		// "zzz" shares no bigrams with any title, so all candidates tie at 0.
		e := &domain.CourseEntry{Subject: "CS", Number: "88888", Title: "zzz", Credits: 4}
		best, score := m.bestFuzzy(e)
		if score != 0 {
			t.Fatalf("expected zero similarity, got %v", score)
		}
		if best == nil || best.Number != "99100" {
			t.Fatalf("expected credit match CS 99100 to win, got %+v", best)
		}
	})

	t.Run("lower number breaks a credit tie", func(t *testing.T) {
		e := &domain.CourseEntry{Subject: "CS", Number: "88888", Title: "zzz", Credits: 5}
		best, _ := m.bestFuzzy(e)
		if best == nil || best.Number != "99000" {
			t.Fatalf("expected lowest-numbered CS 99000, got %+v", best)
		}
	})
}

func TestMatchAll_MatchesEveryEntry(t *testing.T) {
	m := testMatcher(t)
	entries := []*domain.CourseEntry{
		{Subject: "CS", Number: "18000", Title: "Prob Solving"},
		{Subject: "MA", Number: "16500", Title: "Calc I"},
		{Subject: "BIOL", Number: "11000", Title: "Biology"},
	}

	if err := m.MatchAll(context.Background(), entries); err != nil {
		t.Fatalf("MatchAll: %v", err)
	}
	for i, e := range entries {
		if e.MatchStatus == "" {
			t.Fatalf("entry %d left unmatched", i)
		}
	}
	if entries[0].MatchStatus != domain.MatchVerified || entries[1].MatchStatus != domain.MatchVerified {
		t.Fatalf("expected exact matches verified: %q %q", entries[0].MatchStatus, entries[1].MatchStatus)
	}
	if entries[2].MatchStatus != domain.MatchUnrecognized {
		t.Fatalf("expected BIOL unrecognized, got %q", entries[2].MatchStatus)
	}
}

func TestTitleSimilarity_Bounds(t *testing.T) {
	if s := titleSimilarity("Data Structures", "Data Structures"); s != 1.0 {
		t.Fatalf("identical titles must score 1.0, got %v", s)
	}
	if s := titleSimilarity("Data Structures", ""); s != 0 {
		t.Fatalf("empty title must score 0, got %v", s)
	}
	if s := titleSimilarity("DATA  structures!", "data structures"); s != 1.0 {
		t.Fatalf("normalization should ignore case and punctuation, got %v", s)
	}
}
