package services

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

// MatcherConfig carries the tunable matching boundaries. Thresholds are never
// hardcoded at call sites.
type MatcherConfig struct {
	// ProbableThreshold is the minimum fuzzy similarity for a probable match.
	ProbableThreshold float64
	// NumberWindow bounds how far a candidate's course number may sit from
	// the draft's during the fuzzy pass.
	NumberWindow int
	// FuzzyWorkers caps concurrent fuzzy matches in MatchAll.
	FuzzyWorkers int
}

// Matcher resolves normalized drafts against the catalog index. Matching is
// deterministic: the same catalog and draft always produce the same
// catalog_match and confidence. Unmatched input is a status, never an error.
type Matcher struct {
	log   *logger.Logger
	index *CatalogIndex
	cfg   MatcherConfig
}

func NewMatcher(index *CatalogIndex, cfg MatcherConfig, baseLog *logger.Logger) *Matcher {
	if cfg.ProbableThreshold <= 0 {
		cfg.ProbableThreshold = 0.85
	}
	if cfg.NumberWindow <= 0 {
		cfg.NumberWindow = 100
	}
	if cfg.FuzzyWorkers <= 0 {
		cfg.FuzzyWorkers = 4
	}
	return &Matcher{
		log:   baseLog.With("service", "Matcher"),
		index: index,
		cfg:   cfg,
	}
}

// Match populates match_status, match_confidence and catalog_match on the
// draft entry in place.
func (m *Matcher) Match(entry *domain.CourseEntry) {
	// Exact-code pass, alias-aware.
	if c, ok := m.index.LookupExact(entry.Subject, entry.Number); ok {
		entry.MatchStatus = domain.MatchVerified
		entry.MatchConfidence = 1.0
		entry.CatalogMatch = c.Code()
		return
	}

	best, score := m.bestFuzzy(entry)
	if best != nil && score >= m.cfg.ProbableThreshold {
		entry.MatchStatus = domain.MatchProbable
		entry.MatchConfidence = score
		entry.CatalogMatch = best.Code()
		return
	}

	entry.MatchStatus = domain.MatchUnrecognized
	entry.MatchConfidence = score
	entry.CatalogMatch = ""
}

// MatchAll matches a batch of drafts. Entries are independent during
// matching, so the fuzzy pass fans out across a bounded worker group.
func (m *Matcher) MatchAll(ctx context.Context, entries []*domain.CourseEntry) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.FuzzyWorkers)
	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			m.Match(entry)
			return nil
		})
	}
	return g.Wait()
}

// bestFuzzy scans candidates in catalog order and keeps the best-scoring one.
// Ties break toward (a) a matching credit-hour count, then (b) the lower
// catalog number, then (c) earlier catalog iteration order.
func (m *Matcher) bestFuzzy(entry *domain.CourseEntry) (*domain.CatalogCourse, float64) {
	candidates := m.index.CandidatesFor(entry.Subject, entry.Number, m.cfg.NumberWindow)
	if len(candidates) == 0 {
		return nil, 0
	}

	var (
		best      *domain.CatalogCourse
		bestScore float64
	)
	for _, c := range candidates {
		score := titleSimilarity(entry.Title, c.Title)
		if best == nil || score > bestScore {
			best, bestScore = c, score
			continue
		}
		if score == bestScore && preferCandidate(entry, c, best) {
			best = c
		}
	}
	return best, bestScore
}

func preferCandidate(entry *domain.CourseEntry, challenger, incumbent *domain.CatalogCourse) bool {
	chCredits := challenger.Credits == entry.Credits
	inCredits := incumbent.Credits == entry.Credits
	if chCredits != inCredits {
		return chCredits
	}
	chNum, chErr := strconv.Atoi(challenger.Number)
	inNum, inErr := strconv.Atoi(incumbent.Number)
	if chErr == nil && inErr == nil && chNum != inNum {
		return chNum < inNum
	}
	// Candidates arrive in catalog order, so the incumbent was seen first.
	return false
}

// titleSimilarity is a Dice coefficient over character bigrams of the
// normalized titles, scaled to [0,1]. Bigrams tolerate the heavy
// abbreviation in transcript titles better than whole-token overlap.
func titleSimilarity(a, b string) float64 {
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}
	overlap := 0
	for g, n := range ba {
		if m, ok := bb[g]; ok {
			if m < n {
				overlap += m
			} else {
				overlap += n
			}
		}
	}
	total := 0
	for _, n := range ba {
		total += n
	}
	for _, n := range bb {
		total += n
	}
	return 2 * float64(overlap) / float64(total)
}

func bigrams(s string) map[string]int {
	out := make(map[string]int)
	for _, token := range strings.Fields(normalizeTitle(s)) {
		for i := 0; i+2 <= len(token); i++ {
			out[token[i:i+2]]++
		}
	}
	return out
}

func normalizeTitle(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}
