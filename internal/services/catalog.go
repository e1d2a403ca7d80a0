package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/rao305/boilerai-transcript/internal/data/repos"
	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

// CatalogIndex provides in-memory lookup over the canonical course catalog.
// Iteration order is deterministic (subject, then number ascending) because
// it participates in the matcher's tie-break.
type CatalogIndex struct {
	log     *logger.Logger
	courses []*domain.CatalogCourse
	byCode  map[string]*domain.CatalogCourse
	order   map[string]int
}

// NewCatalogIndex loads every catalog row through the repo and builds the
// lookup tables, including alias codes.
func NewCatalogIndex(ctx context.Context, catalogRepo repos.CatalogRepo, baseLog *logger.Logger) (*CatalogIndex, error) {
	rows, err := catalogRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return BuildCatalogIndex(rows, baseLog), nil
}

// BuildCatalogIndex builds an index over an already-loaded catalog snapshot.
func BuildCatalogIndex(rows []*domain.CatalogCourse, baseLog *logger.Logger) *CatalogIndex {
	sorted := make([]*domain.CatalogCourse, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Subject != sorted[j].Subject {
			return sorted[i].Subject < sorted[j].Subject
		}
		return sorted[i].Number < sorted[j].Number
	})

	idx := &CatalogIndex{
		log:     baseLog.With("service", "CatalogIndex"),
		courses: sorted,
		byCode:  make(map[string]*domain.CatalogCourse, len(sorted)),
		order:   make(map[string]int, len(sorted)),
	}
	for i, c := range sorted {
		idx.byCode[c.Code()] = c
		idx.order[c.Code()] = i
		for _, alias := range decodeAliases(c.Aliases) {
			canon := canonicalCode(alias)
			if canon == "" {
				continue
			}
			if _, exists := idx.byCode[canon]; !exists {
				idx.byCode[canon] = c
			}
		}
	}
	return idx
}

// LookupExact resolves a canonical (subject, number) pair, alias-aware.
func (idx *CatalogIndex) LookupExact(subject, number string) (*domain.CatalogCourse, bool) {
	c, ok := idx.byCode[subject+" "+number]
	return c, ok
}

// CandidatesFor returns catalog courses whose subject matches, or whose
// number falls within ±window of the given number, in catalog order.
func (idx *CatalogIndex) CandidatesFor(subject, number string, window int) []*domain.CatalogCourse {
	n, numErr := strconv.Atoi(number)
	var out []*domain.CatalogCourse
	for _, c := range idx.courses {
		if c.Subject == subject {
			out = append(out, c)
			continue
		}
		if numErr == nil {
			if cn, err := strconv.Atoi(c.Number); err == nil && abs(cn-n) <= window {
				out = append(out, c)
			}
		}
	}
	return out
}

// OrderOf returns the catalog iteration index for tie-breaking.
func (idx *CatalogIndex) OrderOf(code string) int {
	if i, ok := idx.order[code]; ok {
		return i
	}
	return len(idx.courses)
}

// Size returns the number of canonical courses indexed.
func (idx *CatalogIndex) Size() int { return len(idx.courses) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func decodeAliases(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var aliases []string
	if err := json.Unmarshal(raw, &aliases); err != nil {
		return nil
	}
	return aliases
}

var codePattern = regexp.MustCompile(`^([A-Za-z]{2,6})\s*-?\s*([0-9]{3,5})[A-Za-z]?$`)

// canonicalCode normalizes a free-form course code ("cs-18000", "CS 18000")
// to "CS 18000", or returns "" when no code is parseable.
func canonicalCode(raw string) string {
	m := codePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1]) + " " + m[2]
}

// splitCode canonicalizes and splits a raw course code into subject and number.
func splitCode(raw string) (subject, number string, ok bool) {
	canon := canonicalCode(raw)
	if canon == "" {
		return "", "", false
	}
	parts := strings.SplitN(canon, " ", 2)
	return parts[0], parts[1], true
}

// catalogSeedFile is the YAML shape of the catalog snapshot on disk.
type catalogSeedFile struct {
	Courses []struct {
		Subject string   `yaml:"subject"`
		Number  string   `yaml:"number"`
		Title   string   `yaml:"title"`
		Credits float64  `yaml:"credits"`
		Aliases []string `yaml:"aliases"`
	} `yaml:"courses"`
}

// SeedCatalog loads the catalog snapshot from a YAML file into the store if
// the catalog table is empty. Returns the number of rows inserted.
func SeedCatalog(ctx context.Context, catalogRepo repos.CatalogRepo, path string, baseLog *logger.Logger) (int, error) {
	log := baseLog.With("service", "CatalogSeed")

	n, err := catalogRepo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog seed %q: %w", path, err)
	}
	var seed catalogSeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("parse catalog seed %q: %w", path, err)
	}

	courses := make([]*domain.CatalogCourse, 0, len(seed.Courses))
	for _, c := range seed.Courses {
		aliases, err := json.Marshal(c.Aliases)
		if err != nil {
			aliases = []byte("[]")
		}
		courses = append(courses, &domain.CatalogCourse{
			ID:      uuid.New(),
			Subject: strings.ToUpper(strings.TrimSpace(c.Subject)),
			Number:  strings.TrimSpace(c.Number),
			Title:   c.Title,
			Credits: c.Credits,
			Aliases: datatypes.JSON(aliases),
		})
	}
	if err := catalogRepo.CreateBatch(ctx, nil, courses); err != nil {
		return 0, fmt.Errorf("insert catalog seed: %w", err)
	}
	log.Info("catalog seeded", "courses", len(courses))
	return len(courses), nil
}
