package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

// RequirementRules is the static subject/number to requirement-category rule
// table derived from the degree requirement definitions. Precedence: explicit
// course rule > subject-wide rule > unclassified.
type RequirementRules struct {
	courseRules  map[string]string
	subjectRules map[string]string
}

type requirementRulesFile struct {
	Rules []struct {
		Subject        string `yaml:"subject"`
		Number         string `yaml:"number"`
		Classification string `yaml:"classification"`
	} `yaml:"rules"`
}

var validClassifications = map[string]bool{
	domain.ClassFoundation:       true,
	domain.ClassMathRequirement:  true,
	domain.ClassGeneralEducation: true,
	domain.ClassElective:         true,
	domain.ClassUnclassified:     true,
}

// LoadRequirementRules reads the rule table from a YAML file. A rule with a
// number is an explicit course rule; without one it applies subject-wide.
func LoadRequirementRules(path string) (*RequirementRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requirement rules %q: %w", path, err)
	}
	var file requirementRulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse requirement rules %q: %w", path, err)
	}

	rules := &RequirementRules{
		courseRules:  make(map[string]string),
		subjectRules: make(map[string]string),
	}
	for i, r := range file.Rules {
		class := strings.TrimSpace(r.Classification)
		if !validClassifications[class] {
			return nil, fmt.Errorf("requirement rules %q: rule %d has unknown classification %q", path, i, r.Classification)
		}
		subject := strings.ToUpper(strings.TrimSpace(r.Subject))
		number := strings.TrimSpace(r.Number)
		if number != "" {
			rules.courseRules[subject+" "+number] = class
		} else {
			rules.subjectRules[subject] = class
		}
	}
	return rules, nil
}

// Classify resolves the requirement category for a course code. It cannot
// fail: anything unmatched falls through to unclassified.
func (r *RequirementRules) Classify(subject, number string) string {
	if class, ok := r.courseRules[subject+" "+number]; ok {
		return class
	}
	if class, ok := r.subjectRules[subject]; ok {
		return class
	}
	return domain.ClassUnclassified
}

// Classifier assigns requirement categories to matched entries.
type Classifier struct {
	log   *logger.Logger
	rules *RequirementRules
}

func NewClassifier(rules *RequirementRules, baseLog *logger.Logger) *Classifier {
	return &Classifier{
		log:   baseLog.With("service", "Classifier"),
		rules: rules,
	}
}

// ClassifyAll stamps classification on every entry in place. The rule lookup
// keys off the resolved catalog match when one exists, otherwise the entry's
// own canonical code.
func (c *Classifier) ClassifyAll(entries []*domain.CourseEntry) {
	for _, e := range entries {
		subject, number := e.Subject, e.Number
		if e.CatalogMatch != "" {
			if s, n, ok := splitCode(e.CatalogMatch); ok {
				subject, number = s, n
			}
		}
		e.Classification = c.rules.Classify(subject, number)
	}
}
