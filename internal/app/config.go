package app

import (
	"strings"
	"time"

	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
	"github.com/rao305/boilerai-transcript/internal/utils"
)

// Config is the explicit configuration object handed to the pipeline
// constructors. There are no process-global toggles.
type Config struct {
	ServiceName string
	Environment string
	ServerAddr  string

	AllowOrigins []string

	// Matching boundaries.
	MatchProbableThreshold float64
	MatchNumberWindow      int
	MatchFuzzyWorkers      int

	// Requirement categories that count toward the major GPA.
	MajorClassifications []string

	// Extraction boundary.
	ExtractionTimeout    time.Duration
	ExtractionMaxRetries int
	ExtractionBackoff    time.Duration
	ExtractionCacheTTL   time.Duration

	// Seed files.
	CatalogSeedPath      string
	RequirementRulesPath string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		ServiceName: utils.GetEnv("SERVICE_NAME", "boilerai-transcript", log),
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		ServerAddr:  utils.GetEnv("SERVER_ADDR", ":8080", log),

		AllowOrigins: splitCSV(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)),

		MatchProbableThreshold: utils.GetEnvAsFloat("MATCH_PROBABLE_THRESHOLD", 0.85, log),
		MatchNumberWindow:      utils.GetEnvAsInt("MATCH_NUMBER_WINDOW", 100, log),
		MatchFuzzyWorkers:      utils.GetEnvAsInt("MATCH_FUZZY_WORKERS", 4, log),

		MajorClassifications: splitCSV(utils.GetEnv("MAJOR_CLASSIFICATIONS", "foundation,math_requirement", log)),

		ExtractionTimeout:    utils.GetEnvAsDuration("EXTRACTION_TIMEOUT", 45*time.Second, log),
		ExtractionMaxRetries: utils.GetEnvAsInt("EXTRACTION_MAX_RETRIES", 3, log),
		ExtractionBackoff:    utils.GetEnvAsDuration("EXTRACTION_BACKOFF", 2*time.Second, log),
		ExtractionCacheTTL:   utils.GetEnvAsDuration("EXTRACTION_CACHE_TTL", 24*time.Hour, log),

		CatalogSeedPath:      utils.GetEnv("CATALOG_SEED_PATH", "config/catalog.yaml", log),
		RequirementRulesPath: utils.GetEnv("REQUIREMENT_RULES_PATH", "config/requirement_rules.yaml", log),
	}
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
