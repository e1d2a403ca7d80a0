package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	openaiclient "github.com/rao305/boilerai-transcript/internal/clients/openai"
	redisclient "github.com/rao305/boilerai-transcript/internal/clients/redis"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
	"github.com/rao305/boilerai-transcript/internal/services"
)

type Services struct {
	Catalog    *services.CatalogIndex
	Transcript services.TranscriptService
	Transfer   services.TransferService
	Export     services.ExportService
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	if _, err := services.SeedCatalog(ctx, reposet.Catalog, cfg.CatalogSeedPath, log); err != nil {
		log.Warn("catalog seed skipped", "error", err)
	}

	index, err := services.NewCatalogIndex(ctx, reposet.Catalog, log)
	if err != nil {
		return Services{}, fmt.Errorf("build catalog index: %w", err)
	}
	log.Info("catalog index built", "courses", index.Size())

	rules, err := services.LoadRequirementRules(cfg.RequirementRulesPath)
	if err != nil {
		return Services{}, fmt.Errorf("load requirement rules: %w", err)
	}

	extractor, err := openaiclient.NewExtractor(openaiclient.ExtractorConfig{
		Timeout:    cfg.ExtractionTimeout,
		MaxRetries: cfg.ExtractionMaxRetries,
		Backoff:    cfg.ExtractionBackoff,
	}, log)
	if err != nil {
		return Services{}, fmt.Errorf("init extractor client: %w", err)
	}

	// The cache is optional: without redis the pipeline just pays the
	// extraction call on every upload.
	var cache services.ExtractionCache
	if rc, err := redisclient.NewExtractionCache(cfg.ExtractionCacheTTL, log); err != nil {
		log.Warn("extraction cache disabled", "error", err)
	} else {
		cache = rc
	}

	normalizer := services.NewNormalizer(log)
	matcher := services.NewMatcher(index, services.MatcherConfig{
		ProbableThreshold: cfg.MatchProbableThreshold,
		NumberWindow:      cfg.MatchNumberWindow,
		FuzzyWorkers:      cfg.MatchFuzzyWorkers,
	}, log)
	classifier := services.NewClassifier(rules, log)
	gpa := services.NewGPAEngine(services.GPAEngineConfig{
		MajorClassifications: cfg.MajorClassifications,
	}, log)

	transcript := services.NewTranscriptService(
		db, log,
		reposet.Transcript, reposet.CourseEntry,
		extractor, cache,
		normalizer, matcher, classifier, gpa,
	)
	transfer := services.NewTransferService(db, log, reposet.Transcript, reposet.Planner)
	export := services.NewExportService(reposet.Transcript, log)

	return Services{
		Catalog:    index,
		Transcript: transcript,
		Transfer:   transfer,
		Export:     export,
	}, nil
}
