package app

import (
	"gorm.io/gorm"

	"github.com/rao305/boilerai-transcript/internal/data/repos"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

type Repos struct {
	Transcript  repos.TranscriptRepo
	CourseEntry repos.CourseEntryRepo
	Catalog     repos.CatalogRepo
	Planner     repos.PlannerRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Transcript:  repos.NewTranscriptRepo(db, log),
		CourseEntry: repos.NewCourseEntryRepo(db, log),
		Catalog:     repos.NewCatalogRepo(db, log),
		Planner:     repos.NewPlannerRepo(db, log),
	}
}
