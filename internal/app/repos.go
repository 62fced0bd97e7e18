package app

import (
	"gorm.io/gorm"

	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos"
)

type Repos struct {
	Intake      repos.IntakeRepo
	Summary     repos.SummaryRepo
	GoalLayer   repos.GoalLayerRepo
	UserProfile repos.UserProfileRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Intake:      repos.NewIntakeRepo(db, log),
		Summary:     repos.NewSummaryRepo(db, log),
		GoalLayer:   repos.NewGoalLayerRepo(db, log),
		UserProfile: repos.NewUserProfileRepo(db, log),
	}
}
