package main

import (
	"github.com/teamkasa/teamkasa/internal/config"
	"github.com/teamkasa/teamkasa/internal/handlers"
	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/internal/services"
	"github.com/teamkasa/teamkasa/internal/utils"
	"github.com/teamkasa/teamkasa/pkg/logger"
)

// appServices holds the initialized handlers and background jobs.
type appServices struct {
	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	teamHandler       *handlers.TeamHandler
	invitationHandler *handlers.InvitationHandler
	fineHandler       *handlers.FineHandler
	statsHandler      *handlers.StatsHandler
	headcount         *services.HeadcountService
}

// bootstrap initializes all application dependencies: database, handlers,
// the headcount job.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	var headcount *services.HeadcountService
	if cfg.Headcount.Enabled {
		headcount = services.NewHeadcountService(db, &cfg.Headcount)
		if err := headcount.Start(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start headcount job")
			headcount = nil
		}
	}

	return &appServices{
		authHandler:       handlers.NewAuthHandler(db, &cfg.JWT),
		userHandler:       handlers.NewUserHandler(db),
		teamHandler:       handlers.NewTeamHandler(db),
		invitationHandler: handlers.NewInvitationHandler(db),
		fineHandler:       handlers.NewFineHandler(db),
		statsHandler:      handlers.NewStatsHandler(db),
		headcount:         headcount,
	}
}

// shutdown gracefully stops background jobs.
func (s *appServices) shutdown() {
	if s.headcount != nil {
		s.headcount.Stop()
	}
	logger.Info().Msg("All jobs stopped")
}
