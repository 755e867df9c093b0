package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hitecare/carehome-api/internal/config"
	"github.com/hitecare/carehome-api/internal/handler"
	authHandler "github.com/hitecare/carehome-api/internal/handler/auth"
	caregiverHandler "github.com/hitecare/carehome-api/internal/handler/caregiver"
	patientHandler "github.com/hitecare/carehome-api/internal/handler/patient"
	treatmentHandler "github.com/hitecare/carehome-api/internal/handler/treatment"
	"github.com/hitecare/carehome-api/internal/middleware"
	"github.com/hitecare/carehome-api/internal/repository/postgres"
	"github.com/hitecare/carehome-api/internal/router"
	"github.com/hitecare/carehome-api/internal/session"
	authService "github.com/hitecare/carehome-api/internal/service/auth"
	caregiverService "github.com/hitecare/carehome-api/internal/service/caregiver"
	patientService "github.com/hitecare/carehome-api/internal/service/patient"
	treatmentService "github.com/hitecare/carehome-api/internal/service/treatment"
	"github.com/hitecare/carehome-api/pkg/auth"
	"github.com/hitecare/carehome-api/pkg/logger"
	"github.com/hitecare/carehome-api/pkg/metrics"
	"github.com/hitecare/carehome-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLog := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}
	if err := postgres.Seed(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed starter data")
	}

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validations")
	}

	m := metrics.NewMetrics("carehome")

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	caregiverRepo := postgres.NewCaregiverRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Sessions expire after the configured idle period; every authenticated
	// request re-arms the timer.
	sessions := session.NewManager(cfg.Auth.IdleTimeout, appLog)
	tokens := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Services
	authSvc := authService.NewService(userRepo, sessions, tokens, cfg.Auth, appLog, m)
	patientSvc := patientService.NewService(patientRepo, appLog, m)
	caregiverSvc := caregiverService.NewService(caregiverRepo, appLog, m)
	treatmentSvc := treatmentService.NewService(treatmentRepo, patientRepo, appLog, m)

	// Handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	patientH := patientHandler.NewHandler(patientSvc)
	caregiverH := caregiverHandler.NewHandler(caregiverSvc)
	treatmentH := treatmentHandler.NewHandler(treatmentSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		patientH,
		caregiverH,
		treatmentH,
		h,
		router.Config{
			RateLimitRPS:   50,
			RateLimitBurst: 100,
			MetricsPrefix:  "carehome_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
