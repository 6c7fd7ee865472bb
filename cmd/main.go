package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/iqasport/referee-hub-sub000/config"
	"github.com/iqasport/referee-hub-sub000/db"
	"github.com/iqasport/referee-hub-sub000/handlers"
	"github.com/iqasport/referee-hub-sub000/live"
	"github.com/iqasport/referee-hub-sub000/repositories"
	api "github.com/iqasport/referee-hub-sub000/routes"
	"github.com/iqasport/referee-hub-sub000/services"
	"github.com/iqasport/referee-hub-sub000/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, avatar uploads disabled")
	}

	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	ngbRepo := repositories.NewPostgresNGBRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	tournamentManagerRepo := repositories.NewPostgresTournamentManagerRepository(dbConn)
	teamManagerRepo := repositories.NewPostgresTeamManagerRepository(dbConn)
	delicateRepo := repositories.NewPostgresDelicateInfoRepository(dbConn)
	certRepo := repositories.NewPostgresCertificationRepository(dbConn)
	logger.Info("repositories initialized")

	authz := services.NewAuthorizationService(ngbRepo, teamRepo, teamManagerRepo, tournamentManagerRepo)

	var notifier services.InviteNotifier
	if cfg.SMTPConfigured() {
		notifier = services.NewEmailService(cfg)
		logger.Info("email notifications enabled", slog.String("smtp_host", cfg.SMTPHost))
	} else {
		logger.Warn("SMTP not configured, invite emails disabled")
	}

	authService := services.NewAuthService(userRepo, logger)
	userService := services.NewUserService(userRepo, delicateRepo, certRepo, participantRepo, tournamentRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, teamManagerRepo, authz, uploader)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, participantRepo, tournamentManagerRepo, authz, logger)
	inviteService := services.NewInviteService(dbConn, inviteRepo, tournamentRepo, teamRepo, participantRepo,
		tournamentManagerRepo, teamManagerRepo, authz, notifier, wsHub, logger)
	participantService := services.NewParticipantService(dbConn, participantRepo, rosterRepo, teamRepo,
		tournamentRepo, delicateRepo, certRepo, authz, wsHub, logger)
	managerService := services.NewManagerService(userRepo, tournamentRepo, tournamentManagerRepo, teamManagerRepo, authz, logger)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	managerHandler := handlers.NewManagerHandler(managerService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		teamHandler,
		tournamentHandler,
		inviteHandler,
		participantHandler,
		managerHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
