package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kemea.backend/internal/config"
	"kemea.backend/internal/infrastructure/datasources/postgres"
	"kemea.backend/internal/infrastructure/google"
	"kemea.backend/internal/infrastructure/jobs"
	"kemea.backend/internal/infrastructure/mailer"
	"kemea.backend/internal/infrastructure/models"
	"kemea.backend/internal/infrastructure/repositories"
	"kemea.backend/internal/interfaces/http/handlers"
	"kemea.backend/internal/usecases"
	"kemea.backend/pkg/crypto"
	"kemea.backend/pkg/jwt"
	"kemea.backend/pkg/logger"
	"kemea.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = postgres.NewConnection
	newSender  = func(cfg config.MailConfig) (mailer.Sender, error) {
		if cfg.NSQAddress == "" {
			return mailer.NewLogSender(cfg.From), nil
		}
		return mailer.NewNSQSender(cfg.NSQAddress, cfg.NSQTopic, cfg.From)
	}
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
	// shutdownSignal returns a channel that fires when the process should stop.
	shutdownSignal = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(ctx, "Database ready")

	app, err := buildApp(cfg, db)
	if err != nil {
		return err
	}
	defer app.sender.Close()

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go app.dispatcher.Start(jobCtx)
	if err := app.maintenance.Start(jobCtx, cfg.Jobs.PurgeInterval); err != nil {
		return err
	}
	defer func() {
		if err := app.maintenance.Stop(); err != nil {
			logger.Warn(ctx, "Failed to stop maintenance scheduler", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-shutdownSignal()
		logger.Info(ctx, "Shutting down server")
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "Kemea backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// app is the wired process: router plus background workers.
type app struct {
	router      *gin.Engine
	sender      mailer.Sender
	dispatcher  *jobs.OutboxDispatcher
	maintenance *jobs.Maintenance
}

func buildApp(cfg *config.Config, db *gorm.DB) (*app, error) {
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	resetCipher, err := crypto.NewResetTokenCipher(cfg.Security.ResetTokenKey, cfg.Security.ResetTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reset token cipher: %w", err)
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	sender, err := newSender(cfg.Mail)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail transport: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	referralRepo := repositories.NewReferralRepository(db)
	outboxRepo := repositories.NewOutboxRepository(db)
	lookupRepo := repositories.NewLookupRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	inquiryRepo := repositories.NewInquiryRepository(db)
	policyRepo := repositories.NewPolicyRepository(db)
	uow := repositories.NewUnitOfWork(db)

	tokenStore := redis.NewTokenStore()
	verifier := google.NewVerifier(cfg.Google.ClientID, cfg.Google.JWKSURL)

	verificationUsecase := usecases.NewVerificationUsecase(userRepo, otpRepo, outboxRepo, uow, renderer, resetCipher, tokenStore, cfg.OTP.TTL, cfg.OTP.Digits)
	verificationUsecase.SetMaxAttempts(cfg.OTP.MaxAttempts)
	authUsecase := usecases.NewAuthUsecase(userRepo, profileRepo, referralRepo, uow, verificationUsecase, jwtService, tokenStore, verifier,
		usecases.ReferralBonus{Referrer: cfg.Referral.ReferrerBonus, Referee: cfg.Referral.RefereeBonus})
	profileUsecase := usecases.NewProfileUsecase(userRepo, profileRepo, referralRepo, uow, cfg.Referral.LinkBaseURL)
	propertyUsecase := usecases.NewPropertyUsecase(propertyRepo, lookupRepo, userRepo, uow)
	favoriteUsecase := usecases.NewFavoriteUsecase(favoriteRepo, propertyRepo)
	companyUsecase := usecases.NewCompanyUsecase(userRepo, profileRepo, companyRepo, propertyRepo, uow)
	inquiryUsecase := usecases.NewInquiryUsecase(inquiryRepo, propertyRepo, userRepo, profileRepo, outboxRepo, uow, renderer)
	policyUsecase := usecases.NewPolicyUsecase(policyRepo)

	maintenance, err := jobs.NewMaintenance(otpRepo, outboxRepo, cfg.OTP.TTL, cfg.Jobs.OutboxRetention)
	if err != nil {
		sender.Close()
		return nil, err
	}

	router := newRouter(cfg, routeDeps{
		jwtService:      jwtService,
		accounts:        authUsecase,
		authHandler:     handlers.NewAuthHandler(authUsecase, verificationUsecase),
		profileHandler:  handlers.NewProfileHandler(profileUsecase),
		companyHandler:  handlers.NewCompanyHandler(companyUsecase),
		propertyHandler: handlers.NewPropertyHandler(propertyUsecase),
		favoriteHandler: handlers.NewFavoriteHandler(favoriteUsecase),
		inquiryHandler:  handlers.NewInquiryHandler(inquiryUsecase),
		policyHandler:   handlers.NewPolicyHandler(policyUsecase),
		adminHandler:    handlers.NewAdminHandler(propertyUsecase, policyUsecase),
		db:              db,
	})

	return &app{
		router:      router,
		sender:      sender,
		dispatcher:  jobs.NewOutboxDispatcher(outboxRepo, sender, uow, cfg.Jobs.OutboxInterval, cfg.Jobs.OutboxBatchSize),
		maintenance: maintenance,
	}, nil
}
