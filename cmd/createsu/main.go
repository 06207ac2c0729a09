package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"kemea.backend/internal/config"
	"kemea.backend/internal/infrastructure/datasources/postgres"
	"kemea.backend/internal/infrastructure/google"
	"kemea.backend/internal/infrastructure/mailer"
	"kemea.backend/internal/infrastructure/repositories"
	"kemea.backend/internal/usecases"
	"kemea.backend/pkg/crypto"
	"kemea.backend/pkg/jwt"
	"kemea.backend/pkg/redis"
)

const passwordEnv = "KEMEA_SU_PASSWORD"

var (
	stdout   io.Writer = os.Stdout
	fatalfFn           = log.Fatalf
	loadCfg            = config.Load
	openDB             = postgres.NewConnection
)

type options struct {
	email    string
	name     string
	password string
}

func parseOptions(args []string, getenv func(string) string) (options, error) {
	fs := flag.NewFlagSet("createsu", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts options
	fs.StringVar(&opts.email, "email", "", "staff email address")
	fs.StringVar(&opts.name, "name", "Administrator", "display name")
	fs.StringVar(&opts.password, "password", "", "password (or "+passwordEnv+")")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.password == "" {
		opts.password = getenv(passwordEnv)
	}
	if opts.email == "" {
		return opts, errors.New("-email is required")
	}
	if len(opts.password) < 6 {
		return opts, errors.New("password must be at least 6 characters")
	}
	return opts, nil
}

// staffCreator builds just enough of the auth stack to create a staff account.
func staffCreator(cfg *config.Config, db *gorm.DB) (*usecases.AuthUsecase, error) {
	resetCipher, err := crypto.NewResetTokenCipher(cfg.Security.ResetTokenKey, cfg.Security.ResetTokenExpiry)
	if err != nil {
		return nil, err
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return nil, err
	}

	userRepo := repositories.NewUserRepository(db)
	uow := repositories.NewUnitOfWork(db)
	tokenStore := redis.NewTokenStore()

	verification := usecases.NewVerificationUsecase(userRepo, repositories.NewOTPRepository(db), repositories.NewOutboxRepository(db),
		uow, renderer, resetCipher, tokenStore, cfg.OTP.TTL, cfg.OTP.Digits)
	verification.SetMaxAttempts(cfg.OTP.MaxAttempts)
	return usecases.NewAuthUsecase(userRepo, repositories.NewProfileRepository(db), repositories.NewReferralRepository(db), uow,
		verification, jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry), tokenStore,
		google.NewVerifier(cfg.Google.ClientID, cfg.Google.JWKSURL), usecases.ReferralBonus{}), nil
}

func run(args []string) error {
	opts, err := parseOptions(args, os.Getenv)
	if err != nil {
		return err
	}

	_ = godotenv.Load()
	cfg := loadCfg()
	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	auth, err := staffCreator(cfg, db)
	if err != nil {
		return err
	}
	user, err := auth.CreateStaff(context.Background(), opts.email, opts.name, opts.password)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Staff user created: %s (%s)\n", user.Email, user.ID)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fatalfFn("createsu: %v", err)
	}
}
