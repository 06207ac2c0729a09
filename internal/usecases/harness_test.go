package usecases_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	domainRepos "kemea.backend/internal/domain/repositories"
	"kemea.backend/internal/infrastructure/mailer"
	"kemea.backend/internal/infrastructure/models"
	"kemea.backend/internal/infrastructure/repositories"
	"kemea.backend/internal/usecases"
	"kemea.backend/pkg/crypto"
	"kemea.backend/pkg/jwt"
	redispkg "kemea.backend/pkg/redis"
)

const (
	testResetKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testPassword = "secret123"
	testOTPTTL   = 10 * time.Minute
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// harness wires the usecases to sqlite-backed repositories and miniredis.
type harness struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	redis *miniredis.Miniredis
	clock *testClock

	users      *repositories.UserRepository
	profiles   *repositories.ProfileRepository
	otps       *repositories.OTPRepository
	referrals  *repositories.ReferralRepository
	outbox     domainRepos.OutboxRepository
	lookups    *repositories.LookupRepository
	properties *repositories.PropertyRepository
	favorites  *repositories.FavoriteRepository
	companies  *repositories.CompanyRepository
	inquiries  *repositories.InquiryRepository
	policies   *repositories.PolicyRepository
	uow        domainRepos.UnitOfWork

	jwt    *jwt.JWTService
	google *MockIdentityVerifier

	verification *usecases.VerificationUsecase
	auth         *usecases.AuthUsecase
	profile      *usecases.ProfileUsecase
	property     *usecases.PropertyUsecase
	favorite     *usecases.FavoriteUsecase
	company      *usecases.CompanyUsecase
	inquiry      *usecases.InquiryUsecase
	policy       *usecases.PolicyUsecase
}

func newHarness(t *testing.T, opts ...func(*harness)) *harness {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	mr := miniredis.RunT(t)
	redispkg.SetClient(redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()}))

	h := &harness{
		t:          t,
		ctx:        context.Background(),
		db:         db,
		redis:      mr,
		clock:      &testClock{now: time.Now().UTC().Truncate(time.Second)},
		users:      repositories.NewUserRepository(db),
		profiles:   repositories.NewProfileRepository(db),
		otps:       repositories.NewOTPRepository(db),
		referrals:  repositories.NewReferralRepository(db),
		outbox:     repositories.NewOutboxRepository(db),
		lookups:    repositories.NewLookupRepository(db),
		properties: repositories.NewPropertyRepository(db),
		favorites:  repositories.NewFavoriteRepository(db),
		companies:  repositories.NewCompanyRepository(db),
		inquiries:  repositories.NewInquiryRepository(db),
		policies:   repositories.NewPolicyRepository(db),
		uow:        repositories.NewUnitOfWork(db),
		jwt:        jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour),
		google:     new(MockIdentityVerifier),
	}
	for _, opt := range opts {
		opt(h)
	}

	renderer, err := mailer.NewRenderer()
	require.NoError(t, err)
	resetCodec, err := crypto.NewResetTokenCipher(testResetKey, 15*time.Minute)
	require.NoError(t, err)
	revoker := redispkg.NewTokenStore()

	h.verification = usecases.NewVerificationUsecase(h.users, h.otps, h.outbox, h.uow, renderer, resetCodec, revoker, testOTPTTL, 4)
	h.verification.SetClock(h.clock.Now)
	h.auth = usecases.NewAuthUsecase(h.users, h.profiles, h.referrals, h.uow, h.verification, h.jwt, revoker, h.google,
		usecases.ReferralBonus{Referrer: 1000, Referee: 500})
	h.auth.SetClock(h.clock.Now)
	h.profile = usecases.NewProfileUsecase(h.users, h.profiles, h.referrals, h.uow, "https://kemea.test/register")
	h.property = usecases.NewPropertyUsecase(h.properties, h.lookups, h.users, h.uow)
	h.property.SetClock(h.clock.Now)
	h.favorite = usecases.NewFavoriteUsecase(h.favorites, h.properties)
	h.company = usecases.NewCompanyUsecase(h.users, h.profiles, h.companies, h.properties, h.uow)
	h.inquiry = usecases.NewInquiryUsecase(h.inquiries, h.properties, h.users, h.profiles, h.outbox, h.uow, renderer)
	h.inquiry.SetClock(h.clock.Now)
	h.policy = usecases.NewPolicyUsecase(h.policies)
	return h
}

func (h *harness) register(email, referralCode string) *entities.UserProfile {
	h.t.Helper()
	out, err := h.auth.Register(h.ctx, &entities.RegisterInput{
		Email:        email,
		FullName:     "Test User",
		Password:     testPassword,
		ReferralCode: referralCode,
	})
	require.NoError(h.t, err)
	return out
}

func (h *harness) registerCompany(email string) *entities.UserProfile {
	h.t.Helper()
	out, err := h.auth.RegisterCompany(h.ctx, &entities.RegisterCompanyInput{
		Email:         email,
		FullName:      "Agent Smith",
		Password:      testPassword,
		CompanyName:   "Acme Estates",
		LicenseNumber: "LIC-1",
		Location:      "Tirana",
	})
	require.NoError(h.t, err)
	return out
}

func (h *harness) otpCode(userID uuid.UUID, purpose entities.OTPPurpose) string {
	h.t.Helper()
	otp, err := h.otps.Get(h.ctx, userID, purpose)
	require.NoError(h.t, err)
	return otp.Code
}

func (h *harness) verify(user *entities.User) {
	h.t.Helper()
	require.NoError(h.t, h.verification.VerifyEmail(h.ctx, &entities.VerifyEmailInput{
		Email: user.Email,
		OTP:   h.otpCode(user.ID, entities.OTPPurposeEmailVerification),
	}))
}

func (h *harness) count(model interface{}) int64 {
	h.t.Helper()
	var n int64
	require.NoError(h.t, h.db.Model(model).Count(&n).Error)
	return n
}

func (h *harness) outboxFor(address string) []models.EmailOutbox {
	h.t.Helper()
	var rows []models.EmailOutbox
	require.NoError(h.t, h.db.Where("recipients LIKE ?", "%"+address+"%").Order("created_at").Find(&rows).Error)
	return rows
}

func requireAppError(t *testing.T, err error, code string) *domainerrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := domainerrors.As(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// verificationWith builds a verification usecase over the harness store with
// some repositories swapped out.
func (h *harness) verificationWith(users domainRepos.UserRepository, otps domainRepos.OTPRepository) *usecases.VerificationUsecase {
	h.t.Helper()
	renderer, err := mailer.NewRenderer()
	require.NoError(h.t, err)
	resetCodec, err := crypto.NewResetTokenCipher(testResetKey, 15*time.Minute)
	require.NoError(h.t, err)

	v := usecases.NewVerificationUsecase(users, otps, h.outbox, h.uow, renderer, resetCodec, redispkg.NewTokenStore(), testOTPTTL, 4)
	v.SetClock(h.clock.Now)
	return v
}
