package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/internal/infrastructure/google"
	"kemea.backend/internal/infrastructure/mailer"
	"kemea.backend/internal/infrastructure/models"
	"kemea.backend/internal/infrastructure/repositories"
	"kemea.backend/internal/interfaces/http/middleware"
	"kemea.backend/internal/usecases"
	"kemea.backend/pkg/crypto"
	"kemea.backend/pkg/jwt"
	redispkg "kemea.backend/pkg/redis"
)

const callerHeader = "X-Test-Caller"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type pageBody struct {
	Results    json.RawMessage `json:"results"`
	Pagination struct {
		TotalCount int64 `json:"total_count"`
	} `json:"pagination"`
}

// testEnv serves the real handlers over sqlite and miniredis. Callers are
// identified by the X-Test-Caller header instead of a bearer token.
type testEnv struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	clock  *fakeClock
	router *gin.Engine

	auth         *usecases.AuthUsecase
	verification *usecases.VerificationUsecase
	property     *usecases.PropertyUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	mr := miniredis.RunT(t)
	redispkg.SetClient(redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()}))

	renderer, err := mailer.NewRenderer()
	require.NoError(t, err)
	resetCipher, err := crypto.NewResetTokenCipher("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", 15*time.Minute)
	require.NoError(t, err)

	users := repositories.NewUserRepository(db)
	profiles := repositories.NewProfileRepository(db)
	otps := repositories.NewOTPRepository(db)
	referrals := repositories.NewReferralRepository(db)
	outbox := repositories.NewOutboxRepository(db)
	properties := repositories.NewPropertyRepository(db)
	uow := repositories.NewUnitOfWork(db)
	tokens := redispkg.NewTokenStore()
	clock := &fakeClock{now: time.Now().UTC().Truncate(time.Second)}

	verification := usecases.NewVerificationUsecase(users, otps, outbox, uow, renderer, resetCipher, tokens, 10*time.Minute, 4)
	verification.SetClock(clock.Now)
	auth := usecases.NewAuthUsecase(users, profiles, referrals, uow, verification,
		jwt.NewJWTService("test-secret", 15*time.Minute, time.Hour), tokens, google.NewVerifier("", ""), usecases.ReferralBonus{})
	auth.SetClock(clock.Now)
	property := usecases.NewPropertyUsecase(properties, repositories.NewLookupRepository(db), users, uow)
	property.SetClock(clock.Now)
	inquiry := usecases.NewInquiryUsecase(repositories.NewInquiryRepository(db), properties, users, profiles, outbox, uow, renderer)
	inquiry.SetClock(clock.Now)
	company := usecases.NewCompanyUsecase(users, profiles, repositories.NewCompanyRepository(db), properties, uow)
	favorite := usecases.NewFavoriteUsecase(repositories.NewFavoriteRepository(db), properties)
	policy := usecases.NewPolicyUsecase(repositories.NewPolicyRepository(db))

	authH := NewAuthHandler(auth, verification)
	propertyH := NewPropertyHandler(property)
	companyH := NewCompanyHandler(company)
	favoriteH := NewFavoriteHandler(favorite)
	inquiryH := NewInquiryHandler(inquiry)
	adminH := NewAdminHandler(property, policy)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader(callerHeader)); err == nil {
			c.Set(middleware.UserIDKey, id)
		}
		c.Next()
	})

	r.POST("/auth/register", authH.Register)
	r.POST("/auth/register/company", authH.RegisterCompany)
	r.POST("/auth/verify-email", authH.VerifyEmail)
	r.POST("/auth/resend-verification", authH.ResendVerification)

	r.GET("/properties", propertyH.List)
	r.GET("/properties/:id", propertyH.Details)
	r.POST("/properties/:id/contact", inquiryH.ContactCompany)
	r.GET("/agent/properties", propertyH.Dashboard)
	r.POST("/agent/properties", propertyH.Create)
	r.PATCH("/agent/properties/:id", propertyH.Update)
	r.DELETE("/agent/properties/:id", propertyH.Delete)
	r.POST("/agent/properties/:id/terminate", propertyH.Terminate)

	r.GET("/favorites", favoriteH.List)
	r.POST("/favorites/:propertyId", favoriteH.Add)
	r.DELETE("/favorites/:propertyId", favoriteH.Remove)

	r.GET("/company/agents", companyH.ListAgents)
	r.POST("/company/agents", companyH.CreateAgent)
	r.PATCH("/company/agents/:id", companyH.UpdateAgent)
	r.GET("/company/availability", companyH.ListAvailability)
	r.POST("/company/availability", companyH.CreateAvailability)
	r.PUT("/company/availability", companyH.UpdateAvailability)
	r.GET("/companies/:id", companyH.Details)

	r.POST("/promote-requests", inquiryH.PromoteRequest)
	r.PUT("/admin/properties/:id/status", adminH.UpdatePropertyStatus)
	r.POST("/admin/lookups/:kind", adminH.CreateLookup)

	return &testEnv{
		t:            t,
		ctx:          context.Background(),
		db:           db,
		clock:        clock,
		router:       r,
		auth:         auth,
		verification: verification,
		property:     property,
	}
}

// do sends body as JSON on behalf of caller. uuid.Nil is anonymous.
func (e *testEnv) do(method, path string, caller uuid.UUID, body interface{}) (int, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != uuid.Nil {
		req.Header.Set(callerHeader, caller.String())
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (e *testEnv) decode(env envelope, dst interface{}) {
	e.t.Helper()
	require.NoError(e.t, json.Unmarshal(env.Data, dst), string(env.Data))
}

// company registers an agent account and returns its id.
func (e *testEnv) company(email string) uuid.UUID {
	e.t.Helper()
	out, err := e.auth.RegisterCompany(e.ctx, &entities.RegisterCompanyInput{
		Email:         email,
		FullName:      "Agent Smith",
		Password:      "secret123",
		CompanyName:   "Acme Estates",
		LicenseNumber: "LIC-1",
		Location:      "Tirana",
	})
	require.NoError(e.t, err)
	return out.User.ID
}

func (e *testEnv) buyer(email string) uuid.UUID {
	e.t.Helper()
	out, err := e.auth.Register(e.ctx, &entities.RegisterInput{
		Email:    email,
		FullName: "Buyer One",
		Password: "secret123",
	})
	require.NoError(e.t, err)
	return out.User.ID
}

func adPayload(name string, price float64) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"city":        "Tirana",
		"street":      "Rruga e Kavajes",
		"area":        "Blloku",
		"price":       price,
		"description": "Bright and quiet",
	}
}

// listAd creates an ad through the API and returns its id.
func (e *testEnv) listAd(lister uuid.UUID, payload map[string]interface{}) uuid.UUID {
	e.t.Helper()
	status, env := e.do(http.MethodPost, "/agent/properties", lister, payload)
	require.Equal(e.t, http.StatusCreated, status, env.Message)
	var ad entities.Property
	e.decode(env, &ad)
	return ad.ID
}

func (e *testEnv) approve(id uuid.UUID) {
	e.t.Helper()
	status, env := e.do(http.MethodPut, "/admin/properties/"+id.String()+"/status", uuid.New(), map[string]string{"status": "approved"})
	require.Equal(e.t, http.StatusOK, status, env.Message)
}

func (e *testEnv) otpFor(email string) string {
	e.t.Helper()
	var otp models.OTPSecret
	require.NoError(e.t, e.db.Where("email = ?", email).Order("created_at DESC").First(&otp).Error)
	return otp.Code
}
