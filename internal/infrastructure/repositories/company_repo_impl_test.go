package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
)

func TestCompanyRepository_Agents(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyRepository(db)
	ctx := context.Background()
	companyID, otherCompanyID := uuid.New(), uuid.New()

	agent := &entities.CompanyAgent{ID: uuid.New(), CompanyID: companyID, FullName: "Arta Hoxha"}
	require.NoError(t, repo.CreateAgent(ctx, agent))
	require.NoError(t, repo.CreateAgent(ctx, &entities.CompanyAgent{ID: uuid.New(), CompanyID: otherCompanyID, FullName: "Other"}))

	_, err := repo.GetAgent(ctx, otherCompanyID, agent.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := repo.GetAgent(ctx, companyID, agent.ID)
	require.NoError(t, err)
	got.PhoneNumber = null.StringFrom("+355 68 111 2222")
	require.NoError(t, repo.UpdateAgent(ctx, got))

	agents, err := repo.ListAgents(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	require.Equal(t, "+355 68 111 2222", agents[0].PhoneNumber.String)

	got.CompanyID = otherCompanyID
	require.ErrorIs(t, repo.UpdateAgent(ctx, got), domainerrors.ErrNotFound)
}

func TestCompanyRepository_Availability(t *testing.T) {
	db := newTestDB(t)
	repo := NewCompanyRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	require.NoError(t, repo.CreateAvailability(ctx, []*entities.CompanyAvailability{
		{ID: uuid.New(), CompanyID: companyID, StartDay: "Monday", LastDay: "Friday", StartTime: "09:00", EndTime: "17:00"},
		{ID: uuid.New(), CompanyID: companyID, StartDay: "Saturday", LastDay: "Saturday", StartTime: "10:00", EndTime: "14:00"},
	}))
	require.NoError(t, repo.CreateAvailability(ctx, nil))

	entry, err := repo.GetAvailabilityByDays(ctx, companyID, "Monday", "Friday")
	require.NoError(t, err)
	entry.EndTime = "18:00"
	require.NoError(t, repo.UpdateAvailability(ctx, entry))

	_, err = repo.GetAvailabilityByDays(ctx, companyID, "Sunday", "Sunday")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	all, err := repo.ListAvailability(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, a := range all {
		if a.StartDay == "Monday" {
			require.Equal(t, "18:00", a.EndTime)
		}
	}
}

func TestInquiryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewInquiryRepository(db)
	ctx := context.Background()

	contact := &entities.ContactCompany{ID: uuid.New(), PropertyID: uuid.New(), CompanyID: uuid.New(), Name: "Ana", EmailAddress: "ana@example.com", PhoneNumber: "1", Message: "Is it available?"}
	require.NoError(t, repo.CreateContact(ctx, contact))
	require.False(t, contact.CreatedAt.IsZero())

	req := &entities.PromoteAdRequest{ID: uuid.New(), Location: "Tirana", PropertyType: "Apartment", DesiredPrice: 90000, FirstName: "Ana", LastName: "K", EmailAddress: "ana@example.com", PhoneNumber: "1", Sell: true}
	require.NoError(t, repo.CreatePromoteRequest(ctx, req))

	var count int64
	require.NoError(t, db.Table("contact_companies").Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.NoError(t, db.Table("promote_ad_requests").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestPolicyRepository_UpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entities.Policy{ID: uuid.New(), Title: "terms", Language: "en", Content: "v1"}))
	require.NoError(t, repo.Upsert(ctx, &entities.Policy{ID: uuid.New(), Title: "terms", Language: "en", Content: "v2"}))
	require.NoError(t, repo.Upsert(ctx, &entities.Policy{ID: uuid.New(), Title: "privacy", Language: "en", Content: "p"}))
	require.NoError(t, repo.Upsert(ctx, &entities.Policy{ID: uuid.New(), Title: "terms", Language: "sq", Content: "kushtet"}))

	got, err := repo.Get(ctx, "terms", "en")
	require.NoError(t, err)
	require.Equal(t, "v2", got.Content)

	_, err = repo.Get(ctx, "terms", "it")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	list, err := repo.ListByLanguage(ctx, "en")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "privacy", list[0].Title)
}
