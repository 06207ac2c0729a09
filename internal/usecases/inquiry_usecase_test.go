package usecases_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kemea.backend/internal/domain/entities"
	domainerrors "kemea.backend/internal/domain/errors"
	"kemea.backend/internal/infrastructure/models"
)

func contactInput() *entities.ContactCompanyInput {
	return &entities.ContactCompanyInput{
		Name:         "Blerta",
		EmailAddress: "Blerta@Mail.test",
		PhoneNumber:  "+355 69 222 2222",
		Message:      "Is the flat still available?",
	}
}

func TestInquiryUsecase_ContactCompany(t *testing.T) {
	h := newHarness(t)
	c := h.seedCatalog()
	company := h.registerCompany("agent@x.com").User
	live := h.approvedAd(company.ID, adInput("Live flat", c.apartment.ID))
	before := len(h.outboxFor("agent@x.com"))

	contact, err := h.inquiry.ContactCompany(h.ctx, live.ID, contactInput())
	require.NoError(t, err)
	assert.Equal(t, company.ID, contact.CompanyID)
	assert.Equal(t, "blerta@mail.test", contact.EmailAddress)

	emails := h.outboxFor("agent@x.com")
	require.Len(t, emails, before+1)
	last := emails[len(emails)-1]
	assert.Equal(t, entities.TemplateContactCompany, last.Template)
	assert.Contains(t, last.Body, "Acme Estates")
	assert.Contains(t, last.Body, "Live flat")
	assert.Contains(t, last.Body, "Is the flat still available?")
	assert.Equal(t, int64(1), h.count(&models.ContactCompany{}))
}

func TestInquiryUsecase_ContactCompany_HiddenAd(t *testing.T) {
	h := newHarness(t)
	c := h.seedCatalog()
	company := h.registerCompany("agent@x.com").User
	pending, err := h.property.Create(h.ctx, company.ID, adInput("Pending flat", c.apartment.ID))
	require.NoError(t, err)

	_, err = h.inquiry.ContactCompany(h.ctx, pending.ID, contactInput())
	requireAppError(t, err, domainerrors.CodeNonExistent)

	_, err = h.inquiry.ContactCompany(h.ctx, uuid.New(), contactInput())
	requireAppError(t, err, domainerrors.CodeNonExistent)
	assert.Equal(t, int64(0), h.count(&models.ContactCompany{}))
}

func TestInquiryUsecase_PromoteRequest(t *testing.T) {
	h := newHarness(t)
	user := h.register("a@x.com", "").User

	in := &entities.PromoteAdRequestInput{
		Location:     "Durres",
		PropertyType: "Apartment",
		Surface:      80,
		Rooms:        2,
		DesiredPrice: 90000,
		FirstName:    "Arben",
		LastName:     "Kola",
		EmailAddress: "arben@x.com",
		PhoneNumber:  "+355 67 333 3333",
	}
	_, err := h.inquiry.PromoteRequest(h.ctx, user.ID, in)
	requireAppError(t, err, domainerrors.CodeValidationError)

	in.Sell = true
	req, err := h.inquiry.PromoteRequest(h.ctx, user.ID, in)
	require.NoError(t, err)
	require.NotNil(t, req.UserID)
	assert.Equal(t, user.ID, *req.UserID)
	assert.Equal(t, int64(1), h.count(&models.PromoteAdRequest{}))
}
