package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kemea.backend/internal/domain/entities"
)

func TestCompanyHandler_Agents(t *testing.T) {
	e := newTestEnv(t)
	company := e.company("agent@x.com")

	status, env := e.do(http.MethodPost, "/company/agents", company, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", env.Code)

	status, env = e.do(http.MethodPost, "/company/agents", company, map[string]string{"profile_picture": "not a url"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", env.Code)

	status, env = e.do(http.MethodPost, "/company/agents", company, map[string]string{
		"full_name":    "Ana Hoxha",
		"phone_number": "+355691234567",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var agent entities.CompanyAgent
	e.decode(env, &agent)
	assert.Equal(t, company, agent.CompanyID)

	status, env = e.do(http.MethodPatch, "/company/agents/"+agent.ID.String(), company, map[string]string{"full_name": "Ana Hoxha-Leka"})
	require.Equal(t, http.StatusOK, status, env.Message)
	e.decode(env, &agent)
	assert.Equal(t, "Ana Hoxha-Leka", agent.FullName)
	assert.Equal(t, "+355691234567", agent.PhoneNumber.String)

	status, env = e.do(http.MethodPatch, "/company/agents/"+uuid.NewString(), company, map[string]string{"full_name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "non_existent", env.Code)

	// another company cannot touch the agent
	rival := e.company("rival@x.com")
	status, _ = e.do(http.MethodPatch, "/company/agents/"+agent.ID.String(), rival, map[string]string{"full_name": "Stolen"})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = e.do(http.MethodGet, "/company/agents", company, nil)
	require.Equal(t, http.StatusOK, status)
	var agents []entities.CompanyAgent
	e.decode(env, &agents)
	require.Len(t, agents, 1)
	assert.Equal(t, "Ana Hoxha-Leka", agents[0].FullName)
}

func TestCompanyHandler_Availability(t *testing.T) {
	e := newTestEnv(t)
	company := e.company("agent@x.com")
	window := func(start, last, from, to string) map[string]string {
		return map[string]string{"start_day": start, "last_day": last, "start_time": from, "end_time": to}
	}

	tooMany := []map[string]string{
		window("Mon", "Mon", "09:00", "17:00"),
		window("Tue", "Tue", "09:00", "17:00"),
		window("Wed", "Wed", "09:00", "17:00"),
		window("Thu", "Thu", "09:00", "17:00"),
		window("Fri", "Fri", "09:00", "17:00"),
	}
	status, env := e.do(http.MethodPost, "/company/availability", company, tooMany)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "not_allowed", env.Code)

	status, env = e.do(http.MethodPost, "/company/availability", company, []map[string]string{window("Mon", "Fri", "9am", "17:00")})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", env.Code)

	status, env = e.do(http.MethodPost, "/company/availability", company, []map[string]string{window("Mon", "Fri", "17:00", "09:00")})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", env.Code)

	status, env = e.do(http.MethodPost, "/company/availability", company, []map[string]string{
		window("Mon", "Fri", "09:00", "17:00"),
		window("Sat", "Sat", "10:00", "14:00"),
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = e.do(http.MethodPut, "/company/availability", company, window("Sat", "Sat", "10:00", "13:00"))
	require.Equal(t, http.StatusOK, status, env.Message)
	var entry entities.CompanyAvailability
	e.decode(env, &entry)
	assert.Equal(t, "13:00", entry.EndTime)

	status, env = e.do(http.MethodPut, "/company/availability", company, window("Sun", "Sun", "10:00", "13:00"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "non_existent", env.Code)

	status, env = e.do(http.MethodGet, "/company/availability", company, nil)
	require.Equal(t, http.StatusOK, status)
	var entries []entities.CompanyAvailability
	e.decode(env, &entries)
	assert.Len(t, entries, 2)
}

func TestCompanyHandler_PublicDetails(t *testing.T) {
	e := newTestEnv(t)
	company := e.company("agent@x.com")
	e.do(http.MethodPost, "/company/agents", company, map[string]string{"full_name": "Ana Hoxha"})
	e.approve(e.listAd(company, adPayload("Live Ad", 1000)))
	e.listAd(company, adPayload("Hidden Ad", 1000))

	status, env := e.do(http.MethodGet, "/companies/"+company.String(), uuid.Nil, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var details entities.CompanyDetails
	e.decode(env, &details)
	assert.Equal(t, "Acme Estates", details.Profile.CompanyName)
	assert.Len(t, details.Agents, 1)
	require.Len(t, details.Ads, 1)
	assert.Equal(t, "Live Ad", details.Ads[0].Name)

	status, env = e.do(http.MethodGet, "/companies/"+e.buyer("buyer@x.com").String(), uuid.Nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "non_existent", env.Code)
}
