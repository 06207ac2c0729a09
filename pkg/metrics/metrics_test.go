package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExposed(t *testing.T) {
	before := testutil.ToFloat64(OTPIssued.WithLabelValues("email_verification"))
	OTPIssued.WithLabelValues("email_verification").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(OTPIssued.WithLabelValues("email_verification")))

	HTTPRequests.WithLabelValues("/health", "GET", "200").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "kemea_otp_issued_total"))
	assert.True(t, strings.Contains(body, "kemea_http_requests_total"))
}
