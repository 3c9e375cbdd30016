package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RouterTestSuite struct {
	suite.Suite
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) TestHealthz() {
	rec := httptest.NewRecorder()
	Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"ok"`)
}

func (s *RouterTestSuite) TestMetricsExposed() {
	DuplicatePaymentsBlocked.Inc()
	PayoutsMatched.WithLabelValues("LTC").Inc()

	rec := httptest.NewRecorder()
	Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "ticketsnipe_duplicate_payments_blocked_total")
	s.Contains(rec.Body.String(), `ticketsnipe_payouts_matched_total{chain="LTC"}`)
}
