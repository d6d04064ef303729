package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRegistersAllCollectorsWithoutPanicking(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	c.BatchesSubmitted.WithLabelValues("v3_uniswap", "mint_ladder").Inc()
	c.PriceImpactGateTrips.Inc()
}

func TestCollectorHandlerServesPrometheusText(t *testing.T) {
	c := New()
	c.BatchesSubmitted.WithLabelValues("v3_uniswap", "mint_ladder").Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "clladder_batches_submitted_total") {
		t.Error("expected the batches-submitted metric in the exposition output")
	}
}

func TestTwoCollectorsUseIndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.NonceReleases.Inc()

	recA := httptest.NewRecorder()
	a.Handler().ServeHTTP(recA, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	recB := httptest.NewRecorder()
	b.Handler().ServeHTTP(recB, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(recA.Body.String(), "clladder_nonce_releases_total 1") {
		t.Error("expected collector a to report one nonce release")
	}
	if strings.Contains(recB.Body.String(), "clladder_nonce_releases_total 1") {
		t.Error("expected collector b's independent registry to not see collector a's increment")
	}
}
