package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
)

func TestMain(m *testing.M) {
	Register()
	os.Exit(m.Run())
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	// Gauges always appear; counters only after first observation.
	ActiveMiningSessions.Set(3)
	LedgerEntriesTotal.WithLabelValues("mining_reward").Inc()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, name := range []string{
		"doofi_active_mining_sessions",
		"doofi_ledger_entries_total",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected metrics output to contain %s", name)
		}
	}
}

func TestMiddleware_RecordsMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/v1/players/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/players/42", nil)
	r.ServeHTTP(w, req)

	counter, err := HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/v1/players/:id", "200")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues failed: %v", err)
	}

	m := &dto.Metric{}
	_ = counter.Write(m)
	if m.Counter.GetValue() < 1.0 {
		t.Errorf("expected at least 1 request counted, got %f", m.Counter.GetValue())
	}
}

func TestCombatCounter_Labels(t *testing.T) {
	CombatEventsTotal.WithLabelValues("kill_monster").Inc()

	counter, err := CombatEventsTotal.GetMetricWithLabelValues("kill_monster")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues failed: %v", err)
	}

	m := &dto.Metric{}
	_ = counter.Write(m)
	if m.Counter.GetValue() < 1.0 {
		t.Errorf("expected counter >= 1, got %f", m.Counter.GetValue())
	}
}
