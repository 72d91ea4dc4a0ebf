package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"wolwake/internal/controllers"
	"wolwake/internal/services"
	"wolwake/internal/structures"
	"wolwake/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func newHealthController(conf *structures.Config) *controllers.HealthController {
	scheduler := services.NewScheduler(conf, &testutil.MockLogger{}, &stubWake{}, &stubRefresh{}, &testutil.MockMetrics{})
	return controllers.NewHealthController(scheduler, conf)
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestInitRoutes_RegistersHealth(t *testing.T) {
	conf := &structures.Config{}
	router := InitRoutes(newHealthController(conf), &testutil.MockMetrics{}, conf)

	assert.Equal(t, []string{"/health"}, router.Paths())
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/metrics").Code)
}

func TestInitRoutes_MetricsWhenEnabled(t *testing.T) {
	conf := &structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}
	router := InitRoutes(newHealthController(conf), &testutil.MockMetrics{}, conf)

	assert.Equal(t, []string{"/health", "/metrics"}, router.Paths())

	rr := serve(router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "mock metrics")
}

func TestInitRoutes_HealthServes(t *testing.T) {
	conf := &structures.Config{}
	router := InitRoutes(newHealthController(conf), &testutil.MockMetrics{}, conf)

	rr := serve(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	rr = serve(router, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
}

func TestStatusRouter_CountsRequests(t *testing.T) {
	conf := &structures.Config{}
	metrics := &testutil.MockMetrics{}
	router := InitRoutes(newHealthController(conf), metrics, conf)

	serve(router, http.MethodGet, "/health")
	serve(router, http.MethodGet, "/health")
	serve(router, http.MethodDelete, "/health")
	serve(router, http.MethodGet, "/wp-login.php")
	serve(router, http.MethodGet, "/.env")

	assert.Equal(t, map[string]int{
		"/health 200": 2,
		"/health 405": 1,
		"other 404":   2,
	}, metrics.StatusRequests)
}

func TestStatusRecorder_WriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr, status: http.StatusOK}

	rec.WriteHeader(http.StatusServiceUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, rec.status)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
