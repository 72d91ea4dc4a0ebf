package internal

import (
	"net/http"
	"wolwake/internal/controllers"
	"wolwake/internal/providers"
	"wolwake/internal/structures"
)

const unmatchedEndpoint = "other"

// StatusRouter serves the daemon status listener. Every endpoint is GET only and
// each response is counted by endpoint and status code.
type StatusRouter struct {
	mux     *http.ServeMux
	metrics providers.MetricsProviderInterface
	paths   []string
}

// InitRoutes registers the daemon status listener endpoints.
func InitRoutes(healthController *controllers.HealthController, metrics providers.MetricsProviderInterface, conf *structures.Config) *StatusRouter {
	router := &StatusRouter{mux: http.NewServeMux(), metrics: metrics}

	router.get("/health", http.HandlerFunc(healthController.Health))
	if conf.Metrics.Enabled {
		router.get("/metrics", metrics.Handler())
	}
	return router
}

func (sr *StatusRouter) get(path string, handler http.Handler) {
	sr.paths = append(sr.paths, path)
	sr.mux.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	}))
}

func (sr *StatusRouter) Paths() []string {
	return sr.paths
}

func (sr *StatusRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	sr.mux.ServeHTTP(rec, r)

	// unknown paths share one label so scanners cannot grow the series count
	_, endpoint := sr.mux.Handler(r)
	if endpoint == "" {
		endpoint = unmatchedEndpoint
	}
	sr.metrics.IncStatusRequests(endpoint, rec.status)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
