package providers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"wolwake/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsProviderInterface interface {
	IncCheckRuns(outcome string)
	IncPacketsSent()
	IncSendFailures()
	AddFlagsMarked(count int)
	SetSnapshotAge(age time.Duration)
	IncRefreshRuns(result string)
	SetRefreshReservations(count int)
	ObserveRefreshDuration(duration time.Duration)
	IncStatusRequests(endpoint string, status int)
	IncLivenessCacheLookup(hit bool)
	Flush() error
	Handler() http.Handler
}

type MetricsProvider struct {
	registry            *prometheus.Registry
	textfilePath        string
	checkRuns           *prometheus.CounterVec
	packetsSent         prometheus.Counter
	sendFailures        prometheus.Counter
	flagsMarked         prometheus.Counter
	snapshotAge         prometheus.Gauge
	refreshRuns         *prometheus.CounterVec
	refreshReservations prometheus.Gauge
	refreshDuration     prometheus.Histogram
	statusRequests      *prometheus.CounterVec
	cacheLookups        *prometheus.CounterVec
}

func (m *MetricsProvider) IncCheckRuns(outcome string) {
	m.checkRuns.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncPacketsSent() {
	m.packetsSent.Inc()
}

func (m *MetricsProvider) IncSendFailures() {
	m.sendFailures.Inc()
}

func (m *MetricsProvider) AddFlagsMarked(count int) {
	m.flagsMarked.Add(float64(count))
}

func (m *MetricsProvider) SetSnapshotAge(age time.Duration) {
	m.snapshotAge.Set(age.Seconds())
}

func (m *MetricsProvider) IncRefreshRuns(result string) {
	m.refreshRuns.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) SetRefreshReservations(count int) {
	m.refreshReservations.Set(float64(count))
}

func (m *MetricsProvider) ObserveRefreshDuration(duration time.Duration) {
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStatusRequests(endpoint string, status int) {
	m.statusRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (m *MetricsProvider) IncLivenessCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Flush writes the registry for the node-exporter textfile collector. Each command
// owns its file, so a check run never overwrites what the last refresh wrote.
func (m *MetricsProvider) Flush() error {
	if m.textfilePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.textfilePath), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(m.textfilePath, m.registry)
}

func (m *MetricsProvider) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry for the daemon status listener.
func (m *MetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	path := ""
	if conf.Metrics.TextfileDir != "" {
		path = filepath.Join(conf.Metrics.TextfileDir, TextfileName(conf.Command))
	}
	return newMetricsProvider(prometheus.NewRegistry(), path)
}

// TextfileName is the collector file a command flushes to, e.g. wolwake_check.prom.
func TextfileName(command string) string {
	if command == "" {
		return AppName + ".prom"
	}
	return AppName + "_" + command + ".prom"
}

func newMetricsProvider(registry *prometheus.Registry, textfilePath string) *MetricsProvider {
	factory := promauto.With(registry)

	return &MetricsProvider{
		registry:     registry,
		textfilePath: textfilePath,

		checkRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wolwake_check_runs_total",
			Help: "Number of check-and-send runs by outcome",
		}, []string{"outcome"}),

		packetsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "wolwake_packets_sent_total",
			Help: "Number of wake packets handed to the network",
		}),

		sendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "wolwake_send_failures_total",
			Help: "Number of wake packet transmissions that failed locally",
		}),

		flagsMarked: factory.NewCounter(prometheus.CounterOpts{
			Name: "wolwake_flags_marked_total",
			Help: "Number of reservation send flags set",
		}),

		snapshotAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wolwake_snapshot_age_seconds",
			Help: "Age of the reservation snapshot at the last check",
		}),

		refreshRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wolwake_refresh_runs_total",
			Help: "Number of snapshot refresh runs by result",
		}, []string{"result"}),

		refreshReservations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wolwake_refresh_reservations",
			Help: "Number of reservations stored by the last refresh",
		}),

		refreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wolwake_refresh_duration_seconds",
			Help:    "Duration of snapshot refresh runs in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		statusRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wolwake_status_requests_total",
			Help: "Number of requests served by the daemon status listener",
		}, []string{"endpoint", "code"}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wolwake_liveness_cache_lookups_total",
			Help: "Liveness cache lookups by result",
		}, []string{"result"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncCheckRuns(_ string)                  {}
func (n *noopMetrics) IncPacketsSent()                        {}
func (n *noopMetrics) IncSendFailures()                       {}
func (n *noopMetrics) AddFlagsMarked(_ int)                   {}
func (n *noopMetrics) SetSnapshotAge(_ time.Duration)         {}
func (n *noopMetrics) IncRefreshRuns(_ string)                {}
func (n *noopMetrics) SetRefreshReservations(_ int)           {}
func (n *noopMetrics) ObserveRefreshDuration(_ time.Duration) {}
func (n *noopMetrics) IncStatusRequests(_ string, _ int)      {}
func (n *noopMetrics) IncLivenessCacheLookup(_ bool)          {}
func (n *noopMetrics) Flush() error                           { return nil }
func (n *noopMetrics) Handler() http.Handler                  { return http.NotFoundHandler() }
