package testutil

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"wolwake/internal/models"
	"wolwake/internal/providers"
	"wolwake/internal/snapshot/interfaces"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Has reports whether a message at level contains substr.
func (m *MockLogger) Has(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), substr) {
			return true
		}
	}
	return false
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockProber implements probe.ProberInterface.
type MockProber struct {
	mu     sync.Mutex
	Alive  bool
	Calls  int
	Method string
}

func (m *MockProber) IsAlive(_ context.Context, _ string, method string, _ time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Method = method
	return m.Alive
}

// MockSender implements wol.SenderInterface.
type MockSender struct {
	mu   sync.Mutex
	Err  error
	Sent []string
}

func (m *MockSender) Send(_ context.Context, macAddress string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, macAddress)
	return m.Err
}

// Attempts counts calls, failed or not.
func (m *MockSender) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// MockSource implements epgstation.SourceInterface.
type MockSource struct {
	Reserves []*models.Reservation
	Err      error
	Calls    int
}

func (m *MockSource) FetchReservations(_ context.Context) ([]*models.Reservation, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Reserves, nil
}

// MockStore implements interfaces.StoreInterface in memory.
type MockStore struct {
	mu        sync.Mutex
	Snapshot  *models.Snapshot
	LoadErr   error
	SaveErr   error
	Loads     int
	Saves     int
	Previous  []*models.Snapshot
	StorePath string
}

func (m *MockStore) Load() (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Snapshot, nil
}

func (m *MockStore) Update(_ context.Context, fn interfaces.UpdateFunc) error {
	snap, err := m.Load()
	if err != nil {
		return err
	}
	changed, err := fn(snap)
	if err != nil || !changed {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	return nil
}

func (m *MockStore) Replace(_ context.Context, build interfaces.BuildFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var previous *models.Snapshot
	if m.LoadErr == nil {
		previous = m.Snapshot
	}
	next := build(previous)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Previous = append(m.Previous, previous)
	m.Snapshot = next
	m.Saves++
	return nil
}

func (m *MockStore) Path() string {
	return m.StorePath
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	CheckRuns           map[string]int
	PacketsSent         int
	SendFailures        int
	FlagsMarked         int
	SnapshotAge         time.Duration
	RefreshRuns         map[string]int
	RefreshReservations int
	RefreshDurations    int
	StatusRequests      map[string]int
	CacheHits           int
	CacheMisses         int
	Flushes             int
}

func (m *MockMetrics) IncCheckRuns(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CheckRuns == nil {
		m.CheckRuns = make(map[string]int)
	}
	m.CheckRuns[outcome]++
}

func (m *MockMetrics) IncPacketsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PacketsSent++
}

func (m *MockMetrics) IncSendFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFailures++
}

func (m *MockMetrics) AddFlagsMarked(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FlagsMarked += count
}

func (m *MockMetrics) SetSnapshotAge(age time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotAge = age
}

func (m *MockMetrics) IncRefreshRuns(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RefreshRuns == nil {
		m.RefreshRuns = make(map[string]int)
	}
	m.RefreshRuns[result]++
}

func (m *MockMetrics) SetRefreshReservations(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshReservations = count
}

func (m *MockMetrics) ObserveRefreshDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshDurations++
}

func (m *MockMetrics) IncStatusRequests(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatusRequests == nil {
		m.StatusRequests = make(map[string]int)
	}
	m.StatusRequests[fmt.Sprintf("%s %d", endpoint, status)]++
}

func (m *MockMetrics) IncLivenessCacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.CacheHits++
	} else {
		m.CacheMisses++
	}
}

func (m *MockMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# mock metrics\n"))
	})
}

func (m *MockMetrics) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
	return nil
}
