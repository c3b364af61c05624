package testutil

import (
	"sync"
	"time"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/providers"
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

// LevelOf returns how many log entries were recorded at a level.
func (m *MockLogger) LevelOf(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockNotifier implements services.Notifier and records every call.
type MockNotifier struct {
	mu           sync.Mutex
	LevelUps     []LevelUpCall
	Prestiges    []PrestigeCall
	DailyReports []DailyReportCall
}

type LevelUpCall struct {
	UserID int64
	Level  int
}

type PrestigeCall struct {
	UserID   int64
	Prestige int
}

type DailyReportCall struct {
	Date     string
	Ended    models.DailySummary
	Previous *models.DailySummary
}

func (m *MockNotifier) NotifyLevelUp(userID int64, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LevelUps = append(m.LevelUps, LevelUpCall{UserID: userID, Level: level})
}

func (m *MockNotifier) NotifyPrestige(userID int64, prestige int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prestiges = append(m.Prestiges, PrestigeCall{UserID: userID, Prestige: prestige})
}

func (m *MockNotifier) ReportDailyStats(date string, ended models.DailySummary, previous *models.DailySummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DailyReports = append(m.DailyReports, DailyReportCall{Date: date, Ended: ended, Previous: previous})
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

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       int
	CacheHits      int
	CacheMisses    int
	Persists       int
	Notifications  map[string]int
	RequestsByPath map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Notifications:  make(map[string]int),
		RequestsByPath: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
	m.RequestsByPath[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

func (m *MockMetrics) IncNotifications(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications[kind]++
}
