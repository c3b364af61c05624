package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/services"
	"github.com/itkutus/potbot/internal/structures"
	"github.com/itkutus/potbot/internal/testutil"
)

func schedulerConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: 1 * time.Second,
		},
		Stats: structures.StatsConfig{
			CheckInterval: 1 * time.Second,
		},
	}
}

func newTestScheduler(path string, store *models.Store) (*Scheduler, *testutil.MockMetrics) {
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)
	daily := services.NewDailyStatsService(store)
	metrics := testutil.NewMockMetrics()
	s := NewScheduler(schedulerConfig(path), logger, daily, fm, metrics).(*Scheduler)
	return s, metrics
}

func TestScheduler_Restore_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restore.dat")

	snap := models.NewSnapshot()
	snap.UserXp["1"] = 42
	jsonData, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, jsonData, 0644))

	store := models.NewStore()
	s, _ := newTestScheduler(path, store)
	require.NoError(t, s.Restore())

	assert.Equal(t, 42.0, store.User(1).Xp)
}

func TestScheduler_Restore_MissingFile(t *testing.T) {
	store := models.NewStore()
	s, _ := newTestScheduler(filepath.Join(t.TempDir(), "missing.dat"), store)
	assert.NoError(t, s.Restore())
	assert.Equal(t, 0, store.UserCount())
}

func TestScheduler_Restore_CreatesSnapshotDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "potbot.dat")

	store := models.NewStore()
	s, _ := newTestScheduler(path, store)
	require.NoError(t, s.Restore())

	// The directory now exists, so the first periodic save can land
	info, err := os.Stat(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, s.Persist())
}

func TestScheduler_Restore_UnusableSnapshotDir(t *testing.T) {
	dir := t.TempDir()
	// A plain file where the snapshot directory should go
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s, _ := newTestScheduler(filepath.Join(blocker, "potbot.dat"), models.NewStore())
	assert.Error(t, s.Restore())
}

func TestScheduler_Restore_CorruptSnapshotStartsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0644))

	store := models.NewStore()
	s, _ := newTestScheduler(path, store)

	assert.NoError(t, s.Restore())
	assert.Equal(t, 0, store.UserCount())
}

func TestScheduler_Persist_WritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.dat")

	store := models.NewStore()
	store.UpdateUser(1, func(u *models.UserProgress) { u.Xp = 10 })
	s, metrics := newTestScheduler(path, store)

	require.NoError(t, s.Persist())
	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.Persists)
}

func TestScheduler_Persist_Error(t *testing.T) {
	store := models.NewStore()
	s, metrics := newTestScheduler("/nonexistent/dir/file.dat", store)

	assert.Error(t, s.Persist())
	assert.Equal(t, 0, metrics.Persists)
}

func TestScheduler_StopWithoutInit(t *testing.T) {
	s, _ := newTestScheduler(filepath.Join(t.TempDir(), "x.dat"), models.NewStore())
	s.Stop() // must not panic
}

func TestScheduler_SetNotifier_NilKeepsNoop(t *testing.T) {
	s, _ := newTestScheduler(filepath.Join(t.TempDir(), "x.dat"), models.NewStore())
	s.SetNotifier(nil)
	assert.NotNil(t, s.notifier)
}

func TestScheduler_RolloverReportsEndedDay(t *testing.T) {
	store := models.NewStore()
	daily := services.NewDailyStatsService(store)
	daily.Record(services.DailyUpdate{UserID: 1, Messages: 3, Xp: 6}, time.Now().AddDate(0, 0, -1))

	s, metrics := newTestScheduler(filepath.Join(t.TempDir(), "x.dat"), store)
	s.daily = daily
	notifier := &testutil.MockNotifier{}
	s.SetNotifier(notifier)

	// Drive the check directly, as the cron would
	s.runDailyCheck()

	require.Len(t, notifier.DailyReports, 1)
	assert.Equal(t, int64(3), notifier.DailyReports[0].Ended.Messages)
	assert.Equal(t, 1, metrics.Notifications["daily_report"])

	// Same day again: nothing new to report
	s.runDailyCheck()
	assert.Len(t, notifier.DailyReports, 1)
}
