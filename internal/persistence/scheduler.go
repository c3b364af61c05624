package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"github.com/itkutus/potbot/internal/persistence/interfaces"
	"github.com/itkutus/potbot/internal/providers"
	"github.com/itkutus/potbot/internal/services"
	"github.com/itkutus/potbot/internal/structures"
)

// Scheduler owns the two background activities: the periodic snapshot
// save and the daily stats rollover check. Both serialize behind opsMu
// so a save never races a rollover.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	daily       services.DailyStatsServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	notifier    services.Notifier
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, daily services.DailyStatsServiceInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		daily:       daily,
		fileManager: fileManager,
		metrics:     metrics,
		notifier:    services.NoopNotifier{},
	}
}

// SetNotifier wires the transport after construction, same as the
// engagement service.
func (s *Scheduler) SetNotifier(n services.Notifier) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	if n != nil {
		s.notifier = n
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), s.runSave)
	s.cron.AddFunc(gron.Every(s.config.Stats.CheckInterval), s.runDailyCheck)
	s.cron.Start()
}

func (s *Scheduler) runSave() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
}

// runDailyCheck is date-based and idempotent: if the process was busy
// at midnight, the next tick still rolls the day over.
func (s *Scheduler) runDailyCheck() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	date, ended, previous, rolled := s.daily.CloseDay(time.Now())
	if !rolled {
		return
	}
	s.logger.Infof(providers.TypeApp, "Rolled over %s, requesting stats report", date)
	s.metrics.IncNotifications("daily_report")
	s.notifier.ReportDailyStats(date, ended, previous)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore prepares the snapshot directory and loads the last snapshot.
// An unreadable snapshot is logged and leaves the engine at defaults.
// An unusable snapshot directory is returned as an error: every later
// save would fail the same way, so the caller must treat it as fatal.
func (s *Scheduler) Restore() error {
	path := s.config.Persistence.FilePath
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot directory unavailable: %w", err)
	}
	if err := s.fileManager.LoadFromFile(path); err != nil {
		s.logger.Errorf(providers.TypeApp, "Snapshot restore failed, starting fresh: %s", err)
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting engine state to file...")
	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}
