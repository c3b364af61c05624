package services

import (
	"time"

	"github.com/itkutus/potbot/internal/models"
)

type DailyStatsServiceInterface interface {
	EnsureCurrentDay(now time.Time) bool
	CloseDay(now time.Time) (date string, ended models.DailySummary, previous *models.DailySummary, rolled bool)
	Record(update DailyUpdate, now time.Time)
	Comparison(now time.Time) (models.DailyStats, *models.DailySummary)
}

// DailyUpdate is one additive contribution to the current day's
// counters. UserID zero means a non-user event (e.g. a member join) and
// is not added to the active set.
type DailyUpdate struct {
	UserID       int64
	Messages     int64
	Xp           float64
	VoiceMinutes float64
	LevelUp      bool
	Prestige     bool
	NewMember    bool
}

// DailyStatsService accumulates per-day counters and rolls them into
// history at date boundaries. Rollover is driven by date comparison, so
// a missed midnight check catches up on the next call.
type DailyStatsService struct {
	store *models.Store
}

func NewDailyStatsService(store *models.Store) DailyStatsServiceInterface {
	return &DailyStatsService{store: store}
}

// EnsureCurrentDay freezes the previous day into history and resets the
// live counters when the calendar date changed. Idempotent within a
// day. Returns true only when a completed day was frozen.
func (ds *DailyStatsService) EnsureCurrentDay(now time.Time) bool {
	return ds.store.EnsureDay(models.DayKey(now))
}

// CloseDay rolls the date over and returns the summary of the day that
// just ended, paired with the day before it for delta reporting. rolled
// is false when no completed day was frozen, in which case there is
// nothing to report.
func (ds *DailyStatsService) CloseDay(now time.Time) (string, models.DailySummary, *models.DailySummary, bool) {
	date, ended, ok := ds.store.RollDay(models.DayKey(now))
	if !ok {
		return "", models.DailySummary{}, nil, false
	}
	return date, *ended, ds.store.HistorySummary(models.DayBefore(date)), true
}

func (ds *DailyStatsService) Record(update DailyUpdate, now time.Time) {
	ds.store.UpdateDaily(models.DayKey(now), func(d *models.DailyStats) {
		d.Messages += update.Messages
		d.XpGained += update.Xp
		d.VoiceMinutes += update.VoiceMinutes
		if update.UserID != 0 {
			d.ActiveUsers[update.UserID] = struct{}{}
		}
		if update.LevelUp {
			d.LevelUps++
		}
		if update.Prestige {
			d.Prestiges++
		}
		if update.NewMember {
			d.NewMembers++
		}
	})
}

// Comparison returns today's live stats and yesterday's frozen summary.
// The summary is nil when yesterday was never recorded, which callers
// treat as "no comparison available" rather than an error.
func (ds *DailyStatsService) Comparison(now time.Time) (models.DailyStats, *models.DailySummary) {
	ds.EnsureCurrentDay(now)
	return ds.store.Daily(), ds.store.HistorySummary(models.PrevDayKey(now))
}
