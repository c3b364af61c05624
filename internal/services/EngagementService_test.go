package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itkutus/potbot/internal/models"
)

type engineFixture struct {
	store      *models.Store
	leveling   LevelingServiceInterface
	board      LeaderboardServiceInterface
	daily      DailyStatsServiceInterface
	engagement *EngagementService
}

func newEngine() *engineFixture {
	conf := testConfig()
	store := models.NewStore()
	leveling := NewLevelingService(conf)
	board := NewLeaderboardService(conf, store, leveling)
	daily := NewDailyStatsService(store)
	es := NewEngagementService(conf, store, leveling, board, daily).(*EngagementService)
	return &engineFixture{
		store:      store,
		leveling:   leveling,
		board:      board,
		daily:      daily,
		engagement: es,
	}
}

var noon = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestOnMessage_FirstMessageOfDay(t *testing.T) {
	f := newEngine()
	f.engagement.OnMessage(1, noon)

	u := f.store.User(1)
	// Base 2 with the first-of-day 1.5x multiplier
	assert.Equal(t, 3.0, u.Xp)
	assert.Equal(t, int64(1), u.MessageCount)
	assert.Equal(t, 1, u.DailyStreak)
	assert.Equal(t, models.DayKey(noon), u.LastDailyDate)
	assert.Contains(t, u.AchievementList(), models.AchFirstMessage)
}

func TestOnMessage_SecondMessageSameDayNoMultiplier(t *testing.T) {
	f := newEngine()
	f.engagement.OnMessage(1, noon)
	f.engagement.OnMessage(1, noon.Add(10*time.Second))

	u := f.store.User(1)
	assert.Equal(t, 5.0, u.Xp)
	assert.Equal(t, int64(2), u.MessageCount)
}

func TestOnMessage_CooldownAwardsNothing(t *testing.T) {
	f := newEngine()
	f.engagement.OnMessage(1, noon)
	f.engagement.OnMessage(1, noon.Add(2*time.Second))

	u := f.store.User(1)
	assert.Equal(t, 3.0, u.Xp)
	assert.Equal(t, int64(1), u.MessageCount)
	// The total counter still moves; the award pipeline does not.
	assert.Equal(t, int64(2), f.store.TotalMessages())
}

func TestOnMessage_CooldownKeepsLastMessageAt(t *testing.T) {
	f := newEngine()
	f.engagement.OnMessage(1, noon)
	f.engagement.OnMessage(1, noon.Add(4*time.Second))
	// 4s+4s from the first accepted message: past the 5s window
	f.engagement.OnMessage(1, noon.Add(8*time.Second))

	u := f.store.User(1)
	assert.Equal(t, int64(2), u.MessageCount)
}

func TestOnMessage_StreakContinuesFromYesterday(t *testing.T) {
	f := newEngine()
	f.store.UpdateUser(1, func(u *models.UserProgress) {
		u.LastDailyDate = models.PrevDayKey(noon)
		u.DailyStreak = 3
	})
	f.engagement.OnMessage(1, noon)

	assert.Equal(t, 4, f.store.User(1).DailyStreak)
}

func TestOnMessage_StreakResetsAfterGap(t *testing.T) {
	f := newEngine()
	f.store.UpdateUser(1, func(u *models.UserProgress) {
		u.LastDailyDate = "2026-02-20"
		u.DailyStreak = 12
	})
	f.engagement.OnMessage(1, noon)

	assert.Equal(t, 1, f.store.User(1).DailyStreak)
}

func TestOnMessage_StreakBonusStacksWithDaily(t *testing.T) {
	f := newEngine()
	f.store.UpdateUser(1, func(u *models.UserProgress) {
		u.LastDailyDate = models.PrevDayKey(noon)
		u.DailyStreak = 6
		u.MessageCount = 1
	})
	f.engagement.OnMessage(1, noon)

	u := f.store.User(1)
	assert.Equal(t, 7, u.DailyStreak)
	// 2 * 1.5 (daily) * 2.0 (streak at 7 days)
	assert.Equal(t, 6.0, u.Xp)
}

func TestOnMessage_BonusXpAddedAfterMultipliers(t *testing.T) {
	f := newEngine()
	f.engagement.cfg.BonusXpChance = 1
	f.engagement.chance = func() float64 { return 0 }
	f.engagement.bonusRoll = func(min, max int) int { return 4 }

	f.engagement.OnMessage(1, noon)

	// 2 * 1.5 + 4: the roll is not multiplied
	assert.Equal(t, 7.0, f.store.User(1).Xp)
}

func TestOnMessage_RecordsDailyStats(t *testing.T) {
	f := newEngine()
	f.engagement.OnMessage(1, noon)
	f.engagement.OnMessage(2, noon)

	daily := f.store.Daily()
	assert.Equal(t, int64(2), daily.Messages)
	assert.Equal(t, 6.0, daily.XpGained)
	assert.Len(t, daily.ActiveUsers, 2)
}

func TestOnMessage_NotifiesLevelUp(t *testing.T) {
	f := newEngine()
	notifier := &recordingNotifier{}
	f.engagement.SetNotifier(notifier)
	f.store.UpdateUser(1, func(u *models.UserProgress) {
		u.Xp = 14
		u.MessageCount = 5
	})

	f.engagement.OnMessage(1, noon)

	require.Len(t, notifier.levelUps, 1)
	assert.Equal(t, 1, notifier.levelUps[0])
	assert.Empty(t, notifier.prestiges)
}

func TestOnMessage_GrantsTop3(t *testing.T) {
	f := newEngine()
	f.engagement.OnMessage(1, noon)
	assert.Contains(t, f.store.User(1).AchievementList(), models.AchTop3)
}

func TestOnVoiceLeave_AwardsXpPerMinute(t *testing.T) {
	f := newEngine()
	f.engagement.OnVoiceJoin(1, noon)
	f.engagement.OnVoiceLeave(1, noon.Add(30*time.Minute))

	u := f.store.User(1)
	assert.Equal(t, 30.0, u.VoiceMinutes)
	assert.Equal(t, 9.0, u.Xp)

	daily := f.store.Daily()
	assert.Equal(t, 30.0, daily.VoiceMinutes)
	assert.Equal(t, 9.0, daily.XpGained)
}

func TestOnVoiceLeave_UnderOneMinuteClosesSilently(t *testing.T) {
	f := newEngine()
	f.engagement.OnVoiceJoin(1, noon)
	f.engagement.OnVoiceLeave(1, noon.Add(30*time.Second))

	assert.Equal(t, 0.0, f.store.User(1).Xp)
	assert.Equal(t, 0, f.store.OpenVoiceSessions())

	// Session is consumed; a second leave is a no-op.
	f.engagement.OnVoiceLeave(1, noon.Add(2*time.Hour))
	assert.Equal(t, 0.0, f.store.User(1).Xp)
}

func TestOnVoiceLeave_WithoutJoinIsNoop(t *testing.T) {
	f := newEngine()
	f.engagement.OnVoiceLeave(1, noon)
	assert.False(t, f.store.HasUser(1))
}

func TestOnVoiceLeave_HourUnlocksAchievement(t *testing.T) {
	f := newEngine()
	f.engagement.OnVoiceJoin(1, noon)
	f.engagement.OnVoiceLeave(1, noon.Add(time.Hour))

	assert.Contains(t, f.store.User(1).AchievementList(), models.AchVoiceHour)
}

func TestOnMemberJoin_CountsWithoutActiveUser(t *testing.T) {
	f := newEngine()
	f.engagement.OnMemberJoin(noon)

	daily := f.store.Daily()
	assert.Equal(t, 1, daily.NewMembers)
	assert.Empty(t, daily.ActiveUsers)
}

func TestAddXp_PrestigeFiresOnceAndResets(t *testing.T) {
	f := newEngine()
	var u models.UserProgress
	leveledUp, newLevel, prestiged := false, 0, false
	f.store.UpdateUser(1, func(up *models.UserProgress) {
		// Overshoot the full climb several times over in one award
		leveledUp, newLevel, prestiged = f.engagement.addXp(up, f.leveling.PrestigeBonus()*3)
		u = *up
	})

	assert.True(t, prestiged)
	assert.False(t, leveledUp)
	assert.Equal(t, 0, newLevel)
	assert.Equal(t, 1, u.Prestige)
	assert.Equal(t, 0.0, u.Xp)
	assert.Equal(t, 0, u.Level)
}

func TestAddXp_PrestigeGrantsAchievement(t *testing.T) {
	f := newEngine()
	f.store.UpdateUser(1, func(u *models.UserProgress) {
		f.engagement.addXp(u, f.leveling.PrestigeBonus())
	})
	assert.Contains(t, f.store.User(1).AchievementList(), models.AchFirstPrestige)
}

func TestAddXp_NegativeAmountClamped(t *testing.T) {
	f := newEngine()
	f.store.UpdateUser(1, func(u *models.UserProgress) {
		u.Xp = 40
		u.Level = 2
		f.engagement.addXp(u, -100)
	})

	u := f.store.User(1)
	assert.Equal(t, 40.0, u.Xp)
	assert.Equal(t, 2, u.Level)
}

func TestProfile_UnknownUserZeroValued(t *testing.T) {
	f := newEngine()
	p := f.engagement.Profile(42)

	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, 0.0, p.Xp)
	assert.Equal(t, 0, p.Level)
	assert.Equal(t, 1, p.Rank)
	assert.False(t, f.store.HasUser(42))
}

func TestProfile_ReflectsProgress(t *testing.T) {
	f := newEngine()
	f.store.UpdateUser(1, func(u *models.UserProgress) {
		u.Xp = 20
		u.Level = 1
	})
	p := f.engagement.Profile(1)

	assert.Equal(t, 5.0, p.Progress)
	assert.Equal(t, 21.0, p.NextRequirement)
}

func TestSetNotifier_NilKeepsNoop(t *testing.T) {
	f := newEngine()
	f.engagement.SetNotifier(nil)
	// Must not panic on delivery
	f.engagement.OnMessage(1, noon)
}

type recordingNotifier struct {
	levelUps  []int
	prestiges []int
}

func (r *recordingNotifier) NotifyLevelUp(_ int64, level int) {
	r.levelUps = append(r.levelUps, level)
}

func (r *recordingNotifier) NotifyPrestige(_ int64, prestige int) {
	r.prestiges = append(r.prestiges, prestige)
}

func (r *recordingNotifier) ReportDailyStats(string, models.DailySummary, *models.DailySummary) {}
