package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUser_CreatesOnFirstTouch(t *testing.T) {
	s := NewStore()
	s.UpdateUser(1, func(u *UserProgress) { u.Xp = 10 })

	assert.True(t, s.HasUser(1))
	assert.Equal(t, 10.0, s.User(1).Xp)
	assert.Equal(t, 1, s.UserCount())
}

func TestUser_UnknownIsZeroValued(t *testing.T) {
	s := NewStore()
	u := s.User(42)
	assert.Equal(t, 0.0, u.Xp)
	assert.Equal(t, 0, u.Level)
	assert.False(t, s.HasUser(42))
}

func TestUser_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.UpdateUser(1, func(u *UserProgress) {
		u.Xp = 10
		u.Grant(AchFirstMessage)
	})

	u := s.User(1)
	u.Xp = 999
	u.Grant(AchTop3)

	fresh := s.User(1)
	assert.Equal(t, 10.0, fresh.Xp)
	assert.Equal(t, []string{AchFirstMessage}, fresh.AchievementList())
}

func TestUserIDs_FirstSeenOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []int64{9, 2, 7} {
		s.UpdateUser(id, func(*UserProgress) {})
	}
	assert.Equal(t, []int64{9, 2, 7}, s.UserIDs())
}

func TestGrant_Idempotent(t *testing.T) {
	u := NewUserProgress()
	assert.True(t, u.Grant(Ach100Xp))
	assert.False(t, u.Grant(Ach100Xp))
	assert.Equal(t, []string{Ach100Xp}, u.AchievementList())
}

func TestVoiceSessions_EndConsumes(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.StartVoice(1, at)
	assert.Equal(t, 1, s.OpenVoiceSessions())

	start, ok := s.EndVoice(1)
	require.True(t, ok)
	assert.Equal(t, at, start)
	assert.Equal(t, 0, s.OpenVoiceSessions())

	_, ok = s.EndVoice(1)
	assert.False(t, ok)
}

func TestEnsureDay_FreezesPreviousOnce(t *testing.T) {
	s := NewStore()
	s.UpdateDaily("2026-03-01", func(d *DailyStats) {
		d.Messages = 3
		d.ActiveUsers[1] = struct{}{}
	})

	assert.True(t, s.EnsureDay("2026-03-02"))
	assert.False(t, s.EnsureDay("2026-03-02"))

	sum := s.HistorySummary("2026-03-01")
	require.NotNil(t, sum)
	assert.Equal(t, int64(3), sum.Messages)
	assert.Equal(t, 1, sum.ActiveUsers)
}

func TestEnsureDay_FirstDayNothingToFreeze(t *testing.T) {
	s := NewStore()
	assert.False(t, s.EnsureDay("2026-03-01"))
	assert.Equal(t, 0, s.HistoryLen())
}

func TestEnsureDay_QuietDayStillFrozen(t *testing.T) {
	s := NewStore()
	s.EnsureDay("2026-01-01")

	assert.True(t, s.EnsureDay("2026-01-02"))
	sum := s.HistorySummary("2026-01-01")
	require.NotNil(t, sum)
	assert.Equal(t, int64(0), sum.Messages)
	assert.Equal(t, 0, sum.ActiveUsers)
}

func TestUpdateDaily_RollsOverBeforeApplying(t *testing.T) {
	s := NewStore()
	s.UpdateDaily("2026-03-01", func(d *DailyStats) { d.Messages = 5 })
	s.UpdateDaily("2026-03-02", func(d *DailyStats) { d.Messages = 1 })

	assert.Equal(t, int64(1), s.Daily().Messages)
	require.NotNil(t, s.HistorySummary("2026-03-01"))
}

func TestTotals(t *testing.T) {
	s := NewStore()
	s.UpdateUser(1, func(u *UserProgress) { u.Xp = 10; u.VoiceMinutes = 5; u.Prestige = 1 })
	s.UpdateUser(2, func(u *UserProgress) { u.Xp = 20; u.VoiceMinutes = 15 })

	xp, voice, prestiges := s.Totals()
	assert.Equal(t, 30.0, xp)
	assert.Equal(t, 20.0, voice)
	assert.Equal(t, 1, prestiges)
}

func TestEventsMessage_Default(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "No upcoming events.", s.EventsMessage())

	s.SetEventsMessage("Game night Friday!")
	assert.Equal(t, "Game night Friday!", s.EventsMessage())
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := NewStore()
	s.UpdateUser(5, func(u *UserProgress) {
		u.Xp = 120
		u.Level = 4
		u.Prestige = 1
		u.DailyStreak = 3
		u.LastDailyDate = "2026-03-01"
		u.MessageCount = 40
		u.VoiceMinutes = 90
		u.Grant(Ach100Xp)
		u.Grant(AchVoiceHour)
	})
	s.SetEventsMessage("Movie night")
	s.IncTotalMessages()
	s.UpdateDaily("2026-03-01", func(d *DailyStats) {
		d.Messages = 7
		d.XpGained = 14
		d.ActiveUsers[5] = struct{}{}
	})
	s.EnsureDay("2026-03-02")
	s.UpdateDaily("2026-03-02", func(d *DailyStats) { d.Messages = 1 })

	restored := NewStore()
	restored.PutSnapshot(s.GetSnapshot())

	u := restored.User(5)
	assert.Equal(t, 120.0, u.Xp)
	assert.Equal(t, 4, u.Level)
	assert.Equal(t, 1, u.Prestige)
	assert.Equal(t, 3, u.DailyStreak)
	assert.Equal(t, "2026-03-01", u.LastDailyDate)
	assert.Equal(t, int64(40), u.MessageCount)
	assert.Equal(t, 90.0, u.VoiceMinutes)
	assert.ElementsMatch(t, []string{Ach100Xp, AchVoiceHour}, u.AchievementList())

	assert.Equal(t, "Movie night", restored.EventsMessage())
	assert.Equal(t, int64(1), restored.TotalMessages())
	assert.Equal(t, int64(1), restored.Daily().Messages)

	sum := restored.HistorySummary("2026-03-01")
	require.NotNil(t, sum)
	assert.Equal(t, int64(7), sum.Messages)
	assert.Equal(t, 1, sum.ActiveUsers)
}

func TestPutSnapshot_RebuildsOrderAscending(t *testing.T) {
	s := NewStore()
	for _, id := range []int64{9, 2, 7} {
		s.UpdateUser(id, func(u *UserProgress) { u.Xp = 1 })
	}

	restored := NewStore()
	restored.PutSnapshot(s.GetSnapshot())
	assert.Equal(t, []int64{2, 7, 9}, restored.UserIDs())
}

func TestPutSnapshot_SkipsMalformedKeys(t *testing.T) {
	snap := NewSnapshot()
	snap.UserXp["not-a-number"] = 50
	snap.UserXp["3"] = 10

	s := NewStore()
	s.PutSnapshot(snap)
	assert.Equal(t, 1, s.UserCount())
	assert.Equal(t, 10.0, s.User(3).Xp)
}

func TestPutSnapshot_DeduplicatesAchievements(t *testing.T) {
	snap := NewSnapshot()
	snap.UserAchievements["1"] = []string{Ach100Xp, Ach100Xp, AchTop3}

	s := NewStore()
	s.PutSnapshot(snap)
	assert.ElementsMatch(t, []string{Ach100Xp, AchTop3}, s.User(1).AchievementList())
}

func TestPutSnapshot_EmptyEventsRestoresDefault(t *testing.T) {
	s := NewStore()
	s.PutSnapshot(NewSnapshot())
	assert.Equal(t, "No upcoming events.", s.EventsMessage())
}

func TestGetSnapshot_ActiveUsersSorted(t *testing.T) {
	s := NewStore()
	s.UpdateDaily("2026-03-01", func(d *DailyStats) {
		d.ActiveUsers[30] = struct{}{}
		d.ActiveUsers[4] = struct{}{}
		d.ActiveUsers[100] = struct{}{}
	})

	snap := s.GetSnapshot()
	require.NotNil(t, snap.DailyStats)
	assert.Equal(t, []string{"100", "30", "4"}, snap.DailyStats.ActiveUsers)
}

func TestDayKey(t *testing.T) {
	at := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-01", DayKey(at))
	assert.Equal(t, "2026-02-28", PrevDayKey(at))
}
