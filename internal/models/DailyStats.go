package models

import "time"

const dayLayout = "2006-01-02"

// DayKey formats a timestamp as the calendar-date key used for daily
// stats and history entries.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// PrevDayKey returns the key of the calendar day before t.
func PrevDayKey(t time.Time) string {
	return t.AddDate(0, 0, -1).Format(dayLayout)
}

// DayBefore returns the key of the calendar day preceding a date key.
// Malformed keys come back unchanged.
func DayBefore(date string) string {
	t, err := time.Parse(dayLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -1).Format(dayLayout)
}

// DailyStats accumulates the live counters for the current calendar day.
// Counters only grow; the struct is frozen into a DailySummary at the
// next date rollover.
type DailyStats struct {
	Date         string
	Messages     int64
	XpGained     float64
	VoiceMinutes float64
	ActiveUsers  map[int64]struct{}
	LevelUps     int
	Prestiges    int
	NewMembers   int
}

func NewDailyStats(date string) *DailyStats {
	return &DailyStats{
		Date:        date,
		ActiveUsers: make(map[int64]struct{}),
	}
}

func (d *DailyStats) clone() DailyStats {
	cp := *d
	cp.ActiveUsers = make(map[int64]struct{}, len(d.ActiveUsers))
	for id := range d.ActiveUsers {
		cp.ActiveUsers[id] = struct{}{}
	}
	return cp
}

// Summary freezes the day's counters, reducing active users to a count.
func (d *DailyStats) Summary() *DailySummary {
	return &DailySummary{
		Messages:     d.Messages,
		XpGained:     d.XpGained,
		VoiceMinutes: d.VoiceMinutes,
		ActiveUsers:  len(d.ActiveUsers),
		LevelUps:     d.LevelUps,
		Prestiges:    d.Prestiges,
		NewMembers:   d.NewMembers,
	}
}

// DailySummary is a frozen history entry, written exactly once at
// rollover and never mutated again.
type DailySummary struct {
	Messages     int64   `json:"messages"`
	XpGained     float64 `json:"xp_gained"`
	VoiceMinutes float64 `json:"voice_time"`
	ActiveUsers  int     `json:"active_users"`
	LevelUps     int     `json:"level_ups"`
	Prestiges    int     `json:"prestiges"`
	NewMembers   int     `json:"new_members"`
}
