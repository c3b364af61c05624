package models

import (
	"strconv"

	"github.com/spf13/cast"
)

// Snapshot is the on-disk persistence format. User-indexed maps are
// keyed by string-encoded integer ids; set-valued fields are serialized
// as ordered lists and deduplicated on load.
type Snapshot struct {
	UserXp              map[string]float64       `json:"user_xp"`
	UserLevel           map[string]int           `json:"user_level"`
	UserPrestige        map[string]int           `json:"user_prestige"`
	UserDailyStreak     map[string]int           `json:"user_daily_streak"`
	UserLastDaily       map[string]string        `json:"user_last_daily"`
	UserMessageCount    map[string]int64         `json:"user_message_count"`
	UserVoiceTime       map[string]float64       `json:"user_voice_time"`
	UserAchievements    map[string][]string      `json:"user_achievements"`
	EventsMessage       string                   `json:"events_message"`
	TotalServerMessages int64                    `json:"total_server_messages"`
	DailyStats          *DailyStatsSnapshot      `json:"daily_stats"`
	DailyHistory        map[string]*DailySummary `json:"daily_history"`
}

// DailyStatsSnapshot carries the live day's counters with active users
// expanded to a list, unlike the frozen history entries which keep only
// the count.
type DailyStatsSnapshot struct {
	Date        string   `json:"date"`
	Messages    int64    `json:"messages"`
	XpGained    float64  `json:"xp_gained"`
	VoiceTime   float64  `json:"voice_time"`
	ActiveUsers []string `json:"active_users"`
	LevelUps    int      `json:"level_ups"`
	Prestiges   int      `json:"prestiges"`
	NewMembers  int      `json:"new_members"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		UserXp:           make(map[string]float64),
		UserLevel:        make(map[string]int),
		UserPrestige:     make(map[string]int),
		UserDailyStreak:  make(map[string]int),
		UserLastDaily:    make(map[string]string),
		UserMessageCount: make(map[string]int64),
		UserVoiceTime:    make(map[string]float64),
		UserAchievements: make(map[string][]string),
		DailyHistory:     make(map[string]*DailySummary),
	}
}

func formatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseUserID(key string) (int64, bool) {
	id := cast.ToInt64(key)
	if id == 0 && key != "0" {
		return 0, false
	}
	return id, true
}
