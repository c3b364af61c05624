package models

const (
	AchFirstMessage  = "first_message"
	Ach100Xp         = "100_xp"
	Ach1000Xp        = "1000_xp"
	AchLevel10       = "level_10"
	AchLevel25       = "level_25"
	AchFirstPrestige = "first_prestige"
	Ach10DayStreak   = "10_day_streak"
	AchVoiceHour     = "voice_hour"
	AchTop3          = "top_3"
)

// AchievementDefinition is immutable reference data for display; user
// state only stores the id.
type AchievementDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

var Achievements = map[string]AchievementDefinition{
	AchFirstMessage:  {Name: "First Steps", Description: "Send your first message", Emoji: "👶"},
	Ach100Xp:         {Name: "Getting Started", Description: "Reach 100 XP", Emoji: "🌱"},
	Ach1000Xp:        {Name: "Experienced", Description: "Reach 1000 XP", Emoji: "💪"},
	AchLevel10:       {Name: "Double Digits", Description: "Reach level 10", Emoji: "🔟"},
	AchLevel25:       {Name: "Quarter Century", Description: "Reach level 25", Emoji: "🎯"},
	AchFirstPrestige: {Name: "Prestige Master", Description: "Achieve your first prestige", Emoji: "⭐"},
	Ach10DayStreak:   {Name: "Dedicated", Description: "Maintain a 10-day streak", Emoji: "🔥"},
	AchVoiceHour:     {Name: "Socializer", Description: "Spend 60 minutes in voice", Emoji: "🎤"},
	AchTop3:          {Name: "Podium Finish", Description: "Reach top 3 on leaderboard", Emoji: "🏆"},
}
