package services

import "github.com/itkutus/potbot/internal/models"

// achievementRule pairs an achievement id with a predicate over the
// user's current progress. Rules are independent and order-insensitive;
// each is checked unconditionally and granting is idempotent.
type achievementRule struct {
	id  string
	met func(u *models.UserProgress) bool
}

var progressRules = []achievementRule{
	{models.Ach100Xp, func(u *models.UserProgress) bool { return u.Xp >= 100 }},
	{models.Ach1000Xp, func(u *models.UserProgress) bool { return u.Xp >= 1000 }},
	{models.AchLevel10, func(u *models.UserProgress) bool { return u.Level >= 10 }},
	{models.AchLevel25, func(u *models.UserProgress) bool { return u.Level >= 25 }},
	{models.Ach10DayStreak, func(u *models.UserProgress) bool { return u.DailyStreak >= 10 }},
	{models.AchVoiceHour, func(u *models.UserProgress) bool { return u.VoiceMinutes >= 60 }},
}

// EvaluateAchievements checks every rule against the post-update state
// and returns the ids that were newly unlocked.
func EvaluateAchievements(u *models.UserProgress) []string {
	var unlocked []string
	for _, rule := range progressRules {
		if rule.met(u) && u.Grant(rule.id) {
			unlocked = append(unlocked, rule.id)
		}
	}
	return unlocked
}
