package models

import (
	"sort"
	"time"
)

// UserProgress holds one member's accumulated engagement state. Xp and
// Level always reset together on a prestige; Level is never written
// independently of Xp.
type UserProgress struct {
	Xp            float64
	Level         int
	Prestige      int
	MessageCount  int64
	VoiceMinutes  float64
	DailyStreak   int
	LastDailyDate string
	LastMessageAt time.Time
	Achievements  map[string]struct{}
}

func NewUserProgress() *UserProgress {
	return &UserProgress{
		Achievements: make(map[string]struct{}),
	}
}

func (u *UserProgress) HasAchievement(id string) bool {
	_, ok := u.Achievements[id]
	return ok
}

// Grant unlocks an achievement, reporting whether it was newly granted.
// Achievements never shrink, so re-granting is a no-op.
func (u *UserProgress) Grant(id string) bool {
	if u.Achievements == nil {
		u.Achievements = make(map[string]struct{})
	}
	if _, ok := u.Achievements[id]; ok {
		return false
	}
	u.Achievements[id] = struct{}{}
	return true
}

// AchievementList returns the unlocked achievement ids in sorted
// order. A value receiver so it works on the copies Store hands out.
func (u UserProgress) AchievementList() []string {
	list := make([]string, 0, len(u.Achievements))
	for id := range u.Achievements {
		list = append(list, id)
	}
	sort.Strings(list)
	return list
}

func (u *UserProgress) clone() *UserProgress {
	cp := *u
	cp.Achievements = make(map[string]struct{}, len(u.Achievements))
	for id := range u.Achievements {
		cp.Achievements[id] = struct{}{}
	}
	return &cp
}
