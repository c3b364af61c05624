package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/structures"
)

// Notifier receives outbound notification requests. Implementations
// must not block; delivery failures are their own problem and never
// reach the award pipeline.
type Notifier interface {
	NotifyLevelUp(userID int64, level int)
	NotifyPrestige(userID int64, prestige int)
	ReportDailyStats(date string, ended models.DailySummary, previous *models.DailySummary)
}

type NoopNotifier struct{}

func (NoopNotifier) NotifyLevelUp(int64, int)                                           {}
func (NoopNotifier) NotifyPrestige(int64, int)                                          {}
func (NoopNotifier) ReportDailyStats(string, models.DailySummary, *models.DailySummary) {}

type ProfileView struct {
	UserID          int64    `json:"user_id"`
	Xp              float64  `json:"xp"`
	Level           int      `json:"level"`
	Prestige        int      `json:"prestige"`
	MessageCount    int64    `json:"message_count"`
	VoiceMinutes    float64  `json:"voice_minutes"`
	DailyStreak     int      `json:"daily_streak"`
	Rank            int      `json:"rank"`
	Progress        float64  `json:"progress"`
	NextRequirement float64  `json:"next_requirement"`
	Achievements    []string `json:"achievements"`
}

type EngagementServiceInterface interface {
	OnMessage(userID int64, now time.Time)
	OnVoiceJoin(userID int64, now time.Time)
	OnVoiceLeave(userID int64, now time.Time)
	OnMemberJoin(now time.Time)
	Profile(userID int64) ProfileView
	SetNotifier(n Notifier)
}

// EngagementService is the XP award pipeline. Its mutex is the single
// mutation boundary for engine state: every inbound event runs through
// it one at a time, so no two mutations of the same user interleave.
type EngagementService struct {
	mu       sync.Mutex
	cfg      structures.XpConfig
	store    *models.Store
	leveling LevelingServiceInterface
	board    LeaderboardServiceInterface
	daily    DailyStatsServiceInterface
	notifier Notifier

	chance    func() float64
	bonusRoll func(min, max int) int
}

func NewEngagementService(conf *structures.Config, store *models.Store, leveling LevelingServiceInterface, board LeaderboardServiceInterface, daily DailyStatsServiceInterface) EngagementServiceInterface {
	return &EngagementService{
		cfg:      conf.Xp,
		store:    store,
		leveling: leveling,
		board:    board,
		daily:    daily,
		notifier: NoopNotifier{},
		chance:   rand.Float64,
		bonusRoll: func(min, max int) int {
			if max <= min {
				return min
			}
			return min + rand.Intn(max-min+1)
		},
	}
}

// SetNotifier wires the transport after construction; the transport
// itself depends on this service, so constructor injection would cycle.
func (es *EngagementService) SetNotifier(n Notifier) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if n != nil {
		es.notifier = n
	}
}

// OnMessage processes one qualifying guild message: total counter,
// first-message achievement, antispam cooldown, XP with daily and
// streak bonuses, and the resulting notification.
func (es *EngagementService) OnMessage(userID int64, now time.Time) {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.store.IncTotalMessages()

	var (
		awarded    float64
		leveledUp  bool
		prestiged  bool
		newLevel   int
		prestige   int
		onCooldown bool
	)
	today := models.DayKey(now)
	yesterday := models.PrevDayKey(now)

	es.store.UpdateUser(userID, func(u *models.UserProgress) {
		if u.MessageCount == 0 {
			u.Grant(models.AchFirstMessage)
		}
		if !u.LastMessageAt.IsZero() && now.Sub(u.LastMessageAt) < es.cfg.AntispamCooldown {
			onCooldown = true
			return
		}
		awarded = es.messageXp(u, today, yesterday)
		leveledUp, newLevel, prestiged = es.addXp(u, awarded)
		u.MessageCount++
		u.LastMessageAt = now
		prestige = u.Prestige
	})
	if onCooldown {
		return
	}

	es.daily.Record(DailyUpdate{
		UserID:   userID,
		Messages: 1,
		Xp:       awarded,
		LevelUp:  leveledUp,
		Prestige: prestiged,
	}, now)

	if prestiged {
		es.notifier.NotifyPrestige(userID, prestige)
	} else if leveledUp {
		es.notifier.NotifyLevelUp(userID, newLevel)
	}

	if es.board.Rank(userID) <= 3 {
		es.store.UpdateUser(userID, func(u *models.UserProgress) {
			u.Grant(models.AchTop3)
		})
	}
}

func (es *EngagementService) OnVoiceJoin(userID int64, now time.Time) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.store.StartVoice(userID, now)
}

// OnVoiceLeave closes the session and converts it to XP when it lasted
// at least one minute. Shorter sessions still close, granting nothing.
func (es *EngagementService) OnVoiceLeave(userID int64, now time.Time) {
	es.mu.Lock()
	defer es.mu.Unlock()

	start, ok := es.store.EndVoice(userID)
	if !ok {
		return
	}
	minutes := now.Sub(start).Minutes()
	if minutes < 1 {
		return
	}

	awarded := minutes * es.cfg.VoiceXpPerMinute
	var (
		leveledUp bool
		prestiged bool
		newLevel  int
		prestige  int
	)
	es.store.UpdateUser(userID, func(u *models.UserProgress) {
		u.VoiceMinutes += minutes
		leveledUp, newLevel, prestiged = es.addXp(u, awarded)
		prestige = u.Prestige
	})

	es.daily.Record(DailyUpdate{
		UserID:       userID,
		Xp:           awarded,
		VoiceMinutes: minutes,
		LevelUp:      leveledUp,
		Prestige:     prestiged,
	}, now)

	if prestiged {
		es.notifier.NotifyPrestige(userID, prestige)
	} else if leveledUp {
		es.notifier.NotifyLevelUp(userID, newLevel)
	}
}

func (es *EngagementService) OnMemberJoin(now time.Time) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.daily.Record(DailyUpdate{NewMember: true}, now)
}

// messageXp computes the award for one message and advances the daily
// streak. The daily and streak multipliers compose multiplicatively;
// the random bonus is added after multipliers and is not itself
// multiplied.
func (es *EngagementService) messageXp(u *models.UserProgress, today, yesterday string) float64 {
	multiplier := 1.0
	if u.LastDailyDate != today {
		multiplier = es.cfg.DailyBonusMultiplier
		if u.LastDailyDate == yesterday {
			u.DailyStreak++
		} else {
			u.DailyStreak = 1
		}
		u.LastDailyDate = today
	}
	if u.DailyStreak >= es.cfg.StreakBonusDays {
		multiplier *= es.cfg.StreakBonusMultiplier
	}

	bonus := 0.0
	if es.chance() < es.cfg.BonusXpChance {
		bonus = float64(es.bonusRoll(es.cfg.BonusXpMin, es.cfg.BonusXpMax))
	}
	return es.cfg.BaseMessageXp*multiplier + bonus
}

// addXp applies one award to the user's XP and level, evaluates
// achievements against the post-update state, and performs at most one
// prestige transition no matter how far the award overshoots the
// threshold. Overflow XP above the threshold is discarded on reset.
func (es *EngagementService) addXp(u *models.UserProgress, amount float64) (leveledUp bool, newLevel int, prestiged bool) {
	if amount < 0 {
		amount = 0
	}
	oldLevel := u.Level
	u.Xp += amount
	u.Level = es.leveling.LevelFromXp(u.Xp)

	EvaluateAchievements(u)

	threshold := es.leveling.PrestigeThreshold()
	if u.Level >= threshold && oldLevel < threshold {
		u.Prestige++
		u.Xp = 0
		u.Level = 0
		u.Grant(models.AchFirstPrestige)
		return false, 0, true
	}
	return u.Level > oldLevel, u.Level, false
}

// Profile assembles the read view used by the profile command and HTTP
// endpoint. Unknown users come back zero-valued, never as an error.
func (es *EngagementService) Profile(userID int64) ProfileView {
	u := es.store.User(userID)
	progress, next := es.leveling.ProgressInLevel(u.Xp, u.Level)
	return ProfileView{
		UserID:          userID,
		Xp:              u.Xp,
		Level:           u.Level,
		Prestige:        u.Prestige,
		MessageCount:    u.MessageCount,
		VoiceMinutes:    u.VoiceMinutes,
		DailyStreak:     u.DailyStreak,
		Rank:            es.board.Rank(userID),
		Progress:        progress,
		NextRequirement: next,
		Achievements:    u.AchievementList(),
	}
}
