package services

import (
	"sort"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/structures"
)

type LeaderboardEntry struct {
	UserID       int64   `json:"user_id"`
	Score        float64 `json:"score"`
	Level        int     `json:"level"`
	Prestige     int     `json:"prestige"`
	Xp           float64 `json:"xp"`
	VoiceMinutes float64 `json:"voice_minutes"`
}

type LeaderboardServiceInterface interface {
	Score(userID int64) float64
	Sorted() []LeaderboardEntry
	Top(n int) []LeaderboardEntry
	Rank(userID int64) int
}

// LeaderboardService derives a composite score from engine state and
// produces a total ordering. It is a read-only view over the store.
type LeaderboardService struct {
	store       *models.Store
	leveling    LevelingServiceInterface
	voiceWeight float64
}

func NewLeaderboardService(conf *structures.Config, store *models.Store, leveling LevelingServiceInterface) LeaderboardServiceInterface {
	return &LeaderboardService{
		store:       store,
		leveling:    leveling,
		voiceWeight: conf.Leaderboard.VoiceWeightFactor,
	}
}

func (lb *LeaderboardService) score(u models.UserProgress) float64 {
	score := u.Xp + u.VoiceMinutes*lb.voiceWeight
	if u.Prestige > 0 {
		score += float64(u.Prestige) * lb.leveling.PrestigeBonus()
	}
	return score
}

func (lb *LeaderboardService) Score(userID int64) float64 {
	return lb.score(lb.store.User(userID))
}

// Sorted returns every user with a positive score, descending. The sort
// is stable over the store's first-seen order, so ties keep a
// deterministic ordering given identical insertion order.
func (lb *LeaderboardService) Sorted() []LeaderboardEntry {
	ids := lb.store.UserIDs()
	entries := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		u := lb.store.User(id)
		score := lb.score(u)
		if score <= 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:       id,
			Score:        score,
			Level:        u.Level,
			Prestige:     u.Prestige,
			Xp:           u.Xp,
			VoiceMinutes: u.VoiceMinutes,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

func (lb *LeaderboardService) Top(n int) []LeaderboardEntry {
	entries := lb.Sorted()
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Rank returns the 1-based leaderboard position. An empty store yields
// rank 1 for any user; a known user with zero score ranks after every
// scored user. Both edges are deliberate and load-bearing for callers.
func (lb *LeaderboardService) Rank(userID int64) int {
	if lb.store.UserCount() == 0 {
		return 1
	}
	entries := lb.Sorted()
	for i, entry := range entries {
		if entry.UserID == userID {
			return i + 1
		}
	}
	return len(entries) + 1
}
