package services

import (
	"math"
	"sort"

	"github.com/itkutus/potbot/internal/structures"
)

type LevelingServiceInterface interface {
	LevelRequirement(level int) float64
	TotalXpForLevel(level int) float64
	LevelFromXp(xp float64) int
	ProgressInLevel(xp float64, level int) (progress, nextRequirement float64)
	PrestigeThreshold() int
	PrestigeBonus() float64
}

// LevelingService maps XP to levels over a floored exponential
// requirement curve. The domain of levels is small and bounded by the
// prestige threshold, so the cumulative requirements are precomputed
// once; the cumulative table is the single source of truth and
// LevelFromXp inverts exactly it.
type LevelingService struct {
	base       float64
	multiplier float64
	threshold  int
	cumulative []float64
}

func NewLevelingService(conf *structures.Config) LevelingServiceInterface {
	ls := &LevelingService{
		base:       conf.Leveling.BaseRequirement,
		multiplier: conf.Leveling.Multiplier,
		threshold:  conf.Leveling.PrestigeThreshold,
	}
	ls.cumulative = make([]float64, ls.threshold+1)
	for level := 1; level <= ls.threshold; level++ {
		ls.cumulative[level] = ls.cumulative[level-1] + ls.requirement(level)
	}
	return ls
}

func (ls *LevelingService) requirement(level int) float64 {
	return math.Floor(ls.base * math.Pow(ls.multiplier, float64(level-1)))
}

// LevelRequirement returns the XP needed to advance from level-1 to
// level. Zero for level 0 and for levels past the prestige threshold,
// which callers treat as "no further level defined".
func (ls *LevelingService) LevelRequirement(level int) float64 {
	if level <= 0 || level > ls.threshold {
		return 0
	}
	return ls.cumulative[level] - ls.cumulative[level-1]
}

// TotalXpForLevel returns the cumulative XP needed to reach level.
func (ls *LevelingService) TotalXpForLevel(level int) float64 {
	if level <= 0 {
		return 0
	}
	if level > ls.threshold {
		level = ls.threshold
	}
	return ls.cumulative[level]
}

// LevelFromXp returns the largest level whose cumulative requirement
// does not exceed xp, capped at the prestige threshold.
func (ls *LevelingService) LevelFromXp(xp float64) int {
	if xp < 0 {
		return 0
	}
	// sort.Search finds the first level whose requirement exceeds xp.
	n := sort.Search(ls.threshold+1, func(level int) bool {
		return ls.cumulative[level] > xp
	})
	if n > ls.threshold {
		return ls.threshold
	}
	return n - 1
}

// ProgressInLevel reports XP accumulated within the current level and
// the requirement for the next one. A zero requirement means there is
// no further level; callers must not divide by it.
func (ls *LevelingService) ProgressInLevel(xp float64, level int) (float64, float64) {
	return xp - ls.TotalXpForLevel(level), ls.LevelRequirement(level + 1)
}

func (ls *LevelingService) PrestigeThreshold() int {
	return ls.threshold
}

// PrestigeBonus is the full XP cost of reaching the prestige threshold
// once, used by the leaderboard to reward progress lost on reset.
func (ls *LevelingService) PrestigeBonus() float64 {
	return ls.cumulative[ls.threshold]
}
