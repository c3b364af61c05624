package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/itkutus/potbot/internal/models"
	"github.com/itkutus/potbot/internal/providers"
	"github.com/itkutus/potbot/internal/services"
	"github.com/itkutus/potbot/internal/structures"
)

// ApiController exposes the engine's read-only views over HTTP. All
// mutation happens through the chat transport; these endpoints only
// serve formatted engine state.
type ApiController struct {
	logger      providers.Logger
	engagement  services.EngagementServiceInterface
	leaderboard services.LeaderboardServiceInterface
	daily       services.DailyStatsServiceInterface
	cache       providers.CacheProviderInterface
	topLimit    int
	now         func() time.Time
}

func NewApiController(conf *structures.Config, logger providers.Logger, engagement services.EngagementServiceInterface, leaderboard services.LeaderboardServiceInterface, daily services.DailyStatsServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:      logger,
		engagement:  engagement,
		leaderboard: leaderboard,
		daily:       daily,
		cache:       cache,
		topLimit:    conf.Leaderboard.TopLimit,
		now:         time.Now,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "leaderboard", func() (any, error) {
		return ac.leaderboard.Top(ac.topLimit), nil
	})
}

// GetProfile serves a single user's progression. An unknown id yields a
// zero-valued profile, not an error.
func (ac *ApiController) GetProfile(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	userID := cast.ToInt64(idParam)
	if userID == 0 && idParam != "0" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, "profile:"+idParam, func() (any, error) {
		return ac.engagement.Profile(userID), nil
	})
}

type dailyStatsResponse struct {
	Today     dailySnapshot        `json:"today"`
	Yesterday *models.DailySummary `json:"yesterday,omitempty"`
}

type dailySnapshot struct {
	Date         string  `json:"date"`
	Messages     int64   `json:"messages"`
	XpGained     float64 `json:"xp_gained"`
	VoiceMinutes float64 `json:"voice_time"`
	ActiveUsers  int     `json:"active_users"`
	LevelUps     int     `json:"level_ups"`
	Prestiges    int     `json:"prestiges"`
	NewMembers   int     `json:"new_members"`
}

func (ac *ApiController) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "dailystats", func() (any, error) {
		today, yesterday := ac.daily.Comparison(ac.now())
		return dailyStatsResponse{
			Today: dailySnapshot{
				Date:         today.Date,
				Messages:     today.Messages,
				XpGained:     today.XpGained,
				VoiceMinutes: today.VoiceMinutes,
				ActiveUsers:  len(today.ActiveUsers),
				LevelUps:     today.LevelUps,
				Prestiges:    today.Prestiges,
				NewMembers:   today.NewMembers,
			},
			Yesterday: yesterday,
		}, nil
	})
}

func (ac *ApiController) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "achievements", func() (any, error) {
		return models.Achievements, nil
	})
}
