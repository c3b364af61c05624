package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type DiscordConfig struct {
	Token           string `yaml:"token" validate:"required"`
	Prefix          string `yaml:"prefix" validate:"required"`
	GreetingChannel string `yaml:"greetingChannel"`
	StatsChannel    string `yaml:"statsChannel"`
	AdminUserID     int64  `yaml:"adminUserId"`
}

type XpConfig struct {
	BaseMessageXp         float64       `yaml:"baseMessageXp" validate:"required|min:0"`
	BonusXpChance         float64       `yaml:"bonusXpChance"`
	BonusXpMin            int           `yaml:"bonusXpMin"`
	BonusXpMax            int           `yaml:"bonusXpMax"`
	VoiceXpPerMinute      float64       `yaml:"voiceXpPerMinute"`
	DailyBonusMultiplier  float64       `yaml:"dailyBonusMultiplier"`
	StreakBonusDays       int           `yaml:"streakBonusDays"`
	StreakBonusMultiplier float64       `yaml:"streakBonusMultiplier"`
	AntispamCooldown      time.Duration `yaml:"antispamCooldown"`
}

type LevelingConfig struct {
	BaseRequirement   float64 `yaml:"baseRequirement" validate:"required|min:1"`
	Multiplier        float64 `yaml:"multiplier" validate:"required"`
	PrestigeThreshold int     `yaml:"prestigeThreshold" validate:"required|uint|min:1"`
}

type LeaderboardConfig struct {
	VoiceWeightFactor float64 `yaml:"voiceWeightFactor"`
	TopLimit          int     `yaml:"topLimit"`
}

type StatsConfig struct {
	CheckInterval time.Duration `yaml:"checkInterval" validate:"required|min:1"`
	TopCount      int           `yaml:"topCount"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type WeatherConfig struct {
	Enabled  bool          `yaml:"enabled"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Discord     DiscordConfig     `yaml:"discord"`
	Xp          XpConfig          `yaml:"xp"`
	Leveling    LevelingConfig    `yaml:"leveling"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Stats       StatsConfig       `yaml:"stats"`
	WebServer   Server            `yaml:"webServer"`
	Persistence Persistence       `yaml:"persistence"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Weather     WeatherConfig     `yaml:"weather"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
