package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itkutus/potbot/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Discord: structures.DiscordConfig{
			Token:  "token",
			Prefix: "!",
		},
		Xp: structures.XpConfig{
			BaseMessageXp:         2,
			BonusXpChance:         0.15,
			BonusXpMin:            1,
			BonusXpMax:            5,
			VoiceXpPerMinute:      0.3,
			DailyBonusMultiplier:  1.5,
			StreakBonusDays:       7,
			StreakBonusMultiplier: 2.0,
			AntispamCooldown:      5 * time.Second,
		},
		Leveling: structures.LevelingConfig{
			BaseRequirement:   15,
			Multiplier:        1.4,
			PrestigeThreshold: 50,
		},
		Stats: structures.StatsConfig{
			CheckInterval: time.Minute,
		},
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/potbot.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyToken(t *testing.T) {
	c := validConfig()
	c.Discord.Token = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MultiplierMustExceedOne(t *testing.T) {
	c := validConfig()
	c.Leveling.Multiplier = 1.0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_BonusRangeInverted(t *testing.T) {
	c := validConfig()
	c.Xp.BonusXpMin = 10
	c.Xp.BonusXpMax = 2
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_BonusChanceOutOfRange(t *testing.T) {
	c := validConfig()
	c.Xp.BonusXpChance = 1.5
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
