package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/itkutus/potbot/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("discord.token", "POTBOT_DISCORD_TOKEN")
	viper.BindEnv("discord.adminUserId", "POTBOT_ADMIN_USER_ID")
	viper.BindEnv("logger.level", "POTBOT_LOG_LEVEL")
	viper.BindEnv("persistence.filePath", "POTBOT_DATA_FILE")
	viper.BindEnv("persistence.saveInterval", "POTBOT_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "POTBOT_CACHE_ENABLED")
	viper.BindEnv("cache.size", "POTBOT_CACHE_SIZE")
	viper.BindEnv("metrics.enabled", "POTBOT_METRICS_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PotBot"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
