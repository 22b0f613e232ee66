package providers

import (
	"fmt"
	"path/filepath"
	"sobriety/internal/structures"
	"strings"

	"github.com/spf13/viper"
)

const AppName = "Sobriety"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("display.locale", "en")
	v.SetDefault("display.sortNotes", "desc")
	v.SetDefault("display.sortMilestones", "asc")
	v.SetDefault("store.driver", "file")

	v.BindEnv("logger.level", "SOBRIETY_LOG_LEVEL")
	v.BindEnv("store.driver", "SOBRIETY_STORE_DRIVER")
	v.BindEnv("store.path", "SOBRIETY_STORE_PATH")
	v.BindEnv("cache.enabled", "SOBRIETY_CACHE_ENABLED")
	v.BindEnv("display.locale", "SOBRIETY_LOCALE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
