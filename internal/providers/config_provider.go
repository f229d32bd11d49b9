package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"emt/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "EMT_LOG_LEVEL")
	viper.BindEnv("store.backend", "EMT_STORE_BACKEND")
	viper.BindEnv("store.redis.addr", "EMT_REDIS_ADDR")
	viper.BindEnv("trending.interval", "EMT_TRENDING_INTERVAL")
	viper.BindEnv("trending.topN", "EMT_TRENDING_TOP_N")
	viper.BindEnv("cache.enabled", "EMT_CACHE_ENABLED")
	viper.BindEnv("cache.size", "EMT_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "EngagementMetricsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyDefaults(conf *structures.Config) {
	if conf.Trending.TopN == 0 {
		conf.Trending.TopN = 5
	}
	if conf.Trending.Deadline <= 0 {
		conf.Trending.Deadline = 30 * time.Second
	}
	if conf.Cache.TTL <= 0 {
		conf.Cache.TTL = 60
	}
	if conf.Store.Backend == "redis" && conf.Store.Redis.OpTimeout <= 0 {
		conf.Store.Redis.OpTimeout = 2 * time.Second
	}
}
