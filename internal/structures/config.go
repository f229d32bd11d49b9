package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	DB        int           `yaml:"db"`
	OpTimeout time.Duration `yaml:"opTimeout"`
}

type MemoryConfig struct {
	FilePath     string        `yaml:"filePath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type StoreConfig struct {
	Backend string       `yaml:"backend" validate:"required|in:memory,redis"`
	Redis   RedisConfig  `yaml:"redis"`
	Memory  MemoryConfig `yaml:"memory"`
}

type TrendingConfig struct {
	Interval time.Duration `yaml:"interval" validate:"required|min:1"`
	Deadline time.Duration `yaml:"deadline"`
	TopN     int           `yaml:"topN"`
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

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Store     StoreConfig    `yaml:"store"`
	Trending  TrendingConfig `yaml:"trending"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}
