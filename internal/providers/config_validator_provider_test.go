package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"emt/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: structures.StoreConfig{
			Backend: "memory",
			Memory: structures.MemoryConfig{
				FilePath:     "/tmp/emt.dat",
				SaveInterval: 30 * time.Second,
			},
		},
		Trending: structures.TrendingConfig{
			Interval: 5 * time.Minute,
			Deadline: 30 * time.Second,
			TopN:     5,
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

func TestConfigValidator_UnknownBackend(t *testing.T) {
	c := validConfig()
	c.Store.Backend = "cassandra"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RedisBackendNeedsAddr(t *testing.T) {
	c := validConfig()
	c.Store.Backend = "redis"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())

	c.Store.Redis.Addr = "localhost:6379"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_MemoryBackendNeedsFilePath(t *testing.T) {
	c := validConfig()
	c.Store.Memory.FilePath = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MemoryBackendNeedsSaveInterval(t *testing.T) {
	c := validConfig()
	c.Store.Memory.SaveInterval = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_NegativeTopN(t *testing.T) {
	c := validConfig()
	c.Trending.TopN = -1
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
