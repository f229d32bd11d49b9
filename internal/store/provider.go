package store

import (
	"fmt"

	"emt/internal/providers"
	"emt/internal/structures"
)

// NewEngagementStore builds the configured backend. The handle is owned by
// the process entry point and injected into every component; nothing here
// keeps package-level connection state.
func NewEngagementStore(conf *structures.Config, logger providers.Logger) (EngagementStoreInterface, error) {
	switch conf.Store.Backend {
	case "redis":
		logger.Infof(providers.TypeApp, "Using redis backend at %s (db %d)", conf.Store.Redis.Addr, conf.Store.Redis.DB)
		return NewRedisStore(conf.Store.Redis.Addr, conf.Store.Redis.DB, conf.Store.Redis.OpTimeout)
	case "memory":
		logger.Infof(providers.TypeApp, "Using memory backend, persisted to %s", conf.Store.Memory.FilePath)
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", conf.Store.Backend)
	}
}

// NewInstrumentedEngagementStore wires the configured backend behind the
// per-operation metrics wrapper. With metrics disabled the bare backend is
// returned to keep the hot path free of wrapper calls.
func NewInstrumentedEngagementStore(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (EngagementStoreInterface, error) {
	base, err := NewEngagementStore(conf, logger)
	if err != nil {
		return nil, err
	}
	if !conf.Metrics.Enabled {
		return base, nil
	}
	return NewInstrumentedStore(base, metrics), nil
}
