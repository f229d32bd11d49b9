package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"emt/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	// Cross-field rules the struct tags cannot express.
	switch cv.conf.Store.Backend {
	case "redis":
		if cv.conf.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis backend")
		}
	case "memory":
		if cv.conf.Store.Memory.FilePath == "" {
			return fmt.Errorf("store.memory.filePath is required for the memory backend")
		}
		if cv.conf.Store.Memory.SaveInterval <= 0 {
			return fmt.Errorf("store.memory.saveInterval must be positive")
		}
	}
	if cv.conf.Trending.TopN < 0 {
		return fmt.Errorf("trending.topN must not be negative")
	}
	return nil
}
