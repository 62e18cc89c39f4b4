package config

import (
	"errors"
	"fmt"
)

// Sentinel errors. ErrUnknownStoreDriver also matches ErrInvalidConfig.
var (
	ErrInvalidConfig      = errors.New("invalid config")
	ErrLoadConfig         = errors.New("load config failed")
	ErrUnknownStoreDriver = fmt.Errorf("%w: unknown store_driver", ErrInvalidConfig)
)
