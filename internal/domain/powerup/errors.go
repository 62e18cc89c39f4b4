package powerup

import "errors"

// ErrUnknownKind is returned when a power-up name is not in the catalog.
var ErrUnknownKind = errors.New("unknown power-up kind")
