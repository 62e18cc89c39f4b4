package model

import "errors"

// ErrUnknownValue is returned when decoding an enum value that is not declared.
var ErrUnknownValue = errors.New("unknown value")
