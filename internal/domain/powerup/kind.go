// Package powerup implements the consumable power-up inventory.
//
// Duration kinds run on a wall-clock timer once activated; one-shot kinds are
// spent one use at a time. Expiry is pull-based: callers run SweepExpired(now)
// before reading activity, no timers or goroutines are involved.
package powerup

import (
	"fmt"
	"time"
)

// Kind is the closed set of power-ups.
type Kind int

// Power-up kinds.
const (
	DoubleXP Kind = iota + 1
	TimeFreeze
	AccuracyBoost
	ErrorShield
)

// Spec is the behaviour of a kind. A zero Duration marks a one-shot kind.
type Spec struct {
	Name     string
	Title    string
	Duration time.Duration
}

var specs = map[Kind]Spec{
	DoubleXP:      {Name: "double_xp", Title: "Double XP", Duration: 300 * time.Second},
	TimeFreeze:    {Name: "time_freeze", Title: "Time Freeze", Duration: 10 * time.Second},
	AccuracyBoost: {Name: "accuracy_boost", Title: "Accuracy Boost"},
	ErrorShield:   {Name: "error_shield", Title: "Error Shield"},
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{DoubleXP, TimeFreeze, AccuracyBoost, ErrorShield}
}

// Spec returns the behaviour of k.
func (k Kind) Spec() (Spec, bool) {
	s, ok := specs[k]
	return s, ok
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	_, ok := specs[k]
	return ok
}

// Timed reports whether k is a duration kind.
func (k Kind) Timed() bool {
	return specs[k].Duration > 0
}

func (k Kind) String() string {
	if s, ok := specs[k]; ok {
		return s.Name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind name such as "double_xp".
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if specs[k].Name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
