package powerup

import (
	"time"
)

// Slot is the persisted form of one inventory entry.
type Slot struct {
	Kind          Kind       `json:"kind"`
	RemainingUses int        `json:"remainingUses"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

type slot struct {
	uses      int
	active    bool
	expiresAt time.Time
}

// Inventory tracks remaining uses and running timers per kind.
// It is not safe for concurrent use; the owner serialises access.
type Inventory struct {
	slots map[Kind]*slot
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{slots: make(map[Kind]*slot)}
}

func (inv *Inventory) get(k Kind) *slot {
	s, ok := inv.slots[k]
	if !ok {
		s = &slot{}
		inv.slots[k] = s
	}
	return s
}

// Acquire adds uses to k. Purchases of the same kind stack.
func (inv *Inventory) Acquire(k Kind, uses int) bool {
	if !k.Valid() || uses <= 0 {
		return false
	}
	inv.get(k).uses += uses
	return true
}

// Activate starts the timer of a duration kind, spending one use.
// Activating while a timer runs restarts it. One-shot kinds and empty slots
// return false with no effect.
func (inv *Inventory) Activate(k Kind, now time.Time) bool {
	if !k.Timed() {
		return false
	}
	s, ok := inv.slots[k]
	if !ok || s.uses <= 0 {
		return false
	}
	s.uses--
	s.active = true
	s.expiresAt = now.Add(specs[k].Duration)
	return true
}

// ConsumeOneShot spends one use of a one-shot kind.
func (inv *Inventory) ConsumeOneShot(k Kind) bool {
	if !k.Valid() || k.Timed() {
		return false
	}
	s, ok := inv.slots[k]
	if !ok || s.uses <= 0 {
		return false
	}
	s.uses--
	return true
}

// SweepExpired clears the active flag of every timer with expiresAt <= now.
// Remaining uses are kept. It returns the kinds that expired.
func (inv *Inventory) SweepExpired(now time.Time) []Kind {
	var expired []Kind
	for _, k := range Kinds() {
		s, ok := inv.slots[k]
		if !ok || !s.active {
			continue
		}
		if !now.Before(s.expiresAt) {
			s.active = false
			s.expiresAt = time.Time{}
			expired = append(expired, k)
		}
	}
	return expired
}

// IsActive reports whether k currently modulates play. Duration kinds are
// active while their timer runs; one-shot kinds while uses remain.
func (inv *Inventory) IsActive(k Kind, now time.Time) bool {
	s, ok := inv.slots[k]
	if !ok {
		return false
	}
	if k.Timed() {
		return s.active && now.Before(s.expiresAt)
	}
	return s.uses > 0
}

// Remaining returns the unspent uses of k.
func (inv *Inventory) Remaining(k Kind) int {
	if s, ok := inv.slots[k]; ok {
		return s.uses
	}
	return 0
}

// ExpiresAt returns the running timer of k, if any.
func (inv *Inventory) ExpiresAt(k Kind) (time.Time, bool) {
	s, ok := inv.slots[k]
	if !ok || !s.active {
		return time.Time{}, false
	}
	return s.expiresAt, true
}

// Slots returns the non-empty entries in kind order.
func (inv *Inventory) Slots() []Slot {
	out := make([]Slot, 0, len(inv.slots))
	for _, k := range Kinds() {
		s, ok := inv.slots[k]
		if !ok || (s.uses == 0 && !s.active) {
			continue
		}
		entry := Slot{Kind: k, RemainingUses: s.uses}
		if s.active {
			at := s.expiresAt
			entry.ExpiresAt = &at
		}
		out = append(out, entry)
	}
	return out
}

// Restore replaces the inventory with persisted slots. Unknown kinds and
// negative counts are dropped; expiresAt on a one-shot kind is ignored.
func (inv *Inventory) Restore(slots []Slot) {
	inv.Clear()
	for _, in := range slots {
		if !in.Kind.Valid() {
			continue
		}
		s := inv.get(in.Kind)
		if in.RemainingUses > 0 {
			s.uses += in.RemainingUses
		}
		if in.Kind.Timed() && in.ExpiresAt != nil {
			s.active = true
			s.expiresAt = *in.ExpiresAt
		}
	}
}

// Clear empties the inventory, stopping every timer.
func (inv *Inventory) Clear() {
	inv.slots = make(map[Kind]*slot)
}
