// Package shop holds the catalog of purchasable items.
package shop

import (
	"github.com/okian/mindarcade/internal/domain/powerup"
)

// Category groups items in the shop UI.
type Category string

// Item categories.
const (
	CategoryPowerUp Category = "powerup"
	CategoryTheme   Category = "theme"
	CategoryAvatar  Category = "avatar"
)

// Item is a catalog entry. Power-up packs grant Uses of PowerUp and can be
// bought again; every other item is owned once.
type Item struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Category Category     `json:"category"`
	Price    int64        `json:"price"`
	PowerUp  powerup.Kind `json:"powerUp,omitempty"`
	Uses     int          `json:"uses,omitempty"`
}

// Consumable reports whether the item grants power-up uses.
func (i Item) Consumable() bool {
	return i.PowerUp.Valid() && i.Uses > 0
}

var catalog = []Item{
	{ID: "powerup-double-xp", Title: "Double XP (x1)", Category: CategoryPowerUp, Price: 500, PowerUp: powerup.DoubleXP, Uses: 1},
	{ID: "powerup-double-xp-3", Title: "Double XP (x3)", Category: CategoryPowerUp, Price: 1_300, PowerUp: powerup.DoubleXP, Uses: 3},
	{ID: "powerup-time-freeze", Title: "Time Freeze (x3)", Category: CategoryPowerUp, Price: 300, PowerUp: powerup.TimeFreeze, Uses: 3},
	{ID: "powerup-accuracy-boost", Title: "Accuracy Boost (x5)", Category: CategoryPowerUp, Price: 250, PowerUp: powerup.AccuracyBoost, Uses: 5},
	{ID: "powerup-error-shield", Title: "Error Shield (x3)", Category: CategoryPowerUp, Price: 400, PowerUp: powerup.ErrorShield, Uses: 3},

	{ID: "theme-x", Title: "Theme X", Category: CategoryTheme, Price: 300},
	{ID: "theme-neon", Title: "Neon Nights", Category: CategoryTheme, Price: 1_000},
	{ID: "theme-retro", Title: "Retro Cabinet", Category: CategoryTheme, Price: 2_500},
	{ID: "theme-galaxy", Title: "Galaxy", Category: CategoryTheme, Price: 7_500},

	{ID: "avatar-owl", Title: "Wise Owl", Category: CategoryAvatar, Price: 800},
	{ID: "avatar-robot", Title: "Robot", Category: CategoryAvatar, Price: 1_500},
	{ID: "avatar-dragon", Title: "Dragon", Category: CategoryAvatar, Price: 5_000},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, it := range catalog {
		m[it.ID] = i
	}
	return m
}()

// Lookup finds an item by id.
func Lookup(id string) (Item, bool) {
	i, ok := byID[id]
	if !ok {
		return Item{}, false
	}
	return catalog[i], true
}

// Catalog returns a copy of all items.
func Catalog() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}
