package shop_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/mindarcade/internal/domain/powerup"
	"github.com/okian/mindarcade/internal/domain/shop"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	Convey("Given the shop catalog", t, func() {
		Convey("Then ids are unique and prices positive", func() {
			seen := map[string]bool{}
			for _, it := range shop.Catalog() {
				So(seen[it.ID], ShouldBeFalse)
				seen[it.ID] = true
				So(it.Price, ShouldBeGreaterThan, 0)
				if it.Category == shop.CategoryPowerUp {
					So(it.Consumable(), ShouldBeTrue)
				} else {
					So(it.Consumable(), ShouldBeFalse)
				}
			}
		})

		Convey("Then power-up packs map to their kind", func() {
			it, ok := shop.Lookup("powerup-double-xp")
			So(ok, ShouldBeTrue)
			So(it.PowerUp, ShouldEqual, powerup.DoubleXP)
			So(it.Uses, ShouldEqual, 1)
		})

		Convey("Then theme-x costs 300", func() {
			it, ok := shop.Lookup("theme-x")
			So(ok, ShouldBeTrue)
			So(it.Price, ShouldEqual, 300)
		})

		Convey("Then unknown items are not found", func() {
			_, ok := shop.Lookup("theme-missing")
			So(ok, ShouldBeFalse)
		})

		Convey("Then cosmetic items encode without power-up fields", func() {
			it, _ := shop.Lookup("avatar-owl")
			b, err := json.Marshal(it)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "powerUp")
		})
	})
}
