package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/mindarcade/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreSQLite)
			convey.So(cfg.WriteQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.DefaultXPWeight, convey.ShouldEqual, 5)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid fields", t, func() {
		convey.Convey("When the store driver is unknown", func() {
			cfg := config.New()
			cfg.StoreDriver = "redis"
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(err, config.ErrUnknownStoreDriver), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "redis")
		})

		convey.Convey("When sqlite is selected without a path", func() {
			cfg := config.New()
			cfg.SQLitePath = ""

			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the memory driver needs no path", func() {
			cfg := config.New()
			cfg.StoreDriver = config.StoreMemory
			cfg.SQLitePath = ""

			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the timezone is unknown", func() {
			cfg := config.New()
			cfg.Timezone = "Mars/Olympus_Mons"

			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the leaderboard limit is not positive", func() {
			cfg := config.New()
			cfg.MaxLeaderboardLimit = 0

			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}

func TestConfig_Location(t *testing.T) {
	convey.Convey("Given timezone settings", t, func() {
		cfg := config.New()

		convey.Convey("Then Local and UTC resolve without the tz database", func() {
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc, convey.ShouldEqual, time.Local)

			cfg.Timezone = "UTC"
			loc, err = cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc, convey.ShouldEqual, time.UTC)
		})
	})
}
