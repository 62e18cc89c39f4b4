package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	model "github.com/okian/mindarcade/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	convey.Convey("Given rank tiers", t, func() {
		convey.Convey("Then they are ordered from Bronze to Legendary", func() {
			convey.So(model.RankBronze < model.RankSilver, convey.ShouldBeTrue)
			convey.So(model.RankMaster < model.RankLegendary, convey.ShouldBeTrue)
			convey.So(model.RankGold.String(), convey.ShouldEqual, "Gold")
			convey.So(model.Rank(42).Valid(), convey.ShouldBeFalse)
		})

		convey.Convey("When parsing names", func() {
			r, err := model.ParseRank("platinum")
			convey.So(err, convey.ShouldBeNil)
			convey.So(r, convey.ShouldEqual, model.RankPlatinum)

			_, err = model.ParseRank("Wood")
			convey.So(errors.Is(err, model.ErrUnknownValue), convey.ShouldBeTrue)
		})

		convey.Convey("When encoding as JSON", func() {
			b, err := json.Marshal(struct {
				R model.Rank `json:"r"`
			}{model.RankDiamond})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"r":"Diamond"}`)

			_, err = json.Marshal(model.Rank(-1))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestPlayerProgress(t *testing.T) {
	convey.Convey("Given a fresh progress record", t, func() {
		p := model.NewProgress()

		convey.Convey("Then it is the zero record with level 1", func() {
			convey.So(p.TotalScore, convey.ShouldEqual, 0)
			convey.So(p.TotalXP, convey.ShouldEqual, 0)
			convey.So(p.Level, convey.ShouldEqual, 1)
			convey.So(p.Rank, convey.ShouldEqual, model.RankBronze)
			convey.So(p.GamesPlayed, convey.ShouldBeEmpty)
			convey.So(p.LastPlayDate, convey.ShouldEqual, "")
		})

		convey.Convey("When cloning", func() {
			p.GamesPlayed = append(p.GamesPlayed, "snake")
			c := p.Clone()
			c.GamesPlayed[0] = "chess"

			convey.Convey("Then the copy does not alias the original", func() {
				convey.So(p.GamesPlayed[0], convey.ShouldEqual, "snake")
			})
		})

		convey.Convey("When round-tripping through the persisted layout", func() {
			p.TotalScore = 120
			p.Rank = model.RankSilver
			p.PlayedGames = []string{"snake"}
			b, err := json.Marshal(p)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldContainSubstring, `"totalScore":120`)
			convey.So(string(b), convey.ShouldContainSubstring, `"rank":"Silver"`)

			var back model.PlayerProgress
			convey.So(json.Unmarshal(b, &back), convey.ShouldBeNil)
			convey.So(back, convey.ShouldResemble, p)
		})

		convey.Convey("When sanitizing a damaged record", func() {
			bad := model.PlayerProgress{
				TotalScore:   -5,
				TotalXP:      250,
				Level:        99,
				Rank:         model.Rank(17),
				PlayedGames:  []string{"snake", "snake", "chess"},
				Achievements: []string{"first_game", "first_game"},
			}
			s := bad.Sanitize()

			convey.Convey("Then counters, sets and level are repaired", func() {
				convey.So(s.TotalScore, convey.ShouldEqual, 0)
				convey.So(s.Level, convey.ShouldEqual, 3)
				convey.So(s.Rank, convey.ShouldEqual, model.RankBronze)
				convey.So(s.PlayedGames, convey.ShouldResemble, []string{"snake", "chess"})
				convey.So(s.Achievements, convey.ShouldResemble, []string{"first_game"})
				convey.So(s.OwnedItems, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("Then the set helpers report membership", func() {
			p.PlayedGames = []string{"snake"}
			p.OwnedItems = []string{"theme-x"}
			p.Achievements = []string{"first_game"}
			convey.So(p.HasPlayed("snake"), convey.ShouldBeTrue)
			convey.So(p.HasPlayed("chess"), convey.ShouldBeFalse)
			convey.So(p.Owns("theme-x"), convey.ShouldBeTrue)
			convey.So(p.HasAchievement("first_game"), convey.ShouldBeTrue)
		})
	})
}

func TestLevelFor(t *testing.T) {
	convey.Convey("Given XP totals", t, func() {
		convey.So(model.LevelFor(0), convey.ShouldEqual, 1)
		convey.So(model.LevelFor(99), convey.ShouldEqual, 1)
		convey.So(model.LevelFor(100), convey.ShouldEqual, 2)
		convey.So(model.LevelFor(1234), convey.ShouldEqual, 13)
		convey.So(model.LevelFor(-3), convey.ShouldEqual, 1)
	})
}
