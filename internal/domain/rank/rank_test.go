package rank_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/internal/domain/rank"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFor(t *testing.T) {
	Convey("Given the rank table", t, func() {
		Convey("Then each threshold maps to its tier exactly at the boundary", func() {
			So(rank.For(0), ShouldEqual, model.RankBronze)
			So(rank.For(4_999), ShouldEqual, model.RankBronze)
			So(rank.For(5_000), ShouldEqual, model.RankSilver)
			So(rank.For(14_999), ShouldEqual, model.RankSilver)
			So(rank.For(15_000), ShouldEqual, model.RankGold)
			So(rank.For(50_000), ShouldEqual, model.RankPlatinum)
			So(rank.For(100_000), ShouldEqual, model.RankDiamond)
			So(rank.For(250_000), ShouldEqual, model.RankMaster)
			So(rank.For(499_999), ShouldEqual, model.RankMaster)
			So(rank.For(500_000), ShouldEqual, model.RankLegendary)
			So(rank.For(1<<40), ShouldEqual, model.RankLegendary)
		})

		Convey("Then negative scores are Bronze", func() {
			So(rank.For(-10), ShouldEqual, model.RankBronze)
		})

		Convey("Then the function is monotonic over random non-decreasing scores", func() {
			rng := rand.New(rand.NewSource(7))
			scores := make([]int64, 500)
			for i := range scores {
				scores[i] = rng.Int63n(700_000)
			}
			sort.Slice(scores, func(i, j int) bool { return scores[i] < scores[j] })

			prev := model.RankBronze
			for _, s := range scores {
				r := rank.For(s)
				So(r >= prev, ShouldBeTrue)
				prev = r
			}
		})
	})
}

func TestNextAndThresholds(t *testing.T) {
	Convey("Given a score inside a tier", t, func() {
		Convey("When asking for the next tier", func() {
			next, needed, ok := rank.Next(4_000)
			So(ok, ShouldBeTrue)
			So(next, ShouldEqual, model.RankSilver)
			So(needed, ShouldEqual, 1_000)
		})

		Convey("When already Legendary", func() {
			_, needed, ok := rank.Next(600_000)
			So(ok, ShouldBeFalse)
			So(needed, ShouldEqual, 0)
		})

		Convey("When reading the table", func() {
			table := rank.Thresholds()
			table[0].MinScore = 99

			So(len(table), ShouldEqual, 7)
			So(rank.Thresholds()[0].MinScore, ShouldEqual, 0)
			So(rank.Thresholds()[2], ShouldResemble, rank.Threshold{Rank: model.RankGold, MinScore: 15_000})
		})

		Convey("When taking the max of two tiers", func() {
			So(rank.Max(model.RankGold, model.RankSilver), ShouldEqual, model.RankGold)
			So(rank.Max(model.RankBronze, model.RankDiamond), ShouldEqual, model.RankDiamond)
		})
	})
}
