package scoring_test

import (
	"testing"

	"github.com/okian/mindarcade/internal/domain/model"
	scoring "github.com/okian/mindarcade/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEstimator(t *testing.T) {
	Convey("Given a default estimator", t, func() {
		e := scoring.NewEstimator()

		Convey("When estimating the snake session", func() {
			xp := e.Estimate(model.GameResult{GameID: "snake", Score: 120, Accuracy: 80})

			Convey("Then it is score / 5", func() {
				So(xp, ShouldEqual, 24)
			})
		})

		Convey("When accuracy is high", func() {
			xp := e.Estimate(model.GameResult{GameID: "snake", Score: 500, Accuracy: 95})
			So(xp, ShouldEqual, 110)
		})

		Convey("When the score is not positive", func() {
			So(e.Estimate(model.GameResult{Score: -3}), ShouldEqual, 0)
			So(e.Estimate(model.GameResult{}), ShouldEqual, 0)
		})

		Convey("When filling a result", func() {
			filled := e.Fill(model.GameResult{GameID: "snake", Score: 120})
			kept := e.Fill(model.GameResult{GameID: "snake", Score: 120, XPEarned: 7})

			Convey("Then only missing XP is estimated", func() {
				So(filled.XPEarned, ShouldEqual, 24)
				So(kept.XPEarned, ShouldEqual, 7)
			})
		})
	})

	Convey("Given per-game weights", t, func() {
		e := scoring.NewEstimator(scoring.WithWeightsFromConfig(map[string]float64{
			"chess":  10,
			"broken": -1,
		}, 4))

		Convey("Then configured games use their weight and others the default", func() {
			So(e.Weight("chess"), ShouldEqual, 10)
			So(e.Weight("broken"), ShouldEqual, 4)
			So(e.Weight("snake"), ShouldEqual, 4)
			So(e.Estimate(model.GameResult{GameID: "chess", Score: 1234}), ShouldEqual, 123)
		})
	})
}
