package playsim

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/mindarcade/internal/adapters/http/api"
	"github.com/okian/mindarcade/internal/adapters/repository"
	"github.com/okian/mindarcade/internal/app"
	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/internal/domain/scoring"
	"github.com/okian/mindarcade/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newArcade() *httptest.Server {
	board := repository.NewLeaderboard(repository.WithRivals(10, 3))
	engine := app.New(repository.NewMemoryStore(), app.WithLocation(time.UTC), app.WithLeaderboard(board))
	if err := engine.Load(context.Background()); err != nil {
		panic(err)
	}
	srv := api.NewServer(engine, board, api.WithEstimator(scoring.NewEstimator()))
	return httptest.NewServer(srv.Routes())
}

func TestRun(t *testing.T) {
	Convey("Given a running arcade server", t, func() {
		ts := newArcade()
		defer ts.Close()
		ctx := context.Background()

		Convey("A simulation with replays and shopping verifies cleanly", func() {
			out := filepath.Join(t.TempDir(), "out", "sessions.json")
			cfg := &Config{
				BaseURL:     ts.URL,
				Sessions:    60,
				Workers:     4,
				Timeout:     5 * time.Second,
				Seed:        42,
				ReplayEvery: 5,
				Shop:        true,
				OutputFile:  out,
			}
			stats, err := Run(ctx, cfg)
			So(err, ShouldBeNil)
			So(stats.SessionsGenerated, ShouldEqual, 60)
			So(stats.SessionsApplied, ShouldEqual, 60)
			So(stats.Replays, ShouldEqual, 12)
			So(stats.SessionsDuplicate, ShouldEqual, 12)
			So(stats.SessionsFailed, ShouldEqual, 0)
			So(stats.Purchases, ShouldBeGreaterThan, 0)
			So(stats.ScoreSpent, ShouldBeGreaterThan, 0)

			_, statErr := os.Stat(out)
			So(statErr, ShouldBeNil)

			Convey("And a second run on the same server still verifies", func() {
				cfg.Seed = 7
				cfg.Shop = false
				cfg.OutputFile = ""
				stats, err := Run(ctx, cfg)
				So(err, ShouldBeNil)
				So(stats.SessionsApplied, ShouldEqual, 60)
			})
		})

		Convey("An unreachable server fails the health check", func() {
			cfg := &Config{BaseURL: "http://127.0.0.1:1", Sessions: 1, Workers: 1, Timeout: time.Second}
			_, err := Run(ctx, cfg)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestGenerateSessions(t *testing.T) {
	Convey("Given a fixed seed", t, func() {
		cfg := &Config{Sessions: 25, Seed: 99}
		a := generateSessions(context.Background(), cfg, &Stats{})
		b := generateSessions(context.Background(), cfg, &Stats{})

		Convey("The games and numbers repeat but session ids do not", func() {
			So(len(a), ShouldEqual, 25)
			for i := range a {
				So(a[i].GameID, ShouldEqual, b[i].GameID)
				So(a[i].Score, ShouldEqual, b[i].Score)
				So(a[i].SessionID, ShouldNotEqual, b[i].SessionID)
				So(a[i].Score, ShouldBeBetweenOrEqual, 0, maxScore)
				So(a[i].Accuracy, ShouldBeBetweenOrEqual, 0, 100)
				So(a[i].TimeSpent, ShouldBeGreaterThan, 0)
			}
		})
	})
}

func TestVerifyResults(t *testing.T) {
	Convey("Given a consistent before and after pair", t, func() {
		ctx := context.Background()
		before := model.NewProgress()
		applied := []Session{
			{GameID: "snake", Score: 3000, TimeSpent: 60, XPEarned: 20},
			{GameID: "chess", Score: 2500, TimeSpent: 40, XPEarned: 30},
		}
		after := model.NewProgress()
		after.TotalScore = 5500 - 300
		after.TotalXP = 50 + 50
		after.Level = model.LevelFor(after.TotalXP)
		after.Rank = model.RankSilver
		after.GamesPlayed = []string{"snake", "chess"}
		after.PlayedGames = []string{"snake", "chess"}
		after.TotalPlayTime = 100
		after.Achievements = []string{"first_game"}
		stats := &Stats{ScoreSpent: 300, Replays: 1, SessionsDuplicate: 1}

		Convey("Verification passes", func() {
			So(verifyResults(ctx, before, after, applied, stats), ShouldBeNil)
		})

		Convey("A wrong level is reported", func() {
			after.Level = 5
			So(errors.Is(verifyResults(ctx, before, after, applied, stats), ErrInvariant), ShouldBeTrue)
		})

		Convey("Missing score is reported", func() {
			after.TotalScore -= 1
			So(verifyResults(ctx, before, after, applied, stats), ShouldNotBeNil)
		})

		Convey("A rank below the one reached during play is reported", func() {
			after.Rank = model.RankBronze
			So(verifyResults(ctx, before, after, applied, stats), ShouldNotBeNil)
		})

		Convey("A double unlock is reported", func() {
			after.Achievements = []string{"first_game", "first_game"}
			So(verifyResults(ctx, before, after, applied, stats), ShouldNotBeNil)
		})

		Convey("A replay that was applied again is reported", func() {
			stats.SessionsDuplicate = 0
			So(verifyResults(ctx, before, after, applied, stats), ShouldNotBeNil)
		})

		Convey("Several violations are joined", func() {
			after.Level = 9
			after.TotalPlayTime = 1
			err := verifyResults(ctx, before, after, applied, stats)
			var joined interface{ Unwrap() []error }
			So(errors.As(err, &joined), ShouldBeTrue)
			So(len(joined.Unwrap()), ShouldEqual, 2)
		})
	})
}
