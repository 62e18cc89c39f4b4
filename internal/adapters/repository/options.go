package repository

const (
	defaultPlayerName = "you"
	defaultRivalCount = 25
	defaultRivalSeed  = 42
)

type leaderboardConfig struct {
	player     string
	rivalCount int
	seed       int64
}

// Option applies a configuration option to the Leaderboard.
type Option func(*leaderboardConfig)

// WithPlayerName sets the name the local player is listed under.
func WithPlayerName(name string) Option {
	return func(c *leaderboardConfig) {
		if name != "" {
			c.player = name
		}
	}
}

// WithRivals sets how many simulated rivals are generated and from which seed.
func WithRivals(count int, seed int64) Option {
	return func(c *leaderboardConfig) {
		if count >= 0 {
			c.rivalCount = count
		}
		c.seed = seed
	}
}
