package playsim

// Defaults for a simulation run.
const (
	DefaultSessions    = 200
	DefaultWorkers     = 4
	DefaultReplayEvery = 10
)

// Games is the mini-game catalog sessions are drawn from.
var Games = []string{
	"snake", "chess", "typing", "memory", "sudoku", "math-sprint", "word-search",
	"pattern-match", "reaction", "n-back", "stroop", "tower-of-hanoi", "minesweeper",
	"2048", "anagram", "color-match", "sequence", "maze", "spot-the-difference", "trivia",
}
