package repository

import (
	"context"
	"math/rand"
	"sync"

	"github.com/okian/mindarcade/internal/domain/types"
)

// Treap-based, in-memory leaderboard.
//
// Ordering: score DESC, then name ASC (deterministic).
// The BST comparator treats "less" as "ranks earlier", so in-order traversal
// yields the leaderboard from best to worst. Ranks use competition ranking:
// equal scores share a rank and the next distinct score skips ahead.

type node struct {
	name  string
	score int64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aName) should appear before (bScore, bName).
func less(aScore int64, aName string, bScore int64, bName string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aName < bName
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, name string, score int64, prio uint64) *node {
	if n == nil {
		return &node{name: name, score: score, prio: prio, size: 1}
	}
	if less(score, name, n.score, n.name) {
		n.left = insert(n.left, name, score, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, name, score, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, name string, score int64) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && name == n.name:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, name, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, name, score)
		}
	case less(score, name, n.score, n.name):
		n.left = deleteNode(n.left, name, score)
	default:
		n.right = deleteNode(n.right, name, score)
	}
	fix(n)
	return n
}

// countAbove returns how many entries have a score strictly greater than score.
func countAbove(n *node, score int64) int {
	count := 0
	for n != nil {
		if n.score > score {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, types.Entry{Name: n.name, Score: n.score})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// Leaderboard is the locally simulated leaderboard: the player plus rivals.
type Leaderboard struct {
	mu     sync.RWMutex
	root   *node
	scores map[string]int64
	rng    *rand.Rand
	player string
}

// NewLeaderboard builds a leaderboard and seeds it with rivals.
func NewLeaderboard(opts ...Option) *Leaderboard {
	cfg := leaderboardConfig{
		player:     defaultPlayerName,
		rivalCount: defaultRivalCount,
		seed:       defaultRivalSeed,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	lb := &Leaderboard{
		scores: make(map[string]int64),
		rng:    rand.New(rand.NewSource(cfg.seed)), //nolint:gosec // treap priorities and rivals, not security
		player: cfg.player,
	}
	for _, r := range Rivals(cfg.rivalCount, cfg.seed) {
		lb.upsertLocked(r.Name, r.Score)
	}
	return lb
}

// PlayerName returns the name the local player is listed under.
func (lb *Leaderboard) PlayerName() string {
	return lb.player
}

// Upsert sets name's score, inserting the entry when missing.
func (lb *Leaderboard) Upsert(_ context.Context, name string, score int64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.upsertLocked(name, score)
}

// UpsertPlayer sets the local player's score.
func (lb *Leaderboard) UpsertPlayer(ctx context.Context, score int64) {
	lb.Upsert(ctx, lb.player, score)
}

func (lb *Leaderboard) upsertLocked(name string, score int64) {
	if old, ok := lb.scores[name]; ok {
		if old == score {
			return
		}
		lb.root = deleteNode(lb.root, name, old)
	}
	lb.scores[name] = score
	lb.root = insert(lb.root, name, score, lb.rng.Uint64())
}

// Remove deletes name from the board.
func (lb *Leaderboard) Remove(_ context.Context, name string) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if old, ok := lb.scores[name]; ok {
		lb.root = deleteNode(lb.root, name, old)
		delete(lb.scores, name)
	}
}

// Position returns name's rank and score in O(log n), or ErrNotFound.
func (lb *Leaderboard) Position(_ context.Context, name string) (types.Standing, error) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	score, ok := lb.scores[name]
	if !ok {
		return types.Standing{}, ErrNotFound
	}
	return types.Standing{
		Entry: types.Entry{
			Rank:   countAbove(lb.root, score) + 1,
			Name:   name,
			Score:  score,
			Player: name == lb.player,
		},
		Total: len(lb.scores),
	}, nil
}

// TopN returns the top n entries ordered by score desc.
func (lb *Leaderboard) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	out := make([]types.Entry, 0, min(n, len(lb.scores)))
	collectTopN(lb.root, n, &out)
	assignRanksWithTies(out)
	for i := range out {
		out[i].Player = out[i].Name == lb.player
	}
	return out, nil
}

// Count returns the number of entries.
func (lb *Leaderboard) Count(_ context.Context) int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return len(lb.scores)
}

// assignRanksWithTies assigns competition ranks to entries sorted by score desc.
// It assumes entries start at the top of the board.
func assignRanksWithTies(entries []types.Entry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
