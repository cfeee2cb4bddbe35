// Package score keeps per-group scoreboards. Scores are only
// meaningful relative to an exact set of seated players, so every
// record is keyed by a group signature derived from the roster.
package score

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNoPoints is returned by Penalize when the player has no record
	// under the group or the record is already at zero.
	ErrNoPoints = errors.New("score: no points to take")
)

// Record is one player's score within one group of players.
type Record struct {
	Group  string
	Player string
	Score  int
}

// Store is the persistence surface the ledger needs. Implementations
// must commit before returning; List returns records ordered by score
// descending, ties broken by insertion order.
type Store interface {
	FindScore(ctx context.Context, group, player string) (*Record, error)
	UpsertScore(ctx context.Context, rec Record) error
	ListScores(ctx context.Context, group string) ([]Record, error)
}

// Signature derives the group key for a set of seated players: the
// sorted, space-joined player names. Any change to the roster
// composition therefore starts a fresh scoreboard.
func Signature(players []string) string {
	sorted := make([]string, len(players))
	copy(sorted, players)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// Ledger awards and revokes points against a Store.
type Ledger struct {
	store Store
}

// NewLedger creates a ledger backed by store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Award gives player one point under the group signature for seated.
// Zero-score records are created for every other seated player so the
// group's scoreboard is complete once any member has scored.
func (l *Ledger) Award(ctx context.Context, seated []string, player string) error {
	group := Signature(seated)

	rec, err := l.store.FindScore(ctx, group, player)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &Record{Group: group, Player: player}
	}
	rec.Score++
	if err := l.store.UpsertScore(ctx, *rec); err != nil {
		return err
	}

	return l.backfill(ctx, group, seated)
}

// Penalize takes one point from player. It fails without mutating
// anything when the player has no record or is already at zero.
func (l *Ledger) Penalize(ctx context.Context, seated []string, player string) error {
	group := Signature(seated)

	rec, err := l.store.FindScore(ctx, group, player)
	if err != nil {
		return err
	}
	if rec == nil || rec.Score <= 0 {
		return ErrNoPoints
	}
	rec.Score--
	if err := l.store.UpsertScore(ctx, *rec); err != nil {
		return err
	}

	return l.backfill(ctx, group, seated)
}

// Get returns player's score under the group for seated, zero when no
// record exists.
func (l *Ledger) Get(ctx context.Context, seated []string, player string) (int, error) {
	rec, err := l.store.FindScore(ctx, Signature(seated), player)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Score, nil
}

// Top returns up to n records for the group, highest score first.
func (l *Ledger) Top(ctx context.Context, seated []string, n int) ([]Record, error) {
	recs, err := l.store.ListScores(ctx, Signature(seated))
	if err != nil {
		return nil, err
	}
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

// backfill creates zero-initialized records for seated players missing
// from the group's scoreboard.
func (l *Ledger) backfill(ctx context.Context, group string, seated []string) error {
	for _, p := range seated {
		rec, err := l.store.FindScore(ctx, group, p)
		if err != nil {
			return err
		}
		if rec == nil {
			if err := l.store.UpsertScore(ctx, Record{Group: group, Player: p}); err != nil {
				return err
			}
		}
	}
	return nil
}
