// Package store persists cards and scores. The game core treats both
// as synchronous committed-on-write stores; the postgres implementation
// backs production while the memory implementation backs tests and
// database-free runs.
package store

import (
	"context"

	"github.com/lox/blanksbot/internal/deck"
)

// CardRecord is a persisted card. Official cards come from the corpus
// import and are replaced wholesale on re-import; custom cards are
// added by players and survive imports.
type CardRecord struct {
	ID       int64
	Text     string
	Color    deck.Color
	Official bool
}

// CardStore is the persistence surface for the card corpus.
type CardStore interface {
	// FindCards returns cards of the given color in insertion order.
	// When officialOnly is true custom cards are excluded.
	FindCards(ctx context.Context, color deck.Color, officialOnly bool) ([]CardRecord, error)
	InsertCard(ctx context.Context, text string, color deck.Color, official bool) error
	// DeleteOfficial removes every official card, ahead of a re-import.
	DeleteOfficial(ctx context.Context) error
}
