package store

import (
	"context"
	"sync"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/score"
)

// Memory is an in-memory CardStore and score.Store. Used by tests and
// by serve --memory; nothing survives a restart.
type Memory struct {
	mu     sync.Mutex
	cards  []CardRecord
	scores []score.Record
	nextID int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) FindCards(_ context.Context, color deck.Color, officialOnly bool) ([]CardRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []CardRecord
	for _, c := range m.cards {
		if c.Color != color {
			continue
		}
		if officialOnly && !c.Official {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *Memory) InsertCard(_ context.Context, text string, color deck.Color, official bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cards = append(m.cards, CardRecord{ID: m.nextID, Text: text, Color: color, Official: official})
	m.nextID++
	return nil
}

func (m *Memory) DeleteOfficial(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.cards[:0]
	for _, c := range m.cards {
		if !c.Official {
			kept = append(kept, c)
		}
	}
	m.cards = kept
	return nil
}

func (m *Memory) FindScore(_ context.Context, group, player string) (*score.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.scores {
		if rec.Group == group && rec.Player == player {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) UpsertScore(_ context.Context, rec score.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.scores {
		if m.scores[i].Group == rec.Group && m.scores[i].Player == rec.Player {
			m.scores[i].Score = rec.Score
			return nil
		}
	}
	m.scores = append(m.scores, rec)
	return nil
}

func (m *Memory) ListScores(_ context.Context, group string) ([]score.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Stable sort keeps insertion order as the tie-break, matching the
	// ordering the postgres store gets from its secondary id sort.
	var out []score.Record
	for _, rec := range m.scores {
		if rec.Group == group {
			out = append(out, rec)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}
