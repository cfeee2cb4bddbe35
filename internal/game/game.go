// Package game implements the round state machine for the
// fill-in-the-blank card game: player admission and removal, round
// progression, judging, kick votes and inactivity timeouts.
package game

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/score"
)

// Messenger delivers game output to the chat channel. Both calls are
// fire-and-forget and must not block; the engine invokes them while
// holding its state lock.
type Messenger interface {
	// Announce broadcasts to the shared channel.
	Announce(text string)
	// Whisper delivers privately to one player.
	Whisper(player, text string)
}

// Phase is the engine's current state.
type Phase string

const (
	// PhaseJoin waits for enough players to start a round.
	PhaseJoin Phase = "join"
	// PhasePlay collects answers from everyone but the dealer.
	PhasePlay Phase = "play"
	// PhaseJudging waits for the dealer to pick a winner.
	PhaseJudging Phase = "judging"
)

// Config holds the game tunables.
type Config struct {
	HandSize     int           // target hand size
	MinPlayers   int           // seated players needed to start a round
	TimeAllowed  time.Duration // total time before an inactive player is kicked
	TimesToCheck int           // AFK checks within TimeAllowed
	KickPercent  float64       // vote share (strict) required to kick
	TopScores    int           // rows shown on the scoreboard
}

// DefaultConfig returns the standard game settings.
func DefaultConfig() Config {
	return Config{
		HandSize:     8,
		MinPlayers:   3,
		TimeAllowed:  180 * time.Second,
		TimesToCheck: 3,
		KickPercent:  0.70,
		TopScores:    5,
	}
}

// Game is the shared game state for one channel. All exported command
// methods and all timer callbacks serialize on the internal mutex and
// run to completion, so no two mutations ever interleave.
type Game struct {
	mu     sync.Mutex
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand
	clock  quartz.Clock

	deck   *deck.Deck
	roster *roster
	ledger *score.Ledger
	cards  CardStore
	msgr   Messenger

	// Round state, owned exclusively by the engine. dealer carries the
	// last round's value while in PhaseJoin; prompt is zero outside an
	// active round.
	phase   Phase
	dealer  string
	prompt  deck.Card
	answers map[string][]deck.Card
	avail   []string
}

// New creates a game in the join phase.
func New(cfg Config, d *deck.Deck, ledger *score.Ledger, cards CardStore, msgr Messenger, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Game {
	return &Game{
		cfg:     cfg,
		logger:  logger.WithPrefix("game"),
		rng:     rng,
		clock:   clock,
		deck:    d,
		roster:  newRoster(d, cfg.HandSize),
		ledger:  ledger,
		cards:   cards,
		msgr:    msgr,
		phase:   PhaseJoin,
		answers: make(map[string][]deck.Card),
	}
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Dealer returns the current dealer, empty before the first round.
func (g *Game) Dealer() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dealer
}

// Seated returns the seated players in seating order.
func (g *Game) Seated() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster.seated()
}

// Prompt returns the active prompt card text, empty outside a round.
func (g *Game) Prompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prompt.Text
}

// removeAvail drops player from the available-players ordering.
func (g *Game) removeAvail(player string) {
	for i, p := range g.avail {
		if p == player {
			g.avail = append(g.avail[:i], g.avail[i+1:]...)
			return
		}
	}
}
