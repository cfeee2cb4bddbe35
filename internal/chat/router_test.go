package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/game"
	"github.com/lox/blanksbot/internal/randutil"
	"github.com/lox/blanksbot/internal/score"
	"github.com/lox/blanksbot/internal/store"
)

type fakeMessenger struct {
	mu        sync.Mutex
	announced []string
	whispered []string
}

func (f *fakeMessenger) Announce(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announced = append(f.announced, text)
}

func (f *fakeMessenger) Whisper(player, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.whispered = append(f.whispered, player+": "+text)
}

func (f *fakeMessenger) whisperedContaining(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, w := range f.whispered {
		if strings.Contains(w, substr) {
			count++
		}
	}
	return count
}

func routerFixture(t *testing.T) (*Router, *game.Game, *fakeMessenger) {
	t.Helper()

	cards := make([]deck.Card, 0, 120)
	for i := 0; i < 20; i++ {
		cards = append(cards, deck.NewCard(fmt.Sprintf("Prompt %d: %s.", i, deck.Blank), deck.Prompt))
	}
	for i := 0; i < 100; i++ {
		cards = append(cards, deck.NewCard(fmt.Sprintf("answer %d", i), deck.Answer))
	}

	mem := store.NewMemory()
	rng := randutil.New(7)
	msgr := &fakeMessenger{}
	g := game.New(
		game.DefaultConfig(),
		deck.New(cards, rng),
		score.NewLedger(mem),
		mem,
		msgr,
		quartz.NewMock(t),
		rng,
		log.New(io.Discard),
	)
	return NewRouter(g), g, msgr
}

func TestRouteJoinAndAliases(t *testing.T) {
	r, g, _ := routerFixture(t)
	ctx := context.Background()

	require.NoError(t, r.Route(ctx, "alice", "!j"))
	require.NoError(t, r.Route(ctx, "bob", "!join"))
	assert.Equal(t, 2, len(g.Seated()))

	err := r.Route(ctx, "alice", "!join")
	assert.ErrorIs(t, err, game.ErrAlreadyPlaying)
}

func TestRoutePlayThroughRound(t *testing.T) {
	r, g, msgr := routerFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, r.Route(ctx, name, "!join"))
	}
	require.Equal(t, game.PhasePlay, g.Phase())
	dealer := g.Dealer()

	for _, name := range []string{"alice", "bob", "carol"} {
		if name == dealer {
			continue
		}
		require.NoError(t, r.Route(ctx, name, "!p 1"))
	}
	require.Equal(t, game.PhaseJudging, g.Phase())

	require.NoError(t, r.Route(ctx, dealer, "!winner 1"))
	assert.Equal(t, game.PhasePlay, g.Phase())
	assert.Positive(t, msgr.whisperedContaining("Your hand is:"))
}

func TestRoutePlayRandom(t *testing.T) {
	r, g, _ := routerFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, r.Route(ctx, name, "!join"))
	}
	dealer := g.Dealer()
	for _, name := range []string{"alice", "bob", "carol"} {
		if name == dealer {
			continue
		}
		require.NoError(t, r.Route(ctx, name, "!play random"))
	}
	assert.Equal(t, game.PhaseJudging, g.Phase())
}

func TestRouteBadInput(t *testing.T) {
	r, _, _ := routerFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, r.Route(ctx, "alice", "!dance"), errUnknownCmd)
	assert.ErrorIs(t, r.Route(ctx, "alice", "!play one two"), errBadIndices)
	assert.ErrorIs(t, r.Route(ctx, "alice", "!winner first"), errBadWinner)
	assert.ErrorIs(t, r.Route(ctx, "alice", `!addcard no quotes here`), errBadCardArgs)
}

func TestRouteHandAndStatus(t *testing.T) {
	r, _, msgr := routerFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, r.Route(ctx, name, "!join"))
	}
	require.NoError(t, r.Route(ctx, "alice", "!hand"))
	assert.Positive(t, msgr.whisperedContaining("alice: Your hand is:"))

	require.NoError(t, r.Route(ctx, "alice", "!players"))
	require.NoError(t, r.Route(ctx, "alice", "!mystatus"))
	require.NoError(t, r.Route(ctx, "alice", "!gamestatus"))
}

func TestRouteAddCard(t *testing.T) {
	r, _, msgr := routerFixture(t)
	ctx := context.Background()

	require.NoError(t, r.Route(ctx, "alice", `!addcard "a shiny new thing" "answer"`))
	require.NoError(t, r.Route(ctx, "alice", `!addcard "What is `+deck.Blank+`?" prompt`))
	assert.Positive(t, msgr.whisperedContaining("added!"))

	err := r.Route(ctx, "alice", `!addcard "some text" "paisley"`)
	assert.ErrorIs(t, err, game.ErrBadColor)
}

func TestParseIndices(t *testing.T) {
	got, err := parseIndices(" 2 5 1 ")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5, 1}, got)

	_, err = parseIndices("")
	assert.ErrorIs(t, err, errBadIndices)
}
