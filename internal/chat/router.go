package chat

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/game"
)

// Router turns "!" chat lines into game commands. Each entry pairs a
// pattern with a handler receiving the sender and the capture groups;
// handler errors are whispered back to the sender by the server.
type Router struct {
	game     *game.Game
	commands []command
}

type command struct {
	re      *regexp.Regexp
	handler func(ctx context.Context, sender string, groups []string) error
}

var (
	errBadIndices  = errors.New("that doesn't look like indexes for cards")
	errBadWinner   = errors.New("that is not a valid winner")
	errUnknownCmd  = errors.New(`unknown command; try "!join", "!play", "!winner", "!hand"`)
	errBadCardArgs = errors.New(`addcard wants: !addcard "text" "color"`)
)

// NewRouter builds the command table for a game.
func NewRouter(g *game.Game) *Router {
	r := &Router{game: g}
	r.commands = []command{
		{regexp.MustCompile(`^!(?:j|join)\s*$`), func(ctx context.Context, sender string, _ []string) error {
			return g.Join(sender)
		}},
		{regexp.MustCompile(`^!leave\s*$`), func(ctx context.Context, sender string, _ []string) error {
			return g.Leave(sender)
		}},
		{regexp.MustCompile(`^!(?:p|play)\s+(.+)$`), func(ctx context.Context, sender string, groups []string) error {
			if strings.TrimSpace(groups[0]) == "random" {
				return g.PlayRandom(sender)
			}
			indices, err := parseIndices(groups[0])
			if err != nil {
				return err
			}
			return g.Play(sender, indices)
		}},
		{regexp.MustCompile(`^!(?:w|winner)\s+(.+)$`), func(ctx context.Context, sender string, groups []string) error {
			index, err := strconv.Atoi(strings.TrimSpace(groups[0]))
			if err != nil {
				return errBadWinner
			}
			return g.Judge(ctx, sender, index)
		}},
		{regexp.MustCompile(`^!kick\s+(.+)$`), func(ctx context.Context, sender string, groups []string) error {
			return g.VoteKick(sender, strings.TrimSpace(groups[0]))
		}},
		{regexp.MustCompile(`^!redraw\s+(.+)$`), func(ctx context.Context, sender string, groups []string) error {
			indices, err := parseIndices(groups[0])
			if err != nil {
				return err
			}
			return g.Redraw(ctx, sender, indices)
		}},
		{regexp.MustCompile(`^!hand\s*$`), func(ctx context.Context, sender string, _ []string) error {
			return g.ShowHand(sender)
		}},
		{regexp.MustCompile(`^!players\s*$`), func(ctx context.Context, sender string, _ []string) error {
			g.ShowPlayers(sender)
			return nil
		}},
		{regexp.MustCompile(`^!mystatus\s*$`), func(ctx context.Context, sender string, _ []string) error {
			g.MyStatus(ctx, sender)
			return nil
		}},
		{regexp.MustCompile(`^!gamestatus\s*$`), func(ctx context.Context, sender string, _ []string) error {
			g.GameStatus(ctx, sender)
			return nil
		}},
		{regexp.MustCompile(`^!poke\s+(.+)$`), func(ctx context.Context, sender string, groups []string) error {
			return g.Poke(sender, strings.TrimSpace(groups[0]))
		}},
		{regexp.MustCompile(`^!addcard\s+(.+)$`), func(ctx context.Context, sender string, groups []string) error {
			text, color, err := parseAddCard(groups[0])
			if err != nil {
				return err
			}
			return g.AddCard(ctx, sender, text, color)
		}},
	}
	return r
}

// Route dispatches a "!" line. Unrecognized commands are an error so
// the sender learns their line went nowhere.
func (r *Router) Route(ctx context.Context, sender, line string) error {
	for _, cmd := range r.commands {
		if m := cmd.re.FindStringSubmatch(line); m != nil {
			return cmd.handler(ctx, sender, m[1:])
		}
	}
	return errUnknownCmd
}

func parseIndices(s string) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errBadIndices
	}
	indices := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errBadIndices
		}
		indices[i] = n
	}
	return indices, nil
}

var addCardRe = regexp.MustCompile(`^"(.+)"\s+"?([a-z]+)"?\s*$`)

func parseAddCard(s string) (text string, color deck.Color, err error) {
	m := addCardRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", errBadCardArgs
	}
	return m[1], deck.Color(m[2]), nil
}
