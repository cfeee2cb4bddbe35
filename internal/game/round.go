package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/lox/blanksbot/internal/deck"
)

// startRound runs the round-boundary actions: merge the join queue,
// reshuffle exhausted piles, then either start a play round or fall
// back to the join phase. Callers hold g.mu.
func (g *Game) startRound() {
	for _, p := range g.roster.joinQueue {
		if !g.roster.isSeated(p) {
			g.roster.seat(p)
			g.msgr.Announce(fmt.Sprintf("[*] %s has joined the game!", p))
		}
	}
	g.roster.joinQueue = nil

	g.deck.MaybeReshuffle()

	if g.roster.count() >= g.cfg.MinPlayers {
		g.startPlay()
	} else {
		g.phase = PhaseJoin
	}
}

// startPlay enters the play phase: rotate the dealer, draw a prompt,
// top up every hand and arm the AFK checks. Callers hold g.mu and
// guarantee at least MinPlayers are seated.
func (g *Game) startPlay() {
	g.dealer = g.roster.rotateDealer()

	g.avail = nil
	for _, p := range g.roster.seating {
		if p != g.dealer {
			g.avail = append(g.avail, p)
		}
	}

	prompt, ok := g.deck.Draw(deck.Prompt)
	if !ok {
		// Unreachable once the corpus is seeded; startup refuses to run
		// without prompt cards.
		g.logger.Error("no prompt cards left to draw")
		g.phase = PhaseJoin
		return
	}
	g.prompt = prompt

	g.msgr.Announce(fmt.Sprintf("[*] %s reads: %s", g.dealer, g.prompt.Text))
	g.msgr.Announce(`[*] Type: "!play <card #>" to fill blanks. Multiple cards are played with "!play <card #> <card #>".`)

	for _, p := range g.roster.seating {
		g.roster.deal(p)
	}
	for _, p := range g.avail {
		g.whisperHand(p)
	}

	g.phase = PhasePlay
	g.armPlayChecks()

	g.logger.Info("round started", "dealer", g.dealer, "players", g.roster.count())
}

// resetRound discards the prompt and all submitted answers without
// awarding a point, then runs the round-boundary actions. Callers hold
// g.mu.
func (g *Game) resetRound() {
	if g.prompt.Text != "" {
		g.deck.Discard(deck.Prompt, g.prompt)
	}
	for p, cards := range g.answers {
		g.deck.Discard(deck.Answer, cards...)
		delete(g.answers, p)
	}
	g.prompt = deck.Card{}
	g.avail = nil
	g.roster.clearVotes()

	g.startRound()
}

// advanceToJudging moves play -> judging: fix a shuffled ordering of
// the available players (which numbers the anonymous answers), present
// them, and put the dealer on the clock. Callers hold g.mu.
func (g *Game) advanceToJudging() {
	g.msgr.Announce("[*] All players have turned in their cards.")

	g.rng.Shuffle(len(g.avail), func(i, j int) {
		g.avail[i], g.avail[j] = g.avail[j], g.avail[i]
	})

	g.showAnswers()
	g.phase = PhaseJudging
	g.armJudgeCheck()
}

// removePlayer withdraws a player and applies the transition
// consequences in priority order: dealer left, below minimum during
// play, then all-answers-in. Callers hold g.mu.
func (g *Game) removePlayer(player string) {
	if cards, ok := g.answers[player]; ok {
		g.deck.Discard(deck.Answer, cards...)
		delete(g.answers, player)
	}
	g.roster.withdraw(player)
	g.removeAvail(player)

	switch g.phase {
	case PhasePlay:
		switch {
		case player == g.dealer:
			g.msgr.Announce("[*] Game restarting... dealer left.")
			g.resetRound()
		case g.roster.count() < g.cfg.MinPlayers:
			g.msgr.Announce(fmt.Sprintf(
				"[*] There are fewer than %d players playing now. Waiting for more players...",
				g.cfg.MinPlayers))
			g.resetRound()
		case len(g.avail) > 0 && len(g.answers) == len(g.avail):
			g.advanceToJudging()
		}
	case PhaseJudging:
		if player == g.dealer {
			g.msgr.Announce("[*] Game restarting... dealer left.")
			g.resetRound()
		}
	}

	g.msgr.Announce(g.currentPlayersLine())
	g.logger.Info("player removed", "player", player, "seated", g.roster.count())
}

// showAnswers announces each submission filled into the prompt's
// blanks, numbered by the shuffled available-players ordering.
func (g *Game) showAnswers() {
	for i, p := range g.avail {
		g.msgr.Announce(fmt.Sprintf("[*] [Answer #%d]: %s", i+1, g.prompt.Fill(g.answers[p])))
	}
	g.msgr.Announce(fmt.Sprintf(`[*] %s, please choose a winner with "!winner <answer #>".`, g.dealer))
}

// showTopScores announces the scoreboard for the current group.
func (g *Game) showTopScores(ctx context.Context) {
	top, err := g.ledger.Top(ctx, g.roster.seating, g.cfg.TopScores)
	if err != nil {
		g.logger.Error("failed to load scores", "error", err)
		return
	}

	g.msgr.Announce(fmt.Sprintf("%14s %14s", "User", "Score"))
	g.msgr.Announce("____________________________")
	for _, rec := range top {
		g.msgr.Announce(fmt.Sprintf("%14s|%14d", rec.Player, rec.Score))
	}
}

func (g *Game) whisperHand(player string) {
	hand := g.roster.hand(player)
	parts := make([]string, len(hand))
	for i, card := range hand {
		parts[i] = fmt.Sprintf("%d: %s", i+1, card.Text)
	}
	g.msgr.Whisper(player, fmt.Sprintf("Your hand is: [%s]", strings.Join(parts, ". ")))
}

func (g *Game) currentPlayersLine() string {
	return "[*] Current players: " + strings.Join(g.roster.seating, ", ") + "."
}

func (g *Game) queuedPlayersLine() string {
	return "[*] Queued players: " + strings.Join(g.roster.joinQueue, ", ") + "."
}
