package game

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/score"
)

// CardStore is the slice of persistence the engine needs for the
// add-card command; cards are committed before they enter the deck.
type CardStore interface {
	InsertCard(ctx context.Context, text string, color deck.Color, official bool) error
}

// Join seats the player immediately while the game is waiting to start,
// otherwise queues them for the next round boundary.
func (g *Game) Join(player string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.roster.isSeated(player) {
		return ErrAlreadyPlaying
	}
	if g.roster.isQueued(player) {
		return ErrAlreadyQueued
	}

	if g.phase == PhaseJoin {
		g.roster.seat(player)
		if g.roster.count() >= g.cfg.MinPlayers {
			g.msgr.Announce(fmt.Sprintf(
				"[*] %s has joined the game! There are now enough players to play!", player))
			g.startRound()
		} else {
			g.msgr.Announce(fmt.Sprintf(
				"[*] %s has joined the game! Waiting for %d more player(s).",
				player, g.cfg.MinPlayers-g.roster.count()))
		}
	} else {
		g.roster.queue(player)
		g.msgr.Announce(fmt.Sprintf("[*] %s has joined the queue!", player))
	}

	g.msgr.Announce(g.currentPlayersLine())
	return nil
}

// Leave withdraws the player from the game or the join queue.
func (g *Game) Leave(player string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.roster.isSeated(player) && !g.roster.isQueued(player) {
		return ErrNotPlaying
	}

	g.msgr.Announce(fmt.Sprintf("[*] %s has left the game!", player))
	g.removePlayer(player)
	return nil
}

// Play submits the cards at the given 1-based hand indices as the
// player's answer, in the order given. Re-playing replaces the prior
// submission.
func (g *Game) Play(player string, indices []int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.play(player, indices)
}

// PlayRandom submits a uniform random sample of the player's hand.
func (g *Game) PlayRandom(player string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlay {
		return ErrNoRound
	}
	if !g.roster.isSeated(player) {
		return ErrNotPlaying
	}
	if player == g.dealer {
		return ErrDealerPlays
	}

	blanks := g.prompt.Blanks()
	handSize := len(g.roster.hand(player))
	if handSize < blanks {
		return ErrWrongCardCount
	}

	perm := g.rng.Perm(handSize)
	indices := make([]int, blanks)
	for i := 0; i < blanks; i++ {
		indices[i] = perm[i] + 1
	}
	return g.play(player, indices)
}

func (g *Game) play(player string, indices []int) error {
	if g.phase != PhasePlay {
		return ErrNoRound
	}
	if !g.roster.isSeated(player) {
		return ErrNotPlaying
	}
	if player == g.dealer {
		return ErrDealerPlays
	}
	if len(indices) == 0 {
		return ErrNoIndices
	}
	if len(indices) != g.prompt.Blanks() {
		return ErrWrongCardCount
	}

	hand := g.roster.hand(player)
	seen := make(map[int]struct{}, len(indices))
	for _, n := range indices {
		if n < 1 || n > len(hand) {
			return ErrNoSuchCard
		}
		if _, dup := seen[n]; dup {
			return ErrWrongCardCount
		}
		seen[n] = struct{}{}
	}

	// A re-play takes the previous submission back first. Returned
	// cards append to the end of the hand, so the validated indices
	// keep pointing at the same cards.
	if prev, ok := g.answers[player]; ok {
		hand = append(hand, prev...)
		delete(g.answers, player)
	}

	selected := make([]deck.Card, len(indices))
	for i, n := range indices {
		selected[i] = hand[n-1]
	}

	// Remove from the highest index down so positions don't shift
	// under us.
	desc := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))
	for _, n := range desc {
		hand = append(hand[:n-1], hand[n:]...)
	}
	g.roster.hands[player] = hand
	g.answers[player] = selected

	if len(g.answers) == len(g.avail) {
		g.advanceToJudging()
	}
	return nil
}

// Judge records the dealer's pick, awards the winner a point, shows the
// scoreboard and resets for the next round. A persistence failure
// fails the judgment and leaves the round waiting.
func (g *Game) Judge(ctx context.Context, player string, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseJudging {
		return ErrNotJudging
	}
	if player != g.dealer {
		return ErrNotDealer
	}
	if index < 1 || index > len(g.answers) {
		return ErrNoSuchAnswer
	}

	winner := g.avail[index-1]
	if err := g.ledger.Award(ctx, g.roster.seating, winner); err != nil {
		g.logger.Error("failed to award point", "player", winner, "error", err)
		return fmt.Errorf("could not record the win: %w", err)
	}

	g.msgr.Announce(fmt.Sprintf("[*] %s, you won this round! Congrats!", winner))
	g.showTopScores(ctx)
	g.resetRound()
	return nil
}

// VoteKick records a kick vote against target and removes them once
// votes/(seated-1) passes the threshold.
func (g *Game) VoteKick(voter, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	kicked, err := g.roster.vote(voter, target, g.cfg.KickPercent)
	if err != nil {
		return err
	}
	if kicked {
		g.msgr.Announce(fmt.Sprintf("[*] %s has been kicked from the game!", target))
		g.removePlayer(target)
	}
	return nil
}

// Redraw exchanges the cards at the given hand indices for fresh ones,
// at a cost of one point. Allowed whenever the player is seated.
func (g *Game) Redraw(ctx context.Context, player string, indices []int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.roster.isSeated(player) {
		return ErrNotPlaying
	}
	if len(indices) == 0 {
		return ErrNoIndices
	}

	// Duplicate indices collapse to one exchange.
	uniq := make(map[int]struct{}, len(indices))
	hand := g.roster.hand(player)
	for _, n := range indices {
		if n < 1 || n > len(hand) {
			return ErrNoSuchCard
		}
		uniq[n] = struct{}{}
	}

	if err := g.ledger.Penalize(ctx, g.roster.seating, player); err != nil {
		if errors.Is(err, score.ErrNoPoints) {
			return ErrNotEnoughPoints
		}
		g.logger.Error("failed to spend point", "player", player, "error", err)
		return fmt.Errorf("could not spend a point: %w", err)
	}

	desc := make([]int, 0, len(uniq))
	for n := range uniq {
		desc = append(desc, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))
	for _, n := range desc {
		g.deck.Discard(deck.Answer, hand[n-1])
		hand = append(hand[:n-1], hand[n:]...)
	}
	g.roster.hands[player] = hand
	g.roster.deal(player)

	plural := ""
	if len(desc) > 1 {
		plural = "s"
	}
	g.msgr.Whisper(player, fmt.Sprintf("Exchanged %d card%s.", len(desc), plural))
	g.whisperHand(player)
	return nil
}

// AddCard persists a custom card and feeds it into the matching discard
// pile so it enters circulation at the next reshuffle.
func (g *Game) AddCard(ctx context.Context, player, text string, color deck.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !color.Valid() {
		return ErrBadColor
	}

	var clean string
	if color == deck.Prompt {
		normalized, blanks := deck.NormalizeBlanks(text)
		if blanks == 0 || blanks > 3 {
			return ErrBadBlankCount
		}
		clean = deck.FormatPrompt(normalized)
	} else {
		clean = deck.FormatAnswer(text)
	}

	if err := g.cards.InsertCard(ctx, clean, color, false); err != nil {
		g.logger.Error("failed to persist card", "error", err)
		return fmt.Errorf("could not save the card: %w", err)
	}
	g.deck.Discard(color, deck.NewCard(clean, color))

	g.msgr.Whisper(player, fmt.Sprintf("[*] Card: %s Color: %s added!", clean, color))
	return nil
}

// Poke sends a manual reminder to a delinquent player, or re-shows the
// answers to a dealer who is holding up judging.
func (g *Game) Poke(requester, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.roster.isSeated(target) {
		return ErrUnknownPlayer
	}
	if target == requester {
		return ErrPokeSelf
	}

	if target == g.dealer {
		if g.phase != PhaseJudging {
			return ErrDealerIdle
		}
		g.showAnswers()
		return nil
	}

	if g.phase != PhasePlay {
		return ErrPlayersIdle
	}
	if _, ok := g.answers[target]; ok {
		return ErrAlreadyPlayed
	}
	g.msgr.Whisper(target, "[*] Please play a card.")
	g.whisperHand(target)
	return nil
}

// ShowHand whispers the player their current hand.
func (g *Game) ShowHand(player string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.roster.isSeated(player) {
		return ErrNotPlaying
	}
	g.whisperHand(player)
	return nil
}

// ShowPlayers whispers the seated and queued player lists.
func (g *Game) ShowPlayers(player string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.msgr.Whisper(player, g.currentPlayersLine())
	g.msgr.Whisper(player, g.queuedPlayersLine())
}

// MyStatus whispers the player their score, role and hand.
func (g *Game) MyStatus(ctx context.Context, player string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	points, err := g.ledger.Get(ctx, g.roster.seating, player)
	if err != nil {
		g.logger.Error("failed to load score", "player", player, "error", err)
	}

	playing, dealing := "No", "No"
	if g.roster.isSeated(player) {
		playing = "Yes"
	}
	if player == g.dealer {
		dealing = "Yes"
	}

	g.msgr.Whisper(player, player)
	g.msgr.Whisper(player, fmt.Sprintf("Score: %d", points))
	g.msgr.Whisper(player, fmt.Sprintf("Playing: %s", playing))
	g.msgr.Whisper(player, fmt.Sprintf("Dealer: %s", dealing))
	if g.roster.isSeated(player) {
		g.whisperHand(player)
	} else {
		g.msgr.Whisper(player, "Hand: [None]")
	}
}

// GameStatus whispers a per-player table of the current round: who has
// played, who is dealing and everyone's score for this group.
func (g *Game) GameStatus(ctx context.Context, requester string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	type row struct {
		player string
		points int
	}
	rows := make([]row, 0, g.roster.count())
	for _, p := range g.roster.seating {
		points, err := g.ledger.Get(ctx, g.roster.seating, p)
		if err != nil {
			g.logger.Error("failed to load score", "player", p, "error", err)
		}
		rows = append(rows, row{player: p, points: points})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].points > rows[j].points })

	g.msgr.Whisper(requester, "    Player    |    Played    |    Dealer    |    Score")
	g.msgr.Whisper(requester, "______________|______________|______________|____________")
	for _, r := range rows {
		_, played := g.answers[r.player]
		g.msgr.Whisper(requester, fmt.Sprintf("%14s %14t %14t %14d",
			r.player, played, r.player == g.dealer, r.points))
	}
}
