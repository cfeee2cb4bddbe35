package game

import (
	"github.com/lox/blanksbot/internal/deck"
)

// roster owns the seated players and their hands, the join and dealer
// queues, and the kick-vote tallies. Round state (dealer, prompt,
// answers) lives on Game; the roster only tracks membership.
type roster struct {
	deck     *deck.Deck
	handSize int

	seating []string // seated players in join order
	hands   map[string][]deck.Card

	joinQueue   []string // players entering at the next round boundary
	dealerQueue []string // upcoming dealer rotation

	votes map[string]map[string]struct{} // kick target -> voters
}

func newRoster(d *deck.Deck, handSize int) *roster {
	return &roster{
		deck:     d,
		handSize: handSize,
		hands:    make(map[string][]deck.Card),
		votes:    make(map[string]map[string]struct{}),
	}
}

func (r *roster) isSeated(player string) bool {
	_, ok := r.hands[player]
	return ok
}

func (r *roster) isQueued(player string) bool {
	for _, p := range r.joinQueue {
		if p == player {
			return true
		}
	}
	return false
}

func (r *roster) count() int {
	return len(r.seating)
}

// seated returns a copy of the seating order.
func (r *roster) seated() []string {
	out := make([]string, len(r.seating))
	copy(out, r.seating)
	return out
}

func (r *roster) hand(player string) []deck.Card {
	return r.hands[player]
}

// seat adds player to the table and deals them a full hand.
func (r *roster) seat(player string) {
	if r.isSeated(player) {
		return
	}
	r.seating = append(r.seating, player)
	r.hands[player] = nil
	r.deal(player)
}

// queue appends player to the join queue for the next round boundary.
func (r *roster) queue(player string) {
	r.joinQueue = append(r.joinQueue, player)
}

// deal tops up player's hand to the target size, one draw at a time.
// The deck recycles its discards on demand, so a short deal is only
// possible when the card corpus itself is too small; that is prevented
// at startup.
func (r *roster) deal(player string) {
	hand := r.hands[player]
	for len(hand) < r.handSize {
		card, ok := r.deck.Draw(deck.Answer)
		if !ok {
			break
		}
		hand = append(hand, card)
	}
	r.hands[player] = hand
}

// withdraw removes player from every roster structure, discarding any
// held cards. Safe to call for players who were never seated.
func (r *roster) withdraw(player string) {
	if hand, ok := r.hands[player]; ok {
		r.deck.Discard(deck.Answer, hand...)
		delete(r.hands, player)
	}
	for i, p := range r.seating {
		if p == player {
			r.seating = append(r.seating[:i], r.seating[i+1:]...)
			break
		}
	}
	r.joinQueue = remove(r.joinQueue, player)
	r.dealerQueue = remove(r.dealerQueue, player)

	delete(r.votes, player)
	for _, voters := range r.votes {
		delete(voters, player)
	}
}

// vote records voter's kick vote against target and reports whether the
// threshold was crossed: votes / (seated - 1) strictly above percent.
func (r *roster) vote(voter, target string, percent float64) (bool, error) {
	if !r.isSeated(voter) {
		return false, ErrNotPlaying
	}
	if !r.isSeated(target) {
		return false, ErrUnknownPlayer
	}
	if voter == target {
		return false, ErrKickSelf
	}
	if _, ok := r.votes[target][voter]; ok {
		return false, ErrAlreadyVoted
	}

	if r.votes[target] == nil {
		r.votes[target] = make(map[string]struct{})
	}
	r.votes[target][voter] = struct{}{}

	voters := r.count() - 1
	if voters <= 0 {
		return false, nil
	}
	return float64(len(r.votes[target]))/float64(voters) > percent, nil
}

// clearVotes wipes all kick tallies, done at every round boundary.
func (r *roster) clearVotes() {
	r.votes = make(map[string]map[string]struct{})
}

// rotateDealer pops the next dealer, refilling the rotation from the
// current seating order when it runs dry.
func (r *roster) rotateDealer() string {
	if len(r.dealerQueue) == 0 {
		r.dealerQueue = append(r.dealerQueue, r.seating...)
	}
	dealer := r.dealerQueue[0]
	r.dealerQueue = r.dealerQueue[1:]
	return dealer
}

func remove(list []string, player string) []string {
	for i, p := range list {
		if p == player {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
