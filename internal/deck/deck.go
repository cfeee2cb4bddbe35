package deck

import (
	rand "math/rand/v2"
)

// Deck owns the draw and discard piles for both card colors. It knows
// nothing about players or rounds; callers move cards in and out.
//
// Draw recycles the discard pile if a draw pile empties, so a pool can
// only run dry when every card of that color is held outside the deck.
type Deck struct {
	draw    map[Color][]Card
	discard map[Color][]Card
	rng     *rand.Rand
}

// New creates a deck from the given cards, split by color and shuffled.
func New(cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{
		draw:    map[Color][]Card{Prompt: nil, Answer: nil},
		discard: map[Color][]Card{Prompt: nil, Answer: nil},
		rng:     rng,
	}
	for _, c := range cards {
		d.draw[c.Color] = append(d.draw[c.Color], c)
	}
	d.shuffle(Prompt)
	d.shuffle(Answer)
	return d
}

func (d *Deck) shuffle(color Color) {
	pile := d.draw[color]
	d.rng.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
}

// Draw removes and returns the top card of the given color. If the draw
// pile is empty the discard pile is recycled first. The second return
// is false only when no card of that color exists anywhere in the deck.
func (d *Deck) Draw(color Color) (Card, bool) {
	if len(d.draw[color]) == 0 {
		d.recycle(color)
	}
	pile := d.draw[color]
	if len(pile) == 0 {
		return Card{}, false
	}
	card := pile[0]
	d.draw[color] = pile[1:]
	return card, true
}

// Discard appends cards to the discard pile of the given color.
func (d *Deck) Discard(color Color, cards ...Card) {
	d.discard[color] = append(d.discard[color], cards...)
}

// MaybeReshuffle folds a discard pile back into its draw pile once it
// has grown past twice the draw pile's size. Called at round
// boundaries so draw piles are replenished before they can empty
// mid-round.
func (d *Deck) MaybeReshuffle() {
	for _, color := range []Color{Prompt, Answer} {
		if len(d.discard[color]) > len(d.draw[color])*2 {
			d.recycle(color)
		}
	}
}

func (d *Deck) recycle(color Color) {
	if len(d.discard[color]) == 0 {
		return
	}
	d.draw[color] = append(d.draw[color], d.discard[color]...)
	d.discard[color] = nil
	d.shuffle(color)
}

// Remaining returns the size of the draw pile for a color.
func (d *Deck) Remaining(color Color) int {
	return len(d.draw[color])
}

// Discarded returns the size of the discard pile for a color.
func (d *Deck) Discarded(color Color) int {
	return len(d.discard[color])
}
