package deck

import (
	"regexp"
	"strings"
)

// Blank is the marker used inside prompt card text to denote a blank
// that an answer card fills.
const Blank = "__________"

// Color distinguishes the two card pools.
type Color string

const (
	// Prompt cards are read by the dealer and contain 1-3 blanks.
	Prompt Color = "prompt"
	// Answer cards are played by everyone else to fill the blanks.
	Answer Color = "answer"
)

// Valid reports whether c is one of the two known colors.
func (c Color) Valid() bool {
	return c == Prompt || c == Answer
}

// Card is an immutable piece of card text tagged with its color.
type Card struct {
	Text  string
	Color Color
}

// NewCard creates a new card.
func NewCard(text string, color Color) Card {
	return Card{Text: text, Color: color}
}

// String returns the card text.
func (c Card) String() string {
	return c.Text
}

// Blanks returns the number of blank markers in the card text. Answer
// cards always return 0.
func (c Card) Blanks() int {
	return strings.Count(c.Text, Blank)
}

// Fill substitutes answers into the card's blanks left to right. Extra
// answers are ignored; missing answers leave the marker in place.
func (c Card) Fill(answers []Card) string {
	out := c.Text
	for _, a := range answers {
		out = strings.Replace(out, Blank, a.Text, 1)
	}
	return out
}

var underscoreRuns = regexp.MustCompile(`_+`)

// FormatAnswer cleans up raw answer card text: trims surrounding
// whitespace and strips a trailing period.
func FormatAnswer(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ".")
	return text
}

// FormatPrompt cleans up raw prompt card text. A prompt with no blank
// gets one appended so it can still be answered.
func FormatPrompt(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if !strings.Contains(text, Blank) {
		text += " " + Blank + "."
	}
	return text
}

// NormalizeBlanks collapses each run of underscores in text to the
// canonical Blank marker and returns the rewritten text along with the
// number of blanks found.
func NormalizeBlanks(text string) (string, int) {
	n := 0
	out := underscoreRuns.ReplaceAllStringFunc(text, func(string) string {
		n++
		return Blank
	})
	return out, n
}
