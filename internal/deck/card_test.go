package deck

import "testing"

func TestBlanks(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"No blanks here.", 0},
		{"Why can't I sleep at night? " + Blank + ".", 1},
		{Blank + " + " + Blank + " = " + Blank + ".", 3},
	}

	for _, tt := range tests {
		card := NewCard(tt.text, Prompt)
		if got := card.Blanks(); got != tt.want {
			t.Errorf("Blanks(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestFill(t *testing.T) {
	prompt := NewCard("I drink to forget "+Blank+".", Prompt)
	got := prompt.Fill([]Card{NewCard("my job", Answer)})
	if got != "I drink to forget my job." {
		t.Errorf("Fill returned %q", got)
	}
}

func TestFillMultiple(t *testing.T) {
	prompt := NewCard(Blank+" is better than "+Blank+".", Prompt)
	got := prompt.Fill([]Card{NewCard("Coffee", Answer), NewCard("sleep", Answer)})
	if got != "Coffee is better than sleep." {
		t.Errorf("Fill returned %q", got)
	}
}

func TestFormatAnswer(t *testing.T) {
	if got := FormatAnswer("  A sad trombone.\n"); got != "A sad trombone" {
		t.Errorf("FormatAnswer = %q", got)
	}
	if got := FormatAnswer("No period"); got != "No period" {
		t.Errorf("FormatAnswer = %q", got)
	}
}

func TestFormatPromptAppendsBlank(t *testing.T) {
	got := FormatPrompt("What's that smell?")
	want := "What's that smell? " + Blank + "."
	if got != want {
		t.Errorf("FormatPrompt = %q, want %q", got, want)
	}

	// A prompt that already has a blank is untouched.
	keep := "What's that smell? " + Blank + "."
	if got := FormatPrompt(keep); got != keep {
		t.Errorf("FormatPrompt = %q, want %q", got, keep)
	}

	if got := FormatPrompt("  \n"); got != "" {
		t.Errorf("FormatPrompt of whitespace = %q, want empty", got)
	}
}

func TestNormalizeBlanks(t *testing.T) {
	text, n := NormalizeBlanks("___ plus _ equals chaos")
	if n != 2 {
		t.Errorf("expected 2 blanks, got %d", n)
	}
	want := Blank + " plus " + Blank + " equals chaos"
	if text != want {
		t.Errorf("NormalizeBlanks = %q, want %q", text, want)
	}

	if _, n := NormalizeBlanks("no blanks"); n != 0 {
		t.Errorf("expected 0 blanks, got %d", n)
	}
}
