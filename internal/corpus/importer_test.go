package corpus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/store"
)

func corpusServer(t *testing.T, prompts, answers string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/prompts.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, prompts)
	})
	mux.HandleFunc("/answers.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, answers)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestImportReplacesOfficialCards(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	// Pre-existing cards: one official (replaced), one custom (kept).
	require.NoError(t, mem.InsertCard(ctx, "Old official", deck.Answer, true))
	require.NoError(t, mem.InsertCard(ctx, "Custom keeper", deck.Answer, false))

	srv := corpusServer(t,
		"Why me? __________.\nA prompt without a blank\n\n",
		"A tiny horse.\nRegret\n\n")

	imp := New(srv.Client(), mem, log.New(io.Discard))
	require.NoError(t, imp.Run(ctx, srv.URL+"/prompts.txt", srv.URL+"/answers.txt"))

	prompts, err := mem.FindCards(ctx, deck.Prompt, true)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, "Why me? "+deck.Blank+".", prompts[0].Text)
	// A blankless prompt gets one appended.
	assert.Equal(t, "A prompt without a blank "+deck.Blank+".", prompts[1].Text)

	answers, err := mem.FindCards(ctx, deck.Answer, false)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, "Custom keeper", answers[0].Text)
	// Trailing periods are stripped from answers.
	assert.Equal(t, "A tiny horse", answers[1].Text)
	assert.Equal(t, "Regret", answers[2].Text)

	// The old official card is gone.
	for _, a := range answers {
		assert.NotEqual(t, "Old official", a.Text)
	}
}

func TestImportFetchFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.InsertCard(ctx, "Survivor", deck.Answer, true))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	imp := New(srv.Client(), mem, log.New(io.Discard))
	err := imp.Run(ctx, srv.URL+"/prompts.txt", srv.URL+"/answers.txt")
	require.Error(t, err)

	// A failed fetch must not have touched the store.
	cards, err := mem.FindCards(ctx, deck.Answer, true)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}
