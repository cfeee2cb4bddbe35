// Package corpus seeds the card store from remote newline-delimited
// card lists. Importing replaces the official card set; custom cards
// are left alone.
package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/store"
)

// Importer fetches and stores the official card corpus.
type Importer struct {
	client *http.Client
	store  store.CardStore
	logger *log.Logger
}

// New creates an importer. A nil client falls back to
// http.DefaultClient.
func New(client *http.Client, cardStore store.CardStore, logger *log.Logger) *Importer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Importer{
		client: client,
		store:  cardStore,
		logger: logger.WithPrefix("corpus"),
	}
}

// Run fetches both card lists and replaces the official card set. Any
// failure aborts the import; an in-progress game is unaffected since
// decks are only loaded at startup.
func (i *Importer) Run(ctx context.Context, promptsURL, answersURL string) error {
	prompts, err := i.fetch(ctx, promptsURL)
	if err != nil {
		return fmt.Errorf("corpus: fetch prompts: %w", err)
	}
	answers, err := i.fetch(ctx, answersURL)
	if err != nil {
		return fmt.Errorf("corpus: fetch answers: %w", err)
	}

	if err := i.store.DeleteOfficial(ctx); err != nil {
		return fmt.Errorf("corpus: clear official cards: %w", err)
	}

	inserted := 0
	for _, line := range prompts {
		text := deck.FormatPrompt(line)
		if text == "" {
			continue
		}
		if err := i.store.InsertCard(ctx, text, deck.Prompt, true); err != nil {
			return fmt.Errorf("corpus: insert prompt: %w", err)
		}
		inserted++
	}
	for _, line := range answers {
		text := deck.FormatAnswer(line)
		if text == "" {
			continue
		}
		if err := i.store.InsertCard(ctx, text, deck.Answer, true); err != nil {
			return fmt.Errorf("corpus: insert answer: %w", err)
		}
		inserted++
	}

	i.logger.Info("card corpus imported", "cards", inserted)
	return nil
}

func (i *Importer) fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(body), "\n"), nil
}
