package main

import (
	"context"
	"fmt"

	"github.com/lox/blanksbot/internal/corpus"
	"github.com/lox/blanksbot/internal/store"
)

// ImportCardsCmd replaces the official corpus in the database with the
// contents of two newline-delimited text files.
type ImportCardsCmd struct {
	PromptsURL  string `arg:"" help:"URL of the prompts text file"`
	AnswersURL  string `arg:"" help:"URL of the answers text file"`
	DatabaseURL string `kong:"env='DATABASE_URL',required,help='Postgres connection URL'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *ImportCardsCmd) Run() error {
	logger := setupLogger(c.Debug, "info")
	ctx := context.Background()

	if err := store.Migrate(c.DatabaseURL); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	pg, err := store.NewPostgres(ctx, c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pg.Close()

	return corpus.New(nil, pg, logger.WithPrefix("corpus")).Run(ctx, c.PromptsURL, c.AnswersURL)
}
