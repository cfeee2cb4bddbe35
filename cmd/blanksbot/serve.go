package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blanksbot/internal/chat"
	"github.com/lox/blanksbot/internal/corpus"
	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/game"
	"github.com/lox/blanksbot/internal/randutil"
	"github.com/lox/blanksbot/internal/score"
	"github.com/lox/blanksbot/internal/store"
)

// ServeCmd runs the chat gateway and game engine.
type ServeCmd struct {
	Addr        string `kong:"help='Listen address (overrides config)'"`
	Config      string `kong:"default='blanksbot.hcl',help='Path to HCL config file'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
	Memory      bool   `kong:"help='Use the in-memory store instead of Postgres'"`
	DatabaseURL string `kong:"env='DATABASE_URL',help='Postgres connection URL (overrides config)'"`
	Seed        *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServeCmd) Run() error {
	config, err := chat.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		config.Server.Addr = c.Addr
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger := setupLogger(c.Debug, config.Server.LogLevel)

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cardStore, scoreStore, cleanup, err := c.openStores(ctx, config, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	cards, err := loadCards(ctx, cardStore, config, logger)
	if err != nil {
		return err
	}

	server := chat.NewServer(config.Server.Addr, logger)
	g := game.New(
		config.GameConfig(),
		deck.New(cards, rng),
		score.NewLedger(scoreStore),
		cardStore,
		server,
		quartz.NewReal(),
		rng,
		logger.WithPrefix("game"),
	)
	server.SetRouter(chat.NewRouter(g))

	logger.Info("starting blanksbot",
		"addr", config.Server.Addr,
		"min_players", config.Game.MinPlayers,
		"hand_size", config.Game.HandSize,
		"cards", len(cards))

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	return group.Wait()
}

// openStores selects Postgres or the in-memory store. The returned
// cleanup closes the pool when one was opened.
func (c *ServeCmd) openStores(ctx context.Context, config *chat.Config, logger *log.Logger) (store.CardStore, score.Store, func(), error) {
	databaseURL := c.DatabaseURL
	if databaseURL == "" {
		databaseURL = config.DatabaseURL()
	}

	if c.Memory || databaseURL == "" {
		logger.Info("using in-memory store; cards and scores are not persisted")
		mem := store.NewMemory()
		return mem, mem, func() {}, nil
	}

	if err := store.Migrate(databaseURL); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	pg, err := store.NewPostgres(ctx, databaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pg, pg, pg.Close, nil
}

// loadCards reads the full corpus from the store, importing from the
// configured corpus URLs first when the store is empty.
func loadCards(ctx context.Context, cardStore store.CardStore, config *chat.Config, logger *log.Logger) ([]deck.Card, error) {
	cards, err := readCards(ctx, cardStore)
	if err != nil {
		return nil, err
	}

	if len(cards) == 0 && config.Corpus != nil && config.Corpus.PromptsURL != "" {
		importer := corpus.New(nil, cardStore, logger.WithPrefix("corpus"))
		if err := importer.Run(ctx, config.Corpus.PromptsURL, config.Corpus.AnswersURL); err != nil {
			return nil, fmt.Errorf("failed to import corpus: %w", err)
		}
		cards, err = readCards(ctx, cardStore)
		if err != nil {
			return nil, err
		}
	}

	prompts := 0
	for _, card := range cards {
		if card.Color == deck.Prompt {
			prompts++
		}
	}
	if prompts == 0 || len(cards) == prompts {
		return nil, fmt.Errorf("card store has %d prompts and %d answers; run import-cards or set corpus URLs",
			prompts, len(cards)-prompts)
	}
	return cards, nil
}

func readCards(ctx context.Context, cardStore store.CardStore) ([]deck.Card, error) {
	var cards []deck.Card
	for _, color := range []deck.Color{deck.Prompt, deck.Answer} {
		records, err := cardStore.FindCards(ctx, color, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s cards: %w", color, err)
		}
		for _, rec := range records {
			cards = append(cards, deck.NewCard(rec.Text, rec.Color))
		}
	}
	return cards, nil
}

func setupLogger(debug bool, level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}
