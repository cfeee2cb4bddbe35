package chat

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blanksbot/internal/game"
)

// Config is the bot's file configuration.
type Config struct {
	Server   ServerSettings    `hcl:"server,block"`
	Game     *GameSettings     `hcl:"game,block"`
	Database *DatabaseSettings `hcl:"database,block"`
	Corpus   *CorpusSettings   `hcl:"corpus,block"`
}

// ServerSettings configures the websocket gateway.
type ServerSettings struct {
	Addr     string `hcl:"addr,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings configures the round engine.
type GameSettings struct {
	HandSize       int     `hcl:"hand_size,optional"`
	MinPlayers     int     `hcl:"min_players,optional"`
	TimeAllowedSec int     `hcl:"time_allowed_sec,optional"`
	TimesToCheck   int     `hcl:"times_to_check,optional"`
	KickPercent    float64 `hcl:"kick_percent,optional"`
	TopScores      int     `hcl:"top_scores,optional"`
}

// DatabaseSettings configures persistence. An empty URL selects the
// in-memory store.
type DatabaseSettings struct {
	URL string `hcl:"url,optional"`
}

// CorpusSettings configures the card corpus import source.
type CorpusSettings struct {
	PromptsURL string `hcl:"prompts_url,optional"`
	AnswersURL string `hcl:"answers_url,optional"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Addr:     ":8080",
			LogLevel: "info",
		},
		Game: &GameSettings{
			HandSize:       8,
			MinPlayers:     3,
			TimeAllowedSec: 180,
			TimesToCheck:   3,
			KickPercent:    0.70,
			TopScores:      5,
		},
	}
}

// LoadConfig reads an HCL config file, applying defaults for anything
// unset. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Addr == "" {
		config.Server.Addr = defaults.Server.Addr
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game == nil {
		config.Game = defaults.Game
	}
	if config.Game.HandSize == 0 {
		config.Game.HandSize = defaults.Game.HandSize
	}
	if config.Game.MinPlayers == 0 {
		config.Game.MinPlayers = defaults.Game.MinPlayers
	}
	if config.Game.TimeAllowedSec == 0 {
		config.Game.TimeAllowedSec = defaults.Game.TimeAllowedSec
	}
	if config.Game.TimesToCheck == 0 {
		config.Game.TimesToCheck = defaults.Game.TimesToCheck
	}
	if config.Game.KickPercent == 0 {
		config.Game.KickPercent = defaults.Game.KickPercent
	}
	if config.Game.TopScores == 0 {
		config.Game.TopScores = defaults.Game.TopScores
	}

	return &config, nil
}

// Validate checks the configuration for nonsense values.
func (c *Config) Validate() error {
	if c.Game.MinPlayers < 3 {
		return fmt.Errorf("min_players must be at least 3, got %d", c.Game.MinPlayers)
	}
	if c.Game.HandSize < 1 {
		return fmt.Errorf("hand_size must be positive, got %d", c.Game.HandSize)
	}
	if c.Game.TimesToCheck < 1 {
		return fmt.Errorf("times_to_check must be positive, got %d", c.Game.TimesToCheck)
	}
	if c.Game.KickPercent <= 0 || c.Game.KickPercent >= 1 {
		return fmt.Errorf("kick_percent must be between 0 and 1, got %f", c.Game.KickPercent)
	}
	return nil
}

// DatabaseURL returns the configured database URL, or "" when the
// database block is absent.
func (c *Config) DatabaseURL() string {
	if c.Database == nil {
		return ""
	}
	return c.Database.URL
}

// GameConfig converts the file settings to the engine's config.
func (c *Config) GameConfig() game.Config {
	return game.Config{
		HandSize:     c.Game.HandSize,
		MinPlayers:   c.Game.MinPlayers,
		TimeAllowed:  time.Duration(c.Game.TimeAllowedSec) * time.Second,
		TimesToCheck: c.Game.TimesToCheck,
		KickPercent:  c.Game.KickPercent,
		TopScores:    c.Game.TopScores,
	}
}
