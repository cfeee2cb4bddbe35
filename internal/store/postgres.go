package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lox/blanksbot/internal/deck"
	"github.com/lox/blanksbot/internal/score"
)

// Postgres implements CardStore and score.Store over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) FindCards(ctx context.Context, color deck.Color, officialOnly bool) ([]CardRecord, error) {
	query := `SELECT id, text, color, official FROM cards WHERE color = $1 ORDER BY id`
	args := []any{string(color)}
	if officialOnly {
		query = `SELECT id, text, color, official FROM cards WHERE color = $1 AND official ORDER BY id`
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: find cards: %w", err)
	}
	defer rows.Close()

	var out []CardRecord
	for rows.Next() {
		var rec CardRecord
		var c string
		if err := rows.Scan(&rec.ID, &rec.Text, &c, &rec.Official); err != nil {
			return nil, fmt.Errorf("store: scan card: %w", err)
		}
		rec.Color = deck.Color(c)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertCard(ctx context.Context, text string, color deck.Color, official bool) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO cards (text, color, official) VALUES ($1, $2, $3)`,
		text, string(color), official)
	if err != nil {
		return fmt.Errorf("store: insert card: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteOfficial(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM cards WHERE official`); err != nil {
		return fmt.Errorf("store: delete official cards: %w", err)
	}
	return nil
}

func (p *Postgres) FindScore(ctx context.Context, group, player string) (*score.Record, error) {
	rec := score.Record{Group: group, Player: player}

	row := p.pool.QueryRow(ctx,
		`SELECT points FROM scores WHERE group_sig = $1 AND player = $2`,
		group, player)

	if err := row.Scan(&rec.Score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: find score: %w", err)
	}
	return &rec, nil
}

func (p *Postgres) UpsertScore(ctx context.Context, rec score.Record) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO scores (group_sig, player, points) VALUES ($1, $2, $3)
		 ON CONFLICT (group_sig, player) DO UPDATE SET points = EXCLUDED.points`,
		rec.Group, rec.Player, rec.Score)
	if err != nil {
		return fmt.Errorf("store: upsert score: %w", err)
	}
	return nil
}

func (p *Postgres) ListScores(ctx context.Context, group string) ([]score.Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT player, points FROM scores WHERE group_sig = $1 ORDER BY points DESC, id`,
		group)
	if err != nil {
		return nil, fmt.Errorf("store: list scores: %w", err)
	}
	defer rows.Close()

	var out []score.Record
	for rows.Next() {
		rec := score.Record{Group: group}
		if err := rows.Scan(&rec.Player, &rec.Score); err != nil {
			return nil, fmt.Errorf("store: scan score: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
