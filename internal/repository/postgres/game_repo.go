package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freeeve/sengoku/api/internal/model"
)

// GameRepo handles game database operations.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo creates a GameRepo.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

const gameColumns = `id, name, creator_id, status, seed, difficulty, player_lord, turn,
	result, winner, created_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(s rowScanner) (*model.Game, error) {
	var g model.Game
	var result, winner sql.NullString
	if err := s.Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &g.Seed, &g.Difficulty, &g.PlayerLord, &g.Turn,
		&result, &winner, &g.CreatedAt, &g.FinishedAt); err != nil {
		return nil, err
	}
	g.Result = result.String
	g.Winner = winner.String
	return &g, nil
}

// Create inserts a new active game.
func (r *GameRepo) Create(ctx context.Context, name, creatorID string, seed int64, difficulty string, playerLord int) (*model.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx,
		`INSERT INTO games (name, creator_id, seed, difficulty, player_lord)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+gameColumns,
		name, creatorID, seed, difficulty, playerLord,
	))
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

// FindByID returns a game by ID, or nil if it does not exist.
func (r *GameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	return g, nil
}

// ListByUser returns the games a user created, most recent first.
func (r *GameRepo) ListByUser(ctx context.Context, userID string) ([]model.Game, error) {
	return r.list(ctx, "list user games",
		`SELECT `+gameColumns+` FROM games WHERE creator_id = $1
		 ORDER BY created_at DESC LIMIT 50`, userID)
}

// ListFinished returns all finished games, most recent first.
func (r *GameRepo) ListFinished(ctx context.Context) ([]model.Game, error) {
	return r.list(ctx, "list finished games",
		`SELECT `+gameColumns+` FROM games WHERE status = 'finished'
		 ORDER BY finished_at DESC LIMIT 100`)
}

func (r *GameRepo) list(ctx context.Context, what, query string, args ...any) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// UpdateTurn records the number of the last completed turn.
func (r *GameRepo) UpdateTurn(ctx context.Context, gameID string, turn int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE games SET turn = $1 WHERE id = $2`, turn, gameID)
	if err != nil {
		return fmt.Errorf("update turn: %w", err)
	}
	return nil
}

// Delete removes a game and all associated data (cascades to turns, battles and events).
func (r *GameRepo) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// SetFinished marks a game as finished with its outcome.
func (r *GameRepo) SetFinished(ctx context.Context, gameID, result, winner string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'finished', result = $1, winner = $2, finished_at = now() WHERE id = $3`,
		result, nullStr(winner), gameID,
	)
	if err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	return nil
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
