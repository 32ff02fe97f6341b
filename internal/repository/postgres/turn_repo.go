package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/freeeve/sengoku/api/internal/model"
)

// TurnRepo archives completed turns and the game's event history.
type TurnRepo struct {
	db *sql.DB
}

// NewTurnRepo creates a TurnRepo.
func NewTurnRepo(db *sql.DB) *TurnRepo {
	return &TurnRepo{db: db}
}

// SaveTurn inserts the record of a completed turn. Saving the same turn twice
// replaces the earlier record.
func (r *TurnRepo) SaveTurn(ctx context.Context, rec model.TurnRecord) (*model.TurnRecord, error) {
	out := rec
	var state []byte
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO turns (game_id, turn, year, season, log, state)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (game_id, turn) DO UPDATE
		   SET year = EXCLUDED.year, season = EXCLUDED.season, log = EXCLUDED.log, state = EXCLUDED.state
		 RETURNING id, state, created_at`,
		rec.GameID, rec.Turn, rec.Year, rec.Season, pq.Array(rec.Log), nullJSON(rec.State),
	).Scan(&out.ID, &state, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save turn: %w", err)
	}
	out.State = state
	return &out, nil
}

// ListTurns returns a game's turn records in order, without their state
// snapshots.
func (r *TurnRepo) ListTurns(ctx context.Context, gameID string) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, turn, year, season, log, created_at
		 FROM turns WHERE game_id = $1 ORDER BY turn`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []model.TurnRecord
	for rows.Next() {
		var t model.TurnRecord
		if err := rows.Scan(&t.ID, &t.GameID, &t.Turn, &t.Year, &t.Season, pq.Array(&t.Log), &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// SaveEvents inserts a batch of event history entries.
func (r *TurnRepo) SaveEvents(ctx context.Context, events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// A turn's events are written as a whole; rewriting them keeps a
	// replayed turn from doubling its history.
	cleared := make(map[int]bool)
	for _, e := range events {
		if cleared[e.Turn] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM game_events WHERE game_id = $1 AND turn = $2`, e.GameID, e.Turn); err != nil {
			return fmt.Errorf("clear events for turn %d: %w", e.Turn, err)
		}
		cleared[e.Turn] = true
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO game_events (game_id, turn, season, event_id, province_id, choice, effects)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("prepare insert event: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.ExecContext(ctx, e.GameID, e.Turn, e.Season, e.EventID, e.ProvinceID,
			nullStr(e.Choice), nullJSON(e.Effects))
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// ListEvents returns a game's event history in order.
func (r *TurnRepo) ListEvents(ctx context.Context, gameID string) ([]model.EventRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, turn, season, event_id, province_id, COALESCE(choice, ''), COALESCE(effects, 'null'), created_at
		 FROM game_events WHERE game_id = $1 ORDER BY turn, created_at`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.EventRecord
	for rows.Next() {
		var e model.EventRecord
		var effects []byte
		if err := rows.Scan(&e.ID, &e.GameID, &e.Turn, &e.Season, &e.EventID, &e.ProvinceID, &e.Choice, &effects, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Effects = effects
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
