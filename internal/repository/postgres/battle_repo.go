package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freeeve/sengoku/api/internal/model"
)

// BattleRepo archives battle reports.
type BattleRepo struct {
	db *sql.DB
}

// NewBattleRepo creates a BattleRepo.
func NewBattleRepo(db *sql.DB) *BattleRepo {
	return &BattleRepo{db: db}
}

// SaveBattles inserts a batch of battles in one transaction. A battle
// already stored under the same turn and sequence number is skipped, so a
// replayed advance does not duplicate rows.
func (r *BattleRepo) SaveBattles(ctx context.Context, battles []model.BattleRecord) error {
	if len(battles) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO battles (game_id, turn, seq, attacker_lord, defender_lord, from_province, to_province,
		   attacker_troops, defender_troops, attacker_remaining, defender_remaining, captured, report)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (game_id, turn, seq) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare insert battle: %w", err)
	}
	defer stmt.Close()

	for _, b := range battles {
		_, err := stmt.ExecContext(ctx, b.GameID, b.Turn, b.Seq, b.AttackerLord, b.DefenderLord, b.FromProvince, b.ToProvince,
			b.AttackerTroops, b.DefenderTroops, b.AttackerRemaining, b.DefenderRemaining, b.Captured, nullJSON(b.Report))
		if err != nil {
			return fmt.Errorf("insert battle: %w", err)
		}
	}
	return tx.Commit()
}

// ListBattles returns a game's battles in the order they were fought.
func (r *BattleRepo) ListBattles(ctx context.Context, gameID string) ([]model.BattleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, turn, seq, attacker_lord, defender_lord, from_province, to_province,
		        attacker_troops, defender_troops, attacker_remaining, defender_remaining, captured,
		        COALESCE(report, 'null'), created_at
		 FROM battles WHERE game_id = $1 ORDER BY turn, seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var battles []model.BattleRecord
	for rows.Next() {
		var b model.BattleRecord
		var report []byte
		if err := rows.Scan(&b.ID, &b.GameID, &b.Turn, &b.Seq, &b.AttackerLord, &b.DefenderLord, &b.FromProvince, &b.ToProvince,
			&b.AttackerTroops, &b.DefenderTroops, &b.AttackerRemaining, &b.DefenderRemaining, &b.Captured,
			&report, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		b.Report = report
		battles = append(battles, b)
	}
	return battles, rows.Err()
}
