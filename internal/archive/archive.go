// Package archive converts finished engine work into durable records and
// writes them through the repositories.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/freeeve/sengoku/api/internal/model"
	"github.com/freeeve/sengoku/api/internal/repository"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// TurnRecord captures the state and log of the turn gs has just completed.
func TurnRecord(gameID string, gs *sengoku.GameState, log []string) (model.TurnRecord, error) {
	state, err := json.Marshal(gs)
	if err != nil {
		return model.TurnRecord{}, fmt.Errorf("marshal state: %w", err)
	}
	return model.TurnRecord{
		GameID: gameID,
		Turn:   gs.Turn,
		Year:   gs.Year(),
		Season: gs.Season.String(),
		Log:    append([]string(nil), log...),
		State:  state,
	}, nil
}

// BattleRecords flattens battle reports into rows.
func BattleRecords(gameID string, reports []*sengoku.BattleReport) ([]model.BattleRecord, error) {
	out := make([]model.BattleRecord, 0, len(reports))
	for _, r := range reports {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal battle report: %w", err)
		}
		out = append(out, model.BattleRecord{
			GameID:            gameID,
			Turn:              r.Turn,
			Seq:               r.Seq,
			AttackerLord:      r.AttackerLord,
			DefenderLord:      r.DefenderLord,
			FromProvince:      r.FromProvince,
			ToProvince:        r.ToProvince,
			AttackerTroops:    r.AttackerTroops,
			DefenderTroops:    r.DefenderTroops,
			AttackerRemaining: r.Result.AttackerRemaining,
			DefenderRemaining: r.Result.DefenderRemaining,
			Captured:          r.Result.ProvinceCaptured,
			Report:            raw,
		})
	}
	return out, nil
}

// EventRecords returns the history entries written during the current turn.
func EventRecords(gameID string, gs *sengoku.GameState) ([]model.EventRecord, error) {
	var out []model.EventRecord
	for _, e := range gs.EventHistory {
		if e.Turn != gs.Turn {
			continue
		}
		effects, err := json.Marshal(e.Effects)
		if err != nil {
			return nil, fmt.Errorf("marshal event effects: %w", err)
		}
		out = append(out, model.EventRecord{
			GameID:     gameID,
			Turn:       e.Turn,
			Season:     e.Season,
			EventID:    e.EventID,
			ProvinceID: e.ProvinceID,
			Choice:     e.Choice,
			Effects:    effects,
		})
	}
	return out, nil
}

// Writer persists archive records.
type Writer struct {
	Turns   repository.TurnRepository
	Battles repository.BattleRepository
}

// SaveBattles stores the reports of battles fought in one advance.
func (w Writer) SaveBattles(ctx context.Context, gameID string, reports []*sengoku.BattleReport) error {
	if len(reports) == 0 {
		return nil
	}
	rows, err := BattleRecords(gameID, reports)
	if err != nil {
		return err
	}
	if err := w.Battles.SaveBattles(ctx, rows); err != nil {
		return fmt.Errorf("save battles: %w", err)
	}
	return nil
}

// SaveTurn stores the completed turn and the events it produced.
func (w Writer) SaveTurn(ctx context.Context, gameID string, gs *sengoku.GameState, log []string) error {
	rec, err := TurnRecord(gameID, gs, log)
	if err != nil {
		return err
	}
	if _, err := w.Turns.SaveTurn(ctx, rec); err != nil {
		return fmt.Errorf("save turn %d: %w", gs.Turn, err)
	}
	events, err := EventRecords(gameID, gs)
	if err != nil {
		return err
	}
	if len(events) > 0 {
		if err := w.Turns.SaveEvents(ctx, events); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
	}
	return nil
}
