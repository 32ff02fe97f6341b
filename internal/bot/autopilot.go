package bot

import (
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// Autopilot plays the human lord's turn with a Strategy. It is what the
// arena, the remote bot and the TUI's auto mode resume PlayerTurn with.
type Autopilot struct {
	strategy Strategy
	catalog  *sengoku.EventCatalog
	rng      *sengoku.Rand
}

// NewAutopilot returns an autopilot with its own random source.
func NewAutopilot(strategy Strategy, catalog *sengoku.EventCatalog, seed uint64) *Autopilot {
	if strategy == nil {
		strategy = &HeuristicStrategy{}
	}
	return &Autopilot{strategy: strategy, catalog: catalog, rng: sengoku.NewRand(seed)}
}

// Strategy returns the strategy driving the autopilot.
func (a *Autopilot) Strategy() Strategy { return a.strategy }

// Commands plans a whole turn for lordID. Provinces that receive a governor
// are skipped since posting the governor uses their command.
func (a *Autopilot) Commands(gs *sengoku.GameState, lordID int) *sengoku.PlayerCommands {
	cmds := &sengoku.PlayerCommands{}
	posted := make(map[int]bool)
	for _, c := range a.strategy.AssignGenerals(gs, lordID) {
		cmds.Internal = append(cmds.Internal, c)
		posted[c.Province] = true
	}
	if dp, ok := a.strategy.(sengoku.DiplomaticPlanner); ok {
		for _, c := range dp.PlanDiplomacy(gs, lordID, a.rng) {
			cmds.Internal = append(cmds.Internal, c)
		}
	}
	for _, p := range gs.OwnedProvinces(lordID) {
		if posted[p.ID] || p.CommandUsed {
			continue
		}
		switch c := a.strategy.PlanProvince(gs, lordID, p, a.rng).(type) {
		case sengoku.InternalCommand:
			cmds.Internal = append(cmds.Internal, c)
		case sengoku.MilitaryCommand:
			cmds.Military = append(cmds.Military, c)
		}
	}
	cmds.EventChoices = a.choices(gs, lordID)
	return cmds
}

// choices answers each pending event with its first affordable option.
// Events with nothing affordable are left to expire.
func (a *Autopilot) choices(gs *sengoku.GameState, lordID int) []sengoku.EventAnswer {
	if a.catalog == nil {
		return nil
	}
	var out []sengoku.EventAnswer
	for _, pc := range gs.PendingChoices {
		p := gs.Province(pc.ProvinceID)
		ev := a.catalog.Get(pc.EventID)
		if p == nil || ev == nil || p.Owner != lordID {
			continue
		}
		for _, ch := range ev.Choices {
			if ch.Cost.Gold <= p.Gold && ch.Cost.Rice <= p.Rice {
				out = append(out, sengoku.EventAnswer{ProvinceID: p.ID, ChoiceID: ch.ID})
				break
			}
		}
	}
	return out
}
