package bot

import (
	"cmp"
	"slices"

	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// category is one of the three kinds of province action.
type category int

const (
	categoryInternal category = iota
	categoryMilitary
	categoryTransfer
)

// fallbackOrder is tried when the drawn category yields nothing.
var fallbackOrder = []category{categoryMilitary, categoryInternal, categoryTransfer}

// Tuning for the heuristic planner.
const (
	lowLoyalty        = 40
	attackMinSoldiers = 150
	attackCommitRatio = 0.8
	attackMargin      = 1.35
	recruitAmount     = 100
	recruitMinGold    = 200
	recruitMinPeasant = 100
	targetDevLevel    = 5
	targetTownLevel   = 5
	targetFlood       = 80

	transferSoldiers      = 60
	transferGold          = 300
	transferRice          = 300
	transferGoldMinSource = 380
	transferRiceMinSource = 500

	diplomacyChance = 0.3
)

// HeuristicStrategy is the default AI: a weighted draw between internal
// affairs, military action and resource transfers per province, with
// fixed priority rules inside each category.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return DifficultyNormal }

func (HeuristicStrategy) AssignGenerals(gs *sengoku.GameState, lordID int) []sengoku.AssignGeneralCmd {
	return assignGenerals(gs, lordID)
}

// PlanProvince returns at most one command for p.
func (HeuristicStrategy) PlanProvince(gs *sengoku.GameState, lordID int, p *sengoku.Province, rng *sengoku.Rand) sengoku.Command {
	if p.Loyalty < lowLoyalty && p.Rice >= sengoku.GiveRiceAmount {
		return sengoku.GiveRiceCmd{Province: p.ID}
	}
	chosen := category(rng.WeightedIndex(categoryWeights(gs, lordID, p)))
	if cmd := planCategory(gs, lordID, p, rng, chosen); cmd != nil {
		return cmd
	}
	for _, c := range fallbackOrder {
		if c == chosen {
			continue
		}
		if cmd := planCategory(gs, lordID, p, rng, c); cmd != nil {
			return cmd
		}
	}
	return nil
}

// PlanDiplomacy occasionally reconsiders relations with the other lords and
// stops at the first successful move.
func (HeuristicStrategy) PlanDiplomacy(gs *sengoku.GameState, lordID int, rng *sengoku.Rand) []sengoku.DiplomacyCmd {
	if !rng.Chance(diplomacyChance) {
		return nil
	}
	for _, other := range gs.LivingLordIDs() {
		if other == lordID {
			continue
		}
		rel := gs.Relation(lordID, other)
		if rel == nil {
			continue
		}
		var cmd *sengoku.DiplomacyCmd
		switch {
		case rel.Value < -30 && rel.Type != sengoku.RelationWar:
			if rng.Chance(0.5) {
				cmd = &sengoku.DiplomacyCmd{Action: sengoku.KindDeclareWar, Target: other}
			}
		case rel.Value >= sengoku.NonAggressionThreshold && rel.Type == sengoku.RelationNeutral:
			if rng.Chance(0.3) {
				cmd = &sengoku.DiplomacyCmd{Action: sengoku.KindProposeNonAggress, Target: other}
			}
		case rel.Value >= sengoku.AllianceThreshold && rel.Type != sengoku.RelationAlliance:
			if rng.Chance(0.2) {
				cmd = &sengoku.DiplomacyCmd{Action: sengoku.KindProposeAlliance, Target: other}
			}
		}
		if cmd != nil {
			return []sengoku.DiplomacyCmd{*cmd}
		}
	}
	return nil
}

func categoryWeights(gs *sengoku.GameState, lordID int, p *sengoku.Province) []float64 {
	w := []float64{1.0, 1.0, 1.0}
	if isBorder(gs, lordID, p) {
		w[categoryMilitary] *= 2
		w[categoryTransfer] *= 0.3
	} else {
		w[categoryTransfer] *= 2
		w[categoryMilitary] *= 0.5
	}
	switch {
	case p.Soldiers >= 200:
		w[categoryMilitary] += 1.0
	case p.Soldiers < 100:
		w[categoryInternal] += 1.0
	}
	return w
}

func planCategory(gs *sengoku.GameState, lordID int, p *sengoku.Province, rng *sengoku.Rand, c category) sengoku.Command {
	switch c {
	case categoryInternal:
		return internalAction(gs, lordID, p, rng)
	case categoryMilitary:
		return militaryAction(gs, lordID, p)
	case categoryTransfer:
		return transferAction(gs, lordID, p, rng)
	}
	return nil
}

func internalAction(gs *sengoku.GameState, lordID int, p *sengoku.Province, rng *sengoku.Rand) sengoku.Command {
	switch {
	case p.Loyalty < lowLoyalty && p.Rice >= sengoku.GiveRiceAmount:
		return sengoku.GiveRiceCmd{Province: p.ID}
	case p.Gold >= sengoku.CultivationCost && p.Development < targetDevLevel:
		return sengoku.CultivateCmd{Province: p.ID}
	case p.Gold >= sengoku.TownDevelopmentCost && p.TownLevel < targetTownLevel:
		return sengoku.DevelopTownCmd{Province: p.ID}
	case p.Gold >= sengoku.FloodControlCost && p.FloodControl < targetFlood:
		return sengoku.FloodControlCmd{Province: p.ID}
	}
	return transferAction(gs, lordID, p, rng)
}

func militaryAction(gs *sengoku.GameState, lordID int, p *sengoku.Province) sengoku.Command {
	if p.Soldiers >= attackMinSoldiers {
		if target := attackTarget(gs, lordID, p); target != nil {
			cmd := sengoku.AttackCmd{
				Province: p.ID,
				Target:   target.ID,
				Force:    int(float64(p.Soldiers) * attackCommitRatio),
			}
			if p.GovernedByGeneral() {
				cmd.General = p.Governor
			}
			return cmd
		}
	}
	threat := 0
	for _, q := range attackableNeighbours(gs, lordID, p) {
		threat = max(threat, q.Soldiers)
	}
	if float64(threat)*attackMargin > float64(p.Soldiers) &&
		p.Peasants >= recruitMinPeasant && p.Gold >= recruitMinGold {
		return sengoku.RecruitCmd{Province: p.ID, Amount: recruitAmount}
	}
	return nil
}

// attackTarget picks the weakest neighbour the committed force can beat with
// a margin, preferring lower ids on ties.
func attackTarget(gs *sengoku.GameState, lordID int, p *sengoku.Province) *sengoku.Province {
	force := float64(int(float64(p.Soldiers) * attackCommitRatio))
	var best *sengoku.Province
	for _, q := range attackableNeighbours(gs, lordID, p) {
		if force < float64(q.Soldiers)*attackMargin*q.DefenseBonus() {
			continue
		}
		if best == nil || q.Soldiers < best.Soldiers || (q.Soldiers == best.Soldiers && q.ID < best.ID) {
			best = q
		}
	}
	return best
}

func attackableNeighbours(gs *sengoku.GameState, lordID int, p *sengoku.Province) []*sengoku.Province {
	var out []*sengoku.Province
	for _, id := range p.Adjacent {
		q := gs.Province(id)
		if q == nil || q.Owner == lordID || !sengoku.CanAttack(gs, lordID, q.Owner) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func isBorder(gs *sengoku.GameState, lordID int, p *sengoku.Province) bool {
	for _, id := range p.Adjacent {
		if q := gs.Province(id); q != nil && q.Owner != lordID {
			return true
		}
	}
	return false
}

func transferRank(q *sengoku.Province) int {
	rank := 0
	if q.HasCastle {
		rank += 1000
	}
	if q.Soldiers < 200 {
		rank += 500
	}
	if q.Gold < 500 {
		rank += 300
	}
	return rank
}

// transferAction feeds the neediest adjacent frontline province.
func transferAction(gs *sengoku.GameState, lordID int, p *sengoku.Province, rng *sengoku.Rand) sengoku.Command {
	var target *sengoku.Province
	for _, id := range p.Adjacent {
		q := gs.Province(id)
		if q == nil || q.Owner != lordID || !isBorder(gs, lordID, q) {
			continue
		}
		if target == nil || transferRank(q) > transferRank(target) ||
			(transferRank(q) == transferRank(target) && q.ID < target.ID) {
			target = q
		}
	}
	if target == nil {
		return nil
	}

	var options []sengoku.TransferCmd
	var weights []float64
	if target.Soldiers < 300 && p.Soldiers > 100 {
		options = append(options, sengoku.TransferCmd{Resource: sengoku.ResourceSoldiers, Amount: transferSoldiers})
		weights = append(weights, 3)
	}
	if target.Gold < 500 && p.Gold > transferGoldMinSource {
		options = append(options, sengoku.TransferCmd{Resource: sengoku.ResourceGold, Amount: transferGold})
		weights = append(weights, 1)
	}
	if p.Rice > transferRiceMinSource {
		options = append(options, sengoku.TransferCmd{Resource: sengoku.ResourceRice, Amount: transferRice})
		weights = append(weights, 2)
	}
	i := rng.WeightedIndex(weights)
	if i < 0 {
		return nil
	}
	cmd := options[i]
	cmd.From, cmd.To = p.ID, target.ID
	return cmd
}

// assignGenerals pairs the lord's idle generals, best first, with its vacant
// provinces, most important first.
func assignGenerals(gs *sengoku.GameState, lordID int) []sengoku.AssignGeneralCmd {
	var generals []*sengoku.General
	for _, g := range gs.ServingGenerals(lordID) {
		if g.Available && g.Province == 0 {
			generals = append(generals, g)
		}
	}
	if len(generals) == 0 {
		return nil
	}
	var vacant []*sengoku.Province
	for _, p := range gs.OwnedProvinces(lordID) {
		if p.Governor == 0 && !p.CommandUsed {
			vacant = append(vacant, p)
		}
	}

	priority := func(p *sengoku.Province) int {
		v := p.Soldiers
		if p.HasCastle {
			v += 1000
		}
		for _, id := range p.Adjacent {
			if q := gs.Province(id); q != nil && q.Owner != lordID {
				v += 500
			}
		}
		return v
	}
	slices.SortStableFunc(vacant, func(a, b *sengoku.Province) int { return cmp.Compare(priority(b), priority(a)) })
	slices.SortStableFunc(generals, func(a, b *sengoku.General) int { return cmp.Compare(b.SkillTotal(), a.SkillTotal()) })

	var cmds []sengoku.AssignGeneralCmd
	for i, p := range vacant {
		if i >= len(generals) {
			break
		}
		cmds = append(cmds, sengoku.AssignGeneralCmd{Province: p.ID, General: generals[i].ID})
	}
	return cmds
}
