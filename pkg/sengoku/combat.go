package sengoku

import "fmt"

// BattleResult is the computed outcome of one attack. Resolve produces it
// without touching state; Apply commits it.
type BattleResult struct {
	AttackerWon        bool     `json:"attacker_won" yaml:"attacker_won"`
	AttackerCasualties int      `json:"attacker_casualties" yaml:"attacker_casualties"`
	DefenderCasualties int      `json:"defender_casualties" yaml:"defender_casualties"`
	AttackerRemaining  int      `json:"attacker_remaining" yaml:"attacker_remaining"`
	DefenderRemaining  int      `json:"defender_remaining" yaml:"defender_remaining"`
	ProvinceCaptured   bool     `json:"province_captured" yaml:"province_captured"`
	Retreated          bool     `json:"retreated" yaml:"retreated"`
	Rounds             int      `json:"rounds" yaml:"rounds"`
	RoundLog           []string `json:"round_log" yaml:"round_log"`
}

func generalBonus(gs *GameState, id int) float64 {
	if g := gs.General(id); g != nil && g.Alive {
		return g.CombatBonus()
	}
	return 1.0
}

func governorBonus(gs *GameState, p *Province) float64 {
	if p.GovernedByGeneral() {
		return generalBonus(gs, p.Governor)
	}
	return 1.0
}

// attackerPower applies the expedition penalty to the army's strength.
func attackerPower(gs *GameState, army *Army) float64 {
	return float64(army.Power(generalBonus(gs, army.General))) * ExpeditionPenalty
}

func defenderPower(gs *GameState, p *Province) float64 {
	return float64(p.CombatPower()) * governorBonus(gs, p)
}

// Resolve simulates up to MaxCombatRounds rounds between an army and a
// province garrison. If the rounds run out with both sides standing the
// defender holds.
func Resolve(gs *GameState, army *Army, p *Province, rng *Rand) BattleResult {
	aPow := attackerPower(gs, army)
	dPow := defenderPower(gs, p)
	defense := p.DefenseBonus()

	startA := army.Troops()
	troopsA, troopsD := startA, p.Soldiers
	res := BattleResult{}

	for round := 1; round <= MaxCombatRounds; round++ {
		res.Rounds = round
		toDefender := int(aPow * rng.Uniform(AttackDamageMin, AttackDamageMax))
		toAttacker := int(float64(int(dPow*rng.Uniform(DefenseDamageMin, DefenseDamageMax))) * defense)
		toDefender = max(1, min(toDefender, troopsD))
		toAttacker = max(1, min(toAttacker, troopsA))
		if troopsD == 0 {
			toDefender = 0
		}
		troopsD -= toDefender
		troopsA -= toAttacker
		res.RoundLog = append(res.RoundLog, fmt.Sprintf("Round %d: attacker -%d (%d left), defender -%d (%d left)",
			round, toAttacker, troopsA, toDefender, troopsD))

		if troopsD <= 0 {
			troopsD = 0
			res.AttackerWon = true
			break
		}
		if troopsA <= 0 {
			troopsA = 0
			break
		}
		if float64(troopsA) < float64(startA)*RetreatThreshold && rng.Chance(RetreatChance) {
			res.Retreated = true
			res.RoundLog = append(res.RoundLog, "The attackers retreat")
			break
		}
	}

	res.AttackerRemaining = troopsA
	res.DefenderRemaining = troopsD
	res.AttackerCasualties = startA - troopsA
	res.DefenderCasualties = p.Soldiers - troopsD
	res.ProvinceCaptured = res.AttackerWon && troopsD == 0
	outcome := "the defenders hold"
	if res.AttackerWon {
		outcome = "the attackers win"
	}
	res.RoundLog = append(res.RoundLog, fmt.Sprintf("After %d rounds %s (attacker lost %d, defender lost %d)",
		res.Rounds, outcome, res.AttackerCasualties, res.DefenderCasualties))
	return res
}

// Apply commits a battle result. It returns the id of a lord killed
// defending the province, or 0. The army is always removed.
func Apply(gs *GameState, res BattleResult, army *Army, p *Province) int {
	defenderLord := gs.Lord(p.Owner)
	attackerLord := gs.Lord(army.Lord)
	attackGeneral := gs.General(army.General)
	var defendGeneral *General
	if p.GovernedByGeneral() {
		defendGeneral = gs.General(p.Governor)
	}

	p.Soldiers = res.DefenderRemaining
	army.ScaleTo(res.AttackerRemaining)

	if res.AttackerWon {
		army.Morale = clamp(army.Morale+VictoryMoraleBoost, 0, 100)
		p.AdjustMorale(DefeatMoralePenalty)
	} else {
		army.Morale = clamp(army.Morale+DefeatMoralePenalty, 0, 100)
		p.AdjustMorale(VictoryMoraleBoost)
	}
	recordBattle(res.AttackerWon, attackerLord, attackGeneral)
	recordBattle(!res.AttackerWon, defenderLord, defendGeneral)

	defeated := 0
	if res.ProvinceCaptured {
		if p.GovernedByLord() {
			defeated = p.Governor
		} else if defendGeneral != nil {
			gs.RemoveGeneral(defendGeneral.ID)
		}
		p.Governor = 0
		gs.SetOwner(p.ID, army.Lord)
		p.Soldiers = army.Troops()
		p.Morale = army.Morale
		p.Loyalty = max(CaptureLoyaltyFloor, p.Loyalty-CaptureLoyaltyPenalty)
		if attackGeneral != nil && attackGeneral.Alive {
			if prev := gs.Province(attackGeneral.Province); prev != nil && prev.Governor == attackGeneral.ID {
				prev.Governor = 0
			}
			p.Governor = attackGeneral.ID
			attackGeneral.Province = p.ID
			attackGeneral.Available = false
		}
		if defeated != 0 {
			gs.KillLord(defeated, CauseBattle)
		}
	} else if home := gs.Province(army.Origin); home != nil {
		survivors := army.Troops()
		if total := home.Soldiers + survivors; total > 0 && survivors > 0 {
			home.Morale = clamp((home.Morale*home.Soldiers+army.Morale*survivors)/total, 0, 100)
		}
		home.Soldiers += survivors
	}
	delete(gs.Armies, army.ID)
	return defeated
}

func recordBattle(won bool, l *Lord, g *General) {
	if l != nil {
		if won {
			l.BattlesWon++
		} else {
			l.BattlesLost++
		}
	}
	if g != nil {
		if won {
			g.BattlesWon++
		} else {
			g.BattlesLost++
		}
	}
}

// Prediction estimates an attack's odds before committing.
type Prediction struct {
	AttackerPower  int     `json:"attacker_power"`
	DefenderPower  int     `json:"defender_power"`
	WinProbability float64 `json:"win_probability"`
	Recommendation string  `json:"recommendation"`
}

// Predict compares effective strengths without rolling dice.
func Predict(gs *GameState, army *Army, p *Province) Prediction {
	aPow := attackerPower(gs, army)
	dPow := defenderPower(gs, p) * p.DefenseBonus()
	pred := Prediction{AttackerPower: int(aPow), DefenderPower: int(dPow)}
	if aPow+dPow > 0 {
		pred.WinProbability = aPow / (aPow + dPow)
	}
	switch {
	case pred.WinProbability > 0.6:
		pred.Recommendation = "attack"
	case pred.WinProbability > 0.4:
		pred.Recommendation = "cautious"
	default:
		pred.Recommendation = "retreat"
	}
	return pred
}

// PredictAttack previews an attack of force troops from one province to
// another without raising an army.
func PredictAttack(gs *GameState, fromID, toID, force, generalID int) (Prediction, Result) {
	from, to := gs.Province(fromID), gs.Province(toID)
	if from == nil || to == nil {
		return Prediction{}, fail("invalid province (%d -> %d)", fromID, toID)
	}
	if force <= 0 || force > from.Soldiers {
		return Prediction{}, fail("%s: force must be between 1 and %d", from.Name, from.Soldiers)
	}
	army := &Army{Lord: from.Owner, General: generalID, Infantry: force, Morale: from.Morale, Origin: fromID}
	return Predict(gs, army, to), Result{OK: true}
}
