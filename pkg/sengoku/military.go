package sengoku

// RecruitSoldiers converts peasants into soldiers for SoldierCost gold each.
func RecruitSoldiers(p *Province, amount int) Result {
	if amount <= 0 {
		return fail("%s: recruit amount must be positive", p.Name)
	}
	cost := amount * SoldierCost
	if p.Gold < cost {
		return fail("%s: not enough gold to recruit %d (need %d, have %d)", p.Name, amount, cost, p.Gold)
	}
	if p.Peasants < amount {
		return fail("%s: not enough peasants to recruit %d (have %d)", p.Name, amount, p.Peasants)
	}
	p.Gold -= cost
	p.Peasants -= amount
	p.Soldiers += amount
	p.AdjustLoyalty(-RecruitLoyaltyPenalty)
	return succeed("%s: recruited %d soldiers (%d total)", p.Name, amount, p.Soldiers)
}

// TrainArmy improves the garrison's training multiplier.
func TrainArmy(p *Province) Result {
	if p.Soldiers <= 0 {
		return fail("%s: no soldiers to train", p.Name)
	}
	if p.Training >= MaxTraining {
		return fail("%s: training already at maximum", p.Name)
	}
	if p.Gold < TrainingCost {
		return fail("%s: not enough gold to train (need %d, have %d)", p.Name, TrainingCost, p.Gold)
	}
	p.Gold -= TrainingCost
	p.Training = min(MaxTraining, p.Training*TrainingFactor)
	return succeed("%s: soldiers trained, training %.2f", p.Name, p.Training)
}

// CreateAttackArmy raises an all-infantry army of force troops from one
// province to strike an adjacent foreign province. The army is provisioned
// with ArmySupplyTurns of rice; a short supply takes what is there and costs
// morale.
func CreateAttackArmy(gs *GameState, fromID, toID, force, generalID int) (*Army, Result) {
	from := gs.Province(fromID)
	to := gs.Province(toID)
	if from == nil || to == nil {
		return nil, fail("invalid province for attack (%d -> %d)", fromID, toID)
	}
	if force <= 0 {
		return nil, fail("%s: attack force must be positive", from.Name)
	}
	if from.Soldiers < force {
		return nil, fail("%s: not enough soldiers (need %d, have %d)", from.Name, force, from.Soldiers)
	}
	if !from.IsAdjacent(toID) {
		return nil, fail("%s is not adjacent to %s", to.Name, from.Name)
	}
	if to.Owner != 0 && to.Owner == from.Owner {
		return nil, fail("cannot attack own province %s", to.Name)
	}
	if generalID != 0 {
		g := gs.General(generalID)
		if g == nil || !g.Alive {
			return nil, fail("general %d not found", generalID)
		}
		if g.Lord != from.Owner {
			return nil, fail("%s does not serve %s", g.Name, gs.LordName(from.Owner))
		}
	}

	army := &Army{
		ID:       gs.NextArmyID,
		Lord:     from.Owner,
		General:  generalID,
		Infantry: force,
		Morale:   from.Morale,
		Origin:   fromID,
	}
	need := force * RiceUpkeepPerTroop * ArmySupplyTurns
	if from.Rice >= need {
		army.RiceSupply = need
		from.Rice -= need
	} else {
		army.RiceSupply = from.Rice
		from.Rice = 0
		army.Morale = max(ArmyMinMorale, army.Morale-ArmyShortSupplyMorale)
	}
	from.Soldiers -= force
	gs.NextArmyID++
	gs.Armies[army.ID] = army
	return army, succeed("%s: army of %d departs toward %s", from.Name, force, to.Name)
}
