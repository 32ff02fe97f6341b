package sengoku

// MasterlessGenerals returns the living generals serving no lord, by id.
func (gs *GameState) MasterlessGenerals() []*General {
	var out []*General
	for _, id := range gs.GeneralIDs() {
		if g := gs.Generals[id]; g.Alive && g.Lord == 0 {
			out = append(out, g)
		}
	}
	return out
}

// RandomMasterless draws one masterless general, or nil when the pool is empty.
func (gs *GameState) RandomMasterless(rng *Rand) *General {
	pool := gs.MasterlessGenerals()
	if len(pool) == 0 {
		return nil
	}
	return pool[rng.IntN(len(pool))]
}

// RecruitGeneral takes a masterless general into a lord's service.
func RecruitGeneral(gs *GameState, generalID, lordID int) Result {
	g := gs.General(generalID)
	l := gs.Lord(lordID)
	if g == nil || !g.Alive {
		return fail("general %d not found", generalID)
	}
	if l == nil || !l.Alive {
		return fail("lord %d not found", lordID)
	}
	if g.Lord != 0 {
		return fail("%s already serves %s", g.Name, gs.LordName(g.Lord))
	}
	g.Lord = lordID
	g.Loyalty = RecruitedLoyalty
	g.Available = true
	g.Province = 0
	return succeed("%s entered the service of %s", g.Name, l.Name)
}

// ReturnToPool releases a general from service.
func ReturnToPool(gs *GameState, generalID int) Result {
	g := gs.General(generalID)
	if g == nil {
		return fail("general %d not found", generalID)
	}
	gs.ReleaseGeneral(generalID)
	return succeed("%s is now masterless", g.Name)
}

// RecruitmentCost prices a general by average skill: 100 gold at 40 or
// below, 300 at 85 or above, linear in between.
func RecruitmentCost(g *General) int {
	avg := g.AverageSkill()
	switch {
	case avg <= 40:
		return MinRecruitmentCost
	case avg >= 85:
		return MaxRecruitmentCost
	}
	return int(MinRecruitmentCost + (avg-40)/45*(MaxRecruitmentCost-MinRecruitmentCost))
}

// HireGeneral pays a general's recruitment cost from a province treasury.
func HireGeneral(gs *GameState, generalID, provinceID int) Result {
	p := gs.Province(provinceID)
	g := gs.General(generalID)
	if p == nil || p.Owner == 0 {
		return fail("province %d cannot pay for a general", provinceID)
	}
	if g == nil || !g.Alive {
		return fail("general %d not found", generalID)
	}
	if g.Lord != 0 {
		return fail("%s already serves %s", g.Name, gs.LordName(g.Lord))
	}
	cost := RecruitmentCost(g)
	if p.Gold < cost {
		return fail("%s: not enough gold to hire %s (need %d, have %d)", p.Name, g.Name, cost, p.Gold)
	}
	res := RecruitGeneral(gs, generalID, p.Owner)
	if !res.OK {
		return res
	}
	p.Gold -= cost
	return succeed("%s hired %s for %d gold", gs.LordName(p.Owner), g.Name, cost)
}
