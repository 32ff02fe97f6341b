package sengoku

// Cultivate raises the development level at the cost of gold and loyalty.
func Cultivate(p *Province) Result {
	if p.Development >= MaxDevelopmentLevel {
		return fail("%s: development already at maximum", p.Name)
	}
	if p.Gold < CultivationCost {
		return fail("%s: not enough gold to cultivate (need %d, have %d)", p.Name, CultivationCost, p.Gold)
	}
	p.Gold -= CultivationCost
	p.Development++
	p.AdjustLoyalty(-CultivationLoyaltyPenalty)
	return succeed("%s: land cultivated, development level %d", p.Name, p.Development)
}

// DevelopTown raises the town level.
func DevelopTown(p *Province) Result {
	if p.TownLevel >= MaxTownLevel {
		return fail("%s: town already at maximum", p.Name)
	}
	if p.Gold < TownDevelopmentCost {
		return fail("%s: not enough gold to develop the town (need %d, have %d)", p.Name, TownDevelopmentCost, p.Gold)
	}
	p.Gold -= TownDevelopmentCost
	p.TownLevel++
	return succeed("%s: town developed, town level %d", p.Name, p.TownLevel)
}

// BuildFloodControl raises flood control by FloodControlIncrement.
func BuildFloodControl(p *Province) Result {
	if p.FloodControl >= MaxFloodControl {
		return fail("%s: flood control already at maximum", p.Name)
	}
	if p.Gold < FloodControlCost {
		return fail("%s: not enough gold for flood control (need %d, have %d)", p.Name, FloodControlCost, p.Gold)
	}
	p.Gold -= FloodControlCost
	p.FloodControl = min(MaxFloodControl, p.FloodControl+FloodControlIncrement)
	return succeed("%s: flood control improved to %d", p.Name, p.FloodControl)
}

// GiveRice hands rice to the peasants. Loyalty rises by half the distance
// to 100.
func GiveRice(p *Province) Result {
	if p.Rice < GiveRiceAmount {
		return fail("%s: not enough rice to give (need %d, have %d)", p.Name, GiveRiceAmount, p.Rice)
	}
	p.Rice -= GiveRiceAmount
	boost := (100 - p.Loyalty) / 2
	p.AdjustLoyalty(boost)
	return succeed("%s: rice given to the peasants, loyalty +%d (%d)", p.Name, boost, p.Loyalty)
}

// SetTaxRate changes the tax rate, clamped to the legal range.
func SetTaxRate(p *Province, rate int) Result {
	p.SetTaxRate(rate)
	return succeed("%s: tax rate set to %d%%", p.Name, p.TaxRate)
}

// AssignGovernor posts a general to a province. The general leaves any
// previous post and the province's previous general governor is released.
func AssignGovernor(gs *GameState, generalID, provinceID int) Result {
	g := gs.General(generalID)
	p := gs.Province(provinceID)
	if g == nil || !g.Alive {
		return fail("general %d not found", generalID)
	}
	if p == nil {
		return fail("province %d not found", provinceID)
	}
	if g.Lord == 0 || g.Lord != p.Owner {
		return fail("%s does not serve the owner of %s", g.Name, p.Name)
	}
	if p.Governor == g.ID {
		return fail("%s already governs %s", g.Name, p.Name)
	}
	if prev := gs.Province(g.Province); prev != nil && prev.Governor == g.ID {
		prev.Governor = 0
	}
	if p.GovernedByGeneral() {
		if old := gs.General(p.Governor); old != nil {
			old.Province = 0
			old.Available = true
		}
	}
	p.Governor = g.ID
	g.Province = p.ID
	g.Available = false
	return succeed("%s appointed governor of %s", g.Name, p.Name)
}

// RemoveGovernor vacates a general governor's post.
func RemoveGovernor(gs *GameState, provinceID int) Result {
	p := gs.Province(provinceID)
	if p == nil {
		return fail("province %d not found", provinceID)
	}
	if !p.GovernedByGeneral() {
		return fail("%s has no general governor", p.Name)
	}
	g := gs.General(p.Governor)
	p.Governor = 0
	if g == nil {
		return succeed("%s governor post vacated", p.Name)
	}
	g.Province = 0
	g.Available = true
	return succeed("%s recalled from %s", g.Name, p.Name)
}

// RevoltRisk grades unrest in a province.
func RevoltRisk(p *Province) string {
	switch {
	case p.Loyalty <= RevoltThreshold:
		return "high"
	case p.Loyalty <= 40:
		return "medium"
	}
	return "low"
}
