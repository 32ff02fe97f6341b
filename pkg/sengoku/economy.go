package sengoku

// Budget is a province's per-turn income and upkeep.
type Budget struct {
	RiceIncome int  `json:"rice_income"`
	GoldIncome int  `json:"gold_income"`
	RiceUpkeep int  `json:"rice_upkeep"`
	RiceNet    int  `json:"rice_net"`
	Deficit    bool `json:"deficit"`
}

// BudgetStatus reports the projected budget for p.
func BudgetStatus(p *Province) Budget {
	b := Budget{
		RiceIncome: p.RiceProduction(),
		GoldIncome: p.TaxIncome(),
		RiceUpkeep: p.RiceUpkeep(),
	}
	b.RiceNet = b.RiceIncome - b.RiceUpkeep
	b.Deficit = p.Rice+b.RiceNet < 0
	return b
}

// TotalIncome sums rice production and tax income across a lord's provinces.
func TotalIncome(gs *GameState, lordID int) (rice, gold int) {
	for _, p := range gs.OwnedProvinces(lordID) {
		rice += p.RiceProduction()
		gold += p.TaxIncome()
	}
	return rice, gold
}

// TotalUpkeep sums rice upkeep across a lord's provinces.
func TotalUpkeep(gs *GameState, lordID int) int {
	total := 0
	for _, p := range gs.OwnedProvinces(lordID) {
		total += p.RiceUpkeep()
	}
	return total
}

// TradeRiceForGold sells rice at RiceToGoldRate rice per gold.
func TradeRiceForGold(p *Province, rice int) Result {
	if rice <= 0 {
		return fail("%s: trade amount must be positive", p.Name)
	}
	if p.Rice < rice {
		return fail("%s: not enough rice to sell (have %d)", p.Name, p.Rice)
	}
	gold := int(float64(rice) / RiceToGoldRate)
	if gold == 0 {
		return fail("%s: %d rice is too little to sell", p.Name, rice)
	}
	p.Rice -= rice
	p.Gold += gold
	return succeed("%s: sold %d rice for %d gold", p.Name, rice, gold)
}

// TradeGoldForRice buys rice at GoldToRiceRate rice per gold.
func TradeGoldForRice(p *Province, gold int) Result {
	if gold <= 0 {
		return fail("%s: trade amount must be positive", p.Name)
	}
	if p.Gold < gold {
		return fail("%s: not enough gold to buy rice (have %d)", p.Name, p.Gold)
	}
	rice := int(float64(gold) * GoldToRiceRate)
	p.Gold -= gold
	p.Rice += rice
	return succeed("%s: bought %d rice for %d gold", p.Name, rice, gold)
}
