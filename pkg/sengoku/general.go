package sengoku

// General is a commander who may govern a province or lead an army.
type General struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Lord         int    `json:"lord" yaml:"lord"` // serving lord, 0 when masterless
	Loyalty      int    `json:"loyalty" yaml:"loyalty"`
	Age          int    `json:"age" yaml:"age"`
	Health       int    `json:"health" yaml:"health"`
	Alive        bool   `json:"alive" yaml:"alive"`
	WarSkill     int    `json:"war_skill" yaml:"war_skill"`
	Leadership   int    `json:"leadership" yaml:"leadership"`
	Politics     int    `json:"politics" yaml:"politics"`
	Intelligence int    `json:"intelligence" yaml:"intelligence"`
	Available    bool   `json:"available" yaml:"available"`
	Province     int    `json:"province" yaml:"province"` // governed province, 0 when unassigned

	BattlesWon  int `json:"battles_won" yaml:"battles_won"`
	BattlesLost int `json:"battles_lost" yaml:"battles_lost"`
}

// CombatBonus multiplies an army's or garrison's power: 1 + war/100 * 0.5.
func (g *General) CombatBonus() float64 {
	return 1 + float64(g.WarSkill)/100*0.5
}

// SkillTotal sums the four skills.
func (g *General) SkillTotal() int {
	return g.WarSkill + g.Leadership + g.Politics + g.Intelligence
}

// AverageSkill is SkillTotal / 4.
func (g *General) AverageSkill() float64 {
	return float64(g.SkillTotal()) / 4
}

// AgeOneYear ages the general and reports whether it died.
func (g *General) AgeOneYear(rng *Rand) bool {
	if !g.Alive {
		return false
	}
	g.Age++
	g.Health = max(0, g.Health-agingHealthLoss(g.Age, rng))
	if g.Health == 0 {
		g.Alive = false
		return true
	}
	return false
}

// AdjustLoyalty adds delta and clamps to [0,100].
func (g *General) AdjustLoyalty(delta int) {
	g.Loyalty = clamp(g.Loyalty+delta, 0, 100)
}
