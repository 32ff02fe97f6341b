package sengoku

// Terrain is a province's terrain type.
type Terrain string

const (
	Plains    Terrain = "plains"
	Mountains Terrain = "mountains"
	Forest    Terrain = "forest"
	Coastal   Terrain = "coastal"
)

type terrainInfo struct {
	rice    float64
	defense float64
}

var terrainTable = map[Terrain]terrainInfo{
	Plains:    {rice: 1.2, defense: 1.0},
	Mountains: {rice: 0.7, defense: 1.5},
	Forest:    {rice: 0.9, defense: 1.2},
	Coastal:   {rice: 1.0, defense: 1.1},
}

// Valid reports whether t is a known terrain.
func (t Terrain) Valid() bool {
	_, ok := terrainTable[t]
	return ok
}

// RiceMultiplier returns the terrain's rice production factor.
func (t Terrain) RiceMultiplier() float64 {
	if info, ok := terrainTable[t]; ok {
		return info.rice
	}
	return 1.0
}

// DefenseMultiplier returns the terrain's defensive factor.
func (t Terrain) DefenseMultiplier() float64 {
	if info, ok := terrainTable[t]; ok {
		return info.defense
	}
	return 1.0
}

// Position is a map coordinate used only by presentation layers.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Province is the atomic territorial and resource unit.
type Province struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Position Position `json:"position" yaml:"position"`
	Adjacent []int    `json:"adjacent" yaml:"adjacent"`
	Owner    int      `json:"owner" yaml:"owner"`       // lord id, 0 when neutral
	Governor int      `json:"governor" yaml:"governor"` // lord or general id, 0 when vacant

	Peasants    int `json:"peasants" yaml:"peasants"`
	MaxPeasants int `json:"max_peasants" yaml:"max_peasants"`
	Loyalty     int `json:"loyalty" yaml:"loyalty"`

	Soldiers int     `json:"soldiers" yaml:"soldiers"`
	Morale   int     `json:"morale" yaml:"morale"`
	Training float64 `json:"training" yaml:"training"`

	Gold    int `json:"gold" yaml:"gold"`
	Rice    int `json:"rice" yaml:"rice"`
	TaxRate int `json:"tax_rate" yaml:"tax_rate"`

	Development  int `json:"development" yaml:"development"`
	TownLevel    int `json:"town_level" yaml:"town_level"`
	FloodControl int `json:"flood_control" yaml:"flood_control"`

	Terrain       Terrain `json:"terrain" yaml:"terrain"`
	HasCastle     bool    `json:"has_castle" yaml:"has_castle"`
	CastleDefense int     `json:"castle_defense" yaml:"castle_defense"`
	CommandUsed   bool    `json:"command_used" yaml:"command_used"`
}

// NewProvince returns a province with default resources.
func NewProvince(id int, name string, terrain Terrain, maxPeasants int) *Province {
	if maxPeasants <= 0 {
		maxPeasants = DefaultMaxPeasants
	}
	return &Province{
		ID:            id,
		Name:          name,
		Peasants:      maxPeasants / 2,
		MaxPeasants:   maxPeasants,
		Loyalty:       DefaultLoyalty,
		Soldiers:      DefaultSoldiers,
		Morale:        DefaultMorale,
		Training:      1.0,
		Gold:          DefaultGold,
		Rice:          DefaultRice,
		TaxRate:       DefaultTaxRate,
		Development:   DefaultDevelopment,
		TownLevel:     DefaultTownLevel,
		FloodControl:  DefaultFloodControl,
		Terrain:       terrain,
		HasCastle:     true,
		CastleDefense: DefaultCastleDefense,
	}
}

// IsAdjacent reports whether other borders p.
func (p *Province) IsAdjacent(other int) bool {
	for _, id := range p.Adjacent {
		if id == other {
			return true
		}
	}
	return false
}

// RiceProduction returns the rice produced per turn.
func (p *Province) RiceProduction() int {
	v := float64(BaseRiceProduction*p.Development) * p.Terrain.RiceMultiplier()
	if p.Loyalty >= HighLoyaltyThreshold {
		v *= HighLoyaltyRiceBonus
	}
	return int(v)
}

// TaxIncome returns the gold collected per turn.
func (p *Province) TaxIncome() int {
	if p.MaxPeasants <= 0 {
		return 0
	}
	ratio := float64(p.Peasants) / float64(p.MaxPeasants)
	return int(float64(BaseTaxIncome*p.TownLevel) * float64(p.TaxRate) / 100 * ratio)
}

// RiceUpkeep returns the rice the garrison eats per turn.
func (p *Province) RiceUpkeep() int {
	return p.Soldiers * RiceUpkeepPerTroop
}

// DefenseBonus combines terrain and castle into one multiplier.
func (p *Province) DefenseBonus() float64 {
	bonus := p.Terrain.DefenseMultiplier()
	if p.HasCastle {
		bonus *= 1 + float64(p.CastleDefense)/100*CastleDefenseWeight
	}
	return bonus
}

// CombatPower returns the garrison strength before general and terrain bonuses.
func (p *Province) CombatPower() int {
	return int(float64(p.Soldiers) * p.Training * MoraleMultiplier(p.Morale))
}

// AdjustLoyalty adds delta and clamps to [0,100].
func (p *Province) AdjustLoyalty(delta int) {
	p.Loyalty = clamp(p.Loyalty+delta, 0, 100)
}

// AdjustMorale adds delta and clamps to [0,100].
func (p *Province) AdjustMorale(delta int) {
	p.Morale = clamp(p.Morale+delta, 0, 100)
}

// AddPeasants adds delta, keeping the count within [0, MaxPeasants].
func (p *Province) AddPeasants(delta int) {
	p.Peasants = clamp(p.Peasants+delta, 0, p.MaxPeasants)
}

// AddSoldiers adds delta, flooring at zero.
func (p *Province) AddSoldiers(delta int) {
	p.Soldiers = max(0, p.Soldiers+delta)
}

// AddGold adds delta, flooring at zero.
func (p *Province) AddGold(delta int) {
	p.Gold = max(0, p.Gold+delta)
}

// AddRice adds delta, flooring at zero.
func (p *Province) AddRice(delta int) {
	p.Rice = max(0, p.Rice+delta)
}

// SetTaxRate clamps rate into the legal range.
func (p *Province) SetTaxRate(rate int) {
	p.TaxRate = clamp(rate, MinTaxRate, MaxTaxRate)
}

// Neutralize drops the owner and governor.
func (p *Province) Neutralize() {
	p.Owner = 0
	p.Governor = 0
}

// GovernedByLord reports whether the governor id is in the lord range.
func (p *Province) GovernedByLord() bool {
	return p.Governor >= MinLordID && p.Governor <= MaxLordID
}

// GovernedByGeneral reports whether the governor id is in the general range.
func (p *Province) GovernedByGeneral() bool {
	return p.Governor >= GeneralIDBase
}

// MoraleMultiplier scales strength by morale: above 50 adds 2% per point,
// below 50 subtracts 2% per point down to a floor of 0.5.
func MoraleMultiplier(morale int) float64 {
	switch {
	case morale > 50:
		return 1 + float64(morale-50)*0.02
	case morale < 50:
		return max(0.5, 1-float64(50-morale)*0.02)
	}
	return 1.0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
