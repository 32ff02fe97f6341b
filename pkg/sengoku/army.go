package sengoku

// Army is a strike force dispatched by an attack. It lives only until the
// battle it was raised for is applied.
type Army struct {
	ID         int `json:"id" yaml:"id"`
	Lord       int `json:"lord" yaml:"lord"`
	General    int `json:"general" yaml:"general"` // 0 when unled
	Infantry   int `json:"infantry" yaml:"infantry"`
	Cavalry    int `json:"cavalry" yaml:"cavalry"`
	Archers    int `json:"archers" yaml:"archers"`
	Morale     int `json:"morale" yaml:"morale"`
	RiceSupply int `json:"rice_supply" yaml:"rice_supply"`
	Origin     int `json:"origin" yaml:"origin"`
}

// Troops returns the total head count.
func (a *Army) Troops() int {
	return a.Infantry + a.Cavalry + a.Archers
}

// Power returns weighted troop strength scaled by morale and a general bonus.
func (a *Army) Power(generalBonus float64) int {
	base := float64(a.Infantry)*InfantryPower + float64(a.Cavalry)*CavalryPower + float64(a.Archers)*ArcherPower
	return int(base * MoraleMultiplier(a.Morale) * generalBonus)
}

// ScaleTo sets the head count to remaining, keeping the composition ratios.
// Rounding leftovers go to infantry.
func (a *Army) ScaleTo(remaining int) {
	total := a.Troops()
	if total <= 0 || remaining <= 0 {
		a.Infantry, a.Cavalry, a.Archers = 0, 0, 0
		return
	}
	ratio := float64(remaining) / float64(total)
	a.Cavalry = int(float64(a.Cavalry) * ratio)
	a.Archers = int(float64(a.Archers) * ratio)
	a.Infantry = remaining - a.Cavalry - a.Archers
}
