package sengoku

// Lord is a daimyo: a faction leader owning provinces and generals.
type Lord struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Clan         string `json:"clan" yaml:"clan"`
	IsPlayer     bool   `json:"is_player" yaml:"is_player"`
	Alive        bool   `json:"alive" yaml:"alive"`
	Age          int    `json:"age" yaml:"age"`
	Health       int    `json:"health" yaml:"health"`
	Ambition     int    `json:"ambition" yaml:"ambition"`
	Luck         int    `json:"luck" yaml:"luck"`
	Charm        int    `json:"charm" yaml:"charm"`
	Intelligence int    `json:"intelligence" yaml:"intelligence"`
	WarSkill     int    `json:"war_skill" yaml:"war_skill"`

	Provinces []int `json:"provinces" yaml:"provinces"`
	Capital   int   `json:"capital" yaml:"capital"`

	BattlesWon  int `json:"battles_won" yaml:"battles_won"`
	BattlesLost int `json:"battles_lost" yaml:"battles_lost"`

	Stats LordStats `json:"stats" yaml:"stats"`
}

// LordStats caches totals across a lord's provinces. Refreshed at turn end.
type LordStats struct {
	Gold      int `json:"gold" yaml:"gold"`
	Rice      int `json:"rice" yaml:"rice"`
	Soldiers  int `json:"soldiers" yaml:"soldiers"`
	Provinces int `json:"provinces" yaml:"provinces"`
}

// Owns reports whether provinceID is in the lord's holdings.
func (l *Lord) Owns(provinceID int) bool {
	for _, id := range l.Provinces {
		if id == provinceID {
			return true
		}
	}
	return false
}

func (l *Lord) addProvince(id int) {
	if !l.Owns(id) {
		l.Provinces = append(l.Provinces, id)
	}
}

func (l *Lord) removeProvince(id int) {
	for i, pid := range l.Provinces {
		if pid == id {
			l.Provinces = append(l.Provinces[:i], l.Provinces[i+1:]...)
			return
		}
	}
}

// AgeOneYear ages the lord and reports whether it died.
func (l *Lord) AgeOneYear(rng *Rand) bool {
	if !l.Alive {
		return false
	}
	l.Age++
	l.Health = max(0, l.Health-agingHealthLoss(l.Age, rng))
	if l.Health == 0 {
		l.Alive = false
		return true
	}
	return false
}

// agingHealthLoss draws the yearly health loss for a character of the given age.
func agingHealthLoss(age int, rng *Rand) int {
	switch {
	case age > 60:
		return rng.IntRange(3, 8)
	case age > 50:
		return rng.IntRange(2, 5)
	case age > 40:
		return rng.IntRange(1, 3)
	}
	if rng.Chance(0.1) {
		return 1
	}
	return 0
}

// DeathCause explains why a lord died.
type DeathCause string

const (
	CauseIllness       DeathCause = "illness"
	CauseBattle        DeathCause = "battle"
	CauseTerritoryLoss DeathCause = "territory_loss"
)

// DeathRecord describes a dead lord for presentation.
type DeathRecord struct {
	LordID   int        `json:"lord_id" yaml:"lord_id"`
	Name     string     `json:"name" yaml:"name"`
	Clan     string     `json:"clan" yaml:"clan"`
	Age      int        `json:"age" yaml:"age"`
	IsPlayer bool       `json:"is_player" yaml:"is_player"`
	Cause    DeathCause `json:"cause" yaml:"cause"`
}

// DeathRecord describes the lord's death with the given cause.
func (l *Lord) DeathRecord(cause DeathCause) DeathRecord {
	return DeathRecord{
		LordID:   l.ID,
		Name:     l.Name,
		Clan:     l.Clan,
		Age:      l.Age,
		IsPlayer: l.IsPlayer,
		Cause:    cause,
	}
}
