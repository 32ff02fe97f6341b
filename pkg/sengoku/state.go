package sengoku

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Season is one quarter of a game year.
type Season int

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	}
	return fmt.Sprintf("season(%d)", int(s))
}

// ParseSeason maps a season name to its value.
func ParseSeason(name string) (Season, bool) {
	switch strings.ToLower(name) {
	case "spring":
		return Spring, true
	case "summer":
		return Summer, true
	case "autumn", "fall":
		return Autumn, true
	case "winter":
		return Winter, true
	}
	return 0, false
}

// GameState is the shared entity store every subsystem operates on.
type GameState struct {
	Turn       int    `json:"turn" yaml:"turn"`
	Season     Season `json:"season" yaml:"season"`
	PlayerLord int    `json:"player_lord" yaml:"player_lord"`

	Provinces  map[int]*Province `json:"provinces" yaml:"provinces"`
	Lords      map[int]*Lord     `json:"lords" yaml:"lords"`
	Generals   map[int]*General  `json:"generals" yaml:"generals"`
	Armies     map[int]*Army     `json:"armies" yaml:"armies"`
	NextArmyID int               `json:"next_army_id" yaml:"next_army_id"`
	Relations  []*Relation       `json:"relations" yaml:"relations"`

	PendingChoices []PendingChoice `json:"pending_choices" yaml:"pending_choices"`
	EventHistory   []EventRecord   `json:"event_history" yaml:"event_history"`

	// CommandStats counts executed commands per lord and command type.
	CommandStats map[int]map[string]int `json:"command_stats" yaml:"command_stats"`

	relIndex map[RelationKey]*Relation
}

// NewGameState returns an empty state at turn 0, spring.
func NewGameState() *GameState {
	return &GameState{
		Season:       Spring,
		Provinces:    make(map[int]*Province),
		Lords:        make(map[int]*Lord),
		Generals:     make(map[int]*General),
		Armies:       make(map[int]*Army),
		NextArmyID:   1,
		CommandStats: make(map[int]map[string]int),
	}
}

// Year returns the calendar year for the current turn.
func (gs *GameState) Year() int {
	return StartYear + gs.Turn/SeasonsPerYear
}

// AdvanceTurn increments the turn counter and rotates the season.
func (gs *GameState) AdvanceTurn() {
	gs.Turn++
	gs.Season = (gs.Season + 1) % SeasonsPerYear
}

// ResetCommandFlags clears every province's command-used flag.
func (gs *GameState) ResetCommandFlags() {
	for _, p := range gs.Provinces {
		p.CommandUsed = false
	}
}

// Province returns the province with id, or nil.
func (gs *GameState) Province(id int) *Province { return gs.Provinces[id] }

// Lord returns the lord with id, or nil.
func (gs *GameState) Lord(id int) *Lord { return gs.Lords[id] }

// General returns the general with id, or nil.
func (gs *GameState) General(id int) *General { return gs.Generals[id] }

// Player returns the human player's lord.
func (gs *GameState) Player() *Lord { return gs.Lords[gs.PlayerLord] }

// ProvinceIDs returns all province ids in ascending order.
func (gs *GameState) ProvinceIDs() []int { return sortedKeys(gs.Provinces) }

// LordIDs returns all lord ids in ascending order.
func (gs *GameState) LordIDs() []int { return sortedKeys(gs.Lords) }

// GeneralIDs returns all general ids in ascending order.
func (gs *GameState) GeneralIDs() []int { return sortedKeys(gs.Generals) }

// LivingLordIDs returns the ids of living lords in ascending order.
func (gs *GameState) LivingLordIDs() []int {
	var ids []int
	for _, id := range gs.LordIDs() {
		if gs.Lords[id].Alive {
			ids = append(ids, id)
		}
	}
	return ids
}

// OwnedProvinces returns the provinces owned by lordID in ascending id order.
func (gs *GameState) OwnedProvinces(lordID int) []*Province {
	var out []*Province
	for _, id := range gs.ProvinceIDs() {
		if p := gs.Provinces[id]; p.Owner == lordID && lordID != 0 {
			out = append(out, p)
		}
	}
	return out
}

// ServingGenerals returns living generals serving lordID, by id.
func (gs *GameState) ServingGenerals(lordID int) []*General {
	var out []*General
	for _, id := range gs.GeneralIDs() {
		if g := gs.Generals[id]; g.Alive && g.Lord == lordID && lordID != 0 {
			out = append(out, g)
		}
	}
	return out
}

// GovernorName returns a display name for a province's governor.
func (gs *GameState) GovernorName(p *Province) string {
	switch {
	case p.GovernedByLord():
		if l := gs.Lords[p.Governor]; l != nil {
			return l.Name
		}
	case p.GovernedByGeneral():
		if g := gs.Generals[p.Governor]; g != nil {
			return g.Name
		}
	}
	return ""
}

// LordName returns the lord's name or "Neutral" for id 0 or unknown ids.
func (gs *GameState) LordName(id int) string {
	if l := gs.Lords[id]; l != nil {
		return l.Name
	}
	return "Neutral"
}

// Relation returns the relation between a and b, or nil for a == b or
// unknown pairs.
func (gs *GameState) Relation(a, b int) *Relation {
	if a == b {
		return nil
	}
	if len(gs.relIndex) != len(gs.Relations) {
		gs.relIndex = make(map[RelationKey]*Relation, len(gs.Relations))
		for _, r := range gs.Relations {
			gs.relIndex[PairKey(r.A, r.B)] = r
		}
	}
	return gs.relIndex[PairKey(a, b)]
}

// InitRelations creates one neutral relation per unordered lord pair.
func (gs *GameState) InitRelations() {
	ids := gs.LordIDs()
	gs.Relations = gs.Relations[:0]
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			gs.Relations = append(gs.Relations, &Relation{A: ids[i], B: ids[j], Type: RelationNeutral})
		}
	}
	gs.relIndex = nil
}

// SetOwner moves province ownership to lordID (0 for neutral), keeping both
// lords' holdings lists consistent.
func (gs *GameState) SetOwner(provinceID, lordID int) {
	p := gs.Provinces[provinceID]
	if p == nil {
		return
	}
	if prev := gs.Lords[p.Owner]; prev != nil {
		prev.removeProvince(provinceID)
	}
	p.Owner = lordID
	if next := gs.Lords[lordID]; next != nil {
		next.addProvince(provinceID)
	}
}

// KillLord is the single death procedure. It marks the lord dead,
// neutralizes every province it owns and returns its generals to the pool.
// It is safe to call on a lord that is already marked dead.
func (gs *GameState) KillLord(id int, cause DeathCause) *DeathRecord {
	l := gs.Lords[id]
	if l == nil {
		return nil
	}
	l.Alive = false
	for _, pid := range gs.ProvinceIDs() {
		p := gs.Provinces[pid]
		if p.Owner == id {
			p.Neutralize()
		} else if p.Governor == id {
			p.Governor = 0
		}
	}
	l.Provinces = nil
	for _, g := range gs.ServingGenerals(id) {
		gs.ReleaseGeneral(g.ID)
	}
	rec := l.DeathRecord(cause)
	return &rec
}

// ReleaseGeneral makes a general masterless and vacates any post it holds.
func (gs *GameState) ReleaseGeneral(id int) {
	g := gs.Generals[id]
	if g == nil {
		return
	}
	gs.vacatePost(g)
	g.Lord = 0
}

// RemoveGeneral deletes a general permanently, vacating its post.
func (gs *GameState) RemoveGeneral(id int) {
	g := gs.Generals[id]
	if g == nil {
		return
	}
	gs.vacatePost(g)
	g.Alive = false
	delete(gs.Generals, id)
}

func (gs *GameState) vacatePost(g *General) {
	if p := gs.Provinces[g.Province]; p != nil && p.Governor == g.ID {
		p.Governor = 0
	}
	g.Province = 0
	g.Available = true
}

// CheckVictory returns the winning lord id, or 0. A lord wins by owning every
// province or by being the only living lord that still owns any.
func (gs *GameState) CheckVictory() int {
	var contenders []int
	for _, id := range gs.LivingLordIDs() {
		if len(gs.Lords[id].Provinces) > 0 {
			contenders = append(contenders, id)
		}
	}
	total := len(gs.Provinces)
	for _, id := range contenders {
		if len(gs.Lords[id].Provinces) == total && total > 0 {
			return id
		}
	}
	if len(contenders) == 1 {
		return contenders[0]
	}
	return 0
}

// UpdateAllStatistics refreshes every lord's cached totals.
func (gs *GameState) UpdateAllStatistics() {
	for _, l := range gs.Lords {
		var s LordStats
		for _, pid := range l.Provinces {
			if p := gs.Provinces[pid]; p != nil {
				s.Gold += p.Gold
				s.Rice += p.Rice
				s.Soldiers += p.Soldiers
				s.Provinces++
			}
		}
		l.Stats = s
	}
}

// RecordCommand counts one executed command for the report.
func (gs *GameState) RecordCommand(lordID int, kind string) {
	if gs.CommandStats == nil {
		gs.CommandStats = make(map[int]map[string]int)
	}
	m := gs.CommandStats[lordID]
	if m == nil {
		m = make(map[string]int)
		gs.CommandStats[lordID] = m
	}
	m[kind]++
}

// CommandReport summarizes command usage per lord, one line per lord.
func (gs *GameState) CommandReport() []string {
	lines := []string{fmt.Sprintf("=== Command statistics (turn %d) ===", gs.Turn)}
	for _, id := range sortedKeys(gs.CommandStats) {
		counts := gs.CommandStats[id]
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		parts := make([]string, 0, len(kinds))
		for _, k := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", gs.LordName(id), strings.Join(parts, " ")))
	}
	return lines
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// normalize fills nil maps after decoding a saved state.
func (gs *GameState) normalize() {
	if gs.Provinces == nil {
		gs.Provinces = make(map[int]*Province)
	}
	if gs.Lords == nil {
		gs.Lords = make(map[int]*Lord)
	}
	if gs.Generals == nil {
		gs.Generals = make(map[int]*General)
	}
	if gs.Armies == nil {
		gs.Armies = make(map[int]*Army)
	}
	if gs.CommandStats == nil {
		gs.CommandStats = make(map[int]map[string]int)
	}
	if gs.NextArmyID == 0 {
		gs.NextArmyID = 1
	}
	gs.relIndex = nil
}
