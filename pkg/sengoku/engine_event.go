package sengoku

// EventKind tags an engine event.
type EventKind string

const (
	EventTurnStart       EventKind = "turn_start"
	EventMessage         EventKind = "message"
	EventDeathAnimation  EventKind = "death_animation"
	EventBattleAnimation EventKind = "battle_animation"
	EventAIActionDelay   EventKind = "ai_action_delay"
	EventPlayerTurn      EventKind = "player_turn"
	EventVictory         EventKind = "victory"
	EventGameOver        EventKind = "game_over"
)

// Event is one suspension of the turn engine. Only the payload fields that
// belong to Kind are set.
type Event struct {
	Kind         EventKind     `json:"kind" yaml:"kind"`
	Text         string        `json:"text,omitempty" yaml:"text,omitempty"`
	LordID       int           `json:"lord_id,omitempty" yaml:"lord_id,omitempty"`
	DelaySeconds float64       `json:"delay_seconds,omitempty" yaml:"delay_seconds,omitempty"`
	Death        *DeathRecord  `json:"death,omitempty" yaml:"death,omitempty"`
	Battle       *BattleReport `json:"battle,omitempty" yaml:"battle,omitempty"`
	Winner       int           `json:"winner,omitempty" yaml:"winner,omitempty"`
}

// Terminal reports whether the event ends the game.
func (e Event) Terminal() bool {
	return e.Kind == EventVictory || e.Kind == EventGameOver
}

// NeedsCommands reports whether the host must resume with PlayerCommands.
func (e Event) NeedsCommands() bool {
	return e.Kind == EventPlayerTurn
}

// IsAnimation reports whether the host is expected to play a presentation
// before resuming.
func (e Event) IsAnimation() bool {
	return e.Kind == EventBattleAnimation || e.Kind == EventDeathAnimation
}

// Scene names the music cue for the event, or "" when the scene does not
// change. Cues are fire-and-forget.
func (e Event) Scene() string {
	switch e.Kind {
	case EventAIActionDelay:
		return "ai_turn"
	case EventPlayerTurn:
		return "player_turn"
	case EventBattleAnimation:
		return "battle"
	}
	return ""
}

// Commander is a general's or lord's stat block shown in a battle.
type Commander struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	IsLord       bool   `json:"is_lord,omitempty" yaml:"is_lord,omitempty"`
	WarSkill     int    `json:"war_skill" yaml:"war_skill"`
	Leadership   int    `json:"leadership,omitempty" yaml:"leadership,omitempty"`
	Politics     int    `json:"politics,omitempty" yaml:"politics,omitempty"`
	Intelligence int    `json:"intelligence" yaml:"intelligence"`
}

// BattleReport carries everything a battle presentation needs, captured
// before the result was applied.
type BattleReport struct {
	AttackerLord    int          `json:"attacker_lord" yaml:"attacker_lord"`
	AttackerName    string       `json:"attacker_name" yaml:"attacker_name"`
	DefenderLord    int          `json:"defender_lord" yaml:"defender_lord"`
	DefenderName    string       `json:"defender_name" yaml:"defender_name"`
	FromProvince    int          `json:"from_province" yaml:"from_province"`
	FromName        string       `json:"from_name" yaml:"from_name"`
	ToProvince      int          `json:"to_province" yaml:"to_province"`
	ToName          string       `json:"to_name" yaml:"to_name"`
	AttackerTroops  int          `json:"attacker_troops" yaml:"attacker_troops"`
	DefenderTroops  int          `json:"defender_troops" yaml:"defender_troops"`
	AttackerGeneral *Commander   `json:"attacker_general,omitempty" yaml:"attacker_general,omitempty"`
	DefenderGeneral *Commander   `json:"defender_general,omitempty" yaml:"defender_general,omitempty"`
	Terrain         Terrain      `json:"terrain" yaml:"terrain"`
	HasCastle       bool         `json:"has_castle" yaml:"has_castle"`
	Result          BattleResult `json:"result" yaml:"result"`
	Turn            int          `json:"turn" yaml:"turn"`
	// Seq numbers the battles of one turn from 1.
	Seq int `json:"seq" yaml:"seq"`
}

func commanderFromGeneral(g *General) *Commander {
	if g == nil {
		return nil
	}
	return &Commander{
		ID:           g.ID,
		Name:         g.Name,
		WarSkill:     g.WarSkill,
		Leadership:   g.Leadership,
		Politics:     g.Politics,
		Intelligence: g.Intelligence,
	}
}

func commanderFromLord(l *Lord) *Commander {
	if l == nil {
		return nil
	}
	return &Commander{ID: l.ID, Name: l.Name, IsLord: true, WarSkill: l.WarSkill, Intelligence: l.Intelligence}
}

func newBattleReport(gs *GameState, army *Army, from, to *Province) *BattleReport {
	r := &BattleReport{
		AttackerLord:   army.Lord,
		AttackerName:   gs.LordName(army.Lord),
		DefenderLord:   to.Owner,
		DefenderName:   gs.LordName(to.Owner),
		FromProvince:   from.ID,
		FromName:       from.Name,
		ToProvince:     to.ID,
		ToName:         to.Name,
		AttackerTroops: army.Troops(),
		DefenderTroops: to.Soldiers,
		Terrain:        to.Terrain,
		HasCastle:      to.HasCastle,
		Turn:           gs.Turn,
	}
	r.AttackerGeneral = commanderFromGeneral(gs.General(army.General))
	switch {
	case to.GovernedByGeneral():
		r.DefenderGeneral = commanderFromGeneral(gs.General(to.Governor))
	case to.GovernedByLord():
		r.DefenderGeneral = commanderFromLord(gs.Lord(to.Governor))
	}
	return r
}
