package sengoku

import (
	"errors"
	"fmt"
)

var (
	ErrAwaitingCommands   = errors.New("turn is waiting for player commands")
	ErrUnexpectedCommands = errors.New("turn is not waiting for player commands")
	ErrTurnFinished       = errors.New("turn already finished")
)

// Planner decides actions for computer lords.
type Planner interface {
	// AssignGenerals returns governor postings, applied before province plans.
	AssignGenerals(gs *GameState, lordID int) []AssignGeneralCmd
	// PlanProvince returns at most one internal or military command for p,
	// or nil.
	PlanProvince(gs *GameState, lordID int, p *Province, rng *Rand) Command
}

// DiplomaticPlanner is implemented by planners that also conduct diplomacy.
type DiplomaticPlanner interface {
	PlanDiplomacy(gs *GameState, lordID int, rng *Rand) []DiplomacyCmd
}

// TurnResult is returned when a turn completes.
type TurnResult struct {
	Winner   int          `json:"winner,omitempty" yaml:"winner,omitempty"`
	GameOver bool         `json:"game_over,omitempty" yaml:"game_over,omitempty"`
	Death    *DeathRecord `json:"death,omitempty" yaml:"death,omitempty"`
}

// Ended reports whether the game is over after this turn.
func (r TurnResult) Ended() bool { return r.Winner != 0 || r.GameOver }

// Step is the outcome of one Advance: either an event or the end of the turn.
type Step struct {
	Event  *Event
	Done   bool
	Result TurnResult
}

type phase string

const (
	phaseStart      phase = "start"
	phaseEconomy    phase = "economy"
	phaseLifecycle  phase = "lifecycle"
	phaseShuffle    phase = "shuffle"
	phaseNextLord   phase = "next_lord"
	phaseAwaitOrder phase = "await_player"
	phaseAIPlan     phase = "ai_plan"
	phaseMilitary   phase = "military"
	phaseExtinction phase = "extinction"
	phaseTreaties   phase = "treaties"
	phaseEnd        phase = "end"
	phaseDone       phase = "done"
)

// Turn executes one game turn as a resumable state machine. Each call to
// Advance runs until the next event is available.
type Turn struct {
	gs      *GameState
	catalog *EventCatalog
	planner Planner
	rng     *Rand

	phase    phase
	order    []int
	lordIdx  int
	military []MilitaryCommand
	milIdx   int
	battles  int
	outbox   []Event
	log      []string
	result   TurnResult
	waiting  bool
	finished bool
}

// NewTurn prepares the next turn of gs. It mutates nothing until the first
// Advance.
func NewTurn(gs *GameState, catalog *EventCatalog, planner Planner, rng *Rand) *Turn {
	return &Turn{gs: gs, catalog: catalog, planner: planner, rng: rng, phase: phaseStart}
}

// Log returns the lines recorded so far this turn.
func (t *Turn) Log() []string { return t.log }

// Waiting reports whether a PlayerTurn was delivered and not yet answered.
func (t *Turn) Waiting() bool { return t.waiting }

// Finished reports whether Advance has returned the final step.
func (t *Turn) Finished() bool { return t.finished }

// Result returns the turn outcome; meaningful once Finished.
func (t *Turn) Result() TurnResult { return t.result }

// Advance resumes the turn. resume must be non-nil exactly when the last
// event returned was a PlayerTurn.
func (t *Turn) Advance(resume *PlayerCommands) (Step, error) {
	if t.finished {
		return Step{}, ErrTurnFinished
	}
	if t.waiting {
		if resume == nil {
			return Step{}, ErrAwaitingCommands
		}
		t.waiting = false
		t.resumePlayer(resume)
	} else if resume != nil {
		return Step{}, ErrUnexpectedCommands
	}

	for len(t.outbox) == 0 {
		if t.phase == phaseDone {
			t.finished = true
			return Step{Done: true, Result: t.result}, nil
		}
		t.step()
	}
	ev := t.outbox[0]
	t.outbox = t.outbox[1:]
	if ev.Kind == EventPlayerTurn {
		t.waiting = true
	}
	return Step{Event: &ev}, nil
}

func (t *Turn) emit(ev Event) {
	if ev.Text != "" {
		t.log = append(t.log, ev.Text)
	}
	t.outbox = append(t.outbox, ev)
}

func (t *Turn) message(format string, args ...any) {
	t.emit(Event{Kind: EventMessage, Text: fmt.Sprintf(format, args...)})
}

func (t *Turn) note(format string, args ...any) {
	t.log = append(t.log, fmt.Sprintf(format, args...))
}

func (t *Turn) step() {
	switch t.phase {
	case phaseStart:
		t.start()
	case phaseEconomy:
		t.economy()
	case phaseLifecycle:
		t.lifecycle()
	case phaseShuffle:
		t.order = t.gs.LivingLordIDs()
		t.rng.Shuffle(t.order)
		t.lordIdx = 0
		t.phase = phaseNextLord
	case phaseNextLord:
		t.nextLord()
	case phaseAwaitOrder:
		// Only reachable through resumePlayer.
		t.phase = phaseMilitary
	case phaseAIPlan:
		t.planAI()
	case phaseMilitary:
		t.executeMilitary()
	case phaseExtinction:
		t.extinction()
	case phaseTreaties:
		for _, msg := range UpdateTreaties(t.gs) {
			t.note("%s", msg)
		}
		t.phase = phaseEnd
	case phaseEnd:
		t.turnEnd()
		t.phase = phaseDone
	default:
		t.phase = phaseDone
	}
}

func (t *Turn) start() {
	t.emit(Event{Kind: EventTurnStart, Text: fmt.Sprintf("=== Turn %d begins ===", t.gs.Turn+1)})
	t.gs.AdvanceTurn()
	t.gs.ResetCommandFlags()
	t.note("Year %d, %s", t.gs.Year(), t.gs.Season)
	t.phase = phaseEconomy
}

// economy collects harvest and tax, pays rice upkeep and rolls seasonal
// events.
func (t *Turn) economy() {
	gs := t.gs
	before := make(map[int]int)
	var riceIn, goldIn, riceUp int
	for _, id := range gs.ProvinceIDs() {
		p := gs.Provinces[id]
		if p.Owner == 0 {
			continue
		}
		before[id] = p.Loyalty

		p.AddPeasants(p.Peasants / 100)
		rice, gold := p.RiceProduction(), p.TaxIncome()
		p.Rice += rice
		p.Gold += gold

		upkeep := p.RiceUpkeep()
		p.Rice -= upkeep
		if p.Rice < 0 {
			p.Rice = 0
			p.AdjustMorale(LowRiceMoralePenalty)
			t.note("Warning: %s ran out of rice, morale fell to %d", p.Name, p.Morale)
		} else {
			p.AdjustMorale(MoraleDecayRate)
		}

		delta := LoyaltyDecayRate
		if p.TaxRate > DefaultTaxRate {
			delta += int(float64(p.TaxRate-DefaultTaxRate) * TaxLoyaltyPenalty)
		}
		if p.GovernedByGeneral() {
			if g := gs.General(p.Governor); g != nil && g.Politics > GovernorPoliticsMinimum {
				delta += GovernorPoliticsBonus
			}
		}
		p.AdjustLoyalty(delta)

		if p.Owner == gs.PlayerLord {
			riceIn += rice
			goldIn += gold
			riceUp += upkeep
		}
	}
	if player := gs.Player(); player != nil && player.Alive {
		t.note("[Income] rice +%d, gold +%d", riceIn, goldIn)
		t.note("[Upkeep] rice -%d", riceUp)
	}

	for _, msg := range ResolveEvents(gs, t.catalog, t.rng) {
		t.message("%s", msg)
	}

	for _, id := range gs.ProvinceIDs() {
		p := gs.Provinces[id]
		prev, ok := before[id]
		if !ok || p.Owner == 0 {
			continue
		}
		drop := prev - p.Loyalty
		switch {
		case p.Loyalty <= UnrestWarningLoyalty:
			t.message("Warning: revolt risk in %s (loyalty %d)", p.Name, p.Loyalty)
		case drop >= UnrestWarningDrop:
			t.message("Warning: unrest in %s (loyalty fell %d to %d)", p.Name, drop, p.Loyalty)
		}
	}
	t.phase = phaseLifecycle
}

// lifecycle ages lords and generals and checks for natural deaths. Aging
// happens only in spring.
func (t *Turn) lifecycle() {
	gs := t.gs
	t.phase = phaseShuffle
	if gs.Season != Spring {
		return
	}
	for _, id := range gs.LivingLordIDs() {
		l := gs.Lords[id]
		if !l.AgeOneYear(t.rng) {
			continue
		}
		rec := gs.KillLord(id, CauseIllness)
		t.emit(Event{Kind: EventDeathAnimation, LordID: id, Death: rec,
			Text: fmt.Sprintf("%s of the %s clan died of illness at age %d", l.Name, l.Clan, l.Age)})
		if l.IsPlayer {
			t.gameOver(rec)
			return
		}
	}
	for _, id := range gs.GeneralIDs() {
		g := gs.Generals[id]
		if g.AgeOneYear(t.rng) {
			gs.ReleaseGeneral(id)
			t.note("General %s died at age %d", g.Name, g.Age)
		}
	}
}

func (t *Turn) nextLord() {
	if t.lordIdx >= len(t.order) {
		t.phase = phaseExtinction
		return
	}
	l := t.gs.Lord(t.order[t.lordIdx])
	t.military = nil
	t.milIdx = 0
	if l == nil || !l.Alive {
		t.lordIdx++
		return
	}
	if l.ID == t.gs.PlayerLord {
		t.emit(Event{Kind: EventPlayerTurn, LordID: l.ID})
		t.phase = phaseAwaitOrder
		return
	}
	if len(l.Provinces) == 0 {
		t.lordIdx++
		return
	}
	t.emit(Event{Kind: EventAIActionDelay, LordID: l.ID, DelaySeconds: AIActionDelaySeconds})
	t.phase = phaseAIPlan
}

func (t *Turn) currentLord() int {
	if t.lordIdx < len(t.order) {
		return t.order[t.lordIdx]
	}
	return 0
}

func (t *Turn) resumePlayer(cmds *PlayerCommands) {
	lordID := t.currentLord()
	for _, a := range cmds.EventChoices {
		res := ResolvePendingChoice(t.gs, t.catalog, a.ProvinceID, a.ChoiceID)
		t.message("%s", res.Message)
	}
	for _, c := range cmds.Internal {
		res := ExecuteInternal(t.gs, lordID, c)
		if res.OK {
			t.message("%s", res.Message)
		} else {
			t.message("Failed: %s", res.Message)
		}
	}
	t.military = append([]MilitaryCommand(nil), cmds.Military...)
	t.milIdx = 0
	t.phase = phaseMilitary
}

func (t *Turn) planAI() {
	gs := t.gs
	lordID := t.currentLord()
	t.phase = phaseMilitary
	if t.planner == nil {
		return
	}
	if dp, ok := t.planner.(DiplomaticPlanner); ok {
		for _, c := range dp.PlanDiplomacy(gs, lordID, t.rng) {
			if res := ExecuteInternal(gs, lordID, c); res.OK {
				t.message("%s", res.Message)
			}
		}
	}
	for _, c := range t.planner.AssignGenerals(gs, lordID) {
		if res := ExecuteInternal(gs, lordID, c); res.OK {
			t.message("%s", res.Message)
		}
	}
	for _, p := range gs.OwnedProvinces(lordID) {
		if p.CommandUsed {
			continue
		}
		switch c := t.planner.PlanProvince(gs, lordID, p, t.rng).(type) {
		case nil:
		case MilitaryCommand:
			t.military = append(t.military, c)
		case InternalCommand:
			res := ExecuteInternal(gs, lordID, c)
			if res.OK {
				t.message("%s", res.Message)
			} else {
				t.note("%s: %s", gs.LordName(lordID), res.Message)
			}
		}
	}
}

func (t *Turn) executeMilitary() {
	lordID := t.currentLord()
	l := t.gs.Lord(lordID)
	if t.milIdx >= len(t.military) || l == nil || !l.Alive {
		t.lordIdx++
		t.phase = phaseNextLord
		return
	}
	cmd := t.military[t.milIdx]
	t.milIdx++
	switch c := cmd.(type) {
	case RecruitCmd:
		res := ExecuteRecruit(t.gs, lordID, c)
		if res.OK {
			t.message("%s", res.Message)
		} else if lordID == t.gs.PlayerLord {
			t.message("Failed: %s", res.Message)
		} else {
			t.note("%s: %s", l.Name, res.Message)
		}
	case AttackCmd:
		t.attack(l, c)
	}
}

func (t *Turn) attack(l *Lord, c AttackCmd) {
	gs := t.gs
	from, res := checkProvince(gs, l.ID, c.Province)
	if !res.OK {
		t.cancelAttack(l, res.Message)
		return
	}
	to := gs.Province(c.Target)
	if to == nil {
		t.cancelAttack(l, fmt.Sprintf("province %d not found", c.Target))
		return
	}
	if !CanAttack(gs, l.ID, to.Owner) {
		t.message("%s cannot attack %s while a treaty with %s holds", l.Name, to.Name, gs.LordName(to.Owner))
		return
	}
	force := c.ForceFor(from)
	t.message("%s's army departs %s for %s with %d troops", l.Name, from.Name, to.Name, force)

	army, res := CreateAttackArmy(gs, from.ID, to.ID, force, c.General)
	if !res.OK {
		t.message("Attack failed: %s", res.Message)
		return
	}
	from.CommandUsed = true
	gs.RecordCommand(l.ID, c.Kind())

	report := newBattleReport(gs, army, from, to)
	t.battles++
	report.Seq = t.battles
	result := Resolve(gs, army, to, t.rng)
	defeated := Apply(gs, result, army, to)
	report.Result = result
	t.log = append(t.log, result.RoundLog...)

	verdict := fmt.Sprintf("%s repelled %s at %s", report.DefenderName, report.AttackerName, to.Name)
	if result.ProvinceCaptured {
		verdict = fmt.Sprintf("%s captured %s from %s", report.AttackerName, to.Name, report.DefenderName)
	} else if result.AttackerWon {
		verdict = fmt.Sprintf("%s won at %s but could not take it", report.AttackerName, to.Name)
	}
	t.emit(Event{Kind: EventBattleAnimation, LordID: l.ID, Battle: report, Text: verdict})

	if defeated != 0 {
		dl := gs.Lord(defeated)
		rec := dl.DeathRecord(CauseBattle)
		t.emit(Event{Kind: EventDeathAnimation, LordID: defeated, Death: &rec,
			Text: fmt.Sprintf("%s fell defending %s", dl.Name, to.Name)})
		if dl.IsPlayer {
			t.gameOver(&rec)
			return
		}
	}
	if winner := gs.CheckVictory(); winner != 0 && winner == gs.PlayerLord {
		t.victory(winner)
	}
}

// cancelAttack reports an attack that never left home. The player sees it
// as a failure event; computer lords only leave a log line.
func (t *Turn) cancelAttack(l *Lord, reason string) {
	if l.ID == t.gs.PlayerLord {
		t.message("Failed: attack cancelled: %s", reason)
		return
	}
	t.note("%s: attack cancelled: %s", l.Name, reason)
}

func (t *Turn) extinction() {
	gs := t.gs
	for _, id := range gs.LivingLordIDs() {
		l := gs.Lords[id]
		if len(l.Provinces) > 0 {
			continue
		}
		rec := gs.KillLord(id, CauseTerritoryLoss)
		t.emit(Event{Kind: EventDeathAnimation, LordID: id, Death: rec,
			Text: fmt.Sprintf("The %s clan has lost all its lands; %s is no more", l.Clan, l.Name)})
		if l.IsPlayer {
			t.gameOver(rec)
			return
		}
	}
	if winner := gs.CheckVictory(); winner != 0 && winner == gs.PlayerLord {
		t.victory(winner)
		return
	}
	t.phase = phaseTreaties
}

func (t *Turn) gameOver(rec *DeathRecord) {
	t.emit(Event{Kind: EventGameOver, Death: rec, Text: "Game over"})
	t.result = TurnResult{GameOver: true, Death: rec}
	t.turnEnd()
	t.phase = phaseDone
}

func (t *Turn) victory(winner int) {
	t.emit(Event{Kind: EventVictory, Winner: winner,
		Text: fmt.Sprintf("%s has unified the realm", t.gs.LordName(winner))})
	t.result = TurnResult{Winner: winner}
	t.turnEnd()
	t.phase = phaseDone
}

// turnEnd runs on every completion path, including victory and game over.
func (t *Turn) turnEnd() {
	gs := t.gs
	for _, msg := range ExpirePendingChoices(gs, t.catalog) {
		t.note("%s", msg)
	}
	gs.UpdateAllStatistics()
	if gs.Turn > 0 && gs.Turn%StatsReportInterval == 0 {
		t.log = append(t.log, gs.CommandReport()...)
	}
}
