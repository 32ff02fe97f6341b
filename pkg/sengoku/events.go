package sengoku

import (
	"fmt"
	"slices"
	"strings"
)

// TriggeredEvent pairs an event with the province it fired in.
type TriggeredEvent struct {
	Event    *EventDef
	Province *Province
}

// CheckEvents rolls every event against every owned province in id order.
// A province fires at most one event per turn.
func CheckEvents(gs *GameState, catalog *EventCatalog, rng *Rand) []TriggeredEvent {
	if catalog == nil {
		return nil
	}
	var out []TriggeredEvent
	for _, id := range gs.ProvinceIDs() {
		p := gs.Provinces[id]
		if p.Owner == 0 {
			continue
		}
		for i := range catalog.Events {
			ev := &catalog.Events[i]
			if shouldTrigger(ev, p, gs.Season, rng) {
				out = append(out, TriggeredEvent{Event: ev, Province: p})
				break
			}
		}
	}
	return out
}

func shouldTrigger(ev *EventDef, p *Province, season Season, rng *Rand) bool {
	if len(ev.SeasonRestriction) > 0 && !slices.ContainsFunc(ev.SeasonRestriction, func(s string) bool {
		got, ok := ParseSeason(s)
		return ok && got == season
	}) {
		return false
	}
	if len(ev.TerrainRestriction) > 0 && !slices.Contains(ev.TerrainRestriction, p.Terrain) {
		return false
	}
	if !ev.Triggers.match(p) {
		return false
	}
	return rng.Chance(ev.Probability)
}

// ResolveEvents runs the seasonal event pass. Choice events on the player's
// provinces are queued; other lords pick a random choice; plain events apply
// at once. It returns one message per event.
func ResolveEvents(gs *GameState, catalog *EventCatalog, rng *Rand) []string {
	var msgs []string
	for _, te := range CheckEvents(gs, catalog, rng) {
		ev, p := te.Event, te.Province
		header := fmt.Sprintf("[Event] %s in %s: %s", ev.Name, p.Name, ev.Text(p))
		switch {
		case len(ev.Choices) > 0 && p.Owner == gs.PlayerLord:
			gs.PendingChoices = append(gs.PendingChoices, PendingChoice{EventID: ev.ID, ProvinceID: p.ID, Turn: gs.Turn})
			msgs = append(msgs, header+" (awaiting your decision)")
		case len(ev.Choices) > 0:
			choice := ev.Choices[rng.IntN(len(ev.Choices))]
			ApplyEvent(gs, ev, p, choice.ID)
			msgs = append(msgs, fmt.Sprintf("%s (%s chose: %s)", header, gs.LordName(p.Owner), choice.Text))
		default:
			ApplyEvent(gs, ev, p, "")
			msgs = append(msgs, header)
		}
	}
	return msgs
}

// ApplyEvent applies an event to a province, optionally with a choice whose
// cost is paid first and whose effects override the base effects.
func ApplyEvent(gs *GameState, ev *EventDef, p *Province, choiceID string) EventRecord {
	effects := ev.Effects.clone()
	var choice *EventChoice
	if choiceID != "" {
		if choice = ev.Choice(choiceID); choice != nil {
			for k, v := range choice.Effect {
				effects[k] = v
			}
			p.AddGold(-choice.Cost.Gold)
			p.AddRice(-choice.Cost.Rice)
		}
	}
	if ev.Mitigation != nil {
		mitigate(ev.Mitigation, p, effects)
	}
	if choice != nil && choice.RecruitGeneral != 0 && p.Owner != 0 {
		if res := RecruitGeneral(gs, choice.RecruitGeneral, p.Owner); res.OK && choice.AssignToProvince {
			AssignGovernor(gs, choice.RecruitGeneral, p.ID)
		}
	}
	applyEffects(p, effects)

	rec := EventRecord{
		Turn:       gs.Turn,
		Season:     gs.Season.String(),
		EventID:    ev.ID,
		ProvinceID: p.ID,
		Choice:     choiceID,
		Effects:    effects,
	}
	gs.EventHistory = append(gs.EventHistory, rec)
	return rec
}

func mitigate(m *Mitigation, p *Province, effects Effects) {
	if m.Attribute != "flood_control" || p.FloodControl < m.Threshold {
		return
	}
	if mult, ok := effects[EffectRiceMultiplier]; ok {
		effects[EffectRiceMultiplier] = 1 - (1-mult)*m.ReductionFactor
	}
	for k, v := range effects {
		isLoss := strings.Contains(k, "loss") || k == EffectPeasants || k == EffectSoldiers || k == EffectGold || k == EffectRice
		if isLoss && v < 0 {
			effects[k] = float64(int(v * m.ReductionFactor))
		}
	}
	if v, ok := effects[EffectLoyaltyChange]; ok && v < 0 {
		effects[EffectLoyaltyChange] = float64(int(v * m.ReductionFactor))
	}
}

func applyEffects(p *Province, effects Effects) {
	if mult, ok := effects[EffectRiceMultiplier]; ok {
		p.AddRice(int(float64(p.RiceProduction()) * (mult - 1)))
	}
	if v, ok := effects[EffectRice]; ok {
		p.AddRice(int(v))
	}
	if v, ok := effects[EffectGold]; ok {
		p.AddGold(int(v))
	}
	if v, ok := effects[EffectPeasantLoss]; ok {
		p.AddPeasants(int(v))
	}
	if v, ok := effects[EffectPeasants]; ok {
		p.AddPeasants(int(v))
	}
	if v, ok := effects[EffectSoldierLoss]; ok {
		p.AddSoldiers(int(v))
	}
	if v, ok := effects[EffectSoldiers]; ok {
		p.AddSoldiers(int(v))
	}
	if v, ok := effects[EffectSoldierLossPercent]; ok {
		loss := int(float64(p.Soldiers) * abs(v))
		p.AddSoldiers(-loss)
	}
	if v, ok := effects[EffectLoyaltyChange]; ok {
		p.AdjustLoyalty(int(v))
	}
	if v, ok := effects[EffectDevelopmentLevel]; ok {
		p.Development = clamp(p.Development+int(v), 0, MaxDevelopmentLevel)
	}
	if v, ok := effects[EffectTownLevel]; ok {
		p.TownLevel = clamp(p.TownLevel+int(v), 0, MaxTownLevel)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ResolvePendingChoice answers the queued player event in a province.
func ResolvePendingChoice(gs *GameState, catalog *EventCatalog, provinceID int, choiceID string) Result {
	index := slices.IndexFunc(gs.PendingChoices, func(pc PendingChoice) bool { return pc.ProvinceID == provinceID })
	if index < 0 {
		return fail("no pending event in province %d", provinceID)
	}
	pc := gs.PendingChoices[index]
	ev := catalog.Get(pc.EventID)
	p := gs.Province(pc.ProvinceID)
	if ev == nil || p == nil {
		gs.PendingChoices = slices.Delete(gs.PendingChoices, index, index+1)
		return fail("event %s is no longer valid", pc.EventID)
	}
	choice := ev.Choice(choiceID)
	if choice == nil {
		return fail("%s has no choice %q", ev.Name, choiceID)
	}
	if choice.Cost.Gold > p.Gold || choice.Cost.Rice > p.Rice {
		return fail("%s: cannot afford %q", p.Name, choice.Text)
	}
	gs.PendingChoices = slices.Delete(gs.PendingChoices, index, index+1)
	if p.Owner != gs.PlayerLord {
		return fail("%s is no longer yours", p.Name)
	}
	ApplyEvent(gs, ev, p, choiceID)
	return succeed("%s in %s: %s", ev.Name, p.Name, choice.Text)
}

// ExpirePendingChoices applies the base effects of every unanswered choice
// event and clears the queue. A choice lapses without effect once the
// province has left the player's hands.
func ExpirePendingChoices(gs *GameState, catalog *EventCatalog) []string {
	var msgs []string
	for _, pc := range gs.PendingChoices {
		ev := catalog.Get(pc.EventID)
		p := gs.Province(pc.ProvinceID)
		if ev == nil || p == nil {
			continue
		}
		if p.Owner != gs.PlayerLord {
			msgs = append(msgs, fmt.Sprintf("[Event] %s in %s lapsed; the province changed hands", ev.Name, p.Name))
			continue
		}
		ApplyEvent(gs, ev, p, "")
		msgs = append(msgs, fmt.Sprintf("[Event] %s in %s went unanswered", ev.Name, p.Name))
	}
	gs.PendingChoices = nil
	return msgs
}
