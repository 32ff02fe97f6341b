package sengoku

import (
	"strings"
	"testing"
)

func floodEvent() EventDef {
	return EventDef{
		ID:          "flood",
		Name:        "Flood",
		Description: "The rivers of {province_name} burst their banks.",
		Probability: 1,
		Effects:     Effects{EffectRiceMultiplier: 0.6, EffectPeasantLoss: -200, EffectLoyaltyChange: -5},
		Mitigation:  &Mitigation{Attribute: "flood_control", Threshold: 60, ReductionFactor: 0.5},
	}
}

func uprisingEvent() EventDef {
	return EventDef{
		ID:          "uprising",
		Name:        "Uprising",
		Description: "Peasants rise in {province_name}.",
		Probability: 1,
		Effects:     Effects{EffectSoldierLoss: -30, EffectLoyaltyChange: -5},
		Choices: []EventChoice{
			{ID: "suppress", Text: "Crush it", Effect: Effects{EffectSoldierLoss: -50, EffectLoyaltyChange: -10}},
			{ID: "negotiate", Text: "Talk", Cost: Cost{Gold: 200}, Effect: Effects{EffectSoldierLoss: 0, EffectLoyaltyChange: 15}},
		},
	}
}

func TestEventText(t *testing.T) {
	ev := floodEvent()
	p := NewProvince(1, "Owari", Plains, 8000)
	if got := ev.Text(p); got != "The rivers of Owari burst their banks." {
		t.Errorf("Text() = %q", got)
	}
}

func TestApplyEventMitigation(t *testing.T) {
	tests := []struct {
		name         string
		floodControl int
		peasants     int
		loyalty      int
	}{
		{"unprotected", 40, 3800, 45},
		{"protected", 60, 3900, 48},
	}
	for _, tt := range tests {
		gs := twoProvinceState()
		p := gs.Province(1)
		p.FloodControl = tt.floodControl
		ev := floodEvent()
		rec := ApplyEvent(gs, &ev, p, "")
		if p.Peasants != tt.peasants {
			t.Errorf("%s: peasants = %d, want %d", tt.name, p.Peasants, tt.peasants)
		}
		if p.Loyalty != tt.loyalty {
			t.Errorf("%s: loyalty = %d, want %d", tt.name, p.Loyalty, tt.loyalty)
		}
		if p.Rice >= DefaultRice {
			t.Errorf("%s: rice %d did not fall", tt.name, p.Rice)
		}
		if len(gs.EventHistory) != 1 || rec.EventID != "flood" {
			t.Errorf("%s: history = %+v", tt.name, gs.EventHistory)
		}
		if ev.Effects[EffectPeasantLoss] != -200 {
			t.Errorf("%s: definition mutated: %v", tt.name, ev.Effects)
		}
	}
}

func TestCheckEventsRestrictions(t *testing.T) {
	gs := twoProvinceState()
	gs.Season = Winter
	catalog := &EventCatalog{Events: []EventDef{
		{ID: "summer_only", Probability: 1, SeasonRestriction: []string{"summer"}},
		{ID: "coast_only", Probability: 1, TerrainRestriction: []Terrain{Coastal}},
		{ID: "unruly", Probability: 1, Triggers: TriggerConditions{LoyaltyMax: ptr(30)}},
	}}
	if got := CheckEvents(gs, catalog, NewRand(1)); len(got) != 0 {
		t.Fatalf("CheckEvents() = %d events, want none", len(got))
	}
	gs.Province(2).Loyalty = 10
	got := CheckEvents(gs, catalog, NewRand(1))
	if len(got) != 1 || got[0].Province.ID != 2 || got[0].Event.ID != "unruly" {
		t.Fatalf("CheckEvents() = %+v", got)
	}
	gs.Season = Summer
	got = CheckEvents(gs, catalog, NewRand(1))
	if len(got) != 2 || got[0].Event.ID != "summer_only" || got[1].Event.ID != "summer_only" {
		t.Errorf("one event per province expected, got %+v", got)
	}
}

func TestCheckEventsSkipsNeutral(t *testing.T) {
	gs := twoProvinceState()
	gs.KillLord(2, CauseBattle)
	catalog := &EventCatalog{Events: []EventDef{{ID: "always", Probability: 1}}}
	got := CheckEvents(gs, catalog, NewRand(1))
	if len(got) != 1 || got[0].Province.ID != 1 {
		t.Errorf("CheckEvents() = %+v, want only the owned province", got)
	}
}

func TestPlayerChoiceIsQueued(t *testing.T) {
	gs := twoProvinceState()
	catalog := &EventCatalog{Events: []EventDef{uprisingEvent()}}
	msgs := ResolveEvents(gs, catalog, NewRand(4))
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", msgs)
	}
	if len(gs.PendingChoices) != 1 || gs.PendingChoices[0].ProvinceID != 1 {
		t.Fatalf("pending = %+v", gs.PendingChoices)
	}
	if !strings.Contains(msgs[0], "awaiting") {
		t.Errorf("player message = %q", msgs[0])
	}
	// The AI province resolved at once.
	if len(gs.EventHistory) != 1 || gs.EventHistory[0].ProvinceID != 2 || gs.EventHistory[0].Choice == "" {
		t.Errorf("history = %+v", gs.EventHistory)
	}
	if gs.Province(1).Soldiers != DefaultSoldiers {
		t.Error("player province changed before a decision")
	}
}

func TestResolvePendingChoice(t *testing.T) {
	gs := twoProvinceState()
	catalog := &EventCatalog{Events: []EventDef{uprisingEvent()}}
	gs.PendingChoices = []PendingChoice{{EventID: "uprising", ProvinceID: 1, Turn: 1}}
	p := gs.Province(1)
	p.Gold = 100

	if res := ResolvePendingChoice(gs, catalog, 1, "negotiate"); res.OK {
		t.Fatal("unaffordable choice accepted")
	}
	if res := ResolvePendingChoice(gs, catalog, 1, "bribe"); res.OK {
		t.Fatal("unknown choice accepted")
	}
	if len(gs.PendingChoices) != 1 {
		t.Fatal("failed answers consumed the pending event")
	}
	p.Gold = 300
	if res := ResolvePendingChoice(gs, catalog, 1, "negotiate"); !res.OK {
		t.Fatalf("ResolvePendingChoice: %s", res.Message)
	}
	if p.Gold != 100 || p.Loyalty != 65 || p.Soldiers != DefaultSoldiers {
		t.Errorf("after negotiate gold %d loyalty %d soldiers %d", p.Gold, p.Loyalty, p.Soldiers)
	}
	if len(gs.PendingChoices) != 0 {
		t.Error("pending event not cleared")
	}
	if res := ResolvePendingChoice(gs, catalog, 1, "negotiate"); res.OK {
		t.Error("answer without a pending event accepted")
	}
}

func TestExpirePendingChoices(t *testing.T) {
	gs := twoProvinceState()
	catalog := &EventCatalog{Events: []EventDef{uprisingEvent()}}
	gs.PendingChoices = []PendingChoice{{EventID: "uprising", ProvinceID: 1, Turn: 1}}
	msgs := ExpirePendingChoices(gs, catalog)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", msgs)
	}
	p := gs.Province(1)
	if p.Soldiers != DefaultSoldiers-30 || p.Loyalty != 45 {
		t.Errorf("base effects not applied: soldiers %d loyalty %d", p.Soldiers, p.Loyalty)
	}
	if gs.PendingChoices != nil {
		t.Error("queue not cleared")
	}
}

func TestExpiredChoiceSkipsLostProvince(t *testing.T) {
	tests := []struct {
		name  string
		owner int
	}{
		{"captured by rival", 2},
		{"neutral", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := twoProvinceState()
			catalog := &EventCatalog{Events: []EventDef{uprisingEvent()}}
			gs.PendingChoices = []PendingChoice{{EventID: "uprising", ProvinceID: 1, Turn: 1}}
			gs.SetOwner(1, tt.owner)
			p := gs.Province(1)
			soldiers, loyalty := p.Soldiers, p.Loyalty

			msgs := ExpirePendingChoices(gs, catalog)
			if len(msgs) != 1 || !strings.Contains(msgs[0], "lapsed") {
				t.Errorf("messages = %v", msgs)
			}
			if p.Soldiers != soldiers || p.Loyalty != loyalty {
				t.Errorf("effects applied to a lost province: soldiers %d loyalty %d", p.Soldiers, p.Loyalty)
			}
			if gs.PendingChoices != nil {
				t.Error("queue not cleared")
			}
		})
	}
}

func TestRecruitGeneralChoice(t *testing.T) {
	gs := twoProvinceState()
	gs.Generals[109] = &General{ID: 109, Name: "Ronin", Alive: true, Available: true}
	ev := EventDef{ID: "ronin", Name: "Ronin", Probability: 1, Choices: []EventChoice{
		{ID: "hire", Cost: Cost{Gold: 150}, RecruitGeneral: 109, AssignToProvince: true},
	}}
	p := gs.Province(1)
	ApplyEvent(gs, &ev, p, "hire")
	g := gs.General(109)
	if g.Lord != 1 || p.Governor != 109 || p.Gold != DefaultGold-150 {
		t.Errorf("general %+v governor %d gold %d", g, p.Governor, p.Gold)
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name string
		ev   EventDef
	}{
		{"no id", EventDef{Probability: 0.1}},
		{"probability", EventDef{ID: "x", Probability: 1.5}},
		{"season", EventDef{ID: "x", SeasonRestriction: []string{"monsoon"}}},
		{"terrain", EventDef{ID: "x", TerrainRestriction: []Terrain{"swamp"}}},
		{"effect", EventDef{ID: "x", Effects: Effects{"mana": 1}}},
		{"choice id", EventDef{ID: "x", Choices: []EventChoice{{Text: "?"}}}},
	}
	for _, tt := range tests {
		if err := tt.ev.validate(); err == nil {
			t.Errorf("%s: validate() = nil", tt.name)
		}
	}
	ev := uprisingEvent()
	if err := ev.validate(); err != nil {
		t.Errorf("valid event rejected: %v", err)
	}
}

func ptr(v int) *int { return &v }
