package sengoku

import (
	"strings"
	"testing"
)

func TestGiveRice(t *testing.T) {
	tests := []struct {
		loyalty int
		want    int
	}{
		{60, 80},
		{0, 50},
		{99, 99},
		{100, 100},
	}
	for _, tt := range tests {
		p := NewProvince(1, "P", Plains, 8000)
		p.Loyalty = tt.loyalty
		p.Rice = 150
		res := GiveRice(p)
		if !res.OK {
			t.Fatalf("GiveRice(loyalty %d) failed: %s", tt.loyalty, res.Message)
		}
		if p.Loyalty != tt.want {
			t.Errorf("GiveRice(loyalty %d) -> %d, want %d", tt.loyalty, p.Loyalty, tt.want)
		}
		if p.Rice != 50 {
			t.Errorf("rice = %d, want 50", p.Rice)
		}
	}
}

func TestGiveRiceInsufficient(t *testing.T) {
	p := NewProvince(1, "P", Plains, 8000)
	p.Rice = 99
	p.Loyalty = 40
	if res := GiveRice(p); res.OK {
		t.Fatal("GiveRice succeeded without rice")
	}
	if p.Loyalty != 40 || p.Rice != 99 {
		t.Errorf("state changed on failure: loyalty %d rice %d", p.Loyalty, p.Rice)
	}
}

func TestInternalAffairsCosts(t *testing.T) {
	tests := []struct {
		name  string
		run   func(*Province) Result
		gold  int
		check func(*Province) bool
	}{
		{"cultivate", Cultivate, CultivationCost, func(p *Province) bool { return p.Development == DefaultDevelopment+1 && p.Loyalty == DefaultLoyalty-CultivationLoyaltyPenalty }},
		{"town", DevelopTown, TownDevelopmentCost, func(p *Province) bool { return p.TownLevel == DefaultTownLevel+1 }},
		{"flood", BuildFloodControl, FloodControlCost, func(p *Province) bool { return p.FloodControl == DefaultFloodControl+FloodControlIncrement }},
		{"train", TrainArmy, TrainingCost, func(p *Province) bool { return p.Training > 1.19 && p.Training < 1.21 }},
	}
	for _, tt := range tests {
		p := NewProvince(1, "P", Plains, 8000)
		p.Gold = tt.gold
		if res := tt.run(p); !res.OK {
			t.Fatalf("%s failed: %s", tt.name, res.Message)
		}
		if p.Gold != 0 {
			t.Errorf("%s: gold = %d, want 0", tt.name, p.Gold)
		}
		if !tt.check(p) {
			t.Errorf("%s: unexpected state %+v", tt.name, p)
		}
		if res := tt.run(p); res.OK {
			t.Errorf("%s succeeded with no gold", tt.name)
		}
	}
}

func TestLevelCaps(t *testing.T) {
	p := NewProvince(1, "P", Plains, 8000)
	p.Gold = 10000
	p.Development = MaxDevelopmentLevel
	p.TownLevel = MaxTownLevel
	p.FloodControl = 90
	if Cultivate(p).OK || DevelopTown(p).OK {
		t.Error("level cap not enforced")
	}
	BuildFloodControl(p)
	if p.FloodControl != MaxFloodControl {
		t.Errorf("flood control = %d, want %d", p.FloodControl, MaxFloodControl)
	}
	if BuildFloodControl(p).OK {
		t.Error("flood control cap not enforced")
	}
}

func TestRecruitSoldiers(t *testing.T) {
	p := NewProvince(1, "P", Plains, 8000)
	p.Gold = 300
	if res := RecruitSoldiers(p, 100); !res.OK {
		t.Fatalf("RecruitSoldiers: %s", res.Message)
	}
	if p.Soldiers != DefaultSoldiers+100 || p.Gold != 100 || p.Peasants != 3900 || p.Loyalty != 45 {
		t.Errorf("after recruit: %+v", p)
	}
	if RecruitSoldiers(p, 100).OK {
		t.Error("recruit without gold succeeded")
	}
	p.Gold = 10000
	p.Peasants = 10
	if RecruitSoldiers(p, 100).OK {
		t.Error("recruit without peasants succeeded")
	}
}

func TestTransferKeepsGarrison(t *testing.T) {
	for n := 1; n <= MaxSoldierTransfer; n++ {
		gs := twoProvinceState()
		gs.SetOwner(2, 1)
		a, b := gs.Province(1), gs.Province(2)
		a.Soldiers = 60
		res := Transfer(gs, ResourceSoldiers, 1, 2, n)
		if res.OK != (60-n >= MinGarrison) {
			t.Fatalf("transfer %d: ok=%v (%s)", n, res.OK, res.Message)
		}
		if a.Soldiers < MinGarrison {
			t.Fatalf("transfer %d left %d soldiers", n, a.Soldiers)
		}
		if a.Soldiers+b.Soldiers != 60+DefaultSoldiers {
			t.Fatalf("transfer %d did not conserve soldiers", n)
		}
	}
}

func TestTransferValidation(t *testing.T) {
	tests := []struct {
		name   string
		res    Resource
		amount int
		owned  bool
	}{
		{"different owners", ResourceGold, 100, false},
		{"gold cap", ResourceGold, MaxGoldTransfer + 1, true},
		{"rice cap", ResourceRice, MaxRiceTransfer + 1, true},
		{"soldier cap", ResourceSoldiers, MaxSoldierTransfer + 1, true},
		{"zero", ResourceRice, 0, true},
		{"unknown resource", Resource("horses"), 10, true},
	}
	for _, tt := range tests {
		gs := twoProvinceState()
		if tt.owned {
			gs.SetOwner(2, 1)
		}
		gs.Province(1).Soldiers = 1000
		gs.Province(1).Gold = 5000
		gs.Province(1).Rice = 5000
		if res := Transfer(gs, tt.res, 1, 2, tt.amount); res.OK {
			t.Errorf("%s: transfer succeeded", tt.name)
		}
	}

	gs := twoProvinceState()
	gs.SetOwner(2, 1)
	if res := Transfer(gs, ResourceRice, 1, 2, 300); !res.OK {
		t.Fatalf("valid transfer failed: %s", res.Message)
	}
	if gs.Province(1).Rice != 0 || gs.Province(2).Rice != 600 {
		t.Errorf("rice = %d/%d, want 0/600", gs.Province(1).Rice, gs.Province(2).Rice)
	}
}

func TestNonAggressionBelowThreshold(t *testing.T) {
	gs := twoProvinceState()
	rel := gs.Relation(1, 2)
	rel.Value = NonAggressionThreshold - 1
	res := ProposeNonAggression(gs, 1, 2)
	if res.OK {
		t.Fatal("pact accepted below threshold")
	}
	if !strings.Contains(res.Message, "20") {
		t.Errorf("message %q does not cite the threshold", res.Message)
	}
	if rel.Type != RelationNeutral {
		t.Errorf("relation type = %s, want neutral", rel.Type)
	}

	rel.Value = NonAggressionThreshold
	if res := ProposeNonAggression(gs, 1, 2); !res.OK {
		t.Fatalf("pact at threshold rejected: %s", res.Message)
	}
	if rel.Type != RelationNonAggression || rel.TurnsLeft != TreatyDuration {
		t.Errorf("relation = %+v", rel)
	}
	if CanAttack(gs, 1, 2) {
		t.Error("CanAttack true under a pact")
	}
}

func TestAllianceRules(t *testing.T) {
	gs := twoProvinceState()
	rel := gs.Relation(2, 1)
	rel.Value = 49
	if res := ProposeAlliance(gs, 1, 2); res.OK || !strings.Contains(res.Message, "50") {
		t.Errorf("ProposeAlliance at 49 = %+v", res)
	}
	rel.Value = 60
	if res := ProposeAlliance(gs, 1, 2); !res.OK {
		t.Fatalf("ProposeAlliance: %s", res.Message)
	}
	if res := ProposeAlliance(gs, 1, 2); res.OK {
		t.Error("duplicate alliance accepted")
	}
	if res := ArrangeMarriage(gs, 1, 2); !res.OK || rel.Value != 80 || !rel.Married {
		t.Errorf("ArrangeMarriage = %+v, relation %+v", res, rel)
	}
	if ProposeAlliance(gs, 1, 1).OK {
		t.Error("alliance with self accepted")
	}
}

func TestDeclareWarBreaksPact(t *testing.T) {
	gs := twoProvinceState()
	rel := gs.Relation(1, 2)
	rel.Value = 30
	rel.Type = RelationNonAggression
	rel.TurnsLeft = 5
	res := DeclareWar(gs, 1, 2)
	if !res.OK {
		t.Fatalf("DeclareWar: %s", res.Message)
	}
	if rel.Value != 30+BetrayalPenalty+WarRelationPenalty {
		t.Errorf("relation value = %d", rel.Value)
	}
	if rel.Type != RelationWar || rel.Betrayals != 1 || rel.WarsFought != 1 {
		t.Errorf("relation = %+v", rel)
	}
	if DeclareWar(gs, 1, 2).OK {
		t.Error("second declaration succeeded")
	}
	if ProposeNonAggression(gs, 1, 2).OK {
		t.Error("pact accepted during war")
	}
	if !CanAttack(gs, 1, 2) {
		t.Error("CanAttack false during war")
	}
}

func TestRelationClamp(t *testing.T) {
	gs := twoProvinceState()
	rel := gs.Relation(1, 2)
	rel.Value = -90
	DeclareWar(gs, 1, 2)
	if rel.Value != MinRelation {
		t.Errorf("relation = %d, want %d", rel.Value, MinRelation)
	}
}

func TestUpdateTreatiesExpires(t *testing.T) {
	gs := twoProvinceState()
	rel := gs.Relation(1, 2)
	rel.Type = RelationAlliance
	rel.TurnsLeft = 2
	if msgs := UpdateTreaties(gs); len(msgs) != 0 || rel.TurnsLeft != 1 {
		t.Fatalf("first update: msgs %v turns %d", msgs, rel.TurnsLeft)
	}
	msgs := UpdateTreaties(gs)
	if len(msgs) != 1 || rel.Type != RelationNeutral {
		t.Errorf("second update: msgs %v type %s", msgs, rel.Type)
	}
}

func TestSendGift(t *testing.T) {
	gs := twoProvinceState()
	gs.Province(1).Gold = 600
	if res := SendGift(gs, 1, 2); !res.OK {
		t.Fatalf("SendGift: %s", res.Message)
	}
	if gs.Province(1).Gold != 100 || gs.Province(2).Gold != DefaultGold+GiftGoldAmount {
		t.Errorf("gold = %d/%d", gs.Province(1).Gold, gs.Province(2).Gold)
	}
	if rel := gs.Relation(1, 2); rel.Value != GiftRelationBonus || rel.GiftsExchanged != 1 {
		t.Errorf("relation = %+v", rel)
	}
	if SendGift(gs, 1, 2).OK {
		t.Error("gift without gold succeeded")
	}
}

func TestCanAttackNeutral(t *testing.T) {
	gs := twoProvinceState()
	if !CanAttack(gs, 1, 0) {
		t.Error("neutral province not attackable")
	}
	if CanAttack(gs, 1, 1) {
		t.Error("own province attackable")
	}
}

func TestTrades(t *testing.T) {
	p := NewProvince(1, "P", Plains, 8000)
	p.Rice, p.Gold = 300, 0
	if res := TradeRiceForGold(p, 200); !res.OK || p.Gold != 100 || p.Rice != 100 {
		t.Errorf("TradeRiceForGold = %+v, gold %d rice %d", res, p.Gold, p.Rice)
	}
	if res := TradeGoldForRice(p, 100); !res.OK || p.Gold != 0 || p.Rice != 250 {
		t.Errorf("TradeGoldForRice = %+v, gold %d rice %d", res, p.Gold, p.Rice)
	}
	if TradeGoldForRice(p, 1).OK {
		t.Error("trade without gold succeeded")
	}
}

func TestRecruitmentCost(t *testing.T) {
	tests := []struct {
		skill int
		want  int
	}{
		{30, 100},
		{40, 100},
		{85, 300},
		{95, 300},
		{62, 197},
	}
	for _, tt := range tests {
		g := &General{WarSkill: tt.skill, Leadership: tt.skill, Politics: tt.skill, Intelligence: tt.skill}
		if got := RecruitmentCost(g); got != tt.want {
			t.Errorf("RecruitmentCost(avg %d) = %d, want %d", tt.skill, got, tt.want)
		}
	}
}

func TestHireAndReturnGeneral(t *testing.T) {
	gs := twoProvinceState()
	gs.Generals[109] = &General{ID: 109, Name: "Ronin", Alive: true, Available: true, WarSkill: 40, Leadership: 40, Politics: 40, Intelligence: 40}
	if n := len(gs.MasterlessGenerals()); n != 1 {
		t.Fatalf("pool size = %d", n)
	}
	gs.Province(1).Gold = 150
	if res := HireGeneral(gs, 109, 1); !res.OK {
		t.Fatalf("HireGeneral: %s", res.Message)
	}
	g := gs.General(109)
	if g.Lord != 1 || g.Loyalty != RecruitedLoyalty || gs.Province(1).Gold != 50 {
		t.Errorf("general %+v gold %d", g, gs.Province(1).Gold)
	}
	if res := AssignGovernor(gs, 109, 1); !res.OK || gs.Province(1).Governor != 109 || g.Available {
		t.Errorf("AssignGovernor = %+v", res)
	}
	ReturnToPool(gs, 109)
	if g.Lord != 0 || g.Province != 0 || gs.Province(1).Governor != 0 {
		t.Errorf("after ReturnToPool: %+v governor %d", g, gs.Province(1).Governor)
	}
}

func TestAssignGovernorSwapsPosts(t *testing.T) {
	gs := twoProvinceState()
	gs.SetOwner(2, 1)
	gs.Generals[101] = &General{ID: 101, Name: "G1", Lord: 1, Alive: true, Available: true}
	gs.Generals[102] = &General{ID: 102, Name: "G2", Lord: 1, Alive: true, Available: true}
	AssignGovernor(gs, 101, 1)
	AssignGovernor(gs, 102, 1)
	if gs.Province(1).Governor != 102 || gs.General(101).Province != 0 || !gs.General(101).Available {
		t.Errorf("replacement failed: governor %d, g1 %+v", gs.Province(1).Governor, gs.General(101))
	}
	AssignGovernor(gs, 102, 2)
	if gs.Province(1).Governor != 0 || gs.Province(2).Governor != 102 {
		t.Errorf("move failed: %d/%d", gs.Province(1).Governor, gs.Province(2).Governor)
	}
	if res := RemoveGovernor(gs, 2); !res.OK || gs.General(102).Province != 0 {
		t.Errorf("RemoveGovernor = %+v", res)
	}
}

func TestKillLordFullCleanup(t *testing.T) {
	gs := ringState(3)
	gs.SetOwner(3, 2)
	gs.Generals[101] = &General{ID: 101, Name: "G", Lord: 2, Alive: true, Province: 3}
	gs.Province(3).Governor = 101

	rec := gs.KillLord(2, CauseIllness)
	if rec == nil || rec.LordID != 2 || rec.Cause != CauseIllness {
		t.Fatalf("KillLord() = %+v", rec)
	}
	for _, id := range []int{2, 3} {
		p := gs.Province(id)
		if p.Owner != 0 || p.Governor != 0 {
			t.Errorf("province %d owner %d governor %d, want neutral", id, p.Owner, p.Governor)
		}
	}
	if g := gs.General(101); g.Lord != 0 || g.Province != 0 {
		t.Errorf("general not released: %+v", g)
	}
	if gs.Lord(2).Alive || gs.Lord(2).Provinces != nil {
		t.Error("lord not fully dead")
	}
}

func TestCheckVictory(t *testing.T) {
	gs := ringState(3)
	if w := gs.CheckVictory(); w != 0 {
		t.Fatalf("CheckVictory() = %d at start", w)
	}
	gs.SetOwner(2, 1)
	gs.SetOwner(3, 1)
	if w := gs.CheckVictory(); w != 1 {
		t.Errorf("CheckVictory() with every province = %d, want 1", w)
	}

	gs = ringState(3)
	gs.KillLord(2, CauseBattle)
	gs.KillLord(3, CauseBattle)
	if w := gs.CheckVictory(); w != 1 {
		t.Errorf("CheckVictory() as sole survivor = %d, want 1", w)
	}
}
