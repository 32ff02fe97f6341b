package sengoku

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseEncodeCommand(t *testing.T) {
	tests := []Command{
		CultivateCmd{Province: 1},
		DevelopTownCmd{Province: 2},
		FloodControlCmd{Province: 3},
		GiveRiceCmd{Province: 4},
		TrainCmd{Province: 5},
		SetTaxCmd{Province: 1, Rate: 40},
		TransferCmd{Resource: ResourceGold, From: 1, To: 2, Amount: 300},
		AssignGeneralCmd{Province: 1, General: 101},
		HireGeneralCmd{Province: 1, General: 109},
		TradeCmd{Province: 1, SellRice: true, Amount: 100},
		TradeCmd{Province: 1, Amount: 100},
		DiplomacyCmd{Action: KindDeclareWar, Target: 3},
		RecruitCmd{Province: 1, Amount: 50},
		AttackCmd{Province: 1, Target: 2, Ratio: 0.5, General: 101},
		AttackCmd{Province: 1, Target: 2, Force: 120},
	}
	for _, want := range tests {
		got, err := ParseCommand(EncodeCommand(want))
		if err != nil {
			t.Errorf("%s: %v", want.Kind(), err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip %s: got %+v, want %+v", want.Kind(), got, want)
		}
	}
}

func TestParseCommandInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   CommandInput
	}{
		{"unknown type", CommandInput{Type: "summon_dragon", ProvinceID: 1}},
		{"missing province", CommandInput{Type: KindCultivate}},
		{"tax too high", CommandInput{Type: KindSetTax, ProvinceID: 1, Rate: 95}},
		{"transfer without resource", CommandInput{Type: KindTransfer, ProvinceID: 1, TargetID: 2, Amount: 10}},
		{"transfer without amount", CommandInput{Type: KindTransferRice, ProvinceID: 1, TargetID: 2}},
		{"general id is a lord", CommandInput{Type: KindAssignGeneral, ProvinceID: 1, GeneralID: 5}},
		{"diplomacy without lord", CommandInput{Type: KindSendGift}},
		{"attack self", CommandInput{Type: KindAttack, ProvinceID: 1, TargetID: 1, Ratio: 0.5}},
		{"attack without force", CommandInput{Type: KindAttack, ProvinceID: 1, TargetID: 2}},
		{"attack ratio", CommandInput{Type: KindAttack, ProvinceID: 1, TargetID: 2, Ratio: 1.5}},
		{"recruit nothing", CommandInput{Type: KindRecruit, ProvinceID: 1}},
	}
	for _, tt := range tests {
		if _, err := ParseCommand(tt.in); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("%s: err = %v, want ErrInvalidCommand", tt.name, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseInternal(CommandInput{Type: KindAttack, ProvinceID: 1, TargetID: 2, Amount: 10}); err == nil {
		t.Error("attack accepted as internal")
	}
	if _, err := ParseMilitary(CommandInput{Type: KindCultivate, ProvinceID: 1}); err == nil {
		t.Error("cultivate accepted as military")
	}
	if _, err := ParseMilitary(CommandInput{Type: KindRecruit, ProvinceID: 1, Amount: 10}); err != nil {
		t.Errorf("recruit rejected as military: %v", err)
	}
}

func TestPlayerCommandsJSON(t *testing.T) {
	raw := `{
		"internal_commands": [
			{"type": "cultivate", "province_id": 1},
			{"type": "transfer", "province_id": 1, "target_id": 2, "resource": "soldiers", "amount": 50}
		],
		"military_commands": [
			{"type": "attack", "province_id": 1, "target_id": 3, "ratio": 0.75}
		],
		"event_choices": [{"province_id": 1, "choice_id": "negotiate"}]
	}`
	var in PlayerCommandsInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatal(err)
	}
	pc, err := in.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pc.Internal) != 2 || len(pc.Military) != 1 || len(pc.EventChoices) != 1 {
		t.Fatalf("parsed %+v", pc)
	}
	if tr, ok := pc.Internal[1].(TransferCmd); !ok || tr.Resource != ResourceSoldiers || tr.Amount != 50 {
		t.Errorf("transfer = %+v", pc.Internal[1])
	}
	again, err := pc.Input().Parse()
	if err != nil || !reflect.DeepEqual(again, pc) {
		t.Errorf("Input().Parse() = %+v, %v", again, err)
	}

	in.Military = append(in.Military, CommandInput{Type: KindCultivate, ProvinceID: 1})
	if _, err := in.Parse(); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("misplaced command err = %v", err)
	}
}

func TestAttackForce(t *testing.T) {
	p := &Province{Soldiers: 400}
	if got := (AttackCmd{Ratio: 0.25}).ForceFor(p); got != 100 {
		t.Errorf("ForceFor(ratio) = %d, want 100", got)
	}
	if got := (AttackCmd{Force: 70, Ratio: 0.25}).ForceFor(p); got != 70 {
		t.Errorf("ForceFor(force) = %d, want 70", got)
	}
}

func TestExecuteInternalOncePerProvince(t *testing.T) {
	gs := twoProvinceState()
	gs.Province(1).Gold = 1000
	if res := ExecuteInternal(gs, 1, CultivateCmd{Province: 1}); !res.OK {
		t.Fatalf("first command failed: %s", res.Message)
	}
	if res := ExecuteInternal(gs, 1, DevelopTownCmd{Province: 1}); res.OK {
		t.Error("second command in the same province succeeded")
	}
	if res := ExecuteInternal(gs, 1, CultivateCmd{Province: 2}); res.OK {
		t.Error("command in a foreign province succeeded")
	}
	if res := ExecuteInternal(gs, 1, DiplomacyCmd{Action: KindDeclareWar, Target: 2}); !res.OK {
		t.Errorf("diplomacy blocked by a used province: %s", res.Message)
	}
	if got := gs.CommandStats[1][KindCultivate]; got != 1 {
		t.Errorf("cultivate count = %d", got)
	}
	gs.ResetCommandFlags()
	if res := ExecuteInternal(gs, 1, DevelopTownCmd{Province: 1}); !res.OK {
		t.Errorf("command after reset failed: %s", res.Message)
	}
}

func TestFailedCommandKeepsProvinceAvailable(t *testing.T) {
	gs := twoProvinceState()
	gs.Province(1).Gold = 0
	if res := ExecuteInternal(gs, 1, CultivateCmd{Province: 1}); res.OK {
		t.Fatal("cultivate without gold succeeded")
	}
	if gs.Province(1).CommandUsed {
		t.Error("failed command used up the province")
	}
}
