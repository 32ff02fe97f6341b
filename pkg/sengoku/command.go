package sengoku

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand is returned when a command envelope cannot be turned
// into a typed command.
var ErrInvalidCommand = errors.New("invalid command")

// Command kinds on the wire.
const (
	KindCultivate         = "cultivate"
	KindDevelopTown       = "develop_town"
	KindFloodControl      = "flood_control"
	KindGiveRice          = "give_rice"
	KindTrain             = "train"
	KindSetTax            = "set_tax"
	KindTransfer          = "transfer"
	KindTransferSoldiers  = "transfer_soldiers"
	KindTransferGold      = "transfer_gold"
	KindTransferRice      = "transfer_rice"
	KindAssignGeneral     = "assign_general"
	KindHireGeneral       = "hire_general"
	KindSellRice          = "sell_rice"
	KindBuyRice           = "buy_rice"
	KindProposeAlliance   = "propose_alliance"
	KindProposeNonAggress = "propose_non_aggression"
	KindDeclareWar        = "declare_war"
	KindSendGift          = "send_gift"
	KindArrangeMarriage   = "arrange_marriage"
	KindRecruit           = "recruit"
	KindAttack            = "attack"
)

// Command is one player or AI action.
type Command interface {
	Kind() string
	// ProvinceID is the acting province, or 0 for lord-level actions.
	ProvinceID() int
}

// InternalCommand executes immediately during a lord's turn.
type InternalCommand interface {
	Command
	internalCommand()
}

// MilitaryCommand is queued and executed after a lord's internal commands.
type MilitaryCommand interface {
	Command
	militaryCommand()
}

type (
	CultivateCmd    struct{ Province int }
	DevelopTownCmd  struct{ Province int }
	FloodControlCmd struct{ Province int }
	GiveRiceCmd     struct{ Province int }
	TrainCmd        struct{ Province int }

	SetTaxCmd struct {
		Province int
		Rate     int
	}

	TransferCmd struct {
		Resource Resource
		From     int
		To       int
		Amount   int
	}

	AssignGeneralCmd struct {
		Province int
		General  int
	}

	HireGeneralCmd struct {
		Province int
		General  int
	}

	// TradeCmd sells rice for gold, or buys rice with gold.
	TradeCmd struct {
		Province int
		SellRice bool
		Amount   int
	}

	DiplomacyCmd struct {
		Action string
		Target int
	}

	RecruitCmd struct {
		Province int
		Amount   int
	}

	// AttackCmd dispatches Force troops, or Ratio of the garrison when Force
	// is zero.
	AttackCmd struct {
		Province int
		Target   int
		Force    int
		Ratio    float64
		General  int
	}
)

func (c CultivateCmd) Kind() string     { return KindCultivate }
func (c DevelopTownCmd) Kind() string   { return KindDevelopTown }
func (c FloodControlCmd) Kind() string  { return KindFloodControl }
func (c GiveRiceCmd) Kind() string      { return KindGiveRice }
func (c TrainCmd) Kind() string         { return KindTrain }
func (c SetTaxCmd) Kind() string        { return KindSetTax }
func (c TransferCmd) Kind() string      { return "transfer_" + string(c.Resource) }
func (c AssignGeneralCmd) Kind() string { return KindAssignGeneral }
func (c HireGeneralCmd) Kind() string   { return KindHireGeneral }
func (c DiplomacyCmd) Kind() string     { return c.Action }
func (c RecruitCmd) Kind() string       { return KindRecruit }
func (c AttackCmd) Kind() string        { return KindAttack }

func (c TradeCmd) Kind() string {
	if c.SellRice {
		return KindSellRice
	}
	return KindBuyRice
}

func (c CultivateCmd) ProvinceID() int     { return c.Province }
func (c DevelopTownCmd) ProvinceID() int   { return c.Province }
func (c FloodControlCmd) ProvinceID() int  { return c.Province }
func (c GiveRiceCmd) ProvinceID() int      { return c.Province }
func (c TrainCmd) ProvinceID() int         { return c.Province }
func (c SetTaxCmd) ProvinceID() int        { return c.Province }
func (c TransferCmd) ProvinceID() int      { return c.From }
func (c AssignGeneralCmd) ProvinceID() int { return c.Province }
func (c HireGeneralCmd) ProvinceID() int   { return c.Province }
func (c TradeCmd) ProvinceID() int         { return c.Province }
func (c DiplomacyCmd) ProvinceID() int     { return 0 }
func (c RecruitCmd) ProvinceID() int       { return c.Province }
func (c AttackCmd) ProvinceID() int        { return c.Province }

func (CultivateCmd) internalCommand()     {}
func (DevelopTownCmd) internalCommand()   {}
func (FloodControlCmd) internalCommand()  {}
func (GiveRiceCmd) internalCommand()      {}
func (TrainCmd) internalCommand()         {}
func (SetTaxCmd) internalCommand()        {}
func (TransferCmd) internalCommand()      {}
func (AssignGeneralCmd) internalCommand() {}
func (HireGeneralCmd) internalCommand()   {}
func (TradeCmd) internalCommand()         {}
func (DiplomacyCmd) internalCommand()     {}
func (RecruitCmd) militaryCommand()       {}
func (AttackCmd) militaryCommand()        {}

// ForceFor returns the troops to dispatch from p.
func (c AttackCmd) ForceFor(p *Province) int {
	if c.Force > 0 {
		return c.Force
	}
	return int(float64(p.Soldiers) * c.Ratio)
}

// CommandInput is the JSON envelope for a command.
type CommandInput struct {
	Type       string  `json:"type" yaml:"type"`
	ProvinceID int     `json:"province_id,omitempty" yaml:"province_id,omitempty"`
	TargetID   int     `json:"target_id,omitempty" yaml:"target_id,omitempty"`
	GeneralID  int     `json:"general_id,omitempty" yaml:"general_id,omitempty"`
	LordID     int     `json:"lord_id,omitempty" yaml:"lord_id,omitempty"`
	Amount     int     `json:"amount,omitempty" yaml:"amount,omitempty"`
	Ratio      float64 `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Resource   string  `json:"resource,omitempty" yaml:"resource,omitempty"`
	Rate       int     `json:"rate,omitempty" yaml:"rate,omitempty"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}

// ParseCommand validates an envelope and returns the typed command.
func ParseCommand(in CommandInput) (Command, error) {
	needProvince := func() error {
		if in.ProvinceID <= 0 {
			return invalid("%s requires province_id", in.Type)
		}
		return nil
	}
	switch in.Type {
	case KindCultivate, KindDevelopTown, KindFloodControl, KindGiveRice, KindTrain:
		if err := needProvince(); err != nil {
			return nil, err
		}
		switch in.Type {
		case KindCultivate:
			return CultivateCmd{Province: in.ProvinceID}, nil
		case KindDevelopTown:
			return DevelopTownCmd{Province: in.ProvinceID}, nil
		case KindFloodControl:
			return FloodControlCmd{Province: in.ProvinceID}, nil
		case KindGiveRice:
			return GiveRiceCmd{Province: in.ProvinceID}, nil
		}
		return TrainCmd{Province: in.ProvinceID}, nil

	case KindSetTax:
		if err := needProvince(); err != nil {
			return nil, err
		}
		if in.Rate < MinTaxRate || in.Rate > MaxTaxRate {
			return nil, invalid("tax rate %d outside %d-%d", in.Rate, MinTaxRate, MaxTaxRate)
		}
		return SetTaxCmd{Province: in.ProvinceID, Rate: in.Rate}, nil

	case KindTransfer, KindTransferSoldiers, KindTransferGold, KindTransferRice:
		res := Resource(in.Resource)
		if in.Type != KindTransfer {
			res = Resource(in.Type[len("transfer_"):])
		}
		if !res.Valid() {
			return nil, invalid("unknown resource %q", in.Resource)
		}
		if err := needProvince(); err != nil {
			return nil, err
		}
		if in.TargetID <= 0 {
			return nil, invalid("%s requires target_id", in.Type)
		}
		if in.Amount <= 0 {
			return nil, invalid("%s requires a positive amount", in.Type)
		}
		return TransferCmd{Resource: res, From: in.ProvinceID, To: in.TargetID, Amount: in.Amount}, nil

	case KindAssignGeneral, KindHireGeneral:
		if err := needProvince(); err != nil {
			return nil, err
		}
		if in.GeneralID < GeneralIDBase {
			return nil, invalid("%s requires a general_id of at least %d", in.Type, GeneralIDBase)
		}
		if in.Type == KindHireGeneral {
			return HireGeneralCmd{Province: in.ProvinceID, General: in.GeneralID}, nil
		}
		return AssignGeneralCmd{Province: in.ProvinceID, General: in.GeneralID}, nil

	case KindSellRice, KindBuyRice:
		if err := needProvince(); err != nil {
			return nil, err
		}
		if in.Amount <= 0 {
			return nil, invalid("%s requires a positive amount", in.Type)
		}
		return TradeCmd{Province: in.ProvinceID, SellRice: in.Type == KindSellRice, Amount: in.Amount}, nil

	case KindProposeAlliance, KindProposeNonAggress, KindDeclareWar, KindSendGift, KindArrangeMarriage:
		if in.LordID < MinLordID || in.LordID > MaxLordID {
			return nil, invalid("%s requires a lord_id between %d and %d", in.Type, MinLordID, MaxLordID)
		}
		return DiplomacyCmd{Action: in.Type, Target: in.LordID}, nil

	case KindRecruit:
		if err := needProvince(); err != nil {
			return nil, err
		}
		if in.Amount <= 0 {
			return nil, invalid("recruit requires a positive amount")
		}
		return RecruitCmd{Province: in.ProvinceID, Amount: in.Amount}, nil

	case KindAttack:
		if err := needProvince(); err != nil {
			return nil, err
		}
		if in.TargetID <= 0 || in.TargetID == in.ProvinceID {
			return nil, invalid("attack requires a target_id other than the source")
		}
		if in.Amount < 0 || in.Ratio < 0 || in.Ratio > 1 || (in.Amount == 0 && in.Ratio == 0) {
			return nil, invalid("attack requires a positive amount or a ratio in (0,1]")
		}
		if in.GeneralID != 0 && in.GeneralID < GeneralIDBase {
			return nil, invalid("attack general_id %d is not a general", in.GeneralID)
		}
		return AttackCmd{Province: in.ProvinceID, Target: in.TargetID, Force: in.Amount, Ratio: in.Ratio, General: in.GeneralID}, nil
	}
	return nil, invalid("unknown command type %q", in.Type)
}

// EncodeCommand converts a typed command back into its envelope.
func EncodeCommand(c Command) CommandInput {
	in := CommandInput{Type: c.Kind(), ProvinceID: c.ProvinceID()}
	switch c := c.(type) {
	case SetTaxCmd:
		in.Rate = c.Rate
	case TransferCmd:
		in.TargetID = c.To
		in.Amount = c.Amount
	case AssignGeneralCmd:
		in.GeneralID = c.General
	case HireGeneralCmd:
		in.GeneralID = c.General
	case TradeCmd:
		in.Amount = c.Amount
	case DiplomacyCmd:
		in.LordID = c.Target
	case RecruitCmd:
		in.Amount = c.Amount
	case AttackCmd:
		in.TargetID = c.Target
		in.Amount = c.Force
		in.Ratio = c.Ratio
		in.GeneralID = c.General
	}
	return in
}

// ParseInternal parses an envelope that must be an internal command.
func ParseInternal(in CommandInput) (InternalCommand, error) {
	c, err := ParseCommand(in)
	if err != nil {
		return nil, err
	}
	ic, ok := c.(InternalCommand)
	if !ok {
		return nil, invalid("%s is not an internal command", in.Type)
	}
	return ic, nil
}

// ParseMilitary parses an envelope that must be a military command.
func ParseMilitary(in CommandInput) (MilitaryCommand, error) {
	c, err := ParseCommand(in)
	if err != nil {
		return nil, err
	}
	mc, ok := c.(MilitaryCommand)
	if !ok {
		return nil, invalid("%s is not a military command", in.Type)
	}
	return mc, nil
}

// EventAnswer picks a choice for a pending event in a province.
type EventAnswer struct {
	ProvinceID int    `json:"province_id" yaml:"province_id"`
	ChoiceID   string `json:"choice_id" yaml:"choice_id"`
}

// PlayerCommands is the resume payload for a PlayerTurn suspension.
type PlayerCommands struct {
	Internal     []InternalCommand
	Military     []MilitaryCommand
	EventChoices []EventAnswer
}

// PlayerCommandsInput is the JSON form of PlayerCommands.
type PlayerCommandsInput struct {
	Internal     []CommandInput `json:"internal_commands" yaml:"internal_commands"`
	Military     []CommandInput `json:"military_commands" yaml:"military_commands"`
	EventChoices []EventAnswer  `json:"event_choices,omitempty" yaml:"event_choices,omitempty"`
}

// Parse validates every envelope. The first invalid command fails the batch.
func (in PlayerCommandsInput) Parse() (*PlayerCommands, error) {
	out := &PlayerCommands{EventChoices: in.EventChoices}
	for i, c := range in.Internal {
		ic, err := ParseInternal(c)
		if err != nil {
			return nil, fmt.Errorf("internal command %d: %w", i, err)
		}
		out.Internal = append(out.Internal, ic)
	}
	for i, c := range in.Military {
		mc, err := ParseMilitary(c)
		if err != nil {
			return nil, fmt.Errorf("military command %d: %w", i, err)
		}
		out.Military = append(out.Military, mc)
	}
	return out, nil
}

// Input converts the commands back to their wire form.
func (pc *PlayerCommands) Input() PlayerCommandsInput {
	var in PlayerCommandsInput
	for _, c := range pc.Internal {
		in.Internal = append(in.Internal, EncodeCommand(c))
	}
	for _, c := range pc.Military {
		in.Military = append(in.Military, EncodeCommand(c))
	}
	in.EventChoices = pc.EventChoices
	return in
}
