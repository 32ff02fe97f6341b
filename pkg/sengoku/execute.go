package sengoku

// checkProvince validates that lordID may issue a command from provinceID
// this turn.
func checkProvince(gs *GameState, lordID, provinceID int) (*Province, Result) {
	p := gs.Province(provinceID)
	if p == nil {
		return nil, fail("province %d not found", provinceID)
	}
	if p.Owner != lordID {
		return nil, fail("%s is not yours to command", p.Name)
	}
	if p.CommandUsed {
		return nil, fail("%s has already acted this turn", p.Name)
	}
	return p, Result{OK: true}
}

// ExecuteInternal runs an internal command for lordID. A successful
// province command uses up that province's action for the turn.
func ExecuteInternal(gs *GameState, lordID int, cmd InternalCommand) Result {
	if d, ok := cmd.(DiplomacyCmd); ok {
		res := executeDiplomacy(gs, lordID, d)
		if res.OK {
			gs.RecordCommand(lordID, cmd.Kind())
		}
		return res
	}

	p, res := checkProvince(gs, lordID, cmd.ProvinceID())
	if !res.OK {
		return res
	}
	switch c := cmd.(type) {
	case CultivateCmd:
		res = Cultivate(p)
	case DevelopTownCmd:
		res = DevelopTown(p)
	case FloodControlCmd:
		res = BuildFloodControl(p)
	case GiveRiceCmd:
		res = GiveRice(p)
	case TrainCmd:
		res = TrainArmy(p)
	case SetTaxCmd:
		res = SetTaxRate(p, c.Rate)
	case TransferCmd:
		res = Transfer(gs, c.Resource, c.From, c.To, c.Amount)
	case AssignGeneralCmd:
		res = AssignGovernor(gs, c.General, c.Province)
	case HireGeneralCmd:
		res = HireGeneral(gs, c.General, c.Province)
	case TradeCmd:
		if c.SellRice {
			res = TradeRiceForGold(p, c.Amount)
		} else {
			res = TradeGoldForRice(p, c.Amount)
		}
	default:
		return fail("unsupported command %s", cmd.Kind())
	}
	if res.OK {
		p.CommandUsed = true
		gs.RecordCommand(lordID, cmd.Kind())
	}
	return res
}

func executeDiplomacy(gs *GameState, lordID int, c DiplomacyCmd) Result {
	switch c.Action {
	case KindProposeAlliance:
		return ProposeAlliance(gs, lordID, c.Target)
	case KindProposeNonAggress:
		return ProposeNonAggression(gs, lordID, c.Target)
	case KindDeclareWar:
		return DeclareWar(gs, lordID, c.Target)
	case KindSendGift:
		return SendGift(gs, lordID, c.Target)
	case KindArrangeMarriage:
		return ArrangeMarriage(gs, lordID, c.Target)
	}
	return fail("unknown diplomatic action %q", c.Action)
}

// ExecuteRecruit runs a queued recruit command.
func ExecuteRecruit(gs *GameState, lordID int, c RecruitCmd) Result {
	p, res := checkProvince(gs, lordID, c.Province)
	if !res.OK {
		return res
	}
	res = RecruitSoldiers(p, c.Amount)
	if res.OK {
		p.CommandUsed = true
		gs.RecordCommand(lordID, c.Kind())
	}
	return res
}
