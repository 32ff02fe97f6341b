package sengoku

import "fmt"

func (gs *GameState) livingPair(a, b int) (*Lord, *Lord, *Relation, Result) {
	la, lb := gs.Lord(a), gs.Lord(b)
	if la == nil || lb == nil || !la.Alive || !lb.Alive {
		return nil, nil, nil, fail("invalid lord")
	}
	if a == b {
		return nil, nil, nil, fail("a lord cannot negotiate with itself")
	}
	rel := gs.Relation(a, b)
	if rel == nil {
		return nil, nil, nil, fail("no relation between %s and %s", la.Name, lb.Name)
	}
	return la, lb, rel, Result{OK: true}
}

// ProposeNonAggression signs a pact when the relation is at least
// NonAggressionThreshold and the pair has no conflicting status.
func ProposeNonAggression(gs *GameState, from, to int) Result {
	return proposeTreaty(gs, from, to, RelationNonAggression, NonAggressionThreshold, "non-aggression pact")
}

// ProposeAlliance forms an alliance when the relation is at least
// AllianceThreshold.
func ProposeAlliance(gs *GameState, from, to int) Result {
	return proposeTreaty(gs, from, to, RelationAlliance, AllianceThreshold, "alliance")
}

func proposeTreaty(gs *GameState, from, to int, kind RelationType, threshold int, label string) Result {
	la, lb, rel, res := gs.livingPair(from, to)
	if !res.OK {
		return res
	}
	switch rel.Type {
	case kind:
		return fail("%s and %s already have a %s", la.Name, lb.Name, label)
	case RelationWar:
		return fail("%s and %s are at war", la.Name, lb.Name)
	}
	if kind == RelationNonAggression && rel.Type == RelationAlliance {
		return fail("%s and %s are already allied", la.Name, lb.Name)
	}
	if rel.Value < threshold {
		return fail("%s rejected: relation insufficient (required: %d, current: %d)", label, threshold, rel.Value)
	}
	rel.Type = kind
	rel.TurnsLeft = TreatyDuration
	return succeed("%s and %s concluded a %s for %d turns", la.Name, lb.Name, label, TreatyDuration)
}

// DeclareWar always succeeds unless the pair is already at war. Breaking a
// pact costs an extra BetrayalPenalty.
func DeclareWar(gs *GameState, from, to int) Result {
	la, lb, rel, res := gs.livingPair(from, to)
	if !res.OK {
		return res
	}
	if rel.Type == RelationWar {
		return fail("%s is already at war with %s", la.Name, lb.Name)
	}
	msg := fmt.Sprintf("%s declared war on %s", la.Name, lb.Name)
	if rel.HasPact() {
		rel.Adjust(BetrayalPenalty)
		rel.Betrayals++
		msg += " breaking their pact"
	}
	rel.Adjust(WarRelationPenalty)
	rel.Type = RelationWar
	rel.TurnsLeft = 0
	rel.WarsFought++
	return Result{OK: true, Message: msg}
}

// SendGift pays GiftGoldAmount from the sender's first province to the
// receiver's first province.
func SendGift(gs *GameState, from, to int) Result {
	la, lb, rel, res := gs.livingPair(from, to)
	if !res.OK {
		return res
	}
	src := gs.OwnedProvinces(from)
	dst := gs.OwnedProvinces(to)
	if len(src) == 0 || len(dst) == 0 {
		return fail("a gift needs provinces on both sides")
	}
	total := 0
	for _, p := range src {
		total += p.Gold
	}
	if total < GiftGoldAmount || src[0].Gold < GiftGoldAmount {
		return fail("not enough gold for a gift (need %d in %s)", GiftGoldAmount, src[0].Name)
	}
	src[0].Gold -= GiftGoldAmount
	dst[0].Gold += GiftGoldAmount
	rel.Adjust(GiftRelationBonus)
	rel.GiftsExchanged++
	return succeed("%s sent %d gold to %s (relation %d)", la.Name, GiftGoldAmount, lb.Name, rel.Value)
}

// ArrangeMarriage seals an alliance with a marriage.
func ArrangeMarriage(gs *GameState, from, to int) Result {
	la, lb, rel, res := gs.livingPair(from, to)
	if !res.OK {
		return res
	}
	if rel.Type != RelationAlliance {
		return fail("a marriage requires an alliance between %s and %s", la.Name, lb.Name)
	}
	if rel.Married {
		return fail("%s and %s are already joined by marriage", la.Name, lb.Name)
	}
	rel.Married = true
	rel.Adjust(MarriageRelationBonus)
	return succeed("%s and %s joined their houses by marriage", la.Name, lb.Name)
}

// UpdateTreaties counts treaty durations down and returns expiry messages.
func UpdateTreaties(gs *GameState) []string {
	var msgs []string
	for _, rel := range gs.Relations {
		if !rel.HasPact() || rel.TurnsLeft <= 0 {
			continue
		}
		rel.TurnsLeft--
		if rel.TurnsLeft == 0 {
			msgs = append(msgs, fmt.Sprintf("The %s between %s and %s has expired",
				rel.Type, gs.LordName(rel.A), gs.LordName(rel.B)))
			rel.Type = RelationNeutral
		}
	}
	return msgs
}

// CanAttack reports whether lord a may attack a province of lord b. Neutral
// provinces (b == 0) are always attackable.
func CanAttack(gs *GameState, a, b int) bool {
	if a == b {
		return false
	}
	if b == 0 {
		return true
	}
	rel := gs.Relation(a, b)
	return rel == nil || !rel.HasPact()
}
