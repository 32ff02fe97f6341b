package sengoku

// Resource names a transferable stock.
type Resource string

const (
	ResourceSoldiers Resource = "soldiers"
	ResourceGold     Resource = "gold"
	ResourceRice     Resource = "rice"
)

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	return r == ResourceSoldiers || r == ResourceGold || r == ResourceRice
}

// TransferCap returns the per-command limit for r.
func TransferCap(r Resource) int {
	switch r {
	case ResourceSoldiers:
		return MaxSoldierTransfer
	case ResourceGold:
		return MaxGoldTransfer
	case ResourceRice:
		return MaxRiceTransfer
	}
	return 0
}

// Transfer moves amount of a resource between two adjacent provinces held by
// the same lord. Soldier transfers must leave MinGarrison behind.
func Transfer(gs *GameState, r Resource, fromID, toID, amount int) Result {
	from := gs.Province(fromID)
	to := gs.Province(toID)
	if from == nil || to == nil {
		return fail("invalid province for transfer (%d -> %d)", fromID, toID)
	}
	if !r.Valid() {
		return fail("unknown resource %q", r)
	}
	if fromID == toID {
		return fail("cannot transfer %s to the same province", r)
	}
	if !from.IsAdjacent(toID) {
		return fail("%s is not adjacent to %s", to.Name, from.Name)
	}
	if from.Owner == 0 || from.Owner != to.Owner {
		return fail("%s and %s have different owners", from.Name, to.Name)
	}
	if amount <= 0 {
		return fail("transfer amount must be positive")
	}
	if limit := TransferCap(r); amount > limit {
		return fail("cannot transfer more than %d %s at once", limit, r)
	}

	switch r {
	case ResourceSoldiers:
		if from.Soldiers-amount < MinGarrison {
			return fail("%s must keep at least %d soldiers (have %d)", from.Name, MinGarrison, from.Soldiers)
		}
		from.Soldiers -= amount
		to.Soldiers += amount
	case ResourceGold:
		if from.Gold < amount {
			return fail("%s: not enough gold (have %d)", from.Name, from.Gold)
		}
		from.Gold -= amount
		to.Gold += amount
	case ResourceRice:
		if from.Rice < amount {
			return fail("%s: not enough rice (have %d)", from.Name, from.Rice)
		}
		from.Rice -= amount
		to.Rice += amount
	}
	return succeed("transferred %d %s from %s to %s", amount, r, from.Name, to.Name)
}
