package sengoku

import "testing"

// twoProvinceState returns player lord 1 in province 1 (X) and lord 2 in
// province 2 (Y). The provinces are adjacent plains.
func twoProvinceState() *GameState {
	gs := NewGameState()
	x := NewProvince(1, "X", Plains, 8000)
	x.Adjacent = []int{2}
	y := NewProvince(2, "Y", Plains, 8000)
	y.Adjacent = []int{1}
	gs.Provinces[1] = x
	gs.Provinces[2] = y
	gs.Lords[1] = &Lord{ID: 1, Name: "Lord A", Clan: "A", IsPlayer: true, Alive: true, Age: 30, Health: 90}
	gs.Lords[2] = &Lord{ID: 2, Name: "Lord B", Clan: "B", Alive: true, Age: 30, Health: 90}
	gs.PlayerLord = 1
	gs.SetOwner(1, 1)
	gs.SetOwner(2, 2)
	gs.InitRelations()
	return gs
}

// ringState builds n lords each owning one province on a ring.
func ringState(n int) *GameState {
	gs := NewGameState()
	for i := 1; i <= n; i++ {
		p := NewProvince(i, "P"+string(rune('A'+i-1)), Plains, 8000)
		prev := (i+n-2)%n + 1
		next := i%n + 1
		p.Adjacent = []int{prev, next}
		if prev == next {
			p.Adjacent = []int{next}
		}
		gs.Provinces[i] = p
		gs.Lords[i] = &Lord{ID: i, Name: "Lord " + string(rune('A'+i-1)), Clan: string(rune('A' + i - 1)), Alive: true, Age: 30, Health: 90}
		gs.SetOwner(i, i)
		p.Governor = i
	}
	gs.Lords[1].IsPlayer = true
	gs.PlayerLord = 1
	gs.InitRelations()
	return gs
}

type noopPlanner struct{}

func (noopPlanner) AssignGenerals(*GameState, int) []AssignGeneralCmd { return nil }
func (noopPlanner) PlanProvince(*GameState, int, *Province, *Rand) Command {
	return nil
}

// runUntil advances t, answering PlayerTurn with cmds, and returns every
// event seen until the turn is done.
func runUntil(t *testing.T, turn *Turn, cmds *PlayerCommands) ([]Event, TurnResult) {
	t.Helper()
	var events []Event
	var resume *PlayerCommands
	for i := 0; i < 10000; i++ {
		step, err := turn.Advance(resume)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		resume = nil
		if step.Done {
			return events, step.Result
		}
		events = append(events, *step.Event)
		if step.Event.NeedsCommands() {
			if cmds == nil {
				resume = &PlayerCommands{}
			} else {
				resume = cmds
			}
		}
	}
	t.Fatal("turn did not finish")
	return nil, TurnResult{}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}
