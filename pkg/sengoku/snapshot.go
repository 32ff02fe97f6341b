package sengoku

import (
	"errors"
	"fmt"
)

// TurnSnapshot is the serializable cursor of a turn in progress.
type TurnSnapshot struct {
	Phase    string         `json:"phase" yaml:"phase"`
	Order    []int          `json:"order" yaml:"order"`
	LordIdx  int            `json:"lord_idx" yaml:"lord_idx"`
	Military []CommandInput `json:"military,omitempty" yaml:"military,omitempty"`
	MilIdx   int            `json:"mil_idx" yaml:"mil_idx"`
	Battles  int            `json:"battles" yaml:"battles"`
	Outbox   []Event        `json:"outbox,omitempty" yaml:"outbox,omitempty"`
	Log      []string       `json:"log" yaml:"log"`
	Result   TurnResult     `json:"result" yaml:"result"`
	Waiting  bool           `json:"waiting" yaml:"waiting"`
	Finished bool           `json:"finished" yaml:"finished"`
}

// Snapshot captures the turn cursor. The game state and random source are
// saved separately by the session.
func (t *Turn) Snapshot() TurnSnapshot {
	s := TurnSnapshot{
		Phase:    string(t.phase),
		Order:    append([]int(nil), t.order...),
		LordIdx:  t.lordIdx,
		MilIdx:   t.milIdx,
		Battles:  t.battles,
		Outbox:   append([]Event(nil), t.outbox...),
		Log:      append([]string(nil), t.log...),
		Result:   t.result,
		Waiting:  t.waiting,
		Finished: t.finished,
	}
	for _, c := range t.military {
		s.Military = append(s.Military, EncodeCommand(c))
	}
	return s
}

// RestoreTurn rebuilds a turn from a snapshot against an already restored
// state and random source.
func RestoreTurn(gs *GameState, catalog *EventCatalog, planner Planner, rng *Rand, s TurnSnapshot) (*Turn, error) {
	t := NewTurn(gs, catalog, planner, rng)
	switch p := phase(s.Phase); p {
	case phaseStart, phaseEconomy, phaseLifecycle, phaseShuffle, phaseNextLord, phaseAwaitOrder,
		phaseAIPlan, phaseMilitary, phaseExtinction, phaseTreaties, phaseEnd, phaseDone:
		t.phase = p
	default:
		return nil, fmt.Errorf("restore turn: unknown phase %q", s.Phase)
	}
	t.order = append([]int(nil), s.Order...)
	t.lordIdx = s.LordIdx
	t.milIdx = s.MilIdx
	t.battles = s.Battles
	t.outbox = append([]Event(nil), s.Outbox...)
	t.log = append([]string(nil), s.Log...)
	t.result = s.Result
	t.waiting = s.Waiting
	t.finished = s.Finished
	for i, in := range s.Military {
		c, err := ParseMilitary(in)
		if err != nil {
			return nil, fmt.Errorf("restore turn: military command %d: %w", i, err)
		}
		t.military = append(t.military, c)
	}
	return t, nil
}

// ErrGameEnded is returned when a finished game is asked for another turn.
var ErrGameEnded = errors.New("game has ended")

// ErrTurnInProgress is returned when a new turn is requested before the
// current one finishes.
var ErrTurnInProgress = errors.New("turn in progress")

// Session ties a game state to its event catalog, planner and random source
// and hands out turns one after another.
type Session struct {
	State   *GameState
	Catalog *EventCatalog
	Planner Planner
	Rand    *Rand

	Current *Turn
	Outcome TurnResult
}

// NewSession starts a session seeded with seed.
func NewSession(gs *GameState, catalog *EventCatalog, planner Planner, seed uint64) *Session {
	return &Session{State: gs, Catalog: catalog, Planner: planner, Rand: NewRand(seed)}
}

// Ended reports whether a turn has produced Victory or GameOver.
func (s *Session) Ended() bool { return s.Outcome.Ended() }

// NextTurn starts the next turn. It fails while a turn is unfinished or
// after the game has ended.
func (s *Session) NextTurn() (*Turn, error) {
	if s.Ended() {
		return nil, ErrGameEnded
	}
	if s.Current != nil && !s.Current.Finished() {
		return nil, ErrTurnInProgress
	}
	s.Current = NewTurn(s.State, s.Catalog, s.Planner, s.Rand)
	return s.Current, nil
}

// Advance advances the current turn, starting one if needed, and records
// the outcome when it completes.
func (s *Session) Advance(resume *PlayerCommands) (Step, error) {
	if s.Current == nil || s.Current.Finished() {
		if _, err := s.NextTurn(); err != nil {
			return Step{}, err
		}
	}
	step, err := s.Current.Advance(resume)
	if err != nil {
		return step, err
	}
	if step.Done && step.Result.Ended() {
		s.Outcome = step.Result
	}
	return step, nil
}

// SessionSnapshot is the serializable form of a session.
type SessionSnapshot struct {
	State   *GameState    `json:"state" yaml:"state"`
	Rand    string        `json:"rand" yaml:"rand"`
	Turn    *TurnSnapshot `json:"turn,omitempty" yaml:"turn,omitempty"`
	Outcome TurnResult    `json:"outcome" yaml:"outcome"`
}

// Snapshot captures the whole session.
func (s *Session) Snapshot() (SessionSnapshot, error) {
	rng, err := s.Rand.MarshalText()
	if err != nil {
		return SessionSnapshot{}, err
	}
	snap := SessionSnapshot{State: s.State, Rand: string(rng), Outcome: s.Outcome}
	if s.Current != nil && !s.Current.Finished() {
		ts := s.Current.Snapshot()
		snap.Turn = &ts
	}
	return snap, nil
}

// RestoreSession rebuilds a session, including a suspended turn.
func RestoreSession(snap SessionSnapshot, catalog *EventCatalog, planner Planner) (*Session, error) {
	if snap.State == nil {
		return nil, errors.New("restore session: missing state")
	}
	rng := &Rand{}
	if err := rng.UnmarshalText([]byte(snap.Rand)); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s := &Session{State: snap.State, Catalog: catalog, Planner: planner, Rand: rng, Outcome: snap.Outcome}
	snap.State.normalize()
	if snap.Turn != nil {
		t, err := RestoreTurn(snap.State, catalog, planner, rng, *snap.Turn)
		if err != nil {
			return nil, err
		}
		s.Current = t
	}
	return s, nil
}
