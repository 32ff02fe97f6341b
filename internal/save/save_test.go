package save

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/freeeve/sengoku/api/data"
	"github.com/freeeve/sengoku/api/internal/bot"
	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

func newSession(t *testing.T, seed uint64) (*sengoku.Session, *sengoku.EventCatalog) {
	t.Helper()
	gs, catalog, err := sengoku.LoadScenario(data.FS)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	return sengoku.NewSession(gs, catalog, bot.StrategyForDifficulty(bot.DifficultyNormal), seed), catalog
}

// advanceToPlayer runs the session until it waits for the player.
func advanceToPlayer(t *testing.T, sess *sengoku.Session) {
	t.Helper()
	for range 500 {
		step, err := sess.Advance(nil)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if step.Event != nil && step.Event.NeedsCommands() {
			return
		}
		if step.Done {
			t.Fatal("turn finished without a player turn")
		}
	}
	t.Fatal("no player turn within 500 steps")
}

// finishTurn resumes with empty commands and returns the remaining events.
func finishTurn(t *testing.T, sess *sengoku.Session) []sengoku.Event {
	t.Helper()
	resume := &sengoku.PlayerCommands{}
	var events []sengoku.Event
	for range 1000 {
		step, err := sess.Advance(resume)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		resume = nil
		if step.Done {
			return events
		}
		events = append(events, *step.Event)
	}
	t.Fatal("turn did not finish")
	return nil
}

func eventTexts(events []sengoku.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = string(ev.Kind) + ":" + ev.Text
	}
	return out
}

func TestRoundTripMidTurn(t *testing.T) {
	sess, catalog := newSession(t, 11)
	advanceToPlayer(t, sess)

	var buf bytes.Buffer
	if err := Write(&buf, sess, bot.DifficultyNormal); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "waiting: true") {
		t.Error("expected the suspended turn in the save")
	}

	loaded, err := Read(bytes.NewReader(buf.Bytes()), catalog, bot.StrategyForDifficulty(bot.DifficultyNormal))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if loaded.Current == nil || !loaded.Current.Waiting() {
		t.Fatal("restored session should be waiting for the player")
	}

	want := eventTexts(finishTurn(t, sess))
	got := eventTexts(finishTurn(t, loaded))
	if !reflect.DeepEqual(want, got) {
		t.Errorf("restored session diverged:\nwant %v\ngot  %v", want, got)
	}
	if sess.State.Turn != loaded.State.Turn || sess.State.Season != loaded.State.Season {
		t.Errorf("turn mismatch: %d/%v vs %d/%v", sess.State.Turn, sess.State.Season, loaded.State.Turn, loaded.State.Season)
	}
}

func TestRoundTripBetweenTurns(t *testing.T) {
	sess, catalog := newSession(t, 5)
	advanceToPlayer(t, sess)
	finishTurn(t, sess)

	var buf bytes.Buffer
	if err := Write(&buf, sess, "passive"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Difficulty != "passive" || f.Session.Turn != nil {
		t.Errorf("unexpected header: difficulty %q, turn %v", f.Difficulty, f.Session.Turn)
	}
	loaded, err := f.Restore(catalog, bot.StrategyForDifficulty(f.Difficulty))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if loaded.Current != nil {
		t.Error("expected no turn in progress")
	}
	for id, p := range sess.State.Provinces {
		q := loaded.State.Province(id)
		if q == nil || q.Owner != p.Owner || q.Soldiers != p.Soldiers || q.Gold != p.Gold {
			t.Errorf("province %d differs after load", id)
		}
	}
}

func TestDecodeRejectsVersion(t *testing.T) {
	_, err := Decode(strings.NewReader("version: 99\nsession: {}\n"))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
	if _, err := Decode(strings.NewReader("::: not yaml")); err == nil {
		t.Error("expected a decode error")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	sess, catalog := newSession(t, 3)
	advanceToPlayer(t, sess)

	path := filepath.Join(t.TempDir(), "owari.yaml")
	if err := SaveFile(path, sess, bot.DifficultyAggressive); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.Difficulty != bot.DifficultyAggressive {
		t.Errorf("difficulty = %q", f.Difficulty)
	}
	if _, err := f.Restore(catalog, nil); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
