package engine

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/theimaginaryfoundation/round-table/engine/textstore"
)

func testRules(t *testing.T) Rules {
	t.Helper()
	return DefaultRules(t.TempDir())
}

func rotationNames() []string {
	return []string{"Nina Simone", "James Baldwin", "Sun Tzu", "Miyamoto Musashi", "Mary Shelley", "Victor Hugo"}
}

func mustDate(t *testing.T, ymd string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", ymd)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return d
}

func TestLoadOrInit_FreshStateIsPermutation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "engine", "state.json")
	names := rotationNames()

	s, res, err := LoadOrInit(path, names)
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if res != Reinitialized {
		t.Fatalf("res=%v, want Reinitialized", res)
	}
	if s.Pointer != 0 || s.CyclesCompleted != 0 {
		t.Fatalf("pointer=%d cycles=%d, want 0/0", s.Pointer, s.CyclesCompleted)
	}
	if len(s.Rotation) != len(names) {
		t.Fatalf("rotation len=%d, want %d", len(s.Rotation), len(names))
	}

	got := append([]string(nil), s.Rotation...)
	want := append([]string(nil), names...)
	sort.Strings(got)
	sort.Strings(want)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation is not a permutation of names: %v", s.Rotation)
		}
	}

	if !textstore.FileExists(path) {
		t.Fatal("state file was not persisted")
	}
}

func TestLoadOrInit_SecondCallLoads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	first, _, err := LoadOrInit(path, rotationNames())
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}

	second, res, err := LoadOrInit(path, rotationNames())
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if res != Loaded {
		t.Fatalf("res=%v, want Loaded", res)
	}
	if second.Seed != first.Seed || second.Pointer != first.Pointer {
		t.Fatalf("got=%+v want=%+v", second, first)
	}
	for i := range first.Rotation {
		if second.Rotation[i] != first.Rotation[i] {
			t.Fatalf("rotation changed on reload: got=%v want=%v", second.Rotation, first.Rotation)
		}
	}
}

func TestLoadOrInit_HealsMalformedState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "garbage_bytes", body: "\xff\x00not json"},
		{name: "not_json", body: "hello world"},
		{name: "wrong_rotation_type", body: `{"rotation": "abc", "pointer": 0}`},
		{name: "missing_pointer", body: `{"rotation": ["a", "b"]}`},
		{name: "negative_pointer", body: `{"rotation": ["a", "b"], "pointer": -1}`},
		{name: "array_not_object", body: `["a", "b"]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "state.json")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			s, res, err := LoadOrInit(path, rotationNames())
			if err != nil {
				t.Fatalf("LoadOrInit: %v", err)
			}
			if res != Reinitialized {
				t.Fatalf("res=%v, want Reinitialized", res)
			}
			if s.Pointer != 0 || len(s.Rotation) != len(rotationNames()) {
				t.Fatalf("healed state=%+v", s)
			}
		})
	}
}

func TestLoadOrInit_AcceptsValidState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	body := `{"seed": 42, "rotation": ["Sun Tzu", "Mary Shelley"], "pointer": 1, "cycles_completed": 3}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, res, err := LoadOrInit(path, rotationNames())
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if res != Loaded {
		t.Fatalf("res=%v, want Loaded", res)
	}
	if s.Seed != 42 || s.Pointer != 1 || s.CyclesCompleted != 3 || len(s.Rotation) != 2 {
		t.Fatalf("state=%+v", s)
	}
}

func TestPickWinner_Overrides(t *testing.T) {
	t.Parallel()

	rules := testRules(t)
	state := State{Rotation: rotationNames(), Pointer: 3}

	winner, special := PickWinner(mustDate(t, "2025-12-21"), rules, state)
	if winner != rules.OverrideAName || !special {
		t.Fatalf("got=%q/%v want=%q/true", winner, special, rules.OverrideAName)
	}

	winner, special = PickWinner(mustDate(t, "2025-01-01"), rules, state)
	if winner != rules.ConstraintVoice || !special {
		t.Fatalf("got=%q/%v want=%q/true", winner, special, rules.ConstraintVoice)
	}
}

func TestPickWinner_RotationAndPurity(t *testing.T) {
	t.Parallel()

	rules := testRules(t)
	names := rotationNames()
	state := State{Rotation: names, Pointer: 2}

	for i := 0; i < 3; i++ {
		winner, special := PickWinner(mustDate(t, "2025-03-15"), rules, state)
		if winner != names[2] || special {
			t.Fatalf("got=%q/%v want=%q/false", winner, special, names[2])
		}
	}
	if state.Pointer != 2 {
		t.Fatalf("PickWinner mutated pointer: %d", state.Pointer)
	}

	// Pointer is reduced modulo len before use.
	state.Pointer = len(names) + 1
	winner, _ := PickWinner(mustDate(t, "2025-03-15"), rules, state)
	if winner != names[1] {
		t.Fatalf("got=%q want=%q", winner, names[1])
	}
}

func TestPickWinner_EmptyRotationFallsBack(t *testing.T) {
	t.Parallel()

	rules := testRules(t)
	winner, special := PickWinner(mustDate(t, "2025-03-15"), rules, State{})
	if winner != rules.ConstraintVoice || special {
		t.Fatalf("got=%q/%v want=%q/false", winner, special, rules.ConstraintVoice)
	}
}

func TestAdvance_FullCycle(t *testing.T) {
	t.Parallel()

	names := rotationNames()
	state := State{Rotation: names, Pointer: 0}

	for i := 0; i < len(names); i++ {
		Advance(&state)
	}
	if state.Pointer != 0 {
		t.Fatalf("pointer=%d, want 0 after full cycle", state.Pointer)
	}
	if state.CyclesCompleted != 1 {
		t.Fatalf("cycles=%d, want 1", state.CyclesCompleted)
	}
}

func TestAdvance_EmptyRotationIsNoop(t *testing.T) {
	t.Parallel()

	state := State{}
	Advance(&state)
	if state.Pointer != 0 || state.CyclesCompleted != 0 {
		t.Fatalf("state=%+v, want zero", state)
	}
}
