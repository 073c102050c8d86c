package engine

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
	"time"

	"github.com/theimaginaryfoundation/round-table/engine/textstore"
)

// State is the durable rotation pointer. The seed is drawn once from the OS
// entropy pool and only ever used to shuffle the initial rotation; after that
// the pointer is the sole moving part.
type State struct {
	Seed            uint64   `json:"seed"`
	Rotation        []string `json:"rotation"`
	Pointer         int      `json:"pointer"`
	CyclesCompleted int      `json:"cycles_completed"`
}

// LoadResult tags how LoadOrInit obtained its state, so callers can tell a
// normal load from a heal without relying on logs.
type LoadResult int

const (
	Loaded LoadResult = iota
	Reinitialized
)

func (l LoadResult) String() string {
	if l == Reinitialized {
		return "reinitialized"
	}
	return "loaded"
}

// stateFile is the validating decode target. Pointer fields distinguish a
// missing key from a zero value; a file that fails these checks is treated as
// absent, not as an error.
type stateFile struct {
	Seed            *uint64  `json:"seed"`
	Rotation        []string `json:"rotation"`
	Pointer         *int     `json:"pointer"`
	CyclesCompleted *int     `json:"cycles_completed"`
}

func decodeState(f stateFile) (State, bool) {
	if f.Rotation == nil || f.Pointer == nil || *f.Pointer < 0 {
		return State{}, false
	}
	s := State{Rotation: f.Rotation, Pointer: *f.Pointer}
	if f.Seed != nil {
		s.Seed = *f.Seed
	}
	if f.CyclesCompleted != nil && *f.CyclesCompleted >= 0 {
		s.CyclesCompleted = *f.CyclesCompleted
	}
	return s, true
}

// LoadOrInit loads the rotation state from path, accepting it only if it has
// the expected shape. Any other outcome (missing file, undecodable bytes,
// wrong types, missing keys) reinitializes from scratch: fresh random seed,
// shuffled rotation over names, pointer zero, persisted immediately. Prior
// rotation history is silently discarded in that case; daily publication must
// never be blocked by a corrupt state file.
func LoadOrInit(path string, names []string) (State, LoadResult, error) {
	var f stateFile
	if ok, err := textstore.ReadJSON(path, &f); err == nil && ok {
		if s, valid := decodeState(f); valid {
			return s, Loaded, nil
		}
	}

	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return State{}, Reinitialized, fmt.Errorf("LoadOrInit: draw seed: %w", err)
	}
	seed := binary.BigEndian.Uint64(raw[:])

	rotation := append([]string(nil), names...)
	rng := mathrand.New(mathrand.NewPCG(seed, 0))
	rng.Shuffle(len(rotation), func(i, j int) {
		rotation[i], rotation[j] = rotation[j], rotation[i]
	})

	s := State{Seed: seed, Rotation: rotation}
	if err := textstore.WriteJSON(path, s); err != nil {
		return State{}, Reinitialized, fmt.Errorf("LoadOrInit: persist: %w", err)
	}
	return s, Reinitialized, nil
}

// PickWinner returns today's winner and whether the date is a calendar
// override. Pure: no mutation, same inputs always give the same answer.
// Override days take priority over the rotation so the two anniversaries
// always surface their fixed voices regardless of rotation phase.
func PickWinner(date time.Time, rules Rules, s State) (string, bool) {
	switch date.Format("01-02") {
	case rules.OverrideAMonthDay:
		return rules.OverrideAName, true
	case rules.OverrideBMonthDay:
		return rules.ConstraintVoice, true
	}
	if len(s.Rotation) == 0 {
		return rules.ConstraintVoice, false
	}
	return s.Rotation[s.Pointer%len(s.Rotation)], false
}

// Advance moves the pointer one slot, wrapping at the end of the rotation.
// Callers invoke it at most once per run, only for non-override days, and only
// after the report has been persisted, so a failed run never consumes a slot.
func Advance(s *State) {
	if len(s.Rotation) == 0 {
		return
	}
	s.Pointer++
	if s.Pointer >= len(s.Rotation) {
		s.Pointer = 0
		s.CyclesCompleted++
	}
}
