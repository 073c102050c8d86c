// Package engine implements the daily round-table report pipeline: a durable
// rotation over a fixed council of voices, deterministic per-day voice
// sampling, and write-once publication of the generated report plus its
// derived indexes.
package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Member is one council voice. Immutable once constructed.
type Member struct {
	Name       string   `json:"name" yaml:"name"`
	DomainBias []string `json:"domain_bias" yaml:"domain_bias"`
	Stance     string   `json:"stance" yaml:"stance"`
	Cadence    string   `json:"cadence" yaml:"cadence"`
}

// BuildCouncil returns the built-in panel. Glyph is the constraint-voice and
// must stay unique; ValidateCouncil enforces that.
func BuildCouncil() []Member {
	return []Member{
		{Name: "Glyph", DomainBias: []string{"systems", "power", "technology"},
			Stance: "constraint-first realism; convert chaos into structure", Cadence: "severe minimal"},
		{Name: "Nina Simone", DomainBias: []string{"culture", "justice", "music"},
			Stance: "moral confrontation; truth over comfort", Cadence: "blues-fire"},
		{Name: "James Baldwin", DomainBias: []string{"culture", "identity", "society"},
			Stance: "clarity under pressure; name the lie precisely", Cadence: "sermon-knife"},
		{Name: "Sun Tzu", DomainBias: []string{"war", "strategy", "statecraft"},
			Stance: "win by position and timing; spend force wisely", Cadence: "laconic"},
		{Name: "Miyamoto Musashi", DomainBias: []string{"war", "discipline", "craft"},
			Stance: "mastery through practice; cut what's unnecessary", Cadence: "cold-precise"},
		{Name: "Mary Shelley", DomainBias: []string{"art", "science", "ethics"},
			Stance: "creation carries consequence; responsibility is the frame", Cadence: "gothic-clarity"},
		{Name: "Victor Hugo", DomainBias: []string{"politics", "humanity", "history"},
			Stance: "see the people; make the age visible", Cadence: "grand-orator"},
	}
}

// LoadCouncil reads a YAML roster file. An empty path selects the built-in
// panel.
func LoadCouncil(path string) ([]Member, error) {
	if path == "" {
		return BuildCouncil(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadCouncil: read roster: %w", err)
	}
	var roster struct {
		Council []Member `yaml:"council"`
	}
	if err := yaml.Unmarshal(b, &roster); err != nil {
		return nil, fmt.Errorf("LoadCouncil: unmarshal %s: %w", path, err)
	}
	if len(roster.Council) == 0 {
		return nil, fmt.Errorf("LoadCouncil: %s has no council entries", path)
	}
	return roster.Council, nil
}

// ValidateCouncil checks that the constraint-voice appears exactly once.
// Anything else is a configuration error and the run must not touch disk.
func ValidateCouncil(members []Member, constraintVoice string) error {
	n := 0
	for _, m := range members {
		if m.Name == constraintVoice {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("council must contain %q exactly once, found %d", constraintVoice, n)
	}
	return nil
}

func memberByName(members []Member, name string) (Member, bool) {
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
