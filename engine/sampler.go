package engine

import (
	mathrand "math/rand/v2"
	"strconv"
	"time"
)

const maxVoices = 7

// SampleVoices assembles the day's voice roster: the constraint-voice first,
// then the winner, then up to five members sampled deterministically from the
// rest of the council, truncated to seven. The sampling seed is the date as an
// eight-digit integer, so a re-run for the same date reproduces the same
// roster exactly.
//
// A winner that is neither a council member nor the override-A name is coerced
// to the constraint-voice; an unknown name must never be emitted as winner.
func SampleVoices(date time.Time, council []Member, rules Rules, winner string) []Member {
	if _, ok := memberByName(council, winner); !ok && winner != rules.OverrideAName {
		winner = rules.ConstraintVoice
	}

	pool := make([]Member, 0, len(council))
	for _, m := range council {
		if m.Name == rules.ConstraintVoice || m.Name == winner {
			continue
		}
		pool = append(pool, m)
	}

	seed, _ := strconv.ParseUint(date.Format("20060102"), 10, 64)
	rng := mathrand.New(mathrand.NewPCG(seed, 0))
	order := rng.Perm(len(pool))
	k := min(5, len(pool))

	voices := make([]Member, 0, maxVoices)
	constraint, _ := memberByName(council, rules.ConstraintVoice)
	voices = append(voices, constraint)

	if winner == rules.OverrideAName {
		voices = append(voices, Member{
			Name:       rules.OverrideAName,
			DomainBias: []string{"proctor-head"},
			Stance:     "stewardship; scope; coherence; craft as duty",
			Cadence:    "plain-iron",
		})
	} else {
		wm, _ := memberByName(council, winner)
		voices = append(voices, wm)
	}

	for _, i := range order[:k] {
		voices = append(voices, pool[i])
	}
	if len(voices) > maxVoices {
		voices = voices[:maxVoices]
	}
	return voices
}
