package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/theimaginaryfoundation/round-table/engine/textstore"
)

// ErrReportExists marks a write-once violation: a report for the target date
// is already on disk. Historical artifacts are never overwritten.
var ErrReportExists = errors.New("report already exists")

// SignalIntake collects the day's field signals as free text. Implementations
// own their single degraded retry; a returned error means both attempts
// failed and the run cannot proceed.
type SignalIntake interface {
	Collect(ctx context.Context, date time.Time) (string, error)
}

// GenerateRequest carries everything the content generator needs for one day.
type GenerateRequest struct {
	Date          string
	Winner        string
	Voices        []Member
	Signals       string
	EngineVersion string
}

// Generator produces the structured report. Output that does not parse as a
// Report is an error; a malformed artifact is worse than a missing one and is
// never persisted.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Report, error)
}

// Publisher runs the daily pipeline: rotation state, winner pick, voice
// sampling, the two collaborator calls, write-once persistence, and index
// upkeep.
type Publisher struct {
	rules   Rules
	council []Member
	intake  SignalIntake
	gen     Generator
}

// RunResult reports what a successful run produced.
type RunResult struct {
	Date       string
	Winner     string
	Special    bool
	ReportPath string
	StateLoad  LoadResult
}

func NewPublisher(rules Rules, council []Member, intake SignalIntake, gen Generator) (*Publisher, error) {
	if err := ValidateCouncil(council, rules.ConstraintVoice); err != nil {
		return nil, fmt.Errorf("NewPublisher: %w", err)
	}
	if intake == nil || gen == nil {
		return nil, errors.New("NewPublisher: intake and generator are required")
	}
	return &Publisher{rules: rules, council: council, intake: intake, gen: gen}, nil
}

// Run executes one full publication for the given instant (interpreted UTC).
// Rotation state advances only after the report, index, and latest copies are
// all on disk, and only when the winner was not a calendar override, so a
// failed run never consumes a rotation slot.
func (p *Publisher) Run(ctx context.Context, now time.Time) (RunResult, error) {
	date := now.UTC()
	ymd := date.Format("2006-01-02")

	names := make([]string, 0, len(p.council))
	for _, m := range p.council {
		if m.Name != p.rules.ConstraintVoice {
			names = append(names, m.Name)
		}
	}

	state, loadRes, err := LoadOrInit(p.rules.StatePath, names)
	if err != nil {
		return RunResult{}, fmt.Errorf("run %s: %w", ymd, err)
	}

	winner, special := PickWinner(date, p.rules, state)
	voices := SampleVoices(date, p.council, p.rules, winner)

	signals, err := p.intake.Collect(ctx, date)
	if err != nil {
		return RunResult{}, fmt.Errorf("run %s: intake: %w", ymd, err)
	}

	report, err := p.gen.Generate(ctx, GenerateRequest{
		Date:          ymd,
		Winner:        winner,
		Voices:        voices,
		Signals:       signals,
		EngineVersion: p.rules.EngineVersion,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("run %s: generate: %w", ymd, err)
	}
	Normalize(&report, ymd, winner, p.rules.EngineVersion)

	reportPath := p.rules.ReportPath(date)
	if textstore.FileExists(reportPath) {
		return RunResult{}, fmt.Errorf("run %s: %w: %s", ymd, ErrReportExists, reportPath)
	}
	if err := textstore.WriteJSON(reportPath, report); err != nil {
		return RunResult{}, fmt.Errorf("run %s: persist report: %w", ymd, err)
	}

	if err := p.updateIndexes(ymd, reportPath); err != nil {
		return RunResult{}, fmt.Errorf("run %s: %w", ymd, err)
	}

	if !special {
		Advance(&state)
		if err := textstore.WriteJSON(p.rules.StatePath, state); err != nil {
			return RunResult{}, fmt.Errorf("run %s: persist state: %w", ymd, err)
		}
	}

	return RunResult{
		Date:       ymd,
		Winner:     winner,
		Special:    special,
		ReportPath: reportPath,
		StateLoad:  loadRes,
	}, nil
}

// updateIndexes inserts the date into the chronological index and mirrors the
// just-written report into latest.json. An unreadable or malformed index heals
// to an empty one; index maintenance must never be blocked by historical
// corruption.
func (p *Publisher) updateIndexes(ymd, reportPath string) error {
	var idx Index
	if ok, err := textstore.ReadJSON(p.rules.IndexPath(), &idx); err != nil || !ok {
		idx = Index{}
	}
	if idx.Dates == nil {
		idx.Dates = []string{}
	}

	found := false
	for _, d := range idx.Dates {
		if d == ymd {
			found = true
			break
		}
	}
	if !found {
		idx.Dates = append(idx.Dates, ymd)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(idx.Dates)))

	if err := textstore.WriteJSON(p.rules.IndexPath(), idx); err != nil {
		return fmt.Errorf("update index: %w", err)
	}

	text, err := textstore.ReadText(reportPath)
	if err != nil {
		// The report was just written; if it is somehow unreadable, a sentinel
		// latest is better than a crashed run.
		if werr := textstore.WriteJSON(p.rules.LatestPath(), map[string]string{"status": "EMPTY"}); werr != nil {
			return fmt.Errorf("write latest sentinel: %w", werr)
		}
		return nil
	}
	if err := textstore.WriteText(p.rules.LatestPath(), text); err != nil {
		return fmt.Errorf("write latest: %w", err)
	}
	return nil
}
