package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/theimaginaryfoundation/round-table/engine"
)

const intakePromptTemplate = `Date (UTC): %s
Task: Collect a tension-weighted snapshot of today's civilization across finance, war/geopolitics, technology, culture, science.
Rules:
- Prefer structural stress, acceleration, fracture, regime change, technological leaps.
- Avoid gossip/fluff.
- Output 8-12 bullet signals, each 1 sentence max.`

// intakeDegradedCaveat is appended when the web_search call failed and the
// intake falls back to the model's own knowledge.
const intakeDegradedCaveat = `Note: live web search is unavailable. Answer from general knowledge and mark each signal's confidence; prefer structural trends over breaking specifics.`

func buildIntakePrompt(date time.Time) string {
	return fmt.Sprintf(intakePromptTemplate, date.Format("2006-01-02"))
}

const reportInstructionsTemplate = `You are "Gold Umbrella / The Round Table" engine.
You MUST output strict JSON only (no markdown, no extra keys).

Hard frame:
- cultural_diagnosis: essay (proctor lens + includes short debate snippets from 7 voices)
- agon: summary + winner (winner MUST be %q)
- mandate: 8-hour composition command (direct, executable, no fluff)
- artifact: status PENDING and link "" by default
- engine_version: %q

Debate format inside cultural_diagnosis:
- Start with a neutral Proctor field summary (2-4 short paragraphs).
- Then include exactly 7 short labeled voice blocks (1 paragraph each) using the provided voice roster.
- End with a brief Proctor adjudication and transition into the winner.

Elements of Eloquence: controlled cadence, rhetorical figures sparingly, severe minimal tone.

Voice roster (exactly these 7 today):
%s

Field signals (today's intake):
%s`

func buildReportInstructions(req engine.GenerateRequest) string {
	return fmt.Sprintf(reportInstructionsTemplate,
		req.Winner, req.EngineVersion, renderVoiceCards(req.Voices), req.Signals)
}

func renderVoiceCards(voices []engine.Member) string {
	lines := make([]string, 0, len(voices))
	for _, v := range voices {
		lines = append(lines, fmt.Sprintf("- %s: bias=%s; stance=%s; cadence=%s",
			v.Name, strings.Join(v.DomainBias, ","), v.Stance, v.Cadence))
	}
	return strings.Join(lines, "\n")
}
