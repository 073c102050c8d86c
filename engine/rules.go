package engine

import (
	"path/filepath"
	"time"
)

// Rules is the immutable engine configuration: the reserved names, the two
// calendar override days, the version tag stamped into every report, and the
// on-disk layout. Constructed once and passed in; nothing mutates it.
type Rules struct {
	ConstraintVoice   string
	OverrideAName     string
	OverrideAMonthDay string
	OverrideBMonthDay string
	EngineVersion     string
	StatePath         string
	ReportsDir        string
}

// DefaultRules lays the engine's files out under dataDir.
func DefaultRules(dataDir string) Rules {
	return Rules{
		ConstraintVoice:   "Glyph",
		OverrideAName:     "Ellis (Proctor-Head)",
		OverrideAMonthDay: "12-21",
		OverrideBMonthDay: "01-01",
		EngineVersion:     "0.1",
		StatePath:         filepath.Join(dataDir, "engine", "state.json"),
		ReportsDir:        filepath.Join(dataDir, "reports"),
	}
}

// ReportPath returns the date-partitioned path for a day's report.
func (r Rules) ReportPath(date time.Time) string {
	return filepath.Join(r.ReportsDir, date.Format("2006"), date.Format("01"),
		date.Format("2006-01-02")+".json")
}

func (r Rules) IndexPath() string {
	return filepath.Join(r.ReportsDir, "index.json")
}

func (r Rules) LatestPath() string {
	return filepath.Join(r.ReportsDir, "latest.json")
}
