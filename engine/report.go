package engine

// Report is the daily artifact. One file per date, write-once.
type Report struct {
	Date              string   `json:"date"`
	CulturalDiagnosis string   `json:"cultural_diagnosis"`
	Agon              Agon     `json:"agon"`
	Mandate           string   `json:"mandate"`
	Artifact          Artifact `json:"artifact"`
	EngineVersion     string   `json:"engine_version"`
}

// Agon is the day's contest summary and its winner.
type Agon struct {
	Summary string `json:"summary"`
	Winner  string `json:"winner"`
}

// Artifact tracks the composition the mandate commissions.
type Artifact struct {
	Status string `json:"status"`
	Link   string `json:"link"`
}

// Index lists every published report date, newest first.
type Index struct {
	Dates []string `json:"dates"`
}

// Normalize pins the fields the engine owns regardless of what the generative
// call returned: the run date, the engine version, a default artifact, and the
// computed winner. Forcing the winner guards against model drift; the model's
// opinion of who won is never trusted.
func Normalize(r *Report, date, winner, version string) {
	r.Date = date
	r.EngineVersion = version
	if r.Artifact == (Artifact{}) {
		r.Artifact = Artifact{Status: "PENDING", Link: ""}
	}
	r.Agon.Winner = winner
}
