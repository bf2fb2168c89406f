package metrics

import "time"

// Algorithm names used in reports.
const (
	AlgoGreedy        = "greedy"
	AlgoDepthFirst    = "bb_depth_first"
	AlgoBreadthFirst  = "bb_breadth_first"
	AlgoDPByPower     = "dp_power"
	AlgoDPByRate      = "dp_rate"
	AlgoLPSimplex     = "lp_simplex"
	AlgoPreprocessing = "preprocess"
)

// RunReport is the outcome of one algorithm on one instance.
type RunReport struct {
	RunID     string        `json:"run_id"`
	Instance  string        `json:"instance"`
	Algorithm string        `json:"algorithm"`
	Rate      float64       `json:"rate"`
	Exact     bool          `json:"exact"`
	Duration  time.Duration `json:"duration_ns"`
	Expanded  int           `json:"expanded,omitempty"`
	Pruned    int           `json:"pruned,omitempty"`
	Error     string        `json:"error,omitempty"`
	Time      time.Time     `json:"time"`
}

// PreprocessReport records how many terms each filtering step kept.
type PreprocessReport struct {
	RunID         string        `json:"run_id"`
	Instance      string        `json:"instance"`
	Channels      int           `json:"channels"`
	Budget        int           `json:"budget"`
	TermsInput    int           `json:"terms_input"`
	TermsFiltered int           `json:"terms_filtered"`
	TermsHull     int           `json:"terms_hull"`
	Duration      time.Duration `json:"duration_ns"`
	Time          time.Time     `json:"time"`
}

// Comparison gathers every run on one instance.
type Comparison struct {
	RunID      string           `json:"run_id"`
	Instance   string           `json:"instance"`
	Preprocess PreprocessReport `json:"preprocess"`
	Runs       []RunReport      `json:"runs"`
	// Agreed is true when every exact algorithm returned the same rate.
	Agreed bool      `json:"agreed"`
	Time   time.Time `json:"time"`
}

// ReportSink records solver runs for observability purposes.
type ReportSink interface {
	RecordRun(r RunReport) error
}

// PreprocessRecorder records preprocessing statistics.
type PreprocessRecorder interface {
	RecordPreprocess(r PreprocessReport) error
}

// ComparisonRecorder records a finished comparison as a whole.
type ComparisonRecorder interface {
	RecordComparison(c Comparison) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunReport) error               { return nil }
func (NopSink) RecordPreprocess(PreprocessReport) error { return nil }
func (NopSink) RecordComparison(Comparison) error       { return nil }
