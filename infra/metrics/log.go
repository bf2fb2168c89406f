package metrics

import (
	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/infra/logger"
)

// LogSink writes every report as a structured log line.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a sink logging through l.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.NopLogger{}
	}
	return &LogSink{log: l}
}

func (s *LogSink) RecordRun(r coremetrics.RunReport) error {
	fields := map[string]any{
		"run_id":      r.RunID,
		"instance":    r.Instance,
		"algorithm":   r.Algorithm,
		"rate":        r.Rate,
		"exact":       r.Exact,
		"duration_ms": float64(r.Duration.Microseconds()) / 1000,
	}
	if r.Expanded > 0 {
		fields["expanded"] = r.Expanded
		fields["pruned"] = r.Pruned
	}
	if r.Error != "" {
		fields["error"] = r.Error
	}
	s.log.Infow("solver run", fields)
	return nil
}

func (s *LogSink) RecordPreprocess(r coremetrics.PreprocessReport) error {
	s.log.Infow("preprocess", map[string]any{
		"run_id":         r.RunID,
		"instance":       r.Instance,
		"channels":       r.Channels,
		"budget":         r.Budget,
		"terms_input":    r.TermsInput,
		"terms_filtered": r.TermsFiltered,
		"terms_hull":     r.TermsHull,
	})
	return nil
}

func (s *LogSink) RecordComparison(c coremetrics.Comparison) error {
	if !c.Agreed {
		s.log.Warnf("exact algorithms disagree on %s (run %s)", c.Instance, c.RunID)
	}
	return nil
}
