package metrics

import "errors"

// MultiSink fans reports out to multiple sinks.
type MultiSink struct {
	Sinks []ReportSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...ReportSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the report to all sinks. Every sink is tried; the
// errors are joined.
func (m *MultiSink) RecordRun(r RunReport) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordRun(r))
	}
	return errors.Join(errs...)
}

// RecordPreprocess forwards preprocessing statistics to sinks supporting them.
func (m *MultiSink) RecordPreprocess(r PreprocessReport) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(PreprocessRecorder); ok {
			errs = append(errs, rec.RecordPreprocess(r))
		}
	}
	return errors.Join(errs...)
}

// RecordComparison forwards a full comparison to sinks supporting it.
func (m *MultiSink) RecordComparison(c Comparison) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ComparisonRecorder); ok {
			errs = append(errs, rec.RecordComparison(c))
		}
	}
	return errors.Join(errs...)
}
