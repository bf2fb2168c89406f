package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/mckp/core/factory"
	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/infra/logger"
)

// init registers built-in report sinks.
func init() {
	_ = coremetrics.RegisterReportSink("nop", func(map[string]any) (coremetrics.ReportSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterReportSink("log", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c struct {
			Component string `json:"component"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Component == "" {
			c.Component = "report"
		}
		return NewLogSink(logger.New(c.Component)), nil
	})

	_ = coremetrics.RegisterReportSink("prometheus", func(map[string]any) (coremetrics.ReportSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterReportSink("influx", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
