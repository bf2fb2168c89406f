package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/mckp/config"
	"github.com/kilianp07/mckp/core/factory"
	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/infra/logger"
	"github.com/kilianp07/mckp/infra/metrics"
	"github.com/kilianp07/mckp/infra/mqtt"
)

// newPublisher is replaced in tests.
var newPublisher = func(cfg mqtt.Config) (coremetrics.ReportSink, error) {
	return mqtt.NewReportPublisher(cfg)
}

// Service wires the configured report sinks to a Runner.
type Service struct {
	Runner   *Runner
	sink     coremetrics.ReportSink
	log      logger.Logger
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	sinkCfgs := cfg.Metrics.Sinks
	if cfg.Metrics.PrometheusAddr != "" && !hasSink(sinkCfgs, "prometheus") {
		sinkCfgs = append(sinkCfgs, factory.ModuleConfig{Type: "prometheus"})
	}
	sink, err := coremetrics.NewReportSink(sinkCfgs)
	if err != nil {
		return nil, fmt.Errorf("report sink: %w", err)
	}
	if cfg.MQTTEnabled() {
		pub, err := newPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		sink = coremetrics.NewMultiSink(sink, pub)
	}

	return &Service{
		Runner:   NewRunner(cfg.Solver, sink, logger.New("runner")),
		sink:     sink,
		log:      logg,
		promAddr: cfg.Metrics.PrometheusAddr,
	}, nil
}

func hasSink(cfgs []factory.ModuleConfig, typ string) bool {
	for _, c := range cfgs {
		if c.Type == typ {
			return true
		}
	}
	return false
}

// ServeMetrics exposes Prometheus metrics until ctx is canceled. It returns
// immediately when no address is configured.
func (s *Service) ServeMetrics(ctx context.Context) {
	if s.promAddr == "" {
		return
	}
	go func() {
		if err := metrics.StartPromServer(ctx, s.promAddr, s.log); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// Close releases resources held by the sinks.
func (s *Service) Close() {
	closeSink(s.sink)
}

func closeSink(sink coremetrics.ReportSink) {
	switch v := sink.(type) {
	case *coremetrics.MultiSink:
		for _, inner := range v.Sinks {
			closeSink(inner)
		}
	case interface{ Disconnect() }:
		v.Disconnect()
	case interface{ Close() }:
		v.Close()
	}
}
