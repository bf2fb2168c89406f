package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/infra/logger"
)

// InfluxConfig holds the connection settings of the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes solver runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.ReportSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes the run as a line protocol point.
func (s *InfluxSink) RecordRun(r coremetrics.RunReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solver_run").
		AddTag("run_id", r.RunID).
		AddTag("instance", r.Instance).
		AddTag("algorithm", r.Algorithm).
		AddTag("exact", strconv.FormatBool(r.Exact)).
		AddField("rate", round6(r.Rate)).
		AddField("duration_us", r.Duration.Microseconds()).
		AddField("expanded", r.Expanded).
		AddField("pruned", r.Pruned)
	if r.Error != "" {
		p = p.AddField("error", r.Error)
	}
	p = p.SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPreprocess writes the term counts of each preprocessing stage.
func (s *InfluxSink) RecordPreprocess(r coremetrics.PreprocessReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("preprocess").
		AddTag("run_id", r.RunID).
		AddTag("instance", r.Instance).
		AddField("channels", r.Channels).
		AddField("budget", r.Budget).
		AddField("terms_input", r.TermsInput).
		AddField("terms_filtered", r.TermsFiltered).
		AddField("terms_hull", r.TermsHull).
		AddField("duration_us", r.Duration.Microseconds()).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP resources of the client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
