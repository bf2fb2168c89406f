package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `solver:
  strategies: ["dfs", "DP_Rate"]
  max_nodes: 5000
  timeout_ms: 250
  lp_check: true
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "log"
      conf:
        component: "reports"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  qos: 1
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"strategies", len(cfg.Solver.Strategies), 2},
		{"strategy normalised", cfg.Solver.Strategies[1], AlgoDPByRate},
		{"max_nodes", cfg.Solver.MaxNodes, 5000},
		{"timeout", cfg.Solver.Timeout(), 250 * time.Millisecond},
		{"lp_check", cfg.Solver.LPCheck, true},
		{"dp_zero_unreachable", cfg.Solver.DPZeroUnreachable, false},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"sink", cfg.Metrics.Sinks[0].Type, "log"},
		{"sink conf", cfg.Metrics.Sinks[0].Conf["component"], "reports"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt topic default", cfg.MQTT.Topic, "mckp/reports"},
		{"level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
	assert.True(t, cfg.MQTTEnabled())
}

func TestLoad_JSONAndDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"solver": {"dp_zero_unreachable": true}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Algorithms, cfg.Solver.Strategies)
	assert.True(t, cfg.Solver.DPZeroUnreachable)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.MQTTEnabled())
	assert.Empty(t, cfg.MQTT.Topic, "mqtt defaults only apply when enabled")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MCKP_SOLVER__MAX_NODES", "42")
	t.Setenv("MCKP_SOLVER__STRATEGIES", "greedy, bfs")
	t.Setenv("MCKP_LOGGING__LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "config.yaml", "solver:\n  max_nodes: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Solver.MaxNodes)
	assert.Equal(t, []string{AlgoGreedy, AlgoBreadthFirst}, cfg.Solver.Strategies)
	assert.Equal(t, "warn", cfg.Logging.Level)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Solver.MaxNodes)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", ""))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.yaml", "solver:\n  strategies: [\"simulated_annealing\"]\n"))
	assert.ErrorContains(t, err, "unknown strategy")

	_, err = Load(writeConfig(t, "config.yaml", "metrics:\n  sinks:\n    - conf: {}\n"))
	assert.ErrorContains(t, err, "type is required")

	_, err = Load(writeConfig(t, "config.yaml", "mqtt:\n  broker: tcp://x:1883\n  qos: 3\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.yaml", "logging:\n  level: loud\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSolverConfigValidate(t *testing.T) {
	assert.Error(t, SolverConfig{MaxNodes: -1}.Validate())
	assert.Error(t, SolverConfig{TimeoutMS: -1}.Validate())
	assert.NoError(t, SolverConfig{}.Validate())
}
