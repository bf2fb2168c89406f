// Package metrics defines the reports produced by solver runs and the sinks
// that record them. Sinks like the Prometheus, InfluxDB and MQTT
// implementations in infra/ are instantiated from configuration through the
// sink registry; several configured sinks are combined in a MultiSink.
package metrics
