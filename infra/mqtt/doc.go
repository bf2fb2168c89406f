// Package mqtt publishes solver reports to an MQTT broker using Eclipse Paho.
// Importing the package registers the "mqtt" report sink type.
package mqtt
