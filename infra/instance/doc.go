// Package instance loads MCKP instances from disk.
//
// Two formats are understood. The text format is a whitespace separated
// stream "N M budget" followed by N*M powers and N*M rates in row-major
// order, one row per channel. YAML and JSON documents list the channels
// explicitly and may have channels of different sizes.
package instance
