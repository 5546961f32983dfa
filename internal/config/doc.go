// Package config manages user-level settings stored at ~/.obsenv/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the environment root, the summary log path, and the telemetry proxy URL.
package config
