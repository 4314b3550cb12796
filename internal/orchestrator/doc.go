// Package orchestrator drives a dynamic nested sampling run end to end:
// validate settings, explore with a small initial run, estimate where extra
// samples matter, steer a second run with the resulting live point profile,
// merge the two runs and persist the result.
//
// Files:
//   - settings.go: open settings mapping -> typed Settings, mandatory values
//   - orchestrator.go: the phase machine
//   - errors.go: typed orchestration errors
//   - metrics.go: prometheus instrumentation
package orchestrator
