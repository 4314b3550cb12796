// Package sampler runs the external nested sampling process that produces
// dead-point files for the orchestrator.
//
// Files:
//   - comm.go: process-group communicator abstraction
//   - ini.go: PolyChord-style ini text and prior block generation
//   - compiled.go: Compiled, which drives a compiled sampler executable
//   - stub.go: Stub, a deterministic synthetic sampler for tests and demos
//   - errors.go: typed sampler errors
package sampler
