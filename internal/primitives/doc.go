// Package primitives defines the data-only form of a chart definition: the
// structures decoded from YAML or JSON, their validation and a deterministic
// fingerprint. The engine in the root package turns a validated ChartConfig
// into live states.
package primitives
