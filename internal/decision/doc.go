// Package decision runs a deterministic local computation that may be
// augmented by one bounded call to an external reasoning service.
//
// A [Decider] makes at most one call per decision, never retries, and always
// returns a complete value: when the reasoner is unconfigured, slow, failing,
// or returns text that does not parse, the caller-supplied fallback is used
// and the cause is recorded on the [Outcome].
package decision
