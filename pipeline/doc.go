// Package pipeline implements a linear, state-threading execution engine.
//
// A pipeline is an ordered chain of named stages. One mutable State record
// travels through the chain: every stage reads the fields it needs and
// returns a partial State that the runner merges back in, overwriting
// same-named keys. Stage failures are carried in-band as data (a sentinel
// output plus an "error" field) rather than as Go errors, so a run always
// reaches the finish stage.
//
// The chain topology is fixed at build time. Builder validates that the
// registered stages form a single connected entry-to-finish chain with no
// branches and no cycles, and Build fails fast otherwise. A built Chain is
// stateless and may be shared across concurrent runs as long as each run
// owns its own initial State.
package pipeline
