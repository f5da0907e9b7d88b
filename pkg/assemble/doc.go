// Package assemble reconstructs a complete diagram from the minimal flow
// notation: a list of directed edges with optional condition and variable
// annotations, plus auxiliary per-name prompts, agents and data sources.
//
// Assembly is deterministic given an identifier source: edge parsing is
// tolerant (bad lines are skipped with a coded error), node kinds are
// inferred by a fixed priority order, layout is a cycle-safe breadth-first
// level assignment, and missing agents are satisfied by a single synthesized
// default person.
package assemble
