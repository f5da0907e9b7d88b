// Package diagram defines the in-memory model for node-graph workflows:
// nodes with kind-specific data records, directed ports (handles), arrows
// between handles, agent definitions (persons) and credential references
// (api keys).
//
// # Handles
//
// A handle's identity is composite: it is derived from its node, name and
// direction with [MakeHandleID] and decoded with [ParseHandleID]. The two
// functions form a bijection over valid inputs; decode failures carry the
// MALFORMED_HANDLE error code and are treated by converters as recoverable
// per-arrow conditions.
//
// # Connectability
//
// [IsConnectable] and [ExplainConnectable] implement the port compatibility
// rules the editor consults before allowing a connection: direction, distinct
// nodes, data-type compatibility and the target's connection bound.
//
// # Purity
//
// Nothing in this package performs I/O or holds state beyond the diagram
// value itself. Identifier generation is injected via [IDSource] so that
// conversions are pure functions of their input plus the source.
package diagram
