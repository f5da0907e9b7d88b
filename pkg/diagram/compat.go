package diagram

import "fmt"

// IsConnectable reports whether an arrow from src to dst would be valid.
// inbound is the number of arrows already terminating at dst.
//
// Rules are checked in order, short-circuiting on the first failure:
// direction (output → input), distinct nodes, data-type compatibility, and
// the target's MaxConnections bound. The function never returns an error;
// use [ExplainConnectable] when the editor needs a reason string.
func IsConnectable(src, dst Handle, inbound int) bool {
	ok, _ := ExplainConnectable(src, dst, inbound)
	return ok
}

// ExplainConnectable is the editor-facing variant of [IsConnectable]: it
// returns the verdict plus a human-readable reason for the first failing
// rule, or "" when the connection is allowed.
func ExplainConnectable(src, dst Handle, inbound int) (bool, string) {
	if src.Direction != DirOut {
		return false, fmt.Sprintf("source handle %q is not an output", src.Name)
	}
	if dst.Direction != DirIn {
		return false, fmt.Sprintf("target handle %q is not an input", dst.Name)
	}
	// No connections between handles of one node, even across distinct
	// ports: the editor treats a node as a single unit.
	if src.NodeID == dst.NodeID {
		return false, "source and target belong to the same node"
	}
	if !typesCompatible(src.DataType, dst.DataType) {
		return false, fmt.Sprintf("data type %q does not flow into %q", src.DataType, dst.DataType)
	}
	if dst.MaxConnections > 0 && inbound >= dst.MaxConnections {
		return false, fmt.Sprintf("target handle %q is at its connection limit (%d)", dst.Name, dst.MaxConnections)
	}
	return true, ""
}

// typesCompatible applies the fixed compatibility table: exact match, or
// either side tagged as the wildcard.
func typesCompatible(a, b string) bool {
	if a == DataAny || b == DataAny {
		return true
	}
	// Empty tags behave like the wildcard so hand-built fixtures stay
	// connectable.
	if a == "" || b == "" {
		return true
	}
	return a == b
}
