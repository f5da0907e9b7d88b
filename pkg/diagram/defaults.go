package diagram

// DefaultHandles returns the structurally-default handle set for a node of
// the given kind. Start nodes have no input, endpoints no output, and
// condition nodes carry the two boolean branch outputs instead of a default
// output. The compact converter compares against this set to decide which
// handles need emitting, and the assembler uses it when materializing nodes.
func DefaultHandles(kind Kind, nodeID string) []Handle {
	var out []Handle

	if kind != KindStart {
		out = append(out, Handle{
			ID:        MakeHandleID(nodeID, HandleDefault, DirIn),
			NodeID:    nodeID,
			Name:      HandleDefault,
			Direction: DirIn,
			DataType:  DataAny,
			Position:  SideLeft,
		})
	}

	switch kind {
	case KindEndpoint:
		// Terminal: no outputs.
	case KindCondition:
		out = append(out,
			Handle{
				ID:        MakeHandleID(nodeID, HandleCondTrue, DirOut),
				NodeID:    nodeID,
				Name:      HandleCondTrue,
				Direction: DirOut,
				DataType:  DataBoolean,
				Position:  SideRight,
			},
			Handle{
				ID:        MakeHandleID(nodeID, HandleCondFalse, DirOut),
				NodeID:    nodeID,
				Name:      HandleCondFalse,
				Direction: DirOut,
				DataType:  DataBoolean,
				Position:  SideRight,
			},
		)
	default:
		out = append(out, Handle{
			ID:        MakeHandleID(nodeID, HandleDefault, DirOut),
			NodeID:    nodeID,
			Name:      HandleDefault,
			Direction: DirOut,
			DataType:  DataAny,
			Position:  SideRight,
		})
	}

	return out
}

// HasDefaultHandles reports whether the handles of nodeID in d are exactly
// the default set for the node's kind, compared by value (order-insensitive).
func HasDefaultHandles(d *Diagram, nodeID string, kind Kind) bool {
	got := d.HandlesOf(nodeID)
	want := DefaultHandles(kind, nodeID)
	if len(got) != len(want) {
		return false
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
