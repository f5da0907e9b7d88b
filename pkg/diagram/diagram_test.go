package diagram

import (
	"errors"
	"math"
	"testing"
)

func buildNode(id string, kind Kind) Node {
	return Node{ID: id, Kind: kind, Label: id}
}

func TestDiagram_AddNode(t *testing.T) {
	d := New(nil)

	if err := d.AddNode(buildNode("node_0", KindStart)); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := d.AddNode(buildNode("node_0", KindStart)); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("expected ErrDuplicateNodeID, got %v", err)
	}
	if err := d.AddNode(Node{Kind: KindStart}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("expected ErrInvalidNodeID, got %v", err)
	}

	bad := buildNode("node_1", KindJob)
	bad.Position = Vec2{X: math.NaN()}
	if err := d.AddNode(bad); !errors.Is(err, ErrNonFinitePosition) {
		t.Errorf("expected ErrNonFinitePosition, got %v", err)
	}
}

func TestDiagram_AddHandle(t *testing.T) {
	d := New(nil)
	if err := d.AddNode(buildNode("node_0", KindJob)); err != nil {
		t.Fatal(err)
	}

	h := Handle{NodeID: "node_0", Name: "default", Direction: DirIn, DataType: DataAny}
	if err := d.AddHandle(h); err != nil {
		t.Fatalf("AddHandle failed: %v", err)
	}
	// The composite ID is derived, not caller-assigned.
	want := MakeHandleID("node_0", "default", DirIn)
	if d.Handles[0].ID != want {
		t.Errorf("handle ID = %q, want %q", d.Handles[0].ID, want)
	}

	if err := d.AddHandle(h); !errors.Is(err, ErrDuplicateHandle) {
		t.Errorf("expected ErrDuplicateHandle, got %v", err)
	}
	if err := d.AddHandle(Handle{NodeID: "ghost", Name: "default", Direction: DirIn}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

func TestDiagram_AddArrow(t *testing.T) {
	d := New(nil)
	for _, id := range []string{"node_0", "node_1"} {
		if err := d.AddNode(buildNode(id, KindJob)); err != nil {
			t.Fatal(err)
		}
		for _, h := range DefaultHandles(KindJob, id) {
			if err := d.AddHandle(h); err != nil {
				t.Fatal(err)
			}
		}
	}

	a := Arrow{
		ID:     "arrow_0",
		Source: MakeHandleID("node_0", HandleDefault, DirOut),
		Target: MakeHandleID("node_1", HandleDefault, DirIn),
	}
	if err := d.AddArrow(a); err != nil {
		t.Fatalf("AddArrow failed: %v", err)
	}

	dangling := Arrow{
		ID:     "arrow_1",
		Source: MakeHandleID("node_0", HandleDefault, DirOut),
		Target: MakeHandleID("ghost", HandleDefault, DirIn),
	}
	if err := d.AddArrow(dangling); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", err)
	}

	if n := d.InboundCount(a.Target); n != 1 {
		t.Errorf("InboundCount = %d, want 1", n)
	}
}

func TestSequentialSource(t *testing.T) {
	ids := SequentialSource()
	if got := ids(PrefixNode); got != "node_0" {
		t.Errorf("first node ID = %q, want node_0", got)
	}
	if got := ids(PrefixNode); got != "node_1" {
		t.Errorf("second node ID = %q, want node_1", got)
	}
	// Counters are independent per prefix.
	if got := ids(PrefixArrow); got != "arrow_0" {
		t.Errorf("first arrow ID = %q, want arrow_0", got)
	}
}

func TestUUIDSource_Alphabet(t *testing.T) {
	ids := UUIDSource()
	for i := 0; i < 50; i++ {
		id := ids(PrefixNode)
		for _, r := range id {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
				t.Fatalf("ID %q contains %q outside the [a-z0-9_] alphabet", id, r)
			}
		}
	}
}
