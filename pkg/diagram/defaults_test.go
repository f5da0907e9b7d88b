package diagram

import "testing"

func TestDefaultHandles(t *testing.T) {
	cases := []struct {
		kind       Kind
		wantNames  map[string]Direction
		wantInputs int
	}{
		{KindStart, map[string]Direction{"default": DirOut}, 0},
		{KindEndpoint, map[string]Direction{"default": DirIn}, 1},
		{KindCondition, map[string]Direction{"default": DirIn, "condtrue": DirOut, "condfalse": DirOut}, 1},
		{KindPersonJob, map[string]Direction{"default": DirIn}, 1},
		{KindJob, map[string]Direction{"default": DirIn}, 1},
		{KindDB, map[string]Direction{"default": DirIn}, 1},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			handles := DefaultHandles(tc.kind, "node_0")

			inputs := 0
			for _, h := range handles {
				if h.NodeID != "node_0" {
					t.Errorf("handle %q owned by %q", h.ID, h.NodeID)
				}
				if h.ID != MakeHandleID(h.NodeID, h.Name, h.Direction) {
					t.Errorf("handle %q has an underived ID", h.ID)
				}
				if h.Direction == DirIn {
					inputs++
				}
			}
			if inputs != tc.wantInputs {
				t.Errorf("got %d inputs, want %d", inputs, tc.wantInputs)
			}

			// Condition branch outputs are boolean-typed, everything else any.
			for _, h := range handles {
				want := DataAny
				if tc.kind == KindCondition && h.Direction == DirOut {
					want = DataBoolean
				}
				if h.DataType != want {
					t.Errorf("handle %q data type = %q, want %q", h.Name, h.DataType, want)
				}
			}
		})
	}
}

func TestHasDefaultHandles(t *testing.T) {
	d := New(nil)
	if err := d.AddNode(buildNode("node_0", KindCondition)); err != nil {
		t.Fatal(err)
	}
	for _, h := range DefaultHandles(KindCondition, "node_0") {
		if err := d.AddHandle(h); err != nil {
			t.Fatal(err)
		}
	}

	if !HasDefaultHandles(d, "node_0", KindCondition) {
		t.Error("default handle set not recognized")
	}

	// An extra handle breaks the comparison.
	extra := Handle{NodeID: "node_0", Name: "retry", Direction: DirOut, DataType: DataAny}
	if err := d.AddHandle(extra); err != nil {
		t.Fatal(err)
	}
	if HasDefaultHandles(d, "node_0", KindCondition) {
		t.Error("extended handle set reported as default")
	}
}
