package diagram

import "testing"

func TestExplainConnectable(t *testing.T) {
	out := func(node, dataType string) Handle {
		return Handle{NodeID: node, Name: "default", Direction: DirOut, DataType: dataType}
	}
	in := func(node, dataType string) Handle {
		return Handle{NodeID: node, Name: "default", Direction: DirIn, DataType: dataType}
	}

	cases := []struct {
		name    string
		src     Handle
		dst     Handle
		inbound int
		want    bool
	}{
		{"basic any to any", out("a", DataAny), in("b", DataAny), 0, true},
		{"exact type match", out("a", DataString), in("b", DataString), 0, true},
		{"wildcard source", out("a", DataAny), in("b", DataNumber), 0, true},
		{"wildcard target", out("a", DataObject), in("b", DataAny), 0, true},
		{"type mismatch", out("a", DataString), in("b", DataNumber), 0, false},
		{"input as source", in("a", DataAny), in("b", DataAny), 0, false},
		{"output as target", out("a", DataAny), out("b", DataAny), 0, false},
		{"same node", out("a", DataAny), in("a", DataAny), 0, false},
		{"at connection limit", out("a", DataAny),
			Handle{NodeID: "b", Name: "default", Direction: DirIn, DataType: DataAny, MaxConnections: 1}, 1, false},
		{"below connection limit", out("a", DataAny),
			Handle{NodeID: "b", Name: "default", Direction: DirIn, DataType: DataAny, MaxConnections: 2}, 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := ExplainConnectable(tc.src, tc.dst, tc.inbound)
			if got != tc.want {
				t.Errorf("ExplainConnectable = %v (%q), want %v", got, reason, tc.want)
			}
			if !got && reason == "" {
				t.Error("rejection must carry a reason")
			}
			if got && reason != "" {
				t.Errorf("acceptance must not carry a reason, got %q", reason)
			}
			if IsConnectable(tc.src, tc.dst, tc.inbound) != got {
				t.Error("IsConnectable disagrees with ExplainConnectable")
			}
		})
	}
}

func TestExplainConnectable_RuleOrder(t *testing.T) {
	// Direction is checked before the same-node rule: a same-node pair with
	// a bad direction reports the direction problem.
	src := Handle{NodeID: "a", Name: "x", Direction: DirIn, DataType: DataAny}
	dst := Handle{NodeID: "a", Name: "y", Direction: DirIn, DataType: DataAny}
	_, reason := ExplainConnectable(src, dst, 0)
	if reason != `source handle "x" is not an output` {
		t.Errorf("unexpected reason: %q", reason)
	}
}
