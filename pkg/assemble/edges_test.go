package assemble

import "testing"

func TestParseTarget(t *testing.T) {
	cases := []struct {
		name string
		spec string
		want Edge
		ok   bool
	}{
		{"bare name", "process", Edge{Source: "a", Target: "process"}, true},
		{"with condition", "process [ready]", Edge{Source: "a", Target: "process", Condition: "ready"}, true},
		{"with variable", `process: "result"`, Edge{Source: "a", Target: "process", Variable: "result"}, true},
		{"condition and variable", `process [ready]: "result"`,
			Edge{Source: "a", Target: "process", Condition: "ready", Variable: "result"}, true},
		{"negated condition", "retry [not ready]",
			Edge{Source: "a", Target: "retry", Condition: "not ready"}, true},
		{"spaced name", "load data", Edge{Source: "a", Target: "load data"}, true},
		{"unbalanced bracket", "process [ready", Edge{}, false},
		{"stray quote", `process: "result`, Edge{}, false},
		{"empty", "", Edge{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseTarget("a", tc.spec)
			if tc.ok != (err == nil) {
				t.Fatalf("parseTarget(%q) error = %v, ok = %v", tc.spec, err, tc.ok)
			}
			if tc.ok && got != tc.want {
				t.Errorf("parseTarget(%q) = %+v, want %+v", tc.spec, got, tc.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	got, err := parseLine(`start -> check [ready]: "x"`)
	if err != nil {
		t.Fatalf("parseLine failed: %v", err)
	}
	want := Edge{Source: "start", Target: "check", Condition: "ready", Variable: "x"}
	if got != want {
		t.Errorf("parseLine = %+v, want %+v", got, want)
	}

	if _, err := parseLine("no arrow here"); err == nil {
		t.Error("line without -> must fail")
	}
}

func TestNegation(t *testing.T) {
	cases := []struct {
		cond     string
		negated  bool
		positive string
	}{
		{"ready", false, "ready"},
		{"not ready", true, "ready"},
		{"Not Ready", true, "Ready"},
		{"!ready", true, "ready"},
		{"notready", false, "notready"},
	}
	for _, tc := range cases {
		if got := negated(tc.cond); got != tc.negated {
			t.Errorf("negated(%q) = %v, want %v", tc.cond, got, tc.negated)
		}
		if got := positive(tc.cond); got != tc.positive {
			t.Errorf("positive(%q) = %q, want %q", tc.cond, got, tc.positive)
		}
	}
}
