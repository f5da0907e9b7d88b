package convert

import (
	"strings"
	"testing"

	"github.com/diaflow/diaflow/pkg/diagram"
)

func TestLight_StructuralRoundTrip(t *testing.T) {
	d := fixture(t)

	text, err := Light{}.Serialize(d)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	got, warnings, err := Light{}.Deserialize(text, diagram.SequentialSource())
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	// Same structure under fresh identifiers.
	if len(got.Nodes) != len(d.Nodes) {
		t.Fatalf("got %d nodes, want %d", len(got.Nodes), len(d.Nodes))
	}
	byLabel := map[string]*diagram.Node{}
	for i := range got.Nodes {
		byLabel[got.Nodes[i].Label] = &got.Nodes[i]
	}
	for _, orig := range d.Nodes {
		n, ok := byLabel[orig.Label]
		if !ok {
			t.Fatalf("node %q missing after round trip", orig.Label)
		}
		if n.Kind != orig.Kind {
			t.Errorf("node %q kind = %s, want %s", orig.Label, n.Kind, orig.Kind)
		}
		if n.ID == orig.ID {
			t.Errorf("node %q kept its identifier %q across the label format", orig.Label, n.ID)
		}
	}

	if len(got.Arrows) != len(d.Arrows) {
		t.Fatalf("got %d arrows, want %d", len(got.Arrows), len(d.Arrows))
	}

	// The branch arrow still leaves the condtrue handle and carries branch data.
	check := byLabel["Check"]
	found := false
	for _, a := range got.Arrows {
		if a.Source == diagram.MakeHandleID(check.ID, diagram.HandleCondTrue, diagram.DirOut) {
			found = true
			if a.Branch != "true" {
				t.Errorf("branch = %q, want true", a.Branch)
			}
		}
	}
	if !found {
		t.Error("condtrue arrow missing after round trip")
	}

	// The person reference was rewritten to a label and resolved back.
	if len(got.Persons) != 1 {
		t.Fatalf("got %d persons, want 1", len(got.Persons))
	}
	ask := byLabel["Ask"]
	data, ok := ask.Data.(*diagram.PersonJobData)
	if !ok {
		t.Fatal("Ask lost its data record")
	}
	if data.PersonID != got.Persons[0].ID {
		t.Errorf("person reference %q does not resolve to %q", data.PersonID, got.Persons[0].ID)
	}
	if data.MaxIterations != 2 {
		t.Errorf("max_iterations = %d, want 2", data.MaxIterations)
	}
	if got.Persons[0].APIKeyID != got.APIKeys[0].ID {
		t.Errorf("api key reference %q does not resolve", got.Persons[0].APIKeyID)
	}
}

func TestLight_ExportShape(t *testing.T) {
	d := fixture(t)

	text, err := Light{}.Serialize(d)
	if err != nil {
		t.Fatal(err)
	}

	// Labels instead of identifiers, brackets for non-default handles.
	if strings.Contains(text, "node_0") {
		t.Error("export leaked a node identifier")
	}
	if !strings.Contains(text, "Check[condtrue]") {
		t.Error("branch handle not exported in bracket form")
	}
	// Default handle sets and empty data records are elided.
	if strings.Contains(text, "handles:") {
		t.Error("default handle sets should be elided")
	}
	if !strings.Contains(text, "person: Assistant") {
		t.Error("person reference not rewritten to its label")
	}
}

func TestLight_NonDefaultHandlesSurvive(t *testing.T) {
	d := diagram.New(nil)
	if err := d.AddNode(diagram.Node{ID: "node_0", Kind: diagram.KindJob, Label: "Work"}); err != nil {
		t.Fatal(err)
	}
	for _, h := range diagram.DefaultHandles(diagram.KindJob, "node_0") {
		if err := d.AddHandle(h); err != nil {
			t.Fatal(err)
		}
	}
	extra := diagram.Handle{
		NodeID: "node_0", Name: "errors", Direction: diagram.DirOut,
		DataType: diagram.DataString, Position: diagram.SideBottom,
	}
	if err := d.AddHandle(extra); err != nil {
		t.Fatal(err)
	}

	text, err := Light{}.Serialize(d)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "handles:") {
		t.Fatal("non-default handle set must be emitted")
	}

	got, _, err := Light{}.Deserialize(text, diagram.SequentialSource())
	if err != nil {
		t.Fatal(err)
	}
	id := got.Nodes[0].ID
	if got.HandleByID(diagram.MakeHandleID(id, "errors", diagram.DirOut)) == nil {
		t.Error("custom handle lost on import")
	}
	if got.HandleByID(diagram.MakeHandleID(id, diagram.HandleDefault, diagram.DirIn)) == nil {
		t.Error("default input lost when handles are explicit")
	}
}

func TestLight_CatastrophicParse(t *testing.T) {
	_, _, err := Light{}.Deserialize("{ unclosed flow mapping", diagram.SequentialSource())
	if err == nil {
		t.Fatal("expected a hard error for a malformed document")
	}
}

func TestLight_UnderscoreHandleSuffix(t *testing.T) {
	text := `
nodes:
  - label: Check
    type: condition
    position: {x: 0, y: 0}
  - label: Done
    type: endpoint
    position: {x: 250, y: 0}
connections:
  - from: Check_condfalse
    to: Done
`
	got, warnings, err := Light{}.Deserialize(text, diagram.SequentialSource())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(got.Arrows) != 1 {
		t.Fatalf("got %d arrows, want 1", len(got.Arrows))
	}
	if got.Arrows[0].Branch != "false" {
		t.Errorf("branch = %q, want false", got.Arrows[0].Branch)
	}
}
