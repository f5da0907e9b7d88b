package diagram

import (
	"testing"

	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// validFixture builds a two-node diagram that passes validation.
func validFixture(t *testing.T) *Diagram {
	t.Helper()
	d := New(nil)
	for _, spec := range []struct {
		id   string
		kind Kind
	}{{"node_0", KindStart}, {"node_1", KindPersonJob}} {
		if err := d.AddNode(buildNode(spec.id, spec.kind)); err != nil {
			t.Fatal(err)
		}
		for _, h := range DefaultHandles(spec.kind, spec.id) {
			if err := d.AddHandle(h); err != nil {
				t.Fatal(err)
			}
		}
	}
	err := d.AddArrow(Arrow{
		ID:     "arrow_0",
		Source: MakeHandleID("node_0", HandleDefault, DirOut),
		Target: MakeHandleID("node_1", HandleDefault, DirIn),
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestValidate_WellFormed(t *testing.T) {
	d := validFixture(t)
	if errs := d.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_Violations(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(d *Diagram)
		wantCode dferr.Code
	}{
		{
			"duplicate node ID",
			func(d *Diagram) { d.Nodes = append(d.Nodes, buildNode("node_0", KindStart)) },
			dferr.CodeInvalidDiagram,
		},
		{
			"dangling arrow endpoint",
			func(d *Diagram) {
				d.Arrows = append(d.Arrows, Arrow{
					ID:     "arrow_1",
					Source: MakeHandleID("node_0", HandleDefault, DirOut),
					Target: MakeHandleID("ghost", HandleDefault, DirIn),
				})
			},
			dferr.CodeUnresolvedReference,
		},
		{
			"reversed arrow",
			func(d *Diagram) {
				d.Arrows[0].Source, d.Arrows[0].Target = d.Arrows[0].Target, d.Arrows[0].Source
			},
			dferr.CodeInvalidDiagram,
		},
		{
			"dangling person reference",
			func(d *Diagram) {
				d.Nodes[1].Data = &PersonJobData{PersonID: "person_ghost"}
			},
			dferr.CodeUnresolvedReference,
		},
		{
			"dangling api key reference",
			func(d *Diagram) {
				d.Persons = append(d.Persons, Person{ID: "person_0", Label: "P", APIKeyID: "apikey_ghost"})
			},
			dferr.CodeUnresolvedReference,
		},
		{
			"handle of unknown node",
			func(d *Diagram) {
				d.Handles = append(d.Handles, Handle{
					ID:        MakeHandleID("ghost", "default", DirIn),
					NodeID:    "ghost",
					Name:      "default",
					Direction: DirIn,
				})
			},
			dferr.CodeUnresolvedReference,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validFixture(t)
			tc.mutate(d)
			errs := d.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if dferr.Is(e, tc.wantCode) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error with code %s in %v", tc.wantCode, errs)
			}
		})
	}
}
