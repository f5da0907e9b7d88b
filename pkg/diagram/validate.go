package diagram

import (
	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Validate checks the structural invariants of a complete diagram and
// returns every violation found as a coded error. A nil result means the
// diagram is well formed.
//
// Checked, in order: node ID uniqueness and finite positions, handle
// ownership and the (node, name, direction) uniqueness rule, arrow endpoint
// resolution and connectability, person references from node data, and api
// key references from persons.
func (d *Diagram) Validate() []error {
	var errs []error

	seenNodes := map[string]bool{}
	for _, n := range d.Nodes {
		if n.ID == "" {
			errs = append(errs, dferr.New(dferr.CodeInvalidDiagram, "node with empty ID"))
			continue
		}
		if seenNodes[n.ID] {
			errs = append(errs, dferr.New(dferr.CodeInvalidDiagram, "duplicate node ID %q", n.ID))
		}
		seenNodes[n.ID] = true
		if !n.Kind.Valid() {
			errs = append(errs, dferr.New(dferr.CodeInvalidDiagram, "node %q has unknown kind %q", n.ID, n.Kind))
		}
		if !isFinite(n.Position.X) || !isFinite(n.Position.Y) {
			errs = append(errs, dferr.New(dferr.CodeInvalidDiagram, "node %q has a non-finite position", n.ID))
		}
	}

	seenHandles := map[HandleID]bool{}
	for _, h := range d.Handles {
		if !seenNodes[h.NodeID] {
			errs = append(errs, dferr.New(dferr.CodeUnresolvedReference,
				"handle %q belongs to unknown node %q", h.ID, h.NodeID))
		}
		if h.ID != MakeHandleID(h.NodeID, h.Name, h.Direction) {
			errs = append(errs, dferr.New(dferr.CodeMalformedHandle,
				"handle %q does not match its (node, name, direction) triple", h.ID))
		}
		if seenHandles[h.ID] {
			errs = append(errs, dferr.New(dferr.CodeInvalidDiagram, "duplicate handle %q", h.ID))
		}
		seenHandles[h.ID] = true
	}

	for _, a := range d.Arrows {
		src := d.HandleByID(a.Source)
		dst := d.HandleByID(a.Target)
		if src == nil || dst == nil {
			errs = append(errs, dferr.New(dferr.CodeUnresolvedReference,
				"arrow %q has an endpoint that resolves to no handle", a.ID))
			continue
		}
		// InboundCount includes this arrow; subtract it so an existing
		// in-bound arrow does not trip its own limit.
		if ok, reason := ExplainConnectable(*src, *dst, d.InboundCount(a.Target)-1); !ok {
			errs = append(errs, dferr.New(dferr.CodeInvalidDiagram, "arrow %q: %s", a.ID, reason))
		}
	}

	persons := map[string]bool{}
	for _, p := range d.Persons {
		persons[p.ID] = true
	}
	keys := map[string]bool{}
	for _, k := range d.APIKeys {
		keys[k.ID] = true
	}

	for _, n := range d.Nodes {
		if data, ok := n.Data.(*PersonJobData); ok && data.PersonID != "" && !persons[data.PersonID] {
			errs = append(errs, dferr.New(dferr.CodeUnresolvedReference,
				"node %q references unknown person %q", n.ID, data.PersonID))
		}
	}
	for _, p := range d.Persons {
		if p.APIKeyID != "" && !keys[p.APIKeyID] {
			errs = append(errs, dferr.New(dferr.CodeUnresolvedReference,
				"person %q references unknown api key %q", p.ID, p.APIKeyID))
		}
	}

	return errs
}
