package convert

import (
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/diaflow/diaflow/pkg/diagram"
	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Light is the compact YAML format. Entities are addressed by human-readable
// labels instead of generated identifiers, default handles are elided, and
// agents are keyed by label. Importing mints fresh identifiers, so the
// round-trip guarantee is structural equivalence, not identifier equality.
type Light struct{}

func (Light) Name() string      { return "light" }
func (Light) Extension() string { return ".light.yaml" }

type lightDoc struct {
	Version     string      `yaml:"version,omitempty"`
	Name        string      `yaml:"name,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Nodes       []lightNode `yaml:"nodes"`
	Connections []lightConn `yaml:"connections,omitempty"`
	Persons     yaml.Node   `yaml:"persons,omitempty"`
	APIKeys     yaml.Node   `yaml:"api_keys,omitempty"`
}

type lightNode struct {
	Label    string       `yaml:"label"`
	Type     string       `yaml:"type"`
	Position diagram.Vec2 `yaml:"position"`
	Props    yaml.Node    `yaml:"props,omitempty"`
	// Handles is only present when the node's port set differs from the
	// kind's structural default.
	Handles []lightHandle `yaml:"handles,omitempty"`
}

type lightHandle struct {
	Name           string `yaml:"name"`
	Direction      string `yaml:"direction"`
	DataType       string `yaml:"data_type,omitempty"`
	Position       string `yaml:"position,omitempty"`
	MaxConnections int    `yaml:"max_connections,omitempty"`
}

type lightConn struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Label       string `yaml:"label,omitempty"`
	ContentType string `yaml:"content_type,omitempty"`
}

type lightPerson struct {
	Service      string   `yaml:"service"`
	Model        string   `yaml:"model"`
	SystemPrompt string   `yaml:"system_prompt,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
	APIKey       string   `yaml:"api_key,omitempty"`
}

type lightAPIKey struct {
	Service string `yaml:"service"`
}

// Serialize renders the diagram in compact label form. Labels are made
// unique per namespace first, so every later reference is unambiguous.
func (Light) Serialize(d *diagram.Diagram) (string, error) {
	reg := newLabelRegistry()
	for _, n := range d.Nodes {
		reg.assign(nsNode, n.ID, n.DisplayLabel())
	}
	for _, p := range d.Persons {
		reg.assign(nsPerson, p.ID, displayOr(p.Label, p.ID))
	}
	for _, k := range d.APIKeys {
		reg.assign(nsAPIKey, k.ID, displayOr(k.Label, k.ID))
	}

	doc := lightDoc{Version: "light"}
	if d.Meta != nil {
		doc.Name = d.Meta.Name
		doc.Description = d.Meta.Description
	}

	for _, n := range d.Nodes {
		label, _ := reg.labelOf(nsNode, n.ID)
		pos := diagram.Vec2{X: math.Round(n.Position.X), Y: math.Round(n.Position.Y)}
		ln := lightNode{Label: label, Type: string(n.Kind), Position: pos}
		if props := lightProps(n.Data, reg); props != nil {
			node := &yaml.Node{}
			if err := node.Encode(props); err != nil {
				return "", dferr.Wrap(dferr.CodeInternal, err, "encode props of node %s", n.ID)
			}
			ln.Props = *node
		}
		if !diagram.HasDefaultHandles(d, n.ID, n.Kind) {
			for _, h := range d.HandlesOf(n.ID) {
				ln.Handles = append(ln.Handles, lightHandle{
					Name:           h.Name,
					Direction:      string(h.Direction),
					DataType:       h.DataType,
					Position:       string(h.Position),
					MaxConnections: h.MaxConnections,
				})
			}
		}
		doc.Nodes = append(doc.Nodes, ln)
	}

	for _, a := range d.Arrows {
		from, ok := lightEndpoint(d, a.Source, reg)
		if !ok {
			continue
		}
		to, ok := lightEndpoint(d, a.Target, reg)
		if !ok {
			continue
		}
		doc.Connections = append(doc.Connections, lightConn{
			From:        from,
			To:          to,
			Label:       a.Label,
			ContentType: a.ContentType,
		})
	}

	if len(d.Persons) > 0 {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range d.Persons {
			label, _ := reg.labelOf(nsPerson, p.ID)
			lp := lightPerson{
				Service:      p.Service,
				Model:        p.Model,
				SystemPrompt: p.SystemPrompt,
				Temperature:  p.Temperature,
			}
			if p.APIKeyID != "" {
				if keyLabel, ok := reg.labelOf(nsAPIKey, p.APIKeyID); ok {
					lp.APIKey = keyLabel
				}
			}
			if err := appendMapEntry(m, label, lp); err != nil {
				return "", dferr.Wrap(dferr.CodeInternal, err, "encode person %s", p.ID)
			}
		}
		doc.Persons = *m
	}

	if len(d.APIKeys) > 0 {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range d.APIKeys {
			label, _ := reg.labelOf(nsAPIKey, k.ID)
			if err := appendMapEntry(m, label, lightAPIKey{Service: k.Service}); err != nil {
				return "", dferr.Wrap(dferr.CodeInternal, err, "encode api key %s", k.ID)
			}
		}
		doc.APIKeys = *m
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", dferr.Wrap(dferr.CodeInternal, err, "encode diagram")
	}
	return string(out), nil
}

// Deserialize parses compact YAML, minting fresh identifiers for every
// entity. Label references that resolve to nothing become warnings and the
// referencing element is dropped.
func (Light) Deserialize(text string, ids diagram.IDSource) (*diagram.Diagram, []Warning, error) {
	var doc lightDoc
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, nil, dferr.Wrap(dferr.CodeCatastrophicParse, err, "not a light diagram document")
	}

	var warnings []Warning
	var meta *diagram.Metadata
	if doc.Name != "" || doc.Description != "" {
		meta = &diagram.Metadata{Name: doc.Name, Description: doc.Description}
	}
	d := diagram.New(meta)
	reg := newLabelRegistry()

	// api_keys before persons, persons before nodes: each section may be
	// referenced by the next one.
	if doc.APIKeys.Kind != 0 {
		if err := eachMapEntry(&doc.APIKeys, func(label string, val *yaml.Node) error {
			var lk lightAPIKey
			if err := val.Decode(&lk); err != nil {
				return dferr.Wrap(dferr.CodeCatastrophicParse, err, "api key %q", label)
			}
			id := ids(diagram.PrefixAPIKey)
			reg.assign(nsAPIKey, id, label)
			d.APIKeys = append(d.APIKeys, diagram.APIKey{ID: id, Label: label, Service: lk.Service})
			return nil
		}); err != nil {
			return nil, nil, err
		}
	}

	if doc.Persons.Kind != 0 {
		if err := eachMapEntry(&doc.Persons, func(label string, val *yaml.Node) error {
			var lp lightPerson
			if err := val.Decode(&lp); err != nil {
				return dferr.Wrap(dferr.CodeCatastrophicParse, err, "person %q", label)
			}
			id := ids(diagram.PrefixPerson)
			reg.assign(nsPerson, id, label)
			p := diagram.Person{
				ID:           id,
				Label:        label,
				Service:      lp.Service,
				Model:        lp.Model,
				SystemPrompt: lp.SystemPrompt,
				Temperature:  lp.Temperature,
			}
			if lp.APIKey != "" {
				if keyID, ok := reg.idOf(nsAPIKey, lp.APIKey); ok {
					p.APIKeyID = keyID
				} else {
					warnings = append(warnings, Warning{
						Code:    dferr.CodeUnresolvedReference,
						Message: "person " + label + " references unknown api key " + lp.APIKey,
					})
				}
			}
			d.Persons = append(d.Persons, p)
			return nil
		}); err != nil {
			return nil, nil, err
		}
	}

	for _, ln := range doc.Nodes {
		kind := diagram.Kind(ln.Type)
		if !kind.Valid() {
			warnings = append(warnings, Warning{
				Code:    dferr.CodeUnresolvedReference,
				Message: "node " + ln.Label + " has unknown type " + ln.Type,
			})
			continue
		}
		id := ids(diagram.PrefixNode)
		label := reg.assign(nsNode, id, ln.Label)
		n := diagram.Node{ID: id, Kind: kind, Label: label, Position: ln.Position}
		if ln.Props.Kind != 0 {
			data := diagram.EmptyData(kind)
			if err := ln.Props.Decode(data); err != nil {
				return nil, nil, dferr.Wrap(dferr.CodeCatastrophicParse, err, "props of node %q", ln.Label)
			}
			if pj, ok := data.(*diagram.PersonJobData); ok && pj.PersonID != "" {
				if pid, found := reg.idOf(nsPerson, pj.PersonID); found {
					pj.PersonID = pid
				} else {
					warnings = append(warnings, Warning{
						Code:    dferr.CodeUnresolvedReference,
						Message: "node " + label + " references unknown person " + pj.PersonID,
					})
					pj.PersonID = ""
				}
			}
			n.Data = data
		}
		if err := d.AddNode(n); err != nil {
			return nil, nil, dferr.Wrap(dferr.CodeInvalidDiagram, err, "node %q", label)
		}
		if len(ln.Handles) > 0 {
			for _, lh := range ln.Handles {
				h := diagram.Handle{
					NodeID:         id,
					Name:           lh.Name,
					Direction:      diagram.Direction(lh.Direction),
					DataType:       lh.DataType,
					Position:       diagram.Side(lh.Position),
					MaxConnections: lh.MaxConnections,
				}
				if err := d.AddHandle(h); err != nil {
					warnings = append(warnings, Warning{
						Code:    dferr.CodeInvalidDiagram,
						Message: "handle " + lh.Name + " of node " + label + ": " + err.Error(),
					})
				}
			}
		} else {
			for _, h := range diagram.DefaultHandles(kind, id) {
				if err := d.AddHandle(h); err != nil {
					return nil, nil, dferr.Wrap(dferr.CodeInternal, err, "default handles of %q", label)
				}
			}
		}
	}

	for _, c := range doc.Connections {
		src, ok := resolveEndpoint(d, reg, c.From, diagram.DirOut, &warnings)
		if !ok {
			continue
		}
		dst, ok := resolveEndpoint(d, reg, c.To, diagram.DirIn, &warnings)
		if !ok {
			continue
		}
		a := diagram.Arrow{
			ID:          ids(diagram.PrefixArrow),
			Source:      src,
			Target:      dst,
			Label:       c.Label,
			ContentType: c.ContentType,
		}
		switch handleName(src) {
		case diagram.HandleCondTrue:
			a.Branch = "true"
		case diagram.HandleCondFalse:
			a.Branch = "false"
		}
		if err := d.AddArrow(a); err != nil {
			warnings = append(warnings, Warning{
				Code:    dferr.CodeUnresolvedReference,
				Message: "connection " + c.From + " -> " + c.To + ": " + err.Error(),
			})
		}
	}

	return d, warnings, nil
}

// lightProps rewrites node data for compact export: person references become
// labels, and zero-valued data is elided entirely.
func lightProps(data diagram.NodeData, reg *labelRegistry) diagram.NodeData {
	if data == nil || dataIsZero(data) {
		return nil
	}
	if pj, ok := data.(*diagram.PersonJobData); ok && pj.PersonID != "" {
		cp := *pj
		if label, found := reg.labelOf(nsPerson, pj.PersonID); found {
			cp.PersonID = label
		}
		return &cp
	}
	return data
}

func dataIsZero(data diagram.NodeData) bool {
	switch v := data.(type) {
	case *diagram.StartData:
		return *v == diagram.StartData{}
	case *diagram.PersonJobData:
		return *v == diagram.PersonJobData{}
	case *diagram.ConditionData:
		return *v == diagram.ConditionData{}
	case *diagram.DBData:
		return *v == diagram.DBData{}
	case *diagram.JobData:
		return *v == diagram.JobData{}
	case *diagram.EndpointData:
		return *v == diagram.EndpointData{}
	}
	return false
}

// lightEndpoint renders a handle reference as "Label" for the kind's default
// handle on that side, or "Label[name]" otherwise.
func lightEndpoint(d *diagram.Diagram, id diagram.HandleID, reg *labelRegistry) (string, bool) {
	nodeID, name, dir, err := diagram.ParseHandleID(id)
	if err != nil {
		return "", false
	}
	label, ok := reg.labelOf(nsNode, nodeID)
	if !ok {
		return "", false
	}
	if isDefaultEndpoint(d, nodeID, name, dir) {
		return label, true
	}
	return label + "[" + name + "]", true
}

// isDefaultEndpoint reports whether (name, dir) is the handle the bare label
// implies for the node's kind. Condition nodes have no default output, so
// their branch handles always need brackets.
func isDefaultEndpoint(d *diagram.Diagram, nodeID, name string, dir diagram.Direction) bool {
	n := d.NodeByID(nodeID)
	if n == nil {
		return name == diagram.HandleDefault
	}
	if dir == diagram.DirIn {
		return name == diagram.HandleDefault
	}
	if n.Kind == diagram.KindCondition {
		return false
	}
	return name == diagram.HandleDefault
}

// resolveEndpoint turns a connection reference back into a handle ID.
// Supported shapes are "Label", "Label[handle]" and the legacy
// "Label_handle" suffix form for the well-known handle names. Handles named
// by brackets are created on the node if absent.
func resolveEndpoint(d *diagram.Diagram, reg *labelRegistry, ref string, dir diagram.Direction, warnings *[]Warning) (diagram.HandleID, bool) {
	label, name := splitEndpointRef(ref)

	nodeID, ok := reg.idOf(nsNode, label)
	if !ok {
		*warnings = append(*warnings, Warning{
			Code:    dferr.CodeUnresolvedReference,
			Message: "connection references unknown node " + label,
		})
		return "", false
	}
	n := d.NodeByID(nodeID)

	if name == "" {
		name = diagram.HandleDefault
		// A bare condition label on the source side means the true branch.
		if dir == diagram.DirOut && n != nil && n.Kind == diagram.KindCondition {
			name = diagram.HandleCondTrue
		}
	}

	id := diagram.MakeHandleID(nodeID, name, dir)
	if d.HandleByID(id) == nil {
		h := diagram.Handle{
			NodeID:    nodeID,
			Name:      name,
			Direction: dir,
			DataType:  diagram.DataAny,
		}
		if dir == diagram.DirIn {
			h.Position = diagram.SideLeft
		} else {
			h.Position = diagram.SideRight
		}
		if err := d.AddHandle(h); err != nil {
			*warnings = append(*warnings, Warning{
				Code:    dferr.CodeUnresolvedReference,
				Message: "connection endpoint " + ref + ": " + err.Error(),
			})
			return "", false
		}
	}
	return id, true
}

// splitEndpointRef separates an endpoint reference into node label and
// explicit handle name, if any.
func splitEndpointRef(ref string) (label, handle string) {
	ref = strings.TrimSpace(ref)
	if strings.HasSuffix(ref, "]") {
		if i := strings.LastIndex(ref, "["); i > 0 {
			return strings.TrimSpace(ref[:i]), strings.TrimSpace(ref[i+1 : len(ref)-1])
		}
	}
	for _, known := range []string{diagram.HandleFirst, diagram.HandleCondTrue, diagram.HandleCondFalse} {
		if strings.HasSuffix(ref, "_"+known) {
			return ref[:len(ref)-len(known)-1], known
		}
	}
	return ref, ""
}

func handleName(id diagram.HandleID) string {
	_, name, _, err := diagram.ParseHandleID(id)
	if err != nil {
		return ""
	}
	return name
}

func displayOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

// appendMapEntry adds one key/value pair to a YAML mapping node, preserving
// insertion order in the output document.
func appendMapEntry(m *yaml.Node, key string, val any) error {
	k := &yaml.Node{}
	k.SetString(key)
	v := &yaml.Node{}
	if err := v.Encode(val); err != nil {
		return err
	}
	m.Content = append(m.Content, k, v)
	return nil
}

// eachMapEntry iterates a YAML mapping node in document order.
func eachMapEntry(m *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	if m.Kind != yaml.MappingNode {
		return dferr.New(dferr.CodeCatastrophicParse, "expected a YAML mapping, got %v", m.Kind)
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if err := fn(m.Content[i].Value, m.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
