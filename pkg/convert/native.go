package convert

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/diaflow/diaflow/pkg/diagram"
	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Native is the full-fidelity JSON format. It is the only format for which
// deserialize(serialize(d)) reproduces d exactly, identifiers included,
// modulo the documented rounding of positions (one decimal place) and arrow
// curvature offsets (sixteenths).
type Native struct{}

func (Native) Name() string      { return "native" }
func (Native) Extension() string { return ".json" }

type nativeDoc struct {
	Nodes    []nativeNode      `json:"nodes"`
	Handles  []diagram.Handle  `json:"handles"`
	Arrows   []diagram.Arrow   `json:"arrows"`
	Persons  []diagram.Person  `json:"persons,omitempty"`
	APIKeys  []diagram.APIKey  `json:"api_keys,omitempty"`
	Metadata *diagram.Metadata `json:"metadata,omitempty"`
}

type nativeNode struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	Label    string          `json:"label,omitempty"`
	Position diagram.Vec2    `json:"position"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Serialize renders the diagram as indented JSON with stable field order.
func (Native) Serialize(d *diagram.Diagram) (string, error) {
	doc := nativeDoc{
		Nodes:    make([]nativeNode, 0, len(d.Nodes)),
		Handles:  append([]diagram.Handle(nil), d.Handles...),
		Arrows:   make([]diagram.Arrow, 0, len(d.Arrows)),
		Persons:  d.Persons,
		APIKeys:  d.APIKeys,
		Metadata: d.Meta,
	}

	for _, n := range d.Nodes {
		nn := nativeNode{
			ID:   n.ID,
			Kind: string(n.Kind),
			Label: n.Label,
			Position: diagram.Vec2{
				X: roundTo(n.Position.X, 10),
				Y: roundTo(n.Position.Y, 10),
			},
		}
		if n.Data != nil {
			raw, err := json.Marshal(n.Data)
			if err != nil {
				return "", dferr.Wrap(dferr.CodeInternal, err, "encode node %s data", n.ID)
			}
			nn.Data = raw
		}
		doc.Nodes = append(doc.Nodes, nn)
	}

	for _, a := range d.Arrows {
		if a.Offset != nil {
			off := diagram.Vec2{X: roundTo(a.Offset.X, 16), Y: roundTo(a.Offset.Y, 16)}
			a.Offset = &off
		}
		doc.Arrows = append(doc.Arrows, a)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", dferr.Wrap(dferr.CodeInternal, err, "encode diagram")
	}
	return buf.String(), nil
}

// Deserialize parses full-fidelity JSON. A malformed top-level document is a
// hard CATASTROPHIC_PARSE error: silently returning a near-empty diagram for
// a structured format would destroy data. Per-arrow problems (malformed
// handle IDs, dangling endpoints) are recoverable warnings.
func (Native) Deserialize(text string, _ diagram.IDSource) (*diagram.Diagram, []Warning, error) {
	var doc nativeDoc
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, dferr.Wrap(dferr.CodeCatastrophicParse, err, "not a native diagram document")
	}

	var warnings []Warning
	d := diagram.New(doc.Metadata)

	for _, nn := range doc.Nodes {
		kind := diagram.Kind(nn.Kind)
		if !kind.Valid() {
			warnings = append(warnings, Warning{
				Code:    dferr.CodeUnresolvedReference,
				Message: "node " + nn.ID + " has unknown kind " + nn.Kind,
			})
			continue
		}
		n := diagram.Node{ID: nn.ID, Kind: kind, Label: nn.Label, Position: nn.Position}
		if len(nn.Data) > 0 {
			data := diagram.EmptyData(kind)
			if err := json.Unmarshal(nn.Data, data); err != nil {
				return nil, nil, dferr.Wrap(dferr.CodeCatastrophicParse, err, "node %s data", nn.ID)
			}
			n.Data = data
		}
		if err := d.AddNode(n); err != nil {
			return nil, nil, dferr.Wrap(dferr.CodeInvalidDiagram, err, "node %s", nn.ID)
		}
	}

	for _, h := range doc.Handles {
		if err := d.AddHandle(h); err != nil {
			warnings = append(warnings, Warning{
				Code:    dferr.CodeUnresolvedReference,
				Message: "handle " + string(h.ID) + ": " + err.Error(),
			})
		}
	}

	for _, a := range doc.Arrows {
		if _, _, _, err := diagram.ParseHandleID(a.Source); err != nil {
			warnings = append(warnings, warningFor(err))
			continue
		}
		if _, _, _, err := diagram.ParseHandleID(a.Target); err != nil {
			warnings = append(warnings, warningFor(err))
			continue
		}
		if err := d.AddArrow(a); err != nil {
			warnings = append(warnings, Warning{
				Code:    dferr.CodeUnresolvedReference,
				Message: "arrow " + a.ID + ": " + err.Error(),
			})
		}
	}

	d.Persons = doc.Persons
	d.APIKeys = doc.APIKeys
	return d, warnings, nil
}

func warningFor(err error) Warning {
	code := dferr.GetCode(err)
	if code == "" {
		code = dferr.CodeInternal
	}
	return Warning{Code: code, Message: dferr.UserMessage(err)}
}

// roundTo rounds f to the nearest 1/denom.
func roundTo(f float64, denom float64) float64 {
	return math.Round(f*denom) / denom
}
