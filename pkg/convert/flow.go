package convert

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/diaflow/diaflow/pkg/assemble"
	"github.com/diaflow/diaflow/pkg/diagram"
	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Flow is the natural-language flow format: a flow section naming edges plus
// optional prompts, agents and data sections. It is the lossiest format by
// design: node kinds are inferred on import, never stored, and import never
// fails outright. A document the YAML parser cannot read at all degrades to
// a one-node error diagram instead of an error.
type Flow struct{}

func (Flow) Name() string      { return "flow" }
func (Flow) Extension() string { return ".flow.yaml" }

type flowDoc struct {
	Name    string                    `yaml:"name,omitempty"`
	Flow    yaml.Node                 `yaml:"flow"`
	Prompts map[string]string         `yaml:"prompts,omitempty"`
	Agents  map[string]assemble.Agent `yaml:"agents,omitempty"`
	Data    map[string]string         `yaml:"data,omitempty"`
}

// Serialize renders the diagram as flow grammar, collapsing multiple edges
// from one source into a single map entry.
func (Flow) Serialize(d *diagram.Diagram) (string, error) {
	reg := newLabelRegistry()
	for _, n := range d.Nodes {
		reg.assign(nsNode, n.ID, n.DisplayLabel())
	}

	// Collapse arrows into source -> target specs, keeping node order.
	targets := map[string][]string{}
	var order []string
	for _, a := range d.Arrows {
		srcNode := diagram.NodeOfHandle(a.Source)
		dstNode := diagram.NodeOfHandle(a.Target)
		srcLabel, okS := reg.labelOf(nsNode, srcNode)
		dstLabel, okD := reg.labelOf(nsNode, dstNode)
		if !okS || !okD {
			continue
		}
		if _, seen := targets[srcLabel]; !seen {
			order = append(order, srcLabel)
		}
		targets[srcLabel] = append(targets[srcLabel], flowTargetSpec(d, a, srcNode, dstLabel))
	}

	flowMap := &yaml.Node{Kind: yaml.MappingNode}
	for _, src := range order {
		specs := targets[src]
		var val any = specs
		if len(specs) == 1 {
			val = specs[0]
		}
		if err := appendMapEntry(flowMap, src, val); err != nil {
			return "", dferr.Wrap(dferr.CodeInternal, err, "encode flow entry %q", src)
		}
	}

	doc := flowDoc{Flow: *flowMap}
	if d.Meta != nil {
		doc.Name = d.Meta.Name
	}

	for _, n := range d.Nodes {
		label, _ := reg.labelOf(nsNode, n.ID)
		switch data := n.Data.(type) {
		case *diagram.PersonJobData:
			if data.Prompt != "" {
				if doc.Prompts == nil {
					doc.Prompts = map[string]string{}
				}
				doc.Prompts[label] = data.Prompt
			}
		case *diagram.DBData:
			if data.Source != "" {
				if doc.Data == nil {
					doc.Data = map[string]string{}
				}
				doc.Data[label] = data.Source
			}
		}
	}

	for _, p := range d.Persons {
		if p.Label == assemble.DefaultPersonLabel {
			continue
		}
		if doc.Agents == nil {
			doc.Agents = map[string]assemble.Agent{}
		}
		doc.Agents[p.Label] = assemble.Agent{
			Model:        p.Model,
			Service:      p.Service,
			SystemPrompt: p.SystemPrompt,
			Temperature:  p.Temperature,
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", dferr.Wrap(dferr.CodeInternal, err, "encode diagram")
	}
	return string(out), nil
}

// Deserialize parses the flow document and delegates graph reconstruction to
// the assembler. It returns a nil error in every case; a document that is
// not YAML at all yields the degraded error diagram with the cause attached
// as a warning.
func (Flow) Deserialize(text string, ids diagram.IDSource) (*diagram.Diagram, []Warning, error) {
	var doc flowDoc
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		wrapped := dferr.Wrap(dferr.CodeCatastrophicParse, err, "not a flow document")
		return assemble.ErrorDiagram(wrapped, ids), warningsFromErrors([]error{wrapped}), nil
	}

	in := assemble.Input{
		Name:    doc.Name,
		Prompts: doc.Prompts,
		Agents:  doc.Agents,
		Data:    doc.Data,
	}

	if doc.Flow.Kind != 0 {
		var errs []error
		in.FlowMap, in.FlowList, errs = decodeFlowSection(&doc.Flow)
		if len(errs) > 0 {
			d, more := assemble.Assemble(in, ids)
			return d, warningsFromErrors(append(errs, more...)), nil
		}
	}

	d, errs := assemble.Assemble(in, ids)
	return d, warningsFromErrors(errs), nil
}

// decodeFlowSection reads the flow node in either surface syntax. The
// mapping form is walked through yaml.Node content so source order survives;
// a plain map would shuffle it.
func decodeFlowSection(n *yaml.Node) (flowMap []assemble.FlowEntry, flowList []string, errs []error) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			src := n.Content[i].Value
			val := n.Content[i+1]
			specs, err := decodeTargetSpecs(val)
			if err != nil {
				errs = append(errs, dferr.Wrap(dferr.CodeGrammarParse, err, "flow entry %q", src))
				continue
			}
			flowMap = append(flowMap, assemble.FlowEntry{Source: src, Targets: specs})
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				errs = append(errs, dferr.New(dferr.CodeGrammarParse, "flow list entries must be strings"))
				continue
			}
			flowList = append(flowList, item.Value)
		}
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil, nil, nil
		}
		errs = append(errs, dferr.New(dferr.CodeGrammarParse, "flow section must be a mapping or a list"))
	default:
		errs = append(errs, dferr.New(dferr.CodeGrammarParse, "flow section must be a mapping or a list"))
	}
	return flowMap, flowList, errs
}

func decodeTargetSpecs(val *yaml.Node) ([]string, error) {
	switch val.Kind {
	case yaml.ScalarNode:
		return []string{val.Value}, nil
	case yaml.SequenceNode:
		var specs []string
		for _, item := range val.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("target specifications must be strings")
			}
			specs = append(specs, item.Value)
		}
		return specs, nil
	}
	return nil, fmt.Errorf("targets must be a string or a list of strings")
}

// flowTargetSpec renders one arrow as `target [condition]: "variable"`,
// reconstructing the condition text from the source node when it branches.
func flowTargetSpec(d *diagram.Diagram, a diagram.Arrow, srcNodeID, dstLabel string) string {
	var b strings.Builder
	b.WriteString(dstLabel)

	if cond := conditionText(d, a, srcNodeID); cond != "" {
		b.WriteString(" [")
		b.WriteString(cond)
		b.WriteString("]")
	}
	if a.ContentType == diagram.ContentVariable && a.Label != "" {
		b.WriteString(fmt.Sprintf(": %q", a.Label))
	}
	return b.String()
}

// conditionText recovers the bracket annotation for an arrow leaving a
// condition node: the node's expression, negated with "not" for the false
// branch. Arrows with no recoverable expression get no annotation; the flow
// format accepts that loss.
func conditionText(d *diagram.Diagram, a diagram.Arrow, srcNodeID string) string {
	n := d.NodeByID(srcNodeID)
	if n == nil || n.Kind != diagram.KindCondition {
		return ""
	}
	expr := ""
	if data, ok := n.Data.(*diagram.ConditionData); ok {
		expr = data.Expression
	}
	if expr == "" {
		expr = "condition"
	}
	if a.Branch == "false" || handleName(a.Source) == diagram.HandleCondFalse {
		return "not " + expr
	}
	return expr
}
