package assemble

import (
	"sort"
	"strings"

	"github.com/diaflow/diaflow/pkg/diagram"
	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Defaults for synthesized entities.
const (
	DefaultPersonLabel = "Default Assistant"
	DefaultModel       = "gpt-4"
	DefaultService     = "openai"
)

// Agent is an explicit agent definition from the flow document's agents
// section.
type Agent struct {
	Model        string   `yaml:"model,omitempty"`
	Service      string   `yaml:"service,omitempty"`
	SystemPrompt string   `yaml:"system_prompt,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
}

// FlowEntry is one source with its target specifications, in document order.
type FlowEntry struct {
	Source  string
	Targets []string
}

// Input is the parsed flow document handed to the assembler: the edge
// section in whichever surface syntax it used, plus the auxiliary per-name
// sections.
type Input struct {
	Name     string
	FlowMap  []FlowEntry
	FlowList []string
	Prompts  map[string]string
	Agents   map[string]Agent
	Data     map[string]string
}

// Assemble reconstructs a full diagram from a minimal flow input: it parses
// edges, discovers nodes, infers kinds, lays nodes out, synthesizes persons
// and api keys and wires everything together. It never fails; recoverable
// problems (malformed lines, edges into nonexistent handles) come back as
// coded errors next to a usable diagram. Callers needing a hard failure on
// bad lines use [Strict].
func Assemble(in Input, ids diagram.IDSource) (*diagram.Diagram, []error) {
	edges, errs := parseEdges(in)

	// Node discovery: first appearance wins, sources before their targets.
	var names []string
	seen := map[string]bool{}
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, e := range edges {
		add(e.Source)
		add(e.Target)
	}

	conditioned := map[string]bool{}
	firstCondition := map[string]string{}
	for _, e := range edges {
		if e.Condition != "" {
			conditioned[e.Source] = true
			if _, ok := firstCondition[e.Source]; !ok {
				firstCondition[e.Source] = positive(e.Condition)
			}
		}
	}

	var meta *diagram.Metadata
	if in.Name != "" {
		meta = &diagram.Metadata{Name: in.Name}
	}
	d := diagram.New(meta)
	positions := layoutPositions(names, edges)

	kinds := map[string]diagram.Kind{}
	nodeIDs := map[string]string{}
	for _, name := range names {
		kind := inferKind(name, nodeContext{
			hasPrompt:      in.Prompts[name] != "",
			hasAgent:       hasAgent(in.Agents, name),
			hasData:        in.Data[name] != "",
			conditionedOut: conditioned[name],
		})
		kinds[name] = kind

		id := ids(diagram.PrefixNode)
		nodeIDs[name] = id
		n := diagram.Node{
			ID:       id,
			Kind:     kind,
			Label:    name,
			Position: positions[name],
			Data:     nodeData(kind, name, in, firstCondition),
		}
		if err := d.AddNode(n); err != nil {
			errs = append(errs, dferr.Wrap(dferr.CodeInvalidDiagram, err, "node %q", name))
			continue
		}
		for _, h := range diagram.DefaultHandles(kind, id) {
			if err := d.AddHandle(h); err != nil {
				errs = append(errs, dferr.Wrap(dferr.CodeInternal, err, "handles of %q", name))
			}
		}
	}

	personIDs := extractPersons(d, in, ids)
	linkPersons(d, in, names, kinds, personIDs, ids)

	for _, e := range edges {
		a := diagram.Arrow{
			ID:     ids(diagram.PrefixArrow),
			Source: sourceHandle(nodeIDs[e.Source], kinds[e.Source], e.Condition),
			Target: diagram.MakeHandleID(nodeIDs[e.Target], diagram.HandleDefault, diagram.DirIn),
			Label:  e.Variable,
		}
		if e.Variable != "" {
			a.ContentType = diagram.ContentVariable
		}
		if e.Condition != "" {
			if negated(e.Condition) {
				a.Branch = "false"
			} else {
				a.Branch = "true"
			}
		}
		if err := d.AddArrow(a); err != nil {
			errs = append(errs, dferr.Wrap(dferr.CodeUnresolvedReference, err,
				"edge %s -> %s", e.Source, e.Target))
		}
	}

	return d, errs
}

// Strict assembles like [Assemble] but treats any recoverable problem as a
// hard failure, returning the first one.
func Strict(in Input, ids diagram.IDSource) (*diagram.Diagram, error) {
	d, errs := Assemble(in, ids)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return d, nil
}

// ErrorDiagram is the degraded result of the never-fail import policy: a
// single start node whose label carries the failure text, so the editor
// still opens something the author can read.
func ErrorDiagram(cause error, ids diagram.IDSource) *diagram.Diagram {
	d := diagram.New(nil)
	id := ids(diagram.PrefixNode)
	_ = d.AddNode(diagram.Node{
		ID:    id,
		Kind:  diagram.KindStart,
		Label: "Import error: " + dferr.UserMessage(cause),
	})
	for _, h := range diagram.DefaultHandles(diagram.KindStart, id) {
		_ = d.AddHandle(h)
	}
	return d
}

// nodeData builds the kind-specific record for an assembled node. Returns
// nil when the kind has nothing to say, so downstream elision works.
func nodeData(kind diagram.Kind, name string, in Input, firstCondition map[string]string) diagram.NodeData {
	switch kind {
	case diagram.KindPersonJob:
		if p := in.Prompts[name]; p != "" {
			return &diagram.PersonJobData{Prompt: p, MaxIterations: 1}
		}
	case diagram.KindCondition:
		if expr := firstCondition[name]; expr != "" {
			return &diagram.ConditionData{Expression: expr}
		}
	case diagram.KindDB:
		if src := in.Data[name]; src != "" {
			return &diagram.DBData{SubKind: diagram.DBFile, Source: src}
		}
	}
	return nil
}

// extractPersons materializes the explicit agents section as Persons and
// synthesizes one api key per distinct service. Returns name -> person ID.
func extractPersons(d *diagram.Diagram, in Input, ids diagram.IDSource) map[string]string {
	personIDs := map[string]string{}
	keyBySvc := map[string]string{}

	apiKeyFor := func(service string) string {
		if id, ok := keyBySvc[service]; ok {
			return id
		}
		id := ids(diagram.PrefixAPIKey)
		keyBySvc[service] = id
		d.APIKeys = append(d.APIKeys, diagram.APIKey{
			ID:      id,
			Label:   titleService(service) + " API Key",
			Service: service,
		})
		return id
	}

	// Agents in deterministic order regardless of map iteration.
	for _, name := range sortedKeys(in.Agents) {
		a := in.Agents[name]
		model, service := a.Model, a.Service
		if model == "" {
			model = DefaultModel
		}
		if service == "" {
			service = DefaultService
		}
		id := ids(diagram.PrefixPerson)
		personIDs[name] = id
		d.Persons = append(d.Persons, diagram.Person{
			ID:           id,
			Label:        name,
			Model:        model,
			Service:      service,
			SystemPrompt: a.SystemPrompt,
			Temperature:  a.Temperature,
			APIKeyID:     apiKeyFor(service),
		})
	}
	return personIDs
}

// linkPersons assigns a person to every LLM task node: its matching explicit
// agent when one exists, otherwise a single shared default person created on
// first need.
func linkPersons(d *diagram.Diagram, in Input, names []string, kinds map[string]diagram.Kind, personIDs map[string]string, ids diagram.IDSource) {
	defaultID := ""
	defaultPerson := func() string {
		if defaultID != "" {
			return defaultID
		}
		defaultID = ids(diagram.PrefixPerson)
		keyID := ""
		for _, k := range d.APIKeys {
			if k.Service == DefaultService {
				keyID = k.ID
				break
			}
		}
		if keyID == "" {
			keyID = ids(diagram.PrefixAPIKey)
			d.APIKeys = append(d.APIKeys, diagram.APIKey{
				ID:      keyID,
				Label:   titleService(DefaultService) + " API Key",
				Service: DefaultService,
			})
		}
		d.Persons = append(d.Persons, diagram.Person{
			ID:       defaultID,
			Label:    DefaultPersonLabel,
			Model:    DefaultModel,
			Service:  DefaultService,
			APIKeyID: keyID,
		})
		return defaultID
	}

	for _, name := range names {
		if kinds[name] != diagram.KindPersonJob {
			continue
		}
		pid, ok := personIDs[name]
		if !ok {
			pid = defaultPerson()
		}
		n := d.NodeByID(nodeIDByLabel(d, name))
		if n == nil {
			continue
		}
		if data, ok := n.Data.(*diagram.PersonJobData); ok {
			data.PersonID = pid
		} else {
			n.Data = &diagram.PersonJobData{PersonID: pid}
		}
	}
}

// sourceHandle picks the handle an edge leaves from. Condition nodes have no
// default output, so conditioned edges leave the matching branch handle and
// unconditioned ones the true branch.
func sourceHandle(nodeID string, kind diagram.Kind, condition string) diagram.HandleID {
	if kind == diagram.KindCondition {
		name := diagram.HandleCondTrue
		if negated(condition) {
			name = diagram.HandleCondFalse
		}
		return diagram.MakeHandleID(nodeID, name, diagram.DirOut)
	}
	return diagram.MakeHandleID(nodeID, diagram.HandleDefault, diagram.DirOut)
}

func nodeIDByLabel(d *diagram.Diagram, label string) string {
	for i := range d.Nodes {
		if d.Nodes[i].Label == label {
			return d.Nodes[i].ID
		}
	}
	return ""
}

func hasAgent(agents map[string]Agent, name string) bool {
	_, ok := agents[name]
	return ok
}

func sortedKeys(m map[string]Agent) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleService upcases the first rune of a service tag for key labels, e.g.
// "openai" -> "Openai API Key".
func titleService(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
