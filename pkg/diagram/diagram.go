package diagram

import (
	"errors"
	"math"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when a node with
	// the same ID already exists. Node IDs must be unique within a diagram.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateHandle is returned by [Diagram.AddHandle] when a handle
	// with the same (node, name, direction) triple already exists.
	ErrDuplicateHandle = errors.New("duplicate handle")

	// ErrUnknownNode is returned by [Diagram.AddHandle] when the owning node
	// does not exist in the diagram.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownHandle is returned by [Diagram.AddArrow] when an endpoint
	// does not resolve to a handle in the diagram.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrNonFinitePosition is returned by [Diagram.AddNode] when a position
	// coordinate is NaN or infinite.
	ErrNonFinitePosition = errors.New("position must be finite")
)

// Vec2 is a 2-D position on the editor canvas.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metadata carries optional descriptive information about a diagram.
type Metadata struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Person is an LLM agent definition owned by the diagram and referenced by
// person-job nodes through their PersonID field.
type Person struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Model        string   `json:"model"`
	Service      string   `json:"service"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	APIKeyID     string   `json:"api_key_id,omitempty"`
}

// APIKey is a credential reference. The secret value itself never enters the
// interchange engine; only the identifier, label and service round-trip.
type APIKey struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Service string `json:"service"`
}

// Diagram is the aggregate graph model: nodes, their handles, the arrows
// connecting handles, agent definitions and credential references.
//
// A Diagram is constructed fresh on import and consumed by export; the engine
// holds no state across calls. Slices keep insertion order so that exports
// are deterministic. Diagram is not safe for concurrent mutation.
type Diagram struct {
	Nodes   []Node    `json:"nodes"`
	Handles []Handle  `json:"handles"`
	Arrows  []Arrow   `json:"arrows"`
	Persons []Person  `json:"persons"`
	APIKeys []APIKey  `json:"api_keys"`
	Meta    *Metadata `json:"metadata,omitempty"`
}

// New returns an empty diagram with optional metadata.
func New(meta *Metadata) *Diagram {
	return &Diagram{Meta: meta}
}

// AddNode appends a node after checking ID uniqueness and position validity.
func (d *Diagram) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if d.NodeByID(n.ID) != nil {
		return ErrDuplicateNodeID
	}
	if !isFinite(n.Position.X) || !isFinite(n.Position.Y) {
		return ErrNonFinitePosition
	}
	d.Nodes = append(d.Nodes, n)
	return nil
}

// AddHandle appends a handle after checking that its node exists and that the
// (node, name, direction) triple is unused. The handle's composite ID is
// derived here; any caller-supplied ID is overwritten.
func (d *Diagram) AddHandle(h Handle) error {
	if d.NodeByID(h.NodeID) == nil {
		return ErrUnknownNode
	}
	h.ID = MakeHandleID(h.NodeID, h.Name, h.Direction)
	for _, ex := range d.Handles {
		if ex.ID == h.ID {
			return ErrDuplicateHandle
		}
	}
	d.Handles = append(d.Handles, h)
	return nil
}

// AddArrow appends an arrow after resolving both endpoints to handles that
// exist in the diagram. Direction correctness is the Compatibility
// Validator's concern, not a construction invariant.
func (d *Diagram) AddArrow(a Arrow) error {
	if d.HandleByID(a.Source) == nil || d.HandleByID(a.Target) == nil {
		return ErrUnknownHandle
	}
	d.Arrows = append(d.Arrows, a)
	return nil
}

// NodeByID returns the node with the given ID, or nil.
func (d *Diagram) NodeByID(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// HandleByID returns the handle with the given composite ID, or nil.
func (d *Diagram) HandleByID(id HandleID) *Handle {
	for i := range d.Handles {
		if d.Handles[i].ID == id {
			return &d.Handles[i]
		}
	}
	return nil
}

// PersonByID returns the person with the given ID, or nil.
func (d *Diagram) PersonByID(id string) *Person {
	for i := range d.Persons {
		if d.Persons[i].ID == id {
			return &d.Persons[i]
		}
	}
	return nil
}

// HandlesOf returns every handle belonging to the given node, in insertion
// order.
func (d *Diagram) HandlesOf(nodeID string) []Handle {
	var out []Handle
	for _, h := range d.Handles {
		if h.NodeID == nodeID {
			out = append(out, h)
		}
	}
	return out
}

// InboundCount returns the number of arrows terminating at the given handle.
// Used by the Compatibility Validator to enforce MaxConnections.
func (d *Diagram) InboundCount(id HandleID) int {
	n := 0
	for _, a := range d.Arrows {
		if a.Target == id {
			n++
		}
	}
	return n
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
