package diagram

// =============================================================================
// Node Kinds - Single Source of Truth
// =============================================================================

// Kind identifies the behavior of a workflow node. The set is closed:
// converters and the assembler switch over it rather than probing free-form
// data maps.
type Kind string

const (
	KindStart     Kind = "start"
	KindPersonJob Kind = "person_job"
	KindCondition Kind = "condition"
	KindDB        Kind = "db"
	KindJob       Kind = "job"
	KindEndpoint  Kind = "endpoint"
)

// Kinds lists every valid node kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindStart, KindPersonJob, KindCondition, KindDB, KindJob, KindEndpoint}
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	switch k {
	case KindStart, KindPersonJob, KindCondition, KindDB, KindJob, KindEndpoint:
		return true
	}
	return false
}

// =============================================================================
// Node
// =============================================================================

// Node is a vertex in the diagram. The Data field holds the kind-specific
// record as a tagged union: exactly one variant type matches Kind, and a nil
// Data means all kind-specific fields take their zero defaults.
type Node struct {
	ID       string
	Kind     Kind
	Label    string
	Position Vec2
	Data     NodeData
}

// DisplayLabel returns the label if set, otherwise the node ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// NodeData is the kind-specific payload of a node. Implementations are the
// per-kind record types below; DataKind reports which variant a value is.
type NodeData interface {
	DataKind() Kind
}

// StartData configures a start node.
type StartData struct {
	// Input is the initial value injected when the workflow begins.
	Input string `json:"input,omitempty" yaml:"input,omitempty"`
}

// PersonJobData configures an LLM task node.
type PersonJobData struct {
	Prompt        string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	PersonID      string `json:"person_id,omitempty" yaml:"person,omitempty"`
	MaxIterations int    `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
}

// ConditionData configures a branching node.
type ConditionData struct {
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// DBData configures a data-source node.
type DBData struct {
	// SubKind distinguishes file-backed sources from inline fixed prompts.
	SubKind string `json:"sub_kind,omitempty" yaml:"sub_kind,omitempty"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
}

// DB sub-kinds.
const (
	DBFile        = "file"
	DBFixedPrompt = "fixed_prompt"
)

// JobData configures a code-execution node.
type JobData struct {
	Code     string `json:"code,omitempty" yaml:"code,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// EndpointData configures a terminal output node.
type EndpointData struct {
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Save     bool   `json:"save,omitempty" yaml:"save,omitempty"`
}

func (StartData) DataKind() Kind     { return KindStart }
func (PersonJobData) DataKind() Kind { return KindPersonJob }
func (ConditionData) DataKind() Kind { return KindCondition }
func (DBData) DataKind() Kind       { return KindDB }
func (JobData) DataKind() Kind      { return KindJob }
func (EndpointData) DataKind() Kind { return KindEndpoint }

// EmptyData returns the zero-valued data variant for a kind, used by decoders
// before filling in fields. Returns nil for unknown kinds.
func EmptyData(k Kind) NodeData {
	switch k {
	case KindStart:
		return &StartData{}
	case KindPersonJob:
		return &PersonJobData{}
	case KindCondition:
		return &ConditionData{}
	case KindDB:
		return &DBData{}
	case KindJob:
		return &JobData{}
	case KindEndpoint:
		return &EndpointData{}
	}
	return nil
}
