package diagram

import (
	"strings"

	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Direction tells whether a handle accepts or emits connections.
type Direction string

const (
	DirIn  Direction = "input"
	DirOut Direction = "output"
)

// Valid reports whether d is a recognized direction token.
func (d Direction) Valid() bool { return d == DirIn || d == DirOut }

// Side is the optional position hint of a handle on its node.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Data types carried by handles. DataAny is the wildcard: it is compatible
// with every other tag.
const (
	DataAny     = "any"
	DataString  = "string"
	DataNumber  = "number"
	DataBoolean = "boolean"
	DataObject  = "object"
)

// Well-known handle names.
const (
	HandleDefault   = "default"
	HandleFirst     = "first"
	HandleCondTrue  = "condtrue"
	HandleCondFalse = "condfalse"
)

// HandleID is the composite identifier of a handle: node ID, handle name and
// direction joined by [handleSep]. It is always derived via [MakeHandleID],
// never assigned independently.
type HandleID string

// Handle is a named, directed connection point on a node.
type Handle struct {
	ID        HandleID  `json:"id"`
	NodeID    string    `json:"node_id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	DataType  string    `json:"data_type"`
	Position  Side      `json:"position,omitempty"`
	// MaxConnections bounds inbound arrows on input handles. Zero means
	// unbounded.
	MaxConnections int `json:"max_connections,omitempty"`
}

// handleSep joins the segments of a handle ID. Node identifiers are minted
// from a fixed [a-z0-9_] alphabet (see ids.go), so the colon can never occur
// inside one; the direction suffix keeps decoding unambiguous even when the
// handle name itself contains a colon.
const handleSep = ":"

// MakeHandleID derives the composite handle identifier.
//
//	MakeHandleID("node_1a2b3c4d", "default", DirOut) == "node_1a2b3c4d:default:output"
func MakeHandleID(nodeID, name string, dir Direction) HandleID {
	return HandleID(nodeID + handleSep + name + handleSep + string(dir))
}

// ParseHandleID splits a composite handle identifier back into node ID,
// handle name and direction. It is the inverse of [MakeHandleID] over valid
// inputs.
//
// The error carries code MALFORMED_HANDLE when the ID has fewer than three
// segments, an empty node ID or name, or an unrecognized direction suffix.
// Callers treat it as a recoverable per-arrow condition.
func ParseHandleID(id HandleID) (nodeID, name string, dir Direction, err error) {
	parts := strings.Split(string(id), handleSep)
	if len(parts) < 3 {
		return "", "", "", dferr.New(dferr.CodeMalformedHandle,
			"handle ID %q must have at least three %q-separated segments", id, handleSep)
	}
	dir = Direction(parts[len(parts)-1])
	if !dir.Valid() {
		return "", "", "", dferr.New(dferr.CodeMalformedHandle,
			"handle ID %q has unrecognized direction suffix %q", id, parts[len(parts)-1])
	}
	nodeID = parts[0]
	name = strings.Join(parts[1:len(parts)-1], handleSep)
	if nodeID == "" || name == "" {
		return "", "", "", dferr.New(dferr.CodeMalformedHandle,
			"handle ID %q has an empty node or name segment", id)
	}
	return nodeID, name, dir, nil
}

// NodeOfHandle extracts just the owning node ID, or "" if the handle ID is
// malformed.
func NodeOfHandle(id HandleID) string {
	nodeID, _, _, err := ParseHandleID(id)
	if err != nil {
		return ""
	}
	return nodeID
}

// Arrow is a directed connection between an output handle and an input
// handle. Endpoints are composite handle IDs, not bare node IDs.
type Arrow struct {
	ID     string   `json:"id"`
	Source HandleID `json:"source"`
	Target HandleID `json:"target"`

	// Optional payload.
	Label       string `json:"label,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	// Branch marks arrows leaving a condition node: "true" or "false".
	Branch string `json:"branch,omitempty"`
	// Offset is a UI curvature hint for the editor canvas.
	Offset *Vec2 `json:"control_point_offset,omitempty"`
}

// Arrow content types.
const (
	ContentRawText  = "raw_text"
	ContentVariable = "variable"
	ContentObject   = "object"
)
