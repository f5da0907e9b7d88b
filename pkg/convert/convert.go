package convert

import (
	"strings"

	"github.com/diaflow/diaflow/pkg/diagram"
	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// Converter translates between a textual representation and the in-memory
// diagram model. Implementations are stateless: every call allocates its own
// label registry, so a single Converter value is safe for concurrent use.
type Converter interface {
	// Name returns the format identifier (e.g. "native", "light", "flow").
	Name() string
	// Extension returns the file extension the format claims, including the
	// leading dot (e.g. ".light.yaml").
	Extension() string
	// Serialize renders a diagram as text.
	Serialize(d *diagram.Diagram) (string, error)
	// Deserialize parses text into a fresh diagram, minting new identifiers
	// from ids where the format does not preserve them. Recoverable
	// per-element failures are returned as warnings next to a usable
	// (possibly partial) diagram.
	Deserialize(text string, ids diagram.IDSource) (*diagram.Diagram, []Warning, error)
}

// Warning records a recoverable conversion failure: the element it concerns
// was dropped and conversion continued.
type Warning struct {
	Code    dferr.Code `json:"code"`
	Message string     `json:"message"`
}

func (w Warning) String() string {
	return string(w.Code) + ": " + w.Message
}

// warningsFromErrors converts coded errors collected by lower layers into
// warnings.
func warningsFromErrors(errs []error) []Warning {
	out := make([]Warning, 0, len(errs))
	for _, err := range errs {
		code := dferr.GetCode(err)
		if code == "" {
			code = dferr.CodeInternal
		}
		out = append(out, Warning{Code: code, Message: dferr.UserMessage(err)})
	}
	return out
}

// Formats returns all registered converters in preference order.
func Formats() []Converter {
	return []Converter{Native{}, Light{}, Flow{}}
}

// ByName returns the converter with the given format name.
func ByName(name string) (Converter, error) {
	for _, c := range Formats() {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, dferr.New(dferr.CodeInvalidFormat, "unknown format %q", name)
}

// ByExtension returns the converter claiming the given file name's extension.
// Longer extensions win, so "d.light.yaml" resolves to the light format even
// though ".yaml" alone would match the flow format.
func ByExtension(filename string) (Converter, error) {
	var best Converter
	for _, c := range Formats() {
		if strings.HasSuffix(filename, c.Extension()) {
			if best == nil || len(c.Extension()) > len(best.Extension()) {
				best = c
			}
		}
	}
	if best == nil {
		return nil, dferr.New(dferr.CodeInvalidFormat, "no format claims %q", filename)
	}
	return best, nil
}

// Detect guesses the format of raw content, for input arriving without a
// file name (stdin, HTTP bodies). It checks the cheap structural markers
// each format exhibits and falls back to an INVALID_FORMAT error.
func Detect(content string) (Converter, error) {
	trimmed := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, `"nodes"`):
		return Native{}, nil
	case containsTopKey(trimmed, "flow"):
		return Flow{}, nil
	case containsTopKey(trimmed, "nodes"):
		return Light{}, nil
	}
	return nil, dferr.New(dferr.CodeInvalidFormat, "content matches no known format")
}

// containsTopKey reports whether a YAML document has a top-level key with the
// given name, by scanning for it at column zero.
func containsTopKey(content, key string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, key+":") {
			return true
		}
	}
	return false
}

// Serialize renders d in the named format.
func Serialize(format string, d *diagram.Diagram) (string, error) {
	c, err := ByName(format)
	if err != nil {
		return "", err
	}
	return c.Serialize(d)
}

// Deserialize parses text in the named format with UUID identifier
// generation.
func Deserialize(format, text string) (*diagram.Diagram, []Warning, error) {
	c, err := ByName(format)
	if err != nil {
		return nil, nil, err
	}
	return c.Deserialize(text, diagram.UUIDSource())
}
