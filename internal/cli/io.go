package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/diaflow/diaflow/pkg/convert"
	"github.com/diaflow/diaflow/pkg/diagram"
)

// readInput reads a diagram file, with "-" meaning stdin.
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes converted text, with "-" meaning stdout.
func writeOutput(path, text string) error {
	if path == "-" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// pickConverter resolves the converter for a file: an explicit format name
// wins, then the file extension, then content sniffing (the only option for
// stdin).
func pickConverter(path, formatName, content string) (convert.Converter, error) {
	if formatName != "" {
		return convert.ByName(formatName)
	}
	if path != "-" {
		if c, err := convert.ByExtension(path); err == nil {
			return c, nil
		}
	}
	return convert.Detect(content)
}

// readDiagram loads, format-resolves and deserializes a diagram in one step.
func readDiagram(path, formatName string) (*diagram.Diagram, []convert.Warning, convert.Converter, error) {
	content, err := readInput(path)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := pickConverter(path, formatName, content)
	if err != nil {
		return nil, nil, nil, err
	}
	d, warnings, err := c.Deserialize(content, diagram.UUIDSource())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse %s as %s: %w", path, c.Name(), err)
	}
	return d, warnings, c, nil
}
