package convert

import (
	"testing"

	dferr "github.com/diaflow/diaflow/pkg/errors"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"native", "light", "flow"} {
		c, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) failed: %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, c.Name())
		}
	}

	_, err := ByName("xml")
	if !dferr.Is(err, dferr.CodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestByExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"diagram.json", "native"},
		{"diagram.light.yaml", "light"},
		{"diagram.flow.yaml", "flow"},
		{"path/to/deep.light.yaml", "light"},
	}
	for _, tc := range cases {
		c, err := ByExtension(tc.filename)
		if err != nil {
			t.Fatalf("ByExtension(%q) failed: %v", tc.filename, err)
		}
		if c.Name() != tc.want {
			t.Errorf("ByExtension(%q) = %s, want %s", tc.filename, c.Name(), tc.want)
		}
	}

	if _, err := ByExtension("diagram.txt"); !dferr.Is(err, dferr.CodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"native", `{"nodes": [], "handles": []}`, "native"},
		{"flow", "name: x\nflow:\n  a: b\n", "flow"},
		{"light", "version: light\nnodes:\n  - label: A\n", "light"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Detect(tc.content)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if c.Name() != tc.want {
				t.Errorf("Detect = %s, want %s", c.Name(), tc.want)
			}
		})
	}

	if _, err := Detect("plain prose"); !dferr.Is(err, dferr.CodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}
