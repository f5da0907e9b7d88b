package cli

import "testing"

func TestPickConverter(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		format  string
		content string
		want    string
	}{
		{"explicit format wins", "d.json", "flow", "", "flow"},
		{"native extension", "d.json", "", "", "native"},
		{"light extension", "d.light.yaml", "", "", "light"},
		{"flow extension", "d.flow.yaml", "", "", "flow"},
		{"stdin sniffs flow", "-", "", "flow:\n  a: b\n", "flow"},
		{"stdin sniffs light", "-", "", "nodes:\n  - label: A\n", "light"},
		{"stdin sniffs native", "-", "", `{"nodes": []}`, "native"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := pickConverter(tc.path, tc.format, tc.content)
			if err != nil {
				t.Fatalf("pickConverter failed: %v", err)
			}
			if c.Name() != tc.want {
				t.Errorf("converter = %s, want %s", c.Name(), tc.want)
			}
		})
	}

	if _, err := pickConverter("-", "", "no structure here"); err == nil {
		t.Error("undetectable content must fail")
	}
}
