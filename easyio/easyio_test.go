package easyio

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Count int    `json:"count" yaml:"count" toml:"count"`
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	in := sample{Name: "stutil", Count: 3}

	if err := DumpJSON(path, in); err != nil {
		t.Fatalf("DumpJSON failed: %v", err)
	}
	var out sample
	if err := LoadJSON(path, &out); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	in := sample{Name: "stutil", Count: 3}

	if err := DumpYAML(path, in); err != nil {
		t.Fatalf("DumpYAML failed: %v", err)
	}
	var out sample
	if err := LoadYAML(path, &out); err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.toml")
	in := sample{Name: "stutil", Count: 3}

	if err := DumpTOML(path, in); err != nil {
		t.Fatalf("DumpTOML failed: %v", err)
	}
	var out sample
	if err := LoadTOML(path, &out); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	in := []map[string]any{
		{"step": 1.0, "loss": 0.5},
		{"step": 2.0, "loss": 0.25},
	}

	if err := DumpJSONL(path, in); err != nil {
		t.Fatalf("DumpJSONL failed: %v", err)
	}
	out, err := LoadJSONL(path)
	if err != nil {
		t.Fatalf("LoadJSONL failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("records = %d, want 2", len(out))
	}
	if out[0]["step"] != 1.0 || out[1]["loss"] != 0.25 {
		t.Errorf("records = %v", out)
	}
}

func TestLoadJSONLSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	content := "{\"a\": 1}\n\n  \n{\"a\": 2}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	out, err := LoadJSONL(path)
	if err != nil {
		t.Fatalf("LoadJSONL failed: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("records = %d, want 2", len(out))
	}
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	var out sample
	if err := LoadJSON(missing, &out); err == nil {
		t.Error("LoadJSON on missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte(":\tnot yaml"), 0644); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}
	if err := LoadYAML(bad, &out); err == nil {
		t.Error("LoadYAML on malformed file should fail")
	}
}
