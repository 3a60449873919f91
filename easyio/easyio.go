// Package easyio provides one-call load and dump helpers for JSON, JSONL,
// YAML and TOML files. Each helper opens the file itself and propagates both
// I/O and encoding errors to the caller.
package easyio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadJSON reads a JSON file into out.
func LoadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse JSON in %s: %w", path, err)
	}
	return nil
}

// DumpJSON writes v to a JSON file, indented with two spaces.
func DumpJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return write(path, append(data, '\n'))
}

// LoadJSONL reads a JSON-lines file, decoding each non-empty line into a
// fresh map.
func LoadJSONL(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal(text, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSONL line %d in %s: %w", line, path, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// DumpJSONL writes each record as one compact JSON line.
func DumpJSONL(path string, records []map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode JSONL record: %w", err)
		}
	}
	return write(path, buf.Bytes())
}

// LoadYAML reads a YAML file into out.
func LoadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}
	return nil
}

// DumpYAML writes v to a YAML file.
func DumpYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return write(path, data)
}

// LoadTOML reads a TOML file into out.
func LoadTOML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse TOML in %s: %w", path, err)
	}
	return nil
}

// DumpTOML writes v to a TOML file.
func DumpTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return write(path, data)
}

func write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
