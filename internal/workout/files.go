package workout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a whole dataset from a single JSON or YAML document.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ds Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	case ".json":
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	return &ds, nil
}

// LoadDir reads exercises.json, records.json and assignments.json from dir.
// Each file holds a JSON array; missing files yield empty collections.
func LoadDir(dir string) (*Dataset, error) {
	exercises, err := parseJSONArray[Exercise](filepath.Join(dir, "exercises.json"))
	if err != nil {
		return nil, err
	}
	records, err := parseJSONArray[Record](filepath.Join(dir, "records.json"))
	if err != nil {
		return nil, err
	}
	assignments, err := parseJSONArray[Assignment](filepath.Join(dir, "assignments.json"))
	if err != nil {
		return nil, err
	}
	return &Dataset{Exercises: exercises, Records: records, Assignments: assignments}, nil
}

// parseJSONArray reads a JSON array file into a slice of the given type.
// A missing file is not an error.
func parseJSONArray[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return items, nil
}
