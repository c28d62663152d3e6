package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a TaskPlan from a YAML or JSON file, sniffed by extension.
// Anything that is not .json is parsed as YAML (which also accepts JSON).
func Load(path string) (*TaskPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %v", err)
	}

	var p TaskPlan
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse plan file %s: %v", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse plan file %s: %v", path, err)
		}
	}
	return &p, nil
}

// Save writes a TaskPlan to a file as YAML, or JSON when the path ends in
// .json.
func Save(p *TaskPlan, path string) error {
	var data []byte
	var err error

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(p, "", "  ")
	} else {
		data, err = yaml.Marshal(p)
	}
	if err != nil {
		return fmt.Errorf("failed to encode plan: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %v", err)
	}
	return nil
}
