package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptManager loads system prompts from a directory, falling back to the
// built-in defaults when a file is absent. planner.md drives the
// decomposition agent; delegate.md drives the delegate agents.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

func (pm *PromptManager) read(name string) (string, bool) {
	if pm.Directory == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(pm.Directory, name))
	if err != nil {
		return "", false
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", false
	}
	return content, true
}

// GetPlannerPrompt returns the system prompt for the decomposition planner.
func (pm *PromptManager) GetPlannerPrompt() string {
	if content, ok := pm.read("planner.md"); ok {
		return content
	}
	return defaultPlannerPrompt
}

// GetDelegatePrompt returns the system prompt shared by all delegate agents.
func (pm *PromptManager) GetDelegatePrompt() string {
	if content, ok := pm.read("delegate.md"); ok {
		return content
	}
	return defaultDelegatePrompt
}

// WriteDefaults materializes the built-in prompts into the prompt directory
// so they can be edited, skipping files that already exist.
func (pm *PromptManager) WriteDefaults() error {
	if pm.Directory == "" {
		return fmt.Errorf("no prompt directory configured")
	}
	if err := os.MkdirAll(pm.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create prompt directory: %v", err)
	}

	defaults := map[string]string{
		"planner.md":  defaultPlannerPrompt,
		"delegate.md": defaultDelegatePrompt,
	}
	for name, content := range defaults {
		path := filepath.Join(pm.Directory, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %v", name, err)
		}
	}
	return nil
}
