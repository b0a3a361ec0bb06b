package keybinds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration. Each section maps
// a key to an action name; "noop" disables a default key.
type Config struct {
	Version   string            `json:"version"`
	Global    map[string]string `json:"global,omitempty"`
	Grid      map[string]string `json:"grid,omitempty"`
	Dimension map[string]string `json:"dimension,omitempty"`
	IndexEdit map[string]string `json:"index_edit,omitempty"`
	Swap      map[string]string `json:"swap,omitempty"`
	Picker    map[string]string `json:"picker,omitempty"`
	Modal     map[string]string `json:"modal,omitempty"`
}

func (c *Config) sections() map[Context]*map[string]string {
	return map[Context]*map[string]string{
		ContextGlobal:    &c.Global,
		ContextGrid:      &c.Grid,
		ContextDimension: &c.Dimension,
		ContextIndexEdit: &c.IndexEdit,
		ContextSwap:      &c.Swap,
		ContextPicker:    &c.Picker,
		ContextModal:     &c.Modal,
	}
}

// ParseConfig parses keybinds.json content. Comments and trailing commas
// are allowed.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}
	return &config, nil
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry
// User bindings override default bindings
func ApplyConfig(registry *Registry, config *Config) error {
	for context, section := range config.sections() {
		for key, actionStr := range *section {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("%s: %w", context, err)
			}
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("%s: key '%s': %w", context, key, err)
			}
			registry.Register(context, key, Action(actionStr))
		}
	}
	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults exports the default keybindings as a config
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	for context, section := range config.sections() {
		bindings := registry.bindings[context]
		if len(bindings) == 0 {
			continue
		}
		*section = make(map[string]string, len(bindings))
		for key, action := range bindings {
			(*section)[key] = string(action)
		}
	}

	return config
}

const exampleHeader = `// tensorwidget keybindings
//
// Each section maps a key to an action. Keys not listed keep their default
// binding. Bind a key to "noop" to disable it.
`

// CreateExampleConfig writes the default bindings to path, with a comment
// header explaining the format.
func CreateExampleConfig(path string) error {
	data, err := json.MarshalIndent(ExportDefaults(), "", "  ")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(exampleHeader)
	buf.Write(data)
	buf.WriteByte('\n')

	return os.WriteFile(path, buf.Bytes(), 0644)
}
