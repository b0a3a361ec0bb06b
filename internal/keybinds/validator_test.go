package keybinds

import (
	"strings"
	"testing"
)

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	if v == nil {
		t.Fatal("NewValidator returned nil")
	}

	if v.reservedKeys["ctrl+c"] != ActionQuitForce {
		t.Error("Expected ctrl+c to be reserved for force quit")
	}

	for _, context := range AllContexts {
		if context == ContextGlobal {
			continue
		}
		if v.contextHierarchy[context] != ContextGlobal {
			t.Errorf("Expected context %s to inherit from global", context)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "conflict error",
			err: ValidationError{
				Type:    "conflict",
				Context: ContextGrid,
				Key:     "space",
				Message: "same key as ' ' bound to a different action",
			},
			expected: "[conflict] space in context 'grid': same key as ' ' bound to a different action",
		},
		{
			name: "invalid error",
			err: ValidationError{
				Type:    "invalid",
				Context: ContextGlobal,
				Key:     "",
				Message: "key cannot be empty",
			},
			expected: "[invalid]  in context 'global': key cannot be empty",
		},
		{
			name: "warning",
			err: ValidationError{
				Type:    "warning",
				Context: ContextDimension,
				Key:     "tab",
				Message: "shadows global binding",
			},
			expected: "[warning] tab in context 'dimension': shadows global binding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	tests := []struct {
		name     string
		result   *ValidationResult
		contains []string
	}{
		{
			name:     "no issues",
			result:   &ValidationResult{},
			contains: []string{"No issues found"},
		},
		{
			name: "only errors",
			result: &ValidationResult{
				Errors: []ValidationError{
					{Type: "invalid", Context: ContextGrid, Key: "q", Message: "unknown action"},
				},
			},
			contains: []string{"Errors (1)", "invalid", "grid", "q"},
		},
		{
			name: "both errors and warnings",
			result: &ValidationResult{
				Errors: []ValidationError{
					{Type: "invalid", Context: ContextGrid, Key: "q", Message: "unknown action"},
				},
				Warnings: []ValidationError{
					{Type: "warning", Context: ContextSwap, Key: "tab", Message: "shadows"},
				},
			},
			contains: []string{"Errors (1)", "Warnings (1)", "invalid", "warning", "swap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("String() output missing %q, got:\n%s", want, got)
				}
			}
			if tt.result.HasErrors() != (len(tt.result.Errors) > 0) {
				t.Error("HasErrors disagrees with Errors")
			}
			if tt.result.HasWarnings() != (len(tt.result.Warnings) > 0) {
				t.Error("HasWarnings disagrees with Warnings")
			}
		})
	}
}

func TestValidateRegistry_Defaults(t *testing.T) {
	result := NewValidator().ValidateRegistry(NewDefaultRegistry())
	if result.HasErrors() || result.HasWarnings() {
		t.Errorf("Expected default bindings to validate cleanly, got:\n%s", result)
	}
}

func TestValidateRegistry(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(*Registry)
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "clean",
			setup: func(r *Registry) {
				r.Register(ContextGrid, "q", ActionQuit)
				r.Register(ContextModal, "esc", ActionCloseModal)
			},
		},
		{
			name: "same key spelled twice",
			setup: func(r *Registry) {
				r.Register(ContextGrid, " ", ActionCopySelection)
				r.Register(ContextGrid, "space", ActionOpenStats)
			},
			wantErrors: 1,
		},
		{
			name: "same key spelled twice, same action",
			setup: func(r *Registry) {
				r.Register(ContextGrid, " ", ActionCopySelection)
				r.Register(ContextGrid, "space", ActionCopySelection)
			},
		},
		{
			name: "unknown action",
			setup: func(r *Registry) {
				r.Register(ContextGrid, "x", Action("explode"))
			},
			wantErrors: 1,
		},
		{
			name: "reserved key rebound",
			setup: func(r *Registry) {
				r.Register(ContextGlobal, "ctrl+c", ActionQuit)
			},
			wantWarnings: 1,
		},
		{
			name: "shadowed global",
			setup: func(r *Registry) {
				r.Register(ContextGlobal, "q", ActionQuit)
				r.Register(ContextModal, "q", ActionCloseModal)
				r.Register(ContextGrid, "q", ActionQuit)
			},
			wantWarnings: 1,
		},
		{
			name: "single key hidden by sequence",
			setup: func(r *Registry) {
				r.Register(ContextGrid, "g", ActionGoToBottom)
				r.Register(ContextGrid, "gg", ActionGoToTop)
			},
			wantWarnings: 1,
		},
		{
			name: "disabled prefix is fine",
			setup: func(r *Registry) {
				r.Register(ContextGrid, "g", ActionNoOp)
				r.Register(ContextGrid, "gg", ActionGoToTop)
			},
		},
		{
			name: "unknown context",
			setup: func(r *Registry) {
				r.Register(Context("sidebar"), "x", ActionQuit)
			},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			tt.setup(r)
			result := NewValidator().ValidateRegistry(r)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("Expected %d errors, got %d:\n%s", tt.wantErrors, len(result.Errors), result)
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("Expected %d warnings, got %d:\n%s", tt.wantWarnings, len(result.Warnings), result)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name       string
		config     *Config
		wantErrors bool
	}{
		{
			name:   "empty config",
			config: &Config{Version: "1.0"},
		},
		{
			name: "rebinding",
			config: &Config{
				Grid: map[string]string{"w": "move_up", "k": "noop"},
			},
		},
		{
			name: "unknown action",
			config: &Config{
				Dimension: map[string]string{"x": "launch"},
			},
			wantErrors: true,
		},
		{
			name: "empty key",
			config: &Config{
				Modal: map[string]string{"": "close_modal"},
			},
			wantErrors: true,
		},
		{
			name: "modifier without key",
			config: &Config{
				Global: map[string]string{"ctrl+": "quit"},
			},
			wantErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewValidator().ValidateConfig(tt.config)
			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Expected errors=%v, got:\n%s", tt.wantErrors, result)
			}
		})
	}
}

func TestFindConflicts(t *testing.T) {
	config := &Config{
		Grid: map[string]string{" ": "copy_selection", "space": "open_stats"},
	}
	conflicts := FindConflicts(config)
	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d: %v", len(conflicts), conflicts)
	}
	if !strings.Contains(conflicts[0], "grid") {
		t.Errorf("Expected conflict in grid context, got %s", conflicts[0])
	}

	if got := FindConflicts(&Config{}); len(got) != 0 {
		t.Errorf("Expected no conflicts, got %v", got)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"q", false},
		{"ctrl+c", false},
		{"shift+up", false},
		{"gg", false},
		{"", true},
		{"ctrl+", true},
		{"alt+", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	tests := []struct {
		action  string
		wantErr bool
	}{
		{"quit", false},
		{"swap_dimension", true},
		{"open_swap", false},
		{"noop", false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			err := ValidateAction(tt.action)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAction(%q) error = %v, wantErr %v", tt.action, err, tt.wantErr)
			}
		})
	}
}
