package keybinds

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Binding represents a keybinding mapping
type Binding struct {
	Key     string
	Action  Action
	Context Context
}

// namedKeys are multi-character key names reported by the terminal. Any other
// multi-character key without a modifier is a sequence of single keys.
var namedKeys = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true,
	"enter": true, "esc": true, "tab": true, "space": true,
	"backspace": true, "delete": true, "insert": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

// IsSequence reports whether key is a multi-key sequence such as "gg"
func IsSequence(key string) bool {
	return utf8.RuneCountInString(key) > 1 && !strings.Contains(key, "+") && !namedKeys[key]
}

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// pending holds the keys typed so far of an unfinished sequence
	pending map[Context]string
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[Context]map[string]Action),
		pending:  make(map[Context]string),
	}
}

// Register adds a keybinding to the registry
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unregister removes a key from a context
func (r *Registry) Unregister(context Context, key string) {
	delete(r.bindings[context], key)
}

// Match attempts to match a key to an action in the given context
// Contexts are checked in priority order: specific context -> global
func (r *Registry) Match(context Context, key string) (Action, bool) {
	if contextBindings, ok := r.bindings[context]; ok {
		if action, ok := contextBindings[key]; ok {
			return action, true
		}
	}

	if globalBindings, ok := r.bindings[ContextGlobal]; ok {
		if action, ok := globalBindings[key]; ok {
			return action, true
		}
	}

	return "", false
}

// MatchMultiKey handles multi-key sequences like 'gg'.
// Returns the action, whether it's a complete match, and whether it's a
// partial match waiting for more keys.
func (r *Registry) MatchMultiKey(context Context, key string) (Action, bool, bool) {
	sequence := r.pending[context] + key
	delete(r.pending, context)

	if r.isSequencePrefix(context, sequence) {
		r.pending[context] = sequence
		return "", false, true
	}

	if action, ok := r.Match(context, sequence); ok {
		return action, true, false
	}

	// An abandoned sequence still lets its last key act on its own
	if sequence != key {
		action, ok := r.Match(context, key)
		return action, ok, false
	}
	return "", false, false
}

// isSequencePrefix reports whether typed is a proper prefix of a sequence
// bound in context or global.
func (r *Registry) isSequencePrefix(context Context, typed string) bool {
	for _, ctx := range []Context{context, ContextGlobal} {
		for key := range r.bindings[ctx] {
			if IsSequence(key) && len(key) > len(typed) && strings.HasPrefix(key, typed) {
				return true
			}
		}
	}
	return false
}

// ClearMultiKeyState clears any pending multi-key state for a context
func (r *Registry) ClearMultiKeyState(context Context) {
	delete(r.pending, context)
}

// Pending returns the keys typed so far of an unfinished sequence
func (r *Registry) Pending(context Context) string {
	return r.pending[context]
}

// GetBinding returns the key(s) bound to an action in a context, sorted
func (r *Registry) GetBinding(context Context, action Action) []string {
	keys := keysFor(r.bindings[context], action)
	if len(keys) == 0 {
		keys = keysFor(r.bindings[ContextGlobal], action)
	}
	sort.Strings(keys)
	return keys
}

func keysFor(bindings map[string]Action, action Action) []string {
	var keys []string
	for key, act := range bindings {
		if act == action {
			keys = append(keys, key)
		}
	}
	return keys
}

// GetBindingString returns a human-readable string of keys bound to an action
func (r *Registry) GetBindingString(context Context, action Action) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns all bindings for a context followed by the global
// ones, each group sorted by key.
func (r *Registry) ListBindings(context Context) []Binding {
	bindings := sortedBindings(context, r.bindings[context])
	if context != ContextGlobal {
		bindings = append(bindings, sortedBindings(ContextGlobal, r.bindings[ContextGlobal])...)
	}
	return bindings
}

func sortedBindings(context Context, m map[string]Action) []Binding {
	out := make([]Binding, 0, len(m))
	for key, action := range m {
		out = append(out, Binding{Key: key, Action: action, Context: context})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Validate checks for keys or actions that cannot be used
func (r *Registry) Validate() error {
	for context, contextBindings := range r.bindings {
		for key, action := range contextBindings {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("context '%s': %w", context, err)
			}
			if err := ValidateAction(string(action)); err != nil {
				return fmt.Errorf("context '%s', key '%s': %w", context, key, err)
			}
		}
	}
	return nil
}

// HasBinding checks if a key is bound in a context
func (r *Registry) HasBinding(context Context, key string) bool {
	_, ok := r.Match(context, key)
	return ok
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	clone.Merge(r)
	return clone
}

// Merge combines bindings from another registry, with other taking precedence
func (r *Registry) Merge(other *Registry) {
	for context, contextBindings := range other.bindings {
		for key, action := range contextBindings {
			r.Register(context, key, action)
		}
	}
}
