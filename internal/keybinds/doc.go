/*
Package keybinds maps terminal keys to widget actions.

# Contexts

Bindings live in a context, one per focus state of the UI:
  - global: available everywhere (ctrl+c)
  - grid: the value grid, selection and scrolling
  - dimension: the slicing controls, stepping and editing sliced indices
  - index_edit: typing an index; only enter and esc are claimed
  - swap: choosing the dimension to swap into a viewing slot
  - picker: the tensor list; navigation and filtering belong to the list
  - modal: health pill, spec inspector and help

A key bound in a specific context hides the same key in global.

# Multi-Key Sequences

A key of several plain characters, such as "gg", is a sequence.
MatchMultiKey returns a partial match while the typed keys are a prefix of a
bound sequence. When the next key breaks the sequence the last key is
matched on its own.

# Configuration File

keybinds.json holds one object per context mapping a key to an action.
Comments and trailing commas are accepted. Keys not listed keep their
default, and "noop" disables a key:

	{
	  // arrows scroll, hjkl move the selection
	  "grid": {
	    "w": "move_up",
	    "k": "noop",
	  },
	}

# Validation

The validator reports unknown actions and malformed keys as errors, and
warns about rebound reserved keys, shadowed global bindings, single keys
hidden by a sequence, and contexts the UI never enters.

# Usage

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	action, complete, partial := registry.MatchMultiKey(keybinds.ContextGrid, msg.String())

The Registry is not safe for concurrent use. The TUI reads it from the
Bubble Tea event loop only.
*/
package keybinds
