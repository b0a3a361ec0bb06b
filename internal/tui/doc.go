/*
Package tui implements the terminal tensor viewer.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, modes and message types
  - init.go: Options, model construction and Run
  - keys.go: Keyboard input handling and keybind routing
  - actions.go: Fetching, slicing transitions, clipboard and spec store
  - render.go: The header, slicing controls, value grid and status bar
  - modals.go: Help, health pill, spec inspector, swap menu and picker

# Modes

  - ModeGrid: the value grid has focus; arrows move the selection
  - ModeDimension: the slicing controls have focus; step or type indices
  - ModeIndexEdit: typing the index of the focused pinned dimension
  - ModeSwap: choosing a dimension to view as rows or columns
  - ModePicker: choosing another tensor of the file
  - ModeStats, ModeInspect, ModeHelp: read-only dialogs

# Fetching

Every navigation lays the widget out again and starts a fetch as a tea.Cmd.
A fetch started later cancels the earlier one; a result that arrives for an
old ticket is dropped by the widget. While a fetch is in flight the last
frame with values stays on screen.

# Spec Store

When a history.Manager is configured, a tensor opens with the slicing spec
it was last viewed with, and every swap or index change is saved back.
Widget listeners queue the spec in a SpecChangeState; Update takes it and
writes it from a command.

# Threading Model

The TUI runs in Bubble Tea's event loop. Fetches, health pills, clipboard
writes and spec store writes run as commands on other goroutines. State
shared with them lives in FetchState and SpecChangeState, which are safe
for concurrent use.
*/
package tui
