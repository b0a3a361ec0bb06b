package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal    Context = "global"     // Available everywhere
	ContextGrid      Context = "grid"       // Value grid has focus
	ContextDimension Context = "dimension"  // Slicing controls have focus
	ContextIndexEdit Context = "index_edit" // Typing a sliced index
	ContextSwap      Context = "swap"       // Choosing a dimension to swap in
	ContextPicker    Context = "picker"     // Tensor picker
	ContextModal     Context = "modal"      // Health pill, spec inspector and help
)

// AllContexts lists every context in the order they appear in keybinds.json.
var AllContexts = []Context{
	ContextGlobal,
	ContextGrid,
	ContextDimension,
	ContextIndexEdit,
	ContextSwap,
	ContextPicker,
	ContextModal,
}

const (
	// Global actions
	ActionQuit      Action = "quit"
	ActionQuitForce Action = "quit_force"

	// Selection movement
	ActionMoveUp      Action = "move_up"
	ActionMoveDown    Action = "move_down"
	ActionMoveLeft    Action = "move_left"
	ActionMoveRight   Action = "move_right"
	ActionExtendUp    Action = "extend_up"
	ActionExtendDown  Action = "extend_down"
	ActionExtendLeft  Action = "extend_left"
	ActionExtendRight Action = "extend_right"

	// Viewport scrolling
	ActionPageUp        Action = "page_up"
	ActionPageDown      Action = "page_down"
	ActionPageLeft      Action = "page_left"
	ActionPageRight     Action = "page_right"
	ActionGoToTop       Action = "go_to_top"
	ActionGoToBottom    Action = "go_to_bottom"
	ActionGoToLeftEdge  Action = "go_to_left_edge"
	ActionGoToRightEdge Action = "go_to_right_edge"

	// Slicing controls
	ActionFocusDimensions Action = "focus_dimensions"
	ActionFocusGrid       Action = "focus_grid"
	ActionPrevDimension   Action = "prev_dimension"
	ActionNextDimension   Action = "next_dimension"
	ActionIncrementIndex  Action = "increment_index"
	ActionDecrementIndex  Action = "decrement_index"
	ActionEditIndex       Action = "edit_index"
	ActionOpenSwap        Action = "open_swap"

	// Lists and inputs
	ActionNavigateUp   Action = "navigate_up"
	ActionNavigateDown Action = "navigate_down"
	ActionSelect       Action = "select"
	ActionSubmit       Action = "submit"
	ActionCancel       Action = "cancel"
	ActionCloseModal   Action = "close_modal"

	// Modal launchers and tools
	ActionCopySelection Action = "copy_selection"
	ActionOpenPicker    Action = "open_picker"
	ActionOpenStats     Action = "open_stats"
	ActionOpenInspect   Action = "open_inspect"
	ActionOpenHelp      Action = "open_help"
	ActionResetSpec     Action = "reset_spec"
	ActionRefresh       Action = "refresh"

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:            {ActionQuit, "Quit", "Global"},
	ActionQuitForce:       {ActionQuitForce, "Force quit", "Global"},
	ActionMoveUp:          {ActionMoveUp, "Move selection up", "Selection"},
	ActionMoveDown:        {ActionMoveDown, "Move selection down", "Selection"},
	ActionMoveLeft:        {ActionMoveLeft, "Move selection left", "Selection"},
	ActionMoveRight:       {ActionMoveRight, "Move selection right", "Selection"},
	ActionExtendUp:        {ActionExtendUp, "Extend selection up", "Selection"},
	ActionExtendDown:      {ActionExtendDown, "Extend selection down", "Selection"},
	ActionExtendLeft:      {ActionExtendLeft, "Extend selection left", "Selection"},
	ActionExtendRight:     {ActionExtendRight, "Extend selection right", "Selection"},
	ActionCopySelection:   {ActionCopySelection, "Copy selection as TSV", "Selection"},
	ActionPageUp:          {ActionPageUp, "Page up", "Scrolling"},
	ActionPageDown:        {ActionPageDown, "Page down", "Scrolling"},
	ActionPageLeft:        {ActionPageLeft, "Page left", "Scrolling"},
	ActionPageRight:       {ActionPageRight, "Page right", "Scrolling"},
	ActionGoToTop:         {ActionGoToTop, "First row", "Scrolling"},
	ActionGoToBottom:      {ActionGoToBottom, "Last row", "Scrolling"},
	ActionGoToLeftEdge:    {ActionGoToLeftEdge, "First column", "Scrolling"},
	ActionGoToRightEdge:   {ActionGoToRightEdge, "Last column", "Scrolling"},
	ActionFocusDimensions: {ActionFocusDimensions, "Focus slicing controls", "Slicing"},
	ActionFocusGrid:       {ActionFocusGrid, "Back to the grid", "Slicing"},
	ActionPrevDimension:   {ActionPrevDimension, "Previous dimension", "Slicing"},
	ActionNextDimension:   {ActionNextDimension, "Next dimension", "Slicing"},
	ActionIncrementIndex:  {ActionIncrementIndex, "Next index", "Slicing"},
	ActionDecrementIndex:  {ActionDecrementIndex, "Previous index", "Slicing"},
	ActionEditIndex:       {ActionEditIndex, "Type an index", "Slicing"},
	ActionOpenSwap:        {ActionOpenSwap, "Swap a viewing dimension", "Slicing"},
	ActionResetSpec:       {ActionResetSpec, "Reset to default slicing", "Slicing"},
	ActionNavigateUp:      {ActionNavigateUp, "Move up", "Lists"},
	ActionNavigateDown:    {ActionNavigateDown, "Move down", "Lists"},
	ActionSelect:          {ActionSelect, "Choose item", "Lists"},
	ActionSubmit:          {ActionSubmit, "Apply input", "Lists"},
	ActionCancel:          {ActionCancel, "Cancel", "Lists"},
	ActionCloseModal:      {ActionCloseModal, "Close", "Lists"},
	ActionOpenPicker:      {ActionOpenPicker, "Choose tensor", "Tools"},
	ActionOpenStats:       {ActionOpenStats, "Health pill", "Tools"},
	ActionOpenInspect:     {ActionOpenInspect, "Inspect slicing spec", "Tools"},
	ActionOpenHelp:        {ActionOpenHelp, "Help", "Tools"},
	ActionRefresh:         {ActionRefresh, "Refetch values", "Tools"},
	ActionNoOp:            {ActionNoOp, "Disabled", "Other"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one the UI handles
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	return action == ActionQuitForce
}
