package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerGridBindings(r)
	registerDimensionBindings(r)
	registerIndexEditBindings(r)
	registerSwapBindings(r)
	registerPickerBindings(r)
	registerModalBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerGridBindings sets up the bindings of the value grid
func registerGridBindings(r *Registry) {
	r.Register(ContextGrid, "q", ActionQuit)

	// Selection
	r.RegisterMultiple(ContextGrid, []string{"up", "k"}, ActionMoveUp)
	r.RegisterMultiple(ContextGrid, []string{"down", "j"}, ActionMoveDown)
	r.RegisterMultiple(ContextGrid, []string{"left", "h"}, ActionMoveLeft)
	r.RegisterMultiple(ContextGrid, []string{"right", "l"}, ActionMoveRight)
	r.RegisterMultiple(ContextGrid, []string{"shift+up", "K"}, ActionExtendUp)
	r.RegisterMultiple(ContextGrid, []string{"shift+down", "J"}, ActionExtendDown)
	r.RegisterMultiple(ContextGrid, []string{"shift+left", "H"}, ActionExtendLeft)
	r.RegisterMultiple(ContextGrid, []string{"shift+right", "L"}, ActionExtendRight)
	r.Register(ContextGrid, "y", ActionCopySelection)

	// Scrolling
	r.RegisterMultiple(ContextGrid, []string{"pgup", "ctrl+u"}, ActionPageUp)
	r.RegisterMultiple(ContextGrid, []string{"pgdown", "ctrl+d"}, ActionPageDown)
	r.Register(ContextGrid, "<", ActionPageLeft)
	r.Register(ContextGrid, ">", ActionPageRight)
	r.Register(ContextGrid, "gg", ActionGoToTop)
	r.Register(ContextGrid, "G", ActionGoToBottom)
	r.RegisterMultiple(ContextGrid, []string{"0", "home"}, ActionGoToLeftEdge)
	r.RegisterMultiple(ContextGrid, []string{"$", "end"}, ActionGoToRightEdge)

	// Slicing
	r.Register(ContextGrid, "tab", ActionFocusDimensions)
	r.Register(ContextGrid, "]", ActionIncrementIndex)
	r.Register(ContextGrid, "[", ActionDecrementIndex)
	r.Register(ContextGrid, "s", ActionOpenSwap)
	r.Register(ContextGrid, "R", ActionResetSpec)

	// Tools
	r.Register(ContextGrid, "t", ActionOpenPicker)
	r.Register(ContextGrid, "p", ActionOpenStats)
	r.Register(ContextGrid, "i", ActionOpenInspect)
	r.Register(ContextGrid, "?", ActionOpenHelp)
	r.Register(ContextGrid, "r", ActionRefresh)
}

// registerDimensionBindings sets up the bindings of the slicing controls
func registerDimensionBindings(r *Registry) {
	r.Register(ContextDimension, "q", ActionQuit)
	r.RegisterMultiple(ContextDimension, []string{"tab", "esc"}, ActionFocusGrid)
	r.RegisterMultiple(ContextDimension, []string{"left", "h", "shift+tab"}, ActionPrevDimension)
	r.RegisterMultiple(ContextDimension, []string{"right", "l"}, ActionNextDimension)
	r.RegisterMultiple(ContextDimension, []string{"up", "k", "+"}, ActionIncrementIndex)
	r.RegisterMultiple(ContextDimension, []string{"down", "j", "-"}, ActionDecrementIndex)
	r.RegisterMultiple(ContextDimension, []string{"enter", "e"}, ActionEditIndex)
	r.Register(ContextDimension, "s", ActionOpenSwap)
	r.Register(ContextDimension, "?", ActionOpenHelp)
}

// registerIndexEditBindings only claims the keys that end editing. All other
// keys go to the text input.
func registerIndexEditBindings(r *Registry) {
	r.Register(ContextIndexEdit, "enter", ActionSubmit)
	r.Register(ContextIndexEdit, "esc", ActionCancel)
}

func registerSwapBindings(r *Registry) {
	r.RegisterMultiple(ContextSwap, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextSwap, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextSwap, "enter", ActionSelect)
	r.RegisterMultiple(ContextSwap, []string{"esc", "q", "s"}, ActionCancel)
}

// registerPickerBindings leaves navigation and filtering to the list
func registerPickerBindings(r *Registry) {
	r.Register(ContextPicker, "enter", ActionSelect)
	r.Register(ContextPicker, "esc", ActionCancel)
}

func registerModalBindings(r *Registry) {
	r.RegisterMultiple(ContextModal, []string{"esc", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextModal, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextModal, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextModal, "pgup", ActionPageUp)
	r.Register(ContextModal, "pgdown", ActionPageDown)
}
