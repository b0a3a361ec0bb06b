package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin       = 6  // Standard horizontal margin (m.width - 6)
	ModalHeightMargin      = 3  // Standard vertical margin (m.height - 3)
	ModalWidthMarginNarrow = 10 // Narrow horizontal margin for focused modals (m.width - 10)
	ModalHeightMarginMed   = 4  // Medium vertical margin (m.height - 4)

	// Modal Content Calculations
	ModalOverheadLines = 8 // Border (2) + padding (2) + title (2) + footer (2)

	// Grid Layout
	GridBorderWidth  = 2 // Width consumed by the grid border
	GridBorderHeight = 2 // Height consumed by the grid border
	HeaderLines      = 2 // Tensor header + slicing controls
	ColumnIndexLines = 1 // Column index row above the values
	StatusBarLines   = 1 // Status bar under the grid
	RowLabelPadding  = 1 // Space between row index and first value

	// Picker Layout
	PickerWidth  = 60
	PickerHeight = 20

	// Swap Menu Layout
	SwapMenuWidth = 40

	// Messages
	StatusMaxLength = 100 // Longer status messages are truncated in the footer
)
