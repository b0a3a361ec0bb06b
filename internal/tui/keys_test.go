package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/tensorflow/tensorboard-sub001/internal/config"
	"github.com/tensorflow/tensorboard-sub001/internal/keybinds"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// slicedIndex returns the pinned index of dim, failing when dim is viewed
func slicedIndex(t *testing.T, m *Model, dim int) int {
	t.Helper()
	index, ok := m.widget.SlicingSpec().SlicedIndex(dim)
	if !ok {
		t.Fatalf("Expected d%d to be pinned", dim)
	}
	return index
}

func TestGridKeys_MoveSelection(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "j")
	PressKey(t, m, "down")
	PressKey(t, m, "l")

	row, col := m.widget.Cursor()
	AssertModelField(t, "cursor row", row, 2)
	AssertModelField(t, "cursor col", col, 1)

	// Moving past the last visible column scrolls the window
	for i := 0; i < 3; i++ {
		PressKey(t, m, "right")
	}
	_, col = m.widget.Cursor()
	AssertModelField(t, "cursor col", col, 4)
	r := m.widget.SlicingSpec().HorizontalRange
	AssertModelField(t, "HorizontalRange.End", r.End, 5)

	f := m.currentFrame()
	if f.Stale {
		t.Fatal("Expected values after scrolling")
	}
	AssertModelField(t, "first column", f.ColIndices[0], 2)
}

func TestGridKeys_Scrolling(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{2, 20, 3}))
	Resize(t, m, testWidth, testHeight)

	begin := func() int { return m.widget.SlicingSpec().VerticalRange.Begin }

	PressKey(t, m, "G")
	AssertModelField(t, "begin after G", begin(), 14)

	// First g of gg waits for the second
	PressKey(t, m, "g")
	AssertModelField(t, "begin after g", begin(), 14)
	AssertModelField(t, "pending", m.keybinds.Pending(keybinds.ContextGrid), "g")

	PressKey(t, m, "g")
	AssertModelField(t, "begin after gg", begin(), 0)

	PressKey(t, m, "ctrl+d")
	PressKey(t, m, "pgdown")
	AssertModelField(t, "begin after two pages", begin(), 12)

	PressKey(t, m, "pgup")
	AssertModelField(t, "begin after page up", begin(), 6)

	f := m.currentFrame()
	AssertModelField(t, "first row", f.RowIndices[0], 6)
	AssertModelField(t, "first value", f.Cells[0][0].Text, "18")
}

func TestGridKeys_StepIndex(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "]")
	AssertModelField(t, "index after ]", slicedIndex(t, m, 0), 1)
	AssertModelField(t, "first value", m.currentFrame().Cells[0][0].Text, "20")

	PressKey(t, m, "]")
	PressKey(t, m, "]")
	AssertModelField(t, "index is clamped", slicedIndex(t, m, 0), 2)

	PressKey(t, m, "[")
	AssertModelField(t, "index after [", slicedIndex(t, m, 0), 1)

	PressKey(t, m, "R")
	AssertModelField(t, "index after reset", slicedIndex(t, m, 0), 0)
}

func TestGridKeys_StepWithoutPinnedDimension(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "]")
	AssertModelField(t, "statusMsg", m.statusMsg, "No pinned dimension to step")
}

func TestDimensionKeys(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "tab")
	AssertModelField(t, "mode", m.mode, ModeDimension)
	AssertModelField(t, "dimFocus", m.dimFocus, 0)

	PressKey(t, m, "k")
	AssertModelField(t, "index after k", slicedIndex(t, m, 0), 1)

	PressKey(t, m, "l")
	AssertModelField(t, "dimFocus after l", m.dimFocus, 1)

	PressKey(t, m, "k")
	AssertModelField(t, "statusMsg", m.statusMsg, "No pinned dimension to step")

	PressKey(t, m, "h")
	PressKey(t, m, "h")
	AssertModelField(t, "dimFocus wraps", m.dimFocus, 2)

	PressKey(t, m, "esc")
	AssertModelField(t, "mode", m.mode, ModeGrid)
}

func TestIndexEditKeys(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIndex int
		wantError bool
	}{
		{name: "valid index", input: "2", wantIndex: 2},
		{name: "out of range", input: "9", wantIndex: 1, wantError: true},
		{name: "not a number", input: "x", wantIndex: 1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
			Resize(t, m, testWidth, testHeight)

			PressKey(t, m, "tab")
			PressKey(t, m, "k")
			PressKey(t, m, "e")
			AssertModelField(t, "mode", m.mode, ModeIndexEdit)
			AssertModelField(t, "input", m.indexInput.Value(), "1")

			PressKey(t, m, "backspace")
			PressKey(t, m, tt.input)
			PressKey(t, m, "enter")

			AssertModelField(t, "mode", m.mode, ModeDimension)
			AssertModelField(t, "index", slicedIndex(t, m, 0), tt.wantIndex)
			AssertModelField(t, "has error", m.errorMsg != "", tt.wantError)
		})
	}
}

func TestIndexEditKeys_Cancel(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "tab")
	PressKey(t, m, "e")
	PressKey(t, m, "2")
	// q is typed into the input, it does not quit
	PressKey(t, m, "q")
	PressKey(t, m, "esc")

	AssertModelField(t, "mode", m.mode, ModeDimension)
	AssertModelField(t, "index", slicedIndex(t, m, 0), 0)
}

func TestIndexEditKeys_ViewingDimension(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "tab")
	PressKey(t, m, "l")
	PressKey(t, m, "e")

	AssertModelField(t, "mode", m.mode, ModeDimension)
	AssertModelField(t, "statusMsg", m.statusMsg, "d1 is a viewing dimension, press s to swap")
}

func TestSwapKeys(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	// Rows must stay before columns, so d0 can only replace the row dim d1
	PressKey(t, m, "s")
	AssertModelField(t, "mode", m.mode, ModeSwap)
	AssertModelField(t, "options", len(m.swapOptions), 1)
	AssertModelField(t, "option", m.swapOptions[0], swapOption{pos: 0, dim: 0})
	if !strings.Contains(m.View(), "Swap viewing dimension") {
		t.Error("Expected the swap menu")
	}

	PressKey(t, m, "enter")
	AssertModelField(t, "mode", m.mode, ModeGrid)

	spec := m.widget.SlicingSpec()
	rowDim, _ := spec.RowDim()
	AssertModelField(t, "row dim", rowDim, 0)
	AssertModelField(t, "d1 index", slicedIndex(t, m, 1), 0)
	AssertModelField(t, "statusMsg", m.statusMsg, "Viewing d0 as rows")

	// Rows are now d0: element (r, 0, c) is r*20 + c
	f := m.currentFrame()
	AssertModelField(t, "value", f.Cells[2][1].Text, "41")
}

func TestSwapKeys_Columns(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "s")
	PressKey(t, m, "enter")

	// With d0 as rows, d1 may replace either viewing dim
	PressKey(t, m, "s")
	AssertModelField(t, "options", len(m.swapOptions), 2)
	AssertModelField(t, "first option", m.swapOptions[0], swapOption{pos: 0, dim: 1})
	AssertModelField(t, "second option", m.swapOptions[1], swapOption{pos: 1, dim: 1})

	PressKey(t, m, "down")
	PressKey(t, m, "enter")

	colDim, _ := m.widget.SlicingSpec().ColDim()
	AssertModelField(t, "col dim", colDim, 1)
	AssertModelField(t, "d2 index", slicedIndex(t, m, 2), 0)
	AssertModelField(t, "statusMsg", m.statusMsg, "Viewing d1 as cols")

	// Element (r, c, 0) is r*20 + c*5
	AssertModelField(t, "value", m.currentFrame().Cells[2][1].Text, "45")
}

func TestSwapKeys_FromDimension(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	// Focused on the pinned d0: it can only become the row dim
	PressKey(t, m, "tab")
	PressKey(t, m, "s")
	AssertModelField(t, "mode", m.mode, ModeSwap)
	AssertModelField(t, "options", len(m.swapOptions), 1)
	AssertModelField(t, "option", m.swapOptions[0], swapOption{pos: 0, dim: 0})

	PressKey(t, m, "esc")
	AssertModelField(t, "mode", m.mode, ModeGrid)

	// The column dim d2 cannot be replaced while d1 is the row dim
	PressKey(t, m, "tab")
	PressKey(t, m, "l")
	PressKey(t, m, "l")
	PressKey(t, m, "s")
	AssertModelField(t, "mode", m.mode, ModeDimension)
	AssertModelField(t, "options", len(m.swapOptions), 0)
	AssertModelField(t, "statusMsg", m.statusMsg, "No dimension to swap in")

	colDim, _ := m.widget.SlicingSpec().ColDim()
	AssertModelField(t, "col dim", colDim, 2)
}

func TestSwapKeys_NothingToSwap(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "s")
	AssertModelField(t, "mode", m.mode, ModeGrid)
	AssertModelField(t, "statusMsg", m.statusMsg, "No dimension to swap in")
}

func TestCopySelection(t *testing.T) {
	var copied string
	original := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() {
		clipboardWrite = original
	})

	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "J")
	PressKey(t, m, "shift+right")
	PressKey(t, m, "y")

	AssertModelField(t, "copied", copied, "0\t1\n5\t6\n")
	AssertModelField(t, "statusMsg", m.statusMsg, "Copied 2x2 values")
}

func TestCopySelection_Error(t *testing.T) {
	original := clipboardWrite
	clipboardWrite = func(string) error {
		return errors.New("no clipboard")
	}
	t.Cleanup(func() {
		clipboardWrite = original
	})

	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "y")
	AssertModelField(t, "errorMsg", m.errorMsg, "Copy failed: no clipboard")
}

func TestPickerKeys(t *testing.T) {
	m := CreateTestModel(t,
		iotaTensor(t, "a", shape.Shape{2, 3}),
		iotaTensor(t, "b", shape.Shape{4}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "t")
	AssertModelField(t, "mode", m.mode, ModePicker)

	PressKey(t, m, "down")
	PressKey(t, m, "enter")

	AssertModelField(t, "mode", m.mode, ModeGrid)
	AssertModelField(t, "tensorIndex", m.tensorIndex, 1)
	AssertModelField(t, "widget.Name()", m.widget.Name(), "b")

	f := m.currentFrame()
	if f.Stale {
		t.Fatal("Expected values of the new tensor")
	}
	AssertModelField(t, "rows", len(f.Cells), 4)
	AssertModelField(t, "cols", len(f.Cells[0]), 1)
	AssertModelField(t, "last value", f.Cells[3][0].Text, "3")
}

func TestPickerKeys_Cancel(t *testing.T) {
	m := CreateTestModel(t,
		iotaTensor(t, "a", shape.Shape{2, 3}),
		iotaTensor(t, "b", shape.Shape{4}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "t")
	PressKey(t, m, "down")
	PressKey(t, m, "esc")

	AssertModelField(t, "mode", m.mode, ModeGrid)
	AssertModelField(t, "widget.Name()", m.widget.Name(), "a")
}

func TestModalKeys(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, 100, 40)

	PressKey(t, m, "p")
	AssertModelField(t, "mode", m.mode, ModeStats)
	if m.pill == nil {
		t.Fatal("Expected the health pill to be computed")
	}
	AssertModelField(t, "Elements", m.pill.Elements, 60)
	AssertModelField(t, "Zero", m.pill.Zero, 1)
	PressKey(t, m, "esc")
	AssertModelField(t, "mode", m.mode, ModeGrid)

	PressKey(t, m, "i")
	AssertModelField(t, "mode", m.mode, ModeInspect)
	if !strings.Contains(m.modalView.View(), "slicing_spec") {
		t.Error("Expected the inspector to show the slicing spec")
	}
	PressKey(t, m, "q")
	AssertModelField(t, "mode", m.mode, ModeGrid)

	PressKey(t, m, "?")
	AssertModelField(t, "mode", m.mode, ModeHelp)
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("Expected the help screen")
	}
	PressKey(t, m, "esc")
	AssertModelField(t, "mode", m.mode, ModeGrid)
}

func TestSpecStore_SavesAndRestores(t *testing.T) {
	store := CreateTestStore(t)
	col := &tensor.Collection{
		Source:  "/data/run.json",
		Tensors: []tensor.Named{iotaTensor(t, "weights", shape.Shape{3, 4, 5})},
	}
	opts := Options{Settings: config.DefaultSettings(), Store: store}

	first, err := New(col, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	Resize(t, &first, testWidth, testHeight)
	PressKey(t, &first, "]")
	PressKey(t, &first, "]")

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 stored spec, got %d", len(entries))
	}
	index, _ := entries[0].Spec.SlicedIndex(0)
	AssertModelField(t, "stored index", index, 2)

	second, err := New(col, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	AssertModelField(t, "restored index", slicedIndex(t, &second, 0), 2)

	Resize(t, &second, testWidth, testHeight)
	AssertModelField(t, "first value", second.currentFrame().Cells[0][0].Text, "40")
}

func TestSpecStore_ResetIsSaved(t *testing.T) {
	store := CreateTestStore(t)
	m := CreateTestModelWithOptions(t, Options{Settings: config.DefaultSettings(), Store: store},
		iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "]")
	PressKey(t, m, "R")

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 stored spec, got %d", len(entries))
	}
	index, _ := entries[0].Spec.SlicedIndex(0)
	AssertModelField(t, "stored index", index, 0)
}

func TestCustomKeybinds(t *testing.T) {
	registry := keybinds.NewDefaultRegistry()
	registry.Register(keybinds.ContextGrid, "n", keybinds.ActionIncrementIndex)
	registry.Register(keybinds.ContextGrid, "]", keybinds.ActionNoOp)

	opts := Options{Settings: config.DefaultSettings(), Keybinds: registry}
	m := CreateTestModelWithOptions(t, opts, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	PressKey(t, m, "]")
	AssertModelField(t, "index after disabled key", slicedIndex(t, m, 0), 0)

	PressKey(t, m, "n")
	AssertModelField(t, "index after n", slicedIndex(t, m, 0), 1)
}
