package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tensorflow/tensorboard-sub001/internal/config"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// With the default settings a 40x12 terminal fits 6 rows and 3 columns of
// values.
const (
	testWidth  = 40
	testHeight = 12
)

func TestNew_InitializesState(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))

	AssertModelField(t, "mode", m.mode, ModeGrid)
	AssertModelField(t, "tensorIndex", m.tensorIndex, 0)
	AssertModelField(t, "dimFocus", m.dimFocus, 0)
	AssertModelField(t, "widget.Name()", m.widget.Name(), "weights")

	if m.fetch == nil || m.specChanges == nil {
		t.Fatal("state objects should be initialized")
	}
	AssertModelField(t, "fetch.IsLoading()", m.fetch.IsLoading(), false)
}

func TestNew_SelectsNamedTensor(t *testing.T) {
	opts := Options{Settings: config.DefaultSettings(), Tensor: "b"}
	m := CreateTestModelWithOptions(t, opts,
		iotaTensor(t, "a", shape.Shape{2, 2}),
		iotaTensor(t, "b", shape.Shape{3}))

	AssertModelField(t, "tensorIndex", m.tensorIndex, 1)
	AssertModelField(t, "widget.Name()", m.widget.Name(), "b")
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tensors []tensor.Named
		open    string
	}{
		{name: "no tensors"},
		{name: "unknown tensor", tensors: []tensor.Named{iotaTensor(t, "a", shape.Shape{2})}, open: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := &tensor.Collection{Source: "test.json", Tensors: tt.tensors}
			_, err := New(col, Options{Settings: config.DefaultSettings(), Tensor: tt.open})
			if !errors.Is(err, tensor.ErrTensorNotFound) {
				t.Errorf("Expected ErrTensorNotFound, got %v", err)
			}
		})
	}
}

func TestView_BeforeResize(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4}))

	if got := m.View(); got != "Initializing..." {
		t.Errorf("Expected Initializing..., got %q", got)
	}
}

func TestResize_FetchesValues(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	AssertModelField(t, "fetch.IsLoading()", m.fetch.IsLoading(), false)

	f := m.currentFrame()
	if f.Stale {
		t.Fatal("Expected values after resize")
	}
	if len(f.Cells) != 4 || len(f.Cells[0]) != 3 {
		t.Fatalf("Expected 4x3 cells, got %dx%d", len(f.Cells), len(f.Cells[0]))
	}
	AssertModelField(t, "Cells[1][2].Text", f.Cells[1][2].Text, "7")
	AssertModelField(t, "ColsCutoff", f.ColsCutoff, true)
	AssertModelField(t, "RowsCutoff", f.RowsCutoff, false)

	view := m.View()
	for _, want := range []string{"weights int32 [3,4,5]", "d0 0/3", "[GRID]"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestResize_Scalar(t *testing.T) {
	d, err := tensor.NewDense(tensor.Float32, shape.Shape{}, []float64{1.5})
	if err != nil {
		t.Fatalf("NewDense failed: %v", err)
	}
	m := CreateTestModel(t, tensor.Named{Name: "loss", View: d})
	Resize(t, m, testWidth, testHeight)

	f := m.currentFrame()
	if len(f.Cells) != 1 || len(f.Cells[0]) != 1 {
		t.Fatalf("Expected one cell, got %v", f.Cells)
	}

	PressKey(t, m, "tab")
	AssertModelField(t, "mode", m.mode, ModeGrid)
	AssertModelField(t, "statusMsg", m.statusMsg, "A scalar has no dimensions")
}

func TestUpdate_DropsStaleFetch(t *testing.T) {
	m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
	Resize(t, m, testWidth, testHeight)

	stale := m.requestFetch()
	fresh := m.requestFetch()

	// The newer fetch completes first; the older one must not replace it
	m.Update(fresh())
	staleMsg := stale()
	if msg, ok := staleMsg.(fetchedMsg); ok && msg.err == nil {
		_, cmd := m.Update(msg)
		Drain(t, m, cmd)
	}

	AssertModelField(t, "errorMsg", m.errorMsg, "")
	if m.currentFrame().Stale {
		t.Error("Expected the newer fetch to stay on screen")
	}
}

func TestUpdate_DropsFetchOfPreviousTensor(t *testing.T) {
	m := CreateTestModel(t,
		filledTensor(t, "a", shape.Shape{3, 3}, 1),
		filledTensor(t, "b", shape.Shape{3, 3}, 2))
	Resize(t, m, testWidth, testHeight)

	// A fetch of a is still in flight when b is shown
	late := m.requestFetch()()
	Drain(t, m, m.switchTensor(1))
	AssertModelField(t, "widget.Name()", m.widget.Name(), "b")

	_, cmd := m.Update(late)
	Drain(t, m, cmd)

	f := m.currentFrame()
	if f.Stale {
		t.Fatal("Expected values of b")
	}
	AssertModelField(t, "Cells[0][0].Text", f.Cells[0][0].Text, "2")
	AssertModelField(t, "errorMsg", m.errorMsg, "")
}

func TestUpdate_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		key  string
	}{
		{"q in grid", ModeGrid, "q"},
		{"q in dimension controls", ModeDimension, "q"},
		{"ctrl+c in index input", ModeIndexEdit, "ctrl+c"},
		{"ctrl+c in help", ModeHelp, "ctrl+c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CreateTestModel(t, iotaTensor(t, "weights", shape.Shape{3, 4, 5}))
			Resize(t, m, testWidth, testHeight)
			m.mode = tt.mode

			_, cmd := m.Update(keyMsg(tt.key))
			if !quits(cmd) {
				t.Errorf("Expected %s to quit", tt.key)
			}
		})
	}
}

// quits reports whether cmd, or one of the commands it batches, quits
func quits(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if quits(c) {
				return true
			}
		}
	}
	return false
}

func TestModeString(t *testing.T) {
	AssertModelField(t, "ModeGrid", ModeGrid.String(), "GRID")
	AssertModelField(t, "ModeDimension", ModeDimension.String(), "SLICE")
	AssertModelField(t, "ModeHelp", ModeHelp.String(), "HELP")
}

func TestTruncateMessage(t *testing.T) {
	short := "Copied 2x2 values"
	AssertModelField(t, "short", truncateMessage(short), short)

	long := strings.Repeat("x", StatusMaxLength+10)
	got := truncateMessage(long)
	AssertModelField(t, "len", len(got), StatusMaxLength)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ... suffix, got %q", got)
	}
}
