package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tensorflow/tensorboard-sub001/internal/config"
	"github.com/tensorflow/tensorboard-sub001/internal/history"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// iotaTensor creates a tensor holding 0..n-1 in row-major order
func iotaTensor(t *testing.T, name string, s shape.Shape) tensor.Named {
	t.Helper()
	values := make([]float64, s.NumElements())
	for i := range values {
		values[i] = float64(i)
	}
	return int32Tensor(t, name, s, values)
}

// filledTensor creates a tensor with every element set to value
func filledTensor(t *testing.T, name string, s shape.Shape, value float64) tensor.Named {
	t.Helper()
	values := make([]float64, s.NumElements())
	for i := range values {
		values[i] = value
	}
	return int32Tensor(t, name, s, values)
}

func int32Tensor(t *testing.T, name string, s shape.Shape, values []float64) tensor.Named {
	t.Helper()
	d, err := tensor.NewDense(tensor.Int32, s, values)
	if err != nil {
		t.Fatalf("Failed to create tensor %s: %v", name, err)
	}
	return tensor.Named{Name: name, View: d}
}

// CreateTestModel creates a Model for testing over the given tensors, with
// the default settings and keybindings and no spec store
func CreateTestModel(t *testing.T, tensors ...tensor.Named) *Model {
	t.Helper()
	return CreateTestModelWithOptions(t, Options{Settings: config.DefaultSettings()}, tensors...)
}

// CreateTestModelWithOptions creates a Model for testing with opts
func CreateTestModelWithOptions(t *testing.T, opts Options, tensors ...tensor.Named) *Model {
	t.Helper()

	timeout := messageTimeout
	messageTimeout = 0
	t.Cleanup(func() {
		messageTimeout = timeout
	})

	col := &tensor.Collection{Source: filepath.Join(t.TempDir(), "test.json"), Tensors: tensors}
	m, err := New(col, opts)
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	return &m
}

// CreateTestStore creates a spec store in a temporary directory
func CreateTestStore(t *testing.T) *history.Manager {
	t.Helper()
	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create spec store: %v", err)
	}
	t.Cleanup(func() {
		mgr.Close()
	})
	return mgr
}

// Resize sends a window size and runs the fetch it starts
func Resize(t *testing.T, m *Model, width, height int) {
	t.Helper()
	_, cmd := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	Drain(t, m, cmd)
}

// PressKey sends one key press and runs the commands it returns
func PressKey(t *testing.T, m *Model, key string) {
	t.Helper()
	_, cmd := m.Update(keyMsg(key))
	Drain(t, m, cmd)
}

// keyMsg builds the key message for a registry key name
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// Drain runs cmd and feeds the messages it produces back into the model.
// Quit and message timeouts are not fed back.
func Drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("Commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case nil, tea.QuitMsg, clearStatusMsg, clearErrorMsg:
		default:
			_, cmd := m.Update(msg)
			queue = append(queue, cmd)
		}
	}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
