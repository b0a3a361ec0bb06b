// Package history persists slicing specs so a tensor reopens the way it was
// last viewed.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

// Entry is one stored spec
type Entry struct {
	ID         int64             `json:"id"`
	SourcePath string            `json:"sourcePath"`
	TensorName string            `json:"tensorName"`
	Shape      shape.Shape       `json:"shape"`
	Spec       shape.SlicingSpec `json:"spec"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// SourceKey normalizes a file path for use as a store key, so the same file
// opened through different relative paths shares its specs.
func SourceKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Export writes entries as indented JSON
func Export(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode slicing specs: %w", err)
	}
	return nil
}
