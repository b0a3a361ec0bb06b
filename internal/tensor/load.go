package tensor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// LoadOptions tune how a file is read.
type LoadOptions struct {
	// Query is a JMESPath expression applied to JSON and YAML documents.
	Query string
}

// Load reads all tensors of a file, choosing the format by extension.
func Load(path string, opts LoadOptions) (*Collection, error) {
	var (
		tensors []Named
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".safetensors":
		if opts.Query != "" {
			return nil, errors.New("query is only supported for JSON and YAML files")
		}
		tensors, err = LoadSafetensors(path)
	case ".json", ".yaml", ".yml":
		tensors, err = LoadArrays(path, opts.Query)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return &Collection{Source: path, Tensors: tensors}, nil
}

// IsSupported reports whether Load understands the file's extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".safetensors", ".json", ".yaml", ".yml":
		return true
	}
	return false
}
