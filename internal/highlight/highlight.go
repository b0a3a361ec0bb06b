// Package highlight colors JSON for terminal output.
package highlight

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultStyle     = "monokai"
	DefaultFormatter = "terminal256"
)

// JSON returns src with terminal color codes for the given chroma style.
// An unknown style falls back to chroma's default.
func JSON(src, style string) (string, error) {
	lexer := lexers.Get("json")
	if lexer == nil {
		return src, nil
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("failed to tokenize JSON: %w", err)
	}

	var buf bytes.Buffer
	if err := formatters.Get(DefaultFormatter).Format(&buf, styles.Get(style), iterator); err != nil {
		return "", fmt.Errorf("failed to highlight JSON: %w", err)
	}
	return buf.String(), nil
}

// IsTerminal reports whether w is a character device
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
