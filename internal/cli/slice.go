package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/slicing"
	"github.com/tensorflow/tensorboard-sub001/internal/viewport"
	"github.com/tensorflow/tensorboard-sub001/internal/widget"
)

// NoSwap leaves a viewing dimension in place
const NoSwap = -1

// SliceOptions contains options for the slice command
type SliceOptions struct {
	Path   string
	Query  string
	Tensor string

	// Indices pin sliced dimensions, each written "dim=index"
	Indices  []string
	SwapRows int
	SwapCols int

	Rows     int
	Cols     int
	RowStart int
	ColStart int

	Precision int
	CellWidth int
	ColumnGap int
	Out       io.Writer
}

// parseIndexFlag splits a "dim=index" flag value
func parseIndexFlag(value string) (dim, index int, err error) {
	dimText, indexText, ok := strings.Cut(value, "=")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --index %q, expected dim=index", value)
	}
	dim, err = strconv.Atoi(strings.TrimSpace(dimText))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid dimension in --index %q", value)
	}
	index, err = slicing.ParseIndex(indexText)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --index %q: %w", value, err)
	}
	return dim, index, nil
}

// BuildSpec applies the swap and index flags to the default spec of s
func BuildSpec(s shape.Shape, opts SliceOptions) (shape.SlicingSpec, error) {
	spec := shape.DefaultSlicingSpec(s)

	var err error
	if opts.SwapRows != NoSwap {
		if spec, err = slicing.SwapViewingDimension(s, spec, slicing.RowPos, opts.SwapRows); err != nil {
			return spec, err
		}
	}
	if opts.SwapCols != NoSwap {
		if spec, err = slicing.SwapViewingDimension(s, spec, slicing.ColPos, opts.SwapCols); err != nil {
			return spec, err
		}
	}

	for _, value := range opts.Indices {
		dim, index, err := parseIndexFlag(value)
		if err != nil {
			return spec, err
		}
		if spec, err = slicing.ChangeSlicedIndex(s, spec, dim, index); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// Slice prints one window of a tensor
func Slice(ctx context.Context, opts SliceOptions) error {
	col, err := loadCollection(opts.Path, opts.Query)
	if err != nil {
		return err
	}
	named, err := resolveTensor(col, opts.Tensor, true)
	if err != nil {
		return err
	}

	spec, err := BuildSpec(named.View.Spec().Shape, opts)
	if err != nil {
		return err
	}

	columnWidth := opts.CellWidth + opts.ColumnGap
	w, err := widget.New(named.View, widget.Options{
		Name:      named.Name,
		Precision: opts.Precision,
		Measurer:  viewport.Uniform{Row: 1, Column: columnWidth},
	})
	if err != nil {
		return err
	}
	if err := w.SetSlicingSpec(spec); err != nil {
		return err
	}

	avail := viewport.Size{Width: opts.Cols * columnWidth, Height: opts.Rows}
	if err := w.Layout(avail); err != nil {
		return err
	}
	if opts.RowStart > 0 {
		if err := w.ScrollVertically(opts.RowStart); err != nil {
			return err
		}
	}
	if opts.ColStart > 0 {
		if err := w.ScrollHorizontally(opts.ColStart); err != nil {
			return err
		}
	}

	frame, err := w.Render(ctx, avail)
	if err != nil {
		return err
	}
	return WriteFrame(opts.Out, frame, opts.CellWidth, opts.ColumnGap)
}

// WriteFrame prints a frame as plain text: the header, the slicing
// controls, then the visible values with their row and column indices.
func WriteFrame(out io.Writer, f widget.Frame, cellWidth, gap int) error {
	var sb strings.Builder
	sb.WriteString(f.Header())
	sb.WriteByte('\n')

	labels := make([]string, len(f.Controls))
	for i, c := range f.Controls {
		labels[i] = c.Label()
	}
	if len(labels) > 0 {
		sb.WriteString(strings.Join(labels, "  "))
		sb.WriteByte('\n')
	}

	switch {
	case f.Stale:
		sb.WriteString("(no values)\n")
	case f.Cells == nil:
		sb.WriteString("(empty)\n")
	default:
		writeGrid(&sb, f, cellWidth, gap)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func writeGrid(sb *strings.Builder, f widget.Frame, cellWidth, gap int) {
	labelWidth := 0
	for _, row := range f.RowIndices {
		labelWidth = max(labelWidth, len(strconv.Itoa(row)))
	}
	pad := strings.Repeat(" ", gap)
	cell := func(text string) string {
		return runewidth.FillLeft(runewidth.Truncate(text, cellWidth, "…"), cellWidth)
	}

	if len(f.ColIndices) > 0 {
		sb.WriteString(strings.Repeat(" ", labelWidth))
		for _, col := range f.ColIndices {
			sb.WriteString(pad)
			sb.WriteString(cell(strconv.Itoa(col)))
		}
		if f.ColsCutoff {
			sb.WriteString(" …")
		}
		sb.WriteByte('\n')
	}

	for i, row := range f.Cells {
		label := ""
		if i < len(f.RowIndices) {
			label = strconv.Itoa(f.RowIndices[i])
		}
		sb.WriteString(runewidth.FillLeft(label, labelWidth))
		for _, c := range row {
			sb.WriteString(pad)
			sb.WriteString(cell(c.Text))
		}
		sb.WriteByte('\n')
	}
	if f.RowsCutoff {
		sb.WriteString(runewidth.FillLeft("⋮", labelWidth))
		sb.WriteByte('\n')
	}
}
