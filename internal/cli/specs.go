package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tensorflow/tensorboard-sub001/internal/history"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/slicing"
)

// ListSpecs prints the stored slicing specs, as a table or as JSON
func ListSpecs(mgr *history.Manager, out io.Writer, asJSON bool) error {
	entries, err := mgr.List()
	if err != nil {
		return err
	}

	if asJSON {
		return history.Export(out, entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No stored slicing specs")
		return err
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.FormatInt(e.ID, 10),
			e.SourcePath,
			e.TensorName,
			shape.FormatShapeForDisplay(e.Shape),
			slicing.DescribeLine(e.Shape, e.Spec),
			e.UpdatedAt.Format("2006-01-02 15:04"),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Source", "Tensor", "Shape", "Slicing", "Updated").
		Rows(rows...)

	_, err = fmt.Fprintln(out, t.Render())
	return err
}

// ClearSpecs deletes the stored specs of one source file, or all of them
// when source is empty
func ClearSpecs(mgr *history.Manager, source string, out io.Writer) error {
	if source == "" {
		count, err := mgr.GetCount()
		if err != nil {
			return err
		}
		if err := mgr.Clear(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Deleted %d slicing specs\n", count)
		return err
	}

	n, err := mgr.DeleteSource(history.SourceKey(source))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Deleted %d slicing specs of %s\n", n, source)
	return err
}
