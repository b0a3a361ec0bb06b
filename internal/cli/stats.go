package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// StatsOptions contains options for the stats command
type StatsOptions struct {
	Path      string
	Query     string
	Workers   int
	Precision int
	Out       io.Writer
}

// TensorStats is the health pill of one tensor
type TensorStats struct {
	Name string
	Spec tensor.Spec
	Pill tensor.HealthPill
}

// ComputeStats computes the health pill of every tensor, at most workers at
// a time. Results keep the order of tensors. The first failure cancels the
// remaining work.
func ComputeStats(ctx context.Context, tensors []tensor.Named, workers int) ([]TensorStats, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]TensorStats, len(tensors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range tensors {
		g.Go(func() error {
			pill, err := t.View.HealthPill(ctx)
			if err != nil {
				return fmt.Errorf("health pill of %s: %w", t.Name, err)
			}
			log.Debugf("health pill of %s: %d elements, %d nan", t.Name, pill.Elements, pill.NaN)
			results[i] = TensorStats{Name: t.Name, Spec: t.View.Spec(), Pill: pill}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var statsHeaders = []string{
	"Tensor", "DType", "Shape", "Elements", "NaN", "-Inf", "+Inf",
	"Neg", "Zero", "Pos", "Min", "Max", "Mean", "Stddev",
}

// statsRow formats one table row
func statsRow(s TensorStats, precision int) []string {
	p := s.Pill
	format := func(v float64) string {
		return tensor.FormatValue(v, tensor.Float64, precision)
	}
	return []string{
		s.Name,
		string(s.Spec.DType),
		shape.FormatShapeForDisplay(s.Spec.Shape),
		strconv.Itoa(p.Elements),
		strconv.Itoa(p.NaN),
		strconv.Itoa(p.NegInf),
		strconv.Itoa(p.PosInf),
		strconv.Itoa(p.Negative),
		strconv.Itoa(p.Zero),
		strconv.Itoa(p.Positive),
		format(p.Min),
		format(p.Max),
		format(p.Mean),
		format(p.Stddev),
	}
}

// Stats prints the health pill of every tensor in a file
func Stats(ctx context.Context, opts StatsOptions) error {
	col, err := loadCollection(opts.Path, opts.Query)
	if err != nil {
		return err
	}

	stats, err := ComputeStats(ctx, col.Tensors, opts.Workers)
	if err != nil {
		return err
	}

	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = statsRow(s, opts.Precision)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(statsHeaders...).
		Rows(rows...)

	_, err = fmt.Fprintln(opts.Out, t.Render())
	return err
}
