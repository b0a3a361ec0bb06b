package slicing

import (
	"fmt"
	"strings"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

// Role is what a dimension does in the current spec.
type Role int

const (
	RoleSliced Role = iota
	RoleRow
	RoleColumn
)

func (r Role) String() string {
	switch r {
	case RoleRow:
		return "rows"
	case RoleColumn:
		return "cols"
	default:
		return "slice"
	}
}

// DimControl describes one dimension for the slicing control header.
type DimControl struct {
	Dim   int
	Size  int
	Role  Role
	Index int         // pinned index for sliced dims
	Range *shape.Range // visible range for viewing dims, nil until laid out
	// SwapTargets lists the sliced dimensions that can take this viewing
	// dimension's place. Empty for sliced dimensions.
	SwapTargets []int
}

// Label renders the control as a short string, e.g. "d0 3/10" for a sliced
// dimension or "d2 rows 0-19/30" for a viewing one.
func (c DimControl) Label() string {
	switch c.Role {
	case RoleSliced:
		if c.Index == shape.NoIndex {
			return fmt.Sprintf("d%d -/%d", c.Dim, c.Size)
		}
		return fmt.Sprintf("d%d %d/%d", c.Dim, c.Index, c.Size)
	default:
		if c.Range == nil || c.Range.Len() == 0 {
			return fmt.Sprintf("d%d %s ?/%d", c.Dim, c.Role, c.Size)
		}
		return fmt.Sprintf("d%d %s %d-%d/%d", c.Dim, c.Role, c.Range.Begin, c.Range.End-1, c.Size)
	}
}

// Describe builds one control per dimension, in dimension order.
func Describe(s shape.Shape, spec shape.SlicingSpec) []DimControl {
	controls := make([]DimControl, s.Rank())
	for dim := range controls {
		controls[dim] = DimControl{Dim: dim, Size: s[dim], Index: shape.NoIndex}
	}

	for _, di := range spec.SlicingDimsAndIndices {
		if di.Dim >= 0 && di.Dim < len(controls) {
			controls[di.Dim].Index = di.Index
		}
	}

	ranges := []*shape.Range{spec.VerticalRange, spec.HorizontalRange}
	roles := []Role{RoleRow, RoleColumn}
	for pos, dim := range spec.ViewingDims {
		if pos > 1 || dim < 0 || dim >= len(controls) {
			continue
		}
		controls[dim].Role = roles[pos]
		if ranges[pos] != nil {
			r := *ranges[pos]
			controls[dim].Range = &r
		}
		controls[dim].SwapTargets = SwapCandidates(spec, pos)
	}

	return controls
}

// DescribeLine joins the labels of all controls.
func DescribeLine(s shape.Shape, spec shape.SlicingSpec) string {
	controls := Describe(s, spec)
	labels := make([]string, len(controls))
	for i, c := range controls {
		labels[i] = c.Label()
	}
	return strings.Join(labels, "  ")
}
