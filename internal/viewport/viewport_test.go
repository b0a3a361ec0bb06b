package viewport

import (
	"errors"
	"testing"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

var cells = Uniform{Row: 1, Column: 10}

func mustInit(t *testing.T, s shape.Shape, avail Size) State {
	t.Helper()
	st, err := Initialize(s, nil, avail, cells)
	if err != nil {
		t.Fatalf("Initialize(%v) failed: %v", []int(s), err)
	}
	return st
}

func assertRange(t *testing.T, name string, got *shape.Range, begin, end int) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s range is nil, want [%d, %d)", name, begin, end)
	}
	if got.Begin != begin || got.End != end {
		t.Errorf("%s range = %s, want [%d, %d)", name, got, begin, end)
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		shape      shape.Shape
		avail      Size
		rows, cols int
		rowsCut    bool
		colsCut    bool
	}{
		{"2D fits", shape.Shape{5, 3}, Size{Width: 100, Height: 10}, 5, 3, false, false},
		{"2D cut off", shape.Shape{50, 30}, Size{Width: 100, Height: 10}, 10, 10, true, true},
		{"exact fit", shape.Shape{10, 10}, Size{Width: 100, Height: 10}, 10, 10, false, false},
		{"no space still shows one", shape.Shape{4, 4}, Size{Width: 0, Height: 0}, 1, 1, true, true},
		{"4D uses last two dims", shape.Shape{2, 3, 20, 4}, Size{Width: 100, Height: 8}, 8, 4, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := mustInit(t, tt.shape, tt.avail)
			spec := st.Spec()

			assertRange(t, "vertical", spec.VerticalRange, 0, tt.rows)
			assertRange(t, "horizontal", spec.HorizontalRange, 0, tt.cols)
			if st.RowsFit() != tt.rows || st.ColsFit() != tt.cols {
				t.Errorf("fit = %dx%d, want %dx%d", st.RowsFit(), st.ColsFit(), tt.rows, tt.cols)
			}
			if st.RowsCutoff() != tt.rowsCut || st.ColsCutoff() != tt.colsCut {
				t.Errorf("cutoff = %v/%v, want %v/%v", st.RowsCutoff(), st.ColsCutoff(), tt.rowsCut, tt.colsCut)
			}
		})
	}
}

func TestInitialize_LowRank(t *testing.T) {
	scalar := mustInit(t, shape.Shape{}, Size{Width: 10, Height: 10})
	if spec := scalar.Spec(); spec.VerticalRange != nil || spec.HorizontalRange != nil {
		t.Error("Expected scalar ranges to stay nil")
	}

	vec := mustInit(t, shape.Shape{25}, Size{Width: 10, Height: 10})
	spec := vec.Spec()
	assertRange(t, "vertical", spec.VerticalRange, 0, 10)
	if spec.HorizontalRange != nil {
		t.Error("Expected 1D horizontal range to stay nil")
	}
	if !vec.RowsCutoff() || vec.ColsCutoff() {
		t.Errorf("cutoff = %v/%v, want true/false", vec.RowsCutoff(), vec.ColsCutoff())
	}

	empty := mustInit(t, shape.Shape{0, 5}, Size{Width: 100, Height: 10})
	assertRange(t, "vertical", empty.Spec().VerticalRange, 0, 0)
	if empty.RowsCutoff() {
		t.Error("Expected no cutoff for empty dimension")
	}
}

func TestInitialize_Prior(t *testing.T) {
	s := shape.Shape{3, 40, 40}
	prior := shape.DefaultSlicingSpec(s)
	prior.SlicingDimsAndIndices[0].Index = 2
	prior.VerticalRange = &shape.Range{Begin: 12, End: 20}

	st, err := Initialize(s, &prior, Size{Width: 50, Height: 5}, cells)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	spec := st.Spec()
	assertRange(t, "vertical", spec.VerticalRange, 12, 17)
	if index, _ := spec.SlicedIndex(0); index != 2 {
		t.Errorf("Expected pinned index 2 kept, got %d", index)
	}

	prior.VerticalRange.Begin = 7
	if st.Spec().VerticalRange.Begin != 12 {
		t.Error("State aliases the prior spec")
	}

	bad := shape.SlicingSpec{ViewingDims: []int{0}}
	if _, err := Initialize(s, &bad, Size{}, cells); !errors.Is(err, shape.ErrInvalidSpec) {
		t.Errorf("Expected ErrInvalidSpec for bad prior, got %v", err)
	}
}

func TestInitialize_BackfillsNearEnd(t *testing.T) {
	s := shape.Shape{20, 2}
	prior := shape.DefaultSlicingSpec(s)
	prior.VerticalRange = &shape.Range{Begin: 18, End: 20}

	st, err := Initialize(s, &prior, Size{Width: 50, Height: 5}, cells)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	assertRange(t, "vertical", st.Spec().VerticalRange, 15, 20)
}

func TestScrollVertically(t *testing.T) {
	st := mustInit(t, shape.Shape{30, 30}, Size{Width: 50, Height: 10})

	st, err := st.ScrollVertically(5)
	if err != nil {
		t.Fatalf("ScrollVertically failed: %v", err)
	}
	assertRange(t, "vertical", st.Spec().VerticalRange, 5, 15)

	// Soft clamp at the data boundary
	st, err = st.ScrollVertically(25)
	if err != nil {
		t.Fatalf("ScrollVertically failed: %v", err)
	}
	assertRange(t, "vertical", st.Spec().VerticalRange, 25, 30)

	for _, index := range []int{-1, 30, 100} {
		if _, err := st.ScrollVertically(index); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ScrollVertically(%d): expected ErrOutOfBounds, got %v", index, err)
		}
	}
}

func TestScrollHorizontally(t *testing.T) {
	st := mustInit(t, shape.Shape{4, 12}, Size{Width: 40, Height: 10})

	st, err := st.ScrollHorizontally(10)
	if err != nil {
		t.Fatalf("ScrollHorizontally failed: %v", err)
	}
	assertRange(t, "horizontal", st.Spec().HorizontalRange, 10, 12)

	if _, err := st.ScrollHorizontally(12); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}

	vec := mustInit(t, shape.Shape{12}, Size{Width: 40, Height: 10})
	same, err := vec.ScrollHorizontally(100)
	if err != nil {
		t.Errorf("Expected no-op for 1D horizontal scroll, got %v", err)
	}
	if same.Spec().HorizontalRange != nil {
		t.Error("1D horizontal scroll created a range")
	}

	scalar := mustInit(t, shape.Shape{}, Size{})
	if _, err := scalar.ScrollVertically(3); err != nil {
		t.Errorf("Expected no-op for scalar vertical scroll, got %v", err)
	}
}

func TestScroll_MissingRange(t *testing.T) {
	var st State
	st.shape = shape.Shape{4, 4}
	st.spec = shape.DefaultSlicingSpec(st.shape)

	if _, err := st.ScrollVertically(0); !errors.Is(err, ErrMissingRange) {
		t.Errorf("ScrollVertically: expected ErrMissingRange, got %v", err)
	}
	if _, err := st.ScrollStep(Right); !errors.Is(err, ErrMissingRange) {
		t.Errorf("ScrollStep: expected ErrMissingRange, got %v", err)
	}
}

func TestScrollStep(t *testing.T) {
	st := mustInit(t, shape.Shape{12, 12}, Size{Width: 50, Height: 10})

	// At the top already
	same, err := st.ScrollStep(Up)
	if err != nil {
		t.Fatalf("ScrollStep failed: %v", err)
	}
	assertRange(t, "vertical", same.Spec().VerticalRange, 0, 10)

	st, _ = st.ScrollStep(Down)
	assertRange(t, "vertical", st.Spec().VerticalRange, 1, 11)
	st, _ = st.ScrollStep(Down)
	st, _ = st.ScrollStep(Down)
	assertRange(t, "vertical", st.Spec().VerticalRange, 2, 12)

	st, _ = st.ScrollStep(Right)
	st, _ = st.ScrollStep(Right)
	assertRange(t, "horizontal", st.Spec().HorizontalRange, 2, 7)

	st, _ = st.ScrollStep(Left)
	assertRange(t, "horizontal", st.Spec().HorizontalRange, 1, 6)
}

func TestScrollStep_NoCutoff(t *testing.T) {
	st := mustInit(t, shape.Shape{3, 3}, Size{Width: 50, Height: 10})
	for _, dir := range []Direction{Up, Down, Left, Right} {
		next, err := st.ScrollStep(dir)
		if err != nil {
			t.Fatalf("ScrollStep(%s) failed: %v", dir, err)
		}
		assertRange(t, "vertical", next.Spec().VerticalRange, 0, 3)
		assertRange(t, "horizontal", next.Spec().HorizontalRange, 0, 3)
	}
}

func TestPageAndEdges(t *testing.T) {
	st := mustInit(t, shape.Shape{25, 3}, Size{Width: 50, Height: 10})

	st, _ = st.Page(Down)
	assertRange(t, "vertical", st.Spec().VerticalRange, 10, 20)
	st, _ = st.Page(Down)
	assertRange(t, "vertical", st.Spec().VerticalRange, 15, 25)
	st, _ = st.Page(Up)
	assertRange(t, "vertical", st.Spec().VerticalRange, 5, 15)

	st, _ = st.ScrollToEdge(Up)
	assertRange(t, "vertical", st.Spec().VerticalRange, 0, 10)
	st, _ = st.ScrollToEdge(Down)
	assertRange(t, "vertical", st.Spec().VerticalRange, 15, 25)
}

func TestEnsureVisible(t *testing.T) {
	st := mustInit(t, shape.Shape{40, 40}, Size{Width: 50, Height: 10})

	st, err := st.EnsureVisible(14, 2)
	if err != nil {
		t.Fatalf("EnsureVisible failed: %v", err)
	}
	assertRange(t, "vertical", st.Spec().VerticalRange, 5, 15)
	assertRange(t, "horizontal", st.Spec().HorizontalRange, 0, 5)

	st, _ = st.EnsureVisible(3, 7)
	assertRange(t, "vertical", st.Spec().VerticalRange, 3, 13)
	assertRange(t, "horizontal", st.Spec().HorizontalRange, 3, 8)

	// Already visible: nothing moves
	st, _ = st.EnsureVisible(4, 4)
	assertRange(t, "vertical", st.Spec().VerticalRange, 3, 13)

	empty := mustInit(t, shape.Shape{0, 4}, Size{Width: 50, Height: 10})
	if _, err := empty.EnsureVisible(0, 0); err != nil {
		t.Errorf("EnsureVisible on empty dimension failed: %v", err)
	}
}

func TestScroll_StaysInBounds(t *testing.T) {
	s := shape.Shape{17, 23}
	st := mustInit(t, s, Size{Width: 35, Height: 6})

	ops := []func(State) (State, error){
		func(x State) (State, error) { return x.ScrollStep(Down) },
		func(x State) (State, error) { return x.ScrollVertically(16) },
		func(x State) (State, error) { return x.Page(Right) },
		func(x State) (State, error) { return x.ScrollHorizontally(22) },
		func(x State) (State, error) { return x.ScrollStep(Left) },
		func(x State) (State, error) { return x.Page(Up) },
		func(x State) (State, error) { return x.ScrollToEdge(Right) },
	}

	for i, op := range ops {
		var err error
		st, err = op(st)
		if err != nil {
			t.Fatalf("op %d failed: %v", i, err)
		}
		spec := st.Spec()
		for _, r := range []*shape.Range{spec.VerticalRange, spec.HorizontalRange} {
			if r.Begin < 0 || r.Begin > r.End {
				t.Errorf("op %d: bad range %s", i, r)
			}
		}
		if spec.VerticalRange.End > s[0] || spec.HorizontalRange.End > s[1] {
			t.Errorf("op %d: range past data: %s %s", i, spec.VerticalRange, spec.HorizontalRange)
		}
	}
}

func TestState_Immutable(t *testing.T) {
	st := mustInit(t, shape.Shape{30, 30}, Size{Width: 50, Height: 10})
	_, _ = st.ScrollVertically(9)
	assertRange(t, "vertical", st.Spec().VerticalRange, 0, 10)
}
