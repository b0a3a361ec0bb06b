package tensor

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestParseArrays(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		query     string
		wantNames []string
		wantShape []int
		wantDType DType
	}{
		{"json matrix", `[[1, 2, 3], [4, 5, 6]]`, "", []string{"tensor"}, []int{2, 3}, Int64},
		{"yaml floats", "- [1.5, 2]\n- [3, 4]\n", "", []string{"tensor"}, []int{2, 2}, Float64},
		{"scalar", `3.5`, "", []string{"tensor"}, []int{}, Float64},
		{"booleans", `[true, false]`, "", []string{"tensor"}, []int{2}, Bool},
		{"empty", `[]`, "", []string{"tensor"}, []int{0}, Float64},
		{"query", `{"model": {"w": [[[1]], [[2]]]}}`, "model.w", []string{"model.w"}, []int{2, 1, 1}, Int64},
		{"object of arrays", "b: [1, 2]\na: [[0.5]]\nname: run1\n", "", []string{"a", "b"}, []int{1, 1}, Float64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tensors, err := ParseArrays([]byte(tt.doc), tt.query)
			if err != nil {
				t.Fatalf("ParseArrays failed: %v", err)
			}
			if len(tensors) != len(tt.wantNames) {
				t.Fatalf("Expected %d tensors, got %d", len(tt.wantNames), len(tensors))
			}
			for i, name := range tt.wantNames {
				if tensors[i].Name != name {
					t.Errorf("tensor %d = %q, want %q", i, tensors[i].Name, name)
				}
			}
			spec := tensors[0].View.Spec()
			if !spec.Shape.Equal(tt.wantShape) {
				t.Errorf("shape = %v, want %v", spec.Shape, tt.wantShape)
			}
			if spec.DType != tt.wantDType {
				t.Errorf("dtype = %s, want %s", spec.DType, tt.wantDType)
			}
		})
	}
}

func TestParseArrays_Values(t *testing.T) {
	tensors, err := ParseArrays([]byte(`[[1, "NaN"], ["-Infinity", 2.5]]`), "")
	if err != nil {
		t.Fatalf("ParseArrays failed: %v", err)
	}
	ctx := context.Background()
	v := tensors[0].View

	if got, _ := v.Get(ctx, 0, 0); got != 1 {
		t.Errorf("[0,0] = %v, want 1", got)
	}
	if got, _ := v.Get(ctx, 0, 1); !math.IsNaN(got) {
		t.Errorf("[0,1] = %v, want NaN", got)
	}
	if got, _ := v.Get(ctx, 1, 0); !math.IsInf(got, -1) {
		t.Errorf("[1,0] = %v, want -Inf", got)
	}
	if v.Spec().DType != Float64 {
		t.Errorf("dtype = %s, want float64", v.Spec().DType)
	}
}

func TestParseArrays_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		query string
		want  error
	}{
		{"ragged rows", `[[1, 2], [3]]`, "", ErrRagged},
		{"array and scalar", `[[1, 2], 3]`, "", ErrRagged},
		{"too deep", `[1, [2]]`, "", ErrRagged},
		{"strings", `["a", "b"]`, "", ErrUnsupportedDType},
		{"mixed bools", `[true, 1]`, "", ErrUnsupportedDType},
		{"no arrays", `{"name": "x"}`, "", ErrMalformedFile},
		{"bad document", "[1, 2", "", ErrMalformedFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArrays([]byte(tt.doc), tt.query); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := ParseArrays([]byte(`[1]`), "a.["); err == nil {
		t.Error("Expected error for invalid query")
	}
}
