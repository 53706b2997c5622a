// Copyright 2025 tf-quant-finance Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vmath

import (
	"errors"
	"testing"
)

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name   string
		shapes []Shape
		want   Shape
	}{
		{"scalar and vector", []Shape{{}, {5}}, Shape{5}},
		{"equal shapes", []Shape{{2, 3}, {2, 3}}, Shape{2, 3}},
		{"stretch ones", []Shape{{2, 1}, {1, 3}}, Shape{2, 3}},
		{"rank extension", []Shape{{3}, {2, 3}}, Shape{2, 3}},
		{"all scalars", []Shape{{}, {}}, Shape{}},
		{"single", []Shape{{4, 1, 2}}, Shape{4, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.shapes...)
			if err != nil {
				t.Fatalf("BroadcastShapes(%v) error: %v", tt.shapes, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("BroadcastShapes(%v) = %v, want %v", tt.shapes, got, tt.want)
			}
		})
	}
}

func TestBroadcastShapesMismatch(t *testing.T) {
	tests := []struct {
		name   string
		shapes []Shape
	}{
		{"different lengths", []Shape{{2}, {3}}},
		{"trailing mismatch", []Shape{{2, 3}, {2, 4}}},
		{"leading mismatch", []Shape{{2, 3}, {4, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BroadcastShapes(tt.shapes...)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("BroadcastShapes(%v) error = %v, want ErrShapeMismatch", tt.shapes, err)
			}
		})
	}
}

func TestBroadcastTo(t *testing.T) {
	col, err := New(Shape{2, 1}, []float64{1, 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := col.BroadcastTo(Shape{2, 3})
	if err != nil {
		t.Fatalf("BroadcastTo: %v", err)
	}
	want := []float64{1, 1, 1, 2, 2, 2}
	for i, v := range want {
		if got.Data()[i] != v {
			t.Errorf("BroadcastTo data[%d] = %v, want %v", i, got.Data()[i], v)
		}
	}
}

func TestBroadcastToScalar(t *testing.T) {
	got, err := Scalar(7.0).BroadcastTo(Shape{2, 2})
	if err != nil {
		t.Fatalf("BroadcastTo: %v", err)
	}
	if got.NumElements() != 4 {
		t.Fatalf("NumElements() = %d, want 4", got.NumElements())
	}
	for i, v := range got.Data() {
		if v != 7.0 {
			t.Errorf("data[%d] = %v, want 7", i, v)
		}
	}
}

func TestBroadcastRowAndColumn(t *testing.T) {
	row := FromSlice([]float64{10, 20, 30})
	col, _ := New(Shape{2, 1}, []float64{1, 2})

	shape, err := BroadcastShapes(row.Shape(), col.Shape())
	if err != nil {
		t.Fatalf("BroadcastShapes: %v", err)
	}
	r, err := row.BroadcastTo(shape)
	if err != nil {
		t.Fatalf("row.BroadcastTo: %v", err)
	}
	c, err := col.BroadcastTo(shape)
	if err != nil {
		t.Fatalf("col.BroadcastTo: %v", err)
	}

	sum := make([]float64, shape.NumElements())
	AddTo(sum, r.Data(), c.Data())
	want := []float64{11, 21, 31, 12, 22, 32}
	for i, v := range want {
		if sum[i] != v {
			t.Errorf("sum[%d] = %v, want %v", i, sum[i], v)
		}
	}
}

func TestNewLengthMismatch(t *testing.T) {
	if _, err := New(Shape{2, 2}, []float64{1, 2, 3}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("New error = %v, want ErrShapeMismatch", err)
	}
}

func TestBoolBroadcastTo(t *testing.T) {
	flags := BoolFromSlice([]bool{true, false})
	arr, err := flags.BroadcastTo(Shape{3, 2})
	if err != nil {
		t.Fatalf("BroadcastTo: %v", err)
	}
	want := []bool{true, false, true, false, true, false}
	for i, v := range want {
		if arr.Data()[i] != v {
			t.Errorf("data[%d] = %v, want %v", i, arr.Data()[i], v)
		}
	}
}
