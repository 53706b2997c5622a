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

import "fmt"

// Array is an immutable batched numeric array: a shape plus row-major flat
// data. Arrays are created fresh per call and never mutated; all kernels
// write into separate destination slices.
type Array[T Floats] struct {
	shape Shape
	data  []T
}

// New creates an array with the given shape and row-major data.
// The data length must match the shape's element count.
func New[T Floats](shape Shape, data []T) (*Array[T], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	return &Array[T]{shape: shape.Clone(), data: data}, nil
}

// Scalar creates a rank-0 array holding a single value. Scalars broadcast
// against any shape.
func Scalar[T Floats](v T) *Array[T] {
	return &Array[T]{shape: Shape{}, data: []T{v}}
}

// FromSlice creates a rank-1 array wrapping the given values.
func FromSlice[T Floats](values []T) *Array[T] {
	data := make([]T, len(values))
	copy(data, values)
	return &Array[T]{shape: Shape{len(values)}, data: data}
}

// Full creates an array of the given shape with every element set to v.
func Full[T Floats](shape Shape, v T) *Array[T] {
	data := make([]T, shape.NumElements())
	for i := range data {
		data[i] = v
	}
	return &Array[T]{shape: shape.Clone(), data: data}
}

// Shape returns the array's shape. The caller must not modify it.
func (a *Array[T]) Shape() Shape { return a.shape }

// Data returns the array's flat row-major data. The caller must not modify it.
func (a *Array[T]) Data() []T { return a.data }

// NumElements returns the total element count.
func (a *Array[T]) NumElements() int { return len(a.data) }

// At returns the element at the given flat index.
func (a *Array[T]) At(i int) T { return a.data[i] }

// BroadcastTo materializes the array expanded to the target shape.
// The target must be a valid broadcast of the array's shape.
func (a *Array[T]) BroadcastTo(target Shape) (*Array[T], error) {
	if a.shape.Equal(target) {
		return a, nil
	}
	if _, err := BroadcastShapes(a.shape, target); err != nil {
		return nil, err
	}
	data, err := materialize(a.data, a.shape, target)
	if err != nil {
		return nil, err
	}
	return &Array[T]{shape: target.Clone(), data: data}, nil
}

// materialize expands src data (laid out for shape src) to the full target
// shape by walking broadcast strides. Stretched axes repeat their single
// element.
func materialize[E any](data []E, src, target Shape) ([]E, error) {
	for i := range src {
		axis := len(target) - len(src) + i
		if axis < 0 || (src[i] != 1 && src[i] != target[axis]) {
			return nil, fmt.Errorf("%w: cannot broadcast %v to %v", ErrShapeMismatch, src, target)
		}
	}
	n := target.NumElements()
	out := make([]E, n)
	strides := broadcastStrides(src, target)
	idx := make([]int, len(target))
	srcIdx := 0
	for i := 0; i < n; i++ {
		out[i] = data[srcIdx]
		// Advance the multi-index and the strided source offset.
		for axis := len(target) - 1; axis >= 0; axis-- {
			idx[axis]++
			srcIdx += strides[axis]
			if idx[axis] < target[axis] {
				break
			}
			idx[axis] = 0
			srcIdx -= strides[axis] * target[axis]
		}
	}
	return out, nil
}
