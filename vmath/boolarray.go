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

// BoolArray is an immutable batched boolean array, used for per-element flags
// such as call/put selectors. It follows the same shape and broadcasting
// rules as Array.
type BoolArray struct {
	shape Shape
	data  []bool
}

// NewBool creates a boolean array with the given shape and row-major data.
func NewBool(shape Shape, data []bool) (*BoolArray, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	return &BoolArray{shape: shape.Clone(), data: data}, nil
}

// BoolScalar creates a rank-0 boolean array holding a single flag.
func BoolScalar(v bool) *BoolArray {
	return &BoolArray{shape: Shape{}, data: []bool{v}}
}

// BoolFromSlice creates a rank-1 boolean array wrapping the given flags.
func BoolFromSlice(values []bool) *BoolArray {
	data := make([]bool, len(values))
	copy(data, values)
	return &BoolArray{shape: Shape{len(values)}, data: data}
}

// FullBool creates a boolean array of the given shape with every element v.
func FullBool(shape Shape, v bool) *BoolArray {
	data := make([]bool, shape.NumElements())
	if v {
		for i := range data {
			data[i] = true
		}
	}
	return &BoolArray{shape: shape.Clone(), data: data}
}

// Shape returns the array's shape. The caller must not modify it.
func (a *BoolArray) Shape() Shape { return a.shape }

// Data returns the array's flat row-major data. The caller must not modify it.
func (a *BoolArray) Data() []bool { return a.data }

// NumElements returns the total element count.
func (a *BoolArray) NumElements() int { return len(a.data) }

// BroadcastTo materializes the array expanded to the target shape.
func (a *BoolArray) BroadcastTo(target Shape) (*BoolArray, error) {
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
	return &BoolArray{shape: target.Clone(), data: data}, nil
}
