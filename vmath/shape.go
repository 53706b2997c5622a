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
	"fmt"
)

// ErrShapeMismatch is returned when two array arguments cannot be broadcast
// to a common shape (a pair of dimensions differs and neither is 1).
var ErrShapeMismatch = errors.New("vmath: shape mismatch")

// Shape describes the dimensions of an array. A scalar has an empty shape.
//
// Example: Shape{2, 3} is a 2x3 matrix stored row-major.
type Shape []int

// NumElements returns the total element count of the shape.
// A scalar (empty) shape has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i, d := range s {
		if d != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// BroadcastShapes computes the common shape all given shapes broadcast to,
// using right-aligned broadcasting rules: dimensions are compared from the
// trailing axis; a dimension of 1 stretches to match its counterpart; missing
// leading dimensions are treated as 1.
//
// Returns ErrShapeMismatch (wrapped with the offending shapes) when a pair of
// dimensions differs and neither is 1.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	rank := 0
	for _, s := range shapes {
		if len(s) > rank {
			rank = len(s)
		}
	}
	out := make(Shape, rank)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		offset := rank - len(s)
		for i, d := range s {
			if d < 0 {
				return nil, fmt.Errorf("%w: negative dimension in %v", ErrShapeMismatch, s)
			}
			axis := offset + i
			switch {
			case out[axis] == 1:
				out[axis] = d
			case d == 1 || d == out[axis]:
				// compatible
			default:
				return nil, fmt.Errorf("%w: cannot broadcast %v against %v", ErrShapeMismatch, s, out)
			}
		}
	}
	return out, nil
}

// broadcastStrides returns the element strides that map indices of the target
// shape onto data laid out for src. Stretched axes get stride 0.
func broadcastStrides(src, target Shape) []int {
	strides := make([]int, len(target))
	// Row-major strides of src, right-aligned under target.
	offset := len(target) - len(src)
	stride := 1
	for i := len(src) - 1; i >= 0; i-- {
		if src[i] == 1 && target[offset+i] != 1 {
			strides[offset+i] = 0
		} else {
			strides[offset+i] = stride
		}
		stride *= src[i]
	}
	return strides
}
