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

// WhereTo computes dst[i] = a[i] if mask[i] else b[i].
//
// This is the batched replacement for scalar branching: batched inputs may
// require different branches per element, so selection happens element-wise
// after both branches have been evaluated.
func WhereTo[T Floats](dst []T, mask []bool, a, b []T) {
	n := min(min(len(dst), len(mask)), min(len(a), len(b)))
	for i := 0; i < n; i++ {
		if mask[i] {
			dst[i] = a[i]
		} else {
			dst[i] = b[i]
		}
	}
}

// GreaterTo computes dst[i] = a[i] > b[i].
func GreaterTo[T Floats](dst []bool, a, b []T) {
	n := min(len(dst), min(len(a), len(b)))
	for i := 0; i < n; i++ {
		dst[i] = a[i] > b[i]
	}
}

// LessTo computes dst[i] = a[i] < b[i].
func LessTo[T Floats](dst []bool, a, b []T) {
	n := min(len(dst), min(len(a), len(b)))
	for i := 0; i < n; i++ {
		dst[i] = a[i] < b[i]
	}
}
