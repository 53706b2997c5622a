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

import stdmath "math"

// This file provides the element-wise kernels consumed by the pricing
// engines. Each operation writes into dst; if slice lengths differ, the
// minimum length is used. Operations come in the destination-slice style so
// callers control allocation.

// ExpTo computes dst[i] = e^(s[i]).
//
// Example:
//
//	s := []float64{0, 1}
//	dst := make([]float64, 2)
//	ExpTo(dst, s) // dst is now {1, 2.718...}
func ExpTo[T Floats](dst, s []T) {
	n := min(len(dst), len(s))
	for i := 0; i < n; i++ {
		dst[i] = T(stdmath.Exp(float64(s[i])))
	}
}

// LogTo computes dst[i] = ln(s[i]).
func LogTo[T Floats](dst, s []T) {
	n := min(len(dst), len(s))
	for i := 0; i < n; i++ {
		dst[i] = T(stdmath.Log(float64(s[i])))
	}
}

// SqrtTo computes dst[i] = sqrt(s[i]).
func SqrtTo[T Floats](dst, s []T) {
	n := min(len(dst), len(s))
	for i := 0; i < n; i++ {
		dst[i] = T(stdmath.Sqrt(float64(s[i])))
	}
}

// AddTo computes dst[i] = a[i] + b[i].
func AddTo[T Floats](dst, a, b []T) {
	n := min(len(dst), min(len(a), len(b)))
	for i := 0; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

// SubTo computes dst[i] = a[i] - b[i].
func SubTo[T Floats](dst, a, b []T) {
	n := min(len(dst), min(len(a), len(b)))
	for i := 0; i < n; i++ {
		dst[i] = a[i] - b[i]
	}
}

// MulTo computes dst[i] = a[i] * b[i].
func MulTo[T Floats](dst, a, b []T) {
	n := min(len(dst), min(len(a), len(b)))
	for i := 0; i < n; i++ {
		dst[i] = a[i] * b[i]
	}
}

// DivTo computes dst[i] = a[i] / b[i].
func DivTo[T Floats](dst, a, b []T) {
	n := min(len(dst), min(len(a), len(b)))
	for i := 0; i < n; i++ {
		dst[i] = a[i] / b[i]
	}
}

// ScaleTo computes dst[i] = c * s[i].
func ScaleTo[T Floats](dst []T, c T, s []T) {
	n := min(len(dst), len(s))
	for i := 0; i < n; i++ {
		dst[i] = c * s[i]
	}
}

// NegTo computes dst[i] = -s[i].
func NegTo[T Floats](dst, s []T) {
	ScaleTo(dst, T(-1), s)
}
