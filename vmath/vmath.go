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

// Package vmath provides batched array math for the pricing engines.
//
// It implements NumPy-style broadcasting over multi-dimensional shapes and a
// set of element-wise kernels (exp, log, sqrt, arithmetic, masked selection,
// standard normal CDF/PDF). All kernels are pure: they write into an explicit
// destination slice and never mutate their inputs.
//
// Precision is fixed per call through the generic type parameter:
//
//	a := vmath.FromSlice([]float64{1, 2, 3})
//	b := vmath.Scalar(10.0)
//	out, err := a.BroadcastTo(shape)
//
// Every operation is an element-wise map with no cross-element dependency, so
// callers may split batches across workers freely; results are identical
// regardless of chunking.
package vmath

// Floats is a constraint for the floating-point element types supported by
// batched arrays.
type Floats interface {
	~float32 | ~float64
}
