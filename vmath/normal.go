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

import "gonum.org/v1/gonum/stat/distuv"

// Standard normal distribution backing the CDF/PDF kernels. distuv saturates
// the CDF to exactly 0 and 1 in the tails, which the pricing engines rely on
// for their long-expiry limits.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormCDF returns the standard normal cumulative distribution at x.
func NormCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// NormPDF returns the standard normal density at x.
func NormPDF(x float64) float64 {
	return stdNormal.Prob(x)
}

// NormCDFTo computes dst[i] = NormCDF(s[i]). The computation runs in float64
// regardless of T and rounds once on store.
func NormCDFTo[T Floats](dst, s []T) {
	n := min(len(dst), len(s))
	for i := 0; i < n; i++ {
		dst[i] = T(stdNormal.CDF(float64(s[i])))
	}
}

// NormPDFTo computes dst[i] = NormPDF(s[i]).
func NormPDFTo[T Floats](dst, s []T) {
	n := min(len(dst), len(s))
	for i := 0; i < n; i++ {
		dst[i] = T(stdNormal.Prob(float64(s[i])))
	}
}
