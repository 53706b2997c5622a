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

package blackscholes

import (
	stdmath "math"

	"github.com/SamOnSec/tf-quant-finance/vmath"
)

// Delta computes the sensitivity of the option price to the forward:
// discountFactor * N(d1) for calls and discountFactor * (N(d1) - 1) for
// puts. Elements with zero total variance take the derivative of the
// discounted intrinsic value: the in-the-money indicator, signed per side.
func Delta[T vmath.Floats](terms VanillaTerms[T]) (*vmath.Array[T], error) {
	in, err := normalizeVanilla(terms)
	if err != nil {
		return nil, err
	}
	n := len(in.forwards)
	out := make([]T, n)

	runBatch(in.pool, n, func(s, e int) {
		for i := s; i < e; i++ {
			forward := float64(in.forwards[i])
			strike := float64(in.strikes[i])
			df := float64(in.discountFactors[i])
			sv := float64(in.volatilities[i]) * stdmath.Sqrt(float64(in.expiries[i]))

			var nd1 float64
			if sv == 0 {
				if forward > strike {
					nd1 = 1
				}
			} else {
				nd1 = vmath.NormCDF(stdmath.Log(forward/strike)/sv + 0.5*sv)
			}
			if !in.isCall[i] {
				nd1 -= 1
			}
			out[i] = T(df * nd1)
		}
	})

	return vmath.New(in.shape, out)
}

// Vega computes the sensitivity of the option price to volatility:
// discountFactor * forward * n(d1) * sqrt(expiry), identical for calls and
// puts. Elements with zero total variance have zero vega.
func Vega[T vmath.Floats](terms VanillaTerms[T]) (*vmath.Array[T], error) {
	in, err := normalizeVanilla(terms)
	if err != nil {
		return nil, err
	}
	n := len(in.forwards)
	out := make([]T, n)

	runBatch(in.pool, n, func(s, e int) {
		for i := s; i < e; i++ {
			out[i] = T(vegaScalar(
				float64(in.forwards[i]), float64(in.strikes[i]),
				float64(in.expiries[i]), float64(in.volatilities[i]),
				float64(in.discountFactors[i])))
		}
	})

	return vmath.New(in.shape, out)
}

func vegaScalar(forward, strike, expiry, vol, df float64) float64 {
	sqrtExpiry := stdmath.Sqrt(expiry)
	sv := vol * sqrtExpiry
	if sv == 0 || forward == 0 {
		return 0
	}
	d1 := stdmath.Log(forward/strike)/sv + 0.5*sv
	return df * forward * vmath.NormPDF(d1) * sqrtExpiry
}
