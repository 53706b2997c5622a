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
	"fmt"
	stdmath "math"

	"github.com/SamOnSec/tf-quant-finance/vmath"
)

// ImpliedVolOptions tunes the per-element Newton-Raphson solve. The zero
// value selects the defaults.
type ImpliedVolOptions struct {
	// InitialGuess seeds elements without an explicit starting volatility.
	// Default 0.2.
	InitialGuess float64
	// MaxIterations bounds the Newton iterations per element. Default 100.
	MaxIterations int
	// Tolerance is the absolute price error at which an element converges.
	// Default 1e-8.
	Tolerance float64
}

func (o ImpliedVolOptions) withDefaults() ImpliedVolOptions {
	if o.InitialGuess <= 0 {
		o.InitialGuess = 0.2
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 100
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-8
	}
	return o
}

// Guardrails keeping the Newton iterate inside the solvable region.
const (
	impliedVolFloor   = 1e-4
	impliedVolCeiling = 5.0
	vegaFloor         = 1e-10
)

// ImpliedVolatility solves per element for the volatility at which the
// Black-Scholes price matches the observed price, by Newton-Raphson on vega.
//
// terms.Volatilities, when set, seed the iteration per element; when nil the
// options' initial guess is used everywhere. Observed prices broadcast
// against the other terms. Elements whose iteration does not converge (for
// example prices outside the attainable range) yield NaN; the batch itself
// does not fail.
func ImpliedVolatility[T vmath.Floats](terms VanillaTerms[T], prices *vmath.Array[T], opts ImpliedVolOptions) (*vmath.Array[T], error) {
	if prices == nil {
		return nil, fmt.Errorf("%w: prices are required", ErrInvalidDomain)
	}
	opts = opts.withDefaults()
	if terms.Volatilities == nil {
		terms.Volatilities = vmath.Scalar(T(opts.InitialGuess))
	}

	in, err := normalizeVanilla(terms)
	if err != nil {
		return nil, err
	}

	// Observed prices must align to the terms' broadcast shape; a price
	// batch that would widen the shape is rejected.
	target, err := prices.BroadcastTo(in.shape)
	if err != nil {
		return nil, err
	}
	observed := target.Data()
	if err := validateNonNegative(observed, "prices"); err != nil {
		return nil, err
	}

	n := len(in.forwards)
	out := make([]T, n)

	runBatch(in.pool, n, func(s, e int) {
		for i := s; i < e; i++ {
			out[i] = T(impliedVolElement(
				in.isCall[i],
				float64(in.forwards[i]), float64(in.strikes[i]),
				float64(in.expiries[i]), float64(in.discountFactors[i]),
				float64(in.volatilities[i]), float64(observed[i]), opts))
		}
	})

	return vmath.New(in.shape, out)
}

func impliedVolElement(isCall bool, forward, strike, expiry, df, guess, price float64, opts ImpliedVolOptions) float64 {
	if expiry == 0 || forward == 0 {
		return stdmath.NaN()
	}
	vol := guess
	if vol < impliedVolFloor {
		vol = opts.InitialGuess
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		diff := priceScalar(isCall, forward, strike, expiry, df, vol) - price
		if stdmath.Abs(diff) < opts.Tolerance {
			return vol
		}

		vega := vegaScalar(forward, strike, expiry, vol, df)
		if vega < vegaFloor {
			break
		}

		vol -= diff / vega
		if vol <= 0 {
			vol = impliedVolFloor
		}
		if vol > impliedVolCeiling {
			vol = impliedVolCeiling
		}
	}
	return stdmath.NaN()
}

// priceScalar is the forward-based vanilla price used inside the solver.
func priceScalar(isCall bool, forward, strike, expiry, df, vol float64) float64 {
	sv := vol * stdmath.Sqrt(expiry)
	if sv == 0 {
		intrinsic := forward - strike
		if !isCall {
			intrinsic = -intrinsic
		}
		return df * stdmath.Max(intrinsic, 0)
	}
	d1 := stdmath.Log(forward/strike)/sv + 0.5*sv
	d2 := d1 - sv
	call := forward*vmath.NormCDF(d1) - strike*vmath.NormCDF(d2)
	if isCall {
		return df * call
	}
	return df * (call + strike - forward)
}
