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

	"github.com/SamOnSec/tf-quant-finance/vmath"
	"github.com/SamOnSec/tf-quant-finance/workerpool"
)

// VanillaTerms carries the inputs of a vanilla or binary pricing call.
// Scalar and array terms broadcast against each other; all arrays must align
// to one common shape or the call fails with vmath.ErrShapeMismatch.
//
// Exactly one of Forwards and Spots must be set. When Spots is given, the
// forward is derived as spot * exp(b*T) with b the cost of carry.
//
// Defaults for unset optional terms:
//   - IsCallOptions: all calls
//   - DiscountRates: 0, or implied from DiscountFactors when those are given
//   - CostOfCarries: equal to the discount rates (zero dividend yield)
//   - DiscountFactors: exp(-rate * expiry)
type VanillaTerms[T vmath.Floats] struct {
	// Volatilities holds annualized volatilities, >= 0. Zero is a valid
	// degenerate input, not an error. Required.
	Volatilities *vmath.Array[T]
	// Strikes holds exercise prices, > 0. Required.
	Strikes *vmath.Array[T]
	// Expiries holds times to maturity in years, >= 0. Zero and very large
	// values are valid degenerate inputs. Required.
	Expiries *vmath.Array[T]

	// Forwards holds forward prices of the underlying, >= 0.
	Forwards *vmath.Array[T]
	// Spots holds spot prices of the underlying, >= 0.
	Spots *vmath.Array[T]

	// DiscountRates holds continuously compounded annual discount rates.
	DiscountRates *vmath.Array[T]
	// CostOfCarries holds cost-of-carry rates (rate minus dividend yield),
	// used to grow spots into forwards.
	CostOfCarries *vmath.Array[T]
	// DiscountFactors, when set, override the discounting derived from
	// DiscountRates.
	DiscountFactors *vmath.Array[T]

	// IsCallOptions flags each element as a call (true) or put (false).
	IsCallOptions *vmath.BoolArray

	// Pool, when set, splits large batches across workers. Results are
	// identical regardless of chunking.
	Pool *workerpool.Pool
}

// vanillaInputs is the normalized form of VanillaTerms: every term broadcast
// to the common shape, defaults applied, derived terms computed, domain
// validated.
type vanillaInputs[T vmath.Floats] struct {
	shape           vmath.Shape
	volatilities    []T
	strikes         []T
	expiries        []T
	forwards        []T
	discountRates   []T
	costOfCarries   []T
	discountFactors []T
	isCall          []bool
	pool            *workerpool.Pool
}

// broadcastData aligns arr to shape and returns its flat data.
func broadcastData[T vmath.Floats](arr *vmath.Array[T], shape vmath.Shape) ([]T, error) {
	b, err := arr.BroadcastTo(shape)
	if err != nil {
		return nil, err
	}
	return b.Data(), nil
}

// commonShape computes the broadcast shape of all non-nil term arrays.
func commonShape[T vmath.Floats](flags *vmath.BoolArray, arrays ...*vmath.Array[T]) (vmath.Shape, error) {
	shapes := make([]vmath.Shape, 0, len(arrays)+1)
	for _, a := range arrays {
		if a != nil {
			shapes = append(shapes, a.Shape())
		}
	}
	if flags != nil {
		shapes = append(shapes, flags.Shape())
	}
	return vmath.BroadcastShapes(shapes...)
}

func normalizeVanilla[T vmath.Floats](terms VanillaTerms[T]) (*vanillaInputs[T], error) {
	if terms.Volatilities == nil || terms.Strikes == nil || terms.Expiries == nil {
		return nil, fmt.Errorf("%w: volatilities, strikes and expiries are required", ErrInvalidDomain)
	}
	if (terms.Forwards == nil) == (terms.Spots == nil) {
		return nil, fmt.Errorf("%w: exactly one of forwards and spots must be set", ErrInvalidDomain)
	}

	shape, err := commonShape(terms.IsCallOptions,
		terms.Volatilities, terms.Strikes, terms.Expiries,
		terms.Forwards, terms.Spots,
		terms.DiscountRates, terms.CostOfCarries, terms.DiscountFactors)
	if err != nil {
		return nil, err
	}
	n := shape.NumElements()

	in := &vanillaInputs[T]{shape: shape, pool: terms.Pool}
	if in.volatilities, err = broadcastData(terms.Volatilities, shape); err != nil {
		return nil, err
	}
	if in.strikes, err = broadcastData(terms.Strikes, shape); err != nil {
		return nil, err
	}
	if in.expiries, err = broadcastData(terms.Expiries, shape); err != nil {
		return nil, err
	}
	if err = validateNonNegative(in.volatilities, "volatilities"); err != nil {
		return nil, err
	}
	if err = validatePositive(in.strikes, "strikes"); err != nil {
		return nil, err
	}
	if err = validateNonNegative(in.expiries, "expiries"); err != nil {
		return nil, err
	}

	zeros := make([]T, n)

	// Discount rates: explicit, implied from discount factors, or zero.
	in.discountRates = make([]T, n)
	switch {
	case terms.DiscountRates != nil:
		data, err := broadcastData(terms.DiscountRates, shape)
		if err != nil {
			return nil, err
		}
		copy(in.discountRates, data)
	case terms.DiscountFactors != nil:
		dfs, err := broadcastData(terms.DiscountFactors, shape)
		if err != nil {
			return nil, err
		}
		// rate = -log(df)/T; a zero expiry carries no rate information, so
		// those elements keep rate 0 to keep derived forwards finite.
		vmath.LogTo(in.discountRates, dfs)
		vmath.DivTo(in.discountRates, in.discountRates, in.expiries)
		vmath.NegTo(in.discountRates, in.discountRates)
		positive := make([]bool, n)
		vmath.GreaterTo(positive, in.expiries, zeros)
		vmath.WhereTo(in.discountRates, positive, in.discountRates, zeros)
	}

	// Cost of carry defaults to the discount rate (zero dividend yield).
	in.costOfCarries = make([]T, n)
	if terms.CostOfCarries != nil {
		data, err := broadcastData(terms.CostOfCarries, shape)
		if err != nil {
			return nil, err
		}
		copy(in.costOfCarries, data)
	} else {
		copy(in.costOfCarries, in.discountRates)
	}

	// Discount factors: explicit or exp(-rate * expiry).
	in.discountFactors = make([]T, n)
	if terms.DiscountFactors != nil {
		data, err := broadcastData(terms.DiscountFactors, shape)
		if err != nil {
			return nil, err
		}
		copy(in.discountFactors, data)
	} else {
		vmath.MulTo(in.discountFactors, in.discountRates, in.expiries)
		vmath.NegTo(in.discountFactors, in.discountFactors)
		vmath.ExpTo(in.discountFactors, in.discountFactors)
	}

	// Forwards: explicit or spot * exp(b * T).
	if terms.Forwards != nil {
		if in.forwards, err = broadcastData(terms.Forwards, shape); err != nil {
			return nil, err
		}
		if err = validateNonNegative(in.forwards, "forwards"); err != nil {
			return nil, err
		}
	} else {
		spots, err := broadcastData(terms.Spots, shape)
		if err != nil {
			return nil, err
		}
		if err = validateNonNegative(spots, "spots"); err != nil {
			return nil, err
		}
		growth := make([]T, n)
		vmath.MulTo(growth, in.costOfCarries, in.expiries)
		vmath.ExpTo(growth, growth)
		in.forwards = make([]T, n)
		vmath.MulTo(in.forwards, spots, growth)
	}

	if terms.IsCallOptions != nil {
		flags, err := terms.IsCallOptions.BroadcastTo(shape)
		if err != nil {
			return nil, err
		}
		in.isCall = flags.Data()
	} else {
		in.isCall = vmath.FullBool(shape, true).Data()
	}

	return in, nil
}

func validateNonNegative[T vmath.Floats](data []T, name string) error {
	for i, v := range data {
		if v < 0 {
			return fmt.Errorf("%w: %s[%d] = %v, must be non-negative", ErrInvalidDomain, name, i, v)
		}
	}
	return nil
}

func validatePositive[T vmath.Floats](data []T, name string) error {
	for i, v := range data {
		if v <= 0 {
			return fmt.Errorf("%w: %s[%d] = %v, must be positive", ErrInvalidDomain, name, i, v)
		}
	}
	return nil
}

// runBatch evaluates fn over [0, n), chunked across the pool when one is
// supplied. fn must be element-local so chunking cannot change results.
func runBatch(pool *workerpool.Pool, n int, fn func(start, end int)) {
	if pool == nil {
		fn(0, n)
		return
	}
	pool.ParallelFor(n, fn)
}
