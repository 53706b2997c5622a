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
	"github.com/SamOnSec/tf-quant-finance/vmath"
)

// OptionPrice computes Black-Scholes prices of vanilla European options over
// a batch of scenarios.
//
// The undiscounted call price is forward*N(d1) - strike*N(d2) with
//
//	d1 = (log(forward/strike) + totalVariance/2) / sqrt(totalVariance)
//	d2 = d1 - sqrt(totalVariance)
//	totalVariance = volatility^2 * expiry
//
// and the put price follows by put-call parity. The result is multiplied by
// the per-element discount factor.
//
// Elements with zero total variance (zero volatility or zero expiry) price at
// discounted intrinsic value; the override is applied after the main formula
// so transient NaN/Inf from the degenerate branch never reaches the output.
// Very long expiries need no special casing: the normal CDF saturates to
// exactly 0 and 1, so calls converge to the forward and puts to the strike.
func OptionPrice[T vmath.Floats](terms VanillaTerms[T]) (*vmath.Array[T], error) {
	in, err := normalizeVanilla(terms)
	if err != nil {
		return nil, err
	}
	n := len(in.forwards)
	out := make([]T, n)

	sqrtVar := make([]T, n)
	d1 := make([]T, n)
	d2 := make([]T, n)
	calls := make([]T, n)
	puts := make([]T, n)
	intrinsic := make([]T, n)
	t1 := make([]T, n)
	t2 := make([]T, n)
	zeros := make([]T, n)
	mask := make([]bool, n)

	runBatch(in.pool, n, func(s, e int) {
		f, k := in.forwards[s:e], in.strikes[s:e]
		v, dOne, dTwo := sqrtVar[s:e], d1[s:e], d2[s:e]
		c, p, iv := calls[s:e], puts[s:e], intrinsic[s:e]
		u1, u2, z, m := t1[s:e], t2[s:e], zeros[s:e], mask[s:e]
		res := out[s:e]

		// sqrt(total variance) = volatility * sqrt(expiry)
		vmath.MulTo(v, in.volatilities[s:e], in.volatilities[s:e])
		vmath.MulTo(v, v, in.expiries[s:e])
		vmath.SqrtTo(v, v)

		vmath.DivTo(u1, f, k)
		vmath.LogTo(u1, u1)
		vmath.DivTo(dOne, u1, v)
		vmath.ScaleTo(u2, 0.5, v)
		vmath.AddTo(dOne, dOne, u2)
		vmath.SubTo(dTwo, dOne, v)

		// Undiscounted call, then put by parity (exact in the long-expiry
		// limit, where the call saturates to the forward).
		vmath.NormCDFTo(u1, dOne)
		vmath.MulTo(u1, f, u1)
		vmath.NormCDFTo(u2, dTwo)
		vmath.MulTo(u2, k, u2)
		vmath.SubTo(c, u1, u2)
		vmath.SubTo(u1, f, k)
		vmath.SubTo(p, c, u1)

		vmath.WhereTo(res, in.isCall[s:e], c, p)

		// Zero total variance prices at intrinsic value. Applied after the
		// formula so its transient NaNs are masked out, not propagated.
		vmath.SubTo(u1, f, k)
		vmath.GreaterTo(m, u1, z)
		vmath.WhereTo(c, m, u1, z)
		vmath.SubTo(u2, k, f)
		vmath.GreaterTo(m, u2, z)
		vmath.WhereTo(p, m, u2, z)
		vmath.WhereTo(iv, in.isCall[s:e], c, p)
		vmath.GreaterTo(m, v, z)
		vmath.WhereTo(res, m, res, iv)

		vmath.MulTo(res, res, in.discountFactors[s:e])
	})

	return vmath.New(in.shape, out)
}

// BinaryPrice computes prices of cash-or-nothing binary options paying one
// unit of cash when the underlying ends above (call) or below (put) the
// strike.
//
// The undiscounted price is N(d2) for calls and N(-d2) for puts, multiplied
// by the per-element discount factor. Elements with zero total variance price
// as the discounted indicator: 1 when the forward is strictly beyond the
// strike on the paying side, 0 otherwise (ties pay nothing).
func BinaryPrice[T vmath.Floats](terms VanillaTerms[T]) (*vmath.Array[T], error) {
	in, err := normalizeVanilla(terms)
	if err != nil {
		return nil, err
	}
	n := len(in.forwards)
	out := make([]T, n)

	sqrtVar := make([]T, n)
	d2 := make([]T, n)
	calls := make([]T, n)
	puts := make([]T, n)
	indicator := make([]T, n)
	t1 := make([]T, n)
	t2 := make([]T, n)
	zeros := make([]T, n)
	ones := make([]T, n)
	mask := make([]bool, n)

	runBatch(in.pool, n, func(s, e int) {
		f, k := in.forwards[s:e], in.strikes[s:e]
		v, dTwo := sqrtVar[s:e], d2[s:e]
		c, p, ind := calls[s:e], puts[s:e], indicator[s:e]
		u1, u2, z, one, m := t1[s:e], t2[s:e], zeros[s:e], ones[s:e], mask[s:e]
		res := out[s:e]

		for i := range one {
			one[i] = 1
		}

		vmath.MulTo(v, in.volatilities[s:e], in.volatilities[s:e])
		vmath.MulTo(v, v, in.expiries[s:e])
		vmath.SqrtTo(v, v)

		// d2 = log(forward/strike)/v - v/2
		vmath.DivTo(u1, f, k)
		vmath.LogTo(u1, u1)
		vmath.DivTo(dTwo, u1, v)
		vmath.ScaleTo(u2, 0.5, v)
		vmath.SubTo(dTwo, dTwo, u2)

		vmath.NormCDFTo(c, dTwo)
		vmath.NegTo(u1, dTwo)
		vmath.NormCDFTo(p, u1)
		vmath.WhereTo(res, in.isCall[s:e], c, p)

		// Zero total variance pays the indicator of finishing in the money.
		vmath.GreaterTo(m, f, k)
		vmath.WhereTo(c, m, one, z)
		vmath.LessTo(m, f, k)
		vmath.WhereTo(p, m, one, z)
		vmath.WhereTo(ind, in.isCall[s:e], c, p)
		vmath.GreaterTo(m, v, z)
		vmath.WhereTo(res, m, res, ind)

		vmath.MulTo(res, res, in.discountFactors[s:e])
	})

	return vmath.New(in.shape, out)
}
