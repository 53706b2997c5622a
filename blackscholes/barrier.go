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
	"github.com/SamOnSec/tf-quant-finance/workerpool"
)

// BarrierType enumerates the eight single-barrier option variants:
// call/put x down/up x knock-in/knock-out. The numeric values match the
// conventional 1..8 coding.
type BarrierType uint8

const (
	CallDownIn  BarrierType = 1 // cdi
	PutDownIn   BarrierType = 2 // pdi
	CallUpIn    BarrierType = 3 // cui
	PutUpIn     BarrierType = 4 // pui
	CallDownOut BarrierType = 5 // cdo
	PutDownOut  BarrierType = 6 // pdo
	CallUpOut   BarrierType = 7 // cuo
	PutUpOut    BarrierType = 8 // puo
)

var barrierTypeCodes = [9]string{"", "cdi", "pdi", "cui", "pui", "cdo", "pdo", "cuo", "puo"}

// Valid reports whether t is one of the eight barrier variants.
func (t BarrierType) Valid() bool {
	return t >= CallDownIn && t <= PutUpOut
}

// IsCall reports whether the variant is a call.
func (t BarrierType) IsCall() bool {
	return t == CallDownIn || t == CallUpIn || t == CallDownOut || t == CallUpOut
}

// IsDown reports whether the barrier lies below the spot convention (the
// option knocks on a falling underlying).
func (t BarrierType) IsDown() bool {
	return t == CallDownIn || t == PutDownIn || t == CallDownOut || t == PutDownOut
}

// IsKnockIn reports whether crossing the barrier activates the option.
func (t BarrierType) IsKnockIn() bool {
	return t >= CallDownIn && t <= PutUpIn
}

func (t BarrierType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("BarrierType(%d)", uint8(t))
	}
	return barrierTypeCodes[t]
}

// ParseBarrierType converts a short code ("cdi", "puo", ...) to its
// BarrierType, or returns ErrUnknownBarrierType.
func ParseBarrierType(code string) (BarrierType, error) {
	for i := 1; i < len(barrierTypeCodes); i++ {
		if barrierTypeCodes[i] == code {
			return BarrierType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBarrierType, code)
}

// barrierCoeffs selects the linear combination of the six closed-form terms
// (A, B, C, D, in-rebate E, out-rebate F) per barrier variant. Row 0 applies
// when strike > barrier, row 1 otherwise. Keeping the selection as a table
// keeps all eight branches auditable and independently testable.
var barrierCoeffs = [9][2][6]float64{
	CallDownIn:  {{0, 0, 1, 0, 1, 0}, {1, -1, 0, 1, 1, 0}},
	PutDownIn:   {{0, 1, -1, 1, 1, 0}, {1, 0, 0, 0, 1, 0}},
	CallUpIn:    {{1, 0, 0, 0, 1, 0}, {0, 1, -1, 1, 1, 0}},
	PutUpIn:     {{1, -1, 0, 1, 1, 0}, {0, 0, 1, 0, 1, 0}},
	CallDownOut: {{1, 0, -1, 0, 0, 1}, {0, 1, 0, -1, 0, 1}},
	PutDownOut:  {{1, -1, 1, -1, 0, 1}, {0, 0, 0, 0, 0, 1}},
	CallUpOut:   {{0, 0, 0, 0, 0, 1}, {1, -1, 1, -1, 0, 1}},
	PutUpOut:    {{0, 1, 0, -1, 0, 1}, {1, 0, -1, 0, 0, 1}},
}

// BarrierTerms carries the inputs of a barrier pricing call. Numeric terms
// broadcast like VanillaTerms. BarrierTypes holds either a single variant
// applied to every element or one variant per element of the broadcast shape.
//
// Defaults for unset optional terms: DiscountRates and AssetYields are 0,
// Rebates are 0.
type BarrierTerms[T vmath.Floats] struct {
	// Volatilities holds annualized volatilities, >= 0. Required.
	Volatilities *vmath.Array[T]
	// Strikes holds exercise prices, > 0. Required.
	Strikes *vmath.Array[T]
	// Expiries holds times to maturity in years, >= 0. Required.
	Expiries *vmath.Array[T]
	// Spots holds spot prices, > 0. Required.
	Spots *vmath.Array[T]
	// Barriers holds barrier levels, > 0. Required.
	Barriers *vmath.Array[T]

	// DiscountRates holds continuously compounded discount rates.
	DiscountRates *vmath.Array[T]
	// AssetYields holds continuous yields of the underlying; the cost of
	// carry is DiscountRates - AssetYields.
	AssetYields *vmath.Array[T]
	// Rebates holds the cash paid when a knock-out knocks (at touch) or a
	// knock-in never activates (at expiry), >= 0.
	Rebates *vmath.Array[T]

	// BarrierTypes holds the variant per element (length 1 broadcasts).
	BarrierTypes []BarrierType

	// Pool, when set, splits large batches across workers.
	Pool *workerpool.Pool
}

type barrierInputs[T vmath.Floats] struct {
	shape         vmath.Shape
	volatilities  []T
	strikes       []T
	expiries      []T
	spots         []T
	barriers      []T
	discountRates []T
	assetYields   []T
	rebates       []T
	types         []BarrierType // length 1 or NumElements
	pool          *workerpool.Pool
}

func (in *barrierInputs[T]) typeAt(i int) BarrierType {
	if len(in.types) == 1 {
		return in.types[0]
	}
	return in.types[i]
}

func normalizeBarrier[T vmath.Floats](terms BarrierTerms[T]) (*barrierInputs[T], error) {
	if terms.Volatilities == nil || terms.Strikes == nil || terms.Expiries == nil ||
		terms.Spots == nil || terms.Barriers == nil {
		return nil, fmt.Errorf("%w: volatilities, strikes, expiries, spots and barriers are required", ErrInvalidDomain)
	}
	if len(terms.BarrierTypes) == 0 {
		return nil, fmt.Errorf("%w: barrier types are required", ErrInvalidDomain)
	}
	for _, typ := range terms.BarrierTypes {
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownBarrierType, uint8(typ))
		}
	}

	shapes := []vmath.Shape{
		terms.Volatilities.Shape(), terms.Strikes.Shape(), terms.Expiries.Shape(),
		terms.Spots.Shape(), terms.Barriers.Shape(),
	}
	for _, opt := range []*vmath.Array[T]{terms.DiscountRates, terms.AssetYields, terms.Rebates} {
		if opt != nil {
			shapes = append(shapes, opt.Shape())
		}
	}
	if len(terms.BarrierTypes) > 1 {
		shapes = append(shapes, vmath.Shape{len(terms.BarrierTypes)})
	}
	shape, err := vmath.BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}
	n := shape.NumElements()
	if len(terms.BarrierTypes) != 1 && len(terms.BarrierTypes) != n {
		return nil, fmt.Errorf("%w: %d barrier types against %d elements",
			vmath.ErrShapeMismatch, len(terms.BarrierTypes), n)
	}

	in := &barrierInputs[T]{shape: shape, types: terms.BarrierTypes, pool: terms.Pool}
	if in.volatilities, err = broadcastData(terms.Volatilities, shape); err != nil {
		return nil, err
	}
	if in.strikes, err = broadcastData(terms.Strikes, shape); err != nil {
		return nil, err
	}
	if in.expiries, err = broadcastData(terms.Expiries, shape); err != nil {
		return nil, err
	}
	if in.spots, err = broadcastData(terms.Spots, shape); err != nil {
		return nil, err
	}
	if in.barriers, err = broadcastData(terms.Barriers, shape); err != nil {
		return nil, err
	}
	if err = validateNonNegative(in.volatilities, "volatilities"); err != nil {
		return nil, err
	}
	if err = validateNonNegative(in.expiries, "expiries"); err != nil {
		return nil, err
	}
	if err = validatePositive(in.strikes, "strikes"); err != nil {
		return nil, err
	}
	if err = validatePositive(in.spots, "spots"); err != nil {
		return nil, err
	}
	if err = validatePositive(in.barriers, "barriers"); err != nil {
		return nil, err
	}

	broadcastOrZero := func(arr *vmath.Array[T]) ([]T, error) {
		if arr == nil {
			return make([]T, n), nil
		}
		return broadcastData(arr, shape)
	}
	if in.discountRates, err = broadcastOrZero(terms.DiscountRates); err != nil {
		return nil, err
	}
	if in.assetYields, err = broadcastOrZero(terms.AssetYields); err != nil {
		return nil, err
	}
	if in.rebates, err = broadcastOrZero(terms.Rebates); err != nil {
		return nil, err
	}
	if err = validateNonNegative(in.rebates, "rebates"); err != nil {
		return nil, err
	}

	return in, nil
}

// BarrierOptionPrice computes prices of single-barrier knock-in/knock-out
// options over a batch of scenarios, using the closed-form decomposition
// into the terms A, B, C, D (vanilla-style prices with adjusted drift), E
// (rebate paid at expiry when a knock-in never activates) and F (rebate paid
// at touch when a knock-out knocks). The linear combination per variant is
// selected from barrierCoeffs by barrier type and the per-element
// strike/barrier ordering.
//
// Per-element overrides, applied after the closed form:
//   - A barrier already breached at evaluation time (spot at or beyond the
//     barrier) short-circuits: knock-outs pay the rebate immediately and
//     knock-ins price as the corresponding vanilla option.
//   - Zero total variance with the barrier unbreached prices knock-outs at
//     discounted intrinsic value and knock-ins at the discounted rebate,
//     treating the flat path as never crossing the barrier.
func BarrierOptionPrice[T vmath.Floats](terms BarrierTerms[T]) (*vmath.Array[T], error) {
	in, err := normalizeBarrier(terms)
	if err != nil {
		return nil, err
	}
	n := in.shape.NumElements()
	out := make([]T, n)

	runBatch(in.pool, n, func(s, e int) {
		for i := s; i < e; i++ {
			out[i] = T(barrierElement(
				in.typeAt(i),
				float64(in.volatilities[i]),
				float64(in.strikes[i]),
				float64(in.expiries[i]),
				float64(in.spots[i]),
				float64(in.discountRates[i]),
				float64(in.assetYields[i]),
				float64(in.barriers[i]),
				float64(in.rebates[i]),
			))
		}
	})

	return vmath.New(in.shape, out)
}

// barrierElement prices one scenario. vol, expiry and the spot/barrier
// ordering decide between the closed form and the degenerate overrides.
func barrierElement(typ BarrierType, vol, strike, expiry, spot, rate, yield, barrier, rebate float64) float64 {
	carry := rate - yield

	breached := spot <= barrier
	if !typ.IsDown() {
		breached = spot >= barrier
	}
	if breached {
		if typ.IsKnockIn() {
			return vanillaScalar(typ.IsCall(), spot, strike, expiry, rate, carry, vol)
		}
		// Knocked out: the rebate is due at touch, i.e. now.
		return rebate
	}

	sv := vol * stdmath.Sqrt(expiry)
	if sv == 0 {
		// Flat path, barrier never touched.
		df := stdmath.Exp(-rate * expiry)
		if typ.IsKnockIn() {
			return rebate * df
		}
		return vanillaScalar(typ.IsCall(), spot, strike, expiry, rate, carry, vol)
	}

	phi, eta := -1.0, -1.0
	if typ.IsCall() {
		phi = 1
	}
	if typ.IsDown() {
		eta = 1
	}

	variance := vol * vol
	mu := carry/variance - 0.5
	lambda := stdmath.Sqrt(mu*mu + 2*rate/variance)

	x1 := stdmath.Log(spot/strike)/sv + (1+mu)*sv
	x2 := stdmath.Log(spot/barrier)/sv + (1+mu)*sv
	y1 := stdmath.Log(barrier*barrier/(spot*strike))/sv + (1+mu)*sv
	y2 := stdmath.Log(barrier/spot)/sv + (1+mu)*sv
	z := stdmath.Log(barrier/spot)/sv + lambda*sv

	growth := stdmath.Exp((carry - rate) * expiry) // carry-adjusted spot growth net of discounting
	df := stdmath.Exp(-rate * expiry)
	hs := barrier / spot
	hs2mu := stdmath.Pow(hs, 2*mu)
	hs2mu1 := stdmath.Pow(hs, 2*(mu+1))

	termA := phi*spot*growth*vmath.NormCDF(phi*x1) - phi*strike*df*vmath.NormCDF(phi*(x1-sv))
	termB := phi*spot*growth*vmath.NormCDF(phi*x2) - phi*strike*df*vmath.NormCDF(phi*(x2-sv))
	termC := phi*spot*growth*hs2mu1*vmath.NormCDF(eta*y1) - phi*strike*df*hs2mu*vmath.NormCDF(eta*(y1-sv))
	termD := phi*spot*growth*hs2mu1*vmath.NormCDF(eta*y2) - phi*strike*df*hs2mu*vmath.NormCDF(eta*(y2-sv))
	termE := rebate * df * (vmath.NormCDF(eta*(x2-sv)) - hs2mu*vmath.NormCDF(eta*(y2-sv)))
	termF := rebate * (stdmath.Pow(hs, mu+lambda)*vmath.NormCDF(eta*z) +
		stdmath.Pow(hs, mu-lambda)*vmath.NormCDF(eta*(z-2*lambda*sv)))

	row := 1
	if strike > barrier {
		row = 0
	}
	coeffs := barrierCoeffs[typ][row]
	terms := [6]float64{termA, termB, termC, termD, termE, termF}

	price := 0.0
	for k, c := range coeffs {
		if c != 0 {
			price += c * terms[k]
		}
	}
	return price
}

// vanillaScalar prices a single vanilla option from spot, discount rate and
// cost of carry, with the same zero-variance intrinsic fallback as the
// batched pricer.
func vanillaScalar(isCall bool, spot, strike, expiry, rate, carry, vol float64) float64 {
	forward := spot * stdmath.Exp(carry*expiry)
	df := stdmath.Exp(-rate * expiry)

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
	if isCall {
		return df * (forward*vmath.NormCDF(d1) - strike*vmath.NormCDF(d2))
	}
	return df * (strike*vmath.NormCDF(-d2) - forward*vmath.NormCDF(-d1))
}
