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
	"errors"
	stdmath "math"
	"math/rand"
	"testing"

	"github.com/SamOnSec/tf-quant-finance/vmath"
	"github.com/SamOnSec/tf-quant-finance/workerpool"
)

func assertNear[T vmath.Floats](t *testing.T, got []T, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if diff := stdmath.Abs(float64(got[i]) - want[i]); diff > tol || stdmath.IsNaN(float64(got[i])) {
			t.Errorf("element %d: got %v, want %v (diff %v)", i, got[i], want[i], diff)
		}
	}
}

func TestOptionPrices(t *testing.T) {
	prices, err := OptionPrice(VanillaTerms[float64]{
		Volatilities: vmath.FromSlice([]float64{0.0001, 102.0, 2.0, 0.1, 0.4}),
		Strikes:      vmath.Scalar(3.0),
		Expiries:     vmath.Scalar(1.0),
		Forwards:     vmath.FromSlice([]float64{1, 2, 3, 4, 5}),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	want := []float64{0.0, 2.0, 2.0480684764112578, 1.0002029716043364, 2.0730313058959933}
	assertNear(t, prices.Data(), want, 1e-10)
}

func TestOptionPriceZeroVol(t *testing.T) {
	prices, err := OptionPrice(VanillaTerms[float64]{
		Volatilities:  vmath.Scalar(0.0),
		Strikes:       vmath.FromSlice([]float64{1.1, 0.9, 1.1, 0.9}),
		Expiries:      vmath.Scalar(1.0),
		Forwards:      vmath.Scalar(1.0),
		IsCallOptions: vmath.BoolFromSlice([]bool{true, true, false, false}),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	assertNear(t, prices.Data(), []float64{0.0, 0.1, 0.1, 0.0}, 1e-10)
}

func TestOptionPriceZeroExpiry(t *testing.T) {
	prices, err := OptionPrice(VanillaTerms[float64]{
		Volatilities:  vmath.FromSlice([]float64{0.1, 0.2, 0.5, 0.9}),
		Strikes:       vmath.FromSlice([]float64{1.1, 0.9, 1.1, 0.9}),
		Expiries:      vmath.Scalar(0.0),
		Forwards:      vmath.Scalar(1.0),
		IsCallOptions: vmath.BoolFromSlice([]bool{true, true, false, false}),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	assertNear(t, prices.Data(), []float64{0.0, 0.1, 0.1, 0.0}, 1e-10)
}

// A very long expiry call converges exactly to the forward: the normal CDF
// saturates to 1 and 0 in float64 well before expiry 1e10.
func TestOptionPriceLongExpiryCalls(t *testing.T) {
	prices, err := OptionPrice(VanillaTerms[float64]{
		Volatilities: vmath.FromSlice([]float64{0.1, 0.2, 0.5, 0.9}),
		Strikes:      vmath.FromSlice([]float64{1.1, 0.9, 1.1, 0.9}),
		Expiries:     vmath.Scalar(1e10),
		Forwards:     vmath.Scalar(1.0),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	assertNear(t, prices.Data(), []float64{1, 1, 1, 1}, 1e-10)
}

func TestOptionPriceLongExpiryPuts(t *testing.T) {
	strikes := []float64{0.1, 10.0, 3.0, 0.0001}
	prices, err := OptionPrice(VanillaTerms[float64]{
		Volatilities:  vmath.FromSlice([]float64{0.1, 0.2, 0.5, 0.9}),
		Strikes:       vmath.FromSlice(strikes),
		Expiries:      vmath.Scalar(1e10),
		Forwards:      vmath.Scalar(1.0),
		IsCallOptions: vmath.BoolScalar(false),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	assertNear(t, prices.Data(), strikes, 1e-10)
}

// Prices are invariant under vol -> k*vol, expiry -> expiry/k^2.
func TestOptionPriceVolExpiryScaling(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	n := 20
	forwards := make([]float64, n)
	volatilities := make([]float64, n)
	strikes := make([]float64, n)
	expiries := make([]float64, n)
	scaledVols := make([]float64, n)
	scaledExpiries := make([]float64, n)
	const scaling = 5.0
	for i := 0; i < n; i++ {
		forwards[i] = stdmath.Exp(rng.NormFloat64())
		volatilities[i] = stdmath.Exp(rng.NormFloat64() / 2)
		strikes[i] = stdmath.Exp(rng.NormFloat64())
		expiries[i] = stdmath.Exp(rng.NormFloat64())
		scaledVols[i] = volatilities[i] * scaling
		scaledExpiries[i] = expiries[i] / scaling / scaling
	}

	base, err := OptionPrice(VanillaTerms[float64]{
		Volatilities: vmath.FromSlice(volatilities),
		Strikes:      vmath.FromSlice(strikes),
		Expiries:     vmath.FromSlice(expiries),
		Forwards:     vmath.FromSlice(forwards),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	scaled, err := OptionPrice(VanillaTerms[float64]{
		Volatilities: vmath.FromSlice(scaledVols),
		Strikes:      vmath.FromSlice(strikes),
		Expiries:     vmath.FromSlice(scaledExpiries),
		Forwards:     vmath.FromSlice(forwards),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	assertNear(t, scaled.Data(), base.Data(), 1e-10)
}

func runDetailedDiscount[T vmath.Floats](t *testing.T) {
	t.Helper()
	spots := []T{80, 90, 100, 110, 120, 80, 90, 100, 110, 120}
	isCall := []bool{true, true, true, true, true, false, false, false, false, false}
	prices, err := OptionPrice(VanillaTerms[T]{
		Volatilities:  vmath.Scalar(T(0.2)),
		Strikes:       vmath.Scalar(T(100.0)),
		Expiries:      vmath.Scalar(T(0.25)),
		Spots:         vmath.FromSlice(spots),
		DiscountRates: vmath.Scalar(T(0.08)),
		CostOfCarries: vmath.Scalar(T(-0.04)),
		IsCallOptions: vmath.BoolFromSlice(isCall),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	want := []float64{0.03, 0.57, 3.42, 9.85, 18.62, 20.41, 11.25, 4.40, 1.12, 0.18}
	assertNear(t, prices.Data(), want, 5e-3)
}

func TestOptionPriceDetailedDiscount(t *testing.T) {
	t.Run("SinglePrecision", runDetailedDiscount[float32])
	t.Run("DoublePrecision", runDetailedDiscount[float64])
}

func TestPutCallParity(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	n := 200
	forwards := make([]float64, n)
	strikes := make([]float64, n)
	volatilities := make([]float64, n)
	expiries := make([]float64, n)
	rates := make([]float64, n)
	for i := 0; i < n; i++ {
		forwards[i] = stdmath.Exp(rng.NormFloat64())
		strikes[i] = stdmath.Exp(rng.NormFloat64())
		volatilities[i] = stdmath.Exp(rng.NormFloat64() / 2)
		expiries[i] = rng.ExpFloat64()
		rates[i] = 0.1 * rng.Float64()
	}

	terms := func(isCall bool) VanillaTerms[float64] {
		return VanillaTerms[float64]{
			Volatilities:  vmath.FromSlice(volatilities),
			Strikes:       vmath.FromSlice(strikes),
			Expiries:      vmath.FromSlice(expiries),
			Forwards:      vmath.FromSlice(forwards),
			DiscountRates: vmath.FromSlice(rates),
			IsCallOptions: vmath.BoolScalar(isCall),
		}
	}
	calls, err := OptionPrice(terms(true))
	if err != nil {
		t.Fatalf("OptionPrice calls: %v", err)
	}
	puts, err := OptionPrice(terms(false))
	if err != nil {
		t.Fatalf("OptionPrice puts: %v", err)
	}

	for i := 0; i < n; i++ {
		df := stdmath.Exp(-rates[i] * expiries[i])
		want := df * (forwards[i] - strikes[i])
		got := calls.At(i) - puts.At(i)
		if stdmath.Abs(got-want) > 1e-10 {
			t.Errorf("parity at %d: call-put = %v, want %v", i, got, want)
		}
	}
}

// Chunking a batch across workers must not change any element.
func TestOptionPriceWithPool(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	rng := rand.New(rand.NewSource(7))
	n := 10000
	forwards := make([]float64, n)
	strikes := make([]float64, n)
	volatilities := make([]float64, n)
	expiries := make([]float64, n)
	for i := 0; i < n; i++ {
		forwards[i] = stdmath.Exp(rng.NormFloat64())
		strikes[i] = stdmath.Exp(rng.NormFloat64())
		volatilities[i] = stdmath.Exp(rng.NormFloat64() / 2)
		expiries[i] = rng.ExpFloat64()
	}

	terms := VanillaTerms[float64]{
		Volatilities: vmath.FromSlice(volatilities),
		Strikes:      vmath.FromSlice(strikes),
		Expiries:     vmath.FromSlice(expiries),
		Forwards:     vmath.FromSlice(forwards),
	}
	sequential, err := OptionPrice(terms)
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	terms.Pool = pool
	parallel, err := OptionPrice(terms)
	if err != nil {
		t.Fatalf("OptionPrice with pool: %v", err)
	}

	for i := 0; i < n; i++ {
		if sequential.At(i) != parallel.At(i) {
			t.Fatalf("element %d: sequential %v != parallel %v", i, sequential.At(i), parallel.At(i))
		}
	}
}

func TestOptionPriceErrors(t *testing.T) {
	valid := func() VanillaTerms[float64] {
		return VanillaTerms[float64]{
			Volatilities: vmath.Scalar(0.2),
			Strikes:      vmath.Scalar(100.0),
			Expiries:     vmath.Scalar(1.0),
			Forwards:     vmath.Scalar(100.0),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*VanillaTerms[float64])
		wantErr error
	}{
		{
			"missing volatilities",
			func(terms *VanillaTerms[float64]) { terms.Volatilities = nil },
			ErrInvalidDomain,
		},
		{
			"both spots and forwards",
			func(terms *VanillaTerms[float64]) { terms.Spots = vmath.Scalar(100.0) },
			ErrInvalidDomain,
		},
		{
			"neither spots nor forwards",
			func(terms *VanillaTerms[float64]) { terms.Forwards = nil },
			ErrInvalidDomain,
		},
		{
			"negative volatility",
			func(terms *VanillaTerms[float64]) { terms.Volatilities = vmath.Scalar(-0.2) },
			ErrInvalidDomain,
		},
		{
			"negative expiry",
			func(terms *VanillaTerms[float64]) { terms.Expiries = vmath.Scalar(-1.0) },
			ErrInvalidDomain,
		},
		{
			"zero strike",
			func(terms *VanillaTerms[float64]) { terms.Strikes = vmath.Scalar(0.0) },
			ErrInvalidDomain,
		},
		{
			"negative forward",
			func(terms *VanillaTerms[float64]) { terms.Forwards = vmath.Scalar(-1.0) },
			ErrInvalidDomain,
		},
		{
			"shape mismatch",
			func(terms *VanillaTerms[float64]) {
				terms.Strikes = vmath.FromSlice([]float64{1, 2})
				terms.Forwards = vmath.FromSlice([]float64{1, 2, 3})
			},
			vmath.ErrShapeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := valid()
			tt.mutate(&terms)
			if _, err := OptionPrice(terms); !errors.Is(err, tt.wantErr) {
				t.Errorf("OptionPrice error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Discount factors alone must both discount the payoff and imply the rates
// used to grow spots into forwards.
func TestOptionPriceDiscountFactorsOnly(t *testing.T) {
	expiry := 2.0
	rate := 0.05
	df := stdmath.Exp(-rate * expiry)

	fromFactors, err := OptionPrice(VanillaTerms[float64]{
		Volatilities:    vmath.Scalar(0.3),
		Strikes:         vmath.Scalar(1.2),
		Expiries:        vmath.Scalar(expiry),
		Spots:           vmath.Scalar(1.0),
		DiscountFactors: vmath.Scalar(df),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	fromRates, err := OptionPrice(VanillaTerms[float64]{
		Volatilities:  vmath.Scalar(0.3),
		Strikes:       vmath.Scalar(1.2),
		Expiries:      vmath.Scalar(expiry),
		Spots:         vmath.Scalar(1.0),
		DiscountRates: vmath.Scalar(rate),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	assertNear(t, fromFactors.Data(), fromRates.Data(), 1e-12)
}

func TestOptionPriceBroadcastGrid(t *testing.T) {
	strikes, err := vmath.New(vmath.Shape{3, 1}, []float64{0.5, 1.0, 2.0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prices, err := OptionPrice(VanillaTerms[float64]{
		Volatilities: vmath.Scalar(0.0),
		Strikes:      strikes,
		Expiries:     vmath.Scalar(1.0),
		Forwards:     vmath.FromSlice([]float64{1.0, 3.0}),
	})
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	if !prices.Shape().Equal(vmath.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", prices.Shape())
	}
	// Zero vol prices the grid at intrinsic value, row-major over
	// strike x forward.
	want := []float64{0.5, 2.5, 0.0, 2.0, 0.0, 1.0}
	assertNear(t, prices.Data(), want, 1e-12)
}
