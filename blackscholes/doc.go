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

// Package blackscholes prices European options in closed form over batches
// of market scenarios.
//
// Three pricers are provided: vanilla options (OptionPrice), cash-or-nothing
// binaries (BinaryPrice) and single-barrier knock-in/knock-out options
// (BarrierOptionPrice), plus the analytic greeks and an implied volatility
// solver built on the same machinery.
//
// Inputs are batched arrays (see the vmath package) that broadcast against
// each other: scalars stretch to any shape, and arrays of compatible shapes
// align element-wise. Each element of the batch is an independent scenario;
// degenerate scenarios (zero volatility, zero expiry, extremely long expiry,
// an already-breached barrier) are handled per element, so a single batch may
// freely mix regular and degenerate inputs.
//
//	price, err := blackscholes.OptionPrice(blackscholes.VanillaTerms[float64]{
//	    Volatilities: vmath.FromSlice([]float64{0.2, 0.3}),
//	    Strikes:      vmath.Scalar(100.0),
//	    Expiries:     vmath.Scalar(0.5),
//	    Forwards:     vmath.FromSlice([]float64{95.0, 105.0}),
//	})
//
// All functions are pure: no global state, no side effects, and every call
// either returns a fully computed array or an error before producing output.
package blackscholes
