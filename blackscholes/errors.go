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

import "errors"

// Errors reported by the pricing engines. Shape incompatibilities surface as
// vmath.ErrShapeMismatch. All errors are returned before any output is
// produced; out-of-domain inputs are never clamped.
var (
	// ErrInvalidDomain reports an input that violates a documented
	// precondition: negative volatility, expiry or rebate, a non-positive
	// strike, spot or barrier, or a missing/over-specified term.
	ErrInvalidDomain = errors.New("blackscholes: invalid domain")

	// ErrUnknownBarrierType reports a barrier type outside the eight-value
	// enum.
	ErrUnknownBarrierType = errors.New("blackscholes: unknown barrier type")
)
