// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package securepoly

import "errors"

var (
	// ErrKindMismatch is returned when the operands of an operation don't share the same scalar kind.
	ErrKindMismatch = errors.New("operands have different scalar kinds")

	// ErrMalformedConstruction is returned when a polynomial can't be built from the given arguments.
	ErrMalformedConstruction = errors.New("malformed polynomial construction")
)

var (
	errNoCoefficients      = errors.New("no coefficients")
	errNilCoefficient      = errors.New("nil coefficient")
	errNegativeDegree      = errors.New("negative degree")
	errUnavailableKind     = errors.New("unavailable scalar kind")
	errCoefficientsLength  = errors.New("number of coefficients doesn't match the degree")
	errNilPolynomial       = errors.New("nil polynomial")
	errNilPoint            = errors.New("nil evaluation point")
	errSecretPoint         = errors.New("evaluation point is not public, use EvaluateOnSecret")
	errRevealedCoefficient = errors.New("revealed coefficient count mismatch")
)
