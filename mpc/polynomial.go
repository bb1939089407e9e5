// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package mpc

import (
	"errors"

	group "github.com/bytemare/crypto"
)

var (
	errPolyXIsZero         = errors.New("identifier for interpolation is nil or zero")
	errPolyHasZeroCoeff    = errors.New("one of the polynomial's coefficients is zero")
	errPolyHasDuplicates   = errors.New("the polynomial has duplicate coefficients")
	errPolyHasNilCoeff     = errors.New("the polynomial has a nil coefficient")
	errPolyCoeffInexistant = errors.New("the coefficient does not exist in the polynomial")
)

// polynomial is a sharing polynomial over scalars, or a list of party identifiers used for interpolation.
// The constant term is in the first position and the highest degree coefficient is in the last position.
type polynomial []*group.Scalar

func newPolynomial(coefficients uint16) polynomial {
	return make(polynomial, coefficients)
}

// identifiers returns the x-coordinates 1..n of the parties as scalars.
func identifiers(g group.Group, n uint16) polynomial {
	ids := newPolynomial(n)
	for i := range n {
		ids[i] = g.NewScalar().SetUInt64(uint64(i) + 1)
	}

	return ids
}

func (p polynomial) verifyInterpolatingInput(id *group.Scalar) error {
	if id == nil || id.IsZero() {
		return errPolyXIsZero
	}

	if p.hasNil() {
		return errPolyHasNilCoeff
	}

	if p.hasZero() {
		return errPolyHasZeroCoeff
	}

	if !p.has(id) {
		return errPolyCoeffInexistant
	}

	if p.hasDuplicates() {
		return errPolyHasDuplicates
	}

	return nil
}

// hasNil returns whether one of the coefficients is nil.
func (p polynomial) hasNil() bool {
	for _, si := range p {
		if si == nil {
			return true
		}
	}

	return false
}

// has returns whether s is a coefficient of the polynomial.
func (p polynomial) has(s *group.Scalar) bool {
	for _, si := range p {
		if si.Equal(s) == 1 {
			return true
		}
	}

	return false
}

// hasZero returns whether one of the polynomials coefficients is 0.
func (p polynomial) hasZero() bool {
	for _, xj := range p {
		if xj.IsZero() {
			return true
		}
	}

	return false
}

// hasDuplicates returns whether the polynomial has at least one coefficient that appears more than once.
func (p polynomial) hasDuplicates() bool {
	visited := make(map[string]bool, len(p))

	for _, pi := range p {
		enc := string(pi.Encode())
		if visited[enc] {
			return true
		}

		visited[enc] = true
	}

	return false
}

// evaluate evaluates the polynomial p at point x using Horner's method.
func (p polynomial) evaluate(g group.Group, x *group.Scalar) *group.Scalar {
	value := g.NewScalar().Zero().Add(p[len(p)-1]) // since value starts with 0, we can skip multiplying by x
	for i := len(p) - 2; i >= 0; i-- {
		value.Multiply(x)
		value.Add(p[i])
	}

	return value
}

// deriveInterpolatingValue derives the Lagrange coefficient of id for an interpolation at 0 over the x-coordinates
// held in p. id and all the coefficients must be non-zero scalars.
func (p polynomial) deriveInterpolatingValue(g group.Group, id *group.Scalar) (*group.Scalar, error) {
	if err := p.verifyInterpolatingInput(id); err != nil {
		return nil, err
	}

	numerator := g.NewScalar().One()
	denominator := g.NewScalar().One()

	for _, coeff := range p {
		if coeff.Equal(id) == 1 {
			continue
		}

		numerator.Multiply(coeff)
		denominator.Multiply(coeff.Copy().Subtract(id))
	}

	return numerator.Multiply(denominator.Invert()), nil
}

// recombinationVector returns the Lagrange coefficients of every x-coordinate in p, in the same order.
func (p polynomial) recombinationVector(g group.Group) (polynomial, error) {
	lambdas := make(polynomial, len(p))

	for i, id := range p {
		l, err := p.deriveInterpolatingValue(g, id)
		if err != nil {
			return nil, err
		}

		lambdas[i] = l
	}

	return lambdas, nil
}
