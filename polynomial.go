// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package securepoly provides univariate polynomial algebra over secret-shared scalars. Coefficients and evaluation
// points can each be secret or public, and operations are arranged to minimize the number of secure multiplications,
// the only operations that require communication between the computing parties.
package securepoly

import (
	"context"
	"fmt"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/securepoly/mpc"
)

// Polynomial is a dense univariate polynomial over secure scalars, represented by its degree+1 coefficients. The
// constant term is in the first position and the highest degree coefficient is in the last position.
//
// A Polynomial is immutable, and all its coefficients share the same scalar kind. Leading zero coefficients are
// kept: the degree is that of the representation, which may exceed the mathematical degree of the value.
type Polynomial struct {
	coefficients []*mpc.Value
	kind         group.Group
}

// New returns the polynomial with the given coefficients, ordered from the constant term to the leading term.
// The degree is len(coefficients)-1, and the scalar kind is that of the first coefficient.
func New(coefficients ...*mpc.Value) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConstruction, errNoCoefficients)
	}

	if coefficients[0] == nil {
		return nil, fmt.Errorf("%w: %w at degree 0", ErrMalformedConstruction, errNilCoefficient)
	}

	return build(coefficients[0].Kind(), slices.Clone(coefficients))
}

// NewWithDegree returns a polynomial of the given degree and scalar kind. If no coefficients are given, they are all
// set to the public zero of that kind. Otherwise, exactly degree+1 coefficients of that kind must be given.
func NewWithDegree(kind group.Group, degree int, coefficients ...*mpc.Value) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: %w: %d", ErrMalformedConstruction, errNegativeDegree, degree)
	}

	if !kind.Available() {
		return nil, fmt.Errorf("%w: %w: %d", ErrMalformedConstruction, errUnavailableKind, kind)
	}

	if len(coefficients) == 0 {
		zeros := make([]*mpc.Value, degree+1)
		for i := range zeros {
			zeros[i] = mpc.PublicInt(kind, 0)
		}

		return &Polynomial{kind: kind, coefficients: zeros}, nil
	}

	if len(coefficients) != degree+1 {
		return nil, fmt.Errorf("%w: %w: %d coefficients for degree %d",
			ErrMalformedConstruction, errCoefficientsLength, len(coefficients), degree)
	}

	return build(kind, slices.Clone(coefficients))
}

// FromInts returns the polynomial with the given public integer coefficients.
func FromInts(kind group.Group, coefficients ...int64) (*Polynomial, error) {
	values := make([]*mpc.Value, len(coefficients))
	for i, c := range coefficients {
		values[i] = mpc.PublicInt(kind, c)
	}

	return NewWithDegree(kind, len(coefficients)-1, values...)
}

// build takes ownership of coefficients.
func build(kind group.Group, coefficients []*mpc.Value) (*Polynomial, error) {
	for i, c := range coefficients {
		if c == nil {
			return nil, fmt.Errorf("%w: %w at degree %d", ErrMalformedConstruction, errNilCoefficient, i)
		}

		if c.Kind() != kind {
			return nil, fmt.Errorf("%w: coefficient of degree %d", ErrKindMismatch, i)
		}
	}

	return &Polynomial{kind: kind, coefficients: coefficients}, nil
}

// Degree returns the degree of the representation, i.e. the number of coefficients minus one.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Kind returns the scalar kind shared by all coefficients.
func (p *Polynomial) Kind() group.Group {
	return p.kind
}

// Coefficient returns the coefficient of x^i, or nil if i is out of [0, Degree()].
func (p *Polynomial) Coefficient(i int) *mpc.Value {
	if i < 0 || i >= len(p.coefficients) {
		return nil
	}

	return p.coefficients[i]
}

// Coefficients returns the coefficients, from the constant term to the leading term.
func (p *Polynomial) Coefficients() []*mpc.Value {
	return slices.Clone(p.coefficients)
}

func (p *Polynomial) checkOperand(q *Polynomial) error {
	if q == nil {
		return fmt.Errorf("%w: %w", ErrMalformedConstruction, errNilPolynomial)
	}

	if p.kind != q.kind {
		return fmt.Errorf("%w: %s and %s", ErrKindMismatch, p.kind, q.kind)
	}

	return nil
}

// Negate returns -p. It is local.
func (p *Polynomial) Negate(e Engine) (*Polynomial, error) {
	out := make([]*mpc.Value, len(p.coefficients))

	for i, c := range p.coefficients {
		n, err := e.Negate(c)
		if err != nil {
			return nil, err
		}

		out[i] = n
	}

	return &Polynomial{kind: p.kind, coefficients: out}, nil
}

// Add returns p+q, whose degree is the largest of both. It is local.
func (p *Polynomial) Add(e Engine, q *Polynomial) (*Polynomial, error) {
	if err := p.checkOperand(q); err != nil {
		return nil, err
	}

	hi, lo := p, q
	if hi.Degree() < lo.Degree() {
		hi, lo = lo, hi
	}

	out := make([]*mpc.Value, len(hi.coefficients))

	for i, c := range lo.coefficients {
		sum, err := e.Add(hi.coefficients[i], c)
		if err != nil {
			return nil, err
		}

		out[i] = sum
	}

	// Values are immutable, so the higher coefficients can be shared.
	copy(out[len(lo.coefficients):], hi.coefficients[len(lo.coefficients):])

	return &Polynomial{kind: p.kind, coefficients: out}, nil
}

// Sub returns p-q, computed as p+(-q). It is local.
func (p *Polynomial) Sub(e Engine, q *Polynomial) (*Polynomial, error) {
	if err := p.checkOperand(q); err != nil {
		return nil, err
	}

	neg, err := q.Negate(e)
	if err != nil {
		return nil, err
	}

	return p.Add(e, neg)
}

// convolutionTerms returns, for the coefficient of x^k of p*q, the coefficients of p of degrees i in [lo, hi) and the
// matching coefficients of q of degrees k-i, so that their inner product is that coefficient.
func convolutionTerms(p, q []*mpc.Value, k int) ([]*mpc.Value, []*mpc.Value) {
	dp, dq := len(p)-1, len(q)-1
	lo := max(0, k-dq)
	hi := min(k, dp) + 1

	a := p[lo:hi]
	b := make([]*mpc.Value, hi-lo)

	for j := range b {
		b[j] = q[k-lo-j]
	}

	return a, b
}

// Mul returns p*q, whose degree is the sum of both degrees. Each coefficient of the product is computed with a
// single inner product, for a total of p.Degree()+q.Degree()+1 rounds.
func (p *Polynomial) Mul(ctx context.Context, e Engine, q *Polynomial) (*Polynomial, error) {
	if err := p.checkOperand(q); err != nil {
		return nil, err
	}

	out := make([]*mpc.Value, p.Degree()+q.Degree()+1)

	for k := range out {
		a, b := convolutionTerms(p.coefficients, q.coefficients, k)

		c, err := e.InnerProduct(ctx, a, b)
		if err != nil {
			return nil, err
		}

		out[k] = c
	}

	return &Polynomial{kind: p.kind, coefficients: out}, nil
}

// EvaluateOnSecret returns p(x) for a point x of the same scalar kind, using Horner's method. It costs Degree()
// sequential rounds, each multiplication depending on the previous one. The result has the polynomial's scalar kind.
func (p *Polynomial) EvaluateOnSecret(ctx context.Context, e Engine, x *mpc.Value) (*mpc.Value, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConstruction, errNilPoint)
	}

	if x.Kind() != p.kind {
		return nil, fmt.Errorf("%w: point of kind %s for a polynomial of kind %s", ErrKindMismatch, x.Kind(), p.kind)
	}

	acc := p.coefficients[len(p.coefficients)-1]

	for i := len(p.coefficients) - 2; i >= 0; i-- {
		prod, err := e.Mul(ctx, x, acc)
		if err != nil {
			return nil, err
		}

		if acc, err = e.Add(prod, p.coefficients[i]); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

// EvaluateOnPublic returns p(x) for a public point x of the same scalar kind. The powers of x are computed locally, so
// the evaluation is a single inner product between the coefficients and public constants, which requires no
// multiplication round.
func (p *Polynomial) EvaluateOnPublic(ctx context.Context, e Engine, x *mpc.Value) (*mpc.Value, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConstruction, errNilPoint)
	}

	if x.Kind() != p.kind {
		return nil, fmt.Errorf("%w: point of kind %s for a polynomial of kind %s", ErrKindMismatch, x.Kind(), p.kind)
	}

	if !x.IsPublic() {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConstruction, errSecretPoint)
	}

	point := x.PublicScalar()
	powers := make([]*mpc.Value, len(p.coefficients))
	power := p.kind.NewScalar().One()

	for i := range powers {
		powers[i] = mpc.Public(p.kind, power)
		power.Multiply(point)
	}

	return e.InnerProduct(ctx, p.coefficients, powers)
}

// EvaluateOnPublicInt returns p(x) for the public integer x.
func (p *Polynomial) EvaluateOnPublicInt(ctx context.Context, e Engine, x int64) (*mpc.Value, error) {
	return p.EvaluateOnPublic(ctx, e, mpc.PublicInt(p.kind, x))
}

// Reveal opens all the coefficients, from the constant term to the leading term.
func (p *Polynomial) Reveal(ctx context.Context, e Engine) ([]*group.Scalar, error) {
	revealed, err := e.RevealBatch(ctx, p.coefficients)
	if err != nil {
		return nil, err
	}

	if len(revealed) != len(p.coefficients) {
		return nil, fmt.Errorf("%w: got %d for degree %d", errRevealedCoefficient, len(revealed), p.Degree())
	}

	return revealed, nil
}

// RevealInts opens all the coefficients and returns them as signed integers.
func (p *Polynomial) RevealInts(ctx context.Context, e Engine) ([]int64, error) {
	revealed, err := p.Reveal(ctx, e)
	if err != nil {
		return nil, err
	}

	out := make([]int64, len(revealed))

	for i, s := range revealed {
		if out[i], err = mpc.Int(p.kind, s); err != nil {
			return nil, fmt.Errorf("coefficient of degree %d: %w", i, err)
		}
	}

	return out, nil
}
