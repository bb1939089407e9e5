// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package mpc

import (
	"fmt"

	group "github.com/bytemare/crypto"
)

// Value is a scalar held by the computing parties. It is either public, in which case every party knows it, or
// secret, in which case party i only holds the i-th Shamir share of it. Values are immutable: operations always
// return new values.
type Value struct {
	public *group.Scalar
	shares polynomial
	group  group.Group
}

// Public returns a public value holding a copy of s in g. Scalars don't carry their group, so s must have been
// created by g: the value's kind is g, and operations check kinds on values only.
func Public(g group.Group, s *group.Scalar) *Value {
	return &Value{group: g, public: s.Copy()}
}

// PublicInt returns a public value holding the integer v in g.
func PublicInt(g group.Group, v int64) *Value {
	return &Value{group: g, public: ScalarFromInt(g, v)}
}

// Kind returns the group the value's scalars belong to.
func (v *Value) Kind() group.Group {
	return v.group
}

// IsPublic returns whether the value is known to all parties.
func (v *Value) IsPublic() bool {
	return v.public != nil
}

// PublicScalar returns a copy of the value's scalar if it is public, and nil otherwise.
func (v *Value) PublicScalar() *group.Scalar {
	if v.public == nil {
		return nil
	}

	return v.public.Copy()
}

// Share returns a copy of the share held by party id, which must be in [1, parties]. For public values, every party's
// share is the value itself.
func (v *Value) Share(id uint16) (*group.Scalar, error) {
	if v.public != nil {
		return v.public.Copy(), nil
	}

	if id == 0 || int(id) > len(v.shares) {
		return nil, fmt.Errorf("%w: no share for party %d", errPolyCoeffInexistant, id)
	}

	return v.shares[id-1].Copy(), nil
}

// String returns a human-readable description that never discloses a secret.
func (v *Value) String() string {
	if v.public != nil {
		return fmt.Sprintf("public(%s)", v.public.Hex())
	}

	return fmt.Sprintf("secret(%d shares)", len(v.shares))
}

// share returns the scalar party index i uses in local computations.
func (v *Value) share(i int) *group.Scalar {
	if v.public != nil {
		return v.public
	}

	return v.shares[i]
}

func newSecret(g group.Group, shares polynomial) *Value {
	return &Value{group: g, shares: shares}
}

// add returns a+b. Adding a public constant to every Shamir share shifts the shared secret by that constant.
func add(a, b *Value) *Value {
	if a.public != nil && b.public != nil {
		return &Value{group: a.group, public: a.public.Copy().Add(b.public)}
	}

	n := max(len(a.shares), len(b.shares))
	out := newPolynomial(uint16(n))

	for i := range out {
		out[i] = a.share(i).Copy().Add(b.share(i))
	}

	return newSecret(a.group, out)
}

func negate(a *Value) *Value {
	if a.public != nil {
		return &Value{group: a.group, public: a.group.NewScalar().Zero().Subtract(a.public)}
	}

	out := newPolynomial(uint16(len(a.shares)))
	for i, s := range a.shares {
		out[i] = a.group.NewScalar().Zero().Subtract(s)
	}

	return newSecret(a.group, out)
}

func scale(c *group.Scalar, a *Value) *Value {
	if a.public != nil {
		return &Value{group: a.group, public: a.public.Copy().Multiply(c)}
	}

	out := newPolynomial(uint16(len(a.shares)))
	for i, s := range a.shares {
		out[i] = s.Copy().Multiply(c)
	}

	return newSecret(a.group, out)
}
