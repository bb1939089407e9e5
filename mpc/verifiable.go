// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package mpc

import (
	group "github.com/bytemare/crypto"
)

// Commitment is the Feldman commitment a dealer publishes along a resharing polynomial.
type Commitment []*group.Element

// commit builds a vector commitment to each of the coefficients of the sharing polynomial.
func commit(g group.Group, p polynomial) Commitment {
	coms := make(Commitment, len(p))
	for i, coeff := range p {
		coms[i] = g.Base().Multiply(coeff)
	}

	return coms
}

// verifyShare returns whether share is the evaluation at id of the polynomial committed to in coms.
func verifyShare(g group.Group, id uint16, share *group.Scalar, coms Commitment) bool {
	if len(coms) == 0 || share == nil {
		return false
	}

	for _, com := range coms {
		if com == nil {
			return false
		}
	}

	pk := g.Base().Multiply(share)
	ids := g.NewScalar().SetUInt64(uint64(id))
	prime := coms[0].Copy()
	one := g.NewScalar().One()
	j := g.NewScalar().One()
	i := 1

	switch {
	// If id == 1 we can spare exponentiation and multiplications
	case id == 1:
		for _, com := range coms[1:] {
			prime.Add(com)
		}
	case len(coms) >= 2:
		// if there are elements left and since j == 1, we can spare one exponentiation
		prime.Add(coms[1].Copy().Multiply(ids))
		j.Add(one)

		i++

		fallthrough
	default:
		for _, com := range coms[i:] {
			prime.Add(com.Copy().Multiply(ids.Copy().Pow(j)))
			j.Add(one)
		}
	}

	return pk.Equal(prime) == 1
}
