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
	"io"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/securepoly/internal/prng"
)

var (
	errThresholdIsZero = errors.New("threshold is zero")
	errTooFewShares    = errors.New("number of shares must be equal or greater than the threshold")
	errSecretIsNil     = errors.New("the provided secret is nil")
)

// shard splits the secret into one share per party, recoverable by any subset of threshold shares. The sharing
// polynomial has degree threshold-1, and its non-constant coefficients are drawn from rng. The secret may be zero.
func shard(g group.Group, secret *group.Scalar, threshold, parties uint16, rng io.Reader) (polynomial, polynomial, error) {
	if threshold == 0 {
		return nil, nil, errThresholdIsZero
	}

	if parties < threshold {
		return nil, nil, errTooFewShares
	}

	if secret == nil {
		return nil, nil, errSecretIsNil
	}

	p := newPolynomial(threshold)
	p[0] = secret.Copy()

	for i := uint16(1); i < threshold; i++ {
		r, err := prng.Scalar(g, rng)
		if err != nil {
			return nil, nil, err
		}

		p[i] = r
	}

	// Evaluate the polynomial for each point x=1,...,n
	shares := newPolynomial(parties)

	for i := uint16(1); i <= parties; i++ {
		shares[i-1] = p.evaluate(g, g.NewScalar().SetUInt64(uint64(i)))
	}

	return shares, p, nil
}
