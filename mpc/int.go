// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package mpc

import (
	"math"

	group "github.com/bytemare/crypto"
)

// ScalarFromInt returns the scalar encoding v in g. Negative integers map to the additive inverse of |v|.
func ScalarFromInt(g group.Group, v int64) *group.Scalar {
	if v >= 0 {
		return g.NewScalar().SetUInt64(uint64(v))
	}

	// -(v+1) can't overflow, even for math.MinInt64.
	abs := g.NewScalar().SetUInt64(uint64(-(v + 1)) + 1)

	return g.NewScalar().Zero().Subtract(abs)
}

// Int returns the signed integer represented by s, using the same encoding as ScalarFromInt. Scalars closer to the
// group order than to zero are read as negative integers.
func Int(g group.Group, s *group.Scalar) (int64, error) {
	if s == nil {
		return 0, ErrNilValue
	}

	if u, err := s.UInt64(); err == nil && u <= math.MaxInt64 {
		return int64(u), nil
	}

	neg := g.NewScalar().Zero().Subtract(s)

	u, err := neg.UInt64()
	if err != nil || u > uint64(math.MaxInt64)+1 {
		return 0, ErrIntOutOfRange
	}

	if u == uint64(math.MaxInt64)+1 {
		return math.MinInt64, nil
	}

	return -int64(u), nil
}
