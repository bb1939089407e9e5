// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package securepoly_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytemare/securepoly"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name         string
		expected     string
		coefficients []int64
	}{
		{name: "sparse cubic", coefficients: []int64{0, 3, 0, -2}, expected: "3x + -2x^3"},
		{name: "dense", coefficients: []int64{2, 3, 3, 1}, expected: "2 + 3x + 3x^2 + 1x^3"},
		{name: "constant", coefficients: []int64{-7}, expected: "-7"},
		{name: "zero leading term", coefficients: []int64{1, 0}, expected: "1"},
		{name: "zero", coefficients: []int64{0, 0}, expected: ""},
		{name: "empty", coefficients: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, securepoly.Format(tt.coefficients))
		})
	}

	assert.Equal(t, "5 + 12x^10", securepoly.Format([]uint8{5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 12}))
	assert.Equal(t, "18446744073709551615 + 1x", securepoly.Format([]uint64{math.MaxUint64, 1}))
	assert.Equal(t, "-9223372036854775808x", securepoly.Format([]int64{0, math.MinInt64}))
}
