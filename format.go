// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package securepoly

import (
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

const termSeparator = " + "

// Format renders revealed coefficients, ordered from the constant term to the leading term, as "c0 + c1x + c2x^2".
// Terms with a zero coefficient are dropped, so all-zero coefficients render as the empty string.
func Format[T constraints.Integer](coefficients []T) string {
	terms := make([]string, 0, len(coefficients))

	for degree, c := range coefficients {
		if c == 0 {
			continue
		}

		terms = append(terms, formatTerm(formatInteger(c), degree))
	}

	return strings.Join(terms, termSeparator)
}

// formatInteger renders c in base 10. Negative values fit in an int64, the others in a uint64.
func formatInteger[T constraints.Integer](c T) string {
	if c < 0 {
		return strconv.FormatInt(int64(c), 10)
	}

	return strconv.FormatUint(uint64(c), 10)
}

func formatTerm(coefficient string, degree int) string {
	switch degree {
	case 0:
		return coefficient
	case 1:
		return coefficient + "x"
	default:
		return coefficient + "x^" + strconv.Itoa(degree)
	}
}
