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
	"fmt"
)

var (
	// ErrKindMismatch is returned when the operands of an operation belong to different groups.
	ErrKindMismatch = errors.New("operands belong to different scalar groups")

	// ErrNilValue is returned when an operand is nil.
	ErrNilValue = errors.New("nil value")

	// ErrNotPublic is returned when an operation that requires a public operand is given a secret one.
	ErrNotPublic = errors.New("operand is not public")

	// ErrLengthMismatch is returned when the vectors of an inner product differ in length.
	ErrLengthMismatch = errors.New("inner product vectors differ in length")

	// ErrEmptyVector is returned when an inner product is requested over empty vectors.
	ErrEmptyVector = errors.New("inner product over empty vectors")

	// ErrNotRunning is returned when an interactive operation is issued on a runtime that is not started.
	ErrNotRunning = errors.New("runtime is not running")

	// ErrPartyUnreachable is returned when a party can't send or receive protocol messages.
	ErrPartyUnreachable = errors.New("party is unreachable")

	// ErrInvalidCommitment is returned when a received sub-share doesn't match its dealer's commitment.
	ErrInvalidCommitment = errors.New("sub-share does not match the dealer's commitment")

	// ErrUnexpectedMessage is returned when a received message doesn't belong to the current round.
	ErrUnexpectedMessage = errors.New("unexpected protocol message")

	// ErrInvalidRange is returned when a random integer is requested over an empty range.
	ErrInvalidRange = errors.New("invalid range: low must not be greater than high")

	// ErrIntOutOfRange is returned when a scalar has no signed 64-bit integer representation.
	ErrIntOutOfRange = errors.New("scalar does not fit in a signed 64-bit integer")
)

// RoundError reports the failure of an interactive protocol round. It wraps the cause, which can be tested with
// errors.Is.
type RoundError struct {
	Err   error
	Op    string
	Round uint64
	Party uint16
}

// Error implements the error interface.
func (e *RoundError) Error() string {
	if e.Party != 0 {
		return fmt.Sprintf("%s: round %d: party %d: %v", e.Op, e.Round, e.Party, e.Err)
	}

	return fmt.Sprintf("%s: round %d: %v", e.Op, e.Round, e.Err)
}

// Unwrap returns the underlying error.
func (e *RoundError) Unwrap() error {
	return e.Err
}
