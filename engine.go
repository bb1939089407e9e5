// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package securepoly

import (
	"context"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/securepoly/mpc"
)

// Engine is the secure arithmetic a polynomial relies on. Add and Negate are local to each party. Mul and
// InnerProduct cost one round of communication between parties when their operands are secret, and RevealBatch
// costs one round. Calls to the interactive operations block until their round completes.
//
// *mpc.Runtime implements Engine.
type Engine interface {
	// Add returns a+b.
	Add(a, b *mpc.Value) (*mpc.Value, error)

	// Negate returns -a.
	Negate(a *mpc.Value) (*mpc.Value, error)

	// Mul returns a*b.
	Mul(ctx context.Context, a, b *mpc.Value) (*mpc.Value, error)

	// InnerProduct returns the sum of the a[i]*b[i], in a single round.
	InnerProduct(ctx context.Context, a, b []*mpc.Value) (*mpc.Value, error)

	// RevealBatch opens the values to all parties.
	RevealBatch(ctx context.Context, values []*mpc.Value) ([]*group.Scalar, error)
}

var _ Engine = (*mpc.Runtime)(nil)
