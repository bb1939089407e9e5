// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package mpc implements a secure arithmetic engine over the scalar field of a prime-order group. Secrets are Shamir
// shared among in-process parties that exchange encoded messages over point-to-point channels. Additions and scalings
// are local, secure multiplications and inner products cost one round of degree reduction, and reveals cost one round
// of share broadcasting.
package mpc

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"sync/atomic"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/securepoly/internal/prng"
)

// Runtime runs a multi-party session. Interactive operations are serialized: a runtime runs one round at a time.
type Runtime struct {
	log     *slog.Logger
	net     *network
	dealer  io.Reader
	ids     polynomial
	lambdas polynomial
	rngs    []io.Reader
	config  Config
	stats   counters
	round   uint64
	mu      sync.Mutex
	running atomic.Bool
}

// New returns a runtime for the given configuration. The runtime must be started before use.
func New(config *Config) (*Runtime, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	g := config.Group
	r := &Runtime{
		config: *config,
		log:    config.Logger,
		ids:    identifiers(g, config.Parties),
		rngs:   make([]io.Reader, config.Parties),
	}

	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	lambdas, err := r.ids.recombinationVector(g)
	if err != nil {
		return nil, err
	}

	r.lambdas = lambdas

	if r.dealer, err = prng.New(config.Seed, "dealer", 0); err != nil {
		return nil, err
	}

	for i := range r.rngs {
		if r.rngs[i], err = prng.New(config.Seed, "party", uint16(i)+1); err != nil {
			return nil, err
		}
	}

	r.net = newNetwork(config.Parties, &r.stats)

	return r, nil
}

// Start starts the session. Starting a running session has no effect.
func (r *Runtime) Start(_ context.Context) error {
	if r.running.Swap(true) {
		return nil
	}

	r.log.Info("session started",
		slog.String("group", r.config.Group.String()),
		slog.Int("parties", int(r.config.Parties)),
		slog.Int("threshold", int(r.config.Threshold)),
		slog.Bool("verifiable", r.config.Verifiable),
	)

	return nil
}

// Shutdown ends the session. It waits for the current round, if any, to complete or fail.
func (r *Runtime) Shutdown(_ context.Context) error {
	if !r.running.Swap(false) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.net.flush()

	stats := r.stats.snapshot()
	r.log.Info("session stopped",
		slog.Uint64("rounds", stats.Rounds),
		slog.Uint64("products", stats.Products),
		slog.Uint64("messages", stats.Messages),
		slog.Uint64("bytes", stats.Bytes),
	)

	return nil
}

// Running returns whether the session is started.
func (r *Runtime) Running() bool {
	return r.running.Load()
}

// Group returns the group of the session, the scalar kind of all its values.
func (r *Runtime) Group() group.Group {
	return r.config.Group
}

// Parties returns the number of computing parties.
func (r *Runtime) Parties() uint16 {
	return r.config.Parties
}

// Threshold returns the number of shares needed to reconstruct a secret.
func (r *Runtime) Threshold() uint16 {
	return r.config.Threshold
}

// Stats returns a snapshot of the session's communication counters.
func (r *Runtime) Stats() Stats {
	return r.stats.snapshot()
}

// Disconnect makes party id unreachable: every following round involving it fails.
func (r *Runtime) Disconnect(id uint16) {
	r.log.Warn("party disconnected", slog.Int("party", int(id)))
	r.net.setDown(id, true)
}

// Reconnect makes party id reachable again.
func (r *Runtime) Reconnect(id uint16) {
	r.log.Info("party reconnected", slog.Int("party", int(id)))
	r.net.setDown(id, false)
}

func (r *Runtime) checkRunning() error {
	if !r.running.Load() {
		return ErrNotRunning
	}

	return nil
}

// check verifies v belongs to this session.
func (r *Runtime) check(v *Value) error {
	if v == nil {
		return ErrNilValue
	}

	if v.group != r.config.Group {
		return ErrKindMismatch
	}

	if v.public == nil && len(v.shares) != int(r.config.Parties) {
		return fmt.Errorf("%w: value has %d shares for %d parties", ErrKindMismatch, len(v.shares), r.config.Parties)
	}

	return nil
}

func (r *Runtime) check2(a, b *Value) error {
	if err := r.check(a); err != nil {
		return err
	}

	return r.check(b)
}

// Secret Shamir shares s among the parties. The dealer is part of the runtime: use it to feed inputs and test vectors.
func (r *Runtime) Secret(s *group.Scalar) (*Value, error) {
	if err := r.checkRunning(); err != nil {
		return nil, err
	}

	shares, _, err := shard(r.config.Group, s, r.config.Threshold, r.config.Parties, r.dealer)
	if err != nil {
		return nil, err
	}

	return newSecret(r.config.Group, shares), nil
}

// SecretInt Shamir shares the integer v among the parties.
func (r *Runtime) SecretInt(v int64) (*Value, error) {
	return r.Secret(ScalarFromInt(r.config.Group, v))
}

// Random returns a fresh secret integer drawn uniformly from [low, high], both bounds included.
func (r *Runtime) Random(_ context.Context, low, high int64) (*Value, error) {
	if low > high {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, low, high)
	}

	if err := r.checkRunning(); err != nil {
		return nil, err
	}

	width := new(big.Int).Sub(big.NewInt(high), big.NewInt(low))
	width.Add(width, big.NewInt(1))

	offset, err := rand.Int(r.dealer, width)
	if err != nil {
		return nil, fmt.Errorf("failed to sample random integer: %w", err)
	}

	// low + offset <= high, so it fits in an int64.
	return r.SecretInt(offset.Add(offset, big.NewInt(low)).Int64())
}

// Add returns a+b. It is local.
func (r *Runtime) Add(a, b *Value) (*Value, error) {
	if err := r.check2(a, b); err != nil {
		return nil, err
	}

	return add(a, b), nil
}

// Sub returns a-b. It is local.
func (r *Runtime) Sub(a, b *Value) (*Value, error) {
	if err := r.check2(a, b); err != nil {
		return nil, err
	}

	return add(a, negate(b)), nil
}

// Negate returns -a. It is local.
func (r *Runtime) Negate(a *Value) (*Value, error) {
	if err := r.check(a); err != nil {
		return nil, err
	}

	return negate(a), nil
}

// Scale returns c*a for a public constant c. It is local.
func (r *Runtime) Scale(c, a *Value) (*Value, error) {
	if err := r.check2(c, a); err != nil {
		return nil, err
	}

	if c.public == nil {
		return nil, fmt.Errorf("%w: scaling factor", ErrNotPublic)
	}

	return scale(c.public, a), nil
}

// mulLocal returns a*b when at least one of them is public.
func mulLocal(a, b *Value) *Value {
	if a.public != nil {
		return scale(a.public, b)
	}

	return scale(b.public, a)
}

// Mul returns a*b. It costs one round if both a and b are secret, and is local otherwise.
func (r *Runtime) Mul(ctx context.Context, a, b *Value) (*Value, error) {
	if err := r.check2(a, b); err != nil {
		return nil, err
	}

	if a.public != nil || b.public != nil {
		return mulLocal(a, b), nil
	}

	return r.innerProduct(ctx, "mul", []*Value{a}, []*Value{b})
}

// InnerProduct returns the sum of the a[i]*b[i]. Terms with a public factor are computed locally, and all the
// secret-by-secret terms are batched into a single round.
func (r *Runtime) InnerProduct(ctx context.Context, a, b []*Value) (*Value, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}

	if len(a) == 0 {
		return nil, ErrEmptyVector
	}

	for i := range a {
		if err := r.check2(a[i], b[i]); err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
	}

	return r.innerProduct(ctx, "inner_product", a, b)
}

func (r *Runtime) innerProduct(ctx context.Context, op string, a, b []*Value) (*Value, error) {
	acc := PublicInt(r.config.Group, 0)

	var secretA, secretB []*Value

	for i := range a {
		if a[i].public != nil || b[i].public != nil {
			acc = add(acc, mulLocal(a[i], b[i]))
			continue
		}

		secretA = append(secretA, a[i])
		secretB = append(secretB, b[i])
	}

	if len(secretA) == 0 {
		return acc, nil
	}

	if err := r.checkRunning(); err != nil {
		return nil, err
	}

	g := r.config.Group

	// Each party's local sum of products is a share of degree 2(t-1) of the inner product.
	local := make([]polynomial, r.config.Parties)
	for p := range local {
		sum := g.NewScalar().Zero()
		for i := range secretA {
			sum.Add(secretA[i].shares[p].Copy().Multiply(secretB[i].shares[p]))
		}

		local[p] = polynomial{sum}
	}

	reduced, err := r.degreeReduction(ctx, op, local)
	if err != nil {
		return nil, err
	}

	r.stats.products.Add(uint64(len(secretA)))

	shares := newPolynomial(r.config.Parties)
	for p := range shares {
		shares[p] = reduced[p][0]
	}

	return add(acc, newSecret(g, shares)), nil
}

// Reveal opens a to all parties and returns its value.
func (r *Runtime) Reveal(ctx context.Context, a *Value) (*group.Scalar, error) {
	out, err := r.RevealBatch(ctx, []*Value{a})
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// RevealBatch opens all values to all parties in a single round, and returns them in the same order. Public values
// are returned without communication.
func (r *Runtime) RevealBatch(ctx context.Context, values []*Value) ([]*group.Scalar, error) {
	out := make([]*group.Scalar, len(values))

	var (
		secret  []*Value
		indices []int
	)

	for i, v := range values {
		if err := r.check(v); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}

		if v.public != nil {
			out[i] = v.public.Copy()
			continue
		}

		secret = append(secret, v)
		indices = append(indices, i)
	}

	if len(secret) == 0 {
		return out, nil
	}

	if err := r.checkRunning(); err != nil {
		return nil, err
	}

	opened, err := r.open(ctx, secret)
	if err != nil {
		return nil, err
	}

	for j, i := range indices {
		out[i] = opened[j]
	}

	return out, nil
}

// RevealInt opens a to all parties and returns it as a signed integer.
func (r *Runtime) RevealInt(ctx context.Context, a *Value) (int64, error) {
	s, err := r.Reveal(ctx, a)
	if err != nil {
		return 0, err
	}

	return Int(r.config.Group, s)
}
