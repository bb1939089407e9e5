// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package mpc

import (
	"context"
	"fmt"
	"log/slog"

	group "github.com/bytemare/crypto"
	"golang.org/x/sync/errgroup"

	"github.com/bytemare/securepoly/mpc/wire"
)

// party runs one party's side of a round. It returns the party's outputs, in batch order.
type party func(ctx context.Context, round uint64, id uint16) (polynomial, error)

// runRound runs one round with all parties concurrently, and returns every party's outputs indexed by party. The round
// aborts as soon as one party fails.
func (r *Runtime) runRound(ctx context.Context, op string, batch int, run party) ([]polynomial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.round++
	round := r.round

	r.net.flush()

	out := make([]polynomial, r.config.Parties)
	eg, ctx := errgroup.WithContext(ctx)

	for i := range out {
		id := uint16(i) + 1

		eg.Go(func() error {
			res, err := run(ctx, round, id)
			if err != nil {
				return &RoundError{Op: op, Round: round, Party: id, Err: err}
			}

			out[i] = res

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		r.log.Error("round failed", slog.String("op", op), slog.Uint64("round", round), slog.Any("error", err))
		return nil, err
	}

	r.stats.rounds.Add(1)
	r.log.Debug("round complete", slog.String("op", op), slog.Uint64("round", round), slog.Int("batch", batch))

	return out, nil
}

// degreeReduction turns shares of degree 2(t-1), local[p] being party p's batch, into fresh shares of degree t-1 of
// the same values. Every party reshares each of its local values and recombines the sub-shares it receives with the
// Lagrange coefficients of all parties.
func (r *Runtime) degreeReduction(ctx context.Context, op string, local []polynomial) ([]polynomial, error) {
	batch := len(local[0])

	return r.runRound(ctx, op, batch, func(ctx context.Context, round uint64, id uint16) (polynomial, error) {
		if err := r.deal(ctx, round, id, local[id-1]); err != nil {
			return nil, err
		}

		return r.recombine(ctx, round, id, batch)
	})
}

// deal sends to every party its sub-shares of the dealer's values.
func (r *Runtime) deal(ctx context.Context, round uint64, id uint16, values polynomial) error {
	g := r.config.Group
	subShares := make([]polynomial, len(values))

	var commitments [][]*group.Element
	if r.config.Verifiable {
		commitments = make([][]*group.Element, len(values))
	}

	for j, v := range values {
		shares, p, err := shard(g, v, r.config.Threshold, r.config.Parties, r.rngs[id-1])
		if err != nil {
			return err
		}

		subShares[j] = shares

		if r.config.Verifiable {
			commitments[j] = commit(g, p)
		}
	}

	for to := uint16(1); to <= r.config.Parties; to++ {
		scalars := make([]*group.Scalar, len(values))
		for j := range values {
			scalars[j] = subShares[j][to-1]
		}

		m := &wire.Message{
			Group:       g,
			Round:       round,
			From:        id,
			To:          to,
			Scalars:     scalars,
			Commitments: commitments,
		}

		if err := r.net.send(ctx, m); err != nil {
			return err
		}
	}

	return nil
}

// collect receives the messages of the current round from every party, indexed by sender.
func (r *Runtime) collect(ctx context.Context, round uint64, id uint16, batch int) ([]*wire.Message, error) {
	received := make([]*wire.Message, r.config.Parties)

	for count := uint16(0); count < r.config.Parties; {
		m, err := r.net.receive(ctx, id)
		if err != nil {
			return nil, err
		}

		if m.Round < round {
			continue // left over by an aborted round
		}

		if m.Round != round || m.To != id || m.From == 0 || m.From > r.config.Parties ||
			received[m.From-1] != nil || m.Group != r.config.Group {
			return nil, fmt.Errorf("%w: round %d from %d to %d", ErrUnexpectedMessage, m.Round, m.From, m.To)
		}

		if len(m.Scalars) != batch {
			return nil, fmt.Errorf("%w: %d scalars from %d, expected %d",
				ErrUnexpectedMessage, len(m.Scalars), m.From, batch)
		}

		received[m.From-1] = m
		count++
	}

	return received, nil
}

func (r *Runtime) verify(id uint16, m *wire.Message) error {
	if len(m.Commitments) != len(m.Scalars) {
		return fmt.Errorf("%w: missing commitments from %d", ErrInvalidCommitment, m.From)
	}

	for j, s := range m.Scalars {
		if len(m.Commitments[j]) != int(r.config.Threshold) ||
			!verifyShare(r.config.Group, id, s, m.Commitments[j]) {
			return fmt.Errorf("%w: sub-share %d from %d", ErrInvalidCommitment, j, m.From)
		}
	}

	return nil
}

// recombine computes the party's new shares from the sub-shares dealt to it.
func (r *Runtime) recombine(ctx context.Context, round uint64, id uint16, batch int) (polynomial, error) {
	received, err := r.collect(ctx, round, id, batch)
	if err != nil {
		return nil, err
	}

	if r.config.Verifiable {
		for _, m := range received {
			if err = r.verify(id, m); err != nil {
				return nil, err
			}
		}
	}

	return r.interpolate(received, batch), nil
}

// interpolate returns, for each batched value, the Lagrange interpolation at 0 of the scalars received from every
// party, using the runtime's recombination vector.
func (r *Runtime) interpolate(received []*wire.Message, batch int) polynomial {
	g := r.config.Group
	out := newPolynomial(uint16(batch))

	for j := range out {
		out[j] = g.NewScalar().Zero()
	}

	for i, m := range received {
		for j, s := range m.Scalars {
			out[j].Add(s.Copy().Multiply(r.lambdas[i]))
		}
	}

	return out
}

// open runs a reveal round: every party sends its shares to all parties, and each party reconstructs the values.
func (r *Runtime) open(ctx context.Context, values []*Value) ([]*group.Scalar, error) {
	g := r.config.Group
	batch := len(values)

	res, err := r.runRound(ctx, "reveal", batch, func(ctx context.Context, round uint64, id uint16) (polynomial, error) {
		scalars := make([]*group.Scalar, batch)
		for j, v := range values {
			scalars[j] = v.shares[id-1]
		}

		for to := uint16(1); to <= r.config.Parties; to++ {
			m := &wire.Message{Group: g, Round: round, From: id, To: to, Scalars: scalars}
			if err := r.net.send(ctx, m); err != nil {
				return nil, err
			}
		}

		received, err := r.collect(ctx, round, id, batch)
		if err != nil {
			return nil, err
		}

		return r.interpolate(received, batch), nil
	})
	if err != nil {
		return nil, err
	}

	// All parties interpolate the same broadcast shares.
	return res[0], nil
}
