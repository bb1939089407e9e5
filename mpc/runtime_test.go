// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package mpc_test

import (
	"context"
	"errors"
	"testing"

	group "github.com/bytemare/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytemare/securepoly/mpc"
)

var groups = []group.Group{
	group.Ristretto255Sha512,
	group.P256Sha256,
	group.Secp256k1,
}

func newRuntime(t *testing.T, config *mpc.Config) *mpc.Runtime {
	t.Helper()

	rt, err := mpc.New(config)
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))

	t.Cleanup(func() {
		require.NoError(t, rt.Shutdown(context.Background()))
	})

	return rt
}

func configFor(g group.Group) *mpc.Config {
	c := mpc.DefaultConfig()
	c.Group = g

	return c
}

func secretInt(t *testing.T, rt *mpc.Runtime, v int64) *mpc.Value {
	t.Helper()

	s, err := rt.SecretInt(v)
	require.NoError(t, err)

	return s
}

func revealInt(t *testing.T, rt *mpc.Runtime, v *mpc.Value) int64 {
	t.Helper()

	i, err := rt.RevealInt(context.Background(), v)
	require.NoError(t, err)

	return i
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *mpc.Config
		wantErr bool
	}{
		{name: "default", config: mpc.DefaultConfig()},
		{name: "nil", config: nil, wantErr: true},
		{name: "single party", config: &mpc.Config{Group: group.P256Sha256, Parties: 1, Threshold: 1}},
		{name: "five parties", config: &mpc.Config{Group: group.Secp256k1, Parties: 5, Threshold: 3}},
		{name: "invalid group", config: &mpc.Config{Group: 0, Parties: 3, Threshold: 2}, wantErr: true},
		{name: "zero threshold", config: &mpc.Config{Group: group.P256Sha256, Parties: 3}, wantErr: true},
		{
			name:    "too few parties to multiply",
			config:  &mpc.Config{Group: group.P256Sha256, Parties: 4, Threshold: 3},
			wantErr: true,
		},
		{
			name:    "too many parties",
			config:  &mpc.Config{Group: group.P256Sha256, Parties: mpc.MaxParties + 1, Threshold: 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)

			_, err = mpc.New(tt.config)
			assert.NoError(t, err)
		})
	}
}

func TestParseGroup(t *testing.T) {
	g, err := mpc.ParseGroup("P256")
	require.NoError(t, err)
	assert.Equal(t, group.P256Sha256, g)

	g, err = mpc.ParseGroup("ristretto255")
	require.NoError(t, err)
	assert.Equal(t, group.Ristretto255Sha512, g)

	_, err = mpc.ParseGroup("decaf448")
	assert.Error(t, err)
}

func TestRuntime_Arithmetic(t *testing.T) {
	ctx := context.Background()

	for _, g := range groups {
		t.Run(g.String(), func(t *testing.T) {
			rt := newRuntime(t, configFor(g))
			a := secretInt(t, rt, 7)
			b := secretInt(t, rt, -3)

			assert.False(t, a.IsPublic())
			assert.Nil(t, a.PublicScalar())
			assert.Equal(t, g, a.Kind())

			sum, err := rt.Add(a, b)
			require.NoError(t, err)
			assert.Equal(t, int64(4), revealInt(t, rt, sum))

			diff, err := rt.Sub(a, b)
			require.NoError(t, err)
			assert.Equal(t, int64(10), revealInt(t, rt, diff))

			neg, err := rt.Negate(a)
			require.NoError(t, err)
			assert.Equal(t, int64(-7), revealInt(t, rt, neg))

			scaled, err := rt.Scale(mpc.PublicInt(g, 5), a)
			require.NoError(t, err)
			assert.Equal(t, int64(35), revealInt(t, rt, scaled))

			prod, err := rt.Mul(ctx, a, b)
			require.NoError(t, err)
			assert.Equal(t, int64(-21), revealInt(t, rt, prod))

			shifted, err := rt.Add(a, mpc.PublicInt(g, 100))
			require.NoError(t, err)
			assert.False(t, shifted.IsPublic())
			assert.Equal(t, int64(107), revealInt(t, rt, shifted))

			ip, err := rt.InnerProduct(ctx, []*mpc.Value{a, b, mpc.PublicInt(g, 4)}, []*mpc.Value{b, a, a})
			require.NoError(t, err)
			assert.Equal(t, int64(-14), revealInt(t, rt, ip))
		})
	}
}

func TestRuntime_PublicArithmetic(t *testing.T) {
	g := group.Ristretto255Sha512
	rt, err := mpc.New(configFor(g))
	require.NoError(t, err)

	// Operations on public values are local, and don't need a started session.
	a := mpc.PublicInt(g, 6)
	b := mpc.PublicInt(g, -4)

	prod, err := rt.Mul(context.Background(), a, b)
	require.NoError(t, err)
	require.True(t, prod.IsPublic())

	v, err := mpc.Int(g, prod.PublicScalar())
	require.NoError(t, err)
	assert.Equal(t, int64(-24), v)

	ip, err := rt.InnerProduct(context.Background(), []*mpc.Value{a, b}, []*mpc.Value{b, b})
	require.NoError(t, err)

	v, err = mpc.Int(g, ip.PublicScalar())
	require.NoError(t, err)
	assert.Equal(t, int64(-8), v)

	assert.Equal(t, mpc.Stats{}, rt.Stats())
}

func TestRuntime_Rounds(t *testing.T) {
	ctx := context.Background()
	g := group.P256Sha256
	rt := newRuntime(t, configFor(g))

	a := make([]*mpc.Value, 5)
	b := make([]*mpc.Value, 5)

	var expected int64

	for i := range a {
		a[i] = secretInt(t, rt, int64(i+1))
		b[i] = secretInt(t, rt, int64(10*(i+1)))
		expected += int64(i+1) * int64(10*(i+1))
	}

	before := rt.Stats()

	ip, err := rt.InnerProduct(ctx, a, b)
	require.NoError(t, err)

	after := rt.Stats()
	assert.Equal(t, uint64(1), after.Rounds-before.Rounds, "a secure inner product costs a single round")
	assert.Equal(t, uint64(5), after.Products-before.Products)
	assert.Equal(t, uint64(rt.Parties())*uint64(rt.Parties()), after.Messages-before.Messages)
	assert.Positive(t, after.Bytes-before.Bytes)

	// Multiplications by public constants are local.
	before = rt.Stats()

	_, err = rt.Mul(ctx, mpc.PublicInt(g, 3), a[0])
	require.NoError(t, err)

	_, err = rt.InnerProduct(ctx, a, []*mpc.Value{
		mpc.PublicInt(g, 1), mpc.PublicInt(g, 2), mpc.PublicInt(g, 3), mpc.PublicInt(g, 4), mpc.PublicInt(g, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, before, rt.Stats())

	assert.Equal(t, expected, revealInt(t, rt, ip))
}

func TestRuntime_RevealBatch(t *testing.T) {
	ctx := context.Background()
	g := group.Secp256k1
	rt := newRuntime(t, configFor(g))

	values := []*mpc.Value{secretInt(t, rt, 1), mpc.PublicInt(g, -2), secretInt(t, rt, 3)}
	before := rt.Stats()

	revealed, err := rt.RevealBatch(ctx, values)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rt.Stats().Rounds-before.Rounds)

	for i, expected := range []int64{1, -2, 3} {
		v, err := mpc.Int(g, revealed[i])
		require.NoError(t, err)
		assert.Equal(t, expected, v)
	}

	// Public values are revealed without communication.
	before = rt.Stats()
	_, err = rt.Reveal(ctx, mpc.PublicInt(g, 9))
	require.NoError(t, err)
	assert.Equal(t, before, rt.Stats())
}

func TestRuntime_Verifiable(t *testing.T) {
	ctx := context.Background()

	for _, g := range groups {
		t.Run(g.String(), func(t *testing.T) {
			config := configFor(g)
			config.Parties = 5
			config.Threshold = 3
			config.Verifiable = true
			rt := newRuntime(t, config)

			a := secretInt(t, rt, 12)
			b := secretInt(t, rt, -5)
			zero := secretInt(t, rt, 0)

			prod, err := rt.Mul(ctx, a, b)
			require.NoError(t, err)
			assert.Equal(t, int64(-60), revealInt(t, rt, prod))

			prod, err = rt.Mul(ctx, prod, zero)
			require.NoError(t, err)
			assert.Equal(t, int64(0), revealInt(t, rt, prod))
		})
	}
}

func TestRuntime_Random(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, mpc.DefaultConfig())

	for range 32 {
		r, err := rt.Random(ctx, -3, 3)
		require.NoError(t, err)

		v := revealInt(t, rt, r)
		assert.GreaterOrEqual(t, v, int64(-3))
		assert.LessOrEqual(t, v, int64(3))
	}

	// both bounds are reachable
	seen := make(map[int64]bool)
	for range 64 {
		r, err := rt.Random(ctx, 0, 1)
		require.NoError(t, err)

		seen[revealInt(t, rt, r)] = true
	}

	assert.Equal(t, map[int64]bool{0: true, 1: true}, seen)

	r, err := rt.Random(ctx, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), revealInt(t, rt, r))

	_, err = rt.Random(ctx, 6, 5)
	assert.ErrorIs(t, err, mpc.ErrInvalidRange)
}

func TestRuntime_Seed(t *testing.T) {
	ctx := context.Background()
	config := mpc.DefaultConfig()
	config.Seed = []byte("reproducible session")

	rt1 := newRuntime(t, config)
	rt2 := newRuntime(t, config)

	for range 4 {
		r1, err := rt1.Random(ctx, -1000, 1000)
		require.NoError(t, err)

		r2, err := rt2.Random(ctx, -1000, 1000)
		require.NoError(t, err)

		for id := uint16(1); id <= config.Parties; id++ {
			s1, err := r1.Share(id)
			require.NoError(t, err)

			s2, err := r2.Share(id)
			require.NoError(t, err)

			assert.Equal(t, 1, s1.Equal(s2))
		}

		p1, err := rt1.Mul(ctx, r1, r1)
		require.NoError(t, err)

		p2, err := rt2.Mul(ctx, r2, r2)
		require.NoError(t, err)

		s1, err := p1.Share(1)
		require.NoError(t, err)

		s2, err := p2.Share(1)
		require.NoError(t, err)

		assert.Equal(t, 1, s1.Equal(s2), "resharing must be deterministic with a seed")
	}
}

func TestRuntime_NotRunning(t *testing.T) {
	ctx := context.Background()
	rt, err := mpc.New(mpc.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, rt.Running())

	_, err = rt.SecretInt(1)
	assert.ErrorIs(t, err, mpc.ErrNotRunning)

	_, err = rt.Random(ctx, 0, 10)
	assert.ErrorIs(t, err, mpc.ErrNotRunning)

	require.NoError(t, rt.Start(ctx))
	require.NoError(t, rt.Start(ctx))
	assert.True(t, rt.Running())

	a := secretInt(t, rt, 2)

	require.NoError(t, rt.Shutdown(ctx))
	require.NoError(t, rt.Shutdown(ctx))

	_, err = rt.Mul(ctx, a, a)
	assert.ErrorIs(t, err, mpc.ErrNotRunning)

	_, err = rt.Reveal(ctx, a)
	assert.ErrorIs(t, err, mpc.ErrNotRunning)

	// Local operations don't need the session.
	_, err = rt.Add(a, a)
	assert.NoError(t, err)
}

func TestRuntime_Disconnect(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, mpc.DefaultConfig())

	a := secretInt(t, rt, 4)
	b := secretInt(t, rt, 5)

	rt.Disconnect(2)

	_, err := rt.Mul(ctx, a, b)
	require.ErrorIs(t, err, mpc.ErrPartyUnreachable)

	var roundErr *mpc.RoundError
	require.True(t, errors.As(err, &roundErr))
	assert.Equal(t, "mul", roundErr.Op)
	assert.NotEmpty(t, roundErr.Error())

	_, err = rt.Reveal(ctx, a)
	require.ErrorIs(t, err, mpc.ErrPartyUnreachable)

	rt.Reconnect(2)

	prod, err := rt.Mul(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(20), revealInt(t, rt, prod))
}

func TestRuntime_Cancelled(t *testing.T) {
	rt := newRuntime(t, mpc.DefaultConfig())
	a := secretInt(t, rt, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rt.Mul(ctx, a, a)
	require.Error(t, err)

	// The session recovers from the aborted round.
	prod, err := rt.Mul(context.Background(), a, a)
	require.NoError(t, err)
	assert.Equal(t, int64(16), revealInt(t, rt, prod))
}

func TestRuntime_KindMismatch(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, configFor(group.Ristretto255Sha512))
	a := secretInt(t, rt, 1)
	foreign := mpc.PublicInt(group.P256Sha256, 1)

	_, err := rt.Add(a, foreign)
	assert.ErrorIs(t, err, mpc.ErrKindMismatch)

	_, err = rt.Mul(ctx, foreign, a)
	assert.ErrorIs(t, err, mpc.ErrKindMismatch)

	_, err = rt.InnerProduct(ctx, []*mpc.Value{a}, []*mpc.Value{foreign})
	assert.ErrorIs(t, err, mpc.ErrKindMismatch)

	// A secret of the same group, but shared among a different set of parties.
	config := configFor(group.Ristretto255Sha512)
	config.Parties = 5
	other := newRuntime(t, config)
	b := secretInt(t, other, 1)

	_, err = rt.Add(a, b)
	assert.ErrorIs(t, err, mpc.ErrKindMismatch)

	_, err = rt.Negate(nil)
	assert.ErrorIs(t, err, mpc.ErrNilValue)

	_, err = rt.Scale(nil, a)
	assert.ErrorIs(t, err, mpc.ErrNilValue)

	_, err = rt.Scale(foreign, a)
	assert.ErrorIs(t, err, mpc.ErrKindMismatch)

	_, err = rt.Scale(a, a)
	assert.ErrorIs(t, err, mpc.ErrNotPublic)
}

func TestRuntime_InnerProductErrors(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, mpc.DefaultConfig())
	a := secretInt(t, rt, 1)

	_, err := rt.InnerProduct(ctx, []*mpc.Value{a, a}, []*mpc.Value{a})
	assert.ErrorIs(t, err, mpc.ErrLengthMismatch)

	_, err = rt.InnerProduct(ctx, nil, nil)
	assert.ErrorIs(t, err, mpc.ErrEmptyVector)
}

func TestValue_Share(t *testing.T) {
	rt := newRuntime(t, mpc.DefaultConfig())
	a := secretInt(t, rt, 1)

	_, err := a.Share(0)
	assert.Error(t, err)

	_, err = a.Share(rt.Parties() + 1)
	assert.Error(t, err)

	s, err := a.Share(rt.Parties())
	require.NoError(t, err)
	assert.NotNil(t, s)

	assert.Contains(t, a.String(), "secret")
	assert.Contains(t, mpc.PublicInt(rt.Group(), 1).String(), "public")
}
