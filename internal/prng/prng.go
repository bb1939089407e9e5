// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package prng provides the randomness sources used by the computing parties: the system's secure source, or keyed
// deterministic streams derived from a session seed for reproducible runs.
package prng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	group "github.com/bytemare/crypto"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

const (
	// KeyLength is the length of the keys derived for each stream.
	KeyLength = 32

	// scalarSampleLength is the amount of bytes hashed into a scalar, twice the largest supported scalar length to
	// keep the modular bias negligible.
	scalarSampleLength = 132

	scalarDST = "securepoly-v1-random-scalar"
)

// KeyedPRNG deterministically generates a stream of random bytes from a key, using the blake2b XOF.
// Two KeyedPRNG instantiated with the same key produce the same stream.
type KeyedPRNG struct {
	mutex sync.Mutex
	xof   blake2b.XOF
	key   []byte
}

// NewKeyedPRNG creates a new instance of KeyedPRNG. The key must not be longer than 64 bytes.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, fmt.Errorf("prng: %w", err)
	}

	return &KeyedPRNG{xof: xof, key: append([]byte(nil), key...)}, nil
}

// Key returns a copy of the key used to seed the PRNG.
func (p *KeyedPRNG) Key() []byte {
	return append([]byte(nil), p.key...)
}

// Read reads bytes from the stream into b.
func (p *KeyedPRNG) Read(b []byte) (int, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.xof.Read(b)
}

// Reset resets the PRNG to the beginning of its stream.
func (p *KeyedPRNG) Reset() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.xof.Reset()
}

// DeriveKey derives the key of the stream identified by label and id from the session seed.
func DeriveKey(seed []byte, label string, id uint16) []byte {
	material := make([]byte, len(seed)+2)
	copy(material, seed)
	binary.LittleEndian.PutUint16(material[len(seed):], id)

	key := make([]byte, KeyLength)
	blake3.DeriveKey("securepoly "+label, material, key)

	return key
}

// New returns the randomness source of the stream identified by label and id. Without a seed, it returns the
// system's secure random source.
func New(seed []byte, label string, id uint16) (io.Reader, error) {
	if len(seed) == 0 {
		return rand.Reader, nil
	}

	return NewKeyedPRNG(DeriveKey(seed, label, id))
}

// Scalar returns a scalar of g sampled from r.
func Scalar(g group.Group, r io.Reader) (*group.Scalar, error) {
	buf := make([]byte, scalarSampleLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("prng: failed to sample scalar: %w", err)
	}

	return g.HashToScalar(buf, []byte(scalarDST)), nil
}
