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
	"log/slog"
	"strings"

	group "github.com/bytemare/crypto"
)

const (
	// DefaultParties is the default number of computing parties.
	DefaultParties = 3

	// DefaultThreshold is the default number of shares needed to reconstruct a secret.
	DefaultThreshold = 2

	// MaxParties is the maximum number of computing parties of a runtime.
	MaxParties = 1024
)

var (
	errConfigNil             = errors.New("nil configuration")
	errConfigInvalidGroup    = errors.New("invalid or unavailable group")
	errConfigThresholdIsZero = errors.New("threshold is zero")
	errConfigTooFewParties   = errors.New("too few parties for the threshold")
	errConfigTooManyParties  = errors.New("too many parties")
	errUnknownGroup          = errors.New("unknown group name")
)

var groupNames = map[string]group.Group{
	"ristretto255": group.Ristretto255Sha512,
	"p256":         group.P256Sha256,
	"p384":         group.P384Sha384,
	"p521":         group.P521Sha512,
	"edwards25519": group.Edwards25519Sha512,
	"secp256k1":    group.Secp256k1,
}

// ParseGroup returns the group identified by name, one of ristretto255, p256, p384, p521, edwards25519, or
// secp256k1. Names are case-insensitive.
func ParseGroup(name string) (group.Group, error) {
	g, ok := groupNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errUnknownGroup, name)
	}

	return g, nil
}

// Config holds the parameters of a runtime.
type Config struct {
	// Logger receives the runtime's structured logs. Logs are discarded if nil.
	Logger *slog.Logger

	// Seed, if set, makes all the randomness of the session derive deterministically from it. Leave empty outside
	// of tests and demonstrations.
	Seed []byte

	// Group is the prime-order group whose scalar field the computation happens in. It is the scalar kind of every
	// value of the session.
	Group group.Group

	// Parties is the number of computing parties.
	Parties uint16

	// Threshold is the number of shares needed to reconstruct a secret, i.e. one more than the degree of the
	// sharing polynomials. Secure multiplication requires Parties >= 2*Threshold-1.
	Threshold uint16

	// Verifiable makes dealers publish Feldman commitments along their sub-shares, which recipients verify.
	Verifiable bool
}

// DefaultConfig returns a configuration for three parties over Ristretto255 tolerating one corrupted party.
func DefaultConfig() *Config {
	return &Config{
		Group:     group.Ristretto255Sha512,
		Parties:   DefaultParties,
		Threshold: DefaultThreshold,
	}
}

// Validate returns an error if the configuration can't be used to run a session.
func (c *Config) Validate() error {
	if c == nil {
		return errConfigNil
	}

	if !c.Group.Available() {
		return fmt.Errorf("%w: %d", errConfigInvalidGroup, c.Group)
	}

	if c.Threshold == 0 {
		return errConfigThresholdIsZero
	}

	if c.Parties > MaxParties {
		return fmt.Errorf("%w: %d > %d", errConfigTooManyParties, c.Parties, MaxParties)
	}

	if int(c.Parties) < 2*int(c.Threshold)-1 {
		return fmt.Errorf("%w: %d parties, need at least %d for threshold %d",
			errConfigTooFewParties, c.Parties, 2*int(c.Threshold)-1, c.Threshold)
	}

	return nil
}
