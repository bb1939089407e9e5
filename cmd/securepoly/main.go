// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command securepoly runs a multi-party session that builds random secret polynomials, combines and evaluates them
// on secret and public points, and reveals the results.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/markkurossi/tabulate"

	"github.com/bytemare/securepoly"
	"github.com/bytemare/securepoly/internal/logger"
	"github.com/bytemare/securepoly/mpc"
)

const (
	randomLow  = -63
	randomHigh = 64
)

var errDegree = errors.New("degrees must be non-negative")

type options struct {
	config     *mpc.Config
	deg1, deg2 int
	point      int64
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "securepoly: %v\n", err)
		}

		os.Exit(1)
	}
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("securepoly", flag.ContinueOnError)
	fs.SetOutput(stderr)

	groupName := fs.String("group", "ristretto255", "scalar `group`: ristretto255, p256, p384, p521, edwards25519, secp256k1")
	parties := fs.Uint("parties", mpc.DefaultParties, "number of computing parties")
	threshold := fs.Uint("threshold", mpc.DefaultThreshold, "number of shares needed to reconstruct a secret")
	verifiable := fs.Bool("verifiable", false, "verify resharing with Feldman commitments")
	seed := fs.String("seed", "", "hex `seed` for a reproducible session")
	deg1 := fs.Int("deg1", 2, "degree of the first polynomial")
	deg2 := fs.Int("deg2", 3, "degree of the second polynomial")
	point := fs.Int64("x", 42, "public evaluation point")
	logLevel := fs.String("log-level", "warn", "log `level`: debug, info, warn, error")
	logFormat := fs.String("log-format", "text", "log `format`: text, json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *deg1 < 0 || *deg2 < 0 {
		return nil, errDegree
	}

	g, err := mpc.ParseGroup(*groupName)
	if err != nil {
		return nil, err
	}

	s, err := hex.DecodeString(*seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	if *parties > mpc.MaxParties || *threshold > mpc.MaxParties {
		return nil, fmt.Errorf("at most %d parties are supported", mpc.MaxParties)
	}

	config := &mpc.Config{
		Group:      g,
		Parties:    uint16(*parties),
		Threshold:  uint16(*threshold),
		Verifiable: *verifiable,
		Seed:       s,
		Logger:     logger.New(logger.Config{Output: stderr, Level: *logLevel, Format: *logFormat}),
	}

	return &options{config: config, deg1: *deg1, deg2: *deg2, point: *point}, config.Validate()
}

func randomPolynomial(ctx context.Context, rt *mpc.Runtime, degree int) (*securepoly.Polynomial, error) {
	coefficients := make([]*mpc.Value, degree+1)

	for i := range coefficients {
		c, err := rt.Random(ctx, randomLow, randomHigh)
		if err != nil {
			return nil, err
		}

		coefficients[i] = c
	}

	return securepoly.New(coefficients...)
}

type evaluation struct {
	name  string
	point string
	eval  func() (*mpc.Value, error)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	rt, err := mpc.New(opts.config)
	if err != nil {
		return err
	}

	if err = rt.Start(ctx); err != nil {
		return err
	}

	defer func() { _ = rt.Shutdown(ctx) }()

	p1, err := randomPolynomial(ctx, rt, opts.deg1)
	if err != nil {
		return err
	}

	p2, err := randomPolynomial(ctx, rt, opts.deg2)
	if err != nil {
		return err
	}

	p3, err := p1.Add(rt, p2)
	if err != nil {
		return err
	}

	p4, err := p1.Sub(rt, p2)
	if err != nil {
		return err
	}

	p5, err := p1.Mul(ctx, rt, p2)
	if err != nil {
		return err
	}

	xs, err := rt.Random(ctx, randomLow, randomHigh)
	if err != nil {
		return err
	}

	xp := opts.point
	public := fmt.Sprintf("x_p = %d", xp)

	evaluations := []evaluation{
		{"p1", "x_s", func() (*mpc.Value, error) { return p1.EvaluateOnSecret(ctx, rt, xs) }},
		{"p2", public, func() (*mpc.Value, error) { return p2.EvaluateOnPublicInt(ctx, rt, xp) }},
		{"p1+p2", "x_s", func() (*mpc.Value, error) { return p3.EvaluateOnSecret(ctx, rt, xs) }},
		{"p1-p2", public, func() (*mpc.Value, error) { return p4.EvaluateOnPublicInt(ctx, rt, xp) }},
		{"p1*p2", "x_s", func() (*mpc.Value, error) { return p5.EvaluateOnSecret(ctx, rt, xs) }},
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Polynomial").SetAlign(tabulate.ML)
	tab.Header("Point").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	for _, e := range evaluations {
		y, err := e.eval()
		if err != nil {
			return fmt.Errorf("evaluating %s: %w", e.name, err)
		}

		v, err := rt.RevealInt(ctx, y)
		if err != nil {
			return fmt.Errorf("revealing %s(%s): %w", e.name, e.point, err)
		}

		row := tab.Row()
		row.Column(e.name)
		row.Column(e.point)
		row.Column(fmt.Sprintf("%d", v))
	}

	tab.Print(stdout)

	fmt.Fprintln(stdout, "revealed values:")

	for _, named := range []struct {
		name string
		p    *securepoly.Polynomial
	}{{"p1", p1}, {"p2", p2}, {"(p1+p2)", p3}, {"(p1-p2)", p4}, {"(p1*p2)", p5}} {
		coefficients, err := named.p.RevealInts(ctx, rt)
		if err != nil {
			return fmt.Errorf("revealing %s: %w", named.name, err)
		}

		fmt.Fprintf(stdout, "%s(x) = %s\n", named.name, securepoly.Format(coefficients))
	}

	x, err := rt.RevealInt(ctx, xs)
	if err != nil {
		return err
	}

	stats := rt.Stats()
	fmt.Fprintf(stdout, "x_s = %d\nx_p = %d\n", x, xp)
	fmt.Fprintf(stdout, "rounds = %d, secure products = %d, messages = %d, bytes = %d\n",
		stats.Rounds, stats.Products, stats.Messages, stats.Bytes)

	return nil
}
