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
	"sync"
	"sync/atomic"

	"github.com/bytemare/securepoly/mpc/wire"
)

// Stats holds the communication counters of a runtime.
type Stats struct {
	// Rounds is the number of interactive rounds run, one per batched secure multiplication or reveal.
	Rounds uint64

	// Products is the number of secret-by-secret products computed inside those rounds.
	Products uint64

	// Messages is the number of point-to-point messages sent.
	Messages uint64

	// Bytes is the total size of the encoded messages sent.
	Bytes uint64
}

type counters struct {
	rounds   atomic.Uint64
	products atomic.Uint64
	messages atomic.Uint64
	bytes    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Rounds:   c.rounds.Load(),
		Products: c.products.Load(),
		Messages: c.messages.Load(),
		Bytes:    c.bytes.Load(),
	}
}

// network connects the parties of a runtime with in-memory point-to-point channels. Messages travel encoded, as they
// would on a real link.
type network struct {
	inboxes map[uint16]chan []byte
	down    map[uint16]bool
	stats   *counters
	mu      sync.RWMutex
}

func newNetwork(parties uint16, stats *counters) *network {
	n := &network{
		inboxes: make(map[uint16]chan []byte, parties),
		down:    make(map[uint16]bool),
		stats:   stats,
	}

	for id := uint16(1); id <= parties; id++ {
		// A round delivers at most one message from every party to every party.
		n.inboxes[id] = make(chan []byte, parties)
	}

	return n
}

func (n *network) reachable(id uint16) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return !n.down[id]
}

func (n *network) setDown(id uint16, down bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if down {
		n.down[id] = true
	} else {
		delete(n.down, id)
	}
}

// flush drops every undelivered message, left over by an aborted round.
func (n *network) flush() {
	for _, inbox := range n.inboxes {
		for len(inbox) > 0 {
			<-inbox
		}
	}
}

func (n *network) send(ctx context.Context, m *wire.Message) error {
	if !n.reachable(m.From) {
		return fmt.Errorf("%w: sender %d", ErrPartyUnreachable, m.From)
	}

	if !n.reachable(m.To) {
		return fmt.Errorf("%w: recipient %d", ErrPartyUnreachable, m.To)
	}

	inbox, ok := n.inboxes[m.To]
	if !ok {
		return fmt.Errorf("%w: unknown recipient %d", ErrPartyUnreachable, m.To)
	}

	data, err := m.Encode()
	if err != nil {
		return err
	}

	select {
	case inbox <- data:
	case <-ctx.Done():
		return ctx.Err()
	}

	n.stats.messages.Add(1)
	n.stats.bytes.Add(uint64(len(data)))

	return nil
}

// receive returns the next message addressed to party id.
func (n *network) receive(ctx context.Context, id uint16) (*wire.Message, error) {
	if !n.reachable(id) {
		return nil, fmt.Errorf("%w: recipient %d", ErrPartyUnreachable, id)
	}

	select {
	case data := <-n.inboxes[id]:
		m := new(wire.Message)
		if err := m.Decode(data); err != nil {
			return nil, err
		}

		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
