// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package wire defines the messages exchanged between computing parties during a protocol round, and their compact
// byte encoding.
package wire

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"
)

// HeaderLength is the length of the fixed-size header of an encoded Message.
const HeaderLength = 1 + 8 + 2 + 2 + 4 + 2

var (
	errEncodingInvalidGroup       = errors.New("invalid group identifier")
	errEncodingInvalidLength      = errors.New("invalid encoding length")
	errEncodingNilScalar          = errors.New("message has a nil scalar")
	errEncodingNilElement         = errors.New("message has a nil commitment element")
	errEncodingCommitmentLength   = errors.New("commitments don't match the number of scalars")
	errEncodingInvalidElementFlag = errors.New("invalid element presence flag")
	errMessageDecodePrefix        = errors.New("failed to decode Message")
	errMessageEncodePrefix        = errors.New("failed to encode Message")
)

const errFmt = "%w: %w"

// Message carries the scalars a party sends to another party in one round: sub-shares of the sender's local values
// during a degree reduction, or the sender's shares during a reveal. When resharing is verifiable, each scalar comes
// with the Feldman commitment to the polynomial it was drawn from.
type Message struct {
	// Scalars holds one scalar per batched value, in batch order.
	Scalars []*group.Scalar

	// Commitments holds, if not empty, one commitment per scalar. All commitments have the same length.
	Commitments [][]*group.Element

	// Round is the sequence number of the round the message belongs to.
	Round uint64

	// From is the identifier of the sending party.
	From uint16

	// To is the identifier of the receiving party.
	To uint16

	// Group specifies the group the scalars and elements are part of.
	Group group.Group
}

func (m *Message) commitmentLength() int {
	if len(m.Commitments) == 0 {
		return 0
	}

	return len(m.Commitments[0])
}

// messageCapacity returns the maximum length of an encoded message. Elements are prefixed with a presence byte, and the
// identity element is encoded with that byte only.
func messageCapacity(g group.Group, nScalars, cLen int) int {
	return HeaderLength + nScalars*g.ScalarLength() + nScalars*cLen*(1+g.ElementLength())
}

// Encode serializes m into a compact byte string.
func (m *Message) Encode() ([]byte, error) {
	if !m.Group.Available() {
		return nil, fmt.Errorf(errFmt, errMessageEncodePrefix, errEncodingInvalidGroup)
	}

	cLen := m.commitmentLength()
	if len(m.Commitments) != 0 && len(m.Commitments) != len(m.Scalars) {
		return nil, fmt.Errorf(errFmt, errMessageEncodePrefix, errEncodingCommitmentLength)
	}

	out := make([]byte, HeaderLength, messageCapacity(m.Group, len(m.Scalars), cLen))
	out[0] = byte(m.Group)
	binary.LittleEndian.PutUint64(out[1:9], m.Round)
	binary.LittleEndian.PutUint16(out[9:11], m.From)
	binary.LittleEndian.PutUint16(out[11:13], m.To)
	binary.LittleEndian.PutUint32(out[13:17], uint32(len(m.Scalars)))
	binary.LittleEndian.PutUint16(out[17:19], uint16(cLen))

	for _, s := range m.Scalars {
		if s == nil {
			return nil, fmt.Errorf(errFmt, errMessageEncodePrefix, errEncodingNilScalar)
		}

		out = append(out, s.Encode()...)
	}

	for _, c := range m.Commitments {
		if len(c) != cLen {
			return nil, fmt.Errorf(errFmt, errMessageEncodePrefix, errEncodingCommitmentLength)
		}

		for _, e := range c {
			if e == nil {
				return nil, fmt.Errorf(errFmt, errMessageEncodePrefix, errEncodingNilElement)
			}

			if e.IsIdentity() {
				out = append(out, 0)
				continue
			}

			out = append(out, 1)
			out = append(out, e.Encode()...)
		}
	}

	return out, nil
}

// Hex returns the hexadecimal representation of the byte encoding returned by Encode().
func (m *Message) Hex() (string, error) {
	b, err := m.Encode()
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

func decodeHeader(data []byte) (group.Group, int, int, error) {
	if len(data) < HeaderLength {
		return 0, 0, 0, errEncodingInvalidLength
	}

	g := group.Group(data[0])
	if !g.Available() {
		return 0, 0, 0, errEncodingInvalidGroup
	}

	nScalars := int(binary.LittleEndian.Uint32(data[13:17]))
	cLen := int(binary.LittleEndian.Uint16(data[17:19]))

	return g, nScalars, cLen, nil
}

// Decode deserializes the compact encoding obtained from Encode(), or returns an error. It doesn't modify the
// receiver when encountering an error.
func (m *Message) Decode(data []byte) error {
	g, nScalars, cLen, err := decodeHeader(data)
	if err != nil {
		return fmt.Errorf(errFmt, errMessageDecodePrefix, err)
	}

	if len(data) < HeaderLength+nScalars*g.ScalarLength() || len(data) > messageCapacity(g, nScalars, cLen) {
		return fmt.Errorf(errFmt, errMessageDecodePrefix, errEncodingInvalidLength)
	}

	sLen := g.ScalarLength()
	offset := HeaderLength

	scalars := make([]*group.Scalar, nScalars)
	for i := range scalars {
		s := g.NewScalar()
		if err = s.Decode(data[offset : offset+sLen]); err != nil {
			return fmt.Errorf("%w: failed to decode scalar %d: %w", errMessageDecodePrefix, i+1, err)
		}

		scalars[i] = s
		offset += sLen
	}

	var commitments [][]*group.Element

	if cLen != 0 {
		commitments = make([][]*group.Element, nScalars)

		for i := range commitments {
			c := make([]*group.Element, cLen)

			for j := range c {
				var n int

				c[j], n, err = decodeElement(g, data[offset:])
				if err != nil {
					return fmt.Errorf("%w: failed to decode commitment %d: %w", errMessageDecodePrefix, i+1, err)
				}

				offset += n
			}

			commitments[i] = c
		}
	}

	if offset != len(data) {
		return fmt.Errorf(errFmt, errMessageDecodePrefix, errEncodingInvalidLength)
	}

	m.Group = g
	m.Round = binary.LittleEndian.Uint64(data[1:9])
	m.From = binary.LittleEndian.Uint16(data[9:11])
	m.To = binary.LittleEndian.Uint16(data[11:13])
	m.Scalars = scalars
	m.Commitments = commitments

	return nil
}

// decodeElement reads one presence-prefixed element from data, and returns it with the number of bytes consumed.
func decodeElement(g group.Group, data []byte) (*group.Element, int, error) {
	if len(data) == 0 {
		return nil, 0, errEncodingInvalidLength
	}

	switch data[0] {
	case 0:
		return g.NewElement(), 1, nil
	case 1:
		eLen := g.ElementLength()
		if len(data) < 1+eLen {
			return nil, 0, errEncodingInvalidLength
		}

		e := g.NewElement()
		if err := e.Decode(data[1 : 1+eLen]); err != nil {
			return nil, 0, fmt.Errorf("%w", err)
		}

		return e, 1 + eLen, nil
	default:
		return nil, 0, errEncodingInvalidElementFlag
	}
}

// DecodeHex sets m to the decoding of the hex encoded representation returned by Hex().
func (m *Message) DecodeHex(h string) error {
	b, err := hex.DecodeString(h)
	if err != nil {
		return fmt.Errorf(errFmt, errMessageDecodePrefix, err)
	}

	return m.Decode(b)
}
