// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package address provides the identity and resolution contracts of durable objects.
//
// An object lives in a namespace named by its binding. Within a namespace
// an object is identified by an ID: a 128-bit value printed as 32 lowercase
// hexadecimal characters. IDs derived from a name are stable, so the same
// name always reaches the same object. Unique IDs are random.
package address

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/tochemey/durable/internal/validation"
)

// ID identifies an object within a namespace
type ID struct {
	value [16]byte
	name  string
}

// NewNamedID derives the ID of the named object in the given binding
func NewNamedID(binding, name string) ID {
	return ID{
		value: xxh3.HashString128(binding + "/" + name).Bytes(),
		name:  name,
	}
}

// NewUniqueID returns a random ID
func NewUniqueID() ID {
	return ID{value: uuid.New()}
}

// ParseID parses the hexadecimal form of an ID
func ParseID(id string) (ID, error) {
	if err := validation.NewObjectIDValidator(id).Validate(); err != nil {
		return ID{}, err
	}

	var parsed ID
	// the validator guarantees a well-formed input
	_, _ = hex.Decode(parsed.value[:], []byte(id))
	return parsed, nil
}

// String returns the hexadecimal form of the ID
func (id ID) String() string {
	return hex.EncodeToString(id.value[:])
}

// Name returns the name the ID was derived from, when known.
// IDs parsed from their hexadecimal form or generated randomly carry no name.
func (id ID) Name() (string, bool) {
	return id.name, id.name != ""
}

// Equals reports whether both IDs designate the same object
func (id ID) Equals(other ID) bool {
	return id.value == other.value
}

// IsZero reports whether the ID is unset
func (id ID) IsZero() bool {
	return id.value == [16]byte{}
}
