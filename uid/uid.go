/*
=================================================================================
UID - STABLE 128-BIT ENTITY IDENTITY
=================================================================================

Every population, projection, channel, and backend in the network is tagged
with a UID: a 128-bit opaque value that is stable for the lifetime of the
process and, by construction (UUIDv4), unique across the whole simulation.

Two ways to obtain one:

  - Nil    — the all-zero sentinel variable. It means "no entity": an input projection's
    presynaptic UID, a dropped message's destination, an uninitialized field.
  - New()  — a fresh, process-unique identifier.

UID is a plain [16]byte array, not a pointer or a string: it is cheap to
copy, comparable with ==, and usable directly as a map key.
=================================================================================
*/

package uid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UID is a 128-bit opaque identifier for a network entity.
type UID [16]byte

// Nil is the all-zero sentinel UID, meaning "no entity".
var Nil UID

// New returns a fresh, process-unique UID backed by a random UUIDv4.
func New() UID {
	var u UID
	copy(u[:], uuid.New()[:])
	return u
}

// IsNil reports whether u is the all-zero sentinel.
func (u UID) IsNil() bool {
	return u == Nil
}

// String renders the UID in canonical UUID text form.
func (u UID) String() string {
	return uuid.UUID(u).String()
}

// MarshalBinary returns the raw 16 bytes, for use in the wire envelope
// (§6 MessageHeader.sender_uid).
func (u UID) MarshalBinary() ([]byte, error) {
	out := make([]byte, 16)
	copy(out, u[:])
	return out, nil
}

// UnmarshalBinary populates u from a raw 16-byte slice.
func (u *UID) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return errInvalidLength(len(data))
	}
	copy(u[:], data)
	return nil
}

// Parse decodes a canonical UUID text string into a UID.
func Parse(s string) (UID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	var u UID
	copy(u[:], parsed[:])
	return u, nil
}

// Hex returns the raw 32-character hex encoding of the UID, used by the
// persistence contract (§6) for node/edge population UID attributes.
func (u UID) Hex() string {
	return hex.EncodeToString(u[:])
}
