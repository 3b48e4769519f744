// Package domain defines the typed identifiers shared across modules.
//
// IDs are distinct types over uuid.UUID so a DonorID can never be passed where
// an NGOID is expected. Parsing happens once, at trust boundaries (HTTP
// handlers, JWT claims); services receive already-typed IDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "foodbridge/pkg/domain-errors"
)

type (
	// DonationID identifies one surplus-food offer.
	DonationID uuid.UUID
	// DonorID identifies the donor account that owns donations.
	DonorID uuid.UUID
	// NGOID identifies an NGO account that claims donations.
	NGOID uuid.UUID
)

func (id DonationID) String() string { return uuid.UUID(id).String() }
func (id DonorID) String() string    { return uuid.UUID(id).String() }
func (id NGOID) String() string      { return uuid.UUID(id).String() }

func (id DonationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DonorID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id NGOID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// The IDs marshal as canonical UUID strings, not as byte arrays.

func (id DonationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id DonorID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id NGOID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *DonationID) UnmarshalText(b []byte) error {
	parsed, err := ParseDonationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DonorID) UnmarshalText(b []byte) error {
	parsed, err := ParseDonorID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *NGOID) UnmarshalText(b []byte) error {
	parsed, err := ParseNGOID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewDonationID allocates a fresh donation identifier.
func NewDonationID() DonationID { return DonationID(uuid.New()) }

// NewDonorID allocates a fresh donor identifier.
func NewDonorID() DonorID { return DonorID(uuid.New()) }

// NewNGOID allocates a fresh NGO identifier.
func NewNGOID() NGOID { return NGOID(uuid.New()) }

// ParseDonationID parses and validates a donation ID from external input.
func ParseDonationID(s string) (DonationID, error) {
	u, err := parseUUID(s, "donation id")
	return DonationID(u), err
}

// ParseDonorID parses and validates a donor ID from external input.
func ParseDonorID(s string) (DonorID, error) {
	u, err := parseUUID(s, "donor id")
	return DonorID(u), err
}

// ParseNGOID parses and validates an NGO ID from external input.
func ParseNGOID(s string) (NGOID, error) {
	u, err := parseUUID(s, "ngo id")
	return NGOID(u), err
}

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", what)
	}
	return u, nil
}
