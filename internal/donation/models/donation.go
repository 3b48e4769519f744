package models

import (
	"strings"
	"time"

	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/geo"
)

// Location is where a donation can be collected. Coordinates may be unset
// when geocoding failed; such donations exist but are invisible to matching.
type Location struct {
	Address     string          `json:"address"`
	Coordinates geo.Coordinates `json:"coordinates"`
}

// PickupWindow is an advisory collection window. The state machine does not
// enforce it; it is informational for the claiming NGO.
type PickupWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Donation is the aggregate root for one surplus-food offer.
//
// Invariants:
//   - Status == available ⇔ ClaimedBy == nil
//   - Status ∈ {claimed, picked} ⇒ ClaimedBy set exactly once; claims are not
//     transferable
//   - DonorID, ID and CreatedAt are immutable after construction
//   - Expiry never mutates the record: a donation past ExpiryTime keeps its
//     stored status and is excluded from matching at read time
//
// All transitions go through the Can*/Apply* pairs so the store's Execute
// callback can hold its lock across validation and mutation.
type Donation struct {
	ID          id.DonationID `json:"id"`
	DonorID     id.DonorID    `json:"donorId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Quantity    string        `json:"quantity"`
	FoodType    FoodType      `json:"foodType"`
	Location    Location      `json:"location"`
	ExpiryTime  time.Time     `json:"expiryTime"`
	PickupWin   *PickupWindow `json:"pickupWindow,omitempty"`
	Status      Status        `json:"status"`
	ClaimedBy   *id.NGOID     `json:"claimedBy,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsExpired reports whether the donation is past its expiry at the given
// instant. Callers must evaluate "now" once per operation and reuse it across
// a batch so the result set is internally consistent.
func (d *Donation) IsExpired(now time.Time) bool {
	return !d.ExpiryTime.After(now)
}

// HasCoordinates reports whether the donation can participate in proximity
// matching.
func (d *Donation) HasCoordinates() bool {
	return d.Location.Coordinates.IsSet()
}

// CanClaim checks the claim transition: only an available, non-expired
// donation is claimable. Wrong status and expiry are reported distinctly so
// the caller can give accurate feedback.
func (d *Donation) CanClaim(now time.Time) error {
	if d.Status != StatusAvailable {
		return dErrors.Newf(dErrors.CodeConflict, "donation is already %s", d.Status)
	}
	if d.IsExpired(now) {
		return dErrors.New(dErrors.CodeExpired, "donation has expired")
	}
	return nil
}

// ApplyClaim transitions the donation to claimed. Call CanClaim first.
func (d *Donation) ApplyClaim(ngoID id.NGOID, now time.Time) {
	d.Status = StatusClaimed
	d.ClaimedBy = &ngoID
	d.UpdatedAt = now
}

// Claim validates and applies the claim in one call.
// Prefer CanClaim + ApplyClaim inside Execute callbacks.
func (d *Donation) Claim(ngoID id.NGOID, now time.Time) error {
	if err := d.CanClaim(now); err != nil {
		return err
	}
	d.ApplyClaim(ngoID, now)
	return nil
}

// CanMarkPicked checks the pickup confirmation: only the claiming NGO can
// complete a claimed donation.
func (d *Donation) CanMarkPicked(claimantID id.NGOID) error {
	if d.Status != StatusClaimed {
		return dErrors.Newf(dErrors.CodeConflict, "donation is %s, not claimed", d.Status)
	}
	if d.ClaimedBy == nil || *d.ClaimedBy != claimantID {
		return dErrors.New(dErrors.CodeForbidden, "donation is claimed by a different NGO")
	}
	return nil
}

// ApplyPicked transitions the donation to picked. Call CanMarkPicked first.
func (d *Donation) ApplyPicked(now time.Time) {
	d.Status = StatusPicked
	d.UpdatedAt = now
}

// MarkPicked validates and applies pickup confirmation in one call.
func (d *Donation) MarkPicked(claimantID id.NGOID, now time.Time) error {
	if err := d.CanMarkPicked(claimantID); err != nil {
		return err
	}
	d.ApplyPicked(now)
	return nil
}

// CanDelete checks hard removal: only the owner may delete, and only while
// the donation is still available. An expired-but-available donation is
// deletable; claimed and picked records are retained for history.
func (d *Donation) CanDelete(requesterID id.DonorID) error {
	if d.Status != StatusAvailable {
		return dErrors.Newf(dErrors.CodeConflict, "cannot delete a %s donation", d.Status)
	}
	if d.DonorID != requesterID {
		return dErrors.New(dErrors.CodeForbidden, "only the donor can delete this donation")
	}
	return nil
}

// CanUpdate checks edits to descriptive fields: owner only, and only before
// any claim freezes the record.
func (d *Donation) CanUpdate(requesterID id.DonorID) error {
	if d.Status != StatusAvailable {
		return dErrors.Newf(dErrors.CodeConflict, "cannot edit a %s donation", d.Status)
	}
	if d.DonorID != requesterID {
		return dErrors.New(dErrors.CodeForbidden, "only the donor can edit this donation")
	}
	return nil
}

// ApplyUpdate overwrites the mutable fields. Call CanUpdate first.
func (d *Donation) ApplyUpdate(in UpdateDonationInput, now time.Time) {
	d.Title = in.Title
	d.Description = in.Description
	d.Quantity = in.Quantity
	d.FoodType = in.FoodType
	d.Location = in.Location
	d.ExpiryTime = in.ExpiryTime
	d.PickupWin = in.PickupWindow
	d.UpdatedAt = now
}

// CreateDonationInput carries a donor submission.
type CreateDonationInput struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Quantity     string        `json:"quantity"`
	FoodType     FoodType      `json:"foodType"`
	Location     Location      `json:"location"`
	ExpiryTime   time.Time     `json:"expiryTime"`
	PickupWindow *PickupWindow `json:"pickupWindow,omitempty"`
}

// UpdateDonationInput carries an edit to an unclaimed donation. Shape matches
// CreateDonationInput; the distinction keeps call sites honest.
type UpdateDonationInput struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Quantity     string        `json:"quantity"`
	FoodType     FoodType      `json:"foodType"`
	Location     Location      `json:"location"`
	ExpiryTime   time.Time     `json:"expiryTime"`
	PickupWindow *PickupWindow `json:"pickupWindow,omitempty"`
}

// Normalize trims free-text fields and defaults the food type.
func (in *UpdateDonationInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.Location.Address = strings.TrimSpace(in.Location.Address)
	if in.FoodType == "" {
		in.FoodType = FoodTypePrepared
	}
}

// Validate applies the same required-field rules as a fresh submission.
func (in UpdateDonationInput) Validate() error {
	return CreateDonationInput{
		Title:        in.Title,
		Description:  in.Description,
		Quantity:     in.Quantity,
		FoodType:     in.FoodType,
		Location:     in.Location,
		ExpiryTime:   in.ExpiryTime,
		PickupWindow: in.PickupWindow,
	}.Validate()
}

// Normalize trims free-text fields and defaults the food type.
func (in *CreateDonationInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.Location.Address = strings.TrimSpace(in.Location.Address)
	if in.FoodType == "" {
		in.FoodType = FoodTypePrepared
	}
}

// Validate enforces the required fields for a donor submission.
func (in CreateDonationInput) Validate() error {
	switch {
	case in.Title == "":
		return dErrors.New(dErrors.CodeInvalidInput, "title is required")
	case in.Description == "":
		return dErrors.New(dErrors.CodeInvalidInput, "description is required")
	case in.Quantity == "":
		return dErrors.New(dErrors.CodeInvalidInput, "quantity is required")
	case in.Location.Address == "":
		return dErrors.New(dErrors.CodeInvalidInput, "location address is required")
	case in.ExpiryTime.IsZero():
		return dErrors.New(dErrors.CodeInvalidInput, "expiry time is required")
	case !in.FoodType.Valid():
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown food type %q", in.FoodType)
	}
	if in.PickupWindow != nil && !in.PickupWindow.End.IsZero() && in.PickupWindow.End.Before(in.PickupWindow.Start) {
		return dErrors.New(dErrors.CodeInvalidInput, "pickup window end precedes start")
	}
	return nil
}

// NewDonation constructs an available donation from a validated submission.
func NewDonation(donationID id.DonationID, donorID id.DonorID, in CreateDonationInput, now time.Time) (*Donation, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &Donation{
		ID:          donationID,
		DonorID:     donorID,
		Title:       in.Title,
		Description: in.Description,
		Quantity:    in.Quantity,
		FoodType:    in.FoodType,
		Location:    in.Location,
		ExpiryTime:  in.ExpiryTime,
		PickupWin:   in.PickupWindow,
		Status:      StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
