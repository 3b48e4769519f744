package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/geo"
)

var (
	testNow   = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	testDonor = id.DonorID(uuid.New())
	testNGO   = id.NGOID(uuid.New())
)

func validInput() CreateDonationInput {
	return CreateDonationInput{
		Title:       "Leftover catering trays",
		Description: "Rice and curry from an office event, refrigerated",
		Quantity:    "12 trays",
		FoodType:    FoodTypePrepared,
		Location: Location{
			Address:     "44 Residency Rd, Bengaluru",
			Coordinates: geo.Coordinates{Lat: 12.9716, Lng: 77.5946},
		},
		ExpiryTime: testNow.Add(6 * time.Hour),
	}
}

func newAvailable(t *testing.T) *Donation {
	t.Helper()
	d, err := NewDonation(id.NewDonationID(), testDonor, validInput(), testNow)
	require.NoError(t, err)
	return d
}

func TestNewDonation(t *testing.T) {
	t.Run("produces an available unclaimed donation", func(t *testing.T) {
		d := newAvailable(t)
		assert.Equal(t, StatusAvailable, d.Status)
		assert.Nil(t, d.ClaimedBy)
		assert.Equal(t, testNow, d.CreatedAt)
		assert.Equal(t, testDonor, d.DonorID)
	})

	t.Run("defaults empty food type to prepared", func(t *testing.T) {
		in := validInput()
		in.FoodType = ""
		d, err := NewDonation(id.NewDonationID(), testDonor, in, testNow)
		require.NoError(t, err)
		assert.Equal(t, FoodTypePrepared, d.FoodType)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		cases := map[string]func(*CreateDonationInput){
			"title":       func(in *CreateDonationInput) { in.Title = "  " },
			"description": func(in *CreateDonationInput) { in.Description = "" },
			"quantity":    func(in *CreateDonationInput) { in.Quantity = "" },
			"address":     func(in *CreateDonationInput) { in.Location.Address = "" },
			"expiry":      func(in *CreateDonationInput) { in.ExpiryTime = time.Time{} },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				in := validInput()
				mutate(&in)
				_, err := NewDonation(id.NewDonationID(), testDonor, in, testNow)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			})
		}
	})

	t.Run("rejects unknown food type", func(t *testing.T) {
		in := validInput()
		in.FoodType = FoodType("frozen")
		_, err := NewDonation(id.NewDonationID(), testDonor, in, testNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects inverted pickup window", func(t *testing.T) {
		in := validInput()
		in.PickupWindow = &PickupWindow{Start: testNow.Add(2 * time.Hour), End: testNow.Add(time.Hour)}
		_, err := NewDonation(id.NewDonationID(), testDonor, in, testNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestClaimTransition(t *testing.T) {
	t.Run("claims an available donation", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))
		assert.Equal(t, StatusClaimed, d.Status)
		require.NotNil(t, d.ClaimedBy)
		assert.Equal(t, testNGO, *d.ClaimedBy)
	})

	t.Run("rejects a second claim with conflict", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))

		err := d.Claim(id.NGOID(uuid.New()), testNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		assert.Equal(t, testNGO, *d.ClaimedBy, "claim must not transfer")
	})

	t.Run("rejects an expired available donation with expired, not conflict", func(t *testing.T) {
		d := newAvailable(t)
		err := d.Claim(testNGO, d.ExpiryTime.Add(time.Second))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeExpired))
		assert.Equal(t, StatusAvailable, d.Status, "expiry is a view, not a transition")
	})

	t.Run("expiry boundary: exactly at expiry counts as expired", func(t *testing.T) {
		d := newAvailable(t)
		err := d.Claim(testNGO, d.ExpiryTime)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeExpired))
	})

	t.Run("rejects a picked donation with conflict", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))
		require.NoError(t, d.MarkPicked(testNGO, testNow))

		err := d.Claim(testNGO, testNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestMarkPickedTransition(t *testing.T) {
	t.Run("claimant completes the pickup", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))
		require.NoError(t, d.MarkPicked(testNGO, testNow.Add(time.Hour)))
		assert.Equal(t, StatusPicked, d.Status)
		assert.Equal(t, testNGO, *d.ClaimedBy)
	})

	t.Run("different NGO is forbidden and state is unchanged", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))

		err := d.MarkPicked(id.NGOID(uuid.New()), testNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Equal(t, StatusClaimed, d.Status)
	})

	t.Run("unclaimed donation cannot be picked", func(t *testing.T) {
		d := newAvailable(t)
		err := d.MarkPicked(testNGO, testNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("picked is terminal", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))
		require.NoError(t, d.MarkPicked(testNGO, testNow))

		err := d.MarkPicked(testNGO, testNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestDeleteGate(t *testing.T) {
	t.Run("owner can delete while available", func(t *testing.T) {
		d := newAvailable(t)
		assert.NoError(t, d.CanDelete(testDonor))
	})

	t.Run("owner can delete expired-but-available", func(t *testing.T) {
		d := newAvailable(t)
		// expiry alone does not change stored status
		assert.True(t, d.IsExpired(d.ExpiryTime.Add(time.Second)))
		assert.NoError(t, d.CanDelete(testDonor))
	})

	t.Run("claimed donation is not deletable", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))
		err := d.CanDelete(testDonor)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		d := newAvailable(t)
		err := d.CanDelete(id.DonorID(uuid.New()))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestUpdateGate(t *testing.T) {
	t.Run("owner edits an available donation", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.CanUpdate(testDonor))

		in := UpdateDonationInput{
			Title:       "Updated trays",
			Description: d.Description,
			Quantity:    "8 trays",
			FoodType:    FoodTypeBakery,
			Location:    d.Location,
			ExpiryTime:  d.ExpiryTime.Add(time.Hour),
		}
		d.ApplyUpdate(in, testNow.Add(time.Minute))
		assert.Equal(t, "Updated trays", d.Title)
		assert.Equal(t, FoodTypeBakery, d.FoodType)
		assert.Equal(t, StatusAvailable, d.Status)
	})

	t.Run("claim freezes descriptive fields", func(t *testing.T) {
		d := newAvailable(t)
		require.NoError(t, d.Claim(testNGO, testNow))
		err := d.CanUpdate(testDonor)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusAvailable.CanTransitionTo(StatusClaimed))
	assert.True(t, StatusClaimed.CanTransitionTo(StatusPicked))
	assert.False(t, StatusAvailable.CanTransitionTo(StatusPicked))
	assert.False(t, StatusPicked.CanTransitionTo(StatusAvailable))
	assert.False(t, StatusClaimed.CanTransitionTo(StatusAvailable))
	assert.False(t, Status("unknown").Valid())
}
