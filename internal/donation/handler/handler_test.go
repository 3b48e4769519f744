package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"foodbridge/internal/donation/handler"
	"foodbridge/internal/donation/models"
	donationservice "foodbridge/internal/donation/service"
	donationstore "foodbridge/internal/donation/store"
	"foodbridge/internal/matching"
	ngoservice "foodbridge/internal/ngo/service"
	ngostore "foodbridge/internal/ngo/store"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/requestcontext"
	"foodbridge/pkg/testutil"
)

// newRouter wires the handler against in-memory backends, bypassing auth:
// tests inject identity directly into the request context.
func newRouter() (chi.Router, *donationservice.Service) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := donationstore.NewInMemory()
	donations := donationservice.New(store)
	ngos := ngoservice.New(ngostore.NewInMemory(), logger)
	matcher := matching.New(store, ngos, nil)

	r := chi.NewRouter()
	handler.New(donations, matcher, logger).Register(r)
	return r, donations
}

func validBody() map[string]any {
	return map[string]any{
		"title":       "Surplus rice",
		"description": "Cooked lunch",
		"quantity":    "20 servings",
		"foodType":    "prepared",
		"location": map[string]any{
			"address":     "12 MG Road",
			"coordinates": map[string]float64{"lat": 12.9716, "lng": 77.5946},
		},
		"expiryTime": time.Now().Add(6 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateDonation(t *testing.T) {
	router, _ := newRouter()
	donorID := id.NewDonorID()

	req := testutil.AsDonor(testutil.NewJSONRequest(t, http.MethodPost, "/donations", validBody()), donorID)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[models.Donation](t, rr)
	require.Equal(t, donorID, created.DonorID)
	require.Equal(t, models.StatusAvailable, created.Status)
}

func TestCreateDonationValidation(t *testing.T) {
	router, _ := newRouter()

	body := validBody()
	delete(body, "description")
	req := testutil.AsDonor(testutil.NewJSONRequest(t, http.MethodPost, "/donations", body), id.NewDonorID())
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "invalid_input")
}

func TestCreateDonationMalformedBody(t *testing.T) {
	router, _ := newRouter()

	req := testutil.AsDonor(testutil.NewJSONRequest(t, http.MethodPost, "/donations", "not an object"), id.NewDonorID())
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestGetDonationBadID(t *testing.T) {
	router, _ := newRouter()

	req := testutil.AsDonor(testutil.NewRequest(t, http.MethodGet, "/donations/not-a-uuid"), id.NewDonorID())
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "invalid_input")
}

func TestGetDonationNotFound(t *testing.T) {
	router, _ := newRouter()

	req := testutil.AsDonor(testutil.NewRequest(t, http.MethodGet, "/donations/"+id.NewDonationID().String()), id.NewDonorID())
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertErrorCode(t, rr, "not_found")
}

func TestClaimExpiredDonationGone(t *testing.T) {
	router, donations := newRouter()
	donorID := id.NewDonorID()

	now := time.Now()
	in := models.CreateDonationInput{
		Title:       "Old bread",
		Description: "Yesterday's bake",
		Quantity:    "5 loaves",
		FoodType:    models.FoodTypeBakery,
		Location:    models.Location{Address: "Bakery on 5th"},
		ExpiryTime:  now.Add(-time.Hour),
	}
	created, err := donations.Create(requestcontext.WithTime(context.Background(), now), donorID, in)
	require.NoError(t, err)

	req := testutil.AsNGO(testutil.NewRequest(t, http.MethodPost, "/donations/"+created.ID.String()+"/claim"), id.NewNGOID())
	req = testutil.WithRequestTime(req, now)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusGone)
	testutil.AssertErrorCode(t, rr, "expired")
}
