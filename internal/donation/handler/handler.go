// Package handler exposes the donation lifecycle and matching over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodbridge/internal/donation/models"
	"foodbridge/internal/matching"
	"foodbridge/internal/platform/middleware"
	"foodbridge/internal/transport/http/shared"
	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/requestcontext"
)

// Service is the donation lifecycle surface the handler drives.
type Service interface {
	Create(ctx context.Context, donorID id.DonorID, in models.CreateDonationInput) (*models.Donation, error)
	Get(ctx context.Context, donationID id.DonationID) (*models.Donation, error)
	Update(ctx context.Context, donationID id.DonationID, requesterID id.DonorID, in models.UpdateDonationInput) (*models.Donation, error)
	Delete(ctx context.Context, donationID id.DonationID, requesterID id.DonorID) error
	Claim(ctx context.Context, donationID id.DonationID, ngoID id.NGOID) (*models.Donation, error)
	MarkPicked(ctx context.Context, donationID id.DonationID, claimantID id.NGOID) (*models.Donation, error)
	ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Donation, error)
	ListClaimedBy(ctx context.Context, ngoID id.NGOID) ([]*models.Donation, error)
}

// Matcher is the matching surface the browse endpoint drives.
type Matcher interface {
	FindForNGO(ctx context.Context, ngoID id.NGOID, radiusOverride *int) (*matching.Result, error)
}

// Handler handles donation endpoints.
type Handler struct {
	donations Service
	matcher   Matcher
	logger    *slog.Logger
}

func New(donations Service, matcher Matcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{donations: donations, matcher: matcher, logger: logger}
}

// Register mounts the donation routes. The router is expected to already
// carry the platform middleware stack plus RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Route("/donations", func(r chi.Router) {
		r.With(middleware.RequireRole(requestcontext.RoleDonor)).Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.With(middleware.RequireRole(requestcontext.RoleNGO)).Get("/ngo/my-claims", h.handleMyClaims)

		r.Route("/{donationID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(middleware.RequireRole(requestcontext.RoleDonor)).Put("/", h.handleUpdate)
			r.With(middleware.RequireRole(requestcontext.RoleDonor)).Delete("/", h.handleDelete)
			r.With(middleware.RequireRole(requestcontext.RoleNGO)).Post("/claim", h.handleClaim)
			r.With(middleware.RequireRole(requestcontext.RoleNGO)).Post("/pickup", h.handlePickup)
		})
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.CreateDonationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	d, err := h.donations.Create(ctx, requestcontext.DonorID(ctx), in)
	if err != nil {
		h.logError(ctx, "create donation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, d)
}

// handleList serves both roles: donors get their own donations, NGOs get the
// matched available list.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch requestcontext.ActorRole(ctx) {
	case requestcontext.RoleDonor:
		out, err := h.donations.ListByDonor(ctx, requestcontext.DonorID(ctx))
		if err != nil {
			h.logError(ctx, "list donations failed", err)
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, listResponse{Donations: out})
	case requestcontext.RoleNGO:
		h.handleMatch(w, r)
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "unknown role"))
	}
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	radiusOverride, err := parseRadius(r.URL.Query().Get("radius"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	res, err := h.matcher.FindForNGO(ctx, requestcontext.NGOID(ctx), radiusOverride)
	if err != nil {
		h.logError(ctx, "matching failed", err)
		shared.WriteError(w, err)
		return
	}

	out := matchListResponse{
		ProximityActive: res.ProximityActive,
		RadiusKm:        res.RadiusKm,
		Matches:         make([]matchResponse, 0, len(res.Matches)),
	}
	for _, m := range res.Matches {
		mr := matchResponse{Donation: m.Donation}
		if res.ProximityActive {
			d := m.DistanceKm
			mr.DistanceKm = &d
		}
		out.Matches = append(out.Matches, mr)
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	d, err := h.donations.Get(ctx, donationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var in models.UpdateDonationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	d, err := h.donations.Update(ctx, donationID, requestcontext.DonorID(ctx), in)
	if err != nil {
		h.logError(ctx, "update donation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.donations.Delete(ctx, donationID, requestcontext.DonorID(ctx)); err != nil {
		h.logError(ctx, "delete donation failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	d, err := h.donations.Claim(ctx, donationID, requestcontext.NGOID(ctx))
	if err != nil {
		h.logError(ctx, "claim failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handlePickup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	d, err := h.donations.MarkPicked(ctx, donationID, requestcontext.NGOID(ctx))
	if err != nil {
		h.logError(ctx, "pickup failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleMyClaims(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	out, err := h.donations.ListClaimedBy(ctx, requestcontext.NGOID(ctx))
	if err != nil {
		h.logError(ctx, "list claims failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, listResponse{Donations: out})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"code", string(code),
	)
}

type listResponse struct {
	Donations []*models.Donation `json:"donations"`
}

type matchListResponse struct {
	ProximityActive bool            `json:"proximityActive"`
	RadiusKm        int             `json:"radiusKm"`
	Matches         []matchResponse `json:"matches"`
}

// matchResponse inlines the donation and annotates it with the distance from
// the NGO when proximity matching was active.
type matchResponse struct {
	Donation   *models.Donation `json:"donation"`
	DistanceKm *float64         `json:"distanceKm,omitempty"`
}

func parseRadius(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	radius, err := strconv.Atoi(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "radius must be an integer")
	}
	return &radius, nil
}
