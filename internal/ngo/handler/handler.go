// Package handler exposes NGO profile settings over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"foodbridge/internal/ngo/models"
	ngoservice "foodbridge/internal/ngo/service"
	"foodbridge/internal/platform/middleware"
	"foodbridge/internal/transport/http/shared"
	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/requestcontext"
)

// Service is the profile surface the handler drives.
type Service interface {
	GetProfile(ctx context.Context, ngoID id.NGOID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, ngoID id.NGOID, in ngoservice.UpdateProfileInput) (*models.Profile, error)
	UpdateRadius(ctx context.Context, ngoID id.NGOID, radiusKm int) (*models.Profile, error)
}

type Handler struct {
	ngos   Service
	logger *slog.Logger
}

func New(ngos Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{ngos: ngos, logger: logger}
}

// Register mounts the NGO routes; all of them require the ngo role.
func (h *Handler) Register(r chi.Router) {
	r.Route("/ngo/profile", func(r chi.Router) {
		r.Use(middleware.RequireRole(requestcontext.RoleNGO))
		r.Get("/", h.handleGetProfile)
		r.Put("/", h.handleUpdateProfile)
		r.Put("/radius", h.handleUpdateRadius)
	})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.ngos.GetProfile(ctx, requestcontext.NGOID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in ngoservice.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	p, err := h.ngos.UpdateProfile(ctx, requestcontext.NGOID(ctx), in)
	if err != nil {
		h.logger.WarnContext(ctx, "update ngo profile failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) handleUpdateRadius(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in struct {
		RadiusKm int `json:"radiusKm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	p, err := h.ngos.UpdateRadius(ctx, requestcontext.NGOID(ctx), in.RadiusKm)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toResponse(p))
}

type profileResponse struct {
	ID          id.NGOID `json:"id"`
	Name        string   `json:"name,omitempty"`
	Address     string   `json:"address,omitempty"`
	Coordinates struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coordinates"`
	OperationalRadiusKm int  `json:"operationalRadiusKm"`
	ProximityActive     bool `json:"proximityActive"`
}

func toResponse(p *models.Profile) profileResponse {
	out := profileResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Address:             p.Address,
		OperationalRadiusKm: p.OperationalRadiusKm,
		ProximityActive:     p.HasCoordinates(),
	}
	out.Coordinates.Lat = p.Coordinates.Lat
	out.Coordinates.Lng = p.Coordinates.Lng
	return out
}
