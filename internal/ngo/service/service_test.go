package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foodbridge/internal/ngo/models"
	"foodbridge/internal/ngo/store"
	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/geo"
	"foodbridge/pkg/requestcontext"
)

type NGOServiceSuite struct {
	suite.Suite

	svc   *Service
	ctx   context.Context
	now   time.Time
	ngoID id.NGOID
}

func TestNGOServiceSuite(t *testing.T) {
	suite.Run(t, new(NGOServiceSuite))
}

func (s *NGOServiceSuite) SetupTest() {
	s.svc = New(store.NewInMemory(), nil)
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ngoID = id.NewNGOID()
}

func (s *NGOServiceSuite) TestGetProfileDefaultsWhenNeverSaved() {
	p, err := s.svc.GetProfile(s.ctx, s.ngoID)
	s.Require().NoError(err)
	s.Equal(models.DefaultRadiusKm, p.OperationalRadiusKm)
	s.False(p.HasCoordinates())
}

func (s *NGOServiceSuite) TestUpdateRadiusPersistsAcrossReads() {
	_, err := s.svc.UpdateRadius(s.ctx, s.ngoID, 45)
	s.Require().NoError(err)

	p, err := s.svc.GetProfile(s.ctx, s.ngoID)
	s.Require().NoError(err)
	s.Equal(45, p.OperationalRadiusKm)
}

func (s *NGOServiceSuite) TestUpdateRadiusRejectsOutOfRange() {
	for _, radius := range []int{0, -1, 101, 150} {
		_, err := s.svc.UpdateRadius(s.ctx, s.ngoID, radius)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "radius %d", radius)
	}

	// Nothing was written by the rejected updates.
	p, err := s.svc.GetProfile(s.ctx, s.ngoID)
	s.Require().NoError(err)
	s.Equal(models.DefaultRadiusKm, p.OperationalRadiusKm)
}

func (s *NGOServiceSuite) TestUpdateProfileKeepsRadius() {
	_, err := s.svc.UpdateRadius(s.ctx, s.ngoID, 60)
	s.Require().NoError(err)

	p, err := s.svc.UpdateProfile(s.ctx, s.ngoID, UpdateProfileInput{
		Name:        "  Helping Hands  ",
		Address:     "3 Charity Lane",
		Coordinates: geo.Coordinates{Lat: 12.9716, Lng: 77.5946},
	})
	s.Require().NoError(err)
	s.Equal("Helping Hands", p.Name)
	s.Equal(60, p.OperationalRadiusKm)
	s.True(p.HasCoordinates())
}
