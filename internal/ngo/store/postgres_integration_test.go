//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foodbridge/internal/ngo/models"
	"foodbridge/internal/ngo/store"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/geo"
	"foodbridge/pkg/platform/sentinel"
	"foodbridge/pkg/testutil/containers"
)

type PostgresProfileSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresProfileSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresProfileSuite))
}

func (s *PostgresProfileSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresProfileSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "ngo_profiles"))
}

func (s *PostgresProfileSuite) TestSaveAndFindRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &models.Profile{
		ID:                  id.NewNGOID(),
		Name:                "Helping Hands",
		Address:             "3 Charity Lane",
		Coordinates:         geo.Coordinates{Lat: 12.9716, Lng: 77.5946},
		OperationalRadiusKm: 35,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.Require().NoError(s.store.Save(ctx, p))

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Name, got.Name)
	s.Equal(p.Coordinates, got.Coordinates)
	s.Equal(35, got.OperationalRadiusKm)
}

func (s *PostgresProfileSuite) TestSaveIsUpsert() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &models.Profile{
		ID:                  id.NewNGOID(),
		OperationalRadiusKm: models.DefaultRadiusKm,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.Require().NoError(s.store.Save(ctx, p))

	p.OperationalRadiusKm = 60
	p.UpdatedAt = now.Add(time.Minute)
	s.Require().NoError(s.store.Save(ctx, p))

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(60, got.OperationalRadiusKm)
}

func (s *PostgresProfileSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewNGOID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
