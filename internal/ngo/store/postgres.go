package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"foodbridge/internal/ngo/models"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/platform/sentinel"
)

// Schema is the ngo_profiles table DDL. Applied by migrations in deployment
// and by the integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS ngo_profiles (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	lat        DOUBLE PRECISION NOT NULL DEFAULT 0,
	lng        DOUBLE PRECISION NOT NULL DEFAULT 0,
	radius_km  INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// Postgres implements Store on database/sql.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindByID(ctx context.Context, ngoID id.NGOID) (*models.Profile, error) {
	var (
		p     models.Profile
		rowID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, lat, lng, radius_km, created_at, updated_at
		FROM ngo_profiles WHERE id = $1`, uuid.UUID(ngoID)).
		Scan(&rowID, &p.Name, &p.Address, &p.Coordinates.Lat, &p.Coordinates.Lng,
			&p.OperationalRadiusKm, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, storeErr("find ngo profile", err)
	}
	p.ID = id.NGOID(rowID)
	return &p, nil
}

func (s *Postgres) Save(ctx context.Context, profile *models.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ngo_profiles (id, name, address, lat, lng, radius_km, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address,
			lat = EXCLUDED.lat, lng = EXCLUDED.lng,
			radius_km = EXCLUDED.radius_km, updated_at = EXCLUDED.updated_at`,
		uuid.UUID(profile.ID), profile.Name, profile.Address,
		profile.Coordinates.Lat, profile.Coordinates.Lng,
		profile.OperationalRadiusKm, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return storeErr("save ngo profile", err)
	}
	return nil
}

// storeErr mirrors the donation store's classification: context expiry and
// connection-class failures become ErrUnavailable.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
