package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"foodbridge/internal/donation/models"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/platform/sentinel"
)

// Schema is the donations table DDL. Applied by migrations in deployment and
// by the integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS donations (
	id           UUID PRIMARY KEY,
	donor_id     UUID NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	quantity     TEXT NOT NULL,
	food_type    TEXT NOT NULL,
	address      TEXT NOT NULL,
	lat          DOUBLE PRECISION NOT NULL DEFAULT 0,
	lng          DOUBLE PRECISION NOT NULL DEFAULT 0,
	expiry_time  TIMESTAMPTZ NOT NULL,
	pickup_start TIMESTAMPTZ,
	pickup_end   TIMESTAMPTZ,
	status       TEXT NOT NULL,
	claimed_by   UUID,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS donations_status_idx ON donations (status);
CREATE INDEX IF NOT EXISTS donations_donor_idx ON donations (donor_id);
CREATE INDEX IF NOT EXISTS donations_claimed_by_idx ON donations (claimed_by);
`

const donationColumns = `id, donor_id, title, description, quantity, food_type,
	address, lat, lng, expiry_time, pickup_start, pickup_end, status, claimed_by,
	created_at, updated_at`

// Postgres implements Store on database/sql. Execute serializes transitions
// per donation with SELECT ... FOR UPDATE, which is what makes claims safe
// across multiple server instances sharing one database.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, d *models.Donation) error {
	var claimedBy any
	if d.ClaimedBy != nil {
		claimedBy = uuid.UUID(*d.ClaimedBy)
	}
	var pickupStart, pickupEnd any
	if d.PickupWin != nil {
		pickupStart = d.PickupWin.Start
		pickupEnd = d.PickupWin.End
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donations (`+donationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		uuid.UUID(d.ID), uuid.UUID(d.DonorID), d.Title, d.Description, d.Quantity,
		string(d.FoodType), d.Location.Address, d.Location.Coordinates.Lat,
		d.Location.Coordinates.Lng, d.ExpiryTime, pickupStart, pickupEnd,
		string(d.Status), claimedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return storeErr("insert donation", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, donationID id.DonationID) (*models.Donation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE id = $1`, uuid.UUID(donationID))
	return scanDonation(row)
}

func (s *Postgres) ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Donation, error) {
	return s.list(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE donor_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(donorID))
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.Status) ([]*models.Donation, error) {
	return s.list(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE status = $1 ORDER BY created_at ASC`,
		string(status))
}

func (s *Postgres) ListClaimedBy(ctx context.Context, ngoID id.NGOID) ([]*models.Donation, error) {
	return s.list(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE claimed_by = $1 ORDER BY updated_at DESC`,
		uuid.UUID(ngoID))
}

func (s *Postgres) Update(ctx context.Context, d *models.Donation) error {
	res, err := s.db.ExecContext(ctx, updateSQL(), updateArgs(d)...)
	if err != nil {
		return storeErr("update donation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("update donation", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, donationID id.DonationID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM donations WHERE id = $1`, uuid.UUID(donationID))
	if err != nil {
		return storeErr("delete donation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete donation", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute runs validate and mutate inside a transaction holding a row lock,
// so concurrent transitions against one donation serialize at the database.
func (s *Postgres) Execute(ctx context.Context, donationID id.DonationID,
	validate func(*models.Donation) error,
	mutate func(*models.Donation)) (*models.Donation, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	row := tx.QueryRowContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE id = $1 FOR UPDATE`, uuid.UUID(donationID))
	d, err := scanDonation(row)
	if err != nil {
		return nil, err
	}

	if err := validate(d); err != nil {
		return nil, err
	}
	mutate(d)

	if _, err := tx.ExecContext(ctx, updateSQL(), updateArgs(d)...); err != nil {
		return nil, storeErr("update donation", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit tx", err)
	}
	return d, nil
}

func (s *Postgres) list(ctx context.Context, query string, arg any) ([]*models.Donation, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, storeErr("query donations", err)
	}
	defer rows.Close()

	var out []*models.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("scan donations", err)
	}
	return out, nil
}

func updateSQL() string {
	return `
		UPDATE donations SET
			title = $2, description = $3, quantity = $4, food_type = $5,
			address = $6, lat = $7, lng = $8, expiry_time = $9,
			pickup_start = $10, pickup_end = $11, status = $12, claimed_by = $13,
			updated_at = $14
		WHERE id = $1`
}

func updateArgs(d *models.Donation) []any {
	var claimedBy any
	if d.ClaimedBy != nil {
		claimedBy = uuid.UUID(*d.ClaimedBy)
	}
	var pickupStart, pickupEnd any
	if d.PickupWin != nil {
		pickupStart = d.PickupWin.Start
		pickupEnd = d.PickupWin.End
	}
	return []any{
		uuid.UUID(d.ID), d.Title, d.Description, d.Quantity, string(d.FoodType),
		d.Location.Address, d.Location.Coordinates.Lat, d.Location.Coordinates.Lng,
		d.ExpiryTime, pickupStart, pickupEnd, string(d.Status), claimedBy, d.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*models.Donation, error) {
	var (
		d           models.Donation
		donationID  uuid.UUID
		donorID     uuid.UUID
		foodType    string
		status      string
		claimedBy   uuid.NullUUID
		pickupStart sql.NullTime
		pickupEnd   sql.NullTime
	)
	err := row.Scan(&donationID, &donorID, &d.Title, &d.Description, &d.Quantity,
		&foodType, &d.Location.Address, &d.Location.Coordinates.Lat,
		&d.Location.Coordinates.Lng, &d.ExpiryTime, &pickupStart, &pickupEnd,
		&status, &claimedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, storeErr("scan donation", err)
	}

	d.ID = id.DonationID(donationID)
	d.DonorID = id.DonorID(donorID)
	d.FoodType = models.FoodType(foodType)
	d.Status = models.Status(status)
	if claimedBy.Valid {
		ngoID := id.NGOID(claimedBy.UUID)
		d.ClaimedBy = &ngoID
	}
	if pickupStart.Valid || pickupEnd.Valid {
		d.PickupWin = &models.PickupWindow{Start: pickupStart.Time, End: pickupEnd.Time}
	}
	return &d, nil
}

// storeErr classifies infrastructure failures. Context expiry and connection
// loss surface as ErrUnavailable so the service maps them to the retryable
// error kind; callers own any retry policy.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57": // connection, resources, operator intervention
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
		}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
