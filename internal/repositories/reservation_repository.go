package repositories

import (
	"context"
	"fmt"
	"time"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationSelect = `
	SELECT r.id, r.org_id, r.reservation_number, r.asset_id, r.reserved_by_id,
		r.reservation_type, r.status, r.start_datetime, r.end_datetime,
		r.number_of_people, r.purpose, r.contact_phone,
		r.approved_by_id, r.approved_at, r.rejection_reason,
		r.created_at, r.updated_at,
		a.name AS asset_name, u.full_name AS reserved_by_name
	FROM asset_reservations r
	LEFT JOIN assets a ON r.asset_id = a.id
	LEFT JOIN users u ON r.reserved_by_id = u.id`

func scanReservation(row pgx.Row) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := row.Scan(
		&res.ID, &res.OrgID, &res.ReservationNumber, &res.AssetID, &res.ReservedByID,
		&res.ReservationType, &res.Status, &res.StartDatetime, &res.EndDatetime,
		&res.NumberOfPeople, &res.Purpose, &res.ContactPhone,
		&res.ApprovedByID, &res.ApprovedAt, &res.RejectionReason,
		&res.CreatedAt, &res.UpdatedAt,
		&res.AssetName, &res.ReservedByName,
	)
	return res, err
}

// NumberExists reports whether a reservation number is already taken.
func (r *ReservationRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM asset_reservations WHERE reservation_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, errors.WrapError(err, "INTERNAL_ERROR", "Failed to check reservation number", errors.ErrInternalServer.Status)
	}
	return exists, nil
}

// HasConflict checks whether any pending or approved reservation on the asset
// overlaps [start, end). Touching intervals do not overlap. excludeID skips
// the reservation being rescheduled.
func (r *ReservationRepository) HasConflict(ctx context.Context, assetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM asset_reservations
			WHERE asset_id = $1
				AND status IN ('pending', 'approved')
				AND start_datetime < $3
				AND end_datetime > $2
				AND ($4::uuid IS NULL OR id != $4)
		)
	`

	err := r.db.Pool.QueryRow(ctx, query, assetID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, errors.WrapError(err, "INTERNAL_ERROR", "Failed to check reservation conflict", errors.ErrInternalServer.Status)
	}
	return exists, nil
}

func (r *ReservationRepository) Create(ctx context.Context, orgID uuid.UUID, res *models.Reservation) error {
	query := `
		INSERT INTO asset_reservations (
			id, org_id, reservation_number, asset_id, reserved_by_id,
			reservation_type, status, start_datetime, end_datetime,
			number_of_people, purpose, contact_phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		res.ID, orgID, res.ReservationNumber, res.AssetID, res.ReservedByID,
		res.ReservationType, res.Status, res.StartDatetime, res.EndDatetime,
		res.NumberOfPeople, res.Purpose, res.ContactPhone,
	).Scan(&res.CreatedAt, &res.UpdatedAt)

	if err != nil {
		if isCheckViolation(err) {
			return errors.WrapError(err, errors.ErrBadRequest.Code,
				"end_datetime must be after start_datetime", errors.ErrBadRequest.Status)
		}
		return conflictOn(err, "Reservation number already exists", "Failed to create reservation")
	}

	res.OrgID = orgID
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Reservation, error) {
	query := reservationSelect + ` WHERE r.id = $1 AND r.org_id = $2`

	res, err := scanReservation(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get reservation", errors.ErrInternalServer.Status)
	}

	return res, nil
}

func (r *ReservationRepository) List(ctx context.Context, orgID uuid.UUID, filter *models.ReservationFilter, page, limit int) ([]*models.Reservation, int64, error) {
	where := ` WHERE r.org_id = $1`
	args := []interface{}{orgID}
	argPos := 2

	if filter != nil {
		if filter.Status != nil {
			where += fmt.Sprintf(` AND r.status = $%d`, argPos)
			args = append(args, *filter.Status)
			argPos++
		}
		if filter.AssetID != nil {
			where += fmt.Sprintf(` AND r.asset_id = $%d`, argPos)
			args = append(args, *filter.AssetID)
			argPos++
		}
		if filter.ReservedByID != nil {
			where += fmt.Sprintf(` AND r.reserved_by_id = $%d`, argPos)
			args = append(args, *filter.ReservedByID)
			argPos++
		}
		if filter.From != nil {
			where += fmt.Sprintf(` AND r.end_datetime > $%d`, argPos)
			args = append(args, *filter.From)
			argPos++
		}
		if filter.To != nil {
			where += fmt.Sprintf(` AND r.start_datetime < $%d`, argPos)
			args = append(args, *filter.To)
			argPos++
		}
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM asset_reservations r`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count reservations", errors.ErrInternalServer.Status)
	}

	query := reservationSelect + where +
		fmt.Sprintf(` ORDER BY r.start_datetime LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list reservations", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	reservations := make([]*models.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan reservation", errors.ErrInternalServer.Status)
		}
		reservations = append(reservations, res)
	}

	return reservations, total, nil
}

func (r *ReservationRepository) Update(ctx context.Context, orgID uuid.UUID, res *models.Reservation) error {
	query := `
		UPDATE asset_reservations
		SET start_datetime = COALESCE($1, start_datetime),
			end_datetime = COALESCE($2, end_datetime),
			number_of_people = COALESCE($3, number_of_people),
			purpose = COALESCE($4, purpose),
			contact_phone = COALESCE($5, contact_phone),
			updated_at = NOW()
		WHERE id = $6 AND org_id = $7
		RETURNING start_datetime, end_datetime, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		res.StartDatetime, res.EndDatetime, res.NumberOfPeople,
		res.Purpose, res.ContactPhone, res.ID, orgID,
	).Scan(&res.StartDatetime, &res.EndDatetime, &res.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		if isCheckViolation(err) {
			return errors.WrapError(err, errors.ErrBadRequest.Code,
				"end_datetime must be after start_datetime", errors.ErrBadRequest.Status)
		}
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update reservation", errors.ErrInternalServer.Status)
	}

	return nil
}

// UpdateStatus drives the approval workflow. Approvals record who approved
// and when, rejections record the reason.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, actorID *uuid.UUID, rejectionReason *string) error {
	query := `
		UPDATE asset_reservations
		SET status = $1,
			approved_by_id = CASE WHEN $1 = 'approved' THEN $2 ELSE approved_by_id END,
			approved_at = CASE WHEN $1 = 'approved' THEN NOW() ELSE approved_at END,
			rejection_reason = CASE WHEN $1 = 'rejected' THEN $3 ELSE rejection_reason END,
			updated_at = NOW()
		WHERE id = $4 AND org_id = $5
	`

	result, err := r.db.Pool.Exec(ctx, query, status, actorID, rejectionReason, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update reservation status", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM asset_reservations WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete reservation", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// CompleteExpired moves approved reservations whose end time has passed to
// completed. The scheduler runs it periodically.
func (r *ReservationRepository) CompleteExpired(ctx context.Context) (int64, error) {
	query := `
		UPDATE asset_reservations
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'approved' AND end_datetime <= NOW()
	`

	result, err := r.db.Pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// CountUpcoming feeds the dashboard summary.
func (r *ReservationRepository) CountUpcoming(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM asset_reservations
		WHERE org_id = $1 AND status IN ('pending', 'approved') AND start_datetime > NOW()
	`, orgID).Scan(&count)
	if err != nil {
		return 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count upcoming reservations", errors.ErrInternalServer.Status)
	}
	return count, nil
}
