package repositories

import (
	"context"
	"fmt"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketSelect = `
	SELECT t.id, t.org_id, t.ticket_number, t.title, t.description,
		t.priority, t.status, t.requester_id, t.assignee_id, t.asset_id,
		t.category_id, t.resolution, t.resolved_at, t.created_at, t.updated_at,
		req.full_name AS requester_name, asg.full_name AS assignee_name
	FROM help_desk_tickets t
	LEFT JOIN users req ON t.requester_id = req.id
	LEFT JOIN users asg ON t.assignee_id = asg.id`

func scanTicket(row pgx.Row) (*models.HelpDeskTicket, error) {
	ticket := &models.HelpDeskTicket{}
	err := row.Scan(
		&ticket.ID, &ticket.OrgID, &ticket.TicketNumber, &ticket.Title,
		&ticket.Description, &ticket.Priority, &ticket.Status,
		&ticket.RequesterID, &ticket.AssigneeID, &ticket.AssetID,
		&ticket.CategoryID, &ticket.Resolution, &ticket.ResolvedAt,
		&ticket.CreatedAt, &ticket.UpdatedAt,
		&ticket.RequesterName, &ticket.AssigneeName,
	)
	return ticket, err
}

// NumberExists reports whether a ticket number is already taken, across all
// organizations since numbers are globally unique.
func (r *TicketRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM help_desk_tickets WHERE ticket_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, errors.WrapError(err, "INTERNAL_ERROR", "Failed to check ticket number", errors.ErrInternalServer.Status)
	}
	return exists, nil
}

func (r *TicketRepository) Create(ctx context.Context, orgID uuid.UUID, ticket *models.HelpDeskTicket) error {
	query := `
		INSERT INTO help_desk_tickets (
			id, org_id, ticket_number, title, description, priority, status,
			requester_id, assignee_id, asset_id, category_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		ticket.ID, orgID, ticket.TicketNumber, ticket.Title, ticket.Description,
		ticket.Priority, ticket.Status, ticket.RequesterID, ticket.AssigneeID,
		ticket.AssetID, ticket.CategoryID,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Ticket number already exists", "Failed to create ticket")
	}

	ticket.OrgID = orgID
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.HelpDeskTicket, error) {
	query := ticketSelect + ` WHERE t.id = $1 AND t.org_id = $2`

	ticket, err := scanTicket(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get ticket", errors.ErrInternalServer.Status)
	}

	return ticket, nil
}

func (r *TicketRepository) List(ctx context.Context, orgID uuid.UUID, filter *models.TicketFilter, page, limit int) ([]*models.HelpDeskTicket, int64, error) {
	where := ` WHERE t.org_id = $1`
	args := []interface{}{orgID}
	argPos := 2

	if filter != nil {
		if filter.Status != nil {
			where += fmt.Sprintf(` AND t.status = $%d`, argPos)
			args = append(args, *filter.Status)
			argPos++
		}
		if filter.Priority != nil {
			where += fmt.Sprintf(` AND t.priority = $%d`, argPos)
			args = append(args, *filter.Priority)
			argPos++
		}
		if filter.AssigneeID != nil {
			where += fmt.Sprintf(` AND t.assignee_id = $%d`, argPos)
			args = append(args, *filter.AssigneeID)
			argPos++
		}
		if filter.RequesterID != nil {
			where += fmt.Sprintf(` AND t.requester_id = $%d`, argPos)
			args = append(args, *filter.RequesterID)
			argPos++
		}
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM help_desk_tickets t`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count tickets", errors.ErrInternalServer.Status)
	}

	query := ticketSelect + where +
		fmt.Sprintf(` ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list tickets", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	tickets := make([]*models.HelpDeskTicket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan ticket", errors.ErrInternalServer.Status)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, total, nil
}

// Update applies partial changes. resolved_at is stamped the first time the
// status moves to resolved or closed and left untouched afterwards.
func (r *TicketRepository) Update(ctx context.Context, orgID uuid.UUID, ticket *models.HelpDeskTicket, status *string) error {
	query := `
		UPDATE help_desk_tickets
		SET title = COALESCE(NULLIF($1, ''), title),
			description = COALESCE(NULLIF($2, ''), description),
			priority = COALESCE(NULLIF($3, ''), priority),
			status = COALESCE($4, status),
			assignee_id = COALESCE($5, assignee_id),
			asset_id = COALESCE($6, asset_id),
			category_id = COALESCE($7, category_id),
			resolution = COALESCE($8, resolution),
			resolved_at = CASE
				WHEN resolved_at IS NULL AND COALESCE($4, status) IN ('resolved', 'closed') THEN NOW()
				ELSE resolved_at
			END,
			updated_at = NOW()
		WHERE id = $9 AND org_id = $10
		RETURNING status, resolved_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		ticket.Title, ticket.Description, ticket.Priority, status,
		ticket.AssigneeID, ticket.AssetID, ticket.CategoryID, ticket.Resolution,
		ticket.ID, orgID,
	).Scan(&ticket.Status, &ticket.ResolvedAt, &ticket.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update ticket", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM help_desk_tickets WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete ticket", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// CountOpenByPriority feeds the dashboard summary. Open here means any
// status that is not resolved or closed.
func (r *TicketRepository) CountOpenByPriority(ctx context.Context, orgID uuid.UUID) (map[string]int64, error) {
	query := `
		SELECT priority, COUNT(*)
		FROM help_desk_tickets
		WHERE org_id = $1 AND status NOT IN ('resolved', 'closed')
		GROUP BY priority
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count tickets by priority", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var priority string
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan ticket count", errors.ErrInternalServer.Status)
		}
		counts[priority] = count
	}

	return counts, nil
}
