package models

import (
	"time"

	"github.com/google/uuid"
)

// Ticket priorities and statuses
const (
	TicketPriorityLow      = "low"
	TicketPriorityMedium   = "medium"
	TicketPriorityHigh     = "high"
	TicketPriorityCritical = "critical"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusPending    = "pending"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// HelpDeskTicket models
type HelpDeskTicket struct {
	ID           uuid.UUID  `json:"id"`
	OrgID        uuid.UUID  `json:"org_id"`
	TicketNumber string     `json:"ticket_number"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	RequesterID  uuid.UUID  `json:"requester_id"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty"`
	AssetID      *uuid.UUID `json:"asset_id,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Resolution   *string    `json:"resolution,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	// Joined fields for display
	RequesterName *string `json:"requester_name,omitempty"`
	AssigneeName  *string `json:"assignee_name,omitempty"`
}

type CreateTicketRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	AssetID     *uuid.UUID `json:"asset_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

type UpdateTicketRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Status      *string    `json:"status" binding:"omitempty,oneof=open in_progress pending resolved closed"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	AssetID     *uuid.UUID `json:"asset_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Resolution  *string    `json:"resolution"`
}

// TicketFilter narrows ticket listings
type TicketFilter struct {
	Status      *string    `form:"status"`
	Priority    *string    `form:"priority"`
	AssigneeID  *uuid.UUID `form:"assignee_id"`
	RequesterID *uuid.UUID `form:"requester_id"`
}
