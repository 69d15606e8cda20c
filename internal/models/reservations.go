package models

import (
	"time"

	"github.com/google/uuid"
)

// Reservation types and statuses
const (
	ReservationTypeMeetingRoom = "meeting_room"
	ReservationTypeVehicle     = "vehicle"
	ReservationTypeEquipment   = "equipment"
	ReservationTypeOther       = "other"

	ReservationStatusPending   = "pending"
	ReservationStatusApproved  = "approved"
	ReservationStatusRejected  = "rejected"
	ReservationStatusActive    = "active"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
)

// Reservation models
type Reservation struct {
	ID                uuid.UUID  `json:"id"`
	OrgID             uuid.UUID  `json:"org_id"`
	ReservationNumber string     `json:"reservation_number"`
	AssetID           uuid.UUID  `json:"asset_id"`
	ReservedByID      uuid.UUID  `json:"reserved_by_id"`
	ReservationType   string     `json:"reservation_type"`
	Status            string     `json:"status"`
	StartDatetime     time.Time  `json:"start_datetime"`
	EndDatetime       time.Time  `json:"end_datetime"`
	NumberOfPeople    *int       `json:"number_of_people,omitempty"`
	Purpose           *string    `json:"purpose,omitempty"`
	ContactPhone      *string    `json:"contact_phone,omitempty"`
	ApprovedByID      *uuid.UUID `json:"approved_by_id,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	// Joined fields for display
	AssetName      *string `json:"asset_name,omitempty"`
	ReservedByName *string `json:"reserved_by_name,omitempty"`
}

type CreateReservationRequest struct {
	AssetID         uuid.UUID `json:"asset_id" binding:"required"`
	ReservationType string    `json:"reservation_type" binding:"required,oneof=meeting_room vehicle equipment other"`
	StartDatetime   time.Time `json:"start_datetime" binding:"required"`
	EndDatetime     time.Time `json:"end_datetime" binding:"required"`
	NumberOfPeople  *int      `json:"number_of_people" binding:"omitempty,min=1"`
	Purpose         *string   `json:"purpose"`
	ContactPhone    *string   `json:"contact_phone"`
}

type UpdateReservationRequest struct {
	StartDatetime  *time.Time `json:"start_datetime"`
	EndDatetime    *time.Time `json:"end_datetime"`
	NumberOfPeople *int       `json:"number_of_people" binding:"omitempty,min=1"`
	Purpose        *string    `json:"purpose"`
	ContactPhone   *string    `json:"contact_phone"`
}

type RejectReservationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReservationFilter narrows reservation listings
type ReservationFilter struct {
	Status       *string    `form:"status"`
	AssetID      *uuid.UUID `form:"asset_id"`
	ReservedByID *uuid.UUID `form:"reserved_by_id"`
	From         *time.Time `form:"from"`
	To           *time.Time `form:"to"`
}
