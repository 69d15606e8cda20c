package models

import (
	"time"

	"github.com/google/uuid"
)

// Category models
type Category struct {
	ID          uuid.UUID  `json:"id"`
	OrgID       uuid.UUID  `json:"org_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

type UpdateCategoryRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// Location models
type Location struct {
	ID        uuid.UUID  `json:"id"`
	OrgID     uuid.UUID  `json:"org_id"`
	Name      string     `json:"name"`
	Building  *string    `json:"building,omitempty"`
	Floor     *string    `json:"floor,omitempty"`
	Room      *string    `json:"room,omitempty"`
	Address   *string    `json:"address,omitempty"`
	City      *string    `json:"city,omitempty"`
	Country   *string    `json:"country,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
}

type CreateLocationRequest struct {
	Name     string  `json:"name" binding:"required"`
	Building *string `json:"building"`
	Floor    *string `json:"floor"`
	Room     *string `json:"room"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
}

type UpdateLocationRequest struct {
	Name     *string `json:"name"`
	Building *string `json:"building"`
	Floor    *string `json:"floor"`
	Room     *string `json:"room"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
}

// Vendor models
type Vendor struct {
	ID           uuid.UUID  `json:"id"`
	OrgID        uuid.UUID  `json:"org_id"`
	Name         string     `json:"name"`
	ContactName  *string    `json:"contact_name,omitempty"`
	ContactEmail *string    `json:"contact_email,omitempty"`
	ContactPhone *string    `json:"contact_phone,omitempty"`
	Website      *string    `json:"website,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
}

type CreateVendorRequest struct {
	Name         string  `json:"name" binding:"required"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Website      *string `json:"website"`
	Notes        *string `json:"notes"`
}

type UpdateVendorRequest struct {
	Name         *string `json:"name"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Website      *string `json:"website"`
	Notes        *string `json:"notes"`
}
