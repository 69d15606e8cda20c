package handlers

import (
	"context"
	"net/http"
	"time"

	"itms-api/internal/models"
	"itms-api/internal/services"
	"itms-api/pkg/errors"
	"itms-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// reservationStore is the slice of ReservationRepository this handler needs.
// Tests plug in an in-memory implementation.
type reservationStore interface {
	NumberExists(ctx context.Context, number string) (bool, error)
	HasConflict(ctx context.Context, assetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, orgID uuid.UUID, res *models.Reservation) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Reservation, error)
	List(ctx context.Context, orgID uuid.UUID, filter *models.ReservationFilter, page, limit int) ([]*models.Reservation, int64, error)
	Update(ctx context.Context, orgID uuid.UUID, res *models.Reservation) error
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string, actorID *uuid.UUID, rejectionReason *string) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type ReservationHandler struct {
	reservationRepo reservationStore
	userRepo        userLookup
	mailer          *services.Mailer
}

func NewReservationHandler(reservationRepo reservationStore, userRepo userLookup, mailer *services.Mailer) *ReservationHandler {
	return &ReservationHandler{
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		mailer:          mailer,
	}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	reservedByID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if !req.EndDatetime.After(req.StartDatetime) {
		c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error:   errors.ErrValidation.Code,
			Message: "end_datetime must be after start_datetime",
		})
		return
	}

	conflict, err := h.reservationRepo.HasConflict(c.Request.Context(), req.AssetID, req.StartDatetime, req.EndDatetime, nil)
	if err != nil {
		respondError(c, err, "Failed to check reservation conflict")
		return
	}
	if conflict {
		respondError(c, errors.ErrReservationConflict, "")
		return
	}

	number, err := utils.GenerateRecordNumber(c.Request.Context(), utils.ReservationNumberPrefix, h.reservationRepo.NumberExists)
	if err != nil {
		respondError(c, err, "Failed to generate reservation number")
		return
	}

	res := &models.Reservation{
		ID:                uuid.New(),
		ReservationNumber: number,
		AssetID:           req.AssetID,
		ReservedByID:      reservedByID,
		ReservationType:   req.ReservationType,
		Status:            models.ReservationStatusPending,
		StartDatetime:     req.StartDatetime,
		EndDatetime:       req.EndDatetime,
		NumberOfPeople:    req.NumberOfPeople,
		Purpose:           req.Purpose,
		ContactPhone:      req.ContactPhone,
	}

	if err := h.reservationRepo.Create(c.Request.Context(), orgID, res); err != nil {
		respondError(c, err, "Failed to create reservation")
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ReservationHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get reservation")
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	var filter models.ReservationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	reservations, total, err := h.reservationRepo.List(c.Request.Context(), orgID, &filter, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list reservations")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(reservations, total, page, limit))
}

// Update reschedules or edits a reservation. Moving the time window re-runs
// the conflict check against every other pending or approved reservation on
// the asset.
func (h *ReservationHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	existing, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get reservation")
		return
	}

	start := existing.StartDatetime
	end := existing.EndDatetime
	if req.StartDatetime != nil {
		start = *req.StartDatetime
	}
	if req.EndDatetime != nil {
		end = *req.EndDatetime
	}

	if !end.After(start) {
		c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error:   errors.ErrValidation.Code,
			Message: "end_datetime must be after start_datetime",
		})
		return
	}

	if req.StartDatetime != nil || req.EndDatetime != nil {
		conflict, err := h.reservationRepo.HasConflict(c.Request.Context(), existing.AssetID, start, end, &id)
		if err != nil {
			respondError(c, err, "Failed to check reservation conflict")
			return
		}
		if conflict {
			respondError(c, errors.ErrReservationConflict, "")
			return
		}
	}

	res := &models.Reservation{
		ID:             id,
		StartDatetime:  start,
		EndDatetime:    end,
		NumberOfPeople: req.NumberOfPeople,
		Purpose:        req.Purpose,
		ContactPhone:   req.ContactPhone,
	}

	if err := h.reservationRepo.Update(c.Request.Context(), orgID, res); err != nil {
		respondError(c, err, "Failed to update reservation")
		return
	}

	updated, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load reservation")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Approve moves a pending reservation to approved, rechecking for overlaps
// picked up since the request was filed.
func (h *ReservationHandler) Approve(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	res, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get reservation")
		return
	}

	if res.Status != models.ReservationStatusPending {
		c.JSON(http.StatusConflict, errors.ErrorResponse{
			Error:   errors.ErrConflict.Code,
			Message: "Only pending reservations can be approved",
		})
		return
	}

	conflict, err := h.reservationRepo.HasConflict(c.Request.Context(), res.AssetID, res.StartDatetime, res.EndDatetime, &id)
	if err != nil {
		respondError(c, err, "Failed to check reservation conflict")
		return
	}
	if conflict {
		respondError(c, errors.ErrReservationConflict, "")
		return
	}

	if err := h.reservationRepo.UpdateStatus(c.Request.Context(), orgID, id, models.ReservationStatusApproved, &actorID, nil); err != nil {
		respondError(c, err, "Failed to approve reservation")
		return
	}

	approved, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load reservation")
		return
	}

	if h.mailer != nil {
		if requester, err := h.userRepo.GetByID(c.Request.Context(), approved.ReservedByID); err == nil {
			h.mailer.NotifyReservationApproved(approved, requester.Email)
		}
	}

	c.JSON(http.StatusOK, approved)
}

func (h *ReservationHandler) Reject(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.RejectReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	res, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get reservation")
		return
	}

	if res.Status != models.ReservationStatusPending {
		c.JSON(http.StatusConflict, errors.ErrorResponse{
			Error:   errors.ErrConflict.Code,
			Message: "Only pending reservations can be rejected",
		})
		return
	}

	if err := h.reservationRepo.UpdateStatus(c.Request.Context(), orgID, id, models.ReservationStatusRejected, &actorID, &req.Reason); err != nil {
		respondError(c, err, "Failed to reject reservation")
		return
	}

	rejected, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load reservation")
		return
	}

	c.JSON(http.StatusOK, rejected)
}

// Cancel lets the requester withdraw a reservation that has not finished yet.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	res, err := h.reservationRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get reservation")
		return
	}

	switch res.Status {
	case models.ReservationStatusPending, models.ReservationStatusApproved, models.ReservationStatusActive:
	default:
		c.JSON(http.StatusConflict, errors.ErrorResponse{
			Error:   errors.ErrConflict.Code,
			Message: "Reservation can no longer be cancelled",
		})
		return
	}

	if err := h.reservationRepo.UpdateStatus(c.Request.Context(), orgID, id, models.ReservationStatusCancelled, &actorID, nil); err != nil {
		respondError(c, err, "Failed to cancel reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled"})
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reservationRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted"})
}
