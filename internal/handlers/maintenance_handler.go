package handlers

import (
	"net/http"
	"time"

	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MaintenanceHandler struct {
	maintenanceRepo *repositories.MaintenanceRepository
}

func NewMaintenanceHandler(maintenanceRepo *repositories.MaintenanceRepository) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceRepo: maintenanceRepo}
}

func (h *MaintenanceHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateMaintenanceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	performedDate := time.Now()
	if req.PerformedDate != nil {
		performedDate = *req.PerformedDate
	}

	rec := &models.MaintenanceRecord{
		ID:              uuid.New(),
		AssetID:         req.AssetID,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
		PerformedByID:   req.PerformedByID,
		PerformedDate:   performedDate,
		Cost:            req.Cost,
		VendorID:        req.VendorID,
		Notes:           req.Notes,
	}

	if err := h.maintenanceRepo.Create(c.Request.Context(), orgID, rec); err != nil {
		respondError(c, err, "Failed to create maintenance record")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.maintenanceRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get maintenance record")
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	var assetID *uuid.UUID
	if v := c.Query("asset_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.ErrorResponse{
				Error:   errors.ErrValidation.Code,
				Message: "Invalid asset_id",
			})
			return
		}
		assetID = &id
	}

	records, total, err := h.maintenanceRepo.List(c.Request.Context(), orgID, assetID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list maintenance records")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(records, total, page, limit))
}

func (h *MaintenanceHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateMaintenanceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	rec := &models.MaintenanceRecord{
		ID:            id,
		PerformedByID: req.PerformedByID,
		Cost:          req.Cost,
		VendorID:      req.VendorID,
		Notes:         req.Notes,
	}
	if req.MaintenanceType != nil {
		rec.MaintenanceType = *req.MaintenanceType
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}

	if err := h.maintenanceRepo.Update(c.Request.Context(), orgID, rec, req.PerformedDate); err != nil {
		respondError(c, err, "Failed to update maintenance record")
		return
	}

	updated, err := h.maintenanceRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load maintenance record")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *MaintenanceHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.maintenanceRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete maintenance record")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance record deleted"})
}
