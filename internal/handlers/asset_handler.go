package handlers

import (
	"net/http"

	"itms-api/internal/models"
	"itms-api/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AssetHandler struct {
	assetRepo *repositories.AssetRepository
}

func NewAssetHandler(assetRepo *repositories.AssetRepository) *AssetHandler {
	return &AssetHandler{assetRepo: assetRepo}
}

func (h *AssetHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	status := models.AssetStatusActive
	if req.Status != nil {
		status = *req.Status
	}

	asset := &models.Asset{
		ID:             uuid.New(),
		AssetTag:       req.AssetTag,
		Name:           req.Name,
		CategoryID:     req.CategoryID,
		SerialNumber:   req.SerialNumber,
		Model:          req.Model,
		Manufacturer:   req.Manufacturer,
		Condition:      req.Condition,
		VendorID:       req.VendorID,
		PurchaseDate:   req.PurchaseDate,
		PurchaseCost:   req.PurchaseCost,
		WarrantyExpiry: req.WarrantyExpiry,
		LocationID:     req.LocationID,
		AssignedToID:   req.AssignedToID,
		Status:         status,
		Notes:          req.Notes,
	}

	if err := h.assetRepo.Create(c.Request.Context(), orgID, asset); err != nil {
		respondError(c, err, "Failed to create asset")
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assetRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	var filter models.AssetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	assets, total, err := h.assetRepo.List(c.Request.Context(), orgID, &filter, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list assets")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(assets, total, page, limit))
}

func (h *AssetHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	asset := &models.Asset{
		ID:             id,
		CategoryID:     req.CategoryID,
		SerialNumber:   req.SerialNumber,
		Model:          req.Model,
		Manufacturer:   req.Manufacturer,
		Condition:      req.Condition,
		VendorID:       req.VendorID,
		PurchaseDate:   req.PurchaseDate,
		PurchaseCost:   req.PurchaseCost,
		WarrantyExpiry: req.WarrantyExpiry,
		LocationID:     req.LocationID,
		AssignedToID:   req.AssignedToID,
		Notes:          req.Notes,
	}
	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Status != nil {
		asset.Status = *req.Status
	}

	if err := h.assetRepo.Update(c.Request.Context(), orgID, asset); err != nil {
		respondError(c, err, "Failed to update asset")
		return
	}

	updated, err := h.assetRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load asset")
		return
	}

	c.JSON(http.StatusOK, updated)
}

type updateAssetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive maintenance retired disposed"`
}

func (h *AssetHandler) UpdateStatus(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateAssetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.assetRepo.UpdateStatus(c.Request.Context(), orgID, id, req.Status); err != nil {
		respondError(c, err, "Failed to update asset status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset status updated", "status": req.Status})
}

func (h *AssetHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assetRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}
