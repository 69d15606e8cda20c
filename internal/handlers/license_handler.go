package handlers

import (
	"context"
	"net/http"

	"itms-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// licenseStore is the slice of LicenseRepository this handler needs. Tests
// plug in an in-memory implementation.
type licenseStore interface {
	Create(ctx context.Context, orgID uuid.UUID, lic *models.SoftwareLicense) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.SoftwareLicense, error)
	List(ctx context.Context, orgID uuid.UUID, page, limit int) ([]*models.SoftwareLicense, int64, error)
	Update(ctx context.Context, orgID uuid.UUID, lic *models.SoftwareLicense, maxInstallations *int) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	InstallOnAsset(ctx context.Context, orgID, licenseID uuid.UUID, install *models.SoftwareInstallation) error
	RemoveInstallation(ctx context.Context, orgID, licenseID, installationID uuid.UUID) error
	ListInstallations(ctx context.Context, orgID, licenseID uuid.UUID) ([]*models.SoftwareInstallation, error)
}

type LicenseHandler struct {
	licenseRepo licenseStore
}

func NewLicenseHandler(licenseRepo licenseStore) *LicenseHandler {
	return &LicenseHandler{licenseRepo: licenseRepo}
}

func (h *LicenseHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateSoftwareLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	lic := &models.SoftwareLicense{
		ID:               uuid.New(),
		Name:             req.Name,
		Version:          req.Version,
		VendorID:         req.VendorID,
		LicenseKey:       req.LicenseKey,
		LicenseType:      req.LicenseType,
		PurchaseDate:     req.PurchaseDate,
		ExpiryDate:       req.ExpiryDate,
		Cost:             req.Cost,
		MaxInstallations: req.MaxInstallations,
		Notes:            req.Notes,
	}

	if err := h.licenseRepo.Create(c.Request.Context(), orgID, lic); err != nil {
		respondError(c, err, "Failed to create license")
		return
	}

	c.JSON(http.StatusCreated, lic)
}

func (h *LicenseHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lic, err := h.licenseRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get license")
		return
	}

	c.JSON(http.StatusOK, lic)
}

func (h *LicenseHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	licenses, total, err := h.licenseRepo.List(c.Request.Context(), orgID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list licenses")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(licenses, total, page, limit))
}

func (h *LicenseHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateSoftwareLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	lic := &models.SoftwareLicense{
		ID:           id,
		Version:      req.Version,
		VendorID:     req.VendorID,
		LicenseKey:   req.LicenseKey,
		PurchaseDate: req.PurchaseDate,
		ExpiryDate:   req.ExpiryDate,
		Cost:         req.Cost,
		Notes:        req.Notes,
	}
	if req.Name != nil {
		lic.Name = *req.Name
	}
	if req.LicenseType != nil {
		lic.LicenseType = *req.LicenseType
	}

	if err := h.licenseRepo.Update(c.Request.Context(), orgID, lic, req.MaxInstallations); err != nil {
		respondError(c, err, "Failed to update license")
		return
	}

	updated, err := h.licenseRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load license")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *LicenseHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.licenseRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete license")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "License deleted"})
}

// Install records a new installation of the license on an asset. Fails with a
// conflict when every seat is taken.
func (h *LicenseHandler) Install(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	licenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateInstallationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, _ := userIDFromContext(c)
	install := &models.SoftwareInstallation{
		ID:            uuid.New(),
		AssetID:       req.AssetID,
		InstalledByID: &actorID,
		Notes:         req.Notes,
	}

	if err := h.licenseRepo.InstallOnAsset(c.Request.Context(), orgID, licenseID, install); err != nil {
		respondError(c, err, "Failed to record installation")
		return
	}

	c.JSON(http.StatusCreated, install)
}

func (h *LicenseHandler) Uninstall(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	licenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	installationID, ok := parseIDParam(c, "installation_id")
	if !ok {
		return
	}

	if err := h.licenseRepo.RemoveInstallation(c.Request.Context(), orgID, licenseID, installationID); err != nil {
		respondError(c, err, "Failed to remove installation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Installation removed"})
}

func (h *LicenseHandler) ListInstallations(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	licenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	installs, err := h.licenseRepo.ListInstallations(c.Request.Context(), orgID, licenseID)
	if err != nil {
		respondError(c, err, "Failed to list installations")
		return
	}

	c.JSON(http.StatusOK, installs)
}
