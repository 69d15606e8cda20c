package handlers

import (
	"context"
	"net/http"
	"time"

	"itms-api/internal/models"
	"itms-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// vulnerabilityStore is the slice of VulnerabilityRepository this handler
// needs. Tests plug in an in-memory implementation.
type vulnerabilityStore interface {
	NumberExists(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, orgID uuid.UUID, vuln *models.VulnerabilityAssessment) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.VulnerabilityAssessment, error)
	List(ctx context.Context, orgID uuid.UUID, filter *models.VulnerabilityFilter, page, limit int) ([]*models.VulnerabilityAssessment, int64, error)
	Update(ctx context.Context, orgID uuid.UUID, vuln *models.VulnerabilityAssessment, status *string) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	SetAffectedAssets(ctx context.Context, orgID, vulnID uuid.UUID, assetIDs []uuid.UUID) error
}

type VulnerabilityHandler struct {
	vulnRepo vulnerabilityStore
}

func NewVulnerabilityHandler(vulnRepo vulnerabilityStore) *VulnerabilityHandler {
	return &VulnerabilityHandler{vulnRepo: vulnRepo}
}

func (h *VulnerabilityHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	discovererID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateVulnerabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	number, err := utils.GenerateRecordNumber(c.Request.Context(), utils.VulnerabilityNumberPrefix, h.vulnRepo.NumberExists)
	if err != nil {
		respondError(c, err, "Failed to generate vulnerability number")
		return
	}

	discoveredAt := time.Now()
	if req.DiscoveredAt != nil {
		discoveredAt = *req.DiscoveredAt
	}

	vuln := &models.VulnerabilityAssessment{
		ID:                  uuid.New(),
		VulnerabilityNumber: number,
		Title:               req.Title,
		Description:         req.Description,
		CVEID:               req.CVEID,
		RiskLevel:           req.RiskLevel,
		Status:              models.VulnerabilityStatusIdentified,
		DiscoveryMethod:     req.DiscoveryMethod,
		DiscoveredByID:      discovererID,
		AssigneeID:          req.AssigneeID,
		DiscoveredAt:        discoveredAt,
		TargetFixDate:       req.TargetFixDate,
		AffectedAssetIDs:    req.AffectedAssetIDs,
	}

	if err := h.vulnRepo.Create(c.Request.Context(), orgID, vuln); err != nil {
		respondError(c, err, "Failed to create vulnerability")
		return
	}

	c.JSON(http.StatusCreated, vuln)
}

func (h *VulnerabilityHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vuln, err := h.vulnRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get vulnerability")
		return
	}

	c.JSON(http.StatusOK, vuln)
}

func (h *VulnerabilityHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	var filter models.VulnerabilityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	vulns, total, err := h.vulnRepo.List(c.Request.Context(), orgID, &filter, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list vulnerabilities")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(vulns, total, page, limit))
}

func (h *VulnerabilityHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateVulnerabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	vuln := &models.VulnerabilityAssessment{
		ID:                id,
		CVEID:             req.CVEID,
		DiscoveryMethod:   req.DiscoveryMethod,
		AssigneeID:        req.AssigneeID,
		TargetFixDate:     req.TargetFixDate,
		RemediationNotes:  req.RemediationNotes,
		VerificationNotes: req.VerificationNotes,
	}
	if req.Title != nil {
		vuln.Title = *req.Title
	}
	if req.Description != nil {
		vuln.Description = *req.Description
	}
	if req.RiskLevel != nil {
		vuln.RiskLevel = *req.RiskLevel
	}

	if err := h.vulnRepo.Update(c.Request.Context(), orgID, vuln, req.Status); err != nil {
		respondError(c, err, "Failed to update vulnerability")
		return
	}

	// A nil slice means the affected-asset list was not part of the request.
	if req.AffectedAssetIDs != nil {
		if err := h.vulnRepo.SetAffectedAssets(c.Request.Context(), orgID, id, req.AffectedAssetIDs); err != nil {
			respondError(c, err, "Failed to update affected assets")
			return
		}
	}

	updated, err := h.vulnRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load vulnerability")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *VulnerabilityHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.vulnRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete vulnerability")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vulnerability deleted"})
}
