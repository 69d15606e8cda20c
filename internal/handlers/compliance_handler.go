package handlers

import (
	"net/http"

	"itms-api/internal/models"
	"itms-api/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComplianceHandler struct {
	complianceRepo *repositories.ComplianceRepository
}

func NewComplianceHandler(complianceRepo *repositories.ComplianceRepository) *ComplianceHandler {
	return &ComplianceHandler{complianceRepo: complianceRepo}
}

// Frameworks

func (h *ComplianceHandler) CreateFramework(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateComplianceFrameworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	fw := &models.ComplianceFramework{
		ID:                  uuid.New(),
		Name:                req.Name,
		Version:             req.Version,
		Description:         req.Description,
		EffectiveDate:       req.EffectiveDate,
		ReviewFrequency:     req.ReviewFrequency,
		ResponsiblePersonID: req.ResponsiblePersonID,
	}

	if err := h.complianceRepo.CreateFramework(c.Request.Context(), orgID, fw); err != nil {
		respondError(c, err, "Failed to create framework")
		return
	}

	c.JSON(http.StatusCreated, fw)
}

func (h *ComplianceHandler) GetFramework(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fw, err := h.complianceRepo.GetFramework(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get framework")
		return
	}

	c.JSON(http.StatusOK, fw)
}

func (h *ComplianceHandler) ListFrameworks(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	frameworks, err := h.complianceRepo.ListFrameworks(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err, "Failed to list frameworks")
		return
	}

	c.JSON(http.StatusOK, frameworks)
}

func (h *ComplianceHandler) UpdateFramework(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateComplianceFrameworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	fw := &models.ComplianceFramework{
		ID:                  id,
		Version:             req.Version,
		Description:         req.Description,
		EffectiveDate:       req.EffectiveDate,
		ReviewFrequency:     req.ReviewFrequency,
		ResponsiblePersonID: req.ResponsiblePersonID,
	}
	if req.Name != nil {
		fw.Name = *req.Name
	}

	if err := h.complianceRepo.UpdateFramework(c.Request.Context(), orgID, fw); err != nil {
		respondError(c, err, "Failed to update framework")
		return
	}

	updated, err := h.complianceRepo.GetFramework(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load framework")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ComplianceHandler) DeleteFramework(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.complianceRepo.DeleteFramework(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete framework")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Framework deleted"})
}

// Requirements. Every route goes through the parent framework, which is
// where the org check happens.

func (h *ComplianceHandler) frameworkID(c *gin.Context) (uuid.UUID, bool) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	frameworkID, ok := parseIDParam(c, "id")
	if !ok {
		return uuid.Nil, false
	}

	if _, err := h.complianceRepo.GetFramework(c.Request.Context(), orgID, frameworkID); err != nil {
		respondError(c, err, "Failed to get framework")
		return uuid.Nil, false
	}

	return frameworkID, true
}

func (h *ComplianceHandler) CreateRequirement(c *gin.Context) {
	frameworkID, ok := h.frameworkID(c)
	if !ok {
		return
	}

	var req models.CreateComplianceRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	status := models.ComplianceStatusNotAssessed
	if req.Status != nil {
		status = *req.Status
	}

	requirement := &models.ComplianceRequirement{
		ID:          uuid.New(),
		FrameworkID: frameworkID,
		ControlID:   req.ControlID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
	}

	if err := h.complianceRepo.CreateRequirement(c.Request.Context(), requirement); err != nil {
		respondError(c, err, "Failed to create requirement")
		return
	}

	c.JSON(http.StatusCreated, requirement)
}

func (h *ComplianceHandler) GetRequirement(c *gin.Context) {
	frameworkID, ok := h.frameworkID(c)
	if !ok {
		return
	}
	requirementID, ok := parseIDParam(c, "requirement_id")
	if !ok {
		return
	}

	requirement, err := h.complianceRepo.GetRequirement(c.Request.Context(), frameworkID, requirementID)
	if err != nil {
		respondError(c, err, "Failed to get requirement")
		return
	}

	c.JSON(http.StatusOK, requirement)
}

func (h *ComplianceHandler) ListRequirements(c *gin.Context) {
	frameworkID, ok := h.frameworkID(c)
	if !ok {
		return
	}

	requirements, err := h.complianceRepo.ListRequirements(c.Request.Context(), frameworkID)
	if err != nil {
		respondError(c, err, "Failed to list requirements")
		return
	}

	c.JSON(http.StatusOK, requirements)
}

func (h *ComplianceHandler) UpdateRequirement(c *gin.Context) {
	frameworkID, ok := h.frameworkID(c)
	if !ok {
		return
	}
	requirementID, ok := parseIDParam(c, "requirement_id")
	if !ok {
		return
	}

	var req models.UpdateComplianceRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	requirement := &models.ComplianceRequirement{
		ID:              requirementID,
		Description:     req.Description,
		LastAssessedAt:  req.LastAssessedAt,
		NextAssessment:  req.NextAssessment,
		AssessmentNotes: req.AssessmentNotes,
		RemediationPlan: req.RemediationPlan,
	}
	if req.Title != nil {
		requirement.Title = *req.Title
	}
	if req.Status != nil {
		requirement.Status = *req.Status
	}

	if err := h.complianceRepo.UpdateRequirement(c.Request.Context(), frameworkID, requirement); err != nil {
		respondError(c, err, "Failed to update requirement")
		return
	}

	updated, err := h.complianceRepo.GetRequirement(c.Request.Context(), frameworkID, requirementID)
	if err != nil {
		respondError(c, err, "Failed to load requirement")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ComplianceHandler) DeleteRequirement(c *gin.Context) {
	frameworkID, ok := h.frameworkID(c)
	if !ok {
		return
	}
	requirementID, ok := parseIDParam(c, "requirement_id")
	if !ok {
		return
	}

	if err := h.complianceRepo.DeleteRequirement(c.Request.Context(), frameworkID, requirementID); err != nil {
		respondError(c, err, "Failed to delete requirement")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Requirement deleted"})
}
