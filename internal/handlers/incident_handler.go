package handlers

import (
	"net/http"
	"time"

	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IncidentHandler struct {
	incidentRepo *repositories.IncidentRepository
}

func NewIncidentHandler(incidentRepo *repositories.IncidentRepository) *IncidentHandler {
	return &IncidentHandler{incidentRepo: incidentRepo}
}

func (h *IncidentHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	reporterID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	number, err := utils.GenerateRecordNumber(c.Request.Context(), utils.IncidentNumberPrefix, h.incidentRepo.NumberExists)
	if err != nil {
		respondError(c, err, "Failed to generate incident number")
		return
	}

	discoveredAt := time.Now()
	if req.DiscoveredAt != nil {
		discoveredAt = *req.DiscoveredAt
	}

	inc := &models.SecurityIncident{
		ID:             uuid.New(),
		IncidentNumber: number,
		Title:          req.Title,
		Description:    req.Description,
		IncidentType:   req.IncidentType,
		Severity:       req.Severity,
		Status:         models.IncidentStatusReported,
		ReportedByID:   reporterID,
		AssigneeID:     req.AssigneeID,
		DiscoveredAt:   discoveredAt,
	}

	if err := h.incidentRepo.Create(c.Request.Context(), orgID, inc); err != nil {
		respondError(c, err, "Failed to create incident")
		return
	}

	c.JSON(http.StatusCreated, inc)
}

func (h *IncidentHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	inc, err := h.incidentRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get incident")
		return
	}

	c.JSON(http.StatusOK, inc)
}

func (h *IncidentHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	var filter models.IncidentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	incidents, total, err := h.incidentRepo.List(c.Request.Context(), orgID, &filter, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list incidents")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(incidents, total, page, limit))
}

func (h *IncidentHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	inc := &models.SecurityIncident{
		ID:              id,
		AssigneeID:      req.AssigneeID,
		ResolutionNotes: req.ResolutionNotes,
		LessonsLearned:  req.LessonsLearned,
	}
	if req.Title != nil {
		inc.Title = *req.Title
	}
	if req.Description != nil {
		inc.Description = *req.Description
	}
	if req.IncidentType != nil {
		inc.IncidentType = *req.IncidentType
	}
	if req.Severity != nil {
		inc.Severity = *req.Severity
	}

	if err := h.incidentRepo.Update(c.Request.Context(), orgID, inc, req.Status); err != nil {
		respondError(c, err, "Failed to update incident")
		return
	}

	updated, err := h.incidentRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load incident")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *IncidentHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.incidentRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete incident")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Incident deleted"})
}
