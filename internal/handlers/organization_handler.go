package handlers

import (
	"net/http"

	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrganizationHandler struct {
	orgRepo *repositories.OrganizationRepository
}

func NewOrganizationHandler(orgRepo *repositories.OrganizationRepository) *OrganizationHandler {
	return &OrganizationHandler{orgRepo: orgRepo}
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	var req models.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	timezone := "UTC"
	if req.Timezone != nil {
		timezone = *req.Timezone
	}

	org := &models.Organization{
		ID:                  uuid.New(),
		Name:                req.Name,
		Slug:                utils.Slugify(req.Name),
		Website:             req.Website,
		AddressLine1:        req.AddressLine1,
		City:                req.City,
		Country:             req.Country,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactEmail: req.PrimaryContactEmail,
		Timezone:            timezone,
		Status:              "active",
		CreatedBy:           &actorID,
	}

	if err := h.orgRepo.Create(c.Request.Context(), org); err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, org)
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	org, err := h.orgRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get organization")
		return
	}

	c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) List(c *gin.Context) {
	page, limit := paginationFromQuery(c)

	orgs, total, err := h.orgRepo.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err, "Failed to list organizations")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(orgs, total, page, limit))
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	org := &models.Organization{
		ID:                  id,
		Website:             req.Website,
		AddressLine1:        req.AddressLine1,
		City:                req.City,
		Country:             req.Country,
		PrimaryContactName:  req.PrimaryContactName,
		PrimaryContactEmail: req.PrimaryContactEmail,
	}
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Timezone != nil {
		org.Timezone = *req.Timezone
	}
	if req.Status != nil {
		org.Status = *req.Status
	}

	if err := h.orgRepo.Update(c.Request.Context(), org); err != nil {
		respondError(c, err, "Failed to update organization")
		return
	}

	updated, err := h.orgRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load organization")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orgRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete organization")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Organization deleted"})
}
