package handlers

import (
	"net/http"

	"itms-api/internal/models"
	"itms-api/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler serves the reference data endpoints: asset categories,
// locations and vendors.
type CatalogHandler struct {
	catalogRepo *repositories.CatalogRepository
}

func NewCatalogHandler(catalogRepo *repositories.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalogRepo: catalogRepo}
}

// Categories

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, _ := userIDFromContext(c)
	cat := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		CreatedBy:   &actorID,
	}

	if err := h.catalogRepo.CreateCategory(c.Request.Context(), orgID, cat); err != nil {
		respondError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cat, err := h.catalogRepo.GetCategory(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get category")
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	categories, err := h.catalogRepo.ListCategories(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	cat := &models.Category{ID: id, Description: req.Description, ParentID: req.ParentID}
	if req.Name != nil {
		cat.Name = *req.Name
	}

	if err := h.catalogRepo.UpdateCategory(c.Request.Context(), orgID, cat); err != nil {
		respondError(c, err, "Failed to update category")
		return
	}

	updated, err := h.catalogRepo.GetCategory(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load category")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogRepo.DeleteCategory(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// Locations

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, _ := userIDFromContext(c)
	loc := &models.Location{
		ID:        uuid.New(),
		Name:      req.Name,
		Building:  req.Building,
		Floor:     req.Floor,
		Room:      req.Room,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		CreatedBy: &actorID,
	}

	if err := h.catalogRepo.CreateLocation(c.Request.Context(), orgID, loc); err != nil {
		respondError(c, err, "Failed to create location")
		return
	}

	c.JSON(http.StatusCreated, loc)
}

func (h *CatalogHandler) GetLocation(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loc, err := h.catalogRepo.GetLocation(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get location")
		return
	}

	c.JSON(http.StatusOK, loc)
}

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	locations, err := h.catalogRepo.ListLocations(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err, "Failed to list locations")
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *CatalogHandler) UpdateLocation(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	loc := &models.Location{
		ID:       id,
		Building: req.Building,
		Floor:    req.Floor,
		Room:     req.Room,
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
	}
	if req.Name != nil {
		loc.Name = *req.Name
	}

	if err := h.catalogRepo.UpdateLocation(c.Request.Context(), orgID, loc); err != nil {
		respondError(c, err, "Failed to update location")
		return
	}

	updated, err := h.catalogRepo.GetLocation(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load location")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteLocation(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogRepo.DeleteLocation(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete location")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted"})
}

// Vendors

func (h *CatalogHandler) CreateVendor(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, _ := userIDFromContext(c)
	vendor := &models.Vendor{
		ID:           uuid.New(),
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Website:      req.Website,
		Notes:        req.Notes,
		CreatedBy:    &actorID,
	}

	if err := h.catalogRepo.CreateVendor(c.Request.Context(), orgID, vendor); err != nil {
		respondError(c, err, "Failed to create vendor")
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

func (h *CatalogHandler) GetVendor(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.catalogRepo.GetVendor(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get vendor")
		return
	}

	c.JSON(http.StatusOK, vendor)
}

func (h *CatalogHandler) ListVendors(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	vendors, err := h.catalogRepo.ListVendors(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err, "Failed to list vendors")
		return
	}

	c.JSON(http.StatusOK, vendors)
}

func (h *CatalogHandler) UpdateVendor(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	vendor := &models.Vendor{
		ID:           id,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Website:      req.Website,
		Notes:        req.Notes,
	}
	if req.Name != nil {
		vendor.Name = *req.Name
	}

	if err := h.catalogRepo.UpdateVendor(c.Request.Context(), orgID, vendor); err != nil {
		respondError(c, err, "Failed to update vendor")
		return
	}

	updated, err := h.catalogRepo.GetVendor(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load vendor")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteVendor(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogRepo.DeleteVendor(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete vendor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted"})
}
