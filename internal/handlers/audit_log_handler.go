package handlers

import (
	"context"
	"net/http"
	"strconv"

	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// auditLogStore is the slice of AuditLogRepository this handler needs. Tests
// plug in an in-memory implementation.
type auditLogStore interface {
	List(ctx context.Context, orgID *uuid.UUID, filter *repositories.AuditLogFilter, page, limit int) ([]*models.AuditLog, int64, error)
	GetByID(ctx context.Context, id int64) (*models.AuditLog, error)
}

type AuditLogHandler struct {
	auditRepo auditLogStore
}

func NewAuditLogHandler(auditRepo auditLogStore) *AuditLogHandler {
	return &AuditLogHandler{auditRepo: auditRepo}
}

func (h *AuditLogHandler) List(c *gin.Context) {
	page, limit := paginationFromQuery(c)

	filter := repositories.AuditLogFilter{}
	if v := c.Query("user_id"); v != "" {
		userID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.ErrorResponse{
				Error:   errors.ErrValidation.Code,
				Message: "Invalid user_id",
			})
			return
		}
		filter.UserID = &userID
	}
	if v := c.Query("action"); v != "" {
		filter.Action = &v
	}
	if v := c.Query("resource_type"); v != "" {
		filter.ResourceType = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}

	var orgID *uuid.UUID
	isSuperAdmin, _ := c.Get("is_super_admin")
	if isSuperAdmin == nil || !isSuperAdmin.(bool) {
		id, ok := orgIDFromContext(c)
		if !ok {
			return
		}
		orgID = &id
	}

	logs, total, err := h.auditRepo.List(c.Request.Context(), orgID, &filter, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(logs, total, page, limit))
}

func (h *AuditLogHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error:   errors.ErrValidation.Code,
			Message: "Invalid audit log ID",
		})
		return
	}

	entry, err := h.auditRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get audit log")
		return
	}

	// Non-super-admins may only read entries from their own org.
	isSuperAdmin, _ := c.Get("is_super_admin")
	if isSuperAdmin == nil || !isSuperAdmin.(bool) {
		orgID, ok := orgIDFromContext(c)
		if !ok {
			return
		}
		if entry.OrgID == nil || *entry.OrgID != orgID {
			c.JSON(http.StatusNotFound, errors.ErrorResponse{
				Error:   errors.ErrNotFound.Code,
				Message: "Audit log not found",
			})
			return
		}
	}

	c.JSON(http.StatusOK, entry)
}
