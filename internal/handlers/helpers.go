package handlers

import (
	"net/http"
	"strconv"

	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps an AppError to its status and falls back to a 500.
func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.Status, errors.ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, errors.ErrorResponse{
		Error:   errors.ErrInternalServer.Code,
		Message: fallback,
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errors.ErrorResponse{
		Error:   errors.ErrValidation.Code,
		Message: err.Error(),
	})
}

// orgIDFromContext resolves the caller's organization. Handlers that require
// tenant scope reject requests without one.
func orgIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	orgIDStr, exists := c.Get("org_id")
	if !exists {
		c.JSON(http.StatusForbidden, errors.ErrorResponse{
			Error:   errors.ErrForbidden.Code,
			Message: "Organization context required",
		})
		return uuid.Nil, false
	}

	orgID, err := uuid.Parse(orgIDStr.(string))
	if err != nil {
		c.JSON(http.StatusForbidden, errors.ErrorResponse{
			Error:   errors.ErrForbidden.Code,
			Message: "Invalid organization context",
		})
		return uuid.Nil, false
	}

	return orgID, true
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, errors.ErrorResponse{
			Error:   errors.ErrUnauthorized.Code,
			Message: "User not authenticated",
		})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, errors.ErrorResponse{
			Error:   errors.ErrUnauthorized.Code,
			Message: "Invalid user ID",
		})
		return uuid.Nil, false
	}

	return userID, true
}

// parseIDParam parses a UUID path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error:   errors.ErrValidation.Code,
			Message: "Invalid " + name,
		})
		return uuid.Nil, false
	}
	return id, true
}

func paginationFromQuery(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginatedResponse(data interface{}, total int64, page, limit int) models.PaginatedResponse {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return models.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
