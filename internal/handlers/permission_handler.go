package handlers

import (
	"net/http"

	"itms-api/internal/repositories"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	permRepo *repositories.PermissionRepository
}

func NewPermissionHandler(permRepo *repositories.PermissionRepository) *PermissionHandler {
	return &PermissionHandler{permRepo: permRepo}
}

func (h *PermissionHandler) List(c *gin.Context) {
	permissions, err := h.permRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list permissions")
		return
	}

	c.JSON(http.StatusOK, permissions)
}
