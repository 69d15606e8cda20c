package handlers

import (
	"net/http"

	"itms-api/internal/models"
	"itms-api/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoleHandler struct {
	roleRepo *repositories.RoleRepository
}

func NewRoleHandler(roleRepo *repositories.RoleRepository) *RoleHandler {
	return &RoleHandler{roleRepo: roleRepo}
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var orgIDPtr *uuid.UUID
	roleType := "org_defined"

	// Super admins may target any org, or omit org_id to create a system
	// role. Everyone else creates roles in their own org.
	isSuperAdmin, _ := c.Get("is_super_admin")
	if isSuperAdmin != nil && isSuperAdmin.(bool) {
		if req.OrgID != nil {
			orgIDPtr = req.OrgID
		} else {
			roleType = "system"
		}
	} else {
		orgID, ok := orgIDFromContext(c)
		if !ok {
			return
		}
		orgIDPtr = &orgID
	}

	isDefault := false
	if req.IsDefault != nil {
		isDefault = *req.IsDefault
	}

	role := &models.Role{
		ID:          uuid.New(),
		OrgID:       orgIDPtr,
		Name:        req.Name,
		Type:        roleType,
		Description: req.Description,
		IsDefault:   isDefault,
		CreatedBy:   &actorID,
	}

	if err := h.roleRepo.Create(c.Request.Context(), role); err != nil {
		respondError(c, err, "Failed to create role")
		return
	}

	if len(req.PermissionIDs) > 0 {
		if err := h.roleRepo.AssignPermissions(c.Request.Context(), role.ID, req.PermissionIDs, actorID); err != nil {
			respondError(c, err, "Role created but permission assignment failed")
			return
		}
	}

	c.JSON(http.StatusCreated, role)
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get role")
		return
	}

	permissions, err := h.roleRepo.GetPermissions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get role permissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role, "permissions": permissions})
}

func (h *RoleHandler) List(c *gin.Context) {
	var orgID *uuid.UUID
	isSuperAdmin, _ := c.Get("is_super_admin")
	if isSuperAdmin == nil || !isSuperAdmin.(bool) {
		id, ok := orgIDFromContext(c)
		if !ok {
			return
		}
		orgID = &id
	}

	roles, err := h.roleRepo.List(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err, "Failed to list roles")
		return
	}

	c.JSON(http.StatusOK, roles)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	role := &models.Role{ID: id, Description: req.Description}
	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.IsDefault != nil {
		role.IsDefault = *req.IsDefault
	}

	if err := h.roleRepo.Update(c.Request.Context(), role); err != nil {
		respondError(c, err, "Failed to update role")
		return
	}

	updated, err := h.roleRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load role")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

type assignPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids" binding:"required"`
}

// AssignPermissions replaces the role's permission set.
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req assignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := h.roleRepo.AssignPermissions(c.Request.Context(), id, req.PermissionIDs, actorID); err != nil {
		respondError(c, err, "Failed to assign permissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permissions assigned"})
}
