package handlers

import (
	"net/http"

	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/pkg/errors"
	"itms-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userRepo *repositories.UserRepository
	roleRepo *repositories.RoleRepository
	orgRepo  *repositories.OrganizationRepository
}

func NewUserHandler(userRepo *repositories.UserRepository, roleRepo *repositories.RoleRepository, orgRepo *repositories.OrganizationRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		roleRepo: roleRepo,
		orgRepo:  orgRepo,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	// Non-super-admins always create users in their own org. Super admins
	// must name the target org explicitly.
	isSuperAdmin, _ := c.Get("is_super_admin")
	if isSuperAdmin == nil || !isSuperAdmin.(bool) {
		orgID, ok := orgIDFromContext(c)
		if !ok {
			return
		}
		req.OrgID = &orgID
	} else {
		if req.OrgID == nil {
			c.JSON(http.StatusBadRequest, errors.ErrorResponse{
				Error:   errors.ErrValidation.Code,
				Message: "Organization must be specified. Provide 'org_id' in the request",
			})
			return
		}
		org, err := h.orgRepo.GetByID(c.Request.Context(), *req.OrgID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.ErrorResponse{
				Error:   errors.ErrValidation.Code,
				Message: "Organization not found",
			})
			return
		}
		req.OrgID = &org.ID
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err, "Failed to hash password")
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		OrgID:        req.OrgID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		EmployeeID:   req.EmployeeID,
		Department:   req.Department,
		JobTitle:     req.JobTitle,
		Status:       "active",
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	// Optional role assignment at creation time.
	if req.RoleID != nil || req.RoleName != nil {
		actorID, _ := userIDFromContext(c)
		roleID := req.RoleID
		if roleID == nil {
			role, err := h.roleRepo.GetByName(c.Request.Context(), *req.RoleName, nil)
			if err == nil {
				roleID = &role.ID
			}
		}
		if roleID != nil {
			_ = h.roleRepo.AssignRoleToUser(c.Request.Context(), user.ID, *roleID, actorID, nil)
		}
	}

	user.PasswordHash = ""
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}

	user.PasswordHash = ""

	roles, err := h.userRepo.GetUserRoles(c.Request.Context(), user.ID)
	if err == nil {
		user.Roles = make([]models.Role, len(roles))
		for i, role := range roles {
			user.Roles[i] = *role
		}
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := paginationFromQuery(c)

	var orgID *uuid.UUID
	isSuperAdmin, _ := c.Get("is_super_admin")
	if isSuperAdmin == nil || !isSuperAdmin.(bool) {
		id, ok := orgIDFromContext(c)
		if !ok {
			return
		}
		orgID = &id
	}

	users, total, err := h.userRepo.List(c.Request.Context(), orgID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(users, total, page, limit))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user := &models.User{ID: id}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	user.Phone = req.Phone
	user.EmployeeID = req.EmployeeID
	user.Department = req.Department
	user.JobTitle = req.JobTitle
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		respondError(c, err, "Failed to update user")
		return
	}

	updated, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	updated.PasswordHash = ""

	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	actorID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := h.roleRepo.AssignRoleToUser(c.Request.Context(), id, req.RoleID, actorID, req.ExpiresAt); err != nil {
		respondError(c, err, "Failed to assign role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role assigned"})
}

func (h *UserHandler) RemoveRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}

	if err := h.roleRepo.RemoveRoleFromUser(c.Request.Context(), id, roleID); err != nil {
		respondError(c, err, "Failed to remove role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role removed"})
}
