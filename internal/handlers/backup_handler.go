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

type BackupHandler struct {
	backupRepo *repositories.BackupRepository
}

func NewBackupHandler(backupRepo *repositories.BackupRepository) *BackupHandler {
	return &BackupHandler{backupRepo: backupRepo}
}

// Policies

func (h *BackupHandler) CreatePolicy(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateBackupPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	policy := &models.BackupPolicy{
		ID:            uuid.New(),
		Name:          req.Name,
		BackupType:    req.BackupType,
		Frequency:     req.Frequency,
		RetentionDays: req.RetentionDays,
		Location:      req.Location,
		IsActive:      isActive,
	}

	if err := h.backupRepo.CreatePolicy(c.Request.Context(), orgID, policy); err != nil {
		respondError(c, err, "Failed to create backup policy")
		return
	}

	c.JSON(http.StatusCreated, policy)
}

func (h *BackupHandler) GetPolicy(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	policy, err := h.backupRepo.GetPolicy(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get backup policy")
		return
	}

	c.JSON(http.StatusOK, policy)
}

func (h *BackupHandler) ListPolicies(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	policies, err := h.backupRepo.ListPolicies(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err, "Failed to list backup policies")
		return
	}

	c.JSON(http.StatusOK, policies)
}

func (h *BackupHandler) UpdatePolicy(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBackupPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	policy := &models.BackupPolicy{ID: id, Location: req.Location}
	if req.Name != nil {
		policy.Name = *req.Name
	}
	if req.BackupType != nil {
		policy.BackupType = *req.BackupType
	}
	if req.Frequency != nil {
		policy.Frequency = *req.Frequency
	}
	if req.RetentionDays != nil {
		policy.RetentionDays = *req.RetentionDays
	}

	if err := h.backupRepo.UpdatePolicy(c.Request.Context(), orgID, policy, req.IsActive); err != nil {
		respondError(c, err, "Failed to update backup policy")
		return
	}

	updated, err := h.backupRepo.GetPolicy(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load backup policy")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *BackupHandler) DeletePolicy(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.backupRepo.DeletePolicy(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete backup policy")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backup policy deleted"})
}

// Jobs

func (h *BackupHandler) CreateJob(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateBackupJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	number, err := utils.GenerateRecordNumber(c.Request.Context(), utils.BackupJobNumberPrefix, h.backupRepo.JobNumberExists)
	if err != nil {
		respondError(c, err, "Failed to generate job number")
		return
	}

	job := &models.BackupJob{
		ID:        uuid.New(),
		JobNumber: number,
		PolicyID:  req.PolicyID,
		AssetID:   req.AssetID,
		Status:    models.BackupJobStatusScheduled,
	}

	if err := h.backupRepo.CreateJob(c.Request.Context(), orgID, job); err != nil {
		respondError(c, err, "Failed to create backup job")
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *BackupHandler) GetJob(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.backupRepo.GetJob(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get backup job")
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *BackupHandler) ListJobs(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	var policyID *uuid.UUID
	if v := c.Query("policy_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.ErrorResponse{
				Error:   errors.ErrValidation.Code,
				Message: "Invalid policy_id",
			})
			return
		}
		policyID = &id
	}

	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}

	jobs, total, err := h.backupRepo.ListJobs(c.Request.Context(), orgID, policyID, status, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list backup jobs")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(jobs, total, page, limit))
}

func (h *BackupHandler) UpdateJob(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBackupJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	job := &models.BackupJob{
		ID:                 id,
		StartedAt:          req.StartedAt,
		CompletedAt:        req.CompletedAt,
		SizeBytes:          req.SizeBytes,
		VerificationStatus: req.VerificationStatus,
		ErrorMessage:       req.ErrorMessage,
	}

	if err := h.backupRepo.UpdateJob(c.Request.Context(), orgID, job, req.Status); err != nil {
		respondError(c, err, "Failed to update backup job")
		return
	}

	updated, err := h.backupRepo.GetJob(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load backup job")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *BackupHandler) DeleteJob(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.backupRepo.DeleteJob(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete backup job")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backup job deleted"})
}
