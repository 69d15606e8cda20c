package handlers

import (
	"net/http"
	"time"

	"itms-api/internal/models"
	"itms-api/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NetworkHandler struct {
	networkRepo *repositories.NetworkRepository
}

func NewNetworkHandler(networkRepo *repositories.NetworkRepository) *NetworkHandler {
	return &NetworkHandler{networkRepo: networkRepo}
}

func (h *NetworkHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateNetworkDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	status := models.DeviceStatusOffline
	if req.Status != nil {
		status = *req.Status
	}

	dev := &models.NetworkDevice{
		ID:              uuid.New(),
		AssetID:         req.AssetID,
		DeviceType:      req.DeviceType,
		IPAddress:       req.IPAddress,
		MACAddress:      req.MACAddress,
		SubnetMask:      req.SubnetMask,
		Gateway:         req.Gateway,
		VLANID:          req.VLANID,
		PortCount:       req.PortCount,
		FirmwareVersion: req.FirmwareVersion,
		Status:          status,
	}

	if err := h.networkRepo.Create(c.Request.Context(), orgID, dev); err != nil {
		respondError(c, err, "Failed to create network device")
		return
	}

	c.JSON(http.StatusCreated, dev)
}

func (h *NetworkHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dev, err := h.networkRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get network device")
		return
	}

	c.JSON(http.StatusOK, dev)
}

func (h *NetworkHandler) GetByAsset(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	assetID, ok := parseIDParam(c, "asset_id")
	if !ok {
		return
	}

	dev, err := h.networkRepo.GetByAssetID(c.Request.Context(), orgID, assetID)
	if err != nil {
		respondError(c, err, "Failed to get network device")
		return
	}

	c.JSON(http.StatusOK, dev)
}

func (h *NetworkHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	devices, total, err := h.networkRepo.List(c.Request.Context(), orgID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list network devices")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(devices, total, page, limit))
}

func (h *NetworkHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateNetworkDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	dev := &models.NetworkDevice{
		ID:              id,
		IPAddress:       req.IPAddress,
		MACAddress:      req.MACAddress,
		SubnetMask:      req.SubnetMask,
		Gateway:         req.Gateway,
		VLANID:          req.VLANID,
		PortCount:       req.PortCount,
		FirmwareVersion: req.FirmwareVersion,
		LastPingAt:      req.LastPingAt,
		UptimeSeconds:   req.UptimeSeconds,
	}
	if req.DeviceType != nil {
		dev.DeviceType = *req.DeviceType
	}
	if req.Status != nil {
		dev.Status = *req.Status
	}

	if err := h.networkRepo.Update(c.Request.Context(), orgID, dev); err != nil {
		respondError(c, err, "Failed to update network device")
		return
	}

	updated, err := h.networkRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load network device")
		return
	}

	c.JSON(http.StatusOK, updated)
}

type recordPingRequest struct {
	Status        string `json:"status" binding:"required,oneof=online offline maintenance warning critical"`
	UptimeSeconds *int64 `json:"uptime_seconds"`
}

// RecordPing stores the result of a reachability probe against the device.
func (h *NetworkHandler) RecordPing(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req recordPingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	pingedAt := time.Now()
	if err := h.networkRepo.RecordPing(c.Request.Context(), orgID, id, req.Status, pingedAt, req.UptimeSeconds); err != nil {
		respondError(c, err, "Failed to record ping")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ping recorded", "status": req.Status, "pinged_at": pingedAt})
}

func (h *NetworkHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.networkRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete network device")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Network device deleted"})
}
