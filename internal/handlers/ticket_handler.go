package handlers

import (
	"context"
	"net/http"

	"itms-api/internal/models"
	"itms-api/internal/services"
	"itms-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ticketStore is the slice of TicketRepository this handler needs. Tests
// plug in an in-memory implementation.
type ticketStore interface {
	NumberExists(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, orgID uuid.UUID, ticket *models.HelpDeskTicket) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.HelpDeskTicket, error)
	List(ctx context.Context, orgID uuid.UUID, filter *models.TicketFilter, page, limit int) ([]*models.HelpDeskTicket, int64, error)
	Update(ctx context.Context, orgID uuid.UUID, ticket *models.HelpDeskTicket, status *string) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type userLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type TicketHandler struct {
	ticketRepo ticketStore
	userRepo   userLookup
	mailer     *services.Mailer
}

func NewTicketHandler(ticketRepo ticketStore, userRepo userLookup, mailer *services.Mailer) *TicketHandler {
	return &TicketHandler{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		mailer:     mailer,
	}
}

func (h *TicketHandler) Create(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	requesterID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	number, err := utils.GenerateRecordNumber(c.Request.Context(), utils.TicketNumberPrefix, h.ticketRepo.NumberExists)
	if err != nil {
		respondError(c, err, "Failed to generate ticket number")
		return
	}

	priority := models.TicketPriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	ticket := &models.HelpDeskTicket{
		ID:           uuid.New(),
		TicketNumber: number,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     priority,
		Status:       models.TicketStatusOpen,
		RequesterID:  requesterID,
		AssigneeID:   req.AssigneeID,
		AssetID:      req.AssetID,
		CategoryID:   req.CategoryID,
	}

	if err := h.ticketRepo.Create(c.Request.Context(), orgID, ticket); err != nil {
		respondError(c, err, "Failed to create ticket")
		return
	}

	if h.mailer != nil && ticket.AssigneeID != nil {
		if assignee, err := h.userRepo.GetByID(c.Request.Context(), *ticket.AssigneeID); err == nil {
			h.mailer.NotifyTicketCreated(ticket, assignee.Email)
		}
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) Get(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.ticketRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to get ticket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) List(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, limit := paginationFromQuery(c)

	var filter models.TicketFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondValidationError(c, err)
		return
	}

	tickets, total, err := h.ticketRepo.List(c.Request.Context(), orgID, &filter, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(tickets, total, page, limit))
}

func (h *TicketHandler) Update(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ticket := &models.HelpDeskTicket{
		ID:         id,
		AssigneeID: req.AssigneeID,
		AssetID:    req.AssetID,
		CategoryID: req.CategoryID,
		Resolution: req.Resolution,
	}
	if req.Title != nil {
		ticket.Title = *req.Title
	}
	if req.Description != nil {
		ticket.Description = *req.Description
	}
	if req.Priority != nil {
		ticket.Priority = *req.Priority
	}

	if err := h.ticketRepo.Update(c.Request.Context(), orgID, ticket, req.Status); err != nil {
		respondError(c, err, "Failed to update ticket")
		return
	}

	updated, err := h.ticketRepo.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		respondError(c, err, "Failed to load ticket")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ticketRepo.Delete(c.Request.Context(), orgID, id); err != nil {
		respondError(c, err, "Failed to delete ticket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted"})
}
