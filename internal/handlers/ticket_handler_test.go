package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicketStore struct {
	tickets map[uuid.UUID]*models.HelpDeskTicket
	numbers map[string]bool
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{
		tickets: make(map[uuid.UUID]*models.HelpDeskTicket),
		numbers: make(map[string]bool),
	}
}

func (f *fakeTicketStore) NumberExists(_ context.Context, number string) (bool, error) {
	return f.numbers[number], nil
}

func (f *fakeTicketStore) Create(_ context.Context, orgID uuid.UUID, ticket *models.HelpDeskTicket) error {
	ticket.OrgID = orgID
	f.tickets[ticket.ID] = ticket
	f.numbers[ticket.TicketNumber] = true
	return nil
}

func (f *fakeTicketStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.HelpDeskTicket, error) {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OrgID != orgID {
		return nil, errors.ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketStore) List(_ context.Context, orgID uuid.UUID, _ *models.TicketFilter, _, _ int) ([]*models.HelpDeskTicket, int64, error) {
	var out []*models.HelpDeskTicket
	for _, ticket := range f.tickets {
		if ticket.OrgID == orgID {
			out = append(out, ticket)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTicketStore) Update(_ context.Context, orgID uuid.UUID, ticket *models.HelpDeskTicket, status *string) error {
	existing, ok := f.tickets[ticket.ID]
	if !ok || existing.OrgID != orgID {
		return errors.ErrNotFound
	}
	if ticket.Title != "" {
		existing.Title = ticket.Title
	}
	if status != nil {
		existing.Status = *status
	}
	return nil
}

func (f *fakeTicketStore) Delete(_ context.Context, orgID, id uuid.UUID) error {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OrgID != orgID {
		return errors.ErrNotFound
	}
	delete(f.tickets, id)
	return nil
}

func newTicketTestRouter(store *fakeTicketStore, orgID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTicketHandler(store, &fakeUserLookup{users: map[uuid.UUID]*models.User{}}, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID.String())
		c.Set("user_id", userID.String())
		c.Next()
	})
	router.POST("/tickets", handler.Create)
	router.PUT("/tickets/:id", handler.Update)
	return router
}

func TestTicketCreate(t *testing.T) {
	store := newFakeTicketStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newTicketTestRouter(store, orgID, userID)

	w := postJSON(t, router, http.MethodPost, "/tickets", models.CreateTicketRequest{
		Title:       "Laptop will not boot",
		Description: "Black screen on power up",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var ticket models.HelpDeskTicket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)
	assert.Equal(t, models.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, userID, ticket.RequesterID)
	assert.Regexp(t, `^TK\d{14}$`, ticket.TicketNumber)
}

func TestTicketNumbersUniqueWithinSameSecond(t *testing.T) {
	store := newFakeTicketStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newTicketTestRouter(store, orgID, userID)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		w := postJSON(t, router, http.MethodPost, "/tickets", models.CreateTicketRequest{
			Title:       fmt.Sprintf("Ticket %d", i),
			Description: "bulk created",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var ticket models.HelpDeskTicket
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
		assert.False(t, seen[ticket.TicketNumber], "duplicate number %s", ticket.TicketNumber)
		seen[ticket.TicketNumber] = true
		assert.Regexp(t, `^TK\d{14}(\d{3})?$`, ticket.TicketNumber)
	}
}

func TestTicketCreateRequiresTitle(t *testing.T) {
	store := newFakeTicketStore()
	router := newTicketTestRouter(store, uuid.New(), uuid.New())

	w := postJSON(t, router, http.MethodPost, "/tickets", models.CreateTicketRequest{
		Description: "no title given",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketStatusUpdate(t *testing.T) {
	store := newFakeTicketStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newTicketTestRouter(store, orgID, userID)

	ticket := &models.HelpDeskTicket{
		ID:          uuid.New(),
		OrgID:       orgID,
		Title:       "Printer jam",
		Status:      models.TicketStatusOpen,
		Priority:    models.TicketPriorityLow,
		RequesterID: userID,
	}
	store.tickets[ticket.ID] = ticket

	resolved := models.TicketStatusResolved
	w := postJSON(t, router, http.MethodPut, fmt.Sprintf("/tickets/%s", ticket.ID), models.UpdateTicketRequest{
		Status: &resolved,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.HelpDeskTicket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.TicketStatusResolved, updated.Status)
}
