package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditLogStore struct {
	entries    []*models.AuditLog
	lastFilter *repositories.AuditLogFilter
	lastOrgID  *uuid.UUID
}

func (f *fakeAuditLogStore) List(_ context.Context, orgID *uuid.UUID, filter *repositories.AuditLogFilter, _, _ int) ([]*models.AuditLog, int64, error) {
	f.lastFilter = filter
	f.lastOrgID = orgID

	var out []*models.AuditLog
	for _, entry := range f.entries {
		if orgID != nil && (entry.OrgID == nil || *entry.OrgID != *orgID) {
			continue
		}
		if filter.Action != nil && entry.Action != *filter.Action {
			continue
		}
		out = append(out, entry)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAuditLogStore) GetByID(_ context.Context, id int64) (*models.AuditLog, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, errors.ErrNotFound
}

func newAuditLogTestRouter(store *fakeAuditLogStore, orgID uuid.UUID, superAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuditLogHandler(store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID.String())
		c.Set("is_super_admin", superAdmin)
		c.Next()
	})
	router.GET("/audit-logs", handler.List)
	router.GET("/audit-logs/:id", handler.Get)
	return router
}

func auditEntry(id int64, orgID uuid.UUID, action string) *models.AuditLog {
	resourceType := "assets"
	return &models.AuditLog{
		ID:           id,
		OrgID:        &orgID,
		Action:       action,
		ResourceType: &resourceType,
		Status:       "success",
	}
}

func TestAuditLogListScopesToOrg(t *testing.T) {
	orgID, otherOrg := uuid.New(), uuid.New()
	store := &fakeAuditLogStore{entries: []*models.AuditLog{
		auditEntry(1, orgID, "create"),
		auditEntry(2, otherOrg, "create"),
	}}
	router := newAuditLogTestRouter(store, orgID, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit-logs?action=create", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Total)

	require.NotNil(t, store.lastOrgID)
	assert.Equal(t, orgID, *store.lastOrgID)
	require.NotNil(t, store.lastFilter)
	require.NotNil(t, store.lastFilter.Action)
	assert.Equal(t, "create", *store.lastFilter.Action)
}

func TestAuditLogListSuperAdminUnscoped(t *testing.T) {
	orgID := uuid.New()
	store := &fakeAuditLogStore{entries: []*models.AuditLog{
		auditEntry(1, orgID, "delete"),
		auditEntry(2, uuid.New(), "delete"),
	}}
	router := newAuditLogTestRouter(store, orgID, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit-logs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Nil(t, store.lastOrgID)

	var resp models.PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Total)
}

func TestAuditLogListRejectsBadUserID(t *testing.T) {
	router := newAuditLogTestRouter(&fakeAuditLogStore{}, uuid.New(), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit-logs?user_id=not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogGetHidesForeignOrgEntry(t *testing.T) {
	orgID, otherOrg := uuid.New(), uuid.New()
	store := &fakeAuditLogStore{entries: []*models.AuditLog{
		auditEntry(7, otherOrg, "update"),
	}}
	router := newAuditLogTestRouter(store, orgID, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/audit-logs/%d", 7), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The same entry is visible to a super admin.
	router = newAuditLogTestRouter(store, orgID, true)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/audit-logs/%d", 7), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
