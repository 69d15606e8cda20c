package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"itms-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditStore struct {
	entries chan *models.AuditLog
}

func newFakeAuditStore() *fakeAuditStore {
	return &fakeAuditStore{entries: make(chan *models.AuditLog, 8)}
}

func (f *fakeAuditStore) Create(_ context.Context, entry *models.AuditLog) error {
	f.entries <- entry
	return nil
}

// The insert happens on a separate goroutine, so tests wait on the channel.
func (f *fakeAuditStore) wait(t *testing.T) *models.AuditLog {
	t.Helper()
	select {
	case entry := <-f.entries:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("no audit entry written")
		return nil
	}
}

func newAuditTestRouter(store *fakeAuditStore, orgID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewAuditMiddleware(store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID.String())
		c.Set("user_id", userID.String())
		c.Next()
	})

	group := router.Group("/assets")
	group.Use(mw.Record("assets"))
	group.POST("", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	group.GET("/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	group.DELETE("/:id", func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{}) })
	return router
}

func TestAuditRecordsMutatingRequest(t *testing.T) {
	store := newFakeAuditStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newAuditTestRouter(store, orgID, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assets", nil)
	req.Header.Set("User-Agent", "itms-test")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	entry := store.wait(t)
	assert.Equal(t, "create", entry.Action)
	require.NotNil(t, entry.ResourceType)
	assert.Equal(t, "assets", *entry.ResourceType)
	assert.Equal(t, "success", entry.Status)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, userID, *entry.UserID)
	require.NotNil(t, entry.OrgID)
	assert.Equal(t, orgID, *entry.OrgID)
	require.NotNil(t, entry.UserAgent)
	assert.Equal(t, "itms-test", *entry.UserAgent)
}

func TestAuditSkipsReads(t *testing.T) {
	store := newFakeAuditStore()
	router := newAuditTestRouter(store, uuid.New(), uuid.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case entry := <-store.entries:
		t.Fatalf("unexpected audit entry for read: %+v", entry)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAuditRecordsFailureStatus(t *testing.T) {
	store := newFakeAuditStore()
	router := newAuditTestRouter(store, uuid.New(), uuid.New())

	id := uuid.NewString()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/assets/"+id, nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	entry := store.wait(t)
	assert.Equal(t, "delete", entry.Action)
	assert.Equal(t, "failure", entry.Status)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, id, *entry.ResourceID)
}
