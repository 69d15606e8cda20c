package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVulnerabilityStore struct {
	vulns   map[uuid.UUID]*models.VulnerabilityAssessment
	numbers map[string]bool
}

func newFakeVulnerabilityStore() *fakeVulnerabilityStore {
	return &fakeVulnerabilityStore{
		vulns:   make(map[uuid.UUID]*models.VulnerabilityAssessment),
		numbers: make(map[string]bool),
	}
}

func (f *fakeVulnerabilityStore) NumberExists(_ context.Context, number string) (bool, error) {
	return f.numbers[number], nil
}

func (f *fakeVulnerabilityStore) Create(_ context.Context, orgID uuid.UUID, vuln *models.VulnerabilityAssessment) error {
	vuln.OrgID = orgID
	f.vulns[vuln.ID] = vuln
	f.numbers[vuln.VulnerabilityNumber] = true
	return nil
}

func (f *fakeVulnerabilityStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.VulnerabilityAssessment, error) {
	vuln, ok := f.vulns[id]
	if !ok || vuln.OrgID != orgID {
		return nil, errors.ErrNotFound
	}
	copied := *vuln
	return &copied, nil
}

func (f *fakeVulnerabilityStore) List(_ context.Context, orgID uuid.UUID, filter *models.VulnerabilityFilter, _, _ int) ([]*models.VulnerabilityAssessment, int64, error) {
	var out []*models.VulnerabilityAssessment
	for _, vuln := range f.vulns {
		if vuln.OrgID != orgID {
			continue
		}
		if filter.Status != nil && vuln.Status != *filter.Status {
			continue
		}
		if filter.RiskLevel != nil && vuln.RiskLevel != *filter.RiskLevel {
			continue
		}
		out = append(out, vuln)
	}
	return out, int64(len(out)), nil
}

func (f *fakeVulnerabilityStore) Update(_ context.Context, orgID uuid.UUID, vuln *models.VulnerabilityAssessment, status *string) error {
	existing, ok := f.vulns[vuln.ID]
	if !ok || existing.OrgID != orgID {
		return errors.ErrNotFound
	}
	if vuln.Title != "" {
		existing.Title = vuln.Title
	}
	if vuln.RiskLevel != "" {
		existing.RiskLevel = vuln.RiskLevel
	}
	if vuln.RemediationNotes != nil {
		existing.RemediationNotes = vuln.RemediationNotes
	}
	if status != nil {
		if existing.FixedAt == nil && (*status == models.VulnerabilityStatusFixed || *status == models.VulnerabilityStatusMitigated) {
			now := time.Now()
			existing.FixedAt = &now
		}
		existing.Status = *status
	}
	return nil
}

func (f *fakeVulnerabilityStore) Delete(_ context.Context, orgID, id uuid.UUID) error {
	vuln, ok := f.vulns[id]
	if !ok || vuln.OrgID != orgID {
		return errors.ErrNotFound
	}
	delete(f.vulns, id)
	return nil
}

func (f *fakeVulnerabilityStore) SetAffectedAssets(_ context.Context, orgID, vulnID uuid.UUID, assetIDs []uuid.UUID) error {
	vuln, ok := f.vulns[vulnID]
	if !ok || vuln.OrgID != orgID {
		return errors.ErrNotFound
	}
	vuln.AffectedAssetIDs = assetIDs
	return nil
}

func newVulnerabilityTestRouter(store *fakeVulnerabilityStore, orgID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewVulnerabilityHandler(store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID.String())
		c.Set("user_id", userID.String())
		c.Next()
	})
	router.POST("/vulnerability-assessments", handler.Create)
	router.GET("/vulnerability-assessments", handler.List)
	router.GET("/vulnerability-assessments/:id", handler.Get)
	router.PUT("/vulnerability-assessments/:id", handler.Update)
	router.DELETE("/vulnerability-assessments/:id", handler.Delete)
	return router
}

func TestVulnerabilityCreate(t *testing.T) {
	store := newFakeVulnerabilityStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newVulnerabilityTestRouter(store, orgID, userID)

	cve := "CVE-2026-12345"
	assetID := uuid.New()
	w := postJSON(t, router, http.MethodPost, "/vulnerability-assessments", models.CreateVulnerabilityRequest{
		Title:            "OpenSSL downgrade",
		Description:      "Weak cipher suites accepted on the VPN gateway",
		CVEID:            &cve,
		RiskLevel:        models.RiskLevelHigh,
		AffectedAssetIDs: []uuid.UUID{assetID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.VulnerabilityAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.VulnerabilityNumber, "VUL"))
	assert.Equal(t, models.VulnerabilityStatusIdentified, created.Status)
	assert.Equal(t, userID, created.DiscoveredByID)
	assert.Equal(t, []uuid.UUID{assetID}, created.AffectedAssetIDs)
	assert.False(t, created.DiscoveredAt.IsZero())
}

func TestVulnerabilityCreateRejectsBadRiskLevel(t *testing.T) {
	router := newVulnerabilityTestRouter(newFakeVulnerabilityStore(), uuid.New(), uuid.New())

	w := postJSON(t, router, http.MethodPost, "/vulnerability-assessments", map[string]interface{}{
		"title":       "Bad risk",
		"description": "x",
		"risk_level":  "severe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVulnerabilityUpdateStampsFixedAt(t *testing.T) {
	store := newFakeVulnerabilityStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newVulnerabilityTestRouter(store, orgID, userID)

	vuln := &models.VulnerabilityAssessment{
		ID:             uuid.New(),
		OrgID:          orgID,
		Title:          "Unpatched kernel",
		RiskLevel:      models.RiskLevelMedium,
		Status:         models.VulnerabilityStatusConfirmed,
		DiscoveredByID: userID,
		DiscoveredAt:   time.Now().Add(-24 * time.Hour),
	}
	store.vulns[vuln.ID] = vuln

	status := models.VulnerabilityStatusFixed
	notes := "Patched to 6.8.4"
	w := postJSON(t, router, http.MethodPut, fmt.Sprintf("/vulnerability-assessments/%s", vuln.ID), models.UpdateVulnerabilityRequest{
		Status:           &status,
		RemediationNotes: &notes,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.VulnerabilityAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.VulnerabilityStatusFixed, updated.Status)
	require.NotNil(t, updated.FixedAt)
	require.NotNil(t, updated.RemediationNotes)
	assert.Equal(t, notes, *updated.RemediationNotes)
}

func TestVulnerabilityUpdateReplacesAffectedAssets(t *testing.T) {
	store := newFakeVulnerabilityStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newVulnerabilityTestRouter(store, orgID, userID)

	vuln := &models.VulnerabilityAssessment{
		ID:               uuid.New(),
		OrgID:            orgID,
		Title:            "SMBv1 enabled",
		RiskLevel:        models.RiskLevelHigh,
		Status:           models.VulnerabilityStatusIdentified,
		DiscoveredByID:   userID,
		DiscoveredAt:     time.Now(),
		AffectedAssetIDs: []uuid.UUID{uuid.New()},
	}
	store.vulns[vuln.ID] = vuln

	replacement := []uuid.UUID{uuid.New(), uuid.New()}
	w := postJSON(t, router, http.MethodPut, fmt.Sprintf("/vulnerability-assessments/%s", vuln.ID), models.UpdateVulnerabilityRequest{
		AffectedAssetIDs: replacement,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, replacement, vuln.AffectedAssetIDs)
}

func TestVulnerabilityScopedToOrg(t *testing.T) {
	store := newFakeVulnerabilityStore()
	orgID, otherOrg, userID := uuid.New(), uuid.New(), uuid.New()
	router := newVulnerabilityTestRouter(store, orgID, userID)

	foreign := &models.VulnerabilityAssessment{
		ID:             uuid.New(),
		OrgID:          otherOrg,
		Title:          "Foreign finding",
		RiskLevel:      models.RiskLevelLow,
		Status:         models.VulnerabilityStatusIdentified,
		DiscoveredByID: userID,
		DiscoveredAt:   time.Now(),
	}
	store.vulns[foreign.ID] = foreign

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/vulnerability-assessments/%s", foreign.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vulnerability-assessments", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 0, resp.Total)
}
