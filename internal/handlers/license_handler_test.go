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

type fakeLicenseStore struct {
	licenses map[uuid.UUID]*models.SoftwareLicense
	installs map[uuid.UUID][]*models.SoftwareInstallation
}

func newFakeLicenseStore() *fakeLicenseStore {
	return &fakeLicenseStore{
		licenses: make(map[uuid.UUID]*models.SoftwareLicense),
		installs: make(map[uuid.UUID][]*models.SoftwareInstallation),
	}
}

func (f *fakeLicenseStore) Create(_ context.Context, orgID uuid.UUID, lic *models.SoftwareLicense) error {
	lic.OrgID = orgID
	f.licenses[lic.ID] = lic
	return nil
}

func (f *fakeLicenseStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.SoftwareLicense, error) {
	lic, ok := f.licenses[id]
	if !ok || lic.OrgID != orgID {
		return nil, errors.ErrNotFound
	}
	copied := *lic
	copied.CurrentInstallations = len(f.installs[id])
	return &copied, nil
}

func (f *fakeLicenseStore) List(_ context.Context, orgID uuid.UUID, _, _ int) ([]*models.SoftwareLicense, int64, error) {
	var out []*models.SoftwareLicense
	for _, lic := range f.licenses {
		if lic.OrgID == orgID {
			out = append(out, lic)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLicenseStore) Update(_ context.Context, orgID uuid.UUID, lic *models.SoftwareLicense, maxInstallations *int) error {
	existing, ok := f.licenses[lic.ID]
	if !ok || existing.OrgID != orgID {
		return errors.ErrNotFound
	}
	if lic.Name != "" {
		existing.Name = lic.Name
	}
	if maxInstallations != nil {
		if *maxInstallations < len(f.installs[lic.ID]) {
			return errors.ErrLicenseExhausted
		}
		existing.MaxInstallations = *maxInstallations
	}
	return nil
}

func (f *fakeLicenseStore) Delete(_ context.Context, orgID, id uuid.UUID) error {
	lic, ok := f.licenses[id]
	if !ok || lic.OrgID != orgID {
		return errors.ErrNotFound
	}
	delete(f.licenses, id)
	return nil
}

func (f *fakeLicenseStore) InstallOnAsset(_ context.Context, orgID, licenseID uuid.UUID, install *models.SoftwareInstallation) error {
	lic, ok := f.licenses[licenseID]
	if !ok || lic.OrgID != orgID {
		return errors.ErrNotFound
	}
	if len(f.installs[licenseID]) >= lic.MaxInstallations {
		return errors.ErrLicenseExhausted
	}
	install.LicenseID = licenseID
	f.installs[licenseID] = append(f.installs[licenseID], install)
	return nil
}

func (f *fakeLicenseStore) RemoveInstallation(_ context.Context, orgID, licenseID, installationID uuid.UUID) error {
	lic, ok := f.licenses[licenseID]
	if !ok || lic.OrgID != orgID {
		return errors.ErrNotFound
	}
	installs := f.installs[licenseID]
	for i, install := range installs {
		if install.ID == installationID {
			f.installs[licenseID] = append(installs[:i], installs[i+1:]...)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (f *fakeLicenseStore) ListInstallations(_ context.Context, orgID, licenseID uuid.UUID) ([]*models.SoftwareInstallation, error) {
	lic, ok := f.licenses[licenseID]
	if !ok || lic.OrgID != orgID {
		return nil, errors.ErrNotFound
	}
	return f.installs[licenseID], nil
}

func newLicenseTestRouter(store *fakeLicenseStore, orgID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewLicenseHandler(store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID.String())
		c.Set("user_id", userID.String())
		c.Next()
	})
	router.POST("/licenses", handler.Create)
	router.POST("/licenses/:id/installations", handler.Install)
	router.DELETE("/licenses/:id/installations/:installation_id", handler.Uninstall)
	router.GET("/licenses/:id/installations", handler.ListInstallations)
	return router
}

func seedLicense(store *fakeLicenseStore, orgID uuid.UUID, maxInstallations int) *models.SoftwareLicense {
	lic := &models.SoftwareLicense{
		ID:               uuid.New(),
		OrgID:            orgID,
		Name:             "Acme Editor",
		LicenseType:      "subscription",
		MaxInstallations: maxInstallations,
	}
	store.licenses[lic.ID] = lic
	return lic
}

func TestLicenseInstall(t *testing.T) {
	store := newFakeLicenseStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newLicenseTestRouter(store, orgID, userID)
	lic := seedLicense(store, orgID, 2)

	w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/licenses/%s/installations", lic.ID), models.CreateInstallationRequest{
		AssetID: uuid.New(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var install models.SoftwareInstallation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &install))
	require.NotNil(t, install.InstalledByID)
	assert.Equal(t, userID, *install.InstalledByID)
}

func TestLicenseInstallSeatCap(t *testing.T) {
	store := newFakeLicenseStore()
	orgID := uuid.New()
	router := newLicenseTestRouter(store, orgID, uuid.New())
	lic := seedLicense(store, orgID, 2)

	for i := 0; i < 2; i++ {
		w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/licenses/%s/installations", lic.ID), models.CreateInstallationRequest{
			AssetID: uuid.New(),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Third install exceeds max_installations.
	w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/licenses/%s/installations", lic.ID), models.CreateInstallationRequest{
		AssetID: uuid.New(),
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LICENSE_EXHAUSTED", resp.Error)
}

func TestLicenseUninstallFreesSeat(t *testing.T) {
	store := newFakeLicenseStore()
	orgID := uuid.New()
	router := newLicenseTestRouter(store, orgID, uuid.New())
	lic := seedLicense(store, orgID, 1)

	w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/licenses/%s/installations", lic.ID), models.CreateInstallationRequest{
		AssetID: uuid.New(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var install models.SoftwareInstallation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &install))

	w = postJSON(t, router, http.MethodDelete, fmt.Sprintf("/licenses/%s/installations/%s", lic.ID, install.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, http.MethodPost, fmt.Sprintf("/licenses/%s/installations", lic.ID), models.CreateInstallationRequest{
		AssetID: uuid.New(),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLicenseInstallUnknownLicense(t *testing.T) {
	store := newFakeLicenseStore()
	router := newLicenseTestRouter(store, uuid.New(), uuid.New())

	w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/licenses/%s/installations", uuid.New()), models.CreateInstallationRequest{
		AssetID: uuid.New(),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
