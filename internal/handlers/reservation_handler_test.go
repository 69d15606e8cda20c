package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReservationStore struct {
	reservations map[uuid.UUID]*models.Reservation
	numbers      map[string]bool
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{
		reservations: make(map[uuid.UUID]*models.Reservation),
		numbers:      make(map[string]bool),
	}
}

func (f *fakeReservationStore) NumberExists(_ context.Context, number string) (bool, error) {
	return f.numbers[number], nil
}

func (f *fakeReservationStore) HasConflict(_ context.Context, assetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, res := range f.reservations {
		if res.AssetID != assetID {
			continue
		}
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		if res.Status != models.ReservationStatusPending && res.Status != models.ReservationStatusApproved {
			continue
		}
		if res.StartDatetime.Before(end) && res.EndDatetime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationStore) Create(_ context.Context, orgID uuid.UUID, res *models.Reservation) error {
	res.OrgID = orgID
	f.reservations[res.ID] = res
	f.numbers[res.ReservationNumber] = true
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok || res.OrgID != orgID {
		return nil, errors.ErrNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationStore) List(_ context.Context, orgID uuid.UUID, _ *models.ReservationFilter, _, _ int) ([]*models.Reservation, int64, error) {
	var out []*models.Reservation
	for _, res := range f.reservations {
		if res.OrgID == orgID {
			out = append(out, res)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReservationStore) Update(_ context.Context, orgID uuid.UUID, res *models.Reservation) error {
	existing, ok := f.reservations[res.ID]
	if !ok || existing.OrgID != orgID {
		return errors.ErrNotFound
	}
	existing.StartDatetime = res.StartDatetime
	existing.EndDatetime = res.EndDatetime
	if res.NumberOfPeople != nil {
		existing.NumberOfPeople = res.NumberOfPeople
	}
	if res.Purpose != nil {
		existing.Purpose = res.Purpose
	}
	if res.ContactPhone != nil {
		existing.ContactPhone = res.ContactPhone
	}
	return nil
}

func (f *fakeReservationStore) UpdateStatus(_ context.Context, orgID, id uuid.UUID, status string, actorID *uuid.UUID, rejectionReason *string) error {
	res, ok := f.reservations[id]
	if !ok || res.OrgID != orgID {
		return errors.ErrNotFound
	}
	res.Status = status
	res.RejectionReason = rejectionReason
	if status == models.ReservationStatusApproved {
		now := time.Now()
		res.ApprovedByID = actorID
		res.ApprovedAt = &now
	}
	return nil
}

func (f *fakeReservationStore) Delete(_ context.Context, orgID, id uuid.UUID) error {
	res, ok := f.reservations[id]
	if !ok || res.OrgID != orgID {
		return errors.ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

type fakeUserLookup struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserLookup) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, errors.ErrNotFound
}

func newReservationTestRouter(store *fakeReservationStore, orgID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewReservationHandler(store, &fakeUserLookup{users: map[uuid.UUID]*models.User{}}, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("org_id", orgID.String())
		c.Set("user_id", userID.String())
		c.Next()
	})
	router.POST("/reservations", handler.Create)
	router.PUT("/reservations/:id", handler.Update)
	router.POST("/reservations/:id/approve", handler.Approve)
	router.POST("/reservations/:id/reject", handler.Reject)
	router.POST("/reservations/:id/cancel", handler.Cancel)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReservationCreate(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	assetID := uuid.New()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	w := postJSON(t, router, http.MethodPost, "/reservations", models.CreateReservationRequest{
		AssetID:         assetID,
		ReservationType: models.ReservationTypeMeetingRoom,
		StartDatetime:   start,
		EndDatetime:     start.Add(2 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var res models.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, models.ReservationStatusPending, res.Status)
	assert.Equal(t, userID, res.ReservedByID)
	assert.Regexp(t, `^RSV\d{14}$`, res.ReservationNumber)
}

func TestReservationCreateRejectsOverlap(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	assetID := uuid.New()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	w := postJSON(t, router, http.MethodPost, "/reservations", models.CreateReservationRequest{
		AssetID:         assetID,
		ReservationType: models.ReservationTypeVehicle,
		StartDatetime:   start,
		EndDatetime:     start.Add(2 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Overlaps the middle of the existing window.
	w = postJSON(t, router, http.MethodPost, "/reservations", models.CreateReservationRequest{
		AssetID:         assetID,
		ReservationType: models.ReservationTypeVehicle,
		StartDatetime:   start.Add(time.Hour),
		EndDatetime:     start.Add(3 * time.Hour),
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RESERVATION_CONFLICT", resp.Error)
}

func TestReservationCreateAllowsBackToBack(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	assetID := uuid.New()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	w := postJSON(t, router, http.MethodPost, "/reservations", models.CreateReservationRequest{
		AssetID:         assetID,
		ReservationType: models.ReservationTypeEquipment,
		StartDatetime:   start,
		EndDatetime:     start.Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// A window starting exactly when the previous one ends does not overlap.
	w = postJSON(t, router, http.MethodPost, "/reservations", models.CreateReservationRequest{
		AssetID:         assetID,
		ReservationType: models.ReservationTypeEquipment,
		StartDatetime:   start.Add(time.Hour),
		EndDatetime:     start.Add(2 * time.Hour),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReservationCreateIgnoresCancelled(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	assetID := uuid.New()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	cancelled := &models.Reservation{
		ID:            uuid.New(),
		OrgID:         orgID,
		AssetID:       assetID,
		Status:        models.ReservationStatusCancelled,
		StartDatetime: start,
		EndDatetime:   start.Add(2 * time.Hour),
	}
	store.reservations[cancelled.ID] = cancelled

	w := postJSON(t, router, http.MethodPost, "/reservations", models.CreateReservationRequest{
		AssetID:         assetID,
		ReservationType: models.ReservationTypeOther,
		StartDatetime:   start,
		EndDatetime:     start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReservationCreateRejectsInvertedWindow(t *testing.T) {
	store := newFakeReservationStore()
	router := newReservationTestRouter(store, uuid.New(), uuid.New())

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	w := postJSON(t, router, http.MethodPost, "/reservations", models.CreateReservationRequest{
		AssetID:         uuid.New(),
		ReservationType: models.ReservationTypeMeetingRoom,
		StartDatetime:   start,
		EndDatetime:     start,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationApprove(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	pending := &models.Reservation{
		ID:            uuid.New(),
		OrgID:         orgID,
		AssetID:       uuid.New(),
		ReservedByID:  userID,
		Status:        models.ReservationStatusPending,
		StartDatetime: start,
		EndDatetime:   start.Add(time.Hour),
	}
	store.reservations[pending.ID] = pending

	w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/reservations/%s/approve", pending.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res models.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, models.ReservationStatusApproved, res.Status)
	require.NotNil(t, res.ApprovedByID)
	assert.Equal(t, userID, *res.ApprovedByID)
}

func TestReservationApproveRequiresPending(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	approved := &models.Reservation{
		ID:            uuid.New(),
		OrgID:         orgID,
		AssetID:       uuid.New(),
		Status:        models.ReservationStatusApproved,
		StartDatetime: start,
		EndDatetime:   start.Add(time.Hour),
	}
	store.reservations[approved.ID] = approved

	w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/reservations/%s/approve", approved.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReservationRejectRequiresReason(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	pending := &models.Reservation{
		ID:            uuid.New(),
		OrgID:         orgID,
		AssetID:       uuid.New(),
		Status:        models.ReservationStatusPending,
		StartDatetime: start,
		EndDatetime:   start.Add(time.Hour),
	}
	store.reservations[pending.ID] = pending

	w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/reservations/%s/reject", pending.ID), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, http.MethodPost, fmt.Sprintf("/reservations/%s/reject", pending.ID), models.RejectReservationRequest{Reason: "asset in maintenance"})
	require.Equal(t, http.StatusOK, w.Code)

	var res models.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, models.ReservationStatusRejected, res.Status)
	require.NotNil(t, res.RejectionReason)
	assert.Equal(t, "asset in maintenance", *res.RejectionReason)
}

func TestReservationUpdateRechecksConflict(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	assetID := uuid.New()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	first := &models.Reservation{
		ID:            uuid.New(),
		OrgID:         orgID,
		AssetID:       assetID,
		Status:        models.ReservationStatusApproved,
		StartDatetime: start,
		EndDatetime:   start.Add(time.Hour),
	}
	second := &models.Reservation{
		ID:            uuid.New(),
		OrgID:         orgID,
		AssetID:       assetID,
		Status:        models.ReservationStatusPending,
		StartDatetime: start.Add(2 * time.Hour),
		EndDatetime:   start.Add(3 * time.Hour),
	}
	store.reservations[first.ID] = first
	store.reservations[second.ID] = second

	// Moving the second window onto the first must be rejected.
	newStart := start.Add(30 * time.Minute)
	w := postJSON(t, router, http.MethodPut, fmt.Sprintf("/reservations/%s", second.ID), models.UpdateReservationRequest{
		StartDatetime: &newStart,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Editing without touching the window skips the conflict check.
	people := 4
	w = postJSON(t, router, http.MethodPut, fmt.Sprintf("/reservations/%s", second.ID), models.UpdateReservationRequest{
		NumberOfPeople: &people,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReservationCancelStates(t *testing.T) {
	store := newFakeReservationStore()
	orgID, userID := uuid.New(), uuid.New()
	router := newReservationTestRouter(store, orgID, userID)

	// Pending, approved and active reservations may be withdrawn; anything
	// already final cannot.
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	for status, wantCode := range map[string]int{
		models.ReservationStatusPending:   http.StatusOK,
		models.ReservationStatusApproved:  http.StatusOK,
		models.ReservationStatusActive:    http.StatusOK,
		models.ReservationStatusRejected:  http.StatusConflict,
		models.ReservationStatusCompleted: http.StatusConflict,
		models.ReservationStatusCancelled: http.StatusConflict,
	} {
		res := &models.Reservation{
			ID:            uuid.New(),
			OrgID:         orgID,
			AssetID:       uuid.New(),
			Status:        status,
			StartDatetime: start,
			EndDatetime:   start.Add(time.Hour),
		}
		store.reservations[res.ID] = res

		w := postJSON(t, router, http.MethodPost, fmt.Sprintf("/reservations/%s/cancel", res.ID), nil)
		assert.Equal(t, wantCode, w.Code, "status %s", status)
	}
}
