package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/driveaway/car-rental-api/internal/middleware"
	"github.com/driveaway/car-rental-api/internal/model"
	"github.com/driveaway/car-rental-api/internal/queue"
	"github.com/driveaway/car-rental-api/internal/repository"
)

// fakeRentalStore is an in-memory RentalStore. Like the MySQL repository
// it assigns the rental ID and creation timestamp on insert and returns
// rentals newest-first from ListByUser.
type fakeRentalStore struct {
	rentals map[string]model.Rental
	seq     int
}

var _ repository.RentalStore = (*fakeRentalStore)(nil)

func newFakeRentalStore() *fakeRentalStore {
	return &fakeRentalStore{rentals: map[string]model.Rental{}}
}

func (f *fakeRentalStore) Insert(ctx context.Context, rental *model.Rental) error {
	f.seq++
	rental.ID = fmt.Sprintf("rental-%d", f.seq)
	rental.CreatedAt = time.Now().UTC()
	f.rentals[rental.ID] = *rental
	return nil
}

func (f *fakeRentalStore) GetByID(ctx context.Context, id string) (model.Rental, error) {
	r, ok := f.rentals[id]
	if !ok {
		return model.Rental{}, repository.ErrRentalNotFound
	}
	return r, nil
}

func (f *fakeRentalStore) ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error) {
	out := []model.Rental{}
	for _, r := range f.rentals {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRentalStore) UpdateStatus(ctx context.Context, id, status string) error {
	r, ok := f.rentals[id]
	if !ok {
		return repository.ErrRentalNotFound
	}
	r.Details.Status = status
	f.rentals[id] = r
	return nil
}

// seed puts a rental into the store directly, bypassing the handler.
func (f *fakeRentalStore) seed(userID uint64, status string, createdAt time.Time) model.Rental {
	f.seq++
	r := model.Rental{
		ID:        fmt.Sprintf("rental-%d", f.seq),
		UserID:    userID,
		Car:       model.Car{ID: 3, Make: "Toyota", Model: "Corolla", Year: 2022, Price: 50},
		Details:   model.RentalDetails{Status: status, TotalCost: 150},
		CreatedAt: createdAt,
	}
	f.rentals[r.ID] = r
	return r
}

// asUser performs a request against the handler with the given user
// identity already in the context, the way the JWT middleware leaves it.
func asUser(t *testing.T, h echo.HandlerFunc, userID uint64, method, path, rentalID, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxEmail, "user@example.com")
	if rentalID != "" {
		c.SetParamNames("id")
		c.SetParamValues(rentalID)
	}
	require.NoError(t, h(c))
	return rec
}

type rentalResp struct {
	Message string       `json:"message"`
	Rental  model.Rental `json:"rental"`
}

func TestCreateRental_ComputesCost(t *testing.T) {
	store := newFakeRentalStore()
	h := NewRentalHandler(store, nil)

	body := `{
		"car": {"id": 3, "make": "Toyota", "model": "Corolla", "year": 2022, "price": 50},
		"rentalDetails": {"startDate": "2026-03-01T00:00:00Z", "endDate": "2026-03-04T00:00:00Z"},
		"paymentInfo": {"paymentId": "pay_123", "paymentMethod": "card"}
	}`
	rec := asUser(t, h.Create, 1, http.MethodPost, "/api/rentals", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp rentalResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Rental created successfully", resp.Message)
	require.Equal(t, float64(150), resp.Rental.Details.TotalCost) // 50 * 3 days
	require.Equal(t, model.StatusPending, resp.Rental.Details.Status)
	require.Equal(t, uint64(1), resp.Rental.UserID)
	require.Equal(t, "pay_123", resp.Rental.PaymentInfo.PaymentID)

	stored, err := store.GetByID(context.Background(), resp.Rental.ID)
	require.NoError(t, err)
	require.Equal(t, float64(150), stored.Details.TotalCost)
}

func TestCreateRental_ZeroDayWindow(t *testing.T) {
	h := NewRentalHandler(newFakeRentalStore(), nil)

	body := `{
		"car": {"id": 3, "make": "Toyota", "model": "Corolla", "year": 2022, "price": 50},
		"rentalDetails": {"startDate": "2026-03-01T00:00:00Z", "endDate": "2026-03-01T00:00:00Z"}
	}`
	rec := asUser(t, h.Create, 1, http.MethodPost, "/api/rentals", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp rentalResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, float64(0), resp.Rental.Details.TotalCost)
}

func TestCreateRental_PublishesEvent(t *testing.T) {
	var events []queue.RentalEvent
	h := NewRentalHandler(newFakeRentalStore(), func(ctx context.Context, ev queue.RentalEvent) error {
		events = append(events, ev)
		return nil
	})

	body := `{
		"car": {"id": 3, "make": "Toyota", "model": "Corolla", "year": 2022, "price": 50},
		"rentalDetails": {"startDate": "2026-03-01T00:00:00Z", "endDate": "2026-03-04T00:00:00Z"}
	}`
	rec := asUser(t, h.Create, 1, http.MethodPost, "/api/rentals", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, events, 1)
	require.Equal(t, queue.EventRentalCreated, events[0].Type)
	require.Equal(t, model.StatusPending, events[0].Status)
}

func TestGetRental_NotFoundBeforeOwnership(t *testing.T) {
	store := newFakeRentalStore()
	owned := store.seed(2, model.StatusPending, time.Now())
	h := NewRentalHandler(store, nil)

	// Nonexistent id: 404.
	rec := asUser(t, h.GetByID, 1, http.MethodGet, "/api/rentals/ghost", "ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Rental not found")

	// Exists but owned by someone else: 403, not 404 and not 200.
	rec = asUser(t, h.GetByID, 1, http.MethodGet, "/api/rentals/"+owned.ID, owned.ID, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Not your rental")

	// The owner gets it back.
	rec = asUser(t, h.GetByID, 2, http.MethodGet, "/api/rentals/"+owned.ID, owned.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateStatus_PersistsAnyString(t *testing.T) {
	store := newFakeRentalStore()
	r := store.seed(1, model.StatusPending, time.Now())
	h := NewRentalHandler(store, nil)

	// The status value is not validated against the known set.
	rec := asUser(t, h.UpdateStatus, 1, http.MethodPatch, "/api/rentals/"+r.ID+"/status", r.ID, `{"status":"turbo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := store.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	require.Equal(t, "turbo", stored.Details.Status)
}

func TestUpdateStatus_OwnershipEnforced(t *testing.T) {
	store := newFakeRentalStore()
	r := store.seed(2, model.StatusPending, time.Now())
	h := NewRentalHandler(store, nil)

	rec := asUser(t, h.UpdateStatus, 1, http.MethodPatch, "/api/rentals/"+r.ID+"/status", r.ID, `{"status":"active"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	stored, err := store.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, stored.Details.Status)
}

func TestCancel_FromPending(t *testing.T) {
	store := newFakeRentalStore()
	r := store.seed(1, model.StatusPending, time.Now())
	h := NewRentalHandler(store, nil)

	rec := asUser(t, h.Cancel, 1, http.MethodPatch, "/api/rentals/"+r.ID+"/cancel", r.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Rental cancelled")

	stored, err := store.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, stored.Details.Status)
}

func TestCancel_FromTerminalStatus(t *testing.T) {
	store := newFakeRentalStore()
	h := NewRentalHandler(store, nil)

	for _, status := range []string{model.StatusCompleted, model.StatusCancelled} {
		r := store.seed(1, status, time.Now())

		rec := asUser(t, h.Cancel, 1, http.MethodPatch, "/api/rentals/"+r.ID+"/cancel", r.ID, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, "status=%s", status)
		require.Contains(t, rec.Body.String(), "Cannot cancel")

		stored, err := store.GetByID(context.Background(), r.ID)
		require.NoError(t, err)
		require.Equal(t, status, stored.Details.Status) // unchanged
	}
}

func TestListMine_NewestFirstAndScopedToUser(t *testing.T) {
	store := newFakeRentalStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	oldest := store.seed(1, model.StatusPending, base)
	middle := store.seed(1, model.StatusActive, base.Add(time.Hour))
	newest := store.seed(1, model.StatusPending, base.Add(2*time.Hour))
	store.seed(2, model.StatusPending, base.Add(3*time.Hour)) // someone else's

	h := NewRentalHandler(store, nil)
	rec := asUser(t, h.ListMine, 1, http.MethodGet, "/api/rentals/user", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rentals []model.Rental `json:"rentals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rentals, 3)
	require.Equal(t, []string{newest.ID, middle.ID, oldest.ID},
		[]string{resp.Rentals[0].ID, resp.Rentals[1].ID, resp.Rentals[2].ID})
}

func TestListMine_EmptyIsNotAnError(t *testing.T) {
	h := NewRentalHandler(newFakeRentalStore(), nil)

	rec := asUser(t, h.ListMine, 1, http.MethodGet, "/api/rentals/user", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"rentals":[]}`, rec.Body.String())
}
