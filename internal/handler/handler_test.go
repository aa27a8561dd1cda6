package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-transfer-admin/internal/database"
	"github.com/iliyamo/flight-transfer-admin/internal/model"
	"github.com/iliyamo/flight-transfer-admin/internal/repository"
)

// failingStore wraps a store and fails the selected operations.
type failingStore struct {
	repository.TransferStore
	list, save, del bool
}

var errOffline = &repository.StoreError{Op: "test", Err: errors.New("offline")}

func (s *failingStore) List(ctx context.Context) ([]model.Transfer, error) {
	if s.list {
		return nil, errOffline
	}
	return s.TransferStore.List(ctx)
}

func (s *failingStore) Insert(ctx context.Context, f model.TransferFields) (model.Transfer, error) {
	if s.save {
		return model.Transfer{}, errOffline
	}
	return s.TransferStore.Insert(ctx, f)
}

func (s *failingStore) Update(ctx context.Context, id uint64, f model.TransferFields) error {
	if s.save {
		return errOffline
	}
	return s.TransferStore.Update(ctx, id, f)
}

func (s *failingStore) Delete(ctx context.Context, id uint64) error {
	if s.del {
		return errOffline
	}
	return s.TransferStore.Delete(ctx, id)
}

func newStore(t *testing.T) repository.TransferStore {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.SQLite))
	return repository.NewTransferRepo(db)
}

func seedStore(t *testing.T, s repository.TransferStore) (model.Transfer, model.Transfer) {
	t.Helper()
	ctx := context.Background()
	a, err := s.Insert(ctx, model.TransferFields{
		FlightCode: "BA12", TransferDate: "2024-05-02", TransferTime: "10:00",
		DestinationPickup: "LHR", DestinationDropoff: "Hotel", GuestName: "Jo", GuestCount: 2, Notes: "late",
	})
	require.NoError(t, err)
	b, err := s.Insert(ctx, model.TransferFields{
		FlightCode: "EK7", TransferDate: "2024-05-01", TransferTime: "08:15",
		DestinationPickup: "DXB", DestinationDropoff: "Villa", GuestName: "Anna", GuestCount: 1,
	})
	require.NoError(t, err)
	return a, b
}

func newEcho(t *testing.T, store repository.TransferStore) *echo.Echo {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	e := echo.New()
	e.Renderer = r

	d := NewDashboardHandler(store, nil)
	e.GET("/", d.Index)
	e.GET("/transfers/new", d.New)
	e.GET("/transfers/:id/edit", d.Edit)
	e.POST("/transfers", d.Create)
	e.POST("/transfers/:id", d.Update)
	e.GET("/transfers/:id/delete", d.ConfirmDelete)
	e.POST("/transfers/:id/delete", d.Delete)

	api := NewTransferHandler(store, nil)
	g := e.Group("/api/v1")
	g.GET("/transfers", api.List)
	g.POST("/transfers", api.Create)
	g.GET("/transfers/:id", api.Get)
	g.PUT("/transfers/:id", api.Update)
	g.PATCH("/transfers/:id", api.Patch)
	g.DELETE("/transfers/:id", api.Delete)
	e.GET("/healthz", Health)
	return e
}

func do(e *echo.Echo, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, target string, v url.Values) *httptest.ResponseRecorder {
	return do(e, http.MethodPost, target, v.Encode(), echo.MIMEApplicationForm)
}

func validForm() url.Values {
	return url.Values{
		"flight_code":         {" LH400 "},
		"transfer_date":       {"2024-06-01"},
		"transfer_time":       {"12:30"},
		"destination_pickup":  {"FRA"},
		"destination_dropoff": {"Office"},
		"guest_name":          {"Sam"},
		"guest_count":         {""},
	}
}

func TestHealth(t *testing.T) {
	rec := do(newEcho(t, newStore(t)), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDashboard_Index(t *testing.T) {
	store := newStore(t)
	a, _ := seedStore(t, store)
	e := newEcho(t, store)

	rec := do(e, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "BA12")
	assert.Contains(t, body, "EK7")
	assert.Contains(t, body, "02 May 2024")
	assert.Contains(t, body, "/transfers/"+itoa(a.ID)+"/edit")
	assert.NotContains(t, body, "No flights found.")
}

func TestDashboard_FiltersCarriedThroughLinks(t *testing.T) {
	store := newStore(t)
	a, _ := seedStore(t, store)
	e := newEcho(t, store)

	rec := do(e, http.MethodGet, "/?q=ba&date=2024-05-02", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "BA12")
	assert.NotContains(t, body, "EK7")
	assert.Contains(t, body, "/transfers/"+itoa(a.ID)+"/delete?date=2024-05-02&amp;q=ba")
}

func TestDashboard_EmptyState(t *testing.T) {
	store := newStore(t)
	seedStore(t, store)
	e := newEcho(t, store)

	rec := do(e, http.MethodGet, "/?q=nobody", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No flights found.")

	rec = do(e, http.MethodGet, "/?date=not-a-date", "", "")
	assert.Contains(t, rec.Body.String(), "No flights found.")
}

func TestDashboard_LoadFailureShowsBanner(t *testing.T) {
	e := newEcho(t, &failingStore{TransferStore: newStore(t), list: true})
	rec := do(e, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load flights")
	assert.Contains(t, rec.Body.String(), "No flights found.")
}

func TestDashboard_CreateRedirectsWithFilters(t *testing.T) {
	store := newStore(t)
	e := newEcho(t, store)

	form := validForm()
	form.Set("q", "lh")
	rec := postForm(e, "/transfers", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=lh", rec.Header().Get(echo.HeaderLocation))

	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "LH400", items[0].FlightCode)
	assert.Equal(t, 1, items[0].GuestCount)
}

func TestDashboard_CreateInvalidShowsInlineErrors(t *testing.T) {
	store := newStore(t)
	e := newEcho(t, store)

	form := validForm()
	form.Set("guest_name", "  ")
	form.Set("destination_pickup", "")
	rec := postForm(e, "/transfers", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Guest name is required")
	assert.Contains(t, body, "Pickup location is required")
	assert.Contains(t, body, `value="LH400"`)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDashboard_CreateStoreFailureKeepsForm(t *testing.T) {
	e := newEcho(t, &failingStore{TransferStore: newStore(t), save: true})
	rec := postForm(e, "/transfers", validForm())
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not save the flight")
	assert.Contains(t, rec.Body.String(), `value="LH400"`)
}

func TestDashboard_EditAndUpdate(t *testing.T) {
	store := newStore(t)
	a, _ := seedStore(t, store)
	e := newEcho(t, store)

	rec := do(e, http.MethodGet, "/transfers/"+itoa(a.ID)+"/edit", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Edit flight")
	assert.Contains(t, rec.Body.String(), `value="BA12"`)

	form := validForm()
	form.Set("flight_code", "BA13")
	form.Set("notes", "")
	rec = postForm(e, "/transfers/"+itoa(a.ID), form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := repository.Find(context.Background(), store, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "BA13", got.FlightCode)
	assert.Empty(t, got.Notes)

	rec = do(e, http.MethodGet, "/transfers/999/edit", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodGet, "/transfers/abc/edit", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard_DeleteNeedsConfirmation(t *testing.T) {
	store := newStore(t)
	a, b := seedStore(t, store)
	e := newEcho(t, store)

	rec := do(e, http.MethodGet, "/transfers/"+itoa(a.ID)+"/delete?q=a", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delete flight BA12?")
	assert.Contains(t, rec.Body.String(), `href="/?q=a"`)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	rec = postForm(e, "/transfers/"+itoa(a.ID)+"/delete", url.Values{"q": {"a"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=a", rec.Header().Get(echo.HeaderLocation))

	items, err = store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestDashboard_DeleteFailureShowsBanner(t *testing.T) {
	inner := newStore(t)
	a, _ := seedStore(t, inner)
	e := newEcho(t, &failingStore{TransferStore: inner, del: true})

	rec := postForm(e, "/transfers/"+itoa(a.ID)+"/delete", url.Values{})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not delete the flight")
	assert.Contains(t, rec.Body.String(), "BA12")
}

func TestAPI_CRUD(t *testing.T) {
	store := newStore(t)
	e := newEcho(t, store)

	rec := do(e, http.MethodPost, "/api/v1/transfers",
		`{"flight_code":"LH400","transfer_date":"2024-06-01","transfer_time":"12:30","destination_pickup":"FRA","destination_dropoff":"Office","guest_name":"Sam"}`,
		echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"guest_count":1`)
	assert.Contains(t, rec.Body.String(), `"id":1`)

	rec = do(e, http.MethodGet, "/api/v1/transfers/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"flight_code":"LH400"`)

	rec = do(e, http.MethodPatch, "/api/v1/transfers/1", `{"guest_count":4}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"guest_count":4`)
	assert.Contains(t, rec.Body.String(), `"flight_code":"LH400"`)

	rec = do(e, http.MethodGet, "/api/v1/transfers?q=lh", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = do(e, http.MethodDelete, "/api/v1/transfers/1", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodDelete, "/api/v1/transfers/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodGet, "/api/v1/transfers/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_ValidationFailure(t *testing.T) {
	e := newEcho(t, newStore(t))
	rec := do(e, http.MethodPost, "/api/v1/transfers", `{"flight_code":"  "}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"validation_failed"`)
	assert.Contains(t, rec.Body.String(), `"flight_code":"Flight code is required"`)
	assert.NotContains(t, rec.Body.String(), "guest_count")

	rec = do(e, http.MethodPut, "/api/v1/transfers/1", `{`, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(e, http.MethodPut, "/api/v1/transfers/0", `{}`, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_StoreUnavailable(t *testing.T) {
	e := newEcho(t, &failingStore{TransferStore: newStore(t), list: true})
	rec := do(e, http.MethodGet, "/api/v1/transfers", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"store unavailable"}`, rec.Body.String())
}

func TestWithFilter(t *testing.T) {
	assert.Equal(t, "/", withFilter("/", model.Criteria{}))
	assert.Equal(t, "/x?date=2024-05-01&q=a+b", withFilter("/x", model.ParseCriteria("a b", "2024-05-01")))
	assert.Equal(t, "/?date=bad", withFilter("/", model.ParseCriteria("", "bad")))
}

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }
