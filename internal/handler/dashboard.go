package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/dashboard"
	"github.com/iliyamo/flight-transfer-admin/internal/model"
	"github.com/iliyamo/flight-transfer-admin/internal/repository"
)

const msgTransferNotFound = "That flight no longer exists."

// DashboardHandler serves the HTML admin pages.  Every request builds its
// own dashboard.Controller over the shared store, loads the list and replays
// the action the request stands for.
type DashboardHandler struct {
	Store  repository.TransferStore
	Logger *zap.Logger
}

// NewDashboardHandler returns a handler over store.
func NewDashboardHandler(store repository.TransferStore, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{Store: store, Logger: logger}
}

type pageView struct {
	Home  string // dashboard URL with the current filters
	Error string // banner text
	Query string
	Date  string
}

type rowView struct {
	FlightCode string
	Date       string
	Time       string
	Pickup     string
	Dropoff    string
	Guest      string
	Guests     int
	Notes      string
	EditURL    string
	DeleteURL  string
}

type dashboardView struct {
	pageView
	Rows      []rowView
	NewURL    string
	ClearDate string
}

type formView struct {
	pageView
	Title  string
	Submit string
	Action string
	Fields model.TransferFields
	Errors model.FieldErrors
}

type confirmView struct {
	pageView
	Transfer    model.Transfer
	DisplayDate string
	Action      string
}

// controller builds a loaded controller with the q and date parameters of
// the request applied.  FormValue covers both the URL and a posted body.
func (h *DashboardHandler) controller(c echo.Context) *dashboard.Controller {
	ctl := dashboard.New(h.Store, h.Logger)
	ctl.SetQuery(c.FormValue("q"))
	ctl.SetDateParam(c.FormValue("date"))
	ctl.Load(c.Request().Context())
	return ctl
}

// withFilter appends the current q and date parameters to path.
func withFilter(path string, crit model.Criteria) string {
	v := url.Values{}
	if crit.Query != "" {
		v.Set("q", crit.Query)
	}
	if d := crit.DateParam(); d != "" {
		v.Set("date", d)
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func newPageView(ctl *dashboard.Controller) pageView {
	crit := ctl.Criteria()
	return pageView{
		Home:  withFilter("/", crit),
		Error: ctl.State().Error,
		Query: crit.Query,
		Date:  crit.DateParam(),
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func (h *DashboardHandler) renderDashboard(c echo.Context, status int, ctl *dashboard.Controller, banner string) error {
	crit := ctl.Criteria()
	view := dashboardView{
		pageView:  newPageView(ctl),
		NewURL:    withFilter("/transfers/new", crit),
		ClearDate: withFilter("/", model.Criteria{Query: crit.Query}),
	}
	if banner != "" {
		view.Error = banner
	}
	for _, t := range ctl.Visible() {
		id := strconv.FormatUint(t.ID, 10)
		view.Rows = append(view.Rows, rowView{
			FlightCode: t.FlightCode,
			Date:       model.FormatDate(t.TransferDate),
			Time:       dash(t.TransferTime),
			Pickup:     t.DestinationPickup,
			Dropoff:    t.DestinationDropoff,
			Guest:      t.GuestName,
			Guests:     t.GuestCount,
			Notes:      dash(t.Notes),
			EditURL:    withFilter("/transfers/"+id+"/edit", crit),
			DeleteURL:  withFilter("/transfers/"+id+"/delete", crit),
		})
	}
	return c.Render(status, pageDashboard, view)
}

func (h *DashboardHandler) renderForm(c echo.Context, status int, ctl *dashboard.Controller) error {
	st := ctl.State()
	view := formView{
		pageView: newPageView(ctl),
		Fields:   st.Form.Draft.Fields,
		Errors:   st.Form.Errors,
	}
	if id, ok := st.Form.Draft.ID(); ok {
		view.Title = "Edit flight"
		view.Submit = "Save changes"
		view.Action = "/transfers/" + strconv.FormatUint(id, 10)
	} else {
		view.Title = "New flight"
		view.Submit = "Create"
		view.Action = "/transfers"
	}
	return c.Render(status, pageForm, view)
}

// notFound renders the dashboard with a 404.  When the list itself could
// not be loaded the load failure is reported instead.
func (h *DashboardHandler) notFound(c echo.Context, ctl *dashboard.Controller) error {
	if ctl.State().Error != "" {
		return h.renderDashboard(c, http.StatusBadGateway, ctl, "")
	}
	return h.renderDashboard(c, http.StatusNotFound, ctl, msgTransferNotFound)
}

// Index handles GET / and lists the transfers matching q and date.
func (h *DashboardHandler) Index(c echo.Context) error {
	ctl := h.controller(c)
	status := http.StatusOK
	if ctl.State().Error != "" {
		status = http.StatusBadGateway
	}
	return h.renderDashboard(c, status, ctl, "")
}

// New handles GET /transfers/new.
func (h *DashboardHandler) New(c echo.Context) error {
	ctl := h.controller(c)
	ctl.OpenCreate()
	return h.renderForm(c, http.StatusOK, ctl)
}

// Edit handles GET /transfers/:id/edit.
func (h *DashboardHandler) Edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctl := h.controller(c)
	if err := ctl.OpenEdit(id); err != nil {
		return h.notFound(c, ctl)
	}
	return h.renderForm(c, http.StatusOK, ctl)
}

// Create handles POST /transfers.
func (h *DashboardHandler) Create(c echo.Context) error {
	ctl := h.controller(c)
	ctl.OpenCreate()
	return h.submit(c, ctl)
}

// Update handles POST /transfers/:id.
func (h *DashboardHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctl := h.controller(c)
	if err := ctl.OpenEdit(id); err != nil {
		return h.notFound(c, ctl)
	}
	return h.submit(c, ctl)
}

func (h *DashboardHandler) submit(c echo.Context, ctl *dashboard.Controller) error {
	err := ctl.Submit(c.Request().Context(), formFields(c))
	var fieldErrs model.FieldErrors
	switch {
	case err == nil:
		return c.Redirect(http.StatusSeeOther, withFilter("/", ctl.Criteria()))
	case errors.As(err, &fieldErrs):
		return h.renderForm(c, http.StatusUnprocessableEntity, ctl)
	case errors.Is(err, repository.ErrTransferNotFound):
		return h.renderForm(c, http.StatusNotFound, ctl)
	default:
		return h.renderForm(c, http.StatusBadGateway, ctl)
	}
}

// ConfirmDelete handles GET /transfers/:id/delete and asks before deleting.
func (h *DashboardHandler) ConfirmDelete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctl := h.controller(c)
	if err := ctl.RequestDelete(id); err != nil {
		return h.notFound(c, ctl)
	}
	var target model.Transfer
	for _, t := range ctl.State().Records {
		if t.ID == id {
			target = t
			break
		}
	}
	return c.Render(http.StatusOK, pageConfirm, confirmView{
		pageView:    newPageView(ctl),
		Transfer:    target,
		DisplayDate: model.FormatDate(target.TransferDate),
		Action:      withFilter("/transfers/"+strconv.FormatUint(id, 10)+"/delete", ctl.Criteria()),
	})
}

// Delete handles POST /transfers/:id/delete.  The list is re-fetched with
// the filters kept; a failure lands back on the dashboard with a banner.
func (h *DashboardHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctl := h.controller(c)
	if err := ctl.RequestDelete(id); err != nil {
		return h.notFound(c, ctl)
	}
	if err := ctl.ConfirmDelete(c.Request().Context()); err != nil {
		if errors.Is(err, repository.ErrTransferNotFound) {
			return h.renderDashboard(c, http.StatusNotFound, ctl, msgTransferNotFound)
		}
		return h.renderDashboard(c, http.StatusBadGateway, ctl, "")
	}
	return c.Redirect(http.StatusSeeOther, withFilter("/", ctl.Criteria()))
}

// formFields reads the transfer fields from a posted form.  A guest count
// that is missing or not a number is left at zero and normalized to one.
func formFields(c echo.Context) model.TransferFields {
	count, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("guest_count")))
	return model.TransferFields{
		FlightCode:         c.FormValue("flight_code"),
		TransferDate:       c.FormValue("transfer_date"),
		TransferTime:       c.FormValue("transfer_time"),
		DestinationPickup:  c.FormValue("destination_pickup"),
		DestinationDropoff: c.FormValue("destination_dropoff"),
		GuestName:          c.FormValue("guest_name"),
		GuestCount:         count,
		Notes:              c.FormValue("notes"),
	}
}

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
