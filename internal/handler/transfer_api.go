package handler // JSON API for transfers under /api/v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/model"
	"github.com/iliyamo/flight-transfer-admin/internal/repository"
)

// TransferHandler exposes the transfer store as a JSON API.
type TransferHandler struct {
	Store  repository.TransferStore
	Logger *zap.Logger
}

// NewTransferHandler returns a handler over store.
func NewTransferHandler(store repository.TransferStore, logger *zap.Logger) *TransferHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferHandler{Store: store, Logger: logger}
}

// storeFailure maps a store error to a response: unknown ids are 404,
// anything else means the backend could not serve the call.
func storeFailure(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrTransferNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "transfer not found"})
	}
	return c.JSON(http.StatusBadGateway, map[string]string{"error": "store unavailable"})
}

func validationFailure(c echo.Context, errs model.FieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		"error":  "validation_failed",
		"fields": errs,
	})
}

// List handles GET /api/v1/transfers.  The optional q and date parameters
// narrow the result the same way the dashboard filters do.
func (h *TransferHandler) List(c echo.Context) error {
	items, err := h.Store.List(c.Request().Context()) // fetch everything, newest first
	if err != nil {
		return storeFailure(c, err)
	}
	crit := model.ParseCriteria(c.QueryParam("q"), c.QueryParam("date"))
	visible := model.Filter(items, crit)
	return c.JSON(http.StatusOK, map[string]any{"items": visible, "count": len(visible)})
}

// Get handles GET /api/v1/transfers/:id
func (h *TransferHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	t, err := repository.Find(c.Request().Context(), h.Store, id)
	if err != nil {
		return storeFailure(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /api/v1/transfers
func (h *TransferHandler) Create(c echo.Context) error {
	var f model.TransferFields
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	f = f.Normalize()
	if errs := model.Validate(f); len(errs) > 0 {
		return validationFailure(c, errs)
	}
	t, err := h.Store.Insert(c.Request().Context(), f)
	if err != nil {
		return storeFailure(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /api/v1/transfers/:id and replaces every field.
func (h *TransferHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var f model.TransferFields
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	return h.save(c, id, f)
}

// Patch handles PATCH /api/v1/transfers/:id.  Fields missing from the body
// keep their stored value.
func (h *TransferHandler) Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	current, err := repository.Find(c.Request().Context(), h.Store, id)
	if err != nil {
		return storeFailure(c, err)
	}
	f := current.TransferFields
	if err := c.Bind(&f); err != nil { // decoding over the stored fields keeps absent keys
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	return h.save(c, id, f)
}

func (h *TransferHandler) save(c echo.Context, id uint64, f model.TransferFields) error {
	f = f.Normalize()
	if errs := model.Validate(f); len(errs) > 0 {
		return validationFailure(c, errs)
	}
	if err := h.Store.Update(c.Request().Context(), id, f); err != nil {
		return storeFailure(c, err)
	}
	return c.JSON(http.StatusOK, model.Transfer{ID: id, TransferFields: f})
}

// Delete handles DELETE /api/v1/transfers/:id
func (h *TransferHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		return storeFailure(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
