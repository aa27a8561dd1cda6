package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness check behind GET /healthz.  It never touches the
// transfer store.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
