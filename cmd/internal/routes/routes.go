package routes

import (
	"net/http"
	"strconv"

	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

// pathID reads the numeric ":id" path parameter. On failure the 400 response
// has already been written and the returned error is what the handler returns.
func pathID(c echo.Context) (int, bool, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		errResp := apierror.NewSimple(http.StatusBadRequest, "ID is not a number")
		return 0, false, c.JSON(errResp.Code(), errResp)
	}
	return id, true, nil
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
