package routes

import (
	"net/http"

	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type DashboardService interface {
	GetDashboard() (*service.DashboardResponse, apierror.ErrorResponse)
}

type DefaultDashboardRoute struct {
	DashboardService DashboardService
}

func NewDashboardDefault(dashboardService DashboardService) *DefaultDashboardRoute {
	return &DefaultDashboardRoute{DashboardService: dashboardService}
}

func (d *DefaultDashboardRoute) GetDashboard(c echo.Context) error {
	resp, apierr := d.DashboardService.GetDashboard()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
