package routes

import (
	"fmt"
	"net/http"

	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type ReportService interface {
	ExportAppointments(query *service.ReportQuery) (*service.Report, apierror.ErrorResponse)
	ExportPatients() (*service.Report, apierror.ErrorResponse)
	ExportPrescriptions() (*service.Report, apierror.ErrorResponse)
}

type DefaultReportRoute struct {
	ReportService ReportService
}

func NewReportDefault(reportService ReportService) *DefaultReportRoute {
	return &DefaultReportRoute{ReportService: reportService}
}

func (r *DefaultReportRoute) ExportAppointments(c echo.Context) error {
	var query service.ReportQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedQueryError)
	}
	return sendReport(c)(r.ReportService.ExportAppointments(&query))
}

func (r *DefaultReportRoute) ExportPatients(c echo.Context) error {
	return sendReport(c)(r.ReportService.ExportPatients())
}

func (r *DefaultReportRoute) ExportPrescriptions(c echo.Context) error {
	return sendReport(c)(r.ReportService.ExportPrescriptions())
}

func sendReport(c echo.Context) func(*service.Report, apierror.ErrorResponse) error {
	return func(report *service.Report, apierr apierror.ErrorResponse) error {
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename))
		return c.Blob(http.StatusOK, report.ContentType, report.Data)
	}
}
