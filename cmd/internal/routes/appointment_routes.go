package routes

import (
	"net/http"

	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	GetAppointments(query *service.AppointmentQuery) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	GetAppointment(id int) (*service.AppointmentResponse, apierror.ErrorResponse)
	CreateAppointment(req *service.AppointmentRequest) (*service.AppointmentResponse, apierror.ErrorResponse)
	UpdateAppointment(id int, req *service.AppointmentRequest) (*service.AppointmentResponse, apierror.ErrorResponse)
	UpdateStatus(id int, req *service.StatusRequest) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(id int) apierror.ErrorResponse
	CheckAvailability(query *service.AvailabilityQuery) (*service.AvailabilityResponse, apierror.ErrorResponse)
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	var query service.AppointmentQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedQueryError)
	}

	appts, apierr := a.AppointmentService.GetAppointments(&query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) GetAppointment(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	appt, apierr := a.AppointmentService.GetAppointment(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) UpdateAppointment(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	appt, apierr := a.AppointmentService.UpdateAppointment(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) UpdateStatus(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	var req service.StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	appt, apierr := a.AppointmentService.UpdateStatus(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	if apierr := a.AppointmentService.DeleteAppointment(id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetAvailability answers "can I book this slot?" without writing anything.
// Pseudo-entity "calendar", kept separate from the appointment resource.
func (a *DefaultAppointmentRoute) GetAvailability(c echo.Context) error {
	for _, param := range []string{"date", "time", "duration"} {
		if c.QueryParam(param) == "" {
			return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError(param))
		}
	}

	var query service.AvailabilityQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedQueryError)
	}

	resp, apierr := a.AppointmentService.CheckAvailability(&query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
