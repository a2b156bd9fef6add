package routes

import (
	"net/http"
	"strings"

	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type PatientService interface {
	GetPatients(search string) ([]*service.PatientResponse, apierror.ErrorResponse)
	GetPatient(id int) (*service.PatientResponse, apierror.ErrorResponse)
	CreatePatient(req *service.PatientRequest) (*service.PatientResponse, apierror.ErrorResponse)
	UpdatePatient(id int, req *service.PatientRequest) (*service.PatientResponse, apierror.ErrorResponse)
	DeletePatient(id int) apierror.ErrorResponse
}

type DefaultPatientRoute struct {
	PatientService PatientService
}

func NewPatientDefault(patientService PatientService) *DefaultPatientRoute {
	return &DefaultPatientRoute{PatientService: patientService}
}

func (p *DefaultPatientRoute) GetPatients(c echo.Context) error {
	patients, apierr := p.PatientService.GetPatients(strings.TrimSpace(c.QueryParam("search")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"patients": patients}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPatientRoute) GetPatient(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	patient, apierr := p.PatientService.GetPatient(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, patient)
}

func (p *DefaultPatientRoute) CreatePatient(c echo.Context) error {
	var req service.PatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	patient, apierr := p.PatientService.CreatePatient(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, patient)
}

func (p *DefaultPatientRoute) UpdatePatient(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	var req service.PatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	patient, apierr := p.PatientService.UpdatePatient(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, patient)
}

func (p *DefaultPatientRoute) DeletePatient(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	if apierr := p.PatientService.DeletePatient(id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
