package routes

import (
	"net/http"

	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type PrescriptionService interface {
	GetPrescriptions(query *service.PrescriptionQuery) ([]*service.PrescriptionResponse, apierror.ErrorResponse)
	GetPrescription(id int) (*service.PrescriptionResponse, apierror.ErrorResponse)
	CreatePrescription(req *service.PrescriptionRequest) (*service.PrescriptionResponse, apierror.ErrorResponse)
	UpdatePrescription(id int, req *service.PrescriptionRequest) (*service.PrescriptionResponse, apierror.ErrorResponse)
	DeletePrescription(id int) apierror.ErrorResponse
}

type DefaultPrescriptionRoute struct {
	PrescriptionService PrescriptionService
}

func NewPrescriptionDefault(rxService PrescriptionService) *DefaultPrescriptionRoute {
	return &DefaultPrescriptionRoute{PrescriptionService: rxService}
}

func (p *DefaultPrescriptionRoute) GetPrescriptions(c echo.Context) error {
	var query service.PrescriptionQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedQueryError)
	}

	rxs, apierr := p.PrescriptionService.GetPrescriptions(&query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"prescriptions": rxs}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPrescriptionRoute) GetPrescription(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	rx, apierr := p.PrescriptionService.GetPrescription(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, rx)
}

func (p *DefaultPrescriptionRoute) CreatePrescription(c echo.Context) error {
	var req service.PrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	rx, apierr := p.PrescriptionService.CreatePrescription(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, rx)
}

func (p *DefaultPrescriptionRoute) UpdatePrescription(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	var req service.PrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	rx, apierr := p.PrescriptionService.UpdatePrescription(id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, rx)
}

func (p *DefaultPrescriptionRoute) DeletePrescription(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}

	if apierr := p.PrescriptionService.DeletePrescription(id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
