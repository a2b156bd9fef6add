package service

import (
	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PrescriptionRepository interface {
	Save(rx *entity.Prescription) error
	FindByID(id int) (*entity.Prescription, error)
	FindAll(filter repository.PrescriptionFilter) ([]*entity.Prescription, error)
	CountByStatus(status entity.PrescriptionStatus) (int64, error)
	Delete(rx *entity.Prescription) error
}

type PrescriptionRequest struct {
	PatientID    int     `json:"patientId" validate:"required,gt=0"`
	Medication   string  `json:"medication" validate:"required,max=128"`
	Dosage       string  `json:"dosage" validate:"required,max=64"`
	Frequency    string  `json:"frequency" validate:"required,max=64"`
	StartDate    string  `json:"startDate" validate:"required,isodate"`
	EndDate      *string `json:"endDate" validate:"omitempty,isodate"`
	Status       string  `json:"status" validate:"omitempty,rxstatus"`
	Instructions *string `json:"instructions" validate:"omitempty,max=2000"`
	PrescribedBy string  `json:"prescribedBy" validate:"max=128"`
}

type PrescriptionQuery struct {
	PatientID int    `query:"patientId" json:"patientId" validate:"gte=0"`
	Status    string `query:"status" json:"status" validate:"omitempty,rxstatus"`
}

type PrescriptionResponse struct {
	ID           int     `json:"id"`
	PatientID    int     `json:"patientId"`
	PatientName  string  `json:"patientName"`
	Medication   string  `json:"medication"`
	Dosage       string  `json:"dosage"`
	Frequency    string  `json:"frequency"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Status       string  `json:"status"`
	Instructions *string `json:"instructions"`
	PrescribedBy string  `json:"prescribedBy"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type DefaultPrescriptionService struct {
	PrescriptionRepo PrescriptionRepository
	PatientRepo      PatientRepository
	Validate         *validator.Validate
}

func NewPrescriptionService(rxRepo PrescriptionRepository, patientRepo PatientRepository, validate *validator.Validate) *DefaultPrescriptionService {
	return &DefaultPrescriptionService{PrescriptionRepo: rxRepo, PatientRepo: patientRepo, Validate: validate}
}

func (p *DefaultPrescriptionService) GetPrescriptions(query *PrescriptionQuery) ([]*PrescriptionResponse, apierror.ErrorResponse) {
	utils.Sanitize(query)
	if valerr := p.Validate.Struct(query); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	rxs, err := p.PrescriptionRepo.FindAll(repository.PrescriptionFilter{
		PatientID: query.PatientID,
		Status:    entity.PrescriptionStatus(query.Status),
	})
	if err != nil {
		log.Errorf("failed to list prescriptions: %v", err)
		return nil, apierror.InternalServerError
	}

	names, apierr := p.patientNames()
	if apierr != nil {
		return nil, apierr
	}

	resp := make([]*PrescriptionResponse, len(rxs))
	for i, rx := range rxs {
		resp[i] = toPrescriptionResponse(rx, names[rx.PatientID])
	}
	return resp, nil
}

func (p *DefaultPrescriptionService) GetPrescription(id int) (*PrescriptionResponse, apierror.ErrorResponse) {
	rx, apierr := p.fetch(id)
	if apierr != nil {
		return nil, apierr
	}
	patient, apierr := p.fetchPatient(rx.PatientID)
	if apierr != nil {
		return nil, apierr
	}
	return toPrescriptionResponse(rx, patient.Name), nil
}

func (p *DefaultPrescriptionService) CreatePrescription(req *PrescriptionRequest) (*PrescriptionResponse, apierror.ErrorResponse) {
	patient, apierr := p.validate(req)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	rx := &entity.Prescription{Status: entity.PrescriptionActive, CreatedAt: now}
	applyPrescriptionRequest(rx, req)
	rx.UpdatedAt = now

	if err := p.PrescriptionRepo.Save(rx); err != nil {
		log.Errorf("failed to save prescription: %v", err)
		return nil, apierror.InternalServerError
	}
	return toPrescriptionResponse(rx, patient.Name), nil
}

func (p *DefaultPrescriptionService) UpdatePrescription(id int, req *PrescriptionRequest) (*PrescriptionResponse, apierror.ErrorResponse) {
	rx, apierr := p.fetch(id)
	if apierr != nil {
		return nil, apierr
	}
	patient, apierr := p.validate(req)
	if apierr != nil {
		return nil, apierr
	}

	applyPrescriptionRequest(rx, req)
	rx.UpdatedAt = utils.NowUTC()
	if err := p.PrescriptionRepo.Save(rx); err != nil {
		log.Errorf("failed to update prescription %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toPrescriptionResponse(rx, patient.Name), nil
}

func (p *DefaultPrescriptionService) DeletePrescription(id int) apierror.ErrorResponse {
	rx, apierr := p.fetch(id)
	if apierr != nil {
		return apierr
	}
	if err := p.PrescriptionRepo.Delete(rx); err != nil {
		log.Errorf("failed to delete prescription %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (p *DefaultPrescriptionService) validate(req *PrescriptionRequest) (*entity.Patient, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := p.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	// ISO dates compare correctly as strings.
	if req.EndDate != nil && *req.EndDate != "" && *req.EndDate < req.StartDate {
		return nil, apierror.InvalidDateRangeError
	}
	return p.fetchPatient(req.PatientID)
}

func (p *DefaultPrescriptionService) fetch(id int) (*entity.Prescription, apierror.ErrorResponse) {
	rx, err := p.PrescriptionRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch prescription by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if rx == nil {
		return nil, apierror.NotFoundError
	}
	return rx, nil
}

func (p *DefaultPrescriptionService) fetchPatient(id int) (*entity.Patient, apierror.ErrorResponse) {
	patient, err := p.PatientRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch patient by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if patient == nil {
		return nil, apierror.PatientNotFoundError
	}
	return patient, nil
}

func (p *DefaultPrescriptionService) patientNames() (map[int]string, apierror.ErrorResponse) {
	patients, err := p.PatientRepo.FindAll("")
	if err != nil {
		log.Errorf("failed to list patients: %v", err)
		return nil, apierror.InternalServerError
	}
	names := make(map[int]string, len(patients))
	for _, patient := range patients {
		names[patient.ID] = patient.Name
	}
	return names, nil
}

func applyPrescriptionRequest(rx *entity.Prescription, req *PrescriptionRequest) {
	rx.PatientID = req.PatientID
	rx.Medication = req.Medication
	rx.Dosage = req.Dosage
	rx.Frequency = req.Frequency
	rx.StartDate = req.StartDate
	rx.EndDate = utils.EmptyToNil(req.EndDate)
	rx.Instructions = utils.EmptyToNil(req.Instructions)
	rx.PrescribedBy = req.PrescribedBy
	if req.Status != "" {
		rx.Status = entity.PrescriptionStatus(req.Status)
	}
}

func toPrescriptionResponse(rx *entity.Prescription, patientName string) *PrescriptionResponse {
	return &PrescriptionResponse{
		ID:           rx.ID,
		PatientID:    rx.PatientID,
		PatientName:  patientName,
		Medication:   rx.Medication,
		Dosage:       rx.Dosage,
		Frequency:    rx.Frequency,
		StartDate:    rx.StartDate,
		EndDate:      rx.EndDate,
		Status:       string(rx.Status),
		Instructions: rx.Instructions,
		PrescribedBy: rx.PrescribedBy,
		CreatedAt:    utils.FormatEpoch(rx.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(rx.UpdatedAt),
	}
}
