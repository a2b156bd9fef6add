package service

import (
	"time"

	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/scheduling"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PatientRepository interface {
	Save(patient *entity.Patient) error
	FindByID(id int) (*entity.Patient, error)
	FindAll(search string) ([]*entity.Patient, error)
	Count() (int64, error)
	Delete(patient *entity.Patient) error
}

type PatientRequest struct {
	Name           string  `json:"name" validate:"required,max=128"`
	DateOfBirth    string  `json:"dateOfBirth" validate:"omitempty,isodate"`
	Gender         string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Phone          string  `json:"phone" validate:"max=32"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Address        string  `json:"address" validate:"max=256"`
	MedicalHistory *string `json:"medicalHistory" validate:"omitempty,max=4000"`
}

type PatientResponse struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	DateOfBirth    string  `json:"dateOfBirth"`
	Gender         string  `json:"gender"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Address        string  `json:"address"`
	MedicalHistory *string `json:"medicalHistory"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type DefaultPatientService struct {
	PatientRepo PatientRepository
	Validate    *validator.Validate
	Now         func() time.Time
}

func NewPatientService(patientRepo PatientRepository, validate *validator.Validate) *DefaultPatientService {
	return &DefaultPatientService{PatientRepo: patientRepo, Validate: validate, Now: time.Now}
}

func (p *DefaultPatientService) GetPatients(search string) ([]*PatientResponse, apierror.ErrorResponse) {
	patients, err := p.PatientRepo.FindAll(search)
	if err != nil {
		log.Errorf("failed to list patients: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*PatientResponse, len(patients))
	for i, patient := range patients {
		resp[i] = toPatientResponse(patient)
	}
	return resp, nil
}

func (p *DefaultPatientService) GetPatient(id int) (*PatientResponse, apierror.ErrorResponse) {
	patient, apierr := p.fetch(id)
	if apierr != nil {
		return nil, apierr
	}
	return toPatientResponse(patient), nil
}

func (p *DefaultPatientService) CreatePatient(req *PatientRequest) (*PatientResponse, apierror.ErrorResponse) {
	if apierr := p.validate(req); apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	patient := &entity.Patient{CreatedAt: now}
	applyPatientRequest(patient, req)
	patient.UpdatedAt = now

	if err := p.PatientRepo.Save(patient); err != nil {
		log.Errorf("failed to save patient: %v", err)
		return nil, apierror.InternalServerError
	}
	return toPatientResponse(patient), nil
}

func (p *DefaultPatientService) UpdatePatient(id int, req *PatientRequest) (*PatientResponse, apierror.ErrorResponse) {
	patient, apierr := p.fetch(id)
	if apierr != nil {
		return nil, apierr
	}
	if apierr := p.validate(req); apierr != nil {
		return nil, apierr
	}

	applyPatientRequest(patient, req)
	patient.UpdatedAt = utils.NowUTC()
	if err := p.PatientRepo.Save(patient); err != nil {
		log.Errorf("failed to update patient %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toPatientResponse(patient), nil
}

func (p *DefaultPatientService) DeletePatient(id int) apierror.ErrorResponse {
	patient, apierr := p.fetch(id)
	if apierr != nil {
		return apierr
	}
	if err := p.PatientRepo.Delete(patient); err != nil {
		log.Errorf("failed to delete patient %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (p *DefaultPatientService) validate(req *PatientRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if valerr := p.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	if req.DateOfBirth != "" {
		dob, _ := scheduling.ParseDate(req.DateOfBirth)
		if dob.After(p.Now()) {
			return apierror.BirthDateInFutureError
		}
	}
	return nil
}

func (p *DefaultPatientService) fetch(id int) (*entity.Patient, apierror.ErrorResponse) {
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

func applyPatientRequest(patient *entity.Patient, req *PatientRequest) {
	patient.Name = req.Name
	patient.DateOfBirth = req.DateOfBirth
	patient.Gender = req.Gender
	patient.Phone = req.Phone
	patient.Email = req.Email
	patient.Address = req.Address
	patient.MedicalHistory = utils.EmptyToNil(req.MedicalHistory)
}

func toPatientResponse(patient *entity.Patient) *PatientResponse {
	return &PatientResponse{
		ID:             patient.ID,
		Name:           patient.Name,
		DateOfBirth:    patient.DateOfBirth,
		Gender:         patient.Gender,
		Phone:          patient.Phone,
		Email:          patient.Email,
		Address:        patient.Address,
		MedicalHistory: patient.MedicalHistory,
		CreatedAt:      utils.FormatEpoch(patient.CreatedAt),
		UpdatedAt:      utils.FormatEpoch(patient.UpdatedAt),
	}
}
