package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/scheduling"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const csvContentType = "text/csv; charset=utf-8"

type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ReportQuery struct {
	From string `query:"from" json:"from" validate:"omitempty,isodate"`
	To   string `query:"to" json:"to" validate:"omitempty,isodate"`
}

type DefaultReportService struct {
	AppointmentRepo  AppointmentRepository
	PatientRepo      PatientRepository
	PrescriptionRepo PrescriptionRepository
	Validate         *validator.Validate
}

func NewReportService(apptRepo AppointmentRepository, patientRepo PatientRepository, rxRepo PrescriptionRepository, validate *validator.Validate) *DefaultReportService {
	return &DefaultReportService{
		AppointmentRepo:  apptRepo,
		PatientRepo:      patientRepo,
		PrescriptionRepo: rxRepo,
		Validate:         validate,
	}
}

func (r *DefaultReportService) ExportAppointments(query *ReportQuery) (*Report, apierror.ErrorResponse) {
	utils.Sanitize(query)
	if valerr := r.Validate.Struct(query); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}
	if query.From != "" && query.To != "" && query.To < query.From {
		return nil, apierror.InvalidDateRangeError
	}

	appts, err := r.AppointmentRepo.FindAll(repository.AppointmentFilter{From: query.From, To: query.To})
	if err != nil {
		log.Errorf("report: failed to list appointments: %v", err)
		return nil, apierror.InternalServerError
	}

	rows := [][]string{{"id", "patient_name", "date", "time", "end_time", "duration_minutes", "type", "status", "notes"}}
	for _, a := range appts {
		rows = append(rows, []string{
			strconv.Itoa(a.ID),
			a.PatientName,
			a.Date,
			a.Time,
			scheduling.FormatClock(a.EndMinutes()),
			strconv.Itoa(a.Duration),
			a.Type,
			string(a.Status),
			deref(a.Notes),
		})
	}
	return r.render(appointmentsFilename(query), rows)
}

func (r *DefaultReportService) ExportPatients() (*Report, apierror.ErrorResponse) {
	patients, err := r.PatientRepo.FindAll("")
	if err != nil {
		log.Errorf("report: failed to list patients: %v", err)
		return nil, apierror.InternalServerError
	}

	rows := [][]string{{"id", "name", "date_of_birth", "gender", "phone", "email", "address"}}
	for _, p := range patients {
		rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, p.DateOfBirth, p.Gender, p.Phone, p.Email, p.Address})
	}
	return r.render("patients.csv", rows)
}

func (r *DefaultReportService) ExportPrescriptions() (*Report, apierror.ErrorResponse) {
	rxs, err := r.PrescriptionRepo.FindAll(repository.PrescriptionFilter{})
	if err != nil {
		log.Errorf("report: failed to list prescriptions: %v", err)
		return nil, apierror.InternalServerError
	}
	patients, err := r.PatientRepo.FindAll("")
	if err != nil {
		log.Errorf("report: failed to list patients: %v", err)
		return nil, apierror.InternalServerError
	}
	names := make(map[int]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.Name
	}

	rows := [][]string{{"id", "patient_id", "patient_name", "medication", "dosage", "frequency", "start_date", "end_date", "status", "prescribed_by"}}
	for _, rx := range rxs {
		rows = append(rows, []string{
			strconv.Itoa(rx.ID),
			strconv.Itoa(rx.PatientID),
			names[rx.PatientID],
			rx.Medication,
			rx.Dosage,
			rx.Frequency,
			rx.StartDate,
			deref(rx.EndDate),
			string(rx.Status),
			rx.PrescribedBy,
		})
	}
	return r.render("prescriptions.csv", rows)
}

func (r *DefaultReportService) render(filename string, rows [][]string) (*Report, apierror.ErrorResponse) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		log.Errorf("report: failed to write %s: %v", filename, err)
		return nil, apierror.InternalServerError
	}
	return &Report{Filename: filename, ContentType: csvContentType, Data: buf.Bytes()}, nil
}

func appointmentsFilename(query *ReportQuery) string {
	switch {
	case query.From != "" && query.To != "":
		return fmt.Sprintf("appointments_%s_%s.csv", query.From, query.To)
	case query.From != "":
		return fmt.Sprintf("appointments_from_%s.csv", query.From)
	case query.To != "":
		return fmt.Sprintf("appointments_until_%s.csv", query.To)
	}
	return "appointments.csv"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
