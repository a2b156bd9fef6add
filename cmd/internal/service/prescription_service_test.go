package service

import (
	"testing"

	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/utils/apierror"
	"clinicdesk/cmd/internal/utils/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrescriptionService(t *testing.T) (*DefaultPrescriptionService, *DefaultPatientService) {
	t.Helper()
	db := newTestDB(t)
	patientRepo := repository.NewPatientRepository(db)
	patients := NewPatientService(patientRepo, validators.New())
	patients.Now = fixedNow
	return NewPrescriptionService(repository.NewPrescriptionRepository(db), patientRepo, validators.New()), patients
}

func rxRequest(patientID int) *PrescriptionRequest {
	return &PrescriptionRequest{
		PatientID:    patientID,
		Medication:   "Amoxicillin",
		Dosage:       "500mg",
		Frequency:    "every 8 hours",
		StartDate:    "2026-11-01",
		PrescribedBy: "Dr. Reis",
	}
}

func TestPrescriptionService_CRUD(t *testing.T) {
	svc, patients := newPrescriptionService(t)
	patient, apierr := patients.CreatePatient(&PatientRequest{Name: "Ana"})
	require.Nil(t, apierr)

	created, apierr := svc.CreatePrescription(rxRequest(patient.ID))
	require.Nil(t, apierr)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, "Ana", created.PatientName)

	req := rxRequest(patient.ID)
	end := "2026-11-10"
	req.EndDate = &end
	req.Status = "completed"
	updated, apierr := svc.UpdatePrescription(created.ID, req)
	require.Nil(t, apierr)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, &end, updated.EndDate)

	list, apierr := svc.GetPrescriptions(&PrescriptionQuery{PatientID: patient.ID, Status: "completed"})
	require.Nil(t, apierr)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].PatientName)

	require.Nil(t, svc.DeletePrescription(created.ID))
	_, apierr = svc.GetPrescription(created.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestPrescriptionService_Rules(t *testing.T) {
	svc, patients := newPrescriptionService(t)
	patient, apierr := patients.CreatePatient(&PatientRequest{Name: "Ana"})
	require.Nil(t, apierr)

	_, apierr = svc.CreatePrescription(rxRequest(999))
	assert.Equal(t, apierror.PatientNotFoundError, apierr)

	req := rxRequest(patient.ID)
	end := "2026-10-01"
	req.EndDate = &end
	_, apierr = svc.CreatePrescription(req)
	assert.Equal(t, apierror.InvalidDateRangeError, apierr)

	req = rxRequest(patient.ID)
	req.Medication = ""
	_, apierr = svc.CreatePrescription(req)
	assert.Equal(t, []string{"medication"}, validationFields(t, apierr))

	req = rxRequest(patient.ID)
	req.Status = "paused"
	_, apierr = svc.CreatePrescription(req)
	assert.Equal(t, []string{"status"}, validationFields(t, apierr))
}
