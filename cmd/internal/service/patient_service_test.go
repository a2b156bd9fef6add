package service

import (
	"testing"

	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/utils/apierror"
	"clinicdesk/cmd/internal/utils/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatientService(t *testing.T) *DefaultPatientService {
	t.Helper()
	svc := NewPatientService(repository.NewPatientRepository(newTestDB(t)), validators.New())
	svc.Now = fixedNow
	return svc
}

func TestPatientService_CRUD(t *testing.T) {
	svc := newPatientService(t)

	created, apierr := svc.CreatePatient(&PatientRequest{Name: " Ana Lima ", DateOfBirth: "1990-05-01", Gender: "female", Email: "ana@example.com"})
	require.Nil(t, apierr)
	assert.Equal(t, "Ana Lima", created.Name)

	history := "asthma"
	updated, apierr := svc.UpdatePatient(created.ID, &PatientRequest{Name: "Ana Lima", Phone: "555-0101", MedicalHistory: &history})
	require.Nil(t, apierr)
	assert.Equal(t, "555-0101", updated.Phone)
	require.NotNil(t, updated.MedicalHistory)
	assert.Equal(t, "asthma", *updated.MedicalHistory)

	list, apierr := svc.GetPatients("0101")
	require.Nil(t, apierr)
	assert.Len(t, list, 1)

	require.Nil(t, svc.DeletePatient(created.ID))
	_, apierr = svc.GetPatient(created.ID)
	assert.Equal(t, apierror.PatientNotFoundError, apierr)
}

func TestPatientService_Validation(t *testing.T) {
	svc := newPatientService(t)

	_, apierr := svc.CreatePatient(&PatientRequest{Name: ""})
	assert.Equal(t, []string{"name"}, validationFields(t, apierr))

	_, apierr = svc.CreatePatient(&PatientRequest{Name: "Ana", Email: "not-an-email"})
	assert.Equal(t, []string{"email"}, validationFields(t, apierr))

	_, apierr = svc.CreatePatient(&PatientRequest{Name: "Ana", Gender: "unknown"})
	assert.Equal(t, []string{"gender"}, validationFields(t, apierr))

	_, apierr = svc.CreatePatient(&PatientRequest{Name: "Ana", DateOfBirth: "2030-01-01"})
	assert.Equal(t, apierror.BirthDateInFutureError, apierr)
}
