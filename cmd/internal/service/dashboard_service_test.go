package service

import (
	"strings"
	"testing"

	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/scheduling"
	"clinicdesk/cmd/internal/utils/apierror"
	"clinicdesk/cmd/internal/utils/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clinicFixture struct {
	appointments  *DefaultAppointmentService
	patients      *DefaultPatientService
	prescriptions *DefaultPrescriptionService
	dashboard     *DefaultDashboardService
	reports       *DefaultReportService
}

func newClinicFixture(t *testing.T) *clinicFixture {
	t.Helper()
	db := newTestDB(t)
	validate := validators.New()
	apptRepo := repository.NewAppointmentRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	rxRepo := repository.NewPrescriptionRepository(db)

	f := &clinicFixture{
		appointments:  NewAppointmentService(apptRepo, validate, scheduling.DefaultDayEnd),
		patients:      NewPatientService(patientRepo, validate),
		prescriptions: NewPrescriptionService(rxRepo, patientRepo, validate),
		dashboard:     NewDashboardService(apptRepo, patientRepo, rxRepo),
		reports:       NewReportService(apptRepo, patientRepo, rxRepo, validate),
	}
	f.appointments.Now = fixedNow
	f.patients.Now = fixedNow
	f.dashboard.Now = fixedNow
	return f
}

func (f *clinicFixture) seed(t *testing.T) {
	t.Helper()
	patient, apierr := f.patients.CreatePatient(&PatientRequest{Name: "Ana Lima", Phone: "555-0101"})
	require.Nil(t, apierr)
	_, apierr = f.prescriptions.CreatePrescription(rxRequest(patient.ID))
	require.Nil(t, apierr)

	mustCreate(t, f.appointments, request("Ana Lima", "09:00", 30))
	cancelled := request("Bruno Reis", "10:00", 30)
	cancelled.Status = "cancelled"
	mustCreate(t, f.appointments, cancelled)
	later := request("Carla, \"CJ\" Dias", "11:00", 45)
	later.Date = "2026-11-05"
	mustCreate(t, f.appointments, later)
}

func TestGetDashboard(t *testing.T) {
	f := newClinicFixture(t)
	f.seed(t)

	resp, apierr := f.dashboard.GetDashboard()
	require.Nil(t, apierr)

	assert.Equal(t, testDay, resp.Date)
	assert.Equal(t, int64(1), resp.TotalPatients)
	assert.Equal(t, 1, resp.AppointmentsToday)
	assert.Equal(t, int64(2), resp.UpcomingAppointments)
	assert.Equal(t, int64(1), resp.ActivePrescriptions)
	assert.Equal(t, map[string]int64{"scheduled": 2, "completed": 0, "cancelled": 1, "no-show": 0}, resp.AppointmentsByStatus)
	require.Len(t, resp.TodaysAgenda, 1)
	assert.Equal(t, "Ana Lima", resp.TodaysAgenda[0].PatientName)
}

func TestGetDashboard_EmptyClinic(t *testing.T) {
	f := newClinicFixture(t)

	resp, apierr := f.dashboard.GetDashboard()
	require.Nil(t, apierr)
	assert.Zero(t, resp.AppointmentsToday)
	assert.NotNil(t, resp.TodaysAgenda)
	assert.Len(t, resp.AppointmentsByStatus, 4)
}

func TestExportAppointments(t *testing.T) {
	f := newClinicFixture(t)
	f.seed(t)

	report, apierr := f.reports.ExportAppointments(&ReportQuery{})
	require.Nil(t, apierr)
	assert.Equal(t, "appointments.csv", report.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", report.ContentType)

	lines := strings.Split(strings.TrimSpace(string(report.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,patient_name,date,time,end_time,duration_minutes,type,status,notes", lines[0])
	assert.Contains(t, lines[1], "Ana Lima,2026-11-02,09:00,09:30,30,consultation,scheduled")
	assert.Contains(t, string(report.Data), `"Carla, ""CJ"" Dias"`)

	report, apierr = f.reports.ExportAppointments(&ReportQuery{From: "2026-11-03", To: "2026-11-30"})
	require.Nil(t, apierr)
	assert.Equal(t, "appointments_2026-11-03_2026-11-30.csv", report.Filename)
	assert.Len(t, strings.Split(strings.TrimSpace(string(report.Data)), "\n"), 2)

	report, apierr = f.reports.ExportAppointments(&ReportQuery{From: "2026-11-03"})
	require.Nil(t, apierr)
	assert.Equal(t, "appointments_from_2026-11-03.csv", report.Filename)
}

func TestExportAppointments_InvalidRange(t *testing.T) {
	f := newClinicFixture(t)

	_, apierr := f.reports.ExportAppointments(&ReportQuery{From: "2026-11-10", To: "2026-11-01"})
	assert.Equal(t, apierror.InvalidDateRangeError, apierr)

	_, apierr = f.reports.ExportAppointments(&ReportQuery{From: "10/11/2026"})
	assert.Equal(t, []string{"from"}, validationFields(t, apierr))
}

func TestExportPatientsAndPrescriptions(t *testing.T) {
	f := newClinicFixture(t)
	f.seed(t)

	report, apierr := f.reports.ExportPatients()
	require.Nil(t, apierr)
	assert.Equal(t, "patients.csv", report.Filename)
	assert.Contains(t, string(report.Data), "Ana Lima,,,555-0101")

	report, apierr = f.reports.ExportPrescriptions()
	require.Nil(t, apierr)
	assert.Equal(t, "prescriptions.csv", report.Filename)
	assert.Contains(t, string(report.Data), "Ana Lima,Amoxicillin,500mg,every 8 hours,2026-11-01,,active,Dr. Reis")
}
