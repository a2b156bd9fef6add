package service

import (
	"time"

	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/scheduling"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/labstack/gommon/log"
)

type DashboardResponse struct {
	Date                 string                 `json:"date"`
	TotalPatients        int64                  `json:"totalPatients"`
	AppointmentsToday    int                    `json:"appointmentsToday"`
	UpcomingAppointments int64                  `json:"upcomingAppointments"`
	AppointmentsByStatus map[string]int64       `json:"appointmentsByStatus"`
	ActivePrescriptions  int64                  `json:"activePrescriptions"`
	TodaysAgenda         []*AppointmentResponse `json:"todaysAgenda"`
}

type DefaultDashboardService struct {
	AppointmentRepo  AppointmentRepository
	PatientRepo      PatientRepository
	PrescriptionRepo PrescriptionRepository
	Now              func() time.Time
}

func NewDashboardService(apptRepo AppointmentRepository, patientRepo PatientRepository, rxRepo PrescriptionRepository) *DefaultDashboardService {
	return &DefaultDashboardService{
		AppointmentRepo:  apptRepo,
		PatientRepo:      patientRepo,
		PrescriptionRepo: rxRepo,
		Now:              time.Now,
	}
}

// GetDashboard summarizes the clinic for the current local day. Every status
// appears in AppointmentsByStatus, with zero when there are none.
func (d *DefaultDashboardService) GetDashboard() (*DashboardResponse, apierror.ErrorResponse) {
	today := d.Now().Format(scheduling.DateLayout)

	patients, err := d.PatientRepo.Count()
	if err != nil {
		log.Errorf("dashboard: failed to count patients: %v", err)
		return nil, apierror.InternalServerError
	}

	agenda, err := d.AppointmentRepo.FindAll(repository.AppointmentFilter{Date: today})
	if err != nil {
		log.Errorf("dashboard: failed to list today's appointments: %v", err)
		return nil, apierror.InternalServerError
	}

	upcoming, err := d.AppointmentRepo.CountUpcoming(today)
	if err != nil {
		log.Errorf("dashboard: failed to count upcoming appointments: %v", err)
		return nil, apierror.InternalServerError
	}

	counts, err := d.AppointmentRepo.CountByStatus()
	if err != nil {
		log.Errorf("dashboard: failed to count appointments by status: %v", err)
		return nil, apierror.InternalServerError
	}

	active, err := d.PrescriptionRepo.CountByStatus(entity.PrescriptionActive)
	if err != nil {
		log.Errorf("dashboard: failed to count active prescriptions: %v", err)
		return nil, apierror.InternalServerError
	}

	byStatus := map[string]int64{
		string(entity.StatusScheduled): 0,
		string(entity.StatusCompleted): 0,
		string(entity.StatusCancelled): 0,
		string(entity.StatusNoShow):    0,
	}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	resp := &DashboardResponse{
		Date:                 today,
		TotalPatients:        patients,
		UpcomingAppointments: upcoming,
		AppointmentsByStatus: byStatus,
		ActivePrescriptions:  active,
		TodaysAgenda:         make([]*AppointmentResponse, 0, len(agenda)),
	}
	for _, appt := range agenda {
		if appt.Status != entity.StatusCancelled {
			resp.TodaysAgenda = append(resp.TodaysAgenda, toAppointmentResponse(appt))
		}
	}
	resp.AppointmentsToday = len(resp.TodaysAgenda)
	return resp, nil
}
