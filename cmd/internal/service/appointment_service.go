package service

import (
	"sync"
	"time"

	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/scheduling"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	Save(appointment *entity.Appointment) error
	FindByID(id int) (*entity.Appointment, error)
	FindAll(filter repository.AppointmentFilter) ([]*entity.Appointment, error)
	FindActiveByDate(date string, excludeID int) ([]*entity.Appointment, error)
	CountByStatus() ([]repository.StatusCount, error)
	CountUpcoming(fromDate string) (int64, error)
	Delete(appointment *entity.Appointment) error
}

type AppointmentRequest struct {
	PatientName string  `json:"patientName" validate:"required,max=128"`
	Date        string  `json:"date" validate:"required,isodate"`
	Time        string  `json:"time" validate:"required,clock"`
	Duration    int     `json:"duration" validate:"gt=0,lte=1440"`
	Type        string  `json:"type" validate:"max=64"`
	Status      string  `json:"status" validate:"omitempty,apptstatus"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
	// Force books the slot even when it overlaps another appointment.
	Force bool `json:"force"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,apptstatus"`
	Force  bool   `json:"force"`
}

type AppointmentQuery struct {
	Date    string `query:"date" json:"date" validate:"omitempty,isodate"`
	From    string `query:"from" json:"from" validate:"omitempty,isodate"`
	To      string `query:"to" json:"to" validate:"omitempty,isodate"`
	Status  string `query:"status" json:"status" validate:"omitempty,apptstatus"`
	Patient string `query:"patient" json:"patient" validate:"max=128"`
}

type AvailabilityQuery struct {
	Date      string `query:"date" json:"date" validate:"required,isodate"`
	Time      string `query:"time" json:"time" validate:"required,clock"`
	Duration  int    `query:"duration" json:"duration" validate:"gt=0,lte=1440"`
	ExcludeID int    `query:"exclude" json:"exclude" validate:"gte=0"`
}

type AppointmentResponse struct {
	ID          int     `json:"id"`
	PatientName string  `json:"patientName"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	EndTime     string  `json:"endTime"`
	Duration    int     `json:"duration"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type AvailabilityResponse struct {
	Available  bool                     `json:"available"`
	Conflict   *apierror.ConflictDetail `json:"conflict"`
	Suggestion *string                  `json:"suggestion"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	Validate        *validator.Validate
	// DayEnd is the closing time in minutes since midnight; suggested slots
	// never run past it.
	DayEnd int
	Now    func() time.Time

	locks dayLocks
}

func NewAppointmentService(apptRepo AppointmentRepository, validate *validator.Validate, dayEnd int) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		Validate:        validate,
		DayEnd:          dayEnd,
		Now:             time.Now,
	}
}

func (a *DefaultAppointmentService) GetAppointments(query *AppointmentQuery) ([]*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(query)
	if valerr := a.Validate.Struct(query); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	appts, err := a.AppointmentRepo.FindAll(repository.AppointmentFilter{
		Date:    query.Date,
		From:    query.From,
		To:      query.To,
		Status:  entity.AppointmentStatus(query.Status),
		Patient: query.Patient,
	})
	if err != nil {
		log.Errorf("failed to list appointments: %v", err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) GetAppointment(id int) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.fetch(id)
	if apierr != nil {
		return nil, apierr
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) CreateAppointment(req *AppointmentRequest) (*AppointmentResponse, apierror.ErrorResponse) {
	slot, apierr := a.validateRequest(req)
	if apierr != nil {
		return nil, apierr
	}

	date, _ := scheduling.ParseDate(req.Date)
	if scheduling.At(date, slot.Start).Before(a.Now()) {
		return nil, apierror.AppointmentInPastError
	}

	status := entity.StatusScheduled
	if req.Status != "" {
		status = entity.AppointmentStatus(req.Status)
	}

	unlock := a.locks.lock(req.Date)
	defer unlock()

	if status != entity.StatusCancelled {
		if apierr := a.checkConflict(req.Date, slot, 0, req.Force); apierr != nil {
			return nil, apierr
		}
	}

	now := utils.NowUTC()
	appointment := &entity.Appointment{
		PatientName: req.PatientName,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Type:        req.Type,
		Status:      status,
		Notes:       utils.EmptyToNil(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.AppointmentRepo.Save(appointment); err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appointment), nil
}

// UpdateAppointment reschedules or edits an appointment. Unlike creation, a
// date and time in the past is accepted so that past visits can be corrected.
func (a *DefaultAppointmentService) UpdateAppointment(id int, req *AppointmentRequest) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.fetch(id)
	if apierr != nil {
		return nil, apierr
	}

	slot, apierr := a.validateRequest(req)
	if apierr != nil {
		return nil, apierr
	}

	status := appt.Status
	if req.Status != "" {
		status = entity.AppointmentStatus(req.Status)
	}

	unlock := a.locks.lock(req.Date)
	defer unlock()

	if status != entity.StatusCancelled {
		if apierr := a.checkConflict(req.Date, slot, appt.ID, req.Force); apierr != nil {
			return nil, apierr
		}
	}

	appt.PatientName = req.PatientName
	appt.Date = req.Date
	appt.Time = req.Time
	appt.Duration = req.Duration
	appt.Type = req.Type
	appt.Status = status
	appt.Notes = utils.EmptyToNil(req.Notes)
	appt.UpdatedAt = utils.NowUTC()

	if err := a.AppointmentRepo.Save(appt); err != nil {
		log.Errorf("failed to update appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// UpdateStatus moves an appointment to any status. Bringing a cancelled
// appointment back puts it on the calendar again, so its slot is re-checked.
func (a *DefaultAppointmentService) UpdateStatus(id int, req *StatusRequest) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	appt, apierr := a.fetch(id)
	if apierr != nil {
		return nil, apierr
	}

	status := entity.AppointmentStatus(req.Status)
	if appt.Status == entity.StatusCancelled && status != entity.StatusCancelled {
		unlock := a.locks.lock(appt.Date)
		defer unlock()

		slot := scheduling.Slot{Start: appt.StartMinutes(), Duration: appt.Duration}
		if apierr := a.checkConflict(appt.Date, slot, appt.ID, req.Force); apierr != nil {
			return nil, apierr
		}
	}

	appt.Status = status
	appt.UpdatedAt = utils.NowUTC()
	if err := a.AppointmentRepo.Save(appt); err != nil {
		log.Errorf("failed to update status of appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) DeleteAppointment(id int) apierror.ErrorResponse {
	appt, apierr := a.fetch(id)
	if apierr != nil {
		return apierr
	}

	if err := a.AppointmentRepo.Delete(appt); err != nil {
		log.Errorf("failed to delete appointment by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// CheckAvailability runs the same check as scheduling without writing
// anything, for live feedback while a form is being filled in.
func (a *DefaultAppointmentService) CheckAvailability(query *AvailabilityQuery) (*AvailabilityResponse, apierror.ErrorResponse) {
	utils.Sanitize(query)
	if valerr := a.Validate.Struct(query); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	start, _ := scheduling.ParseClock(query.Time)
	res, apierr := a.check(query.Date, scheduling.Slot{Start: start, Duration: query.Duration}, query.ExcludeID)
	if apierr != nil {
		return nil, apierr
	}

	if !res.HasConflict() {
		return &AvailabilityResponse{Available: true}, nil
	}
	conflict := toConflictError(res)
	return &AvailabilityResponse{
		Available:  false,
		Conflict:   &conflict.Conflict,
		Suggestion: conflict.Suggestion,
	}, nil
}

func (a *DefaultAppointmentService) validateRequest(req *AppointmentRequest) (scheduling.Slot, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return scheduling.Slot{}, apierror.FromValidationError(valerr)
	}

	start, _ := scheduling.ParseClock(req.Time)
	return scheduling.Slot{Start: start, Duration: req.Duration}, nil
}

func (a *DefaultAppointmentService) checkConflict(date string, slot scheduling.Slot, excludeID int, force bool) apierror.ErrorResponse {
	res, apierr := a.check(date, slot, excludeID)
	if apierr != nil {
		return apierr
	}
	if !res.HasConflict() {
		return nil
	}

	if force {
		log.Warnf("booking %s %s over appointment %d by request", date, scheduling.FormatClock(slot.Start), res.Conflict.AppointmentID)
		return nil
	}
	return toConflictError(res)
}

func (a *DefaultAppointmentService) check(date string, slot scheduling.Slot, excludeID int) (scheduling.Result, apierror.ErrorResponse) {
	existing, err := a.AppointmentRepo.FindActiveByDate(date, excludeID)
	if err != nil {
		log.Errorf("failed to fetch appointments for %s: %v", date, err)
		return scheduling.Result{}, apierror.InternalServerError
	}

	bookings := make([]scheduling.Booking, len(existing))
	for i, appt := range existing {
		bookings[i] = appt.ToBooking()
	}
	return scheduling.Check(slot, bookings, a.DayEnd), nil
}

func (a *DefaultAppointmentService) fetch(id int) (*entity.Appointment, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	return appt, nil
}

func toConflictError(res scheduling.Result) *apierror.ConflictError {
	var suggestion *string
	if res.Suggestion != nil {
		s := scheduling.FormatClock(*res.Suggestion)
		suggestion = &s
	}

	return &apierror.ConflictError{
		Message: "Time slot conflicts with an existing appointment",
		Conflict: apierror.ConflictDetail{
			AppointmentID: res.Conflict.AppointmentID,
			PatientName:   res.Conflict.PatientName,
			Time:          scheduling.FormatClock(res.Conflict.Start),
			EndTime:       scheduling.FormatClock(res.Conflict.End),
		},
		Suggestion: suggestion,
	}
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          appt.ID,
		PatientName: appt.PatientName,
		Date:        appt.Date,
		Time:        appt.Time,
		EndTime:     scheduling.FormatClock(appt.EndMinutes()),
		Duration:    appt.Duration,
		Type:        appt.Type,
		Status:      string(appt.Status),
		Notes:       appt.Notes,
		CreatedAt:   utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(appt.UpdatedAt),
	}
}

// dayLocks serializes the read-check-write sequence per calendar day within
// this process. Entries are dropped once nobody holds or waits on them.
type dayLocks struct {
	mu   sync.Mutex
	days map[string]*dayLock
}

type dayLock struct {
	mu   sync.Mutex
	refs int
}

func (d *dayLocks) lock(date string) func() {
	d.mu.Lock()
	if d.days == nil {
		d.days = make(map[string]*dayLock)
	}
	l, ok := d.days[date]
	if !ok {
		l = &dayLock{}
		d.days[date] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.days, date)
		}
		d.mu.Unlock()
	}
}
