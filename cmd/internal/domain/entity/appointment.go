package entity

import "clinicdesk/cmd/internal/scheduling"

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is deliberately not linked to the patients table: PatientName is
// free text typed at the front desk.
type Appointment struct {
	ID          int               `gorm:"primaryKey"`
	PatientName string            `gorm:"not null;index"`
	Date        string            `gorm:"not null;index"` // YYYY-MM-DD
	Time        string            `gorm:"not null"`       // HH:MM
	Duration    int               `gorm:"not null"`       // minutes
	Type        string            `gorm:"not null;default:''"`
	Status      AppointmentStatus `gorm:"not null;default:'scheduled';index"`
	Notes       *string
	CreatedAt   int64 `gorm:"not null"`
	UpdatedAt   int64 `gorm:"not null"`
}

// StartMinutes returns minutes since midnight, or -1 when Time is malformed.
func (a *Appointment) StartMinutes() int {
	m, err := scheduling.ParseClock(a.Time)
	if err != nil {
		return -1
	}
	return m
}

func (a *Appointment) EndMinutes() int {
	return a.StartMinutes() + a.Duration
}

func (a *Appointment) ToBooking() scheduling.Booking {
	return scheduling.Booking{
		ID:          a.ID,
		PatientName: a.PatientName,
		Start:       a.StartMinutes(),
		Duration:    a.Duration,
	}
}
