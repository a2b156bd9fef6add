package repository

import (
	"errors"

	"clinicdesk/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

// AppointmentFilter narrows FindAll. Zero values are ignored; From/To are
// inclusive YYYY-MM-DD bounds.
type AppointmentFilter struct {
	Date    string
	From    string
	To      string
	Status  entity.AppointmentStatus
	Patient string
}

type StatusCount struct {
	Status string
	Count  int64
}

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

// FindActiveByDate returns the day's non-cancelled appointments, i.e. the
// snapshot a conflict check runs against. excludeID (when > 0) leaves out the
// appointment being rescheduled.
func (a *DefaultAppointmentRepository) FindActiveByDate(date string, excludeID int) ([]*entity.Appointment, error) {
	q := a.db.Where("date = ?", date).
		Where("status <> ?", entity.StatusCancelled)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var appts []*entity.Appointment
	err := q.Order("time asc").Order("id asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindAll(filter AppointmentFilter) ([]*entity.Appointment, error) {
	q := a.db.Model(&entity.Appointment{})
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Patient != "" {
		q = q.Where("patient_name LIKE ?", "%"+filter.Patient+"%")
	}

	var appts []*entity.Appointment
	err := q.Order("date asc").Order("time asc").Order("id asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) CountByStatus() ([]StatusCount, error) {
	var counts []StatusCount
	err := a.db.Model(&entity.Appointment{}).
		Select("status, count(*) as count").
		Group("status").
		Order("status asc").
		Scan(&counts).Error
	return counts, err
}

// CountUpcoming counts scheduled appointments on or after the given day.
func (a *DefaultAppointmentRepository) CountUpcoming(fromDate string) (int64, error) {
	var count int64
	err := a.db.Model(&entity.Appointment{}).
		Where("status = ?", entity.StatusScheduled).
		Where("date >= ?", fromDate).
		Count(&count).Error
	return count, err
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}
