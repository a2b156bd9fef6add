package repository

import (
	"errors"

	"clinicdesk/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type PrescriptionFilter struct {
	PatientID int
	Status    entity.PrescriptionStatus
}

type DefaultPrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *DefaultPrescriptionRepository {
	return &DefaultPrescriptionRepository{db: db}
}

func (p *DefaultPrescriptionRepository) FindByID(id int) (*entity.Prescription, error) {
	var rx entity.Prescription
	err := p.db.First(&rx, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rx, err
}

func (p *DefaultPrescriptionRepository) FindAll(filter PrescriptionFilter) ([]*entity.Prescription, error) {
	q := p.db.Model(&entity.Prescription{})
	if filter.PatientID > 0 {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rxs []*entity.Prescription
	err := q.Order("start_date desc").Order("id desc").Find(&rxs).Error
	return rxs, err
}

func (p *DefaultPrescriptionRepository) CountByStatus(status entity.PrescriptionStatus) (int64, error) {
	var count int64
	err := p.db.Model(&entity.Prescription{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (p *DefaultPrescriptionRepository) Save(rx *entity.Prescription) error {
	return p.db.Save(rx).Error
}

func (p *DefaultPrescriptionRepository) Delete(rx *entity.Prescription) error {
	return p.db.Delete(rx).Error
}
