package repository

import (
	"errors"

	"clinicdesk/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultPatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *DefaultPatientRepository {
	return &DefaultPatientRepository{db: db}
}

func (p *DefaultPatientRepository) FindByID(id int) (*entity.Patient, error) {
	var patient entity.Patient
	err := p.db.First(&patient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

// FindAll lists patients by name; search matches name, phone or email.
func (p *DefaultPatientRepository) FindAll(search string) ([]*entity.Patient, error) {
	q := p.db.Model(&entity.Patient{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}

	var patients []*entity.Patient
	err := q.Order("name asc").Order("id asc").Find(&patients).Error
	return patients, err
}

func (p *DefaultPatientRepository) Count() (int64, error) {
	var count int64
	err := p.db.Model(&entity.Patient{}).Count(&count).Error
	return count, err
}

func (p *DefaultPatientRepository) Save(patient *entity.Patient) error {
	return p.db.Omit("Prescriptions").Save(patient).Error
}

// Delete removes the patient; prescriptions go with it via ON DELETE CASCADE.
func (p *DefaultPatientRepository) Delete(patient *entity.Patient) error {
	return p.db.Delete(patient).Error
}
