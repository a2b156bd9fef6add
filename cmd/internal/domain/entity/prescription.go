package entity

type PrescriptionStatus string

const (
	PrescriptionActive       PrescriptionStatus = "active"
	PrescriptionCompleted    PrescriptionStatus = "completed"
	PrescriptionDiscontinued PrescriptionStatus = "discontinued"
)

func (s PrescriptionStatus) IsValid() bool {
	switch s {
	case PrescriptionActive, PrescriptionCompleted, PrescriptionDiscontinued:
		return true
	}
	return false
}

type Prescription struct {
	ID           int    `gorm:"primaryKey"`
	PatientID    int    `gorm:"not null;index"` // References: patients(id)
	Medication   string `gorm:"not null"`
	Dosage       string `gorm:"not null"`
	Frequency    string `gorm:"not null"`
	StartDate    string `gorm:"not null"`
	EndDate      *string
	Status       PrescriptionStatus `gorm:"not null;default:'active';index"`
	Instructions *string
	PrescribedBy string
	CreatedAt    int64 `gorm:"not null"`
	UpdatedAt    int64 `gorm:"not null"`
}
