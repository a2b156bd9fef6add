package entity

type Patient struct {
	ID             int    `gorm:"primaryKey"`
	Name           string `gorm:"not null;index"`
	DateOfBirth    string // YYYY-MM-DD
	Gender         string
	Phone          string
	Email          string
	Address        string
	MedicalHistory *string
	CreatedAt      int64 `gorm:"not null"`
	UpdatedAt      int64 `gorm:"not null"`

	// Relations
	Prescriptions []Prescription `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
}
