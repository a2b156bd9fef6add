package entity

type User struct {
	ID            int    `gorm:"primaryKey"`
	SubUUID       string `gorm:"not null;uniqueIndex"`
	Username      string `gorm:"not null"`
	Email         string `gorm:"not null;uniqueIndex"`
	EmailVerified bool   `gorm:"not null"`
	IsAdmin       bool   `gorm:"not null"`
	CreatedAt     int64  `gorm:"not null"`
	UpdatedAt     int64  `gorm:"not null"`
}

// Credential backs the local identity provider; the Cognito provider keeps
// passwords on AWS and never writes here.
type Credential struct {
	ID           int    `gorm:"primaryKey"`
	Email        string `gorm:"not null;uniqueIndex"`
	SubUUID      string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Confirmed    bool   `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null"`
}
