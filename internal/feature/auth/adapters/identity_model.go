package adapters

import (
	"time"

	"nexusauth/internal/feature/auth/domain/entity"
)

// IdentityModel is the GORM model for the users table.
type IdentityModel struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Email         string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string    `gorm:"size:255;not null"`
	Name          string    `gorm:"size:255;not null"`
	Bio           string    `gorm:"type:text;not null;default:''"`
	LastLogin     time.Time `gorm:"not null"`
	SecurityScore int       `gorm:"not null;default:80"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM.
func (IdentityModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *IdentityModel) ToEntity() *entity.Identity {
	return &entity.Identity{
		ID:            m.ID,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Name:          m.Name,
		Bio:           m.Bio,
		LastLogin:     m.LastLogin,
		SecurityScore: m.SecurityScore,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// IdentityModelFromEntity converts a domain entity to a GORM model.
func IdentityModelFromEntity(i *entity.Identity) *IdentityModel {
	return &IdentityModel{
		ID:            i.ID,
		Email:         i.Email,
		PasswordHash:  i.PasswordHash,
		Name:          i.Name,
		Bio:           i.Bio,
		LastLogin:     i.LastLogin,
		SecurityScore: i.SecurityScore,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
