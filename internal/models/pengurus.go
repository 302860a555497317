package models

import (
	"time"

	"gorm.io/gorm"
)

// Pengurus is a board member account used to administer a komplek.
type Pengurus struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	KomplekID         uint       `gorm:"not null;index" json:"komplek_id"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	Nama              string     `gorm:"not null" json:"nama"`
	Telepon           string     `json:"telepon"`
	Role              string     `gorm:"default:pengurus" json:"role"`
	Status            string     `gorm:"default:aktif" json:"status"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Komplek Komplek `gorm:"foreignKey:KomplekID" json:"-"`
}

// TableName specifies the table name for Pengurus
func (Pengurus) TableName() string {
	return "pengurus"
}

// BeforeCreate hook for setting defaults
func (p *Pengurus) BeforeCreate(tx *gorm.DB) error {
	if p.Role == "" {
		p.Role = RolePengurus
	}
	if p.Status == "" {
		p.Status = PengurusStatusAktif
	}
	return nil
}

// Role constants
const (
	RoleAdmin     = "admin"
	RoleBendahara = "bendahara"
	RolePengurus  = "pengurus"
)

// Pengurus status constants
const (
	PengurusStatusAktif    = "aktif"
	PengurusStatusNonaktif = "nonaktif"
)

// IsAdmin returns true for komplek administrators
func (p *Pengurus) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsBendahara returns true for treasurers
func (p *Pengurus) IsBendahara() bool {
	return p.Role == RoleBendahara
}

// IsAktif returns true if the account can log in
func (p *Pengurus) IsAktif() bool {
	return p.Status == PengurusStatusAktif
}

// PengurusResponse is the JSON response format for pengurus
type PengurusResponse struct {
	ID        uint      `json:"id"`
	KomplekID uint      `json:"komplek_id"`
	Email     string    `json:"email"`
	Nama      string    `json:"nama"`
	Telepon   string    `json:"telepon"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts Pengurus to PengurusResponse
func (p *Pengurus) ToResponse() PengurusResponse {
	return PengurusResponse{
		ID:        p.ID,
		KomplekID: p.KomplekID,
		Email:     p.Email,
		Nama:      p.Nama,
		Telepon:   p.Telepon,
		Role:      p.Role,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}
