package models

import (
	"time"
)

// Warga represents a resident of a komplek. Only aktif residents are billed
// by the tagihan generator.
type Warga struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	KomplekID  uint       `gorm:"not null;index" json:"komplek_id"`
	Nama       string     `gorm:"not null" json:"nama"`
	Blok       string     `json:"blok"`
	NomorRumah string     `json:"nomor_rumah"`
	Telepon    string     `json:"telepon"`
	Email      *string    `json:"email,omitempty"`
	Status     string     `gorm:"default:aktif;not null;index" json:"status"`
	MasukAt    *time.Time `gorm:"type:date" json:"masuk_at,omitempty"`
	KeluarAt   *time.Time `gorm:"type:date" json:"keluar_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Komplek Komplek `gorm:"foreignKey:KomplekID" json:"-"`
}

// TableName specifies the table name for Warga
func (Warga) TableName() string {
	return "warga"
}

// Warga status constants
const (
	WargaStatusAktif    = "aktif"
	WargaStatusNonaktif = "nonaktif"
)

// IsAktif returns true if the resident is active (billable)
func (w *Warga) IsAktif() bool {
	return w.Status == WargaStatusAktif
}

// AlamatRumah formats the house address as "Blok A No. 12"
func (w *Warga) AlamatRumah() string {
	if w.Blok == "" && w.NomorRumah == "" {
		return ""
	}
	if w.Blok == "" {
		return "No. " + w.NomorRumah
	}
	return "Blok " + w.Blok + " No. " + w.NomorRumah
}
