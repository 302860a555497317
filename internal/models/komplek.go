package models

import (
	"time"
)

// Komplek represents a residential complex (tenant unit). Every warga, iuran
// and tagihan belongs to exactly one komplek.
type Komplek struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GUID      string    `gorm:"uniqueIndex;not null" json:"guid"`
	Nama      string    `gorm:"not null" json:"nama"`
	Alamat    string    `json:"alamat"`
	Kota      string    `json:"kota"`
	Status    string    `gorm:"default:aktif;not null;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Komplek
func (Komplek) TableName() string {
	return "komplek"
}

// Komplek status constants
const (
	KomplekStatusAktif    = "aktif"
	KomplekStatusNonaktif = "nonaktif"
)
