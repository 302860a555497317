package models

import (
	"time"
)

// Pengumuman is an announcement published to all warga of a komplek.
type Pengumuman struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	KomplekID uint      `gorm:"not null;index" json:"komplek_id"`
	Judul     string    `gorm:"not null" json:"judul"`
	Isi       string    `gorm:"type:text;not null" json:"isi"`
	Penting   bool      `gorm:"default:false" json:"penting"`
	Tanggal   time.Time `gorm:"type:date;not null;index" json:"tanggal"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Pengumuman
func (Pengumuman) TableName() string {
	return "pengumuman"
}
