package models

import (
	"time"
)

// Notifikasi represents an in-app notification for a pengurus
type Notifikasi struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PengurusID uint       `gorm:"not null;index" json:"pengurus_id"`
	Judul      string     `gorm:"not null" json:"judul"`
	Pesan      string     `gorm:"not null" json:"pesan"`
	Tipe       *string    `gorm:"index" json:"tipe"`
	ReadAt     *time.Time `gorm:"index" json:"read_at"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Pengurus Pengurus `gorm:"foreignKey:PengurusID" json:"-"`
}

// TableName specifies the table name for Notifikasi
func (Notifikasi) TableName() string {
	return "notifikasi"
}

// Notifikasi tipe constants
const (
	NotifikasiTagihanDibuat     = "tagihan_dibuat"
	NotifikasiPembayaranMasuk   = "pembayaran_masuk"
	NotifikasiPembayaranBatal   = "pembayaran_batal"
	NotifikasiTagihanJatuhTempo = "tagihan_jatuh_tempo"
	NotifikasiSistem            = "sistem"
)

// IsRead returns true if the notification has been read
func (n *Notifikasi) IsRead() bool {
	return n.ReadAt != nil
}

// MarkAsRead marks the notification as read
func (n *Notifikasi) MarkAsRead() {
	now := time.Now()
	n.ReadAt = &now
}

// RefreshToken represents a JWT refresh token for a pengurus session
type RefreshToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PengurusID uint       `gorm:"not null;index" json:"pengurus_id"`
	Token      string     `json:"token"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Pengurus Pengurus `gorm:"foreignKey:PengurusID" json:"-"`
}

// TableName specifies the table name for RefreshToken
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired returns true if the refresh token has expired
func (r *RefreshToken) IsExpired() bool {
	if r.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*r.ExpiresAt)
}

// AuditLog represents a system audit entry
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PengurusID uint      `gorm:"not null" json:"pengurus_id"`
	Action     string    `gorm:"size:50;not null" json:"action"` // CREATE, UPDATE, DELETE, GENERATE, BAYAR
	Entity     string    `gorm:"size:50;not null" json:"entity"` // Tagihan, Iuran, Warga, etc.
	EntityID   uint      `json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
