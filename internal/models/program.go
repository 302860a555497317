package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Program is a community program funded by sumbangan payments
// (renovations, events, social funds). DanaTerkumpul grows as sumbangan
// tagihan for the linked iuran are paid.
type Program struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	KomplekID     uint            `gorm:"not null;index" json:"komplek_id"`
	IuranID       *uint           `gorm:"index" json:"iuran_id,omitempty"`
	Nama          string          `gorm:"not null" json:"nama"`
	Deskripsi     string          `gorm:"type:text" json:"deskripsi"`
	TargetDana    decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"target_dana"`
	DanaTerkumpul decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"dana_terkumpul"`
	Status        string          `gorm:"default:berjalan;not null;index" json:"status"`
	Mulai         *time.Time      `gorm:"type:date" json:"mulai,omitempty"`
	Selesai       *time.Time      `gorm:"type:date" json:"selesai,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Program
func (Program) TableName() string {
	return "program"
}

// Program status constants
const (
	ProgramStatusBerjalan   = "berjalan"
	ProgramStatusSelesai    = "selesai"
	ProgramStatusDibatalkan = "dibatalkan"
)

// Progres returns collected funds as a fraction of the target (0 when no target)
func (p *Program) Progres() float64 {
	if p.TargetDana.IsZero() {
		return 0
	}
	f, _ := p.DanaTerkumpul.Div(p.TargetDana).Float64()
	return f
}
