package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Anggaran is a planned budget line for a komplek in a billing period.
// Realisasi is not stored; it is computed from transaksi with the same
// kategori and period.
type Anggaran struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	KomplekID    uint            `gorm:"not null;index" json:"komplek_id"`
	Nama         string          `gorm:"not null" json:"nama"`
	Kategori     string          `gorm:"not null;index" json:"kategori"`
	Nominal      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"nominal"`
	PeriodeTahun int             `gorm:"not null;index" json:"periode_tahun"`
	PeriodeBulan int             `gorm:"not null" json:"periode_bulan"`
	Keterangan   *string         `json:"keterangan,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Anggaran
func (Anggaran) TableName() string {
	return "anggaran"
}

// Periode returns the budget period
func (a *Anggaran) Periode() Periode {
	return Periode{Tahun: a.PeriodeTahun, Bulan: a.PeriodeBulan}
}

// AnggaranRealisasi pairs a budget line with its actual spend/income
type AnggaranRealisasi struct {
	Anggaran   Anggaran        `json:"anggaran"`
	Realisasi  decimal.Decimal `json:"realisasi"`
	Sisa       decimal.Decimal `json:"sisa"`
	Persentase float64         `json:"persentase"`
}
