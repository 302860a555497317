package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Iuran is a billable charge defined by the komplek board: a recurring due,
// a one-off levy or a voluntary donation. Tagihan records snapshot the
// nominal and denda rule at generation time, so editing an iuran never
// changes charges that were already issued.
type Iuran struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	KomplekID     uint            `gorm:"not null;index" json:"komplek_id"`
	Nama          string          `gorm:"not null" json:"nama"`
	Tipe          string          `gorm:"default:rutin;not null;index" json:"tipe"`
	Nominal       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"nominal"`
	PeriodeTipe   string          `gorm:"default:bulanan;not null" json:"periode_tipe"`
	JatuhTempo    int             `gorm:"default:10;not null" json:"jatuh_tempo"` // day of month payment is due
	Status        string          `gorm:"default:aktif;not null;index" json:"status"`
	Wajib         bool            `gorm:"default:true" json:"wajib"`
	DendaPerHari  decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"denda_per_hari"`
	DendaMaksimal decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"denda_maksimal"`
	Keterangan    *string         `json:"keterangan,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Komplek Komplek `gorm:"foreignKey:KomplekID" json:"-"`
}

// TableName specifies the table name for Iuran
func (Iuran) TableName() string {
	return "iuran"
}

// Iuran tipe constants
const (
	IuranTipeRutin     = "rutin"
	IuranTipeKhusus    = "khusus"
	IuranTipeSumbangan = "sumbangan"
)

// Iuran periode tipe constants
const (
	PeriodeTipeHarian   = "harian"
	PeriodeTipeMingguan = "mingguan"
	PeriodeTipeBulanan  = "bulanan"
	PeriodeTipeTahunan  = "tahunan"
	PeriodeTipeSekali   = "sekali"
)

// Iuran status constants
const (
	IuranStatusAktif    = "aktif"
	IuranStatusNonaktif = "nonaktif"
)

// IsAktif returns true if the iuran can be billed
func (i *Iuran) IsAktif() bool {
	return i.Status == IuranStatusAktif
}

// JatuhTempoFor returns the concrete due date of this iuran for a billing
// period. The configured day-of-month is clamped to the last day of short
// months (31 => Feb 28/29).
func (i *Iuran) JatuhTempoFor(p Periode) time.Time {
	day := i.JatuhTempo
	if day < 1 {
		day = 1
	}
	lastDay := time.Date(p.Tahun, time.Month(p.Bulan)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(p.Tahun, time.Month(p.Bulan), day, 0, 0, 0, 0, time.UTC)
}
