package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaksi is an entry in the komplek cash book. Paid tagihan feed
// pemasukan entries; expenses recorded by the bendahara are pengeluaran.
// Kas balance = sum(pemasukan) - sum(pengeluaran).
type Transaksi struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	KomplekID  uint            `gorm:"not null;index" json:"komplek_id"`
	TagihanID  *uint           `gorm:"index" json:"tagihan_id,omitempty"`
	Jenis      string          `gorm:"not null;index" json:"jenis"`
	Kategori   string          `gorm:"not null;index" json:"kategori"`
	Nominal    decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"nominal"`
	Keterangan string          `gorm:"not null" json:"keterangan"`
	Tanggal    time.Time       `gorm:"type:date;not null;index" json:"tanggal"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Associations
	Tagihan *Tagihan `gorm:"foreignKey:TagihanID" json:"tagihan,omitempty"`
}

// TableName specifies the table name for Transaksi
func (Transaksi) TableName() string {
	return "transaksi"
}

// Transaksi jenis constants
const (
	TransaksiPemasukan   = "pemasukan"
	TransaksiPengeluaran = "pengeluaran"
)

// Transaksi kategori constants
const (
	KategoriIuran       = "iuran"
	KategoriDenda       = "denda"
	KategoriSumbangan   = "sumbangan"
	KategoriOperasional = "operasional"
	KategoriProgram     = "program"
	KategoriKoreksi     = "koreksi"
	KategoriLainnya     = "lainnya"
)

// Signed returns the nominal with pengeluaran negated, for balance sums
func (t *Transaksi) Signed() decimal.Decimal {
	if t.Jenis == TransaksiPengeluaran {
		return t.Nominal.Neg()
	}
	return t.Nominal
}
