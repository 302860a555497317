package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tagihan is a single charge issued to one warga for one iuran in one
// billing period. Nominal and the denda rule are snapshots taken from the
// iuran when the charge was created.
//
// The composite unique index backs the invariant that a (iuran, warga,
// periode) key is billed at most once; a dibatalkan record keeps the key
// occupied and is revived in place by the generator instead of re-inserted.
type Tagihan struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	IuranID       uint            `gorm:"not null;uniqueIndex:idx_tagihan_key,priority:1" json:"iuran_id"`
	WargaID       uint            `gorm:"not null;uniqueIndex:idx_tagihan_key,priority:2" json:"warga_id"`
	KomplekID     uint            `gorm:"not null;index" json:"komplek_id"`
	PeriodeTahun  int             `gorm:"not null;uniqueIndex:idx_tagihan_key,priority:3" json:"periode_tahun"`
	PeriodeBulan  int             `gorm:"not null;uniqueIndex:idx_tagihan_key,priority:4" json:"periode_bulan"`
	Nominal       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"nominal"`
	Denda         decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"denda"`
	DendaPerHari  decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"denda_per_hari"`
	DendaMaksimal decimal.Decimal `gorm:"type:numeric(15,2);default:0" json:"denda_maksimal"`
	JatuhTempo    time.Time       `gorm:"type:date;not null;index" json:"jatuh_tempo"`
	Status        string          `gorm:"default:belum_lunas;not null;index" json:"status"`
	Metode        *string         `json:"metode,omitempty"`
	TanggalBayar  *time.Time      `gorm:"type:date" json:"tanggal_bayar,omitempty"`
	NomorKuitansi *string         `gorm:"index" json:"nomor_kuitansi,omitempty"`
	BuktiBayar    *string         `json:"bukti_bayar,omitempty"`
	Catatan       *string         `json:"catatan,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Iuran Iuran `gorm:"foreignKey:IuranID" json:"iuran,omitempty"`
	Warga Warga `gorm:"foreignKey:WargaID" json:"warga,omitempty"`
}

// TableName specifies the table name for Tagihan
func (Tagihan) TableName() string {
	return "tagihan"
}

// Tagihan status constants
const (
	TagihanStatusBelumLunas = "belum_lunas"
	TagihanStatusLunas      = "lunas"
	TagihanStatusTerlambat  = "terlambat"
	TagihanStatusDibatalkan = "dibatalkan"
)

// Metode pembayaran constants
const (
	MetodeTunai    = "tunai"
	MetodeTransfer = "transfer"
	MetodeEwallet  = "ewallet"
	MetodeQRIS     = "qris"
)

// Periode returns the billing period of this tagihan
func (t *Tagihan) Periode() Periode {
	return Periode{Tahun: t.PeriodeTahun, Bulan: t.PeriodeBulan}
}

// IsLunas returns true for charges paid on time or late
func (t *Tagihan) IsLunas() bool {
	return t.Status == TagihanStatusLunas || t.Status == TagihanStatusTerlambat
}

// MayBayar returns true if a payment can be recorded
func (t *Tagihan) MayBayar() bool {
	return t.Status == TagihanStatusBelumLunas
}

// MayBatal returns true if the charge can be administratively cancelled
func (t *Tagihan) MayBatal() bool {
	return t.Status != TagihanStatusDibatalkan
}

// IsJatuhTempo returns true if the charge is unpaid and past its due date
func (t *Tagihan) IsJatuhTempo() bool {
	return t.Status == TagihanStatusBelumLunas && time.Now().After(t.JatuhTempo)
}

// HariTerlambat returns the number of days past due as of asOf
func (t *Tagihan) HariTerlambat(asOf time.Time) int {
	if !asOf.After(t.JatuhTempo) {
		return 0
	}
	return int(asOf.Sub(t.JatuhTempo).Hours() / 24)
}

// TotalTagihan returns nominal + denda
func (t *Tagihan) TotalTagihan() decimal.Decimal {
	return t.Nominal.Add(t.Denda)
}

// TagihanResponse is the JSON response format for tagihan
type TagihanResponse struct {
	ID            uint            `json:"id"`
	IuranID       uint            `json:"iuran_id"`
	WargaID       uint            `json:"warga_id"`
	KomplekID     uint            `json:"komplek_id"`
	Periode       string          `json:"periode"`
	Nominal       decimal.Decimal `json:"nominal"`
	Denda         decimal.Decimal `json:"denda"`
	Total         decimal.Decimal `json:"total"`
	JatuhTempo    time.Time       `json:"jatuh_tempo"`
	Status        string          `json:"status"`
	Metode        *string         `json:"metode,omitempty"`
	TanggalBayar  *time.Time      `json:"tanggal_bayar,omitempty"`
	NomorKuitansi *string         `json:"nomor_kuitansi,omitempty"`
	BuktiBayar    *string         `json:"bukti_bayar,omitempty"`
	Catatan       *string         `json:"catatan,omitempty"`
	HariTerlambat int             `json:"hari_terlambat"`

	NamaIuran   string `json:"nama_iuran,omitempty"`
	NamaWarga   string `json:"nama_warga,omitempty"`
	AlamatRumah string `json:"alamat_rumah,omitempty"`
}

// ToResponse converts Tagihan to TagihanResponse
func (t *Tagihan) ToResponse() TagihanResponse {
	resp := TagihanResponse{
		ID:            t.ID,
		IuranID:       t.IuranID,
		WargaID:       t.WargaID,
		KomplekID:     t.KomplekID,
		Periode:       t.Periode().String(),
		Nominal:       t.Nominal,
		Denda:         t.Denda,
		Total:         t.TotalTagihan(),
		JatuhTempo:    t.JatuhTempo,
		Status:        t.Status,
		Metode:        t.Metode,
		TanggalBayar:  t.TanggalBayar,
		NomorKuitansi: t.NomorKuitansi,
		BuktiBayar:    t.BuktiBayar,
		Catatan:       t.Catatan,
		HariTerlambat: t.HariTerlambat(time.Now()),
	}

	if t.Iuran.ID != 0 {
		resp.NamaIuran = t.Iuran.Nama
	}
	if t.Warga.ID != 0 {
		resp.NamaWarga = t.Warga.Nama
		resp.AlamatRumah = t.Warga.AlamatRumah()
	}

	return resp
}
