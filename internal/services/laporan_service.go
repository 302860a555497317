package services

import (
	"context"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/shopspring/decimal"
)

// StatusPembayaran is one resident row in the per-period payment status report
type StatusPembayaran struct {
	WargaID      uint            `json:"warga_id"`
	NamaWarga    string          `json:"nama_warga"`
	AlamatRumah  string          `json:"alamat_rumah"`
	IuranID      uint            `json:"iuran_id"`
	NamaIuran    string          `json:"nama_iuran"`
	Nominal      decimal.Decimal `json:"nominal"`
	Denda        decimal.Decimal `json:"denda"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	Metode       *string         `json:"metode,omitempty"`
	TanggalBayar *string         `json:"tanggal_bayar,omitempty"`
}

// StatusLaporan splits one period into paid and pending resident lists
type StatusLaporan struct {
	Periode        string             `json:"periode"`
	NominalTagihan decimal.Decimal    `json:"nominal_tagihan"`
	Lunas          []StatusPembayaran `json:"lunas"`
	BelumLunas     []StatusPembayaran `json:"belum_lunas"`
}

// LaporanSummary aggregates one billing period
type LaporanSummary struct {
	Periode          string          `json:"periode"`
	TotalTagihan     int             `json:"total_tagihan"`
	TotalLunas       int             `json:"total_lunas"`
	TotalBelum       int             `json:"total_belum"`
	TotalTerlambat   int             `json:"total_terlambat"`
	NominalTagihan   decimal.Decimal `json:"nominal_tagihan"`
	NominalDiterima  decimal.Decimal `json:"nominal_diterima"`
	NominalDenda     decimal.Decimal `json:"nominal_denda"`
	NominalTunggakan decimal.Decimal `json:"nominal_tunggakan"`
	PersenLunas      decimal.Decimal `json:"persen_lunas"`
}

// RekapBulan is one month in the yearly rollup
type RekapBulan struct {
	Periode          string          `json:"periode"`
	TotalTagihan     int             `json:"total_tagihan"`
	TotalLunas       int             `json:"total_lunas"`
	NominalDiterima  decimal.Decimal `json:"nominal_diterima"`
	NominalTunggakan decimal.Decimal `json:"nominal_tunggakan"`
}

// RekapTahunan is the 12-month rollup for one year
type RekapTahunan struct {
	Tahun          int             `json:"tahun"`
	Bulan          []RekapBulan    `json:"bulan"`
	TotalDiterima  decimal.Decimal `json:"total_diterima"`
	TotalTunggakan decimal.Decimal `json:"total_tunggakan"`
}

// MetodeBreakdown is one payment method slice of a period
type MetodeBreakdown struct {
	Metode  string          `json:"metode"`
	Jumlah  int             `json:"jumlah"`
	Nominal decimal.Decimal `json:"nominal"`
}

// LaporanService builds payment status reports and aggregates. All monetary
// sums accumulate in decimals; nothing passes through float64.
type LaporanService struct {
	repos *repository.Repositories
}

func NewLaporanService(repos *repository.Repositories) *LaporanService {
	return &LaporanService{repos: repos}
}

// Status returns the per-warga payment status for one period, split into
// paid (lunas/terlambat) and pending (belum_lunas) resident lists.
// Dibatalkan charges are excluded; they are voided keys, not outstanding
// debt.
func (s *LaporanService) Status(ctx context.Context, komplekID uint, periode models.Periode) (*StatusLaporan, error) {
	tagihan, err := s.repos.Tagihan.FindByPeriode(ctx, komplekID, periode)
	if err != nil {
		return nil, err
	}

	laporan := &StatusLaporan{
		Periode:        periode.String(),
		NominalTagihan: decimal.Zero,
		Lunas:          []StatusPembayaran{},
		BelumLunas:     []StatusPembayaran{},
	}
	for i := range tagihan {
		t := &tagihan[i]
		if t.Status == models.TagihanStatusDibatalkan {
			continue
		}
		row := StatusPembayaran{
			WargaID:     t.WargaID,
			NamaWarga:   t.Warga.Nama,
			AlamatRumah: t.Warga.AlamatRumah(),
			IuranID:     t.IuranID,
			NamaIuran:   t.Iuran.Nama,
			Nominal:     t.Nominal,
			Denda:       t.Denda,
			Total:       t.TotalTagihan(),
			Status:      t.Status,
			Metode:      t.Metode,
		}
		if t.TanggalBayar != nil {
			tanggal := t.TanggalBayar.Format("2006-01-02")
			row.TanggalBayar = &tanggal
		}
		laporan.NominalTagihan = laporan.NominalTagihan.Add(t.Nominal)
		if t.IsLunas() {
			laporan.Lunas = append(laporan.Lunas, row)
		} else {
			laporan.BelumLunas = append(laporan.BelumLunas, row)
		}
	}
	return laporan, nil
}

// Summary aggregates one period: counts per status plus decimal sums of
// billed, received, denda and outstanding amounts.
func (s *LaporanService) Summary(ctx context.Context, komplekID uint, periode models.Periode) (*LaporanSummary, error) {
	tagihan, err := s.repos.Tagihan.FindByPeriode(ctx, komplekID, periode)
	if err != nil {
		return nil, err
	}

	summary := &LaporanSummary{
		Periode:          periode.String(),
		NominalTagihan:   decimal.Zero,
		NominalDiterima:  decimal.Zero,
		NominalDenda:     decimal.Zero,
		NominalTunggakan: decimal.Zero,
		PersenLunas:      decimal.Zero,
	}

	for i := range tagihan {
		t := &tagihan[i]
		if t.Status == models.TagihanStatusDibatalkan {
			continue
		}

		summary.TotalTagihan++
		summary.NominalTagihan = summary.NominalTagihan.Add(t.Nominal)

		switch {
		case t.Status == models.TagihanStatusLunas:
			summary.TotalLunas++
			summary.NominalDiterima = summary.NominalDiterima.Add(t.TotalTagihan())
			summary.NominalDenda = summary.NominalDenda.Add(t.Denda)
		case t.Status == models.TagihanStatusTerlambat:
			summary.TotalTerlambat++
			summary.NominalDiterima = summary.NominalDiterima.Add(t.TotalTagihan())
			summary.NominalDenda = summary.NominalDenda.Add(t.Denda)
		default:
			summary.TotalBelum++
			summary.NominalTunggakan = summary.NominalTunggakan.Add(t.Nominal)
		}
	}

	if summary.TotalTagihan > 0 {
		terbayar := summary.TotalLunas + summary.TotalTerlambat
		summary.PersenLunas = decimal.NewFromInt(int64(terbayar)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(summary.TotalTagihan))).
			Round(2)
	}

	return summary, nil
}

// Rekap builds the 12-month rollup for a year. Every month appears in the
// result, zero-valued when nothing was billed.
func (s *LaporanService) Rekap(ctx context.Context, komplekID uint, tahun int) (*RekapTahunan, error) {
	tagihan, err := s.repos.Tagihan.FindByTahun(ctx, komplekID, tahun)
	if err != nil {
		return nil, err
	}

	rekap := &RekapTahunan{
		Tahun:          tahun,
		Bulan:          make([]RekapBulan, 12),
		TotalDiterima:  decimal.Zero,
		TotalTunggakan: decimal.Zero,
	}
	for b := 1; b <= 12; b++ {
		rekap.Bulan[b-1] = RekapBulan{
			Periode:          models.Periode{Tahun: tahun, Bulan: b}.String(),
			NominalDiterima:  decimal.Zero,
			NominalTunggakan: decimal.Zero,
		}
	}

	for i := range tagihan {
		t := &tagihan[i]
		if t.Status == models.TagihanStatusDibatalkan {
			continue
		}
		if t.PeriodeBulan < 1 || t.PeriodeBulan > 12 {
			continue
		}
		bulan := &rekap.Bulan[t.PeriodeBulan-1]

		bulan.TotalTagihan++
		if t.IsLunas() {
			bulan.TotalLunas++
			bulan.NominalDiterima = bulan.NominalDiterima.Add(t.TotalTagihan())
		} else {
			bulan.NominalTunggakan = bulan.NominalTunggakan.Add(t.Nominal)
		}
	}

	for i := range rekap.Bulan {
		rekap.TotalDiterima = rekap.TotalDiterima.Add(rekap.Bulan[i].NominalDiterima)
		rekap.TotalTunggakan = rekap.TotalTunggakan.Add(rekap.Bulan[i].NominalTunggakan)
	}

	return rekap, nil
}

// PerMetode breaks paid charges in a period down by payment method
func (s *LaporanService) PerMetode(ctx context.Context, komplekID uint, periode models.Periode) ([]MetodeBreakdown, error) {
	tagihan, err := s.repos.Tagihan.FindByPeriode(ctx, komplekID, periode)
	if err != nil {
		return nil, err
	}

	byMetode := make(map[string]*MetodeBreakdown)
	order := []string{}
	for i := range tagihan {
		t := &tagihan[i]
		if !t.IsLunas() || t.Metode == nil {
			continue
		}
		entry, ok := byMetode[*t.Metode]
		if !ok {
			entry = &MetodeBreakdown{Metode: *t.Metode, Nominal: decimal.Zero}
			byMetode[*t.Metode] = entry
			order = append(order, *t.Metode)
		}
		entry.Jumlah++
		entry.Nominal = entry.Nominal.Add(t.TotalTagihan())
	}

	result := make([]MetodeBreakdown, 0, len(order))
	for _, metode := range order {
		result = append(result, *byMetode[metode])
	}
	return result, nil
}

// SaldoKas returns the current cash balance of a komplek
func (s *LaporanService) SaldoKas(ctx context.Context, komplekID uint) (decimal.Decimal, error) {
	return s.repos.Transaksi.SaldoKas(ctx, komplekID)
}
