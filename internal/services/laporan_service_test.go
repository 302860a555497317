package services

import (
	"context"
	"testing"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock for the report queries; the generic tagihan mock lives in
// tagihan_service_test.go and does not cover FindByTahun.
type mockLaporanTagihanRepo struct {
	repository.TagihanRepository
	mockFindByPeriode func(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error)
	mockFindByTahun   func(ctx context.Context, komplekID uint, tahun int) ([]models.Tagihan, error)
}

func (m *mockLaporanTagihanRepo) FindByPeriode(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error) {
	return m.mockFindByPeriode(ctx, komplekID, periode)
}

func (m *mockLaporanTagihanRepo) FindByTahun(ctx context.Context, komplekID uint, tahun int) ([]models.Tagihan, error) {
	return m.mockFindByTahun(ctx, komplekID, tahun)
}

func laporanFixture() []models.Tagihan {
	tunai := models.MetodeTunai
	transfer := models.MetodeTransfer
	bayar := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	return []models.Tagihan{
		{
			ID: 1, WargaID: 10, IuranID: 1, PeriodeTahun: 2026, PeriodeBulan: 3,
			Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusLunas,
			Metode: &tunai, TanggalBayar: &bayar,
			Warga: models.Warga{ID: 10, Nama: "Budi"},
			Iuran: models.Iuran{ID: 1, Nama: "Kebersihan"},
		},
		{
			ID: 2, WargaID: 11, IuranID: 1, PeriodeTahun: 2026, PeriodeBulan: 3,
			Nominal: decimal.NewFromInt(50000), Denda: decimal.NewFromInt(4000),
			Status: models.TagihanStatusTerlambat,
			Metode: &transfer, TanggalBayar: &bayar,
			Warga: models.Warga{ID: 11, Nama: "Sari"},
			Iuran: models.Iuran{ID: 1, Nama: "Kebersihan"},
		},
		{
			ID: 3, WargaID: 12, IuranID: 1, PeriodeTahun: 2026, PeriodeBulan: 3,
			Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusBelumLunas,
			Warga: models.Warga{ID: 12, Nama: "Joko"},
			Iuran: models.Iuran{ID: 1, Nama: "Kebersihan"},
		},
		{
			ID: 4, WargaID: 13, IuranID: 1, PeriodeTahun: 2026, PeriodeBulan: 3,
			Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusDibatalkan,
			Warga: models.Warga{ID: 13, Nama: "Rina"},
			Iuran: models.Iuran{ID: 1, Nama: "Kebersihan"},
		},
	}
}

func newLaporanService(tagihanRepo repository.TagihanRepository) *LaporanService {
	return NewLaporanService(&repository.Repositories{Tagihan: tagihanRepo})
}

func TestSummary_CountsAndSums(t *testing.T) {
	repo := &mockLaporanTagihanRepo{
		mockFindByPeriode: func(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error) {
			return laporanFixture(), nil
		},
	}
	svc := newLaporanService(repo)

	summary, err := svc.Summary(context.Background(), 1, models.Periode{Tahun: 2026, Bulan: 3})
	require.NoError(t, err)

	// The dibatalkan charge is not part of the period.
	assert.Equal(t, 3, summary.TotalTagihan)
	assert.Equal(t, 1, summary.TotalLunas)
	assert.Equal(t, 1, summary.TotalTerlambat)
	assert.Equal(t, 1, summary.TotalBelum)

	assert.True(t, summary.NominalTagihan.Equal(decimal.NewFromInt(150000)), "billed %s", summary.NominalTagihan)
	assert.True(t, summary.NominalDiterima.Equal(decimal.NewFromInt(104000)), "received %s", summary.NominalDiterima)
	assert.True(t, summary.NominalDenda.Equal(decimal.NewFromInt(4000)))
	assert.True(t, summary.NominalTunggakan.Equal(decimal.NewFromInt(50000)))

	// Received + outstanding covers every issued charge plus collected denda.
	total := summary.NominalDiterima.Add(summary.NominalTunggakan)
	assert.True(t, total.Equal(summary.NominalTagihan.Add(summary.NominalDenda)))

	assert.True(t, summary.PersenLunas.Equal(decimal.NewFromFloat(66.67)), "persen %s", summary.PersenLunas)
}

func TestSummary_EmptyPeriode(t *testing.T) {
	repo := &mockLaporanTagihanRepo{
		mockFindByPeriode: func(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error) {
			return nil, nil
		},
	}
	svc := newLaporanService(repo)

	summary, err := svc.Summary(context.Background(), 1, models.Periode{Tahun: 2026, Bulan: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalTagihan)
	assert.True(t, summary.PersenLunas.IsZero())
	assert.True(t, summary.NominalTagihan.IsZero())
}

func TestStatus_SplitsPaidAndPending(t *testing.T) {
	repo := &mockLaporanTagihanRepo{
		mockFindByPeriode: func(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error) {
			return laporanFixture(), nil
		},
	}
	svc := newLaporanService(repo)

	status, err := svc.Status(context.Background(), 1, models.Periode{Tahun: 2026, Bulan: 3})
	require.NoError(t, err)

	// The dibatalkan charge belongs to neither list.
	require.Len(t, status.Lunas, 2)
	require.Len(t, status.BelumLunas, 1)
	assert.Equal(t, "2026-03", status.Periode)
	assert.True(t, status.NominalTagihan.Equal(decimal.NewFromInt(150000)))

	assert.Equal(t, "Budi", status.Lunas[0].NamaWarga)
	assert.Equal(t, models.TagihanStatusLunas, status.Lunas[0].Status)
	require.NotNil(t, status.Lunas[0].TanggalBayar)
	assert.Equal(t, "2026-03-08", *status.Lunas[0].TanggalBayar)

	// Late payments count as paid, with denda folded into the total.
	assert.Equal(t, models.TagihanStatusTerlambat, status.Lunas[1].Status)
	assert.True(t, status.Lunas[1].Total.Equal(decimal.NewFromInt(54000)))

	assert.Equal(t, "Joko", status.BelumLunas[0].NamaWarga)
	assert.Nil(t, status.BelumLunas[0].TanggalBayar)
}

func TestRekap_TwelveZeroFilledMonths(t *testing.T) {
	repo := &mockLaporanTagihanRepo{
		mockFindByTahun: func(ctx context.Context, komplekID uint, tahun int) ([]models.Tagihan, error) {
			return []models.Tagihan{
				{ID: 1, PeriodeTahun: 2026, PeriodeBulan: 2, Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusLunas},
				{ID: 2, PeriodeTahun: 2026, PeriodeBulan: 2, Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusBelumLunas},
				{ID: 3, PeriodeTahun: 2026, PeriodeBulan: 7, Nominal: decimal.NewFromInt(50000), Denda: decimal.NewFromInt(1000), Status: models.TagihanStatusTerlambat},
				{ID: 4, PeriodeTahun: 2026, PeriodeBulan: 7, Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusDibatalkan},
			}, nil
		},
	}
	svc := newLaporanService(repo)

	rekap, err := svc.Rekap(context.Background(), 1, 2026)
	require.NoError(t, err)
	require.Len(t, rekap.Bulan, 12)

	assert.Equal(t, "2026-01", rekap.Bulan[0].Periode)
	assert.Equal(t, 0, rekap.Bulan[0].TotalTagihan)
	assert.True(t, rekap.Bulan[0].NominalDiterima.IsZero())

	feb := rekap.Bulan[1]
	assert.Equal(t, 2, feb.TotalTagihan)
	assert.Equal(t, 1, feb.TotalLunas)
	assert.True(t, feb.NominalDiterima.Equal(decimal.NewFromInt(50000)))
	assert.True(t, feb.NominalTunggakan.Equal(decimal.NewFromInt(50000)))

	jul := rekap.Bulan[6]
	assert.Equal(t, 1, jul.TotalTagihan, "dibatalkan stays out of the rollup")
	assert.True(t, jul.NominalDiterima.Equal(decimal.NewFromInt(51000)))

	assert.True(t, rekap.TotalDiterima.Equal(decimal.NewFromInt(101000)))
	assert.True(t, rekap.TotalTunggakan.Equal(decimal.NewFromInt(50000)))
}

func TestPerMetode_GroupsPaidCharges(t *testing.T) {
	repo := &mockLaporanTagihanRepo{
		mockFindByPeriode: func(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error) {
			tunai := models.MetodeTunai
			transfer := models.MetodeTransfer
			return []models.Tagihan{
				{ID: 1, Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusLunas, Metode: &tunai},
				{ID: 2, Nominal: decimal.NewFromInt(50000), Denda: decimal.NewFromInt(2000), Status: models.TagihanStatusTerlambat, Metode: &transfer},
				{ID: 3, Nominal: decimal.NewFromInt(30000), Status: models.TagihanStatusLunas, Metode: &tunai},
				{ID: 4, Nominal: decimal.NewFromInt(50000), Status: models.TagihanStatusBelumLunas},
			}, nil
		},
	}
	svc := newLaporanService(repo)

	breakdown, err := svc.PerMetode(context.Background(), 1, models.Periode{Tahun: 2026, Bulan: 3})
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	assert.Equal(t, models.MetodeTunai, breakdown[0].Metode)
	assert.Equal(t, 2, breakdown[0].Jumlah)
	assert.True(t, breakdown[0].Nominal.Equal(decimal.NewFromInt(80000)))

	assert.Equal(t, models.MetodeTransfer, breakdown[1].Metode)
	assert.Equal(t, 1, breakdown[1].Jumlah)
	assert.True(t, breakdown[1].Nominal.Equal(decimal.NewFromInt(52000)))
}
