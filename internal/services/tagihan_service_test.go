package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/jobs"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock IuranRepository (using embedding to avoid implementing all methods)
type mockIuranRepository struct {
	repository.IuranRepository
	mockFindByID           func(ctx context.Context, id uint) (*models.Iuran, error)
	mockFindAktifByKomplek func(ctx context.Context, komplekID uint) ([]models.Iuran, error)
}

func (m *mockIuranRepository) FindByID(ctx context.Context, id uint) (*models.Iuran, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIuranRepository) FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
	if m.mockFindAktifByKomplek != nil {
		return m.mockFindAktifByKomplek(ctx, komplekID)
	}
	return nil, nil
}

// Mock WargaRepository
type mockWargaRepository struct {
	repository.WargaRepository
	mockFindByID           func(ctx context.Context, id uint) (*models.Warga, error)
	mockFindAktifByKomplek func(ctx context.Context, komplekID uint) ([]models.Warga, error)
}

func (m *mockWargaRepository) FindByID(ctx context.Context, id uint) (*models.Warga, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWargaRepository) FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Warga, error) {
	if m.mockFindAktifByKomplek != nil {
		return m.mockFindAktifByKomplek(ctx, komplekID)
	}
	return nil, nil
}

// Mock TagihanRepository
type mockTagihanRepository struct {
	repository.TagihanRepository
	mockFindByID       func(ctx context.Context, id uint) (*models.Tagihan, error)
	mockFindByKey      func(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error)
	mockFindByPeriode  func(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error)
	mockCreate         func(ctx context.Context, tagihan *models.Tagihan) error
	mockUpdate         func(ctx context.Context, tagihan *models.Tagihan) error
	mockFindJatuhTempo func(ctx context.Context) ([]models.Tagihan, error)
}

func (m *mockTagihanRepository) FindByID(ctx context.Context, id uint) (*models.Tagihan, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTagihanRepository) FindByKey(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error) {
	if m.mockFindByKey != nil {
		return m.mockFindByKey(ctx, iuranID, wargaID, periode)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTagihanRepository) FindByPeriode(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error) {
	if m.mockFindByPeriode != nil {
		return m.mockFindByPeriode(ctx, komplekID, periode)
	}
	return nil, nil
}

func (m *mockTagihanRepository) Create(ctx context.Context, tagihan *models.Tagihan) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, tagihan)
	}
	return nil
}

func (m *mockTagihanRepository) Update(ctx context.Context, tagihan *models.Tagihan) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, tagihan)
	}
	return nil
}

func (m *mockTagihanRepository) FindJatuhTempo(ctx context.Context) ([]models.Tagihan, error) {
	if m.mockFindJatuhTempo != nil {
		return m.mockFindJatuhTempo(ctx)
	}
	return nil, nil
}

// Mock TransaksiRepository
type mockTransaksiRepository struct {
	repository.TransaksiRepository
	mockCreate func(ctx context.Context, transaksi *models.Transaksi) error
}

func (m *mockTransaksiRepository) Create(ctx context.Context, transaksi *models.Transaksi) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, transaksi)
	}
	return nil
}

// Mock PengurusRepository
type mockPengurusRepository struct {
	repository.PengurusRepository
	mockFindAktifByKomplek func(ctx context.Context, komplekID uint) ([]models.Pengurus, error)
}

func (m *mockPengurusRepository) FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Pengurus, error) {
	if m.mockFindAktifByKomplek != nil {
		return m.mockFindAktifByKomplek(ctx, komplekID)
	}
	return nil, nil
}

// Mock NotifikasiRepository
type mockNotifikasiRepository struct {
	repository.NotifikasiRepository
	mockCreate func(ctx context.Context, notifikasi *models.Notifikasi) error
}

func (m *mockNotifikasiRepository) Create(ctx context.Context, notifikasi *models.Notifikasi) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, notifikasi)
	}
	return nil
}

// Mock ProgramRepository
type mockProgramRepository struct {
	repository.ProgramRepository
	mockFindByIuranID func(ctx context.Context, iuranID uint) (*models.Program, error)
	mockUpdate        func(ctx context.Context, program *models.Program) error
}

func (m *mockProgramRepository) FindByIuranID(ctx context.Context, iuranID uint) (*models.Program, error) {
	if m.mockFindByIuranID != nil {
		return m.mockFindByIuranID(ctx, iuranID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepository) Update(ctx context.Context, program *models.Program) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, program)
	}
	return nil
}

type tagihanTestEnv struct {
	iuranRepo     *mockIuranRepository
	wargaRepo     *mockWargaRepository
	tagihanRepo   *mockTagihanRepository
	transaksiRepo *mockTransaksiRepository
	programRepo   *mockProgramRepository
	worker        *jobs.Worker
	service       *TagihanService
}

func newTagihanTestEnv() *tagihanTestEnv {
	env := &tagihanTestEnv{
		iuranRepo:     &mockIuranRepository{},
		wargaRepo:     &mockWargaRepository{},
		tagihanRepo:   &mockTagihanRepository{},
		transaksiRepo: &mockTransaksiRepository{},
		programRepo:   &mockProgramRepository{},
	}

	repos := &repository.Repositories{
		Iuran:      env.iuranRepo,
		Warga:      env.wargaRepo,
		Tagihan:    env.tagihanRepo,
		Transaksi:  env.transaksiRepo,
		Program:    env.programRepo,
		Pengurus:   &mockPengurusRepository{},
		Notifikasi: &mockNotifikasiRepository{},
	}

	env.worker = jobs.NewWorker(0)
	env.service = NewTagihanService(repos, NewNotifikasiService(repos), env.worker)
	return env
}

func iuranBulanan(id uint) models.Iuran {
	return models.Iuran{
		ID:          id,
		KomplekID:   1,
		Nama:        "Iuran Kebersihan",
		Tipe:        models.IuranTipeRutin,
		Nominal:     decimal.NewFromInt(50000),
		PeriodeTipe: models.PeriodeTipeBulanan,
		JatuhTempo:  10,
		Status:      models.IuranStatusAktif,
		Wajib:       true,
	}
}

func TestGenerate_CreatesOnePerPair(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1)}, nil
	}
	env.wargaRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Warga, error) {
		return []models.Warga{{ID: 10, KomplekID: 1}, {ID: 11, KomplekID: 1}}, nil
	}

	var created []models.Tagihan
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		created = append(created, *tagihan)
		return nil
	}

	result, err := env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	require.Len(t, created, 2)
	for _, tg := range created {
		assert.Equal(t, models.TagihanStatusBelumLunas, tg.Status)
		assert.True(t, tg.Nominal.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, 2026, tg.PeriodeTahun)
		assert.Equal(t, 3, tg.PeriodeBulan)
		assert.Equal(t, 10, tg.JatuhTempo.Day())
	}
}

func TestGenerate_SukarelaOnlyBilledExplicitly(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	sumbangan := iuranBulanan(2)
	sumbangan.Nama = "Sumbangan Taman"
	sumbangan.Wajib = false

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1), sumbangan}, nil
	}
	env.wargaRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Warga, error) {
		return []models.Warga{{ID: 10, KomplekID: 1}, {ID: 11, KomplekID: 1}}, nil
	}

	var created []models.Tagihan
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		created = append(created, *tagihan)
		return nil
	}

	// The batch run bills only the wajib entry.
	result, err := env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	require.Len(t, created, 2)
	for _, tg := range created {
		assert.Equal(t, uint(1), tg.IuranID)
	}

	// Naming the sukarela iuran explicitly still bills it.
	created = nil
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &sumbangan, nil
	}
	result, err = env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
		IuranID:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	require.Len(t, created, 2)
	for _, tg := range created {
		assert.Equal(t, uint(2), tg.IuranID)
	}
}

func TestGenerate_SkipsExistingPairs(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	periode := models.Periode{Tahun: 2026, Bulan: 3}

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1)}, nil
	}
	env.wargaRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Warga, error) {
		return []models.Warga{{ID: 10, KomplekID: 1}, {ID: 11, KomplekID: 1}}, nil
	}
	env.tagihanRepo.mockFindByPeriode = func(ctx context.Context, komplekID uint, p models.Periode) ([]models.Tagihan, error) {
		return []models.Tagihan{{
			ID: 100, IuranID: 1, WargaID: 10, KomplekID: 1,
			PeriodeTahun: periode.Tahun, PeriodeBulan: periode.Bulan,
			Status: models.TagihanStatusBelumLunas,
		}}, nil
	}

	createCalls := 0
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		createCalls++
		assert.Equal(t, uint(11), tagihan.WargaID)
		return nil
	}

	result, err := env.service.Generate(context.Background(), GenerateParams{KomplekID: 1, Periode: periode})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, createCalls)

	// Second run with both keys present issues nothing.
	env.tagihanRepo.mockFindByPeriode = func(ctx context.Context, komplekID uint, p models.Periode) ([]models.Tagihan, error) {
		return []models.Tagihan{
			{ID: 100, IuranID: 1, WargaID: 10, PeriodeTahun: p.Tahun, PeriodeBulan: p.Bulan, Status: models.TagihanStatusBelumLunas},
			{ID: 101, IuranID: 1, WargaID: 11, PeriodeTahun: p.Tahun, PeriodeBulan: p.Bulan, Status: models.TagihanStatusLunas},
		}, nil
	}
	result, err = env.service.Generate(context.Background(), GenerateParams{KomplekID: 1, Periode: periode})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Generated)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 1, createCalls, "no new inserts on the idempotent re-run")
}

func TestGenerate_RevivesDibatalkanInPlace(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	periode := models.Periode{Tahun: 2026, Bulan: 3}
	metode := models.MetodeTunai
	bayar := time.Now()

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1)}, nil
	}
	env.wargaRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Warga, error) {
		return []models.Warga{{ID: 10, KomplekID: 1}}, nil
	}
	env.tagihanRepo.mockFindByPeriode = func(ctx context.Context, komplekID uint, p models.Periode) ([]models.Tagihan, error) {
		return []models.Tagihan{{
			ID: 100, IuranID: 1, WargaID: 10, KomplekID: 1,
			PeriodeTahun: p.Tahun, PeriodeBulan: p.Bulan,
			Status:       models.TagihanStatusDibatalkan,
			Denda:        decimal.NewFromInt(5000),
			Metode:       &metode,
			TanggalBayar: &bayar,
		}}, nil
	}

	var updated *models.Tagihan
	env.tagihanRepo.mockUpdate = func(ctx context.Context, tagihan *models.Tagihan) error {
		updated = tagihan
		return nil
	}
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		t.Fatal("revival must update the existing row, not insert")
		return nil
	}

	result, err := env.service.Generate(context.Background(), GenerateParams{KomplekID: 1, Periode: periode})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)

	require.NotNil(t, updated)
	assert.Equal(t, uint(100), updated.ID)
	assert.Equal(t, models.TagihanStatusBelumLunas, updated.Status)
	assert.True(t, updated.Denda.IsZero())
	assert.Nil(t, updated.Metode)
	assert.Nil(t, updated.TanggalBayar)
}

func TestGenerate_CollectsPerPairErrors(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1)}, nil
	}
	env.wargaRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Warga, error) {
		return []models.Warga{{ID: 10}, {ID: 11}, {ID: 12}}, nil
	}
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		if tagihan.WargaID == 11 {
			return errors.New("insert gagal")
		}
		return nil
	}

	result, err := env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, uint(11), result.Errors[0].WargaID)
}

func TestGenerate_DuplicateInsertCountsAsSkipped(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1)}, nil
	}
	env.wargaRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Warga, error) {
		return []models.Warga{{ID: 10}}, nil
	}
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		return repository.ErrTagihanDuplikat
	}

	result, err := env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Generated)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)
}

func TestGenerate_TahunanOnlyBilledInJanuari(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	tahunan := iuranBulanan(2)
	tahunan.PeriodeTipe = models.PeriodeTipeTahunan

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{tahunan}, nil
	}
	env.wargaRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Warga, error) {
		return []models.Warga{{ID: 10}}, nil
	}

	_, err := env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
	})
	assert.ErrorIs(t, err, ErrTidakAdaIuranAktif)

	result, err := env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
}

func TestGenerate_RequiresAktifWarga(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1)}, nil
	}

	_, err := env.service.Generate(context.Background(), GenerateParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
	})
	assert.ErrorIs(t, err, ErrTidakAdaWargaAktif)
}

func TestMark_PaidCreatesMissingTagihan(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}

	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		tagihan.ID = 100
		return nil
	}

	var saved *models.Tagihan
	env.tagihanRepo.mockUpdate = func(ctx context.Context, tagihan *models.Tagihan) error {
		saved = tagihan
		return nil
	}

	var pemasukan *models.Transaksi
	env.transaksiRepo.mockCreate = func(ctx context.Context, transaksi *models.Transaksi) error {
		pemasukan = transaksi
		return nil
	}

	periode := models.PeriodeFrom(time.Now().AddDate(0, 1, 0))
	changed, tagihan, err := env.service.Mark(context.Background(), MarkParams{
		KomplekID: 1,
		Periode:   periode,
		WargaID:   10,
		IuranID:   1,
		Paid:      true,
		Metode:    models.MetodeTransfer,
	})
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, saved)

	assert.Equal(t, models.TagihanStatusLunas, tagihan.Status)
	assert.NotNil(t, tagihan.NomorKuitansi)
	require.NotNil(t, tagihan.Metode)
	assert.Equal(t, models.MetodeTransfer, *tagihan.Metode)
	assert.True(t, tagihan.Denda.IsZero())

	require.NotNil(t, pemasukan)
	assert.Equal(t, models.TransaksiPemasukan, pemasukan.Jenis)
	assert.Equal(t, models.KategoriIuran, pemasukan.Kategori)
	assert.True(t, pemasukan.Nominal.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, pemasukan.TagihanID)
	assert.Equal(t, uint(100), *pemasukan.TagihanID)
}

func TestMark_RejectsWargaFromOtherKomplek(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 99, KomplekID: 2}, nil
	}
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		t.Fatal("a charge must never be created for another komplek's warga")
		return nil
	}

	changed, tagihan, err := env.service.Mark(context.Background(), MarkParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
		WargaID:   99,
		IuranID:   1,
		Paid:      true,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, changed)
	assert.Nil(t, tagihan)
}

func TestMark_PaidTwiceIsNoop(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}

	metode := models.MetodeTunai
	env.tagihanRepo.mockFindByKey = func(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error) {
		return &models.Tagihan{
			ID: 100, IuranID: 1, WargaID: 10, KomplekID: 1,
			Status: models.TagihanStatusLunas,
			Metode: &metode,
		}, nil
	}
	env.transaksiRepo.mockCreate = func(ctx context.Context, transaksi *models.Transaksi) error {
		t.Fatal("a second payment must not reach the cash book")
		return nil
	}

	changed, _, err := env.service.Mark(context.Background(), MarkParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
		WargaID:   10,
		IuranID:   1,
		Paid:      true,
	})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMark_UnpaidResetsRowAndBooksKoreksi(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}

	metode := models.MetodeTunai
	bayar := time.Now()
	kuitansi := "KW-1"
	env.tagihanRepo.mockFindByKey = func(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error) {
		return &models.Tagihan{
			ID: 100, IuranID: 1, WargaID: 10, KomplekID: 1,
			Nominal:       decimal.NewFromInt(50000),
			Denda:         decimal.NewFromInt(5000),
			Status:        models.TagihanStatusTerlambat,
			Metode:        &metode,
			TanggalBayar:  &bayar,
			NomorKuitansi: &kuitansi,
		}, nil
	}

	var saved *models.Tagihan
	env.tagihanRepo.mockUpdate = func(ctx context.Context, tagihan *models.Tagihan) error {
		saved = tagihan
		return nil
	}

	var koreksi *models.Transaksi
	env.transaksiRepo.mockCreate = func(ctx context.Context, transaksi *models.Transaksi) error {
		koreksi = transaksi
		return nil
	}

	changed, tagihan, err := env.service.Mark(context.Background(), MarkParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
		WargaID:   10,
		IuranID:   1,
		Paid:      false,
	})
	require.NoError(t, err)
	assert.True(t, changed)

	require.NotNil(t, saved)
	assert.Equal(t, models.TagihanStatusBelumLunas, tagihan.Status)
	assert.True(t, tagihan.Denda.IsZero())
	assert.Nil(t, tagihan.Metode)
	assert.Nil(t, tagihan.TanggalBayar)
	assert.Nil(t, tagihan.NomorKuitansi)

	// The reversal returns nominal + denda of the original payment.
	require.NotNil(t, koreksi)
	assert.Equal(t, models.TransaksiPengeluaran, koreksi.Jenis)
	assert.Equal(t, models.KategoriKoreksi, koreksi.Kategori)
	assert.True(t, koreksi.Nominal.Equal(decimal.NewFromInt(55000)))
}

func TestMark_UnpaidOnUnpaidIsNoop(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}
	env.tagihanRepo.mockFindByKey = func(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error) {
		return &models.Tagihan{ID: 100, Status: models.TagihanStatusBelumLunas}, nil
	}
	env.transaksiRepo.mockCreate = func(ctx context.Context, transaksi *models.Transaksi) error {
		t.Fatal("no cash book entry for a no-op")
		return nil
	}

	changed, _, err := env.service.Mark(context.Background(), MarkParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
		WargaID:   10,
		IuranID:   1,
		Paid:      false,
	})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMark_ResolvesSingleAktifIuran(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(7)
	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuran}, nil
	}
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		assert.Equal(t, uint(7), id)
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}

	changed, _, err := env.service.Mark(context.Background(), MarkParams{
		KomplekID: 1,
		Periode:   models.PeriodeFrom(time.Now().AddDate(0, 1, 0)),
		WargaID:   10,
		Paid:      true,
	})
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestMark_AmbiguousIuranRejected(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	env.iuranRepo.mockFindAktifByKomplek = func(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
		return []models.Iuran{iuranBulanan(1), iuranBulanan(2)}, nil
	}

	_, _, err := env.service.Mark(context.Background(), MarkParams{
		KomplekID: 1,
		Periode:   models.Periode{Tahun: 2026, Bulan: 3},
		WargaID:   10,
		Paid:      true,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBayar_RejectsPaidCharge(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}
	env.tagihanRepo.mockFindByKey = func(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error) {
		return &models.Tagihan{ID: 100, Status: models.TagihanStatusLunas}, nil
	}

	_, err := env.service.Bayar(context.Background(), BayarParams{
		IuranID: 1,
		WargaID: 10,
		Periode: models.Periode{Tahun: 2026, Bulan: 3},
	})
	assert.ErrorIs(t, err, ErrSudahDibayar)
}

func TestBayar_DuplicateInsertRace(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		return repository.ErrTagihanDuplikat
	}

	_, err := env.service.Bayar(context.Background(), BayarParams{
		IuranID: 1,
		WargaID: 10,
		Periode: models.Periode{Tahun: 2026, Bulan: 3},
	})
	assert.ErrorIs(t, err, ErrSudahDibayar)
}

func TestBayar_LatePaymentAccruesDenda(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	iuran := iuranBulanan(1)
	iuran.DendaPerHari = decimal.NewFromInt(1000)
	iuran.DendaMaksimal = decimal.NewFromInt(3000)

	env.iuranRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Iuran, error) {
		return &iuran, nil
	}
	env.wargaRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Warga, error) {
		return &models.Warga{ID: 10, KomplekID: 1}, nil
	}
	env.tagihanRepo.mockCreate = func(ctx context.Context, tagihan *models.Tagihan) error {
		tagihan.ID = 100
		return nil
	}

	var pemasukan *models.Transaksi
	env.transaksiRepo.mockCreate = func(ctx context.Context, transaksi *models.Transaksi) error {
		pemasukan = transaksi
		return nil
	}

	// Ten days past due; the cap keeps the fee at 3000.
	periode := models.Periode{Tahun: 2026, Bulan: 3}
	paidAt := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	tagihan, err := env.service.Bayar(context.Background(), BayarParams{
		IuranID: 1,
		WargaID: 10,
		Periode: periode,
		PaidAt:  &paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TagihanStatusTerlambat, tagihan.Status)
	assert.True(t, tagihan.Denda.Equal(decimal.NewFromInt(3000)))

	require.NotNil(t, pemasukan)
	assert.True(t, pemasukan.Nominal.Equal(decimal.NewFromInt(53000)))
}

func TestBatal_PaidChargeBooksKoreksi(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	env.tagihanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Tagihan, error) {
		return &models.Tagihan{
			ID: 100, KomplekID: 1,
			Nominal: decimal.NewFromInt(50000),
			Denda:   decimal.NewFromInt(2000),
			Status:  models.TagihanStatusLunas,
		}, nil
	}

	var koreksi *models.Transaksi
	env.transaksiRepo.mockCreate = func(ctx context.Context, transaksi *models.Transaksi) error {
		koreksi = transaksi
		return nil
	}

	tagihan, err := env.service.Batal(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, models.TagihanStatusDibatalkan, tagihan.Status)

	require.NotNil(t, koreksi)
	assert.Equal(t, models.TransaksiPengeluaran, koreksi.Jenis)
	assert.True(t, koreksi.Nominal.Equal(decimal.NewFromInt(52000)))
}

func TestBatal_AlreadyDibatalkan(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	env.tagihanRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Tagihan, error) {
		return &models.Tagihan{ID: 100, Status: models.TagihanStatusDibatalkan}, nil
	}

	_, err := env.service.Batal(context.Background(), 100)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRefreshDenda_UpdatesOnlyChangedRows(t *testing.T) {
	env := newTagihanTestEnv()
	defer env.worker.Shutdown()

	pastDue := time.Now().AddDate(0, 0, -5)
	env.tagihanRepo.mockFindJatuhTempo = func(ctx context.Context) ([]models.Tagihan, error) {
		current := HitungDenda(decimal.NewFromInt(1000), decimal.Zero, pastDue, time.Now())
		return []models.Tagihan{
			{ID: 1, DendaPerHari: decimal.NewFromInt(1000), JatuhTempo: pastDue, Denda: decimal.Zero, Status: models.TagihanStatusBelumLunas},
			{ID: 2, DendaPerHari: decimal.NewFromInt(1000), JatuhTempo: pastDue, Denda: current, Status: models.TagihanStatusBelumLunas},
		}, nil
	}

	var updatedIDs []uint
	env.tagihanRepo.mockUpdate = func(ctx context.Context, tagihan *models.Tagihan) error {
		updatedIDs = append(updatedIDs, tagihan.ID)
		return nil
	}

	err := env.service.RefreshDenda(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, updatedIDs)
}
