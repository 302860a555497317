package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/jobs"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/chaali03/KomplekKita-sub001/internal/statemachine"
	"github.com/chaali03/KomplekKita-sub001/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GenerateError describes one failed (iuran, warga) pair in a batch run
type GenerateError struct {
	IuranID uint   `json:"iuran_id"`
	WargaID uint   `json:"warga_id"`
	Pesan   string `json:"pesan"`
}

// GenerateResult summarizes a batch generation run
type GenerateResult struct {
	Generated int             `json:"generated"`
	Skipped   int             `json:"skipped"`
	Errors    []GenerateError `json:"errors"`
}

// GenerateParams controls a batch generation run. IuranID narrows the run
// to a single catalog entry; Nominal, when set, overrides the billed amount
// for that entry.
type GenerateParams struct {
	KomplekID uint
	Periode   models.Periode
	IuranID   uint
	Nominal   *decimal.Decimal
	Force     bool
}

// MarkParams identifies the charge to toggle and carries optional payment
// details. IuranID may be zero when the komplek has exactly one aktif iuran.
type MarkParams struct {
	KomplekID uint
	Periode   models.Periode
	WargaID   uint
	IuranID   uint
	Paid      bool
	Nominal   *decimal.Decimal
	Metode    string
	PaidAt    *time.Time
}

// BayarParams carries a direct payment for one (iuran, warga, periode) key
type BayarParams struct {
	IuranID uint
	WargaID uint
	Periode models.Periode
	Nominal *decimal.Decimal
	Denda   *decimal.Decimal
	Metode  string
	PaidAt  *time.Time
	Catatan *string
}

type TagihanService struct {
	repos         *repository.Repositories
	notifikasiSvc *NotifikasiService
	worker        *jobs.Worker
}

func NewTagihanService(
	repos *repository.Repositories,
	notifikasiSvc *NotifikasiService,
	worker *jobs.Worker,
) *TagihanService {
	return &TagihanService{
		repos:         repos,
		notifikasiSvc: notifikasiSvc,
		worker:        worker,
	}
}

func (s *TagihanService) FindByID(ctx context.Context, id uint) (*models.Tagihan, error) {
	tagihan, err := s.repos.Tagihan.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tagihan, nil
}

func (s *TagihanService) List(ctx context.Context, query *repository.ListQuery) ([]models.Tagihan, int64, error) {
	return s.repos.Tagihan.List(ctx, query)
}

// billableIn reports whether an iuran is due for billing in the given
// period: bulanan every month, tahunan in January only. Harian, mingguan
// and sekali entries are settled through Bayar, not the batch generator.
func billableIn(iuran *models.Iuran, periode models.Periode) bool {
	switch iuran.PeriodeTipe {
	case models.PeriodeTipeBulanan:
		return true
	case models.PeriodeTipeTahunan:
		return periode.Bulan == 1
	default:
		return false
	}
}

// Generate expands the aktif iuran catalog into one tagihan per aktif warga
// for the billing period. Existing charges for a key are skipped unless
// force is set; per-pair failures are collected without aborting the batch.
func (s *TagihanService) Generate(ctx context.Context, p GenerateParams) (*GenerateResult, error) {
	var catalog []models.Iuran
	if p.IuranID != 0 {
		iuran, err := s.repos.Iuran.FindByID(ctx, p.IuranID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if iuran.KomplekID != p.KomplekID || !iuran.IsAktif() {
			return nil, ErrTidakAdaIuranAktif
		}
		catalog = []models.Iuran{*iuran}
	} else {
		all, err := s.repos.Iuran.FindAktifByKomplek(ctx, p.KomplekID)
		if err != nil {
			return nil, err
		}
		for _, iuran := range all {
			if iuran.Wajib && billableIn(&iuran, p.Periode) {
				catalog = append(catalog, iuran)
			}
		}
	}
	if len(catalog) == 0 {
		return nil, ErrTidakAdaIuranAktif
	}

	warga, err := s.repos.Warga.FindAktifByKomplek(ctx, p.KomplekID)
	if err != nil {
		return nil, err
	}
	if len(warga) == 0 {
		return nil, ErrTidakAdaWargaAktif
	}

	// One query for the whole period instead of an existence check per pair.
	existing, err := s.repos.Tagihan.FindByPeriode(ctx, p.KomplekID, p.Periode)
	if err != nil {
		return nil, err
	}
	type key struct{ iuranID, wargaID uint }
	existingByKey := make(map[key]*models.Tagihan, len(existing))
	for i := range existing {
		t := &existing[i]
		existingByKey[key{t.IuranID, t.WargaID}] = t
	}

	result := &GenerateResult{}
	for _, iuran := range catalog {
		nominal := iuran.Nominal
		if p.IuranID != 0 && p.Nominal != nil && p.Nominal.Sign() > 0 {
			nominal = *p.Nominal
		}
		jatuhTempo := iuran.JatuhTempoFor(p.Periode)

		for _, w := range warga {
			prior := existingByKey[key{iuran.ID, w.ID}]
			if prior != nil && !p.Force && prior.Status != models.TagihanStatusDibatalkan {
				result.Skipped++
				continue
			}

			if prior != nil {
				// Force regeneration and revival of cancelled charges update
				// the existing row in place; the unique index forbids a
				// second insert for the key.
				prior.Nominal = nominal
				prior.Denda = decimal.Zero
				prior.DendaPerHari = iuran.DendaPerHari
				prior.DendaMaksimal = iuran.DendaMaksimal
				prior.JatuhTempo = jatuhTempo
				prior.Status = models.TagihanStatusBelumLunas
				prior.Metode = nil
				prior.TanggalBayar = nil
				prior.NomorKuitansi = nil
				if err := s.repos.Tagihan.Update(ctx, prior); err != nil {
					result.Errors = append(result.Errors, GenerateError{
						IuranID: iuran.ID,
						WargaID: w.ID,
						Pesan:   err.Error(),
					})
					continue
				}
				result.Generated++
				continue
			}

			tagihan := &models.Tagihan{
				IuranID:       iuran.ID,
				WargaID:       w.ID,
				KomplekID:     p.KomplekID,
				PeriodeTahun:  p.Periode.Tahun,
				PeriodeBulan:  p.Periode.Bulan,
				Nominal:       nominal,
				Denda:         decimal.Zero,
				DendaPerHari:  iuran.DendaPerHari,
				DendaMaksimal: iuran.DendaMaksimal,
				JatuhTempo:    jatuhTempo,
				Status:        models.TagihanStatusBelumLunas,
			}
			if err := s.repos.Tagihan.Create(ctx, tagihan); err != nil {
				if errors.Is(err, repository.ErrTagihanDuplikat) {
					// Lost a race with a concurrent run; the charge exists.
					result.Skipped++
					continue
				}
				result.Errors = append(result.Errors, GenerateError{
					IuranID: iuran.ID,
					WargaID: w.ID,
					Pesan:   err.Error(),
				})
				continue
			}
			result.Generated++
		}
	}

	if result.Generated > 0 {
		komplekID := p.KomplekID
		periode := p.Periode
		generated := result.Generated
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notifikasiSvc.NotifyKomplek(ctx, komplekID,
				"Tagihan dibuat",
				fmt.Sprintf("%d tagihan periode %s telah dibuat", generated, periode),
				models.NotifikasiTagihanDibuat)
		})
	}

	return result, nil
}

// resolveIuranID fills in the iuran when the caller omitted it and the
// komplek has exactly one aktif iuran to bill against.
func (s *TagihanService) resolveIuranID(ctx context.Context, komplekID, iuranID uint) (uint, error) {
	if iuranID != 0 {
		return iuranID, nil
	}
	catalog, err := s.repos.Iuran.FindAktifByKomplek(ctx, komplekID)
	if err != nil {
		return 0, err
	}
	if len(catalog) != 1 {
		return 0, fmt.Errorf("%w: iuran_id wajib diisi", ErrValidation)
	}
	return catalog[0].ID, nil
}

// Mark toggles the payment state for one (iuran, warga, periode) key.
// Marking paid creates the tagihan when the generator has not issued one
// yet; marking unpaid keeps the row and resets it to belum_lunas. The whole
// toggle runs in one transaction; the composite unique index settles
// concurrent submissions for the same key.
func (s *TagihanService) Mark(ctx context.Context, p MarkParams) (bool, *models.Tagihan, error) {
	iuranID, err := s.resolveIuranID(ctx, p.KomplekID, p.IuranID)
	if err != nil {
		return false, nil, err
	}

	iuran, err := s.repos.Iuran.FindByID(ctx, iuranID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, ErrNotFound
		}
		return false, nil, err
	}
	if iuran.KomplekID != p.KomplekID {
		return false, nil, ErrNotFound
	}

	warga, err := s.repos.Warga.FindByID(ctx, p.WargaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, ErrNotFound
		}
		return false, nil, err
	}
	if warga.KomplekID != p.KomplekID {
		return false, nil, ErrNotFound
	}

	var marked bool
	var out *models.Tagihan
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tagihan, err := tx.Tagihan.FindByKey(ctx, iuran.ID, p.WargaID, p.Periode)
		notFound := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !notFound {
			return err
		}

		if p.Paid {
			paidAt := time.Now()
			if p.PaidAt != nil {
				paidAt = *p.PaidAt
			}

			if notFound {
				tagihan = &models.Tagihan{
					IuranID:       iuran.ID,
					WargaID:       p.WargaID,
					KomplekID:     p.KomplekID,
					PeriodeTahun:  p.Periode.Tahun,
					PeriodeBulan:  p.Periode.Bulan,
					Nominal:       iuran.Nominal,
					DendaPerHari:  iuran.DendaPerHari,
					DendaMaksimal: iuran.DendaMaksimal,
					JatuhTempo:    iuran.JatuhTempoFor(p.Periode),
					Status:        models.TagihanStatusBelumLunas,
				}
				if err := tx.Tagihan.Create(ctx, tagihan); err != nil {
					if errors.Is(err, repository.ErrTagihanDuplikat) {
						return ErrSudahDibayar
					}
					return err
				}
			} else if tagihan.Status == models.TagihanStatusDibatalkan {
				return ErrInvalidState
			} else if tagihan.IsLunas() {
				// Already paid; nothing to record.
				out = tagihan
				return nil
			}

			if p.Nominal != nil && p.Nominal.Sign() > 0 {
				tagihan.Nominal = *p.Nominal
			}

			denda := HitungDenda(tagihan.DendaPerHari, tagihan.DendaMaksimal, tagihan.JatuhTempo, paidAt)
			if tagihan.Status == models.TagihanStatusBelumLunas {
				tfsm := statemachine.NewTagihanFSM(tagihan)
				if err := tfsm.Bayar(ctx, denda.Sign() > 0); err != nil {
					return ErrInvalidState
				}
			}

			tagihan.Denda = denda
			metode := p.Metode
			if metode == "" {
				metode = models.MetodeTunai
			}
			tagihan.Metode = &metode
			tagihan.TanggalBayar = &paidAt
			if tagihan.NomorKuitansi == nil {
				kuitansi := uuid.NewString()
				tagihan.NomorKuitansi = &kuitansi
			}

			if err := tx.Tagihan.Update(ctx, tagihan); err != nil {
				return err
			}

			if err := tx.Transaksi.Create(ctx, s.pemasukanFor(tagihan, iuran)); err != nil {
				return err
			}

			marked = true
			out = tagihan
			return nil
		}

		// Mark unpaid: keep the row, reset it to belum_lunas and record a
		// compensating cash book entry so kas stays consistent.
		if notFound || !tagihan.IsLunas() {
			return nil
		}

		dikembalikan := tagihan.TotalTagihan()
		tfsm := statemachine.NewTagihanFSM(tagihan)
		if err := tfsm.BatalkanPembayaran(ctx); err != nil {
			return ErrInvalidState
		}
		tagihan.Denda = decimal.Zero
		tagihan.Metode = nil
		tagihan.TanggalBayar = nil
		tagihan.NomorKuitansi = nil

		if err := tx.Tagihan.Update(ctx, tagihan); err != nil {
			return err
		}

		koreksi := &models.Transaksi{
			KomplekID:  tagihan.KomplekID,
			TagihanID:  &tagihan.ID,
			Jenis:      models.TransaksiPengeluaran,
			Kategori:   models.KategoriKoreksi,
			Nominal:    dikembalikan,
			Keterangan: fmt.Sprintf("Pembatalan pembayaran tagihan #%d periode %s", tagihan.ID, tagihan.Periode()),
			Tanggal:    time.Now(),
		}
		if err := tx.Transaksi.Create(ctx, koreksi); err != nil {
			return err
		}

		marked = true
		out = tagihan
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	if marked && out != nil && p.Paid {
		s.afterPembayaran(out, iuran)
	}

	return marked, out, nil
}

// Bayar records a direct payment for one key. A paid charge for the same
// key is rejected; an unpaid generated charge is settled in place; a
// missing charge is created already paid.
func (s *TagihanService) Bayar(ctx context.Context, p BayarParams) (*models.Tagihan, error) {
	iuran, err := s.repos.Iuran.FindByID(ctx, p.IuranID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	warga, err := s.repos.Warga.FindByID(ctx, p.WargaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if warga.KomplekID != iuran.KomplekID {
		return nil, ErrNotFound
	}

	paidAt := time.Now()
	if p.PaidAt != nil {
		paidAt = *p.PaidAt
	}

	var out *models.Tagihan
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tagihan, err := tx.Tagihan.FindByKey(ctx, iuran.ID, p.WargaID, p.Periode)
		notFound := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !notFound {
			return err
		}

		if !notFound {
			if tagihan.IsLunas() {
				return ErrSudahDibayar
			}
			if tagihan.Status == models.TagihanStatusDibatalkan {
				return ErrInvalidState
			}
		} else {
			tagihan = &models.Tagihan{
				IuranID:       iuran.ID,
				WargaID:       p.WargaID,
				KomplekID:     iuran.KomplekID,
				PeriodeTahun:  p.Periode.Tahun,
				PeriodeBulan:  p.Periode.Bulan,
				Nominal:       iuran.Nominal,
				DendaPerHari:  iuran.DendaPerHari,
				DendaMaksimal: iuran.DendaMaksimal,
				JatuhTempo:    iuran.JatuhTempoFor(p.Periode),
				Status:        models.TagihanStatusBelumLunas,
			}
			if err := tx.Tagihan.Create(ctx, tagihan); err != nil {
				if errors.Is(err, repository.ErrTagihanDuplikat) {
					return ErrSudahDibayar
				}
				return err
			}
		}

		if p.Nominal != nil && p.Nominal.Sign() > 0 {
			tagihan.Nominal = *p.Nominal
		}

		denda := HitungDenda(tagihan.DendaPerHari, tagihan.DendaMaksimal, tagihan.JatuhTempo, paidAt)
		if p.Denda != nil && p.Denda.Sign() >= 0 {
			denda = *p.Denda
		}

		tfsm := statemachine.NewTagihanFSM(tagihan)
		if err := tfsm.Bayar(ctx, denda.Sign() > 0); err != nil {
			return ErrInvalidState
		}

		tagihan.Denda = denda
		metode := p.Metode
		if metode == "" {
			metode = models.MetodeTunai
		}
		tagihan.Metode = &metode
		tagihan.TanggalBayar = &paidAt
		tagihan.Catatan = p.Catatan
		kuitansi := uuid.NewString()
		tagihan.NomorKuitansi = &kuitansi

		if err := tx.Tagihan.Update(ctx, tagihan); err != nil {
			return err
		}

		if err := tx.Transaksi.Create(ctx, s.pemasukanFor(tagihan, iuran)); err != nil {
			return err
		}

		out = tagihan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterPembayaran(out, iuran)
	return out, nil
}

// SimpanBukti attaches an uploaded payment proof to a tagihan
func (s *TagihanService) SimpanBukti(ctx context.Context, id uint, path string) (*models.Tagihan, error) {
	tagihan, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tagihan.Status == models.TagihanStatusDibatalkan {
		return nil, ErrInvalidState
	}
	tagihan.BuktiBayar = &path
	if err := s.repos.Tagihan.Update(ctx, tagihan); err != nil {
		return nil, err
	}
	return tagihan, nil
}

// Batal cancels a tagihan administratively. A paid charge gets a
// compensating cash book entry before it is voided.
func (s *TagihanService) Batal(ctx context.Context, id uint) (*models.Tagihan, error) {
	var out *models.Tagihan
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tagihan, err := tx.Tagihan.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		wasPaid := tagihan.IsLunas()
		dikembalikan := tagihan.TotalTagihan()

		tfsm := statemachine.NewTagihanFSM(tagihan)
		if err := tfsm.Batal(ctx); err != nil {
			return ErrInvalidState
		}

		if err := tx.Tagihan.Update(ctx, tagihan); err != nil {
			return err
		}

		if wasPaid {
			koreksi := &models.Transaksi{
				KomplekID:  tagihan.KomplekID,
				TagihanID:  &tagihan.ID,
				Jenis:      models.TransaksiPengeluaran,
				Kategori:   models.KategoriKoreksi,
				Nominal:    dikembalikan,
				Keterangan: fmt.Sprintf("Pembatalan tagihan #%d periode %s", tagihan.ID, tagihan.Periode()),
				Tanggal:    time.Now(),
			}
			if err := tx.Transaksi.Create(ctx, koreksi); err != nil {
				return err
			}
		}

		out = tagihan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshDenda recomputes the accrued late fee on unpaid charges past due.
// Runs daily from the scheduler; payment recording recomputes the final
// denda itself, this only keeps the displayed amount current.
func (s *TagihanService) RefreshDenda(ctx context.Context) error {
	tagihan, err := s.repos.Tagihan.FindJatuhTempo(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	updated := 0
	for i := range tagihan {
		t := &tagihan[i]
		accrued := HitungDenda(t.DendaPerHari, t.DendaMaksimal, t.JatuhTempo, now)
		if accrued.Equal(t.Denda) {
			continue
		}
		t.Denda = accrued
		if err := s.repos.Tagihan.Update(ctx, t); err != nil {
			logger.Error("Gagal memperbarui denda tagihan", "tagihan_id", t.ID, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		logger.Info("Denda tagihan diperbarui", "jumlah", updated)
	}
	return nil
}

// GenerateOtomatis runs the monthly batch for every aktif komplek using the
// current billing period. Safe to re-run: existing charges are skipped.
func (s *TagihanService) GenerateOtomatis(ctx context.Context) error {
	komplek, err := s.repos.Komplek.FindAktif(ctx)
	if err != nil {
		return err
	}

	periode := models.PeriodeFrom(time.Now())
	for _, k := range komplek {
		result, err := s.Generate(ctx, GenerateParams{KomplekID: k.ID, Periode: periode})
		if err != nil {
			if errors.Is(err, ErrTidakAdaIuranAktif) || errors.Is(err, ErrTidakAdaWargaAktif) {
				continue
			}
			logger.Error("Gagal membuat tagihan otomatis", "komplek_id", k.ID, "error", err)
			continue
		}
		logger.Info("Tagihan otomatis dibuat",
			"komplek_id", k.ID,
			"periode", periode.String(),
			"generated", result.Generated,
			"skipped", result.Skipped,
			"errors", len(result.Errors))
	}
	return nil
}

func (s *TagihanService) pemasukanFor(tagihan *models.Tagihan, iuran *models.Iuran) *models.Transaksi {
	kategori := models.KategoriIuran
	if iuran.Tipe == models.IuranTipeSumbangan {
		kategori = models.KategoriSumbangan
	}
	return &models.Transaksi{
		KomplekID:  tagihan.KomplekID,
		TagihanID:  &tagihan.ID,
		Jenis:      models.TransaksiPemasukan,
		Kategori:   kategori,
		Nominal:    tagihan.TotalTagihan(),
		Keterangan: fmt.Sprintf("Pembayaran %s periode %s", iuran.Nama, tagihan.Periode()),
		Tanggal:    time.Now(),
	}
}

// afterPembayaran runs the async side effects of a successful payment:
// pengurus notification and, for sumbangan linked to a program, the
// dana_terkumpul rollup.
func (s *TagihanService) afterPembayaran(tagihan *models.Tagihan, iuran *models.Iuran) {
	tagihanID := tagihan.ID
	komplekID := tagihan.KomplekID
	total := tagihan.TotalTagihan()
	periode := tagihan.Periode()

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notifikasiSvc.NotifyKomplek(ctx, komplekID,
			"Pembayaran masuk",
			fmt.Sprintf("Pembayaran %s sebesar %s untuk periode %s diterima", iuran.Nama, total.StringFixed(2), periode),
			models.NotifikasiPembayaranMasuk)
	})

	if iuran.Tipe != models.IuranTipeSumbangan {
		return
	}
	iuranID := iuran.ID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		program, err := s.repos.Program.FindByIuranID(ctx, iuranID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		tagihanTerbayar, err := s.repos.Tagihan.FindByID(ctx, tagihanID)
		if err != nil {
			return err
		}
		if !tagihanTerbayar.IsLunas() {
			return nil
		}
		program.DanaTerkumpul = program.DanaTerkumpul.Add(tagihanTerbayar.Nominal)
		return s.repos.Program.Update(ctx, program)
	})
}
