package services

import (
	"context"
	"errors"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransaksiService manages the komplek cash book
type TransaksiService struct {
	repos *repository.Repositories
}

func NewTransaksiService(repos *repository.Repositories) *TransaksiService {
	return &TransaksiService{repos: repos}
}

func (s *TransaksiService) FindByID(ctx context.Context, id uint) (*models.Transaksi, error) {
	transaksi, err := s.repos.Transaksi.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return transaksi, nil
}

func (s *TransaksiService) List(ctx context.Context, query *repository.ListQuery) ([]models.Transaksi, int64, error) {
	return s.repos.Transaksi.List(ctx, query)
}

// Create records a manual cash book entry. Entries tied to tagihan are
// written by the payment recorder, not through here.
func (s *TransaksiService) Create(ctx context.Context, transaksi *models.Transaksi) error {
	if transaksi.Jenis != models.TransaksiPemasukan && transaksi.Jenis != models.TransaksiPengeluaran {
		return ErrValidation
	}
	if transaksi.Nominal.Sign() <= 0 {
		return ErrValidation
	}
	if transaksi.Kategori == "" {
		transaksi.Kategori = models.KategoriLainnya
	}
	if transaksi.Tanggal.IsZero() {
		transaksi.Tanggal = time.Now()
	}
	return s.repos.Transaksi.Create(ctx, transaksi)
}

// Update edits a manual entry. Entries generated from tagihan are immutable;
// correcting those means cancelling the payment itself.
func (s *TransaksiService) Update(ctx context.Context, transaksi *models.Transaksi) error {
	existing, err := s.FindByID(ctx, transaksi.ID)
	if err != nil {
		return err
	}
	if existing.TagihanID != nil {
		return ErrInvalidState
	}
	if transaksi.Nominal.Sign() <= 0 {
		return ErrValidation
	}
	return s.repos.Transaksi.Update(ctx, transaksi)
}

func (s *TransaksiService) Delete(ctx context.Context, id uint) error {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.TagihanID != nil {
		return ErrInvalidState
	}
	return s.repos.Transaksi.Delete(ctx, id)
}

// SaldoKas returns the current cash balance of a komplek
func (s *TransaksiService) SaldoKas(ctx context.Context, komplekID uint) (decimal.Decimal, error) {
	return s.repos.Transaksi.SaldoKas(ctx, komplekID)
}

// RiwayatTagihan returns the cash book entries tied to one tagihan
func (s *TransaksiService) RiwayatTagihan(ctx context.Context, tagihanID uint) ([]models.Transaksi, error) {
	return s.repos.Transaksi.FindByTagihanID(ctx, tagihanID)
}
