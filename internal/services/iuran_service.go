package services

import (
	"context"
	"errors"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"gorm.io/gorm"
)

// IuranService manages the dues catalog
type IuranService struct {
	repos *repository.Repositories
}

func NewIuranService(repos *repository.Repositories) *IuranService {
	return &IuranService{repos: repos}
}

func (s *IuranService) FindByID(ctx context.Context, id uint) (*models.Iuran, error) {
	iuran, err := s.repos.Iuran.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return iuran, nil
}

func (s *IuranService) List(ctx context.Context, query *repository.ListQuery) ([]models.Iuran, int64, error) {
	return s.repos.Iuran.List(ctx, query)
}

func (s *IuranService) Create(ctx context.Context, iuran *models.Iuran) error {
	if iuran.Nominal.Sign() <= 0 {
		return ErrValidation
	}
	if iuran.Tipe == "" {
		iuran.Tipe = models.IuranTipeRutin
	}
	if iuran.PeriodeTipe == "" {
		iuran.PeriodeTipe = models.PeriodeTipeBulanan
	}
	if iuran.Status == "" {
		iuran.Status = models.IuranStatusAktif
	}
	return s.repos.Iuran.Create(ctx, iuran)
}

// Update edits a catalog entry. Existing tagihan are untouched; they carry
// snapshots of the nominal and denda rule from generation time.
func (s *IuranService) Update(ctx context.Context, iuran *models.Iuran) error {
	if iuran.Nominal.Sign() <= 0 {
		return ErrValidation
	}
	return s.repos.Iuran.Update(ctx, iuran)
}

// Nonaktifkan retires a catalog entry from future generation runs
func (s *IuranService) Nonaktifkan(ctx context.Context, id uint) (*models.Iuran, error) {
	iuran, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	iuran.Status = models.IuranStatusNonaktif
	if err := s.repos.Iuran.Update(ctx, iuran); err != nil {
		return nil, err
	}
	return iuran, nil
}

// Delete removes a catalog entry that was never billed. Entries with
// tagihan are refused; retire them with Nonaktifkan instead.
func (s *IuranService) Delete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.repos.Tagihan.CountByIuran(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrIuranDipakai
	}
	return s.repos.Iuran.Delete(ctx, id)
}
