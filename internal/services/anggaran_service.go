package services

import (
	"context"
	"errors"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"gorm.io/gorm"
)

// AnggaranService manages budget lines and their realization
type AnggaranService struct {
	repos *repository.Repositories
}

func NewAnggaranService(repos *repository.Repositories) *AnggaranService {
	return &AnggaranService{repos: repos}
}

func (s *AnggaranService) FindByID(ctx context.Context, id uint) (*models.Anggaran, error) {
	anggaran, err := s.repos.Anggaran.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return anggaran, nil
}

func (s *AnggaranService) List(ctx context.Context, query *repository.ListQuery) ([]models.Anggaran, int64, error) {
	return s.repos.Anggaran.List(ctx, query)
}

func (s *AnggaranService) Create(ctx context.Context, anggaran *models.Anggaran) error {
	if anggaran.Nominal.Sign() <= 0 {
		return ErrValidation
	}
	if anggaran.PeriodeBulan < 1 || anggaran.PeriodeBulan > 12 {
		return ErrPeriodeInvalid
	}
	return s.repos.Anggaran.Create(ctx, anggaran)
}

func (s *AnggaranService) Update(ctx context.Context, anggaran *models.Anggaran) error {
	if anggaran.Nominal.Sign() <= 0 {
		return ErrValidation
	}
	return s.repos.Anggaran.Update(ctx, anggaran)
}

func (s *AnggaranService) Delete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repos.Anggaran.Delete(ctx, id)
}

// Realisasi pairs every budget line of a period with the transaksi sum of
// the same kategori, so the board can compare plan against actuals.
func (s *AnggaranService) Realisasi(ctx context.Context, komplekID uint, periode models.Periode) ([]models.AnggaranRealisasi, error) {
	anggaran, err := s.repos.Anggaran.FindByPeriode(ctx, komplekID, periode)
	if err != nil {
		return nil, err
	}

	result := make([]models.AnggaranRealisasi, 0, len(anggaran))
	for _, a := range anggaran {
		realisasi, err := s.repos.Transaksi.SumByKategori(ctx, komplekID, a.Kategori, periode)
		if err != nil {
			return nil, err
		}

		row := models.AnggaranRealisasi{
			Anggaran:  a,
			Realisasi: realisasi,
			Sisa:      a.Nominal.Sub(realisasi),
		}
		if a.Nominal.Sign() > 0 {
			persen, _ := realisasi.Mul(decimalHundred).Div(a.Nominal).Round(2).Float64()
			row.Persentase = persen
		}
		result = append(result, row)
	}
	return result, nil
}
