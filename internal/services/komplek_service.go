package services

import (
	"context"
	"errors"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KomplekService manages komplek profiles
type KomplekService struct {
	repos *repository.Repositories
}

func NewKomplekService(repos *repository.Repositories) *KomplekService {
	return &KomplekService{repos: repos}
}

func (s *KomplekService) FindByID(ctx context.Context, id uint) (*models.Komplek, error) {
	komplek, err := s.repos.Komplek.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return komplek, nil
}

func (s *KomplekService) Create(ctx context.Context, komplek *models.Komplek) error {
	if komplek.Nama == "" {
		return ErrValidation
	}
	if komplek.GUID == "" {
		komplek.GUID = uuid.NewString()
	}
	if komplek.Status == "" {
		komplek.Status = models.KomplekStatusAktif
	}
	return s.repos.Komplek.Create(ctx, komplek)
}

func (s *KomplekService) Update(ctx context.Context, komplek *models.Komplek) error {
	if komplek.Nama == "" {
		return ErrValidation
	}
	return s.repos.Komplek.Update(ctx, komplek)
}

// Statistik returns headline numbers for the komplek dashboard
func (s *KomplekService) Statistik(ctx context.Context, komplekID uint) (map[string]interface{}, error) {
	totalWarga, err := s.repos.Warga.CountByKomplek(ctx, komplekID)
	if err != nil {
		return nil, err
	}
	saldo, err := s.repos.Transaksi.SaldoKas(ctx, komplekID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_warga": totalWarga,
		"saldo_kas":   saldo,
	}, nil
}
