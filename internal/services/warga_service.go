package services

import (
	"context"
	"errors"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"gorm.io/gorm"
)

// WargaService handles resident management
type WargaService struct {
	repos *repository.Repositories
}

func NewWargaService(repos *repository.Repositories) *WargaService {
	return &WargaService{repos: repos}
}

func (s *WargaService) FindByID(ctx context.Context, id uint) (*models.Warga, error) {
	warga, err := s.repos.Warga.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return warga, nil
}

func (s *WargaService) List(ctx context.Context, query *repository.ListQuery) ([]models.Warga, int64, error) {
	return s.repos.Warga.List(ctx, query)
}

func (s *WargaService) Create(ctx context.Context, warga *models.Warga) error {
	if warga.Status == "" {
		warga.Status = models.WargaStatusAktif
	}
	if warga.MasukAt == nil {
		now := time.Now()
		warga.MasukAt = &now
	}
	return s.repos.Warga.Create(ctx, warga)
}

func (s *WargaService) Update(ctx context.Context, warga *models.Warga) error {
	return s.repos.Warga.Update(ctx, warga)
}

// Nonaktifkan marks a resident as moved out. The warga row stays so paid
// history keeps its reference; the generator skips nonaktif residents.
func (s *WargaService) Nonaktifkan(ctx context.Context, id uint) (*models.Warga, error) {
	warga, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warga.Status == models.WargaStatusNonaktif {
		return warga, nil
	}
	warga.Status = models.WargaStatusNonaktif
	now := time.Now()
	warga.KeluarAt = &now
	if err := s.repos.Warga.Update(ctx, warga); err != nil {
		return nil, err
	}
	return warga, nil
}

// Aktifkan re-activates a resident
func (s *WargaService) Aktifkan(ctx context.Context, id uint) (*models.Warga, error) {
	warga, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	warga.Status = models.WargaStatusAktif
	warga.KeluarAt = nil
	if err := s.repos.Warga.Update(ctx, warga); err != nil {
		return nil, err
	}
	return warga, nil
}

func (s *WargaService) Delete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repos.Warga.Delete(ctx, id)
}
