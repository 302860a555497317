package services

import (
	"context"
	"errors"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"gorm.io/gorm"
)

// PengumumanService manages announcements
type PengumumanService struct {
	repos *repository.Repositories
}

func NewPengumumanService(repos *repository.Repositories) *PengumumanService {
	return &PengumumanService{repos: repos}
}

func (s *PengumumanService) FindByID(ctx context.Context, id uint) (*models.Pengumuman, error) {
	pengumuman, err := s.repos.Pengumuman.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pengumuman, nil
}

func (s *PengumumanService) List(ctx context.Context, query *repository.ListQuery) ([]models.Pengumuman, int64, error) {
	return s.repos.Pengumuman.List(ctx, query)
}

func (s *PengumumanService) Create(ctx context.Context, pengumuman *models.Pengumuman) error {
	if pengumuman.Judul == "" || pengumuman.Isi == "" {
		return ErrValidation
	}
	if pengumuman.Tanggal.IsZero() {
		pengumuman.Tanggal = time.Now()
	}
	return s.repos.Pengumuman.Create(ctx, pengumuman)
}

func (s *PengumumanService) Update(ctx context.Context, pengumuman *models.Pengumuman) error {
	if pengumuman.Judul == "" || pengumuman.Isi == "" {
		return ErrValidation
	}
	return s.repos.Pengumuman.Update(ctx, pengumuman)
}

func (s *PengumumanService) Delete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repos.Pengumuman.Delete(ctx, id)
}
