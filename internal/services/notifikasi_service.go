package services

import (
	"context"
	"errors"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/chaali03/KomplekKita-sub001/pkg/logger"
	"gorm.io/gorm"
)

// NotifikasiService creates and queries in-app notifications for pengurus
type NotifikasiService struct {
	repos *repository.Repositories
}

func NewNotifikasiService(repos *repository.Repositories) *NotifikasiService {
	return &NotifikasiService{repos: repos}
}

// NotifyPengurus creates a notification for one pengurus
func (s *NotifikasiService) NotifyPengurus(ctx context.Context, pengurusID uint, judul, pesan, tipe string) error {
	notifikasi := &models.Notifikasi{
		PengurusID: pengurusID,
		Judul:      judul,
		Pesan:      pesan,
		Tipe:       &tipe,
	}
	if err := s.repos.Notifikasi.Create(ctx, notifikasi); err != nil {
		logger.Error("Gagal membuat notifikasi", "pengurus_id", pengurusID, "error", err)
		return err
	}
	return nil
}

// NotifyKomplek fans a notification out to every aktif pengurus of a komplek
func (s *NotifikasiService) NotifyKomplek(ctx context.Context, komplekID uint, judul, pesan, tipe string) error {
	pengurus, err := s.repos.Pengurus.FindAktifByKomplek(ctx, komplekID)
	if err != nil {
		return err
	}
	for _, p := range pengurus {
		if err := s.NotifyPengurus(ctx, p.ID, judul, pesan, tipe); err != nil {
			// Keep fanning out; one failed insert should not starve the rest.
			continue
		}
	}
	return nil
}

// ListByPengurus returns the latest notifications for a pengurus
func (s *NotifikasiService) ListByPengurus(ctx context.Context, pengurusID uint, unreadOnly bool) ([]models.Notifikasi, error) {
	return s.repos.Notifikasi.FindByPengurus(ctx, pengurusID, unreadOnly)
}

// MarkAsRead marks one notification as read. Pengurus can only touch their own.
func (s *NotifikasiService) MarkAsRead(ctx context.Context, pengurusID, notifikasiID uint) error {
	notifikasi, err := s.repos.Notifikasi.FindByID(ctx, notifikasiID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if notifikasi.PengurusID != pengurusID {
		return ErrUnauthorized
	}
	if notifikasi.IsRead() {
		return nil
	}
	notifikasi.MarkAsRead()
	return s.repos.Notifikasi.Update(ctx, notifikasi)
}

// MarkAllAsRead marks every unread notification of a pengurus as read
func (s *NotifikasiService) MarkAllAsRead(ctx context.Context, pengurusID uint) error {
	return s.repos.Notifikasi.MarkAllAsRead(ctx, pengurusID)
}
