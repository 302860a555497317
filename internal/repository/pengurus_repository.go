package repository

import (
	"context"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"gorm.io/gorm"
)

// PengurusRepository defines the interface for pengurus account data access
type PengurusRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Pengurus, error)
	FindByEmail(ctx context.Context, email string) (*models.Pengurus, error)
	Create(ctx context.Context, pengurus *models.Pengurus) error
	Update(ctx context.Context, pengurus *models.Pengurus) error
	FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Pengurus, error)
}

type pengurusRepository struct {
	db *gorm.DB
}

// NewPengurusRepository creates a new pengurus repository
func NewPengurusRepository(db *gorm.DB) PengurusRepository {
	return &pengurusRepository{db: db}
}

func (r *pengurusRepository) FindByID(ctx context.Context, id uint) (*models.Pengurus, error) {
	var pengurus models.Pengurus
	err := r.db.WithContext(ctx).First(&pengurus, id).Error
	if err != nil {
		return nil, err
	}
	return &pengurus, nil
}

func (r *pengurusRepository) FindByEmail(ctx context.Context, email string) (*models.Pengurus, error) {
	var pengurus models.Pengurus
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&pengurus).Error
	if err != nil {
		return nil, err
	}
	return &pengurus, nil
}

func (r *pengurusRepository) Create(ctx context.Context, pengurus *models.Pengurus) error {
	return r.db.WithContext(ctx).Create(pengurus).Error
}

func (r *pengurusRepository) Update(ctx context.Context, pengurus *models.Pengurus) error {
	return r.db.WithContext(ctx).Save(pengurus).Error
}

func (r *pengurusRepository) FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Pengurus, error) {
	var pengurus []models.Pengurus
	err := r.db.WithContext(ctx).
		Where("komplek_id = ? AND status = ?", komplekID, models.PengurusStatusAktif).
		Find(&pengurus).Error
	return pengurus, err
}

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByPengurus(ctx context.Context, pengurusID uint) error
	DeleteExpired(ctx context.Context) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&refreshToken).Error
	if err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteByPengurus(ctx context.Context, pengurusID uint) error {
	return r.db.WithContext(ctx).
		Where("pengurus_id = ?", pengurusID).
		Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{}).Error
}

// NotifikasiRepository defines the interface for notification data access
type NotifikasiRepository interface {
	Create(ctx context.Context, notifikasi *models.Notifikasi) error
	FindByID(ctx context.Context, id uint) (*models.Notifikasi, error)
	FindByPengurus(ctx context.Context, pengurusID uint, unreadOnly bool) ([]models.Notifikasi, error)
	Update(ctx context.Context, notifikasi *models.Notifikasi) error
	MarkAllAsRead(ctx context.Context, pengurusID uint) error
	Delete(ctx context.Context, id uint) error
}

type notifikasiRepository struct {
	db *gorm.DB
}

// NewNotifikasiRepository creates a new notifikasi repository
func NewNotifikasiRepository(db *gorm.DB) NotifikasiRepository {
	return &notifikasiRepository{db: db}
}

func (r *notifikasiRepository) Create(ctx context.Context, notifikasi *models.Notifikasi) error {
	return r.db.WithContext(ctx).Create(notifikasi).Error
}

func (r *notifikasiRepository) FindByID(ctx context.Context, id uint) (*models.Notifikasi, error) {
	var notifikasi models.Notifikasi
	err := r.db.WithContext(ctx).First(&notifikasi, id).Error
	if err != nil {
		return nil, err
	}
	return &notifikasi, nil
}

func (r *notifikasiRepository) FindByPengurus(ctx context.Context, pengurusID uint, unreadOnly bool) ([]models.Notifikasi, error) {
	var notifikasi []models.Notifikasi
	db := r.db.WithContext(ctx).Where("pengurus_id = ?", pengurusID)
	if unreadOnly {
		db = db.Where("read_at IS NULL")
	}
	err := db.Order("created_at DESC").Limit(100).Find(&notifikasi).Error
	return notifikasi, err
}

func (r *notifikasiRepository) Update(ctx context.Context, notifikasi *models.Notifikasi) error {
	return r.db.WithContext(ctx).Save(notifikasi).Error
}

func (r *notifikasiRepository) MarkAllAsRead(ctx context.Context, pengurusID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Notifikasi{}).
		Where("pengurus_id = ? AND read_at IS NULL", pengurusID).
		Update("read_at", gorm.Expr("NOW()")).Error
}

func (r *notifikasiRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Notifikasi{}, id).Error
}
