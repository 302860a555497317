package services

import (
	"context"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/pkg/logger"
	"gorm.io/gorm"
)

// AuditService records who did what on which entity. Writes are best-effort:
// a failed audit insert is logged but never fails the operation it describes.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log writes one audit entry
func (s *AuditService) Log(ctx context.Context, pengurusID uint, action, entity string, entityID uint, details, ip, userAgent string) {
	entry := models.AuditLog{
		PengurusID: pengurusID,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.Error("Gagal menulis audit log", "action", action, "entity", entity, "error", err)
	}
}

// List returns audit entries, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	db := s.db.WithContext(ctx).Model(&models.AuditLog{})
	db.Count(&total)

	if limit <= 0 {
		limit = 50
	}
	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}
