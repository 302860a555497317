package repository

import (
	"context"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"gorm.io/gorm"
)

// IuranRepository defines the interface for iuran catalog data access
type IuranRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Iuran, error)
	Create(ctx context.Context, iuran *models.Iuran) error
	Update(ctx context.Context, iuran *models.Iuran) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Iuran, int64, error)
	FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Iuran, error)
}

type iuranRepository struct {
	db *gorm.DB
}

// NewIuranRepository creates a new iuran repository
func NewIuranRepository(db *gorm.DB) IuranRepository {
	return &iuranRepository{db: db}
}

func (r *iuranRepository) FindByID(ctx context.Context, id uint) (*models.Iuran, error) {
	var iuran models.Iuran
	err := r.db.WithContext(ctx).First(&iuran, id).Error
	if err != nil {
		return nil, err
	}
	return &iuran, nil
}

func (r *iuranRepository) Create(ctx context.Context, iuran *models.Iuran) error {
	return r.db.WithContext(ctx).Create(iuran).Error
}

func (r *iuranRepository) Update(ctx context.Context, iuran *models.Iuran) error {
	return r.db.WithContext(ctx).Save(iuran).Error
}

func (r *iuranRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Iuran{}, id).Error
}

func (r *iuranRepository) List(ctx context.Context, query *ListQuery) ([]models.Iuran, int64, error) {
	var iuran []models.Iuran
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Iuran{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("nama ILIKE ?", search)
	}

	if query.Filters["komplek_id"] != "" {
		db = db.Where("komplek_id = ?", query.Filters["komplek_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["tipe"] != "" {
		db = db.Where("tipe = ?", query.Filters["tipe"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&iuran).Error
	return iuran, total, err
}

func (r *iuranRepository) FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Iuran, error) {
	var iuran []models.Iuran
	err := r.db.WithContext(ctx).
		Where("komplek_id = ? AND status = ?", komplekID, models.IuranStatusAktif).
		Order("nama ASC").
		Find(&iuran).Error
	return iuran, err
}
