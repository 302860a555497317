package repository

import (
	"context"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"gorm.io/gorm"
)

// WargaRepository defines the interface for warga data access
type WargaRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Warga, error)
	Create(ctx context.Context, warga *models.Warga) error
	CreateBatch(ctx context.Context, warga []models.Warga) error
	Update(ctx context.Context, warga *models.Warga) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Warga, int64, error)
	FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Warga, error)
	FindByKomplek(ctx context.Context, komplekID uint) ([]models.Warga, error)
	CountByKomplek(ctx context.Context, komplekID uint) (int64, error)
}

type wargaRepository struct {
	db *gorm.DB
}

// NewWargaRepository creates a new warga repository
func NewWargaRepository(db *gorm.DB) WargaRepository {
	return &wargaRepository{db: db}
}

func (r *wargaRepository) FindByID(ctx context.Context, id uint) (*models.Warga, error) {
	var warga models.Warga
	err := r.db.WithContext(ctx).First(&warga, id).Error
	if err != nil {
		return nil, err
	}
	return &warga, nil
}

func (r *wargaRepository) Create(ctx context.Context, warga *models.Warga) error {
	return r.db.WithContext(ctx).Create(warga).Error
}

func (r *wargaRepository) CreateBatch(ctx context.Context, warga []models.Warga) error {
	if len(warga) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&warga).Error
}

func (r *wargaRepository) Update(ctx context.Context, warga *models.Warga) error {
	return r.db.WithContext(ctx).Save(warga).Error
}

func (r *wargaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Warga{}, id).Error
}

func (r *wargaRepository) List(ctx context.Context, query *ListQuery) ([]models.Warga, int64, error) {
	var warga []models.Warga
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Warga{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("nama ILIKE ? OR blok ILIKE ? OR nomor_rumah ILIKE ? OR telepon ILIKE ?",
			search, search, search, search)
	}

	if query.Filters["komplek_id"] != "" {
		db = db.Where("komplek_id = ?", query.Filters["komplek_id"])
	}

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["blok"] != "" {
		db = db.Where("blok = ?", query.Filters["blok"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("blok ASC, nomor_rumah ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&warga).Error
	return warga, total, err
}

func (r *wargaRepository) FindAktifByKomplek(ctx context.Context, komplekID uint) ([]models.Warga, error) {
	var warga []models.Warga
	err := r.db.WithContext(ctx).
		Where("komplek_id = ? AND status = ?", komplekID, models.WargaStatusAktif).
		Order("blok ASC, nomor_rumah ASC").
		Find(&warga).Error
	return warga, err
}

func (r *wargaRepository) FindByKomplek(ctx context.Context, komplekID uint) ([]models.Warga, error) {
	var warga []models.Warga
	err := r.db.WithContext(ctx).
		Where("komplek_id = ?", komplekID).
		Order("blok ASC, nomor_rumah ASC").
		Find(&warga).Error
	return warga, err
}

func (r *wargaRepository) CountByKomplek(ctx context.Context, komplekID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Warga{}).
		Where("komplek_id = ?", komplekID).
		Count(&total).Error
	return total, err
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
