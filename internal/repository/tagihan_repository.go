package repository

import (
	"context"
	"errors"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrTagihanDuplikat is returned when an insert hits the composite unique
// index on (iuran_id, warga_id, periode_tahun, periode_bulan).
var ErrTagihanDuplikat = errors.New("tagihan untuk kombinasi iuran, warga dan periode sudah ada")

// TagihanRepository defines the interface for tagihan data access
type TagihanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Tagihan, error)
	FindByKey(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error)
	Create(ctx context.Context, tagihan *models.Tagihan) error
	Update(ctx context.Context, tagihan *models.Tagihan) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Tagihan, int64, error)
	FindByPeriode(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error)
	FindByTahun(ctx context.Context, komplekID uint, tahun int) ([]models.Tagihan, error)
	FindJatuhTempo(ctx context.Context) ([]models.Tagihan, error)
	CountByIuran(ctx context.Context, iuranID uint) (int64, error)
}

type tagihanRepository struct {
	db *gorm.DB
}

// NewTagihanRepository creates a new tagihan repository
func NewTagihanRepository(db *gorm.DB) TagihanRepository {
	return &tagihanRepository{db: db}
}

func (r *tagihanRepository) FindByID(ctx context.Context, id uint) (*models.Tagihan, error) {
	var tagihan models.Tagihan
	err := r.db.WithContext(ctx).
		Preload("Iuran").
		Preload("Warga").
		First(&tagihan, id).Error
	if err != nil {
		return nil, err
	}
	return &tagihan, nil
}

func (r *tagihanRepository) FindByKey(ctx context.Context, iuranID, wargaID uint, periode models.Periode) (*models.Tagihan, error) {
	var tagihan models.Tagihan
	err := r.db.WithContext(ctx).
		Where("iuran_id = ? AND warga_id = ? AND periode_tahun = ? AND periode_bulan = ?",
			iuranID, wargaID, periode.Tahun, periode.Bulan).
		First(&tagihan).Error
	if err != nil {
		return nil, err
	}
	return &tagihan, nil
}

func (r *tagihanRepository) Create(ctx context.Context, tagihan *models.Tagihan) error {
	if err := r.db.WithContext(ctx).Create(tagihan).Error; err != nil {
		if isUniqueViolation(err, "idx_tagihan_key") {
			return ErrTagihanDuplikat
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}

func (r *tagihanRepository) Update(ctx context.Context, tagihan *models.Tagihan) error {
	return r.db.WithContext(ctx).Save(tagihan).Error
}

func (r *tagihanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Tagihan{}, id).Error
}

func (r *tagihanRepository) List(ctx context.Context, query *ListQuery) ([]models.Tagihan, int64, error) {
	var tagihan []models.Tagihan
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Tagihan{})

	if query.Filters["komplek_id"] != "" {
		db = db.Where("tagihan.komplek_id = ?", query.Filters["komplek_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("tagihan.status = ?", query.Filters["status"])
	}
	if query.Filters["iuran_id"] != "" {
		db = db.Where("tagihan.iuran_id = ?", query.Filters["iuran_id"])
	}
	if query.Filters["warga_id"] != "" {
		db = db.Where("tagihan.warga_id = ?", query.Filters["warga_id"])
	}
	if p, ok := models.ParsePeriode(query.Filters["periode"]); ok {
		db = db.Where("tagihan.periode_tahun = ? AND tagihan.periode_bulan = ?", p.Tahun, p.Bulan)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("JOIN warga ON warga.id = tagihan.warga_id").
			Where("warga.nama ILIKE ? OR warga.blok ILIKE ?", search, search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "tagihan." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("tagihan.jatuh_tempo ASC, tagihan.id ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Iuran").Preload("Warga").Find(&tagihan).Error
	return tagihan, total, err
}

func (r *tagihanRepository) FindByPeriode(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Tagihan, error) {
	var tagihan []models.Tagihan
	err := r.db.WithContext(ctx).
		Where("komplek_id = ? AND periode_tahun = ? AND periode_bulan = ?",
			komplekID, periode.Tahun, periode.Bulan).
		Preload("Iuran").
		Preload("Warga").
		Order("warga_id ASC, iuran_id ASC").
		Find(&tagihan).Error
	return tagihan, err
}

func (r *tagihanRepository) FindByTahun(ctx context.Context, komplekID uint, tahun int) ([]models.Tagihan, error) {
	var tagihan []models.Tagihan
	err := r.db.WithContext(ctx).
		Where("komplek_id = ? AND periode_tahun = ?", komplekID, tahun).
		Find(&tagihan).Error
	return tagihan, err
}

// FindJatuhTempo retrieves unpaid tagihan past their due date, for the daily
// denda refresh job.
func (r *tagihanRepository) FindJatuhTempo(ctx context.Context) ([]models.Tagihan, error) {
	var tagihan []models.Tagihan
	err := r.db.WithContext(ctx).
		Where("status = ? AND jatuh_tempo < CURRENT_DATE", models.TagihanStatusBelumLunas).
		Preload("Iuran").
		Preload("Warga").
		Find(&tagihan).Error
	return tagihan, err
}

func (r *tagihanRepository) CountByIuran(ctx context.Context, iuranID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Tagihan{}).
		Where("iuran_id = ?", iuranID).
		Count(&total).Error
	return total, err
}
