package repository

import (
	"context"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransaksiRepository defines the interface for cash book data access
type TransaksiRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Transaksi, error)
	Create(ctx context.Context, transaksi *models.Transaksi) error
	Update(ctx context.Context, transaksi *models.Transaksi) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Transaksi, int64, error)
	FindByTagihanID(ctx context.Context, tagihanID uint) ([]models.Transaksi, error)
	SaldoKas(ctx context.Context, komplekID uint) (decimal.Decimal, error)
	SumByKategori(ctx context.Context, komplekID uint, kategori string, periode models.Periode) (decimal.Decimal, error)
}

type transaksiRepository struct {
	db *gorm.DB
}

// NewTransaksiRepository creates a new transaksi repository
func NewTransaksiRepository(db *gorm.DB) TransaksiRepository {
	return &transaksiRepository{db: db}
}

func (r *transaksiRepository) FindByID(ctx context.Context, id uint) (*models.Transaksi, error) {
	var transaksi models.Transaksi
	err := r.db.WithContext(ctx).First(&transaksi, id).Error
	if err != nil {
		return nil, err
	}
	return &transaksi, nil
}

func (r *transaksiRepository) Create(ctx context.Context, transaksi *models.Transaksi) error {
	return r.db.WithContext(ctx).Create(transaksi).Error
}

func (r *transaksiRepository) Update(ctx context.Context, transaksi *models.Transaksi) error {
	return r.db.WithContext(ctx).Save(transaksi).Error
}

func (r *transaksiRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Transaksi{}, id).Error
}

func (r *transaksiRepository) List(ctx context.Context, query *ListQuery) ([]models.Transaksi, int64, error) {
	var transaksi []models.Transaksi
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Transaksi{})

	if query.Filters["komplek_id"] != "" {
		db = db.Where("komplek_id = ?", query.Filters["komplek_id"])
	}
	if query.Filters["jenis"] != "" {
		db = db.Where("jenis = ?", query.Filters["jenis"])
	}
	if query.Filters["kategori"] != "" {
		db = db.Where("kategori = ?", query.Filters["kategori"])
	}
	if p, ok := models.ParsePeriode(query.Filters["periode"]); ok {
		db = db.Where("EXTRACT(YEAR FROM tanggal) = ? AND EXTRACT(MONTH FROM tanggal) = ?", p.Tahun, p.Bulan)
	}
	if query.Search != "" {
		db = db.Where("keterangan ILIKE ?", "%"+query.Search+"%")
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("tanggal DESC, id DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&transaksi).Error
	return transaksi, total, err
}

func (r *transaksiRepository) FindByTagihanID(ctx context.Context, tagihanID uint) ([]models.Transaksi, error) {
	var transaksi []models.Transaksi
	err := r.db.WithContext(ctx).
		Where("tagihan_id = ?", tagihanID).
		Order("tanggal ASC, id ASC").
		Find(&transaksi).Error
	return transaksi, err
}

// SaldoKas computes pemasukan - pengeluaran for a komplek. The sum runs on
// the numeric column in Postgres, so no float rounding is involved.
func (r *transaksiRepository) SaldoKas(ctx context.Context, komplekID uint) (decimal.Decimal, error) {
	var result struct {
		Saldo decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.Transaksi{}).
		Select("COALESCE(SUM(CASE WHEN jenis = ? THEN nominal ELSE -nominal END), 0) as saldo", models.TransaksiPemasukan).
		Where("komplek_id = ?", komplekID).
		Scan(&result).Error

	return result.Saldo, err
}

func (r *transaksiRepository) SumByKategori(ctx context.Context, komplekID uint, kategori string, periode models.Periode) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.Transaksi{}).
		Select("COALESCE(SUM(nominal), 0) as total").
		Where("komplek_id = ? AND kategori = ?", komplekID, kategori).
		Where("EXTRACT(YEAR FROM tanggal) = ? AND EXTRACT(MONTH FROM tanggal) = ?", periode.Tahun, periode.Bulan).
		Scan(&result).Error

	return result.Total, err
}
