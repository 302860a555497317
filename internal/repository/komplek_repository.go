package repository

import (
	"context"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"gorm.io/gorm"
)

// KomplekRepository defines the interface for komplek data access
type KomplekRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Komplek, error)
	FindByGUID(ctx context.Context, guid string) (*models.Komplek, error)
	Create(ctx context.Context, komplek *models.Komplek) error
	Update(ctx context.Context, komplek *models.Komplek) error
	FindAktif(ctx context.Context) ([]models.Komplek, error)
}

type komplekRepository struct {
	db *gorm.DB
}

// NewKomplekRepository creates a new komplek repository
func NewKomplekRepository(db *gorm.DB) KomplekRepository {
	return &komplekRepository{db: db}
}

func (r *komplekRepository) FindByID(ctx context.Context, id uint) (*models.Komplek, error) {
	var komplek models.Komplek
	err := r.db.WithContext(ctx).First(&komplek, id).Error
	if err != nil {
		return nil, err
	}
	return &komplek, nil
}

func (r *komplekRepository) FindByGUID(ctx context.Context, guid string) (*models.Komplek, error) {
	var komplek models.Komplek
	err := r.db.WithContext(ctx).Where("guid = ?", guid).First(&komplek).Error
	if err != nil {
		return nil, err
	}
	return &komplek, nil
}

func (r *komplekRepository) Create(ctx context.Context, komplek *models.Komplek) error {
	return r.db.WithContext(ctx).Create(komplek).Error
}

func (r *komplekRepository) Update(ctx context.Context, komplek *models.Komplek) error {
	return r.db.WithContext(ctx).Save(komplek).Error
}

func (r *komplekRepository) FindAktif(ctx context.Context) ([]models.Komplek, error) {
	var komplek []models.Komplek
	err := r.db.WithContext(ctx).
		Where("status = ?", models.KomplekStatusAktif).
		Find(&komplek).Error
	return komplek, err
}

// AnggaranRepository defines the interface for budget data access
type AnggaranRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Anggaran, error)
	Create(ctx context.Context, anggaran *models.Anggaran) error
	Update(ctx context.Context, anggaran *models.Anggaran) error
	Delete(ctx context.Context, id uint) error
	FindByPeriode(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Anggaran, error)
	List(ctx context.Context, query *ListQuery) ([]models.Anggaran, int64, error)
}

type anggaranRepository struct {
	db *gorm.DB
}

// NewAnggaranRepository creates a new anggaran repository
func NewAnggaranRepository(db *gorm.DB) AnggaranRepository {
	return &anggaranRepository{db: db}
}

func (r *anggaranRepository) FindByID(ctx context.Context, id uint) (*models.Anggaran, error) {
	var anggaran models.Anggaran
	err := r.db.WithContext(ctx).First(&anggaran, id).Error
	if err != nil {
		return nil, err
	}
	return &anggaran, nil
}

func (r *anggaranRepository) Create(ctx context.Context, anggaran *models.Anggaran) error {
	return r.db.WithContext(ctx).Create(anggaran).Error
}

func (r *anggaranRepository) Update(ctx context.Context, anggaran *models.Anggaran) error {
	return r.db.WithContext(ctx).Save(anggaran).Error
}

func (r *anggaranRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Anggaran{}, id).Error
}

func (r *anggaranRepository) FindByPeriode(ctx context.Context, komplekID uint, periode models.Periode) ([]models.Anggaran, error) {
	var anggaran []models.Anggaran
	err := r.db.WithContext(ctx).
		Where("komplek_id = ? AND periode_tahun = ? AND periode_bulan = ?",
			komplekID, periode.Tahun, periode.Bulan).
		Order("kategori ASC, nama ASC").
		Find(&anggaran).Error
	return anggaran, err
}

func (r *anggaranRepository) List(ctx context.Context, query *ListQuery) ([]models.Anggaran, int64, error) {
	var anggaran []models.Anggaran
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Anggaran{})

	if query.Filters["komplek_id"] != "" {
		db = db.Where("komplek_id = ?", query.Filters["komplek_id"])
	}
	if query.Filters["kategori"] != "" {
		db = db.Where("kategori = ?", query.Filters["kategori"])
	}
	if p, ok := models.ParsePeriode(query.Filters["periode"]); ok {
		db = db.Where("periode_tahun = ? AND periode_bulan = ?", p.Tahun, p.Bulan)
	}
	if query.Search != "" {
		db = db.Where("nama ILIKE ?", "%"+query.Search+"%")
	}

	db.Count(&total)
	db = db.Order("periode_tahun DESC, periode_bulan DESC, kategori ASC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&anggaran).Error
	return anggaran, total, err
}

// PengumumanRepository defines the interface for announcement data access
type PengumumanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Pengumuman, error)
	Create(ctx context.Context, pengumuman *models.Pengumuman) error
	Update(ctx context.Context, pengumuman *models.Pengumuman) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Pengumuman, int64, error)
}

type pengumumanRepository struct {
	db *gorm.DB
}

// NewPengumumanRepository creates a new pengumuman repository
func NewPengumumanRepository(db *gorm.DB) PengumumanRepository {
	return &pengumumanRepository{db: db}
}

func (r *pengumumanRepository) FindByID(ctx context.Context, id uint) (*models.Pengumuman, error) {
	var pengumuman models.Pengumuman
	err := r.db.WithContext(ctx).First(&pengumuman, id).Error
	if err != nil {
		return nil, err
	}
	return &pengumuman, nil
}

func (r *pengumumanRepository) Create(ctx context.Context, pengumuman *models.Pengumuman) error {
	return r.db.WithContext(ctx).Create(pengumuman).Error
}

func (r *pengumumanRepository) Update(ctx context.Context, pengumuman *models.Pengumuman) error {
	return r.db.WithContext(ctx).Save(pengumuman).Error
}

func (r *pengumumanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Pengumuman{}, id).Error
}

func (r *pengumumanRepository) List(ctx context.Context, query *ListQuery) ([]models.Pengumuman, int64, error) {
	var pengumuman []models.Pengumuman
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Pengumuman{})

	if query.Filters["komplek_id"] != "" {
		db = db.Where("komplek_id = ?", query.Filters["komplek_id"])
	}
	if query.Filters["penting"] != "" {
		db = db.Where("penting = ?", query.Filters["penting"] == "true")
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("judul ILIKE ? OR isi ILIKE ?", search, search)
	}

	db.Count(&total)
	db = db.Order("penting DESC, tanggal DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&pengumuman).Error
	return pengumuman, total, err
}

// ProgramRepository defines the interface for community program data access
type ProgramRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Program, error)
	FindByIuranID(ctx context.Context, iuranID uint) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Program, int64, error)
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) FindByID(ctx context.Context, id uint) (*models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).First(&program, id).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepository) FindByIuranID(ctx context.Context, iuranID uint) (*models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).Where("iuran_id = ?", iuranID).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepository) Update(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

func (r *programRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Program{}, id).Error
}

func (r *programRepository) List(ctx context.Context, query *ListQuery) ([]models.Program, int64, error) {
	var program []models.Program
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Program{})

	if query.Filters["komplek_id"] != "" {
		db = db.Where("komplek_id = ?", query.Filters["komplek_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Search != "" {
		db = db.Where("nama ILIKE ?", "%"+query.Search+"%")
	}

	db.Count(&total)
	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&program).Error
	return program, total, err
}
