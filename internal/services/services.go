package services

import (
	"github.com/chaali03/KomplekKita-sub001/internal/config"
	"github.com/chaali03/KomplekKita-sub001/internal/jobs"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	Komplek    *KomplekService
	Warga      *WargaService
	Iuran      *IuranService
	Tagihan    *TagihanService
	Transaksi  *TransaksiService
	Anggaran   *AnggaranService
	Pengumuman *PengumumanService
	Program    *ProgramService
	Laporan    *LaporanService
	Notifikasi *NotifikasiService
	Audit      *AuditService
	Import     *ImportService
	Export     *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	notifikasiSvc := NewNotifikasiService(repos)
	auditSvc := NewAuditService(db)
	laporanSvc := NewLaporanService(repos)

	return &Services{
		Auth:       NewAuthService(repos.Pengurus, repos.RefreshToken, cfg),
		Komplek:    NewKomplekService(repos),
		Warga:      NewWargaService(repos),
		Iuran:      NewIuranService(repos),
		Tagihan:    NewTagihanService(repos, notifikasiSvc, worker),
		Transaksi:  NewTransaksiService(repos),
		Anggaran:   NewAnggaranService(repos),
		Pengumuman: NewPengumumanService(repos),
		Program:    NewProgramService(repos),
		Laporan:    laporanSvc,
		Notifikasi: notifikasiSvc,
		Audit:      auditSvc,
		Import:     NewImportService(repos),
		Export:     NewExportService(laporanSvc),
	}
}
