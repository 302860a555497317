package handlers

import (
	"github.com/chaali03/KomplekKita-sub001/internal/jobs"
	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/chaali03/KomplekKita-sub001/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Komplek    *KomplekHandler
	Warga      *WargaHandler
	Iuran      *IuranHandler
	Tagihan    *TagihanHandler
	Transaksi  *TransaksiHandler
	Anggaran   *AnggaranHandler
	Pengumuman *PengumumanHandler
	Program    *ProgramHandler
	Laporan    *LaporanHandler
	Notifikasi *NotifikasiHandler
	Audit      *AuditHandler
	Job        *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, storage *storage.LocalStorage, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Auth:       NewAuthHandler(svcs.Auth),
		Komplek:    NewKomplekHandler(svcs.Komplek),
		Warga:      NewWargaHandler(svcs.Warga, svcs.Import, svcs.Export, svcs.Audit),
		Iuran:      NewIuranHandler(svcs.Iuran, svcs.Audit),
		Tagihan:    NewTagihanHandler(svcs.Tagihan, svcs.Audit, storage),
		Transaksi:  NewTransaksiHandler(svcs.Transaksi, svcs.Audit),
		Anggaran:   NewAnggaranHandler(svcs.Anggaran),
		Pengumuman: NewPengumumanHandler(svcs.Pengumuman),
		Program:    NewProgramHandler(svcs.Program),
		Laporan:    NewLaporanHandler(svcs.Laporan, svcs.Export),
		Notifikasi: NewNotifikasiHandler(svcs.Notifikasi),
		Audit:      NewAuditHandler(svcs.Audit),
		Job:        NewJobHandler(worker),
	}
}
