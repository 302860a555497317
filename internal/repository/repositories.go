package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Komplek      KomplekRepository
	Warga        WargaRepository
	Iuran        IuranRepository
	Tagihan      TagihanRepository
	Transaksi    TransaksiRepository
	Anggaran     AnggaranRepository
	Pengumuman   PengumumanRepository
	Program      ProgramRepository
	Pengurus     PengurusRepository
	RefreshToken RefreshTokenRepository
	Notifikasi   NotifikasiRepository

	db *gorm.DB
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Komplek:      NewKomplekRepository(db),
		Warga:        NewWargaRepository(db),
		Iuran:        NewIuranRepository(db),
		Tagihan:      NewTagihanRepository(db),
		Transaksi:    NewTransaksiRepository(db),
		Anggaran:     NewAnggaranRepository(db),
		Pengumuman:   NewPengumumanRepository(db),
		Program:      NewProgramRepository(db),
		Pengurus:     NewPengurusRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Notifikasi:   NewNotifikasiRepository(db),
		db:           db,
	}
}

// Transaction runs fn inside a database transaction, passing a tx-scoped
// set of repositories. Used by the payment recorder so find-or-create and
// the companion transaksi entry commit or roll back as one unit.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		// No database handle means the repositories were assembled by hand;
		// run the function against the same set without a transaction.
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
