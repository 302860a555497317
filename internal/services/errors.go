package services

import "errors"

// Common service errors. Messages are user-visible.
var (
	ErrNotFound           = errors.New("data tidak ditemukan")
	ErrPeriodeInvalid     = errors.New("format periode tidak valid, gunakan YYYY-MM")
	ErrSudahDibayar       = errors.New("periode ini sudah dibayar")
	ErrSudahDitagih       = errors.New("tagihan untuk periode ini sudah dibuat")
	ErrTidakAdaIuranAktif = errors.New("tidak ada iuran aktif untuk komplek ini")
	ErrTidakAdaWargaAktif = errors.New("tidak ada warga aktif untuk komplek ini")
	ErrIuranDipakai       = errors.New("iuran masih memiliki tagihan dan tidak dapat dihapus")
	ErrInvalidState       = errors.New("transisi status tagihan tidak valid")
	ErrInvalidPassword    = errors.New("kata sandi salah")
	ErrUnauthorized       = errors.New("tidak berwenang")
	ErrValidation         = errors.New("data tidak valid")
)
