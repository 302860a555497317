package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockImportWargaRepo struct {
	repository.WargaRepository
	mockCreateBatch func(ctx context.Context, warga []models.Warga) error
}

func (m *mockImportWargaRepo) CreateBatch(ctx context.Context, warga []models.Warga) error {
	return m.mockCreateBatch(ctx, warga)
}

func rosterWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Nama", "Blok", "Nomor Rumah", "Telepon", "Email", "Status"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportWarga_InsertsValidRows(t *testing.T) {
	var captured []models.Warga
	repo := &mockImportWargaRepo{
		mockCreateBatch: func(ctx context.Context, warga []models.Warga) error {
			captured = warga
			return nil
		},
	}
	svc := NewImportService(&repository.Repositories{Warga: repo})

	buf := rosterWorkbook(t, [][]interface{}{
		{"Budi Santoso", "A", "12", "0812000111", "budi@example.com", "aktif"},
		{"Sari Dewi", "B", "3", "", "", ""},
	})

	result, err := svc.ImportWarga(context.Background(), 7, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)

	require.Len(t, captured, 2)
	budi := captured[0]
	assert.Equal(t, uint(7), budi.KomplekID)
	assert.Equal(t, "Budi Santoso", budi.Nama)
	assert.Equal(t, "A", budi.Blok)
	assert.Equal(t, "12", budi.NomorRumah)
	require.NotNil(t, budi.Email)
	assert.Equal(t, "budi@example.com", *budi.Email)

	// Status column left blank defaults to aktif, email stays unset.
	sari := captured[1]
	assert.Equal(t, models.WargaStatusAktif, sari.Status)
	assert.Nil(t, sari.Email)
}

func TestImportWarga_ReportsRejectedRowsByNumber(t *testing.T) {
	var captured []models.Warga
	repo := &mockImportWargaRepo{
		mockCreateBatch: func(ctx context.Context, warga []models.Warga) error {
			captured = warga
			return nil
		},
	}
	svc := NewImportService(&repository.Repositories{Warga: repo})

	buf := rosterWorkbook(t, [][]interface{}{
		{"Budi Santoso", "A", "12", "", "", "aktif"},
		{"", "B", "5", "", "", "aktif"},
		{"Joko", "C", "8", "", "bukan-email", ""},
		{"Rina", "D", "9", "", "", "pindah"},
	})

	result, err := svc.ImportWarga(context.Background(), 1, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, 3, result.Errors[0].Baris)
	assert.Equal(t, "nama wajib diisi", result.Errors[0].Pesan)
	assert.Equal(t, 4, result.Errors[1].Baris)
	assert.Contains(t, result.Errors[1].Pesan, "email tidak valid")
	assert.Equal(t, 5, result.Errors[2].Baris)
	assert.Contains(t, result.Errors[2].Pesan, "status tidak dikenal")

	require.Len(t, captured, 1)
	assert.Equal(t, "Budi Santoso", captured[0].Nama)
}

func TestImportWarga_SkipsFullyEmptyRows(t *testing.T) {
	repo := &mockImportWargaRepo{
		mockCreateBatch: func(ctx context.Context, warga []models.Warga) error {
			return nil
		},
	}
	svc := NewImportService(&repository.Repositories{Warga: repo})

	buf := rosterWorkbook(t, [][]interface{}{
		{"Budi Santoso", "A", "12", "", "", ""},
		{"", "", "", "", "", ""},
		{"Sari Dewi", "B", "3", "", "", ""},
	})

	result, err := svc.ImportWarga(context.Background(), 1, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)
}

func TestImportWarga_RejectsGarbageFile(t *testing.T) {
	svc := NewImportService(&repository.Repositories{})

	_, err := svc.ImportWarga(context.Background(), 1, strings.NewReader("ini bukan spreadsheet"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestImportWarga_RejectsHeaderOnlyFile(t *testing.T) {
	svc := NewImportService(&repository.Repositories{})

	buf := rosterWorkbook(t, nil)
	_, err := svc.ImportWarga(context.Background(), 1, buf)
	assert.ErrorIs(t, err, ErrValidation)
}
