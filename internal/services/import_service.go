package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ImportRowError describes one rejected spreadsheet row
type ImportRowError struct {
	Baris int    `json:"baris"`
	Pesan string `json:"pesan"`
}

// ImportResult summarizes one import run
type ImportResult struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}

// ImportService loads the resident roster from a spreadsheet. Expected
// columns: Nama, Blok, Nomor Rumah, Telepon, Email, Status — the layout
// ExportWargaXLSX produces.
type ImportService struct {
	repos *repository.Repositories
}

func NewImportService(repos *repository.Repositories) *ImportService {
	return &ImportService{repos: repos}
}

// ImportWarga reads an XLSX roster and inserts the valid rows. Rejected
// rows are reported per row number; one bad row never aborts the rest.
func (s *ImportService) ImportWarga(ctx context.Context, komplekID uint, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: file bukan spreadsheet yang valid", ErrValidation)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file tidak berisi data warga", ErrValidation)
	}

	result := &ImportResult{}
	var batch []models.Warga

	// Row 1 is the header.
	for i, row := range rows[1:] {
		baris := i + 2

		get := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		nama := get(0)
		if nama == "" {
			if rowIsEmpty(row) {
				continue
			}
			result.Errors = append(result.Errors, ImportRowError{Baris: baris, Pesan: "nama wajib diisi"})
			continue
		}

		status := strings.ToLower(get(5))
		if status == "" {
			status = models.WargaStatusAktif
		}
		if status != models.WargaStatusAktif && status != models.WargaStatusNonaktif {
			result.Errors = append(result.Errors, ImportRowError{
				Baris: baris,
				Pesan: fmt.Sprintf("status tidak dikenal: %s", get(5)),
			})
			continue
		}

		warga := models.Warga{
			KomplekID:  komplekID,
			Nama:       nama,
			Blok:       get(1),
			NomorRumah: get(2),
			Telepon:    get(3),
			Status:     status,
		}
		if email := get(4); email != "" {
			if !strings.Contains(email, "@") {
				result.Errors = append(result.Errors, ImportRowError{
					Baris: baris,
					Pesan: fmt.Sprintf("email tidak valid: %s", email),
				})
				continue
			}
			warga.Email = &email
		}

		batch = append(batch, warga)
	}

	if err := s.repos.Warga.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	result.Imported = len(batch)

	return result, nil
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
