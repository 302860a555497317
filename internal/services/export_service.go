package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders payment status reports as CSV, XLSX and PDF
type ExportService struct {
	laporanSvc *LaporanService
}

func NewExportService(laporanSvc *LaporanService) *ExportService {
	return &ExportService{laporanSvc: laporanSvc}
}

// statusRows flattens the paid/pending split back into one list for the
// tabular export formats, paid residents first.
func statusRows(status *StatusLaporan) []StatusPembayaran {
	rows := make([]StatusPembayaran, 0, len(status.Lunas)+len(status.BelumLunas))
	rows = append(rows, status.Lunas...)
	rows = append(rows, status.BelumLunas...)
	return rows
}

// ExportCSV renders the status report of one period as CSV
func (s *ExportService) ExportCSV(ctx context.Context, komplekID uint, periode models.Periode) ([]byte, string, error) {
	status, err := s.laporanSvc.Status(ctx, komplekID, periode)
	if err != nil {
		return nil, "", err
	}
	rows := statusRows(status)
	summary, err := s.laporanSvc.Summary(ctx, komplekID, periode)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Laporan Iuran", periode.String()})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Nama", "Alamat", "Iuran", "Nominal", "Denda", "Total", "Status", "Metode", "Tanggal Bayar"})

	for _, row := range rows {
		metode := ""
		if row.Metode != nil {
			metode = *row.Metode
		}
		tanggal := ""
		if row.TanggalBayar != nil {
			tanggal = *row.TanggalBayar
		}
		_ = writer.Write([]string{
			row.NamaWarga,
			row.AlamatRumah,
			row.NamaIuran,
			row.Nominal.StringFixed(2),
			row.Denda.StringFixed(2),
			row.Total.StringFixed(2),
			row.Status,
			metode,
			tanggal,
		})
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Ringkasan"})
	_ = writer.Write([]string{"Total Tagihan", fmt.Sprintf("%d", summary.TotalTagihan)})
	_ = writer.Write([]string{"Lunas", fmt.Sprintf("%d", summary.TotalLunas)})
	_ = writer.Write([]string{"Terlambat", fmt.Sprintf("%d", summary.TotalTerlambat)})
	_ = writer.Write([]string{"Belum Lunas", fmt.Sprintf("%d", summary.TotalBelum)})
	_ = writer.Write([]string{"Nominal Diterima", summary.NominalDiterima.StringFixed(2)})
	_ = writer.Write([]string{"Nominal Tunggakan", summary.NominalTunggakan.StringFixed(2)})

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("laporan_iuran_%s.csv", periode)
	return buf.Bytes(), filename, nil
}

// ExportXLSX renders the status report of one period as a spreadsheet
func (s *ExportService) ExportXLSX(ctx context.Context, komplekID uint, periode models.Periode) ([]byte, string, error) {
	status, err := s.laporanSvc.Status(ctx, komplekID, periode)
	if err != nil {
		return nil, "", err
	}
	rows := statusRows(status)
	summary, err := s.laporanSvc.Summary(ctx, komplekID, periode)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Laporan"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Laporan Iuran %s", periode))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Nama", "Alamat", "Iuran", "Nominal", "Denda", "Total", "Status", "Metode", "Tanggal Bayar"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range rows {
		r := i + 4
		metode := ""
		if row.Metode != nil {
			metode = *row.Metode
		}
		tanggal := ""
		if row.TanggalBayar != nil {
			tanggal = *row.TanggalBayar
		}
		values := []interface{}{
			row.NamaWarga,
			row.AlamatRumah,
			row.NamaIuran,
			row.Nominal.InexactFloat64(),
			row.Denda.InexactFloat64(),
			row.Total.InexactFloat64(),
			row.Status,
			metode,
			tanggal,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	base := len(rows) + 5
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Ringkasan")
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", base), fmt.Sprintf("A%d", base), headerStyle)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1), "Total Tagihan")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1), summary.TotalTagihan)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+2), "Lunas")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+2), summary.TotalLunas)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+3), "Terlambat")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+3), summary.TotalTerlambat)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+4), "Belum Lunas")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+4), summary.TotalBelum)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+5), "Nominal Diterima")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+5), summary.NominalDiterima.InexactFloat64())
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", base+6), "Nominal Tunggakan")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", base+6), summary.NominalTunggakan.InexactFloat64())

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("laporan_iuran_%s.xlsx", periode)
	return buf.Bytes(), filename, nil
}

// ExportPDF renders the period summary as a printable PDF
func (s *ExportService) ExportPDF(ctx context.Context, komplekID uint, periode models.Periode) ([]byte, string, error) {
	summary, err := s.laporanSvc.Summary(ctx, komplekID, periode)
	if err != nil {
		return nil, "", err
	}
	metode, err := s.laporanSvc.PerMetode(ctx, komplekID, periode)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Laporan Iuran %s", periode))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Ringkasan")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Total Tagihan:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", summary.TotalTagihan))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Lunas:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", summary.TotalLunas))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Terlambat:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", summary.TotalTerlambat))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Belum Lunas:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", summary.TotalBelum))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Nominal Diterima:")
	pdf.Cell(40, 10, fmt.Sprintf("Rp %s", summary.NominalDiterima.StringFixed(2)))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Nominal Denda:")
	pdf.Cell(40, 10, fmt.Sprintf("Rp %s", summary.NominalDenda.StringFixed(2)))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Nominal Tunggakan:")
	pdf.Cell(40, 10, fmt.Sprintf("Rp %s", summary.NominalTunggakan.StringFixed(2)))
	pdf.Ln(12)

	if len(metode) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, "Per Metode Pembayaran")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, m := range metode {
			pdf.Cell(60, 10, m.Metode+":")
			pdf.Cell(40, 10, fmt.Sprintf("%d pembayaran, Rp %s", m.Jumlah, m.Nominal.StringFixed(2)))
			pdf.Ln(6)
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("laporan_iuran_%s.pdf", periode)
	return buf.Bytes(), filename, nil
}

// ExportWargaXLSX renders the resident roster as a spreadsheet, usable as an
// import template after editing.
func (s *ExportService) ExportWargaXLSX(ctx context.Context, warga []models.Warga) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Warga"
	_ = f.SetSheetName("Sheet1", sheet)

	headers := []string{"Nama", "Blok", "Nomor Rumah", "Telepon", "Email", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, w := range warga {
		r := i + 2
		email := ""
		if w.Email != nil {
			email = *w.Email
		}
		values := []interface{}{w.Nama, w.Blok, w.NomorRumah, w.Telepon, email, w.Status}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("warga_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
