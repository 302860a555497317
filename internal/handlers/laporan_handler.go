package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/middleware"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

type LaporanHandler struct {
	laporanService *services.LaporanService
	exportService  *services.ExportService
}

func NewLaporanHandler(laporanService *services.LaporanService, exportService *services.ExportService) *LaporanHandler {
	return &LaporanHandler{laporanService: laporanService, exportService: exportService}
}

// periodeFromQuery reads ?periode=YYYY-MM, defaulting to the current month
func periodeFromQuery(c *gin.Context) (models.Periode, bool) {
	raw := c.Query("periode")
	if raw == "" {
		return models.PeriodeFrom(time.Now()), true
	}
	return models.ParsePeriode(raw)
}

// @Summary Payment Status Report
// @Description Paid and pending resident lists for one period
// @Tags Laporan
// @Produce json
// @Param periode query string false "Periode (YYYY-MM), defaults to current month"
// @Success 200 {object} services.StatusLaporan
// @Security BearerAuth
// @Router /laporan/status [get]
func (h *LaporanHandler) Status(c *gin.Context) {
	periode, ok := periodeFromQuery(c)
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	status, err := h.laporanService.Status(c.Request.Context(), middleware.GetKomplekID(c), periode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// @Summary Period Summary
// @Description Aggregated counts and decimal sums for one period
// @Tags Laporan
// @Produce json
// @Param periode query string false "Periode (YYYY-MM), defaults to current month"
// @Success 200 {object} services.LaporanSummary
// @Security BearerAuth
// @Router /laporan/summary [get]
func (h *LaporanHandler) Summary(c *gin.Context) {
	periode, ok := periodeFromQuery(c)
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	summary, err := h.laporanService.Summary(c.Request.Context(), middleware.GetKomplekID(c), periode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Yearly Rollup
// @Description 12-month rollup; every month appears, zero-valued when nothing was billed
// @Tags Laporan
// @Produce json
// @Param tahun query int false "Year, defaults to current year"
// @Success 200 {object} services.RekapTahunan
// @Security BearerAuth
// @Router /laporan/rekap [get]
func (h *LaporanHandler) Rekap(c *gin.Context) {
	tahun, _ := strconv.Atoi(c.DefaultQuery("tahun", strconv.Itoa(time.Now().Year())))
	if tahun < 2000 || tahun > 2200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tahun tidak valid"})
		return
	}

	rekap, err := h.laporanService.Rekap(c.Request.Context(), middleware.GetKomplekID(c), tahun)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rekap)
}

// @Summary Payment Method Breakdown
// @Description Paid charges of a period grouped by payment method
// @Tags Laporan
// @Produce json
// @Param periode query string false "Periode (YYYY-MM), defaults to current month"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /laporan/metode [get]
func (h *LaporanHandler) PerMetode(c *gin.Context) {
	periode, ok := periodeFromQuery(c)
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	breakdown, err := h.laporanService.PerMetode(c.Request.Context(), middleware.GetKomplekID(c), periode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periode": periode.String(), "metode": breakdown})
}

// @Summary Saldo Kas
// @Description Current cash balance of the komplek
// @Tags Laporan
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /laporan/saldo [get]
func (h *LaporanHandler) Saldo(c *gin.Context) {
	saldo, err := h.laporanService.SaldoKas(c.Request.Context(), middleware.GetKomplekID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saldo": saldo})
}

// @Summary Export Report
// @Description Download the period report as csv, xlsx or pdf
// @Tags Laporan
// @Produce application/octet-stream
// @Param periode query string false "Periode (YYYY-MM), defaults to current month"
// @Param format query string false "csv, xlsx or pdf" default(xlsx)
// @Success 200 {file} file "report"
// @Security BearerAuth
// @Router /laporan/export [get]
func (h *LaporanHandler) Export(c *gin.Context) {
	periode, ok := periodeFromQuery(c)
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	komplekID := middleware.GetKomplekID(c)

	var data []byte
	var filename, contentType string
	var err error

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), komplekID, periode)
		contentType = "text/csv"
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(c.Request.Context(), komplekID, periode)
		contentType = "application/pdf"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), komplekID, periode)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format tidak didukung, gunakan csv, xlsx atau pdf"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
