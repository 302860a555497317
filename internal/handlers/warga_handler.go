package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/chaali03/KomplekKita-sub001/internal/middleware"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

type WargaHandler struct {
	wargaService  *services.WargaService
	importService *services.ImportService
	exportService *services.ExportService
	auditService  *services.AuditService
}

func NewWargaHandler(wargaService *services.WargaService, importService *services.ImportService, exportService *services.ExportService, auditService *services.AuditService) *WargaHandler {
	return &WargaHandler{
		wargaService:  wargaService,
		importService: importService,
		exportService: exportService,
		auditService:  auditService,
	}
}

// @Summary List Warga
// @Description Get a paginated list of residents
// @Tags Warga
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by name, blok, house number or phone"
// @Param status query string false "Filter by status"
// @Param blok query string false "Filter by blok"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /warga [get]
func (h *WargaHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["komplek_id"] = strconv.FormatUint(uint64(middleware.GetKomplekID(c)), 10)
	query.Filters["status"] = c.Query("status")
	query.Filters["blok"] = c.Query("blok")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	warga, total, err := h.wargaService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warga": warga,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Warga
// @Description Get a resident by ID
// @Tags Warga
// @Produce json
// @Param warga_id path int true "Warga ID"
// @Success 200 {object} models.Warga
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /warga/{warga_id} [get]
func (h *WargaHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warga_id"), 10, 32)
	warga, err := h.wargaService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warga": warga})
}

// @Summary Create Warga
// @Description Register a new resident
// @Tags Warga
// @Accept json
// @Produce json
// @Param request body models.Warga true "Resident data"
// @Success 201 {object} models.Warga
// @Security BearerAuth
// @Router /warga [post]
func (h *WargaHandler) Create(c *gin.Context) {
	var warga models.Warga
	if err := BindNestedOrFlat(c, "warga", &warga); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data warga tidak valid"})
		return
	}
	if warga.Nama == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nama wajib diisi"})
		return
	}
	warga.KomplekID = middleware.GetKomplekID(c)

	if err := h.wargaService.Create(c.Request.Context(), &warga); err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"CREATE", "Warga", warga.ID, "Warga baru: "+warga.Nama,
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"warga": warga})
}

// @Summary Update Warga
// @Description Update a resident
// @Tags Warga
// @Accept json
// @Produce json
// @Param warga_id path int true "Warga ID"
// @Param request body models.Warga true "Resident data"
// @Success 200 {object} models.Warga
// @Security BearerAuth
// @Router /warga/{warga_id} [put]
func (h *WargaHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warga_id"), 10, 32)
	existing, err := h.wargaService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var warga models.Warga
	if err := BindNestedOrFlat(c, "warga", &warga); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data warga tidak valid"})
		return
	}
	warga.ID = existing.ID
	warga.KomplekID = existing.KomplekID
	warga.CreatedAt = existing.CreatedAt
	if warga.Nama == "" {
		warga.Nama = existing.Nama
	}
	if warga.Status == "" {
		warga.Status = existing.Status
	}

	if err := h.wargaService.Update(c.Request.Context(), &warga); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warga": warga})
}

// @Summary Deactivate Warga
// @Description Mark a resident as moved out
// @Tags Warga
// @Produce json
// @Param warga_id path int true "Warga ID"
// @Success 200 {object} models.Warga
// @Security BearerAuth
// @Router /warga/{warga_id}/nonaktif [post]
func (h *WargaHandler) Nonaktifkan(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warga_id"), 10, 32)
	warga, err := h.wargaService.Nonaktifkan(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warga": warga, "message": "warga dinonaktifkan"})
}

// @Summary Activate Warga
// @Description Re-activate a resident
// @Tags Warga
// @Produce json
// @Param warga_id path int true "Warga ID"
// @Success 200 {object} models.Warga
// @Security BearerAuth
// @Router /warga/{warga_id}/aktif [post]
func (h *WargaHandler) Aktifkan(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warga_id"), 10, 32)
	warga, err := h.wargaService.Aktifkan(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warga": warga, "message": "warga diaktifkan"})
}

// @Summary Delete Warga
// @Description Delete a resident
// @Tags Warga
// @Produce json
// @Param warga_id path int true "Warga ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /warga/{warga_id} [delete]
func (h *WargaHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warga_id"), 10, 32)
	if err := h.wargaService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"DELETE", "Warga", uint(id), "Warga dihapus",
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "warga dihapus"})
}

// @Summary Import Warga
// @Description Import the resident roster from an XLSX file. Rejected rows are reported per row number.
// @Tags Warga
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX roster"
// @Success 200 {object} services.ImportResult
// @Security BearerAuth
// @Router /warga/import [post]
func (h *WargaHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file wajib diunggah"})
		return
	}
	defer file.Close()

	result, err := h.importService.ImportWarga(c.Request.Context(), middleware.GetKomplekID(c), file)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"IMPORT", "Warga", 0,
		"Import warga: "+strconv.Itoa(result.Imported)+" baris",
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, result)
}

// @Summary Export Warga
// @Description Download the resident roster as XLSX
// @Tags Warga
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "roster"
// @Security BearerAuth
// @Router /warga/export [get]
func (h *WargaHandler) Export(c *gin.Context) {
	query := repository.NewListQuery()
	query.PerPage = 0
	query.Filters["komplek_id"] = strconv.FormatUint(uint64(middleware.GetKomplekID(c)), 10)

	warga, _, err := h.wargaService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	data, filename, err := h.exportService.ExportWargaXLSX(c.Request.Context(), warga)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
