package handlers

import (
	"net/http"
	"strconv"

	"github.com/chaali03/KomplekKita-sub001/internal/middleware"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

type IuranHandler struct {
	iuranService *services.IuranService
	auditService *services.AuditService
}

func NewIuranHandler(iuranService *services.IuranService, auditService *services.AuditService) *IuranHandler {
	return &IuranHandler{iuranService: iuranService, auditService: auditService}
}

// @Summary List Iuran
// @Description Get the dues catalog
// @Tags Iuran
// @Produce json
// @Param status query string false "Filter by status"
// @Param tipe query string false "Filter by tipe"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /iuran [get]
func (h *IuranHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["komplek_id"] = strconv.FormatUint(uint64(middleware.GetKomplekID(c)), 10)
	query.Filters["status"] = c.Query("status")
	query.Filters["tipe"] = c.Query("tipe")

	iuran, total, err := h.iuranService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"iuran": iuran,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Iuran
// @Description Get a catalog entry by ID
// @Tags Iuran
// @Produce json
// @Param iuran_id path int true "Iuran ID"
// @Success 200 {object} models.Iuran
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /iuran/{iuran_id} [get]
func (h *IuranHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("iuran_id"), 10, 32)
	iuran, err := h.iuranService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"iuran": iuran})
}

// @Summary Create Iuran
// @Description Add a catalog entry
// @Tags Iuran
// @Accept json
// @Produce json
// @Param request body models.Iuran true "Catalog entry"
// @Success 201 {object} models.Iuran
// @Security BearerAuth
// @Router /iuran [post]
func (h *IuranHandler) Create(c *gin.Context) {
	var iuran models.Iuran
	if err := BindNestedOrFlat(c, "iuran", &iuran); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data iuran tidak valid"})
		return
	}
	if iuran.Nama == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nama wajib diisi"})
		return
	}
	iuran.KomplekID = middleware.GetKomplekID(c)

	if err := h.iuranService.Create(c.Request.Context(), &iuran); err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"CREATE", "Iuran", iuran.ID, "Iuran baru: "+iuran.Nama,
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"iuran": iuran})
}

// @Summary Update Iuran
// @Description Update a catalog entry. Already issued tagihan keep their snapshot values.
// @Tags Iuran
// @Accept json
// @Produce json
// @Param iuran_id path int true "Iuran ID"
// @Param request body models.Iuran true "Catalog entry"
// @Success 200 {object} models.Iuran
// @Security BearerAuth
// @Router /iuran/{iuran_id} [put]
func (h *IuranHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("iuran_id"), 10, 32)
	existing, err := h.iuranService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var iuran models.Iuran
	if err := BindNestedOrFlat(c, "iuran", &iuran); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data iuran tidak valid"})
		return
	}
	iuran.ID = existing.ID
	iuran.KomplekID = existing.KomplekID
	iuran.CreatedAt = existing.CreatedAt
	if iuran.Nama == "" {
		iuran.Nama = existing.Nama
	}
	if iuran.Nominal.IsZero() {
		iuran.Nominal = existing.Nominal
	}
	if iuran.Tipe == "" {
		iuran.Tipe = existing.Tipe
	}
	if iuran.PeriodeTipe == "" {
		iuran.PeriodeTipe = existing.PeriodeTipe
	}
	if iuran.Status == "" {
		iuran.Status = existing.Status
	}
	if iuran.JatuhTempo == 0 {
		iuran.JatuhTempo = existing.JatuhTempo
	}

	if err := h.iuranService.Update(c.Request.Context(), &iuran); err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"UPDATE", "Iuran", iuran.ID, "Iuran diubah: "+iuran.Nama,
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"iuran": iuran})
}

// @Summary Deactivate Iuran
// @Description Retire a catalog entry from future billing runs
// @Tags Iuran
// @Produce json
// @Param iuran_id path int true "Iuran ID"
// @Success 200 {object} models.Iuran
// @Security BearerAuth
// @Router /iuran/{iuran_id}/nonaktif [post]
func (h *IuranHandler) Nonaktifkan(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("iuran_id"), 10, 32)
	iuran, err := h.iuranService.Nonaktifkan(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"iuran": iuran, "message": "iuran dinonaktifkan"})
}

// @Summary Delete Iuran
// @Description Delete a catalog entry that has never been billed
// @Tags Iuran
// @Produce json
// @Param iuran_id path int true "Iuran ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /iuran/{iuran_id} [delete]
func (h *IuranHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("iuran_id"), 10, 32)
	if err := h.iuranService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"DELETE", "Iuran", uint(id), "Iuran dihapus",
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "iuran dihapus"})
}
