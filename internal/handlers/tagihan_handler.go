package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chaali03/KomplekKita-sub001/internal/middleware"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/chaali03/KomplekKita-sub001/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TagihanHandler struct {
	tagihanService *services.TagihanService
	auditService   *services.AuditService
	storage        *storage.LocalStorage
}

func NewTagihanHandler(tagihanService *services.TagihanService, auditService *services.AuditService, storage *storage.LocalStorage) *TagihanHandler {
	return &TagihanHandler{tagihanService: tagihanService, auditService: auditService, storage: storage}
}

// @Summary List Tagihan
// @Description Get a paginated list of tagihan
// @Tags Tagihan
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param periode query string false "Filter by periode (YYYY-MM)"
// @Param warga_id query int false "Filter by warga"
// @Param iuran_id query int false "Filter by iuran"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tagihan [get]
func (h *TagihanHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["komplek_id"] = strconv.FormatUint(uint64(middleware.GetKomplekID(c)), 10)
	query.Filters["status"] = c.Query("status")
	query.Filters["periode"] = c.Query("periode")
	query.Filters["warga_id"] = c.Query("warga_id")
	query.Filters["iuran_id"] = c.Query("iuran_id")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	tagihan, total, err := h.tagihanService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TagihanResponse, 0, len(tagihan))
	for i := range tagihan {
		responses = append(responses, tagihan[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"tagihan": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Tagihan
// @Description Get a tagihan by ID
// @Tags Tagihan
// @Accept json
// @Produce json
// @Param tagihan_id path int true "Tagihan ID"
// @Success 200 {object} models.TagihanResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tagihan/{tagihan_id} [get]
func (h *TagihanHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tagihan_id"), 10, 32)
	tagihan, err := h.tagihanService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tagihan": tagihan.ToResponse()})
}

type GenerateRequest struct {
	Periode string           `json:"periode" binding:"required"`
	IuranID uint             `json:"iuran_id"`
	Nominal *decimal.Decimal `json:"nominal"`
	Force   bool             `json:"force"`
}

// @Summary Generate Tagihan
// @Description Generate tagihan for every aktif warga for a billing period. Existing charges are skipped unless force is set.
// @Tags Tagihan
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generation parameters"
// @Success 200 {object} services.GenerateResult
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tagihan/generate [post]
func (h *TagihanHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periode wajib diisi"})
		return
	}

	periode, ok := models.ParsePeriode(req.Periode)
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	result, err := h.tagihanService.Generate(c.Request.Context(), services.GenerateParams{
		KomplekID: middleware.GetKomplekID(c),
		Periode:   periode,
		IuranID:   req.IuranID,
		Nominal:   req.Nominal,
		Force:     req.Force,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"GENERATE", "Tagihan", 0,
		"Generate tagihan periode "+periode.String(),
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, result)
}

type MarkRequest struct {
	Periode string           `json:"periode" binding:"required"`
	WargaID uint             `json:"warga_id" binding:"required"`
	IuranID uint             `json:"iuran_id"`
	Paid    *bool            `json:"paid" binding:"required"`
	Nominal *decimal.Decimal `json:"nominal"`
	Metode  string           `json:"metode"`
	PaidAt  *time.Time       `json:"paid_at"`
}

// @Summary Mark Payment
// @Description Toggle payment state for one warga and period. Marking paid creates the tagihan when none exists yet.
// @Tags Tagihan
// @Accept json
// @Produce json
// @Param request body MarkRequest true "Payment toggle"
// @Success 200 {object} models.TagihanResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tagihan/mark [post]
func (h *TagihanHandler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periode, warga_id dan paid wajib diisi"})
		return
	}

	periode, ok := models.ParsePeriode(req.Periode)
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	changed, tagihan, err := h.tagihanService.Mark(c.Request.Context(), services.MarkParams{
		KomplekID: middleware.GetKomplekID(c),
		Periode:   periode,
		WargaID:   req.WargaID,
		IuranID:   req.IuranID,
		Paid:      *req.Paid,
		Nominal:   req.Nominal,
		Metode:    req.Metode,
		PaidAt:    req.PaidAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if changed {
		action := "BAYAR"
		if !*req.Paid {
			action = "BATAL_BAYAR"
		}
		h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
			action, "Tagihan", tagihan.ID,
			"Tandai pembayaran periode "+periode.String(),
			c.ClientIP(), c.Request.UserAgent())
	}

	resp := gin.H{"changed": changed}
	if tagihan != nil {
		resp["tagihan"] = tagihan.ToResponse()
	}
	c.JSON(http.StatusOK, resp)
}

type BayarRequest struct {
	IuranID uint             `json:"iuran_id" binding:"required"`
	WargaID uint             `json:"warga_id" binding:"required"`
	Periode string           `json:"periode" binding:"required"`
	Nominal *decimal.Decimal `json:"nominal"`
	Denda   *decimal.Decimal `json:"denda"`
	Metode  string           `json:"metode"`
	PaidAt  *time.Time       `json:"paid_at"`
	Catatan *string          `json:"catatan"`
}

// @Summary Record Payment
// @Description Record a payment for one iuran, warga and period. A period already paid is rejected.
// @Tags Tagihan
// @Accept json
// @Produce json
// @Param request body BayarRequest true "Payment"
// @Success 200 {object} models.TagihanResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /tagihan/bayar [post]
func (h *TagihanHandler) Bayar(c *gin.Context) {
	var req BayarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "iuran_id, warga_id dan periode wajib diisi"})
		return
	}

	periode, ok := models.ParsePeriode(req.Periode)
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	tagihan, err := h.tagihanService.Bayar(c.Request.Context(), services.BayarParams{
		IuranID: req.IuranID,
		WargaID: req.WargaID,
		Periode: periode,
		Nominal: req.Nominal,
		Denda:   req.Denda,
		Metode:  req.Metode,
		PaidAt:  req.PaidAt,
		Catatan: req.Catatan,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"BAYAR", "Tagihan", tagihan.ID,
		"Pembayaran periode "+periode.String(),
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"tagihan": tagihan.ToResponse(), "message": "pembayaran tercatat"})
}

// @Summary Cancel Tagihan
// @Description Cancel a tagihan administratively. A paid charge gets a compensating cash book entry.
// @Tags Tagihan
// @Accept json
// @Produce json
// @Param tagihan_id path int true "Tagihan ID"
// @Success 200 {object} models.TagihanResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tagihan/{tagihan_id}/batal [post]
func (h *TagihanHandler) Batal(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tagihan_id"), 10, 32)
	tagihan, err := h.tagihanService.Batal(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"BATAL", "Tagihan", tagihan.ID,
		"Pembatalan tagihan",
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"tagihan": tagihan.ToResponse(), "message": "tagihan dibatalkan"})
}

// @Summary Upload Bukti Bayar
// @Description Upload a payment proof image/pdf for a tagihan
// @Tags Tagihan
// @Accept multipart/form-data
// @Produce json
// @Param tagihan_id path int true "Tagihan ID"
// @Param bukti formData file true "Proof file"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /tagihan/{tagihan_id}/bukti [post]
func (h *TagihanHandler) UploadBukti(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tagihan_id"), 10, 32)

	file, header, err := c.Request.FormFile("bukti")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file bukti wajib diunggah"})
		return
	}
	defer file.Close()

	if c.Request.ContentLength > storage.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ukuran file terlalu besar"})
		return
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipe file tidak didukung"})
		return
	}

	path, err := h.storage.SaveUpload(file, header, storage.DirBukti)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan file"})
		return
	}

	if _, err := h.tagihanService.SimpanBukti(c.Request.Context(), uint(id), path); err != nil {
		h.storage.Delete(path)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bukti pembayaran tersimpan"})
}

// @Summary Download Bukti Bayar
// @Description Download the payment proof of a tagihan
// @Tags Tagihan
// @Produce application/octet-stream
// @Param tagihan_id path int true "Tagihan ID"
// @Success 200 {file} file "bukti"
// @Security BearerAuth
// @Router /tagihan/{tagihan_id}/bukti [get]
func (h *TagihanHandler) DownloadBukti(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tagihan_id"), 10, 32)
	tagihan, err := h.tagihanService.FindByID(c.Request.Context(), uint(id))
	if err != nil || tagihan.BuktiBayar == nil || !h.storage.Exists(*tagihan.BuktiBayar) {
		c.JSON(http.StatusNotFound, gin.H{"error": "bukti pembayaran tidak ditemukan"})
		return
	}
	c.File(h.storage.FullPath(*tagihan.BuktiBayar))
}
