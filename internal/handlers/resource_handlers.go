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

// listQueryFromContext builds a ListQuery scoped to the caller's komplek
func listQueryFromContext(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["komplek_id"] = strconv.FormatUint(uint64(middleware.GetKomplekID(c)), 10)
	return query
}

func paginationResponse(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}

// --- Transaksi ---

type TransaksiHandler struct {
	transaksiService *services.TransaksiService
	auditService     *services.AuditService
}

func NewTransaksiHandler(transaksiService *services.TransaksiService, auditService *services.AuditService) *TransaksiHandler {
	return &TransaksiHandler{transaksiService: transaksiService, auditService: auditService}
}

// @Summary List Transaksi
// @Description Get the cash book, newest first
// @Tags Transaksi
// @Produce json
// @Param jenis query string false "pemasukan or pengeluaran"
// @Param kategori query string false "Filter by kategori"
// @Param periode query string false "Filter by periode (YYYY-MM)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transaksi [get]
func (h *TransaksiHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["jenis"] = c.Query("jenis")
	query.Filters["kategori"] = c.Query("kategori")
	query.Filters["periode"] = c.Query("periode")

	transaksi, total, err := h.transaksiService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaksi": transaksi, "pagination": paginationResponse(query, total)})
}

// @Summary Get Transaksi
// @Tags Transaksi
// @Produce json
// @Param transaksi_id path int true "Transaksi ID"
// @Success 200 {object} models.Transaksi
// @Security BearerAuth
// @Router /transaksi/{transaksi_id} [get]
func (h *TransaksiHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaksi_id"), 10, 32)
	transaksi, err := h.transaksiService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaksi": transaksi})
}

// @Summary Create Transaksi
// @Description Record a manual cash book entry
// @Tags Transaksi
// @Accept json
// @Produce json
// @Param request body models.Transaksi true "Entry"
// @Success 201 {object} models.Transaksi
// @Security BearerAuth
// @Router /transaksi [post]
func (h *TransaksiHandler) Create(c *gin.Context) {
	var transaksi models.Transaksi
	if err := BindNestedOrFlat(c, "transaksi", &transaksi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data transaksi tidak valid"})
		return
	}
	transaksi.KomplekID = middleware.GetKomplekID(c)
	transaksi.TagihanID = nil

	if err := h.transaksiService.Create(c.Request.Context(), &transaksi); err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"CREATE", "Transaksi", transaksi.ID, transaksi.Keterangan,
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"transaksi": transaksi})
}

// @Summary Update Transaksi
// @Description Edit a manual entry; entries generated from tagihan are immutable
// @Tags Transaksi
// @Accept json
// @Produce json
// @Param transaksi_id path int true "Transaksi ID"
// @Param request body models.Transaksi true "Entry"
// @Success 200 {object} models.Transaksi
// @Security BearerAuth
// @Router /transaksi/{transaksi_id} [put]
func (h *TransaksiHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaksi_id"), 10, 32)
	existing, err := h.transaksiService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var transaksi models.Transaksi
	if err := BindNestedOrFlat(c, "transaksi", &transaksi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data transaksi tidak valid"})
		return
	}
	transaksi.ID = existing.ID
	transaksi.KomplekID = existing.KomplekID
	transaksi.TagihanID = existing.TagihanID
	transaksi.CreatedAt = existing.CreatedAt
	if transaksi.Jenis == "" {
		transaksi.Jenis = existing.Jenis
	}
	if transaksi.Kategori == "" {
		transaksi.Kategori = existing.Kategori
	}
	if transaksi.Nominal.IsZero() {
		transaksi.Nominal = existing.Nominal
	}
	if transaksi.Tanggal.IsZero() {
		transaksi.Tanggal = existing.Tanggal
	}

	if err := h.transaksiService.Update(c.Request.Context(), &transaksi); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaksi": transaksi})
}

// @Summary Delete Transaksi
// @Tags Transaksi
// @Produce json
// @Param transaksi_id path int true "Transaksi ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /transaksi/{transaksi_id} [delete]
func (h *TransaksiHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaksi_id"), 10, 32)
	if err := h.transaksiService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), middleware.GetPengurusID(c),
		"DELETE", "Transaksi", uint(id), "Transaksi dihapus",
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "transaksi dihapus"})
}

// --- Anggaran ---

type AnggaranHandler struct {
	anggaranService *services.AnggaranService
}

func NewAnggaranHandler(anggaranService *services.AnggaranService) *AnggaranHandler {
	return &AnggaranHandler{anggaranService: anggaranService}
}

// @Summary List Anggaran
// @Tags Anggaran
// @Produce json
// @Param kategori query string false "Filter by kategori"
// @Param periode query string false "Filter by periode (YYYY-MM)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /anggaran [get]
func (h *AnggaranHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["kategori"] = c.Query("kategori")
	query.Filters["periode"] = c.Query("periode")

	anggaran, total, err := h.anggaranService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"anggaran": anggaran, "pagination": paginationResponse(query, total)})
}

// @Summary Create Anggaran
// @Tags Anggaran
// @Accept json
// @Produce json
// @Param request body models.Anggaran true "Budget line"
// @Success 201 {object} models.Anggaran
// @Security BearerAuth
// @Router /anggaran [post]
func (h *AnggaranHandler) Create(c *gin.Context) {
	var anggaran models.Anggaran
	if err := BindNestedOrFlat(c, "anggaran", &anggaran); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data anggaran tidak valid"})
		return
	}
	anggaran.KomplekID = middleware.GetKomplekID(c)

	if err := h.anggaranService.Create(c.Request.Context(), &anggaran); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"anggaran": anggaran})
}

// @Summary Update Anggaran
// @Tags Anggaran
// @Accept json
// @Produce json
// @Param anggaran_id path int true "Anggaran ID"
// @Param request body models.Anggaran true "Budget line"
// @Success 200 {object} models.Anggaran
// @Security BearerAuth
// @Router /anggaran/{anggaran_id} [put]
func (h *AnggaranHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("anggaran_id"), 10, 32)
	existing, err := h.anggaranService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var anggaran models.Anggaran
	if err := BindNestedOrFlat(c, "anggaran", &anggaran); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data anggaran tidak valid"})
		return
	}
	anggaran.ID = existing.ID
	anggaran.KomplekID = existing.KomplekID
	anggaran.CreatedAt = existing.CreatedAt
	if anggaran.Nama == "" {
		anggaran.Nama = existing.Nama
	}
	if anggaran.Kategori == "" {
		anggaran.Kategori = existing.Kategori
	}
	if anggaran.Nominal.IsZero() {
		anggaran.Nominal = existing.Nominal
	}
	if anggaran.PeriodeTahun == 0 {
		anggaran.PeriodeTahun = existing.PeriodeTahun
		anggaran.PeriodeBulan = existing.PeriodeBulan
	}

	if err := h.anggaranService.Update(c.Request.Context(), &anggaran); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"anggaran": anggaran})
}

// @Summary Delete Anggaran
// @Tags Anggaran
// @Produce json
// @Param anggaran_id path int true "Anggaran ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /anggaran/{anggaran_id} [delete]
func (h *AnggaranHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("anggaran_id"), 10, 32)
	if err := h.anggaranService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "anggaran dihapus"})
}

// @Summary Budget Realization
// @Description Budget lines of a period paired with actual cash book movement
// @Tags Anggaran
// @Produce json
// @Param periode query string true "Periode (YYYY-MM)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /anggaran/realisasi [get]
func (h *AnggaranHandler) Realisasi(c *gin.Context) {
	periode, ok := models.ParsePeriode(c.Query("periode"))
	if !ok {
		respondError(c, services.ErrPeriodeInvalid)
		return
	}

	realisasi, err := h.anggaranService.Realisasi(c.Request.Context(), middleware.GetKomplekID(c), periode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periode": periode.String(), "realisasi": realisasi})
}

// --- Pengumuman ---

type PengumumanHandler struct {
	pengumumanService *services.PengumumanService
}

func NewPengumumanHandler(pengumumanService *services.PengumumanService) *PengumumanHandler {
	return &PengumumanHandler{pengumumanService: pengumumanService}
}

// @Summary List Pengumuman
// @Tags Pengumuman
// @Produce json
// @Param penting query bool false "Only important announcements"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /pengumuman [get]
func (h *PengumumanHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["penting"] = c.Query("penting")

	pengumuman, total, err := h.pengumumanService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pengumuman": pengumuman, "pagination": paginationResponse(query, total)})
}

// @Summary Get Pengumuman
// @Tags Pengumuman
// @Produce json
// @Param pengumuman_id path int true "Pengumuman ID"
// @Success 200 {object} models.Pengumuman
// @Security BearerAuth
// @Router /pengumuman/{pengumuman_id} [get]
func (h *PengumumanHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("pengumuman_id"), 10, 32)
	pengumuman, err := h.pengumumanService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pengumuman": pengumuman})
}

// @Summary Create Pengumuman
// @Tags Pengumuman
// @Accept json
// @Produce json
// @Param request body models.Pengumuman true "Announcement"
// @Success 201 {object} models.Pengumuman
// @Security BearerAuth
// @Router /pengumuman [post]
func (h *PengumumanHandler) Create(c *gin.Context) {
	var pengumuman models.Pengumuman
	if err := BindNestedOrFlat(c, "pengumuman", &pengumuman); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data pengumuman tidak valid"})
		return
	}
	pengumuman.KomplekID = middleware.GetKomplekID(c)

	if err := h.pengumumanService.Create(c.Request.Context(), &pengumuman); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pengumuman": pengumuman})
}

// @Summary Update Pengumuman
// @Tags Pengumuman
// @Accept json
// @Produce json
// @Param pengumuman_id path int true "Pengumuman ID"
// @Param request body models.Pengumuman true "Announcement"
// @Success 200 {object} models.Pengumuman
// @Security BearerAuth
// @Router /pengumuman/{pengumuman_id} [put]
func (h *PengumumanHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("pengumuman_id"), 10, 32)
	existing, err := h.pengumumanService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var pengumuman models.Pengumuman
	if err := BindNestedOrFlat(c, "pengumuman", &pengumuman); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data pengumuman tidak valid"})
		return
	}
	pengumuman.ID = existing.ID
	pengumuman.KomplekID = existing.KomplekID
	pengumuman.CreatedAt = existing.CreatedAt
	if pengumuman.Judul == "" {
		pengumuman.Judul = existing.Judul
	}
	if pengumuman.Isi == "" {
		pengumuman.Isi = existing.Isi
	}
	if pengumuman.Tanggal.IsZero() {
		pengumuman.Tanggal = existing.Tanggal
	}

	if err := h.pengumumanService.Update(c.Request.Context(), &pengumuman); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pengumuman": pengumuman})
}

// @Summary Delete Pengumuman
// @Tags Pengumuman
// @Produce json
// @Param pengumuman_id path int true "Pengumuman ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /pengumuman/{pengumuman_id} [delete]
func (h *PengumumanHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("pengumuman_id"), 10, 32)
	if err := h.pengumumanService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pengumuman dihapus"})
}

// --- Program ---

type ProgramHandler struct {
	programService *services.ProgramService
}

func NewProgramHandler(programService *services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// @Summary List Program
// @Tags Program
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /program [get]
func (h *ProgramHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["status"] = c.Query("status")

	program, total, err := h.programService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program, "pagination": paginationResponse(query, total)})
}

// @Summary Get Program
// @Tags Program
// @Produce json
// @Param program_id path int true "Program ID"
// @Success 200 {object} models.Program
// @Security BearerAuth
// @Router /program/{program_id} [get]
func (h *ProgramHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("program_id"), 10, 32)
	program, err := h.programService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program, "progres": program.Progres()})
}

// @Summary Create Program
// @Tags Program
// @Accept json
// @Produce json
// @Param request body models.Program true "Program"
// @Success 201 {object} models.Program
// @Security BearerAuth
// @Router /program [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var program models.Program
	if err := BindNestedOrFlat(c, "program", &program); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data program tidak valid"})
		return
	}
	program.KomplekID = middleware.GetKomplekID(c)

	if err := h.programService.Create(c.Request.Context(), &program); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"program": program})
}

// @Summary Update Program
// @Tags Program
// @Accept json
// @Produce json
// @Param program_id path int true "Program ID"
// @Param request body models.Program true "Program"
// @Success 200 {object} models.Program
// @Security BearerAuth
// @Router /program/{program_id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("program_id"), 10, 32)
	existing, err := h.programService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var program models.Program
	if err := BindNestedOrFlat(c, "program", &program); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data program tidak valid"})
		return
	}
	program.ID = existing.ID
	program.KomplekID = existing.KomplekID
	program.DanaTerkumpul = existing.DanaTerkumpul
	program.CreatedAt = existing.CreatedAt
	if program.Nama == "" {
		program.Nama = existing.Nama
	}
	if program.Status == "" {
		program.Status = existing.Status
	}
	if program.IuranID == nil {
		program.IuranID = existing.IuranID
	}

	if err := h.programService.Update(c.Request.Context(), &program); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program})
}

// @Summary Finish Program
// @Tags Program
// @Produce json
// @Param program_id path int true "Program ID"
// @Success 200 {object} models.Program
// @Security BearerAuth
// @Router /program/{program_id}/selesai [post]
func (h *ProgramHandler) Selesaikan(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("program_id"), 10, 32)
	program, err := h.programService.Selesaikan(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program, "message": "program selesai"})
}

// @Summary Delete Program
// @Tags Program
// @Produce json
// @Param program_id path int true "Program ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /program/{program_id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("program_id"), 10, 32)
	if err := h.programService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "program dihapus"})
}
