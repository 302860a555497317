package handlers

import (
	"net/http"
	"strconv"

	"github.com/chaali03/KomplekKita-sub001/internal/jobs"
	"github.com/chaali03/KomplekKita-sub001/internal/middleware"
	"github.com/chaali03/KomplekKita-sub001/internal/models"
	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

type NotifikasiHandler struct {
	notifikasiService *services.NotifikasiService
}

func NewNotifikasiHandler(notifikasiService *services.NotifikasiService) *NotifikasiHandler {
	return &NotifikasiHandler{notifikasiService: notifikasiService}
}

// @Summary List Notifikasi
// @Description Notifications of the logged-in pengurus, newest first
// @Tags Notifikasi
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifikasi [get]
func (h *NotifikasiHandler) Index(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	notifikasi, err := h.notifikasiService.ListByPengurus(c.Request.Context(), middleware.GetPengurusID(c), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	unread := 0
	for i := range notifikasi {
		if !notifikasi[i].IsRead() {
			unread++
		}
	}

	c.JSON(http.StatusOK, gin.H{"notifikasi": notifikasi, "unread": unread})
}

// @Summary Mark Notifikasi Read
// @Tags Notifikasi
// @Produce json
// @Param notifikasi_id path int true "Notifikasi ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifikasi/{notifikasi_id}/baca [post]
func (h *NotifikasiHandler) MarkAsRead(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("notifikasi_id"), 10, 32)
	err := h.notifikasiService.MarkAsRead(c.Request.Context(), middleware.GetPengurusID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notifikasi ditandai dibaca"})
}

// @Summary Mark All Notifikasi Read
// @Tags Notifikasi
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifikasi/baca-semua [post]
func (h *NotifikasiHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notifikasiService.MarkAllAsRead(c.Request.Context(), middleware.GetPengurusID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "semua notifikasi ditandai dibaca"})
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Log
// @Description Audit trail, newest first (Admin)
// @Tags Audit
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) Index(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, total, err := h.auditService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit": entries, "total": total})
}

type KomplekHandler struct {
	komplekService *services.KomplekService
}

func NewKomplekHandler(komplekService *services.KomplekService) *KomplekHandler {
	return &KomplekHandler{komplekService: komplekService}
}

// @Summary Komplek Profile
// @Description Profile of the caller's komplek
// @Tags Komplek
// @Produce json
// @Success 200 {object} models.Komplek
// @Security BearerAuth
// @Router /komplek [get]
func (h *KomplekHandler) Show(c *gin.Context) {
	komplek, err := h.komplekService.FindByID(c.Request.Context(), middleware.GetKomplekID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"komplek": komplek})
}

// @Summary Update Komplek Profile
// @Tags Komplek
// @Accept json
// @Produce json
// @Param request body models.Komplek true "Profile"
// @Success 200 {object} models.Komplek
// @Security BearerAuth
// @Router /komplek [put]
func (h *KomplekHandler) Update(c *gin.Context) {
	existing, err := h.komplekService.FindByID(c.Request.Context(), middleware.GetKomplekID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var komplek models.Komplek
	if err := BindNestedOrFlat(c, "komplek", &komplek); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data komplek tidak valid"})
		return
	}
	komplek.ID = existing.ID
	komplek.GUID = existing.GUID
	komplek.Status = existing.Status
	komplek.CreatedAt = existing.CreatedAt
	if komplek.Nama == "" {
		komplek.Nama = existing.Nama
	}

	if err := h.komplekService.Update(c.Request.Context(), &komplek); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"komplek": komplek})
}

// @Summary Komplek Statistics
// @Description Headline numbers for the dashboard
// @Tags Komplek
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /komplek/statistik [get]
func (h *KomplekHandler) Statistik(c *gin.Context) {
	stats, err := h.komplekService.Statistik(c.Request.Context(), middleware.GetKomplekID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type JobHandler struct {
	worker *jobs.Worker
}

func NewJobHandler(worker *jobs.Worker) *JobHandler {
	return &JobHandler{worker: worker}
}

// @Summary Worker Stats
// @Description Background worker queue statistics (Admin)
// @Tags Jobs
// @Produce json
// @Success 200 {object} jobs.WorkerStats
// @Security BearerAuth
// @Router /jobs/stats [get]
func (h *JobHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.GetStats())
}
