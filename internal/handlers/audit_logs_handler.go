package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/httpresp"
	"github.com/salonbook/salon-scheduler/internal/middleware"
	"github.com/salonbook/salon-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// salonScope resolves the salon whose trail is listed. Owners are pinned
// to the salon in their token; admins choose one with ?salon_id.
func salonScope(c *gin.Context) (uuid.UUID, bool) {
	if middleware.HasRole(c, middleware.RoleAdmin) {
		id, err := queryUUID(c, "salon_id")
		if err == nil && id != nil {
			return *id, true
		}
	}
	return middleware.SalonID(c)
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	salonID, ok := salonScope(c)
	if !ok {
		badRequest(c)
		return
	}

	p := pagination(c).Normalize()

	// --------------------------------------------------
	// Base query, always scoped to one salon
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("salon_id = ?", salonID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if raw := c.Query("from"); raw != "" {
		if from, err := parseDay(raw); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := parseDay(raw); err == nil {
			q = q.Where("created_at < ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, httperr.CodeDatabase, errorMessages[httperr.CodeDatabase])
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(p.PageSize).
		Offset(p.Offset()).
		Find(&logs).Error; err != nil {

		_ = c.Error(err)
		httperr.Internal(c, httperr.CodeDatabase, errorMessages[httperr.CodeDatabase])
		return
	}

	httpresp.OK(c, dto.NewPage(logs, total, p))
}
