package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httpresp"
	"github.com/salonbook/salon-scheduler/internal/middleware"
	ucReservation "github.com/salonbook/salon-scheduler/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	create       *ucReservation.CreateReservation
	update       *ucReservation.UpdateReservation
	confirm      *ucReservation.ConfirmReservation
	cancel       *ucReservation.CancelReservation
	complete     *ucReservation.CompleteReservation
	noShow       *ucReservation.MarkNoShow
	get          *ucReservation.GetReservation
	search       *ucReservation.SearchReservations
	checkConfl   *ucReservation.CheckConflict
	availability *ucReservation.GetAvailability
}

func NewReservationHandler(
	create *ucReservation.CreateReservation,
	update *ucReservation.UpdateReservation,
	confirm *ucReservation.ConfirmReservation,
	cancel *ucReservation.CancelReservation,
	complete *ucReservation.CompleteReservation,
	noShow *ucReservation.MarkNoShow,
	get *ucReservation.GetReservation,
	search *ucReservation.SearchReservations,
	checkConflict *ucReservation.CheckConflict,
	availability *ucReservation.GetAvailability,
) *ReservationHandler {
	return &ReservationHandler{
		create:       create,
		update:       update,
		confirm:      confirm,
		cancel:       cancel,
		complete:     complete,
		noShow:       noShow,
		get:          get,
		search:       search,
		checkConfl:   checkConflict,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	SalonID       uuid.UUID  `json:"salon_id" binding:"required"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	StaffID       uuid.UUID  `json:"staff_id" binding:"required"`
	ServiceID     uuid.UUID  `json:"service_id" binding:"required"`
	StartTime     time.Time  `json:"start_time" binding:"required"`
	EndTime       time.Time  `json:"end_time" binding:"required"`
	Notes         string     `json:"notes" binding:"max=500"`
	TotalAmount   int64      `json:"total_amount"`
	DepositAmount *int64     `json:"deposit_amount"`
}

type UpdateReservationRequest struct {
	StaffID       *uuid.UUID `json:"staff_id"`
	ServiceID     *uuid.UUID `json:"service_id"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Notes         *string    `json:"notes" binding:"omitempty,max=500"`
	TotalAmount   *int64     `json:"total_amount"`
	DepositAmount *int64     `json:"deposit_amount"`
	IsPaid        *bool      `json:"is_paid"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ConflictCheckRequest struct {
	StaffID   uuid.UUID  `json:"staff_id" binding:"required"`
	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   time.Time  `json:"end_time" binding:"required"`
	ExcludeID *uuid.UUID `json:"exclude_reservation_id"`
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	actor, _ := middleware.UserID(c)

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	// Customers book for themselves; staff may book on behalf of one.
	customerID := actor
	if req.CustomerID != nil && !middleware.HasRole(c, middleware.RoleCustomer) {
		customerID = *req.CustomerID
	}

	res, err := h.create.Execute(c.Request.Context(), ucReservation.CreateReservationInput{
		SalonID:       req.SalonID,
		CustomerID:    customerID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Notes:         req.Notes,
		TotalAmount:   req.TotalAmount,
		DepositAmount: req.DepositAmount,
		ActorID:       &actor,
		Scope:         reservationScope(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, toReservationResponse(res))
}

func (h *ReservationHandler) Update(c *gin.Context) {
	actor, _ := middleware.UserID(c)
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.update.Execute(c.Request.Context(), ucReservation.UpdateReservationInput{
		ID: id,
		Changes: domain.Changes{
			StaffID:       req.StaffID,
			ServiceID:     req.ServiceID,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Notes:         req.Notes,
			TotalAmount:   req.TotalAmount,
			DepositAmount: req.DepositAmount,
			IsPaid:        req.IsPaid,
		},
		ActorID: actor,
		Scope:   reservationScope(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReservationResponse(res))
}

// ======================================================
// TRANSITIONS
// ======================================================

type transitionExec func(c *gin.Context, id, actor uuid.UUID, scope domain.Scope) (*domain.Reservation, error)

func (h *ReservationHandler) transition(c *gin.Context, exec transitionExec) {
	actor, _ := middleware.UserID(c)
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	res, err := exec(c, id, actor, reservationScope(c))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReservationResponse(res))
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id, actor uuid.UUID, scope domain.Scope) (*domain.Reservation, error) {
		return h.confirm.Execute(c.Request.Context(), id, actor, scope)
	})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	var req CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
	}

	h.transition(c, func(c *gin.Context, id, actor uuid.UUID, scope domain.Scope) (*domain.Reservation, error) {
		return h.cancel.Execute(c.Request.Context(), id, req.Reason, actor, scope)
	})
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id, actor uuid.UUID, scope domain.Scope) (*domain.Reservation, error) {
		return h.complete.Execute(c.Request.Context(), id, actor, scope)
	})
}

func (h *ReservationHandler) NoShow(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id, actor uuid.UUID, scope domain.Scope) (*domain.Reservation, error) {
		return h.noShow.Execute(c.Request.Context(), id, actor, scope)
	})
}

// ======================================================
// READ
// ======================================================

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	res, err := h.get.Execute(c.Request.Context(), id, reservationScope(c))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReservationResponse(res))
}

func (h *ReservationHandler) Search(c *gin.Context) {
	var (
		crit domain.Criteria
		err  error
	)

	for name, dst := range map[string]**uuid.UUID{
		"salon_id":    &crit.SalonID,
		"customer_id": &crit.CustomerID,
		"staff_id":    &crit.StaffID,
		"service_id":  &crit.ServiceID,
	} {
		if *dst, err = queryUUID(c, name); err != nil {
			badRequest(c)
			return
		}
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseStatusName(raw)
		if !ok {
			badRequest(c)
			return
		}
		crit.Status = &status
	}

	if raw := c.Query("is_paid"); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c)
			return
		}
		crit.IsPaid = &paid
	}

	if crit.From, err = parseOptionalTime(c.Query("from")); err != nil {
		badRequest(c)
		return
	}
	if crit.To, err = parseOptionalTime(c.Query("to")); err != nil {
		badRequest(c)
		return
	}

	page, err := h.search.Execute(c.Request.Context(), crit, reservationScope(c), pagination(c))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReservationPage(page))
}

func (h *ReservationHandler) CheckConflict(c *gin.Context) {
	var req ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	conflict, err := h.checkConfl.Execute(c.Request.Context(), req.StaffID, req.StartTime, req.EndTime, req.ExcludeID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"conflict": conflict})
}

func (h *ReservationHandler) Availability(c *gin.Context) {
	salonID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	serviceID, err := queryUUID(c, "service_id")
	if err != nil || serviceID == nil {
		badRequest(c)
		return
	}

	date, err := parseDay(c.Query("date"))
	if err != nil {
		badRequest(c)
		return
	}

	var duration time.Duration
	if raw := c.Query("duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			badRequest(c)
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		SalonID:   salonID,
		ServiceID: *serviceID,
		Date:      date,
		Duration:  duration,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, slots)
}

func pagination(c *gin.Context) dto.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(dto.DefaultPageSize)))
	return dto.Pagination{Page: page, PageSize: size}.Normalize()
}
