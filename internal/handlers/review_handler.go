package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/httpresp"
	"github.com/salonbook/salon-scheduler/internal/middleware"
	ucReview "github.com/salonbook/salon-scheduler/internal/usecase/review"
)

// ======================================================
// HANDLER
// ======================================================

type ReviewHandler struct {
	create  *ucReview.CreateReview
	update  *ucReview.UpdateReview
	publish *ucReview.PublishReview
	hide    *ucReview.HideReview
	delete  *ucReview.DeleteReview
	verify  *ucReview.VerifyReview
	helpful *ucReview.MarkHelpful
	get     *ucReview.GetReview
	list    *ucReview.ListReviews
	summary *ucReview.GetSummary
}

func NewReviewHandler(
	create *ucReview.CreateReview,
	update *ucReview.UpdateReview,
	publish *ucReview.PublishReview,
	hide *ucReview.HideReview,
	del *ucReview.DeleteReview,
	verify *ucReview.VerifyReview,
	helpful *ucReview.MarkHelpful,
	get *ucReview.GetReview,
	list *ucReview.ListReviews,
	summary *ucReview.GetSummary,
) *ReviewHandler {
	return &ReviewHandler{
		create:  create,
		update:  update,
		publish: publish,
		hide:    hide,
		delete:  del,
		verify:  verify,
		helpful: helpful,
		get:     get,
		list:    list,
		summary: summary,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReviewRequest struct {
	ReservationID    uuid.UUID `json:"reservation_id" binding:"required"`
	Rating           int       `json:"rating"`
	ServiceRating    *int      `json:"service_rating"`
	StaffRating      *int      `json:"staff_rating"`
	AtmosphereRating *int      `json:"atmosphere_rating"`
	Comment          string    `json:"comment"`
	Images           []string  `json:"images"`
}

type UpdateReviewRequest struct {
	Rating           *int      `json:"rating"`
	ServiceRating    *int      `json:"service_rating"`
	StaffRating      *int      `json:"staff_rating"`
	AtmosphereRating *int      `json:"atmosphere_rating"`
	Comment          *string   `json:"comment"`
	Images           *[]string `json:"images"`
}

type ModerationRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *ReviewHandler) Create(c *gin.Context) {
	actor, _ := middleware.UserID(c)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	rv, err := h.create.Execute(c.Request.Context(), ucReview.CreateReviewInput{
		ReservationID: req.ReservationID,
		CustomerID:    actor,
		Ratings: domain.Ratings{
			Overall:    req.Rating,
			Service:    req.ServiceRating,
			Staff:      req.StaffRating,
			Atmosphere: req.AtmosphereRating,
		},
		Comment: req.Comment,
		Images:  req.Images,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, toReviewResponse(rv))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	actor, _ := middleware.UserID(c)
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	rv, err := h.update.Execute(c.Request.Context(), ucReview.UpdateReviewInput{
		ID: id,
		Changes: domain.Changes{
			Rating:           req.Rating,
			ServiceRating:    req.ServiceRating,
			StaffRating:      req.StaffRating,
			AtmosphereRating: req.AtmosphereRating,
			Comment:          req.Comment,
			Images:           req.Images,
		},
		ActorID: actor,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReviewResponse(rv))
}

// ======================================================
// MODERATION
// ======================================================

type moderationExec func(c *gin.Context, id uuid.UUID, mod domain.Moderator, reason string) (*domain.Review, error)

// moderate runs behind RequireRole(owner, admin).
func (h *ReviewHandler) moderate(c *gin.Context, withReason bool, exec moderationExec) {
	mod := moderator(c)
	if mod == nil {
		httperr.Forbidden(c, "forbidden", "Insufficient role.")
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req ModerationRequest
	if withReason && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
	}

	rv, err := exec(c, id, *mod, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReviewResponse(rv))
}

func (h *ReviewHandler) Publish(c *gin.Context) {
	h.moderate(c, false, func(c *gin.Context, id uuid.UUID, mod domain.Moderator, _ string) (*domain.Review, error) {
		return h.publish.Execute(c.Request.Context(), id, mod)
	})
}

func (h *ReviewHandler) Hide(c *gin.Context) {
	h.moderate(c, true, func(c *gin.Context, id uuid.UUID, mod domain.Moderator, reason string) (*domain.Review, error) {
		return h.hide.Execute(c.Request.Context(), id, reason, mod)
	})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	h.moderate(c, true, func(c *gin.Context, id uuid.UUID, mod domain.Moderator, reason string) (*domain.Review, error) {
		return h.delete.Execute(c.Request.Context(), id, reason, mod)
	})
}

func (h *ReviewHandler) Verify(c *gin.Context) {
	h.moderate(c, false, func(c *gin.Context, id uuid.UUID, mod domain.Moderator, _ string) (*domain.Review, error) {
		return h.verify.Execute(c.Request.Context(), id, mod)
	})
}

func (h *ReviewHandler) Helpful(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	n, err := h.helpful.Execute(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"id": id, "helpful_count": n})
}

// ======================================================
// READ
// ======================================================

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	rv, err := h.get.Execute(c.Request.Context(), id, moderator(c))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReviewResponse(rv))
}

func (h *ReviewHandler) List(c *gin.Context) {
	var (
		crit domain.Criteria
		err  error
	)

	if crit.SalonID, err = queryUUID(c, "salon_id"); err != nil {
		badRequest(c)
		return
	}
	if crit.StaffID, err = queryUUID(c, "staff_id"); err != nil {
		badRequest(c)
		return
	}
	if crit.CustomerID, err = queryUUID(c, "customer_id"); err != nil {
		badRequest(c)
		return
	}

	// Only moderators may list anything but published reviews, and owners
	// only their own salon's.
	status := domain.StatusPublished
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseStatusName(raw)
		if !ok {
			badRequest(c)
			return
		}
		if mod := moderator(c); mod != nil {
			status = parsed
			if mod.SalonID != nil && status != domain.StatusPublished {
				crit.SalonID = mod.SalonID
			}
		}
	}
	crit.Status = &status

	if raw := c.Query("min_rating"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c)
			return
		}
		crit.MinRating = &v
	}

	page, err := h.list.Execute(c.Request.Context(), crit, pagination(c))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, toReviewPage(page))
}

func (h *ReviewHandler) SalonSummary(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.summary.Salon(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ReviewHandler) StaffSummary(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.summary.Staff(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, s)
}
