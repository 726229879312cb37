package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/middleware"
)

// tokenSalon is the salon bound to the token. A staff token without one
// reaches no salon at all.
func tokenSalon(c *gin.Context) *uuid.UUID {
	id, ok := middleware.SalonID(c)
	if !ok {
		id = uuid.Nil
	}
	return &id
}

// reservationScope pins customers to their own reservations and staff or
// owners to their salon's. Admins are unrestricted.
func reservationScope(c *gin.Context) reservation.Scope {
	switch {
	case middleware.HasRole(c, middleware.RoleAdmin):
		return reservation.Scope{}
	case middleware.HasRole(c, middleware.RoleStaff, middleware.RoleOwner):
		return reservation.Scope{SalonID: tokenSalon(c)}
	}
	actor, _ := middleware.UserID(c)
	return reservation.Scope{CustomerID: &actor}
}

// moderator is nil unless the caller is an owner or an admin.
func moderator(c *gin.Context) *review.Moderator {
	actor, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	switch {
	case middleware.HasRole(c, middleware.RoleAdmin):
		return &review.Moderator{ID: actor}
	case middleware.HasRole(c, middleware.RoleOwner):
		return &review.Moderator{ID: actor, SalonID: tokenSalon(c)}
	}
	return nil
}
