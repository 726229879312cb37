package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonbook/salon-scheduler/internal/httperr"
)

var errorMessages = map[string]string{
	httperr.CodeNotFound:                "Resource not found.",
	httperr.CodeInvalidTimeRange:        "End time must be after start time.",
	httperr.CodeSlotNotAvailable:        "The requested time slot is not available.",
	httperr.CodeInvalidStatus:           "The operation is not allowed in the current status.",
	httperr.CodeAlreadyConfirmed:        "Reservation is already confirmed.",
	httperr.CodeAlreadyCancelled:        "Reservation is already cancelled.",
	httperr.CodeNotConfirmed:            "Reservation is not confirmed.",
	httperr.CodeNotYetPassed:            "Reservation start time has not passed yet.",
	httperr.CodeNotModifiable:           "Reservation can no longer be modified.",
	httperr.CodeOutsideWorkingHours:     "The staff member does not work at that time.",
	httperr.CodeInvalidRating:           "Ratings must be between 1 and 5.",
	httperr.CodeCommentTooLong:          "Comment is too long.",
	httperr.CodeReservationNotFound:     "Reservation not found.",
	httperr.CodeReservationNotCompleted: "Only completed reservations can be reviewed.",
	httperr.CodeDuplicateReview:         "This reservation already has a review.",
	httperr.CodeReviewUpdateExpired:     "The review can no longer be edited.",
	httperr.CodeReviewAlreadyHidden:     "The review is hidden or deleted.",
	httperr.CodeInvalidRequest:          "Invalid request.",
	httperr.CodeDatabase:                "Internal error.",
}

// StatusFor maps a business code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case httperr.CodeNotFound, httperr.CodeReservationNotFound:
		return http.StatusNotFound
	case httperr.CodeSlotNotAvailable,
		httperr.CodeDuplicateReview,
		httperr.CodeAlreadyConfirmed,
		httperr.CodeAlreadyCancelled:
		return http.StatusConflict
	case httperr.CodeInvalidStatus,
		httperr.CodeNotConfirmed,
		httperr.CodeNotYetPassed,
		httperr.CodeNotModifiable,
		httperr.CodeOutsideWorkingHours,
		httperr.CodeReservationNotCompleted,
		httperr.CodeReviewUpdateExpired,
		httperr.CodeReviewAlreadyHidden:
		return http.StatusUnprocessableEntity
	case httperr.CodeInvalidTimeRange,
		httperr.CodeInvalidRating,
		httperr.CodeCommentTooLong,
		httperr.CodeInvalidRequest:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	code := httperr.CodeOf(err)
	status := StatusFor(code)

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}

	httperr.Write(c, status, code, errorMessages[code])
}

func badRequest(c *gin.Context) {
	httperr.BadRequest(c, httperr.CodeInvalidRequest, errorMessages[httperr.CodeInvalidRequest])
}
