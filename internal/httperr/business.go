package httperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ===============================
// Business error codes
// ===============================

const (
	CodeNotFound                = "not_found"
	CodeInvalidTimeRange        = "invalid_time_range"
	CodeSlotNotAvailable        = "slot_not_available"
	CodeInvalidStatus           = "invalid_status"
	CodeAlreadyConfirmed        = "already_confirmed"
	CodeAlreadyCancelled        = "already_cancelled"
	CodeNotConfirmed            = "not_confirmed"
	CodeNotYetPassed            = "not_yet_passed"
	CodeNotModifiable           = "not_modifiable"
	CodeOutsideWorkingHours     = "outside_working_hours"
	CodeInvalidRating           = "invalid_rating"
	CodeCommentTooLong          = "comment_too_long"
	CodeReservationNotFound     = "reservation_not_found"
	CodeReservationNotCompleted = "reservation_not_completed"
	CodeDuplicateReview         = "duplicate_review"
	CodeReviewUpdateExpired     = "review_update_expired"
	CodeReviewAlreadyHidden     = "review_already_hidden"
	CodeInvalidRequest          = "invalid_request"
	CodeDatabase                = "database_error"
)

// BusinessError is the only error kind returned by the scheduling and
// review core for expected failures. Storage failures arrive as
// CodeDatabase with the original cause in Err.
type BusinessError struct {
	Code   string
	Entity string
	ID     uuid.UUID
	Err    error
}

func (e BusinessError) Error() string {
	switch {
	case e.Entity != "" && e.ID != uuid.Nil:
		return fmt.Sprintf("%s: %s %s", e.Code, e.Entity, e.ID)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func NotFound(entity string, id uuid.UUID) error {
	return BusinessError{Code: CodeNotFound, Entity: entity, ID: id}
}

// Database wraps an unexpected storage failure. Errors that already
// carry a business code pass through untouched.
func Database(err error) error {
	if err == nil {
		return nil
	}
	var be BusinessError
	if errors.As(err, &be) {
		return err
	}
	return BusinessError{Code: CodeDatabase, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, or CodeDatabase for
// anything the core did not classify.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeDatabase
}
