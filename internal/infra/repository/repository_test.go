package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/models"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "constraint " + code}
}

func TestPgErrorClassification(t *testing.T) {
	assert.True(t, isRetryable(pgErr(pgSerializationFailure)))
	assert.True(t, isRetryable(fmt.Errorf("commit: %w", pgErr(pgDeadlockDetected))))
	assert.True(t, isRetryable(httperr.Database(pgErr(pgSerializationFailure))), "wrapped by the repository")
	assert.False(t, isRetryable(pgErr(pgUniqueViolation)))
	assert.False(t, isRetryable(errors.New("connection reset")))

	assert.True(t, isExclusionViolation(httperr.Database(pgErr(pgExclusionViolation))))
	assert.False(t, isExclusionViolation(pgErr(pgUniqueViolation)))

	assert.True(t, isUniqueViolation(pgErr(pgUniqueViolation)))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(pgErr(pgExclusionViolation)))
}

func TestTranslateReservationWrite(t *testing.T) {
	err := translateReservationWrite(pgErr(pgExclusionViolation))
	assert.Equal(t, httperr.CodeSlotNotAvailable, httperr.CodeOf(err))
	var pe *pgconn.PgError
	assert.True(t, errors.As(err, &pe), "the store error stays inspectable")

	err = translateReservationWrite(pgErr("23502"))
	assert.Equal(t, httperr.CodeDatabase, httperr.CodeOf(err))
}

func TestTranslateReviewWrite(t *testing.T) {
	assert.Equal(t, httperr.CodeDuplicateReview, httperr.CodeOf(translateReviewWrite(pgErr(pgUniqueViolation))))
	assert.Equal(t, httperr.CodeDuplicateReview, httperr.CodeOf(translateReviewWrite(gorm.ErrDuplicatedKey)))
	assert.Equal(t, httperr.CodeDatabase, httperr.CodeOf(translateReviewWrite(errors.New("disk full"))))
}

func TestRetrySerializableExhausts(t *testing.T) {
	attempts := 0
	err := retrySerializable(context.Background(), 2, func() error {
		attempts++
		return httperr.Database(pgErr(pgSerializationFailure))
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts, "one run plus two retries")
	assert.ErrorIs(t, err, errRetriesExhausted)
	assert.Equal(t, pgSerializationFailure, pgCode(err))

	mapped := reservationTxErr(err)
	assert.ErrorIs(t, mapped, domain.ErrTxConflict)
}

func TestRetrySerializableRecovers(t *testing.T) {
	attempts := 0
	err := retrySerializable(context.Background(), 3, func() error {
		attempts++
		if attempts < 3 {
			return pgErr(pgDeadlockDetected)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrySerializableStopsOnOtherErrors(t *testing.T) {
	attempts := 0
	err := retrySerializable(context.Background(), 5, func() error {
		attempts++
		return translateReservationWrite(pgErr(pgExclusionViolation))
	})

	assert.Equal(t, 1, attempts)
	assert.NotErrorIs(t, err, errRetriesExhausted)
	assert.Equal(t, httperr.CodeSlotNotAvailable, httperr.CodeOf(err))
	assert.NoError(t, reservationTxErr(nil))
}

func TestRetrySerializableWithoutRetries(t *testing.T) {
	attempts := 0
	err := retrySerializable(context.Background(), 0, func() error {
		attempts++
		return pgErr(pgSerializationFailure)
	})

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, errRetriesExhausted)
}

func TestStatusFromModel(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	by := uuid.New()
	reason := "sick"

	cases := []struct {
		row  models.Reservation
		want domain.StatusName
	}{
		{models.Reservation{Status: "pending"}, domain.StatusPending},
		{models.Reservation{Status: "confirmed", ConfirmedAt: &at, ConfirmedBy: &by}, domain.StatusConfirmed},
		{models.Reservation{Status: "cancelled", CancelledAt: &at, CancelledBy: &by, CancellationReason: &reason}, domain.StatusCancelled},
		{models.Reservation{Status: "completed", CompletedAt: &at, CompletedBy: &by}, domain.StatusCompleted},
		{models.Reservation{Status: "no_show", NoShowAt: &at, NoShowBy: &by}, domain.StatusNoShow},
	}
	for _, tc := range cases {
		s, err := statusFromModel(tc.row)
		require.NoError(t, err, tc.want)
		assert.Equal(t, tc.want, s.Name())
	}

	s, err := statusFromModel(models.Reservation{Status: "no_show", NoShowAt: &at, NoShowBy: &by})
	require.NoError(t, err)
	assert.Equal(t, domain.Stamp{At: at, By: by}, s.(domain.NoShow).Stamp)

	s, err = statusFromModel(models.Reservation{Status: "cancelled", CancelledAt: &at, CancelledBy: &by, CancellationReason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "sick", s.(domain.Cancelled).Reason)

	_, err = statusFromModel(models.Reservation{Status: "archived"})
	assert.Equal(t, httperr.CodeDatabase, httperr.CodeOf(err))
}
