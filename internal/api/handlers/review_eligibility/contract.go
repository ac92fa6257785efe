package review_eligibility

import (
	"context"

	"github.com/google/uuid"
)

type ReviewService interface {
	IsEligible(ctx context.Context, bookingID uuid.UUID, clientID int64) (bool, error)
	MarkReviewed(ctx context.Context, bookingID uuid.UUID, clientID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
