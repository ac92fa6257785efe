package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
)

// Service сервис права на отзыв. Сами отзывы хранятся вне сервиса бронирований.
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(bookingRepo BookingRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// IsEligible клиент может оставить отзыв на завершённое бронирование, если ещё не оставлял.
// Чужое бронирование не раскрывается: для него возвращается false.
func (s *Service) IsEligible(ctx context.Context, bookingID uuid.UUID, clientID int64) (bool, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("IsEligible: booking id=%s not found", bookingID)
			return false, ErrBookingNotFound
		}
		s.logger.Error("IsEligible: repository error for booking id=%s: %v", bookingID, err)
		return false, fmt.Errorf("%w: IsEligible - repository error: %v", ErrInternal, err)
	}

	return eligible(booking, clientID), nil
}

// MarkReviewed фиксирует отзыв клиента. Повторный отзыв возвращает ErrNotEligible.
func (s *Service) MarkReviewed(ctx context.Context, bookingID uuid.UUID, clientID int64) error {
	s.logger.Info("MarkReviewed: booking id=%s by client=%d", bookingID, clientID)

	err := s.bookingRepo.MarkReviewed(ctx, bookingID, clientID, s.timeProvider.Now())
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotReviewable) {
			s.logger.Warn("MarkReviewed: booking id=%s is not reviewable by client=%d", bookingID, clientID)
			return ErrNotEligible
		}
		s.logger.Error("MarkReviewed: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: MarkReviewed - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkReviewed: booking id=%s reviewed", bookingID)
	return nil
}

func eligible(b *domain.Booking, clientID int64) bool {
	return b.Status == domain.StatusCompleted && b.ClientID == clientID && !b.IsReviewed()
}
