package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

// Service сервис недельного расписания специалистов
type Service struct {
	availabilityRepo AvailabilityRepository
	userClient       UserServiceClient
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	availabilityRepo AvailabilityRepository,
	userClient UserServiceClient,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		userClient:       userClient,
		logger:           logger,
	}
}

// Get получает текущее расписание специалиста
func (s *Service) Get(ctx context.Context, professionalID int64) (*models.AvailabilityResponse, error) {
	s.logger.Info("Get: fetching availability for professional=%d", professionalID)

	avail, err := s.availabilityRepo.Get(ctx, professionalID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("Get: availability for professional=%d not found", professionalID)
			return nil, ErrAvailabilityNotFound
		}
		s.logger.Error("Get: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAvailability(avail), nil
}

// Set полностью заменяет расписание специалиста.
// Доступно самому специалисту, администратору и системе.
func (s *Service) Set(ctx context.Context, req *models.SetAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Set: replacing availability for professional=%d by user=%d", req.ProfessionalID, userIDOf(req.Actor))

	// 1. Проверяем права доступа
	if !s.canManage(req.Actor, req.ProfessionalID) {
		s.logger.Warn("Set: access denied for user=%d to professional=%d", userIDOf(req.Actor), req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	// 2. Конвертируем и валидируем расписание
	avail, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Set: invalid availability for professional=%d: %v", req.ProfessionalID, err)
		return nil, err
	}
	if err := avail.Validate(); err != nil {
		s.logger.Warn("Set: invalid availability for professional=%d: %v", req.ProfessionalID, err)
		return nil, err
	}

	// 3. Проверяем, что специалист существует
	if _, err := s.userClient.GetUser(ctx, req.ProfessionalID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("Set: professional=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		s.logger.Error("Set: failed to get professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: Set - user service error: %v", ErrInternal, err)
	}

	// 4. Сохраняем
	saved, err := s.availabilityRepo.Upsert(ctx, avail)
	if err != nil {
		s.logger.Error("Set: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: Set - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Set: availability for professional=%d saved (%d days, %d blocked dates)",
		req.ProfessionalID, len(saved.Days), len(saved.BlockedDates))
	return models.FromDomainAvailability(saved), nil
}

// canManage специалист управляет только своим расписанием
func (s *Service) canManage(actor domain.Actor, professionalID int64) bool {
	if actor == nil {
		return false
	}
	if domain.IsPrivileged(actor) {
		return true
	}
	p, ok := actor.(domain.ProfessionalActor)
	return ok && p.ID == professionalID
}

func userIDOf(actor domain.Actor) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID()
}
