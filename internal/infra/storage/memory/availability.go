package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
)

// AvailabilityRepository хранилище расписаний в памяти процесса
type AvailabilityRepository struct {
	mu    sync.RWMutex
	items map[int64]domain.WeeklyAvailability
	now   func() time.Time
}

func NewAvailabilityRepository(now func() time.Time) *AvailabilityRepository {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityRepository{
		items: make(map[int64]domain.WeeklyAvailability),
		now:   now,
	}
}

func (r *AvailabilityRepository) Get(_ context.Context, professionalID int64) (*domain.WeeklyAvailability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[professionalID]
	if !ok {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	result := cloneAvailability(a)
	return &result, nil
}

func (r *AvailabilityRepository) Upsert(_ context.Context, avail *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := cloneAvailability(*avail)
	saved.UpdatedAt = r.now()
	r.items[avail.ProfessionalID] = saved

	result := cloneAvailability(saved)
	return &result, nil
}

func cloneAvailability(a domain.WeeklyAvailability) domain.WeeklyAvailability {
	days := make(map[time.Weekday][]domain.TimeRange, len(a.Days))
	for wd, ranges := range a.Days {
		days[wd] = append([]domain.TimeRange(nil), ranges...)
	}
	a.Days = days
	a.BlockedDates = append([]time.Time(nil), a.BlockedDates...)
	return a
}
