package lifecycle

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Effect side effect of an applied transition
type Effect string

const (
	EffectSlotReleased       Effect = "slot_released"
	EffectReviewEligible     Effect = "review_eligible"
	EffectPenaltyTracked     Effect = "penalty_tracked"
	EffectNotifyClient       Effect = "notify_client"
	EffectNotifyProfessional Effect = "notify_professional"
)

// rule строка таблицы переходов
type rule struct {
	roles    []domain.Role
	effects  map[domain.Role][]Effect
	afterEnd bool // переход возможен только после ScheduledEnd
}

func (r rule) allows(role domain.Role) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var overrideRoles = []domain.Role{domain.RoleAdmin, domain.RoleSystem}

// cancelByOverride отмена администратором или системой уведомляет обе стороны
var cancelByOverride = map[domain.Role][]Effect{
	domain.RoleAdmin:  {EffectSlotReleased, EffectNotifyClient, EffectNotifyProfessional},
	domain.RoleSystem: {EffectSlotReleased, EffectNotifyClient, EffectNotifyProfessional},
}

var transitions = map[domain.BookingStatus]map[domain.BookingStatus]rule{
	domain.StatusPending: {
		domain.StatusConfirmed: {
			roles:   []domain.Role{domain.RoleProfessional},
			effects: map[domain.Role][]Effect{domain.RoleProfessional: {EffectNotifyClient}},
		},
		domain.StatusRejected: {
			roles:   []domain.Role{domain.RoleProfessional},
			effects: map[domain.Role][]Effect{domain.RoleProfessional: {EffectSlotReleased, EffectNotifyClient}},
		},
		domain.StatusCancelled: {
			roles: append([]domain.Role{domain.RoleClient}, overrideRoles...),
			effects: withOverride(map[domain.Role][]Effect{
				domain.RoleClient: {EffectSlotReleased, EffectNotifyProfessional},
			}),
		},
	},
	domain.StatusConfirmed: {
		domain.StatusCancelled: {
			roles: append([]domain.Role{domain.RoleClient, domain.RoleProfessional}, overrideRoles...),
			effects: withOverride(map[domain.Role][]Effect{
				domain.RoleClient:       {EffectSlotReleased, EffectNotifyProfessional},
				domain.RoleProfessional: {EffectSlotReleased, EffectPenaltyTracked, EffectNotifyClient},
			}),
		},
		domain.StatusCompleted: {
			roles:    []domain.Role{domain.RoleProfessional},
			effects:  map[domain.Role][]Effect{domain.RoleProfessional: {EffectReviewEligible, EffectNotifyClient}},
			afterEnd: true,
		},
	},
}

func withOverride(effects map[domain.Role][]Effect) map[domain.Role][]Effect {
	for role, e := range cancelByOverride {
		effects[role] = e
	}
	return effects
}

// Decision result of a legal transition. It is applied to a booking with Apply.
type Decision struct {
	From    domain.BookingStatus
	To      domain.BookingStatus
	Role    domain.Role
	Effects []Effect
}

// Has reports whether the decision carries the effect
func (d Decision) Has(effect Effect) bool {
	for _, e := range d.Effects {
		if e == effect {
			return true
		}
	}
	return false
}

// Machine decides booking status transitions. It performs no I/O.
type Machine struct{}

func New() *Machine {
	return &Machine{}
}

// Decide checks the transition of b to status `to` by actor at instant now
func (m *Machine) Decide(b *domain.Booking, to domain.BookingStatus, actor domain.Actor, now time.Time) (Decision, error) {
	if b == nil || actor == nil {
		return Decision{}, fmt.Errorf("%w: booking and actor are required", domain.ErrInvalidArgument)
	}
	if !to.IsValid() {
		return Decision{}, fmt.Errorf("%w: unknown target status %q", domain.ErrInvalidArgument, to)
	}

	from := b.Status
	role := actor.Role()

	if from.IsTerminal() {
		return Decision{}, fmt.Errorf("%w: booking %s is %s", domain.ErrTerminalStateViolation, b.ID, from)
	}

	r, ok := transitions[from][to]
	if !ok || !r.allows(role) {
		return Decision{}, &domain.TransitionError{From: from, To: to, Role: role}
	}

	if r.afterEnd && now.Before(b.ScheduledEnd) {
		return Decision{}, fmt.Errorf("%w: booking %s ends at %s", domain.ErrTooEarly, b.ID, b.ScheduledEnd.Format(time.RFC3339))
	}

	return Decision{
		From:    from,
		To:      to,
		Role:    role,
		Effects: append([]Effect(nil), r.effects[role]...),
	}, nil
}

// Allowed lists target statuses reachable from `from` by role, in lifecycle order.
// Time-gated transitions are listed regardless of the current time.
func (m *Machine) Allowed(from domain.BookingStatus, role domain.Role) []domain.BookingStatus {
	var result []domain.BookingStatus
	for _, to := range domain.AllStatuses {
		if r, ok := transitions[from][to]; ok && r.allows(role) {
			result = append(result, to)
		}
	}
	return result
}

// Apply returns a copy of b with the decision applied.
// Version is left untouched: storage increments it on a successful write.
func Apply(b domain.Booking, d Decision, reason *string, now time.Time) domain.Booking {
	b.Status = d.To
	b.UpdatedAt = now
	if d.To == domain.StatusCancelled || d.To == domain.StatusRejected {
		role := d.Role
		b.CancelledBy = &role
		if reason != nil {
			r := *reason
			b.CancellationReason = &r
		}
	}
	return b
}
