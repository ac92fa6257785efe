package domain

import "fmt"

// Role of the acting user
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
	RoleSystem       Role = "system"
)

// ParseRole converts a header/config value to Role
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleClient, RoleProfessional, RoleAdmin, RoleSystem:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
	}
}

// Actor is the authenticated caller of a mutating operation.
// The set of implementations is closed: ClientActor, ProfessionalActor, AdminActor, SystemActor.
type Actor interface {
	Role() Role
	UserID() int64
	actor()
}

type ClientActor struct{ ID int64 }

type ProfessionalActor struct{ ID int64 }

type AdminActor struct{ ID int64 }

// SystemActor is used by internal jobs; it has no user id.
type SystemActor struct{}

func (a ClientActor) Role() Role       { return RoleClient }
func (a ProfessionalActor) Role() Role { return RoleProfessional }
func (a AdminActor) Role() Role        { return RoleAdmin }
func (SystemActor) Role() Role         { return RoleSystem }

func (a ClientActor) UserID() int64       { return a.ID }
func (a ProfessionalActor) UserID() int64 { return a.ID }
func (a AdminActor) UserID() int64        { return a.ID }
func (SystemActor) UserID() int64         { return 0 }

func (ClientActor) actor()       {}
func (ProfessionalActor) actor() {}
func (AdminActor) actor()        {}
func (SystemActor) actor()       {}

// NewActor builds an actor from an identity (user id + role)
func NewActor(userID int64, role Role) (Actor, error) {
	if role != RoleSystem && userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", ErrInvalidArgument)
	}
	switch role {
	case RoleClient:
		return ClientActor{ID: userID}, nil
	case RoleProfessional:
		return ProfessionalActor{ID: userID}, nil
	case RoleAdmin:
		return AdminActor{ID: userID}, nil
	case RoleSystem:
		return SystemActor{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, role)
	}
}

// IsPrivileged admin and system actors may override ownership rules
func IsPrivileged(a Actor) bool {
	switch a.(type) {
	case AdminActor, SystemActor:
		return true
	default:
		return false
	}
}
