// Package access decides what a caller may do with each kind of resource.
//
// Callers are classified per request into one of three roles. Anonymous
// callers are rejected outright, authenticated callers get read-only access
// to the catalog and full access to their own orders, and privileged callers
// may read and write everything.
package access

import (
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
)

type Role int

const (
	RoleAnonymous Role = iota
	RoleAuthenticated
	RolePrivileged
)

func (r Role) String() string {
	switch r {
	case RoleAuthenticated:
		return "authenticated"
	case RolePrivileged:
		return "privileged"
	default:
		return "anonymous"
	}
}

type Resource string

const (
	ResourceAirport      Resource = "airport"
	ResourceAirplaneType Resource = "airplane_type"
	ResourceAirplane     Resource = "airplane"
	ResourceCrew         Resource = "crew"
	ResourceRoute        Resource = "route"
	ResourceFlight       Resource = "flight"
	ResourceOrder        Resource = "order"
	ResourceUser         Resource = "user"
)

type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

// Principal is the caller on whose behalf an operation runs.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

func Anonymous() Principal {
	return Principal{Role: RoleAnonymous}
}

func (p Principal) IsAuthenticated() bool {
	return p.Role != RoleAnonymous
}

func (p Principal) IsPrivileged() bool {
	return p.Role == RolePrivileged
}

// Authorize reports whether p may perform act on res. Order and user writes
// by authenticated callers are allowed here and narrowed to the caller's own
// records by AuthorizeOwner.
func Authorize(p Principal, res Resource, act Action) error {
	switch p.Role {
	case RolePrivileged:
		return nil
	case RoleAuthenticated:
		if act == ActionRead {
			return nil
		}
		if res == ResourceOrder || res == ResourceUser {
			return nil
		}
		return fmt.Errorf("write %s as %s: %w", res, p.Role, domain.ErrForbidden)
	default:
		return domain.ErrUnauthorized
	}
}

// AuthorizeOwner narrows access to records owned by ownerID.
func AuthorizeOwner(p Principal, ownerID int64) error {
	if !p.IsAuthenticated() {
		return domain.ErrUnauthorized
	}
	if p.IsPrivileged() || p.UserID == ownerID {
		return nil
	}
	return domain.ErrForbidden
}
