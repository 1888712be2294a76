package actor

import "github.com/google/uuid"

type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
	// RoleSystem is used by batch jobs and the outbox dispatcher.
	RoleSystem Role = "system"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleStaff, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Privileged roles bypass the cancellation notice window and the
// same-day move restriction.
func (r Role) IsPrivileged() bool {
	return r == RoleStaff || r == RoleAdmin || r == RoleSystem
}

// Context is the explicit actor passed into every orchestrator call.
// There is no ambient "current user"; callers resolve it at the boundary.
type Context struct {
	ID        *uuid.UUID
	Role      Role
	IP        string
	UserAgent string
}

func System() Context {
	return Context{Role: RoleSystem}
}

func (c Context) IsPrivileged() bool { return c.Role.IsPrivileged() }
