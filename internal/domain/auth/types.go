package auth

// Package auth contains domain-level types for trigger authentication.
// It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role.
// Keep string form for easy persistence and caching.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Privileged returns true if the role may invoke administrative operations.
func (r Role) Privileged() bool { return r == RoleAdmin }

// Principal is the authenticated user behind an administrative trigger.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// SystemActorID is the attribution used for scheduled (machine) triggers,
// which never resolve to a Principal.
const SystemActorID = "system"

// Actor identifies who caused a trigger: either the platform scheduler or
// an authenticated administrator.
type Actor struct {
	// ID is SystemActorID for scheduled triggers, the user ID otherwise.
	ID string
	// Principal is nil for scheduled triggers.
	Principal *Principal
}

// System returns the actor attributed to the platform scheduler.
func System() Actor { return Actor{ID: SystemActorID} }

// User returns the actor for an authenticated administrator.
func User(p Principal) Actor { return Actor{ID: p.ID, Principal: &p} }

// IsSystem reports whether the trigger came over the shared-secret path.
func (a Actor) IsSystem() bool { return a.Principal == nil }
