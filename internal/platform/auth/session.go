package auth

import "context"

// Session describes the authenticated actor for a single request. It is
// populated by the auth middleware at request start and read by domain
// services that need the actor's id or role; there is no other ambient
// login state.
type Session struct {
	UserID string
	Name   string
	Roles  []string
}

// SessionFromContext assembles the actor session from the request context.
// An empty UserID means the request is unauthenticated.
func SessionFromContext(ctx context.Context) Session {
	return Session{
		UserID: UserIDFromContext(ctx),
		Name:   UserNameFromContext(ctx),
		Roles:  RolesFromContext(ctx),
	}
}

// HasRole reports whether the session carries the given role.
func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.HasRole("admin")
}
