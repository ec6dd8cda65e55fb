package core

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail produces the canonical form used as the identity join key
// and for every stored email value.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the email is syntactically acceptable.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Policy decides role and zone access for resolved principals. It is pure:
// no I/O, no stored state beyond the configured reserved moderator email.
type Policy struct {
	// MasterModeratorEmail is the reserved email whose moderator role is
	// re-asserted on every login. Empty disables the override.
	MasterModeratorEmail string
}

// IsMasterModerator reports whether the email is the reserved moderator email.
// Comparison is case-insensitive and whitespace-trimmed on both sides.
func (p Policy) IsMasterModerator(email string) bool {
	master := NormalizeEmail(p.MasterModeratorEmail)
	if master == "" || email == "" {
		return false
	}
	return NormalizeEmail(email) == master
}

// CanAccessModeratorZone reports whether the principal may enter the
// moderator zone. The master-email clause is redundant with the role check
// today but is kept deliberately: a moderator role held by the reserved email
// stays authoritative even if the role set above it changes.
func (p Policy) CanAccessModeratorZone(principal Principal) bool {
	if principal.Role == RoleAdmin || principal.Role == RoleModerator {
		return true
	}
	return p.IsMasterModerator(principal.Email) && principal.Role == RoleModerator
}

// RoleOnCreate derives the role for a freshly provisioned account.
func (p Policy) RoleOnCreate(email string) Role {
	if p.IsMasterModerator(email) {
		return RoleModerator
	}
	return RoleUser
}

// RoleOnLogin re-derives the role on a repeat login. The reserved email is
// pinned to moderator; everyone else keeps their stored role.
func (p Policy) RoleOnLogin(email string, current Role) Role {
	if p.IsMasterModerator(email) {
		return RoleModerator
	}
	if current == "" {
		return RoleUser
	}
	return current
}

// CabinetGate rejects plain users without cabinet access. Moderators and
// admins bypass the flag entirely.
func (p Policy) CabinetGate(role Role, cabinetAccessEnabled bool) error {
	if role == RoleUser && !cabinetAccessEnabled {
		return ErrCabinetAccessDenied
	}
	return nil
}
