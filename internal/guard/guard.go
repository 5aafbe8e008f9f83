// Package guard decides whether a navigation target may render. It is a pure
// function of the session state and the target's role requirement: no I/O,
// no side effects, so every call site gets the same policy.
package guard

import (
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/session"
)

type Requirement int

const (
	// None: any authenticated user may enter.
	None Requirement = iota
	// AdminOnly: requires ROLE_ADMIN.
	AdminOnly
)

type Outcome int

const (
	// Allow renders the protected content.
	Allow Outcome = iota
	// ShowLoading holds rendering while the boot token check is pending.
	ShowLoading
	// RedirectLogin sends the visitor to the login view; Decision.ReturnTo
	// carries the original target for the post-login bounce back.
	RedirectLogin
	// RedirectHome turns away an authenticated user who lacks the role.
	RedirectHome
)

type Decision struct {
	Outcome Outcome
	// ReturnTo is set only for RedirectLogin.
	ReturnTo string
}

// Evaluate applies the policy table for a navigation to target.
func Evaluate(state session.State, user *models.User, required Requirement, target string) Decision {
	switch state {
	case session.Unknown:
		return Decision{Outcome: ShowLoading}
	case session.Anonymous:
		return Decision{Outcome: RedirectLogin, ReturnTo: target}
	}

	if required == AdminOnly && !user.IsAdmin() {
		return Decision{Outcome: RedirectHome}
	}
	return Decision{Outcome: Allow}
}
