package authz

import (
	"ezwallet-service/internal/pkg/token"
)

const adminRole = "Admin"

// Decide evaluates a policy against the decoded claim sets of the access
// and refresh tokens. Checks run in a fixed order: claim completeness for
// both tokens, cross-token identity consistency, then the policy itself.
func Decide(access, refresh *token.Claims, p Policy) Result {
	if !access.Complete() || !refresh.Complete() {
		return denied(CauseMissingInfo)
	}
	if !access.SameIdentity(refresh) {
		return denied(CauseMismatchedUsers)
	}

	switch p.kind {
	case kindAdmin:
		if access.Role != adminRole || refresh.Role != adminRole {
			return denied(CauseMismatchedRole)
		}
	case kindUser:
		if access.Username != p.username || refresh.Username != p.username {
			return denied(CauseMismatchedUsername)
		}
	case kindGroup:
		// Only the access token's email is checked against the member set.
		if !contains(p.emails, access.Email) {
			return denied(CauseNotGroupMember)
		}
	}

	return authorized()
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
