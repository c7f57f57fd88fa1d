// Package authz holds the pure authorization decision: given the decoded
// claim sets of both bearer tokens and the policy an endpoint requires, it
// answers authorized or denied with a cause. It never touches the clock and
// performs no I/O; token expiry is handled one layer up, in the middleware.
package authz

// Denial and success causes, returned verbatim to clients.
const (
	CauseAuthorized         = "Authorized"
	CauseUnauthorized       = "Unauthorized"
	CauseMissingInfo        = "Token is missing information"
	CauseMismatchedUsers    = "Mismatched users"
	CauseMismatchedRole     = "Mismatched role"
	CauseMismatchedUsername = "Mismatched username"
	CauseNotGroupMember     = "User is not a group member"
	CausePerformLogin       = "Perform login again"
)

type policyKind int

const (
	kindSimple policyKind = iota
	kindUser
	kindAdmin
	kindGroup
)

// Policy describes what an endpoint requires of a session. Variants are
// built through the constructors below so each one carries exactly the
// fields it needs.
type Policy struct {
	kind     policyKind
	username string
	emails   []string
}

// Simple requires any valid, internally consistent session.
func Simple() Policy { return Policy{kind: kindSimple} }

// User requires the session identity to match the given username.
func User(username string) Policy { return Policy{kind: kindUser, username: username} }

// Admin requires the session role to be Admin.
func Admin() Policy { return Policy{kind: kindAdmin} }

// Group requires the session email to belong to the given member set.
func Group(emails []string) Policy { return Policy{kind: kindGroup, emails: emails} }

// Result is the uniform outcome every protected endpoint branches on.
type Result struct {
	Authorized bool
	Cause      string
}

func denied(cause string) Result { return Result{Authorized: false, Cause: cause} }

func authorized() Result { return Result{Authorized: true, Cause: CauseAuthorized} }
