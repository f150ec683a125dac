package auth

import "strings"

const (
	RoleBorrower = "borrower"
	RoleLender   = "lender"
)

// Principal is the authenticated caller, passed explicitly into every
// operation. There is no ambient "current user".
type Principal struct {
	UserID string
	Email  string
	Name   string
	Roles  []string
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// EmailMatches compares emails case-insensitively.
func (p Principal) EmailMatches(email string) bool {
	return strings.EqualFold(p.Email, email)
}
