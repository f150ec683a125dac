package id

import "github.com/google/uuid"

// New returns a canonical lowercase UUID string for public identifiers
// (loan_id, participant_id, payment_id).
func New() string {
	return uuid.NewString()
}

// Valid reports whether s parses as a canonical lowercase UUID.
func Valid(s string) bool {
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.String() == s
}
