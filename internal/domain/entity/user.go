// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// User is a stored credential: a unique username and the adaptive hash of its password.
// The JSON form is the on-disk layout of the credential file.
type User struct {
	Username     string `json:"username"`     // Unique, case-sensitive, trimmed login name.
	PasswordHash string `json:"passwordHash"` // Self-describing bcrypt hash ($2a$<cost>$<salt+digest>).
}

// Clone returns a copy that can be mutated without touching the original.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u

	return &c
}
