// Package models holds the persistent domain entities of the auth service.
package models

import "time"

// Account is a registered customer identity. Email is globally unique
// (enforced by the database); PasswordHash only ever holds a bcrypt hash,
// never plaintext.
type Account struct {
	ID           string
	Email        string
	Username     string
	Lastname     string
	Address      string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
}

// RoleNames returns the names of the account's roles, in store order.
func (a *Account) RoleNames() []string {
	names := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		names = append(names, r.Name)
	}
	return names
}
