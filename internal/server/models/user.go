// Package models defines server-side data models persisted in the document store.
package models

import "github.com/dmitrijs2005/socialnet/internal/common"

// User is an account record of the users collection.
//
// PasswordHash always holds the output of the configured password hasher,
// never the plaintext. Friends lists user ids; the store does not check them.
type User struct {
	ID           string
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Friends      []string
	Role         string
}

func (u *User) IsAdmin() bool {
	return u.Role == common.RoleAdmin
}
