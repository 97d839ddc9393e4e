// Package model holds the entities and projections shared by the auth,
// social and posts packages.
package model

import "time"

// User is the stored identity record. PasswordHash never leaves the auth
// package; use Public or Account to hand a user to anyone else.
type User struct {
	ID           string
	Email        string
	Handle       string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the projection visible to any caller.
type PublicUser struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account is the projection returned to the owner on register and login.
type Account struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Handle: u.Handle, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (u User) Account() Account {
	return Account{ID: u.ID, Handle: u.Handle, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}
