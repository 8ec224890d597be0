package models

import "strings"

type User struct {
	Base `bson:",inline"`

	Nome  string `bson:"nome" json:"nome" validate:"required" label:"Nome"`
	Email string `bson:"email" json:"email" validate:"required,email" label:"Email"`
	Senha string `bson:"senha,omitempty" json:"-"` // argon2id hash, never serialised
}

func (u *User) Normalize() {
	trim(&u.Nome)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// Principal converts the stored user into the value handed to services.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Nome: u.Nome, Email: u.Email}
}

type RegisterRequest struct {
	Nome  string `json:"nome" validate:"required" label:"Nome"`
	Email string `json:"email" validate:"required,email" label:"Email"`
	Senha string `json:"senha" validate:"required,min=6" label:"Senha"`
}

type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID    string `json:"_id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Token string `json:"token"`
}
