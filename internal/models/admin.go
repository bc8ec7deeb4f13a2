package models

import "time"

// Administrator is a row of the admins table.
// The password is stored only as a bcrypt hash.
type Administrator struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminPrincipal is the identity carried by a valid session token.
type AdminPrincipal struct {
	Subject  string `json:"id"`
	Username string `json:"username"`
}

// LoginRequest is the POST /api/admin/login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Admin     AdminPrincipal `json:"admin"`
}
