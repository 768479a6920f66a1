// Package models holds the client-side data types exchanged with the
// identity service.
package models

// Credentials exist only for the duration of a login call and are never
// persisted as such.
type Credentials struct {
	Identifier string
	Secret     string
}

// User is the account summary returned by the identity service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResult is the body of a successful login or refresh.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
