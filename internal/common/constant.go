// Package common contains constants, sentinel errors and small helpers shared
// by the Growth Pods client and the development identity server.
package common

// Fixed identity-service routes. The base URL is supplied by configuration.
const (
	PathRegister       = "/auth/register"
	PathLogin          = "/auth/login"
	PathLogout         = "/auth/logout"
	PathRefresh        = "/auth/refresh"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
	PathPing           = "/ping"
	PathCopilot        = "/api/copilot"
)

// AuthorizationHeader carries Basic credentials on login and Bearer tokens elsewhere.
const AuthorizationHeader = "Authorization"

// Authorization schemes.
const (
	SchemeBasic  = "Basic"
	SchemeBearer = "Bearer"
)
