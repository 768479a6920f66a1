// Package httpapi exposes the identity service over HTTP with echo.
//
// Routes:
//
//	POST /auth/register          {email, password}       -> 201 user
//	POST /auth/login             Basic credentials       -> 200 {token, user}
//	POST /auth/refresh           Bearer                  -> 200 {token, user}
//	POST /auth/logout            Bearer                  -> 204
//	POST /auth/forgot-password   {email}                 -> 202
//	POST /auth/reset-password    {token, newPassword}    -> 204
//	POST /api/copilot            Bearer, {messages}      -> 200 {reply}
//	GET  /ping                                           -> 200 {status: "OK"}
//	GET  /metrics                                        Prometheus exposition
//
// Errors are JSON objects of the form {"error": "..."}.
package httpapi
