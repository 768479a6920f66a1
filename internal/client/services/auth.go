// Package services contains the Growth Pods client's application services.
// This file defines the authentication client: login, logout, session
// refresh, and the forgot/reset password calls against the identity service.
package services

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/growthpods/growthpods/internal/client/client"
	"github.com/growthpods/growthpods/internal/client/models"
	"github.com/growthpods/growthpods/internal/common"
)

// TokenStore is the persisted session-token slot (see session.Store).
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// AuthService mediates every auth-related call to the identity service and
// owns the write/delete lifecycle of the stored token.
//
// Local state has two values: logged out (no token stored) and logged in.
// Only Login and Logout change it. Transport errors are returned exactly as
// the client produced them; nothing is retried.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (*models.AuthResult, error)
	ForgotPassword(ctx context.Context, identifier string) error
	ResetPassword(ctx context.Context, token, newSecret string) error
	IsLoggedIn(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	tokens TokenStore
}

// NewAuthService binds an AuthService to the transport and token slot.
func NewAuthService(c client.Client, tokens TokenStore) AuthService {
	return &authService{client: c, tokens: tokens}
}

// EncodeCredentials returns base64("identifier:secret") in the standard
// alphabet with padding. It is both the Basic credential and the value the
// client persists after login.
func EncodeCredentials(creds models.Credentials) string {
	return base64.StdEncoding.EncodeToString([]byte(creds.Identifier + ":" + creds.Secret))
}

// Login posts to /auth/login with Basic credentials and no body. When the
// response carries a non-empty token, the encoded credential string (not the
// server-issued token) replaces whatever was stored.
func (a *authService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	encoded := EncodeCredentials(creds)

	header := http.Header{}
	header.Set(common.AuthorizationHeader, common.SchemeBasic+" "+encoded)

	resp, err := a.client.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   common.PathLogin,
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	var result models.AuthResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}

	if result.Token != "" {
		if err := a.tokens.Save(ctx, encoded); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// Logout clears the local slot first and only then notifies the server, so a
// failed request still leaves the client logged out. The previously stored
// token is sent explicitly as the bearer because the slot is already empty
// by the time the request goes out.
func (a *authService) Logout(ctx context.Context) error {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		token = ""
	}
	if err := a.tokens.Clear(ctx); err != nil {
		return err
	}

	req := &client.Request{Method: http.MethodPost, Path: common.PathLogout}
	if token != "" {
		req.Header = http.Header{}
		req.Header.Set(common.AuthorizationHeader, common.SchemeBearer+" "+token)
	}
	_, err = a.client.Do(ctx, req)
	return err
}

// RefreshToken asks the server to extend the session. The bearer comes from
// the transport; local state is left alone.
func (a *authService) RefreshToken(ctx context.Context) (*models.AuthResult, error) {
	resp, err := a.client.Do(ctx, &client.Request{Method: http.MethodPost, Path: common.PathRefresh})
	if err != nil {
		return nil, err
	}
	var result models.AuthResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *authService) ForgotPassword(ctx context.Context, identifier string) error {
	_, err := a.client.Do(ctx, &client.Request{
		Method:    http.MethodPost,
		Path:      common.PathForgotPassword,
		Body:      models.ForgotPasswordRequest{Email: identifier},
		Anonymous: true,
	})
	return err
}

func (a *authService) ResetPassword(ctx context.Context, token, newSecret string) error {
	_, err := a.client.Do(ctx, &client.Request{
		Method:    http.MethodPost,
		Path:      common.PathResetPassword,
		Body:      models.ResetPasswordRequest{Token: token, NewPassword: newSecret},
		Anonymous: true,
	})
	return err
}

// IsLoggedIn reports whether a token is stored.
func (a *authService) IsLoggedIn(ctx context.Context) (bool, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Ping proxies a liveness check to the transport.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases transport resources.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
