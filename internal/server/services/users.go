// Package services holds the identity server's business logic.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/growthpods/growthpods/internal/common"
	"github.com/growthpods/growthpods/internal/dbx"
	"github.com/growthpods/growthpods/internal/logging"
	"github.com/growthpods/growthpods/internal/server/auth"
	"github.com/growthpods/growthpods/internal/server/config"
	"github.com/growthpods/growthpods/internal/server/mailer"
	"github.com/growthpods/growthpods/internal/server/models"
	"github.com/growthpods/growthpods/internal/server/repositories/repomanager"
	"github.com/growthpods/growthpods/internal/server/sessions"
)

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Identity is the caller resolved from a bearer value. Claims is nil when the
// bearer was an encoded credential rather than a session token.
type Identity struct {
	User   *models.User
	Claims *auth.Claims
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	revoker     sessions.Revoker
	mailer      mailer.Mailer
	logger      logging.Logger

	jwtSecret     []byte
	sessionTTL    time.Duration
	resetTokenTTL time.Duration
	resetURL      string

	now func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, revoker sessions.Revoker,
	ml mailer.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		revoker:       revoker,
		mailer:        ml,
		logger:        logger,
		jwtSecret:     []byte(cfg.SecretKey),
		sessionTTL:    cfg.SessionTTL,
		resetTokenTTL: cfg.ResetTokenTTL,
		resetURL:      cfg.ResetURL,
		now:           time.Now,
	}
}

// checkUnknownUser is a seam for tests.
var checkUnknownUser = auth.CheckDummyPassword

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, auth.MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, auth.MaxPasswordLength)
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleMember,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies email and password and issues a session.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issueSession(user)
}

func (s *UserService) verifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Unknown accounts cost the same as a wrong password.
			checkUnknownUser(password)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

func (s *UserService) issueSession(user *models.User) (*Session, error) {
	token, claims, err := auth.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Authenticate resolves a bearer value. It accepts a session JWT that is
// neither expired nor revoked, or the base64 credential string the client
// keeps after logging in.
func (s *UserService) Authenticate(ctx context.Context, bearer string) (*Identity, error) {
	claims, err := auth.ParseToken(bearer, s.jwtSecret)
	switch {
	case err == nil:
		return s.identityFromClaims(ctx, claims)
	case errors.Is(err, common.ErrTokenExpired):
		return nil, err
	}

	email, password, ok := auth.DecodeCredentials(bearer)
	if !ok {
		return nil, common.ErrInvalidToken
	}
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Identity{User: user}, nil
}

func (s *UserService) identityFromClaims(ctx context.Context, claims *auth.Claims) (*Identity, error) {
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error(ctx, "check revocation", "error", err)
		return nil, common.ErrorInternal
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return &Identity{User: user, Claims: claims}, nil
}

// Refresh issues a new session for the caller. A presented session token is
// revoked so only the newest one stays usable.
func (s *UserService) Refresh(ctx context.Context, id *Identity) (*Session, error) {
	if err := s.revoke(ctx, id); err != nil {
		return nil, err
	}
	return s.issueSession(id.User)
}

// Logout revokes the presented session token. A credential bearer has
// nothing server-side to revoke.
func (s *UserService) Logout(ctx context.Context, id *Identity) error {
	return s.revoke(ctx, id)
}

func (s *UserService) revoke(ctx context.Context, id *Identity) error {
	if id.Claims == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, id.Claims.ID, id.Claims.ExpiresAt.Time); err != nil {
		s.logger.Error(ctx, "revoke session", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// ForgotPassword mails a reset link when the email belongs to a user. The
// outcome is never reported to the caller, so accounts cannot be probed.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "lookup user", "error", err)
		}
		return nil
	}

	token, hash, err := auth.GenerateResetToken()
	if err != nil {
		s.logger.Error(ctx, "generate reset token", "error", err)
		return nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Resets(tx)
		if err := repo.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return repo.Create(ctx, user.ID, hash, s.now().Add(s.resetTokenTTL))
	})
	if err != nil {
		s.logger.Error(ctx, "store reset token", "error", err)
		return nil
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.resetLink(token)); err != nil {
		s.logger.Error(ctx, "send reset email", "error", err)
	}
	return nil
}

func (s *UserService) resetLink(token string) string {
	u, err := url.Parse(s.resetURL)
	if err != nil {
		return s.resetURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// ResetPassword sets a new password for the owner of a valid reset token and
// invalidates every outstanding reset of that user.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return common.ErrResetTokenInvalid
	}

	reset, err := s.repomanager.Resets(s.db).FindValid(ctx, auth.HashResetToken(token), s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrResetTokenInvalid
		}
		s.logger.Error(ctx, "lookup reset token", "error", err)
		return common.ErrorInternal
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, reset.UserID, hash); err != nil {
			return err
		}
		return s.repomanager.Resets(tx).DeleteByUser(ctx, reset.UserID)
	})
	if err != nil {
		s.logger.Error(ctx, "reset password", "error", err)
		return common.ErrorInternal
	}
	return nil
}
