// Package session owns the client's single persisted session-token slot.
//
// No other package reads or writes the storage key directly; the transport
// reads the token through Store.Token and the auth service writes it through
// Save and Clear.
package session

import (
	"context"

	"github.com/growthpods/growthpods/internal/client/repositories/metadata"
)

// TokenKey is the fixed storage key of the session token.
const TokenKey = "token"

// Store persists at most one session token. Writes are last-write-wins and
// unsynchronised across processes.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Save overwrites any previously stored token.
func (s *Store) Save(ctx context.Context, token string) error {
	return s.repo.Set(ctx, TokenKey, []byte(token))
}

// Token returns the stored token or "" when the slot is empty.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Clear removes the token. Clearing an empty slot is not an error.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}
