// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/database"
)

var ErrMalformedSessionToken = errors.New("malformed auth session token")

// AuthSession is the sign-in session an auth connector left behind. The token
// was issued and signed by the auth provider, so only its claims are read
// here.
type AuthSession struct {
	Token     string
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// Expired reports whether the session expired before [now]. Sessions without
// an expiry never expire.
func (a AuthSession) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

func parseSessionToken(token string) (AuthSession, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return AuthSession{}, fmt.Errorf("%w: %w", ErrMalformedSessionToken, err)
	}

	session := AuthSession{
		Token:   token,
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// SetAuthSession stores the session token [token].
func (s *Storage) SetAuthSession(token string) (AuthSession, error) {
	session, err := parseSessionToken(token)
	if err != nil {
		return AuthSession{}, err
	}
	return session, database.PutString(s.db, authSessionTokenKey, token)
}

// AuthSession returns the stored session, if any.
func (s *Storage) AuthSession() (AuthSession, bool, error) {
	token, err := database.GetString(s.db, authSessionTokenKey)
	if errors.Is(err, database.ErrNotFound) {
		return AuthSession{}, false, nil
	}
	if err != nil {
		return AuthSession{}, false, err
	}
	session, err := parseSessionToken(token)
	if err != nil {
		return AuthSession{}, false, err
	}
	return session, true, nil
}

// DropExpiredAuthSession deletes the stored session if it has expired or can
// not be parsed. Returns true if a session was dropped.
func (s *Storage) DropExpiredAuthSession() (bool, error) {
	session, ok, err := s.AuthSession()
	switch {
	case errors.Is(err, ErrMalformedSessionToken):
		s.log.Warn("dropping malformed auth session",
			zap.Error(err),
		)
		return true, s.db.Delete(authSessionTokenKey)
	case err != nil:
		return false, err
	case !ok:
		return false, nil
	case !session.Expired(s.clock.Time()):
		return false, nil
	}

	s.log.Info("dropping expired auth session",
		zap.String("subject", session.Subject),
		zap.Time("expiresAt", session.ExpiresAt),
	)
	return true, s.db.Delete(authSessionTokenKey)
}

// ClearSessions forgets the auth session. It is called first when an auth
// connection is torn down.
func (s *Storage) ClearSessions(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Delete(authSessionTokenKey)
}
