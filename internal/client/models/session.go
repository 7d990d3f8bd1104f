package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authentication state of the client. User and Token are set
// together and cleared together.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Authenticated reports whether s holds a full session.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Complete reports whether s is either empty or full, i.e. never half set.
func (s Session) Complete() bool {
	return (s.User == nil) == (s.Token == "")
}

// ExpiresAt reads the exp claim of the bearer token without verifying its
// signature. It is informational only: the backend remains the authority and
// answers 401 once the token is no longer valid.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
