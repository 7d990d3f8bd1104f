// Package models defines the client-side data model of the flashcards client:
// the authenticated user and session, categories, flashcards and the derived
// views built from them.
package models

import "github.com/dmitrijs2005/flashcards/internal/timex"

// User is the profile returned by GET /auth/me. It is an immutable snapshot
// owned by the session.
type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	CreatedAt timex.Time `json:"created_at"`
}

// Token is the response of the login token exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
