// Package services contains the application services of the flashcards
// client. Each service validates user input with the schemas package before
// anything is sent, calls the backend, and keeps local state in step.
package services

import (
	"context"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/client/schemas"
	"github.com/dmitrijs2005/flashcards/internal/logging"
)

// Sessions is the part of session.Store the auth service drives.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Snapshot() models.Session
}

// AuthService defines authentication operations for the shell.
//
// Contract:
//   - Login: validate credentials, then log in through the session store.
//   - Register: validate, then create the account. No session is created.
//   - Logout: clear the session and the local library.
//   - Current: the active session, possibly empty.
//
// Validation failures wrap schemas.ErrInvalid and are returned before any
// network call.
type AuthService interface {
	Login(ctx context.Context, form schemas.LoginForm) (*models.User, error)
	Register(ctx context.Context, form schemas.RegisterForm) (*models.User, error)
	Logout(ctx context.Context) error
	Current() models.Session
}

// Resetter drops per-user state on logout.
type Resetter interface {
	Reset()
}

type authService struct {
	sessions Sessions
	lib      Resetter
	logger   logging.Logger
}

// NewAuthService binds the service to a session store and the library that
// must be emptied on logout (lib may be nil).
func NewAuthService(sessions Sessions, lib Resetter, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{sessions: sessions, lib: lib, logger: logger.With("service", "auth")}
}

func (a *authService) Login(ctx context.Context, form schemas.LoginForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return a.sessions.Login(ctx, form.Email, form.Password)
}

func (a *authService) Register(ctx context.Context, form schemas.RegisterForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return a.sessions.Register(ctx, form.Email, form.Password)
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.sessions.Logout(ctx)
	if err != nil {
		a.logger.Error(ctx, "logout failed", "error", err)
	}
	// the session is gone even if its stored copy could not be removed
	if a.lib != nil {
		a.lib.Reset()
	}
	return err
}

func (a *authService) Current() models.Session {
	return a.sessions.Snapshot()
}
