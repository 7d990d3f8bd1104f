package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/flashcards/internal/client/navigation"
	"github.com/dmitrijs2005/flashcards/internal/client/schemas"
)

func (a *App) Register(ctx context.Context, _ []string) error {
	a.router.Navigate(navigation.RouteRegister)

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}
	confirm, err := a.readSecret("Confirm password")
	if err != nil {
		return err
	}

	user, err := a.authService.Register(ctx, schemas.RegisterForm{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}

	a.printf("Account %s created. Please log in.\n", user.Email)
	a.router.Navigate(navigation.RouteLogin)
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		a.println("Already logged in. Use 'logout' first.")
		return nil
	}
	a.router.Navigate(navigation.RouteLogin)

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	user, err := a.authService.Login(ctx, schemas.LoginForm{Email: email, Password: password})
	if err != nil {
		return err
	}

	a.printf("Logged in as %s\n", user.Email)
	a.router.Navigate(navigation.RouteDashboard)

	if err := a.lib.Reload(ctx); err != nil {
		a.logger.Warn(ctx, "initial load failed", "error", err)
		return err
	}
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.authService.Logout(ctx)
	a.router.Navigate(navigation.RouteLogin)
	if err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}

func (a *App) Whoami(_ context.Context, _ []string) error {
	s := a.authService.Current()
	if !s.Authenticated() {
		a.println("Not logged in.")
		return nil
	}
	a.printf("Email:   %s\n", s.User.Email)
	a.printf("User ID: %d\n", s.User.ID)
	if !s.User.CreatedAt.IsZero() {
		a.printf("Joined:  %s\n", s.User.CreatedAt.Format(time.DateOnly))
	}
	if exp, ok := s.ExpiresAt(); ok {
		a.printf("Token expires: %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}
