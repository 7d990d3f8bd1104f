package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/flashcards/internal/client/client"
	"github.com/dmitrijs2005/flashcards/internal/client/schemas"
	"github.com/dmitrijs2005/flashcards/internal/client/transport"
)

var errUnknownID = errors.New("no such item")

const loginPath = "/auth/login"

// usageError carries the usage line of the command that was misused.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError(usage)
	}
	return id, nil
}

// report prints err the way a user should read it. Validation errors list
// every failing field; transport errors use the backend detail when there is
// one.
func (a *App) report(err error) {
	var (
		usage usageError
		terr  *transport.Error
	)
	switch {
	case errors.Is(err, context.Canceled):
		a.println("Cancelled.")
	case errors.As(err, &usage):
		a.println("Usage:", string(usage))
	case errors.Is(err, schemas.ErrInvalid):
		fields := schemas.FieldErrors(err)
		names := make([]string, 0, len(fields))
		for k := range fields {
			names = append(names, k)
		}
		sort.Strings(names)
		a.println("Please correct the following:")
		for _, k := range names {
			a.printf("  %s: %s\n", k, fields[k])
		}
	case errors.Is(err, errUnknownID):
		a.println("Not found:", err)
	case errors.Is(err, client.ErrEmailTaken):
		a.println("This email is already registered.")
	case client.IsUnreachable(err):
		a.printf("Cannot reach the server at %s. Is it running?\n", a.config.APIBaseURL)
	case errors.Is(err, transport.ErrUnauthorized) && errors.As(err, &terr) && strings.HasSuffix(terr.Path, loginPath):
		msg := terr.Detail
		if msg == "" {
			msg = "Incorrect email or password"
		}
		a.println("Error:", msg)
	case errors.Is(err, transport.ErrUnauthorized):
		// forced logout has already printed its notice
	case errors.Is(err, transport.ErrForbidden):
		a.println("You do not have access to this item.")
	case errors.Is(err, transport.ErrNotFound):
		a.println("Not found. It may have been deleted elsewhere.")
	case errors.Is(err, transport.ErrServer):
		a.println("The server failed to handle the request. Please try again later.")
	case errors.As(err, &terr) && terr.Detail != "":
		a.println("Error:", terr.Detail)
	default:
		a.printf("Error: %v\n", err)
	}
}
