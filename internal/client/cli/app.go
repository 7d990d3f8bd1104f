package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/flashcards/internal/client/client"
	"github.com/dmitrijs2005/flashcards/internal/client/config"
	"github.com/dmitrijs2005/flashcards/internal/client/library"
	"github.com/dmitrijs2005/flashcards/internal/client/localdb"
	"github.com/dmitrijs2005/flashcards/internal/client/navigation"
	"github.com/dmitrijs2005/flashcards/internal/client/services"
	"github.com/dmitrijs2005/flashcards/internal/client/session"
	"github.com/dmitrijs2005/flashcards/internal/client/transport"
	"github.com/dmitrijs2005/flashcards/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	store  *session.Store
	router *navigation.Router
	lib    *library.Library

	authService      services.AuthService
	categoryService  services.CategoryService
	flashcardService services.FlashcardService

	reader *bufio.Reader
	out    io.Writer

	// readSecret reads a password; it defaults to a no-echo terminal read
	// and falls back to a plain line when stdin is not a terminal.
	readSecret func(prompt string) (string, error)

	// active card filter for the "cards" command
	selector library.Selector
	query    string

	unsubscribe func()
}

type Option func(*App)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.reader = bufio.NewReader(in)
		a.out = out
	}
}

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithSecretReader replaces the password prompt.
func WithSecretReader(fn func(prompt string) (string, error)) Option {
	return func(a *App) { a.readSecret = fn }
}

// NewApp opens the session database, builds the API stack and hydrates the
// session. The returned App must be closed.
func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	a := &App{
		config:   c,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		selector: library.All,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		level, err := logging.ParseLevel(c.LogLevel)
		if err != nil {
			level = slog.LevelInfo
		}
		a.logger = logging.NewTextLogger(os.Stderr, level)
	}
	if a.readSecret == nil {
		a.readSecret = a.terminalSecret
	}

	db, err := localdb.Open(ctx, c.SessionDBPath)
	if err != nil {
		a.logger.Error(ctx, "error initializing database", "path", c.SessionDBPath, "error", err)
		return nil, err
	}
	a.db = db

	a.router = navigation.NewRouter(navigation.RouteLogin)
	stopObserving := a.router.Observe(func(ch navigation.Change) {
		a.logger.Debug(ctx, "navigate", "from", ch.From, "to", ch.To)
	})

	// The store needs the API client and the transport needs the store, so
	// both hooks resolve it lazily. Neither runs before the first request.
	var (
		store          *session.Store
		onUnauthorized transport.UnauthorizedFunc
	)
	tlog := a.logger.With("component", "transport")
	tc, err := transport.New(c.APIBaseURL,
		transport.WithTimeout(c.RequestTimeout),
		transport.WithLogger(tlog),
		transport.WithMiddleware(
			transport.Classify(func(ctx context.Context, token string) {
				onUnauthorized(ctx, token)
			}, tlog),
			transport.Bearer(transport.TokenFunc(func() string { return store.Token() })),
		),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	api := client.NewHTTPClient(tc)

	store = session.NewStore(api, session.NewSQLitePersister(db), a.logger)
	onUnauthorized = session.ForcedLogout(store, a.router, c.LoginRoute)
	a.store = store
	a.lib = library.New(api, a.logger)

	a.authService = services.NewAuthService(store, a.lib, a.logger)
	a.categoryService = services.NewCategoryService(api, a.lib, a.logger)
	a.flashcardService = services.NewFlashcardService(api, a.lib, a.logger)

	unsubscribe := store.Subscribe(a.onSessionEvent)
	a.unsubscribe = func() {
		unsubscribe()
		stopObserving()
	}

	if err := store.Hydrate(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	if store.IsAuthenticated() {
		a.router.Navigate(navigation.RouteDashboard)
	}
	return a, nil
}

// Run reads and executes commands until EOF, "exit" or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.println("Flashcards (type 'help' for commands)")
	if s := a.store.Snapshot(); s.Authenticated() {
		a.printf("Welcome back, %s\n", s.User.Email)
	} else {
		a.println("Please 'login' or 'register' to continue.")
	}

	runREPL(ctx, a)
	return nil
}

// Close releases the library, the session store and the database.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	var errs []error
	if a.lib != nil {
		errs = append(errs, a.lib.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) onSessionEvent(e session.Event) {
	switch e.Reason {
	case session.Invalidated:
		a.lib.Reset()
		a.selector, a.query = library.All, ""
		a.println("Your session has expired. Please log in again.")
	case session.LoggedOut:
		a.lib.Reset()
		a.selector, a.query = library.All, ""
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) prompt() string {
	s := a.store.Snapshot()
	if s.Authenticated() {
		return fmt.Sprintf("flashcards (%s) %s> ", s.User.Email, a.router.Location())
	}
	return fmt.Sprintf("flashcards %s> ", a.router.Location())
}

func (a *App) terminalSecret(prompt string) (string, error) {
	if isTerminal(int(os.Stdin.Fd())) {
		return GetPassword(prompt, a.out)
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
