package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/flashcards/internal/client/client"
	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/client/transport"
	"github.com/dmitrijs2005/flashcards/internal/logging"
)

var ErrClosed = errors.New("session store closed")

// Reason tells subscribers why the session changed.
type Reason int

const (
	Restored Reason = iota + 1
	LoggedIn
	LoggedOut
	Invalidated
)

func (r Reason) String() string {
	switch r {
	case Restored:
		return "restored"
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	case Invalidated:
		return "invalidated"
	}
	return "unknown"
}

// Event is delivered to subscribers after a change.
type Event struct {
	Reason  Reason
	Session models.Session
}

type Store struct {
	api       client.AuthAPI
	persister Persister
	logger    logging.Logger

	// loginMu serialises whole login attempts; writeMu orders every state
	// change together with its persistence; mu guards reads of session.
	loginMu sync.Mutex
	writeMu sync.Mutex
	mu      sync.RWMutex

	session  models.Session
	hydrated bool
	closed   bool

	subs    map[int]func(Event)
	nextSub int
}

var _ transport.TokenSource = (*Store)(nil)

func NewStore(api client.AuthAPI, p Persister, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		api:       api,
		persister: p,
		logger:    logger.With("component", "session"),
		subs:      make(map[int]func(Event)),
	}
}

// Hydrate restores the persisted session. Only the first call reads storage;
// later calls return nil. A corrupt entry is discarded and the store stays
// empty.
func (s *Store) Hydrate(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.hydrated {
		return nil
	}
	s.hydrated = true

	sess, err := s.persister.Load(ctx)
	if errors.Is(err, ErrCorruptSession) {
		s.logger.Warn(ctx, "discarded unreadable persisted session")
		return nil
	}
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if !sess.Authenticated() {
		return nil
	}

	s.set(sess)
	s.logger.Info(ctx, "session restored", "user", sess.User.Email)
	s.notify(Event{Reason: Restored, Session: s.Snapshot()})
	return nil
}

// Login exchanges credentials for a token, fetches the profile with that
// token and commits both. On any failure the session is left empty and the
// error from the failing step is returned as is.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	tok, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "step", "token", "error", err)
		s.reset(ctx)
		return nil, err
	}

	user, err := s.api.Me(transport.WithToken(ctx, tok.AccessToken))
	if err != nil {
		s.logger.Warn(ctx, "login failed", "step", "profile", "error", err)
		s.reset(ctx)
		return nil, err
	}

	next := models.Session{User: user, Token: tok.AccessToken}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persister.Save(ctx, next); err != nil {
		s.logger.Error(ctx, "persist session failed", "error", err)
		wasAuthenticated := s.IsAuthenticated()
		s.clearLocked(ctx)
		if wasAuthenticated {
			s.notify(Event{Reason: LoggedOut})
		}
		return nil, err
	}
	s.set(next)
	s.logger.Info(ctx, "logged in", "user", user.Email)
	s.notify(Event{Reason: LoggedIn, Session: s.Snapshot()})

	u := *user
	return &u, nil
}

// Register creates an account. It does not log in.
func (s *Store) Register(ctx context.Context, email, password string) (*models.User, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	u, err := s.api.Register(ctx, email, password)
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "error", err)
		return nil, err
	}
	s.logger.Info(ctx, "registered", "user", u.Email)
	return u, nil
}

// Logout clears the session and its persisted copy. The in-memory session
// is cleared even when storage fails; that error is returned. Logging out of
// an empty session does nothing.
func (s *Store) Logout(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.IsAuthenticated() {
		return nil
	}
	err := s.persister.Clear(ctx)
	if err != nil {
		s.logger.Error(ctx, "clear persisted session failed", "error", err)
	}
	s.set(models.Session{})
	s.logger.Info(ctx, "logged out")
	s.notify(Event{Reason: LoggedOut})
	return err
}

// Invalidate force-clears the session if it still holds token. It reports
// whether this call performed the clear, which is true at most once per
// session.
func (s *Store) Invalidate(ctx context.Context, token string) bool {
	if token == "" || s.isClosed() {
		return false
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.Token() != token {
		return false
	}
	s.clearLocked(ctx)
	s.logger.Warn(ctx, "session invalidated by server")
	s.notify(Event{Reason: Invalidated})
	return true
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.Session{Token: s.session.Token}
	if s.session.User != nil {
		u := *s.session.User
		out.User = &u
	}
	return out
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close detaches subscribers and rejects further mutations. The in-memory
// session is left as is; the persisted copy is untouched.
func (s *Store) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[int]func(Event))
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) set(next models.Session) {
	s.mu.Lock()
	s.session = next
	s.mu.Unlock()
}

// reset empties the session after a failed login.
func (s *Store) reset(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	wasAuthenticated := s.IsAuthenticated()
	s.clearLocked(ctx)
	if wasAuthenticated {
		s.notify(Event{Reason: LoggedOut})
	}
}

// clearLocked requires writeMu. A storage failure is logged: the in-memory
// session is cleared regardless.
func (s *Store) clearLocked(ctx context.Context) {
	if err := s.persister.Clear(ctx); err != nil {
		s.logger.Error(ctx, "clear persisted session failed", "error", err)
	}
	s.set(models.Session{})
}

func (s *Store) notify(e Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
