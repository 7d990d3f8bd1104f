package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/flashcards/internal/client/config"
	"github.com/dmitrijs2005/flashcards/internal/client/localdb"
	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/logging"
)

/*************
 * Fake backend
 *************/

type backend struct {
	mu         sync.Mutex
	nextID     int64
	categories []models.Category
	cards      []models.Flashcard

	expired    atomic.Bool
	loginCalls atomic.Int32
}

const validToken = "jwt-valid"

func newBackend() *backend {
	return &backend{
		nextID:     100,
		categories: []models.Category{{ID: 10, Name: "Tech"}, {ID: 20, Name: "Science"}},
		cards: []models.Flashcard{
			{ID: 1, Question: "What is React?", Answer: "A UI library", CategoryID: 10},
			{ID: 2, Question: "Boiling point of water", Answer: "100C", CategoryID: 20},
		},
	}
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) authorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.expired.Load() || r.Header.Get("Authorization") != "Bearer "+validToken {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			b.loginCalls.Add(1)
			_ = req.ParseForm()
			if req.PostForm.Get("username") != "user@example.com" || req.PostForm.Get("password") != "secret123" {
				reply(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
				return
			}
			reply(w, http.StatusOK, models.Token{AccessToken: validToken, TokenType: "bearer"})
		})
		r.Post("/auth/register", func(w http.ResponseWriter, req *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body["email"] == "user@example.com" {
				reply(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
				return
			}
			reply(w, http.StatusOK, models.User{ID: 8, Email: body["email"]})
		})

		r.Group(func(r chi.Router) {
			r.Use(b.authorized)
			r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
				reply(w, http.StatusOK, models.User{ID: 7, Email: "user@example.com"})
			})
			r.Get("/categories", func(w http.ResponseWriter, req *http.Request) {
				b.mu.Lock()
				defer b.mu.Unlock()
				reply(w, http.StatusOK, b.categories)
			})
			r.Post("/categories", func(w http.ResponseWriter, req *http.Request) {
				var in models.CategoryInput
				_ = json.NewDecoder(req.Body).Decode(&in)
				b.mu.Lock()
				defer b.mu.Unlock()
				b.nextID++
				c := models.Category{ID: b.nextID, Name: in.Name}
				b.categories = append(b.categories, c)
				reply(w, http.StatusOK, c)
			})
			r.Delete("/categories/{id}", func(w http.ResponseWriter, req *http.Request) {
				id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
				b.mu.Lock()
				defer b.mu.Unlock()
				for i, c := range b.categories {
					if c.ID == id {
						b.categories = append(b.categories[:i], b.categories[i+1:]...)
						w.WriteHeader(http.StatusNoContent)
						return
					}
				}
				reply(w, http.StatusNotFound, map[string]string{"detail": "Category not found"})
			})
			r.Get("/flashcards", func(w http.ResponseWriter, req *http.Request) {
				b.mu.Lock()
				defer b.mu.Unlock()
				reply(w, http.StatusOK, b.cards)
			})
			r.Get("/flashcards/search", func(w http.ResponseWriter, req *http.Request) {
				q := strings.ToLower(req.URL.Query().Get("q"))
				b.mu.Lock()
				defer b.mu.Unlock()
				out := []models.Flashcard{}
				for _, c := range b.cards {
					if strings.Contains(strings.ToLower(c.Question), q) {
						out = append(out, c)
					}
				}
				reply(w, http.StatusOK, out)
			})
			r.Post("/flashcards", func(w http.ResponseWriter, req *http.Request) {
				var in models.FlashcardInput
				_ = json.NewDecoder(req.Body).Decode(&in)
				b.mu.Lock()
				defer b.mu.Unlock()
				b.nextID++
				c := models.Flashcard{ID: b.nextID, Question: in.Question, Answer: in.Answer, CategoryID: in.CategoryID}
				b.cards = append(b.cards, c)
				reply(w, http.StatusOK, c)
			})
			r.Put("/flashcards/{id}", func(w http.ResponseWriter, req *http.Request) {
				id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
				var in models.FlashcardInput
				_ = json.NewDecoder(req.Body).Decode(&in)
				b.mu.Lock()
				defer b.mu.Unlock()
				for i, c := range b.cards {
					if c.ID == id {
						c.Question, c.Answer, c.CategoryID = in.Question, in.Answer, in.CategoryID
						b.cards[i] = c
						reply(w, http.StatusOK, c)
						return
					}
				}
				reply(w, http.StatusNotFound, map[string]string{"detail": "Flashcard not found"})
			})
			r.Delete("/flashcards/{id}", func(w http.ResponseWriter, req *http.Request) {
				id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
				b.mu.Lock()
				defer b.mu.Unlock()
				for i, c := range b.cards {
					if c.ID == id {
						b.cards = append(b.cards[:i], b.cards[i+1:]...)
						w.WriteHeader(http.StatusNoContent)
						return
					}
				}
				reply(w, http.StatusNotFound, map[string]string{"detail": "Flashcard not found"})
			})
		})
	})
	return r
}

/*************
 * Helpers
 *************/

func testConfig(t *testing.T, baseURL, dbPath string) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.APIBaseURL = baseURL
	c.SessionDBPath = dbPath
	return c
}

// runScript runs one shell session over the given input and returns what it
// printed.
func runScript(t *testing.T, c *config.Config, script string, opts ...Option) string {
	t.Helper()

	noTerminal(t)

	var out bytes.Buffer
	opts = append([]Option{
		WithIO(strings.NewReader(script), &out),
		WithLogger(logging.Discard()),
	}, opts...)
	app, err := NewApp(context.Background(), c, opts...)
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	require.NoError(t, app.Close())
	return out.String()
}

func noTerminal(t *testing.T) {
	t.Helper()
	prev := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = prev })
}

func startBackend(t *testing.T) (*backend, string) {
	t.Helper()
	b := newBackend()
	srv := httptest.NewServer(b.routes())
	t.Cleanup(srv.Close)
	return b, srv.URL + "/api"
}

const loginScript = "login\nuser@example.com\nsecret123\n"

/*************
 * Tests
 *************/

func TestApp_LoginListFilterLogout(t *testing.T) {
	_, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), loginScript+
		"cards\n"+
		"filter 10 react\n"+
		"filter abc\n"+
		"logout\n"+
		"exit\n")

	assert.Contains(t, out, "Logged in as user@example.com")
	assert.Contains(t, out, "What is React?")
	assert.Contains(t, out, "Boiling point of water")
	assert.Contains(t, out, `Filter: category=10 (Tech) query="react"`)
	assert.Contains(t, out, "Filter: category=none")
	assert.Contains(t, out, "No flashcards match.")
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Bye!")
	assert.Contains(t, out, "flashcards (user@example.com) /dashboard> ")
}

func TestApp_ValidationErrorsArePerFieldAndSkipNetwork(t *testing.T) {
	b, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), "login\nnot-an-email\nshort\nexit\n")

	assert.Contains(t, out, "Please correct the following:")
	assert.Contains(t, out, "  email: invalid email address")
	assert.Contains(t, out, "  password: password must be at least 8 characters")
	assert.Equal(t, int32(0), b.loginCalls.Load())
}

func TestApp_BadCredentialsShowBackendDetail(t *testing.T) {
	_, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), "login\nuser@example.com\nwrongpass1\nwhoami\nexit\n")

	assert.Contains(t, out, "Error: Incorrect email or password")
	assert.Contains(t, out, "Please log in first.")
}

func TestApp_SecretReaderSuppliesPasswords(t *testing.T) {
	_, url := startBackend(t)

	var prompts []string
	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), "login\nuser@example.com\nwhoami\nexit\n",
		WithSecretReader(func(prompt string) (string, error) {
			prompts = append(prompts, prompt)
			return "secret123", nil
		}))

	assert.Equal(t, []string{"Password"}, prompts)
	assert.Contains(t, out, "Logged in as user@example.com")
	assert.Contains(t, out, "Email:   user@example.com")
}

func TestApp_RegisterDuplicateEmail(t *testing.T) {
	_, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN),
		"register\nuser@example.com\nsecret123\nsecret123\n"+
			"register\nnew@example.com\nsecret123\nsecret124\n"+
			"register\nnew@example.com\nsecret123\nsecret123\n"+
			"exit\n")

	assert.Contains(t, out, "This email is already registered.")
	assert.Contains(t, out, "  confirm_password: passwords do not match")
	assert.Contains(t, out, "Account new@example.com created. Please log in.")
	assert.Contains(t, out, "flashcards /login> ")
}

func TestApp_ExpiredSessionForcesSingleLogout(t *testing.T) {
	b, url := startBackend(t)
	dbPath := filepath.Join(t.TempDir(), "session.db")
	c := testConfig(t, url, dbPath)

	// The reload fires two authorised requests at once; both come back 401.
	script := loginScript + "stats\n" + "reload\n" + "cards\n" + "exit\n"
	noTerminal(t)

	var out bytes.Buffer
	app, err := NewApp(context.Background(), c,
		WithIO(&expiringReader{r: strings.NewReader(script), b: b, after: "stats\n"}, &out),
		WithLogger(logging.Discard()),
	)
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	require.NoError(t, app.Close())

	got := out.String()
	assert.Equal(t, 1, strings.Count(got, "Your session has expired. Please log in again."))
	assert.Contains(t, got, "Please log in first.")
	assert.Contains(t, got, "flashcards /login> ")
	assert.NotContains(t, got, "Could not validate credentials")

	// the cleared session stays cleared across a restart
	b.expired.Store(false)
	restarted := runScript(t, c, "exit\n")
	assert.Contains(t, restarted, "Please 'login' or 'register' to continue.")
}

func TestApp_RestoresSessionOnStart(t *testing.T) {
	_, url := startBackend(t)
	c := testConfig(t, url, filepath.Join(t.TempDir(), "session.db"))

	runScript(t, c, loginScript+"exit\n")
	out := runScript(t, c, "whoami\nexit\n")

	assert.Contains(t, out, "Welcome back, user@example.com")
	assert.Contains(t, out, "User ID: 7")
	assert.Contains(t, out, "/dashboard> ")
}

func TestApp_CategoryAndCardLifecycle(t *testing.T) {
	b, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), loginScript+
		"addcategory\nHistory\n"+
		"addcard\nWhen did WW2 end?\n1945\n\n101\n"+
		"search ww2\n"+
		"delcard 1\ny\n"+
		"delcategory 20\nn\n"+
		"delcategory 20\nyes\n"+
		"stats\n"+
		"exit\n")

	assert.Contains(t, out, `Category "History" created (id 101)`)
	assert.Contains(t, out, "Flashcard created (id 102)")
	assert.Contains(t, out, "When did WW2 end?")
	assert.Contains(t, out, "Flashcard 1 deleted")
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, out, `Category "Science" deleted`)
	assert.Contains(t, out, "Total: 1 card(s) in 2 categories")

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.cards, 2)
}

func TestApp_EditCardKeepsBlankFields(t *testing.T) {
	b, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), loginScript+
		"editcard 1\n\nA JavaScript library\nfor building UIs\n\n\n"+
		"show 1\n"+
		"editcard 1\n\n\n999999999999999999999\n"+
		"exit\n")

	assert.Contains(t, out, "Flashcard 1 updated")
	assert.Contains(t, out, "Q: What is React?")
	assert.Contains(t, out, "   A JavaScript library\n   for building UIs\n")
	assert.Contains(t, out, "  category_id: please select a category")

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, "A JavaScript library\nfor building UIs", b.cards[0].Answer)
	assert.Equal(t, int64(10), b.cards[0].CategoryID)
}

func TestApp_UnknownCommandsAndAuthGate(t *testing.T) {
	_, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), "frobnicate\ncards\nshow\nhelp\nquit\n")

	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Please log in first.")
	assert.Contains(t, out, "Available commands:")
	assert.Contains(t, out, "register")
	assert.NotContains(t, out, "delcategory")
}

func TestApp_UsageErrors(t *testing.T) {
	_, url := startBackend(t)

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), loginScript+"show abc\nsearch\nexit\n")

	assert.Contains(t, out, "Usage: show <id>")
	assert.Contains(t, out, "Usage: search <query...>")
}

func TestApp_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/api"
	srv.Close()

	out := runScript(t, testConfig(t, url, localdb.MemoryDSN), loginScript+"exit\n")

	assert.Contains(t, out, "Cannot reach the server at "+url)
}

// expiringReader expires the backend session as soon as the input up to and
// including after has been consumed.
type expiringReader struct {
	r     *strings.Reader
	b     *backend
	after string
	seen  strings.Builder
}

func (e *expiringReader) Read(p []byte) (int, error) {
	// one byte at a time so the trigger fires exactly at the line boundary
	if len(p) > 1 {
		p = p[:1]
	}
	n, err := e.r.Read(p)
	e.seen.Write(p[:n])
	if strings.HasSuffix(e.seen.String(), e.after) {
		e.b.expired.Store(true)
	}
	return n, err
}
