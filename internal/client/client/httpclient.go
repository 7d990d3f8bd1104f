package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/client/transport"
)

// Requester is the part of transport.Client used here.
type Requester interface {
	Do(ctx context.Context, r transport.Request, out any) error
}

type HTTPClient struct {
	t Requester
}

var _ API = (*HTTPClient)(nil)

func NewHTTPClient(t Requester) *HTTPClient {
	return &HTTPClient{t: t}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok models.Token
	err := c.t.Do(transport.Anonymous(ctx), transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Form:   form,
	}, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("login: empty access token")
	}
	return &tok, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}

	var u models.User
	err := c.t.Do(transport.Anonymous(ctx), transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		JSON:   body,
	}, &u)
	if err != nil {
		if transport.StatusCode(err) == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %w", ErrEmailTaken, err)
		}
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var out models.Category
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: categoryPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodPost, Path: "/categories", JSON: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodPut, Path: categoryPath(id), JSON: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, id int64) error {
	return c.t.Do(ctx, transport.Request{Method: http.MethodDelete, Path: categoryPath(id)}, nil)
}

func (c *HTTPClient) ListFlashcards(ctx context.Context, categoryID int64) ([]models.Flashcard, error) {
	r := transport.Request{Method: http.MethodGet, Path: "/flashcards"}
	if categoryID != 0 {
		r.Query = url.Values{"category_id": {strconv.FormatInt(categoryID, 10)}}
	}

	var out []models.Flashcard
	if err := c.t.Do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetFlashcard(ctx context.Context, id int64) (*models.Flashcard, error) {
	var out models.Flashcard
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: flashcardPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateFlashcard(ctx context.Context, in models.FlashcardInput) (*models.Flashcard, error) {
	var out models.Flashcard
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodPost, Path: "/flashcards", JSON: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateFlashcard(ctx context.Context, id int64, in models.FlashcardInput) (*models.Flashcard, error) {
	var out models.Flashcard
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodPut, Path: flashcardPath(id), JSON: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteFlashcard(ctx context.Context, id int64) error {
	return c.t.Do(ctx, transport.Request{Method: http.MethodDelete, Path: flashcardPath(id)}, nil)
}

func (c *HTTPClient) SearchFlashcards(ctx context.Context, query string) ([]models.Flashcard, error) {
	var out []models.Flashcard
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/flashcards/search",
		Query:  url.Values{"q": {query}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsUnreachable reports whether err means the backend could not be reached.
func IsUnreachable(err error) bool {
	return errors.Is(err, transport.ErrNoResponse)
}

func categoryPath(id int64) string  { return "/categories/" + strconv.FormatInt(id, 10) }
func flashcardPath(id int64) string { return "/flashcards/" + strconv.FormatInt(id, 10) }
