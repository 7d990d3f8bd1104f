package client

import (
	"context"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
)

// AuthAPI covers the /auth endpoints.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token. The call is sent
	// without an Authorization header.
	Login(ctx context.Context, email, password string) (*models.Token, error)
	// Me returns the profile of the token attached to ctx or of the current
	// session.
	Me(ctx context.Context) (*models.User, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
}

type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type FlashcardAPI interface {
	// ListFlashcards returns all flashcards, or only those of categoryID
	// when it is non-zero.
	ListFlashcards(ctx context.Context, categoryID int64) ([]models.Flashcard, error)
	GetFlashcard(ctx context.Context, id int64) (*models.Flashcard, error)
	CreateFlashcard(ctx context.Context, in models.FlashcardInput) (*models.Flashcard, error)
	UpdateFlashcard(ctx context.Context, id int64, in models.FlashcardInput) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id int64) error
	SearchFlashcards(ctx context.Context, query string) ([]models.Flashcard, error)
}

// API is the full backend surface.
type API interface {
	AuthAPI
	CategoryAPI
	FlashcardAPI
}
