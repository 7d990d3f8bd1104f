package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/flashcards/internal/client/client"
	"github.com/dmitrijs2005/flashcards/internal/client/library"
	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/client/schemas"
	"github.com/dmitrijs2005/flashcards/internal/client/transport"
	"github.com/dmitrijs2005/flashcards/internal/logging"
)

type FlashcardService interface {
	// List returns the enriched cards passing sel and query.
	List(ctx context.Context, sel library.Selector, query string) ([]models.EnrichedFlashcard, error)
	Get(ctx context.Context, id int64) (models.EnrichedFlashcard, error)
	Create(ctx context.Context, form schemas.FlashcardForm) (*models.Flashcard, error)
	Update(ctx context.Context, id int64, form schemas.FlashcardForm) (*models.Flashcard, error)
	Delete(ctx context.Context, id int64) error
	// Search asks the backend and enriches the hits with local categories.
	Search(ctx context.Context, query string) ([]models.EnrichedFlashcard, error)
	Stats(ctx context.Context) (models.Stats, error)
}

type flashcardService struct {
	api    client.FlashcardAPI
	lib    *library.Library
	logger logging.Logger
}

func NewFlashcardService(api client.FlashcardAPI, lib *library.Library, logger logging.Logger) FlashcardService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &flashcardService{api: api, lib: lib, logger: logger.With("service", "flashcards")}
}

func (s *flashcardService) List(ctx context.Context, sel library.Selector, query string) ([]models.EnrichedFlashcard, error) {
	if err := ensureLoaded(ctx, s.lib); err != nil {
		return nil, err
	}
	return s.lib.Cards(sel, query), nil
}

func (s *flashcardService) Get(ctx context.Context, id int64) (models.EnrichedFlashcard, error) {
	if err := ensureLoaded(ctx, s.lib); err != nil {
		return models.EnrichedFlashcard{}, err
	}
	if c, ok := s.lib.Card(id); ok {
		return c, nil
	}

	f, err := s.api.GetFlashcard(ctx, id)
	if err != nil {
		return models.EnrichedFlashcard{}, err
	}
	s.lib.PutCard(*f)
	c, _ := s.lib.Card(id)
	return c, nil
}

func (s *flashcardService) Create(ctx context.Context, form schemas.FlashcardForm) (*models.Flashcard, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	f, err := s.api.CreateFlashcard(ctx, form.Input())
	if err != nil {
		s.logger.Error(ctx, "create flashcard failed", "error", err)
		return nil, err
	}
	s.lib.PutCard(*f)
	return f, nil
}

func (s *flashcardService) Update(ctx context.Context, id int64, form schemas.FlashcardForm) (*models.Flashcard, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	f, err := s.api.UpdateFlashcard(ctx, id, form.Input())
	if err != nil {
		s.logger.Error(ctx, "update flashcard failed", "id", id, "error", err)
		if errors.Is(err, transport.ErrNotFound) {
			s.lib.RemoveCard(id)
		}
		return nil, err
	}
	s.lib.PutCard(*f)
	return f, nil
}

func (s *flashcardService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteFlashcard(ctx, id); err != nil {
		s.logger.Error(ctx, "delete flashcard failed", "id", id, "error", err)
		if errors.Is(err, transport.ErrNotFound) {
			s.lib.RemoveCard(id)
		}
		return err
	}
	s.lib.RemoveCard(id)
	return nil
}

func (s *flashcardService) Search(ctx context.Context, query string) ([]models.EnrichedFlashcard, error) {
	hits, err := s.api.SearchFlashcards(ctx, query)
	if err != nil {
		s.logger.Error(ctx, "search failed", "error", err)
		return nil, err
	}
	return library.Enrich(hits, s.lib.Categories()), nil
}

func (s *flashcardService) Stats(ctx context.Context) (models.Stats, error) {
	if err := ensureLoaded(ctx, s.lib); err != nil {
		return models.Stats{}, err
	}
	return s.lib.Stats(), nil
}
