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

type CategoryService interface {
	// List returns the library's categories, loading the library first if
	// needed.
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, form schemas.CategoryForm) (*models.Category, error)
	Rename(ctx context.Context, id int64, form schemas.CategoryForm) (*models.Category, error)
	// Delete removes the category and, locally, its flashcards.
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	api    client.CategoryAPI
	lib    *library.Library
	logger logging.Logger
}

func NewCategoryService(api client.CategoryAPI, lib *library.Library, logger logging.Logger) CategoryService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &categoryService{api: api, lib: lib, logger: logger.With("service", "categories")}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	if err := ensureLoaded(ctx, s.lib); err != nil {
		return nil, err
	}
	return s.lib.Categories(), nil
}

func (s *categoryService) Create(ctx context.Context, form schemas.CategoryForm) (*models.Category, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	c, err := s.api.CreateCategory(ctx, form.Input())
	if err != nil {
		s.logger.Error(ctx, "create category failed", "error", err)
		return nil, err
	}
	s.lib.PutCategory(*c)
	return c, nil
}

func (s *categoryService) Rename(ctx context.Context, id int64, form schemas.CategoryForm) (*models.Category, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	c, err := s.api.UpdateCategory(ctx, id, form.Input())
	if err != nil {
		s.logger.Error(ctx, "rename category failed", "id", id, "error", err)
		if errors.Is(err, transport.ErrNotFound) {
			s.lib.RemoveCategory(id)
		}
		return nil, err
	}
	s.lib.PutCategory(*c)
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		s.logger.Error(ctx, "delete category failed", "id", id, "error", err)
		if errors.Is(err, transport.ErrNotFound) {
			s.lib.RemoveCategory(id)
		}
		return err
	}
	s.lib.RemoveCategory(id)
	return nil
}

func ensureLoaded(ctx context.Context, lib *library.Library) error {
	if lib.Loaded() {
		return nil
	}
	return lib.Reload(ctx)
}
