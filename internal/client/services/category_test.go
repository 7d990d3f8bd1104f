package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/flashcards/internal/client/library"
	"github.com/dmitrijs2005/flashcards/internal/client/schemas"
	"github.com/dmitrijs2005/flashcards/internal/client/transport"
)

func setupCategories(t *testing.T) (CategoryService, *fakeAPI, *library.Library) {
	t.Helper()
	api := newFakeAPI()
	lib := library.New(api, nil)
	t.Cleanup(func() { _ = lib.Close() })
	return NewCategoryService(api, lib, nil), api, lib
}

func TestCategory_ListLoadsOnce(t *testing.T) {
	svc, api, _ := setupCategories(t)
	ctx := context.Background()

	cats, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	calls := api.callCount()

	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, calls, api.callCount())
}

func TestCategory_CreateValidatesAndUpdatesLibrary(t *testing.T) {
	svc, api, lib := setupCategories(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, schemas.CategoryForm{Name: "   "})
	require.ErrorIs(t, err, schemas.ErrInvalid)
	require.Zero(t, api.callCount())

	c, err := svc.Create(ctx, schemas.CategoryForm{Name: "  Math "})
	require.NoError(t, err)
	assert.Equal(t, "Math", c.Name)

	got, ok := lib.Category(c.ID)
	require.True(t, ok)
	assert.Equal(t, "Math", got.Name)
}

func TestCategory_Rename(t *testing.T) {
	svc, _, lib := setupCategories(t)
	ctx := context.Background()
	require.NoError(t, lib.Reload(ctx))

	_, err := svc.Rename(ctx, 10, schemas.CategoryForm{Name: "Technology"})
	require.NoError(t, err)

	c, ok := lib.Card(1)
	require.True(t, ok)
	assert.Equal(t, "Technology", c.CategoryLabel())
}

func TestCategory_DeleteCascades(t *testing.T) {
	svc, _, lib := setupCategories(t)
	ctx := context.Background()
	require.NoError(t, lib.Reload(ctx))

	require.NoError(t, svc.Delete(ctx, 10))
	assert.Empty(t, lib.Categories())
	assert.Empty(t, lib.Enriched())
}

func TestCategory_DeleteErrorsPassThrough(t *testing.T) {
	svc, api, lib := setupCategories(t)
	ctx := context.Background()
	require.NoError(t, lib.Reload(ctx))

	api.err = &transport.Error{Kind: transport.KindServer, StatusCode: 500}
	err := svc.Delete(ctx, 10)
	require.Same(t, api.err, err)
	assert.Len(t, lib.Categories(), 1)

	// already gone on the backend: drop it locally too
	api.err = &transport.Error{Kind: transport.KindNotFound, StatusCode: 404}
	err = svc.Delete(ctx, 10)
	require.ErrorIs(t, err, transport.ErrNotFound)
	assert.Empty(t, lib.Categories())
}
