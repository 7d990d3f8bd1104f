package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/logging"
)

var ErrClosed = errors.New("library closed")

// Source is where Reload reads the lists from.
type Source interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListFlashcards(ctx context.Context, categoryID int64) ([]models.Flashcard, error)
}

// Library is the client-side copy of the user's categories and flashcards.
//
// Reload replaces both lists from the Source. Local mutations made while a
// reload is in flight survive it: the reload result is reconciled against a
// journal of mutations newer than the reload's start. Results of a reload
// superseded by a later one, or arriving after Reset or Close, are dropped.
type Library struct {
	src    Source
	logger logging.Logger
	group  singleflight.Group
	pipe   Pipeline

	mu       sync.RWMutex
	cards    []models.Flashcard
	cats     []models.Category
	cardsRev uint64
	catsRev  uint64
	loaded   bool
	closed   bool

	// seq numbers local mutations; started and applied number reloads.
	seq     uint64
	started uint64
	applied uint64

	cardLog journal[models.Flashcard]
	catLog  journal[models.Category]
}

func New(src Source, logger logging.Logger) *Library {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Library{
		src:     src,
		logger:  logger.With("component", "library"),
		cardLog: newJournal[models.Flashcard](),
		catLog:  newJournal[models.Category](),
	}
}

// Reload fetches categories and flashcards concurrently and installs them.
// Concurrent calls share one fetch.
func (l *Library) Reload(ctx context.Context) error {
	_, err, _ := l.group.Do("reload", func() (any, error) {
		return nil, l.reload(ctx)
	})
	return err
}

func (l *Library) reload(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.started++
	gen, since := l.started, l.seq
	l.mu.Unlock()

	var (
		cats  []models.Category
		cards []models.Flashcard
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = l.src.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cards, err = l.src.ListFlashcards(gctx, 0)
		if err != nil {
			return fmt.Errorf("list flashcards: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		l.logger.Error(ctx, "reload failed", "error", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.closed:
		l.logger.Debug(ctx, "reload result dropped", "reason", "closed")
		return ErrClosed
	case gen <= l.applied:
		l.logger.Debug(ctx, "reload result dropped", "reason", "stale", "generation", gen)
		return nil
	}

	l.cats = l.catLog.reconcile(cats, func(c models.Category) int64 { return c.ID }, since)
	l.cards = l.cardLog.reconcile(cards, func(c models.Flashcard) int64 { return c.ID }, since)
	l.catsRev++
	l.cardsRev++
	l.applied = gen
	l.loaded = true

	l.logger.Debug(ctx, "library reloaded", "categories", len(l.cats), "flashcards", len(l.cards))
	return nil
}

// Snapshot returns the current lists. The slices are never modified in
// place; treat them as read-only.
func (l *Library) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{Cards: l.cards, Categories: l.cats, CardsRev: l.cardsRev, CategoriesRev: l.catsRev}
}

func (l *Library) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

func (l *Library) Categories() []models.Category {
	return l.Snapshot().Categories
}

func (l *Library) Enriched() []models.EnrichedFlashcard {
	return l.pipe.Enriched(l.Snapshot())
}

// Cards returns the enriched cards that pass sel and query.
func (l *Library) Cards(sel Selector, query string) []models.EnrichedFlashcard {
	return l.pipe.Filtered(l.Snapshot(), sel, query)
}

// Stats aggregates over all cards regardless of any active filter.
func (l *Library) Stats() models.Stats {
	return l.pipe.Stats(l.Snapshot())
}

func (l *Library) Card(id int64) (models.EnrichedFlashcard, bool) {
	for _, c := range l.Enriched() {
		if c.ID == id {
			return c, true
		}
	}
	return models.EnrichedFlashcard{}, false
}

func (l *Library) Category(id int64) (models.Category, bool) {
	for _, c := range l.Categories() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// PutCard inserts c or replaces the card with the same id.
func (l *Library) PutCard(c models.Flashcard) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.seq++
	l.cardLog.put(c.ID, l.seq, c)
	l.cards = upsert(l.cards, c, func(x models.Flashcard) bool { return x.ID == c.ID })
	l.cardsRev++
}

// RemoveCard drops the card with id.
func (l *Library) RemoveCard(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.seq++
	l.cardLog.remove(id, l.seq)
	l.cards = slices.DeleteFunc(slices.Clone(l.cards), func(x models.Flashcard) bool { return x.ID == id })
	l.cardsRev++
}

// PutCategory inserts c or replaces the category with the same id.
func (l *Library) PutCategory(c models.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.seq++
	l.catLog.put(c.ID, l.seq, c)
	l.cats = upsert(l.cats, c, func(x models.Category) bool { return x.ID == c.ID })
	l.catsRev++
}

// RemoveCategory drops the category with id and the cards filed under it,
// as the backend does.
func (l *Library) RemoveCategory(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.seq++
	l.catLog.remove(id, l.seq)
	l.cats = slices.DeleteFunc(slices.Clone(l.cats), func(x models.Category) bool { return x.ID == id })
	l.catsRev++

	kept := make([]models.Flashcard, 0, len(l.cards))
	for _, c := range l.cards {
		if c.CategoryID == id {
			l.cardLog.remove(c.ID, l.seq)
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) != len(l.cards) {
		l.cards = kept
		l.cardsRev++
	}
}

// Reset empties the library, e.g. after logout. In-flight reloads are
// dropped when they complete.
func (l *Library) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cards, l.cats = nil, nil
	l.cardsRev++
	l.catsRev++
	l.loaded = false
	l.applied = l.started
	l.cardLog.clear()
	l.catLog.clear()
	l.pipe.Reset()
}

// Close makes the library ignore every later result and mutation.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func upsert[T any](items []T, v T, same func(T) bool) []T {
	out := slices.Clone(items)
	if i := slices.IndexFunc(out, same); i >= 0 {
		out[i] = v
		return out
	}
	return append(out, v)
}
