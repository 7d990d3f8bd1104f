package library

import (
	"sync"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
)

// Snapshot is an immutable view of the raw lists. The revisions change
// whenever the corresponding list does.
type Snapshot struct {
	Cards         []models.Flashcard
	Categories    []models.Category
	CardsRev      uint64
	CategoriesRev uint64
}

type revKey struct {
	cards, cats uint64
}

type filterKey struct {
	revKey
	sel   Selector
	query string
}

// Pipeline memoises the derivations. Each result is recomputed only when
// its inputs (identified by revision, selector and query) differ from the
// previous call. Safe for concurrent use.
type Pipeline struct {
	mu sync.Mutex

	enrichedKey revKey
	enriched    []models.EnrichedFlashcard
	hasEnriched bool

	filteredKey filterKey
	filtered    []models.EnrichedFlashcard
	hasFiltered bool

	statsKey revKey
	stats    models.Stats
	hasStats bool
}

func (p *Pipeline) Enriched(s Snapshot) []models.EnrichedFlashcard {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enrichedLocked(s)
}

func (p *Pipeline) enrichedLocked(s Snapshot) []models.EnrichedFlashcard {
	k := revKey{s.CardsRev, s.CategoriesRev}
	if !p.hasEnriched || p.enrichedKey != k {
		p.enriched = Enrich(s.Cards, s.Categories)
		p.enrichedKey = k
		p.hasEnriched = true
	}
	return p.enriched
}

func (p *Pipeline) Filtered(s Snapshot, sel Selector, query string) []models.EnrichedFlashcard {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := filterKey{revKey{s.CardsRev, s.CategoriesRev}, sel, query}
	if !p.hasFiltered || p.filteredKey != k {
		p.filtered = Filter(p.enrichedLocked(s), sel, query)
		p.filteredKey = k
		p.hasFiltered = true
	}
	return p.filtered
}

func (p *Pipeline) Stats(s Snapshot) models.Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := revKey{s.CardsRev, s.CategoriesRev}
	if !p.hasStats || p.statsKey != k {
		p.stats = Aggregate(s.Cards, s.Categories)
		p.statsKey = k
		p.hasStats = true
	}
	return p.stats
}

// Reset drops all memoised results.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enriched, p.hasEnriched = nil, false
	p.filtered, p.hasFiltered = nil, false
	p.stats, p.hasStats = models.Stats{}, false
}
