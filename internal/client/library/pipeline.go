// Package library holds the user's categories and flashcards and derives the
// views built from them: enriched cards, filtered lists and statistics.
//
// The derivation functions in this file are pure. Pipeline memoises them and
// Library keeps the raw lists current.
package library

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
)

type selectorKind uint8

const (
	selectAll selectorKind = iota
	selectCategory
	selectNone
)

// Selector restricts cards to one category or lets all through. The zero
// value is All.
type Selector struct {
	kind selectorKind
	id   int64
}

// All selects every card.
var All = Selector{}

// InCategory selects the cards whose category_id is id.
func InCategory(id int64) Selector {
	return Selector{kind: selectCategory, id: id}
}

// ParseSelector reads a selector as typed by the user: "" or "all" (any case)
// is All, an integer is that category, and anything else matches no card.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return All
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Selector{kind: selectNone}
	}
	return InCategory(id)
}

func (s Selector) IsAll() bool { return s.kind == selectAll }

// CategoryID returns the selected id, if the selector names one.
func (s Selector) CategoryID() (int64, bool) {
	return s.id, s.kind == selectCategory
}

func (s Selector) String() string {
	switch s.kind {
	case selectAll:
		return "all"
	case selectCategory:
		return strconv.FormatInt(s.id, 10)
	}
	return "none"
}

func (s Selector) matches(f models.EnrichedFlashcard) bool {
	switch s.kind {
	case selectAll:
		return true
	case selectCategory:
		return f.CategoryID == s.id
	}
	return false
}

// Enrich pairs every card with the first category whose id equals its
// category_id, or nil. Order is preserved. The categories referenced by the
// result are copies, so callers may keep them after cats changes.
func Enrich(cards []models.Flashcard, cats []models.Category) []models.EnrichedFlashcard {
	own := make([]models.Category, len(cats))
	copy(own, cats)

	byID := make(map[int64]*models.Category, len(own))
	for i := range own {
		if _, dup := byID[own[i].ID]; !dup {
			byID[own[i].ID] = &own[i]
		}
	}

	out := make([]models.EnrichedFlashcard, len(cards))
	for i, c := range cards {
		out[i] = models.EnrichedFlashcard{Flashcard: c, Category: byID[c.CategoryID]}
	}
	return out
}

// FilterByCategory keeps the cards sel selects.
func FilterByCategory(cards []models.EnrichedFlashcard, sel Selector) []models.EnrichedFlashcard {
	if sel.IsAll() {
		return cards
	}
	out := make([]models.EnrichedFlashcard, 0, len(cards))
	for _, c := range cards {
		if sel.matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByQuery keeps the cards whose question or answer contains the
// trimmed query, ignoring case. An empty query keeps everything.
func FilterByQuery(cards []models.EnrichedFlashcard, query string) []models.EnrichedFlashcard {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cards
	}
	out := make([]models.EnrichedFlashcard, 0, len(cards))
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Question), q) || strings.Contains(strings.ToLower(c.Answer), q) {
			out = append(out, c)
		}
	}
	return out
}

// Filter applies both passes. The passes commute. With All and a blank
// query the input slice itself is returned.
func Filter(cards []models.EnrichedFlashcard, sel Selector, query string) []models.EnrichedFlashcard {
	return FilterByQuery(FilterByCategory(cards, sel), query)
}

// Aggregate counts cards per category. Every category gets an entry, in
// input order, including those with no cards. A card counts towards the
// first category with its id only, and Total is len(cards) whatever the
// counts add up to.
func Aggregate(cards []models.Flashcard, cats []models.Category) models.Stats {
	first := make(map[int64]int, len(cats))
	for i, c := range cats {
		if _, dup := first[c.ID]; !dup {
			first[c.ID] = i
		}
	}

	counts := make([]int, len(cats))
	for _, card := range cards {
		if i, ok := first[card.CategoryID]; ok {
			counts[i]++
		}
	}

	per := make([]models.CategoryCount, len(cats))
	for i, c := range cats {
		per[i] = models.CategoryCount{Category: c, Count: counts[i]}
	}
	return models.Stats{Total: len(cards), PerCategory: per}
}
