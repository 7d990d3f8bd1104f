package models

import "github.com/dmitrijs2005/flashcards/internal/timex"

type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	OwnerID   int64      `json:"user_id"`
	CreatedAt timex.Time `json:"created_at"`

	// FlashcardCount is filled by the list endpoint only.
	FlashcardCount int `json:"flashcard_count,omitempty"`
}

// CategoryInput is the body of create and update requests.
type CategoryInput struct {
	Name string `json:"name"`
}

// CategoryCount pairs a category with the number of flashcards that
// reference it.
type CategoryCount struct {
	Category Category
	Count    int
}

// Stats is the aggregate shown on the dashboard.
type Stats struct {
	Total       int
	PerCategory []CategoryCount
}
