package models

import "github.com/dmitrijs2005/flashcards/internal/timex"

// UncategorizedLabel is displayed for a flashcard whose category_id does not
// resolve to a known category.
const UncategorizedLabel = "Uncategorized"

type Flashcard struct {
	ID         int64      `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	CategoryID int64      `json:"category_id"`
	OwnerID    int64      `json:"user_id"`
	CreatedAt  timex.Time `json:"created_at"`
	UpdatedAt  timex.Time `json:"updated_at"`

	// CategoryName is a convenience join some endpoints include.
	CategoryName string `json:"category_name,omitempty"`
}

// FlashcardInput is the body of create and update requests.
type FlashcardInput struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	CategoryID int64  `json:"category_id"`
}

// EnrichedFlashcard is a Flashcard with its resolved Category, if any.
// It is rebuilt whenever either source list changes and is never persisted.
type EnrichedFlashcard struct {
	Flashcard
	Category *Category
}

// CategoryLabel returns the resolved category name or UncategorizedLabel.
func (f EnrichedFlashcard) CategoryLabel() string {
	if f.Category == nil {
		return UncategorizedLabel
	}
	return f.Category.Name
}
