package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/flashcards/internal/client/library"
	"github.com/dmitrijs2005/flashcards/internal/client/models"
	"github.com/dmitrijs2005/flashcards/internal/client/schemas"
)

func (a *App) Cards(ctx context.Context, _ []string) error {
	cards, err := a.flashcardService.List(ctx, a.selector, a.query)
	if err != nil {
		return err
	}
	if !a.selector.IsAll() || a.query != "" {
		a.printf("Filter: category=%s query=%q\n", a.selectorLabel(), a.query)
	}
	if len(cards) == 0 {
		a.println("No flashcards match.")
		return nil
	}
	renderCards(a.out, cards)
	return nil
}

// Filter sets the active selector and query, then lists the result.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("filter <all|category id> [query...]")
	}
	a.selector = library.ParseSelector(args[0])
	a.query = strings.TrimSpace(strings.Join(args[1:], " "))
	return a.Cards(ctx, nil)
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}
	card, err := a.flashcardService.Get(ctx, id)
	if err != nil {
		return err
	}
	renderCard(a.out, card)
	return nil
}

func (a *App) AddCard(ctx context.Context, _ []string) error {
	cats, err := a.categoryService.List(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		a.println("Create a category first with 'addcategory'.")
		return nil
	}

	question, err := GetSimpleText(a.reader, "Question", a.out)
	if err != nil {
		return err
	}
	answer, err := GetMultiline(a.reader, "Answer (finish with an empty line)", a.out)
	if err != nil {
		return err
	}
	renderCategoryChoices(a.out, cats)
	raw, err := GetSimpleText(a.reader, "Category id", a.out)
	if err != nil {
		return err
	}

	card, err := a.flashcardService.Create(ctx, schemas.FlashcardForm{
		Question:   question,
		Answer:     answer,
		CategoryID: atoiOrZero(raw),
	})
	if err != nil {
		return err
	}
	a.printf("Flashcard created (id %d)\n", card.ID)
	return nil
}

// EditCard prompts for each field; an empty answer keeps the current value.
func (a *App) EditCard(ctx context.Context, args []string) error {
	id, err := parseID(args, "editcard <id>")
	if err != nil {
		return err
	}
	current, err := a.flashcardService.Get(ctx, id)
	if err != nil {
		return err
	}
	form := schemas.FlashcardForm{
		Question:   current.Question,
		Answer:     current.Answer,
		CategoryID: current.CategoryID,
	}

	q, err := GetSimpleText(a.reader, fmt.Sprintf("Question [%s]", current.Question), a.out)
	if err != nil {
		return err
	}
	if q != "" {
		form.Question = q
	}
	ans, err := GetMultiline(a.reader, "Answer (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if ans != "" {
		form.Answer = ans
	}
	renderCategoryChoices(a.out, a.lib.Categories())
	raw, err := GetSimpleText(a.reader, fmt.Sprintf("Category id [%d]", current.CategoryID), a.out)
	if err != nil {
		return err
	}
	if raw != "" {
		form.CategoryID = atoiOrZero(raw)
	}

	card, err := a.flashcardService.Update(ctx, id, form)
	if err != nil {
		return err
	}
	a.printf("Flashcard %d updated\n", card.ID)
	return nil
}

func (a *App) DeleteCard(ctx context.Context, args []string) error {
	id, err := parseID(args, "delcard <id>")
	if err != nil {
		return err
	}
	yes, err := GetConfirmation(a.reader, fmt.Sprintf("Delete flashcard %d? [y/N]", id), a.out)
	if err != nil {
		return err
	}
	if !yes {
		a.println("Cancelled.")
		return nil
	}
	if err := a.flashcardService.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Flashcard %d deleted\n", id)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		return usageError("search <query...>")
	}
	cards, err := a.flashcardService.Search(ctx, q)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		a.printf("Nothing found for %q\n", q)
		return nil
	}
	renderCards(a.out, cards)
	return nil
}

func (a *App) Stats(ctx context.Context, _ []string) error {
	stats, err := a.flashcardService.Stats(ctx)
	if err != nil {
		return err
	}
	renderStats(a.out, stats)
	return nil
}

func (a *App) Reload(ctx context.Context, _ []string) error {
	if err := a.lib.Reload(ctx); err != nil {
		return err
	}
	snap := a.lib.Snapshot()
	a.printf("Loaded %d categories and %d flashcards\n", len(snap.Categories), len(snap.Cards))
	return nil
}

func (a *App) selectorLabel() string {
	id, ok := a.selector.CategoryID()
	if !ok {
		return a.selector.String()
	}
	if c, found := a.lib.Category(id); found {
		return fmt.Sprintf("%d (%s)", id, c.Name)
	}
	return fmt.Sprintf("%d (%s)", id, models.UncategorizedLabel)
}

func atoiOrZero(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
