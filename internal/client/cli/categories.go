package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/flashcards/internal/client/schemas"
)

func (a *App) Categories(ctx context.Context, _ []string) error {
	cats, err := a.categoryService.List(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		a.println("No categories yet. Use 'addcategory' to create one.")
		return nil
	}
	stats, err := a.flashcardService.Stats(ctx)
	if err != nil {
		return err
	}
	renderStats(a.out, stats)
	return nil
}

func (a *App) AddCategory(ctx context.Context, _ []string) error {
	name, err := GetSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}
	c, err := a.categoryService.Create(ctx, schemas.CategoryForm{Name: name})
	if err != nil {
		return err
	}
	a.printf("Category %q created (id %d)\n", c.Name, c.ID)
	return nil
}

func (a *App) RenameCategory(ctx context.Context, args []string) error {
	id, err := parseID(args, "renamecategory <id>")
	if err != nil {
		return err
	}
	if _, err := a.categoryService.List(ctx); err != nil {
		return err
	}
	current, ok := a.lib.Category(id)
	if !ok {
		return fmt.Errorf("%w: category %d", errUnknownID, id)
	}

	name, err := GetSimpleText(a.reader, fmt.Sprintf("New name [%s]", current.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		a.println("Nothing changed.")
		return nil
	}
	c, err := a.categoryService.Rename(ctx, id, schemas.CategoryForm{Name: name})
	if err != nil {
		return err
	}
	a.printf("Category %d renamed to %q\n", c.ID, c.Name)
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	id, err := parseID(args, "delcategory <id>")
	if err != nil {
		return err
	}
	if _, err := a.categoryService.List(ctx); err != nil {
		return err
	}
	current, ok := a.lib.Category(id)
	if !ok {
		return fmt.Errorf("%w: category %d", errUnknownID, id)
	}

	count := 0
	for _, c := range a.lib.Stats().PerCategory {
		if c.Category.ID == id {
			count = c.Count
		}
	}
	yes, err := GetConfirmation(a.reader,
		fmt.Sprintf("Delete category %q and its %d card(s)? [y/N]", current.Name, count), a.out)
	if err != nil {
		return err
	}
	if !yes {
		a.println("Cancelled.")
		return nil
	}

	if err := a.categoryService.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Category %q deleted\n", current.Name)
	return nil
}
