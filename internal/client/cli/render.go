package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
)

const previewWidth = 48

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderCards(w io.Writer, cards []models.EnrichedFlashcard) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCATEGORY\tQUESTION")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.CategoryLabel(), preview(c.Question))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d card(s)\n", len(cards))
}

func renderCard(w io.Writer, c models.EnrichedFlashcard) {
	fmt.Fprintf(w, "#%d  [%s]\n", c.ID, c.CategoryLabel())
	fmt.Fprintf(w, "Q: %s\n", c.Question)
	fmt.Fprintln(w, "A:")
	for _, line := range strings.Split(c.Answer, "\n") {
		fmt.Fprintf(w, "   %s\n", line)
	}
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated %s\n", c.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func renderStats(w io.Writer, s models.Stats) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCATEGORY\tCARDS")
	for _, pc := range s.PerCategory {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", pc.Category.ID, pc.Category.Name, pc.Count)
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %d card(s) in %d categories\n", s.Total, len(s.PerCategory))
}

func renderCategoryChoices(w io.Writer, cats []models.Category) {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, fmt.Sprintf("%d=%s", c.ID, c.Name))
	}
	fmt.Fprintf(w, "Categories: %s\n", strings.Join(names, ", "))
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewWidth {
		return s
	}
	return string(r[:previewWidth-3]) + "..."
}
