package ui

import (
	"fmt"
	"strings"

	"autoparts/internal/flow"
	"autoparts/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// listScreen is the cursor over one page of a stage listing.
type listScreen[T any] struct {
	listing *flow.Listing[T]
	cursor  int
	label   func(T) string
}

func newListScreen[T any](items []T, paged bool, label func(T) string) *listScreen[T] {
	return &listScreen[T]{
		listing: flow.NewListing(items, paged, label),
		label:   label,
	}
}

func (s *listScreen[T]) MoveDown() {
	if s.cursor < len(s.listing.Items())-1 {
		s.cursor++
	}
}

func (s *listScreen[T]) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *listScreen[T]) NextPage() bool {
	if !s.listing.Next() {
		return false
	}
	s.cursor = 0
	return true
}

func (s *listScreen[T]) PrevPage() bool {
	if !s.listing.Prev() {
		return false
	}
	s.cursor = 0
	return true
}

func (s *listScreen[T]) SetQuery(query string) {
	s.listing.SetQuery(query)
	s.cursor = 0
}

// Selected returns the entry under the cursor.
func (s *listScreen[T]) Selected() (T, bool) {
	items := s.listing.Items()
	if s.cursor < 0 || s.cursor >= len(items) {
		var zero T
		return zero, false
	}
	return items[s.cursor], true
}

// View renders the current page. paged adds the page switcher.
func (s *listScreen[T]) View(width int, paged bool, empty string) string {
	if s.listing.Len() == 0 {
		return EmptyStateStyle.Render(empty)
	}

	var rows []string
	for i, item := range s.listing.Items() {
		line := "  " + s.label(item)
		style := NormalRowStyle
		if i == s.cursor {
			line = "› " + s.label(item)
			style = SelectedRowStyle
		}
		rows = append(rows, style.Width(width).Render(line))
	}

	out := strings.Join(rows, "\n")
	if paged {
		out = lipgloss.JoinVertical(lipgloss.Left, out, renderPager(s.listing.Pager()))
	}
	return out
}

func renderPager(p flow.Pager) string {
	prev := HelpKeyStyle.Render("‹ p Précédent")
	if !p.HasPrev() {
		prev = PagerDisabledStyle.Render("‹ p Précédent")
	}
	next := HelpKeyStyle.Render("Suivant n ›")
	if !p.HasNext() {
		next = PagerDisabledStyle.Render("Suivant n ›")
	}
	page := HelpDescStyle.Render(pageLabel(p))
	return PagerStyle.Render(prev + "   " + page + "   " + next)
}

func pageLabel(p flow.Pager) string {
	return fmt.Sprintf("Page %d/%d", p.Page(), p.TotalPages())
}

func brandLabel(b model.Brand) string { return b.Name }

func vehicleModelLabel(v model.VehicleModel) string { return v.Name }

func generationLabel(g model.Generation) string { return g.Name }

func fuelTypeLabel(f model.FuelType) string {
	if f.Label == "" {
		return "Inconnu"
	}
	return f.Label
}
