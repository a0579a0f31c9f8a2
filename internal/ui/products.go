package ui

import (
	"fmt"
	"strings"

	"autoparts/internal/flow"
	"autoparts/internal/model"
	"autoparts/internal/util"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	productNameWidth  = 32
	productBrandWidth = 14
	imageWidth        = 36
	imageHeight       = 14
)

func productLabel(p model.Product) string {
	return fmt.Sprintf("%-*s %-*s %10s",
		productNameWidth, util.TruncateString(p.Name, productNameWidth),
		productBrandWidth, util.TruncateString(p.Brand, productBrandWidth),
		util.FormatPrice(p.Price),
	)
}

func (m Model) handleProductsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.products == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.products.MoveUp()
		cmd := m.refreshDetail()
		return m, cmd
	case key.Matches(msg, m.keys.Down):
		m.products.MoveDown()
		cmd := m.refreshDetail()
		return m, cmd
	case key.Matches(msg, m.keys.Filter):
		m.closeDetail()
		cmd := m.startFilter(m.products.listing.Query())
		return m, cmd
	case key.Matches(msg, m.keys.Select):
		if m.detail {
			m.closeDetail()
			return m, nil
		}
		if _, ok := m.products.Selected(); !ok {
			return m, nil
		}
		m.detail = true
		cmd := m.refreshDetail()
		return m, cmd
	}
	return m, nil
}

// refreshDetail loads the picture of the selected product when the detail
// pane is open.
func (m *Model) refreshDetail() tea.Cmd {
	if !m.detail {
		return nil
	}
	m.art = ""
	m.artError = ""
	p, ok := m.products.Selected()
	if !ok {
		return nil
	}
	if p.Image == "" {
		m.artError = "Pas d'image"
		return nil
	}
	return loadProductImageCmd(m.images, p, m.ctrl.Seq(), imageWidth, imageHeight)
}

func (m Model) productsView(width, height int) string {
	selection := LabelStyle.Render("  ✓ ") + NormalRowStyle.Render(util.FormatSelection(m.ctrl.Product()))
	vehicle := LabelStyle.Render("  ▣ ") + NormalRowStyle.Render(util.FormatVehicle(m.ctrl.EffectiveVehicle()))
	summary := lipgloss.JoinHorizontal(lipgloss.Top, selection, "    ", vehicle)
	title := SectionStyle.Render("Résultats de votre recherche")

	var body string
	switch {
	case m.loading:
		body = "  " + m.spinner.View() + " " + flow.LoadingMessage()
	case m.stageErr != "":
		body = ErrorStyle.Render(m.stageErr)
	case m.products != nil:
		listWidth := width
		if m.detail {
			listWidth = width - imageWidth - 8
		}
		empty := flow.EmptyMessage()
		if m.products.listing.Total() > 0 {
			empty = "Aucun produit ne correspond au filtre"
		}
		body = m.products.View(listWidth, false, empty)
		if m.filtering {
			body = lipgloss.JoinVertical(lipgloss.Left, InputStyle.Render(m.filter.View()), body)
		}
		if m.detail {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.productDetailView())
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, summary, "", title, body)
}

func (m Model) productDetailView() string {
	p, ok := m.products.Selected()
	if !ok {
		return ""
	}

	lines := []string{
		LabelStyle.Render(p.Name),
		NormalRowStyle.Render(p.Brand),
		PriceStyle.Render(util.FormatPrice(p.Price)),
	}
	for _, spec := range p.Specs {
		lines = append(lines, SpecStyle.Render("• "+spec))
	}
	lines = append(lines, "")

	switch {
	case m.art != "":
		lines = append(lines, strings.TrimRight(m.art, "\n"))
	case m.artError != "":
		lines = append(lines, EmptyStateStyle.Padding(0).Render(m.artError))
	default:
		lines = append(lines, HelpDescStyle.Render("Chargement de l'image..."))
	}

	return PanelStyle.Width(imageWidth + 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
