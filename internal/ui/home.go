package ui

import (
	"strings"

	"autoparts/internal/flow"
	"autoparts/internal/model"
	"autoparts/internal/util"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) handleHomeNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.homeCursor < len(model.Categories)-1 {
			m.homeCursor++
		}
	case key.Matches(msg, m.keys.ResetVehicle):
		if m.ctrl.Vehicle().IsEmpty() {
			m.info = "Aucun véhicule sélectionné"
			return m, nil
		}
		prev := m.ctrl.ResetVehicle()
		m.pushUndoAction(m.buildResetVehicleAction(prev))
		m.info = "Véhicule réinitialisé (u pour annuler)"
	case key.Matches(msg, m.keys.Select):
		category := model.Categories[m.homeCursor]
		if err := m.ctrl.PickCategory(category); err != nil {
			m.reportError("category rejected", err)
			return m, nil
		}
		m.error = ""
		cmd := m.enterStage()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSubProductNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.ctrl.SubOptions()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.subCursor > 0 {
			m.subCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.subCursor < len(options)-1 {
			m.subCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.subCursor >= len(options) {
			return m, nil
		}
		if err := m.ctrl.PickSubProduct(options[m.subCursor]); err != nil {
			m.reportError("sub-product rejected", err)
			return m, nil
		}
		m.error = ""
		cmd := m.enterStage()
		return m, cmd
	}
	return m, nil
}

func (m Model) homeView(width int) string {
	var rows []string
	for i, c := range model.Categories {
		label := c.DisplayName()
		if c.HasSubOptions() {
			label += " …"
		}
		rows = append(rows, renderRow(label, i == m.homeCursor, width))
	}

	sections := []string{
		SectionStyle.Render("Que recherchez-vous ?"),
		strings.Join(rows, "\n"),
	}

	vehicle := m.ctrl.Vehicle()
	if !vehicle.IsEmpty() {
		sections = append(sections,
			"",
			LabelStyle.Render("  Votre véhicule : ")+NormalRowStyle.Render(util.FormatVehicle(vehicle)),
			"  "+HelpKeyStyle.Render("x")+" "+HelpDescStyle.Render(flow.ResetLabel(vehicle)),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) subProductView(width int) string {
	var rows []string
	for i, option := range m.ctrl.SubOptions() {
		rows = append(rows, renderRow(option, i == m.subCursor, width))
	}
	title := SectionStyle.Render(m.ctrl.Product().Product.DisplayName())
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"))
}

func (m Model) plateView(width int) string {
	input := InputStyle.Render(m.plateInput.View())
	action := HelpKeyStyle.Render("i") + " " + HelpDescStyle.Render("saisir")
	if m.plateFocus {
		action = HelpKeyStyle.Render("enter") + " " + HelpDescStyle.Render("Rechercher")
	}

	lines := []string{
		SectionStyle.Render("Voiture et camionnette"),
		LabelStyle.Render("  Par immatriculation"),
		SpecStyle.Width(width).Render("  Plus précis et plus rapide pour la sélection de produits et de services."),
		"  " + input + "  " + action,
	}
	if msg := m.plate.Error(); msg != "" {
		lines = append(lines, ErrorStyle.Render(msg))
	}
	lines = append(lines, "")
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRow(label string, selected bool, width int) string {
	if selected {
		return SelectedRowStyle.Width(width).Render("› " + label)
	}
	return NormalRowStyle.Width(width).Render("  " + label)
}
