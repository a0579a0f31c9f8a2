package ui

import (
	"strings"

	"autoparts/internal/flow"

	"github.com/charmbracelet/lipgloss"
)

type inputMode int

const (
	inputModeNav inputMode = iota
	inputModeText
	inputModeDetail
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(stage flow.Stage, mode inputMode, width int) string {
	switch mode {
	case inputModeText:
		return renderInputHelp(width)
	case inputModeDetail:
		return renderDetailHelp(width)
	}

	switch stage {
	case flow.StageHome:
		return renderHomeHelp(width)
	case flow.StageSubProduct:
		return renderSubProductHelp(width)
	case flow.StageBrand:
		return renderBrandHelp(width)
	case flow.StageModel:
		return renderPagedHelp(width)
	case flow.StageProduct:
		return renderProductsHelp(width)
	default:
		return renderListHelp(width)
	}
}

func renderHomeHelp(width int) string {
	keys := []string{
		helpKey("j/k", "naviguer"),
		helpKey("enter", "choisir"),
		helpKey("x", "réinitialiser véhicule"),
		helpKey("u/ctrl+r", "annuler/rétablir"),
		helpKey("?", "aide"),
		helpKey("q", "quitter"),
	}
	return renderHelpLine(keys, width)
}

func renderSubProductHelp(width int) string {
	keys := []string{
		helpKey("j/k", "naviguer"),
		helpKey("enter", "choisir"),
		helpKey("b/esc", "retour"),
		helpKey("H", "accueil"),
	}
	return renderHelpLine(keys, width)
}

func renderBrandHelp(width int) string {
	keys := []string{
		helpKey("j/k", "naviguer"),
		helpKey("enter", "choisir"),
		helpKey("n/p", "page"),
		helpKey("/", "filtrer"),
		helpKey("i", "immatriculation"),
		helpKey("b/esc", "retour"),
		helpKey("H", "accueil"),
	}
	return renderHelpLine(keys, width)
}

func renderPagedHelp(width int) string {
	keys := []string{
		helpKey("j/k", "naviguer"),
		helpKey("enter", "choisir"),
		helpKey("n/p", "page"),
		helpKey("/", "filtrer"),
		helpKey("b/esc", "retour"),
		helpKey("H", "accueil"),
	}
	return renderHelpLine(keys, width)
}

func renderListHelp(width int) string {
	keys := []string{
		helpKey("j/k", "naviguer"),
		helpKey("enter", "choisir"),
		helpKey("/", "filtrer"),
		helpKey("b/esc", "retour"),
		helpKey("H", "accueil"),
	}
	return renderHelpLine(keys, width)
}

func renderProductsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "naviguer"),
		helpKey("enter", "détail"),
		helpKey("/", "filtrer"),
		helpKey("b/esc", "retour"),
		helpKey("H", "accueil"),
	}
	return renderHelpLine(keys, width)
}

func renderDetailHelp(width int) string {
	keys := []string{
		helpKey("j/k", "produit suivant/précédent"),
		helpKey("enter/esc", "fermer"),
	}
	return renderHelpLine(keys, width)
}

func renderInputHelp(width int) string {
	keys := []string{
		helpKey("enter", "valider"),
		helpKey("esc", "annuler"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Descendre"},
			{"k / ↑", "Monter"},
			{"enter / l", "Choisir"},
			{"b / esc / h", "Étape précédente"},
			{"H", "Retour à l'accueil"},
			{"n / p", "Page suivante / précédente (marques, modèles)"},
			{"/", "Filtrer la liste"},
			{"?", "Afficher / masquer l'aide"},
			{"q", "Quitter"},
		}),
		titleSection("Accueil"),
		helpSection([]helpItem{
			{"x", "Réinitialiser le véhicule"},
			{"u / ctrl+r", "Annuler / rétablir la réinitialisation"},
		}),
		titleSection("Marques"),
		helpSection([]helpItem{
			{"i", "Saisir une immatriculation (AB-123-CD)"},
		}),
		titleSection("Produits"),
		helpSection([]helpItem{
			{"enter", "Ouvrir / fermer le détail et l'image"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Aide"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("fermer l'aide")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
