package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
)

// OnboardingSettings is what the first-run wizard remembers.
type OnboardingSettings struct {
	Completed    bool   `json:"completed"`
	APIBaseURL   string `json:"api_base_url,omitempty"`
	AssetBaseURL string `json:"asset_base_url,omitempty"`
}

func (s OnboardingSettings) apply(config *Config) {
	if config.APIBaseURL == "" {
		config.APIBaseURL = s.APIBaseURL
	}
	if config.AssetBaseURL == "" {
		config.AssetBaseURL = s.AssetBaseURL
	}
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	data, err := os.ReadFile(onboardingPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(configDir), data, 0644)
}

// shouldRunOnboarding is false once the wizard ran or when stdin is not a
// terminal.
func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepAPI onboardingStep = iota
	stepAssets
	stepDone
)

type onboardingModel struct {
	step     onboardingStep
	input    textinput.Model
	validate *validator.Validate
	settings OnboardingSettings
	status   string
	invalid  string
	canceled bool
	width    int
	height   int
}

var (
	obColorMuted  = lipgloss.Color("#7A8A7C")
	obColorText   = lipgloss.Color("#E2E8DF")
	obColorAccent = lipgloss.Color("#5FAF6F")
	obColorDanger = lipgloss.Color("#E06C75")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obTabInactive = obTabActive.
			UnsetBold().
			UnsetUnderline().
			Foreground(obColorMuted)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	obWarnStyle  = lipgloss.NewStyle().Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel() onboardingModel {
	in := textinput.New()
	in.Placeholder = "https://catalogue.example.com/api"
	in.CharLimit = 512
	in.Prompt = "url> "
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Focus()

	return onboardingModel{
		step:     stepAPI,
		input:    in,
		validate: validator.New(),
		settings: OnboardingSettings{Completed: true},
	}
}

func (m onboardingModel) Init() tea.Cmd { return textinput.Blink }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.canceled = true
			m.settings.Completed = false
			m.status = "Configuration annulée."
			m.step = stepDone
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "esc":
			if m.step == stepAssets {
				m.status = "Les images seront chargées depuis l'API."
				m.step = stepDone
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m onboardingModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimRight(strings.TrimSpace(m.input.Value()), "/")

	switch m.step {
	case stepAPI:
		if err := m.validate.Var(value, "required,url"); err != nil {
			m.invalid = "Adresse invalide, exemple : https://catalogue.example.com/api"
			return m, nil
		}
		m.settings.APIBaseURL = value
		m.invalid = ""
		m.input.Reset()
		m.input.Placeholder = "laisser vide pour utiliser l'API"
		m.step = stepAssets
		return m, nil
	case stepAssets:
		if value != "" {
			if err := m.validate.Var(value, "url"); err != nil {
				m.invalid = "Adresse invalide."
				return m, nil
			}
			m.settings.AssetBaseURL = value
		}
		m.status = "Catalogue configuré."
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 24
	}

	header := m.renderHeader(width)
	footer := m.renderFooter(width)
	contentHeight := max(8, height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.renderContent(width, contentHeight)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (m onboardingModel) renderHeader(width int) string {
	left := obTitleStyle.Render("autoparts") + " " + obMutedStyle.Render("› Configuration")
	right := obMutedStyle.Render(time.Now().Format("02/01/2006"))
	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right)-2)

	tabs := []string{"API catalogue", "Images"}
	for i, tab := range tabs {
		if onboardingStep(i) == m.step {
			tabs[i] = obTabActive.Render(tab)
		} else {
			tabs[i] = obTabInactive.Render(tab)
		}
	}

	return obHeaderStyle.Width(width).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		left+strings.Repeat(" ", padding)+right,
		lipgloss.JoinHorizontal(lipgloss.Left, tabs...),
	))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepAPI:
		return obFooterStyle.Width(width).Render("enter valider  ctrl+c annuler")
	case stepAssets:
		return obFooterStyle.Width(width).Render("enter valider  esc passer  ctrl+c annuler")
	default:
		return obFooterStyle.Width(width).Render("Terminé")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(88, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}
	input := obInputStyle.Width(max(30, cardWidth-8)).Render(m.input.View())

	var lines []string
	switch m.step {
	case stepAPI:
		lines = []string{
			obLabelStyle.Render("Adresse de l'API catalogue"),
			"",
			obMutedStyle.Render("Les marques, modèles et produits sont lus depuis cette API."),
			obMutedStyle.Render("Modifiable plus tard avec AUTOPARTS_API_BASE_URL ou -api."),
			"",
			input,
		}
	case stepAssets:
		lines = []string{
			obLabelStyle.Render("Adresse des images produits (optionnel)"),
			"",
			obMutedStyle.Render("API : " + m.settings.APIBaseURL),
			"",
			input,
		}
	default:
		status := obMutedStyle.Render(m.status)
		if m.canceled {
			status = obWarnStyle.Render(m.status)
		}
		lines = []string{obLabelStyle.Render("Configuration terminée"), "", status}
	}
	if m.invalid != "" {
		lines = append(lines, "", obWarnStyle.Render(m.invalid))
	}

	card := obPanelStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string) (OnboardingSettings, error) {
	prog := tea.NewProgram(newOnboardingModel(), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if m.canceled {
		return m.settings, nil
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}
