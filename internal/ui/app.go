package ui

import (
	"context"
	"errors"
	"strings"

	"autoparts/internal/flow"
	"autoparts/internal/logging"
	"autoparts/internal/model"
	"autoparts/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the root Bubble Tea model.
type Model struct {
	ctrl    *flow.Controller
	catalog flow.Catalog
	images  ImageSource
	log     *logging.Logger

	width  int
	height int

	error       string
	info        string
	showingHelp bool

	loading  bool
	stageErr string
	spinner  spinner.Model

	homeCursor int
	subCursor  int

	brands      *listScreen[model.Brand]
	models      *listScreen[model.VehicleModel]
	generations *listScreen[model.Generation]
	fuelTypes   *listScreen[model.FuelType]
	products    *listScreen[model.Product]

	detail   bool
	art      string
	artError string

	filtering bool
	filter    textinput.Model

	plateFocus bool
	plateInput textinput.Model
	plate      flow.PlateField

	keys      KeyMap
	inputKeys InputKeyMap
	undoStack []undoAction
	redoStack []undoAction
}

// New creates a new root model.
func New(ctrl *flow.Controller, catalog flow.Catalog, images ImageSource, log *logging.Logger) Model {
	if log == nil {
		log = logging.Nop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = LabelStyle

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filtrer"
	filter.CharLimit = 40

	plate := textinput.New()
	plate.Prompt = ""
	plate.Placeholder = "AB-123-CD"
	plate.CharLimit = 9
	plate.Width = 10

	return Model{
		ctrl:       ctrl,
		catalog:    catalog,
		images:     images,
		log:        log,
		spinner:    sp,
		filter:     filter,
		plateInput: plate,
		keys:       DefaultKeyMap(),
		inputKeys:  DefaultInputKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("autoparts"), m.loadCurrentStage())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.filtering {
			return m.handleFilterInput(msg)
		}
		if m.plateFocus {
			return m.handlePlateInput(msg)
		}

		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}
		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		return m.handleNavMode(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case model.BrandsLoadedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.loaded()
		m.brands = newListScreen(msg.Brands, true, brandLabel)
		return m, nil

	case model.ModelsLoadedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.loaded()
		m.models = newListScreen(msg.Models, true, vehicleModelLabel)
		return m, nil

	case model.GenerationsLoadedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.loaded()
		m.generations = newListScreen(msg.Generations, false, generationLabel)
		return m, nil

	case model.FuelTypesLoadedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.loaded()
		m.fuelTypes = newListScreen(msg.FuelTypes, false, fuelTypeLabel)
		return m, nil

	case model.ProductsLoadedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.loaded()
		m.products = newListScreen(msg.Products, false, productLabel)
		return m, nil

	case model.StageLoadFailedMsg:
		if m.stale(msg.Seq) {
			return m, nil
		}
		m.loaded()
		m.stageErr = msg.Message
		ctx := m.log.WithField(context.Background(), "stage", m.ctrl.Stage().String())
		m.log.Error(ctx, "stage load failed", msg.Err)
		return m, nil

	case productImageMsg:
		if m.stale(msg.seq) || !m.detail || m.products == nil {
			return m, nil
		}
		if p, ok := m.products.Selected(); !ok || p.Image != msg.image {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn(m.log.WithField(context.Background(), "image", msg.image), "product image unavailable")
			m.artError = "Image indisponible"
			return m, nil
		}
		m.art = msg.art
		return m, nil
	}

	if m.filtering || m.plateFocus {
		return m.updateInputs(msg)
	}
	return m, nil
}

// stale reports whether a response belongs to a navigation entry the user
// already left.
func (m Model) stale(seq int) bool {
	if seq == m.ctrl.Seq() {
		return false
	}
	m.log.Debug(m.log.WithField(context.Background(), "seq", seq), "dropped stale response")
	return true
}

func (m *Model) loaded() {
	m.loading = false
	m.stageErr = ""
}

// enterStage resets the per-stage state after a transition and starts the
// stage fetch.
func (m *Model) enterStage() tea.Cmd {
	m.homeCursor = 0
	m.subCursor = 0
	m.brands = nil
	m.models = nil
	m.generations = nil
	m.fuelTypes = nil
	m.products = nil
	m.stageErr = ""
	m.closeDetail()
	m.filtering = false
	m.filter.Reset()
	m.filter.Blur()
	m.plateFocus = false
	m.plateInput.Blur()
	m.plateInput.Reset()
	m.plate.Reset()

	m.loading = m.ctrl.Stage().Fetches()
	if !m.loading {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadCurrentStage())
}

func (m Model) loadCurrentStage() tea.Cmd {
	if !m.ctrl.Stage().Fetches() {
		return nil
	}
	return loadStageCmd(m.catalog, m.ctrl.Request())
}

func (m *Model) closeDetail() {
	m.detail = false
	m.art = ""
	m.artError = ""
}

// reportError shows err in the banner. Validation errors from the store are
// programming defects and are logged as such.
func (m *Model) reportError(msg string, err error) {
	m.log.Error(context.Background(), msg, err)
	m.error = err.Error()
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.info = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Home):
		m.error = ""
		m.ctrl.Home()
		cmd := m.enterStage()
		return m, cmd
	case key.Matches(msg, m.keys.Undo):
		m.undo()
		return m, nil
	case key.Matches(msg, m.keys.Redo):
		m.redo()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.detail {
			m.closeDetail()
			return m, nil
		}
		if m.ctrl.Stage() == flow.StageHome {
			return m, nil
		}
		m.error = ""
		if !m.ctrl.Back() {
			m.ctrl.Home()
		}
		cmd := m.enterStage()
		return m, cmd
	}

	switch m.ctrl.Stage() {
	case flow.StageHome:
		return m.handleHomeNav(msg)
	case flow.StageSubProduct:
		return m.handleSubProductNav(msg)
	case flow.StageBrand:
		if key.Matches(msg, m.keys.Plate) {
			m.plateFocus = true
			cmd := m.plateInput.Focus()
			return m, cmd
		}
		cmd := updateList(&m, m.brands, msg, m.ctrl.PickBrand)
		return m, cmd
	case flow.StageModel:
		cmd := updateList(&m, m.models, msg, m.ctrl.PickModel)
		return m, cmd
	case flow.StageGeneration:
		cmd := updateList(&m, m.generations, msg, m.ctrl.PickGeneration)
		return m, cmd
	case flow.StageFuelType:
		cmd := updateList(&m, m.fuelTypes, msg, func(f model.FuelType) error {
			if err := m.ctrl.PickFuelType(f); err != nil {
				return err
			}
			m.forgetVehicleHistory()
			return nil
		})
		return m, cmd
	case flow.StageProduct:
		return m.handleProductsNav(msg)
	}
	return m, nil
}

// updateList drives a stage listing. pick performs the forward transition.
func updateList[T any](m *Model, s *listScreen[T], msg tea.KeyMsg, pick func(T) error) tea.Cmd {
	if s == nil {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		s.MoveUp()
	case key.Matches(msg, m.keys.Down):
		s.MoveDown()
	case key.Matches(msg, m.keys.NextPage):
		s.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		s.PrevPage()
	case key.Matches(msg, m.keys.Filter):
		return m.startFilter(s.listing.Query())
	case key.Matches(msg, m.keys.Select):
		item, ok := s.Selected()
		if !ok {
			return nil
		}
		if err := pick(item); err != nil {
			m.reportError("selection rejected", err)
			return nil
		}
		m.error = ""
		return m.enterStage()
	}
	return nil
}

func (m *Model) startFilter(query string) tea.Cmd {
	m.filtering = true
	m.filter.SetValue(query)
	m.filter.CursorEnd()
	return m.filter.Focus()
}

func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Submit):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, m.inputKeys.Cancel):
		m.filtering = false
		m.filter.Blur()
		m.filter.Reset()
		m.applyFilter("")
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter(m.filter.Value())
	return m, cmd
}

func (m *Model) applyFilter(query string) {
	switch m.ctrl.Stage() {
	case flow.StageBrand:
		if m.brands != nil {
			m.brands.SetQuery(query)
		}
	case flow.StageModel:
		if m.models != nil {
			m.models.SetQuery(query)
		}
	case flow.StageGeneration:
		if m.generations != nil {
			m.generations.SetQuery(query)
		}
	case flow.StageFuelType:
		if m.fuelTypes != nil {
			m.fuelTypes.SetQuery(query)
		}
	case flow.StageProduct:
		if m.products != nil {
			m.products.SetQuery(query)
			m.closeDetail()
		}
	}
}

func (m Model) handlePlateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Submit):
		m.info = m.plate.Submit()
		m.log.Info(m.log.WithField(context.Background(), "plate", m.plate.Value()), "plate search submitted")
		return m, nil
	case key.Matches(msg, m.inputKeys.Cancel):
		m.plateFocus = false
		m.plateInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.plateInput, cmd = m.plateInput.Update(msg)
	m.plate.Set(m.plateInput.Value())
	m.plateInput.SetValue(m.plate.Value())
	m.plateInput.CursorEnd()
	return m, cmd
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// focused text field.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.filtering {
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	m.plateInput, cmd = m.plateInput.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	// header + footer + padding
	contentHeight := m.height - 4

	var content string
	switch m.ctrl.Stage() {
	case flow.StageHome:
		content = m.homeView(m.width)
	case flow.StageSubProduct:
		content = m.subProductView(m.width)
	case flow.StageBrand:
		content = lipgloss.JoinVertical(lipgloss.Left, m.plateView(m.width), m.stageBody(m.width))
	case flow.StageModel, flow.StageGeneration, flow.StageFuelType:
		content = m.stageBody(m.width)
	case flow.StageProduct:
		content = m.productsView(m.width, contentHeight)
	}

	header := renderHeader(m.breadcrumb(), util.FormatVehicle(m.ctrl.Vehicle()), m.width)
	footer := RenderHelp(m.ctrl.Stage(), m.inputMode(), m.width)

	// Ensure content fills the available height to anchor footer at bottom
	parts := []string{header}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Erreur : "+m.error))
		contentHeight--
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
		contentHeight--
	}
	if contentHeight < 0 {
		contentHeight = 0
	}
	content = lipgloss.NewStyle().Width(m.width).Height(contentHeight).MaxHeight(contentHeight).Render(content)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) inputMode() inputMode {
	switch {
	case m.filtering || m.plateFocus:
		return inputModeText
	case m.detail:
		return inputModeDetail
	}
	return inputModeNav
}

// stageBody renders the listing of a fetching stage, its loading state or
// its failure message.
func (m Model) stageBody(width int) string {
	if m.loading {
		return "  " + m.spinner.View() + " " + flow.LoadingMessage()
	}
	if m.stageErr != "" {
		return ErrorStyle.Render(m.stageErr)
	}

	var body string
	var query string
	stage := m.ctrl.Stage()
	switch stage {
	case flow.StageBrand:
		if m.brands != nil {
			body = m.brands.View(width, true, "Aucune marque")
			query = m.brands.listing.Query()
		}
	case flow.StageModel:
		if m.models != nil {
			body = m.models.View(width, true, "Aucun modèle")
			query = m.models.listing.Query()
		}
	case flow.StageGeneration:
		if m.generations != nil {
			body = m.generations.View(width, false, "Aucune génération")
			query = m.generations.listing.Query()
		}
	case flow.StageFuelType:
		if m.fuelTypes != nil {
			body = m.fuelTypes.View(width, false, "Aucun type de carburant")
			query = m.fuelTypes.listing.Query()
		}
	}

	title := SectionStyle.Render(stageTitle(stage, m.ctrl.Params()))
	if m.filtering {
		return lipgloss.JoinVertical(lipgloss.Left, title, InputStyle.Render(m.filter.View()), body)
	}
	if query != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, HelpDescStyle.Render("  filtre : "+query), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func stageTitle(stage flow.Stage, p flow.Params) string {
	switch stage {
	case flow.StageBrand:
		return "Ou bien indiquez la marque de votre véhicule"
	case flow.StageModel:
		return "Modèles " + p.BrandName
	case flow.StageGeneration:
		return "Générations " + strings.TrimSpace(p.BrandName+" "+p.ModelName)
	case flow.StageFuelType:
		return "Motorisations " + strings.TrimSpace(p.BrandName+" "+p.ModelName+" "+p.GenerationName)
	}
	return stage.String()
}

func (m Model) breadcrumb() []string {
	parts := []string{flow.StageHome.String()}
	stage := m.ctrl.Stage()
	if stage == flow.StageHome {
		return parts
	}

	sel := m.ctrl.Product()
	if sel.Product != "" {
		parts = append(parts, sel.Product.DisplayName())
	}
	if sel.SubProduct != "" {
		parts = append(parts, sel.SubProduct)
	}

	p := m.ctrl.Params()
	for _, name := range []string{p.BrandName, p.ModelName, p.GenerationName} {
		if name != "" && stage != flow.StageProduct {
			parts = append(parts, name)
		}
	}
	if stage != flow.StageSubProduct {
		parts = append(parts, stage.String())
	}
	return parts
}

func renderHeader(breadcrumbParts []string, vehicle string, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("autoparts")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: selected vehicle
	right := ""
	if vehicle != "" {
		right = BreadcrumbStyle.Render(vehicle) + "  "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

// Commands

func loadStageCmd(catalog flow.Catalog, req flow.Request) tea.Cmd {
	return func() tea.Msg {
		res, err := flow.Load(context.Background(), catalog, req)
		if err != nil {
			message := flow.FailureMessage(req.Stage)
			var loadErr *flow.LoadError
			if errors.As(err, &loadErr) {
				message = loadErr.Message()
			}
			return model.StageLoadFailedMsg{Seq: req.Seq, Message: message, Err: err}
		}

		switch req.Stage {
		case flow.StageBrand:
			return model.BrandsLoadedMsg{Seq: res.Seq, Brands: res.Brands}
		case flow.StageModel:
			return model.ModelsLoadedMsg{Seq: res.Seq, Models: res.Models}
		case flow.StageGeneration:
			return model.GenerationsLoadedMsg{Seq: res.Seq, Generations: res.Generations}
		case flow.StageFuelType:
			return model.FuelTypesLoadedMsg{Seq: res.Seq, FuelTypes: res.FuelTypes}
		case flow.StageProduct:
			return model.ProductsLoadedMsg{Seq: res.Seq, Products: res.Products}
		}
		return nil
	}
}
