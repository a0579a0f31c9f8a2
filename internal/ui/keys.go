package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for nav mode.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Select       key.Binding
	Back         key.Binding
	Home         key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding
	Filter       key.Binding
	Plate        key.Binding
	ResetVehicle key.Binding
	Undo         key.Binding
	Redo         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "haut"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "bas"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "choisir"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc", "h", "left"),
			key.WithHelp("b/esc", "retour"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "accueil"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n", "page suivante"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p", "page précédente"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filtrer"),
		),
		Plate: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "immatriculation"),
		),
		ResetVehicle: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "réinitialiser véhicule"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "annuler"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "rétablir"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "aide"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quitter"),
		),
	}
}

// InputKeyMap defines keybindings while a text field has focus.
type InputKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultInputKeyMap returns the default text field keybindings.
func DefaultInputKeyMap() InputKeyMap {
	return InputKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "valider"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "annuler"),
		),
	}
}
