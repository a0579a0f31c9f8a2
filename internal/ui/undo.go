package ui

import (
	"context"

	"autoparts/internal/model"
)

type undoAction struct {
	label string
	undo  func() error
	redo  func() error
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = nil
}

// forgetVehicleHistory drops undo entries once a new vehicle has been saved,
// so an old reset cannot be replayed over it.
func (m *Model) forgetVehicleHistory() {
	m.undoStack = nil
	m.redoStack = nil
}

// undo applies the last action's inverse. Actions only touch the selection
// store, so they run on the event loop.
func (m *Model) undo() {
	if len(m.undoStack) == 0 {
		m.info = "Rien à annuler"
		return
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	if err := action.undo(); err != nil {
		m.log.Error(context.Background(), "undo failed", err)
		m.error = err.Error()
		return
	}
	m.redoStack = append(m.redoStack, action)
	m.info = "Annulé : " + action.label
}

func (m *Model) redo() {
	if len(m.redoStack) == 0 {
		m.info = "Rien à rétablir"
		return
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	if err := action.redo(); err != nil {
		m.log.Error(context.Background(), "redo failed", err)
		m.error = err.Error()
		return
	}
	m.undoStack = append(m.undoStack, action)
	m.info = "Rétabli : " + action.label
}

func (m *Model) buildResetVehicleAction(prev model.VehicleSelection) undoAction {
	ctrl := m.ctrl
	return undoAction{
		label: "réinitialisation du véhicule",
		undo: func() error {
			return ctrl.RestoreVehicle(prev)
		},
		redo: func() error {
			ctrl.ResetVehicle()
			return nil
		},
	}
}
