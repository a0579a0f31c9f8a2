package ui

import (
	"testing"

	"autoparts/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestListScreenCursorStaysOnPage(t *testing.T) {
	brands := make([]model.Brand, 13)
	for i := range brands {
		brands[i] = model.Brand{ID: int64(i + 1), Name: "B"}
	}
	s := newListScreen(brands, true, brandLabel)

	for range 20 {
		s.MoveDown()
	}
	assert.Equal(t, 11, s.cursor)

	assert.True(t, s.NextPage())
	assert.Equal(t, 0, s.cursor)
	s.MoveDown()
	assert.Equal(t, 0, s.cursor)

	b, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(13), b.ID)
}

func TestListScreenEmpty(t *testing.T) {
	s := newListScreen([]model.Generation{}, false, generationLabel)

	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Contains(t, s.View(80, false, "Aucune génération"), "Aucune génération")
}

func TestFuelTypeLabelFallsBack(t *testing.T) {
	assert.Equal(t, "Inconnu", fuelTypeLabel(model.FuelType{ID: 1}))
	assert.Equal(t, "Diesel", fuelTypeLabel(model.FuelType{ID: 1, Label: "Diesel"}))
}
