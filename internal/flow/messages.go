package flow

import (
	"strings"

	"autoparts/internal/model"
)

const (
	unknownFuelLabel = "Inconnu"

	msgPlateFormat      = "Format invalide. Exemple: AB123CD"
	msgPlateUnavailable = "Recherche par immatriculation indisponible"
	msgNoProducts       = "Aucun produit disponible pour ce véhicule."
	msgLoading          = "Chargement..."
)

// FailureMessage is the text shown in place of a listing that failed to load.
func FailureMessage(stage Stage) string {
	switch stage {
	case StageBrand:
		return "Impossible de charger les marques."
	case StageModel:
		return "Impossible de charger les modèles."
	case StageGeneration:
		return "Erreur lors du chargement des générations."
	case StageFuelType:
		return "Impossible de charger les types de carburant."
	case StageProduct:
		return "Impossible de charger les produits."
	}
	return ""
}

// EmptyMessage is shown when a product listing loads without results.
func EmptyMessage() string { return msgNoProducts }

// LoadingMessage is shown while a listing is in flight.
func LoadingMessage() string { return msgLoading }

// ResetLabel is the home screen action that forgets the vehicle. It is empty
// when no vehicle is selected.
func ResetLabel(v model.VehicleSelection) string {
	if v.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{v.Brand, v.Model, v.Generation, v.FuelType} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return "Réinitialiser véhicule : " + strings.Join(parts, " ")
}
