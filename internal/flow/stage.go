package flow

// Stage is a step of the selection funnel.
type Stage int

const (
	StageHome Stage = iota
	StageSubProduct
	StageBrand
	StageModel
	StageGeneration
	StageFuelType
	StageProduct
)

func (s Stage) String() string {
	switch s {
	case StageHome:
		return "Accueil"
	case StageSubProduct:
		return "Sous-produit"
	case StageBrand:
		return "Marque"
	case StageModel:
		return "Modèle"
	case StageGeneration:
		return "Génération"
	case StageFuelType:
		return "Carburant"
	case StageProduct:
		return "Produits"
	}
	return "Inconnu"
}

// Fetches reports whether entering the stage loads a listing from the catalog.
func (s Stage) Fetches() bool {
	switch s {
	case StageBrand, StageModel, StageGeneration, StageFuelType, StageProduct:
		return true
	}
	return false
}

// Paged reports whether the stage listing is split into pages.
func (s Stage) Paged() bool {
	return s == StageBrand || s == StageModel
}

// Params are the navigation parameters carried from one stage to the next.
// Zero values mean "not carried".
type Params struct {
	BrandID        int64
	BrandName      string
	ModelID        int64
	ModelName      string
	GenerationID   int64
	GenerationName string
	FuelTypeID     int64
	FuelTypeName   string
	Brand          string
	Model          string
	Generation     string
}
