package model

// Bubble Tea message types

// BrandsLoadedMsg is sent when the brand listing is loaded.
type BrandsLoadedMsg struct {
	Seq    int
	Brands []Brand
}

// ModelsLoadedMsg is sent when the models of a brand are loaded.
type ModelsLoadedMsg struct {
	Seq    int
	Models []VehicleModel
}

// GenerationsLoadedMsg is sent when the generations of a model are loaded.
type GenerationsLoadedMsg struct {
	Seq         int
	Generations []Generation
}

// FuelTypesLoadedMsg is sent when the fuel types of a generation are loaded.
type FuelTypesLoadedMsg struct {
	Seq       int
	FuelTypes []FuelType
}

// ProductsLoadedMsg is sent when compatible products are loaded.
type ProductsLoadedMsg struct {
	Seq      int
	Products []Product
}

// StageLoadFailedMsg is sent when a stage fetch fails. Message is the
// shopper-facing text shown in place of the list.
type StageLoadFailedMsg struct {
	Seq     int
	Message string
	Err     error
}
