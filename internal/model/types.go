package model

import "github.com/shopspring/decimal"

// Brand represents a vehicle manufacturer from the catalog.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VehicleModel represents a model of a brand.
type VehicleModel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Generation represents a generation of a vehicle model.
type Generation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FuelType represents an engine variant of a generation. The catalog sometimes
// repeats the ancestor names on the record.
type FuelType struct {
	ID         int64   `json:"id"`
	Label      string  `json:"fuel"`
	Brand      *string `json:"brand,omitempty"`
	Model      *string `json:"model,omitempty"`
	Generation *string `json:"generation,omitempty"`
}

// Product is a part compatible with a vehicle, as returned for one query.
type Product struct {
	ID    int64
	Name  string
	Brand string
	Image string
	Price decimal.Decimal
	Specs []string
}

// VehicleSelection is the persisted vehicle choice. Empty strings and a zero
// FuelTypeID mean "not selected".
type VehicleSelection struct {
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Generation string `json:"generation"`
	FuelType   string `json:"fuelType"`
	FuelTypeID int64  `json:"fuelTypeId"`
}

// IsComplete reports whether every field is set.
func (v VehicleSelection) IsComplete() bool {
	return v.Brand != "" && v.Model != "" && v.Generation != "" && v.FuelType != "" && v.FuelTypeID != 0
}

// IsEmpty reports whether no field is set.
func (v VehicleSelection) IsEmpty() bool {
	return v == VehicleSelection{}
}

// ProductSelection is the persisted category choice.
type ProductSelection struct {
	Product    ProductCategory `json:"product"`
	SubProduct string          `json:"subProduct"`
}

// ProductCategory is a top-level product grouping chosen on the home screen.
type ProductCategory string

const (
	CategoryWipers      ProductCategory = "balais"
	CategoryLighting    ProductCategory = "eclairage"
	CategoryBatteries   ProductCategory = "batteries"
	CategoryEngineOil   ProductCategory = "huiles-moteur"
	CategoryFilters     ProductCategory = "filtres"
	CategoryWasherFluid ProductCategory = "lave-glaces"
	CategoryCoolant     ProductCategory = "liquide-refroidissement"
)

// Categories lists every category in home screen order.
var Categories = []ProductCategory{
	CategoryWipers,
	CategoryLighting,
	CategoryBatteries,
	CategoryEngineOil,
	CategoryFilters,
	CategoryWasherFluid,
	CategoryCoolant,
}

// CategoryMetadata holds the display data attached to a category.
type CategoryMetadata struct {
	DisplayName string
	ImageRef    string
	SubOptions  []string
}

// Metadata returns the display data of c. ok is false for unknown categories.
func (c ProductCategory) Metadata() (meta CategoryMetadata, ok bool) {
	switch c {
	case CategoryWipers:
		return CategoryMetadata{DisplayName: "Balais essuie glace"}, true
	case CategoryLighting:
		return CategoryMetadata{DisplayName: "Éclairage"}, true
	case CategoryBatteries:
		return CategoryMetadata{DisplayName: "Batteries"}, true
	case CategoryEngineOil:
		return CategoryMetadata{
			DisplayName: "Huiles moteur",
			ImageRef:    "huile-diag.jpg",
			SubOptions:  []string{"Vidange", "Appoint"},
		}, true
	case CategoryFilters:
		return CategoryMetadata{
			DisplayName: "Filtres et accessoires",
			ImageRef:    "filtres-accessoires.jpg",
			SubOptions:  []string{"Joints et bouchons", "Filtres à huile"},
		}, true
	case CategoryWasherFluid:
		return CategoryMetadata{DisplayName: "Lave-glaces"}, true
	case CategoryCoolant:
		return CategoryMetadata{DisplayName: "Liquide de refroidissement"}, true
	}
	return CategoryMetadata{}, false
}

// Valid reports whether c is a known category.
func (c ProductCategory) Valid() bool {
	_, ok := c.Metadata()
	return ok
}

// HasSubOptions reports whether choosing c leads to the sub-product screen.
func (c ProductCategory) HasSubOptions() bool {
	meta, _ := c.Metadata()
	return len(meta.SubOptions) > 0
}

// DisplayName returns the shopper-facing label, or the raw key when unknown.
func (c ProductCategory) DisplayName() string {
	if meta, ok := c.Metadata(); ok {
		return meta.DisplayName
	}
	return string(c)
}
