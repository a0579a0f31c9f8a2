package flow

import (
	"context"

	"autoparts/internal/model"
)

// Catalog is the read side of the catalog API.
type Catalog interface {
	Brands(ctx context.Context) ([]model.Brand, error)
	Models(ctx context.Context, brandID int64) ([]model.VehicleModel, error)
	Generations(ctx context.Context, modelID int64) ([]model.Generation, error)
	FuelTypes(ctx context.Context, generationID int64) ([]model.FuelType, error)
	CompatibleProducts(ctx context.Context, fuelTypeID int64, category model.ProductCategory) ([]model.Product, error)
}

// Request is an immutable snapshot of a stage fetch.
type Request struct {
	Stage      Stage
	Params     Params
	FuelTypeID int64
	Category   model.ProductCategory
	Seq        int
}

// Result is the listing loaded for a Request. Only the field of the
// request's stage is set.
type Result struct {
	Stage       Stage
	Seq         int
	Brands      []model.Brand
	Models      []model.VehicleModel
	Generations []model.Generation
	FuelTypes   []model.FuelType
	Products    []model.Product
}

// Load performs the fetch of req. A product listing without a category or a
// fuel type is empty, not an error. Failures come back as *LoadError.
func Load(ctx context.Context, catalog Catalog, req Request) (Result, error) {
	res := Result{Stage: req.Stage, Seq: req.Seq}
	var err error

	switch req.Stage {
	case StageBrand:
		res.Brands, err = catalog.Brands(ctx)
	case StageModel:
		res.Models, err = catalog.Models(ctx, req.Params.BrandID)
	case StageGeneration:
		res.Generations, err = catalog.Generations(ctx, req.Params.ModelID)
	case StageFuelType:
		res.FuelTypes, err = catalog.FuelTypes(ctx, req.Params.GenerationID)
	case StageProduct:
		if req.Category == "" || req.FuelTypeID == 0 {
			res.Products = []model.Product{}
			return res, nil
		}
		res.Products, err = catalog.CompatibleProducts(ctx, req.FuelTypeID, req.Category)
	default:
		return res, nil
	}

	if err != nil {
		return Result{Stage: req.Stage, Seq: req.Seq}, &LoadError{Stage: req.Stage, Err: err}
	}
	return res, nil
}
