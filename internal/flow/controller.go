package flow

import (
	"context"
	"fmt"
	"slices"

	"autoparts/internal/logging"
	"autoparts/internal/model"
)

// SelectionStore is the part of the selection store the controller drives.
type SelectionStore interface {
	Vehicle() model.VehicleSelection
	Product() model.ProductSelection
	SetVehicle(brand, vehicleModel, generation, fuelType string, fuelTypeID int64) error
	ClearVehicle()
	SetCategory(category model.ProductCategory) error
	SetSubProduct(label string) bool
	ClearProduct()
}

type entry struct {
	stage  Stage
	params Params
}

// Controller is the selection funnel state machine. It is not safe for
// concurrent use; the UI event loop owns it.
type Controller struct {
	store   SelectionStore
	log     *logging.Logger
	current entry
	history []entry
	seq     int
}

// NewController starts the funnel on the home stage.
func NewController(store SelectionStore, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	c := &Controller{store: store, log: log}
	c.Home()
	return c
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage { return c.current.stage }

// Params returns the parameters the current stage was entered with.
func (c *Controller) Params() Params { return c.current.params }

// Seq identifies the current navigation entry. It changes on every transition.
func (c *Controller) Seq() int { return c.seq }

// Vehicle returns the persisted vehicle selection.
func (c *Controller) Vehicle() model.VehicleSelection { return c.store.Vehicle() }

// Product returns the persisted product selection.
func (c *Controller) Product() model.ProductSelection { return c.store.Product() }

// Home returns to the home stage, clears the product choice and forgets the
// navigation history.
func (c *Controller) Home() {
	c.store.ClearProduct()
	c.history = nil
	c.current = entry{stage: StageHome}
	c.seq++
}

// CanGoBack reports whether Back would change the stage.
func (c *Controller) CanGoBack() bool { return len(c.history) > 0 }

// Back returns to the previous stage with the parameters it had. It reports
// false at the start of the history.
func (c *Controller) Back() bool {
	if len(c.history) == 0 {
		return false
	}
	prev := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	if prev.stage == StageHome {
		c.store.ClearProduct()
	}
	c.current = prev
	c.seq++
	return true
}

func (c *Controller) push(stage Stage, params Params) {
	c.history = append(c.history, c.current)
	c.current = entry{stage: stage, params: params}
	c.seq++
	c.log.Debug(c.log.WithField(context.Background(), "stage", stage.String()), "funnel transition")
}

func (c *Controller) expect(stage Stage) error {
	if c.current.stage != stage {
		return fmt.Errorf("%w: at %s, expected %s", ErrWrongStage, c.current.stage, stage)
	}
	return nil
}

// afterCategory routes to the product listing when the vehicle is known and
// to the brand listing otherwise.
func (c *Controller) afterCategory() {
	if c.store.Vehicle().IsComplete() {
		c.push(StageProduct, Params{})
		return
	}
	c.push(StageBrand, Params{})
}

// PickCategory selects a category on the home stage.
func (c *Controller) PickCategory(category model.ProductCategory) error {
	if err := c.expect(StageHome); err != nil {
		return err
	}
	if err := c.store.SetCategory(category); err != nil {
		return err
	}
	if category.HasSubOptions() {
		c.push(StageSubProduct, Params{})
		return nil
	}
	c.afterCategory()
	return nil
}

// SubOptions lists the sub-products of the selected category.
func (c *Controller) SubOptions() []string {
	meta, _ := c.store.Product().Product.Metadata()
	return meta.SubOptions
}

// PickSubProduct records one of the category's sub-products.
func (c *Controller) PickSubProduct(label string) error {
	if err := c.expect(StageSubProduct); err != nil {
		return err
	}
	if !slices.Contains(c.SubOptions(), label) {
		return fmt.Errorf("%w: %q", ErrUnknownSubOption, label)
	}
	if !c.store.SetSubProduct(label) {
		return fmt.Errorf("%w: %q", ErrUnknownSubOption, label)
	}
	c.afterCategory()
	return nil
}

// PickBrand moves to the models of brand.
func (c *Controller) PickBrand(brand model.Brand) error {
	if err := c.expect(StageBrand); err != nil {
		return err
	}
	c.push(StageModel, Params{BrandID: brand.ID, BrandName: brand.Name})
	return nil
}

// PickModel moves to the generations of m.
func (c *Controller) PickModel(m model.VehicleModel) error {
	if err := c.expect(StageModel); err != nil {
		return err
	}
	c.push(StageGeneration, Params{
		ModelID:   m.ID,
		ModelName: m.Name,
		BrandName: c.current.params.BrandName,
	})
	return nil
}

// PickGeneration moves to the fuel types of g.
func (c *Controller) PickGeneration(g model.Generation) error {
	if err := c.expect(StageGeneration); err != nil {
		return err
	}
	p := c.current.params
	c.push(StageFuelType, Params{
		GenerationID:   g.ID,
		GenerationName: g.Name,
		ModelName:      p.ModelName,
		BrandName:      p.BrandName,
	})
	return nil
}

// PickFuelType commits the vehicle and moves to the product listing. Names
// carried on the fuel type record win over the navigation parameters. If the
// store rejects the vehicle the stage is unchanged.
func (c *Controller) PickFuelType(f model.FuelType) error {
	if err := c.expect(StageFuelType); err != nil {
		return err
	}
	p := c.current.params
	brand := firstNonEmpty(deref(f.Brand), p.BrandName)
	vehicleModel := firstNonEmpty(deref(f.Model), p.ModelName)
	generation := firstNonEmpty(deref(f.Generation), p.GenerationName)
	fuel := firstNonEmpty(f.Label, unknownFuelLabel)

	if err := c.store.SetVehicle(brand, vehicleModel, generation, fuel, f.ID); err != nil {
		return err
	}
	c.push(StageProduct, Params{
		Brand:        brand,
		Model:        vehicleModel,
		Generation:   generation,
		FuelTypeID:   f.ID,
		FuelTypeName: fuel,
	})
	return nil
}

// EffectiveVehicle merges the stored vehicle with the navigation parameters,
// field by field, the store taking precedence.
func (c *Controller) EffectiveVehicle() model.VehicleSelection {
	v := c.store.Vehicle()
	p := c.current.params
	return model.VehicleSelection{
		Brand:      firstNonEmpty(v.Brand, p.Brand),
		Model:      firstNonEmpty(v.Model, p.Model),
		Generation: firstNonEmpty(v.Generation, p.Generation),
		FuelType:   firstNonEmpty(v.FuelType, p.FuelTypeName),
		FuelTypeID: firstNonZero(v.FuelTypeID, p.FuelTypeID),
	}
}

// ProductQuery resolves the arguments of the product listing.
func (c *Controller) ProductQuery() (fuelTypeID int64, category model.ProductCategory) {
	return c.EffectiveVehicle().FuelTypeID, c.store.Product().Product
}

// ResetVehicle forgets the vehicle and returns what was selected.
func (c *Controller) ResetVehicle() model.VehicleSelection {
	prev := c.store.Vehicle()
	c.store.ClearVehicle()
	return prev
}

// RestoreVehicle selects v again after a reset.
func (c *Controller) RestoreVehicle(v model.VehicleSelection) error {
	return c.store.SetVehicle(v.Brand, v.Model, v.Generation, v.FuelType, v.FuelTypeID)
}

// Request snapshots what the current stage needs to load.
func (c *Controller) Request() Request {
	req := Request{Stage: c.current.stage, Params: c.current.params, Seq: c.seq}
	if req.Stage == StageProduct {
		req.FuelTypeID, req.Category = c.ProductQuery()
	}
	return req
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
