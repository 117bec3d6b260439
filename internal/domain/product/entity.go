package product

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrVariantNotFound = errors.New("product variant not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
)

type Variant struct {
	ID         uuid.UUID
	Name       string
	PriceCents *int64
	Stock      int32
}

type Product struct {
	id         uuid.UUID
	name       string
	slug       string
	priceCents int64
	stock      int32
	state      State
	variants   []Variant
}

func ReconstructProduct(id uuid.UUID, name, slug string, priceCents int64, stock int32, state State, variants []Variant) *Product {
	return &Product{
		id:         id,
		name:       name,
		slug:       slug,
		priceCents: priceCents,
		stock:      stock,
		state:      state,
		variants:   variants,
	}
}

func (p *Product) ID() uuid.UUID      { return p.id }
func (p *Product) Name() string       { return p.name }
func (p *Product) Slug() string       { return p.slug }
func (p *Product) PriceCents() int64  { return p.priceCents }
func (p *Product) Stock() int32       { return p.stock }
func (p *Product) State() State       { return p.state }
func (p *Product) Variants() []Variant { return p.variants }

func (p *Product) IsActive() bool {
	return p.state == StateActive
}

func (p *Product) FindVariant(variantID uuid.UUID) (Variant, bool) {
	for _, v := range p.variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}

// UnitPriceCentsFor returns the snapshot price for a cart line: the variant
// price when the variant defines one, the product price otherwise.
func (p *Product) UnitPriceCentsFor(variantID *uuid.UUID) (int64, error) {
	if variantID == nil {
		return p.priceCents, nil
	}
	v, ok := p.FindVariant(*variantID)
	if !ok {
		return 0, ErrVariantNotFound
	}
	if v.PriceCents != nil {
		return *v.PriceCents, nil
	}
	return p.priceCents, nil
}

// AvailableStockFor returns the live stock for the product or the given
// variant.
func (p *Product) AvailableStockFor(variantID *uuid.UUID) (int32, error) {
	if variantID == nil {
		return p.stock, nil
	}
	v, ok := p.FindVariant(*variantID)
	if !ok {
		return 0, ErrVariantNotFound
	}
	return v.Stock, nil
}

// StockCheck is the result of an advisory, point-in-time availability read.
// It is not a reservation: stock can change between this check and any
// later write, and callers re-verify at mutation time.
type StockCheck struct {
	Available      bool
	AvailableStock int32
	Reason         string
}

// CheckStock verifies that the requested quantity is available right now.
func (p *Product) CheckStock(quantity int32, variantID *uuid.UUID) (StockCheck, error) {
	if quantity < 1 {
		return StockCheck{}, ErrInvalidQuantity
	}

	if !p.IsActive() {
		return StockCheck{Available: false, AvailableStock: 0, Reason: "product unavailable"}, nil
	}

	stock, err := p.AvailableStockFor(variantID)
	if err != nil {
		return StockCheck{}, err
	}

	if stock < quantity {
		reason := "out of stock"
		if stock > 0 {
			reason = "insufficient stock"
		}
		return StockCheck{Available: false, AvailableStock: stock, Reason: reason}, nil
	}

	return StockCheck{Available: true, AvailableStock: stock}, nil
}
