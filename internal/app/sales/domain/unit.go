package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a product unit of measure. Prices are stored per base unit and
// stock is tracked in the base unit.
type Unit string

const (
	UnitPiece    Unit = "unidad"
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "gramos"
)

// gramsPerKilogram is the only conversion factor in the system; scale
// readings arrive in kilograms.
var gramsPerKilogram = decimal.NewFromInt(1000)

// ParseUnit normalizes the unit spellings that appear in legacy rows
// ("kilo", "u", "gramo", ...) into the canonical values.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unidad", "unidades", "u":
		return UnitPiece, true
	case "kg", "kilo", "kilogramo":
		return UnitKilogram, true
	case "g", "gr", "gramo", "gramos":
		return UnitGram, true
	}
	return "", false
}

// Weighable reports whether quantities in this unit come off the scale.
func (u Unit) Weighable() bool {
	return u == UnitKilogram || u == UnitGram
}

// CompatibleWith reports whether a quantity in u can be converted to base.
// Piece counts never convert to weights and vice versa.
func (u Unit) CompatibleWith(base Unit) bool {
	if u == base {
		return true
	}
	return u.Weighable() && base.Weighable()
}

// ConvertQuantity converts qty expressed in from-units into to-units.
func ConvertQuantity(qty float64, from, to Unit) (float64, error) {
	if !from.CompatibleWith(to) {
		return 0, ErrUnitMismatch
	}
	switch {
	case from == to:
		return qty, nil
	case from == UnitKilogram && to == UnitGram:
		return qty * 1000, nil
	case from == UnitGram && to == UnitKilogram:
		return qty / 1000, nil
	}
	return qty, nil
}

// ConvertPrice converts a per-base-unit price into a per-unit price.
// A product priced per kilogram costs a thousandth of that per gram.
func ConvertPrice(price decimal.Decimal, base, to Unit) (decimal.Decimal, error) {
	if !base.CompatibleWith(to) {
		return decimal.Zero, ErrUnitMismatch
	}
	switch {
	case base == to:
		return price, nil
	case base == UnitKilogram && to == UnitGram:
		return price.Div(gramsPerKilogram), nil
	case base == UnitGram && to == UnitKilogram:
		return price.Mul(gramsPerKilogram), nil
	}
	return price, nil
}
