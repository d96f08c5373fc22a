package pricing

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/modulolabs/bizmanage-backend/internal/models"
)

// ErrInvalidLineItem marks validation failures so handlers can answer 400
// instead of treating bad input as a store failure.
var ErrInvalidLineItem = errors.New("invalid line item")

var validate = validator.New()

var hundred = decimal.NewFromInt(100)

// Totals is the pricing breakdown for one order. Values are kept as
// decimals so that Total equals Subtotal plus TaxAmount exactly; they are
// rounded to currency precision only when written onto the order.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// Breakdown returns the monetary fields as stored on an order, rounded to
// 2 decimal places. The stored total is the sum of the rounded subtotal
// and tax, not a separately rounded value; rounding the three fields
// independently could leave them off by a cent from each other.
func (t Totals) Breakdown() (subtotal, taxAmount, discountAmount, total float64) {
	roundedSubtotal := t.Subtotal.Round(2)
	roundedTax := t.TaxAmount.Round(2)
	return roundedSubtotal.InexactFloat64(),
		roundedTax.InexactFloat64(),
		t.DiscountAmount.Round(2).InexactFloat64(),
		roundedSubtotal.Add(roundedTax).InexactFloat64()
}

// Apply writes the breakdown onto an order.
func (t Totals) Apply(order *models.Order) {
	order.Subtotal, order.TaxAmount, order.DiscountAmount, order.Total = t.Breakdown()
}

// lineAmounts computes one item's breakdown:
// base = quantity * unitPrice, discount off the base, tax on the remainder.
func lineAmounts(item models.LineItem) (taxable, discount, tax decimal.Decimal) {
	base := decimal.NewFromInt(int64(item.Quantity)).Mul(decimal.NewFromFloat(item.UnitPrice))
	discount = base.Mul(decimal.NewFromFloat(item.Discount)).Div(hundred)
	taxable = base.Sub(discount)
	tax = taxable.Mul(decimal.NewFromFloat(item.Tax)).Div(hundred)
	return taxable, discount, tax
}

// LineNet is the item's contribution to the order subtotal: the discounted,
// pre-tax amount. Analytics derives product revenue from this instead of
// trusting the stored Subtotal field.
func LineNet(item models.LineItem) decimal.Decimal {
	taxable, _, _ := lineAmounts(item)
	return taxable
}

// Validate rejects line items the calculator cannot price sensibly:
// quantity < 1, negative unit price, or percentages outside [0,100].
func Validate(items []models.LineItem) error {
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			return fmt.Errorf("%w at index %d: %v", ErrInvalidLineItem, i, err)
		}
	}
	return nil
}

// Price validates the items, fills each item's Subtotal and returns the
// order totals. It is a pure function of its input: no I/O, no clock, and
// identical input always yields identical output. An empty item list prices
// to all zeros.
func Price(items []models.LineItem) ([]models.LineItem, Totals, error) {
	if err := Validate(items); err != nil {
		return nil, Totals{}, err
	}

	totals := Totals{
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
	}

	priced := make([]models.LineItem, len(items))
	for i, item := range items {
		taxable, discount, tax := lineAmounts(item)
		item.Subtotal = taxable.Round(2).InexactFloat64()
		priced[i] = item

		totals.Subtotal = totals.Subtotal.Add(taxable)
		totals.DiscountAmount = totals.DiscountAmount.Add(discount)
		totals.TaxAmount = totals.TaxAmount.Add(tax)
	}
	totals.Total = totals.Subtotal.Add(totals.TaxAmount)

	return priced, totals, nil
}
