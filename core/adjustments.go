package core

import (
	"github.com/shopspring/decimal"
)

var (
	// nonSMEPriceFactor loads non-SME prices by 10%.
	nonSMEPriceFactor = decimal.RequireFromString("1.10")

	// nationalPriceFactor loads the competitive part of a national bid by 10%
	// before the national-content discount.
	nationalPriceFactor = decimal.RequireFromString("1.10")
)

// SMEEffectivePrice returns the submitted price for SME bidders and the price
// loaded by 10% for everyone else.
func SMEEffectivePrice(price float64, isSME bool) decimal.Decimal {
	priceDecimal := toDecimal(price)
	if isSME {
		return priceDecimal
	}
	return priceDecimal.Mul(nonSMEPriceFactor)
}

// CompetitivePrice is the part of a national bid open to competition: the
// submitted price less the mandatory items. It may be negative.
func CompetitivePrice(price, mandatoryItemsValue float64) decimal.Decimal {
	return toDecimal(price).Sub(toDecimal(mandatoryItemsValue))
}

// NationalShare returns national / (national + foreign) as a fraction. With no
// products priced at all the share is zero.
func NationalShare(nationalProductsValue, foreignProductsValue float64) decimal.Decimal {
	national := toDecimal(nationalProductsValue)
	total := national.Add(toDecimal(foreignProductsValue))
	return scaledRatio(national, decimal.NewFromInt(1), total)
}

// NationalSharePercent is NationalShare expressed out of 100.
func NationalSharePercent(nationalProductsValue, foreignProductsValue float64) decimal.Decimal {
	national := toDecimal(nationalProductsValue)
	total := national.Add(toDecimal(foreignProductsValue))
	return scaledRatio(national, hundred, total)
}

// NationalEffectivePrice returns competitive × 1.10 × (1 − nationalShare).
//
// When products are priced, (1 − share) is evaluated as foreign / total so the
// division happens last; 1 − 60000/90000 would otherwise leave a repeating
// remainder in an amount that is exactly 1/3.
func NationalEffectivePrice(competitive decimal.Decimal, nationalProductsValue, foreignProductsValue float64) decimal.Decimal {
	loaded := competitive.Mul(nationalPriceFactor)

	foreign := toDecimal(foreignProductsValue)
	total := toDecimal(nationalProductsValue).Add(foreign)
	if total.IsZero() {
		return loaded
	}
	return loaded.Mul(foreign).Div(total)
}

// NationalAwardPrice adds the mandatory items back onto the effective price.
func NationalAwardPrice(effective decimal.Decimal, mandatoryItemsValue float64) decimal.Decimal {
	return effective.Add(toDecimal(mandatoryItemsValue))
}
