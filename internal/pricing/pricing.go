// Package pricing computes demand-sensitive ticket prices. Quote is a pure
// function of its inputs so tier behavior can be tested without any state.
package pricing

import (
	"fmt"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

// Tier thresholds over the sold fraction, evaluated highest first so the
// steeper surcharge wins at a boundary.
const (
	peakThreshold = 0.80
	highThreshold = 0.50

	peakSurchargePct = 20
	highSurchargePct = 10
)

// Quote maps a base price and a sold fraction to a unit price. The sold
// fraction must be the ledger state from before the reservation being priced:
// the buyer who tips an event over a threshold still pays the pre-threshold
// price, and the next buyer pays the new tier.
func Quote(basePrice money.Money, soldFraction float64) (domain.PricingQuote, error) {
	if !basePrice.IsPositive() {
		return domain.PricingQuote{}, fmt.Errorf("%w: base price %s must be positive", domain.ErrInvalidPricingInput, basePrice)
	}
	if soldFraction < 0 || soldFraction > 1 {
		return domain.PricingQuote{}, fmt.Errorf("%w: sold fraction %v outside [0,1]", domain.ErrInvalidPricingInput, soldFraction)
	}

	quote := domain.PricingQuote{
		BasePrice:    basePrice,
		SoldFraction: soldFraction,
	}

	switch {
	case soldFraction >= peakThreshold:
		quote.AppliedTier = domain.TierPeak
		quote.UnitPrice = basePrice.ApplyPercent(peakSurchargePct)
	case soldFraction >= highThreshold:
		quote.AppliedTier = domain.TierHigh
		quote.UnitPrice = basePrice.ApplyPercent(highSurchargePct)
	default:
		quote.AppliedTier = domain.TierBase
		quote.UnitPrice = basePrice
	}

	return quote, nil
}
