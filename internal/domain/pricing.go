package domain

import "github.com/aka-Harsh/Events-Booking-Applications/internal/money"

// PriceTier identifies which demand band produced a quote.
type PriceTier string

const (
	TierBase PriceTier = "base"
	TierHigh PriceTier = "high" // soldFraction >= 0.50
	TierPeak PriceTier = "peak" // soldFraction >= 0.80
)

// PricingQuote is a transient pricing result. It is produced fresh for every
// orchestration step and never cached: the sold fraction it was computed from may
// change between quote and commit.
type PricingQuote struct {
	BasePrice    money.Money
	UnitPrice    money.Money
	AppliedTier  PriceTier
	SoldFraction float64
}
