package normalize

import (
	"fmt"

	"memelaunch/internal/models"
)

// UnknownMarketCap is the sentinel returned when no market-cap signal exists
// at all. It is small and positive so sorted views can push unknowns to the
// end without treating them as zero-value tokens.
const UnknownMarketCap = 1

// MarketCap resolves a token's market cap with fallbacks: the reported value,
// then price*supply when the product is sane, then the hardcap, then the
// unknown sentinel.
func MarketCap(token models.Token) float64 {
	if token.MarketCap > 0 {
		return token.MarketCap
	}
	if token.Price > 0 && token.Supply > 0 {
		calculated := token.Price * token.Supply
		if calculated > 0 && calculated < 1e15 {
			return calculated
		}
	}
	if token.Hardcap > 0 && token.Hardcap < 1e12 {
		return token.Hardcap
	}
	return UnknownMarketCap
}

// FormatPrice renders a USD price with precision scaled to its magnitude.
func FormatPrice(price float64) string {
	switch {
	case price <= 0:
		return "$0.00"
	case price >= 1:
		return fmt.Sprintf("$%.4f", price)
	case price >= 0.001:
		return fmt.Sprintf("$%.6f", price)
	default:
		return fmt.Sprintf("$%.8f", price)
	}
}

// FormatMarketCap renders a market cap with unit suffixes. Values at or below
// the unknown sentinel render as N/A.
func FormatMarketCap(marketCap float64) string {
	switch {
	case marketCap <= UnknownMarketCap:
		return "MCap: N/A"
	case marketCap >= 1e9:
		return fmt.Sprintf("MCap: $%.1fB", marketCap/1e9)
	case marketCap >= 1e6:
		return fmt.Sprintf("MCap: $%.1fM", marketCap/1e6)
	case marketCap >= 1e3:
		return fmt.Sprintf("MCap: $%.1fK", marketCap/1e3)
	default:
		return fmt.Sprintf("MCap: $%.2f", marketCap)
	}
}
