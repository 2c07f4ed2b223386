package normalize

import (
	"fmt"
	"hash/fnv"
	"math"

	"memelaunch/internal/models"
)

// ChangeEstimate is a display-only percentage-change figure. No real price
// history feed exists, so it is derived heuristically from volume and market
// cap. It is NOT market data and must never be presented as such.
type ChangeEstimate struct {
	Percentage string
	Value      float64
	IsPositive bool
}

// EstimateChange derives a display percentage change for a token. The inputs
// are proxies: volume/market-cap ratio when both exist, then log-scaled
// volume, then inverse-scaled market cap (smaller cap reads as more
// volatile), then a hash of the symbol and list index. Results clamp to
// [-80%, 200%], or [15%, 400%] under top-gainer framing. Deterministic for a
// given token and index so the figure is stable between refreshes.
func EstimateChange(token models.Token, index int, topGainer bool) ChangeEstimate {
	var change float64

	switch {
	case token.Volume24h > 0 && token.MarketCap > 0:
		volumeRatio := token.Volume24h / token.MarketCap
		if topGainer {
			change = math.Min(volumeRatio*150+25, 300)
		} else {
			change = (volumeRatio - 0.1) * 150
		}
	case token.Volume24h > 0:
		volumeChange := math.Log10(math.Max(1, token.Volume24h/10000))
		if topGainer {
			change = math.Max(25, volumeChange*40)
		} else {
			change = (volumeChange - 1) * 25
		}
	case token.MarketCap > 0:
		mcapVolatility := math.Max(0.1, 1000000/math.Max(1000, token.MarketCap))
		if topGainer {
			change = math.Max(20, mcapVolatility*60)
		} else {
			change = (pseudoUnit(token.Address, token.Symbol, "mcap") - 0.5) * mcapVolatility * 30
		}
	default:
		var lead int
		if token.Symbol != "" {
			lead = int(token.Symbol[0])
		}
		seed := float64((lead + index) % 100)
		if topGainer {
			change = 30 + (seed/100)*120
		} else {
			change = (seed/50 - 1) * 15
		}
	}

	// Bounded jitter so adjacent tokens do not read identically.
	jitter := pseudoUnit(token.Address, token.Symbol, fmt.Sprintf("jitter-%d", index))
	if topGainer {
		change += jitter * 20
	} else {
		change += (jitter - 0.5) * 10
	}

	if topGainer {
		change = math.Max(15, math.Min(400, change))
	} else {
		change = math.Max(-80, math.Min(200, change))
	}

	positive := change >= 0
	sign := ""
	if positive {
		sign = "+"
	}
	return ChangeEstimate{
		Percentage: fmt.Sprintf("%s%.2f%%", sign, change),
		Value:      change,
		IsPositive: positive,
	}
}

// pseudoUnit hashes its parts into a stable value in [0, 1).
func pseudoUnit(parts ...string) float64 {
	h := fnv.New32a()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return float64(h.Sum32()%1000) / 1000
}
