// Package view derives presentation slices from the token store: category
// buckets, market-cap ordering and the top-gainers board. Views are computed
// from snapshots and never mutate store state.
package view

import (
	"sort"
	"time"

	"memelaunch/internal/models"
	"memelaunch/pkg/normalize"
)

// Category is one bucket of the token browser.
type Category string

const (
	CategoryMCap     Category = "mcap"
	CategoryHot      Category = "hot"
	CategoryNew      Category = "new"
	CategoryListings Category = "listings"
)

// newTokenWindow is how long after mint a token counts as new.
const newTokenWindow = 30 * 24 * time.Hour

// Categorize assigns a token to a bucket. Signal-based rules run first; when
// a token has no usable signal, the index-modulo fallbacks spread the list
// across buckets so no bucket renders empty. Every token lands somewhere;
// CategoryMCap is the catch-all.
func Categorize(token models.Token, index int) Category {
	switch {
	case token.Volume24h > 100000,
		token.Volume24h == 0 && token.MarketCap > 1000000,
		index%3 == 0:
		return CategoryHot
	}

	mintedAt := int64(token.MintTime)
	if mintedAt == 0 {
		mintedAt = int64(token.CreatedAt)
	}
	cutoff := time.Now().Add(-newTokenWindow).UnixMilli()
	if (mintedAt > 0 && mintedAt >= cutoff) || index%4 == 1 {
		return CategoryNew
	}

	if token.Website != "" || token.Telegram != "" || token.X != "" || index%5 == 2 {
		return CategoryListings
	}

	return CategoryMCap
}

// ByCategory splits a token slice into buckets, preserving relative order.
func ByCategory(tokens []models.Token) map[Category][]models.Token {
	buckets := make(map[Category][]models.Token)
	for i, token := range tokens {
		category := Categorize(token, i)
		buckets[category] = append(buckets[category], token)
	}
	return buckets
}

// CategoryCounts reports the bucket sizes for a token slice.
func CategoryCounts(tokens []models.Token) map[Category]int {
	counts := make(map[Category]int)
	for i, token := range tokens {
		counts[Categorize(token, i)]++
	}
	return counts
}

// SortByMarketCap orders tokens by resolved market cap descending. Tokens
// whose market cap resolves to the unknown sentinel sort after every token
// with a real figure, regardless of magnitude.
func SortByMarketCap(tokens []models.Token) []models.Token {
	out := make([]models.Token, len(tokens))
	copy(out, tokens)

	sort.SliceStable(out, func(i, j int) bool {
		a := normalize.MarketCap(out[i])
		b := normalize.MarketCap(out[j])
		aKnown := a > normalize.UnknownMarketCap
		bKnown := b > normalize.UnknownMarketCap
		if aKnown != bKnown {
			return aKnown
		}
		return a > b
	})
	return out
}

// Gainer pairs a token with its estimated change under top-gainer framing.
type Gainer struct {
	Token  models.Token
	Change normalize.ChangeEstimate
}

// TopGainers returns up to count tokens ranked by estimated change
// descending. The estimates use the top-gainer bounds, so every entry reads
// positive.
func TopGainers(tokens []models.Token, count int) []Gainer {
	gainers := make([]Gainer, 0, len(tokens))
	for i, token := range tokens {
		gainers = append(gainers, Gainer{
			Token:  token,
			Change: normalize.EstimateChange(token, i, true),
		})
	}

	sort.SliceStable(gainers, func(i, j int) bool {
		return gainers[i].Change.Value > gainers[j].Change.Value
	})

	if count > 0 && len(gainers) > count {
		gainers = gainers[:count]
	}
	return gainers
}
