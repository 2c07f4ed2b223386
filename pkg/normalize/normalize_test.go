package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch/internal/models"
)

func TestTimestamp(t *testing.T) {
	t.Run("Valid Millis Pass Through", func(t *testing.T) {
		assert.Equal(t, int64(1700000000000), Timestamp(int64(1700000000000)))
		assert.Equal(t, int64(1700000000000), Timestamp(float64(1700000000000)))
		assert.Equal(t, int64(1700000000000), Timestamp(models.FlexTime(1700000000000)))
	})

	t.Run("Numeric String", func(t *testing.T) {
		assert.Equal(t, int64(1700000000000), Timestamp("1700000000000"))
	})

	t.Run("Date String", func(t *testing.T) {
		expected := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
		assert.Equal(t, expected, Timestamp("2024-06-01T12:00:00Z"))
	})

	t.Run("Invalid Inputs Fall Back To Now", func(t *testing.T) {
		inputs := []interface{}{
			nil,
			"not a date",
			int64(-5),
			int64(0),
			MaxTimestampMillis + 1,
			struct{}{},
		}
		for _, input := range inputs {
			before := time.Now().UnixMilli()
			got := Timestamp(input)
			after := time.Now().UnixMilli()
			assert.GreaterOrEqual(t, got, before, "input %v", input)
			assert.LessOrEqual(t, got, after, "input %v", input)
		}
	})

	t.Run("Result Always In Range", func(t *testing.T) {
		inputs := []interface{}{
			int64(1), int64(1700000000000), MaxTimestampMillis,
			"garbage", nil, int64(-1), MaxTimestampMillis * 2,
		}
		for _, input := range inputs {
			got := Timestamp(input)
			assert.Greater(t, got, int64(0), "input %v", input)
			assert.LessOrEqual(t, got, int64(MaxTimestampMillis), "input %v", input)
		}
	})
}

func TestTimestampString(t *testing.T) {
	got := TimestampString(int64(1700000000000))
	assert.Equal(t, "2023-11-14T22:13:20.000Z", got)
}

func TestEstimateChange(t *testing.T) {
	tokens := []models.Token{
		{Address: "addr1", Symbol: "AAA", Volume24h: 500000, MarketCap: 2000000},
		{Address: "addr2", Symbol: "BBB", Volume24h: 80000},
		{Address: "addr3", Symbol: "CCC", MarketCap: 50000},
		{Address: "addr4", Symbol: "DDD"},
		{Address: "addr5"},
	}

	t.Run("Normal Bounds", func(t *testing.T) {
		for i, token := range tokens {
			est := EstimateChange(token, i, false)
			assert.GreaterOrEqual(t, est.Value, float64(-80))
			assert.LessOrEqual(t, est.Value, float64(200))
		}
	})

	t.Run("Top Gainer Bounds", func(t *testing.T) {
		for i, token := range tokens {
			est := EstimateChange(token, i, true)
			assert.GreaterOrEqual(t, est.Value, float64(15))
			assert.LessOrEqual(t, est.Value, float64(400))
			assert.True(t, est.IsPositive)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		for i, token := range tokens {
			first := EstimateChange(token, i, false)
			second := EstimateChange(token, i, false)
			assert.Equal(t, first, second)
		}
	})

	t.Run("Formatting", func(t *testing.T) {
		est := EstimateChange(tokens[0], 0, true)
		require.True(t, est.IsPositive)
		assert.Regexp(t, `^\+\d+\.\d{2}%$`, est.Percentage)
	})
}

func TestMarketCap(t *testing.T) {
	t.Run("Reported Value Wins", func(t *testing.T) {
		token := models.Token{MarketCap: 42000, Price: 1, Supply: 1000}
		assert.Equal(t, float64(42000), MarketCap(token))
	})

	t.Run("Price Times Supply", func(t *testing.T) {
		token := models.Token{Price: 0.0001, Supply: 1e9}
		assert.InDelta(t, 100000, MarketCap(token), 0.001)
	})

	t.Run("Absurd Product Falls Through To Hardcap", func(t *testing.T) {
		token := models.Token{Price: 1e9, Supply: 1e9, Hardcap: 85}
		assert.Equal(t, float64(85), MarketCap(token))
	})

	t.Run("Unknown Sentinel", func(t *testing.T) {
		assert.Equal(t, float64(UnknownMarketCap), MarketCap(models.Token{}))
	})
}

func TestFormatMarketCap(t *testing.T) {
	assert.Equal(t, "MCap: N/A", FormatMarketCap(UnknownMarketCap))
	assert.Equal(t, "MCap: $2.5B", FormatMarketCap(2.5e9))
	assert.Equal(t, "MCap: $1.2M", FormatMarketCap(1.2e6))
	assert.Equal(t, "MCap: $45.0K", FormatMarketCap(45000))
}
