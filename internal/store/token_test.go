package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch/internal/models"
	"memelaunch/pkg/api"
)

func newTokenBackend(t *testing.T, tokens map[string]models.Token, fail *atomic.Bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail != nil && fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "backend down"})
			return
		}
		switch r.URL.Path {
		case "/api/tokens":
			json.NewEncoder(w).Encode(map[string]interface{}{"tokens": tokens})
		case "/api/txs":
			json.NewEncoder(w).Encode([]models.Trade{{Time: 1700000000000, Token: "tok", Side: 1, Price: 0.5}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestTokenStoreFetchAll(t *testing.T) {
	fixtures := map[string]models.Token{
		"addrA": {Name: "Alpha", Symbol: "ALP", Decimals: 9, Supply: 1e9, Version: 1},
		"addrB": {Name: "Beta", Symbol: "BET", Decimals: 9, Supply: 1e9, Version: 1},
	}
	var fail atomic.Bool
	server := newTokenBackend(t, fixtures, &fail)
	defer server.Close()

	store := NewTokenStore(api.NewClient(server.URL))

	t.Run("Replaces Mapping", func(t *testing.T) {
		store.FetchAll(context.Background())
		require.Nil(t, store.TokensLoading().Error)
		assert.Equal(t, 2, store.Len())

		token, ok := store.Get("addrA")
		require.True(t, ok)
		assert.Equal(t, "Alpha", token.Name)
		assert.Equal(t, "addrA", token.Address, "address should come from the map key")
	})

	t.Run("Failure Keeps Existing Data", func(t *testing.T) {
		fail.Store(true)
		defer fail.Store(false)

		store.FetchAll(context.Background())

		state := store.TokensLoading()
		require.NotNil(t, state.Error)
		assert.Equal(t, http.StatusInternalServerError, state.Error.Status)
		assert.Equal(t, "backend down", state.Error.Message)
		assert.Equal(t, 2, store.Len(), "stale data should survive a failed fetch")
	})

	t.Run("Recovery Clears Error", func(t *testing.T) {
		store.FetchAll(context.Background())
		assert.Nil(t, store.TokensLoading().Error)
		assert.False(t, store.TokensLoading().IsLoading)
	})
}

func TestTokenStoreApplyPriceUpdate(t *testing.T) {
	store := NewTokenStore(api.NewClient("http://unused"))
	store.Upsert(models.Token{
		Address: "addrA",
		Name:    "Alpha",
		Symbol:  "ALP",
		Supply:  1e9,
	})

	t.Run("Merges Price Fields Only", func(t *testing.T) {
		store.ApplyPriceUpdate(models.TokenPriceUpdate{
			Token:        "addrA",
			Price:        0.00042,
			VolumeUsd:    120000,
			MarketCapUsd: 420000,
			LastUpdated:  models.FlexTime(1700000000000),
		})

		token, ok := store.Get("addrA")
		require.True(t, ok)
		assert.Equal(t, 0.00042, token.Price)
		assert.Equal(t, float64(420000), token.MarketCap)
		assert.Equal(t, float64(120000), token.Volume24h)
		assert.Equal(t, "2023-11-14T22:13:20.000Z", token.UpdatedAt)
		assert.Equal(t, "Alpha", token.Name, "non-price fields must stay untouched")
		assert.Equal(t, float64(1e9), token.Supply)
	})

	t.Run("Unknown Token Dropped", func(t *testing.T) {
		before := store.Len()
		store.ApplyPriceUpdate(models.TokenPriceUpdate{Token: "unknown", Price: 1})
		assert.Equal(t, before, store.Len())
		_, ok := store.Get("unknown")
		assert.False(t, ok)
	})

	t.Run("Missing Address Dropped", func(t *testing.T) {
		store.ApplyPriceUpdate(models.TokenPriceUpdate{Price: 1})
		assert.Equal(t, 1, store.Len())
	})
}

func TestTokenStoreUpsert(t *testing.T) {
	t.Run("New Token Gets Defaults", func(t *testing.T) {
		store := NewTokenStore(api.NewClient("http://unused"))
		store.Upsert(models.Token{Address: "addrNew"})

		token, ok := store.Get("addrNew")
		require.True(t, ok)
		assert.Equal(t, "Unknown Token", token.Name)
		assert.Equal(t, "UNK", token.Symbol)
		assert.Equal(t, 9, token.Decimals)
		assert.Equal(t, 1, token.Version)
	})

	t.Run("Supplied Fields Win Over Defaults", func(t *testing.T) {
		store := NewTokenStore(api.NewClient("http://unused"))
		store.Upsert(models.Token{Address: "addrNew", Name: "Fancy", Symbol: "FNC", Decimals: 6})

		token, ok := store.Get("addrNew")
		require.True(t, ok)
		assert.Equal(t, "Fancy", token.Name)
		assert.Equal(t, "FNC", token.Symbol)
		assert.Equal(t, 6, token.Decimals)
	})

	t.Run("Existing Token Partial Merge", func(t *testing.T) {
		store := NewTokenStore(api.NewClient("http://unused"))
		store.Upsert(models.Token{Address: "addrA", Name: "Alpha", Symbol: "ALP", Website: "https://a.example"})
		store.Upsert(models.Token{Address: "addrA", Name: "Alpha v2"})

		token, ok := store.Get("addrA")
		require.True(t, ok)
		assert.Equal(t, "Alpha v2", token.Name)
		assert.Equal(t, "ALP", token.Symbol, "zero-value fields must not clobber stored ones")
		assert.Equal(t, "https://a.example", token.Website)
		assert.Equal(t, 1, store.Len(), "upsert must never create a second record per address")
	})

	t.Run("New Tokens Prepend To Order", func(t *testing.T) {
		store := NewTokenStore(api.NewClient("http://unused"))
		store.Upsert(models.Token{Address: "first"})
		store.Upsert(models.Token{Address: "second"})

		tokens := store.Tokens()
		require.Len(t, tokens, 2)
		assert.Equal(t, "second", tokens[0].Address)
		assert.Equal(t, "first", tokens[1].Address)
	})

	t.Run("Missing Address Dropped", func(t *testing.T) {
		store := NewTokenStore(api.NewClient("http://unused"))
		store.Upsert(models.Token{Name: "Nameless"})
		assert.Equal(t, 0, store.Len())
	})
}

func TestTokenStoreFetchTrades(t *testing.T) {
	server := newTokenBackend(t, nil, nil)
	defer server.Close()

	store := NewTokenStore(api.NewClient(server.URL))
	store.FetchTrades(context.Background(), "tok")

	require.Nil(t, store.TradesLoading("tok").Error)
	trades := store.Trades("tok")
	require.Len(t, trades, 1)
	assert.Equal(t, int64(1700000000000), trades[0].Time)
}

func TestTokenStoreCreateDraft(t *testing.T) {
	t.Run("Failure Recorded And Returned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "symbol taken"})
		}))
		defer server.Close()

		store := NewTokenStore(api.NewClient(server.URL))
		_, err := store.CreateDraft(context.Background(), models.CreateTokenDraftDto{Name: "X", Symbol: "X"})
		require.Error(t, err)

		state := store.CreateLoading()
		require.NotNil(t, state.Error)
		assert.Equal(t, "symbol taken", state.Error.Message)
		assert.Equal(t, http.StatusBadRequest, state.Error.Status)
	})

	t.Run("Success Returns Address", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/tokens/draft":
				json.NewEncoder(w).Encode(models.CreateTokenDraftResponse{Success: true, Token: "mintAddr"})
			default:
				json.NewEncoder(w).Encode(map[string]interface{}{"tokens": map[string]models.Token{}})
			}
		}))
		defer server.Close()

		store := NewTokenStore(api.NewClient(server.URL))
		address, err := store.CreateDraft(context.Background(), models.CreateTokenDraftDto{Name: "X", Symbol: "X"})
		require.NoError(t, err)
		assert.Equal(t, "mintAddr", address)
		assert.Nil(t, store.CreateLoading().Error)
	})
}
