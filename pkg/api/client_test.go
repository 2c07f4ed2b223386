package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch/internal/models"
)

func TestGetTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tokens", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": map[string]interface{}{
				"addrB": map[string]interface{}{"name": "Beta", "symbol": "BET"},
				"addrA": map[string]interface{}{"name": "Alpha", "symbol": "ALP"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	tokens, err := client.GetTokens(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tokens, 2)

	assert.Equal(t, "addrA", tokens[0].Address, "flattened list is ordered by address")
	assert.Equal(t, "Alpha", tokens[0].Name)
	assert.Equal(t, "addrB", tokens[1].Address)
}

func TestGetTokenTrades(t *testing.T) {
	t.Run("Flat Records", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"time": 1700000000000, "token": "tok", "side": 1, "price": 0.5, "tx": "sig1"},
			})
		}))
		defer server.Close()

		trades, err := NewClient(server.URL).GetTokenTrades(context.Background(), "tok")
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, "sig1", trades[0].Tx)
		assert.Equal(t, 0.5, trades[0].Price)
	})

	t.Run("Doc Wrapper Unwrapped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"_doc": map[string]interface{}{
						"token":       "tok",
						"side":        -1,
						"txSignature": "sig2",
						"slot":        250000001,
						"txTimestamp": 1700000000001,
						"priceSol":    0.25,
					},
				},
			})
		}))
		defer server.Close()

		trades, err := NewClient(server.URL).GetTokenTrades(context.Background(), "tok")
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, "sig2", trades[0].Tx)
		assert.Equal(t, int64(250000001), trades[0].Block)
		assert.Equal(t, int64(1700000000001), trades[0].Time)
		assert.Equal(t, 0.25, trades[0].Price)
		assert.Equal(t, -1, trades[0].Side)
	})
}

func TestAPIErrorFromStatus(t *testing.T) {
	t.Run("Message Body Parsed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			json.NewEncoder(w).Encode(map[string]string{"message": "very specific failure"})
		}))
		defer server.Close()

		_, err := NewClient(server.URL).GetTokens(context.Background(), nil)
		require.Error(t, err)

		apiErr := AsAPIError(err)
		assert.Equal(t, http.StatusTeapot, apiErr.Status)
		assert.Equal(t, "very specific failure", apiErr.Message)
	})

	t.Run("Error Body Parsed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "wallet is required"})
		}))
		defer server.Close()

		_, err := NewClient(server.URL).GetUserProfile(context.Background(), "")
		require.Error(t, err)
		assert.Equal(t, "wallet is required", AsAPIError(err).Message)
	})

	t.Run("Bare Status Gets Default Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).GetTokens(context.Background(), nil)
		require.Error(t, err)

		apiErr := AsAPIError(err)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
		assert.Contains(t, apiErr.Message, "502")
	})

	t.Run("Transport Failure Has Zero Status", func(t *testing.T) {
		_, err := NewClient("http://127.0.0.1:1").GetTokens(context.Background(), nil)
		require.Error(t, err)
		assert.Zero(t, AsAPIError(err).Status)
	})
}

func TestAsAPIError(t *testing.T) {
	original := &APIError{Message: "kept", Status: 404}
	assert.Same(t, original, AsAPIError(original))

	wrapped := AsAPIError(assert.AnError)
	assert.Zero(t, wrapped.Status)
	assert.NotEmpty(t, wrapped.Message)
}

func TestUploadMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.UploadRequestDto
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Metadata)
		json.NewEncoder(w).Encode(models.UploadResponseDto{Status: "ok", URL: "https://meta.example/1.json"})
	}))
	defer server.Close()

	url, err := NewClient(server.URL).UploadMetadata(context.Background(), map[string]string{"name": "X"})
	require.NoError(t, err)
	assert.Equal(t, "https://meta.example/1.json", url)
}
