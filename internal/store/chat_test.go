package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch/internal/models"
	"memelaunch/pkg/api"
)

func TestChatStoreAppend(t *testing.T) {
	t.Run("Duplicates Suppressed", func(t *testing.T) {
		store := NewChatStore(api.NewClient("http://unused"))
		msg := models.ChatMessage{Token: "tok", Wallet: "w1", Message: "gm", Time: 1000}

		store.Append("tok", msg)
		store.Append("tok", msg)

		assert.Len(t, store.Messages("tok"), 1)
	})

	t.Run("Same Text Different Time Kept", func(t *testing.T) {
		store := NewChatStore(api.NewClient("http://unused"))
		store.Append("tok", models.ChatMessage{Token: "tok", Wallet: "w1", Message: "gm", Time: 1000})
		store.Append("tok", models.ChatMessage{Token: "tok", Wallet: "w1", Message: "gm", Time: 2000})

		assert.Len(t, store.Messages("tok"), 2)
	})

	t.Run("Ascending Order Maintained", func(t *testing.T) {
		store := NewChatStore(api.NewClient("http://unused"))
		store.Append("tok", models.ChatMessage{Token: "tok", Wallet: "w1", Message: "third", Time: 3000})
		store.Append("tok", models.ChatMessage{Token: "tok", Wallet: "w1", Message: "first", Time: 1000})
		store.Append("tok", models.ChatMessage{Token: "tok", Wallet: "w1", Message: "second", Time: 2000})

		messages := store.Messages("tok")
		require.Len(t, messages, 3)
		assert.Equal(t, "first", messages[0].Message)
		assert.Equal(t, "second", messages[1].Message)
		assert.Equal(t, "third", messages[2].Message)
	})

	t.Run("Logs Isolated Per Token", func(t *testing.T) {
		store := NewChatStore(api.NewClient("http://unused"))
		store.Append("tokA", models.ChatMessage{Token: "tokA", Wallet: "w1", Message: "a", Time: 1000})
		store.Append("tokB", models.ChatMessage{Token: "tokB", Wallet: "w1", Message: "b", Time: 1000})

		assert.Len(t, store.Messages("tokA"), 1)
		assert.Len(t, store.Messages("tokB"), 1)
	})
}

func TestChatStoreFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.ChatMessage{
			{Token: "tok", Wallet: "w1", Message: "late", Time: 2000},
			{Token: "tok", Wallet: "w1", Message: "early", Time: 1000},
		})
	}))
	defer server.Close()

	store := NewChatStore(api.NewClient(server.URL))
	store.Fetch(context.Background(), "tok", "")

	require.Nil(t, store.FetchLoading().Error)
	messages := store.Messages("tok")
	require.Len(t, messages, 2)
	assert.Equal(t, "early", messages[0].Message, "fetch must sort ascending by time")
}

func TestChatStoreFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "chat backend down"})
	}))
	defer server.Close()

	store := NewChatStore(api.NewClient(server.URL))
	store.Append("tok", models.ChatMessage{Token: "tok", Wallet: "w1", Message: "kept", Time: 1000})
	store.Fetch(context.Background(), "tok", "")

	state := store.FetchLoading()
	require.NotNil(t, state.Error)
	assert.Equal(t, http.StatusServiceUnavailable, state.Error.Status)
	assert.Len(t, store.Messages("tok"), 1, "failed fetch must not clear the log")
}

func TestChatStoreSend(t *testing.T) {
	t.Run("Optimistic Echo With Fresh Timestamp", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.ChatSendResponse{Result: "ok"})
		}))
		defer server.Close()

		store := NewChatStore(api.NewClient(server.URL))

		before := time.Now().UnixMilli()
		err := store.Send(context.Background(), models.ChatMessageDto{
			Token:   "tok",
			Wallet:  "w1",
			Message: "hello",
		})
		after := time.Now().UnixMilli()

		require.NoError(t, err)
		messages := store.Messages("tok")
		require.Len(t, messages, 1)
		assert.Equal(t, "hello", messages[0].Message)
		assert.GreaterOrEqual(t, messages[0].Time, before)
		assert.LessOrEqual(t, messages[0].Time, after)
		assert.Nil(t, store.SendLoading().Error)
	})

	t.Run("Failure Recorded And Returned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "send rejected"})
		}))
		defer server.Close()

		store := NewChatStore(api.NewClient(server.URL))
		err := store.Send(context.Background(), models.ChatMessageDto{
			Token:   "tok",
			Wallet:  "w1",
			Message: "hello",
		})

		require.Error(t, err)
		apiErr := api.AsAPIError(err)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "send rejected", apiErr.Message)

		state := store.SendLoading()
		require.NotNil(t, state.Error, "send failures must be visible in state")
		assert.Equal(t, "send rejected", state.Error.Message)
		assert.Empty(t, store.Messages("tok"), "failed send must not echo locally")
	})

	t.Run("Push Echo Deduplicated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.ChatSendResponse{Result: "ok"})
		}))
		defer server.Close()

		store := NewChatStore(api.NewClient(server.URL))
		require.NoError(t, store.Send(context.Background(), models.ChatMessageDto{
			Token:   "tok",
			Wallet:  "w1",
			Message: "hello",
		}))

		messages := store.Messages("tok")
		require.Len(t, messages, 1)

		// The push delivery of the same message loops back with the same
		// triple and must be suppressed.
		store.Append("tok", messages[0])
		assert.Len(t, store.Messages("tok"), 1)
	})
}
