package launch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch/internal/models"
	"memelaunch/internal/store"
	"memelaunch/pkg/api"
	"memelaunch/pkg/wallet"
)

type launchBackend struct {
	failDraft    bool
	failUpload   bool
	failGenerate bool

	draftCalled bool
	lastTxDto   models.GenerateTokenTxDto
}

func (b *launchBackend) serve(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/upload":
			if b.failUpload {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": "pinning failed"})
				return
			}
			var req models.UploadRequestDto
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			resp := models.UploadResponseDto{Status: "ok"}
			if req.File != "" {
				resp.Photo = "https://cdn.example/img.png"
			}
			if req.Metadata != "" {
				resp.URL = "https://meta.example/t.json"
			}
			json.NewEncoder(w).Encode(resp)
		case "/api/tokens/draft":
			b.draftCalled = true
			if b.failDraft {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"message": "draft rejected"})
				return
			}
			json.NewEncoder(w).Encode(models.CreateTokenDraftResponse{Success: true, Token: "draftAddr"})
		case "/api/generate-token-tx":
			if b.failGenerate {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": "tx build failed"})
				return
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&b.lastTxDto))
			json.NewEncoder(w).Encode(models.GenerateTokenTxResponse{
				Success:                 true,
				SignedTransactionBase64: "dHJhbnNhY3Rpb24=",
				TokenMint:               "mintAddr",
			})
		case "/api/tokens":
			json.NewEncoder(w).Encode(map[string]interface{}{"tokens": map[string]models.Token{}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newLauncher(serverURL string, signer wallet.Signer) *Launcher {
	client := api.NewClient(serverURL)
	return NewLauncher(client, store.NewTokenStore(client), signer)
}

func TestLaunch(t *testing.T) {
	t.Run("Full Workflow", func(t *testing.T) {
		backend := &launchBackend{}
		server := backend.serve(t)
		defer server.Close()

		signer := wallet.GenerateLocalWallet()
		launcher := newLauncher(server.URL, signer)

		result, err := launcher.Launch(context.Background(), Params{
			Name:        "Giga Frog",
			Symbol:      "GFROG",
			ImageBase64: "aW1hZ2U=",
		})
		require.NoError(t, err)

		assert.Equal(t, "mintAddr", result.Mint)
		assert.Equal(t, "dHJhbnNhY3Rpb24=", result.SignedTxBase64)
		assert.Equal(t, "draftAddr", result.Draft)
		assert.Equal(t, "https://meta.example/t.json", result.MetadataURI)
		assert.Equal(t, signer.PublicKey(), backend.lastTxDto.UserPubkey)
		assert.Equal(t, "https://meta.example/t.json", backend.lastTxDto.MetadataURI)
	})

	t.Run("Draft Failure Is Non Fatal", func(t *testing.T) {
		backend := &launchBackend{failDraft: true}
		server := backend.serve(t)
		defer server.Close()

		launcher := newLauncher(server.URL, wallet.GenerateLocalWallet())
		result, err := launcher.Launch(context.Background(), Params{Name: "X", Symbol: "X"})
		require.NoError(t, err)

		assert.True(t, backend.draftCalled)
		assert.Empty(t, result.Draft)
		assert.Equal(t, "mintAddr", result.Mint)
	})

	t.Run("Upload Failure Aborts", func(t *testing.T) {
		backend := &launchBackend{failUpload: true}
		server := backend.serve(t)
		defer server.Close()

		launcher := newLauncher(server.URL, wallet.GenerateLocalWallet())
		_, err := launcher.Launch(context.Background(), Params{Name: "X", Symbol: "X"})
		require.Error(t, err)
		assert.False(t, backend.draftCalled, "nothing past the failed upload should run")
	})

	t.Run("Generate Failure Aborts", func(t *testing.T) {
		backend := &launchBackend{failGenerate: true}
		server := backend.serve(t)
		defer server.Close()

		launcher := newLauncher(server.URL, wallet.GenerateLocalWallet())
		_, err := launcher.Launch(context.Background(), Params{Name: "X", Symbol: "X"})
		require.Error(t, err)
	})

	t.Run("Missing Name Rejected", func(t *testing.T) {
		launcher := newLauncher("http://unused", wallet.GenerateLocalWallet())
		_, err := launcher.Launch(context.Background(), Params{Symbol: "X"})
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("Disconnected Wallet Rejected", func(t *testing.T) {
		launcher := newLauncher("http://unused", nil)
		_, err := launcher.Launch(context.Background(), Params{Name: "X", Symbol: "X"})
		assert.ErrorIs(t, err, wallet.ErrNotConnected)
	})
}
