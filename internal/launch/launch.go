// Package launch drives the token creation workflow: pin assets, register
// the draft, then have the backend build the mint transaction.
package launch

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
	"memelaunch/internal/store"
	"memelaunch/pkg/api"
	"memelaunch/pkg/wallet"
)

// ErrInvalidParams is returned when launch parameters fail validation before
// any backend call happens.
var ErrInvalidParams = errors.New("invalid launch parameters")

// Params describes the token to launch. Name and Symbol are required; the
// image is optional and supplied base64-encoded.
type Params struct {
	Name        string
	Symbol      string
	Description string
	ImageBase64 string
	Website     string
	X           string
	Telegram    string
	Supply      float64
	Hardcap     float64
	// FirstBuyAmount is an optional dev buy bundled into the mint
	// transaction, in SOL.
	FirstBuyAmount float64
}

// tokenMetadata is the object pinned as the token's off-chain metadata.
type tokenMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Website     string `json:"website,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
}

// Result is a completed launch: the assigned mint and the transaction to
// sign and submit.
type Result struct {
	Mint              string
	SignedTxBase64    string
	Draft             string
	MetadataURI       string
}

// Launcher runs launches against the gateway using the caller's wallet.
type Launcher struct {
	api    *api.Client
	tokens *store.TokenStore
	signer wallet.Signer
}

// NewLauncher wires a launcher. The token store is used for draft
// registration so launch results show up in the local mapping.
func NewLauncher(client *api.Client, tokens *store.TokenStore, signer wallet.Signer) *Launcher {
	return &Launcher{api: client, tokens: tokens, signer: signer}
}

// Launch runs the full workflow. Draft registration failures are non-fatal:
// the mint transaction is what creates the token, the draft only front-loads
// its metadata. Upload and transaction-generation failures abort.
func (l *Launcher) Launch(ctx context.Context, params Params) (*Result, error) {
	if params.Name == "" || params.Symbol == "" {
		return nil, fmt.Errorf("%w: name and symbol are required", ErrInvalidParams)
	}
	if l.signer == nil || !l.signer.Connected() {
		return nil, wallet.ErrNotConnected
	}

	pubkey := l.signer.PublicKey()
	if _, err := solana.PublicKeyFromBase58(pubkey); err != nil {
		return nil, fmt.Errorf("%w: invalid wallet address %q", ErrInvalidParams, pubkey)
	}

	supply := params.Supply
	if supply <= 0 {
		supply = 1e9
	}

	// Pin the image first so the metadata can reference it.
	var photo string
	if params.ImageBase64 != "" {
		resp, err := l.api.UploadFile(ctx, models.UploadRequestDto{File: params.ImageBase64})
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		photo = resp.Photo
		if photo == "" {
			photo = resp.URL
		}
	}

	metadataURI, err := l.api.UploadMetadata(ctx, tokenMetadata{
		Name:        params.Name,
		Symbol:      params.Symbol,
		Description: params.Description,
		Image:       photo,
		Website:     params.Website,
		Twitter:     params.X,
		Telegram:    params.Telegram,
	})
	if err != nil {
		return nil, fmt.Errorf("metadata upload failed: %w", err)
	}

	draft, err := l.tokens.CreateDraft(ctx, models.CreateTokenDraftDto{
		Name:        params.Name,
		Symbol:      params.Symbol,
		Description: params.Description,
		Decimals:    9,
		Supply:      supply,
		Photo:       photo,
		MetadataURI: metadataURI,
		Hardcap:     params.Hardcap,
		Website:     params.Website,
		X:           params.X,
		Telegram:    params.Telegram,
		Version:     1,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"symbol": params.Symbol,
			"error":  err.Error(),
		}).Warn("Draft registration failed, continuing with launch")
	}

	txResp, err := l.tokens.GenerateTransaction(ctx, models.GenerateTokenTxDto{
		TokenName:      params.Name,
		TokenSymbol:    params.Symbol,
		MetadataURI:    metadataURI,
		UserPubkey:     pubkey,
		FirstBuyAmount: params.FirstBuyAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("transaction generation failed: %w", err)
	}
	if !txResp.Success || txResp.SignedTransactionBase64 == "" {
		return nil, fmt.Errorf("backend returned no mint transaction")
	}

	log.WithFields(log.Fields{
		"symbol": params.Symbol,
		"mint":   txResp.TokenMint,
	}).Info("Launch transaction generated")

	return &Result{
		Mint:           txResp.TokenMint,
		SignedTxBase64: txResp.SignedTransactionBase64,
		Draft:          draft,
		MetadataURI:    metadataURI,
	}, nil
}
