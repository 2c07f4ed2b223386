// Package wallet is the identity boundary: the only place that touches
// private keys. Everything above it deals in addresses and signatures.
package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/types"

	"memelaunch/internal/models"
)

var (
	// ErrNotConnected is returned when a signing operation runs without a
	// connected wallet.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrSigningRejected is returned when the wallet refuses to sign.
	ErrSigningRejected = errors.New("wallet rejected signing request")
)

// Signer is the wallet surface the rest of the client depends on. Anything
// that can report an address and sign bytes qualifies; keys never cross this
// boundary.
type Signer interface {
	Connected() bool
	PublicKey() string
	SignMessage(message []byte) ([]byte, error)
}

// LocalWallet signs with an in-process Solana keypair.
type LocalWallet struct {
	account *types.Account
}

// NewLocalWallet wraps an existing keypair.
func NewLocalWallet(account *types.Account) *LocalWallet {
	return &LocalWallet{account: account}
}

// GenerateLocalWallet creates a wallet over a fresh keypair.
func GenerateLocalWallet() *LocalWallet {
	account := types.NewAccount()
	return &LocalWallet{account: &account}
}

// Connected reports whether a keypair is loaded.
func (w *LocalWallet) Connected() bool {
	return w != nil && w.account != nil
}

// PublicKey returns the wallet address in base58, or empty when disconnected.
func (w *LocalWallet) PublicKey() string {
	if !w.Connected() {
		return ""
	}
	return w.account.PublicKey.ToBase58()
}

// SignMessage signs arbitrary bytes with the wallet's ed25519 key.
func (w *LocalWallet) SignMessage(message []byte) ([]byte, error) {
	if !w.Connected() {
		return nil, ErrNotConnected
	}
	return ed25519.Sign(ed25519.PrivateKey(w.account.PrivateKey), message), nil
}

// chatSignPayload is the canonical structure a chat signature covers. Field
// order is fixed; the backend re-serializes the same structure to verify.
type chatSignPayload struct {
	Action    string `json:"action"`
	Token     string `json:"token"`
	Wallet    string `json:"wallet"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// SignChatMessage builds a signed chat write for a token. The signature is
// the wallet's ed25519 signature over the canonical payload JSON, encoded in
// standard base64.
func SignChatMessage(signer Signer, token, message string) (models.ChatMessageDto, error) {
	if signer == nil || !signer.Connected() {
		return models.ChatMessageDto{}, ErrNotConnected
	}

	timestamp := time.Now().UnixMilli()
	payload := chatSignPayload{
		Action:    "chat",
		Token:     token,
		Wallet:    signer.PublicKey(),
		Message:   message,
		Timestamp: timestamp,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return models.ChatMessageDto{}, fmt.Errorf("failed to marshal sign payload: %w", err)
	}

	signature, err := signer.SignMessage(encoded)
	if err != nil {
		if errors.Is(err, ErrNotConnected) || errors.Is(err, ErrSigningRejected) {
			return models.ChatMessageDto{}, err
		}
		return models.ChatMessageDto{}, fmt.Errorf("%w: %v", ErrSigningRejected, err)
	}

	return models.ChatMessageDto{
		Token:     token,
		Wallet:    payload.Wallet,
		Message:   message,
		Signature: base64.StdEncoding.EncodeToString(signature),
		Timestamp: timestamp,
	}, nil
}
