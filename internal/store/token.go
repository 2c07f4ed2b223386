// Package store holds the client's in-memory state: the token mapping, chat
// logs, user data and rewards. Stores are explicitly constructed and
// dependency-injected; every store serializes access with its own mutex since
// REST fetches and the realtime reader run on different goroutines. All
// external mutation goes through the documented methods.
package store

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
	"memelaunch/pkg/api"
	"memelaunch/pkg/normalize"
)

// Defaults filled in when an upsert has to construct a record from an
// incomplete event. Every stored token has all required fields populated.
const (
	defaultTokenName   = "Unknown Token"
	defaultTokenSymbol = "UNK"
	defaultDecimals    = 9
	defaultVersion     = 1
)

// TokenStore is the authoritative in-memory mapping from token address to
// token record. Exactly one record exists per address; records are mutated in
// place by price updates, mint upserts and local writes, and are never
// deleted for the life of the process.
type TokenStore struct {
	mu  sync.RWMutex
	api *api.Client

	tokens map[string]*models.Token
	// order preserves insertion order for stable iteration. It carries no
	// semantic meaning; display order is always derived.
	order []string

	trades map[string][]models.Trade

	tokensLoading models.LoadingState
	tradesLoading map[string]models.LoadingState
	createLoading models.LoadingState
}

// NewTokenStore creates an empty token store backed by the given gateway.
func NewTokenStore(client *api.Client) *TokenStore {
	return &TokenStore{
		api:           client,
		tokens:        make(map[string]*models.Token),
		trades:        make(map[string][]models.Trade),
		tradesLoading: make(map[string]models.LoadingState),
	}
}

// FetchAll loads the full token list and replaces the entire mapping on
// success. Failures leave the existing mapping untouched: stale-but-present
// beats empty. Concurrent calls are not serialized; both complete and the
// later write wins wholesale. There is no staleness guard, so a slow response
// can overwrite newer push-event state.
func (s *TokenStore) FetchAll(ctx context.Context) {
	s.mu.Lock()
	s.tokensLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	tokens, err := s.api.GetTokens(ctx, nil)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"error":  apiErr.Message,
			"status": apiErr.Status,
		}).Error("Failed to fetch token list")

		s.mu.Lock()
		s.tokensLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return
	}

	mapping := make(map[string]*models.Token, len(tokens))
	order := make([]string, 0, len(tokens))
	for i := range tokens {
		token := tokens[i]
		if _, exists := mapping[token.Address]; exists {
			continue
		}
		mapping[token.Address] = &token
		order = append(order, token.Address)
	}

	s.mu.Lock()
	s.tokens = mapping
	s.order = order
	s.tokensLoading = models.LoadingState{}
	s.mu.Unlock()

	log.WithField("count", len(order)).Debug("Token list replaced")
}

// ApplyPriceUpdate merges a push price event into the matching record. Only
// price, market cap, 24h volume and the update timestamp are touched. Updates
// for unknown addresses are dropped: first insertion is the mint event's job.
func (s *TokenStore) ApplyPriceUpdate(evt models.TokenPriceUpdate) {
	if evt.Token == "" {
		log.Warn("Price update missing token address, dropping")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[evt.Token]
	if !ok {
		log.WithField("token", evt.Token).Debug("Price update for unknown token, dropping")
		return
	}

	token.Price = evt.Price
	token.MarketCap = evt.MarketCapUsd
	token.Volume24h = evt.VolumeUsd
	token.UpdatedAt = normalize.TimestampString(evt.LastUpdated)
}

// Upsert inserts or updates a record keyed by address. For an existing
// record, supplied (non-zero) fields win over stored ones. For a new record,
// required fields are first filled with defaults so the stored token is
// always complete, then supplied fields are merged over them. New tokens are
// prepended to iteration order.
func (s *TokenStore) Upsert(partial models.Token) {
	if partial.Address == "" {
		log.Warn("Upsert without token address, dropping")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.tokens[partial.Address]; ok {
		mergeToken(existing, partial)
		return
	}

	token := models.Token{
		Address:  partial.Address,
		Name:     defaultTokenName,
		Symbol:   defaultTokenSymbol,
		Decimals: defaultDecimals,
		Version:  defaultVersion,
	}
	mergeToken(&token, partial)

	s.tokens[partial.Address] = &token
	s.order = append([]string{partial.Address}, s.order...)

	log.WithFields(log.Fields{
		"token":  token.Address,
		"symbol": token.Symbol,
	}).Info("New token added")
}

// mergeToken copies every supplied (non-zero) field of src over dst.
func mergeToken(dst *models.Token, src models.Token) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Symbol != "" {
		dst.Symbol = src.Symbol
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Decimals != 0 {
		dst.Decimals = src.Decimals
	}
	if src.Supply != 0 {
		dst.Supply = src.Supply
	}
	if src.Photo != "" {
		dst.Photo = src.Photo
	}
	if src.MetadataURI != "" {
		dst.MetadataURI = src.MetadataURI
	}
	if src.Hardcap != 0 {
		dst.Hardcap = src.Hardcap
	}
	if src.Website != "" {
		dst.Website = src.Website
	}
	if src.X != "" {
		dst.X = src.X
	}
	if src.Telegram != "" {
		dst.Telegram = src.Telegram
	}
	if src.Version != 0 {
		dst.Version = src.Version
	}
	if src.CreatedAt != 0 {
		dst.CreatedAt = src.CreatedAt
	}
	if src.MintTime != 0 {
		dst.MintTime = src.MintTime
	}
	if src.MarketCap != 0 {
		dst.MarketCap = src.MarketCap
	}
	if src.Price != 0 {
		dst.Price = src.Price
	}
	if src.Volume24h != 0 {
		dst.Volume24h = src.Volume24h
	}
	if src.Holders != 0 {
		dst.Holders = src.Holders
	}
	if src.UpdatedAt != "" {
		dst.UpdatedAt = src.UpdatedAt
	}
}

// FetchTrades loads the trade history for one token. Loading state is
// tracked per address; results are kept until Reset.
func (s *TokenStore) FetchTrades(ctx context.Context, address string) {
	s.mu.Lock()
	s.tradesLoading[address] = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	trades, err := s.api.GetTokenTrades(ctx, address)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"token": address,
			"error": apiErr.Message,
		}).Error("Failed to fetch token trades")

		s.mu.Lock()
		s.tradesLoading[address] = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.trades[address] = trades
	s.tradesLoading[address] = models.LoadingState{}
	s.mu.Unlock()
}

// CreateDraft registers a token draft server-side and returns the assigned
// address. A failure is recorded and returned but is expected to be treated
// as non-fatal by launch flows. On success the token list is refreshed in the
// background.
func (s *TokenStore) CreateDraft(ctx context.Context, dto models.CreateTokenDraftDto) (string, error) {
	s.mu.Lock()
	s.createLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	resp, err := s.api.CreateTokenDraft(ctx, dto)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"symbol": dto.Symbol,
			"error":  apiErr.Message,
		}).Warn("Token draft creation failed")

		s.mu.Lock()
		s.createLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return "", apiErr
	}

	s.mu.Lock()
	s.createLoading = models.LoadingState{}
	s.mu.Unlock()

	go s.FetchAll(context.Background())

	return resp.Token, nil
}

// GenerateTransaction asks the backend to build the mint transaction. Errors
// propagate to the caller unchanged: launch flows gate on them.
func (s *TokenStore) GenerateTransaction(ctx context.Context, dto models.GenerateTokenTxDto) (*models.GenerateTokenTxResponse, error) {
	return s.api.GenerateTokenTransaction(ctx, dto)
}

// Tokens returns a snapshot of all records in iteration order.
func (s *TokenStore) Tokens() []models.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := make([]models.Token, 0, len(s.order))
	for _, address := range s.order {
		if token, ok := s.tokens[address]; ok {
			tokens = append(tokens, *token)
		}
	}
	return tokens
}

// Get returns one record by address.
func (s *TokenStore) Get(address string) (models.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[address]
	if !ok {
		return models.Token{}, false
	}
	return *token, true
}

// Len reports the number of stored records.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// Trades returns the cached trade history for one token.
func (s *TokenStore) Trades(address string) []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := s.trades[address]
	out := make([]models.Trade, len(trades))
	copy(out, trades)
	return out
}

// TokensLoading reports the state of the last FetchAll.
func (s *TokenStore) TokensLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokensLoading
}

// TradesLoading reports the state of the last FetchTrades for one address.
func (s *TokenStore) TradesLoading(address string) models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tradesLoading[address]
}

// CreateLoading reports the state of the last CreateDraft.
func (s *TokenStore) CreateLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createLoading
}

// ClearErrors drops recorded errors without touching data.
func (s *TokenStore) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokensLoading.Error = nil
	s.createLoading.Error = nil
	for address, state := range s.tradesLoading {
		state.Error = nil
		s.tradesLoading[address] = state
	}
}

// Reset drops all state.
func (s *TokenStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = make(map[string]*models.Token)
	s.order = nil
	s.trades = make(map[string][]models.Trade)
	s.tokensLoading = models.LoadingState{}
	s.tradesLoading = make(map[string]models.LoadingState)
	s.createLoading = models.LoadingState{}
}
