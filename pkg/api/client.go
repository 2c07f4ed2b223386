package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"memelaunch/internal/models"
)

// DefaultBaseURL is the production launchpad backend.
const DefaultBaseURL = "https://launch.meme"

// APIError represents a failed gateway call. Status is the HTTP status code,
// or 0 when the request never reached the HTTP layer.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// Info converts the error into the form stores keep in their loading state.
func (e *APIError) Info() *models.ErrorInfo {
	return &models.ErrorInfo{Message: e.Message, Status: e.Status}
}

// AsAPIError coerces any error into an *APIError, preserving status when the
// error already is one.
func AsAPIError(err error) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return &APIError{Message: err.Error()}
}

// Client wraps outbound HTTP calls to the launchpad backend behind typed
// methods. The API is POST-heavy: every endpoint takes a JSON body.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client for the given base URL. An empty base
// URL selects the production backend.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:       10 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// post sends a JSON body and decodes the JSON response into out. Non-2xx
// responses become an *APIError carrying the HTTP status and, when the
// backend supplies one, its error message.
func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to marshal request payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		var errBody struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			if json.Unmarshal(data, &errBody) == nil {
				if errBody.Message != "" {
					message = errBody.Message
				} else if errBody.Error != "" {
					message = errBody.Error
				}
			}
		}
		return &APIError{Message: message, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}

// TokenListFilters is accepted by GetTokens. The backend currently ignores
// filters; the type exists so the request body stays an object.
type TokenListFilters struct{}

// GetTokens fetches the full token list. The backend returns a mapping from
// address to token fields; the address is injected from the map key, and the
// result is ordered by address so repeated fetches iterate identically.
func (c *Client) GetTokens(ctx context.Context, filters *TokenListFilters) ([]models.Token, error) {
	if filters == nil {
		filters = &TokenListFilters{}
	}

	var resp struct {
		Tokens map[string]models.Token `json:"tokens"`
	}
	if err := c.post(ctx, "/api/tokens", filters, &resp); err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(resp.Tokens))
	for address := range resp.Tokens {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	tokens := make([]models.Token, 0, len(addresses))
	for _, address := range addresses {
		token := resp.Tokens[address]
		token.Address = address
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// tradeEnvelope tolerates the backend's document-wrapper shape: some trades
// arrive flat, some arrive with the record nested under _doc plus a handful
// of renamed top-level fields.
type tradeEnvelope struct {
	models.Trade
	Doc *struct {
		models.Trade
		TxSignature string  `json:"txSignature"`
		Slot        int64   `json:"slot"`
		TxTimestamp int64   `json:"txTimestamp"`
		PriceSol    float64 `json:"priceSol"`
	} `json:"_doc"`
}

// GetTokenTrades fetches the trade history for one token.
func (c *Client) GetTokenTrades(ctx context.Context, token string) ([]models.Trade, error) {
	var envelopes []tradeEnvelope
	if err := c.post(ctx, "/api/txs", map[string]string{"token": token}, &envelopes); err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(envelopes))
	for _, env := range envelopes {
		if env.Doc == nil {
			trades = append(trades, env.Trade)
			continue
		}
		trade := env.Doc.Trade
		if trade.Tx == "" {
			trade.Tx = env.Tx
		}
		if trade.Tx == "" {
			trade.Tx = env.Doc.TxSignature
		}
		if trade.Block == 0 {
			trade.Block = env.Block
		}
		if trade.Block == 0 {
			trade.Block = env.Doc.Slot
		}
		if trade.Time == 0 {
			trade.Time = env.Time
		}
		if trade.Time == 0 {
			trade.Time = env.Doc.TxTimestamp
		}
		if trade.Price == 0 {
			trade.Price = env.Price
		}
		if trade.Price == 0 {
			trade.Price = env.Doc.PriceSol
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// GetChatMessages bulk-loads the message log for a token. The wallet is
// optional and lets the backend mark the caller's own messages.
func (c *Client) GetChatMessages(ctx context.Context, token, wallet string) ([]models.ChatMessage, error) {
	payload := map[string]string{"token": token}
	if wallet != "" {
		payload["wallet"] = wallet
	}

	var messages []models.ChatMessage
	if err := c.post(ctx, "/api/chat", payload, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendChatMessage persists a signed chat message.
func (c *Client) SendChatMessage(ctx context.Context, dto models.ChatMessageDto) (*models.ChatSendResponse, error) {
	var resp models.ChatSendResponse
	if err := c.post(ctx, "/api/chat", dto, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateTokenDraft registers token metadata server-side before the mint
// transaction is generated.
func (c *Client) CreateTokenDraft(ctx context.Context, dto models.CreateTokenDraftDto) (*models.CreateTokenDraftResponse, error) {
	var resp models.CreateTokenDraftResponse
	if err := c.post(ctx, "/api/tokens/draft", dto, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateTokenTransaction asks the backend to build the mint transaction for
// the caller's wallet.
func (c *Client) GenerateTokenTransaction(ctx context.Context, dto models.GenerateTokenTxDto) (*models.GenerateTokenTxResponse, error) {
	var resp models.GenerateTokenTxResponse
	if err := c.post(ctx, "/api/generate-token-tx", dto, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUserProfile fetches the profile for a wallet. An empty wallet asks the
// backend to resolve the authenticated caller.
func (c *Client) GetUserProfile(ctx context.Context, wallet string) (*models.UserProfile, error) {
	payload := map[string]string{}
	if wallet != "" {
		payload["wallet"] = wallet
	}

	var profile models.UserProfile
	if err := c.post(ctx, "/api/profile", payload, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateUserProfile writes profile fields and returns the stored profile.
func (c *Client) UpdateUserProfile(ctx context.Context, dto models.ProfileDto) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.post(ctx, "/api/profile", dto, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserPortfolio fetches the holdings summary for a wallet.
func (c *Client) GetUserPortfolio(ctx context.Context, wallet string) (*models.Portfolio, error) {
	payload := map[string]string{}
	if wallet != "" {
		payload["wallet"] = wallet
	}

	var portfolio models.Portfolio
	if err := c.post(ctx, "/api/portfolio", payload, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// UploadFile pushes a base64-encoded file and/or a metadata JSON string to
// the pinning endpoint.
func (c *Client) UploadFile(ctx context.Context, dto models.UploadRequestDto) (*models.UploadResponseDto, error) {
	var resp models.UploadResponseDto
	if err := c.post(ctx, "/api/upload", dto, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadMetadata pins a metadata object and returns its URL.
func (c *Client) UploadMetadata(ctx context.Context, metadata interface{}) (string, error) {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return "", &APIError{Message: fmt.Sprintf("failed to marshal metadata: %v", err)}
	}

	resp, err := c.UploadFile(ctx, models.UploadRequestDto{Metadata: string(encoded)})
	if err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", &APIError{Message: "no metadata url returned from upload"}
	}
	return resp.URL, nil
}

// ClaimReward marks one reward claimed for the caller's wallet.
func (c *Client) ClaimReward(ctx context.Context, id string) error {
	return c.post(ctx, "/api/rewards/claim", map[string]string{"id": id}, nil)
}

// GetRewards fetches one page of the rewards listing.
func (c *Client) GetRewards(ctx context.Context, offset, limit int) (*models.RewardsPage, error) {
	payload := map[string]int{"offset": offset, "limit": limit}

	var page models.RewardsPage
	if err := c.post(ctx, "/api/rewards", payload, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
