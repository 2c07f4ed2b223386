package realtime

import (
	"fmt"
	"strings"
	"time"

	"memelaunch/internal/models"
)

// Channels published by the backend.
const (
	// ChannelTokenUpdates carries price updates for all tokens.
	ChannelTokenUpdates = "meteora-tokenUpdates"
	// ChannelMintTokens announces newly minted tokens.
	ChannelMintTokens = "meteora-mintTokens"
	// ChatChannelPrefix prefixes the per-token chat channels.
	ChatChannelPrefix = "chat-"
)

// ChatChannel returns the chat channel name for a token address.
func ChatChannel(address string) string {
	return ChatChannelPrefix + address
}

// mintPayload is the mint announcement as published. Field names drifted
// between backend versions, so several carry an alternate spelling; the
// accessors below resolve the fallback chains.
type mintPayload struct {
	Token       string          `json:"token"`
	Address     string          `json:"address"`
	Name        string          `json:"name"`
	TokenName   string          `json:"tokenName"`
	Symbol      string          `json:"symbol"`
	TokenSymbol string          `json:"tokenSymbol"`
	Description string          `json:"description"`
	Decimals    int             `json:"decimals"`
	Supply      float64         `json:"supply"`
	TotalSupply float64         `json:"totalSupply"`
	Photo       string          `json:"photo"`
	Image       string          `json:"image"`
	MetadataURI string          `json:"metadataUri"`
	Hardcap     float64         `json:"hardcap"`
	Website     string          `json:"website"`
	Twitter     string          `json:"twitter"`
	X           string          `json:"x"`
	Telegram    string          `json:"telegram"`
	MintTime    models.FlexTime `json:"mint_time"`
	CreatedAt   models.FlexTime `json:"createdAt"`
}

func (p *mintPayload) address() string {
	if p.Token != "" {
		return p.Token
	}
	return p.Address
}

func (p *mintPayload) name() string {
	if p.Name != "" {
		return p.Name
	}
	if p.TokenName != "" {
		return p.TokenName
	}
	short := p.address()
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Token %s...", short)
}

func (p *mintPayload) symbol() string {
	if p.Symbol != "" {
		return p.Symbol
	}
	if p.TokenSymbol != "" {
		return p.TokenSymbol
	}
	return "NEW"
}

func (p *mintPayload) supply() float64 {
	if p.Supply > 0 {
		return p.Supply
	}
	if p.TotalSupply > 0 {
		return p.TotalSupply
	}
	return 1e9
}

func (p *mintPayload) photo() string {
	if p.Photo != "" {
		return p.Photo
	}
	return p.Image
}

func (p *mintPayload) x() string {
	if p.Twitter != "" {
		return p.Twitter
	}
	return p.X
}

// tokenFromMint builds a complete token record from a mint announcement. The
// record is inserted immediately so the token is visible before any price
// update arrives.
func tokenFromMint(p *mintPayload) models.Token {
	now := models.FlexTime(time.Now().UnixMilli())

	decimals := p.Decimals
	if decimals == 0 {
		decimals = 9
	}

	createdAt := p.CreatedAt
	if createdAt == 0 {
		createdAt = now
	}
	mintTime := p.MintTime
	if mintTime == 0 {
		mintTime = now
	}

	return models.Token{
		Address:     p.address(),
		Name:        p.name(),
		Symbol:      p.symbol(),
		Description: p.Description,
		Decimals:    decimals,
		Supply:      p.supply(),
		Photo:       p.photo(),
		MetadataURI: p.MetadataURI,
		Hardcap:     p.Hardcap,
		Website:     p.Website,
		X:           p.x(),
		Telegram:    p.Telegram,
		Version:     1,
		CreatedAt:   createdAt,
		MintTime:    mintTime,
	}
}

// isChatChannel reports whether a channel name is a per-token chat channel
// and returns the token address it belongs to.
func isChatChannel(channel string) (string, bool) {
	if !strings.HasPrefix(channel, ChatChannelPrefix) {
		return "", false
	}
	return strings.TrimPrefix(channel, ChatChannelPrefix), true
}
