package models

// Token represents one tradable launchpad token. The address is the unique
// key; market fields are optional and partially overwritten by push events.
type Token struct {
	Address     string   `json:"address"`
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description,omitempty"`
	Decimals    int      `json:"decimals"`
	Supply      float64  `json:"supply"`
	Photo       string   `json:"photo,omitempty"`
	MetadataURI string   `json:"metadataUri"`
	Hardcap     float64  `json:"hardcap"`
	Website     string   `json:"website,omitempty"`
	X           string   `json:"x,omitempty"`
	Telegram    string   `json:"telegram,omitempty"`
	Version     int      `json:"version"`
	CreatedAt   FlexTime `json:"createdAt,omitempty"`
	MintTime    FlexTime `json:"mint_time,omitempty"`
	MarketCap   float64  `json:"marketCap,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Volume24h   float64  `json:"volume24h,omitempty"`
	Holders     int      `json:"holders,omitempty"`
	// UpdatedAt is set only by the push-event merge path.
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// TokenPriceUpdate is the payload published on the token-updates channel.
type TokenPriceUpdate struct {
	Token        string   `json:"token"`
	Price        float64  `json:"price"`
	PriceUsd     float64  `json:"priceUsd"`
	VolumeSol    float64  `json:"volumeSol"`
	VolumeUsd    float64  `json:"volumeUsd"`
	Buys         int      `json:"buys"`
	Sells        int      `json:"sells"`
	TxCount      int      `json:"txCount"`
	LastTxTime   FlexTime `json:"last_tx_time"`
	MarketCapUsd float64  `json:"marketCapUsd"`
	Progress     float64  `json:"progress"`
	ProgressSol  float64  `json:"progressSol"`
	LastUpdated  FlexTime `json:"lastUpdated"`
}

// CreateTokenDraftDto is the request body for registering a token draft
// before the mint transaction is generated.
type CreateTokenDraftDto struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Description string  `json:"description,omitempty"`
	Decimals    int     `json:"decimals"`
	Supply      float64 `json:"supply"`
	Photo       string  `json:"photo,omitempty"`
	MetadataURI string  `json:"metadataUri"`
	Hardcap     float64 `json:"hardcap"`
	Website     string  `json:"website,omitempty"`
	X           string  `json:"x,omitempty"`
	Telegram    string  `json:"telegram,omitempty"`
	Version     int     `json:"version"`
}

// CreateTokenDraftResponse is the backend reply for a draft registration.
type CreateTokenDraftResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// GenerateTokenTxDto requests a server-built mint transaction.
type GenerateTokenTxDto struct {
	TokenName      string  `json:"tokenName"`
	TokenSymbol    string  `json:"tokenSymbol"`
	MetadataURI    string  `json:"metadataUri"`
	UserPubkey     string  `json:"userPubkey"`
	FirstBuyAmount float64 `json:"firstBuyAmount,omitempty"`
}

// GenerateTokenTxResponse carries the server-built transaction back.
type GenerateTokenTxResponse struct {
	Success                 bool   `json:"success"`
	SignedTransactionBase64 string `json:"signedTransactionBase64"`
	TokenMint               string `json:"tokenMint,omitempty"`
}
