package models

// UserProfile is the backend view of a wallet's public profile.
type UserProfile struct {
	Wallet             string   `json:"wallet"`
	Username           string   `json:"username,omitempty"`
	Bio                string   `json:"bio,omitempty"`
	Avatar             string   `json:"avatar,omitempty"`
	Website            string   `json:"website,omitempty"`
	X                  string   `json:"x,omitempty"`
	Telegram           string   `json:"telegram,omitempty"`
	CreatedAt          FlexTime `json:"createdAt,omitempty"`
	TotalTokensCreated int      `json:"totalTokensCreated,omitempty"`
	TotalTradingVolume float64  `json:"totalTradingVolume,omitempty"`
}

// ProfileDto is the profile-update request body.
type ProfileDto struct {
	Wallet   string `json:"wallet,omitempty"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Website  string `json:"website,omitempty"`
	X        string `json:"x,omitempty"`
	Telegram string `json:"telegram,omitempty"`
}

// PortfolioItem is one token position in a wallet's portfolio.
type PortfolioItem struct {
	Token         string  `json:"token"`
	TokenName     string  `json:"tokenName"`
	TokenSymbol   string  `json:"tokenSymbol"`
	Balance       float64 `json:"balance"`
	Value         float64 `json:"value"`
	Pnl           float64 `json:"pnl"`
	PnlPercentage float64 `json:"pnlPercentage"`
}

// Portfolio aggregates a wallet's positions.
type Portfolio struct {
	TotalValue         float64         `json:"totalValue"`
	TotalPnl           float64         `json:"totalPnl"`
	TotalPnlPercentage float64         `json:"totalPnlPercentage"`
	Tokens             []PortfolioItem `json:"tokens"`
}
