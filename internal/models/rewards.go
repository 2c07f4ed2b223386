package models

// Reward is one earned reward entry.
type Reward struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Amount      float64  `json:"amount"`
	Token       string   `json:"token,omitempty"`
	Description string   `json:"description"`
	Claimed     bool     `json:"claimed"`
	CreatedAt   FlexTime `json:"createdAt"`
	ClaimedAt   FlexTime `json:"claimedAt,omitempty"`
}

// RewardsPage is one page of the rewards listing.
type RewardsPage struct {
	Total  int      `json:"total"`
	Offset int      `json:"offset"`
	Limit  int      `json:"limit"`
	Data   []Reward `json:"data"`
}
