package models

// Trade represents one executed trade for a token. Side is 1 for buy and -1
// for sell.
type Trade struct {
	Time   int64   `json:"time"`
	Token  string  `json:"token"`
	Maker  string  `json:"maker"`
	Side   int     `json:"side"`
	Sol    float64 `json:"sol"`
	Tokens float64 `json:"tokens"`
	Price  float64 `json:"price"`
	Tx     string  `json:"tx"`
	Block  int64   `json:"block"`
}
