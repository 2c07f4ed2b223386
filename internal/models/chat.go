package models

// ChatMessage is one entry in a token's message log.
type ChatMessage struct {
	Token   string `json:"token"`
	Wallet  string `json:"wallet"`
	Message string `json:"message"`
	Time    int64  `json:"time"`
}

// ChatMessageDto is the outbound chat write. The signature proves wallet
// ownership over the canonical sign payload; producing it is the wallet
// boundary's job, not the chat store's.
type ChatMessageDto struct {
	Token     string `json:"token"`
	Wallet    string `json:"wallet"`
	Message   string `json:"message"`
	Signature string `json:"signature,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ChatSendResponse is the backend reply for a chat write.
type ChatSendResponse struct {
	Result string `json:"result"`
}
